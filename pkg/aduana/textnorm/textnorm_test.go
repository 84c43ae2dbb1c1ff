package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Máquina Agrícola", "maquina agricola"},
		{"CAFÉ", "cafe"},
		{"ya limpio", "ya limpio"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCanonicalKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Kuhn-Modelo 3", "kuhnmodelo3"},
		{"kuhn modelo3", "kuhnmodelo3"},
		{"  Claas / Jaguar  ", "claasjaguar"},
		{"", ""},
		{"---", ""},
	}
	for _, c := range cases {
		if got := CanonicalKey(c.in); got != c.want {
			t.Errorf("CanonicalKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// Punctuation, casing and accents must never produce distinct keys.
func TestCanonicalKeyCollision(t *testing.T) {
	if a, b := CanonicalKey("Kuhn S.A."), CanonicalKey("kuhn sa"); a != b {
		t.Fatalf("keys diverge: %q vs %q", a, b)
	}
	if a, b := CanonicalKey("Jacto Máquinas"), CanonicalKey("JACTO maquinas"); a != b {
		t.Fatalf("keys diverge: %q vs %q", a, b)
	}
}

func TestCleanTariffCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"8432.10", "843210"},
		{"8432.0010", "84320010"},
		{"1234.0", "1234"},
		{"1234.00", "1234"},
		{" 8432-10 ", "843210"},
		{"843210", "843210"},
		{"sin codigo", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := CleanTariffCode(c.in); got != c.want {
			t.Errorf("CleanTariffCode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// A float-rendered code and its hand-written digits-only form must share a key.
func TestCleanTariffCodeFloatRendering(t *testing.T) {
	if a, b := CleanTariffCode("1234.0"), CleanTariffCode("1234"); a != b {
		t.Fatalf("float rendering diverges: %q vs %q", a, b)
	}
}
