package vocab

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestAdd(t *testing.T) {
	d := New()
	if !d.Add("Kuhn S.A.", "Modelo-3") {
		t.Fatal("first add must change the dictionary")
	}
	if d.Add("kuhn sa", "modelo 3") {
		t.Fatal("equivalent spellings must collide to the same entry")
	}
	if !d.Has("kuhnsa") {
		t.Fatalf("primaries = %v", d.Primaries())
	}
	if got := d.Secondaries("kuhnsa"); len(got) != 1 || got[0] != "modelo3" {
		t.Fatalf("secondaries = %v", got)
	}

	// Empty secondary still creates the key.
	if !d.Add("claas", "") {
		t.Fatal("key creation must count as a change")
	}
	if got := d.Secondaries("claas"); len(got) != 0 {
		t.Fatalf("claas secondaries = %v", got)
	}
}

func TestLearnIdempotent(t *testing.T) {
	pairs := []Pair{
		{Principal: "kuhn", Secundario: "arado x"},
		{Principal: "kuhn", Secundario: "arado y"},
		{Principal: "claas", Secundario: "jaguar"},
		{Principal: "kuhn", Secundario: "arado x"},
	}

	d := New()
	if added := d.Learn(pairs); added == 0 {
		t.Fatal("first pass must add entries")
	}
	before := snapshot(d)

	if added := d.Learn(pairs); added != 0 {
		t.Fatalf("second pass added %d entries, want 0", added)
	}
	if after := snapshot(d); !reflect.DeepEqual(before, after) {
		t.Fatalf("dictionary changed on re-learn: %v -> %v", before, after)
	}
}

func TestLearnIsAdditive(t *testing.T) {
	d := New()
	d.Add("kuhn", "viejo")
	d.Learn([]Pair{{Principal: "kuhn", Secundario: "nuevo"}})

	got := d.Secondaries("kuhn")
	if len(got) != 2 || got[0] != "viejo" || got[1] != "nuevo" {
		t.Fatalf("existing entries must survive learning: %v", got)
	}
}

func TestRenamePrimaryMerges(t *testing.T) {
	d := New()
	d.Add("kuhn", "a")
	d.Add("kuhn", "b")
	d.Add("khun", "b")
	d.Add("khun", "c")

	if !d.RenamePrimary("khun", "kuhn") {
		t.Fatal("rename should succeed")
	}
	if d.Has("khun") {
		t.Fatal("old key must be gone")
	}
	got := d.Secondaries("kuhn")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merged values = %v, want %v", got, want)
	}
}

func TestRenameSecondary(t *testing.T) {
	d := New()
	d.Add("kuhn", "aradox")
	d.Add("kuhn", "aradoy")

	if !d.RenameSecondary("kuhn", "aradox", "Arado Z") {
		t.Fatal("rename should succeed")
	}
	got := d.Secondaries("kuhn")
	if len(got) != 2 || got[0] != "aradoz" {
		t.Fatalf("secondaries = %v", got)
	}

	// Renaming onto an existing value drops the old one.
	if !d.RenameSecondary("kuhn", "aradoz", "aradoy") {
		t.Fatal("rename onto existing should succeed")
	}
	if got := d.Secondaries("kuhn"); len(got) != 1 || got[0] != "aradoy" {
		t.Fatalf("secondaries = %v", got)
	}
}

func TestDelete(t *testing.T) {
	d := New()
	d.Add("kuhn", "a")
	d.Add("kuhn", "b")

	if !d.DeleteSecondary("kuhn", "a") {
		t.Fatal("delete existing value")
	}
	if d.DeleteSecondary("kuhn", "a") {
		t.Fatal("double delete must report false")
	}
	if !d.DeleteSecondary("kuhn", "b") {
		t.Fatal("delete last value")
	}
	if d.Has("kuhn") {
		t.Fatal("empty key must be removed")
	}

	d.Add("claas", "jaguar")
	if !d.DeletePrimary("claas") || d.Len() != 0 {
		t.Fatal("DeletePrimary")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := New()
	d.Add("kuhn", "arado x")
	d.Add("claas", "jaguar")

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}

	restored := New()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(snapshot(d), snapshot(restored)) {
		t.Fatalf("round trip mismatch: %v vs %v", snapshot(d), snapshot(restored))
	}
}

func snapshot(d *Dictionary) map[string][]string {
	out := make(map[string][]string)
	for _, p := range d.Primaries() {
		out[p] = d.Secondaries(p)
	}
	return out
}
