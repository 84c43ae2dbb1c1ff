package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/aduana/pkg/aduana/colmap"
	"github.com/cognicore/aduana/pkg/aduana/internalerr"
	"github.com/cognicore/aduana/pkg/aduana/segment"
	"github.com/cognicore/aduana/pkg/aduana/vocab"
)

func TestMappingRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	m := colmap.Mapping{
		FiltroPrincipal:  "marca",
		FiltroSecundario: "producto",
		ValorNumerico:    "valor cif",
		Pais:             "pais origen",
		ConfigFecha:      colmap.DateConfig{Tipo: colmap.DateSplit, Ano: "año", Mes: "mes", Dia: "dia"},
	}
	if err := s.SaveMapping("demo", m); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadMapping("demo")
	if err != nil {
		t.Fatal(err)
	}
	if got != m {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, m)
	}
}

func TestLoadMappingMissing(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.LoadMapping("nadie")
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("missing mapping: got %v", err)
	}
}

// The legacy system nested the mapping under "mapeo_columnas" with a
// "config_fecha" block; documents written by it must decode unchanged.
func TestLoadMappingLegacyDocument(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	doc := `{
    "mapeo_columnas": {
        "filtro_principal": "MARCA",
        "filtro_secundario_base": "MODELO",
        "valor_numerico": "CIF US$",
        "pais": "PAIS ORIGEN",
        "config_fecha": {"tipo": "Una sola columna", "fecha_completa": "FECHA"}
    }
}`
	if err := os.MkdirAll(filepath.Join(dir, "legado"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "legado", "config.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := s.LoadMapping("legado")
	if err != nil {
		t.Fatal(err)
	}
	if m.FiltroPrincipal != "MARCA" || m.ConfigFecha.Tipo != colmap.DateSingle || m.ConfigFecha.FechaCompleta != "FECHA" {
		t.Fatalf("legacy decode: %+v", m)
	}
}

func TestDictionaryRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	// Missing file degrades to empty.
	if d := s.LoadDictionary("demo"); d.Len() != 0 {
		t.Fatalf("expected empty dictionary, got %d keys", d.Len())
	}

	d := vocab.New()
	d.Add("kuhn", "arado x")
	if err := s.SaveDictionary("demo", d); err != nil {
		t.Fatal(err)
	}

	got := s.LoadDictionary("demo")
	if !got.Has("kuhn") {
		t.Fatalf("primaries = %v", got.Primaries())
	}
}

func TestRulesRoundTripPreservesOrder(t *testing.T) {
	s := NewStore(t.TempDir())
	rs := segment.New([]segment.Rule{
		{Label: "Z", Keywords: []string{"zeta"}},
		{Label: "A", Keywords: []string{"alfa"}},
	})
	if err := s.SaveRules("demo", rs); err != nil {
		t.Fatal(err)
	}

	got := s.LoadRules("demo").Rules()
	if len(got) != 2 || got[0].Label != "Z" || got[1].Label != "A" {
		t.Fatalf("declared order lost: %+v", got)
	}
}

// Legacy segmentacion.json was an object keyed by label, written with sorted
// keys; it must still load, ordered by label.
func TestRulesLegacyObjectForm(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	doc := `{"COSECHA": ["cosechadora"], "SIEMBRA": ["sembradora"]}`
	if err := os.MkdirAll(filepath.Join(dir, "legado"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "legado", "segmentacion.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	got := s.LoadRules("legado").Rules()
	if len(got) != 2 || got[0].Label != "COSECHA" || got[1].Label != "SIEMBRA" {
		t.Fatalf("legacy rules: %+v", got)
	}
}

func TestProcessedLog(t *testing.T) {
	s := NewStore(t.TempDir())

	log := s.LoadProcessedLog("demo")
	if log.Seen("datos.xlsx", 1024) {
		t.Fatal("empty log should not know any file")
	}
	log.Record("datos.xlsx", 1024)
	if err := s.SaveProcessedLog("demo", log); err != nil {
		t.Fatal(err)
	}

	restored := s.LoadProcessedLog("demo")
	if !restored.Seen("datos.xlsx", 1024) {
		t.Fatal("same name and size must be flagged as duplicate")
	}
	// Same name, different size means a different upload.
	if restored.Seen("datos.xlsx", 2048) {
		t.Fatal("different size must not be flagged")
	}
}

func TestDataDir(t *testing.T) {
	s := NewStore("/var/proyectos")
	want := filepath.Join("/var/proyectos", "demo", "data")
	if got := s.DataDir("demo"); got != want {
		t.Fatalf("DataDir = %q, want %q", got, want)
	}
}
