package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/aduana/pkg/aduana/store"
)

func openTest(t *testing.T) store.Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "aduana.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func rec(day int, principal string, valor float64) store.Record {
	return store.Record{
		Fecha:            time.Date(2023, 6, day, 0, 0, 0, 0, time.UTC),
		Continente:       "América del Sur",
		Pais:             "chile",
		FiltroPrincipal:  principal,
		FiltroSecundario: "arado",
		SegmentoProducto: "NO CLASIFICADO",
		ValorCIF:         valor,
		Producto:         "Arado X",
	}
}

func TestReplaceAndSnapshot(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	recs := []store.Record{rec(1, "kuhn", 100), rec(2, "claas", 200)}
	sum := store.RunSummary{RunID: "01RUN", Project: "demo", FinishedAt: time.Now(), RowsIn: 3, RowsOut: 2, DroppedSinValor: 1}
	if err := s.ReplaceSnapshot(ctx, "demo", recs, sum); err != nil {
		t.Fatalf("ReplaceSnapshot: %v", err)
	}

	got, err := s.Snapshot(ctx, "demo")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].FiltroPrincipal != "kuhn" || !got[0].Fecha.Equal(recs[0].Fecha) {
		t.Fatalf("record round trip: %+v", got[0])
	}
	if got[1].ValorCIF != 200 {
		t.Fatalf("valor round trip: %+v", got[1])
	}
}

// A re-run fully replaces the prior snapshot, it never merges.
func TestReplaceNotMerge(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	first := []store.Record{rec(1, "kuhn", 100), rec(2, "kuhn", 150)}
	if err := s.ReplaceSnapshot(ctx, "demo", first, store.RunSummary{RunID: "01A", Project: "demo", FinishedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	second := []store.Record{rec(3, "claas", 300)}
	if err := s.ReplaceSnapshot(ctx, "demo", second, store.RunSummary{RunID: "01B", Project: "demo", FinishedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Snapshot(ctx, "demo")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].FiltroPrincipal != "claas" {
		t.Fatalf("snapshot after re-run: %+v", got)
	}
}

// Snapshots are project-scoped.
func TestProjectIsolation(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	if err := s.ReplaceSnapshot(ctx, "uno", []store.Record{rec(1, "kuhn", 100)}, store.RunSummary{RunID: "01U", Project: "uno", FinishedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceSnapshot(ctx, "dos", []store.Record{rec(2, "claas", 200)}, store.RunSummary{RunID: "01D", Project: "dos", FinishedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	uno, err := s.Snapshot(ctx, "uno")
	if err != nil {
		t.Fatal(err)
	}
	if len(uno) != 1 || uno[0].FiltroPrincipal != "kuhn" {
		t.Fatalf("project uno: %+v", uno)
	}
}

func TestLastRun(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	if _, found, err := s.LastRun(ctx, "demo"); err != nil || found {
		t.Fatalf("LastRun on empty store: %v found=%v", err, found)
	}

	early := store.RunSummary{RunID: "01A", Project: "demo", FinishedAt: time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC), RowsIn: 5, RowsOut: 4, DroppedSinFecha: 1}
	late := store.RunSummary{RunID: "01B", Project: "demo", FinishedAt: time.Date(2023, 6, 2, 10, 0, 0, 0, time.UTC), RowsIn: 6, RowsOut: 6}
	if err := s.ReplaceSnapshot(ctx, "demo", nil, early); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceSnapshot(ctx, "demo", nil, late); err != nil {
		t.Fatal(err)
	}

	sum, found, err := s.LastRun(ctx, "demo")
	if err != nil || !found {
		t.Fatalf("LastRun: %v found=%v", err, found)
	}
	if sum.RunID != "01B" || sum.RowsOut != 6 {
		t.Fatalf("latest run: %+v", sum)
	}
}
