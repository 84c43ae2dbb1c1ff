package store

import (
	"context"
	"time"
)

// Record is one canonical, analysis-ready row. Fecha and ValorCIF are always
// present; rows that could not produce them never reach the store.
type Record struct {
	Fecha              time.Time
	Continente         string
	Pais               string
	CodigoArancel      string
	DescripcionArancel string
	FiltroPrincipal    string
	FiltroSecundario   string
	SegmentoProducto   string
	ValorCIF           float64
	Producto           string
}

// RunSummary describes one pipeline run. Dropped-row counts make silent data
// loss observable to operators.
type RunSummary struct {
	RunID             string
	Project           string
	FinishedAt        time.Time
	RowsIn            int
	RowsOut           int
	DroppedSinFecha   int
	DroppedSinValor   int
	DroppedDuplicados int
}

// Store persists canonical record snapshots per project. A snapshot is fully
// replaced on each run, never merged; the prior snapshot must stay readable
// until the replacement is completely written.
type Store interface {
	Close() error

	// ReplaceSnapshot atomically swaps a project's snapshot and records the
	// run summary.
	ReplaceSnapshot(ctx context.Context, project string, recs []Record, sum RunSummary) error

	// Snapshot returns a project's current canonical record set.
	Snapshot(ctx context.Context, project string) ([]Record, error)

	// LastRun returns the most recent run summary for a project.
	LastRun(ctx context.Context, project string) (RunSummary, bool, error)
}
