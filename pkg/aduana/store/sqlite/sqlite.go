package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/aduana/pkg/aduana/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and the snapshot schema
// initialized.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS registros (
	proyecto TEXT NOT NULL,
	fecha TEXT NOT NULL,
	continente TEXT,
	pais TEXT,
	codigo_arancel TEXT,
	descripcion_arancel TEXT,
	filtro_principal TEXT,
	filtro_secundario TEXT,
	segmento_producto TEXT,
	valor_cif REAL NOT NULL,
	producto TEXT
);

CREATE INDEX IF NOT EXISTS idx_registros_proyecto ON registros(proyecto);

CREATE TABLE IF NOT EXISTS corridas (
	run_id TEXT PRIMARY KEY,
	proyecto TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	rows_in INTEGER NOT NULL,
	rows_out INTEGER NOT NULL,
	dropped_sin_fecha INTEGER NOT NULL,
	dropped_sin_valor INTEGER NOT NULL,
	dropped_duplicados INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_corridas_proyecto ON corridas(proyecto, finished_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

const dateLayout = "2006-01-02"

// ReplaceSnapshot swaps a project's snapshot inside one transaction: the
// prior snapshot stays valid until commit.
func (s *sqliteStore) ReplaceSnapshot(ctx context.Context, project string, recs []store.Record, sum store.RunSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM registros WHERE proyecto = ?", project); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO registros (proyecto, fecha, continente, pais, codigo_arancel,
			descripcion_arancel, filtro_principal, filtro_secundario,
			segmento_producto, valor_cif, producto)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx, project, r.Fecha.Format(dateLayout),
			r.Continente, r.Pais, r.CodigoArancel, r.DescripcionArancel,
			r.FiltroPrincipal, r.FiltroSecundario, r.SegmentoProducto,
			r.ValorCIF, r.Producto); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO corridas (run_id, proyecto, finished_at, rows_in, rows_out,
			dropped_sin_fecha, dropped_sin_valor, dropped_duplicados)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.RunID, project, sum.FinishedAt.UTC().Format(time.RFC3339),
		sum.RowsIn, sum.RowsOut, sum.DroppedSinFecha, sum.DroppedSinValor,
		sum.DroppedDuplicados); err != nil {
		return err
	}

	return tx.Commit()
}

// Snapshot returns a project's current canonical record set.
func (s *sqliteStore) Snapshot(ctx context.Context, project string) ([]store.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fecha, continente, pais, codigo_arancel, descripcion_arancel,
			filtro_principal, filtro_secundario, segmento_producto, valor_cif, producto
		FROM registros WHERE proyecto = ? ORDER BY rowid`, project)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Record
	for rows.Next() {
		var r store.Record
		var fecha string
		if err := rows.Scan(&fecha, &r.Continente, &r.Pais, &r.CodigoArancel,
			&r.DescripcionArancel, &r.FiltroPrincipal, &r.FiltroSecundario,
			&r.SegmentoProducto, &r.ValorCIF, &r.Producto); err != nil {
			return nil, err
		}
		t, err := time.Parse(dateLayout, fecha)
		if err != nil {
			return nil, err
		}
		r.Fecha = t
		out = append(out, r)
	}
	return out, rows.Err()
}

// LastRun returns the most recent run summary for a project.
func (s *sqliteStore) LastRun(ctx context.Context, project string) (store.RunSummary, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, proyecto, finished_at, rows_in, rows_out,
			dropped_sin_fecha, dropped_sin_valor, dropped_duplicados
		FROM corridas WHERE proyecto = ?
		ORDER BY finished_at DESC, run_id DESC LIMIT 1`, project)

	var sum store.RunSummary
	var finished string
	err := row.Scan(&sum.RunID, &sum.Project, &finished, &sum.RowsIn, &sum.RowsOut,
		&sum.DroppedSinFecha, &sum.DroppedSinValor, &sum.DroppedDuplicados)
	if err == sql.ErrNoRows {
		return store.RunSummary{}, false, nil
	}
	if err != nil {
		return store.RunSummary{}, false, err
	}
	t, err := time.Parse(time.RFC3339, finished)
	if err != nil {
		return store.RunSummary{}, false, err
	}
	sum.FinishedAt = t
	return sum, true, nil
}
