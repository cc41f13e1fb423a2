package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/checklist"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Snapshot is everything written to a SQLite export.
type Snapshot struct {
	Result     checklist.Result
	Rows       []checklist.Row
	ExportedAt time.Time
}

// NewSnapshot captures the current state of e.
func NewSnapshot(e *checklist.Engine, at time.Time) Snapshot {
	return Snapshot{
		Result:     e.Result(),
		Rows:       e.ExportRows(),
		ExportedAt: at.UTC(),
	}
}

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS evaluation (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id  TEXT    NOT NULL,
		mode        TEXT    NOT NULL,
		total       INTEGER NOT NULL,
		answered    INTEGER NOT NULL,
		compliant   INTEGER NOT NULL,
		percentage  REAL    NOT NULL,
		tier        TEXT    NOT NULL,
		label       TEXT    NOT NULL,
		heading     TEXT    NOT NULL,
		exported_at TEXT    NOT NULL
	);

	CREATE TABLE IF NOT EXISTS evaluation_rows (
		evaluation_id INTEGER NOT NULL REFERENCES evaluation(id),
		position      INTEGER NOT NULL,
		label         TEXT    NOT NULL,
		value         TEXT    NOT NULL,
		PRIMARY KEY (evaluation_id, position)
	);
`

// WriteSQLite appends snap to the SQLite file at path, creating the file and
// schema when missing, and returns the new evaluation id. The file is a
// write-only artifact: nothing in the engine reads it back.
func WriteSQLite(ctx context.Context, path string, snap Snapshot) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("export: create dir: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return 0, fmt.Errorf("export: open database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return 0, fmt.Errorf("export: pragma: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return 0, fmt.Errorf("export: schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("export: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	r := snap.Result
	res, err := tx.ExecContext(ctx,
		`INSERT INTO evaluation (session_id, mode, total, answered, compliant, percentage, tier, label, heading, exported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, string(r.Mode), r.Total, r.Answered, r.Compliant, r.Percentage,
		string(r.Tier), r.Copy.Label, r.Copy.Heading, snap.ExportedAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("export: insert evaluation: %w", err)
	}
	evalID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("export: evaluation id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO evaluation_rows (evaluation_id, position, label, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("export: prepare rows: %w", err)
	}
	defer stmt.Close()

	for i, row := range snap.Rows {
		if _, err := stmt.ExecContext(ctx, evalID, i+1, row.Label, row.Value); err != nil {
			return 0, fmt.Errorf("export: insert row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("export: commit: %w", err)
	}
	return evalID, nil
}
