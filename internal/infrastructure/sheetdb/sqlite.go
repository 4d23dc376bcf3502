package sheetdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/ports"
)

var _ ports.StorageAdapter = (*SQLiteStore)(nil)

// SQLiteStore adaptador de almacenamiento sobre SQLite local (driver puro
// modernc.org/sqlite, sin cgo). Es el modo offline: misma semántica de hoja
// de filas ordenadas que el almacén remoto, persistida en un archivo.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore abre (o crea) la base en path y asegura el esquema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite %q: %w", path, err)
	}
	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close cierra la base.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS sheet_rows (
    sheet   TEXT    NOT NULL,
    row_idx INTEGER NOT NULL,
    cells   TEXT    NOT NULL,
    PRIMARY KEY (sheet, row_idx)
);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("crear esquema sqlite: %w", err)
	}
	return nil
}

// ReadAllRows devuelve las filas de la hoja en orden de índice.
func (s *SQLiteStore) ReadAllRows(ctx context.Context, ref ports.SheetRef) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY row_idx`, string(ref))
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", ref, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("leer hoja %q: %w", ref, err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("celdas corruptas en hoja %q: %w", ref, err)
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

// AppendRow anexa la fila al final (índice máximo + 1) en una transacción.
func (s *SQLiteStore) AppendRow(ctx context.Context, ref ports.SheetRef, row []string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var next int
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(row_idx)+1, 0) FROM sheet_rows WHERE sheet = ?`, string(ref)).Scan(&next)
		if err != nil {
			return err
		}
		return s.writeRow(ctx, tx, ref, next, row)
	})
}

// UpdateRange sobreescribe la región que empieza en rng.
func (s *SQLiteStore) UpdateRange(ctx context.Context, ref ports.SheetRef, rng ports.Range, values [][]string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return s.applyRange(ctx, tx, ref, rng, values)
	})
}

// BatchUpdate aplica todas las escrituras en una sola transacción.
func (s *SQLiteStore) BatchUpdate(ctx context.Context, ref ports.SheetRef, updates []ports.RangeUpdate) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, u := range updates {
			if err := s.applyRange(ctx, tx, ref, u.Range, u.Values); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) applyRange(ctx context.Context, tx *sql.Tx, ref ports.SheetRef, rng ports.Range, values [][]string) error {
	for i, vals := range values {
		idx := rng.StartRow + i
		var raw string
		existing := []string(nil)
		err := tx.QueryRowContext(ctx,
			`SELECT cells FROM sheet_rows WHERE sheet = ? AND row_idx = ?`, string(ref), idx).Scan(&raw)
		switch {
		case err == sql.ErrNoRows:
			// fila nueva
		case err != nil:
			return err
		default:
			if err := json.Unmarshal([]byte(raw), &existing); err != nil {
				return fmt.Errorf("celdas corruptas en fila %d: %w", idx, err)
			}
		}
		if err := s.writeRow(ctx, tx, ref, idx, mergeCells(existing, rng.StartCol, vals)); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) writeRow(ctx context.Context, tx *sql.Tx, ref ports.SheetRef, idx int, cells []string) error {
	raw, err := json.Marshal(cells)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO sheet_rows (sheet, row_idx, cells) VALUES (?, ?, ?)
ON CONFLICT (sheet, row_idx) DO UPDATE SET cells = excluded.cells`,
		string(ref), idx, string(raw))
	return err
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
