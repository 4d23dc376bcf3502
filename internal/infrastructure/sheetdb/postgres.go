package sheetdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/ports"
)

var _ ports.StorageAdapter = (*PostgresStore)(nil)

// PostgresStore adaptador de almacenamiento sobre PostgreSQL (modo
// hospedado, varias instancias de la aplicación contra el mismo almacén).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPool crea el pool de conexiones con el codec NUMERIC→decimal registrado
// en cada conexión.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	// Codec NUMERIC/DECIMAL -> shopspring/decimal en todas las conexiones.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// NewPostgresStore construye el adaptador y asegura el esquema.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS sheet_rows (
    sheet   TEXT    NOT NULL,
    row_idx INTEGER NOT NULL,
    cells   JSONB   NOT NULL,
    PRIMARY KEY (sheet, row_idx)
)`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("crear esquema postgres: %w", err)
	}
	return nil
}

// ReadAllRows devuelve las filas de la hoja en orden de índice.
func (s *PostgresStore) ReadAllRows(ctx context.Context, ref ports.SheetRef) ([][]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = $1 ORDER BY row_idx`, string(ref))
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", ref, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var cells []string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("leer hoja %q: %w", ref, err)
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

// AppendRow anexa la fila al final dentro de una transacción.
func (s *PostgresStore) AppendRow(ctx context.Context, ref ports.SheetRef, row []string) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		var next int
		err := tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(row_idx)+1, 0) FROM sheet_rows WHERE sheet = $1`, string(ref)).Scan(&next)
		if err != nil {
			return err
		}
		return writeRowTx(ctx, tx, ref, next, row)
	})
}

// UpdateRange sobreescribe la región que empieza en rng.
func (s *PostgresStore) UpdateRange(ctx context.Context, ref ports.SheetRef, rng ports.Range, values [][]string) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		return applyRangeTx(ctx, tx, ref, rng, values)
	})
}

// BatchUpdate aplica todas las escrituras en una sola transacción.
func (s *PostgresStore) BatchUpdate(ctx context.Context, ref ports.SheetRef, updates []ports.RangeUpdate) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		for _, u := range updates {
			if err := applyRangeTx(ctx, tx, ref, u.Range, u.Values); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyRangeTx(ctx context.Context, tx pgx.Tx, ref ports.SheetRef, rng ports.Range, values [][]string) error {
	for i, vals := range values {
		idx := rng.StartRow + i
		var existing []string
		err := tx.QueryRow(ctx,
			`SELECT cells FROM sheet_rows WHERE sheet = $1 AND row_idx = $2 FOR UPDATE`,
			string(ref), idx).Scan(&existing)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if err := writeRowTx(ctx, tx, ref, idx, mergeCells(existing, rng.StartCol, vals)); err != nil {
			return err
		}
	}
	return nil
}

func writeRowTx(ctx context.Context, tx pgx.Tx, ref ports.SheetRef, idx int, cells []string) error {
	_, err := tx.Exec(ctx, `
INSERT INTO sheet_rows (sheet, row_idx, cells) VALUES ($1, $2, $3)
ON CONFLICT (sheet, row_idx) DO UPDATE SET cells = EXCLUDED.cells`,
		string(ref), idx, cells)
	return err
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
