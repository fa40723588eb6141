package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/farma-analytics/internal/domain/repository"
)

var (
	_ repository.DocumentSource  = (*DocumentRepo)(nil)
	_ repository.SourceInspector = (*DocumentRepo)(nil)
)

// DocumentRepo fuente documental sobre PostgreSQL. Cada colección raíz
// (fac_ventas, cartera_actual, maestros, ...) es una fila de source_documents
// con el subárbol completo en la columna JSONB payload:
//
//	CREATE TABLE source_documents (
//	    path       TEXT PRIMARY KEY,
//	    payload    JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type DocumentRepo struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository construye el adaptador.
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

// Fetch devuelve el subárbol en path usando el operador #> sobre el payload.
func (r *DocumentRepo) Fetch(ctx context.Context, path string) (any, error) {
	root, rest := splitPath(path)
	if root == "" {
		return nil, nil
	}
	const query = `SELECT (payload #> $2::text[])::text FROM source_documents WHERE path = $1`

	var raw *string
	err := r.pool.QueryRow(ctx, query, root, rest).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		if isUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres.DocumentRepo.Fetch %s: %w", path, err)
	}
	if raw == nil {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(*raw)))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("postgres.DocumentRepo.Fetch %s: decode: %w", path, err)
	}
	return tree, nil
}

// Stats tamaño en bytes (NUMERIC) y última actualización de cada colección raíz.
func (r *DocumentRepo) Stats(ctx context.Context) ([]repository.DocumentStat, error) {
	const query = `
	SELECT path,
	       pg_column_size(payload)::numeric AS size_bytes,
	       updated_at
	FROM source_documents
	ORDER BY path`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		if isUndefinedTable(err) {
			return []repository.DocumentStat{}, nil
		}
		return nil, fmt.Errorf("postgres.DocumentRepo.Stats: %w", err)
	}
	defer rows.Close()

	out := make([]repository.DocumentStat, 0, 8)
	for rows.Next() {
		var (
			st   repository.DocumentStat
			size decimal.Decimal
			upd  time.Time
		)
		if err := rows.Scan(&st.Path, &size, &upd); err != nil {
			return nil, fmt.Errorf("postgres.DocumentRepo.Stats scan: %w", err)
		}
		st.SizeBytes = size
		st.UpdatedAt = upd
		out = append(out, st)
	}
	return out, rows.Err()
}
