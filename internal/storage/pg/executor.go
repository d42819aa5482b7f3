package pg

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/letspunt/adpage/internal/apperr"
	"github.com/letspunt/adpage/internal/storage"
)

type RawExecutor struct {
	db *pgxpool.Pool
}

func NewRawExecutor(pool *ConnectionPool) *RawExecutor {
	return &RawExecutor{db: pool.GetConn()}
}

func (e *RawExecutor) Exec(
	ctx context.Context,
	query string,
	params []interface{},
	opts *storage.ExecOptions) (*storage.ExecuteResult, error) {
	queryCtx, cancel := e.newQueryCtx(ctx, opts)
	defer cancel()

	rows, err := e.db.Query(queryCtx, query, params...)
	if err != nil {
		slog.Error("Failed to execute statement", "error", err)
		return nil, apperr.NewDataStore("query", err)
	}
	defer rows.Close()

	results := make([]storage.Row, 0)
	fields := rows.FieldDescriptions()

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, apperr.NewDataStore("scan", err)
		}

		row := make(storage.Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.NewDataStore("rows", err)
	}

	return &storage.ExecuteResult{
		RowCount: len(results),
		Rows:     results,
	}, nil
}

func (e *RawExecutor) newQueryCtx(ctx context.Context, opts *storage.ExecOptions) (context.Context, context.CancelFunc) {
	if opts != nil && opts.TimeoutSeconds > 0 {
		return context.WithTimeout(ctx, time.Duration(opts.TimeoutSeconds)*time.Second)
	}
	return ctx, func() {}
}

var _ storage.RawExecutor = (*RawExecutor)(nil)
