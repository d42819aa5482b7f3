package storage

import (
	"context"
)

type ExecOptions struct {
	TimeoutSeconds int
}

// Row is one result record keyed by column name.
type Row = map[string]interface{}

type ExecuteResult struct {
	RowCount int
	Rows     []Row
}

// Empty reports whether the statement produced no rows.
func (r *ExecuteResult) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// RawExecutor executes parameterized statements against the listing store.
// Implementations return *apperr.DataStoreError on any execution failure; an
// empty result is never an error.
type RawExecutor interface {
	// Exec runs query with params bound positionally: params[i] binds $i+1.
	Exec(ctx context.Context, query string, params []interface{}, opts *ExecOptions) (*ExecuteResult, error)
}
