// Package storagetest provides a scripted storage.RawExecutor for unit tests.
package storagetest

import (
	"context"
	"sync"

	"github.com/letspunt/adpage/internal/storage"
)

// Call is one recorded Exec invocation.
type Call struct {
	Query  string
	Params []interface{}
}

// Response is returned for one Exec call, in order.
type Response struct {
	Rows []storage.Row
	Err  error
}

// Executor replays Responses in call order and records every call. Calls
// beyond the script return an empty result.
type Executor struct {
	mu        sync.Mutex
	responses []Response
	calls     []Call
}

func NewExecutor(responses ...Response) *Executor {
	return &Executor{responses: responses}
}

func (e *Executor) Exec(ctx context.Context, query string, params []interface{}, _ *storage.ExecOptions) (*storage.ExecuteResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls = append(e.calls, Call{Query: query, Params: params})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx := len(e.calls) - 1
	if idx >= len(e.responses) {
		return &storage.ExecuteResult{Rows: []storage.Row{}}, nil
	}

	r := e.responses[idx]
	if r.Err != nil {
		return nil, r.Err
	}
	return &storage.ExecuteResult{RowCount: len(r.Rows), Rows: r.Rows}, nil
}

func (e *Executor) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Call, len(e.calls))
	copy(out, e.calls)
	return out
}

var _ storage.RawExecutor = (*Executor)(nil)
