// Package search resolves free-text listing searches through a fixed cascade
// of strategies: fuzzy similarity, then full-text rank, then exact substring.
// A term-less query returns a plain page.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/letspunt/adpage/internal/apperr"
	"github.com/letspunt/adpage/internal/domain"
	"github.com/letspunt/adpage/internal/storage"
)

// tier is one cascade state. next is the state entered when the tier
// produced no rows; StrategyNone makes the tier terminal.
type tier struct {
	build func(Query, Config) statement
	next  Strategy
}

var cascade = map[Strategy]tier{
	StrategyPlain:    {build: plainStatement, next: StrategyNone},
	StrategyFuzzy:    {build: fuzzyStatement, next: StrategyFullText},
	StrategyFullText: {build: fullTextStatement, next: StrategyExact},
	StrategyExact:    {build: exactStatement, next: StrategyNone},
}

type Resolver struct {
	exec storage.RawExecutor
	cfg  Config
}

func NewResolver(exec storage.RawExecutor, cfg Config) *Resolver {
	return &Resolver{exec: exec, cfg: cfg}
}

// Config returns the tuning the resolver was built with.
func (r *Resolver) Config() Config {
	return r.cfg
}

func entryState(q Query) Strategy {
	if !q.HasTerm() {
		return StrategyPlain
	}
	return StrategyFuzzy
}

// Resolve runs the cascade for q. Tiers execute sequentially and the next
// tier starts only after the previous one returned zero rows. A store
// failure at any tier ends the cascade with a *apperr.DataStoreError.
func (r *Resolver) Resolve(ctx context.Context, q Query) (*ResultPage, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	state := entryState(q)
	for {
		t := cascade[state]
		stmt := t.build(q, r.cfg)

		var rows []storage.Row
		if stmt.skip {
			slog.Debug("Skipping search tier", "strategy", state, "term", q.Term())
		} else {
			slog.Info("Executing pg search tier", "strategy", state, "term", q.Term(), "page", q.Page.Page, "size", q.Page.Size)

			res, err := r.exec.Exec(ctx, stmt.sql, stmt.params, nil)
			if err != nil {
				return nil, storeError(state, err)
			}
			if !res.Empty() {
				rows = res.Rows
			}
		}

		if len(rows) > 0 || t.next == StrategyNone {
			return r.page(q, state, rows)
		}
		state = t.next
	}
}

func storeError(state Strategy, err error) error {
	var de *apperr.DataStoreError
	if errors.As(err, &de) {
		return fmt.Errorf("%s search: %w", state, err)
	}
	return apperr.NewDataStore(string(state)+" search", err)
}

func (r *Resolver) page(q Query, s Strategy, rows []storage.Row) (*ResultPage, error) {
	data := make([]domain.ListingSummary, 0, len(rows))
	for i, row := range rows {
		summary, err := toSummary(row, r.cfg.ScoreDecimals)
		if err != nil {
			return nil, apperr.NewDataStore(string(s)+" search", fmt.Errorf("row %d: %w", i, err))
		}
		data = append(data, summary)
	}

	return &ResultPage{
		Rows:       data,
		SearchTerm: q.RawTerm,
		Page:       q.Page.Page,
		PageSize:   q.Page.Size,
		Strategy:   s,
	}, nil
}
