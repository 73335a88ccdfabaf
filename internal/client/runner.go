package client

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"

	"gremlinbridge/internal/config"
	"gremlinbridge/internal/errs"
)

// Result is the outcome of one query: its batch of raw results, or the error that
// replaced it.
type Result struct {
	Query string
	Batch []any
	Err   error
}

// Runner issues queries to a Transport sequentially, in input order.
type Runner struct {
	transport Transport
	log       config.Logger
	metrics   *Metrics
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(log config.Logger) RunnerOption {
	return func(r *Runner) { r.log = log }
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner returns a runner over t.
func NewRunner(t Transport, opts ...RunnerOption) *Runner {
	r := &Runner{transport: t, log: config.NopLogger()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run lazily submits each query when the consumer pulls its result. A failed query yields
// a Result carrying the error and the run continues with the next query; the consumer
// decides whether to stop. A cancelled context yields one error Result and ends the run.
func (r *Runner) Run(ctx context.Context, queries iter.Seq[string]) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		run := uuid.NewString()

		for q := range queries {
			if err := ctx.Err(); err != nil {
				yield(Result{Query: q, Err: &errs.QueryError{Query: q, Err: err}})
				return
			}

			res := r.submit(ctx, run, q)
			if !yield(res) {
				return
			}
			if res.Err != nil {
				r.log.Infow("resuming after failed query", "run", run)
			}
		}
	}
}

func (r *Runner) submit(ctx context.Context, run, q string) Result {
	r.log.Debugw("query", "run", run, "query", q)

	start := time.Now()
	batch, err := r.transport.Submit(ctx, q)
	if err == nil && batch == nil {
		err = errs.ErrNoResult
	}
	r.metrics.observe(start, err)

	if err != nil {
		r.log.Errorw("query failed", "run", run, "query", q, "error", err)
		return Result{Query: q, Err: &errs.QueryError{Query: q, Err: err}}
	}
	r.log.Debugw("query succeeded", "run", run, "results", len(batch))
	return Result{Query: q, Batch: batch}
}

// Collect drains results into their batches. In strict mode the first error stops the
// run and is returned; otherwise failed queries are dropped.
func Collect(results iter.Seq[Result], strict bool) ([][]any, error) {
	var batches [][]any
	for res := range results {
		if res.Err != nil {
			if strict {
				return batches, res.Err
			}
			continue
		}
		batches = append(batches, res.Batch)
	}
	return batches, nil
}
