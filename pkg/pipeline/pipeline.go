package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rogue3/dungeonforge/pkg/rng"
)

// defaultSnapshotCapacity bounds the snapshot buffer when a Pipeline is
// built without an explicit WithSnapshotCapacity option, keeping memory
// use flat regardless of how many passes a generator chains together.
const defaultSnapshotCapacity = 8

// Pipeline is a frozen, ordered sequence of passes. Build one with New,
// then call Run once per generation; a Pipeline has no mutable state of
// its own and is safe to reuse and share across goroutines.
type Pipeline struct {
	passes           []Pass
	snapshotCapacity int
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithSnapshotCapacity overrides how many recent pass outputs Run retains
// for inspection after a failed or completed run.
func WithSnapshotCapacity(n int) Option {
	return func(p *Pipeline) { p.snapshotCapacity = n }
}

// New builds a Pipeline from an ordered list of passes, verifying that
// each pass's declared output type matches the next pass's declared
// input type. Returns ErrTypeMismatch if any adjacent pair disagrees.
func New(passes []Pass, opts ...Option) (*Pipeline, error) {
	for i := 1; i < len(passes); i++ {
		prev, cur := passes[i-1], passes[i]
		if prev.OutputType() != cur.InputType() {
			return nil, &PassError{
				PassID: cur.ID(),
				Index:  i,
				Err:    fmt.Errorf("%w: %s != %s", ErrTypeMismatch, prev.OutputType(), cur.InputType()),
			}
		}
	}
	p := &Pipeline{passes: passes, snapshotCapacity: defaultSnapshotCapacity}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Result is the outcome of a completed or aborted Pipeline.Run.
type Result struct {
	Output    any
	Trace     *Trace
	Snapshots []Snapshot
}

// Run executes every pass in order, threading each pass's output into
// the next pass's input, starting from seed input bootstrap. streams
// supplies the four RNG streams for the run; seed is recorded on the
// PipelineContext for passes that need it.
//
// If ctx carries a deadline and that deadline is exceeded mid-run, Run
// returns an error wrapping ErrTimeout. If ctx is cancelled directly
// (without a deadline, or before one elapses), Run returns an error
// wrapping ErrCancelled. Any other pass failure is returned wrapped in
// a *PassError.
func (p *Pipeline) Run(ctx context.Context, bootstrap any, streams rng.Streams, seed uint32) (Result, error) {
	trace := newTrace()
	snapshots := newSnapshotBuffer(p.snapshotCapacity)

	current := bootstrap
	for i, pass := range p.passes {
		select {
		case <-ctx.Done():
			return Result{Output: current, Trace: trace, Snapshots: snapshots.All()}, classifyDone(ctx)
		default:
		}

		pctx := newPipelineContext(streams, pass.RequiredStreams(), seed, trace)
		started := time.Now()
		out, err := pass.Run(ctx, current, pctx)
		duration := time.Since(started)
		trace.record(Span{PassID: pass.ID(), Index: i, Started: started, Duration: duration, Err: err})

		if err != nil {
			if done := ctx.Err(); done != nil {
				return Result{Output: current, Trace: trace, Snapshots: snapshots.All()}, classifyDone(ctx)
			}
			return Result{Output: current, Trace: trace, Snapshots: snapshots.All()}, &PassError{PassID: pass.ID(), Index: i, Err: err}
		}

		current = out
		snapshots.push(Snapshot{PassID: pass.ID(), Index: i, Output: out})
	}

	return Result{Output: current, Trace: trace, Snapshots: snapshots.All()}, nil
}

func classifyDone(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ErrCancelled
}
