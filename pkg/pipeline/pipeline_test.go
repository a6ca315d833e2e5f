package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rogue3/dungeonforge/pkg/rng"
)

type fakePass struct {
	id       string
	in, out  string
	streams  []rng.StreamName
	run      func(ctx context.Context, input any, pctx *PipelineContext) (any, error)
}

func (f *fakePass) ID() string                         { return f.id }
func (f *fakePass) InputType() string                  { return f.in }
func (f *fakePass) OutputType() string                 { return f.out }
func (f *fakePass) RequiredStreams() []rng.StreamName   { return f.streams }
func (f *fakePass) Run(ctx context.Context, input any, pctx *PipelineContext) (any, error) {
	return f.run(ctx, input, pctx)
}

func TestPipelineRunsPassesInOrder(t *testing.T) {
	var order []string
	a := &fakePass{id: "a", in: "seed", out: "grid", run: func(ctx context.Context, input any, pctx *PipelineContext) (any, error) {
		order = append(order, "a")
		return input.(int) + 1, nil
	}}
	b := &fakePass{id: "b", in: "grid", out: "grid", run: func(ctx context.Context, input any, pctx *PipelineContext) (any, error) {
		order = append(order, "b")
		return input.(int) * 2, nil
	}}

	p, err := New([]Pass{a, b})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	streams := rng.DeriveStreams(1)
	res, err := p.Run(context.Background(), 3, streams, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Output.(int) != 8 {
		t.Fatalf("output = %v, want 8", res.Output)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("unexpected order: %v", order)
	}
	if len(res.Trace.Spans) != 2 {
		t.Fatalf("expected 2 trace spans, got %d", len(res.Trace.Spans))
	}
}

func TestNewRejectsTypeMismatch(t *testing.T) {
	a := &fakePass{id: "a", in: "seed", out: "grid"}
	b := &fakePass{id: "b", in: "graph", out: "grid"}
	if _, err := New([]Pass{a, b}); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestPipelinePropagatesPassError(t *testing.T) {
	boom := errors.New("boom")
	a := &fakePass{id: "a", in: "seed", out: "grid", run: func(ctx context.Context, input any, pctx *PipelineContext) (any, error) {
		return nil, boom
	}}
	p, err := New([]Pass{a})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, runErr := p.Run(context.Background(), 1, rng.DeriveStreams(1), 1)
	var passErr *PassError
	if !errors.As(runErr, &passErr) {
		t.Fatalf("expected *PassError, got %v", runErr)
	}
	if !errors.Is(passErr, boom) {
		t.Fatalf("expected wrapped boom, got %v", passErr)
	}
}

func TestPipelineRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := &fakePass{id: "a", in: "seed", out: "grid", run: func(ctx context.Context, input any, pctx *PipelineContext) (any, error) {
		t.Fatal("pass should not run after cancellation")
		return nil, nil
	}}
	p, err := New([]Pass{a})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, runErr := p.Run(ctx, 1, rng.DeriveStreams(1), 1)
	if !errors.Is(runErr, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", runErr)
	}
}

func TestPipelineRespectsTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	a := &fakePass{id: "a", in: "seed", out: "grid", run: func(ctx context.Context, input any, pctx *PipelineContext) (any, error) {
		time.Sleep(10 * time.Millisecond)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			return 1, nil
		}
	}}
	p, err := New([]Pass{a})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, runErr := p.Run(ctx, 1, rng.DeriveStreams(1), 1)
	if !errors.Is(runErr, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", runErr)
	}
}

func TestPipelineContextStreamPanicsOnUndeclared(t *testing.T) {
	a := &fakePass{
		id: "a", in: "seed", out: "grid",
		streams: []rng.StreamName{rng.StreamLayout},
		run: func(ctx context.Context, input any, pctx *PipelineContext) (any, error) {
			defer func() {
				if r := recover(); r == nil {
					t.Fatal("expected panic for undeclared stream access")
				}
			}()
			pctx.Stream(rng.StreamDetails)
			return input, nil
		},
	}
	p, err := New([]Pass{a})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, _ = p.Run(context.Background(), 1, rng.DeriveStreams(1), 1)
}

func TestSnapshotBufferBoundedAndOrdered(t *testing.T) {
	var passes []Pass
	for i := 0; i < 5; i++ {
		i := i
		passes = append(passes, &fakePass{
			id: "p", in: typeName(i), out: typeName(i + 1),
			run: func(ctx context.Context, input any, pctx *PipelineContext) (any, error) {
				return input.(int) + 1, nil
			},
		})
	}
	p, err := New(passes, WithSnapshotCapacity(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := p.Run(context.Background(), 0, rng.DeriveStreams(1), 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Snapshots) != 2 {
		t.Fatalf("expected 2 retained snapshots, got %d", len(res.Snapshots))
	}
	if res.Snapshots[len(res.Snapshots)-1].Output.(int) != 5 {
		t.Fatalf("expected last snapshot output 5, got %v", res.Snapshots[len(res.Snapshots)-1].Output)
	}
}

func typeName(i int) string {
	if i == 0 {
		return "seed"
	}
	return "stage"
}
