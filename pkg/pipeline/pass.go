package pipeline

import (
	"context"

	"github.com/rogue3/dungeonforge/pkg/rng"
)

// Pass is one typed stage of a generation pipeline. A pass declares the
// name of the type it expects as input and the type it produces as
// output; Pipeline verifies adjacent passes agree on these names before
// a run ever starts. A pass also declares exactly which RNG streams it
// consumes; PipelineContext.Stream panics at run time if the pass
// reaches for entropy it didn't declare.
type Pass interface {
	// ID is a short, stable identifier used in traces and error messages.
	ID() string

	// InputType names the type this pass expects to receive. The empty
	// string means "no particular input type" (used by the first pass,
	// which receives the pipeline's seed-derived bootstrap value).
	InputType() string

	// OutputType names the type this pass produces.
	OutputType() string

	// RequiredStreams lists the RNG streams this pass may draw from.
	// PipelineContext.Stream panics if asked for a stream not in this
	// list, surfacing undeclared entropy use immediately in tests.
	RequiredStreams() []rng.StreamName

	// Run executes the pass. Implementations must respect ctx
	// cancellation for any unbounded work (repeated retries, long scans).
	Run(ctx context.Context, input any, pctx *PipelineContext) (any, error)
}

// PipelineContext is threaded through every pass in a run. It exposes
// only the RNG streams the running pass declared, plus the seed and
// trace/snapshot recorders shared across the whole run.
type PipelineContext struct {
	streams rng.Streams
	allowed map[rng.StreamName]bool
	Seed    uint32
	Trace   *Trace
}

// newPipelineContext builds a context scoped to a single pass's declared
// stream requirements.
func newPipelineContext(streams rng.Streams, allowed []rng.StreamName, seed uint32, trace *Trace) *PipelineContext {
	m := make(map[rng.StreamName]bool, len(allowed))
	for _, name := range allowed {
		m[name] = true
	}
	return &PipelineContext{streams: streams, allowed: m, Seed: seed, Trace: trace}
}

// Stream returns the RNG for name. It panics if the currently running
// pass did not declare name in RequiredStreams: a pass reaching for
// undeclared entropy is a programming error, not a runtime condition to
// recover from.
func (c *PipelineContext) Stream(name rng.StreamName) *rng.RNG {
	if !c.allowed[name] {
		panic("pipeline: pass used undeclared RNG stream " + string(name))
	}
	return c.streams.Get(name)
}
