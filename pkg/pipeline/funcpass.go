package pipeline

import (
	"context"

	"github.com/rogue3/dungeonforge/pkg/rng"
)

// funcPass adapts a plain function to the Pass interface, letting a
// generator define a one-off stage (initialize-grid, tag-room-types)
// without a dedicated named type.
type funcPass struct {
	id              string
	inputType       string
	outputType      string
	requiredStreams []rng.StreamName
	run             func(ctx context.Context, input any, pctx *PipelineContext) (any, error)
}

func (f *funcPass) ID() string                       { return f.id }
func (f *funcPass) InputType() string                { return f.inputType }
func (f *funcPass) OutputType() string               { return f.outputType }
func (f *funcPass) RequiredStreams() []rng.StreamName { return f.requiredStreams }
func (f *funcPass) Run(ctx context.Context, input any, pctx *PipelineContext) (any, error) {
	return f.run(ctx, input, pctx)
}

// NewFuncPass builds a Pass from a plain function, for stages specific
// to one generator that do not warrant a dedicated named type.
func NewFuncPass(id, inputType, outputType string, requiredStreams []rng.StreamName, run func(ctx context.Context, input any, pctx *PipelineContext) (any, error)) Pass {
	return &funcPass{id: id, inputType: inputType, outputType: outputType, requiredStreams: requiredStreams, run: run}
}
