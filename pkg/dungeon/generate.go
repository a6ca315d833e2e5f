package dungeon

import (
	"context"
	"errors"
	"time"

	"github.com/rogue3/dungeonforge/pkg/passes"
	"github.com/rogue3/dungeonforge/pkg/pipeline"
	"github.com/rogue3/dungeonforge/pkg/rng"
)

// defaultAsyncTimeout is the time budget GenerateAsync enforces when the
// caller does not supply one.
const defaultAsyncTimeout = 10 * time.Second

// Generate runs cfg synchronously to completion: it validates the
// config, normalizes the seed, derives the four RNG streams, builds and
// runs the generator pipeline selected by cfg.Algorithm, and folds the
// result into a checksummed DungeonArtifact. The context governs
// cancellation only; it carries no implicit deadline.
func Generate(ctx context.Context, cfg Config) (*DungeonArtifact, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed, err := resolveSeed(cfg.Seed)
	if err != nil {
		return nil, err
	}

	return run(ctx, cfg, seed)
}

// GenerateAsync runs cfg with a wall-clock budget: timeout nil means the
// caller did not specify one, applying defaultAsyncTimeout (10s); a
// non-nil timeout that is zero or negative is an already-expired budget
// and fails immediately with ErrGenerationTimeout, before any pass runs.
// Exceeding a positive budget mid-run yields the same code; an
// externally cancelled ctx yields ErrCancelled instead.
func GenerateAsync(ctx context.Context, cfg Config, timeout *time.Duration) (*DungeonArtifact, error) {
	budget := defaultAsyncTimeout
	if timeout != nil {
		budget = *timeout
	}
	if budget <= 0 {
		return nil, &Error{Code: ErrGenerationTimeout, Message: "non-positive timeout supplied"}
	}

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed, err := resolveSeed(cfg.Seed)
	if err != nil {
		return nil, err
	}
	return run(ctx, cfg, seed)
}

// RegenerateFromCode decodes shareCode back into a numeric seed and runs
// cfg with that seed, ignoring whatever cfg.Seed was set to.
func RegenerateFromCode(ctx context.Context, shareCode string, cfg Config) (*DungeonArtifact, error) {
	numeric, err := DecodeShareCode(shareCode)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := Seed{NumericValue: numeric}
	return run(ctx, cfg, seed)
}

// GetShareCode encodes artifact's seed as a share code, usable later with
// RegenerateFromCode to reproduce the identical artifact from the same
// config.
func GetShareCode(artifact *DungeonArtifact) (string, error) {
	if artifact == nil {
		return "", &Error{Code: ErrSeedDecode, Message: "artifact is nil"}
	}
	return ShareCode(artifact.Seed), nil
}

// resolveSeed normalizes cfg.Seed, substituting a zero-valued numeric
// seed derived from nothing when the caller left it nil (the "unset"
// case NormalizeSeed itself rejects, since nil is not one of its three
// accepted input kinds).
func resolveSeed(value any) (Seed, error) {
	if value == nil {
		return Seed{NumericValue: 0}, nil
	}
	return NormalizeSeed(value, 0)
}

func run(ctx context.Context, cfg Config, seed Seed) (*DungeonArtifact, error) {
	p, err := buildPipeline(cfg)
	if err != nil {
		return nil, &Error{Code: ErrGenerationFailed, Message: err.Error()}
	}

	streams := rng.DeriveStreams(seed.NumericValue)
	bootstrap := &DungeonStateArtifact{Width: cfg.Width, Height: cfg.Height}

	result, err := p.Run(ctx, bootstrap, streams, seed.NumericValue)
	if err != nil {
		return nil, mapPipelineError(err)
	}

	state, ok := result.Output.(*DungeonStateArtifact)
	if !ok || state == nil {
		return nil, &Error{Code: ErrGenerationFailed, Message: "pipeline produced no terminal state"}
	}

	artifact := finalizeArtifact(state, seed)
	return artifact, nil
}

// buildPipeline dispatches to the generator for cfg.Algorithm.
func buildPipeline(cfg Config) (*pipeline.Pipeline, error) {
	switch cfg.Algorithm {
	case AlgorithmCellular:
		return buildCellularPipeline(cfg)
	case AlgorithmHybrid:
		return buildHybridPipeline(cfg)
	default:
		return buildBSPPipeline(cfg)
	}
}

// finalizeArtifact copies the pipeline's working grid into an owned
// terrain buffer and computes the artifact's checksum; this is the one
// place a *DungeonStateArtifact stops being mutable pipeline state and
// becomes the serializable DungeonArtifact.
func finalizeArtifact(state *DungeonStateArtifact, seed Seed) *DungeonArtifact {
	terrain := append([]byte(nil), state.Grid.Bytes()...)
	artifact := &DungeonArtifact{
		Type:        "dungeon",
		Width:       state.Width,
		Height:      state.Height,
		Terrain:     terrain,
		Rooms:       append([]Room(nil), state.Rooms...),
		Connections: append([]Connection(nil), state.Connections...),
		Spawns:      append([]SpawnPoint(nil), state.Spawns...),
		Seed:        seed,
	}
	artifact.Checksum = ComputeChecksum(artifact)
	return artifact
}

// mapPipelineError translates a pipeline.Run failure into this
// package's closed error taxonomy.
func mapPipelineError(err error) error {
	switch {
	case errors.Is(err, pipeline.ErrCancelled):
		return &Error{Code: ErrCancelled, Message: "generation cancelled"}
	case errors.Is(err, pipeline.ErrTimeout):
		return &Error{Code: ErrGenerationTimeout, Message: "generation exceeded its time budget"}
	}

	var passErr *pipeline.PassError
	if errors.As(err, &passErr) {
		var vf *passes.ValidationFailure
		if errors.As(passErr.Err, &vf) {
			return &Error{Code: ErrGenerationFailed, Message: "invariant validation failed", Violations: vf.Violations}
		}
		return &Error{Code: ErrGenerationFailed, Message: passErr.Error()}
	}
	return &Error{Code: ErrGenerationFailed, Message: err.Error()}
}
