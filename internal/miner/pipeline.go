package miner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/colocation-mining/internal/chash"
	"github.com/colocation-mining/internal/ids"
	"github.com/colocation-mining/internal/neighborhood"
	"github.com/colocation-mining/internal/pi"
	"github.com/colocation-mining/pkg/model"
	"github.com/colocation-mining/pkg/utils"
)

const tracerName = "github.com/colocation-mining/internal/miner"

// Options configures one Miner.
type Options struct {
	// NeighborDistance is the spatial threshold d_min; must be positive.
	NeighborDistance float64

	// MinPrevalence is the PI threshold in [0, 1].
	MinPrevalence float64

	// Parallel mines clique heads concurrently.
	Parallel bool

	// Workers bounds the worker count in parallel mode.
	Workers int

	// Logger is used for stage progress. Nil suppresses logging.
	Logger utils.Logger

	// Timer records per-stage durations. Nil disables timing.
	Timer *utils.Timer
}

// Miner runs the full pipeline: grid-backed neighborhood materialization,
// instance-driven clique search, candidate hashing and prevalence
// filtering. The result is a pure, deterministic function of the instance
// set and the two thresholds.
type Miner struct {
	opts Options
}

// New creates a Miner. Thresholds are validated here so an invalid
// configuration never reaches the pipeline.
func New(opts Options) (*Miner, error) {
	if opts.NeighborDistance <= 0 {
		return nil, fmt.Errorf("neighbor distance must be positive, got %v", opts.NeighborDistance)
	}
	if opts.MinPrevalence < 0 || opts.MinPrevalence > 1 {
		return nil, fmt.Errorf("min prevalence must be in [0, 1], got %v", opts.MinPrevalence)
	}
	if opts.Logger == nil {
		opts.Logger = &utils.NullLogger{}
	}
	if opts.Timer == nil {
		opts.Timer = utils.NullTimer
	}
	return &Miner{opts: opts}, nil
}

// Run mines the prevalent colocation patterns of the instance set.
//
// Isolated instances still produce singleton cliques, so every instance
// participates in at least one signature and the participation ratio of a
// feature type against its own singleton pattern is always 1. An empty
// instance set returns an empty result.
func (m *Miner) Run(ctx context.Context, instances []model.Instance) (*model.MiningResult, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "miner.Run",
		trace.WithAttributes(
			attribute.Int("instances", len(instances)),
			attribute.Float64("neighbor_distance", m.opts.NeighborDistance),
			attribute.Float64("min_prevalence", m.opts.MinPrevalence),
		))
	defer span.End()

	start := time.Now()
	log := m.opts.Logger

	// Stage A+B: grid index and BN/SN materialization.
	var nbr *neighborhood.Manager
	m.stage(ctx, tracer, "neighborhood", func(context.Context) error {
		nbr = neighborhood.Materialize(instances, m.opts.NeighborDistance)
		return nil
	})
	log.Debug("neighborhood: %d instances, %d edges", len(instances), nbr.EdgeCount())

	// Stage C: maximal clique enumeration.
	var cliques []ids.Clique
	err := m.stage(ctx, tracer, "ids", func(ctx context.Context) error {
		var err error
		cliques, err = ids.NewMiner(nbr, ids.Options{
			Parallel: m.opts.Parallel,
			Workers:  m.opts.Workers,
			Logger:   log,
		}).Run(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("clique mining failed: %w", err)
	}
	log.Debug("ids: %d cliques", len(cliques))

	// Stage D: candidate hash.
	var hash *chash.CHash
	m.stage(ctx, tracer, "chash", func(context.Context) error {
		hash = chash.Build(instances, cliques)
		return nil
	})
	log.Debug("chash: %d candidate signatures", hash.Len())

	// Stage E+F: PI computation and lattice filtering.
	globalCount := model.CountByFeature(instances)
	var prevalent map[string]float64
	m.stage(ctx, tracer, "filter", func(context.Context) error {
		calc := pi.NewCalculator(hash, globalCount)
		prevalent = NewFilter(calc, m.opts.MinPrevalence).Run(hash)
		return nil
	})
	log.Debug("filter: %d prevalent patterns", len(prevalent))

	result := &model.MiningResult{
		Patterns: sortedPatterns(prevalent),
		Stats: model.StageStats{
			InstanceCount:  len(instances),
			FeatureCount:   len(globalCount),
			NeighborEdges:  nbr.EdgeCount(),
			CliqueCount:    len(cliques),
			CandidateCount: hash.Len(),
			PrevalentCount: len(prevalent),
			Elapsed:        time.Since(start),
		},
		CreatedAt: time.Now(),
	}
	return result, nil
}

// stage runs one pipeline stage under a span and a timer phase.
func (m *Miner) stage(ctx context.Context, tracer trace.Tracer, name string, fn func(context.Context) error) error {
	ctx, span := tracer.Start(ctx, "miner."+name)
	defer span.End()
	_, err := m.opts.Timer.TimeFuncWithError(name, func() error {
		return fn(ctx)
	})
	return err
}

// sortedPatterns orders the result table by pattern size ascending, then
// lexicographically, so output is byte-identical across runs.
func sortedPatterns(prevalent map[string]float64) []model.PrevalentPattern {
	out := make([]model.PrevalentPattern, 0, len(prevalent))
	for key, piVal := range prevalent {
		out = append(out, model.PrevalentPattern{
			Pattern: model.PatternFromKey(key),
			PI:      piVal,
		})
	}
	sort.Slice(out, func(a, b int) bool {
		pa, pb := out[a].Pattern, out[b].Pattern
		if len(pa) != len(pb) {
			return len(pa) < len(pb)
		}
		return pa.Key() < pb.Key()
	})
	return out
}
