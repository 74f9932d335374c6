package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricTreesBuilt    = "astdiff.trees.built.total"
	metricNodesTotal    = "astdiff.nodes.total"
	metricMatchesTotal  = "astdiff.matches.total"
	metricActionsTotal  = "astdiff.actions.total"
	metricMatchDuration = "astdiff.match.duration.seconds"

	attrPhase  = "phase"
	attrSide   = "side"
	attrAction = "action"
)

// DiffMetrics holds OTel instruments for the matcher's own performance and
// output shape, as distinct from REDMetrics' view of the surrounding CLI
// invocation.
type DiffMetrics struct {
	treesBuilt    metric.Int64Counter
	nodesTotal    metric.Int64Counter
	matchesTotal  metric.Int64Counter
	actionsTotal  metric.Int64Counter
	matchDuration metric.Float64Histogram
}

// DiffStats summarizes a single treediff.Diff run for recording.
type DiffStats struct {
	SrcNodes int
	DstNodes int

	TopDownMatches  int
	BottomUpMatches int

	Actions  map[string]int
	Duration time.Duration
}

// NewDiffMetrics creates diff-specific metric instruments from the given meter.
func NewDiffMetrics(mt metric.Meter) (*DiffMetrics, error) {
	treesBuilt, err := mt.Int64Counter(metricTreesBuilt,
		metric.WithDescription("Total trees built from an AST"),
		metric.WithUnit("{tree}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricTreesBuilt, err)
	}

	nodesTotal, err := mt.Int64Counter(metricNodesTotal,
		metric.WithDescription("Total nodes seen, by tree side"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricNodesTotal, err)
	}

	matchesTotal, err := mt.Int64Counter(metricMatchesTotal,
		metric.WithDescription("Total node pairs mapped, by matcher phase"),
		metric.WithUnit("{match}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricMatchesTotal, err)
	}

	actionsTotal, err := mt.Int64Counter(metricActionsTotal,
		metric.WithDescription("Total edit script actions emitted, by kind"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricActionsTotal, err)
	}

	matchDuration, err := mt.Float64Histogram(metricMatchDuration,
		metric.WithDescription("End-to-end Diff duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricMatchDuration, err)
	}

	return &DiffMetrics{
		treesBuilt:    treesBuilt,
		nodesTotal:    nodesTotal,
		matchesTotal:  matchesTotal,
		actionsTotal:  actionsTotal,
		matchDuration: matchDuration,
	}, nil
}

// RecordRun records the statistics of a single completed Diff call. Safe to
// call on a nil receiver (no-op), so callers need not guard every call site
// when metrics are disabled.
func (dm *DiffMetrics) RecordRun(ctx context.Context, stats DiffStats) {
	if dm == nil {
		return
	}

	const treesPerRun = 2

	dm.treesBuilt.Add(ctx, treesPerRun)

	dm.nodesTotal.Add(ctx, int64(stats.SrcNodes), metric.WithAttributes(attribute.String(attrSide, "src")))
	dm.nodesTotal.Add(ctx, int64(stats.DstNodes), metric.WithAttributes(attribute.String(attrSide, "dst")))

	dm.matchesTotal.Add(ctx, int64(stats.TopDownMatches), metric.WithAttributes(attribute.String(attrPhase, "topdown")))
	dm.matchesTotal.Add(ctx, int64(stats.BottomUpMatches), metric.WithAttributes(attribute.String(attrPhase, "bottomup")))

	for kind, count := range stats.Actions {
		dm.actionsTotal.Add(ctx, int64(count), metric.WithAttributes(attribute.String(attrAction, kind)))
	}

	dm.matchDuration.Record(ctx, stats.Duration.Seconds())
}
