package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names following OpenTelemetry semantic conventions.
const (
	ParseOperationCounterName        = "ucode_parse_operations_total"
	ParseErrorCounterName            = "ucode_parse_errors_total"
	ParseDurationHistogramName       = "ucode_parse_duration_seconds"
	ParseNodeCountHistogramName      = "ucode_parse_node_count"
	ParseTreeDepthHistogramName      = "ucode_parse_tree_depth"
	ParseReusedSubtreeCounterName    = "ucode_parse_reused_subtrees_total"
	ParseSyntaxErrorCounterName      = "ucode_parse_syntax_errors_total"
	ParseCacheLookupCounterName      = "ucode_parse_cache_lookups_total"
	parseInstrumentationScope        = "tree-sitter-ucode/parse"
	parseInstrumentationScopeVersion = "1.0.0"
)

// Common attribute keys for consistent labeling.
const (
	AttrParseMode   = "parse_mode"
	AttrParseResult = "parse_result"
	AttrErrorType   = "error_type"
	AttrCacheResult = "cache_result"
)

// Attribute values.
const (
	ModeFull        = "full"
	ModeIncremental = "incremental"
	ResultSuccess   = "success"
	ResultError     = "error"
	CacheHit        = "hit"
	CacheMiss       = "miss"
)

// getParseLatencyBuckets returns bucket boundaries for parse latencies, 100µs to 5s.
func getParseLatencyBuckets() []float64 {
	return []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
}

func getNodeCountBuckets() []float64 {
	return []float64{10, 100, 1_000, 10_000, 100_000, 1_000_000}
}

func getDepthBuckets() []float64 {
	return []float64{4, 8, 16, 32, 64, 128, 256}
}

// ParseMetrics records OpenTelemetry metrics for parse operations.
type ParseMetrics struct {
	operations     metric.Int64Counter
	errors         metric.Int64Counter
	duration       metric.Float64Histogram
	nodeCount      metric.Int64Histogram
	depth          metric.Int64Histogram
	reusedSubtrees metric.Int64Counter
	syntaxErrors   metric.Int64Counter
	cacheLookups   metric.Int64Counter
}

// NewParseMetrics creates the parse instruments on the given meter provider.
func NewParseMetrics(provider metric.MeterProvider) (*ParseMetrics, error) {
	if provider == nil {
		return nil, fmt.Errorf("meter provider cannot be nil")
	}
	meter := provider.Meter(parseInstrumentationScope, metric.WithInstrumentationVersion(parseInstrumentationScopeVersion))

	m := &ParseMetrics{}
	var err error

	if m.operations, err = meter.Int64Counter(
		ParseOperationCounterName,
		metric.WithDescription("Total number of parse operations"),
	); err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}
	if m.errors, err = meter.Int64Counter(
		ParseErrorCounterName,
		metric.WithDescription("Total number of parses that did not run to completion"),
	); err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}
	if m.duration, err = meter.Float64Histogram(
		ParseDurationHistogramName,
		metric.WithDescription("Duration of parse operations"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(getParseLatencyBuckets()...),
	); err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	if m.nodeCount, err = meter.Int64Histogram(
		ParseNodeCountHistogramName,
		metric.WithDescription("Number of nodes in parsed trees"),
		metric.WithExplicitBucketBoundaries(getNodeCountBuckets()...),
	); err != nil {
		return nil, fmt.Errorf("failed to create node count histogram: %w", err)
	}
	if m.depth, err = meter.Int64Histogram(
		ParseTreeDepthHistogramName,
		metric.WithDescription("Height of parsed trees"),
		metric.WithExplicitBucketBoundaries(getDepthBuckets()...),
	); err != nil {
		return nil, fmt.Errorf("failed to create depth histogram: %w", err)
	}
	if m.reusedSubtrees, err = meter.Int64Counter(
		ParseReusedSubtreeCounterName,
		metric.WithDescription("Statements taken over from a previous tree by incremental parses"),
	); err != nil {
		return nil, fmt.Errorf("failed to create reused subtree counter: %w", err)
	}
	if m.syntaxErrors, err = meter.Int64Counter(
		ParseSyntaxErrorCounterName,
		metric.WithDescription("Syntax errors found in parsed trees"),
	); err != nil {
		return nil, fmt.Errorf("failed to create syntax error counter: %w", err)
	}
	if m.cacheLookups, err = meter.Int64Counter(
		ParseCacheLookupCounterName,
		metric.WithDescription("Tree cache lookups"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cache lookup counter: %w", err)
	}

	return m, nil
}

// RecordParse records a completed parse.
func (m *ParseMetrics) RecordParse(
	ctx context.Context,
	mode string,
	duration time.Duration,
	nodeCount, depth, reused, syntaxErrors int,
) {
	modeAttr := metric.WithAttributes(attribute.String(AttrParseMode, mode))

	m.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrParseMode, mode),
		attribute.String(AttrParseResult, ResultSuccess),
	))
	m.duration.Record(ctx, duration.Seconds(), modeAttr)
	m.nodeCount.Record(ctx, int64(nodeCount), modeAttr)
	m.depth.Record(ctx, int64(depth), modeAttr)
	if reused > 0 {
		m.reusedSubtrees.Add(ctx, int64(reused))
	}
	if syntaxErrors > 0 {
		m.syntaxErrors.Add(ctx, int64(syntaxErrors), modeAttr)
	}
}

// RecordFailure records a parse that returned an error.
func (m *ParseMetrics) RecordFailure(ctx context.Context, mode, errorType string, duration time.Duration) {
	m.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrParseMode, mode),
		attribute.String(AttrParseResult, ResultError),
	))
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrParseMode, mode),
		attribute.String(AttrErrorType, errorType),
	))
	m.duration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String(AttrParseMode, mode)))
}

// RecordCacheLookup records a tree cache hit or miss.
func (m *ParseMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrCacheResult, result)))
}
