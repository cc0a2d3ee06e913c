// Package service provides the parse service: observable, bounded parsing of ucode
// sources with diagnostics, highlight captures and incremental reparsing.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"golang.org/x/sync/errgroup"

	"tree-sitter-ucode/internal/adapter/outbound/cache"
	"tree-sitter-ucode/internal/adapter/outbound/parser"
	"tree-sitter-ucode/internal/application/common"
	"tree-sitter-ucode/internal/application/common/logging"
	"tree-sitter-ucode/internal/application/common/slogger"
	"tree-sitter-ucode/internal/config"
	"tree-sitter-ucode/internal/domain/errors/domain"
	"tree-sitter-ucode/internal/domain/grammar"
	"tree-sitter-ucode/internal/domain/syntax"
)

// ParseResult is the outcome of parsing one source.
type ParseResult struct {
	Name        string
	Source      []byte
	Tree        *syntax.Tree
	Duration    time.Duration
	Diagnostics []Diagnostic
	Stats       parser.Stats
	FromCache   bool
	RequestID   string
}

// HasErrors reports whether the tree contains syntax errors.
func (r *ParseResult) HasErrors() bool {
	return len(r.Diagnostics) > 0
}

// ReparseResult is the outcome of an edit followed by an incremental reparse.
type ReparseResult struct {
	Old     *ParseResult
	New     *ParseResult
	Edit    syntax.InputEdit
	Changed []syntax.Range
}

// Option configures a ParseService.
type Option func(*ParseService)

// WithMeterProvider sets the provider the parse instruments are created on.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(s *ParseService) {
		s.meterProvider = provider
	}
}

// WithTreeCache sets the cache consulted by fresh parses, replacing the one sized by
// parser.cache_size.
func WithTreeCache(c *cache.TreeCache) Option {
	return func(s *ParseService) {
		s.cache = c
	}
}

// ParseService parses ucode sources. It is safe for concurrent use: every parse gets its
// own parser, and the descriptor, cache and instruments are shared.
type ParseService struct {
	config        *config.Config
	lang          *grammar.Language
	cache         *cache.TreeCache
	meterProvider metric.MeterProvider
	metrics       *ParseMetrics
	logger        logging.ApplicationLogger
}

// NewParseService creates a parse service. A nil cfg means the default configuration.
func NewParseService(cfg *config.Config, opts ...Option) (*ParseService, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s := &ParseService{
		config: cfg,
		lang:   grammar.Get(),
		logger: slogger.WithComponent("parse-service"),
	}
	if cfg.Parser.CacheSize > 0 {
		s.cache = cache.NewTreeCache(cfg.Parser.CacheSize)
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.meterProvider == nil {
		if cfg.Metrics.Enabled {
			s.meterProvider = otel.GetMeterProvider()
		} else {
			s.meterProvider = noop.NewMeterProvider()
		}
	}
	metrics, err := NewParseMetrics(s.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create parse metrics: %w", err)
	}
	s.metrics = metrics

	return s, nil
}

// Language returns the descriptor sources are parsed with.
func (s *ParseService) Language() *grammar.Language { return s.lang }

// Config returns the configuration of the service.
func (s *ParseService) Config() *config.Config { return s.config }

// Cache returns the tree cache, or nil when caching is disabled.
func (s *ParseService) Cache() *cache.TreeCache { return s.cache }

// ParseSource parses src. When old is non-nil it must already be edited to match src,
// and its unchanged statements are reused if incremental parsing is enabled. Fresh parses
// are answered from the tree cache when possible.
func (s *ParseService) ParseSource(
	ctx context.Context,
	name string,
	src []byte,
	old *syntax.Tree,
) (*ParseResult, error) {
	ctx = logging.NewCorrelationID(ctx)
	requestID := logging.CorrelationIDFromContext(ctx)
	start := time.Now()

	mode := ModeFull
	if old != nil && s.config.Parser.Incremental {
		mode = ModeIncremental
	}

	if old == nil && s.cache != nil {
		tree, hit := s.cache.Get(ctx, s.lang, src)
		s.metrics.RecordCacheLookup(ctx, hit)
		if hit {
			return &ParseResult{
				Name:        name,
				Source:      src,
				Tree:        tree,
				Duration:    time.Since(start),
				Diagnostics: Diagnostics(tree, src),
				FromCache:   true,
				RequestID:   requestID,
			}, nil
		}
	}

	p := parser.New(s.lang,
		parser.WithTimeout(s.config.Parser.Timeout),
		parser.WithReuse(s.config.Parser.Incremental),
		parser.WithMaxSourceBytes(s.config.Parser.MaxSourceBytes),
	)
	tree, err := p.Parse(ctx, src, old)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordFailure(ctx, mode, errorType(err), duration)
		s.logger.ErrorWithError(ctx, err, "Parse failed", slogger.Fields{
			"name":  name,
			"bytes": len(src),
			"mode":  mode,
		})
		return nil, common.WrapServiceError(common.Operation(common.OpParse, name), err)
	}

	diagnostics := Diagnostics(tree, src)
	stats := p.Stats()
	s.metrics.RecordParse(ctx, mode, duration, tree.NodeCount(), tree.Depth(), stats.Reused, len(diagnostics))
	if s.cache != nil {
		s.cache.Put(ctx, src, tree)
	}

	s.logger.LogPerformance(ctx, "parse", duration, slogger.Fields{
		"name":          name,
		"bytes":         len(src),
		"mode":          mode,
		"nodes":         tree.NodeCount(),
		"syntax_errors": len(diagnostics),
		"reused":        stats.Reused,
		"created":       stats.Created,
	})

	return &ParseResult{
		Name:        name,
		Source:      src,
		Tree:        tree,
		Duration:    duration,
		Diagnostics: diagnostics,
		Stats:       stats,
		RequestID:   requestID,
	}, nil
}

// ParseFile reads and parses the file at path.
func (s *ParseService) ParseFile(ctx context.Context, path string) (*ParseResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapServiceError(common.Operation(common.OpReadSource, path), err)
	}
	return s.ParseSource(ctx, path, src, nil)
}

// ParseFiles parses the files at paths with at most parser.concurrency parses running at
// once. Results are in the order of paths. The first failure cancels the remaining work.
func (s *ParseService) ParseFiles(ctx context.Context, paths []string) ([]*ParseResult, error) {
	results := make([]*ParseResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Parser.Concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := s.ParseFile(gctx, path)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slogger.ErrorWithError(ctx, err, "Batch parse failed", slogger.Field("files", len(paths)))
		return nil, err
	}

	slogger.Debug(ctx, "Parsed batch", slogger.Field("files", len(paths)))
	return results, nil
}

// Reparse parses src, replaces src[start:oldEnd] with text and parses the result again
// reusing the statements the edit did not touch.
func (s *ParseService) Reparse(
	ctx context.Context,
	name string,
	src []byte,
	start, oldEnd uint32,
	text []byte,
) (*ReparseResult, error) {
	before, err := s.ParseSource(ctx, name, src, nil)
	if err != nil {
		return nil, err
	}

	edit, err := syntax.NewInputEdit(src, start, oldEnd, text)
	if err != nil {
		return nil, common.WrapServiceError(common.Operation(common.OpReparse, name), err)
	}
	edited, err := before.Tree.ApplyEdit(edit)
	if err != nil {
		return nil, common.WrapServiceError(common.Operation(common.OpReparse, name), err)
	}

	after, err := s.ParseSource(ctx, name, edit.Apply(src, text), edited)
	if err != nil {
		return nil, err
	}

	return &ReparseResult{
		Old:     before,
		New:     after,
		Edit:    edit,
		Changed: edited.ChangedRanges(after.Tree),
	}, nil
}

// NodeTypesJSON renders the node-types listing of the descriptor.
func (s *ParseService) NodeTypesJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s.lang.NodeTypes(), "", "  ")
	if err != nil {
		return nil, common.WrapServiceError(common.OpEncodeNodeTypes, err)
	}
	return data, nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrParseTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrParseCancelled):
		return "cancelled"
	case errors.Is(err, domain.ErrSourceTooLarge):
		return "source_too_large"
	case errors.Is(err, domain.ErrNilLanguage):
		return "nil_language"
	}
	return "unknown"
}
