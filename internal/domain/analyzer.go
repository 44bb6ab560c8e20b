package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pointcov.dev/pkg/pointcov/internal/adapter"
	m "pointcov.dev/pkg/pointcov/internal/model"
)

// AnalyzeOptions tunes a single-file analysis.
type AnalyzeOptions struct {
	Policy HitPolicy
	// Detail attaches source snippets to listed points.
	Detail bool
}

// Analyzer runs one source file through parse, walk, hit marking and
// reporting. Every call owns a fresh Registry and HitRecorder, so calls are
// safe to run concurrently.
type Analyzer interface {
	Supports(path string) bool
	AnalyzeSource(ctx context.Context, source m.Source, opts AnalyzeOptions) (m.FileReport, error)
	EstimateSource(ctx context.Context, source m.Source) (m.FileEstimate, error)
}

type analyzer struct {
	adapter.SourceFSAdapter
	frontends adapter.Frontends
}

// NewAnalyzer creates an Analyzer reading through fsAdapter and parsing with frontends.
func NewAnalyzer(fsAdapter adapter.SourceFSAdapter, frontends adapter.Frontends) Analyzer {
	return &analyzer{SourceFSAdapter: fsAdapter, frontends: frontends}
}

// Supports reports whether a frontend handles path.
func (a *analyzer) Supports(path string) bool {
	return a.frontends.Supports(path)
}

// AnalyzeSource produces the report for source. Read and parse failures are
// fatal for the file: no partial report is returned.
func (a *analyzer) AnalyzeSource(ctx context.Context, source m.Source, opts AnalyzeOptions) (m.FileReport, error) {
	if source.Origin == nil {
		return m.FileReport{}, errors.New("source has no origin file")
	}

	src, registry, err := a.catalog(ctx, source)
	if err != nil {
		return m.FileReport{}, err
	}

	policy := opts.Policy
	if policy == nil {
		policy = HitPolicyFunc(markAll)
	}

	hits := NewHitRecorder(registry)
	if err := policy.Apply(source.Origin.FullPath, registry, hits); err != nil {
		return m.FileReport{}, fmt.Errorf("mark hits for %s: %w", source.Origin.ShortPath, err)
	}

	var reporterOpts []ReporterOption
	if opts.Detail && a.hasSourceText(source.Origin.FullPath) {
		reporterOpts = append(reporterOpts, WithSourceText(src))
	}

	report := NewReporter(registry, hits, reporterOpts...).Report(*source.Origin)

	slog.Debug("analyzed source", "path", source.Origin.ShortPath, "points", totalDiscovered(report))

	return report, nil
}

// EstimateSource counts discovered points without hit data.
func (a *analyzer) EstimateSource(ctx context.Context, source m.Source) (m.FileEstimate, error) {
	if source.Origin == nil {
		return m.FileEstimate{}, errors.New("source has no origin file")
	}

	_, registry, err := a.catalog(ctx, source)
	if err != nil {
		return m.FileEstimate{}, err
	}

	estimate := m.FileEstimate{Source: *source.Origin, Counts: make(map[m.Category]int)}
	for _, category := range m.Categories() {
		estimate.Counts[category] = registry.Total(category)
	}

	return estimate, nil
}

func (a *analyzer) catalog(ctx context.Context, source m.Source) ([]byte, *Registry, error) {
	path := source.Origin.FullPath

	src, err := a.ReadFile(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", source.Origin.ShortPath, err)
	}

	tree, err := a.frontends.Parse(ctx, path, src)
	if err != nil {
		return nil, nil, err
	}

	registry := NewRegistry()
	if err := NewWalker(registry).Walk(tree); err != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", source.Origin.ShortPath, err)
	}

	return src, registry, nil
}

// hasSourceText reports whether the file's bytes are the program text that
// spans refer to. Tree documents describe another file.
func (a *analyzer) hasSourceText(path m.Path) bool {
	f := a.frontends.For(string(path))
	return f != nil && f.Name() == "go"
}

func totalDiscovered(report m.FileReport) int {
	total := 0
	for _, cr := range report.Categories {
		total += cr.Discovered
	}

	return total
}
