package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"pointcov.dev/pkg/pointcov/internal/adapter"
	"pointcov.dev/pkg/pointcov/internal/controller"
	m "pointcov.dev/pkg/pointcov/internal/model"
	"pointcov.dev/pkg/pointcov/pkg"
)

// AnalyzeArgs contains the arguments for cataloging and reporting coverage points.
type AnalyzeArgs struct {
	Paths   []m.Path
	Exclude []string
	Reports m.Path
	SQLite  m.Path
	HitMode HitMode
	Profile m.Path
	Detail  bool
	Threads int
}

// EstimateArgs contains the arguments for listing discovered point counts.
type EstimateArgs struct {
	Paths   []m.Path
	Exclude []string
	Threads int
}

// ViewArgs contains the arguments for displaying saved reports.
type ViewArgs struct {
	Reports m.Path
	Detail  bool
}

// MergeArgs contains the arguments for merging saved report directories.
type MergeArgs struct {
	Inputs []m.Path
	Output m.Path
}

// DiffArgs contains the arguments for comparing two report directories.
type DiffArgs struct {
	Old    m.Path
	New    m.Path
	Detail bool
}

// Workflow defines the user-facing operations of pointcov.
type Workflow interface {
	Analyze(ctx context.Context, args AnalyzeArgs) error
	Estimate(ctx context.Context, args EstimateArgs) error
	View(ctx context.Context, args ViewArgs) error
	Merge(ctx context.Context, args MergeArgs) error
	Diff(ctx context.Context, args DiffArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	adapter.ProfileAdapter
	adapter.SQLiteExporter
	controller.UI
	Analyzer
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	profileAdapter adapter.ProfileAdapter,
	exporter adapter.SQLiteExporter,
	ui controller.UI,
	analyzer Analyzer,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		ProfileAdapter:  profileAdapter,
		SQLiteExporter:  exporter,
		UI:              ui,
		Analyzer:        analyzer,
	}
}

// Analyze catalogs every matching source, marks hits, saves and displays the reports.
func (w *workflow) Analyze(ctx context.Context, args AnalyzeArgs) error {
	if err := w.Start(ctx, controller.WithAnalyzeMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	defer w.Close(ctx)

	policy, err := w.hitPolicy(ctx, args)
	if err != nil {
		slog.Error("Failed to build hit policy", "error", err)
		return err
	}

	sources, err := w.Get(ctx, args.Paths, w.Supports, args.Exclude...)
	if err != nil {
		slog.Error("Failed to get sources", "error", err)
		return fmt.Errorf("get sources: %w", err)
	}

	threads := effectiveThreads(args.Threads)
	w.DisplayConcurrencyInfo(ctx, threads, len(sources))

	reports, err := w.analyzeSources(ctx, sources, AnalyzeOptions{Policy: policy, Detail: args.Detail}, threads)
	if err != nil {
		slog.Error("Failed to analyze sources", "error", err)
		return err
	}

	if args.Reports != "" {
		if err := w.SaveReports(args.Reports, reports); err != nil {
			slog.Error("Failed to save reports", "path", args.Reports, "error", err)
			return fmt.Errorf("save reports: %w", err)
		}
	}

	if args.SQLite != "" {
		if err := w.Export(ctx, args.SQLite, reports); err != nil {
			slog.Error("Failed to export sqlite", "path", args.SQLite, "error", err)
			return fmt.Errorf("export sqlite: %w", err)
		}
	}

	if err := w.DisplayReports(ctx, reports, Merge(reports...), args.Detail); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

func (w *workflow) hitPolicy(ctx context.Context, args AnalyzeArgs) (HitPolicy, error) {
	if args.HitMode != HitModeProfile {
		return NewHitPolicy(args.HitMode, nil)
	}

	if args.Profile == "" {
		return nil, fmt.Errorf("%w: profile mode needs --profile", ErrUnknownHitMode)
	}

	profile, err := w.Load(ctx, args.Profile)
	if err != nil {
		return nil, err
	}

	return NewHitPolicy(HitModeProfile, profile)
}

// analyzeSources runs one analysis per source concurrently. Results are
// spilled to disk as they complete and returned ordered by short path.
func (w *workflow) analyzeSources(ctx context.Context, sources []m.Source, opts AnalyzeOptions, threads int) ([]m.FileReport, error) {
	spill, err := pkg.NewFileSpill[m.FileReport]("")
	if err != nil {
		return nil, fmt.Errorf("create report spill: %w", err)
	}

	defer func() {
		if err := spill.Close(); err != nil {
			slog.Warn("Failed to close report spill", "error", err)
		}
	}()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for _, source := range sources {
		currentSource := source

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			report, err := w.AnalyzeSource(groupCtx, currentSource, opts)
			if err != nil {
				return fmt.Errorf("analyze %s: %w", currentSource.Origin.ShortPath, err)
			}

			if err := spill.Append(report); err != nil {
				return err
			}

			w.DisplayFileReport(groupCtx, report)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	reports, err := spill.Collect()
	if err != nil {
		return nil, fmt.Errorf("collect reports: %w", err)
	}

	sortReports(reports)

	return reports, nil
}

// Estimate lists discovered point counts per file without marking hits.
func (w *workflow) Estimate(ctx context.Context, args EstimateArgs) error {
	if err := w.Start(ctx, controller.WithEstimateMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	defer w.Close(ctx)

	estimates, err := w.collectEstimates(ctx, args)
	if err != nil {
		slog.Error("Failed to estimate sources", "error", err)
		_ = w.DisplayEstimation(ctx, nil, err)

		return fmt.Errorf("estimate: %w", err)
	}

	if err := w.DisplayEstimation(ctx, estimates, nil); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

func (w *workflow) collectEstimates(ctx context.Context, args EstimateArgs) ([]m.FileEstimate, error) {
	sources, err := w.Get(ctx, args.Paths, w.Supports, args.Exclude...)
	if err != nil {
		return nil, fmt.Errorf("get sources: %w", err)
	}

	estimates := make([]m.FileEstimate, len(sources))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(effectiveThreads(args.Threads))

	for i, source := range sources {
		group.Go(func() error {
			estimate, err := w.EstimateSource(groupCtx, source)
			if err != nil {
				return fmt.Errorf("estimate %s: %w", source.Origin.ShortPath, err)
			}

			estimates[i] = estimate

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(estimates, func(i, j int) bool {
		return estimates[i].Source.ShortPath < estimates[j].Source.ShortPath
	})

	return estimates, nil
}

// View displays previously saved reports.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		return err
	}

	defer w.Close(ctx)

	reports, err := w.LoadReports(args.Reports)
	if err != nil {
		slog.Error("Failed to load reports", "path", args.Reports, "error", err)
		return fmt.Errorf("load reports: %w", err)
	}

	if err := w.DisplayReports(ctx, reports, Merge(reports...), args.Detail); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

// Merge sums saved reports from several directories into one summary. A
// directory without per-file reports contributes its merged summary instead,
// so earlier merge outputs can be combined again.
func (w *workflow) Merge(ctx context.Context, args MergeArgs) error {
	if len(args.Inputs) == 0 {
		return errors.New("merge: no report directories given")
	}

	summaries := make([]m.Summary, 0, len(args.Inputs))

	for _, input := range args.Inputs {
		if err := ctx.Err(); err != nil {
			return err
		}

		summary, ok, err := w.inputSummary(input)
		if err != nil {
			return err
		}

		if ok {
			summaries = append(summaries, summary)
		}
	}

	summary := MergeSummaries(summaries...)

	if args.Output != "" {
		if err := w.SaveSummary(args.Output, summary); err != nil {
			return fmt.Errorf("save summary: %w", err)
		}
	}

	slog.Info("Merged reports", "inputs", len(args.Inputs), "files", summary.Files)

	return w.DisplaySummary(ctx, summary)
}

func (w *workflow) inputSummary(input m.Path) (m.Summary, bool, error) {
	reports, err := w.LoadReports(input)
	if err != nil {
		slog.Error("Failed to load reports", "path", input, "error", err)
		return m.Summary{}, false, fmt.Errorf("load reports from %s: %w", input, err)
	}

	if len(reports) > 0 {
		return Merge(reports...), true, nil
	}

	summary, err := w.LoadSummary(input)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("No reports to merge", "path", input)
		return m.Summary{}, false, nil
	}

	if err != nil {
		return m.Summary{}, false, fmt.Errorf("load summary from %s: %w", input, err)
	}

	return summary, true, nil
}

// Diff renders both report directories and displays a unified diff.
func (w *workflow) Diff(ctx context.Context, args DiffArgs) error {
	oldReports, err := w.LoadReports(args.Old)
	if err != nil {
		return fmt.Errorf("load reports from %s: %w", args.Old, err)
	}

	newReports, err := w.LoadReports(args.New)
	if err != nil {
		return fmt.Errorf("load reports from %s: %w", args.New, err)
	}

	diff, err := DiffReports(oldReports, newReports, string(args.Old), string(args.New), args.Detail)
	if err != nil {
		return fmt.Errorf("diff reports: %w", err)
	}

	return w.DisplayDiff(ctx, diff)
}

// DiffReports returns a unified diff of the text renderings of two report sets.
// Identical sets yield an empty string.
func DiffReports(oldReports, newReports []m.FileReport, oldName, newName string, detail bool) (string, error) {
	sortReports(oldReports)
	sortReports(newReports)

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(controller.RenderReports(oldReports, detail)),
		B:        difflib.SplitLines(controller.RenderReports(newReports, detail)),
		FromFile: oldName,
		ToFile:   newName,
		Context:  3,
	})
}

func sortReports(reports []m.FileReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		return strings.Compare(string(reports[i].Source.ShortPath), string(reports[j].Source.ShortPath)) < 0
	})
}

func effectiveThreads(threads int) int {
	if threads < 1 {
		return 1
	}

	return threads
}
