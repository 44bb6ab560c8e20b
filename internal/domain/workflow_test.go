package domain_test

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pointcov.dev/pkg/pointcov/internal/adapter"
	adaptermocks "pointcov.dev/pkg/pointcov/internal/adapter/mocks"
	controllermocks "pointcov.dev/pkg/pointcov/internal/controller/mocks"
	"pointcov.dev/pkg/pointcov/internal/domain"
	domainmocks "pointcov.dev/pkg/pointcov/internal/domain/mocks"
	m "pointcov.dev/pkg/pointcov/internal/model"
)

type workflowMocks struct {
	fs       *adaptermocks.MockSourceFSAdapter
	store    *adaptermocks.MockReportStore
	profile  *adaptermocks.MockProfileAdapter
	exporter *adaptermocks.MockSQLiteExporter
	ui       *controllermocks.MockUI
	analyzer *domainmocks.MockAnalyzer
}

func newWorkflowMocks(t *testing.T) (domain.Workflow, *workflowMocks) {
	t.Helper()

	mocks := &workflowMocks{
		fs:       adaptermocks.NewMockSourceFSAdapter(t),
		store:    adaptermocks.NewMockReportStore(t),
		profile:  adaptermocks.NewMockProfileAdapter(t),
		exporter: adaptermocks.NewMockSQLiteExporter(t),
		ui:       controllermocks.NewMockUI(t),
		analyzer: domainmocks.NewMockAnalyzer(t),
	}

	wf := domain.NewWorkflow(mocks.fs, mocks.store, mocks.profile, mocks.exporter, mocks.ui, mocks.analyzer)

	return wf, mocks
}

func source(path string) m.Source {
	return m.Source{Origin: &m.File{FullPath: m.Path("/repo/" + path), ShortPath: m.Path(path)}}
}

func report(path string, discovered, hit int) m.FileReport {
	return m.FileReport{
		Source: m.File{FullPath: m.Path("/repo/" + path), ShortPath: m.Path(path)},
		Categories: []m.CategoryReport{{
			Category:   m.CategoryStatement,
			Discovered: discovered,
			Hit:        hit,
			Percentage: m.NewPercentage(hit, discovered),
		}},
	}
}

func shortPaths(reports []m.FileReport) []string {
	paths := make([]string, 0, len(reports))
	for _, r := range reports {
		paths = append(paths, string(r.Source.ShortPath))
	}

	return paths
}

func inOrder(want ...string) interface{} {
	return mock.MatchedBy(func(reports []m.FileReport) bool {
		return assert.ObjectsAreEqual(want, shortPaths(reports))
	})
}

func expectUILifecycle(mocks *workflowMocks) {
	mocks.ui.On("Start", mock.Anything, mock.Anything).Return(nil)
	mocks.ui.On("Close", mock.Anything).Return()
}

func TestWorkflow_Analyze(t *testing.T) {
	wf, mocks := newWorkflowMocks(t)
	expectUILifecycle(mocks)

	sources := []m.Source{source("b.go"), source("a.go")}

	mocks.fs.On("Get", mock.Anything, []m.Path{"./..."}, mock.Anything).Return(sources, nil)
	mocks.ui.On("DisplayConcurrencyInfo", mock.Anything, 2, 2).Return()
	mocks.analyzer.On("AnalyzeSource", mock.Anything, sources[0], mock.Anything).Return(report("b.go", 4, 4), nil)
	mocks.analyzer.On("AnalyzeSource", mock.Anything, sources[1], mock.Anything).Return(report("a.go", 2, 1), nil)
	mocks.ui.On("DisplayFileReport", mock.Anything, mock.Anything).Return().Times(2)
	mocks.store.On("SaveReports", m.Path(".pointcov-reports"), inOrder("a.go", "b.go")).Return(nil)
	mocks.ui.On("DisplayReports", mock.Anything, inOrder("a.go", "b.go"), mock.MatchedBy(func(s m.Summary) bool {
		totals, ok := s.Totals(m.CategoryStatement)
		return ok && s.Files == 2 && totals.Discovered == 6 && totals.Hit == 5
	}), false).Return(nil)
	mocks.ui.On("Wait", mock.Anything).Return()

	err := wf.Analyze(context.Background(), domain.AnalyzeArgs{
		Paths:   []m.Path{"./..."},
		Reports: ".pointcov-reports",
		HitMode: domain.HitModeAll,
		Threads: 2,
	})
	require.NoError(t, err)
}

func TestWorkflow_AnalyzeExportsSQLite(t *testing.T) {
	wf, mocks := newWorkflowMocks(t)
	expectUILifecycle(mocks)

	sources := []m.Source{source("a.go")}

	mocks.fs.On("Get", mock.Anything, mock.Anything, mock.Anything, "_gen\\.go$").Return(sources, nil)
	mocks.ui.On("DisplayConcurrencyInfo", mock.Anything, 1, 1).Return()
	mocks.analyzer.On("AnalyzeSource", mock.Anything, sources[0], mock.MatchedBy(func(opts domain.AnalyzeOptions) bool {
		return opts.Detail && opts.Policy != nil
	})).Return(report("a.go", 3, 0), nil)
	mocks.ui.On("DisplayFileReport", mock.Anything, mock.Anything).Return()
	mocks.exporter.On("Export", mock.Anything, m.Path("points.db"), inOrder("a.go")).Return(nil)
	mocks.ui.On("DisplayReports", mock.Anything, inOrder("a.go"), mock.Anything, true).Return(nil)
	mocks.ui.On("Wait", mock.Anything).Return()

	err := wf.Analyze(context.Background(), domain.AnalyzeArgs{
		Exclude: []string{"_gen\\.go$"},
		SQLite:  "points.db",
		HitMode: domain.HitModeNone,
		Detail:  true,
	})
	require.NoError(t, err)
}

func TestWorkflow_AnalyzeStopsOnFileError(t *testing.T) {
	wf, mocks := newWorkflowMocks(t)
	expectUILifecycle(mocks)

	sources := []m.Source{source("broken.go")}
	parseErr := errors.New("boom")

	mocks.fs.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(sources, nil)
	mocks.ui.On("DisplayConcurrencyInfo", mock.Anything, 1, 1).Return()
	mocks.analyzer.On("AnalyzeSource", mock.Anything, sources[0], mock.Anything).Return(m.FileReport{}, parseErr)

	err := wf.Analyze(context.Background(), domain.AnalyzeArgs{Reports: ".pointcov-reports"})
	require.ErrorIs(t, err, parseErr)
	assert.Contains(t, err.Error(), "broken.go")

	mocks.store.AssertNotCalled(t, "SaveReports", mock.Anything, mock.Anything)
}

func TestWorkflow_AnalyzeFailsOnNamedUnsupportedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn main() {}\n"), 0o600))

	fsAdapter := adapter.NewLocalSourceFSAdapter()
	ui := controllermocks.NewMockUI(t)
	store := adaptermocks.NewMockReportStore(t)
	wf := domain.NewWorkflow(fsAdapter, store, adaptermocks.NewMockProfileAdapter(t), adaptermocks.NewMockSQLiteExporter(t),
		ui, domain.NewAnalyzer(fsAdapter, adapter.NewFrontends()))

	ui.On("Start", mock.Anything, mock.Anything).Return(nil)
	ui.On("Close", mock.Anything).Return()
	ui.On("DisplayConcurrencyInfo", mock.Anything, 1, 1).Return()

	err := wf.Analyze(context.Background(), domain.AnalyzeArgs{
		Paths:   []m.Path{m.Path(path)},
		Reports: m.Path(t.TempDir()),
		HitMode: domain.HitModeAll,
	})
	require.ErrorIs(t, err, adapter.ErrParseFailure)
	assert.Contains(t, err.Error(), "lib.rs")

	store.AssertNotCalled(t, "SaveReports", mock.Anything, mock.Anything)
}

func TestWorkflow_AnalyzeProfileModeNeedsProfile(t *testing.T) {
	wf, mocks := newWorkflowMocks(t)
	expectUILifecycle(mocks)

	err := wf.Analyze(context.Background(), domain.AnalyzeArgs{HitMode: domain.HitModeProfile})
	require.ErrorIs(t, err, domain.ErrUnknownHitMode)
}

func TestWorkflow_AnalyzeLoadsProfile(t *testing.T) {
	wf, mocks := newWorkflowMocks(t)
	expectUILifecycle(mocks)

	profile := adapter.NewCoverProfile(map[string][]m.Span{"a.go": {m.NewSpan(1, 1, 2, 1)}})

	mocks.profile.On("Load", mock.Anything, m.Path("cover.out")).Return(profile, nil)
	mocks.fs.On("Get", mock.Anything, mock.Anything, mock.Anything).Return([]m.Source{}, nil)
	mocks.ui.On("DisplayConcurrencyInfo", mock.Anything, 1, 0).Return()
	mocks.ui.On("DisplayReports", mock.Anything, mock.Anything, mock.Anything, false).Return(nil)
	mocks.ui.On("Wait", mock.Anything).Return()

	err := wf.Analyze(context.Background(), domain.AnalyzeArgs{HitMode: domain.HitModeProfile, Profile: "cover.out"})
	require.NoError(t, err)
}

func TestWorkflow_AnalyzeProfileLoadError(t *testing.T) {
	wf, mocks := newWorkflowMocks(t)
	expectUILifecycle(mocks)

	loadErr := errors.New("bad profile")
	mocks.profile.On("Load", mock.Anything, m.Path("cover.out")).Return(nil, loadErr)

	err := wf.Analyze(context.Background(), domain.AnalyzeArgs{HitMode: domain.HitModeProfile, Profile: "cover.out"})
	require.ErrorIs(t, err, loadErr)
}

func TestWorkflow_Estimate(t *testing.T) {
	wf, mocks := newWorkflowMocks(t)
	expectUILifecycle(mocks)

	sources := []m.Source{source("z.go"), source("a.go")}

	mocks.fs.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(sources, nil)
	mocks.analyzer.On("EstimateSource", mock.Anything, sources[0]).
		Return(m.FileEstimate{Source: *sources[0].Origin, Counts: map[m.Category]int{m.CategoryFunction: 1}}, nil)
	mocks.analyzer.On("EstimateSource", mock.Anything, sources[1]).
		Return(m.FileEstimate{Source: *sources[1].Origin, Counts: map[m.Category]int{m.CategoryFunction: 2}}, nil)
	mocks.ui.On("DisplayEstimation", mock.Anything, mock.MatchedBy(func(estimates []m.FileEstimate) bool {
		return len(estimates) == 2 &&
			estimates[0].Source.ShortPath == "a.go" && estimates[0].Total() == 2 &&
			estimates[1].Source.ShortPath == "z.go"
	}), nil).Return(nil)
	mocks.ui.On("Wait", mock.Anything).Return()

	require.NoError(t, wf.Estimate(context.Background(), domain.EstimateArgs{Threads: 4}))
}

func TestWorkflow_EstimateReportsErrors(t *testing.T) {
	wf, mocks := newWorkflowMocks(t)
	expectUILifecycle(mocks)

	getErr := errors.New("no such dir")

	mocks.fs.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, getErr)
	mocks.ui.On("DisplayEstimation", mock.Anything, []m.FileEstimate(nil), mock.Anything).Return(getErr)

	err := wf.Estimate(context.Background(), domain.EstimateArgs{})
	require.ErrorIs(t, err, getErr)
}

func TestWorkflow_View(t *testing.T) {
	wf, mocks := newWorkflowMocks(t)
	expectUILifecycle(mocks)

	mocks.store.On("LoadReports", m.Path("reports")).Return([]m.FileReport{report("a.go", 2, 2)}, nil)
	mocks.ui.On("DisplayReports", mock.Anything, inOrder("a.go"), mock.MatchedBy(func(s m.Summary) bool {
		return s.Files == 1
	}), true).Return(nil)
	mocks.ui.On("Wait", mock.Anything).Return()

	require.NoError(t, wf.View(context.Background(), domain.ViewArgs{Reports: "reports", Detail: true}))
}

func TestWorkflow_ViewLoadError(t *testing.T) {
	wf, mocks := newWorkflowMocks(t)
	expectUILifecycle(mocks)

	mocks.store.On("LoadReports", m.Path("missing")).Return(nil, errors.New("read reports dir"))

	require.Error(t, wf.View(context.Background(), domain.ViewArgs{Reports: "missing"}))
}

func TestWorkflow_Merge(t *testing.T) {
	wf, mocks := newWorkflowMocks(t)

	mocks.store.On("LoadReports", m.Path("run-a")).Return([]m.FileReport{report("a.go", 4, 1)}, nil)
	mocks.store.On("LoadReports", m.Path("run-b")).Return([]m.FileReport{report("b.go", 4, 3), report("c.go", 2, 2)}, nil)

	isMerged := mock.MatchedBy(func(s m.Summary) bool {
		totals, _ := s.Totals(m.CategoryStatement)
		return s.Files == 3 && totals.Discovered == 10 && totals.Hit == 6
	})

	mocks.store.On("SaveSummary", m.Path("merged"), isMerged).Return(nil)
	mocks.ui.On("DisplaySummary", mock.Anything, isMerged).Return(nil)

	err := wf.Merge(context.Background(), domain.MergeArgs{Inputs: []m.Path{"run-a", "run-b"}, Output: "merged"})
	require.NoError(t, err)
}

func TestWorkflow_MergeCombinesEarlierSummaries(t *testing.T) {
	wf, mocks := newWorkflowMocks(t)

	earlier := domain.Merge(report("a.go", 4, 1), report("b.go", 6, 3))

	mocks.store.On("LoadReports", m.Path("merged")).Return(nil, nil)
	mocks.store.On("LoadSummary", m.Path("merged")).Return(earlier, nil)
	mocks.store.On("LoadReports", m.Path("run-c")).Return([]m.FileReport{report("c.go", 2, 2)}, nil)
	mocks.store.On("LoadReports", m.Path("empty")).Return(nil, nil)
	mocks.store.On("LoadSummary", m.Path("empty")).Return(m.Summary{}, fmt.Errorf("load summary: %w", fs.ErrNotExist))
	mocks.store.On("SaveSummary", m.Path("out"), mock.Anything).Return(nil)
	mocks.ui.On("DisplaySummary", mock.Anything, mock.MatchedBy(func(s m.Summary) bool {
		totals, ok := s.Totals(m.CategoryStatement)
		return ok && s.Files == 3 && totals.Discovered == 12 && totals.Hit == 6
	})).Return(nil)

	require.NoError(t, wf.Merge(context.Background(), domain.MergeArgs{
		Inputs: []m.Path{"merged", "run-c", "empty"},
		Output: "out",
	}))

	mocks.store.AssertNotCalled(t, "LoadSummary", m.Path("run-c"))
}

func TestWorkflow_MergeSummaryError(t *testing.T) {
	wf, mocks := newWorkflowMocks(t)

	mocks.store.On("LoadReports", m.Path("broken")).Return(nil, nil)
	mocks.store.On("LoadSummary", m.Path("broken")).Return(m.Summary{}, errors.New("load summary: yaml"))

	err := wf.Merge(context.Background(), domain.MergeArgs{Inputs: []m.Path{"broken"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestWorkflow_MergeWithoutInputs(t *testing.T) {
	wf, _ := newWorkflowMocks(t)

	require.Error(t, wf.Merge(context.Background(), domain.MergeArgs{}))
}

func TestWorkflow_DiffIdentical(t *testing.T) {
	wf, mocks := newWorkflowMocks(t)

	mocks.store.On("LoadReports", m.Path("old")).Return([]m.FileReport{report("a.go", 2, 1)}, nil)
	mocks.store.On("LoadReports", m.Path("new")).Return([]m.FileReport{report("a.go", 2, 1)}, nil)
	mocks.ui.On("DisplayDiff", mock.Anything, "").Return(nil)

	require.NoError(t, wf.Diff(context.Background(), domain.DiffArgs{Old: "old", New: "new"}))
}

func TestWorkflow_DiffChanged(t *testing.T) {
	wf, mocks := newWorkflowMocks(t)

	mocks.store.On("LoadReports", m.Path("old")).Return([]m.FileReport{report("a.go", 2, 1)}, nil)
	mocks.store.On("LoadReports", m.Path("new")).Return([]m.FileReport{report("a.go", 2, 2)}, nil)
	mocks.ui.On("DisplayDiff", mock.Anything, mock.MatchedBy(func(diff string) bool {
		return strings.Contains(diff, "-- statement: 1/2 (50.00%)") &&
			strings.Contains(diff, "+- statement: 2/2 (100.00%)")
	})).Return(nil)

	require.NoError(t, wf.Diff(context.Background(), domain.DiffArgs{Old: "old", New: "new"}))
}

func TestDiffReports(t *testing.T) {
	oldReports := []m.FileReport{report("b.go", 1, 1), report("a.go", 2, 0)}
	newReports := []m.FileReport{report("a.go", 2, 0), report("b.go", 1, 1)}

	diff, err := domain.DiffReports(oldReports, newReports, "old", "new", false)
	require.NoError(t, err)
	assert.Empty(t, diff, "ordering differences are not changes")

	newReports = append(newReports, report("c.go", 5, 5))

	diff, err = domain.DiffReports(oldReports, newReports, "old", "new", false)
	require.NoError(t, err)
	assert.Contains(t, diff, "--- old")
	assert.Contains(t, diff, "+++ new")
	assert.Contains(t, diff, "+c.go")
}
