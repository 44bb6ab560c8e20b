package controller

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	m "pointcov.dev/pkg/pointcov/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd  *cobra.Command
	mode StartMode
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd, mode: ModeAnalyze}
}

// Start initializes the UI and records the mode used for headers.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mode = applyStartOptions(options)

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayEstimation prints discovered point counts per file.
func (s *SimpleUI) DisplayEstimation(ctx context.Context, estimates []m.FileEstimate, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		s.printf("estimation error: %v\n", err)
		return err
	}

	s.printf("\n== %s ==\n%s", s.mode.Title(), renderEstimationTable(estimates))

	return nil
}

// DisplayConcurrencyInfo shows concurrency settings.
func (s *SimpleUI) DisplayConcurrencyInfo(ctx context.Context, threads int, files int) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Analyzing %d file(s) with %d worker(s)\n", files, threads)
}

// DisplayFileReport prints a one-line progress entry for a finished file.
func (s *SimpleUI) DisplayFileReport(ctx context.Context, report m.FileReport) {
	if ctx.Err() != nil {
		return
	}

	discovered, hit := 0, 0
	for _, cr := range report.Categories {
		discovered += cr.Discovered
		hit += cr.Hit
	}

	s.printf("Analyzed %s: %d/%d points\n", report.Source.ShortPath, hit, discovered)
}

// DisplayReports prints every report followed by the summary table.
func (s *SimpleUI) DisplayReports(ctx context.Context, reports []m.FileReport, summary m.Summary, detail bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n== %s ==\n", s.mode.Title())

	if len(reports) > 0 {
		s.printf("\n%s", RenderReports(reports, detail))
	}

	s.printf("\n%s", renderSummaryTable(summary))

	return nil
}

// DisplaySummary prints the summary table.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderSummaryTable(summary))

	return nil
}

// DisplayDiff prints a unified diff, or a note when reports are identical.
func (s *SimpleUI) DisplayDiff(ctx context.Context, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		s.printf("No differences\n")
		return nil
	}

	s.printf("%s", diff)

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
