// Package controller provides output adapters for displaying coverage point reports.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	m "pointcov.dev/pkg/pointcov/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeEstimate StartMode = iota
	ModeAnalyze
	ModeView
)

// Title is the header shown above results in the mode.
func (s StartMode) Title() string {
	switch s {
	case ModeEstimate:
		return "pointcov estimate"
	case ModeView:
		return "pointcov saved reports"
	default:
		return "pointcov coverage points"
	}
}

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

func applyStartOptions(options []StartOption) StartMode {
	cfg := &StartConfig{mode: ModeAnalyze}
	for _, opt := range options {
		opt(cfg)
	}

	return cfg.mode
}

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithEstimateMode sets the UI to estimation mode.
func WithEstimateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeEstimate
	}
}

// WithAnalyzeMode sets the UI to analysis mode.
func WithAnalyzeMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeAnalyze
	}
}

// WithViewMode sets the UI to report viewing mode.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

// UI defines the interface for displaying coverage point results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayEstimation(ctx context.Context, estimates []m.FileEstimate, err error) error
	DisplayConcurrencyInfo(ctx context.Context, threads int, files int)
	DisplayFileReport(ctx context.Context, report m.FileReport)
	DisplayReports(ctx context.Context, reports []m.FileReport, summary m.Summary, detail bool) error
	DisplaySummary(ctx context.Context, summary m.Summary) error
	DisplayDiff(ctx context.Context, diff string) error
}

// NewUI creates a UI based on whether TTY mode is enabled.
// When useTTY is true, it returns a TUI (Bubble Tea).
// When useTTY is false, it returns a SimpleUI (plain text).
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY checks if the given writer is a terminal (TTY).
// Returns false if the output is redirected to a file or pipe.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
