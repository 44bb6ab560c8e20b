package controller

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))

	file, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)

	defer file.Close()

	assert.False(t, IsTTY(file))
}

func TestNewUI(t *testing.T) {
	cmd := &cobra.Command{}

	assert.IsType(t, &SimpleUI{}, NewUI(cmd, false))
	assert.IsType(t, &TUI{}, NewUI(cmd, true))
}

func TestStartOptions(t *testing.T) {
	cfg := &StartConfig{}

	WithAnalyzeMode()(cfg)
	assert.Equal(t, ModeAnalyze, cfg.mode)

	WithViewMode()(cfg)
	assert.Equal(t, ModeView, cfg.mode)

	WithEstimateMode()(cfg)
	assert.Equal(t, ModeEstimate, cfg.mode)
}

func TestStartMode_Title(t *testing.T) {
	assert.Equal(t, "pointcov estimate", ModeEstimate.Title())
	assert.Equal(t, "pointcov coverage points", ModeAnalyze.Title())
	assert.Equal(t, "pointcov saved reports", ModeView.Title())

	assert.Equal(t, ModeAnalyze, applyStartOptions(nil))
	assert.Equal(t, ModeView, applyStartOptions([]StartOption{WithEstimateMode(), WithViewMode()}))
}
