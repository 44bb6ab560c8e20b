package controller

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "pointcov.dev/pkg/pointcov/internal/model"
)

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "main.go", 10, "main.go"},
		{"exact", "main.go", 7, "main.go"},
		{"truncated", "internal/domain/walker.go", 10, "internal/…"},
		{"zero width", "main.go", 0, ""},
		{"only ellipsis", "main.go", 1, "…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateToWidth(tt.text, tt.width))
		})
	}
}

func TestFileItem_Counts(t *testing.T) {
	assert.Equal(t, "7", fileItem{discovered: 7, hit: -1}.counts())
	assert.Equal(t, "3/7", fileItem{discovered: 7, hit: 3}.counts())
	assert.Equal(t, "a.go", fileItem{path: "a.go"}.FilterValue())
}

func TestReportModel_Loading(t *testing.T) {
	model := newReportModel("title", "summary")

	assert.Equal(t, "Loading coverage points…\n", model.View())
	assert.Nil(t, model.Init())
}

func TestReportModel_Update(t *testing.T) {
	model := newReportModel("🧭 pointcov coverage points", "Hit: 1/2 (50.00%)   Files: 1").
		withItems([]list.Item{fileItem{path: "abs.go", discovered: 2, hit: 1, detail: "abs.go\nCoverage:\n- function: 1/2 (50.00%)\n"}})

	updated, cmd := model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Nil(t, cmd)

	rm := updated.(reportModel)
	assert.Equal(t, 100, rm.width)
	assert.Equal(t, 30, rm.height)

	view := rm.View()
	assert.Contains(t, view, "pointcov coverage points")
	assert.Contains(t, view, "abs.go")
	assert.Contains(t, view, "1/2")

	updated, _ = rm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm = updated.(reportModel)
	assert.True(t, rm.showDetail)
	assert.Contains(t, rm.View(), "- function: 1/2 (50.00%)")

	updated, _ = rm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, updated.(reportModel).showDetail)

	_, cmd = rm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestColorDiff(t *testing.T) {
	diff := "--- old\n+++ new\n@@ -1 +1 @@\n-a\n+b\n c"

	colored := colorDiff(diff)

	assert.Contains(t, colored, "--- old\n+++ new\n")
	assert.Contains(t, colored, "-a")
	assert.Contains(t, colored, "+b")
	assert.Contains(t, colored, "\n c")
}

func TestTUI_PlainDisplays(t *testing.T) {
	var out bytes.Buffer

	tui := NewTUI(&out)
	ctx := context.Background()

	require.NoError(t, tui.Start(ctx, WithViewMode()))
	assert.Equal(t, ModeView, tui.mode)

	require.NoError(t, tui.DisplayDiff(ctx, ""))
	assert.Equal(t, "No differences\n", out.String())

	out.Reset()

	summary := m.Summary{Files: 3, Categories: []m.CategoryTotals{
		{Category: m.CategoryLoop, Discovered: 2, Hit: 1, Percentage: m.NewPercentage(1, 2)},
	}}
	require.NoError(t, tui.DisplaySummary(ctx, summary))
	assert.Contains(t, out.String(), "loop")
	assert.Contains(t, out.String(), "50.00%")
	assert.Contains(t, out.String(), "TOTAL FILES 3")

	out.Reset()

	require.Error(t, tui.DisplayEstimation(ctx, nil, assert.AnError))
	assert.Contains(t, out.String(), "estimation error")
}

func TestTUI_CanceledContext(t *testing.T) {
	tui := NewTUI(&bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, tui.Start(ctx), context.Canceled)
	require.ErrorIs(t, tui.DisplayReports(ctx, nil, m.Summary{}, false), context.Canceled)
	require.ErrorIs(t, tui.DisplayEstimation(ctx, nil, nil), context.Canceled)
}
