package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "pointcov.dev/pkg/pointcov/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output  io.Writer
	mode    StartMode
	options []tea.ProgramOption
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{
		output:  output,
		mode:    ModeAnalyze,
		options: []tea.ProgramOption{tea.WithOutput(output), tea.WithAltScreen()},
	}
}

// Start initializes the UI.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mode = applyStartOptions(options)

	return nil
}

// Close finalizes the UI.
func (t *TUI) Close(_ context.Context) {}

// Wait returns immediately: interactive views block inside Display calls.
func (t *TUI) Wait(_ context.Context) {}

// DisplayEstimation shows discovered point counts in a scrollable list.
func (t *TUI) DisplayEstimation(ctx context.Context, estimates []m.FileEstimate, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		_, _ = fmt.Fprintf(t.output, "estimation error: %v\n", err)
		return err
	}

	items := make([]list.Item, 0, len(estimates))
	total := 0

	for _, e := range estimates {
		items = append(items, fileItem{path: string(e.Source.ShortPath), discovered: e.Total(), hit: -1})
		total += e.Total()
	}

	model := newReportModel("🔎 "+t.mode.Title(), fmt.Sprintf("Points: %d   Files: %d", total, len(estimates)))
	model = model.withItems(items)

	return t.run(ctx, model)
}

// DisplayConcurrencyInfo is silent: the result view follows.
func (t *TUI) DisplayConcurrencyInfo(_ context.Context, _ int, _ int) {}

// DisplayFileReport is silent: the result view follows.
func (t *TUI) DisplayFileReport(_ context.Context, _ m.FileReport) {}

// DisplayReports shows per-file coverage with a detail pane for the selected file.
func (t *TUI) DisplayReports(ctx context.Context, reports []m.FileReport, summary m.Summary, detail bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	items := make([]list.Item, 0, len(reports))

	for _, r := range reports {
		item := fileItem{path: string(r.Source.ShortPath), detail: RenderReport(r, detail)}
		for _, cr := range r.Categories {
			item.discovered += cr.Discovered
			item.hit += cr.Hit
		}

		items = append(items, item)
	}

	discovered, hit := 0, 0
	for _, ct := range summary.Categories {
		discovered += ct.Discovered
		hit += ct.Hit
	}

	model := newReportModel("🧭 "+t.mode.Title(), fmt.Sprintf("Hit: %d/%d (%s)   Files: %d",
		hit, discovered, m.NewPercentage(hit, discovered), summary.Files))
	model = model.withItems(items)

	return t.run(ctx, model)
}

// DisplaySummary prints the summary table in a styled box.
func (t *TUI) DisplaySummary(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Padding(0, 1)

	_, err := fmt.Fprintln(t.output, box.Render(strings.TrimRight(renderSummaryTable(summary), "\n")))

	return err
}

// DisplayDiff prints a colored unified diff.
func (t *TUI) DisplayDiff(ctx context.Context, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		_, err := fmt.Fprintln(t.output, "No differences")
		return err
	}

	_, err := fmt.Fprint(t.output, colorDiff(diff))

	return err
}

func (t *TUI) run(ctx context.Context, model tea.Model) error {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, t.options...)

	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}

func colorDiff(diff string) string {
	added := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removed := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hunk := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			continue
		case strings.HasPrefix(line, "+"):
			lines[i] = added.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = removed.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = hunk.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}

// fileItem is one row of the file list. A negative hit marks estimate rows.
type fileItem struct {
	path       string
	discovered int
	hit        int
	detail     string
}

func (f fileItem) FilterValue() string {
	return f.path
}

func (f fileItem) counts() string {
	if f.hit < 0 {
		return fmt.Sprintf("%d", f.discovered)
	}

	return fmt.Sprintf("%d/%d", f.hit, f.discovered)
}

type fileDelegate struct{}

func (d fileDelegate) Height() int                             { return 1 }
func (d fileDelegate) Spacing() int                            { return 0 }
func (d fileDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d fileDelegate) Render(w io.Writer, lm list.Model, index int, item list.Item) {
	file, ok := item.(fileItem)
	if !ok {
		return
	}

	pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true).Width(countWidth).Align(lipgloss.Right)

	if index == lm.Index() {
		pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Bold(true)
		countStyle = countStyle.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	}

	width := lm.Width() - countWidth - 2

	_, _ = fmt.Fprintf(w, "%s  %s",
		countStyle.Render(file.counts()),
		pathStyle.Render(truncateToWidth(file.path, width)),
	)
}

const countWidth = 11

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	maxWidth := width - lipgloss.Width(ellipsis)
	if maxWidth <= 0 {
		return ellipsis
	}

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// reportModel lists files; enter toggles the detail pane of the selection.
type reportModel struct {
	title      string
	summary    string
	width      int
	height     int
	fileList   list.Model
	showDetail bool
	rendered   bool
}

func newReportModel(title, summary string) reportModel {
	fileList := list.New([]list.Item{}, fileDelegate{}, 80, 20)
	fileList.SetShowPagination(false)
	fileList.SetShowFilter(true)
	fileList.SetShowHelp(false)
	fileList.SetShowTitle(false)
	fileList.SetShowStatusBar(false)
	fileList.FilterInput.Placeholder = "Filter by path…"

	return reportModel{title: title, summary: summary, fileList: fileList}
}

func (rm reportModel) withItems(items []list.Item) reportModel {
	rm.fileList.SetItems(items)
	rm.rendered = true

	return rm
}

func (rm reportModel) Init() tea.Cmd {
	return nil
}

func (rm reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.width = msg.Width
		rm.height = msg.Height
		rm.fileList.SetWidth(msg.Width)

		return rm, nil
	case tea.KeyMsg:
		if rm.fileList.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return rm, tea.Quit
		case "enter":
			rm.showDetail = !rm.showDetail
			return rm, nil
		}
	}

	var cmd tea.Cmd
	rm.fileList, cmd = rm.fileList.Update(msg)

	return rm, cmd
}

func (rm reportModel) selected() (fileItem, bool) {
	item, ok := rm.fileList.SelectedItem().(fileItem)
	return item, ok
}

func (rm reportModel) View() string {
	if !rm.rendered {
		return "Loading coverage points…\n"
	}

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Padding(1, 0, 0, 2)
	summaryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 0, 1, 2)
	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Align(lipgloss.Center).Width(rm.width)

	body := rm.renderTable()

	if rm.showDetail {
		if item, ok := rm.selected(); ok && item.detail != "" {
			body = rm.renderDetail(item)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(rm.title),
		summaryStyle.Render(rm.summary),
		body,
		footerStyle.Render("↑/k up • ↓/j down • enter detail • / filter • q quit"),
	)
}

func (rm reportModel) renderTable() string {
	listHeight := rm.height - 9
	if listHeight < 5 {
		listHeight = 5
	}

	listWidth := rm.width - 6
	if listWidth < 20 {
		listWidth = 20
	}

	rm.fileList.SetHeight(listHeight)
	rm.fileList.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%*s  %s", countWidth, "Points", "File Path"))

	container := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return container.Render(lipgloss.JoinVertical(lipgloss.Left, headers, rm.fileList.View()))
}

func (rm reportModel) renderDetail(item fileItem) string {
	maxLines := rm.height - 7
	if maxLines < 5 {
		maxLines = 5
	}

	lines := strings.Split(strings.TrimRight(item.detail, "\n"), "\n")
	if len(lines) > maxLines {
		lines = append(lines[:maxLines-1], "…")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("11")).
		Margin(0, 1).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
