package controller

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	m "pointcov.dev/pkg/pointcov/internal/model"
)

const detailIndent = "      "

// RenderReport renders a file report as plain text:
//
//	main.go
//	Coverage:
//	- function: 2/3 (66.67%)
//	      * 1: 3:1-9:2 abs
//
// With detail set, every point is listed with a leading * when hit.
func RenderReport(report m.FileReport, detail bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\nCoverage:\n", report.Source.ShortPath)

	for _, cr := range report.Categories {
		fmt.Fprintf(&b, "- %s: %d/%d (%s)\n", cr.Category, cr.Hit, cr.Discovered, cr.Percentage)

		if !detail {
			continue
		}

		for _, p := range cr.Points {
			b.WriteString(renderPoint(p))
			b.WriteByte('\n')
		}
	}

	return b.String()
}

func renderPoint(p m.PointReport) string {
	marker := " "
	if p.Hit {
		marker = "*"
	}

	line := fmt.Sprintf("%s%s %d: %s", detailIndent, marker, p.ID, p.Span)
	if p.Label != "" {
		line += " " + p.Label
	}

	switch {
	case p.Left != nil && p.Right != nil:
		line += fmt.Sprintf(" [%s | %s]", p.Left, p.Right)
	case p.Arms != nil:
		line += fmt.Sprintf(" [arms=%d]", *p.Arms)
	case p.Extent != nil:
		line += fmt.Sprintf(" [if %s]", p.Extent)
	}

	if p.Snippet != "" {
		line += " -- " + p.Snippet
	}

	return line
}

// RenderReports renders reports in order, separated by blank lines.
func RenderReports(reports []m.FileReport, detail bool) string {
	parts := make([]string, 0, len(reports))
	for _, r := range reports {
		parts = append(parts, RenderReport(r, detail))
	}

	return strings.Join(parts, "\n")
}

func renderSummaryTable(summary m.Summary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Category", "Discovered", "Hit", "Coverage"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	discovered, hit := 0, 0

	for _, t := range summary.Categories {
		table.Append([]string{
			t.Category.String(),
			fmt.Sprintf("%d", t.Discovered),
			fmt.Sprintf("%d", t.Hit),
			t.Percentage.String(),
		})

		discovered += t.Discovered
		hit += t.Hit
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", summary.Files),
		fmt.Sprintf("%d", discovered),
		fmt.Sprintf("%d", hit),
		m.NewPercentage(hit, discovered).String(),
	})

	table.Render()

	return tableBuffer.String()
}

func renderEstimationTable(estimates []m.FileEstimate) string {
	var tableBuffer bytes.Buffer

	header := []string{"Path"}
	for _, c := range m.Categories() {
		header = append(header, c.String())
	}

	header = append(header, "Total")

	alignment := make([]int, len(header))
	for i := range alignment {
		alignment[i] = tablewriter.ALIGN_CENTER
	}

	alignment[0] = tablewriter.ALIGN_LEFT

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment(alignment)

	totals := make(map[m.Category]int)
	grand := 0

	for _, e := range estimates {
		row := []string{string(e.Source.ShortPath)}
		for _, c := range m.Categories() {
			row = append(row, fmt.Sprintf("%d", e.Counts[c]))
			totals[c] += e.Counts[c]
		}

		row = append(row, fmt.Sprintf("%d", e.Total()))
		grand += e.Total()

		table.Append(row)
	}

	footer := []string{fmt.Sprintf("Total Files %d", len(estimates))}
	for _, c := range m.Categories() {
		footer = append(footer, fmt.Sprintf("%d", totals[c]))
	}

	footer = append(footer, fmt.Sprintf("%d", grand))
	table.SetFooter(footer)

	table.Render()

	return tableBuffer.String()
}
