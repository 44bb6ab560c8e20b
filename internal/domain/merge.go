package domain

import (
	m "pointcov.dev/pkg/pointcov/internal/model"
)

// Merge sums discovered and hit counts per category across independent runs
// and recomputes percentages. Point listings are not merged: ids are scoped to
// the run that assigned them.
func Merge(reports ...m.FileReport) m.Summary {
	totals := make(map[m.Category]*m.CategoryTotals)

	for _, report := range reports {
		for _, cr := range report.Categories {
			t := totalsFor(totals, cr.Category)
			t.Discovered += cr.Discovered
			t.Hit += cr.Hit
		}
	}

	return buildSummary(len(reports), totals)
}

// MergeSummaries combines summaries produced by earlier merges.
func MergeSummaries(summaries ...m.Summary) m.Summary {
	totals := make(map[m.Category]*m.CategoryTotals)
	files := 0

	for _, s := range summaries {
		files += s.Files

		for _, ct := range s.Categories {
			t := totalsFor(totals, ct.Category)
			t.Discovered += ct.Discovered
			t.Hit += ct.Hit
		}
	}

	return buildSummary(files, totals)
}

func totalsFor(totals map[m.Category]*m.CategoryTotals, c m.Category) *m.CategoryTotals {
	t, ok := totals[c]
	if !ok {
		t = &m.CategoryTotals{Category: c}
		totals[c] = t
	}

	return t
}

func buildSummary(files int, totals map[m.Category]*m.CategoryTotals) m.Summary {
	summary := m.Summary{Files: files}

	for _, c := range m.Categories() {
		t := m.CategoryTotals{Category: c}
		if found, ok := totals[c]; ok {
			t = *found
		}

		t.Percentage = m.NewPercentage(t.Hit, t.Discovered)
		summary.Categories = append(summary.Categories, t)
	}

	return summary
}
