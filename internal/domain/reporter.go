package domain

import (
	"bytes"
	"strings"
	"unicode/utf8"

	m "pointcov.dev/pkg/pointcov/internal/model"
)

const maxSnippetWidth = 60

// Reporter joins a Registry and a HitRecorder into a FileReport.
type Reporter struct {
	registry *Registry
	hits     *HitRecorder
	lines    [][]byte
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithSourceText enables per-point source snippets.
func WithSourceText(src []byte) ReporterOption {
	return func(r *Reporter) {
		if len(src) > 0 {
			r.lines = bytes.Split(src, []byte("\n"))
		}
	}
}

// NewReporter creates a Reporter over one run's registry and hits.
func NewReporter(registry *Registry, hits *HitRecorder, opts ...ReporterOption) *Reporter {
	r := &Reporter{registry: registry, hits: hits}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Report builds the per-category report. It only reads its inputs.
func (r *Reporter) Report(source m.File) m.FileReport {
	report := m.FileReport{Source: source}

	for _, category := range m.Categories() {
		report.Categories = append(report.Categories, r.categoryReport(category))
	}

	return report
}

func (r *Reporter) categoryReport(category m.Category) m.CategoryReport {
	points := r.registry.Points(category)
	cr := m.CategoryReport{
		Category:   category,
		Discovered: len(points),
		Hit:        r.hits.Hits(category),
		Points:     make([]m.PointReport, 0, len(points)),
	}
	cr.Percentage = m.NewPercentage(cr.Hit, cr.Discovered)

	for _, p := range points {
		cr.Points = append(cr.Points, r.pointReport(p))
	}

	return cr
}

func (r *Reporter) pointReport(p Point) m.PointReport {
	pr := m.PointReport{
		ID:      p.ID,
		Label:   p.Label,
		Span:    p.Span,
		Hit:     r.hits.IsHit(p.Category, p.ID),
		Snippet: r.snippet(p.Span),
	}

	switch p.Category {
	case m.CategoryBinaryConditional:
		if left, ok := r.registry.Child(p.Category, ChildKey(p.ID, SlotLeft)); ok {
			pr.Left = &left
		}

		if right, ok := r.registry.Child(p.Category, ChildKey(p.ID, SlotRight)); ok {
			pr.Right = &right
		}
	case m.CategoryMatch:
		if arms, ok := r.registry.ArmCount(p.ID); ok {
			pr.Arms = &arms
		}
	case m.CategoryBranch:
		if extent, ok := r.registry.Extent(p.ID); ok {
			pr.Extent = &extent
		}
	default:
	}

	return pr
}

// snippet returns the first source line of span, trimmed and shortened.
func (r *Reporter) snippet(span m.Span) string {
	if len(r.lines) == 0 || span.Start.Line > len(r.lines) {
		return ""
	}

	line := r.lines[span.Start.Line-1]

	start := span.Start.Column - 1
	if start > len(line) {
		return ""
	}

	end := len(line)
	if span.End.Line == span.Start.Line && span.End.Column-1 <= len(line) {
		end = span.End.Column - 1
	}

	text := strings.TrimSpace(string(line[start:end]))
	if utf8.RuneCountInString(text) > maxSnippetWidth {
		runes := []rune(text)
		text = string(runes[:maxSnippetWidth-1]) + "…"
	}

	return text
}
