package model

import (
	"fmt"
	"math"
)

// Percentage is a hit ratio in percent. It is NaN when nothing was discovered.
type Percentage float64

// NewPercentage computes 100*hit/discovered, or NaN for an empty category.
func NewPercentage(hit, discovered int) Percentage {
	if discovered == 0 {
		return Percentage(math.NaN())
	}

	return Percentage(float64(hit) / float64(discovered) * 100)
}

// Defined reports whether the percentage has a value.
func (p Percentage) Defined() bool {
	return !math.IsNaN(float64(p))
}

// String renders the percentage with two decimals, or n/a when undefined.
func (p Percentage) String() string {
	if !p.Defined() {
		return "n/a"
	}

	return fmt.Sprintf("%.2f%%", float64(p))
}

// PointReport is one coverage point in a report listing.
type PointReport struct {
	ID      int    `yaml:"id"`
	Label   string `yaml:"label,omitempty"`
	Span    Span   `yaml:"span"`
	Hit     bool   `yaml:"hit"`
	Snippet string `yaml:"snippet,omitempty"`

	// Left and Right are the operand spans of a binary conditional.
	Left  *Span `yaml:"left,omitempty"`
	Right *Span `yaml:"right,omitempty"`
	// Arms is the arm count of a match point.
	Arms *int `yaml:"arms,omitempty"`
	// Extent is the full if-statement extent of a branch point.
	Extent *Span `yaml:"extent,omitempty"`
}

// CategoryReport aggregates one category of a file.
type CategoryReport struct {
	Category   Category      `yaml:"category"`
	Discovered int           `yaml:"discovered"`
	Hit        int           `yaml:"hit"`
	Percentage Percentage    `yaml:"percentage"`
	Points     []PointReport `yaml:"points,omitempty"`
}

// FileReport is the result of one analysis run over a single source file.
type FileReport struct {
	Source     File             `yaml:"source"`
	Categories []CategoryReport `yaml:"categories"`
}

// Category returns the report section for c.
func (r FileReport) Category(c Category) (CategoryReport, bool) {
	for _, cr := range r.Categories {
		if cr.Category == c {
			return cr, true
		}
	}

	return CategoryReport{}, false
}

// CategoryTotals holds summed counts for one category across runs.
type CategoryTotals struct {
	Category   Category   `yaml:"category"`
	Discovered int        `yaml:"discovered"`
	Hit        int        `yaml:"hit"`
	Percentage Percentage `yaml:"percentage"`
}

// Summary is the categorical sum of several file reports.
type Summary struct {
	Files      int              `yaml:"files"`
	Categories []CategoryTotals `yaml:"categories"`
}

// Totals returns the summed counts for c.
func (s Summary) Totals(c Category) (CategoryTotals, bool) {
	for _, t := range s.Categories {
		if t.Category == c {
			return t, true
		}
	}

	return CategoryTotals{}, false
}

// FileEstimate holds discovered point counts for a file without hit data.
type FileEstimate struct {
	Source File
	Counts map[Category]int
}

// Total returns the number of points across all categories.
func (e FileEstimate) Total() int {
	total := 0
	for _, n := range e.Counts {
		total += n
	}

	return total
}
