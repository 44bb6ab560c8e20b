// Package model defines the data structures shared by the coverage point
// catalog: spans, categories, syntax trees and reports.
package model

import "fmt"

// Category is the closed classification of a coverage point.
type Category int

const (
	// CategoryFunction is a function or method declaration, including closures.
	CategoryFunction Category = iota + 1
	// CategoryStatement is a statement inside a function body or case arm.
	CategoryStatement
	// CategoryBranch is the condition of a two-way or chained conditional.
	CategoryBranch
	// CategoryMatch is a multi-arm conditional (switch, type switch, select, match).
	CategoryMatch
	// CategoryLoop is a counted, conditioned or post-checked loop.
	CategoryLoop
	// CategoryMacro is a macro invocation; in Go sources, a call to a predeclared builtin.
	CategoryMacro
	// CategoryBinaryConditional is a short-circuit && or || expression.
	CategoryBinaryConditional
)

var categoryNames = map[Category]string{
	CategoryFunction:          "function",
	CategoryStatement:         "statement",
	CategoryBranch:            "branch",
	CategoryMatch:             "match",
	CategoryLoop:              "loop",
	CategoryMacro:             "macro",
	CategoryBinaryConditional: "binary_conditional",
}

// Categories returns every category in report order.
func Categories() []Category {
	return []Category{
		CategoryFunction,
		CategoryStatement,
		CategoryBranch,
		CategoryMatch,
		CategoryLoop,
		CategoryMacro,
		CategoryBinaryConditional,
	}
}

// Valid reports whether c is one of the closed set of categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// String returns the stable lowercase name used in reports and config.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}

	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory resolves a name produced by String.
func ParseCategory(name string) (Category, error) {
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}

	return 0, fmt.Errorf("unknown category %q", name)
}

// MarshalYAML encodes the category by name.
func (c Category) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML decodes a category name.
func (c *Category) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}

	parsed, err := ParseCategory(name)
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}
