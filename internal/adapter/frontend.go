package adapter

import (
	"context"
	"errors"
	"fmt"

	m "pointcov.dev/pkg/pointcov/internal/model"
)

// ErrParseFailure is returned when a frontend cannot build a syntax tree.
var ErrParseFailure = errors.New("parse failure")

// Frontend turns source text into the closed syntax tree the walker consumes.
type Frontend interface {
	// Name identifies the frontend in logs and reports.
	Name() string
	// Supports reports whether the frontend handles path.
	Supports(path string) bool
	// Parse builds a syntax tree for path. Failures wrap ErrParseFailure.
	Parse(ctx context.Context, path m.Path, src []byte) (*m.SyntaxFile, error)
}

// Frontends selects the first frontend that supports a path.
type Frontends []Frontend

// NewFrontends constructs the default frontend set: Go sources and tree documents.
func NewFrontends() Frontends {
	return Frontends{NewLocalGoFileAdapter(), NewTreeFileAdapter()}
}

// Supports reports whether any frontend handles path.
func (fs Frontends) Supports(path string) bool {
	return fs.For(path) != nil
}

// For returns the frontend for path, or nil.
func (fs Frontends) For(path string) Frontend {
	for _, f := range fs {
		if f.Supports(path) {
			return f
		}
	}

	return nil
}

// Parse dispatches to the frontend for path.
func (fs Frontends) Parse(ctx context.Context, path m.Path, src []byte) (*m.SyntaxFile, error) {
	f := fs.For(string(path))
	if f == nil {
		return nil, fmt.Errorf("%w: no frontend for %s", ErrParseFailure, path)
	}

	return f.Parse(ctx, path, src)
}
