// Package domain contains the coverage point catalog: registry, tree walker,
// hit recorder, reporter and the multi-file workflow around them.
package domain

import (
	"errors"
	"fmt"

	m "pointcov.dev/pkg/pointcov/internal/model"
)

var (
	// ErrUnknownCategory is returned for a category outside the closed set.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrDegenerateSpan is returned for a span whose end precedes its start.
	ErrDegenerateSpan = errors.New("degenerate span")
	// ErrUnknownPoint is returned when a (category, id) pair was never registered.
	ErrUnknownPoint = errors.New("unknown point")
	// ErrMalformedTree is returned when a node violates the frontend contract.
	ErrMalformedTree = errors.New("malformed syntax tree")
)

// Slot addresses a child span of a binary conditional.
type Slot int

// Child slots.
const (
	SlotLeft Slot = iota + 1
	SlotRight
)

// ChildKey derives the key of a child span: left is 2*id-1, right is 2*id.
func ChildKey(parentID int, slot Slot) int {
	if slot == SlotLeft {
		return 2*parentID - 1
	}

	return 2 * parentID
}

// Point is a registered coverage point.
type Point struct {
	Category m.Category
	ID       int
	Span     m.Span
	Label    string
}

type childKey struct {
	category m.Category
	key      int
}

// Registry owns the coverage points of one analysis run. Ids are assigned per
// category starting at 1 and never reused. A Registry is not safe for
// concurrent use; each run creates its own.
type Registry struct {
	points   map[m.Category][]Point
	children map[childKey]m.Span
	arms     map[int]int
	extents  map[int]m.Span
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		points:   make(map[m.Category][]Point),
		children: make(map[childKey]m.Span),
		arms:     make(map[int]int),
		extents:  make(map[int]m.Span),
	}
}

// Register stores a new point and returns its category-scoped id.
func (r *Registry) Register(category m.Category, span m.Span, label string) (int, error) {
	if !category.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCategory, int(category))
	}

	if !span.Valid() {
		return 0, fmt.Errorf("%w: %s %s", ErrDegenerateSpan, category, span)
	}

	id := len(r.points[category]) + 1
	r.points[category] = append(r.points[category], Point{
		Category: category,
		ID:       id,
		Span:     span,
		Label:    label,
	})

	return id, nil
}

// RegisterChild stores an informational sub-span of a registered binary
// conditional under its derived key. It does not consume a new id.
func (r *Registry) RegisterChild(category m.Category, parentID int, slot Slot, span m.Span) error {
	if category != m.CategoryBinaryConditional {
		return fmt.Errorf("%w: %s has no child slots", ErrUnknownCategory, category)
	}

	if slot != SlotLeft && slot != SlotRight {
		return fmt.Errorf("invalid child slot %d", int(slot))
	}

	if _, ok := r.Point(category, parentID); !ok {
		return fmt.Errorf("%w: %s %d", ErrUnknownPoint, category, parentID)
	}

	if !span.Valid() {
		return fmt.Errorf("%w: child of %s %d %s", ErrDegenerateSpan, category, parentID, span)
	}

	r.children[childKey{category: category, key: ChildKey(parentID, slot)}] = span

	return nil
}

// Child returns the child span stored under a derived key.
func (r *Registry) Child(category m.Category, key int) (m.Span, bool) {
	span, ok := r.children[childKey{category: category, key: key}]
	return span, ok
}

// SetArmCount records the arm count of a match point, keyed by its id.
func (r *Registry) SetArmCount(matchID, arms int) error {
	if _, ok := r.Point(m.CategoryMatch, matchID); !ok {
		return fmt.Errorf("%w: %s %d", ErrUnknownPoint, m.CategoryMatch, matchID)
	}

	r.arms[matchID] = arms

	return nil
}

// ArmCount returns the recorded arm count of a match point.
func (r *Registry) ArmCount(matchID int) (int, bool) {
	n, ok := r.arms[matchID]
	return n, ok
}

// MatchesWithArms returns the ids of match points with exactly n arms, ascending.
func (r *Registry) MatchesWithArms(n int) []int {
	var ids []int

	for _, p := range r.points[m.CategoryMatch] {
		if arms, ok := r.arms[p.ID]; ok && arms == n {
			ids = append(ids, p.ID)
		}
	}

	return ids
}

// SetExtent records the full if-statement extent of a branch point.
func (r *Registry) SetExtent(branchID int, span m.Span) error {
	if _, ok := r.Point(m.CategoryBranch, branchID); !ok {
		return fmt.Errorf("%w: %s %d", ErrUnknownPoint, m.CategoryBranch, branchID)
	}

	r.extents[branchID] = span

	return nil
}

// Extent returns the if-statement extent of a branch point.
func (r *Registry) Extent(branchID int) (m.Span, bool) {
	span, ok := r.extents[branchID]
	return span, ok
}

// Total returns the number of points registered in category.
func (r *Registry) Total(category m.Category) int {
	return len(r.points[category])
}

// Point returns a registered point.
func (r *Registry) Point(category m.Category, id int) (Point, bool) {
	points := r.points[category]
	if id < 1 || id > len(points) {
		return Point{}, false
	}

	return points[id-1], true
}

// Points returns the points of category in ascending id order.
func (r *Registry) Points(category m.Category) []Point {
	points := r.points[category]
	out := make([]Point, len(points))
	copy(out, points)

	return out
}
