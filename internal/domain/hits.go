package domain

import (
	"fmt"

	m "pointcov.dev/pkg/pointcov/internal/model"
)

// HitRecorder records which registered points were exercised. It knows nothing
// about how execution is traced; any collaborator may call MarkHit.
type HitRecorder struct {
	registry *Registry
	hits     map[m.Category]map[int]struct{}
}

// NewHitRecorder creates a recorder that validates ids against registry.
func NewHitRecorder(registry *Registry) *HitRecorder {
	return &HitRecorder{
		registry: registry,
		hits:     make(map[m.Category]map[int]struct{}),
	}
}

// MarkHit marks (category, id) as exercised. Marking twice is a no-op. An id
// that is not registered is rejected with ErrUnknownPoint and changes nothing.
func (h *HitRecorder) MarkHit(category m.Category, id int) error {
	if _, ok := h.registry.Point(category, id); !ok {
		return fmt.Errorf("%w: %s %d", ErrUnknownPoint, category, id)
	}

	set, ok := h.hits[category]
	if !ok {
		set = make(map[int]struct{})
		h.hits[category] = set
	}

	set[id] = struct{}{}

	return nil
}

// IsHit reports whether (category, id) was marked.
func (h *HitRecorder) IsHit(category m.Category, id int) bool {
	_, ok := h.hits[category][id]
	return ok
}

// Hits returns the number of distinct marked ids in category.
func (h *HitRecorder) Hits(category m.Category) int {
	return len(h.hits[category])
}
