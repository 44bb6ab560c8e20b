package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "pointcov.dev/pkg/pointcov/internal/model"
)

func newRegistryWith(t *testing.T, category m.Category, n int) *Registry {
	t.Helper()

	r := NewRegistry()
	for i := 1; i <= n; i++ {
		_, err := r.Register(category, m.NewSpan(i, 1, i, 10), "")
		require.NoError(t, err)
	}

	return r
}

func TestHitRecorder_MarkHit(t *testing.T) {
	r := newRegistryWith(t, m.CategoryStatement, 3)
	h := NewHitRecorder(r)

	require.NoError(t, h.MarkHit(m.CategoryStatement, 2))

	assert.True(t, h.IsHit(m.CategoryStatement, 2))
	assert.False(t, h.IsHit(m.CategoryStatement, 1))
	assert.False(t, h.IsHit(m.CategoryFunction, 2))
	assert.Equal(t, 1, h.Hits(m.CategoryStatement))
}

func TestHitRecorder_MarkHitIsIdempotent(t *testing.T) {
	r := newRegistryWith(t, m.CategoryBranch, 1)
	h := NewHitRecorder(r)

	require.NoError(t, h.MarkHit(m.CategoryBranch, 1))
	require.NoError(t, h.MarkHit(m.CategoryBranch, 1))

	assert.Equal(t, 1, h.Hits(m.CategoryBranch))
}

func TestHitRecorder_UnknownPointLeavesSetsUnchanged(t *testing.T) {
	r := newRegistryWith(t, m.CategoryBranch, 2)
	h := NewHitRecorder(r)

	require.NoError(t, h.MarkHit(m.CategoryBranch, 1))

	tests := []struct {
		name     string
		category m.Category
		id       int
	}{
		{"id past end", m.CategoryBranch, 3},
		{"zero id", m.CategoryBranch, 0},
		{"empty category", m.CategoryLoop, 1},
		{"unknown category", m.Category(99), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.MarkHit(tt.category, tt.id)
			require.ErrorIs(t, err, ErrUnknownPoint)
			assert.Equal(t, 1, h.Hits(m.CategoryBranch))
			assert.False(t, h.IsHit(tt.category, tt.id))
			assert.Equal(t, 2, r.Total(m.CategoryBranch))
		})
	}
}
