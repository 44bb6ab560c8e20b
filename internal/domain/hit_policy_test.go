package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pointcov.dev/pkg/pointcov/internal/adapter"
	m "pointcov.dev/pkg/pointcov/internal/model"
)

func TestParseHitMode(t *testing.T) {
	tests := []struct {
		name    string
		want    HitMode
		wantErr bool
	}{
		{"", HitModeAll, false},
		{"all", HitModeAll, false},
		{" None ", HitModeNone, false},
		{"PROFILE", HitModeProfile, false},
		{"sometimes", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHitMode(tt.name)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownHitMode)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func policyFixture(t *testing.T) *Registry {
	t.Helper()

	r := NewRegistry()
	_, err := r.Register(m.CategoryFunction, m.NewSpan(3, 1, 12, 2), "f")
	require.NoError(t, err)
	_, err = r.Register(m.CategoryStatement, m.NewSpan(4, 2, 4, 12), "")
	require.NoError(t, err)
	_, err = r.Register(m.CategoryStatement, m.NewSpan(9, 3, 9, 15), "")
	require.NoError(t, err)
	_, err = r.Register(m.CategoryBranch, m.NewSpan(5, 5, 5, 10), "")
	require.NoError(t, err)

	return r
}

func TestHitPolicy_All(t *testing.T) {
	r := policyFixture(t)
	h := NewHitRecorder(r)

	policy, err := NewHitPolicy(HitModeAll, nil)
	require.NoError(t, err)
	require.NoError(t, policy.Apply("f.go", r, h))

	assert.Equal(t, 1, h.Hits(m.CategoryFunction))
	assert.Equal(t, 2, h.Hits(m.CategoryStatement))
	assert.Equal(t, 1, h.Hits(m.CategoryBranch))
}

func TestHitPolicy_None(t *testing.T) {
	r := policyFixture(t)
	h := NewHitRecorder(r)

	policy, err := NewHitPolicy(HitModeNone, nil)
	require.NoError(t, err)
	require.NoError(t, policy.Apply("f.go", r, h))

	for _, c := range m.Categories() {
		assert.Equal(t, 0, h.Hits(c))
	}
}

func TestHitPolicy_Profile(t *testing.T) {
	profile := adapter.NewCoverProfile(map[string][]m.Span{
		"example.com/mod/pkg/f.go": {m.NewSpan(3, 20, 5, 11)},
	})

	policy, err := NewHitPolicy(HitModeProfile, profile)
	require.NoError(t, err)

	r := policyFixture(t)
	h := NewHitRecorder(r)
	require.NoError(t, policy.Apply("/home/dev/mod/pkg/f.go", r, h))

	assert.True(t, h.IsHit(m.CategoryFunction, 1))
	assert.True(t, h.IsHit(m.CategoryStatement, 1))
	assert.False(t, h.IsHit(m.CategoryStatement, 2), "outside every executed block")
	assert.True(t, h.IsHit(m.CategoryBranch, 1))
}

func TestHitPolicy_ProfileWithoutMatchingFile(t *testing.T) {
	profile := adapter.NewCoverProfile(map[string][]m.Span{
		"example.com/mod/other.go": {m.NewSpan(1, 1, 100, 1)},
	})

	policy, err := NewHitPolicy(HitModeProfile, profile)
	require.NoError(t, err)

	r := policyFixture(t)
	h := NewHitRecorder(r)
	require.NoError(t, policy.Apply("/src/f.go", r, h))

	for _, c := range m.Categories() {
		assert.Equal(t, 0, h.Hits(c))
	}
}

func TestNewHitPolicy_Errors(t *testing.T) {
	_, err := NewHitPolicy(HitModeProfile, nil)
	require.ErrorIs(t, err, ErrUnknownHitMode)

	_, err = NewHitPolicy(HitMode("random"), nil)
	require.ErrorIs(t, err, ErrUnknownHitMode)
}

func TestHitPolicyFunc(t *testing.T) {
	r := policyFixture(t)
	h := NewHitRecorder(r)

	policy := HitPolicyFunc(func(_ m.Path, _ *Registry, hits *HitRecorder) error {
		return hits.MarkHit(m.CategoryStatement, 2)
	})

	require.NoError(t, policy.Apply("f.go", r, h))
	assert.True(t, h.IsHit(m.CategoryStatement, 2))
	assert.Equal(t, 1, h.Hits(m.CategoryStatement))
}
