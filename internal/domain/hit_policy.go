package domain

import (
	"errors"
	"fmt"
	"strings"

	"pointcov.dev/pkg/pointcov/internal/adapter"
	m "pointcov.dev/pkg/pointcov/internal/model"
)

// HitMode selects where hit data comes from.
type HitMode string

// Available hit modes.
const (
	// HitModeAll marks every discovered point as hit.
	HitModeAll HitMode = "all"
	// HitModeNone marks nothing; reports list discovered points only.
	HitModeNone HitMode = "none"
	// HitModeProfile marks points overlapped by executed blocks of a Go coverage profile.
	HitModeProfile HitMode = "profile"
)

// ErrUnknownHitMode is returned for an unrecognized hit mode name.
var ErrUnknownHitMode = errors.New("unknown hit mode")

// ParseHitMode resolves a hit mode name. Empty selects HitModeAll.
func ParseHitMode(name string) (HitMode, error) {
	switch mode := HitMode(strings.ToLower(strings.TrimSpace(name))); mode {
	case "":
		return HitModeAll, nil
	case HitModeAll, HitModeNone, HitModeProfile:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownHitMode, name)
	}
}

// HitPolicy marks the points of a walked registry.
type HitPolicy interface {
	Apply(path m.Path, registry *Registry, hits *HitRecorder) error
}

// HitPolicyFunc adapts a function to HitPolicy.
type HitPolicyFunc func(path m.Path, registry *Registry, hits *HitRecorder) error

// Apply implements HitPolicy.
func (f HitPolicyFunc) Apply(path m.Path, registry *Registry, hits *HitRecorder) error {
	return f(path, registry, hits)
}

// NewHitPolicy builds the policy for mode. HitModeProfile requires a profile.
func NewHitPolicy(mode HitMode, profile *adapter.CoverProfile) (HitPolicy, error) {
	switch mode {
	case HitModeAll, "":
		return HitPolicyFunc(markAll), nil
	case HitModeNone:
		return HitPolicyFunc(func(m.Path, *Registry, *HitRecorder) error { return nil }), nil
	case HitModeProfile:
		if profile == nil {
			return nil, fmt.Errorf("%w: profile mode needs a coverage profile", ErrUnknownHitMode)
		}

		return &profilePolicy{profile: profile}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHitMode, mode)
	}
}

func markAll(_ m.Path, registry *Registry, hits *HitRecorder) error {
	for _, category := range m.Categories() {
		for _, p := range registry.Points(category) {
			if err := hits.MarkHit(category, p.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

type profilePolicy struct {
	profile *adapter.CoverProfile
}

// Apply marks a point when any executed block overlaps its span.
func (p *profilePolicy) Apply(path m.Path, registry *Registry, hits *HitRecorder) error {
	executed := p.profile.Executed(path)
	if len(executed) == 0 {
		return nil
	}

	for _, category := range m.Categories() {
		for _, point := range registry.Points(category) {
			if !overlapsAny(point.Span, executed) {
				continue
			}

			if err := hits.MarkHit(category, point.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

func overlapsAny(span m.Span, blocks []m.Span) bool {
	for _, block := range blocks {
		if span.Overlaps(block) {
			return true
		}
	}

	return false
}
