package adapter

import (
	"context"
	"fmt"
	"os"
	pathpkg "path"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/cover"

	m "pointcov.dev/pkg/pointcov/internal/model"
)

// CoverProfile holds the executed blocks of a Go coverage profile, keyed by the
// profile's file names (import-path qualified).
type CoverProfile struct {
	executed map[string][]m.Span

	mu      sync.Mutex
	modules map[string]moduleRoot
}

// moduleRoot is the go.mod that governs a directory. A zero value means the
// directory lies outside any module.
type moduleRoot struct {
	dir  string
	path string
}

// minSuffixSegments is how many trailing segments a fallback match must share:
// the package directory and the file name.
const minSuffixSegments = 2

// NewCoverProfile builds a profile from executed spans keyed by file name.
func NewCoverProfile(executed map[string][]m.Span) *CoverProfile {
	return &CoverProfile{executed: executed, modules: make(map[string]moduleRoot)}
}

// Executed returns the executed spans for path, or nil when the profile does
// not cover it. Inside a module the path is resolved to its import path and
// must match a profile name exactly. Outside a module, profile names are
// matched by the longest common trailing run of path segments covering at
// least the package directory and file name; ties go to the smallest name.
func (p *CoverProfile) Executed(path m.Path) []m.Span {
	if p == nil {
		return nil
	}

	if name, ok := p.importPath(string(path)); ok {
		return p.executed[name]
	}

	target := segments(string(path))

	var (
		best      []m.Span
		bestName  string
		bestScore int
	)

	for name, spans := range p.executed {
		nameSegments := segments(name)

		score := commonSuffix(nameSegments, target)
		if score < min(minSuffixSegments, len(nameSegments)) {
			continue
		}

		if score > bestScore || (score == bestScore && name < bestName) {
			best, bestName, bestScore = spans, name, score
		}
	}

	return best
}

// importPath maps a file to module path + path relative to its go.mod.
func (p *CoverProfile) importPath(file string) (string, bool) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", false
	}

	root := p.moduleFor(filepath.Dir(abs))
	if root.path == "" {
		return "", false
	}

	rel, err := filepath.Rel(root.dir, abs)
	if err != nil {
		return "", false
	}

	return pathpkg.Join(root.path, filepath.ToSlash(rel)), true
}

func (p *CoverProfile) moduleFor(dir string) moduleRoot {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.modules == nil {
		p.modules = make(map[string]moduleRoot)
	}

	if root, ok := p.modules[dir]; ok {
		return root
	}

	var root moduleRoot

	for d := dir; ; {
		if data, err := os.ReadFile(filepath.Join(d, "go.mod")); err == nil {
			if modPath := modfile.ModulePath(data); modPath != "" {
				root = moduleRoot{dir: d, path: modPath}
			}

			break
		}

		parent := filepath.Dir(d)
		if parent == d {
			break
		}

		d = parent
	}

	p.modules[dir] = root

	return root
}

// Files lists the profile's file names.
func (p *CoverProfile) Files() []string {
	names := make([]string, 0, len(p.executed))
	for name := range p.executed {
		names = append(names, name)
	}

	return names
}

func segments(path string) []string {
	return strings.Split(strings.Trim(filepath.ToSlash(path), "/"), "/")
}

func commonSuffix(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}

	return n
}

// ProfileAdapter loads coverage profiles produced by `go test -coverprofile`.
type ProfileAdapter interface {
	Load(ctx context.Context, path m.Path) (*CoverProfile, error)
}

// LocalProfileAdapter reads profiles from disk with golang.org/x/tools/cover.
type LocalProfileAdapter struct{}

// NewLocalProfileAdapter constructs a LocalProfileAdapter.
func NewLocalProfileAdapter() *LocalProfileAdapter {
	return &LocalProfileAdapter{}
}

// Load parses the profile at path and keeps blocks with a positive count.
func (a *LocalProfileAdapter) Load(ctx context.Context, path m.Path) (*CoverProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profiles, err := cover.ParseProfiles(string(path))
	if err != nil {
		return nil, fmt.Errorf("parse coverage profile %s: %w", path, err)
	}

	executed := make(map[string][]m.Span, len(profiles))

	for _, profile := range profiles {
		// Files without executed blocks still claim their name.
		spans := executed[profile.FileName]
		if spans == nil {
			spans = []m.Span{}
		}

		for _, block := range profile.Blocks {
			if block.Count == 0 {
				continue
			}

			spans = append(spans, m.NewSpan(block.StartLine, block.StartCol, block.EndLine, block.EndCol))
		}

		executed[profile.FileName] = spans
	}

	return NewCoverProfile(executed), nil
}
