package adapter

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	m "pointcov.dev/pkg/pointcov/internal/model"
)

const (
	reportFileExt   = ".yaml"
	summaryFileName = "_summary.yaml"
	reportNameLen   = 16
)

// ReportStore persists and retrieves coverage point reports.
type ReportStore interface {
	SaveReports(path m.Path, reports []m.FileReport) error
	LoadReports(path m.Path) ([]m.FileReport, error)
	SaveSummary(path m.Path, summary m.Summary) error
	LoadSummary(path m.Path) (m.Summary, error)
}

// LocalReportStore writes one YAML document per source file into a directory.
// File names are a hash prefix of the source path; only such names are read
// back or replaced.
type LocalReportStore struct{}

// NewReportStore constructs a ReportStore implementation.
func NewReportStore() ReportStore {
	return &LocalReportStore{}
}

// SaveReports replaces the reports under path, creating the directory.
// Reports left by earlier runs are removed first; other files are untouched.
func (rs *LocalReportStore) SaveReports(path m.Path, reports []m.FileReport) error {
	if err := os.MkdirAll(string(path), 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	if err := rs.clearReports(path); err != nil {
		return err
	}

	for _, report := range reports {
		name := rs.reportName(report.Source)

		if err := writeYAML(filepath.Join(string(path), name), report); err != nil {
			return fmt.Errorf("save report for %s: %w", report.Source.ShortPath, err)
		}
	}

	return nil
}

// LoadReports reads every report under path, ordered by short path.
func (rs *LocalReportStore) LoadReports(path m.Path) ([]m.FileReport, error) {
	entries, err := os.ReadDir(string(path))
	if err != nil {
		return nil, fmt.Errorf("read reports dir: %w", err)
	}

	var reports []m.FileReport

	for _, entry := range entries {
		if entry.IsDir() || !isReportName(entry.Name()) {
			continue
		}

		var report m.FileReport
		if err := readYAML(filepath.Join(string(path), entry.Name()), &report); err != nil {
			return nil, fmt.Errorf("load report %s: %w", entry.Name(), err)
		}

		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Source.ShortPath < reports[j].Source.ShortPath
	})

	return reports, nil
}

// SaveSummary writes the merged summary next to the reports.
func (rs *LocalReportStore) SaveSummary(path m.Path, summary m.Summary) error {
	if err := os.MkdirAll(string(path), 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	return writeYAML(filepath.Join(string(path), summaryFileName), summary)
}

// LoadSummary reads a summary written by SaveSummary.
func (rs *LocalReportStore) LoadSummary(path m.Path) (m.Summary, error) {
	var summary m.Summary
	if err := readYAML(filepath.Join(string(path), summaryFileName), &summary); err != nil {
		return m.Summary{}, fmt.Errorf("load summary: %w", err)
	}

	return summary, nil
}

func (rs *LocalReportStore) clearReports(path m.Path) error {
	entries, err := os.ReadDir(string(path))
	if err != nil {
		return fmt.Errorf("read reports dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isReportName(entry.Name()) {
			continue
		}

		if err := os.Remove(filepath.Join(string(path), entry.Name())); err != nil {
			return fmt.Errorf("remove stale report %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// isReportName matches names produced by reportName.
func isReportName(name string) bool {
	stem, ok := strings.CutSuffix(name, reportFileExt)
	if !ok || len(stem) != reportNameLen {
		return false
	}

	_, err := hex.DecodeString(stem)

	return err == nil
}

func (rs *LocalReportStore) reportName(source m.File) string {
	key := string(source.FullPath)
	if key == "" {
		key = string(source.ShortPath)
	}

	sum := sha256.Sum256([]byte(key))

	return fmt.Sprintf("%x", sum)[:reportNameLen] + reportFileExt
}

func writeYAML(path string, value any) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

func readYAML(path string, value any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if strings.TrimSpace(string(data)) == "" {
		return errors.New("empty document")
	}

	return yaml.Unmarshal(data, value)
}
