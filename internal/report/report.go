// Package report builds and persists the JSON summary of a run.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const filePrefix = "duplicate-videos-report-"

// Report is written once per run and never modified afterwards.
type Report struct {
	DuplicateGroups [][]string `json:"duplicateGroups"`
	DeletedFiles    []string   `json:"deletedFiles"`
	Timestamp       time.Time  `json:"timestamp"`
}

// New builds a report whose paths are relative to root. Slices are never nil
// so empty results serialize as [].
func New(root string, groups [][]string, deleted []string, ts time.Time) Report {
	r := Report{
		DuplicateGroups: make([][]string, 0, len(groups)),
		DeletedFiles:    make([]string, 0, len(deleted)),
		Timestamp:       ts.UTC().Truncate(time.Millisecond),
	}
	for _, g := range groups {
		members := make([]string, 0, len(g))
		for _, p := range g {
			members = append(members, relative(root, p))
		}
		r.DuplicateGroups = append(r.DuplicateGroups, members)
	}
	for _, p := range deleted {
		r.DeletedFiles = append(r.DeletedFiles, relative(root, p))
	}
	return r
}

func relative(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return filepath.ToSlash(rel)
}

// FileName is the per-run report name; the millisecond timestamp keeps runs
// from overwriting each other.
func FileName(ts time.Time) string {
	return filePrefix + ts.UTC().Format("2006-01-02T15-04-05.000Z") + ".json"
}

// Write stores r in dir and returns the file path.
func Write(dir string, r Report) (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	b = append(b, '\n')

	name := FileName(r.Timestamp)
	if err := writeFileAtomic(dir, name, b); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return filepath.Join(dir, name), nil
}

// Read loads a report written by Write.
func Read(path string) (Report, error) {
	var r Report
	b, err := os.ReadFile(path)
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return r, fmt.Errorf("decode report %s: %w", path, err)
	}
	return r, nil
}
