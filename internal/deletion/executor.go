// Package deletion removes redundant duplicate-group members under a policy.
package deletion

import (
	"context"
	"fmt"
	"os"

	"videodupes/internal/metrics"

	"go.uber.org/zap"
)

// KeepAll is the label of the extra choice offered for every group under
// PolicyYes.
const KeepAll = "Keep all files"

// Prompter asks the user to confirm or choose.
type Prompter interface {
	Confirm(label string) (bool, error)
	Select(label string, items []string) (int, error)
}

// DeletionError wraps a failed removal. It is logged, never returned.
type DeletionError struct {
	Path string
	Err  error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("delete %s: %v", e.Path, e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }

type Executor struct {
	prompter Prompter
	remove   func(string) error
	logger   *zap.Logger

	// AssumeYes skips the confirmation PolicyAll normally asks for.
	AssumeYes bool
	// Display maps a path to the label shown in prompts.
	Display func(string) string
}

// NewExecutor returns an executor removing files with remove (os.Remove
// when nil).
func NewExecutor(prompter Prompter, remove func(string) error, logger *zap.Logger) *Executor {
	if remove == nil {
		remove = os.Remove
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{prompter: prompter, remove: remove, logger: logger}
}

// Apply deletes redundant members of groups according to policy and returns
// the paths actually removed. Removal failures are logged and skipped; prompt
// failures abort.
func (e *Executor) Apply(ctx context.Context, groups [][]string, policy Policy) ([]string, error) {
	deleted := make([]string, 0)
	if len(groups) == 0 {
		return deleted, nil
	}

	switch policy {
	case PolicyNo:
		e.logger.Info("deletion disabled, reporting only", zap.Int("groups", len(groups)))
		return deleted, nil

	case PolicyAll:
		if !e.AssumeYes {
			if e.prompter == nil {
				return deleted, fmt.Errorf("policy %q needs confirmation but no prompt is available", policy)
			}
			ok, err := e.prompter.Confirm(fmt.Sprintf("Delete all but the first file in %d duplicate groups", len(groups)))
			if err != nil {
				return deleted, fmt.Errorf("confirm deletion: %w", err)
			}
			if !ok {
				e.logger.Info("deletion cancelled by user")
				return deleted, nil
			}
		}
		for _, g := range groups {
			if err := ctx.Err(); err != nil {
				return deleted, err
			}
			deleted = append(deleted, e.removeAll(g[1:])...)
		}
		return deleted, nil

	case PolicyYes:
		if e.prompter == nil {
			return deleted, fmt.Errorf("policy %q needs an interactive prompt", policy)
		}
		for i, g := range groups {
			if err := ctx.Err(); err != nil {
				return deleted, err
			}
			items := make([]string, 0, len(g)+1)
			for _, p := range g {
				items = append(items, e.display(p))
			}
			items = append(items, KeepAll)

			idx, err := e.prompter.Select(fmt.Sprintf("Group %d/%d: which file do you want to keep?", i+1, len(groups)), items)
			if err != nil {
				return deleted, fmt.Errorf("choose file to keep: %w", err)
			}
			if idx < 0 || idx >= len(g) {
				e.logger.Info("keeping every file in group", zap.Int("group", i+1))
				continue
			}
			rest := make([]string, 0, len(g)-1)
			rest = append(rest, g[:idx]...)
			rest = append(rest, g[idx+1:]...)
			deleted = append(deleted, e.removeAll(rest)...)
		}
		return deleted, nil

	default:
		return deleted, fmt.Errorf("unknown delete policy %q", policy)
	}
}

func (e *Executor) removeAll(paths []string) []string {
	removed := make([]string, 0, len(paths))
	for _, p := range paths {
		if err := e.remove(p); err != nil {
			e.logger.Error("failed to delete duplicate", zap.Error(&DeletionError{Path: p, Err: err}))
			continue
		}
		metrics.FilesDeletedTotal.Inc()
		e.logger.Info("deleted duplicate", zap.String("path", p))
		removed = append(removed, p)
	}
	return removed
}

func (e *Executor) display(p string) string {
	if e.Display != nil {
		return e.Display(p)
	}
	return p
}
