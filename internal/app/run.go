// Package app wires scanning, grouping, deletion and reporting into one run.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"videodupes/internal/deletion"
	"videodupes/internal/dupes"
	"videodupes/internal/keyframe"
	"videodupes/internal/metrics"
	"videodupes/internal/pixeldiff"
	"videodupes/internal/report"
	"videodupes/internal/scan"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FatalSetupError aborts a run before any file is examined.
type FatalSetupError struct {
	Reason string
	Err    error
}

func (e *FatalSetupError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *FatalSetupError) Unwrap() error { return e.Err }

// Checker is implemented by tools that can verify their external binaries.
type Checker interface {
	Available() error
}

type Uploader interface {
	UploadReport(ctx context.Context, localPath string) (string, error)
}

type Options struct {
	InputDir  string
	OutputDir string
	TempRoot  string
	Policy    deletion.Policy
	AssumeYes bool
	Detector  dupes.Options
	Keyframe  keyframe.Options
}

type Deps struct {
	Tool     dupes.VideoTool
	Differ   keyframe.Differ
	Prompter deletion.Prompter
	Remove   func(string) error
	Uploader Uploader
	Logger   *zap.Logger
	Progress func(done, total int)
	// Now defaults to time.Now. The report is stamped with the run start.
	Now func() time.Time
}

type Result struct {
	Files       []string
	Report      report.Report
	ReportPath  string
	UploadedKey string
}

func Run(ctx context.Context, opts Options, deps Deps) (Result, error) {
	var res Result
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	started := now()

	input, err := filepath.Abs(opts.InputDir)
	if err != nil {
		return res, &FatalSetupError{Reason: "resolve input directory", Err: err}
	}
	info, err := os.Stat(input)
	if err != nil {
		return res, &FatalSetupError{Reason: "input directory not accessible", Err: err}
	}
	if !info.IsDir() {
		return res, &FatalSetupError{Reason: fmt.Sprintf("%s is not a directory", input)}
	}
	if deps.Tool == nil {
		return res, &FatalSetupError{Reason: "no video tool configured"}
	}
	if c, ok := deps.Tool.(Checker); ok {
		if err := c.Available(); err != nil {
			return res, &FatalSetupError{Reason: "ffmpeg tools not available", Err: err}
		}
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = "."
	}

	workDir, err := os.MkdirTemp(opts.TempRoot, "videodupes-"+uuid.NewString())
	if err != nil {
		return res, &FatalSetupError{Reason: "create temp directory", Err: err}
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Warn("failed to remove temp directory", zap.String("dir", workDir), zap.Error(err))
		}
	}()

	files, err := scan.ListVideos(input)
	if err != nil {
		return res, &FatalSetupError{Reason: "list input directory", Err: err}
	}
	res.Files = files
	metrics.FilesScannedTotal.Add(float64(len(files)))
	logger.Info("scanning videos", zap.String("dir", input), zap.Int("files", len(files)), zap.String("policy", string(opts.Policy)))

	differ := deps.Differ
	if differ == nil {
		differ = pixeldiff.Differ{}
	}
	cmp := keyframe.NewComparator(opts.Keyframe, differ, logger)
	det := dupes.New(deps.Tool, cmp, workDir, opts.Detector, logger)
	det.Progress = deps.Progress

	groupStart := now()
	groups, err := det.Group(ctx, files)
	metrics.RunDuration.WithLabelValues("group").Observe(now().Sub(groupStart).Seconds())
	if err != nil {
		return res, fmt.Errorf("group videos: %w", err)
	}

	exec := deletion.NewExecutor(deps.Prompter, deps.Remove, logger)
	exec.AssumeYes = opts.AssumeYes
	exec.Display = func(p string) string {
		if rel, err := filepath.Rel(input, p); err == nil {
			return rel
		}
		return p
	}
	deleted, err := exec.Apply(ctx, groups, opts.Policy)
	if err != nil {
		// Files already removed are still reported.
		logger.Error("deletion aborted", zap.Error(err))
	}

	res.Report = report.New(input, groups, deleted, started)
	res.ReportPath, err = report.Write(outDir, res.Report)
	if err != nil {
		return res, fmt.Errorf("write report: %w", err)
	}
	logger.Info("report written",
		zap.String("path", res.ReportPath),
		zap.Int("groups", len(groups)),
		zap.Int("deleted", len(deleted)),
	)

	if deps.Uploader != nil {
		key, err := deps.Uploader.UploadReport(ctx, res.ReportPath)
		if err != nil {
			metrics.FailuresTotal.WithLabelValues("upload").Inc()
			logger.Warn("report upload failed", zap.Error(err))
		} else {
			res.UploadedKey = key
		}
	}

	metrics.RunDuration.WithLabelValues("total").Observe(now().Sub(started).Seconds())
	return res, nil
}

// IsFatalSetup reports whether err aborted the run during setup.
func IsFatalSetup(err error) bool {
	var fe *FatalSetupError
	return errors.As(err, &fe)
}
