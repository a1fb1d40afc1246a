// Package dupes partitions videos into groups of content-equivalent files.
//
// Two videos are equivalent when their durations agree within a tolerance and
// the keyframes sampled at the same relative positions all compare equal.
// Grouping is greedy: each unclaimed file seeds a group and collects the later
// unclaimed files equivalent to it. Equivalence is only checked against the
// seed unless Options.StrictGroups is set, so with borderline similarity two
// members of a seed-only group may not match each other.
package dupes

import (
	"context"
	"errors"
	"image"
	"math"

	"videodupes/internal/metrics"

	"go.uber.org/zap"
)

type probeResult struct {
	seconds float64
	err     error
}

// seedFrames holds the keyframes of the current seed, which every candidate
// of a grouping pass is compared against.
type seedFrames struct {
	path   string
	loaded bool
	frames []image.Image
	err    error
}

// Detector runs the comparisons of a single run. It is not safe for
// concurrent use.
type Detector struct {
	tool    VideoTool
	cmp     FrameComparer
	opts    Options
	workDir string
	logger  *zap.Logger

	durations map[string]probeResult
	seed      seedFrames

	// Progress, when set, is called after every seed file is handled.
	Progress func(done, total int)
}

// New returns a detector writing temporary frames under workDir.
func New(tool VideoTool, cmp FrameComparer, workDir string, opts Options, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		tool:      tool,
		cmp:       cmp,
		opts:      opts,
		workDir:   workDir,
		logger:    logger,
		durations: make(map[string]probeResult),
	}
}

// Duration returns the probed duration of path. Results, failures included,
// are cached for the lifetime of the detector.
func (d *Detector) Duration(ctx context.Context, path string) (float64, error) {
	if r, ok := d.durations[path]; ok {
		return r.seconds, r.err
	}

	sec, err := d.tool.ProbeDuration(ctx, path)
	if err == nil && !(sec > 0) {
		err = errors.New("duration is not positive")
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		err = &ProbeError{Path: path, Err: err}
		metrics.FailuresTotal.WithLabelValues("probe").Inc()
		d.logger.Info("skipping unreadable video", zap.String("path", path), zap.Error(err))
	}
	d.durations[path] = probeResult{seconds: sec, err: err}
	return sec, err
}

// Equivalent reports whether a and b are duplicates. Anything that prevents
// a decision (probe or extraction failure) yields false.
func (d *Detector) Equivalent(ctx context.Context, a, b string) bool {
	outcome := d.compare(ctx, a, b)
	metrics.ComparisonsTotal.WithLabelValues(outcome).Inc()
	d.logger.Debug("compared videos", zap.String("a", a), zap.String("b", b), zap.String("outcome", outcome))
	return outcome == "duplicate"
}

func (d *Detector) compare(ctx context.Context, a, b string) string {
	da, err := d.Duration(ctx, a)
	if err != nil {
		return "probe_failed"
	}
	db, err := d.Duration(ctx, b)
	if err != nil {
		return "probe_failed"
	}
	if math.Abs(da-db) > d.opts.DurationTolerance {
		return "duration_mismatch"
	}

	fa, err := d.keyframes(ctx, a, da)
	if err != nil {
		d.logger.Info("keyframe extraction failed", zap.Error(err))
		return "extract_failed"
	}
	fb, err := d.keyframes(ctx, b, db)
	if err != nil {
		d.logger.Info("keyframe extraction failed", zap.Error(err))
		return "extract_failed"
	}
	if len(fa) != len(fb) {
		return "frame_count_mismatch"
	}

	for i := range fa {
		if !d.cmp.Equal(fa[i], fb[i]) {
			return "frame_mismatch"
		}
	}
	return "duplicate"
}

// Group partitions files, in the given order, into duplicate groups of at
// least two members. The first member of each group is its seed.
func (d *Detector) Group(ctx context.Context, files []string) ([][]string, error) {
	claimed := make([]bool, len(files))
	groups := make([][]string, 0)
	defer func() { d.seed = seedFrames{} }()

	for i, seed := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if claimed[i] {
			d.progress(i+1, len(files))
			continue
		}
		claimed[i] = true

		group := []string{seed}
		d.seed = seedFrames{path: seed}
		if _, err := d.Duration(ctx, seed); err == nil {
			for j := i + 1; j < len(files); j++ {
				if claimed[j] {
					continue
				}
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				if !d.Equivalent(ctx, seed, files[j]) {
					continue
				}
				if d.opts.StrictGroups && !d.matchesAll(ctx, group[1:], files[j]) {
					continue
				}
				group = append(group, files[j])
				claimed[j] = true
			}
		}

		d.seed = seedFrames{}

		if len(group) > 1 {
			groups = append(groups, group)
			metrics.GroupsFoundTotal.Inc()
			d.logger.Info("duplicate group found", zap.String("seed", seed), zap.Int("members", len(group)))
		}
		d.progress(i+1, len(files))
	}

	return groups, nil
}

// keyframes extracts the keyframes of path, reusing them when path is the
// current seed. A failed seed extraction is reused too, unless it was caused
// by cancellation.
func (d *Detector) keyframes(ctx context.Context, path string, duration float64) ([]image.Image, error) {
	if path != d.seed.path {
		return d.extractKeyframes(ctx, path, duration)
	}
	if !d.seed.loaded {
		frames, err := d.extractKeyframes(ctx, path, duration)
		if err != nil && ctx.Err() != nil {
			return nil, err
		}
		d.seed.frames, d.seed.err, d.seed.loaded = frames, err, true
	}
	return d.seed.frames, d.seed.err
}

func (d *Detector) matchesAll(ctx context.Context, members []string, candidate string) bool {
	for _, m := range members {
		if !d.Equivalent(ctx, m, candidate) {
			return false
		}
	}
	return true
}

func (d *Detector) progress(done, total int) {
	if d.Progress != nil {
		d.Progress(done, total)
	}
}
