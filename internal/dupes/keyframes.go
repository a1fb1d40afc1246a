package dupes

import (
	"context"
	"errors"
	"image"
	"os"

	"videodupes/internal/keyframe"
	"videodupes/internal/metrics"

	"go.uber.org/zap"
)

// SamplePositions returns the offsets (seconds) keyframes are taken at:
// 10%, 50% and 90% for clips longer than shortClip, otherwise only 50%.
func SamplePositions(duration, shortClip float64) []float64 {
	if duration > shortClip {
		return []float64{duration * 0.1, duration * 0.5, duration * 0.9}
	}
	return []float64{duration * 0.5}
}

// extractKeyframes pulls every sampled frame of path. A failure at any
// position discards the whole set.
func (d *Detector) extractKeyframes(ctx context.Context, path string, duration float64) ([]image.Image, error) {
	positions := SamplePositions(duration, d.opts.ShortClipSeconds)
	frames := make([]image.Image, 0, len(positions))
	for _, at := range positions {
		img, err := d.extractKeyframe(ctx, path, at)
		if err != nil {
			metrics.FailuresTotal.WithLabelValues("extract").Inc()
			return nil, &ExtractionError{Path: path, At: at, Err: err}
		}
		frames = append(frames, img)
	}
	return frames, nil
}

func (d *Detector) extractKeyframe(ctx context.Context, path string, at float64) (image.Image, error) {
	tmp, release, err := d.acquireTemp()
	if err != nil {
		return nil, err
	}
	defer release()

	if err := d.tool.ExtractFrame(ctx, path, at, tmp); err != nil {
		return nil, err
	}
	return keyframe.Decode(tmp)
}

// acquireTemp reserves a uniquely named frame file in the work dir. The
// returned release func removes it; removal failures are only logged.
func (d *Detector) acquireTemp() (string, func(), error) {
	ext := d.opts.FrameExt
	if ext == "" {
		ext = ".png"
	}
	f, err := os.CreateTemp(d.workDir, "frame-*"+ext)
	if err != nil {
		return "", nil, err
	}
	name := f.Name()
	_ = f.Close()

	release := func() {
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			d.logger.Warn("failed to remove temp frame", zap.String("path", name), zap.Error(err))
		}
	}
	return name, release, nil
}
