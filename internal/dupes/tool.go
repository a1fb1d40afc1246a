package dupes

import (
	"context"
	"image"
)

// VideoTool is the process-backed capability the detector relies on.
type VideoTool interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
	ExtractFrame(ctx context.Context, path string, at float64, outPath string) error
}

// FrameComparer judges whether two keyframes show the same picture.
type FrameComparer interface {
	Equal(a, b image.Image) bool
}

// Options tunes the equivalence test.
type Options struct {
	// DurationTolerance is the largest duration gap, in seconds, two
	// duplicates may have.
	DurationTolerance float64 `json:"duration_tolerance"`
	// ShortClipSeconds is the duration at or below which a single middle
	// frame is sampled instead of three.
	ShortClipSeconds float64 `json:"short_clip_seconds"`
	// StrictGroups requires every group member to match every other member,
	// not only the seed.
	StrictGroups bool `json:"strict_groups"`
	// FrameExt selects the still format ffmpeg writes (".png", ".jpg", ".webp").
	FrameExt string `json:"frame_ext"`
}

func DefaultOptions() Options {
	return Options{
		DurationTolerance: 0.01,
		ShortClipSeconds:  3,
		FrameExt:          ".png",
	}
}
