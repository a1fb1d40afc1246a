package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
)

type Config struct {
	FFmpegPath   string        `json:"ffmpeg_path"`
	FFprobePath  string        `json:"ffprobe_path"`
	ProbeTimeout time.Duration `json:"probe_timeout"`
}

func DefaultConfig() Config {
	return Config{
		FFmpegPath:   "ffmpeg",
		FFprobePath:  "ffprobe",
		ProbeTimeout: 30 * time.Second,
	}
}

// Tool probes durations with ffprobe and pulls single frames with ffmpeg.
type Tool struct {
	cfg    Config
	logger *zap.Logger
}

func NewTool(cfg Config, logger *zap.Logger) *Tool {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tool{cfg: cfg, logger: logger}
}

// Available reports an error when ffmpeg or ffprobe cannot be found.
func (t *Tool) Available() error {
	for _, bin := range []string{t.cfg.FFmpegPath, t.cfg.FFprobePath} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s not found: %w", bin, err)
		}
	}
	return nil
}

// ProbeDuration returns the container duration in seconds. The probe is
// bounded by both ctx and Config.ProbeTimeout.
func (t *Tool) ProbeDuration(ctx context.Context, path string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	probeCtx := ctx
	if t.cfg.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, t.cfg.ProbeTimeout)
		defer cancel()
	}

	raw, err := runProbe(probeCtx, t.cfg.FFprobePath, probeArgs(path))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, fmt.Errorf("ffprobe: %w", err)
	}
	d, err := parseDuration(raw)
	if err != nil {
		return 0, err
	}
	t.logger.Debug("probed duration", zap.String("path", path), zap.Float64("seconds", d))
	return d, nil
}

// Swapped in tests so probing does not need ffprobe on PATH.
var runProbe = func(ctx context.Context, bin string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("[%s] %w", strings.TrimSpace(stderr.String()), err)
	}
	return stdout.String(), nil
}

// probeArgs mirrors ffmpeg.ProbeWithTimeout, which cannot be cancelled
// through a context.
func probeArgs(path string) []string {
	args := ffmpeg.ConvertKwargsToCmdLineArgs(ffmpeg.KwArgs{
		"show_format":  "",
		"show_streams": "",
		"of":           "json",
		"v":            "error",
	})
	return append(args, path)
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Duration  string `json:"duration"`
	} `json:"streams"`
}

// parseDuration reads format.duration from ffprobe JSON, falling back to the
// longest stream duration when the container does not report one.
func parseDuration(raw string) (float64, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return 0, fmt.Errorf("parse ffprobe output: %w", err)
	}

	if d, err := strconv.ParseFloat(strings.TrimSpace(out.Format.Duration), 64); err == nil && d > 0 {
		return d, nil
	}

	var longest float64
	for _, s := range out.Streams {
		d, err := strconv.ParseFloat(strings.TrimSpace(s.Duration), 64)
		if err == nil && d > longest {
			longest = d
		}
	}
	if longest <= 0 {
		return 0, errors.New("no duration in ffprobe output")
	}
	return longest, nil
}

// ExtractFrame writes the frame at the given offset (seconds) to outPath. The
// image format follows the extension of outPath.
func (t *Tool) ExtractFrame(ctx context.Context, path string, at float64, outPath string) error {
	cmd := exec.CommandContext(ctx, t.cfg.FFmpegPath, frameArgs(path, at, outPath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg error: %w, output: %s", err, strings.TrimSpace(stderr.String()))
	}
	t.logger.Debug("frame extracted",
		zap.String("path", path),
		zap.Float64("at", at),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func frameArgs(path string, at float64, outPath string) []string {
	return ffmpeg.
		// Seek on the input side so only one frame is decoded
		Input(path, ffmpeg.KwArgs{"ss": strconv.FormatFloat(at, 'f', 3, 64)}).
		Output(outPath, ffmpeg.KwArgs{"frames:v": 1, "loglevel": "error"}).
		OverWriteOutput().
		GetArgs()
}
