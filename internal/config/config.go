package config

import (
	"fmt"
	"time"

	"videodupes/internal/deletion"
	"videodupes/internal/dupes"
	"videodupes/internal/extract"
	"videodupes/internal/keyframe"
	"videodupes/internal/storage"

	"github.com/caarlos0/env/v11"
)

// Config is read from VIDEODUPES_* environment variables. Command-line flags
// override it.
type Config struct {
	InputDir     string `env:"VIDEODUPES_INPUT"`
	OutputDir    string `env:"VIDEODUPES_OUTPUT"      envDefault:"."`
	DeletePolicy string `env:"VIDEODUPES_DELETE"`
	TempDir      string `env:"VIDEODUPES_TEMP_DIR"`
	LogLevel     string `env:"VIDEODUPES_LOG_LEVEL"   envDefault:"info"`
	LogFormat    string `env:"VIDEODUPES_LOG_FORMAT"  envDefault:"console"`

	DurationTolerance  float64 `env:"VIDEODUPES_DURATION_TOLERANCE"   envDefault:"0.01"`
	ShortClipSeconds   float64 `env:"VIDEODUPES_SHORT_CLIP_SECONDS"   envDefault:"3"`
	PixelDiffThreshold int     `env:"VIDEODUPES_PIXEL_DIFF_THRESHOLD" envDefault:"200"`
	AntiAliasThreshold float64 `env:"VIDEODUPES_ANTI_ALIAS_THRESHOLD" envDefault:"0.1"`
	MaxFrameWidth      int     `env:"VIDEODUPES_MAX_FRAME_WIDTH"      envDefault:"800"`
	MaxFrameHeight     int     `env:"VIDEODUPES_MAX_FRAME_HEIGHT"     envDefault:"533"`
	FrameFormat        string  `env:"VIDEODUPES_FRAME_FORMAT"         envDefault:"png"`
	StrictGroups       bool    `env:"VIDEODUPES_STRICT_GROUPS"        envDefault:"false"`

	FFmpegPath   string        `env:"VIDEODUPES_FFMPEG_PATH"   envDefault:"ffmpeg"`
	FFprobePath  string        `env:"VIDEODUPES_FFPROBE_PATH"  envDefault:"ffprobe"`
	ProbeTimeout time.Duration `env:"VIDEODUPES_PROBE_TIMEOUT" envDefault:"30s"`

	ListenAddr string `env:"VIDEODUPES_LISTEN_ADDR" envDefault:":8080"`

	S3Endpoint  string `env:"VIDEODUPES_S3_ENDPOINT"`
	S3AccessKey string `env:"VIDEODUPES_S3_ACCESS_KEY"`
	S3SecretKey string `env:"VIDEODUPES_S3_SECRET_KEY"`
	S3UseSSL    bool   `env:"VIDEODUPES_S3_USE_SSL"    envDefault:"true"`
	S3Bucket    string `env:"VIDEODUPES_S3_BUCKET"`
	S3Prefix    string `env:"VIDEODUPES_S3_PREFIX"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DeletePolicy != "" {
		if _, err := deletion.ParsePolicy(c.DeletePolicy); err != nil {
			return err
		}
	}
	if c.DurationTolerance < 0 {
		return fmt.Errorf("duration tolerance must not be negative")
	}
	if c.AntiAliasThreshold < 0 || c.AntiAliasThreshold > 1 {
		return fmt.Errorf("anti-alias threshold must be within [0,1], got %v", c.AntiAliasThreshold)
	}
	if c.PixelDiffThreshold <= 0 {
		return fmt.Errorf("pixel diff threshold must be greater than zero")
	}
	if c.MaxFrameWidth <= 0 || c.MaxFrameHeight <= 0 {
		return fmt.Errorf("max frame size must be greater than zero")
	}
	switch c.FrameFormat {
	case "png", "jpg", "webp":
	default:
		return fmt.Errorf("frame format must be png, jpg or webp, got %q", c.FrameFormat)
	}
	return nil
}

func (c *Config) DetectorOptions() dupes.Options {
	return dupes.Options{
		DurationTolerance: c.DurationTolerance,
		ShortClipSeconds:  c.ShortClipSeconds,
		StrictGroups:      c.StrictGroups,
		FrameExt:          "." + c.FrameFormat,
	}
}

func (c *Config) KeyframeOptions() keyframe.Options {
	return keyframe.Options{
		MaxWidth:           c.MaxFrameWidth,
		MaxHeight:          c.MaxFrameHeight,
		AntiAliasThreshold: c.AntiAliasThreshold,
		PixelDiffThreshold: c.PixelDiffThreshold,
	}
}

func (c *Config) ExtractConfig() extract.Config {
	return extract.Config{
		FFmpegPath:   c.FFmpegPath,
		FFprobePath:  c.FFprobePath,
		ProbeTimeout: c.ProbeTimeout,
	}
}

func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		UseSSL:    c.S3UseSSL,
		Bucket:    c.S3Bucket,
		Prefix:    c.S3Prefix,
	}
}
