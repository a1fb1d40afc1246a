package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"videodupes/internal/app"
	"videodupes/internal/config"
	"videodupes/internal/deletion"
	"videodupes/internal/extract"
	"videodupes/internal/logging"
	"videodupes/internal/prompt"
	"videodupes/internal/storage"

	"github.com/fatih/color"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = newCommand(cfg).Run(ctx, os.Args)
	stop()
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "videodupes",
		Usage: "Find duplicate videos in a directory and optionally delete the extra copies",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Directory containing the videos to compare",
				Value:   cfg.InputDir,
			},
			&cli.StringFlag{
				Name:    "delete",
				Aliases: []string{"d"},
				Usage:   "Deletion policy: no, yes (ask per group) or all",
				Value:   cfg.DeletePolicy,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory where the JSON report is written",
				Value:   cfg.OutputDir,
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Only group videos that all match each other, not just the first one",
				Value: cfg.StrictGroups,
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation asked by --delete all",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn or error",
				Value: cfg.LogLevel,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			interactive := isTTY(os.Stdin)
			term := prompt.Terminal{}

			input, err := resolveInput(cmd.String("input"), interactive, term)
			if err != nil {
				return err
			}
			policy, err := resolvePolicy(cmd.String("delete"), interactive, term)
			if err != nil {
				return err
			}
			if err := requirePrompt(policy, interactive, cmd.Bool("yes")); err != nil {
				return err
			}

			logger, err := newLogger(cfg.LogFormat, cmd.String("log-level"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			defer logger.Sync()

			opts := app.Options{
				InputDir:  input,
				OutputDir: cmd.String("output"),
				TempRoot:  cfg.TempDir,
				Policy:    policy,
				AssumeYes: cmd.Bool("yes"),
				Detector:  cfg.DetectorOptions(),
				Keyframe:  cfg.KeyframeOptions(),
			}
			opts.Detector.StrictGroups = cmd.Bool("strict")

			deps := app.Deps{
				Tool:   extract.NewTool(cfg.ExtractConfig(), logger),
				Logger: logger,
			}
			if interactive {
				deps.Prompter = term
			}
			if isTTY(os.Stderr) {
				deps.Progress = newProgress()
			}
			if sc := cfg.StorageConfig(); sc.Enabled() {
				store, err := storage.NewStorage(sc)
				if err != nil {
					return err
				}
				deps.Uploader = store
			}

			res, err := app.Run(ctx, opts, deps)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return errors.New("interrupted")
				}
				return err
			}
			printSummary(os.Stdout, res)
			return nil
		},
	}
}

func newLogger(format, level string) (*zap.Logger, error) {
	if format == "json" {
		return logging.New(level)
	}
	return logging.NewConsole(level)
}

type inputAsker interface {
	Input(label, def string, validate func(string) error) (string, error)
	Select(label string, items []string) (int, error)
}

func resolveInput(input string, interactive bool, ask inputAsker) (string, error) {
	if input != "" {
		return input, nil
	}
	if !interactive {
		return "", cli.Exit("--input is required when not running in a terminal", 2)
	}
	v, err := ask.Input("Directory to scan for duplicate videos", ".", prompt.ValidateDir)
	if err != nil {
		return "", fmt.Errorf("read input directory: %w", err)
	}
	return v, nil
}

func resolvePolicy(raw string, interactive bool, ask inputAsker) (deletion.Policy, error) {
	if raw != "" {
		p, err := deletion.ParsePolicy(raw)
		if err != nil {
			return "", cli.Exit(err.Error(), 2)
		}
		return p, nil
	}
	if !interactive {
		return "", cli.Exit("--delete is required when not running in a terminal", 2)
	}

	policies := deletion.Policies()
	items := make([]string, len(policies))
	for i, p := range policies {
		items[i] = p.Describe()
	}
	idx, err := ask.Select("Delete duplicate files?", items)
	if err != nil {
		return "", fmt.Errorf("choose delete policy: %w", err)
	}
	return policies[idx], nil
}

// requirePrompt rejects policies that would need to ask a question when
// there is no terminal to ask on.
func requirePrompt(policy deletion.Policy, interactive, assumeYes bool) error {
	if interactive {
		return nil
	}
	switch {
	case policy == deletion.PolicyYes:
		return cli.Exit("--delete yes needs a terminal to choose which file to keep", 2)
	case policy == deletion.PolicyAll && !assumeYes:
		return cli.Exit("--delete all needs --yes when not running in a terminal", 2)
	}
	return nil
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
