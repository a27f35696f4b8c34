// Command watch monitors an input directory and writes a simplified copy of
// every new document into the output directory as <name>.simplified.txt.
// It runs until interrupted.
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/readeasy/internal/app"
	"github.com/heartmarshall/readeasy/internal/config"
	"github.com/heartmarshall/readeasy/internal/watcher"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config")
	inputDir := flag.String("in", "", "input directory (overrides watcher.input_dir)")
	outputDir := flag.String("out", "", "output directory (overrides watcher.output_dir)")
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *inputDir != "" {
		cfg.Watcher.InputDir = *inputDir
	}
	if *outputDir != "" {
		cfg.Watcher.OutputDir = *outputDir
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("starting watcher",
		slog.String("version", app.BuildVersion()),
		slog.String("input_dir", cfg.Watcher.InputDir),
		slog.String("output_dir", cfg.Watcher.OutputDir),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("watcher failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	for _, dir := range []string{cfg.Watcher.InputDir, cfg.Watcher.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	processor := watcher.NewProcessor(logger, a.Simplifier, cfg.Watcher.OutputDir)

	w, err := watcher.New(cfg.Watcher.InputDir, processor.Handle, logger, cfg.Watcher.MaxConcurrent)
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
