// Command simplify rewrites text into an easier-to-read form for readers
// with dyslexia. Text is taken from -file, the positional arguments or
// stdin, in that order. The result is written to stdout as JSON:
//
//	{"text": "...", "success": true}
//	{"error": "No text provided"}
//	{"error": "Simplification failed", "success": false}
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/readeasy/internal/app"
	"github.com/heartmarshall/readeasy/internal/config"
	"github.com/heartmarshall/readeasy/internal/transport/cli"
	"github.com/heartmarshall/readeasy/pkg/ctxutil"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config")
	file := flag.String("file", "", "read input from a .txt, .md, .pdf or .docx file")
	stats := flag.Bool("stats", false, "include before/after readability statistics")
	report := flag.Bool("report", false, "include the list of replaced words")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(app.BuildVersion())
		return cli.ExitOK
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		logger := app.NewLogger(config.LogConfig{Level: "info", Format: "text"})
		return cli.NewHandler(logger, nil, nil, os.Stdout).Fail(ctx, err)
	}

	logger := app.NewLogger(cfg.Log)

	text, source, err := cli.ReadInput(*file, flag.Args(), os.Stdin)
	if err != nil {
		return cli.NewHandler(logger, nil, nil, os.Stdout).Fail(ctx, err)
	}
	ctx = ctxutil.WithSource(ctx, source)

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return cli.NewHandler(logger, nil, nil, os.Stdout).Fail(ctx, err)
	}
	defer a.Close()

	logger.DebugContext(ctx, "simplify requested",
		slog.String("source", source),
		slog.Int("chars", len(text)),
	)

	opts := cli.Options{Stats: *stats, Replacements: *report}
	if *stats {
		opts.Table = os.Stderr
	}

	return cli.NewHandler(logger, a.Simplifier, nil, os.Stdout).Simplify(ctx, text, opts)
}
