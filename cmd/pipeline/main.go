// Command pipeline turns study material into keywords, a short summary and
// a simplified version of that summary. Input is read from -file, the
// positional arguments or stdin. The result is written to stdout as JSON.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
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
	flag.Parse()

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

	assistant, err := a.BuildAssist(ctx)
	if err != nil {
		return cli.NewHandler(logger, nil, nil, os.Stdout).Fail(ctx, err)
	}

	return cli.NewHandler(logger, a.Simplifier, assistant, os.Stdout).Assist(ctx, text)
}
