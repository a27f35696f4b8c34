package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/readeasy/internal/adapter/document"
	"github.com/heartmarshall/readeasy/pkg/ctxutil"
)

type simplifier interface {
	Simplify(ctx context.Context, text string) (string, error)
}

// Processor reads a document, simplifies it and writes the result into
// the output directory.
type Processor struct {
	log       *slog.Logger
	simp      simplifier
	outputDir string
}

// NewProcessor creates a Processor writing to outputDir.
func NewProcessor(logger *slog.Logger, simp simplifier, outputDir string) *Processor {
	return &Processor{
		log:       logger.With("component", "processor"),
		simp:      simp,
		outputDir: outputDir,
	}
}

// OutputPath returns where the simplified form of path is written.
func (p *Processor) OutputPath(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(p.outputDir, name+OutputSuffix)
}

// Handle is an EventHandler.
func (p *Processor) Handle(ctx context.Context, path string) error {
	ctx = ctxutil.WithSource(ctx, path)
	ctx, runID := ctxutil.EnsureRunID(ctx)

	text, err := document.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	simplified, err := p.simp.Simplify(ctx, text)
	if err != nil {
		return fmt.Errorf("simplify %s: %w", path, err)
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	out := p.OutputPath(path)
	tmp := out + ".tmp"
	if err := os.WriteFile(tmp, []byte(simplified+"\n"), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Rename(tmp, out); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename output: %w", err)
	}

	p.log.InfoContext(ctx, "document simplified",
		slog.String("input", path),
		slog.String("output", out),
		slog.String("run_id", runID.String()),
	)
	return nil
}
