// Package watcher simplifies documents dropped into an input directory.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/heartmarshall/readeasy/internal/adapter/document"
)

// OutputSuffix is appended to the base name of every simplified file.
const OutputSuffix = ".simplified.txt"

const defaultSettleDelay = 500 * time.Millisecond

// EventHandler processes a single newly created file.
type EventHandler func(ctx context.Context, path string) error

// Watcher monitors a directory and hands new documents to a handler with
// bounded concurrency.
type Watcher struct {
	inputDir  string
	handler   EventHandler
	log       *slog.Logger
	fsw       *fsnotify.Watcher
	semaphore chan struct{}
	wg        sync.WaitGroup
	settle    time.Duration
}

// New creates a Watcher for inputDir. maxConcurrent <= 0 defaults to 2.
func New(inputDir string, handler EventHandler, logger *slog.Logger, maxConcurrent int) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(inputDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &Watcher{
		inputDir:  inputDir,
		handler:   handler,
		log:       logger.With("component", "watcher"),
		fsw:       fsw,
		semaphore: make(chan struct{}, maxConcurrent),
		settle:    defaultSettleDelay,
	}, nil
}

// Start blocks until ctx is cancelled, dispatching every created document.
// In-flight handlers are awaited before it returns.
func (w *Watcher) Start(ctx context.Context) error {
	w.log.InfoContext(ctx, "watcher started",
		slog.String("dir", w.inputDir),
		slog.Int("max_concurrent", cap(w.semaphore)),
	)

	for {
		select {
		case <-ctx.Done():
			w.log.InfoContext(ctx, "waiting for in-flight documents")
			w.wg.Wait()
			w.log.InfoContext(ctx, "watcher stopped")
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				w.wg.Wait()
				return errors.New("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !Accepts(event.Name) {
				w.log.DebugContext(ctx, "ignoring file", slog.String("path", event.Name))
				continue
			}
			if err := w.dispatch(ctx, event.Name); err != nil {
				w.wg.Wait()
				return err
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.wg.Wait()
				return errors.New("watcher errors channel closed")
			}
			w.log.ErrorContext(ctx, "watcher error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) dispatch(ctx context.Context, path string) error {
	w.log.InfoContext(ctx, "document detected", slog.String("path", path))

	// Give the writer a moment to finish the file.
	if w.settle > 0 {
		select {
		case <-time.After(w.settle):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.semaphore }()

		if err := w.handler(ctx, path); err != nil {
			w.log.ErrorContext(ctx, "process document",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		}
	}()
	return nil
}

// Stop closes the underlying file watcher.
func (w *Watcher) Stop() error {
	return w.fsw.Close()
}

// Accepts reports whether path is a readable document that is not itself
// a simplified output.
func Accepts(path string) bool {
	if strings.HasSuffix(strings.ToLower(path), OutputSuffix) {
		return false
	}
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return document.Supported(path)
}
