// Package cli implements the caller-facing text-in/JSON-out contract used
// by the command-line tools.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/heartmarshall/readeasy/internal/domain"
	"github.com/heartmarshall/readeasy/internal/service/assist"
	"github.com/heartmarshall/readeasy/internal/service/simplify"
	"github.com/heartmarshall/readeasy/internal/service/textstats"
	"github.com/heartmarshall/readeasy/pkg/ctxutil"
)

// Error messages written to callers.
const (
	MsgNoInput          = "No text provided"
	MsgSimplifyFailed   = "Simplification failed"
	MsgProcessingFailed = "Processing failed"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
)

type simplifier interface {
	SimplifyWithReport(ctx context.Context, text string) (*simplify.Report, error)
}

type assistant interface {
	Process(ctx context.Context, text string) (*assist.Result, error)
}

// Replacement is a single word substitution in a response.
type Replacement struct {
	Word        string      `json:"word"`
	Replacement string      `json:"replacement"`
	Tier        domain.Tier `json:"tier"`
}

// Response is the JSON document written for a simplification request.
type Response struct {
	Text         string                `json:"text,omitempty"`
	Success      *bool                 `json:"success,omitempty"`
	Error        string                `json:"error,omitempty"`
	RunID        string                `json:"run_id,omitempty"`
	Stats        *textstats.Comparison `json:"stats,omitempty"`
	Replacements []Replacement         `json:"replacements,omitempty"`
}

// Options controls optional response sections.
type Options struct {
	Stats        bool
	Replacements bool
	// Table, when set together with Stats, receives a human-readable
	// comparison table.
	Table io.Writer
}

// Handler writes JSON responses for simplification and assist requests.
type Handler struct {
	log        *slog.Logger
	simplifier simplifier
	assistant  assistant
	out        io.Writer
}

// NewHandler creates a Handler writing to out. assistant may be nil when
// only simplification is served.
func NewHandler(logger *slog.Logger, simp simplifier, asst assistant, out io.Writer) *Handler {
	return &Handler{
		log:        logger.With("transport", "cli"),
		simplifier: simp,
		assistant:  asst,
		out:        out,
	}
}

// Simplify runs a simplification and writes the response.
// It never panics; the returned value is the process exit code.
func (h *Handler) Simplify(ctx context.Context, text string, opts Options) (code int) {
	defer h.recoverTo(ctx, &code, MsgSimplifyFailed)

	report, err := h.simplifier.SimplifyWithReport(ctx, text)
	if err != nil {
		return h.fail(ctx, err, MsgSimplifyFailed)
	}

	resp := Response{
		Text:    report.Simplified,
		Success: ptr(true),
		RunID:   report.RunID.String(),
	}
	if opts.Stats {
		c := textstats.Compare(report.Original, report.Simplified)
		resp.Stats = &c
		if opts.Table != nil {
			if err := c.WriteTable(opts.Table); err != nil {
				h.log.WarnContext(ctx, "write stats table", slog.String("error", err.Error()))
			}
		}
	}
	if opts.Replacements {
		for _, r := range report.Replacements {
			resp.Replacements = append(resp.Replacements, Replacement{Word: r.Word, Replacement: r.Replacement, Tier: r.Tier})
		}
	}

	return h.write(ctx, resp, ExitOK)
}

// Assist runs the study-aid pipeline and writes its result.
func (h *Handler) Assist(ctx context.Context, text string) (code int) {
	defer h.recoverTo(ctx, &code, MsgProcessingFailed)

	if h.assistant == nil {
		return h.fail(ctx, errors.New("assist pipeline not configured"), MsgProcessingFailed)
	}

	result, err := h.assistant.Process(ctx, text)
	if err != nil {
		return h.fail(ctx, err, MsgProcessingFailed)
	}

	return h.write(ctx, struct {
		*assist.Result
		Success bool `json:"success"`
	}{result, true}, ExitOK)
}

// Fail writes the generic failure response for an error raised before a
// request could run, such as a configuration or input error.
func (h *Handler) Fail(ctx context.Context, err error) int {
	return h.fail(ctx, err, MsgSimplifyFailed)
}

func (h *Handler) fail(ctx context.Context, err error, generic string) int {
	if errors.Is(err, domain.ErrNoInput) {
		return h.write(ctx, Response{Error: MsgNoInput}, ExitFailure)
	}

	h.log.ErrorContext(ctx, "request failed",
		slog.String("source", ctxutil.SourceFromCtx(ctx)),
		slog.String("error", err.Error()),
	)
	return h.write(ctx, Response{Error: generic, Success: ptr(false)}, ExitFailure)
}

func (h *Handler) recoverTo(ctx context.Context, code *int, generic string) {
	r := recover()
	if r == nil {
		return
	}
	h.log.ErrorContext(ctx, "panic recovered",
		slog.Any("error", r),
		slog.String("stack", string(debug.Stack())),
	)
	*code = h.write(ctx, Response{Error: generic, Success: ptr(false)}, ExitFailure)
}

func (h *Handler) write(ctx context.Context, v any, code int) int {
	enc := json.NewEncoder(h.out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		h.log.ErrorContext(ctx, "write response", slog.String("error", err.Error()))
		return ExitFailure
	}
	return code
}

func ptr[T any](v T) *T { return &v }

// String renders a response for logs and tests.
func (r Response) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf("Response{%q}", r.Text)
	}
	return string(b)
}
