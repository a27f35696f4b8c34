package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/heartmarshall/readeasy/internal/adapter/document"
)

// Input sources.
const (
	SourceFile  = "file"
	SourceArgs  = "args"
	SourceStdin = "stdin"
)

// maxStdinBytes bounds how much is read from standard input.
const maxStdinBytes = 8 << 20

// ReadInput returns the text to process and where it came from.
// Priority: file path, then positional arguments, then stdin.
func ReadInput(file string, args []string, stdin io.Reader) (text, source string, err error) {
	if file != "" {
		text, err := document.ReadFile(file)
		if err != nil {
			return "", SourceFile, fmt.Errorf("read input file: %w", err)
		}
		return text, SourceFile, nil
	}

	if len(args) > 0 {
		return strings.Join(args, " "), SourceArgs, nil
	}

	if stdin == nil {
		return "", SourceStdin, nil
	}
	raw, err := io.ReadAll(io.LimitReader(stdin, maxStdinBytes))
	if err != nil {
		return "", SourceStdin, fmt.Errorf("read stdin: %w", err)
	}
	return string(raw), SourceStdin, nil
}
