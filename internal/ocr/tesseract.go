package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ironsheep/scope/internal/config"
	"github.com/ironsheep/scope/internal/process"
)

// ErrOCRFailed means recognition produced no usable output. An empty but
// successful recognition is not a failure.
var ErrOCRFailed = errors.New("text recognition failed")

// Input is the image to recognize: either a file path or encoded image bytes.
// When PNG is set it takes precedence over Path.
type Input struct {
	Path string
	PNG  []byte
}

// Recognizer extracts text from an image.
type Recognizer interface {
	// Recognize returns the recognized text with surrounding whitespace
	// trimmed. An empty string is a valid result. Failures wrap ErrOCRFailed.
	Recognize(ctx context.Context, in Input, langs LanguageSet) (string, error)
}

// Tesseract runs the tesseract binary and reads the text from its stdout.
type Tesseract struct {
	runner    process.Runner
	binary    string
	extraArgs []string
}

// NewTesseract creates a CLI-backed Recognizer. extraArgs are appended after
// the language flag, e.g. []string{"--psm", "6"}.
func NewTesseract(runner process.Runner, binary string, extraArgs []string) *Tesseract {
	return &Tesseract{runner: runner, binary: binary, extraArgs: extraArgs}
}

// Command returns the invocation for in. Bytes are piped through stdin using
// tesseract's "stdin" pseudo file name.
func (t *Tesseract) Command(in Input, langs LanguageSet) process.Command {
	cmd := process.Command{Name: t.binary}

	source := in.Path
	if len(in.PNG) > 0 {
		source = "stdin"
		cmd.Stdin = bytes.NewReader(in.PNG)
	}

	cmd.Args = append([]string{source, "stdout", "-l", langs.Arg()}, t.extraArgs...)
	return cmd
}

// Recognize implements Recognizer.
func (t *Tesseract) Recognize(ctx context.Context, in Input, langs LanguageSet) (string, error) {
	if in.Path == "" && len(in.PNG) == 0 {
		return "", fmt.Errorf("%w: no input image", ErrOCRFailed)
	}

	res, err := t.runner.Run(ctx, t.Command(in, langs))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}
	if !res.Success() {
		msg := strings.TrimSpace(string(res.Stderr))
		return "", fmt.Errorf("%w: %s exited with status %d: %s", ErrOCRFailed, t.binary, res.ExitCode, msg)
	}
	if !utf8.Valid(res.Stdout) {
		return "", fmt.Errorf("%w: output is not valid UTF-8", ErrOCRFailed)
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

// NewRecognizer returns the Recognizer for the configured backend.
func NewRecognizer(cfg *config.Config, runner process.Runner) (Recognizer, error) {
	switch cfg.OCR.Backend {
	case config.BackendCLI:
		return NewTesseract(runner, cfg.Tools.Recognize, cfg.OCR.ExtraArgs), nil
	case config.BackendGosseract:
		return newLibraryRecognizer()
	default:
		return nil, fmt.Errorf("unknown OCR backend %q", cfg.OCR.Backend)
	}
}
