package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"strings"
)

// TesseractEngine runs the tesseract command-line program once per image.
//
// The image is encoded as PNG and piped to the process on stdin; text is read
// from stdout. Nothing touches the filesystem, so concurrent calls share no
// state.
type TesseractEngine struct {
	path        string
	language    string
	pageSegMode int
}

// NewTesseractEngine resolves the executable at path (a bare name is looked up
// in PATH). A missing executable is reported as ErrEngineUnavailable.
func NewTesseractEngine(path, language string, pageSegMode int) (*TesseractEngine, error) {
	if path == "" {
		path = "tesseract"
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, newError(BackendTesseract, "NewTesseractEngine", ErrEngineUnavailable, err.Error())
	}
	if language == "" {
		language = "eng"
	}
	return &TesseractEngine{
		path:        resolved,
		language:    language,
		pageSegMode: pageSegMode,
	}, nil
}

// Name implements Engine.
func (e *TesseractEngine) Name() string {
	return BackendTesseract
}

// Path returns the resolved executable path.
func (e *TesseractEngine) Path() string {
	return e.path
}

func (e *TesseractEngine) args() []string {
	args := []string{"stdin", "stdout", "-l", e.language}
	if e.pageSegMode > 0 {
		args = append(args, "--psm", strconv.Itoa(e.pageSegMode))
	}
	return args
}

// Recognize implements Engine.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	var input bytes.Buffer
	if err := png.Encode(&input, img); err != nil {
		return "", newError(BackendTesseract, "Recognize", ErrRecognition, fmt.Sprintf("encode: %v", err))
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.path, e.args()...)
	cmd.Stdin = &input
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", e.classify(err, stderr.String())
	}

	return strings.TrimSpace(stdout.String()), nil
}

// classify maps a failed run to ErrEngineUnavailable (the program could not
// start) or ErrRecognition (it ran and exited non-zero).
func (e *TesseractEngine) classify(err error, stderr string) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		details := strings.TrimSpace(stderr)
		if details == "" {
			details = exitErr.Error()
		}
		return newError(BackendTesseract, "Recognize", ErrRecognition, details)
	}
	// Not found, permission denied and other start failures.
	return newError(BackendTesseract, "Recognize", ErrEngineUnavailable, err.Error())
}

// Version returns the first line of `tesseract --version`.
func (e *TesseractEngine) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, e.path, "--version").CombinedOutput()
	if err != nil {
		return "", newError(BackendTesseract, "Version", ErrEngineUnavailable, err.Error())
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

// Close implements Engine. The CLI engine holds no resources.
func (e *TesseractEngine) Close() error {
	return nil
}
