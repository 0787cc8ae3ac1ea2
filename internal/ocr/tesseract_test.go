package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawText draws text on an image using basicfont
func drawText(img *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// createImageWithText renders text black on white and scales it up by
// drawing each pixel as a scale x scale block.
func createImageWithText(text string, scale int) *image.RGBA {
	width := len(text)*7 + 40
	height := 40

	small := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	drawText(small, 20, 25, text, color.Black)
	if scale <= 1 {
		return small
	}

	img := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := small.At(x, y)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.Set(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return img
}

// writeFakeTesseract installs a shell script standing in for the tesseract
// executable and returns its path.
func writeFakeTesseract(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tesseract script requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "tesseract")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write fake tesseract: %v", err)
	}
	return path
}

func TestNewTesseractEngine_Missing(t *testing.T) {
	_, err := NewTesseractEngine("/nonexistent/bin/tesseract", "eng", 6)
	if err == nil {
		t.Fatal("NewTesseractEngine should fail for a missing executable")
	}
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("error should match ErrEngineUnavailable, got %v", err)
	}

	var ocrErr *OCRError
	if !errors.As(err, &ocrErr) || ocrErr.Engine != BackendTesseract {
		t.Errorf("error should be an *OCRError for the tesseract backend, got %v", err)
	}
}

func TestTesseractEngine_Recognize(t *testing.T) {
	path := writeFakeTesseract(t, `cat > /dev/null
echo "  HELLO  "
echo ""`)

	engine, err := NewTesseractEngine(path, "eng", 6)
	if err != nil {
		t.Fatalf("NewTesseractEngine failed: %v", err)
	}
	defer engine.Close()

	text, err := engine.Recognize(context.Background(), createImageWithText("HELLO", 1))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if text != "HELLO" {
		t.Errorf("text: got %q, want %q", text, "HELLO")
	}
	if engine.Name() != "tesseract" {
		t.Errorf("Name: got %q", engine.Name())
	}
}

func TestTesseractEngine_Arguments(t *testing.T) {
	path := writeFakeTesseract(t, `cat > /dev/null
echo "$@"`)

	engine, err := NewTesseractEngine(path, "fra", 7)
	if err != nil {
		t.Fatalf("NewTesseractEngine failed: %v", err)
	}

	args, err := engine.Recognize(context.Background(), createImageWithText("X", 1))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if args != "stdin stdout -l fra --psm 7" {
		t.Errorf("arguments: got %q", args)
	}
}

func TestTesseractEngine_ReadsPNGFromStdin(t *testing.T) {
	// The PNG signature starts with 0x89 'P' 'N' 'G'.
	path := writeFakeTesseract(t, `head -c 4 | tail -c 3`)

	engine, err := NewTesseractEngine(path, "eng", 0)
	if err != nil {
		t.Fatalf("NewTesseractEngine failed: %v", err)
	}

	got, err := engine.Recognize(context.Background(), createImageWithText("X", 1))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if got != "PNG" {
		t.Errorf("stdin should carry a PNG, got %q", got)
	}
}

func TestTesseractEngine_NonZeroExit(t *testing.T) {
	path := writeFakeTesseract(t, `cat > /dev/null
echo "Error in pixReadMem" >&2
exit 1`)

	engine, err := NewTesseractEngine(path, "eng", 6)
	if err != nil {
		t.Fatalf("NewTesseractEngine failed: %v", err)
	}

	_, err = engine.Recognize(context.Background(), createImageWithText("HELLO", 1))
	if !errors.Is(err, ErrRecognition) {
		t.Fatalf("error should match ErrRecognition, got %v", err)
	}
	if errors.Is(err, ErrEngineUnavailable) {
		t.Error("a non-zero exit should not be reported as engine unavailable")
	}
	if !strings.Contains(err.Error(), "pixReadMem") {
		t.Errorf("error should include stderr, got %v", err)
	}
}

func TestTesseractEngine_ExecutableRemoved(t *testing.T) {
	path := writeFakeTesseract(t, `echo ok`)

	engine, err := NewTesseractEngine(path, "eng", 6)
	if err != nil {
		t.Fatalf("NewTesseractEngine failed: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove fake tesseract: %v", err)
	}

	_, err = engine.Recognize(context.Background(), createImageWithText("HELLO", 1))
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("error should match ErrEngineUnavailable, got %v", err)
	}
}

func TestTesseractEngine_Canceled(t *testing.T) {
	path := writeFakeTesseract(t, `cat > /dev/null
echo text`)

	engine, err := NewTesseractEngine(path, "eng", 6)
	if err != nil {
		t.Fatalf("NewTesseractEngine failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = engine.Recognize(ctx, createImageWithText("HELLO", 1))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should be context.Canceled, got %v", err)
	}
}

func TestTesseractEngine_Version(t *testing.T) {
	path := writeFakeTesseract(t, `echo "tesseract 5.3.0"
echo " leptonica-1.82.0"`)

	engine, err := NewTesseractEngine(path, "eng", 6)
	if err != nil {
		t.Fatalf("NewTesseractEngine failed: %v", err)
	}

	version, err := engine.Version(context.Background())
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if version != "tesseract 5.3.0" {
		t.Errorf("Version: got %q", version)
	}

	info := Describe(context.Background(), engine, nil)
	if !info.Available || info.Version != "tesseract 5.3.0" || info.Backend != "tesseract" {
		t.Errorf("Describe: got %+v", info)
	}
}

func TestDescribe_NoEngine(t *testing.T) {
	info := Describe(context.Background(), nil, errors.New("boom"))
	if info.Available {
		t.Error("nil engine should be unavailable")
	}
	if info.Error != "boom" {
		t.Errorf("Error: got %q", info.Error)
	}
}

func TestNewEngine(t *testing.T) {
	path := writeFakeTesseract(t, `echo ok`)

	engine, err := NewEngine(context.Background(), Options{Backend: "tesseract", TesseractPath: path})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if engine.Name() != BackendTesseract {
		t.Errorf("Name: got %q", engine.Name())
	}

	_, err = NewEngine(context.Background(), Options{Backend: "abbyy"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("unknown backend should match ErrUnknownBackend, got %v", err)
	}

	_, err = NewEngine(context.Background(), Options{Backend: "tesseract", TesseractPath: "/nonexistent/tesseract"})
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("missing executable should match ErrEngineUnavailable, got %v", err)
	}
}

// --- Tests with the real tesseract executable ---

func TestTesseractEngine_RealText(t *testing.T) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("Tesseract not available")
	}

	engine, err := NewTesseractEngine("tesseract", "eng", 7)
	if err != nil {
		t.Fatalf("NewTesseractEngine failed: %v", err)
	}

	for _, text := range []string{"HELLO", "TEST", "12345"} {
		t.Run(text, func(t *testing.T) {
			got, err := engine.Recognize(context.Background(), createImageWithText(text, 4))
			if err != nil {
				t.Fatalf("Recognize failed: %v", err)
			}
			t.Logf("Input: %q, Output: %q", text, got)
		})
	}
}
