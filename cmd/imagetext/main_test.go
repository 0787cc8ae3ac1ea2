package main

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/imagetext/internal/config"
	"github.com/ironsheep/imagetext/internal/detection"
	"github.com/ironsheep/imagetext/internal/transform"
)

func TestPipelineConfig(t *testing.T) {
	cfg := config.Default().Segment
	cfg.KernelWidth, cfg.KernelHeight = 9, 3
	cfg.Order = "discovery"

	pcfg, err := pipelineConfig(cfg)
	if err != nil {
		t.Fatalf("pipelineConfig: %v", err)
	}
	if pcfg.Kernel != (detection.Kernel{Width: 9, Height: 3}) {
		t.Errorf("kernel: got %+v", pcfg.Kernel)
	}
	if pcfg.Order != detection.OrderDiscovery {
		t.Errorf("order: got %q", pcfg.Order)
	}

	cfg.Order = "spiral"
	if _, err := pipelineConfig(cfg); err == nil {
		t.Error("expected error for unknown order")
	}
}

func TestRegionsCommand(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 40))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(5, 5, 25, 25), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(60, 5, 80, 25), image.NewUniform(color.Black), image.Point{}, draw.Src)

	path := filepath.Join(t.TempDir(), "blocks.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"regions", path, "--log-level", "error"})

	if err := root.Execute(); err != nil {
		t.Fatalf("regions: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "100x40 png, 2 regions") {
		t.Errorf("unexpected summary: %s", got)
	}
	if !strings.Contains(got, "20x20@(5,5)") || !strings.Contains(got, "20x20@(60,5)") {
		t.Errorf("unexpected regions: %s", got)
	}
}

func TestOperationFlags_Parse(t *testing.T) {
	tests := []struct {
		flags   operationFlags
		want    transform.Operation
		wantErr bool
	}{
		{flags: operationFlags{operation: "view"}, want: transform.View()},
		{flags: operationFlags{operation: "translate", target: "fr"}, want: transform.Translate("fr")},
		{flags: operationFlags{operation: "translate"}, wantErr: true},
		{flags: operationFlags{operation: "shout"}, want: transform.View()},
	}

	for _, tt := range tests {
		got, err := tt.flags.parse()
		if tt.wantErr {
			if err == nil {
				t.Errorf("%+v: expected error", tt.flags)
			}
			continue
		}
		if err != nil {
			t.Errorf("%+v: unexpected error %v", tt.flags, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%+v: got %v, want %v", tt.flags, got, tt.want)
		}
	}
}
