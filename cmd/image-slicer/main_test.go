package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/menta2k/image-slicer/internal/config"
)

func run(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()
	// keep a user's real config file out of the test
	t.Setenv("HOME", t.TempDir())

	c := &cli{cfg: config.Default(), log: zerolog.Nop()}
	root := newRootCommand(c)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(bytes.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPathCommand(t *testing.T) {
	out, err := run(t, nil, "path", "https://example.com/image.jpg?width=100")
	if err != nil {
		t.Fatalf("path failed: %v", err)
	}
	if strings.TrimSpace(out) != "example.com-image" {
		t.Errorf("got %q", out)
	}

	if _, err := run(t, nil, "path", "--strict", "http://example.com/image.jpg"); err == nil || err.Error() != "Invalid URL scheme" {
		t.Errorf("strict: got %v", err)
	}
}

func TestSliceCommandStdin(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 120, 120))); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, buf.Bytes(), "slice", "-", "--grid-size", "4")
	if err != nil {
		t.Fatalf("slice failed: %v", err)
	}

	var summary sliceSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(summary.Segments) != 16 || summary.Metadata.GridSize != 4 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if last := summary.Segments[15]; last.Row != 3 || last.Col != 3 {
		t.Errorf("last segment at (%d,%d)", last.Row, last.Col)
	}
}

func TestSliceCommandGridSizeFlag(t *testing.T) {
	_, err := run(t, nil, "slice", "photo.png", "--grid-size", "2.5")
	if err == nil || err.Error() != "Grid size must be an integer" {
		t.Errorf("got %v", err)
	}
}

func TestConfigFileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[slicer]\ngrid_size = 5\nconcurrency = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("IMAGE_SLICER_CONCURRENCY", "6")

	c := &cli{cfg: config.Default(), log: zerolog.Nop()}
	root := newRootCommand(c)
	root.SetArgs([]string{"path", "https://example.com/a.png", "--config", cfgPath, "--grid-size", "7"})
	root.SetOut(&bytes.Buffer{})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}

	if c.cfg.Slicer.GridSize != 7 {
		t.Errorf("grid size %d, want flag value 7", c.cfg.Slicer.GridSize)
	}
	if c.cfg.Slicer.Concurrency != 6 {
		t.Errorf("concurrency %d, want env value 6", c.cfg.Slicer.Concurrency)
	}
}
