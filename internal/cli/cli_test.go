package cli

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/layers"
)

const testRecipe = `
width = 8
height = 4
background = "#ffffff"

[[layer]]
name = "ink"
blend_mode = "multiply"
rect = [{ x = 0, y = 0, w = 4, h = 4, color = "#ff0000" }]

[[layer]]
name = "notes"
fill = "#000000"
hidden = true
`

func writeRecipe(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "poster.toml")
	if err := os.WriteFile(path, []byte(testRecipe), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	orig := layers.Logger()
	t.Cleanup(func() { layers.SetLogger(orig) })

	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	if root.Use != appName {
		t.Errorf("Use = %q, want %q", root.Use, appName)
	}
	want := map[string]bool{"render": false, "inspect": false}
	for _, sub := range root.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRender(t *testing.T) {
	path := writeRecipe(t)
	output := filepath.Join(t.TempDir(), "out.png")

	if _, err := execute(t, "render", path, "-o", output); err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("output size = %v, want 8x4", b)
	}
	if r, g, b, _ := img.At(1, 1).RGBA(); r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("multiplied ink pixel = %d,%d,%d, want red", r>>8, g>>8, b>>8)
	}
	if r, g, b, _ := img.At(6, 1).RGBA(); r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("background pixel = %d,%d,%d, want white", r>>8, g>>8, b>>8)
	}
}

func TestRenderSplitAndSize(t *testing.T) {
	path := writeRecipe(t)
	dir := t.TempDir()
	output := filepath.Join(dir, "out.bmp")

	if _, err := execute(t, "render", path, "-o", output, "--size", "4x2", "--split"); err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, name := range []string{"out.bmp", "out-background.bmp", "out-ink.bmp", "out-notes.bmp"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	path := writeRecipe(t)

	if _, err := execute(t, "render", filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing recipe: %v, want ErrNotExist", err)
	}
	if _, err := execute(t, "render", path, "--size", "big"); !errors.Is(err, errInvalidSize) {
		t.Errorf("bad size: %v, want errInvalidSize", err)
	}
	out := filepath.Join(t.TempDir(), "out.webp")
	if _, err := execute(t, "render", path, "-o", out); err == nil {
		t.Error("unsupported format rendered without error")
	}
	if _, err := execute(t, "render"); err == nil {
		t.Error("render without recipe succeeded")
	}
}

func TestInspect(t *testing.T) {
	path := writeRecipe(t)

	out, err := execute(t, "inspect", path, "--modes")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"8x4", "background", "ink", "multiply", "notes", iconHidden, "source-over, copy"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
	// Top layer first.
	if strings.Index(out, "notes") > strings.Index(out, "background") {
		t.Errorf("inspect output not top to bottom:\n%s", out)
	}
}

func TestBuildRecipeLogsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merged.toml")
	// merge must precede the [[layer]] tables to stay a top-level key.
	src := "merge = [\"background\", \"ink\"]\n" + testRecipe
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	ctx := withLogger(context.Background(), newLogger(&logs, LogDebug))
	st, err := buildRecipe(ctx, path)
	if err != nil {
		t.Fatalf("buildRecipe() = %v", err)
	}
	if got := st.Names(); len(got) != 2 || got[0] != "background" || got[1] != "notes" {
		t.Errorf("Names() = %q, want [background notes]", got)
	}

	out := logs.String()
	for _, want := range []string{"Added layer", "name=background", "name=notes", "Removed layer", "name=ink"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug log missing %q:\n%s", want, out)
		}
	}

	logs.Reset()
	ctx = withLogger(context.Background(), newLogger(&logs, LogInfo))
	if _, err := buildRecipe(ctx, path); err != nil {
		t.Fatalf("buildRecipe() = %v", err)
	}
	if strings.Contains(logs.String(), "Added layer") {
		t.Errorf("layer changes logged above debug level:\n%s", logs.String())
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"64x32", 64, 32, false},
		{"10X10", 10, 10, false},
		{"0x10", 0, 0, true},
		{"10", 0, 0, true},
		{"ax4", 0, 0, true},
		{"4x-1", 0, 0, true},
	}
	for _, tt := range tests {
		w, h, err := parseSize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if w != tt.w || h != tt.h {
			t.Errorf("parseSize(%q) = %d, %d, want %d, %d", tt.in, w, h, tt.w, tt.h)
		}
	}
}

func TestResolveOutput(t *testing.T) {
	tests := []struct {
		recipe, output, format string
		wantFormat, wantOutput string
	}{
		{"dir/poster.toml", "", "", "png", "poster.png"},
		{"poster.toml", "", "jpeg", "jpeg", "poster.jpeg"},
		{"poster.toml", "x.JPG", "", "jpg", "x.JPG"},
		{"poster.toml", "x.png", "bmp", "bmp", "x.png"},
		{"poster.toml", "noext", "", "png", "noext"},
	}
	for _, tt := range tests {
		format, output := resolveOutput(tt.recipe, tt.output, tt.format)
		if format != tt.wantFormat || output != tt.wantOutput {
			t.Errorf("resolveOutput(%q, %q, %q) = %q, %q, want %q, %q",
				tt.recipe, tt.output, tt.format, format, output, tt.wantFormat, tt.wantOutput)
		}
	}
}

func TestFileSafe(t *testing.T) {
	tests := map[string]string{
		"ink":      "ink",
		"ink[1]":   "ink_1_",
		"a/b c":    "a_b_c",
		"":         "_",
		"unnamed":  "unnamed",
		`dir\file`: "dir_file",
	}
	for in, want := range tests {
		if got := fileSafe(in); got != want {
			t.Errorf("fileSafe(%q) = %q, want %q", in, got, want)
		}
	}
}
