package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testScene = `view T v1 {
  viewport size 12 3
  gutter side left
  content { "a\nb\nc\nd" }
}
`

func writeScene(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t.scene")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderTermToStdout(t *testing.T) {
	path := writeScene(t, testScene)
	out, err := execute(t, "render", path, "--format", "term", "--config", writeConfig(t, ""))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if want := "1 a\n2 b\n3 c\n"; out != want {
		t.Fatalf("unexpected output %q, want %q", out, want)
	}
}

func TestRenderPNGWithDebug(t *testing.T) {
	path := writeScene(t, strings.Replace(testScene, "size 12 3", "size 120 60", 1))
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out", "t.png")
	debugPath := filepath.Join(dir, "t.json")

	if _, err := execute(t, "render", path, "-o", outPath, "--debug", debugPath, "--log-level", "error",
		"--config", writeConfig(t, "")); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("png missing: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 60 {
		t.Fatalf("unexpected png size %v", b)
	}

	raw, err := os.ReadFile(debugPath)
	if err != nil {
		t.Fatalf("debug json missing: %v", err)
	}
	var dump struct {
		Scene struct {
			Name string `json:"name"`
		} `json:"scene"`
		View map[string]any `json:"view"`
	}
	if err := json.Unmarshal(raw, &dump); err != nil {
		t.Fatalf("debug json invalid: %v", err)
	}
	if dump.Scene.Name != "T" || len(dump.View) == 0 {
		t.Fatalf("unexpected debug dump: %s", raw)
	}
}

func TestRenderUsesConfigDefaults(t *testing.T) {
	path := writeScene(t, testScene)
	cfg := writeConfig(t, "[render]\nformat = \"term\"\n")
	out, err := execute(t, "render", path, "--config", cfg, "--width", "6", "--height", "1")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if out != "1 a\n" {
		t.Fatalf("config format should select term output, got %q", out)
	}
}

func TestRenderErrors(t *testing.T) {
	path := writeScene(t, testScene)
	cases := [][]string{
		{"render", path, "--format", "pdf"},
		{"render", filepath.Join(t.TempDir(), "missing.scene"), "--format", "term"},
		{"render", path, "--log-level", "loud"},
		{"render"},
	}
	for _, args := range cases {
		if _, err := execute(t, append(args, "--config", writeConfig(t, ""))...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linenum.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
