package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/vcardapp/internal/card"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDefaultCommand(t *testing.T) {
	out, err := execute(t, "", "default")
	require.NoError(t, err)

	var doc card.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, card.Default(), doc)
}

func TestQRCommand(t *testing.T) {
	out, err := execute(t, "", "qr", "--style", "modern2", "https://example.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, "#e74c3c")

	_, err = execute(t, "", "qr", "--style", "neon", "x")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "qr.png")
	_, err = execute(t, "", "qr", "--png", "--size", "64", "-o", path, "hello")
	require.NoError(t, err)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "card.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"backgroundColor": "#0000ff", "designStyle": {"borderStyle": "dashed"}}`), 0o644))
	outPath := filepath.Join(dir, "out", "card.png")

	_, err := execute(t, "", "render", "--in", in, "--out", outPath)
	require.NoError(t, err)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	_, _, b, _ := img.At(200, 175).RGBA()
	assert.Equal(t, uint32(0xffff), b)
}

func TestRenderCommandFromStdin(t *testing.T) {
	out, err := execute(t, `{"textColor": "#ff0000"}`, "render", "--in", "-", "--out", "-")
	require.NoError(t, err)
	_, err = png.Decode(strings.NewReader(out))
	assert.NoError(t, err)

	_, err = execute(t, `{"designStyle": {"overlay": "sparkle"}}`, "render", "--in", "-", "--out", "-")
	var verr *card.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = execute(t, "", "render")
	assert.Error(t, err)
}
