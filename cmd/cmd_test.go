package cmd

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ollama/imagenorm/version"
)

func writePNG(t *testing.T, dir, name string, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, img))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewCLI()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "imagenorm version is "+version.Version+"\n", out)
}

func TestPreprocessCommand(t *testing.T) {
	dir := t.TempDir()
	white := writePNG(t, dir, "white.png", color.White)
	black := writePNG(t, dir, "black.png", color.Black)
	output := filepath.Join(dir, "tensor.bin")

	out, err := run(t, "preprocess", white, black, "--width", "2", "--height", "2", "--output", output)
	require.NoError(t, err)

	assert.Contains(t, out, "CHANNEL")
	assert.Contains(t, out, "2.2489")
	assert.Contains(t, out, "-2.1179")
	assert.Contains(t, out, "(2, 3, 2, 2)")

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Equal(t, int64(2*3*2*2*4), info.Size())
}

func TestPreprocessCommandDType(t *testing.T) {
	dir := t.TempDir()
	white := writePNG(t, dir, "white.png", color.White)
	output := filepath.Join(dir, "tensor.bin")

	_, err := run(t, "preprocess", white, "--width", "3", "--height", "1", "--dtype", "bf16", "-o", output)
	require.NoError(t, err)

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Equal(t, int64(3*3*1*2), info.Size())
}

func TestPreprocessCommandErrors(t *testing.T) {
	dir := t.TempDir()
	white := writePNG(t, dir, "white.png", color.White)

	cases := [][]string{
		{"preprocess"},
		{"preprocess", filepath.Join(dir, "missing.png")},
		{"preprocess", white, "--preset", "siglip"},
		{"preprocess", white, "--order", "gbr"},
		{"preprocess", white, "--dtype", "int8"},
		{"preprocess", white, "--interpolation", "lanczos"},
		{"preprocess", white, "--width", "0"},
	}

	for _, args := range cases {
		t.Run(strings.Join(args[1:], " "), func(t *testing.T) {
			_, err := run(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestStatsCommand(t *testing.T) {
	dir := t.TempDir()
	white := writePNG(t, dir, "white.png", color.White)
	black := writePNG(t, dir, "black.png", color.Black)

	out, err := run(t, "stats", white, black, "--width", "2", "--height", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		require.Len(t, fields, 3)
		assert.Equal(t, []string{"0.5000", "0.5000"}, fields[1:])
	}
}
