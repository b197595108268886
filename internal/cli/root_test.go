package cli

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 5)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestExecuteArgs_ResizeBatch(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	writeTestPNG(t, input, 8, 8)
	outDir := filepath.Join(dir, "out")

	err := ExecuteArgs(context.Background(), []string{
		"png", "--resize", "4x4", "-d", outDir, input,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "in.png"))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 4, img.Bounds().Dx())
	require.Equal(t, 4, img.Bounds().Dy())
}

func TestExecuteArgs_OperationOrderFromArgs(t *testing.T) {
	// The operation order comes from the argument list handed to
	// ExecuteArgs, not from the process argv.
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	writeTestPNG(t, input, 16, 16)
	outDir := filepath.Join(dir, "out")

	err := ExecuteArgs(context.Background(), []string{
		"qoi", "--quantization=10", "--resize", "8x8", "-d", outDir, input,
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, "in.qoi"))
	require.NoError(t, err)
}

func TestExecuteArgs_FailedFileYieldsError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	require.NoError(t, os.WriteFile(input, []byte("corrupt"), 0o644))

	err := ExecuteArgs(context.Background(), []string{"png", input})
	require.ErrorIs(t, err, errBatchFailed)
}

func TestExecuteArgs_RecursiveRequiresDirectory(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	writeTestPNG(t, input, 4, 4)

	err := ExecuteArgs(context.Background(), []string{"png", "-r", input})
	require.Error(t, err)
	require.Contains(t, err.Error(), "--recursive requires --directory")
}
