package cli

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/optimg/optimg/internal/pipeline"
)

func TestScanTokens_DeclarationOrder(t *testing.T) {
	args := []string{
		"mozjpeg",
		"--quantization=90",
		"--resize", "100x100",
		"--premultiply",
		"--resize=@0.5",
		"--srgb",
		"photo.png",
	}

	require.Equal(t, []pipeline.Token{
		{Op: pipeline.TokenQuantize, Value: "90"},
		{Op: pipeline.TokenResize, Value: "100x100"},
		{Op: pipeline.TokenPremultiply},
		{Op: pipeline.TokenResize, Value: "@0.5"},
		{Op: pipeline.TokenSRGB},
	}, ScanTokens(args))
}

func TestScanTokens_InterleavedNonOperationFlags(t *testing.T) {
	args := []string{
		"webp",
		"-q", "80",
		"--resize", "500x_",
		"--filter", "mitchell",
		"--quantization",
		"-d", "out",
		"--premultiply",
		"a.png", "b.png",
	}

	require.Equal(t, []pipeline.Token{
		{Op: pipeline.TokenResize, Value: "500x_"},
		{Op: pipeline.TokenQuantize},
		{Op: pipeline.TokenPremultiply},
	}, ScanTokens(args))
}

func TestScanTokens_OptionalValueInlineOnly(t *testing.T) {
	// A detached argument after an optional-value flag is a file, not the
	// flag's value.
	tokens := ScanTokens([]string{"png", "--quantization", "photo.png"})
	require.Equal(t, []pipeline.Token{{Op: pipeline.TokenQuantize}}, tokens)

	tokens = ScanTokens([]string{"png", "--quantization=40", "photo.png"})
	require.Equal(t, []pipeline.Token{{Op: pipeline.TokenQuantize, Value: "40"}}, tokens)
}

func TestScanTokens_ValueFlagConsumesDetachedValue(t *testing.T) {
	// The value of --filter must not be mistaken for a file or operation.
	tokens := ScanTokens([]string{"png", "--filter", "resize", "--premultiply"})
	require.Equal(t, []pipeline.Token{{Op: pipeline.TokenPremultiply}}, tokens)
}

func TestScanTokens_StopsAtTerminator(t *testing.T) {
	tokens := ScanTokens([]string{"png", "--resize", "1x1", "--", "--premultiply"})
	require.Equal(t, []pipeline.Token{{Op: pipeline.TokenResize, Value: "1x1"}}, tokens)
}

func TestScanTokens_NoOperations(t *testing.T) {
	require.Empty(t, ScanTokens([]string{"png", "-q", "80", "photo.png"}))
	require.Empty(t, ScanTokens(nil))
}
