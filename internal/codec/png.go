package codec

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/optimg/optimg/internal/model"
)

// PngOptions parameterizes the png and oxipng subcommands.
type PngOptions struct {
	// Effort 0..6 follows the oxipng preset scale; higher presets trade
	// time for compression.
	Effort int
}

type pngEncoder struct {
	name string
	enc  png.Encoder
}

// NewPng builds the plain png encoder with default compression.
func NewPng() Encoder {
	return &pngEncoder{name: "png", enc: png.Encoder{CompressionLevel: png.DefaultCompression}}
}

// NewOxiPng builds the oxipng-flavored encoder, mapping the effort
// preset onto the available compression levels.
func NewOxiPng(opts PngOptions) Encoder {
	level := png.DefaultCompression
	switch {
	case opts.Effort <= 1:
		level = png.BestSpeed
	case opts.Effort >= 5:
		level = png.BestCompression
	}
	return &pngEncoder{name: "oxipng", enc: png.Encoder{CompressionLevel: level}}
}

func (e *pngEncoder) Name() string      { return e.name }
func (e *pngEncoder) Extension() string { return "png" }

func (e *pngEncoder) Encode(buf *model.Buffer) ([]byte, error) {
	var out bytes.Buffer
	if err := e.enc.Encode(&out, buf.NRGBA()); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return out.Bytes(), nil
}
