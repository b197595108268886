package codec

import (
	"bytes"
	"fmt"

	"github.com/gen2brain/jpegxl"

	"github.com/optimg/optimg/internal/model"
)

// JpegXLOptions parameterizes the jpeg_xl subcommand.
type JpegXLOptions struct {
	Quality int // 1..100
	Effort  int // 1..10
}

type jpegxlEncoder struct {
	opts JpegXLOptions
}

// NewJpegXL builds the jpeg xl encoder.
func NewJpegXL(opts JpegXLOptions) Encoder {
	return &jpegxlEncoder{opts: opts}
}

func (e *jpegxlEncoder) Name() string      { return "jpeg_xl" }
func (e *jpegxlEncoder) Extension() string { return "jxl" }

func (e *jpegxlEncoder) Encode(buf *model.Buffer) ([]byte, error) {
	var out bytes.Buffer
	err := jpegxl.Encode(&out, buf.NRGBA(), jpegxl.Options{
		Quality: e.opts.Quality,
		Effort:  e.opts.Effort,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode jpeg xl: %w", err)
	}
	return out.Bytes(), nil
}
