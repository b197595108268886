package codec

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/optimg/optimg/internal/model"
)

// JpegOptions parameterizes the jpeg and mozjpeg subcommands.
type JpegOptions struct {
	Quality int // 1..100
}

type jpegEncoder struct {
	name string
	opts JpegOptions
}

// NewJpeg builds the plain jpeg encoder.
func NewJpeg(opts JpegOptions) Encoder {
	return &jpegEncoder{name: "jpeg", opts: opts}
}

// NewMozJpeg builds the mozjpeg-flavored encoder. The bit-level mozjpeg
// tuning is external to this module; the subcommand keeps its own name
// so reports show which codec the user asked for.
func NewMozJpeg(opts JpegOptions) Encoder {
	return &jpegEncoder{name: "mozjpeg", opts: opts}
}

func (e *jpegEncoder) Name() string      { return e.name }
func (e *jpegEncoder) Extension() string { return "jpg" }

func (e *jpegEncoder) Encode(buf *model.Buffer) ([]byte, error) {
	var out bytes.Buffer
	err := imaging.Encode(&out, buf.NRGBA(), imaging.JPEG, imaging.JPEGQuality(e.opts.Quality))
	if err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return out.Bytes(), nil
}
