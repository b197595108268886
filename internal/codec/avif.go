package codec

import (
	"bytes"
	"fmt"

	"github.com/gen2brain/avif"

	"github.com/optimg/optimg/internal/model"
)

// AvifOptions parameterizes the avif subcommand.
type AvifOptions struct {
	Quality      int // 1..100
	AlphaQuality int // 0 = same as Quality
	Speed        int // 1..10, higher is faster
}

type avifEncoder struct {
	opts AvifOptions
}

// NewAvif builds the avif encoder.
func NewAvif(opts AvifOptions) Encoder {
	if opts.AlphaQuality == 0 {
		opts.AlphaQuality = opts.Quality
	}
	return &avifEncoder{opts: opts}
}

func (e *avifEncoder) Name() string      { return "avif" }
func (e *avifEncoder) Extension() string { return "avif" }

func (e *avifEncoder) Encode(buf *model.Buffer) ([]byte, error) {
	var out bytes.Buffer
	err := avif.Encode(&out, buf.NRGBA(), avif.Options{
		Quality:      e.opts.Quality,
		QualityAlpha: e.opts.AlphaQuality,
		Speed:        e.opts.Speed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode avif: %w", err)
	}
	return out.Bytes(), nil
}
