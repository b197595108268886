package codec

import (
	"bytes"
	"fmt"

	"github.com/chai2010/webp"

	"github.com/optimg/optimg/internal/model"
)

// WebPOptions parameterizes the webp subcommand.
type WebPOptions struct {
	Quality  int // 1..100, ignored when Lossless
	Lossless bool
}

type webpEncoder struct {
	opts WebPOptions
}

// NewWebP builds the webp encoder.
func NewWebP(opts WebPOptions) Encoder {
	return &webpEncoder{opts: opts}
}

func (e *webpEncoder) Name() string      { return "webp" }
func (e *webpEncoder) Extension() string { return "webp" }

func (e *webpEncoder) Encode(buf *model.Buffer) ([]byte, error) {
	var out bytes.Buffer
	err := webp.Encode(&out, buf.NRGBA(), &webp.Options{
		Lossless: e.opts.Lossless,
		Quality:  float32(e.opts.Quality),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode webp: %w", err)
	}
	return out.Bytes(), nil
}
