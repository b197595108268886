package codec

import (
	"bytes"
	"fmt"

	"github.com/optimg/optimg/internal/model"
)

type ppmEncoder struct{}

// NewPPM builds the binary PPM (P6) encoder. Alpha is discarded since
// the format carries RGB only.
func NewPPM() Encoder {
	return ppmEncoder{}
}

func (ppmEncoder) Name() string      { return "ppm" }
func (ppmEncoder) Extension() string { return "ppm" }

func (ppmEncoder) Encode(buf *model.Buffer) ([]byte, error) {
	var out bytes.Buffer
	fmt.Fprintf(&out, "P6\n%d %d\n255\n", buf.Width, buf.Height)

	for i := 0; i < len(buf.Pix); i += 4 {
		out.Write(buf.Pix[i : i+3])
	}
	return out.Bytes(), nil
}
