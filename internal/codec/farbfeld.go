package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/optimg/optimg/internal/model"
)

const farbfeldHeader = 8 + 4 + 4

type farbfeldEncoder struct{}

// NewFarbfeld builds the farbfeld encoder: the 16-bit-per-channel
// suckless bitmap format. 8-bit channels widen by replication (c * 257).
func NewFarbfeld() Encoder {
	return farbfeldEncoder{}
}

func (farbfeldEncoder) Name() string      { return "farbfeld" }
func (farbfeldEncoder) Extension() string { return "ff" }

func (farbfeldEncoder) Encode(buf *model.Buffer) ([]byte, error) {
	out := make([]byte, farbfeldHeader+len(buf.Pix)*2)
	copy(out, "farbfeld")
	binary.BigEndian.PutUint32(out[8:], uint32(buf.Width))
	binary.BigEndian.PutUint32(out[12:], uint32(buf.Height))

	pos := farbfeldHeader
	for _, c := range buf.Pix {
		binary.BigEndian.PutUint16(out[pos:], uint16(c)*257)
		pos += 2
	}
	return out, nil
}

// decodeFarbfeld narrows a farbfeld stream back into RGBA8.
func decodeFarbfeld(data []byte) (*model.Buffer, error) {
	if len(data) < farbfeldHeader {
		return nil, fmt.Errorf("farbfeld stream truncated")
	}

	w := int(binary.BigEndian.Uint32(data[8:]))
	h := int(binary.BigEndian.Uint32(data[12:]))
	need := farbfeldHeader + w*h*8
	if w <= 0 || h <= 0 || len(data) < need {
		return nil, fmt.Errorf("farbfeld stream has invalid dimensions %dx%d", w, h)
	}

	buf := model.NewBuffer(w, h)
	for i := 0; i < 4*w*h; i++ {
		buf.Pix[i] = uint8(binary.BigEndian.Uint16(data[farbfeldHeader+i*2:]) >> 8)
	}
	return buf, nil
}
