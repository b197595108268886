package codec

import (
	"bytes"
	"fmt"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/optimg/optimg/internal/model"
)

// Decode sniffs the input format by magic bytes and decodes into an
// RGBA8 buffer. jpeg/png/gif/tiff/bmp go through imaging, webp through
// the dedicated decoder, qoi and farbfeld through the built-in ones.
// Any embedded ICC profile is carried along on the buffer.
func Decode(data []byte) (*model.Buffer, error) {
	switch {
	case isWebP(data):
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode webp: %w", err)
		}
		return model.FromNRGBA(imaging.Clone(img)), nil

	case bytes.HasPrefix(data, []byte("qoif")):
		return decodeQOI(data)

	case bytes.HasPrefix(data, []byte("farbfeld")):
		return decodeFarbfeld(data)

	default:
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}

		buf := model.FromNRGBA(imaging.Clone(img))
		buf.ICC = extractICC(data)
		return buf, nil
	}
}

func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		bytes.HasPrefix(data, []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WEBP"))
}
