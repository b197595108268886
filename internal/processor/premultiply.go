package processor

import "github.com/optimg/optimg/internal/model"

// applyPremultiply scales each RGB channel by its alpha value in place,
// for destination codecs that expect premultiplied alpha.
func applyPremultiply(buf *model.Buffer) {
	for i := 0; i < len(buf.Pix); i += 4 {
		a := uint32(buf.Pix[i+3])
		if a == 255 {
			continue
		}
		buf.Pix[i] = uint8((uint32(buf.Pix[i])*a + 127) / 255)
		buf.Pix[i+1] = uint8((uint32(buf.Pix[i+1])*a + 127) / 255)
		buf.Pix[i+2] = uint8((uint32(buf.Pix[i+2])*a + 127) / 255)
	}
}
