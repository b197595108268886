package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/optimg/optimg/internal/model"
)

// QOI opcodes. The two 8-bit tags are disambiguated from QOI_OP_RUN by
// value; everything else lives in the top two bits.
const (
	qoiOpIndex = 0x00
	qoiOpDiff  = 0x40
	qoiOpLuma  = 0x80
	qoiOpRun   = 0xC0
	qoiOpRGB   = 0xFE
	qoiOpRGBA  = 0xFF

	qoiHeaderSize = 14
	qoiMaxRun     = 62
)

var qoiPadding = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

type qoiPixel struct{ r, g, b, a uint8 }

func qoiHash(p qoiPixel) int {
	return (int(p.r)*3 + int(p.g)*5 + int(p.b)*7 + int(p.a)*11) % 64
}

type qoiEncoder struct{}

// NewQOI builds the QOI encoder.
func NewQOI() Encoder {
	return qoiEncoder{}
}

func (qoiEncoder) Name() string      { return "qoi" }
func (qoiEncoder) Extension() string { return "qoi" }

func (qoiEncoder) Encode(buf *model.Buffer) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(qoiHeaderSize + len(buf.Pix)/2)

	header := make([]byte, qoiHeaderSize)
	copy(header, "qoif")
	binary.BigEndian.PutUint32(header[4:], uint32(buf.Width))
	binary.BigEndian.PutUint32(header[8:], uint32(buf.Height))
	header[12] = 4 // channels
	header[13] = 0 // sRGB with linear alpha
	out.Write(header)

	var index [64]qoiPixel
	prev := qoiPixel{a: 255}
	run := 0

	for i := 0; i < len(buf.Pix); i += 4 {
		px := qoiPixel{buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3]}

		if px == prev {
			run++
			if run == qoiMaxRun {
				out.WriteByte(qoiOpRun | byte(run-1))
				run = 0
			}
			prev = px
			continue
		}

		if run > 0 {
			out.WriteByte(qoiOpRun | byte(run-1))
			run = 0
		}

		hash := qoiHash(px)
		switch {
		case index[hash] == px:
			out.WriteByte(qoiOpIndex | byte(hash))

		case px.a == prev.a:
			dr := int8(px.r - prev.r)
			dg := int8(px.g - prev.g)
			db := int8(px.b - prev.b)
			drg := dr - dg
			dbg := db - dg

			switch {
			case dr >= -2 && dr <= 1 && dg >= -2 && dg <= 1 && db >= -2 && db <= 1:
				out.WriteByte(qoiOpDiff | byte(dr+2)<<4 | byte(dg+2)<<2 | byte(db+2))
			case dg >= -32 && dg <= 31 && drg >= -8 && drg <= 7 && dbg >= -8 && dbg <= 7:
				out.WriteByte(qoiOpLuma | byte(dg+32))
				out.WriteByte(byte(drg+8)<<4 | byte(dbg+8))
			default:
				out.Write([]byte{qoiOpRGB, px.r, px.g, px.b})
			}

		default:
			out.Write([]byte{qoiOpRGBA, px.r, px.g, px.b, px.a})
		}

		index[hash] = px
		prev = px
	}

	if run > 0 {
		out.WriteByte(qoiOpRun | byte(run-1))
	}
	out.Write(qoiPadding[:])

	return out.Bytes(), nil
}

// decodeQOI decodes a QOI stream into RGBA8.
func decodeQOI(data []byte) (*model.Buffer, error) {
	if len(data) < qoiHeaderSize+len(qoiPadding) {
		return nil, fmt.Errorf("qoi stream truncated")
	}

	w := int(binary.BigEndian.Uint32(data[4:]))
	h := int(binary.BigEndian.Uint32(data[8:]))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("qoi stream has invalid dimensions %dx%d", w, h)
	}

	buf := model.NewBuffer(w, h)

	var index [64]qoiPixel
	px := qoiPixel{a: 255}
	pos := qoiHeaderSize
	end := len(data) - len(qoiPadding)

	for out := 0; out < len(buf.Pix); {
		if pos >= end {
			return nil, fmt.Errorf("qoi stream ended before all pixels were decoded")
		}

		b := data[pos]
		pos++

		switch {
		case b == qoiOpRGB:
			if pos+3 > end {
				return nil, fmt.Errorf("qoi stream truncated")
			}
			px.r, px.g, px.b = data[pos], data[pos+1], data[pos+2]
			pos += 3

		case b == qoiOpRGBA:
			if pos+4 > end {
				return nil, fmt.Errorf("qoi stream truncated")
			}
			px = qoiPixel{data[pos], data[pos+1], data[pos+2], data[pos+3]}
			pos += 4

		case b&0xC0 == qoiOpIndex:
			px = index[b&0x3F]

		case b&0xC0 == qoiOpDiff:
			px.r += b>>4&0x03 - 2
			px.g += b>>2&0x03 - 2
			px.b += b&0x03 - 2

		case b&0xC0 == qoiOpLuma:
			if pos >= end {
				return nil, fmt.Errorf("qoi stream truncated")
			}
			dg := b&0x3F - 32
			b2 := data[pos]
			pos++
			px.r += dg + (b2 >> 4 & 0x0F) - 8
			px.g += dg
			px.b += dg + (b2 & 0x0F) - 8

		default: // run
			run := int(b&0x3F) + 1
			for ; run > 0 && out < len(buf.Pix); run-- {
				buf.Pix[out] = px.r
				buf.Pix[out+1] = px.g
				buf.Pix[out+2] = px.b
				buf.Pix[out+3] = px.a
				out += 4
			}
			index[qoiHash(px)] = px
			continue
		}

		index[qoiHash(px)] = px
		buf.Pix[out] = px.r
		buf.Pix[out+1] = px.g
		buf.Pix[out+2] = px.b
		buf.Pix[out+3] = px.a
		out += 4
	}

	return buf, nil
}
