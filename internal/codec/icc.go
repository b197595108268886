package codec

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"
)

var (
	jpegMagic  = []byte{0xFF, 0xD8}
	pngMagic   = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
	iccTag     = []byte("ICC_PROFILE\x00")
	iccpChunk  = []byte("iCCP")
	maxICCSize = 16 << 20
)

// extractICC pulls the embedded ICC profile out of a jpeg or png stream.
// Returns nil when no profile is present or the container is something
// else; decode proper does not depend on this succeeding.
func extractICC(data []byte) []byte {
	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return jpegICC(data)
	case bytes.HasPrefix(data, pngMagic):
		return pngICC(data)
	default:
		return nil
	}
}

// jpegICC walks the JPEG segment list and concatenates APP2 ICC_PROFILE
// chunks in sequence order.
func jpegICC(data []byte) []byte {
	type chunk struct {
		seq  int
		data []byte
	}
	var chunks []chunk

	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			break
		}
		marker := data[pos+1]

		// Standalone markers without a length field.
		if marker == 0xD8 || (marker >= 0xD0 && marker <= 0xD9) {
			pos += 2
			continue
		}
		if marker == 0xDA { // start of scan, no more metadata
			break
		}

		length := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
		if length < 2 || pos+2+length > len(data) {
			break
		}
		payload := data[pos+4 : pos+2+length]

		if marker == 0xE2 && bytes.HasPrefix(payload, iccTag) && len(payload) > len(iccTag)+2 {
			body := payload[len(iccTag):]
			chunks = append(chunks, chunk{seq: int(body[0]), data: body[2:]})
		}
		pos += 2 + length
	}

	if len(chunks) == 0 {
		return nil
	}

	// Chunks are numbered from 1; insertion sort keeps multi-segment
	// profiles in order without pulling in sort for a handful of items.
	for i := 1; i < len(chunks); i++ {
		for j := i; j > 0 && chunks[j-1].seq > chunks[j].seq; j-- {
			chunks[j-1], chunks[j] = chunks[j], chunks[j-1]
		}
	}

	var out []byte
	for _, c := range chunks {
		out = append(out, c.data...)
	}
	return out
}

// pngICC finds the iCCP chunk and inflates its zlib-compressed profile.
func pngICC(data []byte) []byte {
	pos := len(pngMagic)
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := data[pos+4 : pos+8]
		if pos+8+length > len(data) {
			return nil
		}
		body := data[pos+8 : pos+8+length]

		if bytes.Equal(typ, iccpChunk) {
			// Profile name (latin-1, NUL terminated) then compression
			// method byte, then the zlib stream.
			nul := bytes.IndexByte(body, 0)
			if nul < 0 || nul+2 >= len(body) {
				return nil
			}
			r, err := zlib.NewReader(bytes.NewReader(body[nul+2:]))
			if err != nil {
				return nil
			}
			defer r.Close()

			profile, err := io.ReadAll(io.LimitReader(r, int64(maxICCSize)))
			if err != nil {
				return nil
			}
			return profile
		}

		pos += 8 + length + 4 // data + crc
	}
	return nil
}
