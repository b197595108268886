package codec

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// app2Segment builds a JPEG APP2 ICC_PROFILE segment carrying one chunk
// of a profile split across total chunks.
func app2Segment(seq, total byte, data []byte) []byte {
	payload := append([]byte(nil), iccTag...)
	payload = append(payload, seq, total)
	payload = append(payload, data...)

	seg := []byte{0xFF, 0xE2, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))
	return append(seg, payload...)
}

// pngWithProfile builds a PNG byte stream whose first chunk is an iCCP
// chunk holding the zlib-compressed profile.
func pngWithProfile(t *testing.T, profile []byte) []byte {
	t.Helper()

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, err := zw.Write(profile)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	body := append([]byte("icc\x00\x00"), compressed.Bytes()...)

	out := append([]byte(nil), pngMagic...)
	header := make([]byte, 8)
	binary.BigEndian.PutUint32(header, uint32(len(body)))
	copy(header[4:], iccpChunk)
	out = append(out, header...)
	out = append(out, body...)
	return append(out, 0, 0, 0, 0) // crc, not validated by the scanner
}

func TestExtractICC_JPEGMultiChunk(t *testing.T) {
	// Chunks arrive out of order; reassembly follows sequence numbers.
	jpg := []byte{0xFF, 0xD8}
	jpg = append(jpg, app2Segment(2, 2, []byte("-tail"))...)
	jpg = append(jpg, app2Segment(1, 2, []byte("profile"))...)
	jpg = append(jpg, 0xFF, 0xDA) // start of scan ends the metadata walk

	require.Equal(t, []byte("profile-tail"), extractICC(jpg))
}

func TestExtractICC_JPEGWithoutProfile(t *testing.T) {
	jpg := []byte{0xFF, 0xD8, 0xFF, 0xDA}
	require.Nil(t, extractICC(jpg))
}

func TestExtractICC_PNG(t *testing.T) {
	profile := []byte("fake icc profile bytes")
	require.Equal(t, profile, extractICC(pngWithProfile(t, profile)))
}

func TestExtractICC_PNGWithoutProfile(t *testing.T) {
	// A bare signature with no iCCP chunk yields no profile.
	require.Nil(t, extractICC(append([]byte(nil), pngMagic...)))
}

func TestExtractICC_PNGCorruptCompression(t *testing.T) {
	data := pngWithProfile(t, []byte("profile"))
	// Clobber the zlib stream; extraction degrades to no profile.
	data[len(pngMagic)+8+5] ^= 0xFF
	require.Nil(t, extractICC(data))
}

func TestExtractICC_OtherContainers(t *testing.T) {
	require.Nil(t, extractICC([]byte("qoif....")))
	require.Nil(t, extractICC(nil))
}
