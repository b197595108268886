package codec

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/optimg/optimg/internal/model"
)

// testBuffer fills a buffer with a deterministic pattern that exercises
// runs, small diffs and full RGBA literals in the qoi encoder.
func testBuffer(w, h int) *model.Buffer {
	buf := model.NewBuffer(w, h)
	for i := 0; i < len(buf.Pix); i += 4 {
		switch (i / 4) % 3 {
		case 0:
			buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3] = 10, 20, 30, 255
		case 1:
			buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3] = 11, 21, 31, 255
		default:
			buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3] = uint8(i), uint8(i >> 3), uint8(i >> 6), 128
		}
	}
	return buf
}

func TestExtensions(t *testing.T) {
	tests := []struct {
		enc  Encoder
		name string
		ext  string
	}{
		{NewJpeg(JpegOptions{Quality: 75}), "jpeg", "jpg"},
		{NewMozJpeg(JpegOptions{Quality: 75}), "mozjpeg", "jpg"},
		{NewPng(), "png", "png"},
		{NewOxiPng(PngOptions{Effort: 2}), "oxipng", "png"},
		{NewWebP(WebPOptions{Quality: 75}), "webp", "webp"},
		{NewAvif(AvifOptions{Quality: 50, Speed: 6}), "avif", "avif"},
		{NewJpegXL(JpegXLOptions{Quality: 75, Effort: 7}), "jpeg_xl", "jxl"},
		{NewPPM(), "ppm", "ppm"},
		{NewQOI(), "qoi", "qoi"},
		{NewFarbfeld(), "farbfeld", "ff"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.name, tt.enc.Name())
		require.Equal(t, tt.ext, tt.enc.Extension())
	}
}

func TestQOI_Roundtrip(t *testing.T) {
	src := testBuffer(17, 9)

	data, err := NewQOI().Encode(src)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("qoif")))

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, src.Width, got.Width)
	require.Equal(t, src.Height, got.Height)
	require.Equal(t, src.Pix, got.Pix)
}

func TestQOI_LongRun(t *testing.T) {
	// A uniform image stresses run encoding past the 62-pixel cap.
	src := model.NewBuffer(50, 10)
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 1, 2, 3, 255
	}

	data, err := NewQOI().Encode(src)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, src.Pix, got.Pix)
}

func TestFarbfeld_Roundtrip(t *testing.T) {
	src := testBuffer(5, 3)

	data, err := NewFarbfeld().Encode(src)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("farbfeld")))

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, src.Width, got.Width)
	require.Equal(t, src.Height, got.Height)
	require.Equal(t, src.Pix, got.Pix)
}

func TestPPM_Header(t *testing.T) {
	src := testBuffer(4, 2)

	data, err := NewPPM().Encode(src)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("P6\n4 2\n255\n")))
	require.Len(t, data, len("P6\n4 2\n255\n")+3*4*2)
}

func TestDecode_PNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	var encoded bytes.Buffer
	require.NoError(t, png.Encode(&encoded, img))

	buf, err := Decode(encoded.Bytes())
	require.NoError(t, err)
	require.Equal(t, 3, buf.Width)
	require.Equal(t, 2, buf.Height)
	require.Nil(t, buf.ICC)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"))
	require.Error(t, err)
}

func TestDecode_TruncatedQOI(t *testing.T) {
	src := testBuffer(8, 8)
	data, err := NewQOI().Encode(src)
	require.NoError(t, err)

	_, err = Decode(data[:len(data)/2])
	require.Error(t, err)
}

func TestJpegRoundtripDimensions(t *testing.T) {
	src := testBuffer(16, 12)

	data, err := NewJpeg(JpegOptions{Quality: 90}).Encode(src)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 16, got.Width)
	require.Equal(t, 12, got.Height)
}
