package processor

import (
	"github.com/optimg/optimg/internal/model"
	"github.com/optimg/optimg/internal/pipeline"
)

// quantizeSampleLimit caps how many pixels feed the palette builder.
// Sampling keeps palette construction linear-ish on very large images
// while the remap still touches every pixel.
const quantizeSampleLimit = 1 << 16

// applyQuantize reduces the buffer to a palette sized by the requested
// quality, optionally diffusing the remap error (Floyd–Steinberg) at the
// node's dithering level. The buffer is rewritten in place.
func applyQuantize(buf *model.Buffer, params pipeline.QuantizeParams) {
	palette := buildPalette(buf, paletteSize(params.Quality))
	if len(palette) == 0 {
		return
	}

	if params.Dithering > 0 {
		remapDithered(buf, palette, params.Dithering)
	} else {
		remap(buf, palette)
	}
}

// paletteSize maps perceptual quality 1..100 onto 2..256 palette colors.
func paletteSize(quality int) int {
	n := 2 + (254*quality)/100
	if n > 256 {
		n = 256
	}
	return n
}

type rgba struct{ r, g, b, a int }

// buildPalette runs median cut over (a sample of) the buffer's pixels.
func buildPalette(buf *model.Buffer, colors int) []rgba {
	total := len(buf.Pix) / 4
	if total == 0 {
		return nil
	}

	stride := 1
	if total > quantizeSampleLimit {
		stride = total / quantizeSampleLimit
	}

	sample := make([]rgba, 0, quantizeSampleLimit+1)
	for i := 0; i < total; i += stride {
		p := buf.Pix[i*4:]
		sample = append(sample, rgba{int(p[0]), int(p[1]), int(p[2]), int(p[3])})
	}

	boxes := [][]rgba{sample}
	for len(boxes) < colors {
		// Split the box with the widest channel range at its median.
		widest, channel, spread := -1, 0, 0
		for i, box := range boxes {
			if len(box) < 2 {
				continue
			}
			ch, s := widestChannel(box)
			if s > spread {
				widest, channel, spread = i, ch, s
			}
		}
		if widest < 0 {
			break
		}

		box := boxes[widest]
		sortByChannel(box, channel)
		mid := len(box) / 2
		boxes[widest] = box[:mid]
		boxes = append(boxes, box[mid:])
	}

	palette := make([]rgba, 0, len(boxes))
	for _, box := range boxes {
		if len(box) == 0 {
			continue
		}
		var sum rgba
		for _, p := range box {
			sum.r += p.r
			sum.g += p.g
			sum.b += p.b
			sum.a += p.a
		}
		n := len(box)
		palette = append(palette, rgba{sum.r / n, sum.g / n, sum.b / n, sum.a / n})
	}
	return palette
}

func widestChannel(box []rgba) (int, int) {
	minC := rgba{255, 255, 255, 255}
	maxC := rgba{}
	for _, p := range box {
		minC.r = min(minC.r, p.r)
		minC.g = min(minC.g, p.g)
		minC.b = min(minC.b, p.b)
		minC.a = min(minC.a, p.a)
		maxC.r = max(maxC.r, p.r)
		maxC.g = max(maxC.g, p.g)
		maxC.b = max(maxC.b, p.b)
		maxC.a = max(maxC.a, p.a)
	}

	ranges := [4]int{maxC.r - minC.r, maxC.g - minC.g, maxC.b - minC.b, maxC.a - minC.a}
	channel, spread := 0, ranges[0]
	for i := 1; i < 4; i++ {
		if ranges[i] > spread {
			channel, spread = i, ranges[i]
		}
	}
	return channel, spread
}

func sortByChannel(box []rgba, channel int) {
	key := func(p rgba) int {
		switch channel {
		case 0:
			return p.r
		case 1:
			return p.g
		case 2:
			return p.b
		default:
			return p.a
		}
	}
	// Counting sort: channel values are 0..255 and boxes can be large.
	var counts [256]int
	for _, p := range box {
		counts[key(p)]++
	}
	sorted := make([]rgba, len(box))
	var offsets [256]int
	pos := 0
	for v := 0; v < 256; v++ {
		offsets[v] = pos
		pos += counts[v]
	}
	for _, p := range box {
		k := key(p)
		sorted[offsets[k]] = p
		offsets[k]++
	}
	copy(box, sorted)
}

// nearest finds the palette entry with the smallest squared distance.
func nearest(palette []rgba, p rgba) rgba {
	best, bestDist := palette[0], 1<<62
	for _, c := range palette {
		dr, dg, db, da := c.r-p.r, c.g-p.g, c.b-p.b, c.a-p.a
		d := dr*dr + dg*dg + db*db + da*da
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func remap(buf *model.Buffer, palette []rgba) {
	cache := make(map[uint32]rgba, 1024)
	for i := 0; i < len(buf.Pix); i += 4 {
		key := uint32(buf.Pix[i])<<24 | uint32(buf.Pix[i+1])<<16 | uint32(buf.Pix[i+2])<<8 | uint32(buf.Pix[i+3])
		c, ok := cache[key]
		if !ok {
			c = nearest(palette, rgba{int(buf.Pix[i]), int(buf.Pix[i+1]), int(buf.Pix[i+2]), int(buf.Pix[i+3])})
			cache[key] = c
		}
		buf.Pix[i] = uint8(c.r)
		buf.Pix[i+1] = uint8(c.g)
		buf.Pix[i+2] = uint8(c.b)
		buf.Pix[i+3] = uint8(c.a)
	}
}

// remapDithered remaps with Floyd–Steinberg error diffusion. The level
// scales how much of the quantization error is propagated.
func remapDithered(buf *model.Buffer, palette []rgba, level float64) {
	w, h := buf.Width, buf.Height

	// Per-channel running errors for the current and next row.
	cur := make([][4]float64, w+2)
	next := make([][4]float64, w+2)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4

			var adj rgba
			adj.r = clamp255(int(float64(buf.Pix[i]) + cur[x+1][0]))
			adj.g = clamp255(int(float64(buf.Pix[i+1]) + cur[x+1][1]))
			adj.b = clamp255(int(float64(buf.Pix[i+2]) + cur[x+1][2]))
			adj.a = clamp255(int(float64(buf.Pix[i+3]) + cur[x+1][3]))

			c := nearest(palette, adj)
			buf.Pix[i] = uint8(c.r)
			buf.Pix[i+1] = uint8(c.g)
			buf.Pix[i+2] = uint8(c.b)
			buf.Pix[i+3] = uint8(c.a)

			errs := [4]float64{
				float64(adj.r-c.r) * level,
				float64(adj.g-c.g) * level,
				float64(adj.b-c.b) * level,
				float64(adj.a-c.a) * level,
			}
			for ch := 0; ch < 4; ch++ {
				cur[x+2][ch] += errs[ch] * 7 / 16
				next[x][ch] += errs[ch] * 3 / 16
				next[x+1][ch] += errs[ch] * 5 / 16
				next[x+2][ch] += errs[ch] * 1 / 16
			}
		}
		cur, next = next, cur
		for i := range next {
			next[i] = [4]float64{}
		}
	}
}

func clamp255(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
