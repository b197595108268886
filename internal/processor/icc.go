package processor

import (
	"encoding/binary"
	"math"
	"runtime"
	"sync"

	"github.com/wb-go/wbf/zlog"

	"github.com/optimg/optimg/internal/model"
)

// iccWorkers bounds the internal row pool used for the pixel transform.
// This pool is per-operation and independent of the file-level worker
// pool, so one large image cannot starve other files' scheduling.
const iccWorkers = 4

// applyICC retargets the buffer's colors from its embedded profile to
// sRGB. Images without a profile are skipped with a warning, matching
// how upstream ICC application behaves. Profiles whose tone curves are
// not plain gamma also pass through untouched.
func applyICC(buf *model.Buffer, inputPath string) {
	if len(buf.ICC) == 0 {
		zlog.Logger.Warn().Str("file", inputPath).Msg("no icc profile in the image, skipping")
		return
	}

	gamma, ok := profileGamma(buf.ICC)
	if !ok {
		zlog.Logger.Warn().Str("file", inputPath).Msg("unsupported icc tone curve, skipping")
		return
	}

	// 256-entry LUT: source gamma decode followed by sRGB encode.
	var lut [256]uint8
	for v := 0; v < 256; v++ {
		linear := math.Pow(float64(v)/255, gamma)
		lut[v] = uint8(math.Round(srgbEncode(linear) * 255))
	}

	workers := iccWorkers
	if n := runtime.NumCPU(); n < workers {
		workers = n
	}

	rowsPer := (buf.Height + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < buf.Height; start += rowsPer {
		end := start + rowsPer
		if end > buf.Height {
			end = buf.Height
		}

		wg.Add(1)
		go func(rows []uint8) {
			defer wg.Done()
			for i := 0; i < len(rows); i += 4 {
				rows[i] = lut[rows[i]]
				rows[i+1] = lut[rows[i+1]]
				rows[i+2] = lut[rows[i+2]]
				// Alpha is linear and stays as-is.
			}
		}(buf.Pix[start*buf.Width*4 : end*buf.Width*4])
	}
	wg.Wait()

	// The buffer is sRGB now; drop the stale profile.
	buf.ICC = nil
}

func srgbEncode(linear float64) float64 {
	if linear <= 0.0031308 {
		return 12.92 * linear
	}
	return 1.055*math.Pow(linear, 1/2.4) - 0.055
}

const (
	iccHeaderSize   = 128
	iccTagEntrySize = 12
)

// profileGamma extracts a plain gamma exponent from the profile's green
// (falling back to red) tone reproduction curve. Returns false for
// profiles using sampled or parametric curves.
func profileGamma(profile []byte) (float64, bool) {
	if len(profile) < iccHeaderSize+4 {
		return 0, false
	}

	count := int(binary.BigEndian.Uint32(profile[iccHeaderSize:]))
	tableEnd := iccHeaderSize + 4 + count*iccTagEntrySize
	if count <= 0 || count > 1024 || len(profile) < tableEnd {
		return 0, false
	}

	lookup := func(sig string) []byte {
		for i := 0; i < count; i++ {
			entry := profile[iccHeaderSize+4+i*iccTagEntrySize:]
			if string(entry[:4]) != sig {
				continue
			}
			off := int(binary.BigEndian.Uint32(entry[4:]))
			size := int(binary.BigEndian.Uint32(entry[8:]))
			if off < 0 || size < 12 || off+size > len(profile) {
				return nil
			}
			return profile[off : off+size]
		}
		return nil
	}

	curve := lookup("gTRC")
	if curve == nil {
		curve = lookup("rTRC")
	}
	if curve == nil || string(curve[:4]) != "curv" {
		return 0, false
	}

	points := int(binary.BigEndian.Uint32(curve[8:]))
	switch points {
	case 0:
		return 1.0, true // identity curve
	case 1:
		if len(curve) < 14 {
			return 0, false
		}
		// u8Fixed8Number gamma value.
		return float64(binary.BigEndian.Uint16(curve[12:])) / 256, true
	default:
		return 0, false
	}
}
