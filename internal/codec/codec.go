// Package codec adapts external image codecs to the pipeline. Decoding
// always normalizes into the RGBA8 model.Buffer; encoders turn a buffer
// back into format-specific bytes. The pixel-level work lives in the
// underlying libraries, not here.
package codec

import (
	"github.com/optimg/optimg/internal/model"
)

// Encoder encodes a processed buffer into its target format. Encoders
// are immutable after construction and safe to share across workers.
type Encoder interface {
	// Name is the codec name used in reports and EncodingError values.
	Name() string

	// Extension is the canonical lowercase file extension, without dot.
	// The output path resolver always replaces the input's extension
	// with this one.
	Extension() string

	// Encode produces the output bytes for buf.
	Encode(buf *model.Buffer) ([]byte, error)
}
