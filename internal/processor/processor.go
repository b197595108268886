// Package processor executes a compiled pipeline over one image: decode,
// the operations in declaration order, then encode. It owns no shared
// mutable state; the buffer it works on belongs to exactly one job.
package processor

import (
	"github.com/optimg/optimg/internal/codec"
	"github.com/optimg/optimg/internal/model"
	"github.com/optimg/optimg/internal/pipeline"
)

// Processor applies one immutable pipeline spec to image buffers. A
// single Processor is shared read-only by all workers.
type Processor struct {
	spec *pipeline.Spec
}

// New creates a Processor for the given compiled spec.
func New(spec *pipeline.Spec) *Processor {
	return &Processor{spec: spec}
}

// Process runs decode → operations → encode for one input and returns
// the encoded bytes. Errors carry the taxonomy the batch report needs:
// DecodeError, InvalidDimensionError or EncodingError. There are no
// retries; a failure is reported once and the job ends.
func (p *Processor) Process(data []byte, enc codec.Encoder, inputPath string) ([]byte, error) {
	buf, err := codec.Decode(data)
	if err != nil {
		return nil, &model.DecodeError{Path: inputPath, Cause: err}
	}

	for _, node := range p.spec.Nodes() {
		switch node.Kind {
		case pipeline.KindResize:
			buf, err = applyResize(buf, node.Resize)
			if err != nil {
				return nil, err
			}

		case pipeline.KindQuantize:
			applyQuantize(buf, node.Quantize)

		case pipeline.KindPremultiply:
			applyPremultiply(buf)

		case pipeline.KindIccProfile:
			applyICC(buf, inputPath)
		}
	}

	out, err := enc.Encode(buf)
	if err != nil {
		return nil, &model.EncodingError{Codec: enc.Name(), Cause: err}
	}
	return out, nil
}
