package processor

import (
	"github.com/disintegration/imaging"

	"github.com/optimg/optimg/internal/model"
	"github.com/optimg/optimg/internal/pipeline"
)

// applyResize resolves the target dimensions against the current buffer
// and resamples with the node's kernel. Percentage and multiplier forms
// depend on the source size, which is why resolution happens here and
// not at compile time.
func applyResize(buf *model.Buffer, params pipeline.ResizeParams) (*model.Buffer, error) {
	w, h := params.Value.TargetFor(buf.Width, buf.Height)
	if w <= 0 || h <= 0 {
		return nil, &model.InvalidDimensionError{Expr: params.Value.String(), Width: w, Height: h}
	}

	resized := imaging.Resize(buf.NRGBA(), w, h, params.Filter.Resample())

	out := model.FromNRGBA(resized)
	out.ICC = buf.ICC
	return out, nil
}
