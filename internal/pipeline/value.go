package pipeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/optimg/optimg/internal/model"
)

// valueKind discriminates the resize expression forms.
type valueKind int

const (
	valueDimensions valueKind = iota
	valueMultiplier
	valuePercentage
)

// Value is a parsed resize expression. Absolute and one-sided forms keep
// their literal dimensions; multiplier and percentage forms keep a factor.
// The target size depends on the source image, so resolution happens per
// image at execution time via TargetFor.
type Value struct {
	kind   valueKind
	width  int // 0 = derive from aspect ratio
	height int
	factor float64
}

// ParseValue parses a resize expression:
//
//	500x200  absolute
//	_x600    height fixed, width preserves aspect ratio
//	500x_    width fixed, height preserves aspect ratio
//	@0.9     multiply source dimensions
//	175%     scale source dimensions by percentage
//
// A literal width or height of zero is rejected here, before any file is
// touched, as is "_x_", which fixes neither dimension.
func ParseValue(s string) (Value, error) {
	switch {
	case strings.HasPrefix(s, "@"):
		f, err := strconv.ParseFloat(s[1:], 64)
		if err != nil {
			return Value{}, &model.ConfigError{Msg: fmt.Sprintf("invalid resize multiplier %q", s), Cause: err}
		}
		if f <= 0 {
			return Value{}, model.ConfigErrorf("resize multiplier %q must be positive", s)
		}
		return Value{kind: valueMultiplier, factor: f}, nil

	case strings.HasSuffix(s, "%"):
		p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return Value{}, &model.ConfigError{Msg: fmt.Sprintf("invalid resize percentage %q", s), Cause: err}
		}
		if p <= 0 {
			return Value{}, model.ConfigErrorf("resize percentage %q must be positive", s)
		}
		return Value{kind: valuePercentage, factor: p / 100}, nil

	case strings.Contains(s, "x"):
		parts := strings.Split(s, "x")
		if len(parts) != 2 {
			return Value{}, model.ConfigErrorf("resize expression %q must have exactly two dimensions", s)
		}

		w, err := parseDimension(parts[0], s)
		if err != nil {
			return Value{}, err
		}
		h, err := parseDimension(parts[1], s)
		if err != nil {
			return Value{}, err
		}
		if w == 0 && h == 0 {
			return Value{}, model.ConfigErrorf("resize expression %q fixes neither dimension", s)
		}
		return Value{kind: valueDimensions, width: w, height: h}, nil

	default:
		return Value{}, model.ConfigErrorf("invalid resize expression %q", s)
	}
}

// parseDimension parses one side of a WxH expression. "_" means the
// dimension is derived from the source aspect ratio.
func parseDimension(part, expr string) (int, error) {
	if part == "_" {
		return 0, nil
	}
	n, err := strconv.Atoi(part)
	if err != nil {
		return 0, &model.ConfigError{Msg: fmt.Sprintf("invalid resize expression %q", expr), Cause: err}
	}
	if n <= 0 {
		return 0, model.ConfigErrorf("resize expression %q has a zero dimension", expr)
	}
	return n, nil
}

// TargetFor resolves the expression against a source image size. The
// result may be zero (e.g. @0.001 on a tiny image); callers reject that
// as an invalid dimension.
func (v Value) TargetFor(srcWidth, srcHeight int) (int, int) {
	switch v.kind {
	case valueMultiplier, valuePercentage:
		return int(math.Round(float64(srcWidth) * v.factor)),
			int(math.Round(float64(srcHeight) * v.factor))

	default:
		w, h := v.width, v.height
		aspect := float64(srcWidth) / float64(srcHeight)

		switch {
		case w == 0:
			return int(math.Round(float64(h) * aspect)), h
		case h == 0:
			return w, int(math.Round(float64(w) / aspect))
		default:
			return w, h
		}
	}
}

func (v Value) String() string {
	switch v.kind {
	case valueMultiplier:
		return fmt.Sprintf("@%g", v.factor)
	case valuePercentage:
		return fmt.Sprintf("%g%%", v.factor*100)
	default:
		w, h := "_", "_"
		if v.width > 0 {
			w = strconv.Itoa(v.width)
		}
		if v.height > 0 {
			h = strconv.Itoa(v.height)
		}
		return w + "x" + h
	}
}
