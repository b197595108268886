package pipeline

import (
	"strconv"

	"github.com/optimg/optimg/internal/model"
)

// Operation token names accepted by Compile. The CLI layer produces these
// in argument order; the compiler does not care where they came from.
const (
	TokenResize      = "resize"
	TokenQuantize    = "quantization"
	TokenPremultiply = "premultiply"
	TokenSRGB        = "srgb"
)

const defaultQuantizeQuality = 75

// Token is one operation invocation with its optional local parameter.
type Token struct {
	Op    string
	Value string // "" when the operation takes no value or uses its default
}

// Modifiers are the order-independent global flags. They are captured
// once per run regardless of their position among the operation tokens
// and become the default parameters of every node of the matching kind.
type Modifiers struct {
	Filter    string // resize kernel name, "" = lanczos3
	Dithering string // 1..100, "" = disabled
}

// Compile turns ordered operation tokens plus global modifiers into an
// immutable Spec. All validation that can happen before any file is
// touched happens here; every failure is a ConfigError.
func Compile(tokens []Token, mods Modifiers) (*Spec, error) {
	filter, err := ParseFilter(mods.Filter)
	if err != nil {
		return nil, err
	}

	dithering := 0.0
	if mods.Dithering != "" {
		level, err := strconv.Atoi(mods.Dithering)
		if err != nil || level < 1 || level > 100 {
			return nil, model.ConfigErrorf("dithering level %q must be in range 1-100", mods.Dithering)
		}
		dithering = float64(level) / 100
	}

	nodes := make([]Node, 0, len(tokens))
	quantizeSeen := false

	for _, tok := range tokens {
		switch tok.Op {
		case TokenResize:
			value, err := ParseValue(tok.Value)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, Node{
				Kind:   KindResize,
				Resize: ResizeParams{Value: value, Filter: filter},
			})

		case TokenQuantize:
			quality := defaultQuantizeQuality
			if tok.Value != "" {
				q, err := strconv.Atoi(tok.Value)
				if err != nil || q < 1 || q > 100 {
					return nil, model.ConfigErrorf("quantization quality %q must be in range 1-100", tok.Value)
				}
				quality = q
			}
			quantizeSeen = true
			nodes = append(nodes, Node{
				Kind:     KindQuantize,
				Quantize: QuantizeParams{Quality: quality, Dithering: dithering},
			})

		case TokenPremultiply:
			nodes = append(nodes, Node{Kind: KindPremultiply})

		case TokenSRGB:
			nodes = append(nodes, Node{Kind: KindIccProfile})

		default:
			return nil, model.ConfigErrorf("unknown operation %q", tok.Op)
		}
	}

	if mods.Dithering != "" && !quantizeSeen {
		return nil, model.ConfigErrorf("dithering requires quantization to be enabled")
	}

	return &Spec{
		nodes:    nodes,
		defaults: Defaults{Filter: filter, Dithering: dithering},
	}, nil
}

// ValidateThreads checks the worker count against the supported range.
// Zero means "use the default" and is resolved by the scheduler.
func ValidateThreads(n int) error {
	if n != 0 && (n < 1 || n > 16) {
		return model.ConfigErrorf("thread count %d must be in range 1-16", n)
	}
	return nil
}
