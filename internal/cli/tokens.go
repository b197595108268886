package cli

import (
	"strings"

	"github.com/optimg/optimg/internal/pipeline"
)

// opFlags maps flag names to operation tokens and records whether the
// flag's value is required and may follow as the next argument. Flags
// with an optional value accept it inline only ("--quantization=90"); a
// detached value would be ambiguous with a file argument.
var opFlags = map[string]struct {
	op       string
	hasValue bool
}{
	"resize":       {op: pipeline.TokenResize, hasValue: true},
	"quantization": {op: pipeline.TokenQuantize},
	"premultiply":  {op: pipeline.TokenPremultiply},
	"srgb":         {op: pipeline.TokenSRGB},
}

// valueFlags take a following value argument but are not operations.
// The scanner must skip their values so they are never mistaken for
// operation parameters or file arguments.
var valueFlags = map[string]bool{
	"filter":    true,
	"directory": true, "d": true,
	"threads": true, "t": true,
	"quality": true, "q": true,
	"alpha_quality": true,
	"speed":         true,
	"effort":        true,
	"config":        true,
}

// ScanTokens walks the raw arguments of a subcommand and returns the
// operation tokens in the order they were written. Flag parsing proper
// is left to cobra; this pass exists only because declaration order is
// semantic for operations and a flag set does not preserve it.
func ScanTokens(args []string) []pipeline.Token {
	var tokens []pipeline.Token

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			continue
		}

		name := strings.TrimLeft(arg, "-")
		value := ""
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			value = name[eq+1:]
			name = name[:eq]
		}

		spec, ok := opFlags[name]
		if !ok {
			if valueFlags[name] && !strings.Contains(arg, "=") {
				i++ // skip the flag's detached value
			}
			continue
		}

		if spec.hasValue && value == "" && i+1 < len(args) {
			i++
			value = args[i]
		}
		tokens = append(tokens, pipeline.Token{Op: spec.op, Value: value})
	}
	return tokens
}
