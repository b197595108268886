// Package pipeline compiles the ordered operation list of a run into an
// immutable Spec shared read-only by every worker.
package pipeline

// Kind tags an operation node. The operation set is closed: new kinds
// require a new compiler rule and a new executor branch.
type Kind int

const (
	KindResize Kind = iota
	KindQuantize
	KindPremultiply
	KindIccProfile
)

func (k Kind) String() string {
	switch k {
	case KindResize:
		return "resize"
	case KindQuantize:
		return "quantization"
	case KindPremultiply:
		return "premultiply"
	case KindIccProfile:
		return "icc-profile"
	default:
		return "unknown"
	}
}

// ResizeParams carries a resize node's expression and kernel. The kernel
// is filled in from the global --filter modifier at compile time.
type ResizeParams struct {
	Value  Value
	Filter Filter
}

// QuantizeParams carries a quantization node's quality and the dithering
// level resolved from the global --dithering modifier. Dithering of zero
// disables error diffusion.
type QuantizeParams struct {
	Quality   int     // 1..100, higher keeps more colors
	Dithering float64 // 0..1
}

// Node is one compiled pipeline step. Exactly the params matching Kind
// are meaningful.
type Node struct {
	Kind     Kind
	Resize   ResizeParams
	Quantize QuantizeParams
}

// Defaults records the global modifier table a Spec was compiled with.
type Defaults struct {
	Filter    Filter
	Dithering float64
}

// Spec is a compiled pipeline: operations in declaration order with all
// global modifiers already resolved into the nodes. It is built once per
// run and never mutated afterwards, which makes unsynchronized concurrent
// reads from worker goroutines safe.
type Spec struct {
	nodes    []Node
	defaults Defaults
}

// Nodes returns the operations in execution order. The returned slice is
// owned by the Spec and must not be modified.
func (s *Spec) Nodes() []Node { return s.nodes }

// Defaults returns the resolved global modifier table.
func (s *Spec) Defaults() Defaults { return s.defaults }

// Len returns the number of operations.
func (s *Spec) Len() int { return len(s.nodes) }
