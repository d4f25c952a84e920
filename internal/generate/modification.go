package generate

import "github.com/greatliontech/wrapgen/pkg/component"

// Modification is the contribution of one environment layer to the
// generated program: code fragments for fixed slots around the core
// parser, extra parameters appended to the invocation line, and extra
// arguments implied by the layer (for example dummy file arguments that
// only exist to carry additional mounts).
//
// Modifications form a monoid: Combine is associative, the zero value is
// the identity, and same-named slots concatenate left to right. Layers
// never observe each other's fragments; composition is append-only, so the
// fold order is entirely caller-controlled.
type Modification struct {
	PreParse    []string
	Parsers     []string
	PostParse   []string
	ExtraParams []string
	Inputs      []component.Argument
}

// Combine appends o's fragments after m's, slot by slot. Neither operand
// is mutated.
func (m Modification) Combine(o Modification) Modification {
	return Modification{
		PreParse:    concat(m.PreParse, o.PreParse),
		Parsers:     concat(m.Parsers, o.Parsers),
		PostParse:   concat(m.PostParse, o.PostParse),
		ExtraParams: concat(m.ExtraParams, o.ExtraParams),
		Inputs:      concatArgs(m.Inputs, o.Inputs),
	}
}

// Fold combines any number of modifications in order.
func Fold(mods ...Modification) Modification {
	out := Modification{}
	for _, m := range mods {
		out = out.Combine(m)
	}
	return out
}

// IsZero reports whether the modification contributes nothing.
func (m Modification) IsZero() bool {
	return len(m.PreParse) == 0 && len(m.Parsers) == 0 &&
		len(m.PostParse) == 0 && len(m.ExtraParams) == 0 && len(m.Inputs) == 0
}

func concat(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func concatArgs(a, b []component.Argument) []component.Argument {
	if len(b) == 0 {
		return a
	}
	out := make([]component.Argument, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
