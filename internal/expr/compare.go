package expr

import "math"

// Equal is structural equality: same tag, recursing into children; symbol
// equality is by name, literal equality by exact bit pattern (so two
// differently-signed zeros, or two distinct NaN payloads, are unequal).
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case *Literal:
		y, ok := b.(*Literal)
		return ok && math.Float64bits(x.Value) == math.Float64bits(y.Value)
	case *Symbol:
		y, ok := b.(*Symbol)
		return ok && x.Name == y.Name
	case *Unary:
		y, ok := b.(*Unary)
		return ok && x.Op == y.Op && Equal(x.X, y.X)
	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Op == y.Op && Equal(x.L, y.L) && Equal(x.R, y.R)
	default:
		return false
	}
}

// rank orders the three broad tags: Literal < Symbol < Operator, and
// within Operator, Unary before Binary, so the total order stays
// consistent between mixed comparisons.
func rank(e Expr) int {
	switch e.(type) {
	case *Literal:
		return 0
	case *Symbol:
		return 1
	case *Unary:
		return 2
	default:
		return 3
	}
}

// Less defines the total (strict, irreflexive) order over nodes used to
// obtain deterministic canonical forms: Literal < Symbol < Unary < Binary,
// with ties broken by value / lexicographic name / operator tag, then
// recursively by children.
func Less(a, b Expr) bool {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra < rb
	}
	switch x := a.(type) {
	case *Literal:
		return x.Value < b.(*Literal).Value
	case *Symbol:
		return x.Name < b.(*Symbol).Name
	case *Unary:
		y := b.(*Unary)
		if x.Op != y.Op {
			return x.Op < y.Op
		}
		return Less(x.X, y.X)
	case *Binary:
		y := b.(*Binary)
		if x.Op != y.Op {
			return x.Op < y.Op
		}
		if !Equal(x.L, y.L) {
			return Less(x.L, y.L)
		}
		return Less(x.R, y.R)
	default:
		return false
	}
}
