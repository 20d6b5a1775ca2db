package expr

// Smoothen recursively replaces the non-differentiable operators (abs,
// min, max) with smooth surrogates parameterized by the caller-supplied
// alpha expression:
//
//	abs(x)   -> sqrt(alpha + x^2)
//	max(x,y) -> 0.5 * (x + y + abs_alpha(x - y, alpha))
//	min(x,y) -> 0.5 * (x + y - abs_alpha(x - y, alpha))
//
// Whether to auto-smooth before differentiating is the caller's explicit
// decision, never an implicit pass inside Deval.
func Smoothen(e Expr, alpha Expr) Expr {
	switch n := e.(type) {
	case *Literal, *Symbol:
		return e
	case *Unary:
		x := Smoothen(n.X, alpha)
		if n.Op == OpAbs {
			return absAlpha(x, alpha)
		}
		return NewUnary(n.Op, x)
	case *Binary:
		l := Smoothen(n.L, alpha)
		r := Smoothen(n.R, alpha)
		switch n.Op {
		case OpMax:
			return NewBinary(OpMul, NewLiteral(0.5),
				NewBinary(OpAdd, NewBinary(OpAdd, l, r), absAlpha(NewBinary(OpSub, l, r), alpha)))
		case OpMin:
			return NewBinary(OpMul, NewLiteral(0.5),
				NewBinary(OpSub, NewBinary(OpAdd, l, r), absAlpha(NewBinary(OpSub, l, r), alpha)))
		default:
			return NewBinary(n.Op, l, r)
		}
	default:
		return e
	}
}

// absAlpha builds sqrt(alpha + x^2), the smooth surrogate for abs(x).
func absAlpha(x, alpha Expr) Expr {
	return NewUnary(OpSqrt, NewBinary(OpAdd, Clone(alpha), NewBinary(OpPow, x, NewLiteral(2))))
}
