package expr

import "fluxcore/internal/xerrors"

// Deval returns a new tree representing d(self)/d(x). Rules cover sum,
// product, quotient, power (u^v via u^v*(v'*log(u) + v*u'/u)), unary
// minus, compositions of elementary functions, and composed derivatives
// diff(u, y) (which become diff(diff(u, y), x)). The result is locally
// evaluated before being returned. abs/min/max are not differentiable
// without a prior Smoothen pass: Deval panics an *xerrors.ExprError in
// that case, recovered by DevalSafe.
func Deval(e Expr, x string, deps DepMap) Expr {
	return EvalNode(devalRaw(e, x, deps), deps, false)
}

// DevalSafe is Deval guarded against the NonDifferentiable panic,
// returning it as an error instead.
func DevalSafe(e Expr, x string, deps DepMap) (result Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ee, ok := r.(*xerrors.ExprError); ok {
				err = ee
				return
			}
			panic(r)
		}
	}()
	result = Deval(e, x, deps)
	return
}

func devalRaw(e Expr, x string, deps DepMap) Expr {
	switch n := e.(type) {
	case *Literal:
		return NewLiteral(0)
	case *Symbol:
		if n.Name == x {
			return NewLiteral(1)
		}
		if deps != nil && deps.DependsOn(n.Name, x) {
			return NewBinary(OpDiff, NewSymbol(n.Name), NewSymbol(x))
		}
		// No dep-map info, or the map says n does not depend on x: treat
		// as constant, matching the "constant unless told otherwise" default.
		return NewLiteral(0)
	case *Unary:
		return devalUnary(n, x, deps)
	case *Binary:
		return devalBinary(n, x, deps)
	default:
		return NewLiteral(0)
	}
}

func devalUnary(n *Unary, x string, deps DepMap) Expr {
	dx := devalRaw(n.X, x, deps)
	switch n.Op {
	case OpNeg:
		return NewUnary(OpNeg, dx)
	case OpAbs:
		panic(xerrors.NewNonDifferentiableError("abs"))
	case OpExp:
		return NewBinary(OpMul, NewUnary(OpExp, n.X), dx)
	case OpSqrt:
		return NewBinary(OpDiv, dx, NewBinary(OpMul, NewLiteral(2), NewUnary(OpSqrt, n.X)))
	case OpLog:
		return NewBinary(OpDiv, dx, n.X)
	case OpLog2:
		return NewBinary(OpDiv, dx, NewBinary(OpMul, n.X, NewLiteral(ln2)))
	case OpLog10:
		return NewBinary(OpDiv, dx, NewBinary(OpMul, n.X, NewLiteral(ln10)))
	case OpSqr:
		return NewBinary(OpMul, NewBinary(OpMul, NewLiteral(2), n.X), dx)
	case OpSin:
		return NewBinary(OpMul, NewUnary(OpCos, n.X), dx)
	case OpCos:
		return NewUnary(OpNeg, NewBinary(OpMul, NewUnary(OpSin, n.X), dx))
	default:
		panic(xerrors.NewNonDifferentiableError(n.Op.String()))
	}
}

const (
	ln2  = 0.6931471805599453
	ln10 = 2.302585092994046
)

func devalBinary(n *Binary, x string, deps DepMap) Expr {
	switch n.Op {
	case OpAdd:
		return NewBinary(OpAdd, devalRaw(n.L, x, deps), devalRaw(n.R, x, deps))
	case OpSub:
		return NewBinary(OpSub, devalRaw(n.L, x, deps), devalRaw(n.R, x, deps))
	case OpMul:
		// (u*v)' = u'*v + u*v'
		up := devalRaw(n.L, x, deps)
		vp := devalRaw(n.R, x, deps)
		return NewBinary(OpAdd, NewBinary(OpMul, up, n.R), NewBinary(OpMul, n.L, vp))
	case OpDiv:
		// (u/v)' = (u'*v - u*v') / v^2
		up := devalRaw(n.L, x, deps)
		vp := devalRaw(n.R, x, deps)
		num := NewBinary(OpSub, NewBinary(OpMul, up, n.R), NewBinary(OpMul, n.L, vp))
		den := NewBinary(OpPow, n.R, NewLiteral(2))
		return NewBinary(OpDiv, num, den)
	case OpPow:
		// (u^v)' = u^v * (v' * log(u) + v * u'/u)
		up := devalRaw(n.L, x, deps)
		vp := devalRaw(n.R, x, deps)
		inner := NewBinary(OpAdd,
			NewBinary(OpMul, vp, NewUnary(OpLog, n.L)),
			NewBinary(OpMul, n.R, NewBinary(OpDiv, up, n.L)),
		)
		return NewBinary(OpMul, NewBinary(OpPow, n.L, n.R), inner)
	case OpMin:
		panic(xerrors.NewNonDifferentiableError("min"))
	case OpMax:
		panic(xerrors.NewNonDifferentiableError("max"))
	case OpDiff:
		// diff(u, y) differentiates to diff(diff(u, y), x): the composed
		// derivative of an already-partial derivative.
		inner := NewBinary(OpDiff, n.L, n.R)
		return NewBinary(OpDiff, inner, NewSymbol(x))
	default:
		panic(xerrors.NewNonDifferentiableError(n.Op.String()))
	}
}
