package expr

import (
	"math"

	"modernc.org/mathutil"
)

// DepMap answers "does u depend on v" queries for EvalNode/Deval's diff
// folding rule; there a nil DepMap means "assume dependence" (the
// conservative default used by Simplify). Deval's symbol rule reads a nil
// DepMap the other way: every symbol other than x differentiates to 0.
type DepMap interface {
	DependsOn(u, v string) bool
}

// EvalNode folds a node whose children have already been normalized:
// literal children are computed and collapsed, and the 0/1/-1 identities
// and rational reductions below are applied. When force is true, rational
// reduction of literal quotients is disabled and division always
// evaluates in floating point.
func EvalNode(e Expr, deps DepMap, force bool) Expr {
	switch n := e.(type) {
	case *Literal, *Symbol:
		return e
	case *Unary:
		return evalUnary(n, deps, force)
	case *Binary:
		return evalBinary(n, deps, force)
	default:
		return e
	}
}

func asLiteral(e Expr) (float64, bool) {
	l, ok := e.(*Literal)
	if ok {
		return l.Value, true
	}
	if u, ok := e.(*Unary); ok && u.Op == OpNeg {
		if lv, ok := asLiteral(u.X); ok {
			return -lv, true
		}
	}
	return 0, false
}

func evalUnary(n *Unary, deps DepMap, force bool) Expr {
	if v, ok := asLiteral(n.X); ok {
		switch n.Op {
		case OpNeg:
			return NewLiteral(-v)
		case OpAbs:
			return NewLiteral(math.Abs(v))
		case OpExp:
			return NewLiteral(math.Exp(v))
		case OpSqrt:
			return NewLiteral(math.Sqrt(v))
		case OpLog:
			return NewLiteral(math.Log(v))
		case OpLog2:
			return NewLiteral(math.Log2(v))
		case OpLog10:
			return NewLiteral(math.Log10(v))
		case OpSqr:
			return NewLiteral(v * v)
		case OpSin:
			return NewLiteral(math.Sin(v))
		case OpCos:
			return NewLiteral(math.Cos(v))
		}
	}
	return &Unary{Op: n.Op, X: n.X}
}

func evalBinary(n *Binary, deps DepMap, force bool) Expr {
	if n.Op == OpDiff {
		return evalDiff(n, deps)
	}

	lv, lok := asLiteral(n.L)
	rv, rok := asLiteral(n.R)

	if lok && rok {
		return evalLiteralBinary(n.Op, lv, rv, force)
	}

	if rok {
		if simplified, ok := identityWithLiteralRHS(n.Op, n.L, rv); ok {
			return simplified
		}
	}
	if lok {
		if simplified, ok := identityWithLiteralLHS(n.Op, lv, n.R); ok {
			return simplified
		}
	}

	if n.Op == OpDiv {
		if canon, ok := canonicalDivSquare(n.L, n.R); ok {
			return canon
		}
	}

	return &Binary{Op: n.Op, L: n.L, R: n.R}
}

func evalDiff(n *Binary, deps DepMap) Expr {
	u, uIsVar := n.L.(*Symbol)
	v, vIsVar := n.R.(*Symbol)
	if _, isLit := n.L.(*Literal); isLit {
		return NewLiteral(0)
	}
	if uIsVar && vIsVar && u.Name == v.Name {
		return NewLiteral(1)
	}
	if uIsVar && vIsVar && deps != nil && !deps.DependsOn(u.Name, v.Name) {
		return NewLiteral(0)
	}
	return &Binary{Op: OpDiff, L: n.L, R: n.R}
}

func evalLiteralBinary(op BinaryOp, l, r float64, force bool) Expr {
	switch op {
	case OpAdd:
		return NewLiteral(l + r)
	case OpSub:
		return NewLiteral(l - r)
	case OpMul:
		return NewLiteral(l * r)
	case OpDiv:
		if !force {
			if reduced, ok := reduceRational(l, r); ok {
				return reduced
			}
		}
		return NewLiteral(l / r)
	case OpPow:
		return NewLiteral(math.Pow(l, r))
	case OpMin:
		return NewLiteral(math.Min(l, r))
	case OpMax:
		return NewLiteral(math.Max(l, r))
	case OpEq:
		return boolLiteral(l == r)
	case OpNeq:
		return boolLiteral(l != r)
	case OpLe:
		return boolLiteral(l <= r)
	case OpLt:
		return boolLiteral(l < r)
	case OpGe:
		return boolLiteral(l >= r)
	case OpGt:
		return boolLiteral(l > r)
	default:
		return &Binary{Op: op, L: NewLiteral(l), R: NewLiteral(r)}
	}
}

func boolLiteral(v bool) Expr {
	if v {
		return NewLiteral(1)
	}
	return NewLiteral(0)
}

// reduceRational implements "rational reduction of literal quotients: when
// both numerator and denominator are integers within 64-bit range, reduce
// by gcd; if denominator becomes 1, collapse to numerator."
func reduceRational(num, den float64) (Expr, bool) {
	ni, nok := asExactInt64(num)
	di, dok := asExactInt64(den)
	if !nok || !dok || di == 0 {
		return nil, false
	}
	g := int64(mathutil.GCDUint64(asUint64(abs64(ni)), asUint64(abs64(di))))
	if g == 0 {
		g = 1
	}
	rn, rd := ni/g, di/g
	if rd < 0 {
		rn, rd = -rn, -rd
	}
	if rd == 1 {
		return NewLiteral(float64(rn)), true
	}
	return NewBinary(OpDiv, NewLiteral(float64(rn)), NewLiteral(float64(rd))), true
}

func asExactInt64(v float64) (int64, bool) {
	if v != math.Trunc(v) || math.Abs(v) >= (1<<63) {
		return 0, false
	}
	return int64(v), true
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func asUint64(v int64) uint64 { return uint64(v) }

// identityWithLiteralRHS applies the 0/1/-1 identities where the literal
// is the right operand: a+0, a*0, a-0, a/0, a^0, a*1, a/1, a^1, a*-1,
// a/-1, a^-1.
func identityWithLiteralRHS(op BinaryOp, l Expr, r float64) (Expr, bool) {
	switch {
	case op == OpAdd && r == 0:
		return l, true
	case op == OpSub && r == 0:
		return l, true
	case op == OpMul && r == 0:
		return NewLiteral(0), true
	case op == OpMul && r == 1:
		return l, true
	case op == OpMul && r == -1:
		return NewUnary(OpNeg, l), true
	case op == OpDiv && r == 0:
		return NewLiteral(math.Inf(1)), true
	case op == OpDiv && r == 1:
		return l, true
	case op == OpDiv && r == -1:
		return NewUnary(OpNeg, l), true
	case op == OpPow && r == 0:
		return NewLiteral(1), true
	case op == OpPow && r == 1:
		return l, true
	case op == OpPow && r == -1:
		return NewBinary(OpDiv, NewLiteral(1), l), true
	}
	return nil, false
}

// identityWithLiteralLHS applies the identities where the literal is the
// left operand: 0+a, 0*a, 0-a, 0/a, 0^a, 1*a, 1^a, -1*a.
func identityWithLiteralLHS(op BinaryOp, l float64, r Expr) (Expr, bool) {
	switch {
	case op == OpAdd && l == 0:
		return r, true
	case op == OpMul && l == 0:
		return NewLiteral(0), true
	case op == OpMul && l == 1:
		return r, true
	case op == OpMul && l == -1:
		return NewUnary(OpNeg, r), true
	case op == OpSub && l == 0:
		return NewUnary(OpNeg, r), true
	case op == OpDiv && l == 0:
		return NewLiteral(0), true
	case op == OpPow && l == 0:
		return NewLiteral(0), true
	case op == OpPow && l == 1:
		return NewLiteral(1), true
	}
	return nil, false
}

// canonicalDivSquare implements "a / a^2 -> 1/a when a is a leaf".
func canonicalDivSquare(l, r Expr) (Expr, bool) {
	rb, ok := r.(*Binary)
	if !ok || rb.Op != OpPow {
		return nil, false
	}
	exp, ok := asLiteral(rb.R)
	if !ok || exp != 2 {
		return nil, false
	}
	if !isLeaf(l) || !Equal(l, rb.L) {
		return nil, false
	}
	return NewBinary(OpDiv, NewLiteral(1), l), true
}

func isLeaf(e Expr) bool {
	switch e.(type) {
	case *Literal, *Symbol:
		return true
	default:
		return false
	}
}
