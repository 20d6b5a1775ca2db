package expr

import "modernc.org/mathutil"

// Rationalize converts every literal that can be represented as a
// fraction n/d with |n|,|d| <= maxMagnitude into an explicit
// Literal(n) / Literal(d) subtree, via a continued-fraction best-rational
// approximation (Stern-Brocot-style convergents), reduced with
// mathutil.GCDUint64.
func Rationalize(e Expr, maxMagnitude int64) Expr {
	switch n := e.(type) {
	case *Literal:
		if num, den, ok := bestRational(n.Value, maxMagnitude); ok {
			return NewBinary(OpDiv, NewLiteral(float64(num)), NewLiteral(float64(den)))
		}
		return &Literal{Value: n.Value}
	case *Symbol:
		return &Symbol{Name: n.Name}
	case *Unary:
		return &Unary{Op: n.Op, X: Rationalize(n.X, maxMagnitude)}
	case *Binary:
		return &Binary{Op: n.Op, L: Rationalize(n.L, maxMagnitude), R: Rationalize(n.R, maxMagnitude)}
	default:
		return e
	}
}

// bestRational finds the continued-fraction convergent n/d of v with
// |n|, d <= maxMagnitude and the smallest resulting error; returns
// ok=false for values already exactly integral (nothing to rationalize)
// or for values whose convergents never satisfy the magnitude bound.
func bestRational(v float64, maxMagnitude int64) (int64, int64, bool) {
	if v == float64(int64(v)) {
		return 0, 0, false
	}
	sign := int64(1)
	x := v
	if x < 0 {
		sign = -1
		x = -x
	}

	var h0, h1 int64 = 0, 1
	var k0, k1 int64 = 1, 0
	rem := x
	var bestN, bestD int64 = 1, 1
	bestErr := absFloat(x - float64(bestN)/float64(bestD))
	found := false

	for i := 0; i < 40; i++ {
		a := int64(rem)
		h2 := a*h1 + h0
		k2 := a*k1 + k0
		if k2 == 0 || h2 > maxMagnitude || k2 > maxMagnitude {
			break
		}
		h0, h1 = h1, h2
		k0, k1 = k1, k2
		found = true
		if k1 != 0 {
			err := absFloat(x - float64(h1)/float64(k1))
			if err < bestErr {
				bestErr = err
				bestN, bestD = h1, k1
			}
		}
		frac := rem - float64(a)
		if frac < 1e-12 {
			break
		}
		rem = 1 / frac
	}
	if !found {
		return 0, 0, false
	}

	g := int64(mathutil.GCDUint64(uint64(absInt64(bestN)), uint64(absInt64(bestD))))
	if g > 1 {
		bestN /= g
		bestD /= g
	}
	return sign * bestN, bestD, true
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
