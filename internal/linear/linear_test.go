package linear

import (
	"math"
	"testing"

	"fluxcore/internal/expr"
)

func mustParse(t *testing.T, src string) expr.Expr {
	t.Helper()
	e, err := expr.ParseExpr(src)
	if err != nil {
		t.Fatalf("ParseExpr(%q): %v", src, err)
	}
	return e
}

func TestFromExprWorkedExample(t *testing.T) {
	e := mustParse(t, "2*x + 3*y - 5 = x - y + 1")
	l, err := FromExpr(e)
	if err != nil {
		t.Fatalf("FromExpr: %v", err)
	}
	want := map[string]float64{"x": 1, "y": 4, ConstantKey: -6}
	for k, v := range want {
		got, ok := l.Coeffs[k]
		if !ok {
			t.Fatalf("missing coefficient %q in %v", k, l.Coeffs)
		}
		if math.Abs(got-v) > 1e-9 {
			t.Errorf("coefficient %q = %v, want %v", k, got, v)
		}
	}
	if len(l.Coeffs) != len(want) {
		t.Errorf("unexpected extra coefficients: %v", l.Coeffs)
	}
	if !l.IsRelation || l.Comparator != expr.OpEq {
		t.Errorf("expected an equality relation, got IsRelation=%v Comparator=%v", l.IsRelation, l.Comparator)
	}
}

func TestFromExprRejectsNonLinear(t *testing.T) {
	cases := []string{
		"x*y",
		"x^2",
		"sin(x) + 1",
		"5/x",
	}
	for _, src := range cases {
		e := mustParse(t, src)
		if _, err := FromExpr(e); err == nil {
			t.Errorf("expected NonLinear error for %q", src)
		}
	}
}

func TestRebuiltAgreesWithOriginalUnderEvaluation(t *testing.T) {
	cases := []string{
		"2*x + 3*y - 5",
		"x - 2*y + 7",
		"-x + 4",
		"2*x + 3*y - 5 = x - y + 1",
	}
	for _, src := range cases {
		e := mustParse(t, src)
		l, err := FromExpr(e)
		if err != nil {
			t.Fatalf("FromExpr(%q): %v", src, err)
		}
		for _, vals := range []map[string]float64{
			{"x": 0, "y": 0},
			{"x": 1, "y": 1},
			{"x": 3, "y": -2},
			{"x": -5.5, "y": 10},
		} {
			origVal := evalRelationAsZero(t, e, vals)
			rebuiltVal := evalRelationAsZero(t, l.Rebuilt, vals)

			if !valuesAgreeUpToSign(origVal, rebuiltVal) {
				t.Errorf("%q at %v: original=%v rebuilt=%v (not equal up to sign)", src, vals, origVal, rebuiltVal)
			}
		}
	}
}

// valuesAgreeUpToSign accounts for Linear's documented sign-normalization
// pass: the rebuilt expression may represent the negation of the
// original when negative coefficients originally outnumbered positive
// ones.
func valuesAgreeUpToSign(a, b float64) bool {
	const eps = 1e-9
	return math.Abs(a-b) < eps || math.Abs(a+b) < eps
}

// evalRelationAsZero evaluates e, treating a top-level relation as
// lhs - rhs (the zero-form used throughout Linear), and a bare
// expression as itself.
func evalRelationAsZero(t *testing.T, e expr.Expr, vars map[string]float64) float64 {
	t.Helper()
	if b, ok := e.(*expr.Binary); ok && b.Op.IsRelational() {
		return evalExpr(t, b.L, vars) - evalExpr(t, b.R, vars)
	}
	return evalExpr(t, e, vars)
}

func evalExpr(t *testing.T, e expr.Expr, vars map[string]float64) float64 {
	t.Helper()
	switch n := e.(type) {
	case *expr.Literal:
		return n.Value
	case *expr.Symbol:
		v, ok := vars[n.Name]
		if !ok {
			t.Fatalf("no binding for %q", n.Name)
		}
		return v
	case *expr.Unary:
		x := evalExpr(t, n.X, vars)
		if n.Op == expr.OpNeg {
			return -x
		}
		t.Fatalf("evalExpr: unsupported unary op %v", n.Op)
	case *expr.Binary:
		l := evalExpr(t, n.L, vars)
		r := evalExpr(t, n.R, vars)
		switch n.Op {
		case expr.OpAdd:
			return l + r
		case expr.OpSub:
			return l - r
		case expr.OpMul:
			return l * r
		case expr.OpDiv:
			return l / r
		}
		t.Fatalf("evalExpr: unsupported binary op %v", n.Op)
	}
	t.Fatalf("evalExpr: unsupported node %T", e)
	return 0
}
