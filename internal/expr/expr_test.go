package expr

import (
	"math"
	"testing"
)

func mustParse(t *testing.T, src string) Expr {
	t.Helper()
	e, err := ParseExpr(src)
	if err != nil {
		t.Fatalf("ParseExpr(%q): %v", src, err)
	}
	return e
}

func TestCloneStableUnderStringAndHash(t *testing.T) {
	e := mustParse(t, "2*x + 3*y^2 - log(z)")
	c := Clone(e)
	if String(c) != String(e) {
		t.Fatalf("clone string mismatch: %q vs %q", String(c), String(e))
	}
	if Hash(c) != Hash(e) {
		t.Fatalf("clone hash mismatch")
	}
}

func TestSimplifyIsIdempotent(t *testing.T) {
	cases := []string{
		"2*x + 3*x - x",
		"(x + y) * (x - y)",
		"x*1 + 0*y",
		"x/x + 1",
		"2^3 + x*0",
		"-(-x)",
	}
	for _, src := range cases {
		e := mustParse(t, src)
		once := Simplify(e)
		twice := Simplify(once)
		if !Equal(once, twice) {
			t.Errorf("simplify not idempotent for %q: once=%s twice=%s", src, String(once), String(twice))
		}
	}
}

func TestDevalElementaryIdentities(t *testing.T) {
	tests := []struct {
		src  string
		x    string
		want string
	}{
		{"x", "x", "1"},
		{"5", "x", "0"},
		{"x*y", "x", "y"},
		{"x/y", "x", "1 / y"},
		{"sin(x)", "x", "cos(x)"},
		{"exp(x)", "x", "exp(x)"},
		{"-x", "x", "-1"},
	}
	for _, tc := range tests {
		e := mustParse(t, tc.src)
		d := Simplify(Deval(e, tc.x, nil))
		got := String(d)
		if got != tc.want {
			t.Errorf("deval(%q, %q) = %q, want %q", tc.src, tc.x, got, tc.want)
		}
	}
}

// TestDevalPowerRuleNumeric checks x^2's derivative numerically (2*x at
// several sample points) rather than by exact string form, since the
// general power rule expands to a log-based expression whose algebraic
// reduction to "2*x" is not guaranteed by the compression passes alone.
func TestDevalPowerRuleNumeric(t *testing.T) {
	e := mustParse(t, "x^2")
	d := Simplify(Deval(e, "x", nil))
	for _, xv := range []float64{1, 2, 3.5, 10} {
		got := evalAt(t, d, map[string]float64{"x": xv})
		want := 2 * xv
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("deval(x^2, x) at x=%v = %v, want %v", xv, got, want)
		}
	}
}

func evalAt(t *testing.T, e Expr, vars map[string]float64) float64 {
	t.Helper()
	switch n := e.(type) {
	case *Literal:
		return n.Value
	case *Symbol:
		v, ok := vars[n.Name]
		if !ok {
			t.Fatalf("no binding for symbol %q", n.Name)
		}
		return v
	case *Unary:
		x := evalAt(t, n.X, vars)
		switch n.Op {
		case OpNeg:
			return -x
		case OpAbs:
			return math.Abs(x)
		case OpExp:
			return math.Exp(x)
		case OpSqrt:
			return math.Sqrt(x)
		case OpLog:
			return math.Log(x)
		case OpLog2:
			return math.Log2(x)
		case OpLog10:
			return math.Log10(x)
		case OpSqr:
			return x * x
		case OpSin:
			return math.Sin(x)
		case OpCos:
			return math.Cos(x)
		}
	case *Binary:
		l := evalAt(t, n.L, vars)
		r := evalAt(t, n.R, vars)
		switch n.Op {
		case OpAdd:
			return l + r
		case OpSub:
			return l - r
		case OpMul:
			return l * r
		case OpDiv:
			return l / r
		case OpPow:
			return math.Pow(l, r)
		case OpMin:
			return math.Min(l, r)
		case OpMax:
			return math.Max(l, r)
		}
	}
	t.Fatalf("evalAt: unhandled node %T", e)
	return 0
}

func TestSubstAgreesWithTextualSubstThenParse(t *testing.T) {
	e := mustParse(t, "x*x + y")
	replacement := mustParse(t, "(a + 1)")

	viaSubst := Subst(e, "x", replacement)

	viaText := mustParse(t, "(a + 1)*(a + 1) + y")

	if String(viaSubst) != String(viaText) {
		t.Fatalf("subst mismatch: %q vs %q", String(viaSubst), String(viaText))
	}
}

func TestRationalizePreservesValueWithinEpsilon(t *testing.T) {
	e := mustParse(t, "x * 0.333333")
	r := Rationalize(e, 1000000)

	origLit := findFirstLiteralValue(t, e)
	newVal := evalRationalizedLiteral(t, r)

	if math.Abs(origLit-newVal) > 1e-5 {
		t.Fatalf("rationalize changed value: %v vs %v", origLit, newVal)
	}
}

func findFirstLiteralValue(t *testing.T, e Expr) float64 {
	t.Helper()
	switch n := e.(type) {
	case *Literal:
		return n.Value
	case *Unary:
		return findFirstLiteralValue(t, n.X)
	case *Binary:
		if v, ok := tryLiteral(n.L); ok {
			return v
		}
		return findFirstLiteralValue(t, n.R)
	}
	t.Fatal("no literal found")
	return 0
}

func tryLiteral(e Expr) (float64, bool) {
	if l, ok := e.(*Literal); ok {
		return l.Value, true
	}
	return 0, false
}

// evalRationalizedLiteral walks a Rationalize'd tree looking for the
// Literal/Literal division pair substituted for the original literal, and
// evaluates it back to a float.
func evalRationalizedLiteral(t *testing.T, e Expr) float64 {
	t.Helper()
	switch n := e.(type) {
	case *Binary:
		if n.Op == OpDiv {
			if num, ok := tryLiteral(n.L); ok {
				if den, ok := tryLiteral(n.R); ok {
					return num / den
				}
			}
		}
		if v, ok := tryDivLiteral(n.L); ok {
			return v
		}
		return evalRationalizedLiteral(t, n.R)
	case *Unary:
		return evalRationalizedLiteral(t, n.X)
	case *Literal:
		return n.Value
	}
	t.Fatal("no rationalized literal found")
	return 0
}

func tryDivLiteral(e Expr) (float64, bool) {
	b, ok := e.(*Binary)
	if !ok || b.Op != OpDiv {
		return 0, false
	}
	num, ok1 := tryLiteral(b.L)
	den, ok2 := tryLiteral(b.R)
	if ok1 && ok2 {
		return num / den, true
	}
	return 0, false
}

func TestParseRejectsMalformedInput(t *testing.T) {
	_, err := ParseExpr("1 +")
	if err == nil {
		t.Fatal("expected parse error for trailing operator")
	}
}

func TestParseRelationalAndPrecedence(t *testing.T) {
	e := mustParse(t, "2 + 3*x <= 10")
	b, ok := e.(*Binary)
	if !ok || b.Op != OpLe {
		t.Fatalf("expected top-level <=, got %s", String(e))
	}
	lhs, ok := b.L.(*Binary)
	if !ok || lhs.Op != OpAdd {
		t.Fatalf("expected + under <=, got %s", String(b.L))
	}
}

func TestParsePowRightAssociative(t *testing.T) {
	e := mustParse(t, "2^3^2")
	s := String(e)
	b, ok := e.(*Binary)
	if !ok || b.Op != OpPow {
		t.Fatalf("expected top-level ^, got %s", s)
	}
	inner, ok := b.R.(*Binary)
	if !ok || inner.Op != OpPow {
		t.Fatalf("expected right-associative ^ nesting, got %s", s)
	}
}
