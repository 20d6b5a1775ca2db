// Package linear extracts coefficient maps from expr.Expr trees that are,
// or can be rewritten as, linear combinations of named variables, the way
// a constraint-builder would decompose a modeler's equation into a row
// of a design matrix.
package linear

import (
	"sort"

	"fluxcore/internal/expr"
	"fluxcore/internal/xerrors"
)

// ConstantKey is the stable map key under which the constant term is
// stored.
const ConstantKey = "1"

// Linear is the result of successfully decomposing an Expr into a linear
// combination: a Name -> coefficient map (always carrying ConstantKey),
// plus the canonical rebuilt Expr and, when the source was a relation,
// the comparator it was rewritten around.
type Linear struct {
	Rebuilt    expr.Expr
	Coeffs     map[string]float64
	IsRelation bool
	Comparator expr.BinaryOp
}

// FromExpr implements the five-step decomposition: rewrite relations as
// lhs-rhs cmp 0, simplify, walk accumulating signed coefficients, ensure
// the constant key is present, and normalize sign before rebuilding a
// canonical form. Any shape outside the supported multiplicative/additive
// patterns raises an *xerrors.ExprError with Kind NonLinear.
func FromExpr(e expr.Expr) (*Linear, error) {
	isRelation := false
	comparator := expr.OpEq
	body := e

	if b, ok := e.(*expr.Binary); ok && b.Op.IsRelational() {
		isRelation = true
		comparator = b.Op
		body = expr.NewBinary(expr.OpSub, b.L, b.R)
	}

	body = expr.Simplify(body)

	coeffs := map[string]float64{}
	if err := walk(body, 1, coeffs); err != nil {
		return nil, err
	}
	if _, ok := coeffs[ConstantKey]; !ok {
		coeffs[ConstantKey] = 0
	}

	negCount, posCount := 0, 0
	for name, v := range coeffs {
		if name == ConstantKey {
			continue
		}
		switch {
		case v < 0:
			negCount++
		case v > 0:
			posCount++
		}
	}
	if negCount > posCount {
		for name := range coeffs {
			coeffs[name] = -coeffs[name]
		}
		if isRelation {
			comparator = comparator.Flip()
		}
	}

	rebuilt := rebuild(coeffs, isRelation, comparator)

	return &Linear{
		Rebuilt:    rebuilt,
		Coeffs:     coeffs,
		IsRelation: isRelation,
		Comparator: comparator,
	}, nil
}

func walk(e expr.Expr, sign float64, coeffs map[string]float64) error {
	switch n := e.(type) {
	case *expr.Literal:
		coeffs[ConstantKey] += sign * n.Value
		return nil
	case *expr.Symbol:
		coeffs[n.Name] += sign
		return nil
	case *expr.Unary:
		if n.Op == expr.OpNeg {
			return walk(n.X, -sign, coeffs)
		}
		return xerrors.NewNonLinearError("unary operator " + n.Op.String() + " is not linear")
	case *expr.Binary:
		return walkBinary(n, sign, coeffs)
	default:
		return xerrors.NewNonLinearError("unrecognized expression node")
	}
}

func walkBinary(n *expr.Binary, sign float64, coeffs map[string]float64) error {
	switch n.Op {
	case expr.OpAdd:
		if err := walk(n.L, sign, coeffs); err != nil {
			return err
		}
		return walk(n.R, sign, coeffs)
	case expr.OpSub:
		if err := walk(n.L, sign, coeffs); err != nil {
			return err
		}
		return walk(n.R, -sign, coeffs)
	case expr.OpMul:
		return walkMul(n.L, n.R, sign, coeffs)
	case expr.OpDiv:
		return walkDiv(n.L, n.R, sign, coeffs)
	default:
		return xerrors.NewNonLinearError("operator " + n.Op.String() + " is not linear")
	}
}

func walkMul(l, r expr.Expr, sign float64, coeffs map[string]float64) error {
	if name, varSign, ok := asVar(l); ok {
		if lit, ok := asLit(r); ok {
			coeffs[name] += sign * varSign * lit
			return nil
		}
	}
	if name, varSign, ok := asVar(r); ok {
		if lit, ok := asLit(l); ok {
			coeffs[name] += sign * varSign * lit
			return nil
		}
	}
	if lv, ok := asLit(l); ok {
		if rv, ok := asLit(r); ok {
			coeffs[ConstantKey] += sign * lv * rv
			return nil
		}
	}
	return xerrors.NewNonLinearError("multiplication must be variable * literal or literal * variable")
}

func walkDiv(l, r expr.Expr, sign float64, coeffs map[string]float64) error {
	// variable / literal is a linear term with coefficient 1/literal.
	if name, varSign, ok := asVar(l); ok {
		if lit, ok := asLit(r); ok {
			if lit == 0 {
				return xerrors.NewNonLinearError("division by zero literal")
			}
			coeffs[name] += sign * varSign / lit
			return nil
		}
	}
	// literal / literal folds to a constant.
	if lv, ok := asLit(l); ok {
		if rv, ok := asLit(r); ok {
			if rv == 0 {
				return xerrors.NewNonLinearError("division by zero literal")
			}
			coeffs[ConstantKey] += sign * lv / rv
			return nil
		}
	}
	// literal / variable (c/x) is not a linear term in x: its derivative
	// depends on x, so it cannot contribute a constant coefficient.
	if _, _, ok := asVar(r); ok {
		return xerrors.NewNonLinearError("literal divided by variable is not linear")
	}
	return xerrors.NewNonLinearError("division must be variable / literal")
}

// asVar recognizes a bare Symbol or a Symbol directly under unary minus,
// returning the variable name and the sign contributed by that minus.
func asVar(e expr.Expr) (string, float64, bool) {
	switch n := e.(type) {
	case *expr.Symbol:
		return n.Name, 1, true
	case *expr.Unary:
		if n.Op == expr.OpNeg {
			if s, ok := n.X.(*expr.Symbol); ok {
				return s.Name, -1, true
			}
		}
	}
	return "", 0, false
}

// asLit recognizes a bare Literal or a Literal directly under unary
// minus, returning the signed numeric value.
func asLit(e expr.Expr) (float64, bool) {
	switch n := e.(type) {
	case *expr.Literal:
		return n.Value, true
	case *expr.Unary:
		if n.Op == expr.OpNeg {
			if l, ok := n.X.(*expr.Literal); ok {
				return -l.Value, true
			}
		}
	}
	return 0, false
}

func rebuild(coeffs map[string]float64, isRelation bool, comparator expr.BinaryOp) expr.Expr {
	names := make([]string, 0, len(coeffs))
	for name := range coeffs {
		if name != ConstantKey {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var sum expr.Expr
	for _, name := range names {
		c := coeffs[name]
		if c == 0 {
			continue
		}
		term := termFor(c, name)
		if sum == nil {
			sum = term
		} else {
			sum = expr.NewBinary(expr.OpAdd, sum, term)
		}
	}
	if sum == nil {
		sum = expr.NewLiteral(0)
	}

	constant := coeffs[ConstantKey]
	if isRelation {
		return expr.NewBinary(comparator, sum, expr.NewLiteral(-constant))
	}
	return expr.NewBinary(expr.OpAdd, sum, expr.NewLiteral(constant))
}

func termFor(c float64, name string) expr.Expr {
	sym := expr.NewSymbol(name)
	switch c {
	case 1:
		return sym
	case -1:
		return expr.NewUnary(expr.OpNeg, sym)
	default:
		return expr.NewBinary(expr.OpMul, expr.NewLiteral(c), sym)
	}
}
