package expr

import "sort"

// CompressMulDiv treats a subtree rooted at * or / as one numerator list
// and one denominator list, gathered by BFS: left children inherit the
// parent's side; right children of * inherit, right children of / flip.
// Integer literals are combined, structurally-equal factors are cancelled
// across numerator/denominator, and the result is rebuilt as a left-deep
// multiplication chain (or a division of two such chains) with operands
// sorted by the total order.
func CompressMulDiv(e Expr) Expr {
	b, ok := e.(*Binary)
	if !ok || (b.Op != OpMul && b.Op != OpDiv) {
		return e
	}
	var num, den []Expr
	gatherMulDiv(e, true, &num, &den)

	num, litN := combineIntLiterals(num)
	den, litD := combineIntLiterals(den)
	if litN != 1 {
		num = append(num, NewLiteral(float64(litN)))
	}
	if litD != 1 {
		den = append(den, NewLiteral(float64(litD)))
	}

	num, den = cancelCommon(num, den)

	for _, f := range num {
		if lv, ok := asLiteral(f); ok && lv == 0 {
			return NewLiteral(0)
		}
	}
	denIsZero := false
	for _, f := range den {
		if lv, ok := asLiteral(f); ok && lv == 0 {
			denIsZero = true
		}
	}

	sortExprs(num)
	sortExprs(den)

	numExpr := rebuildChain(num, OpMul, NewLiteral(1))
	if len(den) == 0 && !denIsZero {
		return numExpr
	}
	denExpr := rebuildChain(den, OpMul, NewLiteral(1))
	if denIsZero {
		denExpr = NewLiteral(0)
	}
	return NewBinary(OpDiv, numExpr, denExpr)
}

func gatherMulDiv(e Expr, numeratorSide bool, num, den *[]Expr) {
	b, ok := e.(*Binary)
	if !ok || (b.Op != OpMul && b.Op != OpDiv) {
		if numeratorSide {
			*num = append(*num, e)
		} else {
			*den = append(*den, e)
		}
		return
	}
	gatherMulDiv(b.L, numeratorSide, num, den)
	if b.Op == OpMul {
		gatherMulDiv(b.R, numeratorSide, num, den)
	} else {
		gatherMulDiv(b.R, !numeratorSide, num, den)
	}
}

func combineIntLiterals(factors []Expr) ([]Expr, int64) {
	acc := int64(1)
	var rest []Expr
	for _, f := range factors {
		if v, ok := asLiteral(f); ok {
			if iv, ok := asExactInt64(v); ok {
				acc *= iv
				continue
			}
		}
		rest = append(rest, f)
	}
	return rest, acc
}

func cancelCommon(num, den []Expr) ([]Expr, []Expr) {
	usedDen := make([]bool, len(den))
	var outNum []Expr
	for _, n := range num {
		cancelled := false
		for i, d := range den {
			if !usedDen[i] && Equal(n, d) {
				usedDen[i] = true
				cancelled = true
				break
			}
		}
		if !cancelled {
			outNum = append(outNum, n)
		}
	}
	var outDen []Expr
	for i, d := range den {
		if !usedDen[i] {
			outDen = append(outDen, d)
		}
	}
	return outNum, outDen
}

func sortExprs(xs []Expr) {
	sort.SliceStable(xs, func(i, j int) bool { return Less(xs[i], xs[j]) })
}

func rebuildChain(xs []Expr, op BinaryOp, identity Expr) Expr {
	if len(xs) == 0 {
		return identity
	}
	out := xs[0]
	for _, x := range xs[1:] {
		out = NewBinary(op, out, x)
	}
	return out
}

// CompressAddSub is the additive analogue of CompressMulDiv: BFS across
// +, -, and unary minus tracking sign, combining integer literals,
// cancelling structurally-equal (term, sign) pairs against their
// negation, and rebuilding a sorted left-deep sum.
func CompressAddSub(e Expr) Expr {
	b, isBinary := e.(*Binary)
	u, isUnary := e.(*Unary)
	if !(isBinary && (b.Op == OpAdd || b.Op == OpSub)) && !(isUnary && u.Op == OpNeg) {
		return e
	}
	type term struct {
		x   Expr
		neg bool
	}
	var terms []term
	var gather func(e Expr, neg bool)
	gather = func(e Expr, neg bool) {
		switch n := e.(type) {
		case *Binary:
			if n.Op == OpAdd {
				gather(n.L, neg)
				gather(n.R, neg)
				return
			}
			if n.Op == OpSub {
				gather(n.L, neg)
				gather(n.R, !neg)
				return
			}
		case *Unary:
			if n.Op == OpNeg {
				gather(n.X, !neg)
				return
			}
		}
		terms = append(terms, term{x: e, neg: neg})
	}
	gather(e, false)

	var constant float64
	var rest []term
	for _, t := range terms {
		if v, ok := asLiteral(t.x); ok {
			if t.neg {
				constant -= v
			} else {
				constant += v
			}
			continue
		}
		rest = append(rest, t)
	}

	// cancel structurally-equal opposite-sign pairs
	used := make([]bool, len(rest))
	var kept []term
	for i, t := range rest {
		if used[i] {
			continue
		}
		cancelled := false
		for j := i + 1; j < len(rest); j++ {
			if used[j] {
				continue
			}
			if rest[j].neg != t.neg && Equal(rest[j].x, t.x) {
				used[i], used[j] = true, true
				cancelled = true
				break
			}
		}
		if !cancelled {
			kept = append(kept, t)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool { return Less(kept[i].x, kept[j].x) })

	if constant != 0 {
		kept = append([]term{{x: NewLiteral(absFloat(constant)), neg: constant < 0}}, kept...)
	}
	if len(kept) == 0 {
		return NewLiteral(0)
	}

	signed := func(t term) Expr {
		if t.neg {
			return NewUnary(OpNeg, t.x)
		}
		return t.x
	}
	out := signed(kept[0])
	for _, t := range kept[1:] {
		if t.neg {
			out = NewBinary(OpSub, out, t.x)
		} else {
			out = NewBinary(OpAdd, out, t.x)
		}
	}
	return out
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
