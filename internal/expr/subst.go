package expr

// Subst replaces every leaf Symbol(name) with a deep clone of replacement.
// Since every node in this package is effectively immutable once built,
// "cache invalidation along the replacement path" falls out naturally:
// the returned tree is new from the substitution point up to the root.
func Subst(e Expr, name string, replacement Expr) Expr {
	switch n := e.(type) {
	case *Literal:
		return &Literal{Value: n.Value}
	case *Symbol:
		if n.Name == name {
			return Clone(replacement)
		}
		return &Symbol{Name: n.Name}
	case *Unary:
		return &Unary{Op: n.Op, X: Subst(n.X, name, replacement)}
	case *Binary:
		return &Binary{Op: n.Op, L: Subst(n.L, name, replacement), R: Subst(n.R, name, replacement)}
	default:
		return e
	}
}
