package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// precedence mirrors the parser's table (higher binds tighter).
func precOf(op BinaryOp) int {
	switch op {
	case OpEq, OpNeq, OpLe, OpLt, OpGe, OpGt:
		return 1
	case OpAdd, OpSub:
		return 2
	case OpMul, OpDiv:
		return 3
	case OpPow:
		return 4
	default: // min, max, diff render as function calls, precedence irrelevant
		return 5
	}
}

func isFuncStyle(op BinaryOp) bool {
	return op == OpMin || op == OpMax || op == OpDiff
}

// String renders e in infix form with the minimal parentheses required by
// operator precedence, right-associating only where pow requires it
// (a^b^c means a^(b^c)).
func String(e Expr) string {
	var sb strings.Builder
	writeInfix(&sb, e, 0)
	return sb.String()
}

func writeInfix(sb *strings.Builder, e Expr, parentPrec int) {
	switch n := e.(type) {
	case *Literal:
		sb.WriteString(formatFloat(n.Value))
	case *Symbol:
		sb.WriteString(n.Name)
	case *Unary:
		if n.Op == OpNeg {
			sb.WriteString("-")
			needParen := needsParenForUnaryMinus(n.X)
			if needParen {
				sb.WriteString("(")
			}
			writeInfix(sb, n.X, 100)
			if needParen {
				sb.WriteString(")")
			}
			return
		}
		sb.WriteString(n.Op.String())
		sb.WriteString("(")
		writeInfix(sb, n.X, 0)
		sb.WriteString(")")
	case *Binary:
		if isFuncStyle(n.Op) {
			sb.WriteString(n.Op.String())
			sb.WriteString("(")
			writeInfix(sb, n.L, 0)
			sb.WriteString(", ")
			writeInfix(sb, n.R, 0)
			sb.WriteString(")")
			return
		}
		prec := precOf(n.Op)
		needParen := prec < parentPrec
		if needParen {
			sb.WriteString("(")
		}
		leftPrec := prec
		rightPrec := prec + 1
		if n.Op == OpPow {
			// right-associative: a^(b^c), so only the right side needs
			// the tie-break bump removed.
			leftPrec = prec + 1
			rightPrec = prec
		}
		writeInfix(sb, n.L, leftPrec)
		sb.WriteString(" ")
		sb.WriteString(n.Op.String())
		sb.WriteString(" ")
		writeInfix(sb, n.R, rightPrec)
		if needParen {
			sb.WriteString(")")
		}
	}
}

func needsParenForUnaryMinus(e Expr) bool {
	switch n := e.(type) {
	case *Binary:
		return !isFuncStyle(n.Op)
	case *Unary:
		return n.Op == OpNeg
	default:
		return false
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ToPrefixString renders e in Lisp-style prefix form; when asSource is
// true it instead emits Go constructor-call source (expr.NewBinary(...),
// expr.NewLiteral(...), ...) that rebuilds the tree when compiled.
func ToPrefixString(e Expr, asSource bool) string {
	switch n := e.(type) {
	case *Literal:
		if asSource {
			return fmt.Sprintf("expr.NewLiteral(%s)", formatFloat(n.Value))
		}
		return formatFloat(n.Value)
	case *Symbol:
		if asSource {
			return fmt.Sprintf("expr.NewSymbol(%q)", n.Name)
		}
		return n.Name
	case *Unary:
		if asSource {
			return fmt.Sprintf("expr.NewUnary(expr.Op%s, %s)", titleCaseUnaryOp(n.Op), ToPrefixString(n.X, true))
		}
		return fmt.Sprintf("(%s %s)", n.Op.String(), ToPrefixString(n.X, false))
	case *Binary:
		if asSource {
			return fmt.Sprintf("expr.NewBinary(expr.Op%s, %s, %s)", titleCaseOp(n.Op), ToPrefixString(n.L, true), ToPrefixString(n.R, true))
		}
		return fmt.Sprintf("(%s %s %s)", n.Op.String(), ToPrefixString(n.L, false), ToPrefixString(n.R, false))
	default:
		return "?"
	}
}

var binaryOpIdent = [...]string{"Add", "Sub", "Mul", "Div", "Pow", "Min", "Max", "Diff", "Eq", "Neq", "Le", "Lt", "Ge", "Gt"}

func titleCaseOp(op BinaryOp) string {
	return binaryOpIdent[op]
}

var unaryOpIdent = [...]string{"Neg", "Abs", "Exp", "Sqrt", "Log", "Log2", "Log10", "Sqr", "Sin", "Cos"}

func titleCaseUnaryOp(op UnaryOp) string {
	return unaryOpIdent[op]
}
