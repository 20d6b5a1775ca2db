// Package xerrors defines the typed error kinds shared by the expression,
// linear-decomposition, and short-notation parser packages: one struct
// per concern, carrying a SourceLocation where a source position is
// known.
package xerrors

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// SourceLocation pinpoints where a parse failure occurred.
type SourceLocation struct {
	Line   int
	Column int
}

// ExprKind distinguishes the ways building or manipulating an Expr can fail.
type ExprKind string

const (
	ExprParse             ExprKind = "Parse"
	ExprNonLinear         ExprKind = "NonLinear"
	ExprNonDifferentiable ExprKind = "NonDifferentiable"
	ExprInvalidOperator   ExprKind = "InvalidOperator"
)

// ExprError is returned by the expr and linear packages.
type ExprError struct {
	Kind     ExprKind
	Message  string
	Location SourceLocation
	Op       string
}

func (e *ExprError) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.Op != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Op)
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Location.Line > 0 {
		sb.WriteString(fmt.Sprintf(" at %d:%d", e.Location.Line, e.Location.Column))
	}
	return sb.String()
}

func NewParseError(message string, line, col int) *ExprError {
	return &ExprError{Kind: ExprParse, Message: message, Location: SourceLocation{Line: line, Column: col}}
}

func NewNonLinearError(message string) *ExprError {
	return &ExprError{Kind: ExprNonLinear, Message: message}
}

func NewNonDifferentiableError(op string) *ExprError {
	return &ExprError{Kind: ExprNonDifferentiable, Message: "derivative undefined without prior smoothing", Op: op}
}

func NewInvalidOperatorError(op string) *ExprError {
	return &ExprError{Kind: ExprInvalidOperator, Message: "operator not permitted in this context", Op: op}
}

// Wrap attaches additional context to err using pkg/errors, preserving the
// original error for errors.Cause / errors.As.
func Wrap(err error, context string) error {
	return errors.Wrap(err, context)
}

// SpecKind names which short-notation parser raised a SpecError.
type SpecKind string

const (
	SpecMS      SpecKind = "MS"
	SpecMSMS    SpecKind = "MSMS"
	SpecMIMS    SpecKind = "MIMS"
	SpecNMR1H   SpecKind = "NMR1H"
	SpecNMR13C  SpecKind = "NMR13C"
	SpecGeneric SpecKind = "Generic"
	SpecRange   SpecKind = "Range"
)

// SpecError is returned by internal/notation's parsers; Code is one of
// the Code* constants below (0 success through 5 invalid weight spec).
type SpecError struct {
	Code    int
	Kind    SpecKind
	Message string
}

const (
	CodeSuccess            = 0
	CodeParseError         = 1
	CodeInvalidRange       = 2
	CodeOverlappingRange   = 3
	CodeNotEnoughPositions = 4
	CodeInvalidWeightSpec  = 5
)

func (e *SpecError) Error() string {
	return fmt.Sprintf("%s spec error %d: %s", e.Kind, e.Code, e.Message)
}

func NewSpecError(code int, kind SpecKind, message string) *SpecError {
	return &SpecError{Code: code, Kind: kind, Message: message}
}

// NotEnoughPositions builds the "mass exceeds labeled positions"
// SpecError.
func NotEnoughPositions(kind SpecKind, mass, available int) *SpecError {
	return &SpecError{
		Code: CodeNotEnoughPositions,
		Kind: kind,
		Message: fmt.Sprintf(
			"mass %s exceeds pool's %s labeled position%s",
			humanize.Comma(int64(mass)), humanize.Comma(int64(available)), plural(available),
		),
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// AtomCeilingExceeded renders the atom-count-ceiling SpecError.
func AtomCeilingExceeded(kind SpecKind, n, ceiling int) *SpecError {
	return &SpecError{
		Code: CodeInvalidRange,
		Kind: kind,
		Message: fmt.Sprintf(
			"atom position %s exceeds configured ceiling of %s",
			humanize.Ordinal(n), humanize.Comma(int64(ceiling)),
		),
	}
}
