// Package mgroup models measurement groups: named collections of
// measurement entries sharing a pool and a short-notation specification,
// parameterized by a time axis. The legacy per-kind class hierarchy is
// collapsed into one sum type carrying per-variant payloads produced
// directly by the notation parsers.
package mgroup

import (
	"math"

	"github.com/google/uuid"

	"fluxcore/internal/expr"
	"fluxcore/internal/linear"
	"fluxcore/internal/notation"
	"fluxcore/internal/xerrors"
)

// Kind enumerates the measurement group variants.
type Kind int

const (
	KindMS Kind = iota
	KindMSMS
	KindMIMS
	KindNMR1H
	KindNMR13C
	KindGeneric
	KindCumomer
	KindFlux
	KindPool
)

var kindNames = [...]string{"MS", "MS-MS", "MIMS", "1H-NMR", "13C-NMR", "generic", "cumomer", "flux", "pool"}

func (k Kind) String() string { return kindNames[k] }

// ErrorModelKind selects how a measurement's standard deviation scales
// with its value.
type ErrorModelKind int

const (
	ErrorAbsolute ErrorModelKind = iota
	ErrorRelative
	ErrorMixed
)

// ErrorModel is the per-group measurement error policy: an absolute
// floor, a relative part, or both.
type ErrorModel struct {
	Kind ErrorModelKind
	Abs  float64
	Rel  float64
}

// Sigma returns the standard deviation assigned to a measured value.
func (m ErrorModel) Sigma(value float64) float64 {
	switch m.Kind {
	case ErrorAbsolute:
		return m.Abs
	case ErrorRelative:
		return m.Rel * math.Abs(value)
	default:
		return m.Abs + m.Rel*math.Abs(value)
	}
}

// MGroupCommon is the data shared by every measurement group variant.
type MGroupCommon struct {
	ID          uuid.UUID
	Pool        string
	Times       []float64
	ScalingAuto bool
	ErrorModel  ErrorModel
	Dimension   int
	SpecStrings []string
}

// MGroup is the measurement group sum type: Kind selects which of the
// per-variant payload fields is populated.
type MGroup struct {
	Kind   Kind
	Common MGroupCommon

	MS      *notation.MSSpec
	MSMS    *notation.MSMSSpec
	MIMS    *notation.MIMSSpec
	NMR1H   *notation.NMR1HSpec
	NMR13C  *notation.NMR13CSpec
	Cumomer *notation.CumomerSpec

	// Generic groups measure an arbitrary arithmetic formula over other
	// measurement values.
	Generic expr.Expr

	// Flux and Pool groups measure a linear combination of net fluxes or
	// pool sizes.
	Linear *linear.Linear
}

func newCommon(pool string, dimension int, specs ...string) MGroupCommon {
	return MGroupCommon{
		ID:          uuid.New(),
		Pool:        pool,
		Dimension:   dimension,
		SpecStrings: specs,
	}
}

// WithTimes sets the group's time axis and returns the group.
func (g *MGroup) WithTimes(times []float64) *MGroup {
	g.Common.Times = times
	return g
}

// WithErrorModel sets the group's error policy and returns the group.
func (g *MGroup) WithErrorModel(m ErrorModel) *MGroup {
	g.Common.ErrorModel = m
	return g
}

// WithAutoScaling marks the group's measurements as auto-scaled against
// the simulated values and returns the group.
func (g *MGroup) WithAutoScaling() *MGroup {
	g.Common.ScalingAuto = true
	return g
}

// NewMS builds an MS measurement group from its short notation.
func NewMS(spec string) (*MGroup, error) {
	s, err := notation.ParseMSSpec(spec)
	if err != nil {
		return nil, err
	}
	return &MGroup{Kind: KindMS, Common: newCommon(s.Pool, len(s.Weights), spec), MS: s}, nil
}

// NewMSMS builds a tandem-MS measurement group from its short notation.
func NewMSMS(spec string) (*MGroup, error) {
	s, err := notation.ParseMSMSSpec(spec)
	if err != nil {
		return nil, err
	}
	return &MGroup{Kind: KindMSMS, Common: newCommon(s.Pool, len(s.WeightPairs), spec), MSMS: s}, nil
}

// NewMIMS builds a multi-isotope MS measurement group from its short
// notation.
func NewMIMS(spec string) (*MGroup, error) {
	s, err := notation.ParseMIMSSpec(spec)
	if err != nil {
		return nil, err
	}
	return &MGroup{Kind: KindMIMS, Common: newCommon(s.Pool, len(s.WeightTuples), spec), MIMS: s}, nil
}

// New1HNMR builds a 1H-NMR measurement group from its short notation.
func New1HNMR(spec string) (*MGroup, error) {
	s, err := notation.Parse1HNMRSpec(spec)
	if err != nil {
		return nil, err
	}
	return &MGroup{Kind: KindNMR1H, Common: newCommon(s.Pool, len(s.Positions), spec), NMR1H: s}, nil
}

// New13CNMR builds a 13C-NMR measurement group from its short notation.
func New13CNMR(spec string) (*MGroup, error) {
	s, err := notation.Parse13CNMRSpec(spec)
	if err != nil {
		return nil, err
	}
	return &MGroup{Kind: KindNMR13C, Common: newCommon(s.Pool, len(s.Positions), spec), NMR13C: s}, nil
}

// NewCumomer builds a cumomer measurement group from a 0/1/x pattern.
func NewCumomer(spec string) (*MGroup, error) {
	s, err := notation.ParseCumomerSpec(spec)
	if err != nil {
		return nil, err
	}
	return &MGroup{Kind: KindCumomer, Common: newCommon(s.Pool, 1, spec), Cumomer: s}, nil
}

// NewGeneric builds a generic measurement group from an arithmetic
// formula over other measurement values. Relational operators are not
// measurements and are rejected.
func NewGeneric(formula string) (*MGroup, error) {
	e, err := expr.ParseExpr(formula)
	if err != nil {
		return nil, err
	}
	if op, ok := findRelational(e); ok {
		return nil, xerrors.NewInvalidOperatorError(op.String())
	}
	return &MGroup{Kind: KindGeneric, Common: newCommon("", 1, formula), Generic: e}, nil
}

// NewFlux builds a flux measurement group: a linear combination of net
// flux names.
func NewFlux(formula string) (*MGroup, error) {
	return newLinearGroup(KindFlux, formula)
}

// NewPool builds a pool-size measurement group: a linear combination of
// pool size names.
func NewPool(formula string) (*MGroup, error) {
	return newLinearGroup(KindPool, formula)
}

func newLinearGroup(kind Kind, formula string) (*MGroup, error) {
	e, err := expr.ParseExpr(formula)
	if err != nil {
		return nil, err
	}
	lin, err := linear.FromExpr(e)
	if err != nil {
		return nil, err
	}
	return &MGroup{Kind: kind, Common: newCommon("", 1, formula), Linear: lin}, nil
}

// findRelational reports the first relational operator in e, if any.
func findRelational(e expr.Expr) (expr.BinaryOp, bool) {
	switch n := e.(type) {
	case *expr.Unary:
		return findRelational(n.X)
	case *expr.Binary:
		if n.Op.IsRelational() {
			return n.Op, true
		}
		if op, ok := findRelational(n.L); ok {
			return op, true
		}
		return findRelational(n.R)
	}
	return 0, false
}
