package notation

import (
	"fmt"
	"sort"

	"fluxcore/internal/bitarray"
	"fluxcore/internal/xerrors"
)

// MIMSSpec is a parsed multi-isotope MS specification:
// `pool ("[" range "]")? "#" "M" "(" int ("," int)* ")" ("," "(" ... ")")*`.
// Each weight tuple carries one mass increment per tracked isotope; the
// isotope count is fixed by the first tuple.
type MIMSSpec struct {
	Pool         string
	Mask         *bitarray.BitArray // nil when no atom range was given
	IsotopeCount int
	WeightTuples [][]int
}

// ParseMIMSSpec parses a multi-isotope MS specification.
func (p *Parser) ParseMIMSSpec(spec string) (*MIMSSpec, error) {
	sc := newScanner(spec)
	pool := sc.ident()
	if pool == "" {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMIMS, "missing pool name")
	}
	var mask *bitarray.BitArray
	if sc.match('[') {
		m, err := p.parseRange(sc, xerrors.SpecMIMS)
		if err != nil {
			return nil, err
		}
		if !sc.match(']') {
			return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMIMS,
				fmt.Sprintf("expected ']' at offset %d", sc.pos()))
		}
		mask = m
	}
	if !sc.match('#') {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMIMS,
			fmt.Sprintf("expected '#' at offset %d", sc.pos()))
	}
	if sc.letters() != "M" {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMIMS, "expected mass marker 'M'")
	}

	var tuples [][]int
	for {
		if !sc.match('(') {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidWeightSpec, xerrors.SpecMIMS,
				fmt.Sprintf("expected '(' at offset %d", sc.pos()))
		}
		var tuple []int
		for {
			w, ok := sc.integer()
			if !ok {
				return nil, xerrors.NewSpecError(xerrors.CodeInvalidWeightSpec, xerrors.SpecMIMS,
					fmt.Sprintf("expected mass increment at offset %d", sc.pos()))
			}
			tuple = append(tuple, w)
			if !sc.match(',') {
				break
			}
		}
		if !sc.match(')') {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidWeightSpec, xerrors.SpecMIMS,
				fmt.Sprintf("expected ')' at offset %d", sc.pos()))
		}
		if len(tuples) > 0 && len(tuple) != len(tuples[0]) {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidWeightSpec, xerrors.SpecMIMS,
				fmt.Sprintf("weight tuple has %d entries, expected %d", len(tuple), len(tuples[0])))
		}
		tuples = append(tuples, tuple)
		if !sc.match(',') {
			break
		}
	}
	if !sc.eof() {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMIMS,
			fmt.Sprintf("unexpected character %q at offset %d", sc.peek(), sc.pos()))
	}

	sort.Slice(tuples, func(i, j int) bool { return tupleLess(tuples[i], tuples[j]) })
	for i := 1; i < len(tuples); i++ {
		if tupleEqual(tuples[i], tuples[i-1]) {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidWeightSpec, xerrors.SpecMIMS,
				fmt.Sprintf("duplicate weight tuple %v", tuples[i]))
		}
	}
	if mask != nil {
		available := mask.CountOnes()
		for _, tuple := range tuples {
			for _, w := range tuple {
				if w > available {
					return nil, xerrors.NotEnoughPositions(xerrors.SpecMIMS, w, available)
				}
			}
		}
	}
	return &MIMSSpec{Pool: pool, Mask: mask, IsotopeCount: len(tuples[0]), WeightTuples: tuples}, nil
}

// ParseMIMSSpec parses a MIMS specification with the default ceiling.
func ParseMIMSSpec(spec string) (*MIMSSpec, error) {
	return NewParser().ParseMIMSSpec(spec)
}

func tupleLess(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func tupleEqual(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
