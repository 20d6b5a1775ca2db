package notation

import (
	"fmt"
	"sort"

	"fluxcore/internal/bitarray"
	"fluxcore/internal/xerrors"
)

// MSSpec is a parsed mass-spectrometry fragment specification:
// `pool ("[" range "]")? "#" "M" int ("," int)*`.
type MSSpec struct {
	Pool string
	// Mask is the atom selection; nil when no bracketed range was given
	// (the fragment then covers the whole pool).
	Mask *bitarray.BitArray
	// Weights are the mass increments, sorted ascending and unique.
	Weights []int
}

// ParseMSSpec parses an MS fragment specification.
func (p *Parser) ParseMSSpec(spec string) (*MSSpec, error) {
	sc := newScanner(spec)
	pool := sc.ident()
	if pool == "" {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMS, "missing pool name")
	}
	var mask *bitarray.BitArray
	if sc.match('[') {
		m, err := p.parseRange(sc, xerrors.SpecMS)
		if err != nil {
			return nil, err
		}
		if !sc.match(']') {
			return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMS,
				fmt.Sprintf("expected ']' at offset %d", sc.pos()))
		}
		mask = m
	}
	if !sc.match('#') {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMS,
			fmt.Sprintf("expected '#' at offset %d", sc.pos()))
	}
	if sc.letters() != "M" {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMS, "expected mass marker 'M'")
	}
	var weights []int
	for {
		w, ok := sc.integer()
		if !ok {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidWeightSpec, xerrors.SpecMS,
				fmt.Sprintf("expected mass increment at offset %d", sc.pos()))
		}
		weights = append(weights, w)
		if !sc.match(',') {
			break
		}
	}
	if !sc.eof() {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMS,
			fmt.Sprintf("unexpected character %q at offset %d", sc.peek(), sc.pos()))
	}
	sort.Ints(weights)
	for i := 1; i < len(weights); i++ {
		if weights[i] == weights[i-1] {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidWeightSpec, xerrors.SpecMS,
				fmt.Sprintf("duplicate mass increment %d", weights[i]))
		}
	}
	if mask != nil {
		available := mask.CountOnes()
		for _, w := range weights {
			if w > available {
				return nil, xerrors.NotEnoughPositions(xerrors.SpecMS, w, available)
			}
		}
	}
	return &MSSpec{Pool: pool, Mask: mask, Weights: weights}, nil
}

// ParseMSSpec parses an MS specification with the default ceiling.
func ParseMSSpec(spec string) (*MSSpec, error) {
	return NewParser().ParseMSSpec(spec)
}

// ValidateAtomCount checks the specification against the pool's declared
// atom count: a bracketed mask must fit within n atoms, and without a
// mask every mass increment must be realizable with n label positions.
func (m *MSSpec) ValidateAtomCount(n int) error {
	if m.Mask != nil {
		if hi := m.Mask.HighestBit(); hi >= n {
			return xerrors.NewSpecError(xerrors.CodeInvalidRange, xerrors.SpecMS,
				fmt.Sprintf("atom position %d exceeds pool's %d atoms", hi+1, n))
		}
		return nil
	}
	for _, w := range m.Weights {
		if w > n {
			return xerrors.NotEnoughPositions(xerrors.SpecMS, w, n)
		}
	}
	return nil
}
