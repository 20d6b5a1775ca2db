package notation

import (
	"fmt"
	"sort"

	"fluxcore/internal/bitarray"
	"fluxcore/internal/xerrors"
)

// MSMSSpec is a parsed tandem-MS specification:
// `pool "[" range ":" range "]" "#" "M" "(" int "," int ")" ("," "(" int "," int ")")*`.
// Mask2 selects the daughter fragment and must be a subset of Mask1.
type MSMSSpec struct {
	Pool        string
	Mask1       *bitarray.BitArray
	Mask2       *bitarray.BitArray
	WeightPairs [][2]int
}

// ParseMSMSSpec parses a tandem-MS specification.
func (p *Parser) ParseMSMSSpec(spec string) (*MSMSSpec, error) {
	sc := newScanner(spec)
	pool := sc.ident()
	if pool == "" {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMSMS, "missing pool name")
	}
	if !sc.match('[') {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMSMS,
			fmt.Sprintf("expected '[' at offset %d", sc.pos()))
	}
	mask1, err := p.parseRange(sc, xerrors.SpecMSMS)
	if err != nil {
		return nil, err
	}
	if !sc.match(':') {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMSMS,
			fmt.Sprintf("expected ':' at offset %d", sc.pos()))
	}
	mask2, err := p.parseRange(sc, xerrors.SpecMSMS)
	if err != nil {
		return nil, err
	}
	if !sc.match(']') {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMSMS,
			fmt.Sprintf("expected ']' at offset %d", sc.pos()))
	}
	if !mask2.And(mask1).Equal(mask2) {
		return nil, xerrors.NewSpecError(xerrors.CodeOverlappingRange, xerrors.SpecMSMS,
			"daughter range is not a subset of the parent range")
	}
	if !sc.match('#') {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMSMS,
			fmt.Sprintf("expected '#' at offset %d", sc.pos()))
	}
	if sc.letters() != "M" {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMSMS, "expected mass marker 'M'")
	}

	var pairs [][2]int
	for {
		if !sc.match('(') {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidWeightSpec, xerrors.SpecMSMS,
				fmt.Sprintf("expected '(' at offset %d", sc.pos()))
		}
		w1, ok := sc.integer()
		if !ok {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidWeightSpec, xerrors.SpecMSMS,
				fmt.Sprintf("expected parent mass at offset %d", sc.pos()))
		}
		if !sc.match(',') {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidWeightSpec, xerrors.SpecMSMS,
				fmt.Sprintf("expected ',' in mass pair at offset %d", sc.pos()))
		}
		w2, ok := sc.integer()
		if !ok {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidWeightSpec, xerrors.SpecMSMS,
				fmt.Sprintf("expected daughter mass at offset %d", sc.pos()))
		}
		if !sc.match(')') {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidWeightSpec, xerrors.SpecMSMS,
				fmt.Sprintf("expected ')' at offset %d", sc.pos()))
		}
		pairs = append(pairs, [2]int{w1, w2})
		if !sc.match(',') {
			break
		}
	}
	if !sc.eof() {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecMSMS,
			fmt.Sprintf("unexpected character %q at offset %d", sc.peek(), sc.pos()))
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	n1, n2 := mask1.CountOnes(), mask2.CountOnes()
	for i, pr := range pairs {
		if i > 0 && pr == pairs[i-1] {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidWeightSpec, xerrors.SpecMSMS,
				fmt.Sprintf("duplicate mass pair (%d,%d)", pr[0], pr[1]))
		}
		if pr[0] > n1 {
			return nil, xerrors.NotEnoughPositions(xerrors.SpecMSMS, pr[0], n1)
		}
		if pr[1] > n2 {
			return nil, xerrors.NotEnoughPositions(xerrors.SpecMSMS, pr[1], n2)
		}
		if pr[1] > pr[0] {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidWeightSpec, xerrors.SpecMSMS,
				fmt.Sprintf("daughter mass %d exceeds parent mass %d", pr[1], pr[0]))
		}
	}
	return &MSMSSpec{Pool: pool, Mask1: mask1, Mask2: mask2, WeightPairs: pairs}, nil
}

// ParseMSMSSpec parses a tandem-MS specification with the default ceiling.
func ParseMSMSSpec(spec string) (*MSMSSpec, error) {
	return NewParser().ParseMSMSSpec(spec)
}
