package notation

import (
	"strings"

	"fluxcore/internal/xerrors"
)

// Kind classifies a short-notation string by the parser that handles it.
type Kind int

const (
	KindUnknown Kind = iota
	KindMS
	KindMSMS
	KindMIMS
	KindNMR1H
	KindNMR13C
	KindGeneric
)

var kindNames = [...]string{"unknown", "MS", "MS-MS", "MIMS", "1H-NMR", "13C-NMR", "generic"}

func (k Kind) String() string { return kindNames[k] }

// IdentifyNotation classifies an input string by peeking at its
// characteristic substrings: a ':' inside the bracket part implies MS-MS;
// parentheses after the 'M' marker imply MIMS; a bare 'M' implies MS; 'P'
// implies 1H-NMR; the multiplet letters imply 13C-NMR; a pure 0/1/x tail
// is a generic cumomer pattern.
func IdentifyNotation(s string) Kind {
	hash := strings.IndexByte(s, '#')
	if hash < 0 || hash+1 >= len(s) {
		return KindUnknown
	}
	head, tail := s[:hash], s[hash+1:]

	if strings.IndexFunc(tail, func(r rune) bool {
		return r != '0' && r != '1' && r != 'x' && r != 'X'
	}) < 0 {
		return KindGeneric
	}

	switch tail[0] {
	case 'M':
		if open := strings.IndexByte(head, '['); open >= 0 {
			if strings.IndexByte(head[open:], ':') >= 0 {
				return KindMSMS
			}
		}
		if strings.IndexByte(tail, '(') >= 0 {
			return KindMIMS
		}
		return KindMS
	case 'P':
		return KindNMR1H
	case 'S', 'D', 'T':
		return KindNMR13C
	}
	return KindUnknown
}

// CheckSpec classifies s, invokes the matching parser, and reports the
// measurement dimension: the number of mass increments (MS), mass pairs
// (MS-MS), weight tuples (MIMS), or positions (NMR); generic cumomer
// patterns are one-dimensional.
func (p *Parser) CheckSpec(s string) (Kind, int, error) {
	kind := IdentifyNotation(s)
	switch kind {
	case KindMS:
		spec, err := p.ParseMSSpec(s)
		if err != nil {
			return kind, 0, err
		}
		return kind, len(spec.Weights), nil
	case KindMSMS:
		spec, err := p.ParseMSMSSpec(s)
		if err != nil {
			return kind, 0, err
		}
		return kind, len(spec.WeightPairs), nil
	case KindMIMS:
		spec, err := p.ParseMIMSSpec(s)
		if err != nil {
			return kind, 0, err
		}
		return kind, len(spec.WeightTuples), nil
	case KindNMR1H:
		spec, err := p.Parse1HNMRSpec(s)
		if err != nil {
			return kind, 0, err
		}
		return kind, len(spec.Positions), nil
	case KindNMR13C:
		spec, err := p.Parse13CNMRSpec(s)
		if err != nil {
			return kind, 0, err
		}
		return kind, len(spec.Positions), nil
	case KindGeneric:
		if _, err := p.ParseCumomerSpec(s); err != nil {
			return kind, 0, err
		}
		return kind, 1, nil
	}
	return KindUnknown, 0, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecGeneric,
		"unrecognized measurement notation")
}

// CheckSpec classifies and parses s with the default ceiling.
func CheckSpec(s string) (Kind, int, error) {
	return NewParser().CheckSpec(s)
}
