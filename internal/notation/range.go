package notation

import (
	"fmt"

	"fluxcore/internal/bitarray"
	"fluxcore/internal/xerrors"
)

// DefaultMaxAtoms bounds atom positions accepted by the parsers when no
// explicit ceiling is configured. Metabolites tracked by labeling
// experiments stay far below this.
const DefaultMaxAtoms = 64

// Parser holds the per-call configuration of the short-notation parsers.
// It replaces the file-scope parser state of older scanner generations:
// every Parse* method owns its own cursor and returns a fresh result.
type Parser struct {
	// MaxAtoms is the atom-count ceiling; positions above it are rejected
	// with an invalid-range error.
	MaxAtoms int
}

// NewParser returns a Parser with the default atom-count ceiling.
func NewParser() *Parser {
	return &Parser{MaxAtoms: DefaultMaxAtoms}
}

// ParseRangeSpec parses `range := int | int "-" int ("," range)*` into a
// bit-array mask with the named one-based inclusive ranges set. The
// returned mask has MaxAtoms bits.
func (p *Parser) ParseRangeSpec(spec string) (*bitarray.BitArray, error) {
	sc := newScanner(spec)
	mask, err := p.parseRange(sc, xerrors.SpecRange)
	if err != nil {
		return nil, err
	}
	if !sc.eof() {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecRange,
			fmt.Sprintf("unexpected character %q at offset %d", sc.peek(), sc.pos()))
	}
	return mask, nil
}

// ParseRangeSpec parses a range specification with the default ceiling.
func ParseRangeSpec(spec string) (*bitarray.BitArray, error) {
	return NewParser().ParseRangeSpec(spec)
}

// parseRange consumes a range production from sc, stopping at the first
// byte that cannot continue it (']' or ':' in the bracketed forms). kind
// tags the SpecError with the parser that invoked the sub-grammar.
func (p *Parser) parseRange(sc *scanner, kind xerrors.SpecKind) (*bitarray.BitArray, error) {
	mask := bitarray.New(p.MaxAtoms)
	for {
		lo, ok := sc.integer()
		if !ok {
			return nil, xerrors.NewSpecError(xerrors.CodeParseError, kind,
				fmt.Sprintf("expected atom position at offset %d", sc.pos()))
		}
		hi := lo
		if sc.match('-') {
			hi, ok = sc.integer()
			if !ok {
				return nil, xerrors.NewSpecError(xerrors.CodeParseError, kind,
					fmt.Sprintf("expected range end at offset %d", sc.pos()))
			}
		}
		if lo < 1 || hi < lo {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidRange, kind,
				fmt.Sprintf("empty or invalid range %d-%d", lo, hi))
		}
		if hi > p.MaxAtoms {
			return nil, xerrors.AtomCeilingExceeded(kind, hi, p.MaxAtoms)
		}
		for i := lo; i <= hi; i++ {
			if mask.Get(i - 1) {
				return nil, xerrors.NewSpecError(xerrors.CodeOverlappingRange, kind,
					fmt.Sprintf("atom position %d named twice", i))
			}
			mask.Set(i-1, true)
		}
		if !sc.match(',') {
			return mask, nil
		}
	}
}
