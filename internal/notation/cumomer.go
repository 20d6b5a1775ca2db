package notation

import (
	"fmt"

	"fluxcore/internal/bitarray"
	"fluxcore/internal/xerrors"
)

// CumomerSpec is a parsed generic cumomer pattern: `pool "#" pattern`
// with one of '0', '1', 'x' per atom, read LSB-first (pattern character
// i describes atom i). OneMask holds the positions fixed to 1, XMask the
// free positions; everything else is fixed to 0.
type CumomerSpec struct {
	Pool    string
	XMask   *bitarray.BitArray
	OneMask *bitarray.BitArray
}

// ParseCumomerSpec parses a generic cumomer pattern specification.
func (p *Parser) ParseCumomerSpec(spec string) (*CumomerSpec, error) {
	sc := newScanner(spec)
	pool := sc.ident()
	if pool == "" {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecGeneric, "missing pool name")
	}
	if !sc.match('#') {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecGeneric,
			fmt.Sprintf("expected '#' at offset %d", sc.pos()))
	}
	pattern := sc.src[sc.pos():]
	if pattern == "" {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecGeneric, "empty cumomer pattern")
	}
	if len(pattern) > p.MaxAtoms {
		return nil, xerrors.AtomCeilingExceeded(xerrors.SpecGeneric, len(pattern), p.MaxAtoms)
	}
	xMask := bitarray.New(len(pattern))
	oneMask := bitarray.New(len(pattern))
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '0':
		case '1':
			oneMask.Set(i, true)
		case 'x', 'X':
			xMask.Set(i, true)
		default:
			return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecGeneric,
				fmt.Sprintf("invalid pattern character %q at atom %d", pattern[i], i+1))
		}
	}
	return &CumomerSpec{Pool: pool, XMask: xMask, OneMask: oneMask}, nil
}

// ParseCumomerSpec parses a cumomer pattern with the default ceiling.
func ParseCumomerSpec(spec string) (*CumomerSpec, error) {
	return NewParser().ParseCumomerSpec(spec)
}
