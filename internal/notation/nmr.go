package notation

import (
	"fmt"
	"sort"

	"fluxcore/internal/xerrors"
)

// NMR1HSpec is a parsed 1H-NMR specification:
// `pool "#" "P" int ("," "P"? int)*`. Positions are one-based proton
// positions, sorted ascending and unique.
type NMR1HSpec struct {
	Pool      string
	Positions []int
}

// Parse1HNMRSpec parses a 1H-NMR specification.
func (p *Parser) Parse1HNMRSpec(spec string) (*NMR1HSpec, error) {
	sc := newScanner(spec)
	pool := sc.ident()
	if pool == "" {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecNMR1H, "missing pool name")
	}
	if !sc.match('#') {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecNMR1H,
			fmt.Sprintf("expected '#' at offset %d", sc.pos()))
	}
	first := true
	var positions []int
	for {
		marker := sc.letters()
		if first && marker != "P" {
			return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecNMR1H, "expected position marker 'P'")
		}
		if !first && marker != "" && marker != "P" {
			return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecNMR1H,
				fmt.Sprintf("unexpected marker %q", marker))
		}
		first = false
		pos, ok := sc.integer()
		if !ok {
			return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecNMR1H,
				fmt.Sprintf("expected position at offset %d", sc.pos()))
		}
		if pos < 1 {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidRange, xerrors.SpecNMR1H,
				"positions are one-based and must be positive")
		}
		if pos > p.MaxAtoms {
			return nil, xerrors.AtomCeilingExceeded(xerrors.SpecNMR1H, pos, p.MaxAtoms)
		}
		positions = append(positions, pos)
		if !sc.match(',') {
			break
		}
	}
	if !sc.eof() {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecNMR1H,
			fmt.Sprintf("unexpected character %q at offset %d", sc.peek(), sc.pos()))
	}
	sort.Ints(positions)
	for i := 1; i < len(positions); i++ {
		if positions[i] == positions[i-1] {
			return nil, xerrors.NewSpecError(xerrors.CodeOverlappingRange, xerrors.SpecNMR1H,
				fmt.Sprintf("position %d named twice", positions[i]))
		}
	}
	return &NMR1HSpec{Pool: pool, Positions: positions}, nil
}

// Parse1HNMRSpec parses a 1H-NMR specification with the default ceiling.
func Parse1HNMRSpec(spec string) (*NMR1HSpec, error) {
	return NewParser().Parse1HNMRSpec(spec)
}

// CNMRType is the multiplet type of one 13C-NMR position.
type CNMRType int

const (
	// CNMRSinglet: no labeled carbon neighbor.
	CNMRSinglet CNMRType = iota
	// CNMRDoubletLeft: labeled neighbor at position-1.
	CNMRDoubletLeft
	// CNMRDoubletRight: labeled neighbor at position+1.
	CNMRDoubletRight
	// CNMRDoubletDoublet: labeled neighbors on both sides.
	CNMRDoubletDoublet
	// CNMRTriplet: equivalent couplings on both sides.
	CNMRTriplet
)

var cnmrNames = [...]string{"S", "DL", "DR", "DD", "T"}

func (t CNMRType) String() string { return cnmrNames[t] }

var cnmrByName = map[string]CNMRType{
	"S":  CNMRSinglet,
	"DL": CNMRDoubletLeft,
	"DR": CNMRDoubletRight,
	"DD": CNMRDoubletDoublet,
	"T":  CNMRTriplet,
}

// NMR13CSpec is a parsed 13C-NMR specification:
// `pool "#" type int ("," type? int)*` with type ∈ {S, DL, DR, DD, T}.
// Positions and Types are parallel slices sorted by position.
type NMR13CSpec struct {
	Pool      string
	Positions []int
	Types     []CNMRType
}

// Parse13CNMRSpec parses a 13C-NMR specification. A missing type on a
// later entry re-uses the previous entry's type. DL and T positions must
// be > 1 (both couple to a carbon on the left).
func (p *Parser) Parse13CNMRSpec(spec string) (*NMR13CSpec, error) {
	sc := newScanner(spec)
	pool := sc.ident()
	if pool == "" {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecNMR13C, "missing pool name")
	}
	if !sc.match('#') {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecNMR13C,
			fmt.Sprintf("expected '#' at offset %d", sc.pos()))
	}

	type entry struct {
		pos int
		typ CNMRType
	}
	var entries []entry
	var current CNMRType
	first := true
	for {
		marker := sc.letters()
		if marker != "" {
			typ, ok := cnmrByName[marker]
			if !ok {
				return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecNMR13C,
					fmt.Sprintf("unknown multiplet type %q", marker))
			}
			current = typ
		} else if first {
			return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecNMR13C,
				"expected multiplet type on first entry")
		}
		first = false
		pos, ok := sc.integer()
		if !ok {
			return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecNMR13C,
				fmt.Sprintf("expected position at offset %d", sc.pos()))
		}
		if pos < 1 {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidRange, xerrors.SpecNMR13C,
				"positions are one-based and must be positive")
		}
		if pos > p.MaxAtoms {
			return nil, xerrors.AtomCeilingExceeded(xerrors.SpecNMR13C, pos, p.MaxAtoms)
		}
		if (current == CNMRDoubletLeft || current == CNMRTriplet) && pos <= 1 {
			return nil, xerrors.NewSpecError(xerrors.CodeInvalidRange, xerrors.SpecNMR13C,
				fmt.Sprintf("type %s requires a position greater than 1", current))
		}
		entries = append(entries, entry{pos: pos, typ: current})
		if !sc.match(',') {
			break
		}
	}
	if !sc.eof() {
		return nil, xerrors.NewSpecError(xerrors.CodeParseError, xerrors.SpecNMR13C,
			fmt.Sprintf("unexpected character %q at offset %d", sc.peek(), sc.pos()))
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].pos < entries[j].pos })
	for i := 1; i < len(entries); i++ {
		if entries[i].pos == entries[i-1].pos && entries[i].typ == entries[i-1].typ {
			return nil, xerrors.NewSpecError(xerrors.CodeOverlappingRange, xerrors.SpecNMR13C,
				fmt.Sprintf("position %d named twice for type %s", entries[i].pos, entries[i].typ))
		}
	}
	out := &NMR13CSpec{Pool: pool}
	for _, e := range entries {
		out.Positions = append(out.Positions, e.pos)
		out.Types = append(out.Types, e.typ)
	}
	return out, nil
}

// Parse13CNMRSpec parses a 13C-NMR specification with the default ceiling.
func Parse13CNMRSpec(spec string) (*NMR13CSpec, error) {
	return NewParser().Parse13CNMRSpec(spec)
}
