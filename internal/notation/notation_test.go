package notation

import (
	"testing"

	"github.com/kr/pretty"

	"fluxcore/internal/xerrors"
)

func specCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return xerrors.CodeSuccess
	}
	se, ok := err.(*xerrors.SpecError)
	if !ok {
		t.Fatalf("expected *xerrors.SpecError, got %T: %v", err, err)
	}
	return se.Code
}

func TestParseRangeSpec(t *testing.T) {
	mask, err := ParseRangeSpec("1-3,5,7-9")
	if err != nil {
		t.Fatalf("ParseRangeSpec: %v", err)
	}
	if mask.Len() < 9 {
		t.Fatalf("mask length %d, want >= 9", mask.Len())
	}
	want := map[int]bool{0: true, 1: true, 2: true, 4: true, 6: true, 7: true, 8: true}
	for i := 0; i < mask.Len(); i++ {
		if mask.Get(i) != want[i] {
			t.Errorf("bit %d = %v, want %v", i, mask.Get(i), want[i])
		}
	}
}

func TestParseRangeSpecErrors(t *testing.T) {
	tests := []struct {
		spec string
		code int
	}{
		{"", xerrors.CodeParseError},
		{"1-", xerrors.CodeParseError},
		{"a-3", xerrors.CodeParseError},
		{"3-1", xerrors.CodeInvalidRange},
		{"0-2", xerrors.CodeInvalidRange},
		{"1-3,2", xerrors.CodeOverlappingRange},
		{"1-200", xerrors.CodeInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := ParseRangeSpec(tt.spec)
			if got := specCode(t, err); got != tt.code {
				t.Errorf("ParseRangeSpec(%q) code = %d, want %d (%v)", tt.spec, got, tt.code, err)
			}
		})
	}
}

func TestParseMSSpec(t *testing.T) {
	spec, err := ParseMSSpec("Glu[1-5]#M0,1,2")
	if err != nil {
		t.Fatalf("ParseMSSpec: %v", err)
	}
	if spec.Pool != "Glu" {
		t.Errorf("pool = %q, want Glu", spec.Pool)
	}
	if spec.Mask.CountOnes() != 5 || spec.Mask.LowestBit() != 0 || spec.Mask.HighestBit() != 4 {
		t.Errorf("mask = %s, want five low bits", spec.Mask.String())
	}
	if want := []int{0, 1, 2}; !intsEqual(spec.Weights, want) {
		t.Errorf("weights mismatch: %v", pretty.Diff(spec.Weights, want))
	}
}

func TestParseMSSpecValidation(t *testing.T) {
	// Mass 7 cannot arise from a five-atom fragment.
	_, err := ParseMSSpec("Glu[1-5]#M0,7")
	if got := specCode(t, err); got != xerrors.CodeNotEnoughPositions {
		t.Errorf("code = %d, want %d", got, xerrors.CodeNotEnoughPositions)
	}
	_, err = ParseMSSpec("Glu[1-5]#M1,1")
	if got := specCode(t, err); got != xerrors.CodeInvalidWeightSpec {
		t.Errorf("duplicate weight code = %d, want %d", got, xerrors.CodeInvalidWeightSpec)
	}
	// No mask: weights accepted, mask nil.
	spec, err := ParseMSSpec("Ala#M0,3")
	if err != nil {
		t.Fatalf("ParseMSSpec: %v", err)
	}
	if spec.Mask != nil {
		t.Errorf("mask = %v, want nil", spec.Mask)
	}
	if err := spec.ValidateAtomCount(2); specCode(t, err) != xerrors.CodeNotEnoughPositions {
		t.Errorf("ValidateAtomCount(2) should reject mass 3")
	}
	if err := spec.ValidateAtomCount(3); err != nil {
		t.Errorf("ValidateAtomCount(3): %v", err)
	}
}

func TestParseMSMSSpec(t *testing.T) {
	spec, err := ParseMSMSSpec("Glu[1-5:2-4]#M(5,3),(3,2)")
	if err != nil {
		t.Fatalf("ParseMSMSSpec: %v", err)
	}
	if spec.Pool != "Glu" {
		t.Errorf("pool = %q, want Glu", spec.Pool)
	}
	want := [][2]int{{3, 2}, {5, 3}}
	if len(spec.WeightPairs) != 2 || spec.WeightPairs[0] != want[0] || spec.WeightPairs[1] != want[1] {
		t.Errorf("pairs mismatch: %v", pretty.Diff(spec.WeightPairs, want))
	}
	if !spec.Mask2.And(spec.Mask1).Equal(spec.Mask2) {
		t.Errorf("daughter mask not a subset of parent mask")
	}

	// 6-7 is not inside 1-5.
	_, err = ParseMSMSSpec("Glu[1-5:6-7]#M(3,2)")
	if got := specCode(t, err); got != xerrors.CodeOverlappingRange {
		t.Errorf("non-subset code = %d, want %d", got, xerrors.CodeOverlappingRange)
	}
	// Daughter mass above parent mass.
	_, err = ParseMSMSSpec("Glu[1-5:2-4]#M(2,3)")
	if got := specCode(t, err); got != xerrors.CodeInvalidWeightSpec {
		t.Errorf("inverted pair code = %d, want %d", got, xerrors.CodeInvalidWeightSpec)
	}
}

func TestParseMIMSSpec(t *testing.T) {
	spec, err := ParseMIMSSpec("Gly[1-2]#M(0,1),(1,1),(2,0)")
	if err != nil {
		t.Fatalf("ParseMIMSSpec: %v", err)
	}
	if spec.IsotopeCount != 2 {
		t.Errorf("isotope count = %d, want 2", spec.IsotopeCount)
	}
	if len(spec.WeightTuples) != 3 {
		t.Errorf("tuples = %s", pretty.Sprint(spec.WeightTuples))
	}

	// Arity mismatch against the first tuple.
	_, err = ParseMIMSSpec("Gly#M(0,1),(1,1,0)")
	if got := specCode(t, err); got != xerrors.CodeInvalidWeightSpec {
		t.Errorf("arity mismatch code = %d, want %d", got, xerrors.CodeInvalidWeightSpec)
	}
}

func TestParse1HNMRSpec(t *testing.T) {
	spec, err := Parse1HNMRSpec("Ser#P1,3,P5")
	if err != nil {
		t.Fatalf("Parse1HNMRSpec: %v", err)
	}
	if want := []int{1, 3, 5}; !intsEqual(spec.Positions, want) {
		t.Errorf("positions mismatch: %v", pretty.Diff(spec.Positions, want))
	}
	_, err = Parse1HNMRSpec("Ser#P0")
	if got := specCode(t, err); got != xerrors.CodeInvalidRange {
		t.Errorf("zero position code = %d, want %d", got, xerrors.CodeInvalidRange)
	}
	_, err = Parse1HNMRSpec("Ser#P2,2")
	if got := specCode(t, err); got != xerrors.CodeOverlappingRange {
		t.Errorf("duplicate position code = %d, want %d", got, xerrors.CodeOverlappingRange)
	}
}

func TestParse13CNMRSpec(t *testing.T) {
	spec, err := Parse13CNMRSpec("Ala#S1,DL2,DR3")
	if err != nil {
		t.Fatalf("Parse13CNMRSpec: %v", err)
	}
	if want := []int{1, 2, 3}; !intsEqual(spec.Positions, want) {
		t.Errorf("positions mismatch: %v", pretty.Diff(spec.Positions, want))
	}
	wantTypes := []CNMRType{CNMRSinglet, CNMRDoubletLeft, CNMRDoubletRight}
	for i, typ := range wantTypes {
		if spec.Types[i] != typ {
			t.Errorf("type[%d] = %s, want %s", i, spec.Types[i], typ)
		}
	}

	// T couples to the left, so position 1 is impossible.
	_, err = Parse13CNMRSpec("Ala#T1")
	if got := specCode(t, err); got != xerrors.CodeInvalidRange {
		t.Errorf("T1 code = %d, want %d", got, xerrors.CodeInvalidRange)
	}

	// A missing type re-uses the previous entry's type.
	spec, err = Parse13CNMRSpec("Ala#DD2,3")
	if err != nil {
		t.Fatalf("Parse13CNMRSpec: %v", err)
	}
	if spec.Types[1] != CNMRDoubletDoublet {
		t.Errorf("type[1] = %s, want DD", spec.Types[1])
	}
}

func TestParseCumomerSpec(t *testing.T) {
	spec, err := ParseCumomerSpec("Glu#1x01")
	if err != nil {
		t.Fatalf("ParseCumomerSpec: %v", err)
	}
	if spec.XMask.CountOnes() != 1 || !spec.XMask.Get(1) {
		t.Errorf("x mask = %s, want bit 1 only", spec.XMask.String())
	}
	if spec.OneMask.CountOnes() != 2 || !spec.OneMask.Get(0) || !spec.OneMask.Get(3) {
		t.Errorf("one mask = %s, want bits 0 and 3", spec.OneMask.String())
	}

	_, err = ParseCumomerSpec("Glu#1q01")
	if got := specCode(t, err); got != xerrors.CodeParseError {
		t.Errorf("bad pattern code = %d, want %d", got, xerrors.CodeParseError)
	}
}

func TestIdentifyNotation(t *testing.T) {
	tests := []struct {
		spec string
		want Kind
	}{
		{"Glu[1-5]#M0,1,2", KindMS},
		{"Glu#M0", KindMS},
		{"Glu[1-5:2-4]#M(3,2)", KindMSMS},
		{"Gly[1-2]#M(0,1),(1,1)", KindMIMS},
		{"Ser#P1,3", KindNMR1H},
		{"Ala#S1,DL2", KindNMR13C},
		{"Ala#T2", KindNMR13C},
		{"Glu#1x01", KindGeneric},
		{"Glu", KindUnknown},
		{"Glu#", KindUnknown},
	}
	for _, tt := range tests {
		if got := IdentifyNotation(tt.spec); got != tt.want {
			t.Errorf("IdentifyNotation(%q) = %s, want %s", tt.spec, got, tt.want)
		}
	}
}

func TestCheckSpecDimensions(t *testing.T) {
	tests := []struct {
		spec string
		kind Kind
		dim  int
	}{
		{"Glu[1-5]#M0,1,2", KindMS, 3},
		{"Glu[1-5:2-4]#M(3,2),(5,3)", KindMSMS, 2},
		{"Gly[1-2]#M(0,1),(1,1),(2,0)", KindMIMS, 3},
		{"Ser#P1,3,5", KindNMR1H, 3},
		{"Ala#S1,DL2,DR3", KindNMR13C, 3},
		{"Glu#1x01", KindGeneric, 1},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			kind, dim, err := CheckSpec(tt.spec)
			if err != nil {
				t.Fatalf("CheckSpec(%q): %v", tt.spec, err)
			}
			if kind != tt.kind || dim != tt.dim {
				t.Errorf("CheckSpec(%q) = (%s, %d), want (%s, %d)", tt.spec, kind, dim, tt.kind, tt.dim)
			}
		})
	}

	if _, _, err := CheckSpec("garbage"); err == nil {
		t.Errorf("CheckSpec on unrecognized input should fail")
	}
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
