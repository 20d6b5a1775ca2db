package mgroup

import (
	"fluxcore/internal/bitarray"
	"fluxcore/internal/maskedarray"
)

// IsoToCumomer transforms a fully populated isotopomer vector (length
// 2^natoms) into its cumomer form: entry S becomes the sum of all
// isotopomer amplitudes whose labeling is a superset of S.
func IsoToCumomer(iso []float64, natoms int) *maskedarray.MaskedArray[float64] {
	if len(iso) != 1<<uint(natoms) {
		panic("mgroup: isotopomer vector length does not match atom count")
	}
	full := bitarray.New(natoms)
	if natoms > 0 {
		full.Ones(0, natoms-1)
	}
	out := maskedarray.New[float64](full)
	copy(out.RawView(), iso)
	maskedarray.Cumulative(out, true)
	return out
}

// marginalize sums iso over the atoms outside mask, compacting the
// masked atoms into the low bits of the result index (lowest mask
// position -> bit 0). The result has length 2^popcount(mask).
func marginalize(iso []float64, mask *bitarray.BitArray) []float64 {
	n := mask.Len()
	if len(iso) != 1<<uint(n) {
		panic("mgroup: isotopomer vector length does not match mask length")
	}
	out := make([]float64, 1<<uint(mask.CountOnes()))
	for i, amp := range iso {
		idx, pos := 0, 0
		for b := 0; b < n; b++ {
			if !mask.Get(b) {
				continue
			}
			if i&(1<<uint(b)) != 0 {
				idx |= 1 << uint(pos)
			}
			pos++
		}
		out[idx] += amp
	}
	return out
}

// ConvertEMUToCumomer converts an EMU input (the atoms selected by mask)
// into cumomer form by first marginalizing the isotopomer vector onto
// the EMU's atoms and then applying the cumulative transform to the
// compacted vector.
func ConvertEMUToCumomer(iso []float64, mask *bitarray.BitArray) *maskedarray.MaskedArray[float64] {
	out := maskedarray.New[float64](mask)
	copy(out.RawView(), marginalize(iso, mask))
	maskedarray.Cumulative(out, true)
	return out
}

// ConvertEMUFallthrough reproduces the historical conversion order: the
// full isotopomer vector is transformed to cumomer form first, and the
// result is then restricted to the subsets of mask. The two orders
// commute (see TestEMUConversionAgreesWithCumomerPath); the function is
// kept so callers can exercise either path explicitly.
func ConvertEMUFallthrough(iso []float64, mask *bitarray.BitArray) *maskedarray.MaskedArray[float64] {
	full := IsoToCumomer(iso, mask.Len())
	out := maskedarray.New[float64](mask)
	for _, pr := range out.Iterate() {
		out.Set(pr.Index, full.Get(pr.Index))
	}
	return out
}

// MassDistribution projects an isotopomer vector through a selection
// mask into mass-isotopomer fractions: entry k sums the amplitudes with
// exactly k labeled atoms inside the mask.
func MassDistribution(iso []float64, mask *bitarray.BitArray) []float64 {
	return maskedarray.Iso2MassIso(iso, mask)
}
