// Package bitarray implements an arbitrary-length mutable bitset with
// two's-complement arithmetic, bitwise operators, and a lexicographic
// k-subset combination iterator, as specified for isotopomer/cumomer/EMU
// labeling patterns.
package bitarray

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const wordBits = 64

// BitArray is an ordered sequence of boolean entries indexed from 0,
// packed into 64-bit words. Bits beyond the declared length are always
// zero and are never observable through the public API.
type BitArray struct {
	words  []uint64
	length int
}

// New returns a zero-valued BitArray of the given length. length == 0 is
// valid and produces an empty array.
func New(length int) *BitArray {
	if length < 0 {
		panic("bitarray: negative length")
	}
	return &BitArray{words: make([]uint64, wordCount(length)), length: length}
}

func wordCount(length int) int {
	if length == 0 {
		return 0
	}
	return (length + wordBits - 1) / wordBits
}

// Len returns the declared bit length.
func (b *BitArray) Len() int { return b.length }

func (b *BitArray) checkIndex(i int) {
	if i < 0 || i >= b.length {
		panic(fmt.Sprintf("bitarray: index %d out of range [0,%d)", i, b.length))
	}
}

// Get reads bit i. Requires i < Len().
func (b *BitArray) Get(i int) bool {
	b.checkIndex(i)
	return b.words[i/wordBits]&(uint64(1)<<uint(i%wordBits)) != 0
}

// Set writes bit i. Requires i < Len(); callers must Resize first to grow.
func (b *BitArray) Set(i int, v bool) {
	b.checkIndex(i)
	mask := uint64(1) << uint(i%wordBits)
	if v {
		b.words[i/wordBits] |= mask
	} else {
		b.words[i/wordBits] &^= mask
	}
}

// Ones sets the inclusive range [i,j] to 1.
func (b *BitArray) Ones(i, j int) {
	for k := i; k <= j; k++ {
		b.Set(k, true)
	}
}

// Zeros clears the inclusive range [i,j] to 0.
func (b *BitArray) Zeros(i, j int) {
	for k := i; k <= j; k++ {
		b.Set(k, false)
	}
}

func (b *BitArray) maskLastWord() {
	if b.length == 0 || b.length%wordBits == 0 {
		return
	}
	rem := uint(b.length % wordBits)
	b.words[len(b.words)-1] &= (uint64(1) << rem) - 1
}

// CountOnes returns the population count.
func (b *BitArray) CountOnes() int {
	n := 0
	for _, w := range b.words {
		n += popcount(w)
	}
	return n
}

// CountZeros returns Len() - CountOnes().
func (b *BitArray) CountZeros() int {
	return b.length - b.CountOnes()
}

func popcount(w uint64) int {
	n := 0
	for w != 0 {
		w &= w - 1
		n++
	}
	return n
}

// HighestBit returns the index of the highest set bit, or -1 if none.
func (b *BitArray) HighestBit() int {
	for wi := len(b.words) - 1; wi >= 0; wi-- {
		if b.words[wi] == 0 {
			continue
		}
		for bi := wordBits - 1; bi >= 0; bi-- {
			if b.words[wi]&(uint64(1)<<uint(bi)) != 0 {
				idx := wi*wordBits + bi
				if idx < b.length {
					return idx
				}
			}
		}
	}
	return -1
}

// LowestBit returns the index of the lowest set bit, or -1 if none.
func (b *BitArray) LowestBit() int {
	for wi := 0; wi < len(b.words); wi++ {
		if b.words[wi] == 0 {
			continue
		}
		for bi := 0; bi < wordBits; bi++ {
			if b.words[wi]&(uint64(1)<<uint(bi)) != 0 {
				idx := wi*wordBits + bi
				if idx < b.length {
					return idx
				}
			}
		}
	}
	return -1
}

// Resize truncates or extends the array. When signExtend is true and the
// array grows, new high bits mirror the pre-resize top bit; otherwise new
// high bits are zero.
func (b *BitArray) Resize(newLen int, signExtend bool) {
	if newLen < 0 {
		panic("bitarray: negative length")
	}
	top := false
	if signExtend && b.length > 0 {
		top = b.Get(b.length - 1)
	}
	newWords := make([]uint64, wordCount(newLen))
	copy(newWords, b.words)
	oldLen := b.length
	b.words = newWords
	b.length = newLen
	if signExtend && top {
		for i := oldLen; i < newLen; i++ {
			b.Set(i, true)
		}
	}
	b.maskLastWord()
}

// Clone returns a deep copy.
func (b *BitArray) Clone() *BitArray {
	out := &BitArray{words: append([]uint64(nil), b.words...), length: b.length}
	return out
}

// Equal is value-equality: same length, same bits.
func (b *BitArray) Equal(o *BitArray) bool {
	if b.length != o.length {
		return false
	}
	for i := range b.words {
		if b.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// Compare is unsigned lexicographic (value) comparison; a shorter
// operand is treated as zero-extended to the longer length.
func (b *BitArray) Compare(o *BitArray) int {
	n := max(len(b.words), len(o.words))
	for i := n - 1; i >= 0; i-- {
		var a, c uint64
		if i < len(b.words) {
			a = b.words[i]
		}
		if i < len(o.words) {
			c = o.words[i]
		}
		if a != c {
			if a < c {
				return -1
			}
			return 1
		}
	}
	return 0
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// binOp applies op word-by-word over operands widened to the greater of
// the two lengths, per the "operands as two's-complement integers of
// length max(len_a, len_b)" rule.
func binOp(a, b *BitArray, op func(x, y uint64) uint64) *BitArray {
	n := a.length
	if b.length > n {
		n = b.length
	}
	aw := a.Clone()
	aw.Resize(n, false)
	bw := b.Clone()
	bw.Resize(n, false)
	out := New(n)
	for i := range out.words {
		out.words[i] = op(aw.words[i], bw.words[i])
	}
	out.maskLastWord()
	return out
}

func (b *BitArray) And(o *BitArray) *BitArray { return binOp(b, o, func(x, y uint64) uint64 { return x & y }) }
func (b *BitArray) Or(o *BitArray) *BitArray  { return binOp(b, o, func(x, y uint64) uint64 { return x | y }) }
func (b *BitArray) Xor(o *BitArray) *BitArray { return binOp(b, o, func(x, y uint64) uint64 { return x ^ y }) }

// Not returns the bitwise complement, same length.
func (b *BitArray) Not() *BitArray {
	out := New(b.length)
	for i := range out.words {
		out.words[i] = ^b.words[i]
	}
	out.maskLastWord()
	return out
}

// Shl shifts left by k bits, bounded to the array's own length; bits
// shifted past the top are discarded.
func (b *BitArray) Shl(k int) *BitArray {
	if k <= 0 {
		return b.Clone()
	}
	out := New(b.length)
	for i := b.length - 1; i >= k; i-- {
		out.Set(i, b.Get(i-k))
	}
	return out
}

// Shr shifts right (logical) by k bits.
func (b *BitArray) Shr(k int) *BitArray {
	if k <= 0 {
		return b.Clone()
	}
	out := New(b.length)
	for i := 0; i+k < b.length; i++ {
		out.Set(i, b.Get(i+k))
	}
	return out
}

// addWords is the two's-complement ripple-carry adder over equal-length
// operands, producing a result of the same word count; overflow past the
// top word is truncated.
func addWords(a, b []uint64) []uint64 {
	out := make([]uint64, len(a))
	var carry uint64
	for i := range a {
		sum := a[i] + b[i]
		c1 := boolToU64(sum < a[i])
		sum2 := sum + carry
		c2 := boolToU64(sum2 < sum)
		out[i] = sum2
		carry = c1 | c2
	}
	return out
}

func boolToU64(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

func negateWords(a []uint64) []uint64 {
	out := make([]uint64, len(a))
	for i := range a {
		out[i] = ^a[i]
	}
	one := make([]uint64, len(a))
	if len(one) > 0 {
		one[0] = 1
	}
	return addWords(out, one)
}

// Add returns a + b interpreted as two's-complement integers of length
// max(len(a), len(b)), truncated to that length.
func (b *BitArray) Add(o *BitArray) *BitArray {
	n := b.length
	if o.length > n {
		n = o.length
	}
	aw := b.Clone()
	aw.Resize(n, true)
	bw := o.Clone()
	bw.Resize(n, true)
	out := New(n)
	out.words = addWords(aw.words, bw.words)
	out.maskLastWord()
	return out
}

// Sub returns a - b, same width rule as Add.
func (b *BitArray) Sub(o *BitArray) *BitArray {
	n := b.length
	if o.length > n {
		n = o.length
	}
	aw := b.Clone()
	aw.Resize(n, true)
	bw := o.Clone()
	bw.Resize(n, true)
	out := New(n)
	out.words = addWords(aw.words, negateWords(bw.words))
	out.maskLastWord()
	return out
}

// Neg returns the two's-complement negation, same length.
func (b *BitArray) Neg() *BitArray {
	out := New(b.length)
	out.words = negateWords(b.words)
	out.maskLastWord()
	return out
}

// Mul returns a * b, widened to max length then truncated, using repeated
// shift-add over the multiplier's set bits (these arrays are small
// atom-position masks, so schoolbook multiplication is adequate).
func (b *BitArray) Mul(o *BitArray) *BitArray {
	n := b.length
	if o.length > n {
		n = o.length
	}
	aw := b.Clone()
	aw.Resize(n, false)
	bw := o.Clone()
	bw.Resize(n, false)
	acc := New(n)
	for i := 0; i < n; i++ {
		if bw.Get(i) {
			acc = acc.Add(aw.Shl(i))
		}
	}
	return acc
}

// Div returns a / b (unsigned integer division, truncated toward zero),
// widened to max length.
func (b *BitArray) Div(o *BitArray) *BitArray {
	n := b.length
	if o.length > n {
		n = o.length
	}
	aw := b.Clone()
	aw.Resize(n, false)
	bw := o.Clone()
	bw.Resize(n, false)

	if bw.CountOnes() == 0 {
		panic("bitarray: division by zero")
	}

	quot := New(n)
	rem := New(n)
	for i := n - 1; i >= 0; i-- {
		rem = rem.Shl(1)
		rem.Set(0, aw.Get(i))
		if rem.Compare(bw) >= 0 {
			rem = rem.Sub(bw)
			quot.Set(i, true)
		}
	}
	return quot
}

// FromBinary parses an LSB-first binary string ('1' = set bit, anything
// else = clear) and returns a BitArray one bit longer than the string,
// with the extra top bit always clear (acting as a sign guard so parsed
// values are non-negative).
func FromBinary(s string) *BitArray {
	out := New(len(s) + 1)
	for i := 0; i < len(s); i++ {
		out.Set(i, s[i] == '1')
	}
	return out
}

var hexDigits = "0123456789abcdef"

// FromHex parses a hex string (four bits per digit, LSB-first digit
// order) the same way FromBinary parses bits, including the extra clear
// top bit so parsed values are non-negative.
func FromHex(s string) *BitArray {
	out := New(len(s)*4 + 1)
	for i := 0; i < len(s); i++ {
		c := s[i]
		var v int
		switch {
		case c >= '0' && c <= '9':
			v = int(c - '0')
		case c >= 'a' && c <= 'f':
			v = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v = int(c-'A') + 10
		default:
			panic(fmt.Sprintf("bitarray: invalid hex digit %q", c))
		}
		for bit := 0; bit < 4; bit++ {
			out.Set(i*4+bit, v&(1<<uint(bit)) != 0)
		}
	}
	return out
}

// String renders LSB-first using the given zero/one characters.
func (b *BitArray) String() string {
	return b.render('0', '1', false)
}

// StringRev renders MSB-first.
func (b *BitArray) StringRev() string {
	return b.render('0', '1', true)
}

// RenderWith renders LSB-first with caller-supplied zero/one characters.
func (b *BitArray) RenderWith(zero, one byte) string {
	return b.render(zero, one, false)
}

// RenderWithRev renders MSB-first with caller-supplied zero/one characters.
func (b *BitArray) RenderWithRev(zero, one byte) string {
	return b.render(zero, one, true)
}

func (b *BitArray) render(zero, one byte, reverse bool) string {
	buf := make([]byte, b.length)
	for i := 0; i < b.length; i++ {
		c := zero
		if b.Get(i) {
			c = one
		}
		if reverse {
			buf[b.length-1-i] = c
		} else {
			buf[i] = c
		}
	}
	return string(buf)
}

// HexString renders the array four bits at a time, LSB-first digit order.
func (b *BitArray) HexString(upper bool) string {
	nd := (b.length + 3) / 4
	var sb strings.Builder
	for d := 0; d < nd; d++ {
		v := 0
		for bit := 0; bit < 4; bit++ {
			idx := d*4 + bit
			if idx < b.length && b.Get(idx) {
				v |= 1 << uint(bit)
			}
		}
		c := hexDigits[v]
		if upper {
			c = strings.ToUpper(string(c))[0]
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// Hash returns a blake2b-based structural hash, independent of trailing
// padding beyond the declared length (only the masked, in-range bits of
// the last word are mixed in).
func (b *BitArray) Hash() [16]byte {
	h, _ := blake2b.New(16, nil)
	lenBuf := []byte{
		byte(b.length), byte(b.length >> 8), byte(b.length >> 16), byte(b.length >> 24),
	}
	h.Write(lenBuf)
	bc := b.Clone()
	bc.maskLastWord()
	for _, w := range bc.words {
		var wb [8]byte
		for i := 0; i < 8; i++ {
			wb[i] = byte(w >> uint(8*i))
		}
		h.Write(wb[:])
	}
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}
