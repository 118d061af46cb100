package permutation

import "github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/field"

// Bit masks for the little-endian, byte-lane rotate-left-by-k operation used
// by the bar S-box. H_k selects the top k bits of every byte lane, L_k the
// bottom (8-k) bits.
const (
	maskH1 uint64 = 0x8080808080808080
	maskL1 uint64 = 0x7F7F7F7F7F7F7F7F
	maskH2 uint64 = 0xC0C0C0C0C0C0C0C0
	maskL2 uint64 = 0x3F3F3F3F3F3F3F3F
	maskH3 uint64 = 0xE0E0E0E0E0E0E0E0
	maskL3 uint64 = 0x1F1F1F1F1F1F1F1F
)

// rotlLanes1/2/3 rotate every byte lane of x left by 1/2/3 bits, in parallel
// across all eight lanes of a 64-bit word.
func rotlLanes1(x uint64) uint64 {
	return ((x & maskH1) >> 7) | ((x & maskL1) << 1)
}

func rotlLanes2(x uint64) uint64 {
	return ((x & maskH2) >> 6) | ((x & maskL2) << 2)
}

func rotlLanes3(x uint64) uint64 {
	return ((x & maskH3) >> 5) | ((x & maskL3) << 3)
}

// sByteLane applies the single-byte bar S-box:
//
//	s(b) = rotl1(b XOR (NOT rotl1(b) AND rotl2(b) AND rotl3(b)))
func sByteLane(b byte) byte {
	r1 := bits8RotateLeft(b, 1)
	r2 := bits8RotateLeft(b, 2)
	r3 := bits8RotateLeft(b, 3)
	y := b ^ (^r1 & r2 & r3)
	return bits8RotateLeft(y, 1)
}

func bits8RotateLeft(b byte, k uint) byte {
	return (b << k) | (b >> (8 - k))
}

// barBytewise applies the bar S-box byte-by-byte to the little-endian limbs
// of a single field element.
func barBytewise(e field.Element) field.Element {
	bytes := e.ToBytes()
	for i := range bytes {
		bytes[i] = sByteLane(bytes[i])
	}
	return field.FromBytes(bytes)
}

// barBitParallel is the bit-parallel formulation of the same S-box: it
// applies the three byte-lane rotations across all eight lanes of the
// element's 64-bit canonical value at once.
//
//	y = x XOR (NOT rotl_1(x) AND rotl_2(x) AND rotl_3(x))
//	result = rotl_1(y)
func barBitParallel(e field.Element) field.Element {
	x := e.Value()
	r1 := rotlLanes1(x)
	r2 := rotlLanes2(x)
	r3 := rotlLanes3(x)
	y := x ^ (^r1 & r2 & r3)
	return field.FromCanonicalU64(rotlLanes1(y))
}

// Bar applies the bar S-box to a single field element. The bit-parallel form
// is used as the canonical implementation; bars_test.go checks it against
// the byte-wise formulation on a fixed set of sample values.
func Bar(e field.Element) field.Element {
	return barBitParallel(e)
}

// Bars applies Bar to the first barPerRound lanes of state, leaving the
// remaining lanes unchanged.
func Bars(state []field.Element, barPerRound int) {
	for i := 0; i < barPerRound && i < len(state); i++ {
		state[i] = Bar(state[i])
	}
}
