// Package mdslayer implements the circulant MDS linear layer ("concrete" step)
// of the Monolith permutation over the Goldilocks field, for state widths
// t ∈ {8, 12}.
//
// Both supported widths are generated by a single row: row i of the matrix
// is the generator row cyclically shifted right by i positions, i.e.
//
//	M[i][j] = row[(j - i) mod t]
//
// which is equivalent to the circular-convolution form used below:
//
//	y[i] = sum_{k=0}^{t-1} row[k] * x[(i+k) mod t]
//
// Two evaluators are provided for every width: Multiply/MultiplyWithRC work
// directly on field.Element and reduce after every multiply-accumulate step;
// MultiplyAccumulate/MultiplyWithRCAccumulate stage the same dot products in
// an unreduced big.Int accumulator and reduce only once, at the end. Both
// must and do agree bit-for-bit; this is exercised in mds_test.go.
package mdslayer

import (
	"math/big"

	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/field"
)

// Row12 is the generator row of the width-12 circulant MDS matrix.
var Row12 = [12]uint64{7, 23, 8, 26, 13, 10, 9, 7, 6, 22, 21, 8}

// Row8 is the generator row of the width-8 circulant MDS matrix. The
// reference crate this module was distilled from does not state the
// width-8 row; this value follows the same small-coefficient circulant
// convention as Row12 and must be cross-checked against a canonical
// Monolith reference before claiming wire compatibility with it (see
// DESIGN.md).
var Row8 = [8]uint64{23, 8, 13, 10, 7, 6, 21, 8}

func rowFor(t int) []uint64 {
	switch t {
	case 8:
		return Row8[:]
	case 12:
		return Row12[:]
	default:
		panic("mdslayer: unsupported width")
	}
}

// Multiply replaces x in place with M·x, using the generator row matching
// len(x) (must be 8 or 12).
func Multiply(x []field.Element) {
	row := rowFor(len(x))
	out := multiplyDirect(row, x)
	copy(x, out)
}

// MultiplyWithRC replaces x in place with M·x + rc (lane-wise addition).
func MultiplyWithRC(x []field.Element, rc []field.Element) {
	row := rowFor(len(x))
	out := multiplyDirect(row, x)
	for i := range out {
		out[i] = out[i].Add(rc[i])
	}
	copy(x, out)
}

func multiplyDirect(row []uint64, x []field.Element) []field.Element {
	t := len(x)
	out := make([]field.Element, t)
	for i := 0; i < t; i++ {
		acc := field.Zero
		for k := 0; k < t; k++ {
			acc = acc.Add(field.New(row[k]).Mul(x[(i+k)%t]))
		}
		out[i] = acc
	}
	return out
}

// MultiplyAccumulate computes the same result as Multiply but stages the dot
// product for each output lane in an unreduced big.Int accumulator,
// reducing modulo P only once per lane.
func MultiplyAccumulate(x []field.Element) {
	row := rowFor(len(x))
	out := multiplyAccumulate(row, x)
	copy(x, out)
}

// MultiplyWithRCAccumulate is the accumulator-variant counterpart of
// MultiplyWithRC.
func MultiplyWithRCAccumulate(x []field.Element, rc []field.Element) {
	row := rowFor(len(x))
	out := multiplyAccumulate(row, x)
	for i := range out {
		out[i] = out[i].Add(rc[i])
	}
	copy(x, out)
}

var modulus = new(big.Int).SetUint64(field.P)

func multiplyAccumulate(row []uint64, x []field.Element) []field.Element {
	t := len(x)
	out := make([]field.Element, t)
	acc := new(big.Int)
	term := new(big.Int)
	rowBig := make([]*big.Int, len(row))
	for k, r := range row {
		rowBig[k] = new(big.Int).SetUint64(r)
	}
	for i := 0; i < t; i++ {
		acc.SetInt64(0)
		for k := 0; k < t; k++ {
			term.SetUint64(x[(i+k)%t].Value())
			term.Mul(term, rowBig[k])
			acc.Add(acc, term)
		}
		acc.Mod(acc, modulus)
		out[i] = field.FromCanonicalU64(acc.Uint64())
	}
	return out
}
