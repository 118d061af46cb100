// Package twotoone implements the Monolith 2:1 compression function used to
// build a Merkle tree's internal nodes: two 4-element digests go in, one
// comes out, via the width-8 permutation with a Matyas-Meyer-Oseas-style
// feed-forward on the left half.
package twotoone

import (
	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/field"
	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/permutation"
)

// Width is the permutation state width this compression function runs over.
const Width = 8

// Compress folds left and right (each 4 field elements) into a single
// 4-element output: left||right is permuted with the width-8 instance in
// params, then the permutation's first four output lanes are added back to
// the original left input lane-wise.
//
// params must have StateSize == Width; use rcgen.DeriveWidth8 to build one.
func Compress(params *permutation.Params, left, right [4]field.Element) ([4]field.Element, error) {
	var state [8]field.Element
	copy(state[:4], left[:])
	copy(state[4:], right[:])

	if err := permutation.Permute(state[:], params); err != nil {
		return [4]field.Element{}, err
	}

	var out [4]field.Element
	for i := 0; i < 4; i++ {
		out[i] = left[i].Add(state[i])
	}
	return out, nil
}
