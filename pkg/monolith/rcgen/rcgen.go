// Package rcgen derives Monolith round constants and full Params values
// deterministically from a domain-separation tag, using SHAKE128 as an
// extendable-output function. Derivation depends only on the state width,
// round count, and field modulus, never on caller-supplied randomness.
package rcgen

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/field"
	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/permutation"
)

// limbWidths is the fixed [8,8,8,8,8,8,8,8] tail of the domain-separation
// tag: eight limbs of eight bits each.
var limbWidths = [8]byte{8, 8, 8, 8, 8, 8, 8, 8}

// Derive builds the Params for a Monolith instance of the given state width
// and round count, via the domain tag
//
//	"Monolith" || [stateSize, rounds] || modulus_le || [8,8,8,8,8,8,8,8]
//
// read through a SHAKE128 XOF. _rng is accepted and ignored; callers pass
// one only to conform to a generic hash-scheme setup signature, since the
// derivation is fully deterministic in its three numeric inputs.
func Derive(stateSize uint8, rounds uint8, _rng interface{}) (*permutation.Params, error) {
	reader := sha3.NewShake128()
	reader.Write([]byte("Monolith"))
	reader.Write([]byte{stateSize, rounds})

	var modulusLE [8]byte
	binary.LittleEndian.PutUint64(modulusLE[:], field.P)
	reader.Write(modulusLE[:])
	reader.Write(limbWidths[:])

	roundConstants := make([][]field.Element, 0, rounds)
	for len(roundConstants)+1 < int(rounds) {
		row := make([]field.Element, 0, stateSize)
		for len(row) < int(stateSize) {
			var word [8]byte
			if _, err := reader.Read(word[:]); err != nil {
				return nil, permutation.Error{Kind: permutation.XofRead, Message: err.Error()}
			}
			if e, ok := field.FromRandomBytes(word); ok {
				row = append(row, e)
			}
			// Rejected words (probability < 2^-32) are silently re-sampled
			// by looping again.
		}
		roundConstants = append(roundConstants, row)
	}

	lastRC := make([]field.Element, stateSize)
	for i := range lastRC {
		lastRC[i] = field.Zero
	}
	roundConstants = append(roundConstants, lastRC)

	params := &permutation.Params{
		BarPerRound:    permutation.BarPerRound,
		RoundsCount:    rounds,
		StateSize:      uint32(stateSize),
		RoundConstants: roundConstants,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// DeriveWidth12 derives the Params used by the fixed-input CRH: state width
// 12, 6 rounds.
func DeriveWidth12() (*permutation.Params, error) {
	return Derive(12, permutation.Rounds, nil)
}

// DeriveWidth8 derives the Params used by the 2:1 compression function:
// state width 8, 6 rounds. The domain tag for width 8 differs from width 12
// only in the state-size byte; the "Monolith" prefix is identical across
// both instances.
func DeriveWidth8() (*permutation.Params, error) {
	return Derive(8, permutation.Rounds, nil)
}
