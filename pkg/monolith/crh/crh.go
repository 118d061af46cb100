// Package crh implements the Monolith fixed-input-size collision-resistant
// hash: a duplex sponge (rate 8, capacity 4) over the width-12 permutation,
// absorbing an arbitrary number of field elements and squeezing out either a
// 4-element digest or a single truncated element.
package crh

import (
	"encoding/binary"

	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/duplex"
	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/field"
	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/permutation"
)

// Rate and Capacity fix the duplex split for every CRH instance: they sum
// to the width-12 permutation's state size.
const (
	Rate     = 8
	Capacity = 4
	Width    = Rate + Capacity
)

// Digest is the 4-element output of Hash: a small, comparable, serializable
// value safe to use as a map key or Merkle node label.
type Digest [4]field.Element

// Equal reports whether two digests hold the same field elements.
func (d Digest) Equal(other Digest) bool {
	for i := range d {
		if !d[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Bytes returns the little-endian canonical encoding of the digest: four
// 8-byte little-endian words, one per element, in order.
func (d Digest) Bytes() [32]byte {
	var out [32]byte
	for i, e := range d {
		b := e.ToBytes()
		copy(out[i*8:(i+1)*8], b[:])
	}
	return out
}

// DigestFromBytes decodes the encoding produced by Digest.Bytes.
func DigestFromBytes(b [32]byte) Digest {
	var d Digest
	for i := range d {
		var word [8]byte
		copy(word[:], b[i*8:(i+1)*8])
		d[i] = field.FromBytes(word)
	}
	return d
}

// Hash absorbs input and squeezes out a 4-element digest.
func Hash(params *permutation.Params, input []field.Element) (Digest, error) {
	elems, err := squeeze(params, input, 4)
	if err != nil {
		return Digest{}, err
	}
	var d Digest
	copy(d[:], elems)
	return d, nil
}

// HashTruncated absorbs input and squeezes out a single field element: a
// narrower digest for callers that only need collision resistance within a
// single field element's worth of output.
func HashTruncated(params *permutation.Params, input []field.Element) (field.Element, error) {
	elems, err := squeeze(params, input, 1)
	if err != nil {
		return field.Zero, err
	}
	return elems[0], nil
}

func squeeze(params *permutation.Params, input []field.Element, numOut int) ([]field.Element, error) {
	sponge, err := duplex.New(duplex.Config{Rate: Rate, Capacity: Capacity, Params: params})
	if err != nil {
		return nil, err
	}
	if err := sponge.Absorb(input); err != nil {
		return nil, err
	}
	return sponge.SqueezeFieldElements(numOut)
}

// encodeLength is a convenience a caller can prepend to a variable-length
// input before hashing, to domain-separate messages of different lengths
// that would otherwise share a common prefix of field elements.
func encodeLength(n int) field.Element {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(n))
	return field.FromBytes(b)
}

// HashBytes packs raw bytes into field elements (7 bytes per element, to
// stay clear of the field's 64th bit) prefixed with an encoded length, then
// hashes them with Hash. This is the entry point for hashing byte-oriented
// messages rather than pre-arranged field elements.
func HashBytes(params *permutation.Params, message []byte) (Digest, error) {
	const bytesPerElement = 7
	numElements := (len(message) + bytesPerElement - 1) / bytesPerElement
	elems := make([]field.Element, 0, numElements+1)
	elems = append(elems, encodeLength(len(message)))

	for i := 0; i < len(message); i += bytesPerElement {
		end := i + bytesPerElement
		if end > len(message) {
			end = len(message)
		}
		var word [8]byte
		copy(word[:], message[i:end])
		elems = append(elems, field.FromBytes(word))
	}

	return Hash(params, elems)
}
