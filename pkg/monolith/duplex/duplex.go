// Package duplex implements a duplex sponge construction over the Monolith
// permutation: absorb/squeeze with explicit mode tracking, matching
// standard indifferentiable sponge semantics.
package duplex

import (
	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/field"
	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/permutation"
)

// usableBitsPerElement is MODULUS_BIT_SIZE - 1: the number of bits of a
// squeezed field element that are safe to treat as uniform randomness.
const usableBitsPerElement = 63

// usableBytesPerElement is the number of whole bytes within usableBitsPerElement.
const usableBytesPerElement = usableBitsPerElement / 8

// modeKind distinguishes the two duplex phases.
type modeKind int

const (
	absorbing modeKind = iota
	squeezing
)

// mode is the tagged-union {Absorbing{nextAbsorbIndex}, Squeezing{nextSqueezeIndex}}
// from the construction this package mirrors; index is nextAbsorbIndex when
// kind == absorbing and nextSqueezeIndex when kind == squeezing.
type mode struct {
	kind  modeKind
	index int
}

// Config fixes the rate/capacity split and the permutation parameters of one
// duplex instance. Rate + Capacity must equal len(Params.RoundConstants[0])
// (the permutation's state width).
type Config struct {
	Rate     int
	Capacity int
	Params   *permutation.Params
}

// Sponge is a stateful duplex sponge instance. Not safe for concurrent use.
type Sponge struct {
	config Config
	state  []field.Element
	mode   mode
}

// New constructs a Sponge with an all-zero initial state, in Absorbing mode
// at index 0.
func New(config Config) (*Sponge, error) {
	width := config.Rate + config.Capacity
	if err := config.Params.Validate(); err != nil {
		return nil, err
	}
	if int(config.Params.StateSize) != width {
		return nil, permutation.Error{
			Kind:    permutation.InvalidWidth,
			Message: "duplex: rate+capacity does not match permutation width",
		}
	}

	state := make([]field.Element, width)
	for i := range state {
		state[i] = field.Zero
	}
	return &Sponge{
		config: config,
		state:  state,
		mode:   mode{kind: absorbing, index: 0},
	}, nil
}

func (s *Sponge) permute() error {
	return permutation.Permute(s.state, s.config.Params)
}

// absorbInternal adds elements into the rate portion of the state starting
// at rateStartIndex, permuting between blocks as the rate fills; it leaves
// the sponge in Absorbing mode. It never ends by itself in a squeeze.
func (s *Sponge) absorbInternal(rateStartIndex int, elements []field.Element) error {
	remaining := elements
	for {
		if rateStartIndex+len(remaining) <= s.config.Rate {
			for i, e := range remaining {
				idx := s.config.Capacity + i + rateStartIndex
				s.state[idx] = s.state[idx].Add(e)
			}
			s.mode = mode{kind: absorbing, index: rateStartIndex + len(remaining)}
			return nil
		}

		numAbsorbed := s.config.Rate - rateStartIndex
		for i := 0; i < numAbsorbed; i++ {
			idx := s.config.Capacity + i + rateStartIndex
			s.state[idx] = s.state[idx].Add(remaining[i])
		}
		if err := s.permute(); err != nil {
			return err
		}
		remaining = remaining[numAbsorbed:]
		rateStartIndex = 0
	}
}

// squeezeInternal fills output from the rate portion of the state starting
// at rateStartIndex, permuting between blocks as the rate is drained; it
// leaves the sponge in Squeezing mode.
func (s *Sponge) squeezeInternal(rateStartIndex int, output []field.Element) error {
	remaining := output
	for {
		if rateStartIndex+len(remaining) <= s.config.Rate {
			copy(remaining, s.state[s.config.Capacity+rateStartIndex:s.config.Capacity+rateStartIndex+len(remaining)])
			s.mode = mode{kind: squeezing, index: rateStartIndex + len(remaining)}
			return nil
		}

		numSqueezed := s.config.Rate - rateStartIndex
		copy(remaining[:numSqueezed], s.state[s.config.Capacity+rateStartIndex:s.config.Capacity+rateStartIndex+numSqueezed])

		if len(remaining) != s.config.Rate {
			if err := s.permute(); err != nil {
				return err
			}
		}
		remaining = remaining[numSqueezed:]
		rateStartIndex = 0
	}
}

// Absorb adds elements to the sponge. Crossing from Squeezing back into
// Absorbing always permutes first, matching the construction's mode-switch
// semantics; a no-op call (empty elements) leaves the sponge untouched.
func (s *Sponge) Absorb(elements []field.Element) error {
	if len(elements) == 0 {
		return nil
	}

	switch s.mode.kind {
	case absorbing:
		absorbIndex := s.mode.index
		if absorbIndex == s.config.Rate {
			if err := s.permute(); err != nil {
				return err
			}
			absorbIndex = 0
		}
		return s.absorbInternal(absorbIndex, elements)
	default: // squeezing
		if err := s.permute(); err != nil {
			return err
		}
		return s.absorbInternal(0, elements)
	}
}

// SqueezeFieldElements returns n field elements from the sponge, permuting
// as needed. Crossing from Absorbing into Squeezing always permutes first.
func (s *Sponge) SqueezeFieldElements(n int) ([]field.Element, error) {
	out := make([]field.Element, n)

	switch s.mode.kind {
	case absorbing:
		if err := s.permute(); err != nil {
			return nil, err
		}
		if err := s.squeezeInternal(0, out); err != nil {
			return nil, err
		}
	default: // squeezing
		squeezeIndex := s.mode.index
		if squeezeIndex == s.config.Rate {
			if err := s.permute(); err != nil {
				return nil, err
			}
			squeezeIndex = 0
		}
		if err := s.squeezeInternal(squeezeIndex, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SqueezeBytes returns numBytes pseudorandom bytes, drawing usableBytesPerElement
// bytes from each squeezed field element (the top byte of a 64-bit canonical
// value is dropped, since it is never fully saturated: the modulus needs a
// 64th bit in only a vanishing fraction of representable values).
func (s *Sponge) SqueezeBytes(numBytes int) ([]byte, error) {
	numElements := (numBytes + usableBytesPerElement - 1) / usableBytesPerElement
	elems, err := s.SqueezeFieldElements(numElements)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, numElements*usableBytesPerElement)
	for _, e := range elems {
		b := e.ToBytes()
		out = append(out, b[:usableBytesPerElement]...)
	}
	return out[:numBytes], nil
}

// SqueezeBits returns numBits pseudorandom bits (little-endian within each
// drawn field element), drawing usableBitsPerElement bits per element.
func (s *Sponge) SqueezeBits(numBits int) ([]bool, error) {
	numElements := (numBits + usableBitsPerElement - 1) / usableBitsPerElement
	elems, err := s.SqueezeFieldElements(numElements)
	if err != nil {
		return nil, err
	}

	out := make([]bool, 0, numElements*usableBitsPerElement)
	for _, e := range elems {
		v := e.Value()
		for bit := 0; bit < usableBitsPerElement; bit++ {
			out = append(out, (v>>uint(bit))&1 == 1)
		}
	}
	return out[:numBits], nil
}
