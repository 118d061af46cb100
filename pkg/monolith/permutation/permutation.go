// Package permutation implements the Monolith permutation P over the
// Goldilocks field, for state widths t ∈ {8, 12}: the initial linear layer
// ("concrete"), followed by R rounds of {bars, bricks, concrete with round
// constant}.
package permutation

import (
	"fmt"

	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/field"
	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/mdslayer"
)

// BarPerRound is the number of state lanes the bar S-box is applied to in
// every round.
const BarPerRound = 4

// Rounds is the total round count R.
const Rounds = 6

// Params are the immutable parameters of one Monolith instance: the state
// width, round count, bars-per-round, and the derived round constants.
// Params are constructed once (see package rcgen) and are safe to share
// across goroutines; nothing here is ever mutated after construction.
type Params struct {
	BarPerRound    uint8
	RoundsCount    uint8
	StateSize      uint32
	RoundConstants [][]field.Element // len == RoundsCount, each of length StateSize; the last is all-zero.
}

// Validate checks the structural invariants required of Params: a supported
// state width, a round-constant matrix matching the round count and state
// width, and an all-zero final round-constant row.
func (p *Params) Validate() error {
	if p.StateSize != 8 && p.StateSize != 12 {
		return Error{Kind: InvalidWidth, Message: fmt.Sprintf("unsupported state size %d", p.StateSize)}
	}
	if len(p.RoundConstants) != int(p.RoundsCount) {
		return Error{Kind: ParamDeserializationError, Message: "round constant vector count does not match rounds"}
	}
	for i, rc := range p.RoundConstants {
		if len(rc) != int(p.StateSize) {
			return Error{Kind: ParamDeserializationError, Message: fmt.Sprintf("round constant vector %d has wrong length", i)}
		}
	}
	if len(p.RoundConstants) == 0 {
		return Error{Kind: ParamDeserializationError, Message: "no round constant vectors"}
	}
	last := p.RoundConstants[len(p.RoundConstants)-1]
	for _, e := range last {
		if !e.IsZero() {
			return Error{Kind: ParamDeserializationError, Message: "final round constant vector must be all-zero"}
		}
	}
	return nil
}

// ErrorKind enumerates the core's error conditions.
type ErrorKind int

const (
	// InvalidWidth is returned when a permutation is requested for t ∉ {8, 12}.
	InvalidWidth ErrorKind = iota
	// ParamDeserializationError is returned when canonical parameter decoding fails.
	ParamDeserializationError
	// XofRead is returned when the underlying XOF fails to produce bytes (should never
	// happen for SHAKE128; treated as fatal by every caller).
	XofRead
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidWidth:
		return "InvalidWidth"
	case ParamDeserializationError:
		return "ParamDeserializationError"
	case XofRead:
		return "XofRead"
	default:
		return "Unknown"
	}
}

// Error is the single typed error returned across the monolith module.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("monolith: %s: %s", e.Kind, e.Message)
}

// Bricks applies the quadratic diffusion layer in place:
// state[i] += state[i-1]^2, for i from t-1 down to 1. The descending order
// makes every update read the unmodified state[i-1]; an ascending loop would
// read already-updated lanes and give a different result.
func Bricks(state []field.Element) {
	for i := len(state) - 1; i >= 1; i-- {
		state[i] = state[i].Add(state[i-1].Square())
	}
}

// Concrete applies the MDS linear layer with no round-constant addition.
func Concrete(state []field.Element) {
	mdslayer.Multiply(state)
}

// ConcreteWRC applies the MDS linear layer and adds the round constant.
func ConcreteWRC(state []field.Element, rc []field.Element) {
	mdslayer.MultiplyWithRC(state, rc)
}

// Permute applies the full Monolith permutation to state in place:
// concrete, then R rounds of {bars, bricks, concrete_wrc}.
func Permute(state []field.Element, params *Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if len(state) != int(params.StateSize) {
		return Error{Kind: InvalidWidth, Message: fmt.Sprintf("state has %d lanes, params expect %d", len(state), params.StateSize)}
	}

	Concrete(state)

	for r := 0; r < int(params.RoundsCount); r++ {
		Bars(state, int(params.BarPerRound))
		Bricks(state)
		ConcreteWRC(state, params.RoundConstants[r])
	}
	return nil
}

// Trace applies the permutation but also returns the state after the
// initial concrete layer and after every round, for inspection by tests or
// an arithmetization mirror.
func Trace(state []field.Element, params *Params) ([][]field.Element, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(state) != int(params.StateSize) {
		return nil, Error{Kind: InvalidWidth, Message: fmt.Sprintf("state has %d lanes, params expect %d", len(state), params.StateSize)}
	}

	trace := make([][]field.Element, 0, int(params.RoundsCount)+1)
	working := append([]field.Element(nil), state...)

	Concrete(working)
	trace = append(trace, append([]field.Element(nil), working...))

	for r := 0; r < int(params.RoundsCount); r++ {
		Bars(working, int(params.BarPerRound))
		Bricks(working)
		ConcreteWRC(working, params.RoundConstants[r])
		trace = append(trace, append([]field.Element(nil), working...))
	}

	copy(state, working)
	return trace, nil
}
