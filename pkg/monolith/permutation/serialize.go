package permutation

import (
	"encoding/binary"
	"fmt"

	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/field"
)

// headerLen is the fixed-size prefix of the canonical Params encoding:
// bar_per_round (1 byte) + rounds (1 byte) + state_size (4 bytes LE).
const headerLen = 1 + 1 + 4

// MarshalBinary encodes Params as bar_per_round (1 byte), rounds (1 byte),
// state_size (4 bytes LE), then R*t field elements, each 8 bytes LE.
func (p *Params) MarshalBinary() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	out := make([]byte, headerLen+int(p.RoundsCount)*int(p.StateSize)*8)
	out[0] = p.BarPerRound
	out[1] = p.RoundsCount
	binary.LittleEndian.PutUint32(out[2:6], p.StateSize)

	offset := headerLen
	for _, row := range p.RoundConstants {
		for _, e := range row {
			b := e.ToBytes()
			copy(out[offset:offset+8], b[:])
			offset += 8
		}
	}
	return out, nil
}

// UnmarshalBinary decodes the encoding produced by MarshalBinary, rejecting
// malformed input with ParamDeserializationError.
func (p *Params) UnmarshalBinary(data []byte) error {
	if len(data) < headerLen {
		return Error{Kind: ParamDeserializationError, Message: fmt.Sprintf("data too short: %d bytes", len(data))}
	}

	barPerRound := data[0]
	rounds := data[1]
	stateSize := binary.LittleEndian.Uint32(data[2:6])

	expectedLen := headerLen + int(rounds)*int(stateSize)*8
	if len(data) != expectedLen {
		return Error{Kind: ParamDeserializationError, Message: fmt.Sprintf("data length %d does not match expected %d", len(data), expectedLen)}
	}

	roundConstants := make([][]field.Element, rounds)
	offset := headerLen
	for r := 0; r < int(rounds); r++ {
		row := make([]field.Element, stateSize)
		for i := range row {
			var word [8]byte
			copy(word[:], data[offset:offset+8])
			e, ok := field.FromRandomBytes(word)
			if !ok {
				return Error{Kind: ParamDeserializationError, Message: fmt.Sprintf("round constant word at round %d, lane %d is not canonical (>= P)", r, i)}
			}
			row[i] = e
			offset += 8
		}
		roundConstants[r] = row
	}

	decoded := Params{
		BarPerRound:    barPerRound,
		RoundsCount:    rounds,
		StateSize:      stateSize,
		RoundConstants: roundConstants,
	}
	if err := decoded.Validate(); err != nil {
		if e, ok := err.(Error); ok {
			return Error{Kind: ParamDeserializationError, Message: e.Message}
		}
		return err
	}

	*p = decoded
	return nil
}
