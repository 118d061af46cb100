package duplex

import (
	"testing"

	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/field"
	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/permutation"
)

func testParams(t *testing.T, width uint32) *permutation.Params {
	t.Helper()
	rc := make([][]field.Element, permutation.Rounds)
	seed := uint64(7)
	for r := 0; r < permutation.Rounds; r++ {
		row := make([]field.Element, width)
		if r == permutation.Rounds-1 {
			rc[r] = row
			continue
		}
		for i := range row {
			seed = seed*6364136223846793005 + 1442695040888963407
			row[i] = field.New(seed % field.P)
		}
		rc[r] = row
	}
	return &permutation.Params{
		BarPerRound:    permutation.BarPerRound,
		RoundsCount:    permutation.Rounds,
		StateSize:      width,
		RoundConstants: rc,
	}
}

func newTestSponge(t *testing.T) *Sponge {
	t.Helper()
	params := testParams(t, 12)
	sponge, err := New(Config{Rate: 8, Capacity: 4, Params: params})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return sponge
}

func TestNewRejectsWidthMismatch(t *testing.T) {
	params := testParams(t, 12)
	if _, err := New(Config{Rate: 4, Capacity: 4, Params: params}); err == nil {
		t.Error("expected error when rate+capacity != permutation width")
	}
}

func TestAbsorbThenSqueezeDeterministic(t *testing.T) {
	input := make([]field.Element, 5)
	for i := range input {
		input[i] = field.New(uint64(i + 1))
	}

	s1 := newTestSponge(t)
	if err := s1.Absorb(input); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	out1, err := s1.SqueezeFieldElements(6)
	if err != nil {
		t.Fatalf("SqueezeFieldElements: %v", err)
	}

	s2 := newTestSponge(t)
	if err := s2.Absorb(input); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	out2, err := s2.SqueezeFieldElements(6)
	if err != nil {
		t.Fatalf("SqueezeFieldElements: %v", err)
	}

	for i := range out1 {
		if !out1[i].Equal(out2[i]) {
			t.Errorf("lane %d differs between identical runs", i)
		}
	}
}

func TestAbsorbDistinguishesInputs(t *testing.T) {
	a := []field.Element{field.New(1), field.New(2)}
	b := []field.Element{field.New(1), field.New(3)}

	sa := newTestSponge(t)
	if err := sa.Absorb(a); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	outA, err := sa.SqueezeFieldElements(4)
	if err != nil {
		t.Fatalf("SqueezeFieldElements: %v", err)
	}

	sb := newTestSponge(t)
	if err := sb.Absorb(b); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	outB, err := sb.SqueezeFieldElements(4)
	if err != nil {
		t.Fatalf("SqueezeFieldElements: %v", err)
	}

	same := true
	for i := range outA {
		if !outA[i].Equal(outB[i]) {
			same = false
			break
		}
	}
	if same {
		t.Error("distinct inputs produced identical squeezed output")
	}
}

func TestAbsorbAcrossMultipleBlocksPermutes(t *testing.T) {
	// Rate is 8; absorb 20 elements to force at least two internal permutes.
	input := make([]field.Element, 20)
	for i := range input {
		input[i] = field.New(uint64(i))
	}
	s := newTestSponge(t)
	if err := s.Absorb(input); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	if s.mode.kind != absorbing {
		t.Fatalf("expected to remain in absorbing mode after Absorb")
	}
}

func TestSqueezeMoreThanRatePermutes(t *testing.T) {
	s := newTestSponge(t)
	if err := s.Absorb([]field.Element{field.New(1)}); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	// Squeeze more than the rate (8) to force an internal permute mid-squeeze.
	out, err := s.SqueezeFieldElements(10)
	if err != nil {
		t.Fatalf("SqueezeFieldElements: %v", err)
	}
	if len(out) != 10 {
		t.Fatalf("got %d elements, want 10", len(out))
	}
}

func TestSqueezeBytesLength(t *testing.T) {
	s := newTestSponge(t)
	if err := s.Absorb([]field.Element{field.New(42)}); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	bytes, err := s.SqueezeBytes(37)
	if err != nil {
		t.Fatalf("SqueezeBytes: %v", err)
	}
	if len(bytes) != 37 {
		t.Errorf("len(bytes) = %d, want 37", len(bytes))
	}
}

func TestSqueezeBitsLength(t *testing.T) {
	s := newTestSponge(t)
	if err := s.Absorb([]field.Element{field.New(42)}); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	bits, err := s.SqueezeBits(100)
	if err != nil {
		t.Fatalf("SqueezeBits: %v", err)
	}
	if len(bits) != 100 {
		t.Errorf("len(bits) = %d, want 100", len(bits))
	}
}

func TestAbsorbSplitMatchesAbsorbWhole(t *testing.T) {
	a, b, c := field.New(11), field.New(22), field.New(33)

	split := newTestSponge(t)
	if err := split.Absorb([]field.Element{a, b}); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	if err := split.Absorb([]field.Element{c}); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	splitOut, err := split.SqueezeFieldElements(4)
	if err != nil {
		t.Fatalf("SqueezeFieldElements: %v", err)
	}

	whole := newTestSponge(t)
	if err := whole.Absorb([]field.Element{a, b, c}); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	wholeOut, err := whole.SqueezeFieldElements(4)
	if err != nil {
		t.Fatalf("SqueezeFieldElements: %v", err)
	}

	for i := range splitOut {
		if !splitOut[i].Equal(wholeOut[i]) {
			t.Errorf("lane %d: absorb([a,b]);absorb([c]) = %v, absorb([a,b,c]) = %v", i, splitOut[i], wholeOut[i])
		}
	}
}

func TestAbsorbSplitAcrossManyCallsMatchesWhole(t *testing.T) {
	input := make([]field.Element, 9)
	for i := range input {
		input[i] = field.New(uint64(i + 1))
	}

	split := newTestSponge(t)
	for _, e := range input {
		if err := split.Absorb([]field.Element{e}); err != nil {
			t.Fatalf("Absorb: %v", err)
		}
	}
	splitOut, err := split.SqueezeFieldElements(5)
	if err != nil {
		t.Fatalf("SqueezeFieldElements: %v", err)
	}

	whole := newTestSponge(t)
	if err := whole.Absorb(input); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	wholeOut, err := whole.SqueezeFieldElements(5)
	if err != nil {
		t.Fatalf("SqueezeFieldElements: %v", err)
	}

	for i := range splitOut {
		if !splitOut[i].Equal(wholeOut[i]) {
			t.Errorf("lane %d: one-at-a-time absorb = %v, whole absorb = %v", i, splitOut[i], wholeOut[i])
		}
	}
}

func TestEmptyAbsorbIsNoOp(t *testing.T) {
	s := newTestSponge(t)
	before := append([]field.Element(nil), s.state...)
	if err := s.Absorb(nil); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	for i, e := range s.state {
		if !e.Equal(before[i]) {
			t.Errorf("lane %d changed on empty absorb", i)
		}
	}
}
