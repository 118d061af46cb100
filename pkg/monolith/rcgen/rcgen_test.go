package rcgen

import "testing"

func TestDeriveWidth12Deterministic(t *testing.T) {
	p1, err := DeriveWidth12()
	if err != nil {
		t.Fatalf("DeriveWidth12: %v", err)
	}
	p2, err := DeriveWidth12()
	if err != nil {
		t.Fatalf("DeriveWidth12: %v", err)
	}

	if len(p1.RoundConstants) != len(p2.RoundConstants) {
		t.Fatalf("round constant vector counts differ: %d vs %d", len(p1.RoundConstants), len(p2.RoundConstants))
	}
	for r := range p1.RoundConstants {
		for i := range p1.RoundConstants[r] {
			if !p1.RoundConstants[r][i].Equal(p2.RoundConstants[r][i]) {
				t.Fatalf("round %d lane %d differs between two setup calls", r, i)
			}
		}
	}
}

func TestDeriveWidth12Shape(t *testing.T) {
	params, err := DeriveWidth12()
	if err != nil {
		t.Fatalf("DeriveWidth12: %v", err)
	}

	if params.StateSize != 12 {
		t.Errorf("StateSize = %d, want 12", params.StateSize)
	}
	if int(params.RoundsCount) != len(params.RoundConstants) {
		t.Errorf("RoundsCount = %d, but %d round constant vectors", params.RoundsCount, len(params.RoundConstants))
	}
	last := params.RoundConstants[len(params.RoundConstants)-1]
	for i, e := range last {
		if !e.IsZero() {
			t.Errorf("final round constant vector lane %d is non-zero", i)
		}
	}
	for r := 0; r < len(params.RoundConstants)-1; r++ {
		if len(params.RoundConstants[r]) != 12 {
			t.Errorf("round %d has %d lanes, want 12", r, len(params.RoundConstants[r]))
		}
	}
}

func TestDeriveWidth8DiffersFromWidth12(t *testing.T) {
	p8, err := DeriveWidth8()
	if err != nil {
		t.Fatalf("DeriveWidth8: %v", err)
	}
	p12, err := DeriveWidth12()
	if err != nil {
		t.Fatalf("DeriveWidth12: %v", err)
	}

	if p8.StateSize == p12.StateSize {
		t.Error("width-8 and width-12 params should have different state sizes")
	}
	// The two instances share the "Monolith" prefix and differ only in the
	// state-size byte of the domain tag, so their first round constants
	// must not coincidentally match lane-for-lane within the shared prefix
	// length.
	first8 := p8.RoundConstants[0]
	first12 := p12.RoundConstants[0]
	identical := true
	for i := 0; i < len(first8) && i < len(first12); i++ {
		if !first8[i].Equal(first12[i]) {
			identical = false
			break
		}
	}
	if identical {
		t.Error("width-8 and width-12 round constants should diverge due to the state-size domain tag byte")
	}
}
