package mdslayer

import (
	"testing"

	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/field"
)

func elements(vals ...uint64) []field.Element {
	out := make([]field.Element, len(vals))
	for i, v := range vals {
		out[i] = field.New(v)
	}
	return out
}

func TestWidth12FirstColumn(t *testing.T) {
	x := elements(1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	Multiply(x)

	want := []uint64{7, 8, 21, 22, 6, 7, 9, 10, 13, 26, 8, 23}
	for i, w := range want {
		if x[i].Value() != w {
			t.Errorf("lane %d: got %d, want %d", i, x[i].Value(), w)
		}
	}
}

func TestDirectAndAccumulatorAgreeWidth12(t *testing.T) {
	x1 := elements(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)
	x2 := make([]field.Element, len(x1))
	copy(x2, x1)

	Multiply(x1)
	MultiplyAccumulate(x2)

	for i := range x1 {
		if !x1[i].Equal(x2[i]) {
			t.Errorf("lane %d: direct=%v accumulate=%v", i, x1[i], x2[i])
		}
	}
}

func TestDirectAndAccumulatorAgreeWidth8(t *testing.T) {
	x1 := elements(100, 200, 300, 400, 500, 600, 700, 800)
	x2 := make([]field.Element, len(x1))
	copy(x2, x1)

	Multiply(x1)
	MultiplyAccumulate(x2)

	for i := range x1 {
		if !x1[i].Equal(x2[i]) {
			t.Errorf("lane %d: direct=%v accumulate=%v", i, x1[i], x2[i])
		}
	}
}

func TestMultiplyWithRCAddsConstants(t *testing.T) {
	x := elements(1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	rc := elements(100, 200, 300, 400, 500, 600, 700, 800, 900, 1000, 1100, 1200)

	plain := make([]field.Element, len(x))
	copy(plain, x)
	Multiply(plain)

	withRC := make([]field.Element, len(x))
	copy(withRC, x)
	MultiplyWithRC(withRC, rc)

	for i := range plain {
		if !withRC[i].Equal(plain[i].Add(rc[i])) {
			t.Errorf("lane %d: MultiplyWithRC should equal Multiply + rc", i)
		}
	}
}

func TestUnsupportedWidthPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unsupported width")
		}
	}()
	x := elements(1, 2, 3)
	Multiply(x)
}
