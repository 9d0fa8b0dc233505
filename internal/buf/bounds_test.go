package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}

func TestMulOverflowSafe(t *testing.T) {
	if got, ok := MulOverflowSafe(0xFFFF, 8); !ok || got != 0xFFFF*8 {
		t.Fatalf("MulOverflowSafe(0xFFFF,8)=%d,%v", got, ok)
	}
	if got, ok := MulOverflowSafe(0, math.MaxInt); !ok || got != 0 {
		t.Fatalf("zero operand should yield 0,true; got %d,%v", got, ok)
	}
	if _, ok := MulOverflowSafe(math.MaxInt/2, 3); ok {
		t.Fatalf("expected overflow")
	}
	if _, ok := MulOverflowSafe(-1, 8); ok {
		t.Fatalf("negative operand should be rejected")
	}
}

func TestCheckListBounds(t *testing.T) {
	end, err := CheckListBounds(94, 78, 2, 8)
	if err != nil || end != 94 {
		t.Fatalf("CheckListBounds exact fit = %d, %v; want 94, nil", end, err)
	}
	if _, err := CheckListBounds(93, 78, 2, 8); err == nil {
		t.Fatalf("expected bounds error one byte short")
	}
	if _, err := CheckListBounds(100, -1, 1, 1); err == nil {
		t.Fatalf("expected negative offset error")
	}
	if _, err := CheckListBounds(100, 0, -1, 1); err == nil {
		t.Fatalf("expected negative count error")
	}
	if _, err := CheckListBounds(100, 0, math.MaxInt, 8); err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestSliceAndHas(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	if got, ok := Slice(data, 1, 3); !ok || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Slice returned unexpected result: %v, %v", got, ok)
	}
	if _, ok := Slice(data, 4, 2); ok {
		t.Fatalf("Slice should fail when extending beyond len")
	}
	if Has(data, 2, 4) {
		t.Fatalf("Has should be false for out-of-bounds range")
	}
	if !Has(data, 2, 1) {
		t.Fatalf("Has should be true for valid range")
	}
	if _, ok := Slice(data, -1, 1); ok {
		t.Fatalf("Slice should reject negative offset")
	}
	if _, ok := Slice(data, 1, -1); ok {
		t.Fatalf("Slice should reject negative length")
	}
	if got, ok := Slice(data, 5, 0); !ok || len(got) != 0 {
		t.Fatalf("empty slice at end should be valid")
	}
}

func TestAlignUp(t *testing.T) {
	cases := map[int]int{0: 0, 1: 4, 4: 4, 13: 16, 16: 16}
	for in, want := range cases {
		if got := AlignUp(in, 4); got != want {
			t.Fatalf("AlignUp(%d,4)=%d want %d", in, got, want)
		}
	}
}
