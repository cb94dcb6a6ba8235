// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package x64asm

import "testing"

func TestRegSetUnionSubsetEqual(t *testing.T) {
	a := EmptyRegSet().withR64(RegRAX).withXMM(1)
	b := EmptyRegSet().withR64(RegRBX)
	u := a.Union(b)

	if !a.Subset(u) || !b.Subset(u) {
		t.Fatalf("Union result is not a superset of its inputs")
	}
	if u.Subset(a) {
		t.Fatalf("Union result should not be a subset of one of its inputs")
	}
	if !u.Equal(u) {
		t.Fatalf("Equal(self) = false")
	}
	if EmptyRegSet().Subset(a) != true {
		t.Fatalf("the empty set must be a subset of everything")
	}
}

func TestRegSetNarrowDoesNotImplyWide(t *testing.T) {
	s := EmptyRegSet().withR32(RegRAX)
	if s.ContainsR64(RegRAX) {
		t.Fatalf("inserting at R32 must not imply membership at R64")
	}
	if !s.ContainsR32(RegRAX) {
		t.Fatalf("inserting at R32 must imply membership at R32")
	}
}

func TestInsertOperandLenses(t *testing.T) {
	tests := []struct {
		name string
		op   Operand
		test func(RegSet) bool
	}{
		{"al", AL, func(s RegSet) bool { return s.ContainsRl(0) }},
		{"rh", Rh(5), func(s RegSet) bool { return s.ContainsRh(5) }},
		{"rb", RbReg(9), func(s RegSet) bool { return s.ContainsRb(9) }},
		{"r16", R16(3), func(s RegSet) bool { return s.ContainsR16(3) }},
		{"eax", EAX, func(s RegSet) bool { return s.ContainsR32(0) }},
		{"r64", R64(7), func(s RegSet) bool { return s.ContainsR64(7) }},
		{"xmm0", XMM0, func(s RegSet) bool { return s.ContainsXMM(0) }},
		{"ymm", YMM(4), func(s RegSet) bool { return s.ContainsYMM(4) }},
		{"mm", MM(2), func(s RegSet) bool { return s.ContainsMM(2) }},
		{"st0", ST0, func(s RegSet) bool { return s.ContainsST(0) }},
		{"fs", FS, func(s RegSet) bool { return s.ContainsSreg(RegFS) }},
		{"imm32 is a no-op", Operand{Type: TypeImm32, Value: 42}, func(s RegSet) bool { return s.Empty() }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := EmptyRegSet().insertOperand(test.op)
			if !test.test(s) {
				t.Errorf("insertOperand(%v) produced unexpected RegSet %v", test.op, s)
			}
		})
	}
}

func TestInsertWidened(t *testing.T) {
	if s := EmptyRegSet().insertWidened(EAX); !s.ContainsR64(0) {
		t.Errorf("insertWidened(EAX) should set R64(0)")
	}
	if s := EmptyRegSet().insertWidened(XMM(3)); !s.ContainsYMM(3) {
		t.Errorf("insertWidened(XMM(3)) should set YMM(3)")
	}
}

func TestInsertWidenedPanicsOnUnsupportedType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected insertWidened to panic for a non-widenable type")
		}
	}()

	EmptyRegSet().insertWidened(R64(0))
}

func TestInsertUndefWidened(t *testing.T) {
	mustSet := EmptyRegSet().insertUndefWidened(XMM(2))
	maybeSet := EmptyRegSet().insertUndefWidened(XMM0)

	if !mustSet.ContainsYMM(2) {
		t.Errorf("XMM undef should widen to YMM")
	}
	if !maybeSet.ContainsYMM(0) {
		t.Errorf("XMM0 undef should widen to YMM(0)")
	}

	if s := EmptyRegSet().insertUndefWidened(R64(1)); !s.ContainsR64(1) {
		t.Errorf("non-XMM undef should fall back to insertOperand")
	}
}
