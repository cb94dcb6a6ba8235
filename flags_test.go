// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package x64asm

import "testing"

func TestFlagSetBasics(t *testing.T) {
	s := NewFlagSet(FlagCF, FlagOF, FlagMXCSRFZ)

	if !s.Contains(FlagCF) || !s.Contains(FlagOF) || !s.Contains(FlagMXCSRFZ) {
		t.Fatalf("NewFlagSet did not retain all its members")
	}
	if s.Contains(FlagZF) {
		t.Fatalf("FlagSet should not contain a flag it was never given")
	}
	if s.Empty() {
		t.Fatalf("a FlagSet with members must not report Empty")
	}
	if !EmptyFlagSet().Empty() {
		t.Fatalf("EmptyFlagSet must report Empty")
	}
}

func TestFlagSetUnion(t *testing.T) {
	a := NewFlagSet(FlagCF)
	b := NewFlagSet(FlagFPUStatusB)
	u := a.Union(b)

	if !u.Contains(FlagCF) || !u.Contains(FlagFPUStatusB) {
		t.Fatalf("Union must contain every member of both operands")
	}
}

func TestFlagSetHighBitField(t *testing.T) {
	// FlagFPUTag7 is bit 57, in the lo word; FlagMXCSRDAZ (bit 64) and
	// beyond, such as FlagMXCSRFZ (bit 72), live in the hi word.
	s := NewFlagSet(FlagFPUTag7, FlagMXCSRFZ)
	if !s.Contains(FlagFPUTag7) || !s.Contains(FlagMXCSRFZ) {
		t.Fatalf("flags beyond bit 63 must round trip through the hi word")
	}
}

func TestFlagStringKnownAndUnknown(t *testing.T) {
	if FlagCF.String() != "cf" {
		t.Errorf("FlagCF.String() = %q, want %q", FlagCF.String(), "cf")
	}
	if got := numFlags.String(); got == "" {
		t.Errorf("String() for an out-of-table Flag should not be empty")
	}
}
