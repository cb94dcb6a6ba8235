// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package x64asm

import "testing"

// TestPredefinedSingletonsCheck covers spec.md §8's universal invariant:
// "for every predefined constant C: C.check() holds".
func TestPredefinedSingletonsCheck(t *testing.T) {
	singletons := []Operand{AL, CL, AX, DX, EAX, RAX, FS, GS, ST0, XMM0}
	for _, o := range singletons {
		if !o.Check() {
			t.Errorf("%v.Check() = false, want true", o)
		}
	}
}

// TestPredefinedSequencesCheck covers the same invariant for the
// homogeneous register sequences named in spec.md §6.1.
func TestPredefinedSequencesCheck(t *testing.T) {
	sequences := map[string][]Operand{
		"rls":   rls[:],
		"rhs":   rhs[:],
		"rbs":   rbs,
		"r16s":  r16s,
		"r32s":  r32s,
		"r64s":  r64s,
		"mms":   mms,
		"sts":   sts,
		"sregs": sregs,
		"xmms":  xmms,
		"ymms":  ymms,
	}

	for name, seq := range sequences {
		for _, o := range seq {
			if !o.Check() {
				t.Errorf("%s: %v.Check() = false, want true", name, o)
			}
		}
	}
}

func TestPredefinedSequencesHaveExpectedLengths(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"rls", len(rls), 4},
		{"rhs", len(rhs), 4},
		{"rbs", len(rbs), 16},
		{"r16s", len(r16s), 16},
		{"r32s", len(r32s), 16},
		{"r64s", len(r64s), 16},
		{"mms", len(mms), 8},
		{"sts", len(sts), 8},
		{"sregs", len(sregs), 6},
		{"xmms", len(xmms), 16},
		{"ymms", len(ymms), 16},
		{"eflags", len(eflags), 21},
		{"fpuControl", len(fpuControl), 14},
		{"fpuStatus", len(fpuStatus), 14},
		{"fpuTags", len(fpuTags), 8},
		{"mxcsr", len(mxcsr), 15},
	}

	for _, test := range tests {
		if test.n != test.want {
			t.Errorf("%s has length %d, want %d", test.name, test.n, test.want)
		}
	}
}

func TestEFLAGSFlagsAllDistinctAndNamed(t *testing.T) {
	seen := NewFlagSet()
	for _, f := range eflags {
		if seen.Contains(f) {
			t.Errorf("flag %s appears more than once in eflags", f)
		}
		seen = seen.With(f)
		if f.String() == "" {
			t.Errorf("flag %v has no name", f)
		}
	}
}
