// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package x64asm

import "fmt"

// Flag is one named bitfield identifier drawn from EFLAGS, the FPU control
// and status words, the FPU tag word, or MXCSR (spec.md §3.4, §6.1). Flags
// are opaque identifiers here: x64asm never emulates instructions, so a
// Flag carries no value, only identity for the purposes of the opcode
// table's touched-flags row.
type Flag uint8

const (
	_ Flag = iota

	// EFLAGS.
	FlagCF
	FlagRes1
	FlagPF
	FlagRes3
	FlagAF
	FlagRes5
	FlagZF
	FlagSF
	FlagTF
	FlagIF
	FlagDF
	FlagOF
	FlagIOPL
	FlagNT
	FlagRes15
	FlagRF
	FlagVM
	FlagAC
	FlagVIF
	FlagVIP
	FlagID

	// FPU control word.
	FlagFPUControlIM
	FlagFPUControlDM
	FlagFPUControlZM
	FlagFPUControlOM
	FlagFPUControlUM
	FlagFPUControlPM
	FlagFPUControlRes6
	FlagFPUControlRes7
	FlagFPUControlPC
	FlagFPUControlRC
	FlagFPUControlX
	FlagFPUControlRes13
	FlagFPUControlRes14
	FlagFPUControlRes15

	// FPU status word.
	FlagFPUStatusIE
	FlagFPUStatusDE
	FlagFPUStatusZE
	FlagFPUStatusOE
	FlagFPUStatusUE
	FlagFPUStatusPE
	FlagFPUStatusSF
	FlagFPUStatusES
	FlagFPUStatusC0
	FlagFPUStatusC1
	FlagFPUStatusC2
	FlagFPUStatusTOP
	FlagFPUStatusC3
	FlagFPUStatusB

	// FPU tag word, one entry per stack slot.
	FlagFPUTag0
	FlagFPUTag1
	FlagFPUTag2
	FlagFPUTag3
	FlagFPUTag4
	FlagFPUTag5
	FlagFPUTag6
	FlagFPUTag7

	// MXCSR.
	FlagMXCSRIE
	FlagMXCSRDE
	FlagMXCSRZE
	FlagMXCSROE
	FlagMXCSRUE
	FlagMXCSRPE
	FlagMXCSRDAZ
	FlagMXCSRIM
	FlagMXCSRDM
	FlagMXCSRZM
	FlagMXCSROM
	FlagMXCSRUM
	FlagMXCSRPM
	FlagMXCSRRC
	FlagMXCSRFZ

	numFlags
)

var flagNames = map[Flag]string{
	FlagCF: "cf", FlagRes1: "res1", FlagPF: "pf", FlagRes3: "res3", FlagAF: "af",
	FlagRes5: "res5", FlagZF: "zf", FlagSF: "sf", FlagTF: "tf", FlagIF: "if",
	FlagDF: "df", FlagOF: "of", FlagIOPL: "iopl", FlagNT: "nt", FlagRes15: "res15",
	FlagRF: "rf", FlagVM: "vm", FlagAC: "ac", FlagVIF: "vif", FlagVIP: "vip", FlagID: "id",

	FlagFPUControlIM: "fpu_control_im", FlagFPUControlDM: "fpu_control_dm",
	FlagFPUControlZM: "fpu_control_zm", FlagFPUControlOM: "fpu_control_om",
	FlagFPUControlUM: "fpu_control_um", FlagFPUControlPM: "fpu_control_pm",
	FlagFPUControlRes6: "fpu_control_res6", FlagFPUControlRes7: "fpu_control_res7",
	FlagFPUControlPC: "fpu_control_pc", FlagFPUControlRC: "fpu_control_rc",
	FlagFPUControlX: "fpu_control_x", FlagFPUControlRes13: "fpu_control_res13",
	FlagFPUControlRes14: "fpu_control_res14", FlagFPUControlRes15: "fpu_control_res15",

	FlagFPUStatusIE: "fpu_status_ie", FlagFPUStatusDE: "fpu_status_de",
	FlagFPUStatusZE: "fpu_status_ze", FlagFPUStatusOE: "fpu_status_oe",
	FlagFPUStatusUE: "fpu_status_ue", FlagFPUStatusPE: "fpu_status_pe",
	FlagFPUStatusSF: "fpu_status_sf", FlagFPUStatusES: "fpu_status_es",
	FlagFPUStatusC0: "fpu_status_c0", FlagFPUStatusC1: "fpu_status_c1",
	FlagFPUStatusC2: "fpu_status_c2", FlagFPUStatusTOP: "fpu_status_top",
	FlagFPUStatusC3: "fpu_status_c3", FlagFPUStatusB: "fpu_status_b",

	FlagFPUTag0: "fpu_tag0", FlagFPUTag1: "fpu_tag1", FlagFPUTag2: "fpu_tag2", FlagFPUTag3: "fpu_tag3",
	FlagFPUTag4: "fpu_tag4", FlagFPUTag5: "fpu_tag5", FlagFPUTag6: "fpu_tag6", FlagFPUTag7: "fpu_tag7",

	FlagMXCSRIE: "mxcsr_ie", FlagMXCSRDE: "mxcsr_de", FlagMXCSRZE: "mxcsr_ze",
	FlagMXCSROE: "mxcsr_oe", FlagMXCSRUE: "mxcsr_ue", FlagMXCSRPE: "mxcsr_pe",
	FlagMXCSRDAZ: "mxcsr_daz", FlagMXCSRIM: "mxcsr_im", FlagMXCSRDM: "mxcsr_dm",
	FlagMXCSRZM: "mxcsr_zm", FlagMXCSROM: "mxcsr_om", FlagMXCSRUM: "mxcsr_um",
	FlagMXCSRPM: "mxcsr_pm", FlagMXCSRRC: "mxcsr_rc", FlagMXCSRFZ: "mxcsr_fz",
}

func (f Flag) String() string {
	if s, ok := flagNames[f]; ok {
		return s
	}

	return fmt.Sprintf("Flag(%d)", uint8(f))
}

// FlagSet is a set over every Flag. It is represented as a 128-bit bitmap
// (two uint64 words), comfortably covering the ~70 named bitfields in
// spec.md §6.1 with room for growth as the opcode table's flag rows are
// filled in.
type FlagSet struct {
	lo, hi uint64
}

// EmptyFlagSet returns the empty FlagSet.
func EmptyFlagSet() FlagSet { return FlagSet{} }

// With returns a FlagSet containing every member of s plus f.
func (s FlagSet) With(f Flag) FlagSet {
	n := uint(f)
	switch {
	case n == 0 || n >= uint(numFlags):
		return s
	case n < 64:
		s.lo |= 1 << n
	default:
		s.hi |= 1 << (n - 64)
	}

	return s
}

// Union returns the union of s and other.
func (s FlagSet) Union(other FlagSet) FlagSet {
	return FlagSet{lo: s.lo | other.lo, hi: s.hi | other.hi}
}

// Contains reports whether f is a member of s.
func (s FlagSet) Contains(f Flag) bool {
	n := uint(f)
	if n == 0 || n >= uint(numFlags) {
		return false
	}
	if n < 64 {
		return s.lo&(1<<n) != 0
	}

	return s.hi&(1<<(n-64)) != 0
}

// Empty reports whether s has no members.
func (s FlagSet) Empty() bool { return s.lo == 0 && s.hi == 0 }

// NewFlagSet returns a FlagSet containing exactly the given flags.
func NewFlagSet(flags ...Flag) FlagSet {
	var s FlagSet
	for _, f := range flags {
		s = s.With(f)
	}

	return s
}
