// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package x64asm

// Register index constants, shared across every general-purpose width
// (spec.md §3.1: "a GP register's identity is a small integer, reused
// across every width view of that register").
const (
	RegRAX uint8 = iota
	RegRCX
	RegRDX
	RegRBX
	RegRSP
	RegRBP
	RegRSI
	RegRDI
	RegR8
	RegR9
	RegR10
	RegR11
	RegR12
	RegR13
	RegR14
	RegR15
)

// Segment register indices.
const (
	RegES uint8 = iota
	RegCS
	RegSS
	RegDS
	RegFS
	RegGS
)

// Constructors for each register-lens Operand, one per width named in
// spec.md §3.2.

func Rh(idx uint8) Operand   { return reg(TypeRh, idx) }
func RbReg(idx uint8) Operand { return reg(TypeRb, idx) }
func RlReg(idx uint8) Operand { return reg(TypeRl, idx) }
func R16(idx uint8) Operand  { return reg(TypeR16, idx) }
func R32(idx uint8) Operand  { return reg(TypeR32, idx) }
func R64(idx uint8) Operand  { return reg(TypeR64, idx) }
func MM(idx uint8) Operand   { return reg(TypeMM, idx) }
func ST(idx uint8) Operand   { return reg(TypeST, idx) }
func SregReg(idx uint8) Operand { return reg(TypeSreg, idx) }
func XMM(idx uint8) Operand  { return reg(TypeXMM, idx) }
func YMM(idx uint8) Operand  { return reg(TypeYMM, idx) }

// Singleton registers: the handful of GP/vector/FPU registers the ISA
// hard-codes into specific opcodes (spec.md §3.1's "implicit singleton"
// types).
var (
	AL   = Operand{Type: TypeAL}
	CL   = Operand{Type: TypeCL, Value: 1}
	AX   = Operand{Type: TypeAX}
	DX   = Operand{Type: TypeDX, Value: 2}
	EAX  = Operand{Type: TypeEAX}
	RAX  = Operand{Type: TypeRAX}
	FS   = Operand{Type: TypeFS, Value: uint64(RegFS)}
	GS   = Operand{Type: TypeGS, Value: uint64(RegGS)}
	ST0  = Operand{Type: TypeST0}
	XMM0 = Operand{Type: TypeXMM0}
)

// rls, rhs, rbs, r16s, r32s, r64s, mms, sts, sregs, xmms, ymms are the
// homogeneous sequences of every register at a given width, in encoding
// order (spec.md §6.1).
var (
	rls  = [4]Operand{RlReg(0), RlReg(1), RlReg(2), RlReg(3)}
	rhs  = [4]Operand{Rh(4), Rh(5), Rh(6), Rh(7)}
	rbs  = buildRegSlice(RbReg, 16)
	r16s = buildRegSlice(R16, 16)
	r32s = buildRegSlice(R32, 16)
	r64s = buildRegSlice(R64, 16)
	mms  = buildRegSlice(MM, 8)
	sts  = buildRegSlice(ST, 8)
	sregs = buildRegSlice(SregReg, 6)
	xmms  = buildRegSlice(XMM, 16)
	ymms  = buildRegSlice(YMM, 16)
)

func buildRegSlice(ctor func(uint8) Operand, n int) []Operand {
	out := make([]Operand, n)
	for i := 0; i < n; i++ {
		out[i] = ctor(uint8(i))
	}
	return out
}

// eflags is every EFLAGS bitfield in bit-position order (spec.md §6.1,
// grounded in original_source/src/constants.h's eflags_* accessors).
var eflags = []Flag{
	FlagCF, FlagRes1, FlagPF, FlagRes3, FlagAF, FlagRes5, FlagZF, FlagSF,
	FlagTF, FlagIF, FlagDF, FlagOF, FlagIOPL, FlagNT, FlagRes15, FlagRF,
	FlagVM, FlagAC, FlagVIF, FlagVIP, FlagID,
}

// fpuControl is the FPU control word's bitfields in order.
var fpuControl = []Flag{
	FlagFPUControlIM, FlagFPUControlDM, FlagFPUControlZM, FlagFPUControlOM,
	FlagFPUControlUM, FlagFPUControlPM, FlagFPUControlRes6, FlagFPUControlRes7,
	FlagFPUControlPC, FlagFPUControlRC, FlagFPUControlX, FlagFPUControlRes13,
	FlagFPUControlRes14, FlagFPUControlRes15,
}

// fpuStatus is the FPU status word's bitfields in order.
var fpuStatus = []Flag{
	FlagFPUStatusIE, FlagFPUStatusDE, FlagFPUStatusZE, FlagFPUStatusOE,
	FlagFPUStatusUE, FlagFPUStatusPE, FlagFPUStatusSF, FlagFPUStatusES,
	FlagFPUStatusC0, FlagFPUStatusC1, FlagFPUStatusC2, FlagFPUStatusTOP,
	FlagFPUStatusC3, FlagFPUStatusB,
}

// fpuTags is the FPU tag word's eight per-slot fields.
var fpuTags = []Flag{
	FlagFPUTag0, FlagFPUTag1, FlagFPUTag2, FlagFPUTag3,
	FlagFPUTag4, FlagFPUTag5, FlagFPUTag6, FlagFPUTag7,
}

// mxcsr is the MXCSR register's bitfields in order.
var mxcsr = []Flag{
	FlagMXCSRIE, FlagMXCSRDE, FlagMXCSRZE, FlagMXCSROE, FlagMXCSRUE, FlagMXCSRPE,
	FlagMXCSRDAZ, FlagMXCSRIM, FlagMXCSRDM, FlagMXCSRZM, FlagMXCSROM, FlagMXCSRUM,
	FlagMXCSRPM, FlagMXCSRRC, FlagMXCSRFZ,
}
