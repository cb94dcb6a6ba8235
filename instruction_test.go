// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package x64asm

import (
	"strings"
	"testing"
)

// TestXorR64R64SelfXor covers spec.md §8 scenario 1.
func TestXorR64R64SelfXor(t *testing.T) {
	inst := NewInstruction(OpcodeXORR64R64, R64(RegRAX), R64(RegRAX))

	if !inst.Check() {
		t.Fatalf("Check() = false, want true")
	}
	if !inst.MustRead().Empty() {
		t.Errorf("MustRead() = %v, want empty", inst.MustRead())
	}
	if !inst.MustWrite().ContainsR64(RegRAX) {
		t.Errorf("MustWrite() does not contain %%rax")
	}
	if got, want := inst.String(), "xorq %rax, %rax"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

// TestXorRbRbNonSelfXorStillReadsBoth ensures that a non-self xor keeps
// reading both its operands: only the zeroing idiom skips explicit reads.
func TestXorRbRbNonSelfXorStillReadsBoth(t *testing.T) {
	inst := NewInstruction(OpcodeXORRbRb, RbReg(0), RbReg(1))

	if got := inst.MustRead(); !got.ContainsRb(0) || !got.ContainsRb(1) {
		t.Errorf("MustRead() = %v, want it to contain rb(0) and rb(1)", got)
	}
}

// TestAddR32R32ExtendsWrite covers spec.md §8 scenario 2: a MUST_EXTEND
// destination promotes the write to the full 64-bit enclosing register.
func TestAddR32R32ExtendsWrite(t *testing.T) {
	inst := NewInstruction(OpcodeADDR32R32, R32(RegRCX), R32(RegRDX))

	read := inst.MustRead()
	if !read.ContainsR32(RegRCX) || !read.ContainsR32(RegRDX) {
		t.Errorf("MustRead() = %v, want {%%ecx,%%edx}", read)
	}

	write := inst.MustWrite()
	if !write.ContainsR64(RegRCX) {
		t.Errorf("MustWrite() = %v, want the full 64-bit %%rcx from EXTEND", write)
	}
	if write.ContainsR32(RegRCX) {
		t.Errorf("MustWrite() should not also set the narrower R32 bit once widened")
	}
}

// TestMovR64M64ReadsBaseAndWritesDestination covers spec.md §8 scenario 3.
func TestMovR64M64ReadsBaseAndWritesDestination(t *testing.T) {
	rbp := R64(RegRBP)
	mem := M64(Mem{Base: &rbp, Disp: -8})
	inst := NewInstruction(OpcodeMOVR64M64, R64(RegRAX), mem)

	if !inst.Check() {
		t.Fatalf("Check() = false, want true")
	}
	if !inst.MustRead().ContainsR64(RegRBP) {
		t.Errorf("MustRead() does not contain %%rbp, the memory base")
	}
	if !inst.MustWrite().ContainsR64(RegRAX) {
		t.Errorf("MustWrite() does not contain %%rax")
	}
	if got, want := inst.String(), "movq -0x8(%rbp), %rax"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

// TestSelfPxorXmmExtendsToYmm covers spec.md §8 scenario 4.
func TestSelfPxorXmmExtendsToYmm(t *testing.T) {
	inst := NewInstruction(OpcodePXORXMMXMM, XMM(3), XMM(3))

	if !inst.MustRead().Empty() {
		t.Errorf("MustRead() = %v, want empty", inst.MustRead())
	}
	write := inst.MustWrite()
	if !write.ContainsYMM(3) {
		t.Errorf("MustWrite() = %v, want it to contain %%ymm3 via EXTEND", write)
	}
}

// TestRipRelativeMemory covers spec.md §8 scenario 5.
func TestRipRelativeMemory(t *testing.T) {
	mem := Mem{RIPRelative: true, Disp: 0x20}
	op := M64(mem)

	if !op.Check() {
		t.Fatalf("Check() = false for a valid RIP-relative operand")
	}

	var sb strings.Builder
	op.WriteATT(&sb)
	if got, want := sb.String(), "0x20(%rip)"; got != want {
		t.Errorf("WriteATT() = %q, want %q", got, want)
	}

	rax := R64(RegRAX)
	bad := M64(Mem{RIPRelative: true, Base: &rax})
	if bad.Check() {
		t.Errorf("Check() = true for a RIP-relative operand with a base, want false")
	}
}

// TestLabelDefn covers spec.md §8 scenario 6.
func TestLabelDefn(t *testing.T) {
	inst := NewInstruction(OpcodeLabelDefn, Operand{Type: TypeLabel, Value: 7})

	if inst.Arity() != 1 {
		t.Fatalf("Arity() = %d, want 1", inst.Arity())
	}
	if !inst.Check() {
		t.Fatalf("Check() = false, want true")
	}
	if got, want := inst.String(), "L7:"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestInstructionCheckRejectsWrongSlotType(t *testing.T) {
	inst := NewInstruction(OpcodeXORR64R64, R64(RegRAX), R64(RegRAX))
	inst.Operands[0] = R32(RegRAX)

	if inst.Check() {
		t.Fatalf("Check() = true for an operand whose type does not match its slot")
	}
}

func TestMustReadSubsetMaybeReadAcrossTable(t *testing.T) {
	for op := Opcode(0); op < numOpcodes; op++ {
		inst := zeroInstructionFor(op)

		if !inst.MustRead().Subset(inst.MaybeRead()) {
			t.Errorf("%s: MustRead() is not a subset of MaybeRead()", inst.Mnemonic())
		}
		if !inst.MustWrite().Subset(inst.MaybeWrite()) {
			t.Errorf("%s: MustWrite() is not a subset of MaybeWrite()", inst.Mnemonic())
		}
		if !inst.MustUndef().Subset(inst.MaybeUndef()) {
			t.Errorf("%s: MustUndef() is not a subset of MaybeUndef()", inst.Mnemonic())
		}
	}
}

func TestArityMatchesTableForEveryOpcode(t *testing.T) {
	for op := Opcode(0); op < numOpcodes; op++ {
		row := opcodeTable[op]
		if row.arity > 4 {
			t.Errorf("opcode %d: arity %d exceeds the 4-slot maximum", op, row.arity)
		}
		if row.memSlot >= 0 {
			slotType := row.operand[row.memSlot]
			if !slotType.IsMemory() && !slotType.IsMoffs() {
				t.Errorf("opcode %d: memSlot %d is type %s, want a memory or moffs type", op, row.memSlot, slotType)
			}
		}
	}
}

func TestInstructionOrderingTotalAndConsistentWithEqual(t *testing.T) {
	a := NewInstruction(OpcodeXORR64R64, R64(RegRAX), R64(RegRAX))
	b := NewInstruction(OpcodeXORR64R64, R64(RegRBX), R64(RegRBX))
	c := NewInstruction(OpcodeXORR64R64, R64(RegRAX), R64(RegRAX))

	if !a.Less(b) && !b.Less(a) {
		t.Fatalf("neither a < b nor b < a: ordering is not total")
	}
	if a.Less(b) == b.Less(a) {
		t.Fatalf("a.Less(b) and b.Less(a) must not both be true")
	}
	if !a.Equal(c) {
		t.Fatalf("a and c should be Equal")
	}
	if a.Less(c) || c.Less(a) {
		t.Fatalf("Equal instructions must not report Less in either direction")
	}
	if a.Hash() != c.Hash() {
		t.Fatalf("Hash() must agree for Equal instructions")
	}
}

func TestWriteATTDeterministic(t *testing.T) {
	inst := NewInstruction(OpcodeADDR64R64, R64(RegRCX), R64(RegRDX))
	if inst.String() != inst.String() {
		t.Fatalf("WriteATT output is not deterministic")
	}
	if got, want := inst.String(), "addq %rdx, %rcx"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCpuidImplicitSets(t *testing.T) {
	inst := NewInstruction(OpcodeCPUID)

	read := inst.MustRead()
	if !read.ContainsR32(RegRAX) || !read.ContainsR32(RegRCX) {
		t.Errorf("CPUID MustRead() = %v, want {%%eax,%%ecx}", read)
	}
	write := inst.MustWrite()
	for _, r := range []uint8{RegRAX, RegRBX, RegRCX, RegRDX} {
		if !write.ContainsR32(r) {
			t.Errorf("CPUID MustWrite() = %v, missing register %d", write, r)
		}
	}
}

// zeroInstructionFor builds a well-typed Instruction for op so that table
// sweeps can exercise every opcode without hand-listing each one's
// operands. Register-family slots get their own slot index as register
// index (0, 1, 2, ...), so no two slots name the same register and the
// self-xor special case is never triggered; singleton and literal slots
// get fixed payloads, memory slots get a bare displacement, and moffs
// slots a bare address.
func zeroInstructionFor(op Opcode) Instruction {
	row := opcodeTable[op]

	var inst Instruction
	inst.Opcode = op

	for idx := uint8(0); idx < row.arity; idx++ {
		t := row.operand[idx]
		switch {
		case t.IsMemory():
			inst.Operands[idx] = NewMem(t, Mem{Disp: 1})
		case t.IsMoffs():
			inst.Operands[idx] = NewMoffs(t, nil, 1)
		default:
			inst.Operands[idx] = zeroOperandFor(t, idx)
		}
	}

	return inst
}

func zeroOperandFor(t Type, idx uint8) Operand {
	switch t {
	case TypeAL, TypeCL, TypeAX, TypeDX, TypeEAX, TypeRAX, TypeST0, TypeXMM0:
		return Operand{Type: t, Value: 0}
	case TypeFS:
		return Operand{Type: t, Value: uint64(RegFS)}
	case TypeGS:
		return Operand{Type: t, Value: uint64(RegGS)}
	case TypeZero:
		return Operand{Type: t, Value: 0}
	case TypeOne:
		return Operand{Type: t, Value: 1}
	case TypeThree:
		return Operand{Type: t, Value: 3}
	case TypeHint:
		return Operand{Type: t, Value: 0}
	default:
		return Operand{Type: t, Value: uint64(idx)}
	}
}
