// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package x64asm

import (
	"fmt"
	"io"
)

// Operand is a semantic pair (Type, payload), per spec.md §3.1. Value
// carries the payload for every operand type except the memory and
// far-pointer families, which carry their payload in Mem instead (spec.md
// §3.1's "encoded into one or two payload words" becomes, in Go, a
// pointer to a small composite struct rather than bit-packing into a
// single 64-bit word).
type Operand struct {
	Type  Type
	Value uint64
	Mem   *Mem
}

// reg builds a register Operand of the given type and index.
func reg(t Type, idx uint8) Operand { return Operand{Type: t, Value: uint64(idx)} }

// Check reports whether o is a structurally valid instance of its
// declared Type (spec.md §3.1's invariants). It never consults any other
// operand or the opcode table; Instruction.Check calls it per slot.
func (o Operand) Check() bool {
	switch o.Type {
	case TypeImm8:
		return o.Value>>8 == 0
	case TypeImm16:
		return o.Value>>16 == 0
	case TypeImm32:
		return o.Value>>32 == 0
	case TypeImm64:
		return true

	case TypeZero:
		return o.Value == 0
	case TypeOne:
		return o.Value == 1
	case TypeThree:
		return o.Value == 3

	case TypeLabel:
		return true

	case TypeRh:
		return o.Value >= 4 && o.Value < 8
	case TypeRb:
		return o.Value < 16
	case TypeAL:
		return o.Value == 0
	case TypeCL:
		return o.Value == 1
	case TypeRl:
		return o.Value < 4
	case TypeAX:
		return o.Value == 0
	case TypeDX:
		return o.Value == 2
	case TypeR16:
		return o.Value < 16
	case TypeEAX:
		return o.Value == 0
	case TypeR32:
		return o.Value < 16
	case TypeRAX:
		return o.Value == 0
	case TypeR64:
		return o.Value < 16

	case TypeMM:
		return o.Value < 8

	case TypeRel8:
		return uint64(int64(int8(uint8(o.Value)))) == o.Value
	case TypeRel32:
		return uint64(int64(int32(uint32(o.Value)))) == o.Value

	case TypeFS:
		return o.Value == 4
	case TypeGS:
		return o.Value == 5
	case TypeSreg:
		return o.Value < 6

	case TypeST0:
		return o.Value == 0
	case TypeST:
		return o.Value < 8

	case TypeXMM0:
		return o.Value == 0
	case TypeXMM:
		return o.Value < 16
	case TypeYMM:
		return o.Value < 16

	case TypeHint:
		return o.Value == 0 || o.Value == 1

	case TypePref66, TypePrefRexW, TypeFar:
		return true

	case TypeMoffs8, TypeMoffs16, TypeMoffs32, TypeMoffs64:
		if o.Mem == nil {
			return false
		}
		return o.Mem.checkMoffs()

	default:
		if o.Type.IsMemory() {
			if o.Mem == nil {
				return false
			}
			return o.Mem.check()
		}

		return false
	}
}

// Equal reports whether o and other denote the same operand, comparing
// memory expressions structurally rather than by pointer identity.
func (o Operand) Equal(other Operand) bool {
	if o.Type != other.Type || o.Value != other.Value {
		return false
	}
	if o.Mem == nil || other.Mem == nil {
		return o.Mem == other.Mem
	}

	return o.Mem.equal(other.Mem)
}

// Hash returns a 64-bit value that depends only on o's semantic identity,
// matching the source's per-operand hash() methods: the raw payload for
// every type except the Moffs and memory families, which hash their
// composite address (spec.md §4.6).
func (o Operand) Hash() uint64 {
	if o.Type.IsMoffs() {
		if o.Mem == nil {
			return 0
		}

		return o.Mem.hash()
	}

	if o.Type.IsMemory() {
		if o.Mem == nil {
			return 0
		}

		return o.Mem.hash()
	}

	return o.Value
}

// gp64Lens returns o's payload viewed as a plain 64-bit register index:
// all of the register Value payloads are homogeneous small integers
// (spec.md §4.6). Instruction's ordering, equality and hash do not call
// it; they read Value, Operand.Equal and Operand.Hash directly.
func (o Operand) gp64Lens() uint64 { return o.Value }

// WriteATT writes o's AT&T syntax form to w (spec.md §4.1, §6.2).
func (o Operand) WriteATT(w io.Writer) {
	switch o.Type {
	case TypeImm8, TypeImm16, TypeImm32, TypeImm64, TypeZero, TypeOne, TypeThree:
		fmt.Fprintf(w, "$0x%x", o.Value)

	case TypeLabel:
		fmt.Fprintf(w, "L%d", o.Value)

	case TypeHint:
		if o.Value == 0 {
			io.WriteString(w, "taken")
		} else {
			io.WriteString(w, "not taken")
		}

	case TypePref66:
		io.WriteString(w, "0x66")
	case TypePrefRexW:
		io.WriteString(w, "rex.w")
	case TypeFar:
		io.WriteString(w, "far")

	case TypeRh:
		fmt.Fprintf(w, "%%%s", highByteName(uint8(o.Value)))
	case TypeRb:
		fmt.Fprintf(w, "%%%s", byteRegName(uint8(o.Value)))
	case TypeAL, TypeCL, TypeRl:
		fmt.Fprintf(w, "%%%s", lowByteName(uint8(o.Value)))
	case TypeAX, TypeDX, TypeR16:
		fmt.Fprintf(w, "%%%s", word16Name(uint8(o.Value)))
	case TypeEAX, TypeR32:
		fmt.Fprintf(w, "%%%s", dword32Name(uint8(o.Value)))
	case TypeRAX, TypeR64:
		fmt.Fprintf(w, "%%%s", qword64Name(uint8(o.Value)))

	case TypeMM:
		fmt.Fprintf(w, "%%mm%d", o.Value)

	case TypeRel8:
		writeSignedHex(w, int64(int8(uint8(o.Value))))
	case TypeRel32:
		writeSignedHex(w, int64(int32(uint32(o.Value))))

	case TypeFS, TypeGS, TypeSreg:
		fmt.Fprintf(w, "%%%s", sregName(uint8(o.Value)))

	case TypeST0, TypeST:
		fmt.Fprintf(w, "%%st(%d)", o.Value)

	case TypeXMM0, TypeXMM:
		fmt.Fprintf(w, "%%xmm%d", o.Value)
	case TypeYMM:
		fmt.Fprintf(w, "%%ymm%d", o.Value)

	case TypeMoffs8, TypeMoffs16, TypeMoffs32, TypeMoffs64:
		if o.Mem != nil {
			o.Mem.writeATT(w)
		}

	default:
		// Every M_* and FAR_PTR_* type formats through the widest memory
		// variant regardless of its declared width (spec.md §4.1.1, §9's
		// "writer's M_* branch" note).
		if o.Type.IsMemory() {
			if o.Mem != nil {
				o.Mem.writeATT(w)
			}
			return
		}

		panic("x64asm: unrecognised operand type in write_att: " + o.Type.String())
	}
}

func writeSignedHex(w io.Writer, v int64) {
	if v < 0 {
		fmt.Fprintf(w, "-0x%x", -v)
	} else {
		fmt.Fprintf(w, "0x%x", v)
	}
}

// Register-name tables, one per width/lens. Indices follow the Reg
// encoding of spec.md §3.1: low nibble for AL-BL/AX-BX/EAX-EBX/RAX-RBX
// etc, 4-7 for the high-byte or REX-only forms, 8-15 for the R8-R15
// family.

var lowByteNames = [4]string{"al", "cl", "dl", "bl"}
var highByteNames = [4]string{"ah", "ch", "dh", "bh"}
var byteRegNames = [16]string{
	"al", "cl", "dl", "bl", "spl", "bpl", "sil", "dil",
	"r8b", "r9b", "r10b", "r11b", "r12b", "r13b", "r14b", "r15b",
}
var word16Names = [16]string{
	"ax", "cx", "dx", "bx", "sp", "bp", "si", "di",
	"r8w", "r9w", "r10w", "r11w", "r12w", "r13w", "r14w", "r15w",
}
var dword32Names = [16]string{
	"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi",
	"r8d", "r9d", "r10d", "r11d", "r12d", "r13d", "r14d", "r15d",
}
var qword64Names = [16]string{
	"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
}
var sregNames = [6]string{"es", "cs", "ss", "ds", "fs", "gs"}

func lowByteName(idx uint8) string  { return lowByteNames[idx&0x3] }
func highByteName(idx uint8) string { return highByteNames[idx&0x3] }
func byteRegName(idx uint8) string  { return byteRegNames[idx&0xf] }
func word16Name(idx uint8) string   { return word16Names[idx&0xf] }
func dword32Name(idx uint8) string  { return dword32Names[idx&0xf] }
func qword64Name(idx uint8) string  { return qword64Names[idx&0xf] }
func sregName(idx uint8) string     { return sregNames[idx%6] }
