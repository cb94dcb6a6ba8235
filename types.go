// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package x64asm

import (
	"encoding/json"
	"fmt"
)

// Type is the closed tag of every operand kind an Instruction can hold in
// one of its four slots. The tag recovers the payload's semantics; it is
// never inferred from the payload's bit pattern alone.
type Type uint8

const (
	_ Type = iota

	// Immediates.
	TypeImm8
	TypeImm16
	TypeImm32
	TypeImm64

	// Literal-valued operands.
	TypeZero
	TypeOne
	TypeThree

	// Symbolic operands.
	TypeLabel

	// Memory operands, one tag per width/interpretation.
	TypeM8
	TypeM16
	TypeM32
	TypeM64
	TypeM128
	TypeM256
	TypeM16Int
	TypeM32Int
	TypeM64Int
	TypeM32FP
	TypeM64FP
	TypeM80FP
	TypeM80BCD
	TypeM2Byte
	TypeM28Byte
	TypeM108Byte
	TypeM512Byte
	TypeFarPtr1616
	TypeFarPtr1632
	TypeFarPtr1664

	// MMX.
	TypeMM

	// Absolute memory offsets (no base/index register).
	TypeMoffs8
	TypeMoffs16
	TypeMoffs32
	TypeMoffs64

	// Prefix/far markers; carry no payload semantics beyond presence.
	TypePref66
	TypePrefRexW
	TypeFar

	// General-purpose registers.
	TypeRh // High-byte register: AH, CH, DH, BH.
	TypeRb // Any byte register, including the REX-extended set.
	TypeAL // The singleton AL.
	TypeCL // The singleton CL.
	TypeRl // Low-nibble byte register: AL, CL, DL, BL.
	TypeAX // The singleton AX.
	TypeDX // The singleton DX.
	TypeR16
	TypeEAX // The singleton EAX.
	TypeR32
	TypeRAX // The singleton RAX.
	TypeR64

	// Relative offsets.
	TypeRel8
	TypeRel32

	// Segment registers.
	TypeFS // The singleton FS.
	TypeGS // The singleton GS.
	TypeSreg

	// x87 stack.
	TypeST0 // The singleton ST(0).
	TypeST

	// Vector registers.
	TypeXMM0 // The singleton XMM0.
	TypeXMM
	TypeYMM

	// Branch hint.
	TypeHint
)

var typeNames = map[Type]string{
	TypeImm8: "imm8", TypeImm16: "imm16", TypeImm32: "imm32", TypeImm64: "imm64",
	TypeZero: "zero", TypeOne: "one", TypeThree: "three",
	TypeLabel: "label",
	TypeM8:    "m8", TypeM16: "m16", TypeM32: "m32", TypeM64: "m64",
	TypeM128: "m128", TypeM256: "m256",
	TypeM16Int: "m16int", TypeM32Int: "m32int", TypeM64Int: "m64int",
	TypeM32FP: "m32fp", TypeM64FP: "m64fp", TypeM80FP: "m80fp", TypeM80BCD: "m80bcd",
	TypeM2Byte: "m2byte", TypeM28Byte: "m28byte", TypeM108Byte: "m108byte", TypeM512Byte: "m512byte",
	TypeFarPtr1616: "ptr16:16", TypeFarPtr1632: "ptr16:32", TypeFarPtr1664: "ptr16:64",
	TypeMM:     "mm",
	TypeMoffs8: "moffs8", TypeMoffs16: "moffs16", TypeMoffs32: "moffs32", TypeMoffs64: "moffs64",
	TypePref66: "pref66", TypePrefRexW: "prefrexw", TypeFar: "far",
	TypeRh: "rh", TypeRb: "rb", TypeAL: "al", TypeCL: "cl", TypeRl: "rl",
	TypeAX: "ax", TypeDX: "dx", TypeR16: "r16",
	TypeEAX: "eax", TypeR32: "r32",
	TypeRAX: "rax", TypeR64: "r64",
	TypeRel8: "rel8", TypeRel32: "rel32",
	TypeFS: "fs", TypeGS: "gs", TypeSreg: "sreg",
	TypeST0: "st0", TypeST: "st",
	TypeXMM0: "xmm0", TypeXMM: "xmm", TypeYMM: "ymm",
	TypeHint: "hint",
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, s := range typeNames {
		m[s] = t
	}
	return m
}()

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}

	return fmt.Sprintf("Type(%d)", uint8(t))
}

func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	got, ok := typesByName[s]
	if !ok {
		return fmt.Errorf("invalid operand type %q", s)
	}

	*t = got

	return nil
}

// IsMemory reports whether t is one of the M_* or FAR_PTR_* memory-operand
// types. Memory operands are handled uniformly by liveness projection and
// by the AT&T writer, regardless of their exact width (spec.md §4.1.1, §9).
func (t Type) IsMemory() bool {
	switch t {
	case TypeM8, TypeM16, TypeM32, TypeM64, TypeM128, TypeM256,
		TypeM16Int, TypeM32Int, TypeM64Int,
		TypeM32FP, TypeM64FP, TypeM80FP, TypeM80BCD,
		TypeM2Byte, TypeM28Byte, TypeM108Byte, TypeM512Byte,
		TypeFarPtr1616, TypeFarPtr1632, TypeFarPtr1664:
		return true
	default:
		return false
	}
}

// IsMoffs reports whether t is one of the absolute memory-offset types.
func (t Type) IsMoffs() bool {
	switch t {
	case TypeMoffs8, TypeMoffs16, TypeMoffs32, TypeMoffs64:
		return true
	default:
		return false
	}
}

// sizeSuffix reports the AT&T mnemonic size suffix (b/w/l/q) a
// general-purpose register or integer memory/moffs operand of type t
// implies, per the GNU assembler convention of disambiguating an
// otherwise width-agnostic mnemonic (spec.md §6.2, §8 scenarios 1 and 3,
// which print "xorq" and "movq"). Vector, x87, far-pointer, branch, and
// symbolic operand types carry no implied suffix here: their mnemonics
// already encode width (movss, pxor), use a distinct FPU suffix
// alphabet (s/l/t, not b/w/l/q), or have no suffix at all (jmp, call).
func (t Type) sizeSuffix() (byte, bool) {
	switch t {
	case TypeRh, TypeRb, TypeAL, TypeCL, TypeRl, TypeM8, TypeMoffs8:
		return 'b', true
	case TypeAX, TypeDX, TypeR16, TypeM16, TypeMoffs16:
		return 'w', true
	case TypeEAX, TypeR32, TypeM32, TypeMoffs32:
		return 'l', true
	case TypeRAX, TypeR64, TypeM64, TypeMoffs64:
		return 'q', true
	default:
		return 0, false
	}
}
