// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package x64asm

import "strings"

// RegSet is a set over every concrete architectural register x64asm knows
// about. Each register width is tracked on its own bitmap (spec.md §9,
// "RegSet representation"): inserting a register at one width never
// implies membership at a wider or narrower width. Callers that want
// EXTEND semantics insert explicitly at the wider width themselves
// (spec.md §3.4).
//
// The zero value is the empty set.
type RegSet struct {
	rl   uint16 // AL, CL, DL, BL (bits 0-3 of the Rl/Rb index space).
	rb   uint16 // Any byte GPR, including SPL/BPL/SIL/DIL and R8L-R15L.
	rh   uint8  // AH, CH, DH, BH, indexed at bits 4-7 directly.
	r16  uint16
	r32  uint16
	r64  uint16
	mm   uint8
	st   uint8
	sreg uint8
	xmm  uint32
	ymm  uint32
}

// EmptyRegSet returns the empty RegSet. It exists for parity with call
// sites that build a RegSet incrementally starting from an explicit empty
// value, mirroring the source's RegSet::empty().
func EmptyRegSet() RegSet { return RegSet{} }

// Union returns the union of s and other.
func (s RegSet) Union(other RegSet) RegSet {
	return RegSet{
		rl:   s.rl | other.rl,
		rb:   s.rb | other.rb,
		rh:   s.rh | other.rh,
		r16:  s.r16 | other.r16,
		r32:  s.r32 | other.r32,
		r64:  s.r64 | other.r64,
		mm:   s.mm | other.mm,
		st:   s.st | other.st,
		sreg: s.sreg | other.sreg,
		xmm:  s.xmm | other.xmm,
		ymm:  s.ymm | other.ymm,
	}
}

// Empty reports whether s has no members.
func (s RegSet) Empty() bool {
	return s.rl == 0 && s.rb == 0 && s.rh == 0 &&
		s.r16 == 0 && s.r32 == 0 && s.r64 == 0 &&
		s.mm == 0 && s.st == 0 && s.sreg == 0 &&
		s.xmm == 0 && s.ymm == 0
}

// Subset reports whether every member of s is also a member of other.
func (s RegSet) Subset(other RegSet) bool {
	return s.rl&^other.rl == 0 &&
		s.rb&^other.rb == 0 &&
		s.rh&^other.rh == 0 &&
		s.r16&^other.r16 == 0 &&
		s.r32&^other.r32 == 0 &&
		s.r64&^other.r64 == 0 &&
		s.mm&^other.mm == 0 &&
		s.st&^other.st == 0 &&
		s.sreg&^other.sreg == 0 &&
		s.xmm&^other.xmm == 0 &&
		s.ymm&^other.ymm == 0
}

// Equal reports whether s and other have exactly the same members.
func (s RegSet) Equal(other RegSet) bool {
	return s.Subset(other) && other.Subset(s)
}

// Insertion helpers, one per register-width lens. Each mirrors the lens the
// source's get_operand<T> view uses when projecting a slot's payload
// (spec.md §4.2, §9).

func (s RegSet) withRl(idx uint8) RegSet  { s.rl |= 1 << (idx & 0xf); return s }
func (s RegSet) withRb(idx uint8) RegSet  { s.rb |= 1 << (idx & 0xf); return s }
func (s RegSet) withRh(idx uint8) RegSet  { s.rh |= 1 << (idx & 0x7); return s }
func (s RegSet) withR16(idx uint8) RegSet { s.r16 |= 1 << (idx & 0xf); return s }
func (s RegSet) withR32(idx uint8) RegSet { s.r32 |= 1 << (idx & 0xf); return s }
func (s RegSet) withR64(idx uint8) RegSet { s.r64 |= 1 << (idx & 0xf); return s }
func (s RegSet) withMM(idx uint8) RegSet  { s.mm |= 1 << (idx & 0x7); return s }
func (s RegSet) withST(idx uint8) RegSet  { s.st |= 1 << (idx & 0x7); return s }
func (s RegSet) withSreg(idx uint8) RegSet {
	s.sreg |= 1 << (idx & 0x7)
	return s
}
func (s RegSet) withXMM(idx uint8) RegSet { s.xmm |= 1 << (idx & 0x1f); return s }
func (s RegSet) withYMM(idx uint8) RegSet { s.ymm |= 1 << (idx & 0x1f); return s }

// ContainsRl, ContainsRb, ... report membership at each width lens.
func (s RegSet) ContainsRl(idx uint8) bool  { return s.rl&(1<<(idx&0xf)) != 0 }
func (s RegSet) ContainsRb(idx uint8) bool  { return s.rb&(1<<(idx&0xf)) != 0 }
func (s RegSet) ContainsRh(idx uint8) bool  { return s.rh&(1<<(idx&0x7)) != 0 }
func (s RegSet) ContainsR16(idx uint8) bool { return s.r16&(1<<(idx&0xf)) != 0 }
func (s RegSet) ContainsR32(idx uint8) bool { return s.r32&(1<<(idx&0xf)) != 0 }
func (s RegSet) ContainsR64(idx uint8) bool { return s.r64&(1<<(idx&0xf)) != 0 }
func (s RegSet) ContainsMM(idx uint8) bool  { return s.mm&(1<<(idx&0x7)) != 0 }
func (s RegSet) ContainsST(idx uint8) bool  { return s.st&(1<<(idx&0x7)) != 0 }
func (s RegSet) ContainsSreg(idx uint8) bool {
	return s.sreg&(1<<(idx&0x7)) != 0
}
func (s RegSet) ContainsXMM(idx uint8) bool { return s.xmm&(1<<(idx&0x1f)) != 0 }
func (s RegSet) ContainsYMM(idx uint8) bool { return s.ymm&(1<<(idx&0x1f)) != 0 }

// insertOperand inserts o's register at the width lens its Type dictates
// (spec.md §4.2's "widest narrower-or-equal type" rule, and the lens table
// in instruction.cc: AL/CL/RL -> Rl, RB -> Rb, RH -> Rh, AX/DX/R_16 -> R16,
// EAX/R_32 -> R32, RAX/R_64 -> R64, FS/GS/SREG -> Sreg, ST_0/ST -> St,
// XMM_0/XMM -> Xmm, YMM -> Ymm, MM -> Mm). Types with no register lens
// (immediates, literals, labels, prefixes, memory, moffs) are no-ops; the
// memory/moffs base/index/segment contribution is handled by the caller
// before insertOperand is reached, per spec.md §4.2.
func (s RegSet) insertOperand(o Operand) RegSet {
	idx := uint8(o.Value)
	switch o.Type {
	case TypeAL, TypeCL, TypeRl:
		return s.withRl(idx)
	case TypeRb:
		return s.withRb(idx)
	case TypeRh:
		return s.withRh(idx)
	case TypeAX, TypeDX, TypeR16:
		return s.withR16(idx)
	case TypeEAX, TypeR32:
		return s.withR32(idx)
	case TypeRAX, TypeR64:
		return s.withR64(idx)
	case TypeFS, TypeGS, TypeSreg:
		return s.withSreg(idx)
	case TypeST0, TypeST:
		return s.withST(idx)
	case TypeMM:
		return s.withMM(idx)
	case TypeXMM0, TypeXMM:
		return s.withXMM(idx)
	case TypeYMM:
		return s.withYMM(idx)
	default:
		return s
	}
}

// insertWidened inserts o's register at the EXTEND-widened lens: a 32-bit
// GPR write widens to the enclosing 64-bit register, and an XMM write
// widens to the enclosing YMM register (spec.md §4.2 explicit-write,
// §6's EXTEND glossary entry). Any other type reaching here is a
// programmer error, mirroring the source's assert(false) in the
// equivalent switch default.
func (s RegSet) insertWidened(o Operand) RegSet {
	idx := uint8(o.Value)
	switch o.Type {
	case TypeEAX, TypeR32:
		return s.withR64(idx)
	case TypeXMM0, TypeXMM:
		return s.withYMM(idx)
	default:
		panic("x64asm: cannot EXTEND-widen operand of type " + o.Type.String())
	}
}

// insertUndefWidened inserts o's register using the undef-specific "wide
// clobber" lens: XMM and XMM0 slots under MUST_UNDEF/MAYBE_UNDEF both
// clobber the enclosing YMM register, reproducing the source's
// explicit_{must,maybe}_undef_set behaviour exactly (spec.md §4.2, and
// the "minor quirk" called out in §9/§4 "Open questions").
func (s RegSet) insertUndefWidened(o Operand) RegSet {
	idx := uint8(o.Value)
	switch o.Type {
	case TypeXMM0, TypeXMM:
		return s.withYMM(idx)
	default:
		return s.insertOperand(o)
	}
}

// String renders s for debugging as a space-separated list of register
// names, cheapest-width first.
func (s RegSet) String() string {
	var b strings.Builder
	first := true
	write := func(name string) {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		b.WriteString(name)
	}

	for i := 0; i < 16; i++ {
		if s.ContainsRl(uint8(i)) && i < 4 {
			write("%" + lowByteName(uint8(i)))
		}
	}
	for i := 0; i < 8; i++ {
		if s.ContainsRh(uint8(i)) {
			write("%" + highByteName(uint8(i)))
		}
	}
	for i := 0; i < 16; i++ {
		if s.ContainsRb(uint8(i)) {
			write("%" + byteRegName(uint8(i)))
		}
	}
	for i := 0; i < 16; i++ {
		if s.ContainsR16(uint8(i)) {
			write("%" + word16Name(uint8(i)))
		}
	}
	for i := 0; i < 16; i++ {
		if s.ContainsR32(uint8(i)) {
			write("%" + dword32Name(uint8(i)))
		}
	}
	for i := 0; i < 16; i++ {
		if s.ContainsR64(uint8(i)) {
			write("%" + qword64Name(uint8(i)))
		}
	}
	for i := 0; i < 8; i++ {
		if s.ContainsMM(uint8(i)) {
			write("%mm" + digit(i))
		}
	}
	for i := 0; i < 8; i++ {
		if s.ContainsST(uint8(i)) {
			write("%st(" + digit(i) + ")")
		}
	}
	for i := 0; i < 6; i++ {
		if s.ContainsSreg(uint8(i)) {
			write("%" + sregName(uint8(i)))
		}
	}
	for i := 0; i < 32; i++ {
		if s.ContainsXMM(uint8(i)) {
			write("%xmm" + digit(i))
		}
	}
	for i := 0; i < 32; i++ {
		if s.ContainsYMM(uint8(i)) {
			write("%ymm" + digit(i))
		}
	}

	return b.String()
}

func digit(i int) string {
	if i < 10 {
		return string(rune('0' + i))
	}

	const hex = "0123456789abcdef"
	return string(hex[i/10]) + string(hex[i%10])
}
