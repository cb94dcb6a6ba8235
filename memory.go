// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package x64asm

import (
	"fmt"
	"io"
)

// Mem is the shared representation behind every M<T> memory-operand type
// and every Moffs<T> absolute-offset type (spec.md §3.1, §4.1.1). Per the
// design note in spec.md §9, the source's per-width M<T> subclasses are
// modelled here as one representation plus thin Type-tagged wrappers,
// rather than as a family of distinct Go types.
type Mem struct {
	Seg              *Operand // Segment override, or nil.
	Base             *Operand // Base register (R32 or R64), or nil.
	Index            *Operand // Index register (R32 or R64), or nil.
	Scale            uint8    // One of 1, 2, 4, 8. Meaningless without Index.
	Disp             int32    // Signed displacement.
	RIPRelative      bool     // [rip + Disp]; excludes Base and Index.
	AddressSizeOver  bool     // Address-size override: Base/Index print as their 32-bit alias.
}

// NewMem builds an Operand of memory Type t wrapping m. t must be one of
// the M_* or FAR_PTR_* types; it is the caller's job to pick the width
// that matches the instruction slot, since the representation itself is
// width-agnostic (spec.md §9, "the memory formatter does not depend on
// width").
func NewMem(t Type, m Mem) Operand {
	cp := m
	return Operand{Type: t, Mem: &cp}
}

// NewMoffs builds an Operand of Moffs Type t carrying only an optional
// segment and an absolute displacement (spec.md §3.1: "no base/index
// exists" for Moffs).
func NewMoffs(t Type, seg *Operand, addr int32) Operand {
	return Operand{Type: t, Mem: &Mem{Seg: seg, Disp: addr}}
}

// check validates m against spec.md §3.1/§4.1.1's memory-expression
// invariants, ported from the source's M<T>::check (original_source/src/
// m_cc.h).
func (m *Mem) check() bool {
	if m.Seg != nil && !m.Seg.Check() {
		return false
	}
	if m.Base != nil && !m.Base.Check() {
		return false
	}
	if m.Index != nil && !m.Index.Check() {
		return false
	}

	switch m.Scale {
	case 0, 1, 2, 4, 8:
		// 0 is tolerated only in the absence of an index; checked below.
	default:
		return false
	}
	if m.Index != nil && m.Scale != 1 && m.Scale != 2 && m.Scale != 4 && m.Scale != 8 {
		return false
	}

	// Index cannot be RSP/ESP (register index 4).
	if m.Index != nil && m.Index.Value == 4 {
		return false
	}

	// RIP-relative excludes an explicit base or index.
	if m.RIPRelative && (m.Base != nil || m.Index != nil) {
		return false
	}

	return true
}

// checkMoffs validates a Moffs-typed Mem: only Seg and Disp are
// meaningful (spec.md §3.1).
func (m *Mem) checkMoffs() bool {
	if m.Base != nil || m.Index != nil {
		return false
	}
	if m.Seg != nil && !m.Seg.Check() {
		return false
	}

	return true
}

// equal reports whether m and other denote the same memory expression.
func (m *Mem) equal(other *Mem) bool {
	if m == other {
		return true
	}
	if m == nil || other == nil {
		return false
	}
	if m.Scale != other.Scale || m.Disp != other.Disp ||
		m.RIPRelative != other.RIPRelative || m.AddressSizeOver != other.AddressSizeOver {
		return false
	}

	return operandPtrEqual(m.Seg, other.Seg) &&
		operandPtrEqual(m.Base, other.Base) &&
		operandPtrEqual(m.Index, other.Index)
}

func operandPtrEqual(a, b *Operand) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Equal(*b)
}

// hash folds m's fields into a single value, used by Operand.Hash for the
// Moffs family and, transitively, by Instruction.Hash (spec.md §4.6).
func (m *Mem) hash() uint64 {
	h := uint64(m.Scale)<<32 ^ uint64(uint32(m.Disp))
	if m.Seg != nil {
		h ^= m.Seg.Value << 48
	}
	if m.Base != nil {
		h ^= m.Base.Value<<8 | 1<<60
	}
	if m.Index != nil {
		h ^= m.Index.Value<<16 | 1<<61
	}
	if m.RIPRelative {
		h ^= 1 << 62
	}

	return h
}

// writeATT renders m in AT&T syntax: seg:disp(base,index,scale), with the
// elision rules of spec.md §4.1.1, ported from M<T>::write_att
// (original_source/src/m_cc.h).
func (m *Mem) writeATT(w io.Writer) {
	if m.Seg != nil {
		m.Seg.WriteATT(w)
		io.WriteString(w, ":")
	}

	if m.Disp != 0 || (m.Base == nil && m.Index == nil) {
		writeSignedHex(w, int64(m.Disp))
	}

	if m.Base == nil && m.Index == nil && !m.RIPRelative {
		return
	}

	io.WriteString(w, "(")
	if m.RIPRelative {
		io.WriteString(w, "%rip")
	}
	if m.Base != nil {
		writeAddressRegister(w, m.Base, m.AddressSizeOver)
	}
	if m.Index != nil {
		io.WriteString(w, ",")
		writeAddressRegister(w, m.Index, m.AddressSizeOver)
		fmt.Fprintf(w, ",%d", m.Scale)
	}
	io.WriteString(w, ")")
}

// writeAddressRegister writes a base/index register, aliasing it to its
// 32-bit form when the memory expression carries an address-size
// override (spec.md §4.1.1 point 4).
func writeAddressRegister(w io.Writer, r *Operand, addrSizeOverride bool) {
	if !addrSizeOverride || r.Type != TypeR64 {
		r.WriteATT(w)
		return
	}

	alias := Operand{Type: TypeR32, Value: r.Value}
	alias.WriteATT(w)
}

// Convenience constructors for each memory width, matching the M<T>
// family named in spec.md §3.2. Each is a thin wrapper over NewMem.

func M8(m Mem) Operand    { return NewMem(TypeM8, m) }
func M16(m Mem) Operand   { return NewMem(TypeM16, m) }
func M32(m Mem) Operand   { return NewMem(TypeM32, m) }
func M64(m Mem) Operand   { return NewMem(TypeM64, m) }
func M128(m Mem) Operand  { return NewMem(TypeM128, m) }
func M256(m Mem) Operand  { return NewMem(TypeM256, m) }
func M16Int(m Mem) Operand { return NewMem(TypeM16Int, m) }
func M32Int(m Mem) Operand { return NewMem(TypeM32Int, m) }
func M64Int(m Mem) Operand { return NewMem(TypeM64Int, m) }
func M32FP(m Mem) Operand  { return NewMem(TypeM32FP, m) }
func M64FP(m Mem) Operand  { return NewMem(TypeM64FP, m) }
func M80FP(m Mem) Operand  { return NewMem(TypeM80FP, m) }
func M80BCD(m Mem) Operand { return NewMem(TypeM80BCD, m) }
func M2Byte(m Mem) Operand   { return NewMem(TypeM2Byte, m) }
func M28Byte(m Mem) Operand  { return NewMem(TypeM28Byte, m) }
func M108Byte(m Mem) Operand { return NewMem(TypeM108Byte, m) }
func M512Byte(m Mem) Operand { return NewMem(TypeM512Byte, m) }
func FarPtr1616(m Mem) Operand { return NewMem(TypeFarPtr1616, m) }
func FarPtr1632(m Mem) Operand { return NewMem(TypeFarPtr1632, m) }
func FarPtr1664(m Mem) Operand { return NewMem(TypeFarPtr1664, m) }
