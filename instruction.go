// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package x64asm

import (
	"fmt"
	"io"
	"strings"
)

// Instruction is an opcode together with up to four operands, the
// compact in-memory representation spec.md §2 builds everything else on
// top of. Unused trailing slots carry the zero Operand.
type Instruction struct {
	Opcode   Opcode
	Operands [4]Operand
}

// NewInstruction builds an Instruction, panicking if the number of
// operands given does not match the opcode's declared arity: a mismatch
// here is a programmer error in the caller, not a recoverable condition,
// mirroring the source's constructor-time assertions.
func NewInstruction(op Opcode, operands ...Operand) Instruction {
	row := opcodeTable[op]
	if len(operands) != int(row.arity) {
		panic(fmt.Sprintf("x64asm: %s takes %d operands, got %d", row.mnemonic, row.arity, len(operands)))
	}

	var inst Instruction
	inst.Opcode = op
	copy(inst.Operands[:], operands)

	return inst
}

// Arity reports the number of meaningful operand slots for i.
func (i Instruction) Arity() int {
	return int(opcodeTable[i.Opcode].arity)
}

// Mnemonic reports i's opcode's textual mnemonic, with no operands
// (spec.md §6.2). It is lower-case for every real opcode; the synthetic
// LABEL_DEFN row's mnemonic is "LABEL_DEFN".
func (i Instruction) Mnemonic() string {
	return opcodeTable[i.Opcode].mnemonic
}

// Check reports whether i is structurally valid: every meaningful slot
// holds an operand of the type the table declares for that slot, and
// each operand passes its own Operand.Check (spec.md §4.4).
func (i Instruction) Check() bool {
	row := opcodeTable[i.Opcode]
	for idx := uint8(0); idx < row.arity; idx++ {
		o := i.Operands[idx]
		if o.Type != row.operand[idx] {
			return false
		}
		if !o.Check() {
			return false
		}
	}

	return true
}

// isSelfXor reports whether i is one of the self-xor zeroing idioms of
// spec.md §4.3: a XOR/PXOR/VPXOR opcode whose two source operands name
// the same register. For the three-operand VEX forms the two sources
// are slots 1 and 2; for the legacy two-operand forms the destination
// doubles as one of the sources, so the comparison is between slots 0
// and 1.
//
// Because Operand.Value always stores the index appropriate to its own
// declared Type, comparing slot values directly already compares
// through the correct lens for every width, including Rh: this
// sidesteps the byte/high-byte mixup present in the instruction this
// package's self-xor handling is grounded on.
func (i Instruction) isSelfXor() bool {
	if !selfXorOpcodes[i.Opcode] {
		return false
	}

	row := opcodeTable[i.Opcode]
	if row.arity == 3 {
		return i.Operands[1].Value == i.Operands[2].Value
	}

	return i.Operands[0].Value == i.Operands[1].Value
}

// memAddressRegs returns the registers o's address computation reads:
// its segment override, base, and index, whenever o is a memory or
// moffs operand. These are always read, regardless of whether the
// memory's contents are themselves read or written (spec.md §4.2).
func memAddressRegs(o Operand) RegSet {
	if o.Mem == nil {
		return EmptyRegSet()
	}

	s := EmptyRegSet()
	if o.Mem.Seg != nil {
		s = s.insertOperand(*o.Mem.Seg)
	}
	if o.Mem.Base != nil {
		s = s.insertOperand(*o.Mem.Base)
	}
	if o.Mem.Index != nil {
		s = s.insertOperand(*o.Mem.Index)
	}

	return s
}

// MustRead returns the registers i is guaranteed to read: the opcode's
// implicit must-read set, every memory/moffs operand's address
// registers, and every slot the table marks MUST_READ (spec.md §4.2).
//
// A self-xor instruction (spec.md §4.3) is the one exception: its
// explicit-read contribution is skipped entirely, since xor-ing a
// register against itself reads no dependency on the register's prior
// value. The implicit must-read set (e.g. RSP for a stack instruction)
// still applies.
func (i Instruction) MustRead() RegSet {
	row := opcodeTable[i.Opcode]
	s := row.mustRead
	if i.isSelfXor() {
		return s
	}

	for idx := uint8(0); idx < row.arity; idx++ {
		o := i.Operands[idx]
		if o.Type.IsMemory() || o.Type.IsMoffs() {
			s = s.Union(memAddressRegs(o))
		}
		if row.prop[idx]&PropMustRead != 0 {
			s = s.Union(EmptyRegSet().insertOperand(o))
		}
	}

	return s
}

// MaybeRead returns the registers i might read: MustRead's registers
// plus every slot the table marks MAYBE_READ (spec.md §4.2). The
// self-xor special case applies here too: MustRead already returns the
// implicit-only set, and the MAYBE_READ slot scan is skipped as well.
func (i Instruction) MaybeRead() RegSet {
	row := opcodeTable[i.Opcode]
	s := i.MustRead().Union(row.maybeRead)
	if i.isSelfXor() {
		return s
	}

	for idx := uint8(0); idx < row.arity; idx++ {
		if row.prop[idx]&PropMaybeRead != 0 {
			s = s.Union(EmptyRegSet().insertOperand(i.Operands[idx]))
		}
	}

	return s
}

// MustWrite returns the registers i is guaranteed to write, applying the
// self-xor override: a self-xor instruction's destination is promoted
// from a MAYBE to a MUST write even when the table declares it MAYBE,
// since xor-ing a register with itself always deterministically zeroes
// it (spec.md §4.3).
func (i Instruction) MustWrite() RegSet {
	row := opcodeTable[i.Opcode]
	s := row.mustWrite
	selfXor := i.isSelfXor()

	for idx := uint8(0); idx < row.arity; idx++ {
		o := i.Operands[idx]
		p := row.prop[idx]

		if p&PropMustWrite != 0 {
			s = s.Union(i.insertWriteOperand(o, p))
		} else if selfXor && idx == 0 && p&PropMaybeWrite != 0 {
			s = s.Union(i.insertWriteOperand(o, p))
		}
	}

	return s
}

// MaybeWrite returns the registers i might write: MustWrite's registers
// plus every slot the table marks MAYBE_WRITE. A self-xor destination is
// already in MustWrite, so the MAYBE_WRITE slot scan skips it.
func (i Instruction) MaybeWrite() RegSet {
	row := opcodeTable[i.Opcode]
	s := i.MustWrite().Union(row.maybeWrite)
	selfXor := i.isSelfXor()

	for idx := uint8(0); idx < row.arity; idx++ {
		o := i.Operands[idx]
		p := row.prop[idx]

		if p&PropMaybeWrite != 0 && !(selfXor && idx == 0) {
			s = s.Union(i.insertWriteOperand(o, p))
		}
	}

	return s
}

// insertWriteOperand inserts o into a write projection, applying EXTEND
// widening when the slot's property calls for it (spec.md §3.4, §4.2).
func (i Instruction) insertWriteOperand(o Operand, p Property) RegSet {
	if p&(PropMustExtend|PropMaybeExtend) != 0 {
		return EmptyRegSet().insertWidened(o)
	}

	return EmptyRegSet().insertOperand(o)
}

// MustUndef returns the registers i is guaranteed to leave undefined,
// excluding any register self-xor has promoted to a full write.
func (i Instruction) MustUndef() RegSet {
	row := opcodeTable[i.Opcode]
	s := row.mustUndef
	selfXor := i.isSelfXor()

	for idx := uint8(0); idx < row.arity; idx++ {
		if row.prop[idx]&PropMustUndef != 0 && !(selfXor && idx == 0) {
			s = s.Union(EmptyRegSet().insertUndefWidened(i.Operands[idx]))
		}
	}

	return s
}

// MaybeUndef returns the registers i might leave undefined, excluding
// any register self-xor has promoted to a full write.
func (i Instruction) MaybeUndef() RegSet {
	row := opcodeTable[i.Opcode]
	s := row.maybeUndef
	selfXor := i.isSelfXor()

	for idx := uint8(0); idx < row.arity; idx++ {
		if row.prop[idx]&PropMaybeUndef != 0 && !(selfXor && idx == 0) {
			s = s.Union(EmptyRegSet().insertUndefWidened(i.Operands[idx]))
		}
	}

	return s
}

// TouchedFlags returns the FLAGS/EFLAGS/FPU/MXCSR bits i's opcode reads
// or writes in any way, with no must/maybe distinction (spec.md §4.5).
func (i Instruction) TouchedFlags() FlagSet {
	return opcodeTable[i.Opcode].flags
}

// Equal reports whether i and other have the same opcode and the same
// operands in the same slots.
func (i Instruction) Equal(other Instruction) bool {
	if i.Opcode != other.Opcode {
		return false
	}
	for idx := 0; idx < 4; idx++ {
		if !i.Operands[idx].Equal(other.Operands[idx]) {
			return false
		}
	}

	return true
}

// Hash returns a value that depends only on i's semantic identity.
func (i Instruction) Hash() uint64 {
	h := uint64(i.Opcode)
	for idx, o := range i.Operands {
		h = h*31 + o.Hash() + uint64(idx)
	}

	return h
}

// Less provides a total, arbitrary-but-stable order over Instructions,
// ordering first by opcode and then lexicographically over operands
// (spec.md §4.6).
func (i Instruction) Less(other Instruction) bool {
	if i.Opcode != other.Opcode {
		return i.Opcode < other.Opcode
	}
	for idx := 0; idx < 4; idx++ {
		a, b := i.Operands[idx], other.Operands[idx]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Value != b.Value {
			return a.Value < b.Value
		}
	}

	return false
}

// WriteATT writes i in AT&T syntax to w: mnemonic, then operands in
// reverse (source-before-destination) order, comma-separated (spec.md
// §4.1, §6.2). LABEL_DEFN is a special case: it prints "<label>:" with
// no mnemonic (spec.md §3.3, §4.5, §8 scenario 6).
func (i Instruction) WriteATT(w io.Writer) {
	if i.Opcode == OpcodeLabelDefn {
		i.Operands[0].WriteATT(w)
		io.WriteString(w, ":")
		return
	}

	row := opcodeTable[i.Opcode]
	io.WriteString(w, row.mnemonic)
	// The suffix is taken from the destination slot (index 0 in the
	// table's Intel-style order) only: a scalar SSE instruction like
	// ADDSD_XMM_M64 has a memory source operand with an integer width
	// but must not grow an AT&T size suffix from it.
	if row.arity > 0 {
		if suf, ok := row.operand[0].sizeSuffix(); ok {
			io.WriteString(w, string(suf))
		}
	}

	if row.arity == 0 {
		return
	}

	io.WriteString(w, " ")
	for idx := int(row.arity) - 1; idx >= 0; idx-- {
		i.Operands[idx].WriteATT(w)
		if idx > 0 {
			io.WriteString(w, ", ")
		}
	}
}

// String renders i in AT&T syntax.
func (i Instruction) String() string {
	var b strings.Builder
	i.WriteATT(&b)
	return b.String()
}
