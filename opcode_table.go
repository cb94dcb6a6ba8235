// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package x64asm

// Property is a per-slot bitmask of how an opcode's table row declares
// that slot participates in liveness (spec.md §4.2). The four read/write
// axes are independent: a slot can be e.g. both MustRead and MaybeWrite
// (a narrow read-modify-write). EXTEND only matters in combination with
// Write; UNDEF is projected on its own by MustUndef/MaybeUndef.
type Property uint8

const (
	PropMustRead Property = 1 << iota
	PropMaybeRead
	PropMustWrite
	PropMaybeWrite
	PropMustExtend
	PropMaybeExtend
	PropMustUndef
	PropMaybeUndef
)

// opcodeRow is one entry of the static opcode table: everything the rest
// of the package needs to know about an Opcode without inspecting an
// actual Instruction (spec.md §4).
type opcodeRow struct {
	mnemonic string
	arity    uint8
	operand  [4]Type
	prop     [4]Property
	memSlot  int8 // index of the slot holding the memory/moffs operand, or -1.

	mustRead, maybeRead   RegSet
	mustWrite, maybeWrite RegSet
	mustUndef, maybeUndef RegSet

	flags FlagSet
}

var arithFlags = NewFlagSet(FlagCF, FlagPF, FlagAF, FlagZF, FlagSF, FlagOF)

var opcodeTable = [numOpcodes]opcodeRow{
	OpcodeLabelDefn: {
		mnemonic: "LABEL_DEFN", arity: 1, memSlot: -1,
		operand: [4]Type{TypeLabel},
		prop:    [4]Property{PropMustRead},
	},

	OpcodeNOP: {mnemonic: "nop", arity: 0, memSlot: -1},
	OpcodeRET: {
		mnemonic: "ret", arity: 0, memSlot: -1,
		mustRead:  EmptyRegSet().withR64(RegRSP),
		mustWrite: EmptyRegSet().withR64(RegRSP),
	},

	OpcodeMOVR64R64: {
		mnemonic: "mov", arity: 2, memSlot: -1,
		operand: [4]Type{TypeR64, TypeR64},
		prop:    [4]Property{PropMustWrite, PropMustRead},
	},
	OpcodeMOVR32R32: {
		mnemonic: "mov", arity: 2, memSlot: -1,
		operand: [4]Type{TypeR32, TypeR32},
		prop:    [4]Property{PropMustWrite | PropMustExtend, PropMustRead},
	},
	OpcodeMOVR64M64: {
		mnemonic: "mov", arity: 2, memSlot: 1,
		operand: [4]Type{TypeR64, TypeM64},
		prop:    [4]Property{PropMustWrite, PropMustRead},
	},
	OpcodeMOVM64R64: {
		mnemonic: "mov", arity: 2, memSlot: 0,
		operand: [4]Type{TypeM64, TypeR64},
		prop:    [4]Property{PropMustWrite, PropMustRead},
	},
	OpcodeMOVR64Imm32: {
		mnemonic: "mov", arity: 2, memSlot: -1,
		operand: [4]Type{TypeR64, TypeImm32},
		prop:    [4]Property{PropMustWrite, PropMustRead},
	},
	OpcodeMOVALMoffs8: {
		mnemonic: "mov", arity: 2, memSlot: 1,
		operand: [4]Type{TypeAL, TypeMoffs8},
		prop:    [4]Property{PropMustWrite, PropMustRead},
	},
	OpcodeMOVMoffs8AL: {
		mnemonic: "mov", arity: 2, memSlot: 0,
		operand: [4]Type{TypeMoffs8, TypeAL},
		prop:    [4]Property{PropMustWrite, PropMustRead},
	},

	OpcodeLEAR64M64: {
		mnemonic: "lea", arity: 2, memSlot: 1,
		operand: [4]Type{TypeR64, TypeM64},
		prop:    [4]Property{PropMustWrite, 0},
	},

	OpcodeADDR64R64: {
		mnemonic: "add", arity: 2, memSlot: -1,
		operand: [4]Type{TypeR64, TypeR64},
		prop:    [4]Property{PropMustRead | PropMustWrite, PropMustRead},
		flags:   arithFlags,
	},
	OpcodeADDR32R32: {
		mnemonic: "add", arity: 2, memSlot: -1,
		operand: [4]Type{TypeR32, TypeR32},
		prop:    [4]Property{PropMustRead | PropMustWrite | PropMustExtend, PropMustRead},
		flags:   arithFlags,
	},
	OpcodeADDR32Imm32: {
		mnemonic: "add", arity: 2, memSlot: -1,
		operand: [4]Type{TypeR32, TypeImm32},
		prop:    [4]Property{PropMustRead | PropMustWrite | PropMustExtend, PropMustRead},
		flags:   arithFlags,
	},
	OpcodeSUBR64R64: {
		mnemonic: "sub", arity: 2, memSlot: -1,
		operand: [4]Type{TypeR64, TypeR64},
		prop:    [4]Property{PropMustRead | PropMustWrite, PropMustRead},
		flags:   arithFlags,
	},
	OpcodeCMPR64R64: {
		mnemonic: "cmp", arity: 2, memSlot: -1,
		operand: [4]Type{TypeR64, TypeR64},
		prop:    [4]Property{PropMustRead, PropMustRead},
		flags:   arithFlags,
	},
	OpcodeTESTR64R64: {
		mnemonic: "test", arity: 2, memSlot: -1,
		operand: [4]Type{TypeR64, TypeR64},
		prop:    [4]Property{PropMustRead, PropMustRead},
		flags:   NewFlagSet(FlagCF, FlagPF, FlagZF, FlagSF, FlagOF, FlagAF),
	},

	OpcodePUSHR64: {
		mnemonic: "push", arity: 1, memSlot: -1,
		operand:   [4]Type{TypeR64},
		prop:      [4]Property{PropMustRead},
		mustRead:  EmptyRegSet().withR64(RegRSP),
		mustWrite: EmptyRegSet().withR64(RegRSP),
	},
	OpcodePOPR64: {
		mnemonic: "pop", arity: 1, memSlot: -1,
		operand:   [4]Type{TypeR64},
		prop:      [4]Property{PropMustWrite},
		mustRead:  EmptyRegSet().withR64(RegRSP),
		mustWrite: EmptyRegSet().withR64(RegRSP),
	},

	OpcodeCALLRel32: {
		mnemonic: "call", arity: 1, memSlot: -1,
		operand:   [4]Type{TypeRel32},
		prop:      [4]Property{PropMustRead},
		mustRead:  EmptyRegSet().withR64(RegRSP),
		mustWrite: EmptyRegSet().withR64(RegRSP),
	},
	OpcodeCALLFarPtr1632: {
		mnemonic: "call", arity: 1, memSlot: 0,
		operand:   [4]Type{TypeFarPtr1632},
		prop:      [4]Property{PropMustRead},
		mustRead:  EmptyRegSet().withR64(RegRSP),
		mustWrite: EmptyRegSet().withR64(RegRSP),
	},
	OpcodeJMPRel32: {
		mnemonic: "jmp", arity: 1, memSlot: -1,
		operand: [4]Type{TypeRel32},
		prop:    [4]Property{PropMustRead},
	},
	OpcodeJMPRel8: {
		mnemonic: "jmp", arity: 1, memSlot: -1,
		operand: [4]Type{TypeRel8},
		prop:    [4]Property{PropMustRead},
	},
	OpcodeJERel8Hint: {
		mnemonic: "je", arity: 2, memSlot: -1,
		operand: [4]Type{TypeRel8, TypeHint},
		prop:    [4]Property{PropMustRead, 0},
		flags:   NewFlagSet(FlagZF),
	},

	OpcodeCPUID: {
		mnemonic: "cpuid", arity: 0, memSlot: -1,
		mustRead:  EmptyRegSet().withR32(RegRAX).withR32(RegRCX),
		mustWrite: EmptyRegSet().withR32(RegRAX).withR32(RegRBX).withR32(RegRCX).withR32(RegRDX),
	},
	OpcodeDIVR32: {
		mnemonic: "div", arity: 1, memSlot: -1,
		operand:   [4]Type{TypeR32},
		prop:      [4]Property{PropMustRead},
		mustRead:  EmptyRegSet().withR32(RegRAX).withR32(RegRDX),
		mustWrite: EmptyRegSet().withR32(RegRAX).withR32(RegRDX),
		flags:     NewFlagSet(FlagCF, FlagOF, FlagSF, FlagZF, FlagAF, FlagPF),
	},
	OpcodeIDIVR32: {
		mnemonic: "idiv", arity: 1, memSlot: -1,
		operand:   [4]Type{TypeR32},
		prop:      [4]Property{PropMustRead},
		mustRead:  EmptyRegSet().withR32(RegRAX).withR32(RegRDX),
		mustWrite: EmptyRegSet().withR32(RegRAX).withR32(RegRDX),
		flags:     NewFlagSet(FlagCF, FlagOF, FlagSF, FlagZF, FlagAF, FlagPF),
	},

	OpcodeSHLR64CL: {
		mnemonic: "shl", arity: 2, memSlot: -1,
		operand: [4]Type{TypeR64, TypeCL},
		prop:    [4]Property{PropMustRead | PropMustWrite, PropMustRead},
		flags:   NewFlagSet(FlagCF, FlagOF, FlagSF, FlagZF, FlagPF, FlagAF),
	},
	OpcodeSARR32Imm8: {
		mnemonic: "sar", arity: 2, memSlot: -1,
		operand: [4]Type{TypeR32, TypeImm8},
		prop:    [4]Property{PropMustRead | PropMustWrite | PropMustExtend, PropMustRead},
		flags:   NewFlagSet(FlagCF, FlagOF, FlagSF, FlagZF, FlagPF, FlagAF),
	},

	OpcodeXORRbRb: {
		mnemonic: "xor", arity: 2, memSlot: -1,
		operand: [4]Type{TypeRb, TypeRb},
		prop:    [4]Property{PropMustRead | PropMaybeWrite | PropMaybeUndef, PropMustRead},
		flags:   arithFlags,
	},
	OpcodeXORRlRl: {
		mnemonic: "xor", arity: 2, memSlot: -1,
		operand: [4]Type{TypeRl, TypeRl},
		prop:    [4]Property{PropMustRead | PropMaybeWrite | PropMaybeUndef, PropMustRead},
		flags:   arithFlags,
	},
	OpcodeXORRhRh: {
		mnemonic: "xor", arity: 2, memSlot: -1,
		operand: [4]Type{TypeRh, TypeRh},
		prop:    [4]Property{PropMustRead | PropMaybeWrite | PropMaybeUndef, PropMustRead},
		flags:   arithFlags,
	},
	OpcodeXORR16R16: {
		mnemonic: "xor", arity: 2, memSlot: -1,
		operand: [4]Type{TypeR16, TypeR16},
		prop:    [4]Property{PropMustRead | PropMaybeWrite | PropMaybeUndef, PropMustRead},
		flags:   arithFlags,
	},
	OpcodeXORR32R32: {
		mnemonic: "xor", arity: 2, memSlot: -1,
		operand: [4]Type{TypeR32, TypeR32},
		prop:    [4]Property{PropMustRead | PropMustWrite | PropMustExtend, PropMustRead},
		flags:   arithFlags,
	},
	OpcodeXORR64R64: {
		mnemonic: "xor", arity: 2, memSlot: -1,
		operand: [4]Type{TypeR64, TypeR64},
		prop:    [4]Property{PropMustRead | PropMustWrite, PropMustRead},
		flags:   arithFlags,
	},
	OpcodePXORMMMM: {
		mnemonic: "pxor", arity: 2, memSlot: -1,
		operand: [4]Type{TypeMM, TypeMM},
		prop:    [4]Property{PropMustRead | PropMaybeWrite | PropMaybeUndef, PropMustRead},
	},
	OpcodePXORXMMXMM: {
		mnemonic: "pxor", arity: 2, memSlot: -1,
		operand: [4]Type{TypeXMM, TypeXMM},
		prop:    [4]Property{PropMustRead | PropMaybeWrite | PropMaybeUndef | PropMaybeExtend, PropMustRead},
	},
	OpcodeVPXORXMMXMMXMM: {
		mnemonic: "vpxor", arity: 3, memSlot: -1,
		operand: [4]Type{TypeXMM, TypeXMM, TypeXMM},
		prop:    [4]Property{PropMustWrite | PropMustExtend, PropMustRead, PropMustRead},
	},
	OpcodeVPXORYMMYMMYMM: {
		mnemonic: "vpxor", arity: 3, memSlot: -1,
		operand: [4]Type{TypeYMM, TypeYMM, TypeYMM},
		prop:    [4]Property{PropMustWrite, PropMustRead, PropMustRead},
	},

	OpcodeMOVSSXMMXMM: {
		mnemonic: "movss", arity: 2, memSlot: -1,
		operand: [4]Type{TypeXMM, TypeXMM},
		prop:    [4]Property{PropMaybeWrite, PropMustRead},
	},
	OpcodeADDSDXMMM64: {
		mnemonic: "addsd", arity: 2, memSlot: 1,
		operand: [4]Type{TypeXMM, TypeM64},
		prop:    [4]Property{PropMustRead | PropMustWrite, PropMustRead},
	},
	OpcodeMOVQMMMM: {
		mnemonic: "movq", arity: 2, memSlot: -1,
		operand: [4]Type{TypeMM, TypeMM},
		prop:    [4]Property{PropMustWrite, PropMustRead},
	},

	OpcodeFLDM32FP: {
		mnemonic: "fld", arity: 1, memSlot: 0,
		operand:   [4]Type{TypeM32FP},
		prop:      [4]Property{PropMustRead},
		mustWrite: EmptyRegSet().withST(0),
	},
	OpcodeFADDSTST0: {
		mnemonic: "fadd", arity: 2, memSlot: -1,
		operand: [4]Type{TypeST, TypeST0},
		prop:    [4]Property{PropMustRead | PropMustWrite, PropMustRead},
	},
}
