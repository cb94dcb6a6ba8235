// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package x64asm

import (
	"encoding/json"
	"fmt"
)

// Opcode names one row of the static instruction table (spec.md §4).
// OpcodeLabelDefn occupies index zero: it is not a real x86 opcode, but a
// synthetic marker an assembler's label-resolution layer uses to record
// where a label is defined in a stream of Instructions (spec.md §4,
// "index 0 is reserved").
//
// This module ships a representative subset of the full ~3800-entry
// table rather than a row per real Intel encoding (see the "Table scope"
// decision in SPEC_FULL.md). The ten self-xor opcodes all have a row.
// Only some Types appear in a row: among others, the Imm16/Imm64,
// literal, prefix, singleton AX/DX/EAX/RAX/FS/GS/XMM0, Sreg, most M_*
// and Moffs16-64 types do not. No row uses MAYBE_READ or MUST_UNDEF, and
// the implicit sets used are must-read and must-write only.
type Opcode uint16

const (
	OpcodeLabelDefn Opcode = iota

	OpcodeNOP
	OpcodeRET

	OpcodeMOVR64R64
	OpcodeMOVR32R32
	OpcodeMOVR64M64
	OpcodeMOVM64R64
	OpcodeMOVR64Imm32
	OpcodeMOVALMoffs8
	OpcodeMOVMoffs8AL

	OpcodeLEAR64M64

	OpcodeADDR64R64
	OpcodeADDR32R32
	OpcodeADDR32Imm32
	OpcodeSUBR64R64
	OpcodeCMPR64R64
	OpcodeTESTR64R64

	OpcodePUSHR64
	OpcodePOPR64

	OpcodeCALLRel32
	OpcodeCALLFarPtr1632
	OpcodeJMPRel32
	OpcodeJMPRel8
	OpcodeJERel8Hint

	OpcodeCPUID
	OpcodeDIVR32
	OpcodeIDIVR32

	OpcodeSHLR64CL
	OpcodeSARR32Imm8

	OpcodeXORRbRb
	OpcodeXORRlRl
	OpcodeXORRhRh
	OpcodeXORR16R16
	OpcodeXORR32R32
	OpcodeXORR64R64
	OpcodePXORMMMM
	OpcodePXORXMMXMM
	OpcodeVPXORXMMXMMXMM
	OpcodeVPXORYMMYMMYMM

	OpcodeMOVSSXMMXMM
	OpcodeADDSDXMMM64
	OpcodeMOVQMMMM

	OpcodeFLDM32FP
	OpcodeFADDSTST0

	numOpcodes
)

var opcodeNames = map[Opcode]string{
	OpcodeLabelDefn: "LABEL_DEFN",

	OpcodeNOP: "NOP",
	OpcodeRET: "RET",

	OpcodeMOVR64R64:   "MOV_R64_R64",
	OpcodeMOVR32R32:   "MOV_R32_R32",
	OpcodeMOVR64M64:   "MOV_R64_M64",
	OpcodeMOVM64R64:   "MOV_M64_R64",
	OpcodeMOVR64Imm32: "MOV_R64_IMM32",
	OpcodeMOVALMoffs8: "MOV_AL_MOFFS8",
	OpcodeMOVMoffs8AL: "MOV_MOFFS8_AL",

	OpcodeLEAR64M64: "LEA_R64_M64",

	OpcodeADDR64R64:   "ADD_R64_R64",
	OpcodeADDR32R32:   "ADD_R32_R32",
	OpcodeADDR32Imm32: "ADD_R32_IMM32",
	OpcodeSUBR64R64:   "SUB_R64_R64",
	OpcodeCMPR64R64:   "CMP_R64_R64",
	OpcodeTESTR64R64:  "TEST_R64_R64",

	OpcodePUSHR64: "PUSH_R64",
	OpcodePOPR64:  "POP_R64",

	OpcodeCALLRel32:      "CALL_REL32",
	OpcodeCALLFarPtr1632: "CALL_FARPTR1632",
	OpcodeJMPRel32:       "JMP_REL32",
	OpcodeJMPRel8:        "JMP_REL8",
	OpcodeJERel8Hint:     "JE_REL8_HINT",

	OpcodeCPUID:  "CPUID",
	OpcodeDIVR32: "DIV_R32",
	OpcodeIDIVR32: "IDIV_R32",

	OpcodeSHLR64CL:   "SHL_R64_CL",
	OpcodeSARR32Imm8: "SAR_R32_IMM8",

	OpcodeXORRbRb:        "XOR_RB_RB",
	OpcodeXORRlRl:        "XOR_RL_RL",
	OpcodeXORRhRh:        "XOR_RH_RH",
	OpcodeXORR16R16:      "XOR_R16_R16",
	OpcodeXORR32R32:      "XOR_R32_R32",
	OpcodeXORR64R64:      "XOR_R64_R64",
	OpcodePXORMMMM:       "PXOR_MM_MM",
	OpcodePXORXMMXMM:     "PXOR_XMM_XMM",
	OpcodeVPXORXMMXMMXMM: "VPXOR_XMM_XMM_XMM",
	OpcodeVPXORYMMYMMYMM: "VPXOR_YMM_YMM_YMM",

	OpcodeMOVSSXMMXMM: "MOVSS_XMM_XMM",
	OpcodeADDSDXMMM64: "ADDSD_XMM_M64",
	OpcodeMOVQMMMM:    "MOVQ_MM_MM",

	OpcodeFLDM32FP:   "FLD_M32FP",
	OpcodeFADDSTST0:  "FADD_ST_ST0",
}

var opcodesByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for o, s := range opcodeNames {
		m[s] = o
	}
	return m
}()

func (o Opcode) String() string {
	if s, ok := opcodeNames[o]; ok {
		return s
	}

	return fmt.Sprintf("Opcode(%d)", uint16(o))
}

func (o Opcode) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Opcode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	got, ok := opcodesByName[s]
	if !ok {
		return fmt.Errorf("invalid opcode %q", s)
	}

	*o = got

	return nil
}

// selfXorOpcodes names the opcodes spec.md §4.3 singles out for the
// self-xor zeroing special case: XOR/PXOR/VPXOR forms whose two source
// operands name the same register always fully define their destination,
// regardless of what the table's per-slot properties otherwise declare.
var selfXorOpcodes = map[Opcode]bool{
	OpcodeXORRbRb:        true,
	OpcodeXORRlRl:        true,
	OpcodeXORRhRh:        true,
	OpcodeXORR16R16:      true,
	OpcodeXORR32R32:      true,
	OpcodeXORR64R64:      true,
	OpcodePXORMMMM:       true,
	OpcodePXORXMMXMM:     true,
	OpcodeVPXORXMMXMMXMM: true,
	OpcodeVPXORYMMYMMYMM: true,
}
