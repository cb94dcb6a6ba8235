// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package x64asm

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOpcodeJSONRoundTrip(t *testing.T) {
	for op, name := range opcodeNames {
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(op)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}

			var got Opcode
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}

			if diff := cmp.Diff(op, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOpcodeTableLabelDefnReservesIndexZero(t *testing.T) {
	if OpcodeLabelDefn != 0 {
		t.Fatalf("OpcodeLabelDefn must be index 0, got %d", OpcodeLabelDefn)
	}
	if opcodeTable[OpcodeLabelDefn].mnemonic != "LABEL_DEFN" {
		t.Fatalf("row 0 must be the synthetic LABEL_DEFN row")
	}
}

func TestOpcodeTableEveryRowHasAMnemonic(t *testing.T) {
	for op := Opcode(0); op < numOpcodes; op++ {
		if opcodeTable[op].mnemonic == "" {
			t.Errorf("opcode %d has no table row", op)
		}
	}
}

func TestSelfXorOpcodesAreAllTwoOrThreeOperandXorForms(t *testing.T) {
	for op := range selfXorOpcodes {
		row := opcodeTable[op]
		if row.arity != 2 && row.arity != 3 {
			t.Errorf("%s: self-xor opcodes must have arity 2 or 3, got %d", row.mnemonic, row.arity)
		}
	}
}
