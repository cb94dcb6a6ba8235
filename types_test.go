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

func TestTypeJSONRoundTrip(t *testing.T) {
	for typ, name := range typeNames {
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(typ)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}

			var got Type
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}

			if diff := cmp.Diff(typ, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTypeUnmarshalInvalid(t *testing.T) {
	var typ Type
	if err := json.Unmarshal([]byte(`"not-a-type"`), &typ); err == nil {
		t.Fatal("expected an error for an unrecognised operand type")
	}
}

func TestTypeIsMemory(t *testing.T) {
	tests := []struct {
		Type Type
		Want bool
	}{
		{TypeM8, true},
		{TypeM512Byte, true},
		{TypeFarPtr1664, true},
		{TypeR64, false},
		{TypeMoffs8, false},
		{TypeImm32, false},
	}

	for _, test := range tests {
		t.Run(test.Type.String(), func(t *testing.T) {
			if got := test.Type.IsMemory(); got != test.Want {
				t.Errorf("IsMemory() = %v, want %v", got, test.Want)
			}
		})
	}
}

func TestTypeIsMoffs(t *testing.T) {
	tests := []struct {
		Type Type
		Want bool
	}{
		{TypeMoffs8, true},
		{TypeMoffs64, true},
		{TypeM8, false},
		{TypeR64, false},
	}

	for _, test := range tests {
		t.Run(test.Type.String(), func(t *testing.T) {
			if got := test.Type.IsMoffs(); got != test.Want {
				t.Errorf("IsMoffs() = %v, want %v", got, test.Want)
			}
		})
	}
}
