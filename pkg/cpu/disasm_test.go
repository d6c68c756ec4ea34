package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisassembleKnownForms(t *testing.T) {
	tests := []struct {
		name string
		word uint32
		want string
	}{
		{"add", encR(OpcodeR, 3, 0, 1, 2, 0x00), "add x3, x1, x2"},
		{"sub", encR(OpcodeR, 3, 0, 1, 2, 0x20), "sub x3, x1, x2"},
		{"div", encR(OpcodeR, 4, 4, 1, 2, 0x01), "div x4, x1, x2"},
		{"addi", encI(OpcodeImm, 1, 0, 0, 7), "addi x1, x0, 7"},
		{"lw", encI(OpcodeLoad, 3, 2, 2, 0), "lw x3, 0(x2)"},
		{"beq", encB(0, 1, 0, 8), "beq x1, x0, 8"},
		{"fence", uint32(OpcodeFence), "fence"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Disassemble(tt.word))
		})
	}
}

func TestDisassembleUnknownIsNeverFatal(t *testing.T) {
	got := Disassemble(0xFFFFFFFE)
	assert.Contains(t, got, "unknown")
}
