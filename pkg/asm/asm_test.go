package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, src string) []uint32 {
	t.Helper()
	var words []uint32
	for ioe := range StartAssembler(strings.NewReader(src)) {
		require.NoError(t, ioe.Error, "line %d", ioe.Lineno)
		words = append(words, ioe.Instruction)
	}
	return words
}

func TestAssembleArithmetic(t *testing.T) {
	words := collect(t, `
		addi x1, x0, 7
		addi x2, x0, 5
		add  x3, x1, x2
	`)
	require.Len(t, words, 3)
	assert.Equal(t, uint32(0x00700093), words[0]) // addi x1, x0, 7
	assert.Equal(t, uint32(0x00500113), words[1]) // addi x2, x0, 5
	assert.Equal(t, uint32(0x002081b3), words[2]) // add x3, x1, x2
}

func TestAssembleForwardLabel(t *testing.T) {
	words := collect(t, `
		j done
		addi x1, x0, 1
	done:
		addi x2, x0, 2
	`)
	require.Len(t, words, 3)
	// j done: jal x0, +8 from pc=0
	assert.Equal(t, encodeJRef(0, 8), words[0])
}

func encodeJRef(rd uint32, imm int32) uint32 {
	u := uint32(imm)
	bits19_12 := (u >> 12) & 0xFF
	bit11 := (u >> 11) & 0x1
	bits10_1 := (u >> 1) & 0x3FF
	bit20 := (u >> 20) & 0x1
	return 0x6F | (rd&0x1F)<<7 | bits19_12<<12 | bit11<<20 | bits10_1<<21 | bit20<<31
}

func TestAssembleBackwardLabel(t *testing.T) {
	words := collect(t, `
	loop:
		addi x1, x1, 1
		bne  x1, x0, loop
	`)
	require.Len(t, words, 2)
	assert.NotZero(t, words[1])
}

func TestAssembleLoadStore(t *testing.T) {
	words := collect(t, `
		sw x1, 4(x2)
		lw x3, 4(x2)
	`)
	require.Len(t, words, 2)
}

func TestAssemblePseudoInstructions(t *testing.T) {
	words := collect(t, `
		li x1, 42
		mv x2, x1
		nop
		ret
	`)
	require.Len(t, words, 4)
}

func TestAssembleSyntaxError(t *testing.T) {
	var lastErr error
	var lineno int
	for ioe := range StartAssembler(strings.NewReader("addi x1, x0\n")) {
		if ioe.Error != nil {
			lastErr = ioe.Error
			lineno = ioe.Lineno
		}
	}
	require.Error(t, lastErr)
	assert.Equal(t, 1, lineno)
}

func TestAssembleUnknownRegisterIsSyntaxError(t *testing.T) {
	var lastErr error
	for ioe := range StartAssembler(strings.NewReader("addi x99, x0, 1\n")) {
		if ioe.Error != nil {
			lastErr = ioe.Error
		}
	}
	require.ErrorIs(t, lastErr, ErrSyntax)
}
