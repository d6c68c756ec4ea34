package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, src string) []Instruction {
	t.Helper()
	var out []Instruction
	for instr := range StartParsing(StartLexing(strings.NewReader(src))) {
		require.NoError(t, instr.Err())
		out = append(out, instr)
	}
	return out
}

func TestParseLabelOnly(t *testing.T) {
	instrs := parseAll(t, "loop:\n")
	require.Len(t, instrs, 1)
	assert.Equal(t, "loop", instrs[0].Label)
	assert.Empty(t, instrs[0].Mnemonic)
}

func TestParseLabelWithStatement(t *testing.T) {
	instrs := parseAll(t, "loop: addi x1, x1, 1\n")
	require.Len(t, instrs, 1)
	assert.Equal(t, "loop", instrs[0].Label)
	assert.Equal(t, "addi", instrs[0].Mnemonic)
	assert.Equal(t, []string{"x1", "x1", "1"}, instrs[0].Operands)
}

func TestParseIgnoresCommentsAndBlankLines(t *testing.T) {
	instrs := parseAll(t, "\n# a comment\n.text\naddi x1, x0, 1  # trailing comment\n")
	require.Len(t, instrs, 1)
	assert.Equal(t, "addi", instrs[0].Mnemonic)
}

func TestParseMnemonicIsLowercased(t *testing.T) {
	instrs := parseAll(t, "ADDI x1, x0, 1\n")
	require.Len(t, instrs, 1)
	assert.Equal(t, "addi", instrs[0].Mnemonic)
}
