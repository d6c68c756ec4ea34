package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegisterABINames(t *testing.T) {
	tests := []struct {
		tok  string
		want uint32
	}{
		{"zero", 0}, {"ra", 1}, {"sp", 2}, {"a0", 10}, {"t0", 5}, {"s0", 8}, {"fp", 8}, {"t6", 31},
	}
	for _, tt := range tests {
		got, err := parseRegister(tt.tok)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.tok)
	}
}

func TestParseRegisterNumericForm(t *testing.T) {
	got, err := parseRegister("x17")
	require.NoError(t, err)
	assert.Equal(t, uint32(17), got)
}

func TestParseRegisterRejectsOutOfRange(t *testing.T) {
	_, err := parseRegister("x32")
	require.ErrorIs(t, err, ErrSyntax)
}

func TestParseRegisterRejectsGarbage(t *testing.T) {
	_, err := parseRegister("banana")
	require.ErrorIs(t, err, ErrSyntax)
}
