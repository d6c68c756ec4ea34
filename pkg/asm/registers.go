package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// abiNames maps the RISC-V calling-convention register aliases to
// their numeric index, so assembly source can use either "x5" or "t0"
// interchangeably.
var abiNames = map[string]uint32{
	"zero": 0, "ra": 1, "sp": 2, "gp": 3, "tp": 4,
	"t0": 5, "t1": 6, "t2": 7,
	"s0": 8, "fp": 8, "s1": 9,
	"a0": 10, "a1": 11, "a2": 12, "a3": 13, "a4": 14, "a5": 15, "a6": 16, "a7": 17,
	"s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23, "s8": 24, "s9": 25, "s10": 26, "s11": 27,
	"t3": 28, "t4": 29, "t5": 30, "t6": 31,
}

// parseRegister resolves a register operand ("x5", "t0", "a0", ...) to
// its 0-31 index.
func parseRegister(tok string) (uint32, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, fmt.Errorf("%w: empty register operand", ErrSyntax)
	}
	if idx, ok := abiNames[tok]; ok {
		return idx, nil
	}
	if len(tok) >= 2 && (tok[0] == 'x' || tok[0] == 'X') {
		n, err := strconv.ParseUint(tok[1:], 10, 32)
		if err == nil && n < 32 {
			return uint32(n), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown register %q", ErrSyntax, tok)
}
