// Package loader implements the instruction-memory loader of spec.md
// §2 item 4 / §6 "Hex input format": it reads a text file containing
// hex literals, groups them into 4-byte instructions, and appends each
// one in little-endian byte order to an instruction-memory buffer.
//
// Grounded on the teacher's vm.LoadBytecode (pkg/vm/vm.go), which
// scans one hex literal per line with bufio.Scanner and
// strconv.ParseUint. This is generalized from "one instruction per
// line" to spec.md's broader format: literals may be `0x`-prefixed or
// not, separated by any run of non-hex-digit, non-`x` characters,
// including several literals on one line.
package loader

import (
	"encoding/binary"
	"fmt"
	"io"
	"regexp"
)

// hexLiteral matches one optionally-0x-prefixed run of hex digits.
// Everything that does not match this pattern is a separator, per
// spec.md §6: "Any character that is not a hex digit or x is a
// separator."
var hexLiteral = regexp.MustCompile(`(?i)(0x)?[0-9a-f]+`)

// ErrBadLiteral indicates a hex literal that does not assemble to
// exactly 4 bytes (i.e. does not fit in a uint32).
var ErrBadLiteral = fmt.Errorf("loader: hex literal does not yield a 4-byte instruction")

// LoadHex reads every hex literal in r and returns an instruction
// memory image: each literal's value, stored 4 bytes at a time in
// little-endian order, per spec.md §9 item 5 ("the loader stores each
// 32-bit instruction in reverse-byte order relative to the hex
// literal... must be preserved for byte-level tests").
func LoadHex(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var imem []byte
	for _, tok := range hexLiteral.FindAllString(string(data), -1) {
		digits := stripPrefix(tok)
		if digits == "" {
			continue
		}
		var value uint64
		if _, err := fmt.Sscanf(digits, "%x", &value); err != nil {
			return nil, fmt.Errorf("%w: %q: %s", ErrBadLiteral, tok, err)
		}
		if value > 0xFFFFFFFF {
			return nil, fmt.Errorf("%w: %q", ErrBadLiteral, tok)
		}
		var word [4]byte
		binary.LittleEndian.PutUint32(word[:], uint32(value))
		imem = append(imem, word[:]...)
	}
	return imem, nil
}

func stripPrefix(tok string) string {
	if len(tok) >= 2 && tok[0] == '0' && (tok[1] == 'x' || tok[1] == 'X') {
		return tok[2:]
	}
	return tok
}
