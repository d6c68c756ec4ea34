// Package asm implements the minimal RV32I assembly front end of
// spec.md §6 "Assembly input": a one-pass-per-stage lexer → parser →
// encoder pipeline that recognizes a `.text` section, `label:`
// definitions, and the RV32I mnemonics needed to express spec.md §8's
// end-to-end scenarios. Full assembler/label-resolution semantics
// (sections, relocations, macros) are explicitly out of spec.md's
// scope; this package covers only what a single-file program needs,
// with labels resolved in two passes (see AssemblerAsync).
//
// Grounded on the teacher's channel-based StartAssembler/
// AssemblerAsync pipeline (pkg/asm/asm.go in the teacher repo), kept
// as a background-goroutine producer/consumer pair the way the
// teacher's own cmd/asm and cmd/interp consume it.
package asm

import (
	"errors"
	"io"
)

// ErrTooManyInstructions indicates the source produced more
// instructions than fit in a 32-bit address space.
var ErrTooManyInstructions = errors.New("asm: too many instructions")

// InstructionOrError contains either an assembled instruction word or
// the error that occurred while assembling it, paired with its source
// line for diagnostics. Grounded on the teacher's
// pkg/asm/asm.go#InstructionOrError.
type InstructionOrError struct {
	Instruction uint32
	Error       error
	Lineno      int
}

// StartAssembler starts the assembler in a background goroutine and
// returns a channel of InstructionOrError, one per source statement,
// in program order.
func StartAssembler(r io.Reader) <-chan InstructionOrError {
	out := make(chan InstructionOrError)
	go AssemblerAsync(r, out)
	return out
}

// AssemblerAsync runs the two-pass assembler: pass one walks every
// parsed statement to assign each label the byte address of the
// instruction it precedes; pass two encodes each instruction now that
// every label (including ones defined later in the file) is known.
func AssemblerAsync(r io.Reader, out chan<- InstructionOrError) {
	defer close(out)

	var instructions []Instruction
	labels := make(map[string]uint32)
	var pending []string

	for instr := range StartParsing(StartLexing(r)) {
		if instr.Err() != nil {
			out <- InstructionOrError{Error: instr.Err(), Lineno: instr.Line()}
			return
		}
		if instr.Mnemonic == "" {
			if instr.Label != "" {
				pending = append(pending, instr.Label)
			}
			continue
		}

		addr := uint32(len(instructions)) * 4
		if instr.Label != "" {
			pending = append(pending, instr.Label)
		}
		for _, name := range pending {
			labels[name] = addr
		}
		pending = nil

		instructions = append(instructions, instr)
	}

	for pc, instr := range instructions {
		if pc > 0xFFFFFFFF/4 {
			out <- InstructionOrError{Error: ErrTooManyInstructions, Lineno: instr.Line()}
			return
		}
		addr := uint32(pc) * 4
		encoded, err := instr.Encode(labels, addr)
		if err != nil {
			out <- InstructionOrError{Error: err, Lineno: instr.Line()}
			continue
		}
		out <- InstructionOrError{Instruction: encoded, Lineno: instr.Line()}
	}
}
