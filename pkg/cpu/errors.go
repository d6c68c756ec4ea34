package cpu

import (
	"errors"
	"fmt"
)

// Kind classifies an ExecutionError the way the interpreter loop needs
// to in order to print a message and halt.
type Kind int

// The following constants enumerate the five fault/termination kinds a
// format handler may report.
const (
	// KindExtension indicates that an instruction required an extension
	// that was not enabled on the command line.
	KindExtension Kind = iota

	// KindInvalidInstruction indicates that no handler entry matched
	// (opcode, funct3, funct7).
	KindInvalidInstruction

	// KindInstructionAddressMisaligned indicates a branch or jump target
	// that is not a multiple of 4.
	KindInstructionAddressMisaligned

	// KindUnimplemented indicates a recognized but unimplemented
	// instruction (FENCE, CSR access, ebreak).
	KindUnimplemented

	// KindUserTerminate indicates ecall with a0 == 0xA.
	KindUserTerminate
)

// ExecutionError is the tagged value every format handler returns on
// fault or termination. The interpreter loop is the sole recovery
// point: it pattern-matches Kind, prints Error(), and halts.
type ExecutionError struct {
	Kind Kind

	// Name carries the extension name for KindExtension and the
	// mnemonic for KindUnimplemented.
	Name string

	// Hex carries the offending instruction word for
	// KindInvalidInstruction.
	Hex uint32

	// ExitCode carries x11's low byte for KindUserTerminate, so a CLI
	// driver can use it as the process exit status.
	ExitCode uint32
}

func (e *ExecutionError) Error() string {
	switch e.Kind {
	case KindExtension:
		return fmt.Sprintf("The %s extension was not activated", e.Name)
	case KindInvalidInstruction:
		return fmt.Sprintf("0x%08x is an invalid instruction", e.Hex)
	case KindInstructionAddressMisaligned:
		return "Instruction address misaligned exception"
	case KindUnimplemented:
		return fmt.Sprintf("The %s instruction is not implemented", e.Name)
	case KindUserTerminate:
		return "The user terminated the program"
	default:
		return "unknown execution error"
	}
}

// ErrMemoryOutOfRange is returned by the bounds-checked data memory
// accessors (see memory.go) instead of letting an out-of-range index
// fault the host process. This tightens the hazard spec.md flags: the
// teacher's plain Go-array memory has no such guard.
var ErrMemoryOutOfRange = errors.New("cpu: data memory access out of range")

// ErrEndOfIMem is returned by Step when PC+4 exceeds the length of
// instruction memory; the interpreter loop treats it as a normal,
// non-faulting halt.
var ErrEndOfIMem = errors.New("cpu: end of instruction memory")

// ErrIllegalInstruction is the guard error for a fetched word that is
// all-zero or all-one bits. Step runs the length classifier first, and
// both of those words already fail it (they classify as 16 and >=80
// bits), so Step reports them as ErrUnsupportedLength.
var ErrIllegalInstruction = errors.New("cpu: illegal instruction")

// ErrUnsupportedLength is returned when the instruction-length
// classifier (see length.go) reports anything other than 32 bits.
var ErrUnsupportedLength = errors.New("cpu: unsupported instruction length")

func extErr(name string) error {
	return &ExecutionError{Kind: KindExtension, Name: name}
}

func invalidErr(word uint32) error {
	return &ExecutionError{Kind: KindInvalidInstruction, Hex: word}
}

func misalignedErr() error {
	return &ExecutionError{Kind: KindInstructionAddressMisaligned}
}

func unimplementedErr(mnemonic string) error {
	return &ExecutionError{Kind: KindUnimplemented, Name: mnemonic}
}

func userTerminateErr(code uint32) error {
	return &ExecutionError{Kind: KindUserTerminate, ExitCode: code}
}
