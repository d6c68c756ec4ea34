package cpu

// This file implements the FENCE handler (opcode 0x0F), spec.md
// §4.4.7. Fence ordering semantics are out of scope (spec.md §1
// Non-goals); the instruction is recognized but always fails
// Unimplemented, distinguishing FENCE (funct3 0) from FENCE.I
// (funct3 1) in the error message the way spec.md's table requires.

const OpcodeFence = 0x0F

func (c *CPU) execFence(f decodedFields) error {
	if f.funct3 == 1 {
		return unimplementedErr("FENCE.I")
	}
	return unimplementedErr("FENCE")
}
