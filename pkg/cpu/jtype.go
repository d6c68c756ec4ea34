package cpu

// This file implements jal (opcode 0x6F), spec.md §4.4.6. Grounded on
// the teacher's OpcodeJALR case shape (pkg/vm/vm.go) for the
// link-then-jump idiom, generalized to RV32I's J-immediate encoding.

const OpcodeJAL = 0x6F

func (c *CPU) execJAL(f decodedFields) error {
	imm := DecodeJImm(f.word)
	if imm%4 != 0 {
		return misalignedErr()
	}
	c.Regs[f.rd] = c.PC + 4
	c.PC = uint32(int64(c.PC) + int64(imm))
	return nil
}
