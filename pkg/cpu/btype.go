package cpu

// This file implements the B-type branch handler (opcode 0x63),
// spec.md §4.4.4. Grounded on the teacher's OpcodeBEQ case
// (pkg/vm/vm.go), generalized from RiSC-32's single beq to RV32I's
// six comparisons.
//
// spec.md §9 open question 2 calls out the teacher-lineage source's
// bge-reuses-blt typo; this handler implements the corrected
// `rs1 >= rs2` (signed) semantics spec.md's table states, not the bug.

const OpcodeBranch = 0x63

func (c *CPU) execBranch(f decodedFields) error {
	a := c.Regs[f.rs1]
	b := c.Regs[f.rs2]
	var taken bool
	switch f.funct3 {
	case 0: // beq
		taken = a == b
	case 1: // bne
		taken = a != b
	case 4: // blt
		taken = int32(a) < int32(b)
	case 5: // bge
		taken = int32(a) >= int32(b)
	case 6: // bltu
		taken = a < b
	case 7: // bgeu
		taken = a >= b
	default:
		return invalidErr(f.word)
	}
	if !taken {
		c.PC += 4
		return nil
	}
	imm := DecodeBImm(f.word)
	if imm%4 != 0 {
		return misalignedErr()
	}
	c.PC = uint32(int64(c.PC) + int64(imm))
	return nil
}
