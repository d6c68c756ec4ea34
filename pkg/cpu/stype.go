package cpu

// This file implements the S-type store handler (opcode 0x23),
// spec.md §4.4.3. Grounded on the teacher's VM.Execute OpcodeSW case
// (pkg/vm/vm.go), split to its own family-file per rtype.go's note.

const OpcodeStore = 0x23

func (c *CPU) execStore(f decodedFields) error {
	imm := DecodeSImm(f.word)
	ea := c.Regs[f.rs1] + uint32(imm)
	v := c.Regs[f.rs2]
	var err error
	switch f.funct3 {
	case 0: // sb
		err = c.WriteByte(ea, v)
	case 1: // sh
		err = c.WriteHalf(ea, v)
	case 2: // sw
		err = c.WriteWord(ea, v)
	default:
		return invalidErr(f.word)
	}
	if err != nil {
		return err
	}
	c.PC += 4
	return nil
}
