package cpu

// This file implements the two U-type instructions, spec.md §4.4.5:
// lui (opcode 0x37) and auipc (opcode 0x17). No direct teacher
// equivalent exists; grounded on the dispatch-table shape of the rest
// of pkg/cpu.

const (
	OpcodeLUI   = 0x37
	OpcodeAUIPC = 0x17
)

func (c *CPU) execLUI(f decodedFields) error {
	c.Regs[f.rd] = uint32(DecodeUImm(f.word))
	c.PC += 4
	return nil
}

func (c *CPU) execAUIPC(f decodedFields) error {
	c.Regs[f.rd] = c.PC + uint32(DecodeUImm(f.word))
	c.PC += 4
	return nil
}
