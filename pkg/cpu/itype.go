package cpu

import "strconv"

// This file implements the three I-type opcode groups of spec.md
// §4.4.2: loads (0x03), immediate ALU ops and shifts (0x13), jalr and
// ecall/ebreak/CSR (0x67 / 0x73).
//
// Grounded on the teacher's VM.Execute switch (pkg/vm/vm.go) for the
// overall dispatch-and-mutate shape; the ecall service-number handling
// is grounded on the teacher's ecall-like TTY console (pkg/vm/tty.go),
// generalized to the two service numbers spec.md §4.4.2/§6.6 define.

const (
	OpcodeLoad   = 0x03
	OpcodeImm    = 0x13
	OpcodeJalr   = 0x67
	OpcodeSystem = 0x73
)

func (c *CPU) execLoad(f decodedFields) error {
	imm := DecodeIImm(f.word)
	ea := c.Regs[f.rs1] + uint32(imm)
	switch f.funct3 {
	case 0: // lb
		v, err := c.ReadByte(ea)
		if err != nil {
			return err
		}
		c.Regs[f.rd] = uint32(int32(int8(v)))
	case 1: // lh
		v, err := c.ReadHalf(ea)
		if err != nil {
			return err
		}
		c.Regs[f.rd] = uint32(int32(int16(v)))
	case 2: // lw
		v, err := c.ReadWord(ea)
		if err != nil {
			return err
		}
		c.Regs[f.rd] = v
	case 4: // lbu
		v, err := c.ReadByte(ea)
		if err != nil {
			return err
		}
		c.Regs[f.rd] = uint32(v)
	case 5: // lhu
		v, err := c.ReadHalf(ea)
		if err != nil {
			return err
		}
		c.Regs[f.rd] = uint32(v)
	default:
		return invalidErr(f.word)
	}
	c.PC += 4
	return nil
}

func (c *CPU) execImm(f decodedFields) error {
	a := c.Regs[f.rs1]
	imm := DecodeIImm(f.word)
	switch f.funct3 {
	case 0: // addi
		c.Regs[f.rd] = a + uint32(imm)
	case 1: // slli
		if f.funct7 != 0x00 {
			return invalidErr(f.word)
		}
		c.Regs[f.rd] = a << (uint32(imm) & 0x1F)
	case 2: // slti
		c.Regs[f.rd] = boolToWord(int32(a) < imm)
	case 3: // sltiu
		c.Regs[f.rd] = boolToWord(a < uint32(imm))
	case 4: // xori
		c.Regs[f.rd] = a ^ uint32(imm)
	case 5: // srli / srai
		switch f.funct7 {
		case 0x00: // srli
			c.Regs[f.rd] = a >> (uint32(imm) & 0x1F)
		case 0x20: // srai
			c.Regs[f.rd] = uint32(int32(a) >> (uint32(imm) & 0x1F))
		default:
			return invalidErr(f.word)
		}
	case 6: // ori
		c.Regs[f.rd] = a | uint32(imm)
	case 7: // andi
		c.Regs[f.rd] = a & uint32(imm)
	default:
		return invalidErr(f.word)
	}
	c.PC += 4
	return nil
}

func (c *CPU) execJalr(f decodedFields) error {
	if f.funct3 != 0 {
		return invalidErr(f.word)
	}
	imm := DecodeIImm(f.word)
	dest := (c.Regs[f.rs1] + uint32(imm)) &^ 1
	if dest%4 != 0 {
		return misalignedErr()
	}
	c.Regs[f.rd] = c.PC + 4
	c.PC = dest
	return nil
}

// csrMnemonics names the six funct3 values reserved for CSR access;
// spec.md §4.4.2 requires these fail Unimplemented rather than be
// silently accepted.
var csrMnemonics = map[uint32]string{
	1: "csrrw",
	2: "csrrs",
	3: "csrrc",
	4: "csrrwi",
	5: "csrrsi",
	6: "csrrci",
}

func (c *CPU) execSystem(f decodedFields) error {
	imm := DecodeIImm(f.word)
	switch {
	case f.funct3 == 0 && f.funct7 == 0x00 && imm == 0:
		return c.execEcall(f)
	case f.funct3 == 0 && f.funct7 == 0x01:
		return unimplementedErr("ebreak")
	default:
		if name, ok := csrMnemonics[f.funct3]; ok {
			return unimplementedErr(name)
		}
		return invalidErr(f.word)
	}
}

// execEcall implements the two recognized service numbers of spec.md
// §4.4.2: a0 (x10) == 0x1 prints x11 as signed decimal, a0 == 0xA
// terminates. Any other service number is a no-op.
//
// PC-advance policy follows CPU.AdvancePCOnEcall (spec.md §9 open
// question 1): the teacher-lineage source never advances PC here,
// which this engine exposes as an explicit, opt-out configuration
// instead of silently reproducing.
func (c *CPU) execEcall(f decodedFields) error {
	a0 := c.Regs[10]
	switch a0 {
	case 0x1:
		a1 := c.Regs[11]
		c.Console.Print(strconv.FormatInt(int64(int32(a1)), 10))
	case 0xA:
		return userTerminateErr(c.Regs[11] & 0xFF)
	}
	if c.AdvancePCOnEcall {
		c.PC += 4
	}
	return nil
}
