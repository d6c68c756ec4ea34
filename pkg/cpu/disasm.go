package cpu

import "fmt"

// Disassemble decodes a single 32-bit instruction word and returns its
// mnemonic form. It never fails: an unrecognized opcode renders as
// "<unknown instruction: 0x...>" and an unrecognized funct3/funct7 of
// a known opcode as a per-format "<unknown ...>" placeholder, the way
// the teacher's Disassemble
// (pkg/vm/vm.go) renders an unrecognized opcode rather than erroring,
// since disassembly is a diagnostic aid and must never itself halt a
// trace or the `rv32i disasm` subcommand.
func Disassemble(word uint32) string {
	var raw [4]byte
	raw[0] = byte(word)
	raw[1] = byte(word >> 8)
	raw[2] = byte(word >> 16)
	raw[3] = byte(word >> 24)
	f := decodeFields(raw)

	switch f.opcode {
	case OpcodeR:
		return disasmR(f)
	case OpcodeLoad:
		return disasmLoad(f)
	case OpcodeImm:
		return disasmImm(f)
	case OpcodeJalr:
		return fmt.Sprintf("jalr x%d, %d(x%d)", f.rd, DecodeIImm(word), f.rs1)
	case OpcodeSystem:
		return disasmSystem(f)
	case OpcodeStore:
		return disasmStore(f)
	case OpcodeBranch:
		return disasmBranch(f)
	case OpcodeLUI:
		return fmt.Sprintf("lui x%d, 0x%x", f.rd, uint32(DecodeUImm(word))>>12)
	case OpcodeAUIPC:
		return fmt.Sprintf("auipc x%d, 0x%x", f.rd, uint32(DecodeUImm(word))>>12)
	case OpcodeJAL:
		return fmt.Sprintf("jal x%d, %d", f.rd, DecodeJImm(word))
	case OpcodeFence:
		if f.funct3 == 1 {
			return "fence.i"
		}
		return "fence"
	default:
		return fmt.Sprintf("<unknown instruction: 0x%08x>", word)
	}
}

func disasmR(f decodedFields) string {
	mnemonic, ok := rTypeMnemonics[[2]uint32{f.funct3, f.funct7}]
	if !ok {
		return fmt.Sprintf("<unknown r-type: f3=%d f7=0x%02x>", f.funct3, f.funct7)
	}
	return fmt.Sprintf("%s x%d, x%d, x%d", mnemonic, f.rd, f.rs1, f.rs2)
}

var rTypeMnemonics = map[[2]uint32]string{
	{0, 0x00}: "add", {0, 0x20}: "sub",
	{1, 0x00}: "sll", {2, 0x00}: "slt", {3, 0x00}: "sltu",
	{4, 0x00}: "xor", {5, 0x00}: "srl", {5, 0x20}: "sra",
	{6, 0x00}: "or", {7, 0x00}: "and",
	{0, 0x01}: "mul", {1, 0x01}: "mulh", {2, 0x01}: "mulhsu", {3, 0x01}: "mulhu",
	{4, 0x01}: "div", {5, 0x01}: "divu", {6, 0x01}: "rem", {7, 0x01}: "remu",
}

func disasmLoad(f decodedFields) string {
	names := map[uint32]string{0: "lb", 1: "lh", 2: "lw", 4: "lbu", 5: "lhu"}
	name, ok := names[f.funct3]
	if !ok {
		return fmt.Sprintf("<unknown load: f3=%d>", f.funct3)
	}
	return fmt.Sprintf("%s x%d, %d(x%d)", name, f.rd, DecodeIImm(f.word), f.rs1)
}

func disasmStore(f decodedFields) string {
	names := map[uint32]string{0: "sb", 1: "sh", 2: "sw"}
	name, ok := names[f.funct3]
	if !ok {
		return fmt.Sprintf("<unknown store: f3=%d>", f.funct3)
	}
	return fmt.Sprintf("%s x%d, %d(x%d)", name, f.rs2, DecodeSImm(f.word), f.rs1)
}

func disasmBranch(f decodedFields) string {
	names := map[uint32]string{0: "beq", 1: "bne", 4: "blt", 5: "bge", 6: "bltu", 7: "bgeu"}
	name, ok := names[f.funct3]
	if !ok {
		return fmt.Sprintf("<unknown branch: f3=%d>", f.funct3)
	}
	return fmt.Sprintf("%s x%d, x%d, %d", name, f.rs1, f.rs2, DecodeBImm(f.word))
}

func disasmImm(f decodedFields) string {
	imm := DecodeIImm(f.word)
	switch f.funct3 {
	case 0:
		return fmt.Sprintf("addi x%d, x%d, %d", f.rd, f.rs1, imm)
	case 1:
		return fmt.Sprintf("slli x%d, x%d, %d", f.rd, f.rs1, uint32(imm)&0x1F)
	case 2:
		return fmt.Sprintf("slti x%d, x%d, %d", f.rd, f.rs1, imm)
	case 3:
		return fmt.Sprintf("sltiu x%d, x%d, %d", f.rd, f.rs1, imm)
	case 4:
		return fmt.Sprintf("xori x%d, x%d, %d", f.rd, f.rs1, imm)
	case 5:
		if f.funct7 == 0x20 {
			return fmt.Sprintf("srai x%d, x%d, %d", f.rd, f.rs1, uint32(imm)&0x1F)
		}
		return fmt.Sprintf("srli x%d, x%d, %d", f.rd, f.rs1, uint32(imm)&0x1F)
	case 6:
		return fmt.Sprintf("ori x%d, x%d, %d", f.rd, f.rs1, imm)
	case 7:
		return fmt.Sprintf("andi x%d, x%d, %d", f.rd, f.rs1, imm)
	default:
		return fmt.Sprintf("<unknown imm-op: f3=%d>", f.funct3)
	}
}

func disasmSystem(f decodedFields) string {
	imm := DecodeIImm(f.word)
	if f.funct3 == 0 && f.funct7 == 0x00 && imm == 0 {
		return "ecall"
	}
	if f.funct3 == 0 && f.funct7 == 0x01 {
		return "ebreak"
	}
	if name, ok := csrMnemonics[f.funct3]; ok {
		return name
	}
	return fmt.Sprintf("<unknown system: f3=%d>", f.funct3)
}
