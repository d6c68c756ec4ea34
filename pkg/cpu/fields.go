package cpu

// This file contains the pure field extractors of spec.md §4.1. They
// operate on a 4-byte little-endian instruction word (b[0] is bits
// [7:0], b[3] is bits [31:24]) and never fail: RISC-V's 32-bit
// encoding always has an opcode, rd, funct3, rs1, rs2 and funct7 slot
// even when a given format doesn't use all of them.
//
// Grounded on the teacher's DecodeOpcode/DecodeRA/DecodeRB/DecodeRC in
// pkg/vm/vm.go, re-targeted from the teacher's RiSC-32 5/5/5/12/5
// layout to the RV32I bit positions spec.md §4.1 specifies.

// ExtractOpcode returns bits [6:0].
func ExtractOpcode(b [4]byte) uint32 {
	return uint32(b[0]) & 0x7F
}

// ExtractRd returns bits [11:7].
func ExtractRd(b [4]byte) uint32 {
	return (uint32(b[0])>>7)&0x1 | (uint32(b[1])&0x0F)<<1
}

// ExtractFunct3 returns bits [14:12].
func ExtractFunct3(b [4]byte) uint32 {
	return (uint32(b[1]) >> 4) & 0x07
}

// ExtractRs1 returns bits [19:15].
func ExtractRs1(b [4]byte) uint32 {
	return (uint32(b[1])>>7)&0x1 | (uint32(b[2])&0x0F)<<1
}

// ExtractRs2 returns bits [24:20].
func ExtractRs2(b [4]byte) uint32 {
	return (uint32(b[2])>>4)&0x0F | (uint32(b[3])&0x01)<<4
}

// ExtractFunct7 returns bits [31:25].
func ExtractFunct7(b [4]byte) uint32 {
	return (uint32(b[3]) >> 1) & 0x7F
}

// decodedFields bundles every field extractor's result so handlers
// don't have to re-extract the same bits for different purposes.
type decodedFields struct {
	opcode uint32
	rd     uint32
	funct3 uint32
	rs1    uint32
	rs2    uint32
	funct7 uint32
	word   uint32
}

func decodeFields(b [4]byte) decodedFields {
	return decodedFields{
		opcode: ExtractOpcode(b),
		rd:     ExtractRd(b),
		funct3: ExtractFunct3(b),
		rs1:    ExtractRs1(b),
		rs2:    ExtractRs2(b),
		funct7: ExtractFunct7(b),
		word:   littleEndianWord(b),
	}
}

func littleEndianWord(b [4]byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
