package cpu

// This file contains the five immediate decoders of spec.md §4.2, one
// per RISC-V instruction format. Each reassembles the scattered
// immediate bits of the 32-bit little-endian-assembled instruction
// word and sign-extends the result to int32, the type address
// arithmetic and comparisons use throughout pkg/cpu.
//
// Grounded on the teacher's DecodeImm17/DecodeImm22/SignExtend17
// (pkg/vm/vm.go), generalized from the teacher's two custom 17/22-bit
// fields to RV32I's five formats; bit positions cross-checked against
// original_source/src/decode.rs.

// signExtend sign-extends the low `bits` bits of v to a full int32.
func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// DecodeIImm decodes the 12-bit I-format immediate: inst[31:20].
func DecodeIImm(word uint32) int32 {
	return signExtend(word>>20, 12)
}

// DecodeSImm decodes the 12-bit S-format immediate:
// inst[31:25] || inst[11:7].
func DecodeSImm(word uint32) int32 {
	hi := (word >> 25) & 0x7F
	lo := (word >> 7) & 0x1F
	return signExtend(hi<<5|lo, 12)
}

// DecodeBImm decodes the 13-bit B-format immediate (low bit always
// zero): inst[31] || inst[7] || inst[30:25] || inst[11:8] || 0.
func DecodeBImm(word uint32) int32 {
	bit12 := (word >> 31) & 0x1
	bit11 := (word >> 7) & 0x1
	bits10_5 := (word >> 25) & 0x3F
	bits4_1 := (word >> 8) & 0xF
	v := bit12<<12 | bit11<<11 | bits10_5<<5 | bits4_1<<1
	return signExtend(v, 13)
}

// DecodeUImm decodes the U-format immediate: inst[31:12] << 12. The
// lower 12 bits are always zero and the value is already sign-correct
// by placement (bit 31 of the word is bit 31 of the result).
func DecodeUImm(word uint32) int32 {
	return int32(word & 0xFFFFF000)
}

// DecodeJImm decodes the 21-bit J-format immediate (low bit always
// zero): inst[31] || inst[19:12] || inst[20] || inst[30:21] || 0.
func DecodeJImm(word uint32) int32 {
	bit20 := (word >> 31) & 0x1
	bits19_12 := (word >> 12) & 0xFF
	bit11 := (word >> 20) & 0x1
	bits10_1 := (word >> 21) & 0x3FF
	v := bit20<<20 | bits19_12<<12 | bit11<<11 | bits10_1<<1
	return signExtend(v, 21)
}
