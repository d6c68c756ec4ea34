package cpu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assemble packs one or more 32-bit words into a little-endian
// instruction-memory image, mirroring the way pkg/loader.LoadHex and
// pkg/asm.Instruction.Encode both produce IMem bytes.
func assemble(words ...uint32) []byte {
	out := make([]byte, 0, 4*len(words))
	for _, w := range words {
		out = append(out, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	return out
}

func encR(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return opcode&0x7F | (rd&0x1F)<<7 | (funct3&0x7)<<12 | (rs1&0x1F)<<15 | (rs2&0x1F)<<20 | (funct7&0x7F)<<25
}

func encI(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return opcode&0x7F | (rd&0x1F)<<7 | (funct3&0x7)<<12 | (rs1&0x1F)<<15 | (uint32(imm)&0xFFF)<<20
}

func encB(funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return OpcodeBranch | ((u>>11)&0x1)<<7 | ((u>>1)&0xF)<<8 | (funct3&0x7)<<12 |
		(rs1&0x1F)<<15 | (rs2&0x1F)<<20 | ((u>>5)&0x3F)<<25 | ((u>>12)&0x1)<<31
}

func encU(opcode, rd uint32, imm int32) uint32 {
	return opcode&0x7F | (rd&0x1F)<<7 | (uint32(imm) & 0xFFFFF000)
}

func TestScenario1_AddAccumulates(t *testing.T) {
	c := New(Extensions{})
	c.IMem = assemble(
		encI(OpcodeImm, 1, 0, 0, 7),  // addi x1, x0, 7
		encI(OpcodeImm, 2, 0, 0, 5),  // addi x2, x0, 5
		encR(OpcodeR, 3, 0, 1, 2, 0), // add x3, x1, x2
	)
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Step())
	}
	assert.Equal(t, uint32(7), c.Regs[1])
	assert.Equal(t, uint32(5), c.Regs[2])
	assert.Equal(t, uint32(12), c.Regs[3])
	assert.Equal(t, uint32(12), c.PC)
}

func TestScenario2_LUI(t *testing.T) {
	c := New(Extensions{})
	c.IMem = assemble(encU(OpcodeLUI, 5, int32(0xFFFFF000)))
	require.NoError(t, c.Step())
	assert.Equal(t, uint32(0xFFFFF000), c.Regs[5])
	assert.Equal(t, uint32(4), c.PC)
}

func TestScenario3_AUIPC(t *testing.T) {
	c := New(Extensions{})
	c.IMem = assemble(encU(OpcodeAUIPC, 6, 0))
	require.NoError(t, c.Step())
	assert.Equal(t, uint32(0), c.Regs[6])
}

func TestScenario4_BranchNotTaken(t *testing.T) {
	c := New(Extensions{})
	c.IMem = assemble(
		encI(OpcodeImm, 1, 0, 0, 1),
		encB(0, 1, 0, 8), // beq x1, x0, +8 (not taken: x1 != 0)
		encI(OpcodeImm, 2, 0, 0, 42),
	)
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Step())
	}
	assert.Equal(t, uint32(42), c.Regs[2])
}

func TestScenario5_BranchTakenSkipsInstruction(t *testing.T) {
	c := New(Extensions{})
	c.IMem = assemble(
		encI(OpcodeImm, 1, 0, 0, 1),
		encB(1, 1, 0, 8), // bne x1, x0, +8 (taken: x1 != 0)
		encI(OpcodeImm, 2, 0, 0, 42),
		encI(OpcodeImm, 3, 0, 0, 99),
	)
	require.NoError(t, c.Step()) // addi x1
	require.NoError(t, c.Step()) // bne, taken
	require.NoError(t, c.Step()) // addi x3 (skipped x2's slot)
	assert.Equal(t, uint32(0), c.Regs[2])
	assert.Equal(t, uint32(99), c.Regs[3])
}

func TestScenario6_DivideAllOnesByOne(t *testing.T) {
	c := New(Extensions{M: true})
	c.IMem = assemble(
		encI(OpcodeImm, 1, 0, 0, -1),
		encI(OpcodeImm, 2, 0, 0, 1),
		encR(OpcodeR, 3, 5, 1, 2, 0x01), // divu x3, x1, x2
		encR(OpcodeR, 4, 4, 1, 2, 0x01), // div x4, x1, x2
	)
	for i := 0; i < 4; i++ {
		require.NoError(t, c.Step())
	}
	assert.Equal(t, uint32(0xFFFFFFFF), c.Regs[3])
	assert.Equal(t, uint32(0xFFFFFFFF), c.Regs[4])
}

func TestXZeroAlwaysZero(t *testing.T) {
	c := New(Extensions{})
	c.IMem = assemble(encI(OpcodeImm, 0, 0, 0, 123))
	require.NoError(t, c.Step())
	assert.Equal(t, uint32(0), c.Regs[0])
}

func TestPCAdvancesByFourOnNonControl(t *testing.T) {
	c := New(Extensions{})
	c.IMem = assemble(encI(OpcodeImm, 1, 0, 0, 1))
	pcBefore := c.PC
	require.NoError(t, c.Step())
	assert.Equal(t, pcBefore+4, c.PC)
}

func TestBranchMisaligned(t *testing.T) {
	c := New(Extensions{})
	c.IMem = assemble(encB(0, 0, 0, 2)) // beq x0, x0, +2: always taken, misaligned
	err := c.Step()
	require.Error(t, err)
	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, KindInstructionAddressMisaligned, execErr.Kind)
}

func TestStoreLoadRoundTrip(t *testing.T) {
	c := New(Extensions{})
	c.IMem = assemble(
		encI(OpcodeImm, 1, 0, 0, 100), // addi x1, x0, 100  (value)
		encI(OpcodeImm, 2, 0, 0, 0),   // addi x2, x0, 0    (address)
		encS(2, 2, 1),                 // sw x1, 0(x2)
		encI(OpcodeLoad, 3, 2, 2, 0),  // lw x3, 0(x2)
	)
	for i := 0; i < 4; i++ {
		require.NoError(t, c.Step())
	}
	assert.Equal(t, uint32(100), c.Regs[3])
}

func encS(funct3, rs1, rs2 uint32) uint32 {
	return OpcodeStore | (funct3&0x7)<<12 | (rs1&0x1F)<<15 | (rs2&0x1F)<<20
}

func TestSignExtendedByteLoad(t *testing.T) {
	c := New(Extensions{})
	c.IMem = assemble(
		encI(OpcodeImm, 1, 0, 0, 0xFF), // addi x1, x0, 0xFF
		encI(OpcodeImm, 2, 0, 0, 0),
		encS(0, 2, 1),                // sb x1, 0(x2)
		encI(OpcodeLoad, 3, 0, 2, 0), // lb x3, 0(x2)
	)
	for i := 0; i < 4; i++ {
		require.NoError(t, c.Step())
	}
	assert.Equal(t, uint32(0xFFFFFFFF), c.Regs[3])
}

func TestRunStopsAtEndOfIMem(t *testing.T) {
	c := New(Extensions{})
	c.IMem = assemble(encI(OpcodeImm, 1, 0, 0, 1))
	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, uint64(1), c.Steps())
}

func TestRunHonorsStepBudget(t *testing.T) {
	c := New(Extensions{})
	c.IMem = assemble(
		encI(OpcodeImm, 1, 0, 1, 1), // addi x1, x1, 1
		encB(0, 0, 0, -4),           // beq x0, x0, -4: always taken, loops forever
	)
	c.MaxSteps = 10
	err := c.Run(context.Background())
	require.ErrorIs(t, err, ErrStepBudgetExhausted)
	assert.Equal(t, uint64(10), c.Steps())
}

func TestUserTerminateViaEcall(t *testing.T) {
	c := New(Extensions{})
	c.IMem = assemble(
		encI(OpcodeImm, 10, 0, 0, 0xA), // addi x10(a0), x0, 0xA
		encI(OpcodeImm, 11, 0, 0, 0),   // addi x11(a1), x0, 0  (exit code 0)
		encI(OpcodeSystem, 0, 0, 0, 0), // ecall
	)
	require.NoError(t, c.Run(context.Background()))
}

func TestUserTerminateNonZeroExitPropagates(t *testing.T) {
	c := New(Extensions{})
	c.IMem = assemble(
		encI(OpcodeImm, 10, 0, 0, 0xA),
		encI(OpcodeImm, 11, 0, 0, 3),
		encI(OpcodeSystem, 0, 0, 0, 0),
	)
	err := c.Run(context.Background())
	require.Error(t, err)
	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, uint32(3), execErr.ExitCode)
}

func TestExtensionGating(t *testing.T) {
	c := New(Extensions{M: false})
	c.IMem = assemble(encR(OpcodeR, 3, 4, 1, 2, 0x01)) // div without M enabled
	err := c.Step()
	require.Error(t, err)
	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, KindExtension, execErr.Kind)
	assert.Equal(t, "M", execErr.Name)
}

// TestIllegalInstructionWord checks that an all-zero word is rejected.
// Step classifies the length before the illegal-word guard, and a low
// byte of 0x00 classifies as 16 bits, so the rejection is
// ErrUnsupportedLength.
func TestIllegalInstructionWord(t *testing.T) {
	c := New(Extensions{})
	c.IMem = []byte{0, 0, 0, 0}
	err := c.Step()
	require.ErrorIs(t, err, ErrUnsupportedLength)
}
