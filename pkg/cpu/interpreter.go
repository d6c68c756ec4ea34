package cpu

import (
	"context"
	"errors"
	"time"
)

// ErrStepBudgetExhausted is returned by Run when MaxSteps instructions
// have executed without the program halting on its own. It exists so
// a CLI or test harness can impose a ceiling on a runaway program
// without the engine itself needing a notion of "too long".
var ErrStepBudgetExhausted = errors.New("cpu: step budget exhausted")

// Step fetches, classifies, decodes and executes exactly one
// instruction, per spec.md §4.5. It returns ErrEndOfIMem when
// PC+4 exceeds len(IMem) (a normal halt, not a fault),
// ErrUnsupportedLength or ErrIllegalInstruction on a malformed word,
// or an *ExecutionError from the dispatched handler.
//
// Grounded on the teacher's cmd/interp/main.go fetch/execute loop,
// moved into the engine per spec.md §9 item 1 so the CLI driver no
// longer owns architectural state.
func (c *CPU) Step() error {
	if uint64(c.PC)+4 > uint64(len(c.IMem)) {
		return ErrEndOfIMem
	}
	var raw [4]byte
	copy(raw[:], c.IMem[c.PC:c.PC+4])

	if InstructionLength(raw[0]) != 32 {
		return ErrUnsupportedLength
	}

	word := littleEndianWord(raw)
	if word == 0x00000000 || word == 0xFFFFFFFF {
		return ErrIllegalInstruction
	}

	f := decodeFields(raw)
	pcAtFetch := c.PC
	err := c.dispatch(f)

	c.Regs[0] = 0

	if c.Trace != nil {
		c.Trace.Record(TraceEntry{
			Step:  c.steps,
			PC:    pcAtFetch,
			Word:  word,
			Regs:  c.Regs,
			Mnemo: Disassemble(word),
		})
	}

	if err == nil {
		c.steps++
	}
	return err
}

// dispatch routes a decoded instruction to the format handler for its
// opcode group, per spec.md §2 step 5 / §4.4.
func (c *CPU) dispatch(f decodedFields) error {
	switch f.opcode {
	case OpcodeR:
		return c.execR(f)
	case OpcodeLoad:
		return c.execLoad(f)
	case OpcodeImm:
		return c.execImm(f)
	case OpcodeJalr:
		return c.execJalr(f)
	case OpcodeSystem:
		return c.execSystem(f)
	case OpcodeStore:
		return c.execStore(f)
	case OpcodeBranch:
		return c.execBranch(f)
	case OpcodeLUI:
		return c.execLUI(f)
	case OpcodeAUIPC:
		return c.execAUIPC(f)
	case OpcodeJAL:
		return c.execJAL(f)
	case OpcodeFence:
		return c.execFence(f)
	default:
		return invalidErr(f.word)
	}
}

// Run drives Step in a loop until the program halts, faults, exhausts
// its step budget, or ctx is canceled. It returns nil on the two
// "clean" terminations (end of instruction memory, or UserTerminate
// with exit code 0); any other outcome is returned as an error so the
// caller can classify and report it.
//
// ctx is checked once per fetch (spec.md §5: there are no suspension
// points inside a single instruction's execution) so a host can bound
// wall-clock time without the core needing its own timer.
func (c *CPU) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if c.MaxSteps != 0 && c.steps >= c.MaxSteps {
			return ErrStepBudgetExhausted
		}

		err := c.Step()
		if err != nil {
			if errors.Is(err, ErrEndOfIMem) {
				return nil
			}
			var execErr *ExecutionError
			if errors.As(err, &execErr) && execErr.Kind == KindUserTerminate {
				if execErr.ExitCode == 0 {
					return nil
				}
			}
			return err
		}

		if c.StepDelay > 0 {
			time.Sleep(c.StepDelay)
		}
	}
}
