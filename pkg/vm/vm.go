package vm

import (
	"fmt"
	"io"

	"github.com/oisee/minix2vm/pkg/x86"
)

// MaxCycles bounds a single run to guard against pathological or infinite
// loops; exceeding it is reported as ErrCycleLimitExceeded.
const MaxCycles = 999999

// argvBaseSP is the stack pointer argv staging starts from, and the
// location of the Minix stack-seed bytes preserved below.
const argvBaseSP = 0xFFDA

// VM is the fetch/decode/execute core: two linear memories (text, data),
// a register file, a flag set, the instruction pointer, and the trace
// switch. It holds no state beyond what a single run needs, so a fresh VM
// is built per execution.
type VM struct {
	IP   uint16
	Text *Memory
	Data *Memory
	Regs RegisterFile
	Flags FlagSet

	Trace  bool
	Output io.Writer

	cycles int
}

// New builds a VM over the given text and data segments. Data is mounted
// into a 64 KiB address space at offset 0, per the reference memory model;
// text is mounted separately and is addressed only by ip.
func New(text, data []byte, out io.Writer) *VM {
	return &VM{
		Text:   NewMemoryFrom(text, len(text)),
		Data:   NewMemoryFrom(data, DataMemorySize),
		Output: out,
	}
}

// StageArgv places argv strings and the argc/argv pointer array onto the
// stack below argvBaseSP, per §4.7's argv-staging contract, and preserves
// the Minix stack-seed bytes at 0xFFDA/0xFFDC.
func (m *VM) StageArgv(args []string) {
	m.Data.WriteWord(0xFFDA, 0x0001)
	m.Data.WriteWord(0xFFDC, 0xFFE4)

	sp := uint16(argvBaseSP)
	pointers := make([]uint16, len(args))
	for i, arg := range args {
		b := append([]byte(arg), 0)
		sp -= uint16(len(b))
		m.Data.WriteBytes(sp, b)
		pointers[i] = sp
	}

	sp -= 2
	m.Data.WriteWord(sp, 0x0000)
	for i := len(pointers) - 1; i >= 0; i-- {
		sp -= 2
		m.Data.WriteWord(sp, pointers[i])
	}

	sp -= 2
	m.Data.WriteWord(sp, uint16(len(args)))

	m.Regs.Set16(x86.SP, sp)
}

// fetch returns the next instruction window, or (nil, false) when text is
// exhausted and the run loop should terminate normally.
func (m *VM) fetch() ([]byte, bool) {
	if int(m.IP) >= m.Text.Len() {
		return nil, false
	}
	n := MaxInstructionWindow(m.Text.Len() - int(m.IP))
	return m.Text.ReadBytes(m.IP, n), true
}

// MaxInstructionWindow caps a fetch window at the longest possible 8086
// instruction.
func MaxInstructionWindow(remaining int) int {
	if remaining > x86.MaxInstructionLength {
		return x86.MaxInstructionLength
	}
	return remaining
}

// Run executes instructions until normal end-of-text, HLT, the exit
// syscall, or a fatal error.
func (m *VM) Run() error {
	for {
		chunk, ok := m.fetch()
		if !ok {
			return nil
		}

		ir, n, err := x86.Decode(chunk, m.IP)
		if err != nil {
			return fmt.Errorf("vm: decode at %#04x: %w", m.IP, err)
		}

		if m.Trace {
			m.writeTraceLine(ir, chunk[:n])
		}

		m.IP += uint16(n)

		m.cycles++
		if m.cycles > MaxCycles {
			return ErrCycleLimitExceeded
		}

		if err := m.execute(ir); err != nil {
			if err == ErrExitCatch {
				return nil
			}
			return err
		}
		if ir.Mnemonic == x86.Hlt {
			return nil
		}
	}
}

func (m *VM) writeTraceLine(ir x86.IR, raw []byte) {
	if m.Output == nil {
		return
	}
	fmt.Fprintf(m.Output, "%04x %04x %04x %04x %04x %04x %04x %04x %s %04x:%s %s%s\n",
		m.Regs.Get16(x86.AX), m.Regs.Get16(x86.BX), m.Regs.Get16(x86.CX), m.Regs.Get16(x86.DX),
		m.Regs.Get16(x86.SP), m.Regs.Get16(x86.BP), m.Regs.Get16(x86.SI), m.Regs.Get16(x86.DI),
		m.Flags.String(), m.IP, hexRaw(raw), ir.String(), m.memoryOperandSuffix(ir))
}

// memoryOperandSuffix renders " ;[<ea>]<value>" when the instruction reads
// or writes a memory operand, showing the word currently held there (the
// trace line is emitted before the instruction executes).
func (m *VM) memoryOperandSuffix(ir x86.IR) string {
	if ir.Mnemonic == x86.Lea {
		// LEA computes the effective address itself; it never reads or
		// writes through it.
		return ""
	}
	var addr x86.Address
	found := false
	if ir.HasDest && ir.Dest.Kind == x86.OperandAddress {
		addr, found = ir.Dest.Addr, true
	} else if ir.HasSrc && ir.Src.Kind == x86.OperandAddress {
		addr, found = ir.Src.Addr, true
	}
	if !found {
		return ""
	}
	ea := m.effectiveAddress(addr)
	return fmt.Sprintf(" ;[%04x]%04x", ea, m.Data.ReadWord(ea))
}

func hexRaw(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 0, len(b)*2)
	for _, c := range b {
		out = append(out, hexdigits[c>>4], hexdigits[c&0xF])
	}
	return string(out)
}

// effectiveAddress resolves a memory operand to its 16-bit data address.
func (m *VM) effectiveAddress(addr x86.Address) uint16 {
	var base, index, disp int32
	if addr.Base != nil {
		base = int32(m.Regs.Get16(*addr.Base))
	}
	if addr.Index != nil {
		index = int32(m.Regs.Get16(*addr.Index))
	}
	if addr.Disp != nil {
		disp = int32(addr.Disp.Value)
	}
	return uint16(base + index + disp)
}

// readValue reads an operand as a 16-bit value (byte operands zero-extended
// for computation purposes; callers needing sign-extension do so
// themselves).
func (m *VM) readValue(op x86.Operand, byteWidth bool) uint16 {
	switch op.Kind {
	case x86.OperandRegister:
		if byteWidth {
			return uint16(m.Regs.Get8(op.Reg))
		}
		return m.Regs.Get16(op.Reg)
	case x86.OperandImmediate:
		return uint16(op.Imm8)
	case x86.OperandLongImmediate:
		return op.Imm
	case x86.OperandSignExtendedImmediate:
		return uint16(int16(op.SImm))
	case x86.OperandAddress:
		ea := m.effectiveAddress(op.Addr)
		if byteWidth {
			return uint16(m.Data.Read(ea))
		}
		return m.Data.ReadWord(ea)
	case x86.OperandDisplacement:
		return uint16(op.Disp.Value)
	default:
		return 0
	}
}

// writeValue writes a 16- or 8-bit value back to a register or memory
// operand.
func (m *VM) writeValue(op x86.Operand, v uint16, byteWidth bool) {
	switch op.Kind {
	case x86.OperandRegister:
		if byteWidth {
			m.Regs.Set8(op.Reg, uint8(v))
		} else {
			m.Regs.Set16(op.Reg, v)
		}
	case x86.OperandAddress:
		ea := m.effectiveAddress(op.Addr)
		if byteWidth {
			m.Data.Write(ea, uint8(v))
		} else {
			m.Data.WriteWord(ea, v)
		}
	}
}
