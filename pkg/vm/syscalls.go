package vm

import (
	"fmt"

	"github.com/oisee/minix2vm/pkg/x86"
)

// Minix message field byte offsets within the struct BX points at on
// INT 0x20, per §4.9.
const (
	msgSource = 0
	msgType   = 2
	msg1I1    = 4
	msg1I2    = 6
	msg1I3    = 8
	msg1P1    = 10
	msg2P1    = 18
)

func (m *VM) execInt(intType uint8) error {
	if intType != 0x20 {
		return &UnimplementedInterrupt{Number: intType}
	}
	return m.syscall()
}

func (m *VM) syscall() error {
	msg := m.Regs.Get16(x86.BX)
	msgT := m.Data.ReadWord(msg + msgType)

	switch msgT {
	case 1:
		status := m.Data.ReadWord(msg + msg1I1)
		if m.Trace {
			fmt.Fprintf(m.Output, "<exit(%d)>\n", status)
		}
		return ErrExitCatch

	case 4:
		fd := m.Data.ReadWord(msg + msg1I1)
		n := m.Data.ReadWord(msg + msg1I2)
		buf := m.Data.ReadWord(msg + msg1P1)
		content := m.Data.ReadBytes(buf, int(n))

		m.Regs.Set16(x86.AX, 0)
		m.Data.WriteWord(msg+msgType, n)

		if m.Trace {
			fmt.Fprintf(m.Output, "<write(%d, %#06x, %d)%s => %d>\n", fd, buf, n, content, n)
		} else {
			fmt.Fprint(m.Output, string(content))
		}
		return nil

	case 17:
		addr := m.Data.ReadWord(msg + msg1P1)
		m.Data.WriteWord(msg+msgType, 0)
		if m.Trace {
			fmt.Fprintf(m.Output, "<brk(%#04x) => 0>\n", addr)
		}
		return nil

	case 54:
		fd := m.Data.ReadWord(msg + msg1I1)
		req := m.Data.ReadWord(msg + msg1I3)
		data := m.Data.ReadWord(msg + msg2P1)
		m.Regs.Set16(x86.AX, 0)
		m.Data.WriteWord(msg+msgType, 0xFFEA)
		if m.Trace {
			fmt.Fprintf(m.Output, "<ioctl(%d, %#04x, %#04x)>\n", fd, req, data)
		}
		return nil

	default:
		return &UnimplementedSyscall{Type: msgT}
	}
}
