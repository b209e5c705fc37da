package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/oisee/minix2vm/pkg/x86"
)

func TestRegisterAliasingAfterMovAL(t *testing.T) {
	// mov ax, 0x1234 ; mov al, 0x78 ; hlt
	text := []byte{0xB8, 0x34, 0x12, 0xB0, 0x78, 0xF4}
	m := New(text, nil, &bytes.Buffer{})
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := m.Regs.Get8(x86.AL); got != 0x78 {
		t.Errorf("AL = %#02x, want 0x78", got)
	}
	if got := m.Regs.Get8(x86.AH); got != 0x12 {
		t.Errorf("AH = %#02x, want 0x12", got)
	}
	if got := m.Regs.Get16(x86.AX); got != 0x1278 {
		t.Errorf("AX = %#04x, want 0x1278", got)
	}
}

func TestStackDiscipline(t *testing.T) {
	// mov bx, 0x4242 ; push bx ; pop cx ; hlt
	text := []byte{0xBB, 0x42, 0x42, 0x53, 0x59, 0xF4}
	m := New(text, nil, &bytes.Buffer{})
	m.Regs.Set16(x86.SP, 0xFFDA)
	spBefore := m.Regs.Get16(x86.SP)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := m.Regs.Get16(x86.CX); got != 0x4242 {
		t.Errorf("CX = %#04x, want 0x4242", got)
	}
	if got := m.Regs.Get16(x86.SP); got != spBefore {
		t.Errorf("SP = %#04x, want restored %#04x", got, spBefore)
	}
}

func TestHelloWorldWriteSyscall(t *testing.T) {
	// Message struct laid out at data offset 0:
	//   m_source=0, m_type=4, m1_i1(fd)=1, m1_i2(n)=6, m1_i3=0, m1_p1(buf)=16
	// "hello\n" stored at data offset 16.
	data := make([]byte, 32)
	data[2] = 4 // m_type = 4 (write)
	data[4] = 1 // fd = 1
	data[6] = 6 // n = 6
	data[10] = 16
	copy(data[16:], []byte("hello\n"))

	// mov bx, 0 ; int 0x20 ; hlt
	// No exit message is built; the run stops at HLT right after the write
	// syscall.
	text := []byte{0xBB, 0x00, 0x00, 0xCD, 0x20, 0xF4}

	var out bytes.Buffer
	m := New(text, data, &out)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "hello\n" {
		t.Errorf("stdout = %q, want %q", out.String(), "hello\n")
	}
	if got := m.Regs.Get16(x86.AX); got != 0 {
		t.Errorf("AX = %#04x, want 0", got)
	}
}

func TestExitSyscallTerminatesRun(t *testing.T) {
	data := make([]byte, 8)
	data[2] = 1  // m_type = 1 (exit)
	data[4] = 42 // status

	text := []byte{0xBB, 0x00, 0x00, 0xCD, 0x20, 0xF4, 0xF4, 0xF4}
	m := New(text, data, &bytes.Buffer{})
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// ip should have stopped right after the INT 20h that raised exit, not
	// advanced into the trailing HLTs.
	if m.IP != 5 {
		t.Errorf("ip = %#04x, want 5", m.IP)
	}
}

func TestCycleLimitExceeded(t *testing.T) {
	// An unconditional short jump back to itself: infinite loop.
	text := []byte{0xEB, 0xFE}
	m := New(text, nil, &bytes.Buffer{})
	err := m.Run()
	if err != ErrCycleLimitExceeded {
		t.Fatalf("err = %v, want ErrCycleLimitExceeded", err)
	}
}

func TestStageArgvLayout(t *testing.T) {
	m := New(nil, nil, &bytes.Buffer{})
	m.StageArgv([]string{"prog", "a"})

	if got := m.Data.ReadWord(0xFFDA); got != 0x0001 {
		t.Errorf("seed[0xFFDA] = %#04x, want 0x0001", got)
	}
	if got := m.Data.ReadWord(0xFFDC); got != 0xFFE4 {
		t.Errorf("seed[0xFFDC] = %#04x, want 0xFFE4", got)
	}

	sp := m.Regs.Get16(x86.SP)
	argc := m.Data.ReadWord(sp)
	if argc != 2 {
		t.Fatalf("argc = %d, want 2", argc)
	}
}

func TestAddFlagsZeroAndCarry(t *testing.T) {
	// mov ax, 0xFFFF ; add ax, 1 ; hlt  -> result 0, CF=1, ZF=1
	text := []byte{0xB8, 0xFF, 0xFF, 0x05, 0x01, 0x00, 0xF4}
	m := New(text, nil, &bytes.Buffer{})
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.Regs.Get16(x86.AX) != 0 {
		t.Errorf("AX = %#04x, want 0", m.Regs.Get16(x86.AX))
	}
	if !m.Flags.Get(Zero) || !m.Flags.Get(Carry) {
		t.Errorf("flags = %s, want ZF=1 CF=1", m.Flags.String())
	}
}

func TestTraceAnnotatesMemoryOperand(t *testing.T) {
	// mov bx, 0x0010 ; mov ax, 0x5678 ; mov [bx], ax ; hlt
	text := []byte{0xBB, 0x10, 0x00, 0xB8, 0x78, 0x56, 0x89, 0x07, 0xF4}
	data := make([]byte, 32)
	data[0x10], data[0x11] = 0x34, 0x12 // word at 0x0010 is 0x1234 before the write

	var out bytes.Buffer
	m := New(text, data, &out)
	m.Trace = true
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out.String(), "mov [bx], ax ;[0010]1234") {
		t.Errorf("trace output missing memory-operand annotation, got:\n%s", out.String())
	}
}

func TestTraceBrkSyscall(t *testing.T) {
	data := make([]byte, 32)
	data[2] = 17    // m_type = 17 (brk)
	data[10] = 0x34
	data[11] = 0x12 // m1_p1 = 0x1234

	// mov bx, 0 ; int 0x20 ; hlt
	text := []byte{0xBB, 0x00, 0x00, 0xCD, 0x20, 0xF4}

	var out bytes.Buffer
	m := New(text, data, &out)
	m.Trace = true
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out.String(), "<brk(0x1234) => 0>") {
		t.Errorf("trace output missing brk annotation, got:\n%s", out.String())
	}
}

func TestCmpEqualValuesSetsZero(t *testing.T) {
	// mov ax, 5 ; mov bx, 5 ; cmp ax, bx ; hlt
	text := []byte{0xB8, 0x05, 0x00, 0xBB, 0x05, 0x00, 0x39, 0xD8, 0xF4}
	m := New(text, nil, &bytes.Buffer{})
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !m.Flags.Get(Zero) || m.Flags.Get(Sign) || m.Flags.Get(Carry) {
		t.Errorf("flags = %s, want Z=1 S=0 C=0", m.Flags.String())
	}
}
