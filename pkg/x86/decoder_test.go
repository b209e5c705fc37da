package x86

import "testing"

func TestDecodeMovImmediate(t *testing.T) {
	ir, n, err := Decode([]byte{0xBB, 0xFF, 0x00}, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != 3 {
		t.Fatalf("consumed = %d, want 3", n)
	}
	if ir.Mnemonic != Mov || ir.Dest.Reg != BX || ir.Src.Imm != 0x00FF {
		t.Fatalf("unexpected ir: %+v", ir)
	}
	got := Instruction{IR: ir, Raw: []byte{0xBB, 0xFF, 0x00}}.String()
	if got != "bbff00        mov bx, 00ff" {
		t.Fatalf("rendered = %q", got)
	}
}

func TestDecodeNearJmp(t *testing.T) {
	ir, n, err := Decode([]byte{0xE9, 0x57, 0x02}, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != 3 {
		t.Fatalf("consumed = %d, want 3", n)
	}
	if ir.Mnemonic != Jmp || ir.Target.Disp.Value != 0x025A {
		t.Fatalf("unexpected ir: %+v", ir)
	}
	if got := ir.String(); got != "jmp 025a" {
		t.Fatalf("rendered = %q", got)
	}
}

func TestDecodeAddRMReg(t *testing.T) {
	ir, n, err := Decode([]byte{0x00, 0x00}, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != 2 {
		t.Fatalf("consumed = %d, want 2", n)
	}
	if ir.Mnemonic != Add || ir.Dest.Kind != OperandAddress || ir.Src.Reg != AL {
		t.Fatalf("unexpected ir: %+v", ir)
	}
	if ir.Dest.Addr.Base == nil || *ir.Dest.Addr.Base != BX {
		t.Fatalf("unexpected base: %+v", ir.Dest.Addr)
	}
	if ir.Dest.Addr.Index == nil || *ir.Dest.Addr.Index != SI {
		t.Fatalf("unexpected index: %+v", ir.Dest.Addr)
	}
	if got := ir.String(); got != "add [bx+si], al" {
		t.Fatalf("rendered = %q", got)
	}
}

func TestDisassembleEndToEnd(t *testing.T) {
	text := []byte{
		0xBB, 0x00, 0x00, 0xCD, 0x20,
		0xBB, 0x10, 0x00, 0xCD, 0x20,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	lines := Disassemble(text)
	want := []string{
		"0000: bb0000        mov bx, 0000",
		"0003: cd20          int 20",
		"0005: bb1000        mov bx, 0010",
		"0008: cd20          int 20",
		"000a: 0000          add [bx+si], al",
		"000c: 0000          add [bx+si], al",
		"000e: 0000          add [bx+si], al",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %+v", len(lines), len(want), lines)
	}
	for i, l := range lines {
		if l.String() != want[i] {
			t.Errorf("line %d = %q, want %q", i, l.String(), want[i])
		}
	}
}

func TestDecodeUnexpectedEOF(t *testing.T) {
	_, _, err := Decode([]byte{0xBB, 0x01}, 0)
	if err != ErrUnexpectedEOF {
		t.Fatalf("err = %v, want ErrUnexpectedEOF", err)
	}
}

func TestDecodeInvalidOpcode(t *testing.T) {
	_, _, err := Decode([]byte{0xD4, 0x05}, 0)
	var invalid *InvalidOpcode
	if err == nil {
		t.Fatal("expected error")
	}
	if e, ok := err.(*InvalidOpcode); !ok {
		t.Fatalf("err = %v, want *InvalidOpcode", err)
	} else {
		invalid = e
	}
	if invalid.Byte != 0xD4 {
		t.Fatalf("byte = %#x", invalid.Byte)
	}
}

func TestDecodeShiftGroupWithCL(t *testing.T) {
	// D2 /4 = SHL r/m8, CL ; modrm E0 = mod=11 reg=100 rm=000 (AL)
	ir, n, err := Decode([]byte{0xD2, 0xE0}, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != 2 {
		t.Fatalf("consumed = %d", n)
	}
	if ir.Mnemonic != Shl || ir.Count.Reg != CL || ir.Dest.Reg != AL {
		t.Fatalf("unexpected ir: %+v", ir)
	}
}

func TestDecodeImmGroupSignExtend(t *testing.T) {
	// 83 /0 ib = ADD r/m16, imm8 sign-extended; modrm C3 = mod=11 reg=000 rm=011 (BX)
	ir, n, err := Decode([]byte{0x83, 0xC3, 0xFF}, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != 3 {
		t.Fatalf("consumed = %d", n)
	}
	if ir.Mnemonic != Add || ir.Dest.Reg != BX || ir.Src.Kind != OperandSignExtendedImmediate || ir.Src.SImm != -1 {
		t.Fatalf("unexpected ir: %+v", ir)
	}
}

func TestDecodeRepMovsw(t *testing.T) {
	ir, n, err := Decode([]byte{0xF3, 0xA5}, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != 2 {
		t.Fatalf("consumed = %d", n)
	}
	if ir.Mnemonic != Rep || !ir.Z || ir.Inner == nil || ir.Inner.Mnemonic != Movs || ir.Inner.Byte {
		t.Fatalf("unexpected ir: %+v", ir)
	}
	if got := ir.String(); got != "rep movsw" {
		t.Fatalf("rendered = %q", got)
	}
}
