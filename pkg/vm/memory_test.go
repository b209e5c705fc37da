package vm

import "testing"

func TestMemoryLittleEndian(t *testing.T) {
	m := NewMemory(16)
	m.WriteWord(4, 0x1234)
	if got := m.ReadWord(4); got != 0x1234 {
		t.Fatalf("ReadWord = %#04x, want 0x1234", got)
	}
	if lo, hi := m.Read(4), m.Read(5); lo != 0x34 || hi != 0x12 {
		t.Fatalf("bytes = %#02x %#02x", lo, hi)
	}
}

func TestMemoryReadWordComposesBytes(t *testing.T) {
	m := NewMemory(16)
	m.Write(8, 0xAD)
	m.Write(9, 0xDE)
	want := uint16(m.Read(8)) | uint16(m.Read(9))<<8
	if got := m.ReadWord(8); got != want {
		t.Fatalf("ReadWord = %#04x, want %#04x", got, want)
	}
}

func TestMemoryFromCopiesPrefix(t *testing.T) {
	m := NewMemoryFrom([]byte{1, 2, 3}, 8)
	if m.Len() != 8 {
		t.Fatalf("len = %d", m.Len())
	}
	if m.Read(0) != 1 || m.Read(1) != 2 || m.Read(2) != 3 || m.Read(3) != 0 {
		t.Fatalf("unexpected prefix: %v", m.data)
	}
}
