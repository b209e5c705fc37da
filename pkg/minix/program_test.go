package minix

import (
	"bytes"
	"testing"
)

func sampleBinary() []byte {
	return []byte{
		// header
		0x01, 0x03, 0x20, 0x04, 0x20, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x26, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00,
		0x70, 0x00, 0x00, 0x00,
		// text (0x10 bytes)
		0xbb, 0x00, 0x00, 0xcd, 0x20, 0xbb, 0x10, 0x00, 0xcd, 0x20, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00,
		// data (0x26 bytes)
		0x01, 0x00, 0x04, 0x00, 0x01, 0x00, 0x06, 0x00, 0x00, 0x00, 0x20, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x68, 0x65, 0x6c, 0x6c, 0x6f, 0x0a,
	}
}

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader(sampleBinary())
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.Magic != [2]byte{0x01, 0x03} {
		t.Errorf("magic = %v", h.Magic)
	}
	if h.Flags != 0x20 || h.CPU != 0x04 || h.HdrLen != 0x20 {
		t.Errorf("flags/cpu/hdrlen = %x/%x/%x", h.Flags, h.CPU, h.HdrLen)
	}
	if h.Text != 0x10 || h.Data != 0x26 || h.Bss != 0 || h.Entry != 0 {
		t.Errorf("text/data/bss/entry = %x/%x/%x/%x", h.Text, h.Data, h.Bss, h.Entry)
	}
	if h.Total != 0x00010000 || h.Syms != 0x70 {
		t.Errorf("total/syms = %x/%x", h.Total, h.Syms)
	}
}

func TestParseHeaderInvalidSize(t *testing.T) {
	_, err := ParseHeader(sampleBinary()[:10])
	if err != ErrInvalidSize {
		t.Fatalf("err = %v, want ErrInvalidSize", err)
	}
}

func TestLoadProgram(t *testing.T) {
	p, err := Load(sampleBinary())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	wantText := []byte{0xbb, 0x00, 0x00, 0xcd, 0x20, 0xbb, 0x10, 0x00, 0xcd, 0x20, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(p.TextSegment, wantText) {
		t.Errorf("text = %x, want %x", p.TextSegment, wantText)
	}
	wantData := []byte{
		0x01, 0x00, 0x04, 0x00, 0x01, 0x00, 0x06, 0x00, 0x00, 0x00, 0x20, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x68, 0x65, 0x6c, 0x6c, 0x6f, 0x0a,
	}
	if !bytes.Equal(p.DataSegment, wantData) {
		t.Errorf("data = %x, want %x", p.DataSegment, wantData)
	}
}

func TestLoadTextTooShort(t *testing.T) {
	b := sampleBinary()[:HeaderSize+5]
	_, err := Load(b)
	if err != ErrInvalidSize {
		t.Fatalf("err = %v, want ErrInvalidSize", err)
	}
}
