package minix

import "encoding/binary"

// HeaderSize is the fixed length of a Minix 2 executable header.
const HeaderSize = 32

// Header is the 32-byte a.out-derived header that precedes the text and
// data segments of a Minix 2 executable.
type Header struct {
	Raw [HeaderSize]byte

	Magic   [2]byte
	Flags   uint8
	CPU     uint8
	HdrLen  uint8
	Unused  uint8
	Version uint16
	Text    uint32
	Data    uint32
	Bss     uint32
	Entry   uint32
	Total   uint32
	Syms    uint32
}

// ParseHeader reads a Header from the first 32 bytes of binary.
func ParseHeader(binary []byte) (Header, error) {
	if len(binary) < HeaderSize {
		return Header{}, ErrInvalidSize
	}
	b := binary[:HeaderSize]

	var h Header
	copy(h.Raw[:], b)
	copy(h.Magic[:], b[0:2])
	h.Flags = b[2]
	h.CPU = b[3]
	h.HdrLen = b[4]
	h.Unused = b[5]
	h.Version = binary16(b, 6)
	h.Text = binary32(b, 8)
	h.Data = binary32(b, 12)
	h.Bss = binary32(b, 16)
	h.Entry = binary32(b, 20)
	h.Total = binary32(b, 24)
	h.Syms = binary32(b, 28)
	return h, nil
}

func binary16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

func binary32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}
