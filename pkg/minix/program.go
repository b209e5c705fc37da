package minix

import "io"

// Program is a fully loaded Minix 2 executable: its header plus the raw
// text and data segment bytes, ready for either disassembly or execution.
type Program struct {
	Header      Header
	TextSegment []byte
	DataSegment []byte
}

// Load parses a Program from a complete binary image.
func Load(binary []byte) (Program, error) {
	header, err := ParseHeader(binary)
	if err != nil {
		return Program{}, err
	}
	text, err := ParseText(binary, header.Text)
	if err != nil {
		return Program{}, err
	}
	data, err := ParseData(binary, header.Text, header.Data)
	if err != nil {
		return Program{}, err
	}
	return Program{Header: header, TextSegment: text, DataSegment: data}, nil
}

// LoadFrom reads a complete binary image from r and parses it as a Program.
func LoadFrom(r io.Reader) (Program, error) {
	binary, err := io.ReadAll(r)
	if err != nil {
		return Program{}, err
	}
	return Load(binary)
}
