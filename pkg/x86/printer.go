package x86

import (
	"fmt"
	"io"
)

// Line is one disassembled line: the instruction's absolute text offset and
// the decoded instruction (for a trailing undecodable tail, an Undefined IR
// over the remaining bytes).
type Line struct {
	Offset uint16
	Instr  Instruction
}

func (l Line) String() string {
	return fmt.Sprintf("%04x: %s", l.Offset, l.Instr.String())
}

// Disassemble decodes text from offset 0 until exhaustion and returns one
// Line per instruction. A trailing byte run too short to form an
// instruction becomes a single Line carrying an Undefined IR over the
// remaining bytes, per §4.2's UnexpectedEOF contract.
func Disassemble(text []byte) []Line {
	var lines []Line
	offset := 0
	for offset < len(text) {
		ir, n, err := Decode(text[offset:], uint16(offset))
		if err != nil {
			lines = append(lines, Line{
				Offset: uint16(offset),
				Instr:  Instruction{IR: IR{Mnemonic: Undefined}, Raw: text[offset:]},
			})
			break
		}
		lines = append(lines, Line{
			Offset: uint16(offset),
			Instr:  Instruction{IR: ir, Raw: text[offset : offset+n]},
		})
		offset += n
	}
	return lines
}

// Print writes the reference textual disassembly of text to w.
func Print(w io.Writer, text []byte) error {
	for _, line := range Disassemble(text) {
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	return nil
}
