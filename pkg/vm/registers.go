package vm

import "github.com/oisee/minix2vm/pkg/x86"

// RegisterFile holds the eight 16-bit 8086 registers as a flat word array,
// mirroring the single-struct register model this VM is built on rather
// than a map keyed by register name. Byte halves are masked/shifted views
// onto the four low words; SP and BP have no byte aliases.
type RegisterFile struct {
	words [8]uint16
}

func wordIndex(r x86.Register) int {
	return int(r.WordRegister()) - int(x86.AX)
}

// Get16 returns the full 16-bit value of r (r may itself be a word or a
// byte-half name; for a byte-half it returns the word that aliases it).
func (rf *RegisterFile) Get16(r x86.Register) uint16 {
	return rf.words[wordIndex(r)]
}

func (rf *RegisterFile) Set16(r x86.Register, v uint16) {
	rf.words[wordIndex(r)] = v
}

// Get8 returns the 8-bit value of a low/high byte register name.
func (rf *RegisterFile) Get8(r x86.Register) uint8 {
	w := rf.words[wordIndex(r)]
	if r.IsHighByte() {
		return uint8(w >> 8)
	}
	return uint8(w)
}

// Set8 writes a byte register name, preserving the untouched half of the
// aliased word.
func (rf *RegisterFile) Set8(r x86.Register, v uint8) {
	i := wordIndex(r)
	if r.IsHighByte() {
		rf.words[i] = (rf.words[i] & 0x00FF) | uint16(v)<<8
	} else {
		rf.words[i] = (rf.words[i] & 0xFF00) | uint16(v)
	}
}

// Get reads r as a 16-bit value regardless of whether it names a byte half
// or a word, sign-extension-free (byte halves are zero-extended).
func (rf *RegisterFile) Get(r x86.Register) uint16 {
	if r.IsWord() {
		return rf.Get16(r)
	}
	return uint16(rf.Get8(r))
}

// Set writes r, dispatching on whether it names a byte half or a word.
func (rf *RegisterFile) Set(r x86.Register, v uint16) {
	if r.IsWord() {
		rf.Set16(r, v)
		return
	}
	rf.Set8(r, uint8(v))
}
