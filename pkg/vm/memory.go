package vm

import "encoding/binary"

// DataMemorySize is the fixed size of the VM's data+stack address space.
const DataMemorySize = 0x10000

// Memory is a linear, byte-addressable, little-endian memory. The VM uses
// one instance sized DataMemorySize for data+stack, and a second instance
// sized to the text segment for code, addressed only by the fetch loop.
type Memory struct {
	data []byte
}

// NewMemory allocates a Memory of the given size, all bytes zeroed.
func NewMemory(size int) *Memory {
	return &Memory{data: make([]byte, size)}
}

// NewMemoryFrom allocates a Memory of the given size and copies b into its
// low addresses, matching how the data segment is mounted at offset 0 and
// the text segment is mounted as its own code memory.
func NewMemoryFrom(b []byte, size int) *Memory {
	m := NewMemory(size)
	copy(m.data, b)
	return m
}

func (m *Memory) Len() int {
	return len(m.data)
}

func (m *Memory) Read(addr uint16) uint8 {
	return m.data[addr]
}

func (m *Memory) ReadWord(addr uint16) uint16 {
	return binary.LittleEndian.Uint16(m.data[addr : int(addr)+2])
}

func (m *Memory) ReadBytes(addr uint16, n int) []byte {
	return m.data[addr : int(addr)+n]
}

func (m *Memory) Write(addr uint16, v uint8) {
	m.data[addr] = v
}

func (m *Memory) WriteWord(addr uint16, v uint16) {
	binary.LittleEndian.PutUint16(m.data[addr:int(addr)+2], v)
}

func (m *Memory) WriteBytes(addr uint16, b []byte) {
	copy(m.data[addr:int(addr)+len(b)], b)
}
