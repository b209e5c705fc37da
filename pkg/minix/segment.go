package minix

// ParseText extracts the text segment: the size bytes immediately
// following the header.
func ParseText(binary []byte, size uint32) ([]byte, error) {
	start := HeaderSize
	end := start + int(size)
	if end > len(binary) || end < start {
		return nil, ErrInvalidSize
	}
	out := make([]byte, size)
	copy(out, binary[start:end])
	return out, nil
}

// ParseData extracts the data segment: size bytes starting offset bytes
// after the end of the header (offset is normally the text segment size,
// so data immediately follows text).
func ParseData(binary []byte, offset, size uint32) ([]byte, error) {
	start := HeaderSize + int(offset)
	end := start + int(size)
	if start < HeaderSize || end > len(binary) || end < start {
		return nil, ErrInvalidSize
	}
	out := make([]byte, size)
	copy(out, binary[start:end])
	return out, nil
}
