// Package minix loads a statically linked Minix 2 executable for the Intel
// 8086: a fixed 32-byte header followed by a text segment and a data
// segment, both plain byte runs handed off to the decoder and VM untouched.
package minix

import "errors"

// ErrInvalidSize is returned when the input is shorter than the header, or
// than the header plus the text/data sizes it declares.
var ErrInvalidSize = errors.New("minix: invalid size")

// ErrCorruptedData is returned when a fixed-size header field cannot be
// read from an otherwise large-enough input.
var ErrCorruptedData = errors.New("minix: corrupted data")
