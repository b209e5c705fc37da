package vm

import (
	"errors"
	"fmt"
)

// ErrExitCatch is the internal signal raised by the exit(status) syscall.
// The run loop catches it and converts it to normal termination; it never
// escapes Run.
var ErrExitCatch = errors.New("vm: exit")

// ErrCycleLimitExceeded is returned when a run executes more than
// MaxCycles instructions without halting or exiting.
var ErrCycleLimitExceeded = errors.New("vm: cycle limit exceeded")

// ErrDivideError is returned by DIV/IDIV on divide-by-zero or quotient
// overflow.
var ErrDivideError = errors.New("vm: divide error")

// UnimplementedSyscall is returned for a recognized INT 0x20 call whose
// message type has no handler.
type UnimplementedSyscall struct {
	Type uint16
}

func (e *UnimplementedSyscall) Error() string {
	return fmt.Sprintf("vm: unimplemented syscall %d", e.Type)
}

// UnimplementedInterrupt is returned for a software interrupt number other
// than 0x20.
type UnimplementedInterrupt struct {
	Number uint8
}

func (e *UnimplementedInterrupt) Error() string {
	return fmt.Sprintf("vm: unimplemented interrupt %#02x", e.Number)
}
