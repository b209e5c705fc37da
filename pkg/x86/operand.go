package x86

import "fmt"

// OperandKind discriminates the payload carried by an Operand. Go has no sum
// types, so Operand is a flat struct tagged by Kind with one field populated
// per kind, following the same pattern as IR in instruction.go rather than
// an interface per operand shape.
type OperandKind uint8

const (
	OperandRegister OperandKind = iota
	OperandImmediate
	OperandLongImmediate
	OperandSignExtendedImmediate
	OperandAddress
	OperandDisplacement
)

// Operand is one argument of a decoded instruction.
type Operand struct {
	Kind OperandKind

	Reg  Register
	Imm8 uint8
	Imm  uint16
	SImm int8
	Addr Address
	Disp Displacement
}

func Reg(r Register) Operand {
	return Operand{Kind: OperandRegister, Reg: r}
}

func Imm8Operand(v uint8) Operand {
	return Operand{Kind: OperandImmediate, Imm8: v}
}

func ImmOperand(v uint16) Operand {
	return Operand{Kind: OperandLongImmediate, Imm: v}
}

func SImmOperand(v int8) Operand {
	return Operand{Kind: OperandSignExtendedImmediate, SImm: v}
}

func AddrOperand(a Address) Operand {
	return Operand{Kind: OperandAddress, Addr: a}
}

func DispOperand(d Displacement) Operand {
	return Operand{Kind: OperandDisplacement, Disp: d}
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandRegister:
		return o.Reg.String()
	case OperandImmediate:
		return fmt.Sprintf("%x", o.Imm8)
	case OperandLongImmediate:
		return fmt.Sprintf("%04x", o.Imm)
	case OperandSignExtendedImmediate:
		if o.SImm < 0 {
			return fmt.Sprintf("-%x", -int16(o.SImm))
		}
		return fmt.Sprintf("%x", o.SImm)
	case OperandAddress:
		return o.Addr.String()
	case OperandDisplacement:
		// Branch/call targets render raw and unsigned, zero-padded to the
		// source width — a distinct convention from Disp.String()'s signed
		// memory-operand rendering.
		if o.Disp.Long {
			return fmt.Sprintf("%04x", uint16(o.Disp.Value))
		}
		return fmt.Sprintf("%02x", uint8(o.Disp.Value))
	default:
		return "?"
	}
}
