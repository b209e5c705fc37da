package x86

import "fmt"

// Mnemonic identifies the operation carried by an IR value. Go has no sum
// types with per-variant payloads, so IR below is a flat struct tagged by
// Mnemonic with a superset of fields; each mnemonic uses the subset it needs.
type Mnemonic uint8

const (
	Undefined Mnemonic = iota

	Mov
	Push
	Pop
	Xchg
	In
	Out
	Lea
	Lds
	Les

	Add
	Adc
	Sub
	Sbb
	Cmp
	Inc
	Dec
	Neg
	Mul
	Imul
	Div
	Idiv

	Aaa
	Aas
	Daa
	Das
	Aam
	Aad
	Cbw
	Cwd

	Not
	And
	Or
	Xor
	Test

	Shl
	Shr
	Sar
	Rol
	Ror
	Rcl
	Rcr

	Movs
	Cmps
	Scas
	Lods
	Stos
	Rep

	Call
	Jmp
	Ret

	Je
	Jne
	Jb
	Jnb
	Jbe
	Jnbe
	Jl
	Jle
	Jnl
	Jnle
	Js
	Jns
	Jo
	Jno
	Jp
	Jnp

	Loop
	Loopz
	Loopnz
	Jcxz

	Int
	Into
	Iret

	Clc
	Cmc
	Stc
	Cld
	Std
	Cli
	Sti

	Hlt
	Wait
	Esc
	Lock
)

var mnemonicNames = map[Mnemonic]string{
	Undefined: "(undefined)",
	Mov:       "mov", Push: "push", Pop: "pop", Xchg: "xchg", In: "in", Out: "out",
	Lea: "lea", Lds: "lds", Les: "les",
	Add: "add", Adc: "adc", Sub: "sub", Sbb: "sbb", Cmp: "cmp",
	Inc: "inc", Dec: "dec", Neg: "neg", Mul: "mul", Imul: "imul", Div: "div", Idiv: "idiv",
	Aaa: "aaa", Aas: "aas", Daa: "daa", Das: "das", Aam: "aam", Aad: "aad", Cbw: "cbw", Cwd: "cwd",
	Not: "not", And: "and", Or: "or", Xor: "xor", Test: "test",
	Shl: "shl", Shr: "shr", Sar: "sar", Rol: "rol", Ror: "ror", Rcl: "rcl", Rcr: "rcr",
	Movs: "movs", Cmps: "cmps", Scas: "scas", Lods: "lods", Stos: "stos", Rep: "rep",
	Call: "call", Jmp: "jmp", Ret: "ret",
	Je: "je", Jne: "jne", Jb: "jb", Jnb: "jnb", Jbe: "jbe", Jnbe: "jnbe",
	Jl: "jl", Jle: "jle", Jnl: "jnl", Jnle: "jnle",
	Js: "js", Jns: "jns", Jo: "jo", Jno: "jno", Jp: "jp", Jnp: "jnp",
	Loop: "loop", Loopz: "loopz", Loopnz: "loopnz", Jcxz: "jcxz",
	Int: "int", Into: "into", Iret: "iret",
	Clc: "clc", Cmc: "cmc", Stc: "stc", Cld: "cld", Std: "std", Cli: "cli", Sti: "sti",
	Hlt: "hlt", Wait: "wait", Esc: "esc", Lock: "lock",
}

func (m Mnemonic) String() string {
	if s, ok := mnemonicNames[m]; ok {
		return s
	}
	return "?"
}

// IR is the decoded intermediate representation of one instruction. It is a
// tagged struct rather than an interface-per-mnemonic hierarchy: the Mnemonic
// field selects which of the payload fields below are meaningful, following
// the same design used for Operand and Register in this package.
type IR struct {
	Mnemonic Mnemonic

	Dest  Operand
	HasDest bool
	Src   Operand
	HasSrc  bool

	// Count is the shift/rotate count operand: Immediate(1) or Register(CL).
	Count   Operand
	HasCount bool

	// Target is the resolved branch/call target, always an absolute code
	// offset represented as a Displacement operand.
	Target   Operand
	HasTarget bool

	// Byte is the width flag: true selects 8-bit operation, false 16-bit.
	// For MOV/CMP/TEST it additionally controls the "byte " rendering
	// prefix; for string ops it selects the b/w mnemonic suffix.
	Byte bool

	// Short marks a JMP decoded from the one-byte-displacement encoding.
	Short bool

	// IntType is the interrupt vector for INT.
	IntType uint8

	// RetImm is the optional immediate operand to RET (stack adjustment).
	RetImm    uint16
	HasRetImm bool

	// Z selects REPE/REP (true, 0xF3) vs REPNE (false, 0xF2) for Rep.
	Z bool

	// Inner is the string-op IR wrapped by Rep. Stored by pointer so the
	// struct's size stays bounded, matching the "boxed nested IR" pattern.
	Inner *IR
}

func (ir IR) String() string {
	switch ir.Mnemonic {
	case Undefined:
		return "(undefined)"
	case Mov, Cmp, Test:
		return formatWidthAnnotated(ir)
	case Jmp:
		if ir.Short {
			return fmt.Sprintf("jmp short %s", ir.Target)
		}
		return fmt.Sprintf("jmp %s", ir.Target)
	case Call:
		return fmt.Sprintf("call %s", ir.Target)
	case Je, Jne, Jb, Jnb, Jbe, Jnbe, Jl, Jle, Jnl, Jnle, Js, Jns, Jo, Jno, Jp, Jnp,
		Loop, Loopz, Loopnz, Jcxz:
		return fmt.Sprintf("%s %s", ir.Mnemonic, ir.Target)
	case Int:
		if ir.IntType == 3 {
			return "int"
		}
		return fmt.Sprintf("int %02x", ir.IntType)
	case Ret:
		if ir.HasRetImm {
			return fmt.Sprintf("ret %04x", ir.RetImm)
		}
		return "ret"
	case Movs, Cmps, Scas, Lods, Stos:
		return formatStringOp(ir)
	case Rep:
		inner := "?"
		if ir.Inner != nil {
			inner = ir.Inner.String()
		}
		return fmt.Sprintf("rep %s", inner)
	case Shl, Shr, Sar, Rol, Ror, Rcl, Rcr:
		return fmt.Sprintf("%s %s, %s", ir.Mnemonic, ir.Dest, ir.Count)
	case Push, Pop, Inc, Dec, Neg, Not, Mul, Imul, Div, Idiv, In, Out, Lea:
		if ir.HasSrc {
			return fmt.Sprintf("%s %s, %s", ir.Mnemonic, ir.Dest, ir.Src)
		}
		return fmt.Sprintf("%s %s", ir.Mnemonic, ir.Dest)
	case Hlt, Wait, Esc, Lock, Clc, Cmc, Stc, Cld, Std, Cli, Sti,
		Cbw, Cwd, Aaa, Aas, Daa, Das, Aam, Aad, Into, Iret:
		return ir.Mnemonic.String()
	default:
		if ir.HasDest && ir.HasSrc {
			return fmt.Sprintf("%s %s, %s", ir.Mnemonic, ir.Dest, ir.Src)
		}
		if ir.HasDest {
			return fmt.Sprintf("%s %s", ir.Mnemonic, ir.Dest)
		}
		return ir.Mnemonic.String()
	}
}

func formatWidthAnnotated(ir IR) string {
	prefix := ""
	if ir.Byte && ir.HasDest && !isByteRegisterOperand(ir.Dest) {
		prefix = "byte "
	}
	return fmt.Sprintf("%s %s%s, %s", ir.Mnemonic, prefix, ir.Dest, ir.Src)
}

func isByteRegisterOperand(o Operand) bool {
	return o.Kind == OperandRegister && !o.Reg.IsWord()
}

func formatStringOp(ir IR) string {
	suffix := "w"
	if ir.Byte {
		suffix = "b"
	}
	return fmt.Sprintf("%s%s", ir.Mnemonic, suffix)
}

// Instruction pairs a decoded IR with the exact bytes that produced it.
type Instruction struct {
	IR  IR
	Raw []byte
}

func (in Instruction) String() string {
	return fmt.Sprintf("%-14s%s", hexBytes(in.Raw), in.IR.String())
}

func hexBytes(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 0, len(b)*2)
	for _, c := range b {
		out = append(out, hexdigits[c>>4], hexdigits[c&0xF])
	}
	return string(out)
}
