package x86

// MaxInstructionLength is the hard upper bound on an 8086 instruction's
// encoded length, used by callers to size their fetch window.
const MaxInstructionLength = 15

func u16le(b []byte, i int) uint16 {
	return uint16(b[i]) | uint16(b[i+1])<<8
}

// Decode parses one instruction from the front of b. ip is the absolute code
// offset of b[0], used to resolve PC-relative branch targets to absolute
// addresses. It returns the decoded IR and the number of bytes consumed.
func Decode(b []byte, ip uint16) (IR, int, error) {
	if len(b) == 0 {
		return IR{}, 0, ErrUnexpectedEOF
	}
	op := b[0]

	switch {
	case isArithModRMOp(op):
		return decodeArithModRM(b)
	case isArithAccImmOp(op):
		return decodeAccImm(b)
	case op == 0x84 || op == 0x85:
		return decodeModRMPair(b, Test, false)
	case op == 0x86 || op == 0x87:
		return decodeModRMPair(b, Xchg, false)
	case op >= 0x88 && op <= 0x8B:
		return decodeMov(b)
	case op == 0x8D:
		return decodeLea(b)
	case op == 0x8C:
		return decodeSegMov(b, false)
	case op == 0x8E:
		return decodeSegMov(b, true)
	case op >= 0xA0 && op <= 0xA3:
		return decodeMovAccMem(b)
	case op == 0xA8 || op == 0xA9:
		return decodeTestAccImm(b)
	case op >= 0x40 && op <= 0x47:
		return decodeImplicitReg(b, Inc, true)
	case op >= 0x48 && op <= 0x4F:
		return decodeImplicitReg(b, Dec, true)
	case op >= 0x50 && op <= 0x57:
		return decodeImplicitReg(b, Push, true)
	case op >= 0x58 && op <= 0x5F:
		return decodeImplicitReg(b, Pop, true)
	case op >= 0x90 && op <= 0x97:
		return decodeXchgAcc(b)
	case op >= 0xB0 && op <= 0xBF:
		return decodeMovImmReg(b)
	case op >= 0x70 && op <= 0x7F:
		return decodeCondShortJump(b, ip)
	case op == 0xEB:
		return decodeShortJmp(b, ip)
	case op == 0xE0:
		return decodeShortBranch(b, ip, Loopnz)
	case op == 0xE1:
		return decodeShortBranch(b, ip, Loopz)
	case op == 0xE2:
		return decodeShortBranch(b, ip, Loop)
	case op == 0xE3:
		return decodeShortBranch(b, ip, Jcxz)
	case op >= 0x80 && op <= 0x83:
		return decodeImmGroup(b)
	case op >= 0xD0 && op <= 0xD3:
		return decodeShiftGroup(b)
	case op == 0xF6 || op == 0xF7:
		return decodeUnaryGroup(b)
	case op == 0xFF:
		return decodeIndirectGroup(b)
	case op == 0xE8:
		return decodeNearCall(b, ip)
	case op == 0xE9:
		return decodeNearJmp(b, ip)
	case (op >= 0xA4 && op <= 0xA7) || (op >= 0xAA && op <= 0xAF):
		ir, n, err := decodeStringOp(b)
		return ir, n, err
	case op == 0xF2 || op == 0xF3:
		return decodeRep(b, op == 0xF3)
	case op == 0xCC:
		return IR{Mnemonic: Int, IntType: 3}, 1, nil
	case op == 0xCD:
		if len(b) < 2 {
			return IR{}, 0, ErrUnexpectedEOF
		}
		return IR{Mnemonic: Int, IntType: b[1]}, 2, nil
	case op == 0xCE:
		return IR{Mnemonic: Into}, 1, nil
	case op == 0xCF:
		return IR{Mnemonic: Iret}, 1, nil
	case op == 0xD4:
		return decodeAamAad(b, Aam)
	case op == 0xD5:
		return decodeAamAad(b, Aad)
	case op == 0xC2:
		return decodeRetImm(b)
	case op == 0xC3:
		return IR{Mnemonic: Ret}, 1, nil
	case op == 0x37:
		return IR{Mnemonic: Aaa}, 1, nil
	case op == 0x3F:
		return IR{Mnemonic: Aas}, 1, nil
	case op == 0x27:
		return IR{Mnemonic: Daa}, 1, nil
	case op == 0x2F:
		return IR{Mnemonic: Das}, 1, nil
	case op == 0x98:
		return IR{Mnemonic: Cbw}, 1, nil
	case op == 0x99:
		return IR{Mnemonic: Cwd}, 1, nil
	case op == 0xF4:
		return IR{Mnemonic: Hlt}, 1, nil
	case op == 0x9B:
		return IR{Mnemonic: Wait}, 1, nil
	case op == 0xF0:
		return IR{Mnemonic: Lock}, 1, nil
	case op == 0xF5:
		return IR{Mnemonic: Cmc}, 1, nil
	case op == 0xF8:
		return IR{Mnemonic: Clc}, 1, nil
	case op == 0xF9:
		return IR{Mnemonic: Stc}, 1, nil
	case op == 0xFA:
		return IR{Mnemonic: Cli}, 1, nil
	case op == 0xFB:
		return IR{Mnemonic: Sti}, 1, nil
	case op == 0xFC:
		return IR{Mnemonic: Cld}, 1, nil
	case op == 0xFD:
		return IR{Mnemonic: Std}, 1, nil
	case op >= 0xD8 && op <= 0xDF:
		return decodeEsc(b)
	default:
		return IR{}, 0, &InvalidOpcode{Byte: op}
	}
}

// --- ModR/M resolution (§4.2.1) ---

func parseModRM(b []byte, pos int) (mod, reg, rm byte, next int, err error) {
	if pos >= len(b) {
		return 0, 0, 0, pos, ErrUnexpectedEOF
	}
	m := b[pos]
	mod = m >> 6
	reg = (m >> 3) & 0b111
	rm = m & 0b111
	return mod, reg, rm, pos + 1, nil
}

func resolveRM(b []byte, pos int, mod, rm byte, word bool) (Operand, int, error) {
	if mod == 0b11 {
		return Reg(RegisterFrom(rm, word)), pos, nil
	}

	if mod == 0b00 && rm == 0b110 {
		if pos+2 > len(b) {
			return Operand{}, pos, ErrUnexpectedEOF
		}
		v := int16(u16le(b, pos))
		d := LongDisp(v)
		return AddrOperand(Address{Disp: &d}), pos + 2, nil
	}

	base := baseReg(rm)
	index := indexReg(rm)

	switch mod {
	case 0b00:
		return AddrOperand(Address{Base: base, Index: index}), pos, nil
	case 0b01:
		if pos+1 > len(b) {
			return Operand{}, pos, ErrUnexpectedEOF
		}
		d := LongDisp(int16(int8(b[pos])))
		return AddrOperand(Address{Base: base, Index: index, Disp: &d}), pos + 1, nil
	case 0b10:
		if pos+2 > len(b) {
			return Operand{}, pos, ErrUnexpectedEOF
		}
		d := LongDisp(int16(u16le(b, pos)))
		return AddrOperand(Address{Base: base, Index: index, Disp: &d}), pos + 2, nil
	default:
		return Operand{}, pos, ErrInvalidModRM
	}
}

// --- Group 1: d/w ModR/M arithmetic (§4.2 item 1) ---

var arithModRMBases = map[byte]Mnemonic{
	0x00: Add, 0x08: Or, 0x10: Adc, 0x18: Sbb,
	0x20: And, 0x28: Sub, 0x30: Xor, 0x38: Cmp,
}

func isArithModRMOp(op byte) bool {
	_, ok := arithModRMBases[op&0xFC]
	return ok
}

func isArithAccImmOp(op byte) bool {
	base := op &^ 0x05
	if op&0x06 != 0x04 {
		return false
	}
	_, ok := arithModRMBases[base]
	return ok
}

func decodeArithModRM(b []byte) (IR, int, error) {
	op := b[0]
	mnem := arithModRMBases[op&0xFC]
	d := (op >> 1) & 1
	w := op&1 == 1

	mod, reg, rm, pos, err := parseModRM(b, 1)
	if err != nil {
		return IR{}, 0, err
	}
	rmOp, pos, err := resolveRM(b, pos, mod, rm, w)
	if err != nil {
		return IR{}, 0, err
	}
	regOp := Reg(RegisterFrom(reg, w))

	ir := IR{Mnemonic: mnem, Byte: !w}
	if d == 1 {
		ir.Dest, ir.HasDest = regOp, true
		ir.Src, ir.HasSrc = rmOp, true
	} else {
		ir.Dest, ir.HasDest = rmOp, true
		ir.Src, ir.HasSrc = regOp, true
	}
	return ir, pos, nil
}

func decodeAccImm(b []byte) (IR, int, error) {
	op := b[0]
	mnem := arithModRMBases[op&^0x05]
	w := op&1 == 1

	pos := 1
	var src Operand
	if w {
		if pos+2 > len(b) {
			return IR{}, 0, ErrUnexpectedEOF
		}
		src = ImmOperand(u16le(b, pos))
		pos += 2
	} else {
		if pos+1 > len(b) {
			return IR{}, 0, ErrUnexpectedEOF
		}
		src = Imm8Operand(b[pos])
		pos++
	}
	dest := Reg(AL)
	if w {
		dest = Reg(AX)
	}
	return IR{Mnemonic: mnem, Byte: !w, Dest: dest, HasDest: true, Src: src, HasSrc: true}, pos, nil
}

// decodeModRMPair handles simple w-bit-only ModR/M forms (TEST r/m,r and
// XCHG r/m,r) where there is no direction bit: destination is always rm.
func decodeModRMPair(b []byte, mnem Mnemonic, destIsReg bool) (IR, int, error) {
	op := b[0]
	w := op&1 == 1
	mod, reg, rm, pos, err := parseModRM(b, 1)
	if err != nil {
		return IR{}, 0, err
	}
	rmOp, pos, err := resolveRM(b, pos, mod, rm, w)
	if err != nil {
		return IR{}, 0, err
	}
	regOp := Reg(RegisterFrom(reg, w))
	return IR{Mnemonic: mnem, Byte: !w, Dest: rmOp, HasDest: true, Src: regOp, HasSrc: true}, pos, nil
}

func decodeMov(b []byte) (IR, int, error) {
	op := b[0]
	d := (op >> 1) & 1
	w := op&1 == 1
	mod, reg, rm, pos, err := parseModRM(b, 1)
	if err != nil {
		return IR{}, 0, err
	}
	rmOp, pos, err := resolveRM(b, pos, mod, rm, w)
	if err != nil {
		return IR{}, 0, err
	}
	regOp := Reg(RegisterFrom(reg, w))
	ir := IR{Mnemonic: Mov, Byte: !w}
	if d == 1 {
		ir.Dest, ir.HasDest = regOp, true
		ir.Src, ir.HasSrc = rmOp, true
	} else {
		ir.Dest, ir.HasDest = rmOp, true
		ir.Src, ir.HasSrc = regOp, true
	}
	return ir, pos, nil
}

func decodeLea(b []byte) (IR, int, error) {
	mod, reg, rm, pos, err := parseModRM(b, 1)
	if err != nil {
		return IR{}, 0, err
	}
	rmOp, pos, err := resolveRM(b, pos, mod, rm, true)
	if err != nil {
		return IR{}, 0, err
	}
	if rmOp.Kind != OperandAddress {
		return IR{}, 0, &InvalidOpcode{Byte: 0x8D}
	}
	regOp := Reg(RegisterFrom(reg, true))
	return IR{Mnemonic: Lea, Dest: regOp, HasDest: true, Src: rmOp, HasSrc: true}, pos, nil
}

// decodeSegMov handles 0x8C/0x8E (MOV to/from segment register). Segment
// registers are not modeled as a distinct type; the reg field is decoded as
// a plain word register placeholder, matching the rendering width (§4.2
// item 11) without modeling segment-relative addressing.
func decodeSegMov(b []byte, toSeg bool) (IR, int, error) {
	mod, reg, rm, pos, err := parseModRM(b, 1)
	if err != nil {
		return IR{}, 0, err
	}
	rmOp, pos, err := resolveRM(b, pos, mod, rm, true)
	if err != nil {
		return IR{}, 0, err
	}
	segOp := Reg(RegisterFrom(reg, true))
	ir := IR{Mnemonic: Mov, Byte: true}
	if toSeg {
		ir.Dest, ir.HasDest = segOp, true
		ir.Src, ir.HasSrc = rmOp, true
	} else {
		ir.Dest, ir.HasDest = rmOp, true
		ir.Src, ir.HasSrc = segOp, true
	}
	return ir, pos, nil
}

func decodeMovAccMem(b []byte) (IR, int, error) {
	op := b[0]
	w := op&1 == 1
	toMem := op >= 0xA2

	if len(b) < 3 {
		return IR{}, 0, ErrUnexpectedEOF
	}
	v := int16(u16le(b, 1))
	d := LongDisp(v)
	memOp := AddrOperand(Address{Disp: &d})
	accOp := Reg(AL)
	if w {
		accOp = Reg(AX)
	}

	ir := IR{Mnemonic: Mov, Byte: true}
	if toMem {
		ir.Dest, ir.HasDest = memOp, true
		ir.Src, ir.HasSrc = accOp, true
	} else {
		ir.Dest, ir.HasDest = accOp, true
		ir.Src, ir.HasSrc = memOp, true
	}
	return ir, 3, nil
}

func decodeTestAccImm(b []byte) (IR, int, error) {
	op := b[0]
	w := op&1 == 1
	pos := 1
	var src Operand
	if w {
		if pos+2 > len(b) {
			return IR{}, 0, ErrUnexpectedEOF
		}
		src = ImmOperand(u16le(b, pos))
		pos += 2
	} else {
		if pos+1 > len(b) {
			return IR{}, 0, ErrUnexpectedEOF
		}
		src = Imm8Operand(b[pos])
		pos++
	}
	dest := Reg(AL)
	if w {
		dest = Reg(AX)
	}
	return IR{Mnemonic: Test, Byte: !w, Dest: dest, HasDest: true, Src: src, HasSrc: true}, pos, nil
}

// --- Group 3: implicit register (§4.2 item 3) ---

func decodeImplicitReg(b []byte, mnem Mnemonic, word bool) (IR, int, error) {
	reg := RegisterFrom(b[0]&0b111, word)
	return IR{Mnemonic: mnem, Dest: Reg(reg), HasDest: true}, 1, nil
}

func decodeXchgAcc(b []byte) (IR, int, error) {
	reg := RegisterFrom(b[0]&0b111, true)
	return IR{Mnemonic: Xchg, Dest: Reg(AX), HasDest: true, Src: Reg(reg), HasSrc: true}, 1, nil
}

func decodeMovImmReg(b []byte) (IR, int, error) {
	op := b[0]
	word := op >= 0xB8
	reg := RegisterFrom(op&0b111, word)
	pos := 1
	var src Operand
	if word {
		if pos+2 > len(b) {
			return IR{}, 0, ErrUnexpectedEOF
		}
		src = ImmOperand(u16le(b, pos))
		pos += 2
	} else {
		if pos+1 > len(b) {
			return IR{}, 0, ErrUnexpectedEOF
		}
		src = Imm8Operand(b[pos])
		pos++
	}
	return IR{Mnemonic: Mov, Byte: !word, Dest: Reg(reg), HasDest: true, Src: src, HasSrc: true}, pos, nil
}

// --- Group 4/9: branch displacements (§4.2 items 4, 9) ---

var condJumps = [16]Mnemonic{
	Jo, Jno, Jb, Jnb, Je, Jne, Jbe, Jnbe,
	Js, Jns, Jp, Jnp, Jl, Jnl, Jle, Jnle,
}

func decodeCondShortJump(b []byte, ip uint16) (IR, int, error) {
	if len(b) < 2 {
		return IR{}, 0, ErrUnexpectedEOF
	}
	mnem := condJumps[b[0]-0x70]
	target := shortTarget(b[1], ip)
	return IR{Mnemonic: mnem, Target: target, HasTarget: true}, 2, nil
}

func decodeShortJmp(b []byte, ip uint16) (IR, int, error) {
	if len(b) < 2 {
		return IR{}, 0, ErrUnexpectedEOF
	}
	target := shortTarget(b[1], ip)
	return IR{Mnemonic: Jmp, Short: true, Target: target, HasTarget: true}, 2, nil
}

func decodeShortBranch(b []byte, ip uint16, mnem Mnemonic) (IR, int, error) {
	if len(b) < 2 {
		return IR{}, 0, ErrUnexpectedEOF
	}
	target := shortTarget(b[1], ip)
	return IR{Mnemonic: mnem, Target: target, HasTarget: true}, 2, nil
}

func shortTarget(disp byte, ip uint16) Operand {
	abs := int32(ip) + 2 + int32(int8(disp))
	d := LongDisp(int16(uint16(abs)))
	return DispOperand(d)
}

func decodeNearCall(b []byte, ip uint16) (IR, int, error) {
	if len(b) < 3 {
		return IR{}, 0, ErrUnexpectedEOF
	}
	target := nearTarget(b, ip)
	return IR{Mnemonic: Call, Target: target, HasTarget: true}, 3, nil
}

func decodeNearJmp(b []byte, ip uint16) (IR, int, error) {
	if len(b) < 3 {
		return IR{}, 0, ErrUnexpectedEOF
	}
	target := nearTarget(b, ip)
	return IR{Mnemonic: Jmp, Target: target, HasTarget: true}, 3, nil
}

func nearTarget(b []byte, ip uint16) Operand {
	disp := int16(u16le(b, 1))
	abs := int32(ip) + 3 + int32(disp)
	d := LongDisp(int16(uint16(abs)))
	return DispOperand(d)
}

// --- Group 5: immediate-to-ModR/M (0x80-0x83, §4.2 item 5) ---

var immGroupOps = [8]Mnemonic{Add, Or, Adc, Sbb, And, Sub, Xor, Cmp}

func decodeImmGroup(b []byte) (IR, int, error) {
	op := b[0]
	s := (op >> 1) & 1
	w := op&1 == 1

	mod, reg, rm, pos, err := parseModRM(b, 1)
	if err != nil {
		return IR{}, 0, err
	}
	rmOp, pos, err := resolveRM(b, pos, mod, rm, w)
	if err != nil {
		return IR{}, 0, err
	}

	var src Operand
	switch {
	case w && s == 0:
		if pos+2 > len(b) {
			return IR{}, 0, ErrUnexpectedEOF
		}
		src = ImmOperand(u16le(b, pos))
		pos += 2
	case w && s == 1:
		if pos+1 > len(b) {
			return IR{}, 0, ErrUnexpectedEOF
		}
		src = SImmOperand(int8(b[pos]))
		pos++
	default:
		if pos+1 > len(b) {
			return IR{}, 0, ErrUnexpectedEOF
		}
		src = Imm8Operand(b[pos])
		pos++
	}

	mnem := immGroupOps[reg]
	return IR{Mnemonic: mnem, Byte: !w, Dest: rmOp, HasDest: true, Src: src, HasSrc: true}, pos, nil
}

// --- Group 6: shift/rotate (0xD0-0xD3, §4.2 item 6) ---

var shiftGroupOps = [8]Mnemonic{Rol, Ror, Rcl, Rcr, Shl, Shr, Shl, Sar}

func decodeShiftGroup(b []byte) (IR, int, error) {
	op := b[0]
	w := op&1 == 1
	v := (op >> 1) & 1

	mod, reg, rm, pos, err := parseModRM(b, 1)
	if err != nil {
		return IR{}, 0, err
	}
	rmOp, pos, err := resolveRM(b, pos, mod, rm, w)
	if err != nil {
		return IR{}, 0, err
	}

	count := Imm8Operand(1)
	if v == 1 {
		count = Reg(CL)
	}

	mnem := shiftGroupOps[reg]
	return IR{Mnemonic: mnem, Byte: !w, Dest: rmOp, HasDest: true, Count: count, HasCount: true}, pos, nil
}

// --- Group 7: unary (0xF6/0xF7, §4.2 item 7) ---

func decodeUnaryGroup(b []byte) (IR, int, error) {
	op := b[0]
	w := op&1 == 1

	mod, reg, rm, pos, err := parseModRM(b, 1)
	if err != nil {
		return IR{}, 0, err
	}
	rmOp, pos, err := resolveRM(b, pos, mod, rm, w)
	if err != nil {
		return IR{}, 0, err
	}

	switch reg {
	case 0b000, 0b001:
		var src Operand
		if w {
			if pos+2 > len(b) {
				return IR{}, 0, ErrUnexpectedEOF
			}
			src = ImmOperand(u16le(b, pos))
			pos += 2
		} else {
			if pos+1 > len(b) {
				return IR{}, 0, ErrUnexpectedEOF
			}
			src = Imm8Operand(b[pos])
			pos++
		}
		return IR{Mnemonic: Test, Byte: !w, Dest: rmOp, HasDest: true, Src: src, HasSrc: true}, pos, nil
	case 0b010:
		return IR{Mnemonic: Not, Byte: !w, Dest: rmOp, HasDest: true}, pos, nil
	case 0b011:
		return IR{Mnemonic: Neg, Byte: !w, Dest: rmOp, HasDest: true}, pos, nil
	case 0b100:
		return IR{Mnemonic: Mul, Byte: !w, Dest: rmOp, HasDest: true}, pos, nil
	case 0b101:
		return IR{Mnemonic: Imul, Byte: !w, Dest: rmOp, HasDest: true}, pos, nil
	case 0b110:
		return IR{Mnemonic: Div, Byte: !w, Dest: rmOp, HasDest: true}, pos, nil
	case 0b111:
		return IR{Mnemonic: Idiv, Byte: !w, Dest: rmOp, HasDest: true}, pos, nil
	default:
		return IR{}, 0, &InvalidOpcode{Byte: op}
	}
}

// --- Group 8: indirect (0xFF, §4.2 item 8) ---

func decodeIndirectGroup(b []byte) (IR, int, error) {
	mod, reg, rm, pos, err := parseModRM(b, 1)
	if err != nil {
		return IR{}, 0, err
	}
	rmOp, pos, err := resolveRM(b, pos, mod, rm, true)
	if err != nil {
		return IR{}, 0, err
	}

	switch reg {
	case 0b000:
		return IR{Mnemonic: Inc, Dest: rmOp, HasDest: true}, pos, nil
	case 0b001:
		return IR{Mnemonic: Dec, Dest: rmOp, HasDest: true}, pos, nil
	case 0b010, 0b011:
		return IR{Mnemonic: Call, Target: rmOp, HasTarget: true}, pos, nil
	case 0b100, 0b101:
		return IR{Mnemonic: Jmp, Target: rmOp, HasTarget: true}, pos, nil
	case 0b110:
		return IR{Mnemonic: Push, Dest: rmOp, HasDest: true}, pos, nil
	default:
		return IR{}, 0, &InvalidOpcode{Byte: 0xFF}
	}
}

// --- Group 10: string ops and REP prefix (§4.2 item 10) ---

func decodeStringOp(b []byte) (IR, int, error) {
	op := b[0]
	word := op&1 == 1
	var mnem Mnemonic
	switch {
	case op == 0xA4 || op == 0xA5:
		mnem = Movs
	case op == 0xA6 || op == 0xA7:
		mnem = Cmps
	case op == 0xAA || op == 0xAB:
		mnem = Stos
	case op == 0xAC || op == 0xAD:
		mnem = Lods
	case op == 0xAE || op == 0xAF:
		mnem = Scas
	default:
		return IR{}, 0, &InvalidOpcode{Byte: op}
	}
	return IR{Mnemonic: mnem, Byte: !word}, 1, nil
}

func decodeRep(b []byte, z bool) (IR, int, error) {
	if len(b) < 2 {
		return IR{}, 0, ErrUnexpectedEOF
	}
	inner, n, err := decodeStringOp(b[1:])
	if err != nil {
		return IR{}, 0, err
	}
	return IR{Mnemonic: Rep, Z: z, Inner: &inner}, 1 + n, nil
}

// --- Group 12/13: INT, AAM/AAD ---

func decodeRetImm(b []byte) (IR, int, error) {
	if len(b) < 3 {
		return IR{}, 0, ErrUnexpectedEOF
	}
	return IR{Mnemonic: Ret, RetImm: u16le(b, 1), HasRetImm: true}, 3, nil
}

func decodeAamAad(b []byte, mnem Mnemonic) (IR, int, error) {
	if len(b) < 2 {
		return IR{}, 0, ErrUnexpectedEOF
	}
	if b[1] != 0x0A {
		return IR{}, 0, &InvalidOpcode{Byte: b[0]}
	}
	return IR{Mnemonic: mnem}, 2, nil
}

// decodeEsc decodes the x87 escape range (0xD8-0xDF). Coprocessor semantics
// are out of scope; only the encoding's length is honored so the byte
// stream stays synchronized.
func decodeEsc(b []byte) (IR, int, error) {
	mod, _, rm, pos, err := parseModRM(b, 1)
	if err != nil {
		return IR{}, 0, err
	}
	_, pos, err = resolveRM(b, pos, mod, rm, true)
	if err != nil {
		return IR{}, 0, err
	}
	return IR{Mnemonic: Esc}, pos, nil
}
