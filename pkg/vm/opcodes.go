package vm

import "github.com/oisee/minix2vm/pkg/x86"

// execute dispatches one decoded instruction. ip has already been advanced
// past the instruction's bytes (see Run), so PC-relative targets resolved
// at decode time remain valid and call/ret record the correct address.
func (m *VM) execute(ir x86.IR) error {
	switch ir.Mnemonic {
	case x86.Mov:
		v := m.readValue(ir.Src, ir.Byte)
		m.writeValue(ir.Dest, v, ir.Byte)
	case x86.Add:
		m.execAdd(ir)
	case x86.Adc:
		m.execAdcSbb(ir, true)
	case x86.Sub:
		m.execSub(ir)
	case x86.Sbb:
		m.execAdcSbb(ir, false)
	case x86.Cmp:
		m.execCmp(ir)
	case x86.Inc:
		m.execIncDec(ir, 1)
	case x86.Dec:
		m.execIncDec(ir, 0xFFFF)
	case x86.Neg:
		m.execNeg(ir)
	case x86.And:
		m.execBitwise(ir, func(a, b uint16) uint16 { return a & b }, true)
	case x86.Or:
		m.execBitwise(ir, func(a, b uint16) uint16 { return a | b }, true)
	case x86.Xor:
		m.execBitwise(ir, func(a, b uint16) uint16 { return a ^ b }, true)
	case x86.Test:
		m.execBitwise(ir, func(a, b uint16) uint16 { return a & b }, false)
	case x86.Not:
		v := m.readValue(ir.Dest, ir.Byte)
		m.writeValue(ir.Dest, ^v, ir.Byte)
	case x86.Shl:
		m.execShift(ir, shiftLeft)
	case x86.Shr:
		m.execShift(ir, shiftRightLogical)
	case x86.Sar:
		m.execShift(ir, shiftRightArith)
	case x86.Rol, x86.Ror, x86.Rcl, x86.Rcr:
		m.execShift(ir, shiftLeft)
	case x86.Mul, x86.Imul:
		m.execMul(ir)
	case x86.Div, x86.Idiv:
		return m.execDiv(ir)
	case x86.Cbw:
		al := int8(m.Regs.Get8(x86.AL))
		m.Regs.Set16(x86.AX, uint16(int16(al)))
	case x86.Cwd:
		ax := int16(m.Regs.Get16(x86.AX))
		if ax < 0 {
			m.Regs.Set16(x86.DX, 0xFFFF)
		} else {
			m.Regs.Set16(x86.DX, 0)
		}
	case x86.Push:
		m.push(m.readValue(ir.Dest, false))
	case x86.Pop:
		m.writeValue(ir.Dest, m.pop(), false)
	case x86.Call:
		target := m.readValue(ir.Target, false)
		m.push(m.IP)
		m.IP = target
	case x86.Ret:
		ret := m.pop()
		if ir.HasRetImm {
			sp := m.Regs.Get16(x86.SP) + ir.RetImm
			m.Regs.Set16(x86.SP, sp)
		}
		m.IP = ret
	case x86.Jmp:
		m.IP = m.readValue(ir.Target, false)
	case x86.Je:
		m.branchIf(ir, m.Flags.Get(Zero))
	case x86.Jne:
		m.branchIf(ir, !m.Flags.Get(Zero))
	case x86.Jb:
		m.branchIf(ir, m.Flags.Get(Carry))
	case x86.Jnb:
		m.branchIf(ir, !m.Flags.Get(Carry))
	case x86.Jbe:
		m.branchIf(ir, m.Flags.Get(Carry) || m.Flags.Get(Zero))
	case x86.Jnbe:
		m.branchIf(ir, !m.Flags.Get(Carry) && !m.Flags.Get(Zero))
	case x86.Jl:
		m.branchIf(ir, m.Flags.Get(Sign) != m.Flags.Get(Overflow))
	case x86.Jle:
		m.branchIf(ir, m.Flags.Get(Zero) || m.Flags.Get(Sign) != m.Flags.Get(Overflow))
	case x86.Jnl:
		m.branchIf(ir, m.Flags.Get(Sign) == m.Flags.Get(Overflow))
	case x86.Jnle:
		m.branchIf(ir, !m.Flags.Get(Zero) && m.Flags.Get(Sign) == m.Flags.Get(Overflow))
	case x86.Js:
		m.branchIf(ir, m.Flags.Get(Sign))
	case x86.Jns:
		m.branchIf(ir, !m.Flags.Get(Sign))
	case x86.Jo:
		m.branchIf(ir, m.Flags.Get(Overflow))
	case x86.Jno:
		m.branchIf(ir, !m.Flags.Get(Overflow))
	case x86.Jp:
		m.branchIf(ir, m.Flags.Get(Parity))
	case x86.Jnp:
		m.branchIf(ir, !m.Flags.Get(Parity))
	case x86.Loop:
		m.execLoop(ir, func() bool { return true })
	case x86.Loopz:
		m.execLoop(ir, func() bool { return m.Flags.Get(Zero) })
	case x86.Loopnz:
		m.execLoop(ir, func() bool { return !m.Flags.Get(Zero) })
	case x86.Jcxz:
		if m.Regs.Get16(x86.CX) == 0 {
			m.IP = m.readValue(ir.Target, false)
		}
	case x86.Lea:
		ea := m.effectiveAddress(ir.Src.Addr)
		m.writeValue(ir.Dest, ea, false)
	case x86.Xchg:
		a := m.readValue(ir.Dest, ir.Byte)
		b := m.readValue(ir.Src, ir.Byte)
		m.writeValue(ir.Dest, b, ir.Byte)
		m.writeValue(ir.Src, a, ir.Byte)
	case x86.In:
		m.writeValue(ir.Dest, 0x42, ir.Byte)
	case x86.Int:
		return m.execInt(ir.IntType)
	case x86.Hlt:
		// handled by the caller after execute returns
	default:
		// Flag ops, WAIT/LOCK/ESC/BCD/string ops: storage-only or no-op
		// in this VM's scope (§4.8 "Others").
	}
	return nil
}

func (m *VM) push(v uint16) {
	sp := m.Regs.Get16(x86.SP) - 2
	m.Data.WriteWord(sp, v)
	m.Regs.Set16(x86.SP, sp)
}

func (m *VM) pop() uint16 {
	sp := m.Regs.Get16(x86.SP)
	v := m.Data.ReadWord(sp)
	m.Regs.Set16(x86.SP, sp+2)
	return v
}

func (m *VM) branchIf(ir x86.IR, cond bool) {
	if cond {
		m.IP = m.readValue(ir.Target, false)
	}
}

func (m *VM) execLoop(ir x86.IR, extra func() bool) {
	cx := m.Regs.Get16(x86.CX) - 1
	m.Regs.Set16(x86.CX, cx)
	if cx != 0 && extra() {
		m.IP = m.readValue(ir.Target, false)
	}
}

func signMask(byteWidth bool) uint16 {
	if byteWidth {
		return 0x80
	}
	return 0x8000
}

func toSigned(v uint16, byteWidth bool) int16 {
	if byteWidth {
		return int16(int8(v))
	}
	return int16(v)
}

func (m *VM) execAdd(ir x86.IR) {
	src := m.readValue(ir.Src, ir.Byte)
	dest := m.readValue(ir.Dest, ir.Byte)
	result := dest + src
	m.writeValue(ir.Dest, result, ir.Byte)

	sign := signMask(ir.Byte)
	overflow := (dest^src)&sign == 0 && (dest^result)&sign != 0
	m.Flags.Set(Overflow, overflow)
	m.Flags.Set(Carry, result < dest)
	m.Flags.SetSZP(toSigned(result, ir.Byte))
	m.Flags.Set(Aux, (dest&0xF)+(src&0xF) > 0xF)
}

func (m *VM) execAdcSbb(ir x86.IR, add bool) {
	src := m.readValue(ir.Src, ir.Byte)
	dest := m.readValue(ir.Dest, ir.Byte)
	var carryIn uint16
	if m.Flags.Get(Carry) {
		carryIn = 1
	}

	var result uint16
	if add {
		result = dest + src + carryIn
	} else {
		result = dest - src - carryIn
	}
	m.writeValue(ir.Dest, result, ir.Byte)

	sign := signMask(ir.Byte)
	if add {
		overflow := (dest^src)&sign == 0 && (dest^result)&sign != 0
		m.Flags.Set(Overflow, overflow)
		m.Flags.Set(Carry, result < dest)
	} else {
		overflow := (dest^src)&sign != 0 && (dest^result)&sign != 0
		m.Flags.Set(Overflow, overflow)
		m.Flags.Set(Carry, dest < src+carryIn)
	}
	m.Flags.SetSZP(toSigned(result, ir.Byte))
}

func (m *VM) execSub(ir x86.IR) {
	src := m.readValue(ir.Src, ir.Byte)
	dest := m.readValue(ir.Dest, ir.Byte)
	result := dest - src
	m.writeValue(ir.Dest, result, ir.Byte)

	sign := signMask(ir.Byte)
	overflow := (dest^src)&sign != 0 && (dest^result)&sign != 0
	m.Flags.Set(Overflow, overflow)
	m.Flags.Set(Carry, dest > src)
	m.Flags.SetSZP(toSigned(result, ir.Byte))
}

func (m *VM) execCmp(ir x86.IR) {
	src := m.readValue(ir.Src, ir.Byte)
	dest := m.readValue(ir.Dest, ir.Byte)
	result := dest - src

	sign := signMask(ir.Byte)
	overflow := (dest^src)&sign != 0 && (dest^result)&sign != 0
	m.Flags.Set(Overflow, overflow)
	m.Flags.Set(Carry, dest < src)
	m.Flags.SetSZP(toSigned(result, ir.Byte))
	m.Flags.Set(Aux, (dest&0xF) < (src&0xF))
}

func (m *VM) execIncDec(ir x86.IR, delta uint16) {
	dest := m.readValue(ir.Dest, ir.Byte)
	result := dest + delta
	m.writeValue(ir.Dest, result, ir.Byte)
	m.Flags.Clear(Overflow)
	m.Flags.SetSZP(toSigned(result, ir.Byte))
}

func (m *VM) execNeg(ir x86.IR) {
	dest := m.readValue(ir.Dest, ir.Byte)
	result := -dest
	m.writeValue(ir.Dest, result, ir.Byte)

	sign := signMask(ir.Byte)
	m.Flags.Set(Carry, dest != 0)
	m.Flags.Set(Overflow, dest&sign != 0 && result&sign != 0)
	m.Flags.SetSZP(toSigned(result, ir.Byte))
}

func (m *VM) execBitwise(ir x86.IR, op func(a, b uint16) uint16, writeBack bool) {
	src := m.readValue(ir.Src, ir.Byte)
	dest := m.readValue(ir.Dest, ir.Byte)
	result := op(dest, src)
	if writeBack {
		m.writeValue(ir.Dest, result, ir.Byte)
	}
	m.Flags.Clear(Overflow)
	m.Flags.Clear(Carry)
	m.Flags.SetSZP(toSigned(result, ir.Byte))
}

// shift functions return (result, carryOut).
type shiftFunc func(v uint16, count uint16, byteWidth bool) (uint16, bool)

func shiftLeft(v uint16, count uint16, byteWidth bool) (uint16, bool) {
	width := uint16(16)
	if byteWidth {
		width = 8
	}
	result := v << count
	carry := false
	if count >= 1 && count <= width {
		carry = v&(1<<(width-count)) != 0
	}
	return result, carry
}

func shiftRightLogical(v uint16, count uint16, byteWidth bool) (uint16, bool) {
	result := v >> count
	carry := false
	if count >= 1 {
		carry = v&(1<<(count-1)) != 0
	}
	return result, carry
}

func shiftRightArith(v uint16, count uint16, byteWidth bool) (uint16, bool) {
	signed := toSigned(v, byteWidth)
	result := uint16(signed >> count)
	carry := false
	if count >= 1 {
		carry = v&(1<<(count-1)) != 0
	}
	return result, carry
}

func (m *VM) execShift(ir x86.IR, fn shiftFunc) {
	dest := m.readValue(ir.Dest, ir.Byte)
	count := m.readValue(ir.Count, false)

	result, carry := fn(dest, count, ir.Byte)
	m.writeValue(ir.Dest, result, ir.Byte)

	m.Flags.Set(Carry, carry)
	if count == 1 {
		sign := signMask(ir.Byte)
		m.Flags.Set(Overflow, dest&sign != 0)
	}
	m.Flags.SetSZP(toSigned(result, ir.Byte))
}

func (m *VM) execMul(ir x86.IR) {
	src := m.readValue(ir.Dest, ir.Byte)
	signed := ir.Mnemonic == x86.Imul

	if ir.Byte {
		var result uint16
		var overflow bool
		if signed {
			r := int16(int8(m.Regs.Get8(x86.AL))) * int16(int8(src))
			result = uint16(r)
			overflow = r < -128 || r > 127
		} else {
			al := uint16(m.Regs.Get8(x86.AL))
			result = al * src
			overflow = result>>8 != 0
		}
		m.Regs.Set16(x86.AX, result)
		m.Flags.Set(Carry, overflow)
		m.Flags.Set(Overflow, overflow)
		return
	}

	var lo, hi uint16
	var overflow bool
	if signed {
		r := int32(int16(m.Regs.Get16(x86.AX))) * int32(int16(src))
		lo, hi = uint16(r), uint16(r>>16)
		overflow = r < -32768 || r > 32767
	} else {
		ax := uint32(m.Regs.Get16(x86.AX))
		r := ax * uint32(src)
		lo, hi = uint16(r), uint16(r>>16)
		overflow = hi != 0
	}
	m.Regs.Set16(x86.AX, lo)
	m.Regs.Set16(x86.DX, hi)
	m.Flags.Set(Carry, overflow)
	m.Flags.Set(Overflow, overflow)
}

func (m *VM) execDiv(ir x86.IR) error {
	src := m.readValue(ir.Dest, ir.Byte)
	if src == 0 {
		return ErrDivideError
	}
	signed := ir.Mnemonic == x86.Idiv

	if ir.Byte {
		ax := m.Regs.Get16(x86.AX)
		if signed {
			dividend := int16(ax)
			divisor := int16(int8(src))
			quot := dividend / divisor
			rem := dividend % divisor
			if quot > 127 || quot < -128 {
				return ErrDivideError
			}
			m.Regs.Set8(x86.AL, uint8(quot))
			m.Regs.Set8(x86.AH, uint8(rem))
			return nil
		}
		quot := ax / src
		rem := ax % src
		if quot > 0xFF {
			return ErrDivideError
		}
		m.Regs.Set8(x86.AL, uint8(quot))
		m.Regs.Set8(x86.AH, uint8(rem))
		return nil
	}

	dx := m.Regs.Get16(x86.DX)
	ax := m.Regs.Get16(x86.AX)
	if signed {
		dividend := int32(dx)<<16 | int32(ax)
		divisor := int32(int16(src))
		quot := dividend / divisor
		rem := dividend % divisor
		if quot > 32767 || quot < -32768 {
			return ErrDivideError
		}
		m.Regs.Set16(x86.AX, uint16(quot))
		m.Regs.Set16(x86.DX, uint16(rem))
		return nil
	}
	dividend := uint32(dx)<<16 | uint32(ax)
	quot := dividend / uint32(src)
	rem := dividend % uint32(src)
	if quot > 0xFFFF {
		return ErrDivideError
	}
	m.Regs.Set16(x86.AX, uint16(quot))
	m.Regs.Set16(x86.DX, uint16(rem))
	return nil
}
