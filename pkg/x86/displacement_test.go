package x86

import "testing"

// TestDisplacementString covers Displacement.String(), the signed
// memory-operand (Address) rendering convention.
func TestDisplacementString(t *testing.T) {
	cases := []struct {
		d    Displacement
		want string
	}{
		{ShortDisp(5), "5"},
		{ShortDisp(-5), "-5"},
		{LongDisp(0x025A), "25a"},
		{LongDisp(-1), "-1"},
		{LongDisp(0), "0"},
	}
	for _, c := range cases {
		if got := c.d.String(); got != c.want {
			t.Errorf("%+v.String() = %q, want %q", c.d, got, c.want)
		}
	}
}

// TestOperandDisplacementString covers Operand{Kind: OperandDisplacement},
// the branch/call-target rendering convention: raw, unsigned, zero-padded
// to the source width, distinct from Displacement.String() above.
func TestOperandDisplacementString(t *testing.T) {
	cases := []struct {
		d    Displacement
		want string
	}{
		{ShortDisp(5), "05"},
		{ShortDisp(-1), "ff"},
		{LongDisp(0x025A), "025a"},
		{LongDisp(-1), "ffff"},
		{LongDisp(-0x7ffe), "8002"}, // bit pattern 0x8002
	}
	for _, c := range cases {
		op := DispOperand(c.d)
		if got := op.String(); got != c.want {
			t.Errorf("DispOperand(%+v).String() = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestDisplacementIsNeg(t *testing.T) {
	if !LongDisp(-1).IsNeg() || LongDisp(0).IsNeg() || LongDisp(1).IsNeg() {
		t.Errorf("IsNeg wrong")
	}
}
