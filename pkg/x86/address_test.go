package x86

import "testing"

func reg(r Register) *Register { return &r }

func TestAddressString(t *testing.T) {
	cases := []struct {
		addr Address
		want string
	}{
		{Address{Base: reg(BX)}, "[bx]"},
		{func() Address { d := LongDisp(5); return Address{Base: reg(BX), Disp: &d} }(), "[bx+5]"},
		{func() Address { d := LongDisp(1000); return Address{Base: reg(BX), Disp: &d} }(), "[bx+3e8]"},
		{Address{Base: reg(BX), Index: reg(SI)}, "[bx+si]"},
		{func() Address { d := LongDisp(8); return Address{Base: reg(BX), Index: reg(SI), Disp: &d} }(), "[bx+si+8]"},
		{func() Address { d := LongDisp(16); return Address{Disp: &d} }(), "[0010]"},
		{func() Address { d := LongDisp(-77); return Address{Base: reg(BX), Index: reg(SI), Disp: &d} }(), "[bx+si-4d]"},
	}
	for _, c := range cases {
		if got := c.addr.String(); got != c.want {
			t.Errorf("%+v.String() = %q, want %q", c.addr, got, c.want)
		}
	}
}
