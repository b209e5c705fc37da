package x86

import "fmt"

// Displacement is a signed offset used either inside a memory operand's
// addressing expression or as a branch target. Long carries its original
// signedness (8-bit vs 16-bit source encoding) purely for Display purposes;
// Value always holds the already sign-extended 16-bit number.
type Displacement struct {
	Long  bool
	Value int16
}

// ShortDisp builds a Displacement from a signed byte.
func ShortDisp(v int8) Displacement {
	return Displacement{Long: false, Value: int16(v)}
}

// LongDisp builds a Displacement from a signed word.
func LongDisp(v int16) Displacement {
	return Displacement{Long: true, Value: v}
}

// IsNeg reports whether the displacement is negative.
func (d Displacement) IsNeg() bool {
	return d.Value < 0
}

func (d Displacement) String() string {
	if d.IsNeg() {
		neg := -int32(d.Value)
		return fmt.Sprintf("-%x", neg)
	}
	return fmt.Sprintf("%x", d.Value)
}
