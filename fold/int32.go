package fold

import "math"

// ToInt32 converts d to a signed 32-bit integer per ECMA's ToInt32
// abstract operation: non-finite or zero maps to 0, otherwise d is
// reduced modulo 2^32 (truncating toward zero) and mapped into
// [-2^31, 2^31).
func ToInt32(d float64) int32 {
	if math.IsNaN(d) || math.IsInf(d, 0) || d == 0 {
		return 0
	}
	u := uint32(ToUint32(d))
	return int32(u)
}

// ToUint32 converts d to an unsigned 32-bit integer per ECMA's
// ToUint32 abstract operation: non-finite or zero maps to 0, otherwise
// d is truncated toward zero and reduced modulo 2^32.
func ToUint32(d float64) uint32 {
	if math.IsNaN(d) || math.IsInf(d, 0) || d == 0 {
		return 0
	}
	trunc := math.Trunc(d)
	m := math.Mod(trunc, 4294967296)
	if m < 0 {
		m += 4294967296
	}
	return uint32(m)
}
