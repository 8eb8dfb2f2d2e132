// Package fixed provides a generic fixed-point number type parameterised by the
// underlying raw integer width (bits, B) and a scale-shift (S): the represented real
// value is raw * 2^-S. Addition of two values in the same format is wrapping, not
// saturating: fixed-point values form a group under addition only if overflow wraps
// rather than clamps, which is what lets the NNUE accumulator's Make/Unmake be exact
// inverses of each other regardless of intermediate magnitudes. Callers pick a raw type
// with enough headroom for their own worst-case sum; this package never second-guesses
// that choice.
package fixed

import "math"

// Raw is the underlying integer representation for a Fixed value.
type Raw interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// Format names one (bits, shift) fixed-point layout at compile time. Bits is the raw
// storage width (it must match the Raw type instantiating Fixed[T, F]); Shift is the
// number of fractional bits.
type Format interface {
	Bits() int
	Shift() int
}

// Q32S8 is the accumulator's format: 32 raw bits, scale-shift 8.
type Q32S8 struct{}

func (Q32S8) Bits() int  { return 32 }
func (Q32S8) Shift() int { return 8 }

// Q8S7 is the first-layer weight format: 8 raw bits, scale-shift 7 (signed values in
// [-1, 1)).
type Q8S7 struct{}

func (Q8S7) Bits() int  { return 8 }
func (Q8S7) Shift() int { return 7 }

// Fixed is a signed fixed-point number stored as a raw T in format F.
type Fixed[T Raw, F Format] struct {
	Raw T
}

// FromFloat64 rounds x to the nearest value representable in format F.
func FromFloat64[T Raw, F Format](x float64) Fixed[T, F] {
	var f F
	return Fixed[T, F]{Raw: T(math.Round(x * math.Ldexp(1, f.Shift())))}
}

// Float64 converts back to a real number; exact up to float64's mantissa.
func (v Fixed[T, F]) Float64() float64 {
	var f F
	return float64(v.Raw) / math.Ldexp(1, f.Shift())
}

// Add is wrapping addition: Go's fixed-width signed integer arithmetic already wraps on
// overflow (two's complement, not undefined behaviour), so this is the native `+`.
func (v Fixed[T, F]) Add(o Fixed[T, F]) Fixed[T, F] {
	return Fixed[T, F]{Raw: v.Raw + o.Raw}
}

// Sub is wrapping subtraction, the exact inverse of Add: (v.Add(o)).Sub(o) == v for any
// v, o, even when the intermediate Add wrapped.
func (v Fixed[T, F]) Sub(o Fixed[T, F]) Fixed[T, F] {
	return Fixed[T, F]{Raw: v.Raw - o.Raw}
}

// MulScalar multiplies by a plain integer scalar, keeping this value's format. May
// overflow; the caller is responsible for headroom, same as Add.
func (v Fixed[T, F]) MulScalar(k int64) Fixed[T, F] {
	return Fixed[T, F]{Raw: T(int64(v.Raw) * k)}
}

// Mul is a widening multiply of two fixed-point operands: a value in format (B1, S1)
// times a value in format (B2, S2) is conceptually a value in format (B1+B2, S1+S2).
// Go generics have no type-level arithmetic to construct that combined Format, so Mul
// returns the raw int64 product alongside its combined shift (S1+S2); RescaleRaw converts
// that pair into any concrete destination format.
func Mul[T1, T2 Raw, F1, F2 Format](a Fixed[T1, F1], b Fixed[T2, F2]) (raw int64, shift int) {
	var f1 F1
	var f2 F2
	return int64(a.Raw) * int64(b.Raw), f1.Shift() + f2.Shift()
}

// Rescale converts a value from format F1 to format F2, widening or narrowing the raw
// storage and shifting to align the scales. Narrowing (F2.Shift() < F1.Shift()) discards
// the low bits it shifts out; widening is exact.
func Rescale[T1, T2 Raw, F1, F2 Format](v Fixed[T1, F1]) Fixed[T2, F2] {
	var f1 F1
	var f2 F2
	raw := int64(v.Raw)
	if d := f2.Shift() - f1.Shift(); d >= 0 {
		raw <<= uint(d)
	} else {
		raw >>= uint(-d)
	}
	return Fixed[T2, F2]{Raw: T2(raw)}
}

// RescaleRaw converts a Mul result (raw value at the given shift) into format F.
func RescaleRaw[T Raw, F Format](raw int64, shift int) Fixed[T, F] {
	var f F
	if d := f.Shift() - shift; d >= 0 {
		raw <<= uint(d)
	} else {
		raw >>= uint(-d)
	}
	return Fixed[T, F]{Raw: T(raw)}
}

// ReLU zeroes a negative value, keeping its format.
func ReLU[T Raw, F Format](v Fixed[T, F]) Fixed[T, F] {
	if v.Raw < 0 {
		return Fixed[T, F]{}
	}
	return v
}
