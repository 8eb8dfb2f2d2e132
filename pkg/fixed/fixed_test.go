package fixed_test

import (
	"math"
	"testing"

	"github.com/kestrelchess/kestrel/pkg/fixed"
	"github.com/stretchr/testify/assert"
)

func TestFromFloat64_RoundTrip(t *testing.T) {
	v := fixed.FromFloat64[int32, fixed.Q32S8](3.125)
	assert.InDelta(t, 3.125, v.Float64(), 1.0/256)
}

func TestAdd_Sub_AreExactInverses(t *testing.T) {
	a := fixed.FromFloat64[int8, fixed.Q8S7](0.5)
	b := fixed.FromFloat64[int8, fixed.Q8S7](0.75)

	sum := a.Add(b)
	assert.Equal(t, a, sum.Sub(b))
}

func TestAdd_WrapsRatherThanSaturates(t *testing.T) {
	max := fixed.Fixed[int8, fixed.Q8S7]{Raw: math.MaxInt8}
	one := fixed.Fixed[int8, fixed.Q8S7]{Raw: 1}

	wrapped := max.Add(one)
	assert.Equal(t, int8(math.MinInt8), wrapped.Raw)

	// Wrapping addition is invertible even though it overflowed: subtracting the same
	// delta must recover the original value bit-for-bit.
	assert.Equal(t, max, wrapped.Sub(one))
}

func TestMul_Rescale(t *testing.T) {
	a := fixed.FromFloat64[int32, fixed.Q32S8](2.0)
	b := fixed.FromFloat64[int8, fixed.Q8S7](0.5)

	raw, shift := fixed.Mul(a, b)
	out := fixed.RescaleRaw[int32, fixed.Q32S8](raw, shift)
	assert.InDelta(t, 1.0, out.Float64(), 1.0/256)
}

func TestRescale_WidensExactly(t *testing.T) {
	w := fixed.FromFloat64[int8, fixed.Q8S7](0.25)
	acc := fixed.Rescale[int8, int32, fixed.Q8S7, fixed.Q32S8](w)
	assert.InDelta(t, 0.25, acc.Float64(), 1.0/256)
}

func TestReLU(t *testing.T) {
	neg := fixed.FromFloat64[int32, fixed.Q32S8](-1.5)
	pos := fixed.FromFloat64[int32, fixed.Q32S8](1.5)

	assert.Equal(t, 0.0, fixed.ReLU(neg).Float64())
	assert.Equal(t, pos, fixed.ReLU(pos))
}
