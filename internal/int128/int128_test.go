package int128

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mulForTest recombines q*b using math/big, purely to check the division
// law a == q*b+r; Int128 itself exposes no public multiply (spec.md §4.1
// lists only +, -, | and & as the arithmetic operator surface).
func mulForTest(a, b Int128) Int128 {
	return fromBig(new(big.Int).Mul(toBig(a), toBig(b)))
}

func TestFromI64SignExtends(t *testing.T) {
	x := FromI64(12)
	x = x.Add(FromI64(13))
	require.Equal(t, int64(25), x.ToI64())
	require.Equal(t, "0x00000000000000000000000000000019", x.ToHexString())

	y := FromI64(13).Sub(FromI64(1))
	require.Equal(t, "0x0000000000000000000000000000000c", y.ToHexString())
	require.Equal(t, int64(12), y.ToI64())
	require.Equal(t, int64(0), y.HiBits())
	require.Equal(t, uint64(12), y.LoBits())

	y = y.Sub(FromI64(20))
	require.Equal(t, "0xfffffffffffffffffffffffffffffff8", y.ToHexString())
	require.Equal(t, int64(-8), y.ToI64())
	require.Equal(t, int64(-1), y.HiBits())

	var zero Int128
	require.Equal(t, int64(0), zero.ToI64())
}

func TestBitwiseOps(t *testing.T) {
	n := FromPair(0x0000000100000002, 0x0000000400000008)
	n = n.Or(FromPair(0x0000001000000020, 0x0000004000000080))
	require.Equal(t, "0x00000011000000220000004400000088", n.ToHexString())

	n = FromPair(0x0000111100002222, 0x0000333300004444)
	n = n.And(FromPair(0x0000f00000000f00, 0x000000f00000000f))
	require.Equal(t, "0x00001000000002000000003000000004", n.ToHexString())
}

func TestDivideCrossCheck(t *testing.T) {
	dividend := FromPair(0x123456789abcdeff, 0xfedcba0987654321)
	q, r, err := dividend.Divide(FromI64(123))
	require.NoError(t, err)
	assert.Equal(t, "0x0025e390971c97aaaaa84c7077bc23ed", q.ToHexString())
	assert.Equal(t, int64(0x42), r.ToI64())

	dividend = FromI64(0x12345678)
	q, r, err = dividend.Divide(FromPair(0, 0x123456789abcdef0))
	require.NoError(t, err)
	assert.Equal(t, int64(0), q.ToI64())
	assert.Equal(t, int64(0x12345678), r.ToI64())

	dividend = FromPair(0x111111112fffffff, 0xeeeeeeeedddddddd)
	q, r, err = dividend.Divide(FromPair(0, 0x1111111123456789))
	require.NoError(t, err)
	assert.Equal(t, "0x000000000000000100000000beeeeef7", q.ToHexString())
	assert.Equal(t, "0x0000000000000000037d3b3d60479aae", r.ToHexString())

	dividend = FromI64(1234234662345)
	q, r, err = dividend.Divide(FromI64(642337))
	require.NoError(t, err)
	assert.Equal(t, int64(1921475), q.ToI64())
	assert.Equal(t, int64(175270), r.ToI64())
}

func TestDivideByZero(t *testing.T) {
	_, _, err := FromI64(5).Divide(Int128{})
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestDivisionLaw(t *testing.T) {
	cases := []struct{ a, b Int128 }{
		{FromI64(1234234662345), FromI64(642337)},
		{FromI64(-1234234662345), FromI64(642337)},
		{FromI64(1234234662345), FromI64(-642337)},
		{FromI64(-1234234662345), FromI64(-642337)},
		{FromPair(0x42395ADC0534AB4C, 0x59D109ADF9892FCA), FromPair(0, 0x1234F09DC19A)},
	}
	for _, c := range cases {
		q, r, err := c.a.Divide(c.b)
		require.NoError(t, err)
		reconstructed := mulForTest(q, c.b).Add(r)
		require.True(t, reconstructed.Equal(c.a), "a == q*b+r must hold")
		require.True(t, r.absLessThan(c.b))
	}
}

func TestToStringRoundTrip(t *testing.T) {
	num := FromPair(0x123456789abcdef0, 0xfedcba0987654321)
	require.Equal(t, "24197857203266734881846307133640229665", num.ToDecimalString())

	num = FromPair(0, 0xab54a98ceb1f0ad2)
	require.Equal(t, "12345678901234567890", num.ToDecimalString())

	num = FromI64(-1234)
	require.Equal(t, "-1234", num.ToDecimalString())

	num, err := Parse("10000000000000000000000000000000000000")
	require.NoError(t, err)
	require.Equal(t, "10000000000000000000000000000000000000", num.ToDecimalString())

	num, err = Parse("-12345678901122334455667788990011122233")
	require.NoError(t, err)
	require.Equal(t, "-12345678901122334455667788990011122233", num.ToDecimalString())

	reparsed, err := Parse(num.ToDecimalString())
	require.NoError(t, err)
	require.True(t, reparsed.Equal(num))
	require.True(t, FromPair(num.HiBits(), num.LoBits()).Equal(num))
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse("")
	require.ErrorIs(t, err, ErrParse)
	_, err = Parse("-")
	require.ErrorIs(t, err, ErrParse)
	_, err = Parse("12a")
	require.ErrorIs(t, err, ErrParse)
	// one past maximum()
	tooBig := "170141183460469231731687303715884105728"
	_, err = Parse(tooBig)
	require.ErrorIs(t, err, ErrParse)
}

func TestToScaledDecimalString(t *testing.T) {
	num, err := Parse("98765432109876543210987654321098765432")
	require.NoError(t, err)
	require.Equal(t, "98765432109876543210987654321098765432", num.ToScaledDecimalString(0))
	require.Equal(t, "987654321098765432109876543210987.65432", num.ToScaledDecimalString(5))

	num = num.Negate()
	require.Equal(t, "-98765432109876543210987654321098765432", num.ToScaledDecimalString(0))
	require.Equal(t, "-987654321098765432109876543210987.65432", num.ToScaledDecimalString(5))

	num = FromI64(123)
	require.Equal(t, "12.3", num.ToScaledDecimalString(1))
	require.Equal(t, "0.123", num.ToScaledDecimalString(3))
	require.Equal(t, "0.0123", num.ToScaledDecimalString(4))
	require.Equal(t, "0.00123", num.ToScaledDecimalString(5))

	num = FromI64(-123)
	require.Equal(t, "-123", num.ToScaledDecimalString(0))
	require.Equal(t, "-12.3", num.ToScaledDecimalString(1))
	require.Equal(t, "-0.123", num.ToScaledDecimalString(3))
	require.Equal(t, "-0.0123", num.ToScaledDecimalString(4))
	require.Equal(t, "-0.00123", num.ToScaledDecimalString(5))
}

func TestScaling(t *testing.T) {
	num := FromI64(10)
	scaled, overflow := ScaleUp(num, 0)
	require.False(t, overflow)
	require.True(t, scaled.Equal(num))

	scaled, overflow = ScaleUp(FromI64(10), 5)
	require.False(t, overflow)
	require.True(t, scaled.Equal(FromI64(1000000)))

	scaled, overflow = ScaleUp(scaled, 5)
	require.False(t, overflow)
	require.True(t, scaled.Equal(FromI64(100000000000)))

	scaled, overflow = ScaleUp(scaled, 20)
	require.False(t, overflow)
	expect, err := Parse("10000000000000000000000000000000")
	require.NoError(t, err)
	require.True(t, scaled.Equal(expect))

	_, overflow = ScaleUp(scaled, 10)
	require.True(t, overflow)

	_, overflow = ScaleUp(Maximum(), 0)
	require.False(t, overflow)

	_, overflow = ScaleUp(Maximum(), 1)
	require.True(t, overflow)

	down := ScaleDown(FromI64(10001), 0)
	require.True(t, down.Equal(FromI64(10001)))

	down = ScaleDown(FromI64(10001), 2)
	require.True(t, down.Equal(FromI64(100)))

	down = ScaleDown(FromI64(10000), 5)
	require.True(t, down.Equal(Int128{}))
}

func TestScaleDownUndoesScaleUp(t *testing.T) {
	for _, n := range []int{0, 1, 3, 7} {
		x := FromI64(987654321)
		scaled, overflow := ScaleUp(x, n)
		require.False(t, overflow)
		require.True(t, ScaleDown(scaled, n).Equal(x))
	}
}

func TestNegateMinimumDocumentedOverflow(t *testing.T) {
	min := Minimum()
	require.True(t, min.Negate().Equal(min))
}

func (v Int128) absLessThan(b Int128) bool {
	av, bv := v, b
	if av.Hi < 0 {
		av = av.Negate()
	}
	if bv.Hi < 0 {
		bv = bv.Negate()
	}
	return av.Compare(bv) < 0
}
