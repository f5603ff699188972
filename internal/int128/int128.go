// Package int128 implements a signed 128-bit integer used for bit-exact
// monetary arithmetic: parsing and printing in base 10, decimal-point
// formatting at an arbitrary scale, truncating division with remainder,
// and power-of-ten rescaling with explicit overflow signalling.
package int128

import (
	"errors"
	"math"
	"math/big"
	"strings"
)

// ErrParse is returned by Parse when the input is empty, contains a
// non-digit character, or names a value outside the representable range.
var ErrParse = errors.New("int128: invalid decimal string")

// ErrDivisionByZero is returned by Divide when the divisor is zero.
var ErrDivisionByZero = errors.New("int128: division by zero")

// Int128 is a 128-bit two's-complement signed integer, held as a signed
// high limb and an unsigned low limb. The pair represents exactly one
// value in [-2^127, 2^127-1]; negative values have the sign bit of Hi set.
type Int128 struct {
	Hi int64
	Lo uint64
}

var (
	modulus = new(big.Int).Lsh(big.NewInt(1), 128)
	minBig  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxBig  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
)

// FromI64 sign-extends a 64-bit integer into 128 bits.
func FromI64(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Hi: hi, Lo: uint64(v)}
}

// FromPair builds a value directly from its raw two's-complement limbs.
func FromPair(hi int64, lo uint64) Int128 {
	return Int128{Hi: hi, Lo: lo}
}

// Maximum returns 2^127 - 1, the largest representable value.
func Maximum() Int128 {
	return Int128{Hi: math.MaxInt64, Lo: math.MaxUint64}
}

// Minimum returns -2^127, the smallest representable value.
func Minimum() Int128 {
	return Int128{Hi: math.MinInt64, Lo: 0}
}

// Zero is the additive identity.
var Zero = Int128{}

// Parse accepts an optional leading '-' followed by one or more decimal
// digits. It fails with ErrParse on empty input, a non-digit character,
// or a magnitude outside [-2^127, 2^127-1].
func Parse(s string) (Int128, error) {
	if s == "" {
		return Int128{}, ErrParse
	}
	rest := s
	if rest[0] == '-' {
		rest = rest[1:]
	}
	if rest == "" {
		return Int128{}, ErrParse
	}
	for _, c := range rest {
		if c < '0' || c > '9' {
			return Int128{}, ErrParse
		}
	}
	mag, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int128{}, ErrParse
	}
	if mag.Cmp(minBig) < 0 || mag.Cmp(maxBig) > 0 {
		return Int128{}, ErrParse
	}
	return fromBig(mag), nil
}

// ToI64 truncates the value to its low 64 bits, interpreted as signed.
func (v Int128) ToI64() int64 {
	return int64(v.Lo)
}

// HiBits returns the raw high limb.
func (v Int128) HiBits() int64 {
	return v.Hi
}

// LoBits returns the raw low limb.
func (v Int128) LoBits() uint64 {
	return v.Lo
}

// Negate returns the two's-complement negation. Negating Minimum() is
// documented overflow: it returns Minimum() unchanged.
func (v Int128) Negate() Int128 {
	return fromBig(new(big.Int).Neg(toBig(v)))
}

// Add returns v+other, wrapping on 128-bit overflow.
func (v Int128) Add(other Int128) Int128 {
	return fromBig(new(big.Int).Add(toBig(v), toBig(other)))
}

// Sub returns v-other, wrapping on 128-bit overflow.
func (v Int128) Sub(other Int128) Int128 {
	return fromBig(new(big.Int).Sub(toBig(v), toBig(other)))
}

// Or returns the bitwise OR of the two values' 128-bit patterns.
func (v Int128) Or(other Int128) Int128 {
	return Int128{Hi: v.Hi | other.Hi, Lo: v.Lo | other.Lo}
}

// And returns the bitwise AND of the two values' 128-bit patterns.
func (v Int128) And(other Int128) Int128 {
	return Int128{Hi: v.Hi & other.Hi, Lo: v.Lo & other.Lo}
}

// Compare returns -1, 0, or 1 as v is signed-less-than, equal to, or
// greater than other.
func (v Int128) Compare(other Int128) int {
	if v.Hi != other.Hi {
		if v.Hi < other.Hi {
			return -1
		}
		return 1
	}
	if v.Lo != other.Lo {
		if v.Lo < other.Lo {
			return -1
		}
		return 1
	}
	return 0
}

// Equal reports whether v and other represent the same value.
func (v Int128) Equal(other Int128) bool {
	return v.Hi == other.Hi && v.Lo == other.Lo
}

// IsZero reports whether v is the zero value.
func (v Int128) IsZero() bool {
	return v.Hi == 0 && v.Lo == 0
}

// ToHexString renders the raw 128-bit pattern as "0x" followed by 32
// lowercase hex digits.
func (v Int128) ToHexString() string {
	return "0x" + hexNibbles(uint64(v.Hi)) + hexNibbles(v.Lo)
}

const hexDigits = "0123456789abcdef"

func hexNibbles(x uint64) string {
	var buf [16]byte
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[x&0xf]
		x >>= 4
	}
	return string(buf[:])
}

// ToDecimalString renders v in signed base 10; zero prints as "0".
func (v Int128) ToDecimalString() string {
	return toBig(v).String()
}

// ToScaledDecimalString inserts a decimal point scale digits from the
// right of the base-10 representation, zero-padding on the left as
// needed so the fractional part always has exactly scale digits. The
// sign, if any, precedes any "0." prefix. scale=0 is the same as
// ToDecimalString.
func (v Int128) ToScaledDecimalString(scale int) string {
	if scale <= 0 {
		return v.ToDecimalString()
	}
	b := toBig(v)
	sign := ""
	if b.Sign() < 0 {
		sign = "-"
		b = new(big.Int).Neg(b)
	}
	digits := b.String()
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}
	intPart := digits[:len(digits)-scale]
	fracPart := digits[len(digits)-scale:]
	return sign + intPart + "." + fracPart
}

// Divide performs signed division truncating toward zero. The remainder
// takes the sign of the dividend. Divide fails with ErrDivisionByZero
// when divisor is zero. Dividing Minimum() is documented undefined,
// mirroring the source algorithm's reliance on an absolute value that
// itself overflows for the minimum value.
func (v Int128) Divide(divisor Int128) (quotient Int128, remainder Int128, err error) {
	if divisor.IsZero() {
		return Int128{}, Int128{}, ErrDivisionByZero
	}
	q, r := new(big.Int), new(big.Int)
	q.QuoRem(toBig(v), toBig(divisor), r)
	return fromBig(q), fromBig(r), nil
}

// ScaleUp returns x * 10^n. If the magnitude would exceed the
// representable range, overflow is set true and the returned value is
// unspecified (x is returned unchanged). n=0 is a no-op and never
// overflows, even at Maximum().
func ScaleUp(x Int128, n int) (result Int128, overflow bool) {
	if n <= 0 {
		return x, false
	}
	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	scaled := new(big.Int).Mul(toBig(x), factor)
	if scaled.Cmp(minBig) < 0 || scaled.Cmp(maxBig) > 0 {
		return x, true
	}
	return fromBig(scaled), false
}

// ScaleDown returns x / 10^n, truncating toward zero. It never overflows.
func ScaleDown(x Int128, n int) Int128 {
	if n <= 0 {
		return x
	}
	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	q := new(big.Int).Quo(toBig(x), factor)
	return fromBig(q)
}

// toBig reinterprets the raw 128-bit two's-complement pattern as a
// signed math/big value.
func toBig(v Int128) *big.Int {
	mag := new(big.Int).Lsh(new(big.Int).SetUint64(uint64(v.Hi)), 64)
	mag.Or(mag, new(big.Int).SetUint64(v.Lo))
	if v.Hi < 0 {
		mag.Sub(mag, modulus)
	}
	return mag
}

// fromBig reduces an arbitrary-precision signed value modulo 2^128 and
// repacks it into the two's-complement limb pair. Callers that have
// already range-checked their input get an exact round trip; callers
// that have not (Add/Sub/Negate) get documented wraparound.
func fromBig(b *big.Int) Int128 {
	m := new(big.Int).Mod(b, modulus)
	hi := new(big.Int).Rsh(m, 64)
	lo := new(big.Int).And(m, new(big.Int).SetUint64(math.MaxUint64))
	return Int128{Hi: int64(hi.Uint64()), Lo: lo.Uint64()}
}
