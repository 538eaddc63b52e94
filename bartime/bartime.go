// Package bartime implements exact musical time.
//
// A *Time is a rational number in lowest terms with a strictly positive
// denominator. The value 1 is the length of one quarter note. Values are
// interned: for any two *Time a and b, a == b exactly when they denote the
// same rational number, so pointer comparison is value comparison.
//
// Values are created through Of, MustOf or Int and are never mutated. The nil
// *Time is not a valid value.
//
// Overflow policy: numerators and denominators are int64. Comparisons widen
// to 128 bits and are exact for every representable value. Arithmetic
// reduces operands before multiplying; when the exact reduced result does not
// fit in int64 the checked functions (Sum, Difference, Product, Quotient)
// return an OVERFLOW error and the method forms (Add, Sub, Mul) panic with
// that same error.
package bartime

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	qerrors "github.com/jsphweid/quint/errors"
	"github.com/jsphweid/quint/util"
)

// Time is an immutable, interned rational number.
type Time struct {
	num int64
	den int64
}

// Of returns the canonical Time equal to num/den.
func Of(num, den int64) (*Time, error) {
	if den == 0 {
		return nil, qerrors.WithMetadata(qerrors.CodeInvalidArgument,
			"a bar time cannot have denominator zero",
			map[string]string{"numerator": fmt.Sprint(num)})
	}
	if den < 0 {
		if num == math.MinInt64 || den == math.MinInt64 {
			return nil, overflow("normalize sign", num, den)
		}
		num, den = -num, -den
	}
	if num == 0 {
		return pool.get(0, 1), nil
	}
	g := util.GCD(num, den)
	return pool.get(num/g, den/g), nil
}

// MustOf is like Of but panics if the denominator is zero. It is meant for
// literals.
func MustOf(num, den int64) *Time {
	t, err := Of(num, den)
	if err != nil {
		panic(err)
	}
	return t
}

// Int returns the Time i/1.
func Int(i int64) *Time {
	return MustOf(i, 1)
}

func overflow(op string, num, den int64) error {
	return qerrors.WithMetadata(qerrors.CodeOverflow,
		fmt.Sprintf("bar time %s overflows int64", op),
		map[string]string{"numerator": fmt.Sprint(num), "denominator": fmt.Sprint(den)})
}

// Num returns the numerator of the reduced fraction.
func (t *Time) Num() int64 {
	return t.num
}

// Den returns the denominator of the reduced fraction. It is always positive.
func (t *Time) Den() int64 {
	return t.den
}

// Duration makes every Time Measurable.
func (t *Time) Duration() *Time {
	return t
}

func (t *Time) String() string {
	return fmt.Sprintf("%d/%d", t.num, t.den)
}

// IsZero reports whether t is 0/1.
func (t *Time) IsZero() bool {
	return t.num == 0
}

// Sign returns -1, 0 or +1.
func (t *Time) Sign() int {
	switch {
	case t.num < 0:
		return -1
	case t.num > 0:
		return 1
	default:
		return 0
	}
}

// Compare returns -1, 0 or +1 depending on whether t is less than, equal to
// or greater than o.
func (t *Time) Compare(o *Time) int {
	if t == o {
		return 0
	}
	return compareProducts(t.num, o.den, o.num, t.den)
}

func (t *Time) Less(o *Time) bool           { return t.Compare(o) < 0 }
func (t *Time) LessOrEqual(o *Time) bool    { return t.Compare(o) <= 0 }
func (t *Time) Greater(o *Time) bool        { return t.Compare(o) > 0 }
func (t *Time) GreaterOrEqual(o *Time) bool { return t.Compare(o) >= 0 }

// Add returns t+o. It panics with an OVERFLOW error if the sum is not
// representable.
func (t *Time) Add(o *Time) *Time {
	return must(Sum(t, o))
}

// Sub returns t-o. It panics with an OVERFLOW error if the difference is not
// representable.
func (t *Time) Sub(o *Time) *Time {
	return must(Difference(t, o))
}

// Mul returns t*o. It panics with an OVERFLOW error if the product is not
// representable.
func (t *Time) Mul(o *Time) *Time {
	return must(Product(t, o))
}

// Div returns t/o, or a DIVISION_BY_ZERO error when o is zero. It panics with
// an OVERFLOW error if the quotient is not representable.
func (t *Time) Div(o *Time) (*Time, error) {
	q, err := Quotient(t, o)
	if errors.Is(err, qerrors.ErrOverflow) {
		panic(err)
	}
	return q, err
}

func must(t *Time, err error) *Time {
	if err != nil {
		panic(err)
	}
	return t
}

// Sum returns a+b computed over the least common multiple of the
// denominators.
func Sum(a, b *Time) (*Time, error) {
	return addScaled(a, b, 1)
}

// Difference returns a-b computed over the least common multiple of the
// denominators.
func Difference(a, b *Time) (*Time, error) {
	return addScaled(a, b, -1)
}

func addScaled(a, b *Time, sign int64) (*Time, error) {
	g := util.GCD(a.den, b.den)
	lcm, ok := mul64(a.den/g, b.den)
	if !ok {
		return nil, overflow("lcm", a.den, b.den)
	}
	n1, ok1 := mul64(a.num, lcm/a.den)
	n2, ok2 := mul64(b.num, lcm/b.den)
	if !ok1 || !ok2 {
		return nil, overflow("expansion", a.num, b.num)
	}
	if sign < 0 {
		if n2 == math.MinInt64 {
			return nil, overflow("negation", n2, lcm)
		}
		n2 = -n2
	}
	n, ok := add64(n1, n2)
	if !ok {
		return nil, overflow("sum", n1, n2)
	}
	return Of(n, lcm)
}

// Product returns a*b. Operands are cross reduced first so that the product
// only fails when the reduced result itself does not fit.
func Product(a, b *Time) (*Time, error) {
	g1 := util.GCD(a.num, b.den)
	g2 := util.GCD(b.num, a.den)
	num, ok1 := mul64(a.num/g1, b.num/g2)
	den, ok2 := mul64(a.den/g2, b.den/g1)
	if !ok1 || !ok2 {
		return nil, overflow("product", a.num, b.num)
	}
	return Of(num, den)
}

// Quotient returns a/b. It fails with DIVISION_BY_ZERO when b is zero.
func Quotient(a, b *Time) (*Time, error) {
	if b.IsZero() {
		return nil, qerrors.WithMetadata(qerrors.CodeDivisionByZero,
			"cannot divide a bar time by zero",
			map[string]string{"dividend": a.String()})
	}
	g1 := util.GCD(a.num, b.num)
	g2 := util.GCD(a.den, b.den)
	num, ok1 := mul64(a.num/g1, b.den/g2)
	den, ok2 := mul64(a.den/g2, b.num/g1)
	if !ok1 || !ok2 {
		return nil, overflow("quotient", a.num, b.num)
	}
	return Of(num, den)
}

func mul64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	if c/b != a {
		return 0, false
	}
	return c, true
}

func add64(a, b int64) (int64, bool) {
	c := a + b
	if (a > 0 && b > 0 && c < 0) || (a < 0 && b < 0 && c >= 0) {
		return 0, false
	}
	return c, true
}

// compareProducts compares a*b with c*d for b, d > 0 without overflowing.
func compareProducts(a, b, c, d int64) int {
	sx, sy := sign64(a), sign64(c)
	if sx != sy {
		if sx < sy {
			return -1
		}
		return 1
	}
	if sx == 0 {
		return 0
	}
	xhi, xlo := bits.Mul64(abs64(a), uint64(b))
	yhi, ylo := bits.Mul64(abs64(c), uint64(d))
	mag := 0
	switch {
	case xhi < yhi || (xhi == yhi && xlo < ylo):
		mag = -1
	case xhi > yhi || (xhi == yhi && xlo > ylo):
		mag = 1
	}
	return mag * sx
}

func sign64(a int64) int {
	switch {
	case a < 0:
		return -1
	case a > 0:
		return 1
	default:
		return 0
	}
}

// abs64 returns |a| as uint64; |MinInt64| is representable there.
func abs64(a int64) uint64 {
	if a < 0 {
		return uint64(-(a + 1)) + 1
	}
	return uint64(a)
}
