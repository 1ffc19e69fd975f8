package calc

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

const (
	// MaxIntDigits bounds the decimal length of an integer result.
	MaxIntDigits = 4300

	// maxIntBits bounds intermediate integers so a short expression such
	// as 9**9**9 cannot pin the CPU. Far above what MaxIntDigits allows in
	// a final result.
	maxIntBits = 1 << 20
)

// Kind distinguishes the two numeric types an expression can produce.
type Kind int

const (
	Int Kind = iota
	Float
)

func (k Kind) String() string {
	if k == Int {
		return "int"
	}
	return "float"
}

// Value is the result of evaluating an expression: an arbitrary precision
// integer or a float64. The zero value is the integer 0.
type Value struct {
	kind Kind
	i    *big.Int
	f    float64
}

// IntValue wraps i. The caller must not modify i afterwards.
func IntValue(i *big.Int) Value {
	return Value{kind: Int, i: i}
}

// FloatValue wraps f.
func FloatValue(f float64) Value {
	return Value{kind: Float, f: f}
}

func (v Value) Kind() Kind {
	return v.kind
}

// BigInt returns a copy of the integer value. It returns nil for floats.
func (v Value) BigInt() *big.Int {
	if v.kind != Int {
		return nil
	}
	if v.i == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v.i)
}

// Float64 converts v to a float64, failing when an integer is too large to
// be represented.
func (v Value) Float64() (float64, error) {
	if v.kind == Float {
		return v.f, nil
	}
	if v.i == nil {
		return 0, nil
	}
	f, _ := new(big.Float).SetInt(v.i).Float64()
	if math.IsInf(f, 0) {
		return 0, overflow("int too large to convert to float")
	}
	return f, nil
}

func (v Value) bigInt() *big.Int {
	if v.i == nil {
		return new(big.Int)
	}
	return v.i
}

// String renders integers in decimal and floats in their shortest
// round-trip form: fixed notation with a trailing ".0" for integral values
// when the decimal exponent lies in [-4, 16), scientific notation otherwise.
func (v Value) String() string {
	if v.kind == Int {
		return v.bigInt().String()
	}
	return formatFloat(v.f)
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err == nil && (exp < -4 || exp >= 16) {
		return sci
	}

	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(fixed, '.') {
		fixed += ".0"
	}
	return fixed
}

// checkDigits enforces MaxIntDigits on a final integer result.
func checkDigits(v Value) error {
	if v.kind != Int {
		return nil
	}
	i := v.bigInt()
	// 2**14286 > 10**4300, so only numbers near the limit need the exact count.
	bits := i.BitLen()
	if bits <= 14280 {
		return nil
	}
	if bits > 14286 || len(new(big.Int).Abs(i).Text(10)) > MaxIntDigits {
		return overflow("exceeds the limit (" + strconv.Itoa(MaxIntDigits) + " digits) for integer string conversion")
	}
	return nil
}
