package calc

import (
	"math"
	"math/big"
)

func negate(v Value) Value {
	if v.kind == Int {
		return IntValue(new(big.Int).Neg(v.bigInt()))
	}
	return FloatValue(-v.f)
}

// floats converts both operands for mixed arithmetic.
func floats(a, b Value) (float64, float64, error) {
	x, err := a.Float64()
	if err != nil {
		return 0, 0, err
	}
	y, err := b.Float64()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func bothInt(a, b Value) bool {
	return a.kind == Int && b.kind == Int
}

func add(a, b Value) (Value, error) {
	if bothInt(a, b) {
		return IntValue(new(big.Int).Add(a.bigInt(), b.bigInt())), nil
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Value{}, err
	}
	return FloatValue(x + y), nil
}

func sub(a, b Value) (Value, error) {
	if bothInt(a, b) {
		return IntValue(new(big.Int).Sub(a.bigInt(), b.bigInt())), nil
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Value{}, err
	}
	return FloatValue(x - y), nil
}

func mul(a, b Value) (Value, error) {
	if bothInt(a, b) {
		if a.bigInt().BitLen()+b.bigInt().BitLen() > maxIntBits {
			return Value{}, overflow("integer result too large")
		}
		return IntValue(new(big.Int).Mul(a.bigInt(), b.bigInt())), nil
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Value{}, err
	}
	return FloatValue(x * y), nil
}

// trueDiv always produces a float.
func trueDiv(a, b Value) (Value, error) {
	if bothInt(a, b) {
		if b.bigInt().Sign() == 0 {
			return Value{}, zeroDivision("division by zero")
		}
		f, _ := new(big.Rat).SetFrac(a.bigInt(), b.bigInt()).Float64()
		if math.IsInf(f, 0) {
			return Value{}, overflow("integer division result too large for a float")
		}
		return FloatValue(f), nil
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Value{}, err
	}
	if y == 0 {
		return Value{}, zeroDivision("float division by zero")
	}
	return FloatValue(x / y), nil
}

// floorDiv rounds toward negative infinity.
func floorDiv(a, b Value) (Value, error) {
	if bothInt(a, b) {
		d := b.bigInt()
		if d.Sign() == 0 {
			return Value{}, zeroDivision("integer division or modulo by zero")
		}
		q, m := new(big.Int).QuoRem(a.bigInt(), d, new(big.Int))
		if m.Sign() != 0 && (m.Sign() < 0) != (d.Sign() < 0) {
			q.Sub(q, big.NewInt(1))
		}
		return IntValue(q), nil
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Value{}, err
	}
	if y == 0 {
		return Value{}, zeroDivision("float floor division by zero")
	}
	return FloatValue(floatFloorDiv(x, y)), nil
}

func floatFloorDiv(x, y float64) float64 {
	mod := math.Mod(x, y)
	div := (x - mod) / y
	if mod != 0 && (y < 0) != (mod < 0) {
		div -= 1
	}
	if div == 0 {
		return math.Copysign(0, x/y)
	}
	floor := math.Floor(div)
	if div-floor > 0.5 {
		floor += 1
	}
	return floor
}

func pow(a, b Value) (Value, error) {
	if bothInt(a, b) && b.bigInt().Sign() >= 0 {
		return intPow(a.bigInt(), b.bigInt())
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Value{}, err
	}
	return floatPow(x, y)
}

func intPow(base, exp *big.Int) (Value, error) {
	switch {
	case exp.Sign() == 0:
		return IntValue(big.NewInt(1)), nil
	case base.Sign() == 0:
		return IntValue(new(big.Int)), nil
	case base.CmpAbs(big.NewInt(1)) == 0:
		if base.Sign() < 0 && exp.Bit(0) == 1 {
			return IntValue(big.NewInt(-1)), nil
		}
		return IntValue(big.NewInt(1)), nil
	}

	// |base| >= 2, so the result has at least exp*(bitlen-1) bits.
	if !exp.IsInt64() || exp.Int64() > maxIntBits || exp.Int64()*int64(base.BitLen()-1) > maxIntBits {
		return Value{}, overflow("integer result too large")
	}
	return IntValue(new(big.Int).Exp(base, exp, nil)), nil
}

func floatPow(x, y float64) (Value, error) {
	switch {
	case x == 0 && y < 0:
		return Value{}, zeroDivision("0.0 cannot be raised to a negative power")
	case x < 0 && !math.IsInf(y, 0) && y != math.Trunc(y):
		return Value{}, &Error{Kind: ErrValue, Msg: "negative number cannot be raised to a fractional power"}
	}

	r := math.Pow(x, y)
	if math.IsInf(r, 0) && !math.IsInf(x, 0) && !math.IsInf(y, 0) {
		return Value{}, overflow("numerical result out of range")
	}
	return FloatValue(r), nil
}
