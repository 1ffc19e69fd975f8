// Package calc evaluates restricted arithmetic expressions.
//
// An expression may only contain digits, the operators + - * / ( ), a
// decimal point and whitespace. Within that alphabet calc accepts the
// arithmetic subset of Python expression syntax, including ** and //, and
// follows Python numeric semantics: integers are arbitrary precision, true
// division always yields a float and floats print in their shortest
// round-trip form.
package calc

// Evaluate checks expr against the character whitelist, parses it and
// computes its value. Every failure is an *Error whose Kind is one of
// ErrDisallowedCharacters, ErrSyntax, ErrDivisionByZero, ErrOverflow or
// ErrValue.
func Evaluate(expr string) (Value, error) {
	if err := CheckCharacters(expr); err != nil {
		return Value{}, err
	}

	n, err := Parse(expr)
	if err != nil {
		return Value{}, err
	}

	v, err := n.Eval()
	if err != nil {
		return Value{}, err
	}
	if err := checkDigits(v); err != nil {
		return Value{}, err
	}
	return v, nil
}
