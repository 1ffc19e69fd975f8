package calc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want string
		kind Kind
	}{
		{"2+3", "5", Int},
		{"10*5", "50", Int},
		{"100/4", "25.0", Float},
		{"7/2", "3.5", Float},
		{"1/3", "0.3333333333333333", Float},
		{"0.1+0.2", "0.30000000000000004", Float},
		{"2*(3+4)", "14", Int},
		{"2+3*4", "14", Int},
		{"(2+3)*4", "20", Int},
		{"10-2-3", "5", Int},
		{"100/10/5", "2.0", Float},
		{"3-5", "-2", Int},
		{"  2 +\t3  ", "5", Int},
		{"--2", "2", Int},
		{"+-+2", "-2", Int},
		{"-2**2", "-4", Int},
		{"(-2)**2", "4", Int},
		{"2**-1", "0.5", Float},
		{"2**3**2", "512", Int},
		{"2**100", "1267650600228229401496703205376", Int},
		{"7//2", "3", Int},
		{"-7//2", "-4", Int},
		{"7//-2", "-4", Int},
		{"7.5//2", "3.0", Float},
		{"-7.5//2", "-4.0", Float},
		{".5+.5", "1.0", Float},
		{"5.", "5.0", Float},
		{"00", "0", Int},
		{"-0.0", "-0.0", Float},
		{"1/3*3", "1.0", Float},
		{"10.0**15", "1000000000000000.0", Float},
		{"10.0**16", "1e+16", Float},
		{"1/100000", "1e-05", Float},
		{"1/10000", "0.0001", Float},
		{"(-8.0)**2.0", "64.0", Float},
		{"2*3.0", "6.0", Float},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			v, err := Evaluate(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
			assert.Equal(t, tt.kind, v.Kind())
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		kind    error
		message string
	}{
		{"letters", "2+abc", ErrDisallowedCharacters, "'a', 'b', 'c'"},
		{"call", "__import__('os')", ErrDisallowedCharacters, "'_'"},
		{"caret", "2^3", ErrDisallowedCharacters, "'^'"},
		{"exponent literal", "1e5", ErrDisallowedCharacters, "'e'"},
		{"percent", "7%2", ErrDisallowedCharacters, "'%'"},
		{"double operator", "2+*3", ErrSyntax, "unexpected '*'"},
		{"unclosed", "(1+2", ErrSyntax, "'(' was never closed"},
		{"unmatched", "1+2)", ErrSyntax, "unmatched ')'"},
		{"empty parens", "()", ErrSyntax, "empty parentheses"},
		{"blank", "   ", ErrSyntax, "empty expression"},
		{"leading zeros", "007", ErrSyntax, "leading zeros"},
		{"two points", "1.2.3", ErrSyntax, "invalid decimal literal"},
		{"lone point", ".", ErrSyntax, "invalid syntax"},
		{"juxtaposed", "2 3", ErrSyntax, "invalid syntax"},
		{"triple star", "2***3", ErrSyntax, "unexpected '*'"},
		{"trailing operator", "2+", ErrSyntax, "unexpected end of expression"},
		{"division by zero", "1/0", ErrDivisionByZero, "division by zero"},
		{"float division by zero", "1.0/0", ErrDivisionByZero, "float division by zero"},
		{"floor division by zero", "1//0", ErrDivisionByZero, "integer division or modulo by zero"},
		{"float floor division by zero", "1.5//0.0", ErrDivisionByZero, "float floor division by zero"},
		{"zero to negative power", "0**-1", ErrDivisionByZero, "negative power"},
		{"float overflow", "10.0**400", ErrOverflow, "out of range"},
		{"int to float", "10**400+0.5", ErrOverflow, "int too large to convert to float"},
		{"int true division", "10**400/1", ErrOverflow, "too large for a float"},
		{"digit limit", "10**5000", ErrOverflow, "4300 digits"},
		{"huge exponent", "9**9**9", ErrOverflow, "too large"},
		{"fractional power", "(-8)**0.5", ErrValue, "fractional power"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.expr)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Contains(t, err.Error(), tt.message)

			var calcErr *Error
			require.ErrorAs(t, err, &calcErr)
		})
	}
}

func TestEvaluate_ParenDepth(t *testing.T) {
	nested := func(depth int) string {
		return strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth)
	}

	v, err := Evaluate(nested(MaxParenDepth))
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())

	_, err = Evaluate(nested(MaxParenDepth + 1))
	assert.ErrorIs(t, err, ErrSyntax)
	assert.Contains(t, err.Error(), "too many nested parentheses")
}

func TestEvaluate_DigitLimitBoundary(t *testing.T) {
	// 10**4299 has exactly 4300 digits.
	v, err := Evaluate("10**4299")
	require.NoError(t, err)
	assert.Len(t, v.String(), MaxIntDigits)

	_, err = Evaluate("10**4300")
	assert.ErrorIs(t, err, ErrOverflow)

	// Intermediate results may exceed the limit as long as the final one does not.
	v, err = Evaluate("10**5000//10**4990")
	require.NoError(t, err)
	assert.Equal(t, "10000000000", v.String())
}

func TestCheckCharacters(t *testing.T) {
	assert.NoError(t, CheckCharacters("0123456789 +-*/().\t\n"))
	assert.NoError(t, CheckCharacters(""))

	err := CheckCharacters("1 + x + x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDisallowedCharacters)
	assert.Equal(t, "expression contains disallowed characters: 'x'", err.Error())

	// Non-ASCII digits are not digits here.
	assert.ErrorIs(t, CheckCharacters("١+1"), ErrDisallowedCharacters)
}

func TestParse_ErrorColumn(t *testing.T) {
	_, err := Parse("12 + * 4")
	require.Error(t, err)

	var calcErr *Error
	require.ErrorAs(t, err, &calcErr)
	assert.Equal(t, 6, calcErr.Pos)
	assert.Equal(t, "unexpected '*' (column 6)", err.Error())
}

func TestParse_DoesNotEvaluate(t *testing.T) {
	n, err := Parse("1/0")
	require.NoError(t, err)

	_, err = n.Eval()
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestEvaluate_LongChains(t *testing.T) {
	const terms = 1_000_000

	v, err := Evaluate(strings.Repeat("1+", terms) + "1")
	require.NoError(t, err)
	assert.Equal(t, "1000001", v.String())

	v, err = Evaluate(strings.Repeat("1*", terms) + "1")
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())

	v, err = Evaluate("(" + strings.Repeat("2-", terms) + "2)//1")
	require.NoError(t, err)
	assert.Equal(t, "-1999998", v.String())
}

func TestEvaluate_NestingLimit(t *testing.T) {
	v, err := Evaluate(strings.Repeat("-", 1000) + "1")
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())

	tests := map[string]string{
		"signs":  strings.Repeat("-", 1_000_000) + "1",
		"powers": strings.Repeat("1**", 1_000_000) + "1",
		"mixed":  strings.Repeat("2**-", 600) + strings.Repeat("+", 600) + "1",
	}
	for name, expr := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Evaluate(expr)
			assert.ErrorIs(t, err, ErrSyntax)
			assert.Contains(t, err.Error(), "too many nested operators")
		})
	}
}

func TestEvaluate_Whitespace(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"2 +\t3", "5"},
		{"2\f+3", "5"},
		{"(2+\n3)", "5"},
		{"(2\r\n*\n3)", "6"},
		{"2+3\n", "5"},
		{"\n2+3", "5"},
	}
	for _, tt := range tests {
		v, err := Evaluate(tt.expr)
		require.NoError(t, err, "%q", tt.expr)
		assert.Equal(t, tt.want, v.String(), "%q", tt.expr)
	}

	errs := []struct {
		expr    string
		message string
	}{
		{"2+\n3", "invalid syntax (column 3)"},
		{"2\n+3", "invalid syntax (column 2)"},
		{"(1)\n+2", "invalid syntax (column 4)"},
		{"2\u00a0+3", "invalid non-printable character U+00A0 (column 2)"},
		{"2\v+3", "invalid non-printable character U+000B (column 2)"},
	}
	for _, tt := range errs {
		_, err := Evaluate(tt.expr)
		assert.ErrorIs(t, err, ErrSyntax, "%q", tt.expr)
		assert.EqualError(t, err, tt.message)
	}
}
