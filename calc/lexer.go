package calc

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokDoubleSlash
	tokDoubleStar
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokNumber:
		return "number"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokDoubleSlash:
		return "'//'"
	case tokDoubleStar:
		return "'**'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

type token struct {
	kind tokenKind
	text string
	pos  int // 1-based column of the first rune
}

// CheckCharacters reports whether every rune of expr is a digit, one of
// "+-*/().", or whitespace. The returned error lists each offending rune once.
func CheckCharacters(expr string) error {
	var bad []rune
	seen := make(map[rune]bool)
	for _, r := range expr {
		if allowed(r) || seen[r] {
			continue
		}
		seen[r] = true
		bad = append(bad, r)
	}
	if len(bad) == 0 {
		return nil
	}

	quoted := make([]string, len(bad))
	for i, r := range bad {
		quoted[i] = fmt.Sprintf("%q", r)
	}
	return &Error{
		Kind: ErrDisallowedCharacters,
		Msg:  "expression contains disallowed characters: " + strings.Join(quoted, ", "),
	}
}

func allowed(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case strings.ContainsRune("+-*/().", r):
		return true
	default:
		return unicode.IsSpace(r)
	}
}

// tokenize splits a whitelisted expression into tokens. Number literals are
// validated here so the parser only deals with well-formed ones.
//
// Tokens are separated by spaces, tabs and form feeds. A line break is only
// allowed inside parentheses or before the first and after the last token;
// any other whitespace is rejected.
func tokenize(expr string) ([]token, error) {
	runes := []rune(expr)
	var tokens []token

	last := len(runes) - 1
	for last >= 0 && isBlank(runes[last]) {
		last--
	}

	depth := 0
	for i := 0; i < len(runes); {
		r := runes[i]
		pos := i + 1

		switch {
		case r == ' ' || r == '\t' || r == '\f':
			i++
			continue
		case r == '\n' || r == '\r':
			if depth > 0 || len(tokens) == 0 || i > last {
				i++
				continue
			}
			return nil, syntaxError(pos, "invalid syntax")
		case unicode.IsSpace(r):
			return nil, syntaxError(pos, "invalid non-printable character U+%04X", r)
		case isDigit(r) || r == '.':
			end, err := scanNumber(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokNumber, text: string(runes[i:end]), pos: pos})
			i = end
			continue
		}

		var kind tokenKind
		width := 1
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch r {
		case '+':
			kind = tokPlus
		case '-':
			kind = tokMinus
		case '*':
			kind = tokStar
			if next == '*' {
				kind, width = tokDoubleStar, 2
			}
		case '/':
			kind = tokSlash
			if next == '/' {
				kind, width = tokDoubleSlash, 2
			}
		case '(':
			kind = tokLParen
			depth++
		case ')':
			kind = tokRParen
			if depth > 0 {
				depth--
			}
		default:
			return nil, syntaxError(pos, "invalid character %q", r)
		}

		tokens = append(tokens, token{kind: kind, text: string(runes[i : i+width]), pos: pos})
		i += width
	}

	return append(tokens, token{kind: tokEOF, pos: len(runes) + 1}), nil
}

// scanNumber returns the end index of the literal starting at start:
// DIGITS ['.' [DIGITS]] or '.' DIGITS.
func scanNumber(runes []rune, start int) (int, error) {
	i := start
	for i < len(runes) && isDigit(runes[i]) {
		i++
	}
	intDigits := i - start

	isFloat := false
	if i < len(runes) && runes[i] == '.' {
		isFloat = true
		i++
		for i < len(runes) && isDigit(runes[i]) {
			i++
		}
	}

	if intDigits == 0 && i-start == 1 {
		return 0, syntaxError(start+1, "invalid syntax")
	}
	if i < len(runes) && runes[i] == '.' {
		return 0, syntaxError(i+1, "invalid decimal literal")
	}

	if !isFloat && intDigits > 1 && runes[start] == '0' {
		for _, r := range runes[start:i] {
			if r != '0' {
				return 0, syntaxError(start+1, "leading zeros in decimal integer literals are not permitted")
			}
		}
	}

	return i, nil
}

func isBlank(r rune) bool {
	switch r {
	case ' ', '\t', '\f', '\n', '\r':
		return true
	}
	return false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
