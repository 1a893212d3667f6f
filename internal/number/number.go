// Package number parses and formats MuON numeric literals. The accepted
// grammar is stricter than strconv's: radix prefixes are spelled b/x,
// underscores must sit between digits, and the only non-finite spellings
// are inf, -inf and sign-prefixed NaN.
package number

import (
	"math"
	"strconv"
	"strings"
)

// ParseInt parses a signed integer literal fitting in bitSize bits.
// Decimal values may carry a leading sign; b/x radix prefixes may not.
func ParseInt(s string, bitSize int) (int64, bool) {
	clean, base, ok := sanitize(s)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(clean, base, bitSize)
	return n, err == nil
}

// ParseUint parses an unsigned integer literal fitting in bitSize bits.
func ParseUint(s string, bitSize int) (uint64, bool) {
	clean, base, ok := sanitize(s)
	if !ok {
		return 0, false
	}
	if strings.HasPrefix(clean, "+") {
		clean = clean[1:]
	}
	n, err := strconv.ParseUint(clean, base, bitSize)
	return n, err == nil
}

// sanitize resolves the radix prefix and strips underscore separators.
func sanitize(s string) (string, int, bool) {
	base := 10
	switch {
	case strings.HasPrefix(s, "b"):
		s, base = s[1:], 2
	case strings.HasPrefix(s, "x"):
		s, base = s[1:], 16
	}
	if base != 10 && (strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-")) {
		return "", base, false
	}
	s, ok := stripUnderscores(s, base)
	return s, base, ok
}

// ParseFloat parses a number literal fitting in bitSize bits (32 or 64).
func ParseFloat(s string, bitSize int) (float64, bool) {
	switch s {
	case "inf", "+inf":
		return math.Inf(1), true
	case "-inf":
		return math.Inf(-1), true
	case "NaN", "+NaN":
		return math.NaN(), true
	case "-NaN":
		return math.Copysign(math.NaN(), -1), true
	}
	clean, ok := stripUnderscores(s, 10)
	if !ok || !validFloat(clean) {
		return 0, false
	}
	f, err := strconv.ParseFloat(clean, bitSize)
	return f, err == nil
}

// FormatFloat renders f using the shortest round-trippable decimal form,
// with the non-finite values spelled the way ParseFloat reads them.
func FormatFloat(f float64, bitSize int) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		if math.Signbit(f) {
			return "-NaN"
		}
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}

// stripUnderscores removes underscore digit separators, rejecting any
// underscore not surrounded by digits of the given base.
func stripUnderscores(s string, base int) (string, bool) {
	if !strings.ContainsRune(s, '_') {
		return s, true
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b.WriteByte(s[i])
			continue
		}
		if i == 0 || i+1 == len(s) || !isDigit(s[i-1], base) || !isDigit(s[i+1], base) {
			return "", false
		}
	}
	return b.String(), true
}

func isDigit(c byte, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 16:
		return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
	default:
		return c >= '0' && c <= '9'
	}
}

// validFloat checks the decimal/scientific grammar: an optional sign, a
// mantissa with at least one digit, and an optional exponent. strconv is
// looser (hex floats, "Inf", "nan"), so the check runs first.
func validFloat(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i], 10) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i], 10) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		n := 0
		for i < len(s) && isDigit(s[i], 10) {
			i++
			n++
		}
		if n == 0 {
			return false
		}
	}
	return i == len(s)
}
