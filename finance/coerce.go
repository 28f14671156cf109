package finance

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Numeric literals arrive in both ES ("1.234.567,89") and EN
// ("1,234,567.89") grouping, frequently with currency or percent symbols
// attached. Coercion is deliberately liberal: a single malformed field must
// degrade to 0 instead of failing the whole computation.

var (
	esGroupedRe = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})*(,\d+)?$`)
	enGroupedRe = regexp.MustCompile(`^-?\d{1,3}(,\d{3})*(\.\d+)?$`)
	fragmentRe  = regexp.MustCompile(`-?\d[\d.,]*`)
	nonDigitRe  = regexp.MustCompile(`\D`)
)

// ToFloat converts an arbitrary scalar to a finite float64. It never fails:
// absent, non-numeric and non-finite inputs all coerce to 0.
func ToFloat(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		return coerceString(n)
	default:
		// Remaining numeric widths and anything else stringify cleanly
		// enough for the lexical path.
		return coerceString(fmt.Sprint(v))
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func coerceString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.TrimSpace(s)

	if f, ok := parseSeparated(s); ok {
		return f
	}

	// Rescue the first signed numeric run embedded in surrounding text.
	frag := fragmentRe.FindString(s)
	if frag == "" {
		return 0
	}
	frag = strings.TrimRight(frag, ".,")
	if f, ok := parseSeparated(frag); ok {
		return f
	}
	return 0
}

// parseSeparated resolves the thousands/decimal separator ambiguity and
// parses the result. Resolution order: exact ES grouping, exact EN grouping,
// later-of-both separators as decimal, lone comma as decimal.
func parseSeparated(s string) (float64, bool) {
	switch {
	case esGroupedRe.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case enGroupedRe.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Contains(s, ".") && strings.Contains(s, ","):
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	default:
		s = strings.ReplaceAll(s, ",", ".")
	}

	// More than one dot left: the last one is the decimal point, the rest of
	// the integer portion keeps digits only (and a leading sign).
	if strings.Count(s, ".") > 1 {
		i := strings.LastIndex(s, ".")
		head, frac := s[:i], s[i+1:]
		sign := ""
		if strings.HasPrefix(head, "-") {
			sign = "-"
			head = head[1:]
		}
		head = nonDigitRe.ReplaceAllString(head, "")
		if head == "" {
			head = "0"
		}
		s = sign + head + "." + frac
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
