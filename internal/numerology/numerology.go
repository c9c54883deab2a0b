// Package numerology derives life path and expression numbers from a birth
// date and a display name via digit-sum reduction.
package numerology

import (
	"strconv"
	"strings"
	"time"
)

// FallbackLifePath is returned when a birth date cannot be parsed. Date
// parsing is intentionally lenient: a malformed date yields a fixed value
// instead of an error so a bad questionnaire field never blocks a book run.
const FallbackLifePath = 7

// isMaster reports whether n is a master number, which is never reduced
// further even though it is multi-digit.
func isMaster(n int) bool {
	return n == 11 || n == 22 || n == 33
}

func digitSum(n int) int {
	if n < 0 {
		n = -n
	}
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}

// reduce collapses a total to a single digit, preserving master numbers.
// Values already at or below 9 (including 0) pass through unchanged.
func reduce(total int) int {
	for total > 9 && !isMaster(total) {
		total = digitSum(total)
	}
	return total
}

// LifePath computes the life path number for a birth date. The year, month,
// and day are digit-summed independently, the three sums are added, and the
// grand total is reduced. Accepted formats are hyphen-separated numeric
// ("1989-12-13") and long form ("December 13, 1989"). Unparseable input
// returns FallbackLifePath.
func LifePath(birthDate string) int {
	year, month, day, ok := parseDate(birthDate)
	if !ok {
		return FallbackLifePath
	}
	return reduce(digitSum(year) + digitSum(month) + digitSum(day))
}

// ExpressionNumber computes the expression number for a name using the
// Pythagorean letter table (A,J,S=1; B,K,T=2; ... I,R=9). Spaces,
// punctuation, and digits are ignored. A name with no letters stays at 0.
func ExpressionNumber(name string) int {
	total := 0
	for _, r := range strings.ToLower(name) {
		if r < 'a' || r > 'z' {
			continue
		}
		// The Pythagorean table cycles 1..9 across the alphabet.
		total += int(r-'a')%9 + 1
	}
	return reduce(total)
}

func parseDate(s string) (year, month, day int, ok bool) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "-") {
		parts := strings.Split(s, "-")
		if len(parts) != 3 {
			return 0, 0, 0, false
		}
		y, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		m, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		d, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err1 != nil || err2 != nil || err3 != nil {
			return 0, 0, 0, false
		}
		return y, m, d, true
	}

	t, err := time.Parse("January 2, 2006", s)
	if err != nil {
		return 0, 0, 0, false
	}
	return t.Year(), int(t.Month()), t.Day(), true
}
