// Package sequence allocates per-year sequential case numbers in the
// legacy format PR-NNN/YYYY.
package sequence

import (
	"fmt"
	"regexp"
	"strconv"
)

var nomorPattern = regexp.MustCompile(`^PR-(\d+)/(\d{4})$`)

// Next returns the next free nomor proses for the given year, scanning the
// existing numbers for the highest suffix in that year. Entries that do not
// match the pattern, or belong to another year, are ignored. An empty input
// yields PR-001/<year>.
//
// Next is pure over its snapshot. The caller must serialize the
// read-allocate-commit sequence; two callers given the same snapshot get
// the same number.
func Next(existing []string, year int) string {
	maxNum := 0
	for _, nomor := range existing {
		m := nomorPattern.FindStringSubmatch(nomor)
		if m == nil {
			continue
		}
		y, err := strconv.Atoi(m[2])
		if err != nil || y != year {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > maxNum {
			maxNum = n
		}
	}
	return Format(maxNum+1, year)
}

// Format renders a nomor proses. Padding is cosmetic; numbers above 999
// simply widen.
func Format(num, year int) string {
	return fmt.Sprintf("PR-%03d/%d", num, year)
}

// Valid reports whether nomor matches the PR-NNN/YYYY format.
func Valid(nomor string) bool {
	return nomorPattern.MatchString(nomor)
}

// Year extracts the year component of a nomor proses. It returns 0 for a
// malformed nomor.
func Year(nomor string) int {
	m := nomorPattern.FindStringSubmatch(nomor)
	if m == nil {
		return 0
	}
	y, _ := strconv.Atoi(m[2])
	return y
}
