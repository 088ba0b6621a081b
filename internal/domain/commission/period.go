package commission

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/lendingdesk/backend/internal/domain/shared"
)

var periodPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{4})$`)

// Period is a billing month token in MM/YYYY form
type Period string

// ParsePeriod validates a MM/YYYY token
func ParsePeriod(s string) (Period, error) {
	if !periodPattern.MatchString(s) {
		return "", shared.NewValidationError(fmt.Sprintf("Invalid period %q, expected MM/YYYY", s))
	}
	return Period(s), nil
}

// IsValidPeriod reports whether s is a well-formed MM/YYYY token
func IsValidPeriod(s string) bool {
	return periodPattern.MatchString(s)
}

// PeriodOf returns the period containing t
func PeriodOf(t time.Time) Period {
	return Period(t.Format("01/2006"))
}

// String returns the raw token
func (p Period) String() string {
	return string(p)
}

// Bounds returns the first instant of the month and the first instant of the next month
func (p Period) Bounds(loc *time.Location) (time.Time, time.Time, error) {
	m := periodPattern.FindStringSubmatch(string(p))
	if m == nil {
		return time.Time{}, time.Time{}, shared.NewValidationError(fmt.Sprintf("Invalid period %q, expected MM/YYYY", p))
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0), nil
}
