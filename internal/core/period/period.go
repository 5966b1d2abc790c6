// Package period resolves (year, kind, number) tuples into concrete
// calendar windows used by the balance aggregator.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ledgerlens/internal/core/apperror"
)

// Kind is the period granularity.
type Kind string

const (
	Annual    Kind = "annual"
	Quarterly Kind = "quarterly"
	Monthly   Kind = "monthly"
)

// MinYear is the earliest accepted fiscal year.
const MinYear = 1900

// ParseKind normalizes a period kind string. Empty defaults to annual.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "annual":
		return Annual, nil
	case "quarterly":
		return Quarterly, nil
	case "monthly":
		return Monthly, nil
	default:
		return "", apperror.NewInvalidPeriod(fmt.Sprintf("period must be one of: annual, quarterly, monthly (got %q)", s))
	}
}

// Window is a resolved calendar window. Start and End are inclusive dates
// at UTC midnight; Start <= End always holds.
type Window struct {
	Year   int       `json:"year"`
	Kind   Kind      `json:"kind"`
	Number int       `json:"number"` // month 1-12 or quarter 1-4; 1 for annual
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Label  string    `json:"label"`
}

// Resolve maps (year, kind, number) to a concrete window.
// number accepts "3", "Q3" or empty. An out-of-range month or quarter falls
// back to 1 rather than failing; only the year is validated hard.
func Resolve(year int, kind Kind, number string) (Window, error) {
	if maxYear := time.Now().Year() + 10; year < MinYear || year > maxYear {
		return Window{}, apperror.NewInvalidPeriod(
			fmt.Sprintf("year must be between %d and %d", MinYear, maxYear)).
			WithDetail("year", year)
	}

	switch kind {
	case Annual, "":
		return Window{
			Year:   year,
			Kind:   Annual,
			Number: 1,
			Start:  date(year, time.January, 1),
			End:    date(year, time.December, 31),
			Label:  strconv.Itoa(year),
		}, nil

	case Quarterly:
		q := parseNumber(number, 4)
		startMonth := time.Month((q-1)*3 + 1)
		start := date(year, startMonth, 1)
		end := lastDayOfMonth(year, startMonth+2)
		return Window{
			Year:   year,
			Kind:   Quarterly,
			Number: q,
			Start:  start,
			End:    end,
			Label:  fmt.Sprintf("Q%d %d", q, year),
		}, nil

	case Monthly:
		m := parseNumber(number, 12)
		start := date(year, time.Month(m), 1)
		end := lastDayOfMonth(year, time.Month(m))
		return Window{
			Year:   year,
			Kind:   Monthly,
			Number: m,
			Start:  start,
			End:    end,
			Label:  fmt.Sprintf("%s %d", start.Month().String()[:3], year),
		}, nil

	default:
		return Window{}, apperror.NewInvalidPeriod(fmt.Sprintf("unknown period kind %q", kind))
	}
}

// PriorYear returns the same window translated to the prior calendar year.
func (w Window) PriorYear() Window {
	prior, _ := resolveUnchecked(w.Year-1, w.Kind, w.Number)
	return prior
}

// TwoYearsPrior returns the same window translated two calendar years back.
func (w Window) TwoYearsPrior() Window {
	prior, _ := resolveUnchecked(w.Year-2, w.Kind, w.Number)
	return prior
}

// Opening returns the boundary instant for opening balances: sums are taken
// strictly before this date.
func (w Window) Opening() time.Time {
	return w.Start
}

// resolveUnchecked skips the year range check so that prior-year derivation
// of a MinYear window cannot fail.
func resolveUnchecked(year int, kind Kind, number int) (Window, error) {
	if year < MinYear {
		year = MinYear
	}
	return Resolve(year, kind, strconv.Itoa(number))
}

// parseNumber parses a month/quarter token, accepting a leading Q and
// defaulting to 1 on anything invalid or out of range.
func parseNumber(s string, max int) int {
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.TrimPrefix(s, "Q")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > max {
		return 1
	}
	return n
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) time.Time {
	return date(year, month, 1).AddDate(0, 1, -1)
}
