package clock

import "time"

// Clock is the injectable time source used by every service. Date-boundary
// rules (cooling-off expiry, notice periods, commitment ends) must never read
// time.Now directly or they become untestable.
type Clock interface {
	Now() time.Time
	// Today is Now truncated to a UTC calendar date.
	Today() time.Time
}

type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

func (s System) Today() time.Time { return Midnight(s.Now()) }

// Fixed always reports the same instant. Test helper.
type Fixed struct {
	T time.Time
}

func At(t time.Time) Fixed { return Fixed{T: t.UTC()} }

// OnDay builds a Fixed clock at midnight UTC of the given date.
func OnDay(year int, month time.Month, day int) Fixed {
	return Fixed{T: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (f Fixed) Now() time.Time   { return f.T }
func (f Fixed) Today() time.Time { return Midnight(f.T) }

func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b (negative if b is
// before a).
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)).Hours() / 24)
}

// MonthsBetween returns the number of complete months from a to b, floored at
// zero. Mirrors how commitment months remaining are counted: a partial month
// still in progress does not count.
func MonthsBetween(a, b time.Time) int {
	a, b = Midnight(a), Midnight(b)
	if !a.Before(b) {
		return 0
	}
	months := 0
	for !a.AddDate(0, months+1, 0).After(b) {
		months++
	}
	return months
}
