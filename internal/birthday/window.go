// Package birthday computes the window of upcoming birthdays. A window starts today and ends a
// number of days later; birthdays match by month and day only, so a window that crosses New
// Year continues in January.
//
// Contains is the Go form of the condition that Predicate renders as SQL. Both branch on the
// same shapes of a window.
package birthday

import (
	"time"

	"gitlab.com/dirk.krummacker/contacts-backend/internal/model"
)

// fullYear is the window length from which every month and day is covered.
const fullYear = 365

// Window is the closed range of calendar days [From, To] measured cyclically within a year.
type Window struct {
	From model.Date
	To   model.Date
	full bool
}

// NewWindow returns the window that starts on today and ends days later.
func NewWindow(today model.Date, days int) Window {
	return Window{
		From: today,
		To:   today.AddDays(days),
		full: days >= fullYear,
	}
}

// sameMonth is true if the window does not leave the month it starts in.
func (w Window) sameMonth() bool {
	return w.From.Month == w.To.Month && w.From.Year == w.To.Year
}

// wraps is true if the window runs past December into the next year, so that the months in
// between are counted cyclically.
func (w Window) wraps() bool {
	return w.To.Month < w.From.Month || (w.To.Month == w.From.Month && w.To.Year > w.From.Year)
}

// Contains reports whether a birthday on the given month and day falls inside the window.
func (w Window) Contains(month time.Month, day int) bool {
	if w.full {
		return true
	}
	if w.sameMonth() {
		return month == w.From.Month && day >= w.From.Day && day <= w.To.Day
	}
	if month == w.From.Month && day >= w.From.Day {
		return true
	}
	if month == w.To.Month && day <= w.To.Day {
		return true
	}
	if w.wraps() {
		return month > w.From.Month || month < w.To.Month
	}
	return month > w.From.Month && month < w.To.Month
}

// ContainsDate is Contains for the month and day of d.
func (w Window) ContainsDate(d model.Date) bool {
	return w.Contains(d.Month, d.Day)
}

// Predicate returns an SQL condition that selects the rows whose DATE column col falls inside
// the window, together with its arguments. NULL dates never match.
func (w Window) Predicate(col string) (string, []interface{}) {
	month := "MONTH(" + col + ")"
	day := "DAY(" + col + ")"
	from, to := int(w.From.Month), int(w.To.Month)

	if w.full {
		return col + " IS NOT NULL", nil
	}
	if w.sameMonth() {
		return "(" + month + " = ? AND " + day + " BETWEEN ? AND ?)",
			[]interface{}{from, w.From.Day, w.To.Day}
	}

	between := "(" + month + " > ? AND " + month + " < ?)"
	if w.wraps() {
		between = "(" + month + " > ? OR " + month + " < ?)"
	}
	cond := "((" + month + " = ? AND " + day + " >= ?)" +
		" OR (" + month + " = ? AND " + day + " <= ?)" +
		" OR " + between + ")"
	return cond, []interface{}{from, w.From.Day, to, w.To.Day, from, to}
}
