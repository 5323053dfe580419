package shared

import "time"

// DateLayout is the calendar date format used for persisted dates.
// Lexicographic order of formatted values matches chronological order.
const DateLayout = "2006-01-02"

// FormatDate renders t as YYYY-MM-DD in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
