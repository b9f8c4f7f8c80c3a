package sheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Spreadsheet exports encode dates as a day count offset from the Unix epoch
// by 25569 days (the classic 1900 date system).
const serialEpochOffset = 25569

// date string layouts the remote sheets have been seen returning
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
}

// ParseAnyDate converts whatever a sheet cell holds into a time.Time.
// Numeric values are treated as spreadsheet serial days, strings are tried
// against the known layouts. Unparseable input yields a zero time and
// ok=false; it never returns an error.
func ParseAnyDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return x, true
	case float64:
		return serialToTime(x)
	case int:
		return serialToTime(float64(x))
	case int64:
		return serialToTime(float64(x))
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		// A bare number in a string cell is still a serial.
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return serialToTime(n)
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func serialToTime(serial float64) (time.Time, bool) {
	// Serials below the offset predate 1970; the sheets never hold those,
	// so treat them as unknown rather than producing negative timestamps.
	if serial < serialEpochOffset {
		return time.Time{}, false
	}
	secs := (serial - serialEpochOffset) * 86400
	return time.Unix(int64(secs), 0).UTC(), true
}

// FormatDMY renders a parsed date as DD/MM/YYYY; zero time renders empty.
func FormatDMY(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}

// FormatAnyDMY is the parse+format shortcut used when mapping raw rows.
func FormatAnyDMY(v any) string {
	t, ok := ParseAnyDate(v)
	if !ok {
		return ""
	}
	return FormatDMY(t)
}
