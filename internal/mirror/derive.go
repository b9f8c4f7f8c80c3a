package mirror

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"labflow/internal/sheet"
)

// Derived views are pure functions of (records, criteria). They are
// recomputed in full whenever an input changes; nothing here mutates the
// mirror.

// Search filters by case-insensitive substring match against the order ID.
// Bare numeric input is first normalized into the ORD-#### key format, so
// searching "7" matches "ORD-0007".
func Search(records []sheet.Record, query string) []sheet.Record {
	q := strings.ToLower(sheet.NormalizeOrderID(query))
	if q == "" {
		return records
	}
	out := make([]sheet.Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.ID()), q) {
			out = append(out, r)
		}
	}
	return out
}

// FilterField keeps rows whose canonical field equals want exactly.
func FilterField(records []sheet.Record, field, want string) []sheet.Record {
	if want == "" {
		return records
	}
	out := make([]sheet.Record, 0, len(records))
	for _, r := range records {
		if r.GetString(field) == want {
			out = append(out, r)
		}
	}
	return out
}

// FilterDateRange keeps rows whose field parses to a date within [from, to].
// Rows whose date cannot be parsed are excluded, not errored.
func FilterDateRange(records []sheet.Record, field string, from, to time.Time) []sheet.Record {
	out := make([]sheet.Record, 0, len(records))
	for _, r := range records {
		t, ok := sheet.ParseAnyDate(r.Get(field))
		if !ok {
			continue
		}
		if !from.IsZero() && t.Before(from) {
			continue
		}
		if !to.IsZero() && t.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// numericFields are compared by parsed value rather than lexically.
var numericFields = map[string]bool{
	sheet.FieldCost:    true,
	sheet.FieldACuenta: true,
}

var dateFields = map[string]bool{
	sheet.FieldRequiredDate: true,
	sheet.FieldCreatedAt:    true,
}

// SortBy returns a sorted copy: stable, with string fields folded for a
// locale-insensitive compare and numeric/date fields compared by value.
func SortBy(records []sheet.Record, field string, ascending bool) []sheet.Record {
	out := make([]sheet.Record, len(records))
	copy(out, records)

	less := func(a, b sheet.Record) bool {
		switch {
		case numericFields[field]:
			return a.GetFloat(field) < b.GetFloat(field)
		case dateFields[field]:
			ta, _ := sheet.ParseAnyDate(a.Get(field))
			tb, _ := sheet.ParseAnyDate(b.Get(field))
			return ta.Before(tb)
		default:
			return strings.ToLower(a.GetString(field)) < strings.ToLower(b.GetString(field))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}

// CountByField tallies rows per distinct value of a field (empty included
// under "").
func CountByField(records []sheet.Record, field string) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.GetString(field)]++
	}
	return counts
}

// SumField totals a numeric field with decimal precision.
func SumField(records []sheet.Record, field string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(decimal.NewFromFloat(r.GetFloat(field)))
	}
	return total
}

// Percentages converts a count map into percentage shares of the total,
// rounded to one decimal place. Empty input yields an empty map.
func Percentages(counts map[string]int) map[string]float64 {
	total := 0
	for _, n := range counts {
		total += n
	}
	out := make(map[string]float64, len(counts))
	if total == 0 {
		return out
	}
	for k, n := range counts {
		pct := decimal.NewFromInt(int64(n)).
			Div(decimal.NewFromInt(int64(total))).
			Mul(decimal.NewFromInt(100)).
			Round(1)
		out[k], _ = pct.Float64()
	}
	return out
}
