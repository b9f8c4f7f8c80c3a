package mirror

import (
	"testing"
	"time"

	"labflow/internal/sheet"
)

func sampleRecords() []sheet.Record {
	return []sheet.Record{
		{"ID Orden": "ORD-0001", "Estado": sheet.StatusRecepcion, "Diseñadores": "Maria", "Costo": float64(1000), "A-cuenta": float64(200), "Fecha Requerida": "2024-01-10"},
		{"ID Orden": "ORD-0002", "Estado": sheet.StatusDiseno, "Diseñadores": "Pedro", "Costo": float64(500), "A-cuenta": float64(0), "Fecha Requerida": "2024-01-05"},
		{"ID Orden": "ORD-0007", "Estado": sheet.StatusRecepcion, "Diseñadores": "Maria", "Costo": "$750", "A-cuenta": float64(750), "Fecha Requerida": float64(45292)},
		{"ID Orden": "ORD-0010", "Estado": sheet.StatusEntregado, "Diseñadores": "Pedro", "Costo": float64(250), "A-cuenta": float64(250), "Fecha Requerida": "sin fecha"},
	}
}

func ids(records []sheet.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID()
	}
	return out
}

func TestSearch_BareNumberMatchesPaddedKey(t *testing.T) {
	got := Search(sampleRecords(), "7")
	if len(got) != 1 || got[0].ID() != "ORD-0007" {
		t.Errorf("search 7: got %v", ids(got))
	}
}

func TestSearch_SubstringAndEmpty(t *testing.T) {
	records := sampleRecords()
	if got := Search(records, "ord-000"); len(got) != 3 {
		t.Errorf("substring: got %v", ids(got))
	}
	if got := Search(records, ""); len(got) != len(records) {
		t.Errorf("empty query should pass everything through, got %d", len(got))
	}
	if got := Search(records, "zzz"); len(got) != 0 {
		t.Errorf("no match: got %v", ids(got))
	}
}

func TestFilterField(t *testing.T) {
	records := sampleRecords()
	got := FilterField(records, sheet.FieldStatus, sheet.StatusRecepcion)
	if len(got) != 2 {
		t.Errorf("status filter: got %v", ids(got))
	}
	got = FilterField(got, sheet.FieldDesigner, "Maria")
	if len(got) != 2 {
		t.Errorf("stacked filter: got %v", ids(got))
	}
	if got := FilterField(records, sheet.FieldStatus, ""); len(got) != len(records) {
		t.Error("empty criteria should pass everything through")
	}
}

func TestFilterDateRange_ExcludesUnparseable(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	got := FilterDateRange(sampleRecords(), sheet.FieldRequiredDate, from, to)
	// ORD-0010 has an unparseable date and must be excluded, not errored.
	if len(got) != 3 {
		t.Errorf("got %v", ids(got))
	}
	for _, r := range got {
		if r.ID() == "ORD-0010" {
			t.Error("unparseable date row should be excluded")
		}
	}
}

func TestSortBy_NumericField(t *testing.T) {
	got := SortBy(sampleRecords(), sheet.FieldCost, true)
	want := []string{"ORD-0010", "ORD-0002", "ORD-0007", "ORD-0001"}
	for i, id := range ids(got) {
		if id != want[i] {
			t.Fatalf("asc by cost: got %v, want %v", ids(got), want)
		}
	}

	got = SortBy(sampleRecords(), sheet.FieldCost, false)
	if got[0].ID() != "ORD-0001" {
		t.Errorf("desc by cost: got %v", ids(got))
	}
}

func TestSortBy_DateField(t *testing.T) {
	got := SortBy(sampleRecords(), sheet.FieldRequiredDate, true)
	// The unparseable date sorts as zero time, first.
	want := []string{"ORD-0010", "ORD-0007", "ORD-0002", "ORD-0001"}
	for i, id := range ids(got) {
		if id != want[i] {
			t.Fatalf("asc by date: got %v, want %v", ids(got), want)
		}
	}
}

func TestSortBy_DoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	SortBy(records, sheet.FieldCost, true)
	if records[0].ID() != "ORD-0001" {
		t.Error("input order changed")
	}
}

func TestCountByField(t *testing.T) {
	counts := CountByField(sampleRecords(), sheet.FieldStatus)
	if counts[sheet.StatusRecepcion] != 2 || counts[sheet.StatusDiseno] != 1 || counts[sheet.StatusEntregado] != 1 {
		t.Errorf("counts: %v", counts)
	}
}

func TestSumField_HandlesMixedRepresentations(t *testing.T) {
	total := SumField(sampleRecords(), sheet.FieldCost)
	// 1000 + 500 + 750 (from "$750") + 250
	if total.String() != "2500" {
		t.Errorf("total: got %s, want 2500", total.String())
	}
}

func TestPercentages(t *testing.T) {
	got := Percentages(map[string]int{"a": 1, "b": 2})
	if got["a"] != 33.3 {
		t.Errorf("a: got %v, want 33.3", got["a"])
	}
	if got["b"] != 66.7 {
		t.Errorf("b: got %v, want 66.7", got["b"])
	}
	if got := Percentages(map[string]int{}); len(got) != 0 {
		t.Errorf("empty input: got %v", got)
	}
}

func TestPipeline_DashboardScenario(t *testing.T) {
	m := New()
	m.Replace(sampleRecords())

	// A typical dashboard read: search, filter, sort.
	records := Search(m.Records(), "")
	records = FilterField(records, sheet.FieldDesigner, "Maria")
	records = SortBy(records, sheet.FieldCost, false)

	want := []string{"ORD-0001", "ORD-0007"}
	for i, id := range ids(records) {
		if id != want[i] {
			t.Fatalf("pipeline: got %v, want %v", ids(records), want)
		}
	}
}
