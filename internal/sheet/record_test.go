package sheet

import "testing"

func TestRecord_GetResolvesAliases(t *testing.T) {
	r := Record{"disenador": "Maria"}
	if got := r.GetString(FieldDesigner); got != "Maria" {
		t.Errorf("got %q, want Maria", got)
	}

	// Canonical spelling wins over aliases when both are present.
	r = Record{"Diseñadores": "Ana", "disenador": "Maria"}
	if got := r.GetString(FieldDesigner); got != "Ana" {
		t.Errorf("got %q, want Ana", got)
	}
}

func TestRecord_GetAliasPriority(t *testing.T) {
	// "diseñador" outranks "disenador" in the alias table.
	r := Record{"disenador": "low", "diseñador": "high"}
	if got := r.GetString(FieldDesigner); got != "high" {
		t.Errorf("got %q, want high", got)
	}
}

func TestRecord_GetStringCoercesNumbers(t *testing.T) {
	r := Record{"Costo": float64(1500)}
	if got := r.GetString(FieldCost); got != "1500" {
		t.Errorf("whole float: got %q, want 1500", got)
	}

	r = Record{"Costo": float64(1500.5)}
	if got := r.GetString(FieldCost); got != "1500.5" {
		t.Errorf("fractional float: got %q, want 1500.5", got)
	}

	r = Record{}
	if got := r.GetString(FieldCost); got != "" {
		t.Errorf("absent: got %q, want empty", got)
	}
}

func TestRecord_GetFloat(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{float64(120.5), 120.5},
		{"120.5", 120.5},
		{"$120.5", 120.5},
		{" 300 ", 300},
		{"no", 0},
		{nil, 0},
	}
	for _, c := range cases {
		r := Record{"Costo": c.in}
		if got := r.GetFloat(FieldCost); got != c.want {
			t.Errorf("%v: got %v, want %v", c.in, got, c.want)
		}
	}
}

func TestRecord_SetClearsAliases(t *testing.T) {
	r := Record{"disenador": "Maria", "diseñador": "Maria"}
	r.Set(FieldDesigner, "Pedro")

	if got := r.GetString(FieldDesigner); got != "Pedro" {
		t.Errorf("got %q, want Pedro", got)
	}
	if _, ok := r["disenador"]; ok {
		t.Error("alias spelling should be cleared after Set")
	}
	if _, ok := r["diseñador"]; ok {
		t.Error("alias spelling should be cleared after Set")
	}
}

func TestRecord_CloneIsIndependent(t *testing.T) {
	r := Record{"ID Orden": "ORD-0001", "Estado": StatusRecepcion}
	c := r.Clone()
	c.Set(FieldStatus, StatusDiseno)

	if got := r.GetString(FieldStatus); got != StatusRecepcion {
		t.Errorf("original mutated: got %q", got)
	}
	if got := c.GetString(FieldStatus); got != StatusDiseno {
		t.Errorf("clone: got %q", got)
	}
}

func TestNormalizeOrderID(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"7", "ORD-0007"},
		{"42", "ORD-0042"},
		{"12345", "ORD-12345"},
		{"ORD-0007", "ORD-0007"},
		{"  9  ", "ORD-0009"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeOrderID(c.in); got != c.want {
			t.Errorf("NormalizeOrderID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range OrderStatuses {
		if !ValidStatus(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	if ValidStatus("Perdido") {
		t.Error("unknown status should be invalid")
	}
	if ValidStatus("") {
		t.Error("empty status should be invalid")
	}
}
