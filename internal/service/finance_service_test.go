package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"labflow/internal/sheet"
)

type financeStub struct {
	mu       sync.Mutex
	fails    bool
	ingresos []sheet.LedgerEntry
	created  []map[string]any
}

func (s *financeStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.fails {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if r.Method == http.MethodPost {
			var payload map[string]any
			json.NewDecoder(r.Body).Decode(&payload)
			s.created = append(s.created, payload)
			json.NewEncoder(w).Encode(map[string]any{"ok": true})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"ingresos":      s.ingresos,
			"metodosDePago": []string{"Efectivo", "Transferencia"},
		})
	}
}

func newTestFinanceService(t *testing.T, stub *financeStub) (FinanceService, func()) {
	t.Helper()
	srv := httptest.NewServer(stub.handler())
	ep := sheet.Endpoint{URL: srv.URL, Token: "k"}
	client := sheet.NewFinanceClient(sheet.NewClient(5*time.Second), ep, ep)
	return NewFinanceService(client, nil), srv.Close
}

func sampleIngresos() []sheet.LedgerEntry {
	return []sheet.LedgerEntry{
		{IDOrden: "ORD-0001", Fecha: "2024-01-10", Monto: float64(500), MetodoPago: "Efectivo", Motivo: "Anticipo"},
		{Fecha: "2024-01-20", Monto: "250.50", MetodoPago: "Transferencia", Motivo: "Pago corona"},
		{Fecha: "2024-02-01", Monto: float64(100), MetodoPago: "Efectivo", Motivo: "Ajuste"},
	}
}

func TestFinanceService_GetIncomeTotalsByMethod(t *testing.T) {
	stub := &financeStub{ingresos: sampleIngresos()}
	svc, closeSrv := newTestFinanceService(t, stub)
	defer closeSrv()

	summary, err := svc.GetIncome(context.Background(), "")
	if err != nil {
		t.Fatalf("GetIncome: %v", err)
	}
	if len(summary.Entries) != 3 {
		t.Errorf("entries: %d", len(summary.Entries))
	}
	if summary.Total != "850.50" {
		t.Errorf("total: %q", summary.Total)
	}
	if summary.ByGroup["Efectivo"] != "600.00" {
		t.Errorf("efectivo: %q", summary.ByGroup["Efectivo"])
	}
	if len(summary.Groups) != 2 {
		t.Errorf("groups: %v", summary.Groups)
	}
}

func TestFinanceService_MonthFilter(t *testing.T) {
	stub := &financeStub{ingresos: sampleIngresos()}
	svc, closeSrv := newTestFinanceService(t, stub)
	defer closeSrv()

	summary, err := svc.GetIncome(context.Background(), "2024-01")
	if err != nil {
		t.Fatalf("GetIncome: %v", err)
	}
	if len(summary.Entries) != 2 {
		t.Errorf("january entries: %d", len(summary.Entries))
	}
	if summary.Total != "750.50" {
		t.Errorf("january total: %q", summary.Total)
	}
}

func TestFinanceService_ServesPreviousLedgerOnFailure(t *testing.T) {
	stub := &financeStub{ingresos: sampleIngresos()}
	svc, closeSrv := newTestFinanceService(t, stub)
	defer closeSrv()

	if _, err := svc.GetIncome(context.Background(), ""); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	stub.mu.Lock()
	stub.fails = true
	stub.mu.Unlock()

	summary, err := svc.GetIncome(context.Background(), "")
	if err != nil {
		t.Fatalf("expected previous ledger, got error: %v", err)
	}
	if summary.Total != "850.50" {
		t.Errorf("previous ledger total: %q", summary.Total)
	}
}

func TestFinanceService_FirstFetchFailureErrors(t *testing.T) {
	stub := &financeStub{fails: true}
	svc, closeSrv := newTestFinanceService(t, stub)
	defer closeSrv()

	if _, err := svc.GetIncome(context.Background(), ""); err == nil {
		t.Fatal("expected error with no previous ledger")
	}
}

func TestFinanceService_CreateIncomeValidation(t *testing.T) {
	stub := &financeStub{}
	svc, closeSrv := newTestFinanceService(t, stub)
	defer closeSrv()

	cases := []CreateLedgerEntryRequest{
		{Fecha: "2024-01-10", Monto: "0", MetodoPago: "Efectivo", Motivo: "x"},
		{Fecha: "2024-01-10", Monto: "-5", MetodoPago: "Efectivo", Motivo: "x"},
		{Fecha: "2024-01-10", Monto: "abc", MetodoPago: "Efectivo", Motivo: "x"},
		{Fecha: "10/01/2024", Monto: "100", MetodoPago: "Efectivo", Motivo: "x"},
		{Fecha: "2024-01-10", Monto: "100", Motivo: "x"}, // missing metodo_pago
	}
	for i, req := range cases {
		if err := svc.CreateIncome(context.Background(), "", req); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
	if len(stub.created) != 0 {
		t.Errorf("invalid entries reached the endpoint: %v", stub.created)
	}
}

func TestFinanceService_CreateIncomeNormalizesOrderID(t *testing.T) {
	stub := &financeStub{}
	svc, closeSrv := newTestFinanceService(t, stub)
	defer closeSrv()

	err := svc.CreateIncome(context.Background(), "", CreateLedgerEntryRequest{
		IDOrden:    "7",
		Fecha:      "2024-01-10",
		Monto:      "150.00",
		MetodoPago: "Efectivo",
		Motivo:     "Anticipo",
	})
	if err != nil {
		t.Fatalf("CreateIncome: %v", err)
	}
	if len(stub.created) != 1 {
		t.Fatalf("created: %d", len(stub.created))
	}
	if stub.created[0]["idOrden"] != "ORD-0007" {
		t.Errorf("idOrden: %v", stub.created[0]["idOrden"])
	}
	if stub.created[0]["apiKey"] != "k" {
		t.Errorf("apiKey: %v", stub.created[0]["apiKey"])
	}
}
