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

func newTestInventoryService(t *testing.T, rows []map[string]any) (InventoryService, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"rows": rows})
	}))
	client := sheet.NewInventoryClient(sheet.NewClient(5*time.Second), sheet.Endpoint{URL: srv.URL, Token: "t"})
	return NewInventoryService(client, nil), srv.Close
}

func TestInventoryService_LowStockFlags(t *testing.T) {
	svc, done := newTestInventoryService(t, []map[string]any{
		{"Material": "Zirconia", "Diametro": "98mm", "Lote": "L-01", "Cantidad": float64(2), "Minimo": float64(5)},
		{"Material": "PMMA", "Diametro": "98mm", "Lote": "L-02", "Cantidad": float64(10), "Minimo": float64(3)},
	})
	defer done()

	resp, err := svc.GetDiscs(context.Background())
	if err != nil {
		t.Fatalf("GetDiscs: %v", err)
	}
	if len(resp.Discs) != 2 {
		t.Fatalf("got %d discs, want 2", len(resp.Discs))
	}
	if !resp.Discs[0].LowStock || resp.Discs[1].LowStock {
		t.Errorf("low-stock flags: got %v/%v, want true/false", resp.Discs[0].LowStock, resp.Discs[1].LowStock)
	}
	if resp.LowStock != 1 {
		t.Errorf("low-stock count: got %d, want 1", resp.LowStock)
	}
	if resp.RefreshedAt == "" {
		t.Error("refreshed_at should be set after the implicit first fetch")
	}
}

// Refresh runs on the auto-refresh goroutine while GetDiscs serves requests,
// so the two must be safe to call concurrently.
func TestInventoryService_ConcurrentRefreshAndRead(t *testing.T) {
	svc, done := newTestInventoryService(t, []map[string]any{
		{"Material": "Zirconia", "Diametro": "98mm", "Lote": "L-01", "Cantidad": float64(8), "Minimo": float64(3)},
	})
	defer done()

	ctx := context.Background()
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				if err := svc.Refresh(ctx); err != nil {
					t.Errorf("Refresh: %v", err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				resp, err := svc.GetDiscs(ctx)
				if err != nil {
					t.Errorf("GetDiscs: %v", err)
					return
				}
				if resp.RefreshedAt == "" {
					t.Error("refreshed_at lost during concurrent refresh")
					return
				}
			}
		}()
	}
	wg.Wait()

	resp, err := svc.GetDiscs(ctx)
	if err != nil {
		t.Fatalf("GetDiscs: %v", err)
	}
	if _, err := time.Parse(time.RFC3339, resp.RefreshedAt); err != nil {
		t.Errorf("refreshed_at %q is not RFC3339: %v", resp.RefreshedAt, err)
	}
}
