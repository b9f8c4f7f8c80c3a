package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"labflow/internal/mirror"
	"labflow/internal/sheet"
	ws "labflow/internal/websocket"
)

// Milling-disc sheet columns. The stock sheet is flat enough that exact
// spellings have held stable across deployments.
const (
	discFieldMaterial = "Material"
	discFieldDiameter = "Diametro"
	discFieldLot      = "Lote"
	discFieldQuantity = "Cantidad"
	discFieldMinimum  = "Minimo"
)

// DiscView is one milling-disc stock row.
type DiscView struct {
	Material string  `json:"material"`
	Diametro string  `json:"diametro"`
	Lote     string  `json:"lote"`
	Cantidad float64 `json:"cantidad"`
	Minimo   float64 `json:"minimo"`
	LowStock bool    `json:"low_stock"`
}

type InventoryResponse struct {
	Discs       []DiscView `json:"discs"`
	LowStock    int        `json:"low_stock"`
	RefreshedAt string     `json:"refreshed_at,omitempty"`
}

type InventoryService interface {
	Refresh(ctx context.Context) error
	GetDiscs(ctx context.Context) (InventoryResponse, error)
	// StartAutoRefresh re-fetches on a fixed interval until ctx ends; the
	// only automatic retry in the system.
	StartAutoRefresh(ctx context.Context, interval time.Duration)
}

type inventoryService struct {
	client *sheet.InventoryClient
	hub    *ws.Hub

	discMirror *mirror.Mirror

	// refreshedAt is written by the auto-refresh goroutine and read by
	// request handlers.
	mu          sync.RWMutex
	refreshedAt time.Time
}

func NewInventoryService(client *sheet.InventoryClient, hub *ws.Hub) InventoryService {
	return &inventoryService{client: client, hub: hub, discMirror: mirror.New()}
}

func (s *inventoryService) Refresh(ctx context.Context) error {
	records, err := s.client.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh inventory: %w", err)
	}
	s.discMirror.Replace(records)
	s.mu.Lock()
	s.refreshedAt = time.Now()
	s.mu.Unlock()
	return nil
}

func (s *inventoryService) GetDiscs(ctx context.Context) (InventoryResponse, error) {
	if s.discMirror.Len() == 0 {
		if err := s.Refresh(ctx); err != nil {
			return InventoryResponse{}, err
		}
	}

	records := s.discMirror.Records()
	discs := make([]DiscView, 0, len(records))
	low := 0
	for _, r := range records {
		d := DiscView{
			Material: r.GetString(discFieldMaterial),
			Diametro: r.GetString(discFieldDiameter),
			Lote:     r.GetString(discFieldLot),
			Cantidad: r.GetFloat(discFieldQuantity),
			Minimo:   r.GetFloat(discFieldMinimum),
		}
		d.LowStock = d.Cantidad <= d.Minimo
		if d.LowStock {
			low++
		}
		discs = append(discs, d)
	}

	resp := InventoryResponse{Discs: discs, LowStock: low}
	s.mu.RLock()
	refreshedAt := s.refreshedAt
	s.mu.RUnlock()
	if !refreshedAt.IsZero() {
		resp.RefreshedAt = refreshedAt.Format(time.RFC3339)
	}
	return resp, nil
}

func (s *inventoryService) StartAutoRefresh(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Refresh(ctx); err != nil {
					// Keep the previous collection; next tick retries.
					log.Println("Inventory auto-refresh failed:", err)
					continue
				}
				s.hub.Notify(ws.Toast{
					Event:   "inventory_refreshed",
					Level:   "success",
					Message: "Inventario actualizado",
				})
			}
		}
	}()
}
