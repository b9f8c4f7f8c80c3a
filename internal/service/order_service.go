package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"labflow/internal/cache"
	"labflow/internal/mirror"
	"labflow/internal/model"
	"labflow/internal/repository"
	"labflow/internal/sheet"
	"labflow/pkg/pagination"

	"github.com/google/uuid"
)

// --- DTOs ---

type ListOrdersQuery struct {
	Search    string
	Status    string
	Designer  string
	SortField string
	Ascending bool
	Page      int
	Limit     int
}

// OrderView is one order row mapped into its canonical shape for the SPA.
type OrderView struct {
	ID             string  `json:"id"`
	Estado         string  `json:"estado"`
	Disenador      string  `json:"disenador"`
	Repartidor     string  `json:"repartidor"`
	Cliente        string  `json:"cliente"`
	FechaRequerida string  `json:"fecha_requerida"` // DD/MM/YYYY, empty when unparseable
	TipoTrabajo    string  `json:"tipo_trabajo"`
	Material       string  `json:"material"`
	Costo          float64 `json:"costo"`
	ACuenta        float64 `json:"a_cuenta"`
	Saldo          float64 `json:"saldo"`
}

type OrderListResponse struct {
	Orders []OrderView `json:"orders"`
	Total  int         `json:"total"`
	Page   int         `json:"page"`
	Limit  int         `json:"limit"`
}

// OrderStats are the dashboard KPIs derived from the mirrored collection.
type OrderStats struct {
	Total           int                `json:"total"`
	ByStatus        map[string]int     `json:"by_status"`
	StatusShares    map[string]float64 `json:"status_shares"`
	TotalCost       string             `json:"total_cost"`
	TotalACuenta    string             `json:"total_a_cuenta"`
	PendingDelivery int                `json:"pending_delivery"`
}

// --- Interface ---

type OrderService interface {
	Refresh(ctx context.Context) error
	RefreshDay(ctx context.Context, date time.Time) ([]OrderView, error)
	List(ctx context.Context, q ListOrdersQuery) (OrderListResponse, error)
	Get(ctx context.Context, orderID string) (sheet.Record, error)
	Stats(ctx context.Context) (OrderStats, error)
	UpdateStatus(ctx context.Context, userID, orderID, status string) error
	UpdateStatusFromDay(ctx context.Context, userID, orderID, status string) error
	UpdateDesigner(ctx context.Context, userID, orderID, designer string) error
	UpdateCourier(ctx context.Context, userID, orderID, courier string) error
	UpdateACuenta(ctx context.Context, userID, orderID, amount string) error
}

type orderService struct {
	client    *sheet.OrdersClient
	coord     *mirror.Coordinator
	auditRepo repository.AuditRepository
	snapshots *cache.SnapshotStore

	// listMirror holds the full collection; dayMirror holds the per-day
	// view fetched separately. A field edit must land in both, since the
	// SPA can show the same order in both places at once.
	listMirror *mirror.Mirror
	dayMirror  *mirror.Mirror
}

func NewOrderService(
	client *sheet.OrdersClient,
	coord *mirror.Coordinator,
	auditRepo repository.AuditRepository,
	snapshots *cache.SnapshotStore,
) OrderService {
	s := &orderService{
		client:     client,
		coord:      coord,
		auditRepo:  auditRepo,
		snapshots:  snapshots,
		listMirror: mirror.New(),
		dayMirror:  mirror.New(),
	}
	s.restoreSnapshot()
	return s
}

// restoreSnapshot pre-populates the mirror from the last run's collection so
// the dashboard has rows to show while the first slow sheet fetch runs.
func (s *orderService) restoreSnapshot() {
	if s.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	records, err := s.snapshots.Load(ctx, "orders")
	if err != nil {
		log.Println("Order snapshot restore failed:", err)
		return
	}
	if len(records) > 0 {
		s.listMirror.Replace(records)
	}
}

// Refresh reloads the full collection. On failure the previously fetched
// collection stays in place; callers surface the error as a notification.
func (s *orderService) Refresh(ctx context.Context) error {
	records, err := s.client.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh orders: %w", err)
	}
	s.listMirror.Replace(records)
	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, "orders", records); err != nil {
			log.Println("Order snapshot save failed:", err)
		}
	}
	return nil
}

// RefreshDay reloads the per-day view into its own mirror.
func (s *orderService) RefreshDay(ctx context.Context, date time.Time) ([]OrderView, error) {
	records, err := s.client.ListByDate(ctx, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to load records for %s: %w", date.Format("2006-01-02"), err)
	}
	s.dayMirror.Replace(records)
	views := make([]OrderView, 0, len(records))
	for _, r := range records {
		views = append(views, mapToView(r))
	}
	return views, nil
}

func (s *orderService) List(ctx context.Context, q ListOrdersQuery) (OrderListResponse, error) {
	params := pagination.Clamp(q.Page, q.Limit)

	records := s.listMirror.Records()
	records = mirror.Search(records, q.Search)
	records = mirror.FilterField(records, sheet.FieldStatus, q.Status)
	records = mirror.FilterField(records, sheet.FieldDesigner, q.Designer)
	if q.SortField != "" {
		records = mirror.SortBy(records, q.SortField, q.Ascending)
	}

	total := len(records)
	start, end := pagination.Bounds(params, total)

	views := make([]OrderView, 0, end-start)
	for _, r := range records[start:end] {
		views = append(views, mapToView(r))
	}

	return OrderListResponse{Orders: views, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

func (s *orderService) Get(ctx context.Context, orderID string) (sheet.Record, error) {
	record, ok := s.listMirror.Get(sheet.NormalizeOrderID(orderID))
	if !ok {
		return nil, fmt.Errorf("order %q not found", orderID)
	}
	return record, nil
}

func (s *orderService) Stats(ctx context.Context) (OrderStats, error) {
	records := s.listMirror.Records()
	counts := mirror.CountByField(records, sheet.FieldStatus)

	pending := 0
	for status, n := range counts {
		if status != sheet.StatusEntregado {
			pending += n
		}
	}

	return OrderStats{
		Total:           len(records),
		ByStatus:        counts,
		StatusShares:    mirror.Percentages(counts),
		TotalCost:       mirror.SumField(records, sheet.FieldCost).StringFixed(2),
		TotalACuenta:    mirror.SumField(records, sheet.FieldACuenta).StringFixed(2),
		PendingDelivery: pending,
	}, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, userID, orderID, status string) error {
	if !sheet.ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", mirror.ErrValidation, status)
	}
	err := s.coord.Update(ctx, orderID, sheet.FieldStatus, status, func(ctx context.Context) error {
		return s.client.UpdateStatus(ctx, orderID, status)
	}, s.listMirror, s.dayMirror)
	if err != nil {
		return err
	}
	s.audit(ctx, userID, model.ActionUpdateOrderStatus, orderID, sheet.FieldStatus, status)
	return nil
}

// UpdateStatusFromDay is the day-view edit path. Those rows come from the
// original deployment, which takes its own status body shape; the day mirror
// is the primary there, with the full list updated alongside.
func (s *orderService) UpdateStatusFromDay(ctx context.Context, userID, orderID, status string) error {
	if !sheet.ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", mirror.ErrValidation, status)
	}
	err := s.coord.Update(ctx, orderID, sheet.FieldStatus, status, func(ctx context.Context) error {
		return s.client.UpdateStatusLegacy(ctx, orderID, status)
	}, s.dayMirror, s.listMirror)
	if err != nil {
		return err
	}
	s.audit(ctx, userID, model.ActionUpdateOrderStatus, orderID, sheet.FieldStatus, status)
	return nil
}

func (s *orderService) UpdateDesigner(ctx context.Context, userID, orderID, designer string) error {
	err := s.coord.Update(ctx, orderID, sheet.FieldDesigner, designer, func(ctx context.Context) error {
		return s.client.UpdateDesigner(ctx, orderID, designer)
	}, s.listMirror, s.dayMirror)
	if err != nil {
		return err
	}
	s.audit(ctx, userID, model.ActionUpdateOrderDesigner, orderID, sheet.FieldDesigner, designer)
	return nil
}

func (s *orderService) UpdateCourier(ctx context.Context, userID, orderID, courier string) error {
	err := s.coord.Update(ctx, orderID, sheet.FieldCourier, courier, func(ctx context.Context) error {
		return s.client.UpdateCourier(ctx, orderID, courier)
	}, s.listMirror, s.dayMirror)
	if err != nil {
		return err
	}
	s.audit(ctx, userID, model.ActionUpdateOrderCourier, orderID, sheet.FieldCourier, courier)
	return nil
}

func (s *orderService) UpdateACuenta(ctx context.Context, userID, orderID, amount string) error {
	if strings.TrimSpace(amount) == "" {
		return fmt.Errorf("%w: amount is required", mirror.ErrValidation)
	}
	err := s.coord.Update(ctx, orderID, sheet.FieldACuenta, amount, func(ctx context.Context) error {
		return s.client.UpdateACuenta(ctx, orderID, amount)
	}, s.listMirror, s.dayMirror)
	if err != nil {
		return err
	}
	s.audit(ctx, userID, model.ActionUpdateOrderACuenta, orderID, sheet.FieldACuenta, amount)
	return nil
}

// audit records a confirmed field change; failures only log, the update
// itself already succeeded.
func (s *orderService) audit(ctx context.Context, userID, action, orderID, field string, value any) {
	if s.auditRepo == nil {
		return
	}
	details, _ := json.Marshal(map[string]any{"field": field, "value": value})
	entry := &model.AuditLog{
		Action:   action,
		EntityID: orderID,
		Details:  string(details),
	}
	if uid, err := uuid.Parse(userID); err == nil {
		entry.UserID = &uid
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		log.Println("Failed to write audit entry:", err)
	}
}

func mapToView(r sheet.Record) OrderView {
	cliente := strings.TrimSpace(r.GetString(sheet.FieldClientName) + " " + r.GetString(sheet.FieldClientLast))
	costo := r.GetFloat(sheet.FieldCost)
	aCuenta := r.GetFloat(sheet.FieldACuenta)
	return OrderView{
		ID:             r.ID(),
		Estado:         r.GetString(sheet.FieldStatus),
		Disenador:      r.GetString(sheet.FieldDesigner),
		Repartidor:     r.GetString(sheet.FieldCourier),
		Cliente:        cliente,
		FechaRequerida: sheet.FormatAnyDMY(r.Get(sheet.FieldRequiredDate)),
		TipoTrabajo:    r.GetString(sheet.FieldWorkType),
		Material:       r.GetString(sheet.FieldMaterial),
		Costo:          costo,
		ACuenta:        aCuenta,
		Saldo:          costo - aCuenta,
	}
}
