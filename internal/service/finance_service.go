package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"labflow/internal/model"
	"labflow/internal/repository"
	"labflow/internal/sheet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateLedgerEntryRequest struct {
	IDOrden    string `json:"id_orden"`
	Fecha      string `json:"fecha" binding:"required"` // 2006-01-02
	Monto      string `json:"monto" binding:"required"` // decimal string
	MetodoPago string `json:"metodo_pago"`
	Categoria  string `json:"categoria"`
	Motivo     string `json:"motivo" binding:"required"`
}

type LedgerSummary struct {
	Entries []sheet.LedgerEntry `json:"entries"`
	Total   string              `json:"total"`
	ByGroup map[string]string   `json:"by_group"` // per payment method (income) or category (expense)
	Groups  []string            `json:"groups"`
	Month   string              `json:"month,omitempty"`
}

// --- Interface ---

type FinanceService interface {
	GetIncome(ctx context.Context, month string) (LedgerSummary, error)
	GetExpenses(ctx context.Context, month string) (LedgerSummary, error)
	CreateIncome(ctx context.Context, userID string, req CreateLedgerEntryRequest) error
	CreateExpense(ctx context.Context, userID string, req CreateLedgerEntryRequest) error
}

type financeService struct {
	client    *sheet.FinanceClient
	auditRepo repository.AuditRepository

	// last successful pages, kept so a failed refresh never blanks the
	// ledger views
	mu           sync.Mutex
	lastIncome   *sheet.IncomePage
	lastExpenses *sheet.ExpensePage
}

func NewFinanceService(client *sheet.FinanceClient, auditRepo repository.AuditRepository) FinanceService {
	return &financeService{client: client, auditRepo: auditRepo}
}

func (s *financeService) GetIncome(ctx context.Context, month string) (LedgerSummary, error) {
	page, err := s.client.ListIncome(ctx)
	if err != nil {
		s.mu.Lock()
		page = s.lastIncome
		s.mu.Unlock()
		if page == nil {
			return LedgerSummary{}, fmt.Errorf("failed to load income ledger: %w", err)
		}
		log.Println("Income refresh failed, serving previous ledger:", err)
	} else {
		s.mu.Lock()
		s.lastIncome = page
		s.mu.Unlock()
	}
	return summarize(page.Ingresos, func(e sheet.LedgerEntry) string { return e.MetodoPago }, page.MetodosDePago, month), nil
}

func (s *financeService) GetExpenses(ctx context.Context, month string) (LedgerSummary, error) {
	page, err := s.client.ListExpenses(ctx)
	if err != nil {
		s.mu.Lock()
		page = s.lastExpenses
		s.mu.Unlock()
		if page == nil {
			return LedgerSummary{}, fmt.Errorf("failed to load expense ledger: %w", err)
		}
		log.Println("Expense refresh failed, serving previous ledger:", err)
	} else {
		s.mu.Lock()
		s.lastExpenses = page
		s.mu.Unlock()
	}
	return summarize(page.Gastos, func(e sheet.LedgerEntry) string { return e.Categoria }, page.Categorias, month), nil
}

func (s *financeService) CreateIncome(ctx context.Context, userID string, req CreateLedgerEntryRequest) error {
	entry, err := toLedgerEntry(req)
	if err != nil {
		return err
	}
	if req.MetodoPago == "" {
		return errors.New("metodo_pago is required for income entries")
	}
	if err := s.client.CreateIncome(ctx, entry); err != nil {
		return err
	}
	s.audit(ctx, userID, model.ActionCreateIngreso, req)
	return nil
}

func (s *financeService) CreateExpense(ctx context.Context, userID string, req CreateLedgerEntryRequest) error {
	entry, err := toLedgerEntry(req)
	if err != nil {
		return err
	}
	if req.Categoria == "" {
		return errors.New("categoria is required for expense entries")
	}
	if err := s.client.CreateExpense(ctx, entry); err != nil {
		return err
	}
	s.audit(ctx, userID, model.ActionCreateGasto, req)
	return nil
}

func toLedgerEntry(req CreateLedgerEntryRequest) (sheet.LedgerEntry, error) {
	monto, err := decimal.NewFromString(req.Monto)
	if err != nil {
		return sheet.LedgerEntry{}, fmt.Errorf("invalid monto: %w", err)
	}
	if monto.LessThanOrEqual(decimal.Zero) {
		return sheet.LedgerEntry{}, errors.New("monto must be greater than 0")
	}
	if _, err := time.Parse("2006-01-02", req.Fecha); err != nil {
		return sheet.LedgerEntry{}, fmt.Errorf("invalid fecha %q: expected YYYY-MM-DD", req.Fecha)
	}
	return sheet.LedgerEntry{
		IDOrden:    sheet.NormalizeOrderID(req.IDOrden),
		Fecha:      req.Fecha,
		Monto:      monto.String(),
		MetodoPago: req.MetodoPago,
		Categoria:  req.Categoria,
		Motivo:     req.Motivo,
	}, nil
}

// summarize filters to one month (YYYY-MM, empty for all) and totals with
// decimal precision per group and overall.
func summarize(entries []sheet.LedgerEntry, groupOf func(sheet.LedgerEntry) string, groups []string, month string) LedgerSummary {
	total := decimal.Zero
	byGroup := make(map[string]decimal.Decimal)
	kept := make([]sheet.LedgerEntry, 0, len(entries))

	for _, e := range entries {
		if month != "" {
			t, ok := sheet.ParseAnyDate(e.Fecha)
			if !ok || t.Format("2006-01") != month {
				continue
			}
		}
		amount := montoOf(e)
		total = total.Add(amount)
		group := groupOf(e)
		byGroup[group] = byGroup[group].Add(amount)
		kept = append(kept, e)
	}

	shares := make(map[string]string, len(byGroup))
	for g, v := range byGroup {
		shares[g] = v.StringFixed(2)
	}

	return LedgerSummary{
		Entries: kept,
		Total:   total.StringFixed(2),
		ByGroup: shares,
		Groups:  groups,
		Month:   month,
	}
}

// montoOf coerces whatever the sheet put in the monto cell into a decimal.
func montoOf(e sheet.LedgerEntry) decimal.Decimal {
	switch v := e.Monto.(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

func (s *financeService) audit(ctx context.Context, userID, action string, req CreateLedgerEntryRequest) {
	if s.auditRepo == nil {
		return
	}
	details, _ := json.Marshal(req)
	entry := &model.AuditLog{Action: action, EntityID: req.IDOrden, Details: string(details)}
	if uid, err := uuid.Parse(userID); err == nil {
		entry.UserID = &uid
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		log.Println("Failed to write audit entry:", err)
	}
}
