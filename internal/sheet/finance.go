package sheet

import (
	"context"
	"net/url"
)

// LedgerEntry is one income or expense row from the finance sheet.
type LedgerEntry struct {
	IDOrden    string `json:"idOrden,omitempty"`
	Fecha      string `json:"fecha"`
	Monto      any    `json:"monto"`
	MetodoPago string `json:"metodoPago,omitempty"`
	Categoria  string `json:"categoria,omitempty"`
	Motivo     string `json:"motivo"`
}

// IncomePage is the income endpoint's GET payload.
type IncomePage struct {
	Ingresos      []LedgerEntry `json:"ingresos"`
	MetodosDePago []string      `json:"metodosDePago"`
}

// ExpensePage is the expense endpoint's GET payload.
type ExpensePage struct {
	Gastos     []LedgerEntry `json:"gastos"`
	Categorias []string      `json:"categorias"`
}

// FinanceClient talks to the income and expense sheet endpoints. Unlike the
// order endpoints these authenticate with an apiKey body field rather than a
// token query parameter.
type FinanceClient struct {
	client  *Client
	income  Endpoint
	expense Endpoint
}

func NewFinanceClient(client *Client, income, expense Endpoint) *FinanceClient {
	return &FinanceClient{client: client, income: income, expense: expense}
}

func (c *FinanceClient) ListIncome(ctx context.Context) (*IncomePage, error) {
	u, err := withToken(c.income)
	if err != nil {
		return nil, err
	}
	var page IncomePage
	if err := c.client.getJSON(ctx, u, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *FinanceClient) ListExpenses(ctx context.Context) (*ExpensePage, error) {
	u, err := withToken(c.expense)
	if err != nil {
		return nil, err
	}
	var page ExpensePage
	if err := c.client.getJSON(ctx, u, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateIncome appends one income row: {apiKey, idOrden?, fecha, monto,
// metodoPago, motivo}.
func (c *FinanceClient) CreateIncome(ctx context.Context, entry LedgerEntry) error {
	payload := map[string]any{
		"apiKey":     c.income.Token,
		"fecha":      entry.Fecha,
		"monto":      entry.Monto,
		"metodoPago": entry.MetodoPago,
		"motivo":     entry.Motivo,
	}
	if entry.IDOrden != "" {
		payload["idOrden"] = entry.IDOrden
	}
	body, err := c.client.postJSON(ctx, c.income.URL, payload)
	if err != nil {
		return err
	}
	return checkOutcome(body, false)
}

// CreateExpense appends one expense row: {apiKey, fecha, monto, categoria,
// motivo}.
func (c *FinanceClient) CreateExpense(ctx context.Context, entry LedgerEntry) error {
	body, err := c.client.postJSON(ctx, c.expense.URL, map[string]any{
		"apiKey":    c.expense.Token,
		"fecha":     entry.Fecha,
		"monto":     entry.Monto,
		"categoria": entry.Categoria,
		"motivo":    entry.Motivo,
	})
	if err != nil {
		return err
	}
	return checkOutcome(body, false)
}

func withToken(e Endpoint) (string, error) {
	u, err := url.Parse(e.URL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("apiKey", e.Token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
