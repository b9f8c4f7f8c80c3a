package sheet

import (
	"context"
	"net/url"
)

// OrdersClient talks to the order sheet endpoints. The read endpoint and the
// three mutation endpoints predate this backend and each grew its own body
// shape and success flag, so every update method builds its own payload.
type OrdersClient struct {
	client *Client
	// list/status/courier live on the current script deployment
	endpoint Endpoint
	// designer updates still go through the original deployment, which
	// takes a bare {id, disenador} body and signals success by HTTP 200
	designerEndpoint Endpoint
}

func NewOrdersClient(client *Client, endpoint, designerEndpoint Endpoint) *OrdersClient {
	return &OrdersClient{client: client, endpoint: endpoint, designerEndpoint: designerEndpoint}
}

// List fetches the full order collection: GET ?token=... -> {rows: [...]}.
func (c *OrdersClient) List(ctx context.Context) ([]Record, error) {
	u, err := url.Parse(c.endpoint.URL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("token", c.endpoint.Token)
	u.RawQuery = q.Encode()

	var payload struct {
		Rows []Record `json:"rows"`
	}
	if err := c.client.getJSON(ctx, u.String(), &payload); err != nil {
		return nil, err
	}
	return payload.Rows, nil
}

// ListByDate fetches the per-day records: GET ?action=listByDate&date=ISO.
func (c *OrdersClient) ListByDate(ctx context.Context, isoDate string) ([]Record, error) {
	u, err := url.Parse(c.endpoint.URL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("token", c.endpoint.Token)
	q.Set("action", "listByDate")
	q.Set("date", isoDate)
	u.RawQuery = q.Encode()

	var payload struct {
		OK    *bool    `json:"ok"`
		Items []Record `json:"items"`
		Error string   `json:"error"`
	}
	if err := c.client.getJSON(ctx, u.String(), &payload); err != nil {
		return nil, err
	}
	if payload.OK != nil && !*payload.OK {
		return nil, &RemoteError{Message: payload.Error}
	}
	return payload.Items, nil
}

// UpdateStatus patches the Estado column for one order.
func (c *OrdersClient) UpdateStatus(ctx context.Context, orderID, status string) error {
	body, err := c.client.postJSON(ctx, c.endpoint.URL, map[string]any{
		"token":     c.endpoint.Token,
		"action":    "update",
		"keyColumn": FieldOrderID,
		"keyValue":  orderID,
		"newStatus": status,
	})
	if err != nil {
		return err
	}
	return checkOutcome(body, false)
}

// UpdateCourier patches the Repartidor column for one order.
func (c *OrdersClient) UpdateCourier(ctx context.Context, orderID, courier string) error {
	body, err := c.client.postJSON(ctx, c.endpoint.URL, map[string]any{
		"token":         c.endpoint.Token,
		"action":        "update",
		"keyColumn":     FieldOrderID,
		"keyValue":      orderID,
		"newRepartidor": courier,
	})
	if err != nil {
		return err
	}
	return checkOutcome(body, false)
}

// UpdateStatusLegacy patches Estado through the original deployment, which
// takes {action:"updateEstado", id, estado}. The day view still talks to
// that deployment.
func (c *OrdersClient) UpdateStatusLegacy(ctx context.Context, orderID, status string) error {
	body, err := c.client.postJSON(ctx, c.designerEndpoint.URL, map[string]any{
		"action": "updateEstado",
		"id":     orderID,
		"estado": status,
	})
	if err != nil {
		return err
	}
	return checkOutcome(body, false)
}

// UpdateDesigner patches the designer column through the legacy deployment.
// That script returns 200 with no flag on success, so 2xx is the contract.
func (c *OrdersClient) UpdateDesigner(ctx context.Context, orderID, designer string) error {
	body, err := c.client.postJSON(ctx, c.designerEndpoint.URL, map[string]any{
		"id":        orderID,
		"disenador": designer,
	})
	if err != nil {
		return err
	}
	return checkOutcome(body, true)
}

// UpdateACuenta patches the amount-paid-to-date column for one order.
func (c *OrdersClient) UpdateACuenta(ctx context.Context, orderID, amount string) error {
	body, err := c.client.postJSON(ctx, c.endpoint.URL, map[string]any{
		"token":      c.endpoint.Token,
		"action":     "update",
		"keyColumn":  FieldOrderID,
		"keyValue":   orderID,
		"newACuenta": amount,
	})
	if err != nil {
		return err
	}
	return checkOutcome(body, false)
}
