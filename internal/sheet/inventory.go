package sheet

import (
	"context"
	"net/url"
)

// InventoryClient reads the milling-disc stock sheet. This endpoint is the
// oldest of the deployments and has returned its collection under "data",
// "items" and "rows" across revisions, so decoding tries all three.
type InventoryClient struct {
	client   *Client
	endpoint Endpoint
}

func NewInventoryClient(client *Client, endpoint Endpoint) *InventoryClient {
	return &InventoryClient{client: client, endpoint: endpoint}
}

func (c *InventoryClient) List(ctx context.Context) ([]Record, error) {
	u, err := url.Parse(c.endpoint.URL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("token", c.endpoint.Token)
	u.RawQuery = q.Encode()

	var payload struct {
		Rows  []Record `json:"rows"`
		Data  []Record `json:"data"`
		Items []Record `json:"items"`
	}
	if err := c.client.getJSON(ctx, u.String(), &payload); err != nil {
		return nil, err
	}
	switch {
	case payload.Rows != nil:
		return payload.Rows, nil
	case payload.Data != nil:
		return payload.Data, nil
	default:
		return payload.Items, nil
	}
}
