package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// EvidenceFile is one attachment forwarded to the evidence sheet.
type EvidenceFile struct {
	Name   string
	Reader io.Reader
}

// EvidenceRequest is the form the evidence endpoint expects.
type EvidenceRequest struct {
	Titulo string
	Tipo   string
	Fecha  string
	Nota   string
	Files  []EvidenceFile
}

// EvidenceResult is what the endpoint reports back. The row id comes back
// under "id" on newer deployments and "idEvidencia" on the original one.
type EvidenceResult struct {
	ID    string   `json:"id"`
	Files []string `json:"files"`
}

// EvidenceClient uploads evidence entries (photos, signed receipts) as
// multipart form data.
type EvidenceClient struct {
	client   *Client
	endpoint Endpoint
}

func NewEvidenceClient(client *Client, endpoint Endpoint) *EvidenceClient {
	return &EvidenceClient{client: client, endpoint: endpoint}
}

func (c *EvidenceClient) Create(ctx context.Context, req EvidenceRequest) (*EvidenceResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"token":  c.endpoint.Token,
		"action": "createEvidencia",
		"titulo": req.Titulo,
		"tipo":   req.Tipo,
		"fecha":  req.Fecha,
		"nota":   req.Nota,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	for i, f := range req.Files {
		part, err := w.CreateFormFile(fmt.Sprintf("file%d", i+1), f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.URL, &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteError{Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	if err := checkOutcome(body, false); err != nil {
		return nil, err
	}

	var payload struct {
		ID          string   `json:"id"`
		IDEvidencia string   `json:"idEvidencia"`
		Files       []string `json:"files"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	id := payload.ID
	if id == "" {
		id = payload.IDEvidencia
	}
	return &EvidenceResult{ID: id, Files: payload.Files}, nil
}
