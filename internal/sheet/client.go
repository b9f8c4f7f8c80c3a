package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// The sheet endpoints publish no timeout guidance; anything past this is a
// failure and rolls back whatever was optimistically applied.
const DefaultTimeout = 20 * time.Second

var (
	ErrRemoteRejected    = errors.New("remote endpoint rejected the request")
	ErrMalformedResponse = errors.New("remote endpoint returned a malformed response")
)

// RemoteError carries the server-provided message when the endpoint said no.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return ErrRemoteRejected.Error()
	}
	return "remote endpoint rejected the request: " + e.Message
}

func (e *RemoteError) Unwrap() error { return ErrRemoteRejected }

// Endpoint is one remote sheet handler: its URL plus the access token that
// handler expects. Resolved from config at startup, never hard-coded.
type Endpoint struct {
	URL   string
	Token string
}

// Client is the shared HTTP transport for every sheet endpoint.
type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// getJSON issues a GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// postJSON issues a POST with a JSON body and returns the raw response body
// when the transport-level exchange succeeded with a 2xx.
func (c *Client) postJSON(ctx context.Context, url string, payload any) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, &RemoteError{Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	return body, nil
}

// checkOutcome applies the per-endpoint success contract to a response body.
// The endpoints disagree on the flag name: some return "ok", some "success",
// the oldest signal success purely via HTTP 200. A body that is not JSON is
// always a failure regardless of status.
func checkOutcome(body []byte, implicitOK bool) error {
	var outcome struct {
		OK      *bool  `json:"ok"`
		Success *bool  `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &outcome); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	flag := outcome.OK
	if flag == nil {
		flag = outcome.Success
	}
	if flag == nil {
		if implicitOK {
			return nil
		}
		return &RemoteError{Message: "response carried no success flag"}
	}
	if !*flag {
		msg := outcome.Message
		if msg == "" {
			msg = outcome.Error
		}
		return &RemoteError{Message: msg}
	}
	return nil
}
