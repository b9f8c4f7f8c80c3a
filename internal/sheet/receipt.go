package sheet

import (
	"fmt"
	"net/url"
)

// Receipt print formats supported by the receipt script.
const (
	ReceiptFormatA4            = "a4"
	ReceiptFormatPOS58         = "pos58"
	ReceiptFormatPOS58Dentomex = "pos58_dentomex"
	ReceiptFormatSimple        = "simple"
)

var receiptFormats = map[string]bool{
	ReceiptFormatA4:            true,
	ReceiptFormatPOS58:         true,
	ReceiptFormatPOS58Dentomex: true,
	ReceiptFormatSimple:        true,
}

// ReceiptURL builds the fire-and-forget receipt link the SPA opens in a new
// tab. Nothing awaits or parses the response.
func ReceiptURL(endpoint Endpoint, orderID, format, brand string) (string, error) {
	if orderID == "" {
		return "", fmt.Errorf("order id is required")
	}
	if !receiptFormats[format] {
		return "", fmt.Errorf("unknown receipt format %q", format)
	}
	u, err := url.Parse(endpoint.URL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", endpoint.Token)
	q.Set("id", orderID)
	q.Set("format", format)
	if brand != "" {
		q.Set("brand", brand)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
