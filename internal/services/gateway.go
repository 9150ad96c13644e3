package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/models"
)

// GatewayClient talks to the regional mobile-money / card gateway.
type GatewayClient struct {
	baseURL    string
	secretKey  string
	currency   string
	httpClient *http.Client
	now        func() time.Time
}

func NewGatewayClient(baseURL, secretKey, currency string) *GatewayClient {
	return &GatewayClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		currency:   currency,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

// NewReference builds the locally generated transaction reference.
func NewReference(t time.Time) string {
	return fmt.Sprintf("KG-%d", t.UnixMilli())
}

// Initiate sends a charge request for the donation.
func (c *GatewayClient) Initiate(ctx context.Context, d *models.Donation) (*Initiation, error) {
	if d.Phone == "" {
		return nil, ErrPhoneRequired
	}
	txRef := NewReference(c.now())

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fields := [][2]string{
		{"amount", d.Amount.StringFixed(2)},
		{"currency", c.currency},
		{"tx_ref", txRef},
		{"phone_number", d.Phone},
		{"email", d.Email},
		{"fullname", d.FullName},
	}
	for _, f := range fields {
		if err := form.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("failed to build charge request: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to build charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/charges", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create charge request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	log.Printf("Gateway charge request: tx_ref=%s, amount=%s %s, phone=%s", txRef, d.Amount.StringFixed(2), c.currency, maskPhone(d.Phone))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway charge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		log.Printf("Gateway charge failed with status %d: %s", resp.StatusCode, string(raw))
		return nil, fmt.Errorf("gateway error: status %d: %s", resp.StatusCode, string(raw))
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode charge response: %w", err)
	}

	return &Initiation{TxRef: txRef, Payload: payload}, nil
}

// Confirm verifies a charge by its reference. A "success" status, either
// top-level or under data, maps to completed; any other status or a 4xx
// answer maps to failed.
func (c *GatewayClient) Confirm(ctx context.Context, txRef string) (models.DonationStatus, error) {
	endpoint := c.baseURL + "/v1/transactions/verify_by_reference?" + url.Values{"tx_ref": {txRef}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway verify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gateway error: status %d: %s", resp.StatusCode, string(raw))
	}
	if resp.StatusCode >= 400 {
		log.Printf("Gateway rejected verification of %s with status %d", txRef, resp.StatusCode)
		return models.DonationFailed, nil
	}

	var result struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode verify response: %w", err)
	}

	// data is an object on success and may be anything else on error.
	var data struct {
		Status string `json:"status"`
	}
	if len(result.Data) > 0 {
		_ = json.Unmarshal(result.Data, &data)
	}

	log.Printf("Gateway verification for %s: status=%s, data.status=%s", txRef, result.Status, data.Status)
	if result.Status == "success" || data.Status == "success" {
		return models.DonationCompleted, nil
	}
	return models.DonationFailed, nil
}
