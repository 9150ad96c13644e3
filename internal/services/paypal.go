package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/models"
)

type PayPalConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Currency     string
	ReturnURL    string
	CancelURL    string
}

// PayPalClient creates and captures PayPal checkout orders. Access tokens
// come from the client-credentials grant and are cached by the oauth2
// transport until they expire.
type PayPalClient struct {
	baseURL    string
	currency   string
	returnURL  string
	cancelURL  string
	httpClient *http.Client
}

func NewPayPalClient(ctx context.Context, cfg PayPalConfig) *PayPalClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + "/v1/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: 10 * time.Second})
	httpClient := cc.Client(ctx)
	httpClient.Timeout = 10 * time.Second

	return &PayPalClient{
		baseURL:    baseURL,
		currency:   cfg.Currency,
		returnURL:  cfg.ReturnURL,
		cancelURL:  cfg.CancelURL,
		httpClient: httpClient,
	}
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalPurchaseUnit struct {
	CustomID    string       `json:"custom_id,omitempty"`
	Description string       `json:"description,omitempty"`
	Amount      paypalAmount `json:"amount"`
}

type paypalApplicationContext struct {
	ReturnURL string `json:"return_url,omitempty"`
	CancelURL string `json:"cancel_url,omitempty"`
}

type paypalOrderRequest struct {
	Intent             string                    `json:"intent"`
	PurchaseUnits      []paypalPurchaseUnit      `json:"purchase_units"`
	ApplicationContext *paypalApplicationContext `json:"application_context,omitempty"`
}

type paypalLink struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

type paypalOrderResponse struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Links  []paypalLink `json:"links"`
}

// Initiate creates an order with CAPTURE intent. The approval link is
// empty when PayPal omits the "approve" relation.
func (c *PayPalClient) Initiate(ctx context.Context, d *models.Donation) (*Initiation, error) {
	order := paypalOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypalPurchaseUnit{{
			CustomID:    d.ID.Hex(),
			Description: donationDescription(d.Type),
			Amount: paypalAmount{
				CurrencyCode: c.currency,
				Value:        d.Amount.StringFixed(2),
			},
		}},
	}
	if c.returnURL != "" || c.cancelURL != "" {
		order.ApplicationContext = &paypalApplicationContext{ReturnURL: c.returnURL, CancelURL: c.cancelURL}
	}

	reqBody, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/checkout/orders", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paypal order request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		log.Printf("PayPal order creation failed with status %d: %s", resp.StatusCode, string(raw))
		return nil, fmt.Errorf("paypal error: status %d: %s", resp.StatusCode, string(raw))
	}

	var created paypalOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("paypal order response carried no id")
	}

	log.Printf("PayPal order created: ID=%s, Status=%s", created.ID, created.Status)
	return &Initiation{
		TxRef:       created.ID,
		ApprovalURL: created.link("approve"),
		Payload:     created,
	}, nil
}

// Confirm captures the order. "COMPLETED" maps to completed; any other
// status or a 4xx answer maps to failed.
func (c *PayPalClient) Confirm(ctx context.Context, orderID string) (models.DonationStatus, error) {
	endpoint := c.baseURL + "/v2/checkout/orders/" + url.PathEscape(orderID) + "/capture"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create capture request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal capture request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("paypal error: status %d: %s", resp.StatusCode, string(raw))
	}
	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		log.Printf("PayPal rejected capture of %s with status %d: %s", orderID, resp.StatusCode, string(raw))
		return models.DonationFailed, nil
	}

	var captured paypalOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&captured); err != nil {
		return "", fmt.Errorf("failed to decode capture response: %w", err)
	}

	log.Printf("PayPal capture for %s: status=%s", orderID, captured.Status)
	if captured.Status == "COMPLETED" {
		return models.DonationCompleted, nil
	}
	return models.DonationFailed, nil
}

func (o paypalOrderResponse) link(rel string) string {
	for _, l := range o.Links {
		if l.Rel == rel {
			return l.Href
		}
	}
	return ""
}

func donationDescription(t models.DonationType) string {
	if t == models.DonationMonthly {
		return "Monthly donation"
	}
	return "One-time donation"
}
