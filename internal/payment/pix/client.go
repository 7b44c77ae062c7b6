package pix

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

var (
	ErrMissingCredentials = errors.New("pix provider credentials not configured")
	ErrProviderFailure    = errors.New("pix provider request failed")
)

// chargeExpiration is fixed by the storefront: every PIX charge is payable
// for one hour.
const chargeExpiration = 3600

type Config struct {
	ClientID     string
	ClientSecret string
	Sandbox      bool
	// WebhookURL is where the provider pushes payment-status notifications.
	WebhookURL string
	// BaseURL overrides the provider endpoint, used by tests.
	BaseURL string
}

type Charge struct {
	ID         string  `json:"id"`
	Amount     float64 `json:"amount"`
	QRCode     string  `json:"qrcode"`
	QRCodeText string  `json:"qrcode_text"`
	Status     string  `json:"status"`
}

type Client struct {
	httpClient *http.Client
	cfg        Config
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[*Charge]
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		host := "api.efi.com.br"
		if cfg.Sandbox {
			host = "sandbox." + host
		}
		baseURL = "https://" + host
	}

	breaker := gobreaker.NewCircuitBreaker[*Charge](gobreaker.Settings{
		Name:    "pix-provider",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cfg:        cfg,
		baseURL:    baseURL,
		breaker:    breaker,
	}, nil
}

type createChargeRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Expiration  int     `json:"expiration"`
	WebhookURL  string  `json:"webhook_url"`
}

// CreateCharge mints a PIX charge with the provider. Calls run through a
// circuit breaker so a dead provider fails fast instead of tying up checkout.
func (c *Client) CreateCharge(ctx context.Context, amount float64, description string) (*Charge, error) {
	return c.breaker.Execute(func() (*Charge, error) {
		return c.createCharge(ctx, amount, description)
	})
}

func (c *Client) createCharge(ctx context.Context, amount float64, description string) (*Charge, error) {
	body, err := json.Marshal(createChargeRequest{
		Amount:      amount,
		Description: description,
		Expiration:  chargeExpiration,
		WebhookURL:  c.cfg.WebhookURL,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payments/pix", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("charge request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrProviderFailure, resp.StatusCode)
	}

	var charge Charge
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return nil, fmt.Errorf("decode charge response: %w", err)
	}
	return &charge, nil
}
