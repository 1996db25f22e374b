package gateway

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// StripeGateway opens a payment-intent session for the embedded card flow.
// The client completes the charge with the returned client token.
type StripeGateway struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewStripeGateway(secretKey, baseURL string, timeout time.Duration) *StripeGateway {
	if baseURL == "" {
		baseURL = "https://api.stripe.com/v1"
	}
	return &StripeGateway{
		secretKey: secretKey,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type paymentIntentResp struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *StripeGateway) Initiate(ctx context.Context, orderID string, amount float64) (*Session, error) {
	// Stripe amounts are integer minor units. Totals like 256.03 sit just
	// below the exact value in float64, so truncation would drop a poisha.
	form := url.Values{}
	form.Set("amount", fmt.Sprintf("%d", int64(math.Round(amount*100))))
	form.Set("currency", "bdt")
	form.Set("metadata[order_id]", orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var intent paymentIntentResp
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("stripe response decode failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := "unknown error"
		if intent.Error != nil {
			msg = intent.Error.Message
		}
		return nil, fmt.Errorf("stripe returned %d: %s", resp.StatusCode, msg)
	}

	return &Session{
		OrderID:     orderID,
		Amount:      amount,
		ClientToken: intent.ClientSecret,
	}, nil
}
