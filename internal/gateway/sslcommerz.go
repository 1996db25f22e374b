package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// SSLCommerzGateway opens a hosted checkout session; the customer is
// redirected to the gateway page and returns via the configured callbacks.
type SSLCommerzGateway struct {
	storeID     string
	storePass   string
	baseURL     string
	callbackURL string
	httpClient  *http.Client
}

func NewSSLCommerzGateway(storeID, storePass, baseURL, callbackURL string, timeout time.Duration) *SSLCommerzGateway {
	if baseURL == "" {
		baseURL = "https://sandbox.sslcommerz.com"
	}
	return &SSLCommerzGateway{
		storeID:     storeID,
		storePass:   storePass,
		baseURL:     baseURL,
		callbackURL: callbackURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type sslSessionResp struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

func (g *SSLCommerzGateway) Initiate(ctx context.Context, orderID string, amount float64) (*Session, error) {
	form := url.Values{}
	form.Set("store_id", g.storeID)
	form.Set("store_passwd", g.storePass)
	form.Set("total_amount", fmt.Sprintf("%.2f", amount))
	form.Set("currency", "BDT")
	form.Set("tran_id", orderID)
	form.Set("success_url", g.callbackURL+"/success")
	form.Set("fail_url", g.callbackURL+"/fail")
	form.Set("cancel_url", g.callbackURL+"/cancel")
	form.Set("product_category", "food")
	form.Set("shipping_method", "Courier")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/gwprocess/v4/api.php", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sslcommerz request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var session sslSessionResp
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("sslcommerz response decode failed: %w", err)
	}
	if session.Status != "SUCCESS" || session.GatewayPageURL == "" {
		return nil, fmt.Errorf("sslcommerz session rejected: %s", session.FailedReason)
	}

	return &Session{
		OrderID:     orderID,
		Amount:      amount,
		RedirectURL: session.GatewayPageURL,
	}, nil
}
