// Package gateway abstracts the external payment backends behind one
// initiation contract. Confirmation idempotency lives in the payment
// usecase; the gateways only open sessions.
package gateway

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnsupportedMethod = errors.New("unsupported payment method")

const (
	MethodCard = "card"
	MethodSSL  = "sslcommerz"
)

// Session is what the client needs to continue the payment: a client token
// for the embedded card flow or a redirect URL for the hosted flow.
type Session struct {
	OrderID     string  `json:"orderId"`
	Amount      float64 `json:"amount"`
	ClientToken string  `json:"clientToken,omitempty"`
	RedirectURL string  `json:"redirectUrl,omitempty"`
}

type Gateway interface {
	Initiate(ctx context.Context, orderID string, amount float64) (*Session, error)
}

// Registry selects a gateway by payment method name.
type Registry map[string]Gateway

func (r Registry) ForMethod(method string) (Gateway, error) {
	gw, ok := r[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
	return gw, nil
}
