package v1

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"samkitchen-backend/internal/domain"
	"samkitchen-backend/internal/usecase"
	"samkitchen-backend/pkg/logger"
	"samkitchen-backend/pkg/utils"
)

type PaymentHandler struct {
	paymentUC *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{paymentUC: uc}
}

type initiatePaymentReq struct {
	OrderID       string `json:"orderId"`
	PaymentMethod string `json:"paymentMethod"`
}

// Initiate opens a gateway session for a pending unpaid order. The response
// carries either a client token (card) or a redirect URL (hosted page),
// depending on the method.
func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req initiatePaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		utils.WriteError(w, http.StatusBadRequest, "orderId and paymentMethod required")
		return
	}

	session, err := h.paymentUC.Initiate(r.Context(), actor, req.OrderID, req.PaymentMethod)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: session})
}

// Confirm is idempotent per order: a repeat confirmation returns the payment
// recorded the first time, with 200 instead of an error.
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req usecase.ConfirmPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := h.paymentUC.Confirm(r.Context(), actor, req)
	if errors.Is(err, domain.ErrAlreadyPaid) {
		existing, getErr := h.paymentUC.GetByOrder(r.Context(), actor, req.OrderID)
		if getErr != nil {
			writeDomainError(w, r, getErr)
			return
		}
		utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "order already paid", Data: existing})
		return
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	logger.WithContext(r.Context()).Info().
		Str("order_id", payment.OrderID).
		Str("transaction_id", payment.TransactionID).
		Float64("amount", payment.Amount).
		Msg("payment confirmed")

	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "payment confirmed", Data: payment})
}

func (h *PaymentHandler) GetByOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	payment, err := h.paymentUC.GetByOrder(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: payment})
}
