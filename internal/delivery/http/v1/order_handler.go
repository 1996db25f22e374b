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

type OrderHandler struct {
	orderUC   *usecase.OrderUsecase
	assignUC  *usecase.AssignmentUsecase
	cashoutUC *usecase.CashoutUsecase
}

func NewOrderHandler(orderUC *usecase.OrderUsecase, assignUC *usecase.AssignmentUsecase, cashoutUC *usecase.CashoutUsecase) *OrderHandler {
	return &OrderHandler{
		orderUC:   orderUC,
		assignUC:  assignUC,
		cashoutUC: cashoutUC,
	}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req usecase.CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderUC.Create(r.Context(), actor, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	logger.WithContext(r.Context()).Info().
		Str("order_id", order.ID).
		Float64("total", order.Total).
		Msg("order created")

	utils.WriteJSON(w, http.StatusCreated, domain.Response{Success: true, Data: order})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	order, err := h.orderUC.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: order})
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	filter := domain.OrderFilter{
		Page:          utils.ParseInt(q.Get("page"), 1),
		Limit:         utils.ParseInt(q.Get("limit"), 20),
		Status:        domain.OrderStatus(q.Get("status")),
		PaymentStatus: domain.PaymentState(q.Get("paymentStatus")),
		CustomerEmail: q.Get("email"),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Status != "" && !filter.Status.Valid() {
		utils.WriteError(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	orders, total, err := h.orderUC.List(r.Context(), actor, filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Data:    orders,
		Meta: domain.Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	})
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	order, err := h.orderUC.Cancel(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "order cancelled", Data: order})
}

type assignReq struct {
	RiderID string `json:"riderId"`
}

func (h *OrderHandler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req assignReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RiderID == "" {
		utils.WriteError(w, http.StatusBadRequest, "riderId required")
		return
	}

	order, err := h.assignUC.Assign(r.Context(), actor, r.PathValue("id"), req.RiderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	logger.WithContext(r.Context()).Info().
		Str("order_id", order.ID).
		Str("rider_id", req.RiderID).
		Msg("order assigned")

	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "order assigned", Data: order})
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateStatus moves an assigned order along picked -> delivered. Only those
// two targets are accepted here; assignment and cancellation have their own
// endpoints.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	to := domain.OrderStatus(req.Status)
	if to != domain.OrderStatusPicked && to != domain.OrderStatusDelivered {
		utils.WriteError(w, http.StatusBadRequest, "status must be picked or delivered")
		return
	}

	order, err := h.orderUC.UpdateDeliveryStatus(r.Context(), actor, r.PathValue("id"), to)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: order})
}

func (h *OrderHandler) Cashout(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	earning, err := h.cashoutUC.CashoutOrder(r.Context(), actor, r.PathValue("id"))
	if errors.Is(err, domain.ErrAlreadyCashedOut) {
		// Benign repeat: the money moved exactly once, tell the client so.
		utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "delivery already cashed out"})
		return
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Message: "delivery cashed out",
		Data:    map[string]float64{"earning": earning},
	})
}
