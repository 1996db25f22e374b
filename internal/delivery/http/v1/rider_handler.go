package v1

import (
	"net/http"

	"github.com/goccy/go-json"

	"samkitchen-backend/internal/domain"
	"samkitchen-backend/internal/usecase"
	"samkitchen-backend/pkg/utils"
)

type RiderHandler struct {
	riderUC   *usecase.RiderUsecase
	assignUC  *usecase.AssignmentUsecase
	cashoutUC *usecase.CashoutUsecase
}

func NewRiderHandler(riderUC *usecase.RiderUsecase, assignUC *usecase.AssignmentUsecase, cashoutUC *usecase.CashoutUsecase) *RiderHandler {
	return &RiderHandler{
		riderUC:   riderUC,
		assignUC:  assignUC,
		cashoutUC: cashoutUC,
	}
}

// Register is public: anyone can apply. The rider starts as pending and
// cannot be assigned orders until an admin activates them.
func (h *RiderHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req usecase.RegisterRiderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rider, err := h.riderUC.Register(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, domain.Response{Success: true, Message: "registration received", Data: rider})
}

func (h *RiderHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	riders, err := h.riderUC.ListPending(r.Context(), actor)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: riders})
}

type riderStatusReq struct {
	Status string `json:"status"`
}

func (h *RiderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req riderStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := domain.RiderStatus(req.Status)
	if !status.Valid() {
		utils.WriteError(w, http.StatusBadRequest, "status must be pending, active or rejected")
		return
	}

	rider, err := h.riderUC.SetStatus(r.Context(), actor, r.PathValue("id"), status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: rider})
}

// ListAvailable returns active riders serving the requested thana, for the
// admin's assignment picker.
func (h *RiderHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	thana := r.URL.Query().Get("thana")
	if thana == "" {
		utils.WriteError(w, http.StatusBadRequest, "thana query parameter required")
		return
	}

	riders, err := h.assignUC.ListAvailable(r.Context(), actor, thana)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: riders})
}

func (h *RiderHandler) Deliveries(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	completed := r.URL.Query().Get("completed") == "true"
	orders, err := h.riderUC.Deliveries(r.Context(), actor, completed)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: orders})
}

func (h *RiderHandler) PendingEarnings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	records, err := h.cashoutUC.PendingEarnings(r.Context(), actor)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: records})
}

// RequestCashout settles everything pending for the rider in one batch.
// Calling it with nothing pending succeeds with a zero result.
func (h *RiderHandler) RequestCashout(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.cashoutUC.RequestCashout(r.Context(), actor)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "cashout settled", Data: result})
}
