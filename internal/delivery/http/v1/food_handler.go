package v1

import (
	"net/http"

	"samkitchen-backend/internal/usecase"
	"samkitchen-backend/pkg/utils"
)

type FoodHandler struct {
	foodUC *usecase.FoodUsecase
}

func NewFoodHandler(uc *usecase.FoodUsecase) *FoodHandler {
	return &FoodHandler{foodUC: uc}
}

func (h *FoodHandler) List(w http.ResponseWriter, r *http.Request) {
	foods, err := h.foodUC.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, foods)
}

func (h *FoodHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, http.StatusBadRequest, "food id required")
		return
	}

	food, err := h.foodUC.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, food)
}
