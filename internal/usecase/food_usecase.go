package usecase

import (
	"context"
	"time"

	"samkitchen-backend/internal/domain"
	"samkitchen-backend/pkg/cache"
)

const foodListCacheKey = "foods:all"

// FoodUsecase serves the public catalog. Listings are cached; order creation
// bypasses this path entirely and reads the catalog point-in-time.
type FoodUsecase struct {
	foods    domain.FoodRepository
	cache    cache.CacheService
	cacheTTL time.Duration
}

func NewFoodUsecase(foods domain.FoodRepository, c cache.CacheService, cacheTTL time.Duration) *FoodUsecase {
	return &FoodUsecase{foods: foods, cache: c, cacheTTL: cacheTTL}
}

func (u *FoodUsecase) List(ctx context.Context) ([]domain.Food, error) {
	if cached, ok := u.cache.Get(foodListCacheKey); ok {
		if foods, ok := cached.([]domain.Food); ok {
			return foods, nil
		}
	}

	foods, err := u.foods.List(ctx)
	if err != nil {
		return nil, err
	}
	u.cache.Set(foodListCacheKey, foods, u.cacheTTL)
	return foods, nil
}

func (u *FoodUsecase) Get(ctx context.Context, id string) (*domain.Food, error) {
	return u.foods.GetByID(ctx, id)
}
