package domain

import (
	"context"
	"time"
)

type RiderStatus string

const (
	RiderStatusPending  RiderStatus = "pending"
	RiderStatusActive   RiderStatus = "active"
	RiderStatusRejected RiderStatus = "rejected"
)

func (s RiderStatus) Valid() bool {
	switch s {
	case RiderStatusPending, RiderStatusActive, RiderStatusRejected:
		return true
	}
	return false
}

// Rider self-registers as pending and is activated by an admin. Only active
// riders in the order's thana are eligible for assignment.
type Rider struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Region       string      `json:"region"`
	District     string      `json:"district"`
	ServiceThana string      `json:"serviceThana"`
	Status       RiderStatus `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

type RiderRepository interface {
	Create(ctx context.Context, rider *Rider) error
	GetByID(ctx context.Context, id string) (*Rider, error)
	GetByEmail(ctx context.Context, email string) (*Rider, error)
	ListPending(ctx context.Context) ([]Rider, error)
	// ListAvailable returns active riders serving the given thana.
	// Ordering is unspecified.
	ListAvailable(ctx context.Context, thana string) ([]Rider, error)
	UpdateStatus(ctx context.Context, id string, status RiderStatus) error
}
