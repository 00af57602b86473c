package model

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDiscountNotFound     = errors.New("discount not found")
	ErrDiscountCodeRequired = errors.New("discount code is required")
	ErrDiscountCodeTaken    = errors.New("discount code is already in use")
	ErrTaxNotFound          = errors.New("tax not found")
	ErrInvalidPercent       = errors.New("percent must be between 0 and 100")
	ErrNameRequired         = errors.New("name is required")
)

type Discount struct {
	ID        uuid.UUID
	Name      string
	Code      string // empty when the discount has no promo code
	Percent   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Tax struct {
	ID        uuid.UUID
	Name      string
	Percent   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewDiscount(id uuid.UUID, name, code string, percent int) (*Discount, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if err := validatePercent(percent); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Discount{
		ID:        id,
		Name:      name,
		Code:      strings.TrimSpace(code),
		Percent:   percent,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func NewTax(id uuid.UUID, name string, percent int) (*Tax, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if err := validatePercent(percent); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Tax{
		ID:        id,
		Name:      name,
		Percent:   percent,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func validatePercent(percent int) error {
	if percent < 0 || percent > 100 {
		return ErrInvalidPercent
	}
	return nil
}

type DiscountRepository interface {
	NextID() (uuid.UUID, error)
	Create(ctx context.Context, discount *Discount) error
	Find(ctx context.Context, id uuid.UUID) (*Discount, error)
	FindByCode(ctx context.Context, code string) (*Discount, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TaxRepository interface {
	NextID() (uuid.UUID, error)
	Create(ctx context.Context, tax *Tax) error
	Find(ctx context.Context, id uuid.UUID) (*Tax, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
