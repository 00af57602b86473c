package service

import (
	"context"

	"github.com/google/uuid"

	"storefront/pkg/domain/model"
)

// AdjustmentService manages the discount and tax rows orders refer to.
type AdjustmentService interface {
	CreateDiscount(ctx context.Context, name, code string, percent int) (*model.Discount, error)
	DeleteDiscount(ctx context.Context, discountID uuid.UUID) error
	CreateTax(ctx context.Context, name string, percent int) (*model.Tax, error)
	DeleteTax(ctx context.Context, taxID uuid.UUID) error
}

func NewAdjustmentService(discounts model.DiscountRepository, taxes model.TaxRepository) AdjustmentService {
	return &adjustmentService{discounts: discounts, taxes: taxes}
}

type adjustmentService struct {
	discounts model.DiscountRepository
	taxes     model.TaxRepository
}

func (s *adjustmentService) CreateDiscount(ctx context.Context, name, code string, percent int) (*model.Discount, error) {
	discountID, err := s.discounts.NextID()
	if err != nil {
		return nil, err
	}
	discount, err := model.NewDiscount(discountID, name, code, percent)
	if err != nil {
		return nil, err
	}
	if discount.Code != "" {
		if _, err := s.discounts.FindByCode(ctx, discount.Code); err == nil {
			return nil, model.ErrDiscountCodeTaken
		}
	}
	if err := s.discounts.Create(ctx, discount); err != nil {
		return nil, err
	}
	return discount, nil
}

func (s *adjustmentService) DeleteDiscount(ctx context.Context, discountID uuid.UUID) error {
	return s.discounts.Delete(ctx, discountID)
}

func (s *adjustmentService) CreateTax(ctx context.Context, name string, percent int) (*model.Tax, error) {
	taxID, err := s.taxes.NextID()
	if err != nil {
		return nil, err
	}
	tax, err := model.NewTax(taxID, name, percent)
	if err != nil {
		return nil, err
	}
	if err := s.taxes.Create(ctx, tax); err != nil {
		return nil, err
	}
	return tax, nil
}

func (s *adjustmentService) DeleteTax(ctx context.Context, taxID uuid.UUID) error {
	return s.taxes.Delete(ctx, taxID)
}
