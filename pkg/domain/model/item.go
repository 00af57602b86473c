package model

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound        = errors.New("item not found")
	ErrItemNameRequired    = errors.New("item name is required")
	ErrInvalidPrice        = errors.New("item price must be between zero and the maximum order amount")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

type Currency string

const (
	USD Currency = "usd"
	KZT Currency = "kzt"
)

// DefaultCurrency is used for orders without lines.
const DefaultCurrency = USD

func ParseCurrency(s string) (Currency, error) {
	switch c := Currency(strings.ToLower(strings.TrimSpace(s))); c {
	case USD, KZT:
		return c, nil
	default:
		return "", ErrUnsupportedCurrency
	}
}

func (c Currency) String() string { return string(c) }

// Upper is the ISO form shown to customers.
func (c Currency) Upper() string { return strings.ToUpper(string(c)) }

type Item struct {
	ID          uuid.UUID
	Name        string
	Description string
	PriceCents  int64
	Currency    Currency
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewItem(id uuid.UUID, name, description string, priceCents int64, currency Currency, imageURL string) (*Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrItemNameRequired
	}
	if priceCents < 0 || priceCents > MaxOrderAmount {
		return nil, ErrInvalidPrice
	}
	if _, err := ParseCurrency(string(currency)); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Item{
		ID:          id,
		Name:        name,
		Description: description,
		PriceCents:  priceCents,
		Currency:    currency,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// PriceDisplay returns the price in major units (cents / 100).
func (i Item) PriceDisplay() float64 {
	return MajorUnits(i.PriceCents).InexactFloat64()
}

type ItemRepository interface {
	NextID() (uuid.UUID, error)
	Create(ctx context.Context, item *Item) error
	Find(ctx context.Context, id uuid.UUID) (*Item, error)
	List(ctx context.Context) ([]Item, error)
}
