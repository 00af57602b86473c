package model

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderLineNotFound = errors.New("order line not found")
	ErrCurrencyMismatch  = errors.New("item currency differs from the currency of the cart")
	ErrOptimisticLock    = errors.New("order has been modified by another transaction")

	ErrQuantityOutOfRange  = errors.New("line quantity is out of range")
	ErrOrderAmountTooLarge = errors.New("order amount is too large")
)

const (
	// MaxLineQuantity fits the narrowest quantity column of the supported databases.
	MaxLineQuantity = math.MaxInt32
	// MaxOrderAmount bounds a subtotal so that a 100% tax still fits in int64.
	MaxOrderAmount int64 = math.MaxInt64 / 200
)

type OrderStatus int

const (
	Open OrderStatus = iota
	Paid
)

func (s OrderStatus) String() string {
	switch s {
	case Open:
		return "open"
	case Paid:
		return "paid"
	default:
		return "unknown"
	}
}

type Order struct {
	ID        uuid.UUID
	Status    OrderStatus
	Discount  *Discount
	Tax       *Tax
	Lines     []Line
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Line is one (item, quantity) entry of an order. Item is the live catalog row.
type Line struct {
	ID       uuid.UUID
	Item     Item
	Quantity int
}

func (o *Order) IsPaid() bool { return o.Status == Paid }

// Currency is taken from the first line; orders are single-currency.
func (o *Order) Currency() Currency {
	if len(o.Lines) == 0 {
		return DefaultCurrency
	}
	return o.Lines[0].Item.Currency
}

func (o *Order) FindLine(itemID uuid.UUID) (int, bool) {
	for i, line := range o.Lines {
		if line.Item.ID == itemID {
			return i, true
		}
	}
	return -1, false
}

// AddLine increments the quantity of the line for item by delta, creating the
// line with quantity max(delta, 1) when it does not exist yet. The order is
// left untouched when the new quantity exceeds MaxLineQuantity or the subtotal
// would exceed MaxOrderAmount.
func (o *Order) AddLine(lineID uuid.UUID, item Item, delta int) (*Line, error) {
	if len(o.Lines) > 0 && o.Currency() != item.Currency {
		return nil, ErrCurrencyMismatch
	}
	if delta < 1 {
		delta = 1
	}

	i, exists := o.FindLine(item.ID)
	current, others := 0, Subtotal(o)
	if exists {
		current = o.Lines[i].Quantity
		others -= lineAmount(o.Lines[i])
	}
	if delta > MaxLineQuantity-current {
		return nil, ErrQuantityOutOfRange
	}
	quantity := current + delta
	if item.PriceCents > 0 && int64(quantity) > (MaxOrderAmount-others)/item.PriceCents {
		return nil, ErrOrderAmountTooLarge
	}

	if exists {
		o.Lines[i].Quantity = quantity
		o.Lines[i].Item = item
		return &o.Lines[i], nil
	}
	o.Lines = append(o.Lines, Line{ID: lineID, Item: item, Quantity: quantity})
	return &o.Lines[len(o.Lines)-1], nil
}

func (o *Order) RemoveLine(itemID uuid.UUID) (Line, error) {
	i, ok := o.FindLine(itemID)
	if !ok {
		return Line{}, ErrOrderLineNotFound
	}
	removed := o.Lines[i]
	o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
	return removed, nil
}

// DecreaseLine drops the quantity by one; a line at quantity 1 is removed.
// The returned quantity is 0 when the line was removed.
func (o *Order) DecreaseLine(itemID uuid.UUID) (int, error) {
	i, ok := o.FindLine(itemID)
	if !ok {
		return 0, ErrOrderLineNotFound
	}
	if o.Lines[i].Quantity > 1 {
		o.Lines[i].Quantity--
		return o.Lines[i].Quantity, nil
	}
	o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
	return 0, nil
}

type OrderRepository interface {
	NextID() (uuid.UUID, error)
	Create(ctx context.Context, order *Order) error
	Find(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindOpen returns ErrOrderNotFound for paid orders.
	FindOpen(ctx context.Context, id uuid.UUID) (*Order, error)
	Update(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}
