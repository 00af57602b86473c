package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/pkg/domain/model"
)

var (
	ErrOrderCannotBeModified = errors.New("order cannot be modified in its current state")
	ErrOrderIsEmpty          = errors.New("cannot process an empty order")
	ErrInvalidQuantity       = errors.New("quantity must be a positive number")
)

// Session is the caller-scoped storage holding the cart identifier.
type Session interface {
	CartID() (uuid.UUID, bool)
	SetCartID(id uuid.UUID)
}

type CartService interface {
	ResolveCart(ctx context.Context, session Session) (*model.Order, error)
	AddLine(ctx context.Context, orderID, itemID uuid.UUID, delta int) (*model.Order, error)
	RemoveLine(ctx context.Context, orderID, itemID uuid.UUID) (*model.Order, error)
	DecreaseLine(ctx context.Context, orderID, itemID uuid.UUID) (*model.Order, error)
	ApplyDiscount(ctx context.Context, orderID uuid.UUID, code string) (*model.Order, error)
	RemoveDiscount(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
}

func NewCartService(
	orders model.OrderRepository,
	items model.ItemRepository,
	discounts model.DiscountRepository,
	dispatcher EventDispatcher,
) CartService {
	return &cartService{orders: orders, items: items, discounts: discounts, dispatcher: dispatcher}
}

type cartService struct {
	orders     model.OrderRepository
	items      model.ItemRepository
	discounts  model.DiscountRepository
	dispatcher EventDispatcher
}

func (s *cartService) ResolveCart(ctx context.Context, session Session) (*model.Order, error) {
	if cartID, ok := session.CartID(); ok {
		order, err := s.orders.FindOpen(ctx, cartID)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, model.ErrOrderNotFound) {
			return nil, err
		}
	}

	orderID, err := s.orders.NextID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	order := &model.Order{
		ID:        orderID,
		Status:    model.Open,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	session.SetCartID(orderID)

	dispatchAll(s.dispatcher, model.CartCreated{OrderID: orderID})
	return order, nil
}

func (s *cartService) AddLine(ctx context.Context, orderID, itemID uuid.UUID, delta int) (*model.Order, error) {
	if delta < 1 {
		return nil, ErrInvalidQuantity
	}
	order, err := s.findOpen(ctx, orderID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.Find(ctx, itemID)
	if err != nil {
		return nil, err
	}

	lineID, err := s.orders.NextID()
	if err != nil {
		return nil, err
	}
	line, err := order.AddLine(lineID, *item, delta)
	if err != nil {
		return nil, err
	}
	if err := updateOrder(ctx, s.orders, order); err != nil {
		return nil, err
	}

	dispatchAll(s.dispatcher, model.LineAdded{OrderID: order.ID, ItemID: itemID, Quantity: line.Quantity})
	return order, nil
}

func (s *cartService) RemoveLine(ctx context.Context, orderID, itemID uuid.UUID) (*model.Order, error) {
	order, err := s.findOpen(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := order.RemoveLine(itemID); err != nil {
		return nil, err
	}
	if err := updateOrder(ctx, s.orders, order); err != nil {
		return nil, err
	}

	dispatchAll(s.dispatcher, model.LineRemoved{OrderID: order.ID, ItemID: itemID})
	return order, nil
}

func (s *cartService) DecreaseLine(ctx context.Context, orderID, itemID uuid.UUID) (*model.Order, error) {
	order, err := s.findOpen(ctx, orderID)
	if err != nil {
		return nil, err
	}
	quantity, err := order.DecreaseLine(itemID)
	if err != nil {
		return nil, err
	}
	if err := updateOrder(ctx, s.orders, order); err != nil {
		return nil, err
	}

	dispatchAll(s.dispatcher, model.LineDecreased{OrderID: order.ID, ItemID: itemID, Quantity: quantity})
	return order, nil
}

func (s *cartService) ApplyDiscount(ctx context.Context, orderID uuid.UUID, code string) (*model.Order, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, model.ErrDiscountCodeRequired
	}
	order, err := s.findOpen(ctx, orderID)
	if err != nil {
		return nil, err
	}
	discount, err := s.discounts.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	order.Discount = discount
	if err := updateOrder(ctx, s.orders, order); err != nil {
		return nil, err
	}

	dispatchAll(s.dispatcher, model.DiscountApplied{
		OrderID:    order.ID,
		DiscountID: discount.ID,
		Code:       discount.Code,
		Percent:    discount.Percent,
	})
	return order, nil
}

func (s *cartService) RemoveDiscount(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.findOpen(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Discount == nil {
		return order, nil
	}

	removed := order.Discount
	order.Discount = nil
	if err := updateOrder(ctx, s.orders, order); err != nil {
		return nil, err
	}

	dispatchAll(s.dispatcher, model.DiscountRemoved{OrderID: order.ID, DiscountID: removed.ID})
	return order, nil
}

func (s *cartService) findOpen(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	return findOpenOrder(ctx, s.orders, orderID)
}

// findOpenOrder loads an order and rejects it when it has already been paid.
func findOpenOrder(ctx context.Context, orders model.OrderRepository, orderID uuid.UUID) (*model.Order, error) {
	order, err := orders.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.Open {
		return nil, ErrOrderCannotBeModified
	}
	return order, nil
}

func updateOrder(ctx context.Context, orders model.OrderRepository, order *model.Order) error {
	order.Version++
	order.UpdatedAt = time.Now().UTC()
	return orders.Update(ctx, order)
}
