package service

import (
	"context"

	"github.com/google/uuid"

	"storefront/pkg/domain/model"
)

// OrderSummary is an order together with the amounts shown to the customer.
type OrderSummary struct {
	Order    *model.Order
	Currency model.Currency
	model.Breakdown
}

func Summarize(order *model.Order) OrderSummary {
	return OrderSummary{
		Order:     order,
		Currency:  order.Currency(),
		Breakdown: model.Price(order),
	}
}

type OrderService interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	MarkOrderAsPaid(ctx context.Context, orderID uuid.UUID) error
	AssignTax(ctx context.Context, orderID, taxID uuid.UUID) (*model.Order, error)
	ClearTax(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
}

func NewOrderService(orders model.OrderRepository, taxes model.TaxRepository, dispatcher EventDispatcher) OrderService {
	return &orderService{orders: orders, taxes: taxes, dispatcher: dispatcher}
}

type orderService struct {
	orders     model.OrderRepository
	taxes      model.TaxRepository
	dispatcher EventDispatcher
}

func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	return s.orders.Find(ctx, orderID)
}

func (s *orderService) MarkOrderAsPaid(ctx context.Context, orderID uuid.UUID) error {
	order, err := findOpenOrder(ctx, s.orders, orderID)
	if err != nil {
		return err
	}
	if len(order.Lines) == 0 {
		return ErrOrderIsEmpty
	}

	order.Status = model.Paid
	if err := updateOrder(ctx, s.orders, order); err != nil {
		return err
	}

	dispatchAll(s.dispatcher, model.OrderPaid{
		OrderID:    order.ID,
		TotalCents: model.Total(order),
		Currency:   order.Currency(),
	})
	return nil
}

func (s *orderService) AssignTax(ctx context.Context, orderID, taxID uuid.UUID) (*model.Order, error) {
	order, err := findOpenOrder(ctx, s.orders, orderID)
	if err != nil {
		return nil, err
	}
	tax, err := s.taxes.Find(ctx, taxID)
	if err != nil {
		return nil, err
	}

	order.Tax = tax
	if err := updateOrder(ctx, s.orders, order); err != nil {
		return nil, err
	}

	dispatchAll(s.dispatcher, model.TaxAssigned{OrderID: order.ID, TaxID: tax.ID, Percent: tax.Percent})
	return order, nil
}

func (s *orderService) ClearTax(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := findOpenOrder(ctx, s.orders, orderID)
	if err != nil {
		return nil, err
	}
	if order.Tax == nil {
		return order, nil
	}

	order.Tax = nil
	if err := updateOrder(ctx, s.orders, order); err != nil {
		return nil, err
	}

	dispatchAll(s.dispatcher, model.TaxCleared{OrderID: order.ID})
	return order, nil
}
