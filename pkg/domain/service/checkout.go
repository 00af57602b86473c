package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"storefront/pkg/domain/model"
)

var (
	ErrOrderAlreadyPaid = errors.New("order has already been paid")
	ErrPaymentFailed    = errors.New("payment processor rejected the request")
)

type CheckoutLine struct {
	Name       string
	UnitAmount int64
	Quantity   int
}

type CheckoutRequest struct {
	Currency   model.Currency
	Lines      []CheckoutLine
	SuccessURL string
	CancelURL  string
}

type PaymentIntentRequest struct {
	Amount   int64
	Currency model.Currency
	Metadata map[string]string
}

type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// PaymentGateway is the third-party processor. Amounts are in minor units.
// Processor failures are reported wrapping ErrPaymentFailed.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)
	CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error)
	PublicKey(currency model.Currency) string
}

type RedirectURLs struct {
	Success string
	Cancel  string
}

type CheckoutService interface {
	CheckoutItem(ctx context.Context, itemID uuid.UUID, urls RedirectURLs) (string, error)
	CheckoutOrder(ctx context.Context, orderID uuid.UUID, urls RedirectURLs) (string, error)
	ItemPaymentIntent(ctx context.Context, itemID uuid.UUID) (*PaymentIntent, error)
	OrderPaymentIntent(ctx context.Context, orderID uuid.UUID) (*PaymentIntent, error)
	PublicKey(currency model.Currency) string
}

func NewCheckoutService(items model.ItemRepository, orders model.OrderRepository, gateway PaymentGateway) CheckoutService {
	return &checkoutService{items: items, orders: orders, gateway: gateway}
}

type checkoutService struct {
	items   model.ItemRepository
	orders  model.OrderRepository
	gateway PaymentGateway
}

func (s *checkoutService) CheckoutItem(ctx context.Context, itemID uuid.UUID, urls RedirectURLs) (string, error) {
	item, err := s.items.Find(ctx, itemID)
	if err != nil {
		return "", err
	}
	return s.gateway.CreateCheckoutSession(ctx, CheckoutRequest{
		Currency:   item.Currency,
		Lines:      []CheckoutLine{{Name: item.Name, UnitAmount: item.PriceCents, Quantity: 1}},
		SuccessURL: urls.Success,
		CancelURL:  urls.Cancel,
	})
}

func (s *checkoutService) CheckoutOrder(ctx context.Context, orderID uuid.UUID, urls RedirectURLs) (string, error) {
	order, err := s.payableOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	return s.gateway.CreateCheckoutSession(ctx, CheckoutRequest{
		Currency:   order.Currency(),
		Lines:      CheckoutLines(order),
		SuccessURL: urls.Success,
		CancelURL:  urls.Cancel,
	})
}

func (s *checkoutService) ItemPaymentIntent(ctx context.Context, itemID uuid.UUID) (*PaymentIntent, error) {
	item, err := s.items.Find(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.gateway.CreatePaymentIntent(ctx, PaymentIntentRequest{
		Amount:   item.PriceCents,
		Currency: item.Currency,
		Metadata: map[string]string{
			"item_id":   item.ID.String(),
			"item_name": item.Name,
		},
	})
}

func (s *checkoutService) OrderPaymentIntent(ctx context.Context, orderID uuid.UUID) (*PaymentIntent, error) {
	order, err := s.payableOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.gateway.CreatePaymentIntent(ctx, PaymentIntentRequest{
		Amount:   model.Total(order),
		Currency: order.Currency(),
		Metadata: map[string]string{"order_id": order.ID.String()},
	})
}

func (s *checkoutService) PublicKey(currency model.Currency) string {
	return s.gateway.PublicKey(currency)
}

func (s *checkoutService) payableOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orders.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsPaid() {
		return nil, ErrOrderAlreadyPaid
	}
	if len(order.Lines) == 0 {
		return nil, ErrOrderIsEmpty
	}
	return order, nil
}

// CheckoutLines spreads the discount and then the tax over the unit prices so
// the processor charges roughly the order total. Each unit price is floored.
func CheckoutLines(order *model.Order) []CheckoutLine {
	lines := make([]CheckoutLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, CheckoutLine{
			Name:       line.Item.Name,
			UnitAmount: line.Item.PriceCents,
			Quantity:   line.Quantity,
		})
	}

	if order.Discount != nil {
		subtotal := model.Subtotal(order)
		if subtotal > 0 {
			discounted := model.ApplyDiscount(subtotal, order.Discount.Percent)
			for i := range lines {
				lines[i].UnitAmount = model.Scale(lines[i].UnitAmount, discounted, subtotal)
			}
		}
	}

	if order.Tax != nil {
		var current int64
		for _, line := range lines {
			current += line.UnitAmount * int64(line.Quantity)
		}
		if current > 0 {
			taxed := model.ApplyTax(current, order.Tax.Percent)
			for i := range lines {
				lines[i].UnitAmount = model.Scale(lines[i].UnitAmount, taxed, current)
			}
		}
	}
	return lines
}
