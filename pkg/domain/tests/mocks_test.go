package tests

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
)

var _ model.OrderRepository = &mockOrderRepository{}

type mockOrderRepository struct {
	store map[uuid.UUID]*model.Order
}

func (m *mockOrderRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockOrderRepository) Create(_ context.Context, order *model.Order) error {
	if _, exists := m.store[order.ID]; exists {
		return errors.New("order with this ID already exists")
	}
	m.store[order.ID] = cloneOrder(order)
	return nil
}

func (m *mockOrderRepository) Find(_ context.Context, id uuid.UUID) (*model.Order, error) {
	if order, ok := m.store[id]; ok {
		return cloneOrder(order), nil
	}
	return nil, model.ErrOrderNotFound
}

func (m *mockOrderRepository) FindOpen(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := m.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != model.Open {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepository) Update(_ context.Context, order *model.Order) error {
	existing, ok := m.store[order.ID]
	if !ok {
		return model.ErrOrderNotFound
	}
	if existing.Version != order.Version-1 {
		return model.ErrOptimisticLock
	}
	m.store[order.ID] = cloneOrder(order)
	return nil
}

func (m *mockOrderRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return model.ErrOrderNotFound
	}
	delete(m.store, id)
	return nil
}

func cloneOrder(order *model.Order) *model.Order {
	clone := *order
	clone.Lines = append([]model.Line(nil), order.Lines...)
	return &clone
}

var _ model.ItemRepository = &mockItemRepository{}

type mockItemRepository struct {
	store map[uuid.UUID]*model.Item
}

func (m *mockItemRepository) NextID() (uuid.UUID, error) { return uuid.New(), nil }

func (m *mockItemRepository) Create(_ context.Context, item *model.Item) error {
	m.store[item.ID] = item
	return nil
}

func (m *mockItemRepository) Find(_ context.Context, id uuid.UUID) (*model.Item, error) {
	if item, ok := m.store[id]; ok {
		clone := *item
		return &clone, nil
	}
	return nil, model.ErrItemNotFound
}

func (m *mockItemRepository) List(_ context.Context) ([]model.Item, error) {
	items := make([]model.Item, 0, len(m.store))
	for _, item := range m.store {
		items = append(items, *item)
	}
	return items, nil
}

func (m *mockItemRepository) add(name string, priceCents int64, currency model.Currency) model.Item {
	item, _ := model.NewItem(uuid.New(), name, "", priceCents, currency, "")
	m.store[item.ID] = item
	return *item
}

var _ model.DiscountRepository = &mockDiscountRepository{}

type mockDiscountRepository struct {
	store map[uuid.UUID]*model.Discount
}

func (m *mockDiscountRepository) NextID() (uuid.UUID, error) { return uuid.New(), nil }

func (m *mockDiscountRepository) Create(_ context.Context, discount *model.Discount) error {
	m.store[discount.ID] = discount
	return nil
}

func (m *mockDiscountRepository) Find(_ context.Context, id uuid.UUID) (*model.Discount, error) {
	if discount, ok := m.store[id]; ok {
		return discount, nil
	}
	return nil, model.ErrDiscountNotFound
}

func (m *mockDiscountRepository) FindByCode(_ context.Context, code string) (*model.Discount, error) {
	for _, discount := range m.store {
		if discount.Code != "" && discount.Code == code {
			return discount, nil
		}
	}
	return nil, model.ErrDiscountNotFound
}

func (m *mockDiscountRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return model.ErrDiscountNotFound
	}
	delete(m.store, id)
	return nil
}

var _ model.TaxRepository = &mockTaxRepository{}

type mockTaxRepository struct {
	store map[uuid.UUID]*model.Tax
}

func (m *mockTaxRepository) NextID() (uuid.UUID, error) { return uuid.New(), nil }

func (m *mockTaxRepository) Create(_ context.Context, tax *model.Tax) error {
	m.store[tax.ID] = tax
	return nil
}

func (m *mockTaxRepository) Find(_ context.Context, id uuid.UUID) (*model.Tax, error) {
	if tax, ok := m.store[id]; ok {
		return tax, nil
	}
	return nil, model.ErrTaxNotFound
}

func (m *mockTaxRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return model.ErrTaxNotFound
	}
	delete(m.store, id)
	return nil
}

var _ service.EventDispatcher = &mockEventDispatcher{}

type mockEventDispatcher struct {
	events []service.Event
}

func (m *mockEventDispatcher) Dispatch(event service.Event) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventDispatcher) Reset() {
	m.events = nil
}

var _ service.Session = &mockSession{}

type mockSession struct {
	cartID uuid.UUID
	set    bool
	writes int
}

func (m *mockSession) CartID() (uuid.UUID, bool) { return m.cartID, m.set }

func (m *mockSession) SetCartID(id uuid.UUID) {
	m.cartID = id
	m.set = true
	m.writes++
}

var _ service.PaymentGateway = &mockPaymentGateway{}

type mockPaymentGateway struct {
	sessions []service.CheckoutRequest
	intents  []service.PaymentIntentRequest
	err      error
}

func (m *mockPaymentGateway) CreateCheckoutSession(_ context.Context, req service.CheckoutRequest) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sessions = append(m.sessions, req)
	return "cs_test_" + time.Now().Format("150405.000"), nil
}

func (m *mockPaymentGateway) CreatePaymentIntent(_ context.Context, req service.PaymentIntentRequest) (*service.PaymentIntent, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.intents = append(m.intents, req)
	return &service.PaymentIntent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

func (m *mockPaymentGateway) PublicKey(currency model.Currency) string {
	return "pk_test_" + currency.String()
}
