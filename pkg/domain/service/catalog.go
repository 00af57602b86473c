package service

import (
	"context"

	"github.com/google/uuid"

	"storefront/pkg/domain/model"
)

type CatalogService interface {
	ListItems(ctx context.Context) ([]model.Item, error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*model.Item, error)
	CreateItem(ctx context.Context, name, description string, priceCents int64, currency, imageURL string) (*model.Item, error)
}

func NewCatalogService(items model.ItemRepository, dispatcher EventDispatcher) CatalogService {
	return &catalogService{items: items, dispatcher: dispatcher}
}

type catalogService struct {
	items      model.ItemRepository
	dispatcher EventDispatcher
}

func (s *catalogService) ListItems(ctx context.Context) ([]model.Item, error) {
	return s.items.List(ctx)
}

func (s *catalogService) GetItem(ctx context.Context, itemID uuid.UUID) (*model.Item, error) {
	return s.items.Find(ctx, itemID)
}

func (s *catalogService) CreateItem(ctx context.Context, name, description string, priceCents int64, currency, imageURL string) (*model.Item, error) {
	cur, err := model.ParseCurrency(currency)
	if err != nil {
		return nil, err
	}
	itemID, err := s.items.NextID()
	if err != nil {
		return nil, err
	}
	item, err := model.NewItem(itemID, name, description, priceCents, cur, imageURL)
	if err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	dispatchAll(s.dispatcher, model.ItemCreated{ItemID: item.ID, Name: item.Name, PriceCents: item.PriceCents})
	return item, nil
}
