package cache

import (
	"context"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"storefront/pkg/domain/model"
)

const DefaultItemCacheSize = 512

// ItemRepository keeps recently read items in memory. Items are never
// modified after creation, so cached entries do not go stale.
type ItemRepository struct {
	model.ItemRepository
	items *lru.Cache[uuid.UUID, model.Item]
}

func NewItemRepository(repo model.ItemRepository, size int) (*ItemRepository, error) {
	if size <= 0 {
		size = DefaultItemCacheSize
	}
	items, err := lru.New[uuid.UUID, model.Item](size)
	if err != nil {
		return nil, errors.Wrap(err, "create item cache")
	}
	return &ItemRepository{ItemRepository: repo, items: items}, nil
}

func (r *ItemRepository) Create(ctx context.Context, item *model.Item) error {
	if err := r.ItemRepository.Create(ctx, item); err != nil {
		return err
	}
	r.items.Add(item.ID, *item)
	return nil
}

func (r *ItemRepository) Find(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	if item, ok := r.items.Get(id); ok {
		return &item, nil
	}
	item, err := r.ItemRepository.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	r.items.Add(id, *item)
	return item, nil
}

func (r *ItemRepository) List(ctx context.Context) ([]model.Item, error) {
	items, err := r.ItemRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		r.items.Add(item.ID, item)
	}
	return items, nil
}

func (r *ItemRepository) Len() int {
	return r.items.Len()
}
