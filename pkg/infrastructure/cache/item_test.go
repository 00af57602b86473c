package cache_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/domain/model"
	"storefront/pkg/infrastructure/cache"
)

type countingItemRepository struct {
	items map[uuid.UUID]model.Item
	finds int
}

func (r *countingItemRepository) NextID() (uuid.UUID, error) {
	return uuid.New(), nil
}

func (r *countingItemRepository) Create(_ context.Context, item *model.Item) error {
	r.items[item.ID] = *item
	return nil
}

func (r *countingItemRepository) Find(_ context.Context, id uuid.UUID) (*model.Item, error) {
	r.finds++
	item, ok := r.items[id]
	if !ok {
		return nil, model.ErrItemNotFound
	}
	return &item, nil
}

func (r *countingItemRepository) List(_ context.Context) ([]model.Item, error) {
	items := make([]model.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	return items, nil
}

func TestItemRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Find hits cache after first read", func(t *testing.T) {
		backend := &countingItemRepository{items: map[uuid.UUID]model.Item{}}
		item, err := model.NewItem(uuid.New(), "Mug", "", 900, model.USD, "")
		require.NoError(t, err)
		backend.items[item.ID] = *item

		repo, err := cache.NewItemRepository(backend, 4)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			found, err := repo.Find(ctx, item.ID)
			require.NoError(t, err)
			assert.Equal(t, "Mug", found.Name)
		}
		assert.Equal(t, 1, backend.finds)
	})

	t.Run("Create and List warm the cache", func(t *testing.T) {
		backend := &countingItemRepository{items: map[uuid.UUID]model.Item{}}
		repo, err := cache.NewItemRepository(backend, 0)
		require.NoError(t, err)

		created, err := model.NewItem(uuid.New(), "Plate", "", 1200, model.KZT, "")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, created))
		forkID := uuid.New()
		backend.items[forkID] = model.Item{ID: forkID, Name: "Fork"}

		_, err = repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, repo.Len())

		_, err = repo.Find(ctx, created.ID)
		require.NoError(t, err)
		assert.Zero(t, backend.finds)
	})

	t.Run("Fail on missing item", func(t *testing.T) {
		backend := &countingItemRepository{items: map[uuid.UUID]model.Item{}}
		repo, err := cache.NewItemRepository(backend, 2)
		require.NoError(t, err)

		_, err = repo.Find(ctx, uuid.New())
		assert.ErrorIs(t, err, model.ErrItemNotFound)
		assert.Zero(t, repo.Len())
	})
}
