package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"storefront/pkg/domain/model"
)

type itemRow struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	PriceCents  int64     `db:"price_cents"`
	Currency    string    `db:"currency"`
	ImageURL    string    `db:"image_url"`
	CreatedAt   int64     `db:"created_at"`
	UpdatedAt   int64     `db:"updated_at"`
}

func (r itemRow) toModel() model.Item {
	return model.Item{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		Currency:    model.Currency(r.Currency),
		ImageURL:    r.ImageURL,
		CreatedAt:   unixTime(r.CreatedAt),
		UpdatedAt:   unixTime(r.UpdatedAt),
	}
}

const itemColumns = `id, name, description, price_cents, currency, image_url, created_at, updated_at`

type ItemRepository struct {
	db *sqlx.DB
}

func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *ItemRepository) Create(ctx context.Context, item *model.Item) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		item.ID, item.Name, item.Description, item.PriceCents, string(item.Currency), item.ImageURL,
		item.CreatedAt.Unix(), item.UpdatedAt.Unix(),
	)
	return errors.Wrap(err, "insert item")
}

func (r *ItemRepository) Find(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var row itemRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+itemColumns+` FROM items WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(model.ErrItemNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select item")
	}
	item := row.toModel()
	return &item, nil
}

func (r *ItemRepository) List(ctx context.Context) ([]model.Item, error) {
	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+itemColumns+` FROM items ORDER BY created_at DESC, name`); err != nil {
		return nil, errors.Wrap(err, "select items")
	}
	items := make([]model.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}
