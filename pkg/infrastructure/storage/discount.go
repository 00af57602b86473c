package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"storefront/pkg/domain/model"
)

type discountRow struct {
	ID        uuid.UUID      `db:"id"`
	Name      string         `db:"name"`
	Code      sql.NullString `db:"code"`
	Percent   int            `db:"percent"`
	CreatedAt int64          `db:"created_at"`
	UpdatedAt int64          `db:"updated_at"`
}

func (r discountRow) toModel() *model.Discount {
	return &model.Discount{
		ID:        r.ID,
		Name:      r.Name,
		Code:      r.Code.String,
		Percent:   r.Percent,
		CreatedAt: unixTime(r.CreatedAt),
		UpdatedAt: unixTime(r.UpdatedAt),
	}
}

const discountColumns = `id, name, code, percent, created_at, updated_at`

type DiscountRepository struct {
	db *sqlx.DB
}

func NewDiscountRepository(db *sqlx.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

func (r *DiscountRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *DiscountRepository) Create(ctx context.Context, discount *model.Discount) error {
	// An empty code is stored as NULL so that code-less discounts never collide.
	code := sql.NullString{String: discount.Code, Valid: discount.Code != ""}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO discounts (`+discountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`),
		discount.ID, discount.Name, code, discount.Percent,
		discount.CreatedAt.Unix(), discount.UpdatedAt.Unix(),
	)
	if isUniqueViolation(err) {
		return errors.WithStack(model.ErrDiscountCodeTaken)
	}
	return errors.Wrap(err, "insert discount")
}

func (r *DiscountRepository) Find(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	return r.findOne(ctx, `SELECT `+discountColumns+` FROM discounts WHERE id = ?`, id)
}

func (r *DiscountRepository) FindByCode(ctx context.Context, code string) (*model.Discount, error) {
	return r.findOne(ctx, `SELECT `+discountColumns+` FROM discounts WHERE code = ?`, code)
}

func (r *DiscountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM discounts WHERE id = ?`), id)
	if err != nil {
		return errors.Wrap(err, "delete discount")
	}
	return checkDeleted(res, model.ErrDiscountNotFound, "discount")
}

func (r *DiscountRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Discount, error) {
	var row discountRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(model.ErrDiscountNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select discount")
	}
	return row.toModel(), nil
}
