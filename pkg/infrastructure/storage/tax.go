package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"storefront/pkg/domain/model"
)

type taxRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Percent   int       `db:"percent"`
	CreatedAt int64     `db:"created_at"`
	UpdatedAt int64     `db:"updated_at"`
}

type TaxRepository struct {
	db *sqlx.DB
}

func NewTaxRepository(db *sqlx.DB) *TaxRepository {
	return &TaxRepository{db: db}
}

func (r *TaxRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *TaxRepository) Create(ctx context.Context, tax *model.Tax) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO taxes (id, name, percent, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`),
		tax.ID, tax.Name, tax.Percent, tax.CreatedAt.Unix(), tax.UpdatedAt.Unix(),
	)
	return errors.Wrap(err, "insert tax")
}

func (r *TaxRepository) Find(ctx context.Context, id uuid.UUID) (*model.Tax, error) {
	var row taxRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT id, name, percent, created_at, updated_at FROM taxes WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(model.ErrTaxNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select tax")
	}
	return &model.Tax{
		ID:        row.ID,
		Name:      row.Name,
		Percent:   row.Percent,
		CreatedAt: unixTime(row.CreatedAt),
		UpdatedAt: unixTime(row.UpdatedAt),
	}, nil
}

func (r *TaxRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM taxes WHERE id = ?`), id)
	if err != nil {
		return errors.Wrap(err, "delete tax")
	}
	return checkDeleted(res, model.ErrTaxNotFound, "tax")
}
