package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"storefront/pkg/domain/model"
)

type orderRow struct {
	ID         uuid.UUID     `db:"id"`
	Status     int           `db:"status"`
	DiscountID uuid.NullUUID `db:"discount_id"`
	TaxID      uuid.NullUUID `db:"tax_id"`
	Version    int           `db:"version"`
	CreatedAt  int64         `db:"created_at"`
	UpdatedAt  int64         `db:"updated_at"`
}

type lineRow struct {
	ID       uuid.UUID `db:"line_id"`
	Quantity int       `db:"quantity"`
	itemRow
}

type OrderRepository struct {
	db        *sqlx.DB
	discounts *DiscountRepository
	taxes     *TaxRepository
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{
		db:        db,
		discounts: NewDiscountRepository(db),
		taxes:     NewTaxRepository(db),
	}
}

func (r *OrderRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO orders (id, status, discount_id, tax_id, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		order.ID, int(order.Status), discountID(order), taxID(order), order.Version,
		order.CreatedAt.Unix(), order.UpdatedAt.Unix(),
	)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}
	for _, line := range order.Lines {
		if err := insertLine(ctx, tx, order.ID, line); err != nil {
			return err
		}
	}
	return errors.Wrap(tx.Commit(), "commit order")
}

func (r *OrderRepository) Find(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT id, status, discount_id, tax_id, version, created_at, updated_at
		FROM orders WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(model.ErrOrderNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select order")
	}

	order := &model.Order{
		ID:        row.ID,
		Status:    model.OrderStatus(row.Status),
		Version:   row.Version,
		CreatedAt: unixTime(row.CreatedAt),
		UpdatedAt: unixTime(row.UpdatedAt),
	}
	if row.DiscountID.Valid {
		if order.Discount, err = r.discounts.Find(ctx, row.DiscountID.UUID); err != nil {
			return nil, err
		}
	}
	if row.TaxID.Valid {
		if order.Tax, err = r.taxes.Find(ctx, row.TaxID.UUID); err != nil {
			return nil, err
		}
	}
	if order.Lines, err = r.lines(ctx, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) FindOpen(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != model.Open {
		return nil, errors.WithStack(model.ErrOrderNotFound)
	}
	return order, nil
}

// Update stores the order row and reconciles its lines. The stored version
// must be exactly one behind order.Version.
func (r *OrderRepository) Update(ctx context.Context, order *model.Order) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE orders SET status = ?, discount_id = ?, tax_id = ?, version = ?, updated_at = ?
		WHERE id = ? AND version = ?`),
		int(order.Status), discountID(order), taxID(order), order.Version, order.UpdatedAt.Unix(),
		order.ID, order.Version-1,
	)
	if err != nil {
		return errors.Wrap(err, "update order")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update order")
	}
	if n == 0 {
		var count int
		if err := tx.GetContext(ctx, &count, tx.Rebind(`SELECT COUNT(*) FROM orders WHERE id = ?`), order.ID); err != nil {
			return errors.Wrap(err, "check order")
		}
		if count == 0 {
			return errors.WithStack(model.ErrOrderNotFound)
		}
		return errors.WithStack(model.ErrOptimisticLock)
	}

	if err := syncLines(ctx, tx, order); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit order")
}

func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM orders WHERE id = ?`), id)
	if err != nil {
		return errors.Wrap(err, "delete order")
	}
	return checkDeleted(res, model.ErrOrderNotFound, "order")
}

func (r *OrderRepository) lines(ctx context.Context, orderID uuid.UUID) ([]model.Line, error) {
	var rows []lineRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT l.id AS line_id, l.quantity,
		       i.id, i.name, i.description, i.price_cents, i.currency, i.image_url, i.created_at, i.updated_at
		FROM order_lines l
		JOIN items i ON i.id = l.item_id
		WHERE l.order_id = ?
		ORDER BY l.added_at, l.id`), orderID)
	if err != nil {
		return nil, errors.Wrap(err, "select order lines")
	}
	lines := make([]model.Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, model.Line{ID: row.ID, Item: row.itemRow.toModel(), Quantity: row.Quantity})
	}
	return lines, nil
}

func syncLines(ctx context.Context, tx *sqlx.Tx, order *model.Order) error {
	var stored []uuid.UUID
	if err := tx.SelectContext(ctx, &stored, tx.Rebind(`SELECT id FROM order_lines WHERE order_id = ?`), order.ID); err != nil {
		return errors.Wrap(err, "select order line ids")
	}

	wanted := make(map[uuid.UUID]bool, len(order.Lines))
	for _, line := range order.Lines {
		wanted[line.ID] = true
	}
	existing := make(map[uuid.UUID]bool, len(stored))
	for _, id := range stored {
		existing[id] = true
		if wanted[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM order_lines WHERE id = ?`), id); err != nil {
			return errors.Wrap(err, "delete order line")
		}
	}

	for _, line := range order.Lines {
		if !existing[line.ID] {
			if err := insertLine(ctx, tx, order.ID, line); err != nil {
				return err
			}
			continue
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE order_lines SET quantity = ? WHERE id = ?`), line.Quantity, line.ID); err != nil {
			return errors.Wrap(err, "update order line")
		}
	}
	return nil
}

func insertLine(ctx context.Context, tx *sqlx.Tx, orderID uuid.UUID, line model.Line) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO order_lines (id, order_id, item_id, quantity, added_at)
		VALUES (?, ?, ?, ?, ?)`),
		line.ID, orderID, line.Item.ID, line.Quantity, time.Now().UnixNano(),
	)
	return errors.Wrap(err, "insert order line")
}

func discountID(order *model.Order) uuid.NullUUID {
	if order.Discount == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: order.Discount.ID, Valid: true}
}

func taxID(order *model.Order) uuid.NullUUID {
	if order.Tax == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: order.Tax.ID, Valid: true}
}
