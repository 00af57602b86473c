package model

import "github.com/google/uuid"

type CartCreated struct {
	OrderID uuid.UUID
}

func (e CartCreated) Type() string { return "CartCreated" }

type LineAdded struct {
	OrderID  uuid.UUID
	ItemID   uuid.UUID
	Quantity int
}

func (e LineAdded) Type() string { return "LineAdded" }

type LineRemoved struct {
	OrderID uuid.UUID
	ItemID  uuid.UUID
}

func (e LineRemoved) Type() string { return "LineRemoved" }

type LineDecreased struct {
	OrderID  uuid.UUID
	ItemID   uuid.UUID
	Quantity int // 0 when the line was removed
}

func (e LineDecreased) Type() string { return "LineDecreased" }

type DiscountApplied struct {
	OrderID    uuid.UUID
	DiscountID uuid.UUID
	Code       string
	Percent    int
}

func (e DiscountApplied) Type() string { return "DiscountApplied" }

type DiscountRemoved struct {
	OrderID    uuid.UUID
	DiscountID uuid.UUID
}

func (e DiscountRemoved) Type() string { return "DiscountRemoved" }

type TaxAssigned struct {
	OrderID uuid.UUID
	TaxID   uuid.UUID
	Percent int
}

func (e TaxAssigned) Type() string { return "TaxAssigned" }

type TaxCleared struct {
	OrderID uuid.UUID
}

func (e TaxCleared) Type() string { return "TaxCleared" }

type OrderPaid struct {
	OrderID    uuid.UUID
	TotalCents int64
	Currency   Currency
}

func (e OrderPaid) Type() string { return "OrderPaid" }

type ItemCreated struct {
	ItemID     uuid.UUID
	Name       string
	PriceCents int64
}

func (e ItemCreated) Type() string { return "ItemCreated" }
