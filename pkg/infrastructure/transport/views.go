package transport

import (
	"github.com/google/uuid"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
)

type itemView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	PriceCents  int64     `json:"price_cents"`
	Currency    string    `json:"currency"`
	ImageURL    string    `json:"image_url,omitempty"`
}

type itemPageView struct {
	Item      itemView `json:"item"`
	PublicKey string   `json:"public_key"`
}

type lineView struct {
	ItemID         uuid.UUID `json:"item_id"`
	Name           string    `json:"name"`
	Quantity       int       `json:"quantity"`
	UnitPrice      string    `json:"unit_price"`
	LineTotal      string    `json:"line_total"`
	LineTotalCents int64     `json:"line_total_cents"`
}

type adjustmentView struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Code    string    `json:"code,omitempty"`
	Percent int       `json:"percent"`
}

type cartView struct {
	OrderID        uuid.UUID       `json:"order_id"`
	Status         string          `json:"status"`
	Currency       string          `json:"currency"`
	Lines          []lineView      `json:"lines"`
	Discount       *adjustmentView `json:"discount,omitempty"`
	Tax            *adjustmentView `json:"tax,omitempty"`
	Subtotal       string          `json:"subtotal"`
	DiscountAmount string          `json:"discount_amount"`
	AfterDiscount  string          `json:"after_discount"`
	TaxAmount      string          `json:"tax_amount"`
	Total          string          `json:"total"`
	TotalCents     int64           `json:"total_cents"`
	PublicKey      string          `json:"public_key,omitempty"`
}

type sessionView struct {
	ID string `json:"id"`
}

type paymentIntentView struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
}

type errorView struct {
	Error string `json:"error"`
}

func newItemView(item model.Item) itemView {
	return itemView{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       model.FormatMajor(item.PriceCents),
		PriceCents:  item.PriceCents,
		Currency:    item.Currency.String(),
		ImageURL:    item.ImageURL,
	}
}

func newCartView(order *model.Order, publicKey string) cartView {
	summary := service.Summarize(order)
	view := cartView{
		OrderID:        order.ID,
		Status:         order.Status.String(),
		Currency:       summary.Currency.String(),
		Lines:          make([]lineView, 0, len(order.Lines)),
		Subtotal:       model.FormatMajor(summary.Subtotal),
		DiscountAmount: model.FormatMajor(summary.DiscountAmount),
		AfterDiscount:  model.FormatMajor(summary.AfterDiscount),
		TaxAmount:      model.FormatMajor(summary.TaxAmount),
		Total:          model.FormatMajor(summary.Total),
		TotalCents:     summary.Total,
		PublicKey:      publicKey,
	}
	for _, line := range order.Lines {
		lineTotal := line.Item.PriceCents * int64(line.Quantity)
		view.Lines = append(view.Lines, lineView{
			ItemID:         line.Item.ID,
			Name:           line.Item.Name,
			Quantity:       line.Quantity,
			UnitPrice:      model.FormatMajor(line.Item.PriceCents),
			LineTotal:      model.FormatMajor(lineTotal),
			LineTotalCents: lineTotal,
		})
	}
	if d := order.Discount; d != nil {
		view.Discount = &adjustmentView{ID: d.ID, Name: d.Name, Code: d.Code, Percent: d.Percent}
	}
	if t := order.Tax; t != nil {
		view.Tax = &adjustmentView{ID: t.ID, Name: t.Name, Percent: t.Percent}
	}
	return view
}
