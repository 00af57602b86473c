package tests

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/domain/model"
)

func orderWithLines(prices ...int64) *model.Order {
	order := &model.Order{ID: uuid.New(), Status: model.Open}
	for _, price := range prices {
		order.Lines = append(order.Lines, model.Line{
			ID:       uuid.New(),
			Item:     model.Item{ID: uuid.New(), Name: "item", PriceCents: price, Currency: model.USD},
			Quantity: 1,
		})
	}
	return order
}

func TestEmptyOrderTotals(t *testing.T) {
	order := &model.Order{ID: uuid.New()}
	order.Discount = &model.Discount{Percent: 10}
	order.Tax = &model.Tax{Percent: 8}

	assert.Equal(t, int64(0), model.Subtotal(order))
	assert.Equal(t, int64(0), model.Total(order))
}

func TestTotalWithoutAdjustmentsEqualsSubtotal(t *testing.T) {
	order := orderWithLines(1999, 501)
	order.Lines[1].Quantity = 3

	assert.Equal(t, int64(1999+3*501), model.Subtotal(order))
	assert.Equal(t, model.Subtotal(order), model.Total(order))
}

func TestDiscountThenTaxFloorsEachStep(t *testing.T) {
	t.Run("Discount 10 and tax 8 on 1000", func(t *testing.T) {
		order := orderWithLines(1000)
		order.Discount = &model.Discount{Percent: 10}
		order.Tax = &model.Tax{Percent: 8}

		breakdown := model.Price(order)
		assert.Equal(t, int64(1000), breakdown.Subtotal)
		assert.Equal(t, int64(900), breakdown.AfterDiscount)
		assert.Equal(t, int64(100), breakdown.DiscountAmount)
		assert.Equal(t, int64(72), breakdown.TaxAmount)
		assert.Equal(t, int64(972), breakdown.Total)
		assert.Equal(t, int64(972), model.Total(order))
	})

	t.Run("Truncation differs from a combined multiplier", func(t *testing.T) {
		order := orderWithLines(3)
		order.Discount = &model.Discount{Percent: 50}
		order.Tax = &model.Tax{Percent: 100}

		// 3 -> 1 -> 2, whereas 3 * 0.5 * 2 would be 3.
		assert.Equal(t, int64(2), model.Total(order))
	})

	t.Run("Tax only", func(t *testing.T) {
		order := orderWithLines(999)
		order.Tax = &model.Tax{Percent: 12}

		assert.Equal(t, int64(1118), model.Total(order))
	})

	t.Run("Full discount", func(t *testing.T) {
		order := orderWithLines(1234, 10)
		order.Discount = &model.Discount{Percent: 100}
		order.Tax = &model.Tax{Percent: 20}

		assert.Equal(t, int64(0), model.Total(order))
	})
}

func TestPriceDisplay(t *testing.T) {
	item := model.Item{PriceCents: 1250}
	assert.Equal(t, 12.5, item.PriceDisplay())
	assert.Equal(t, "12.50", model.FormatMajor(1250))
	assert.Equal(t, "0.05", model.FormatMajor(5))
}

func TestParseCurrency(t *testing.T) {
	cur, err := model.ParseCurrency(" KZT ")
	require.NoError(t, err)
	assert.Equal(t, model.KZT, cur)
	assert.Equal(t, "KZT", cur.Upper())

	_, err = model.ParseCurrency("eur")
	assert.ErrorIs(t, err, model.ErrUnsupportedCurrency)
}

func TestPercentValidation(t *testing.T) {
	for _, percent := range []int{0, 100} {
		_, err := model.NewDiscount(uuid.New(), "edge", "EDGE", percent)
		require.NoError(t, err)
		_, err = model.NewTax(uuid.New(), "edge", percent)
		require.NoError(t, err)
	}
	for _, percent := range []int{-1, 101} {
		_, err := model.NewDiscount(uuid.New(), "bad", "BAD", percent)
		assert.ErrorIs(t, err, model.ErrInvalidPercent)
		_, err = model.NewTax(uuid.New(), "bad", percent)
		assert.ErrorIs(t, err, model.ErrInvalidPercent)
	}

	_, err := model.NewTax(uuid.New(), " ", 5)
	assert.ErrorIs(t, err, model.ErrNameRequired)
}

func TestOrderLines(t *testing.T) {
	order := &model.Order{ID: uuid.New()}
	book := model.Item{ID: uuid.New(), Name: "book", PriceCents: 500, Currency: model.KZT}

	t.Run("Add twice keeps one line", func(t *testing.T) {
		_, err := order.AddLine(uuid.New(), book, 1)
		require.NoError(t, err)
		line, err := order.AddLine(uuid.New(), book, 1)
		require.NoError(t, err)

		require.Len(t, order.Lines, 1)
		assert.Equal(t, 2, line.Quantity)
		assert.Equal(t, model.KZT, order.Currency())
	})

	t.Run("Fail on other currency", func(t *testing.T) {
		pen := model.Item{ID: uuid.New(), Name: "pen", PriceCents: 100, Currency: model.USD}
		_, err := order.AddLine(uuid.New(), pen, 1)
		assert.ErrorIs(t, err, model.ErrCurrencyMismatch)
		assert.Len(t, order.Lines, 1)
	})

	t.Run("Decrease down to removal", func(t *testing.T) {
		quantity, err := order.DecreaseLine(book.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, quantity)

		quantity, err = order.DecreaseLine(book.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, quantity)
		assert.Empty(t, order.Lines)

		_, err = order.DecreaseLine(book.ID)
		assert.ErrorIs(t, err, model.ErrOrderLineNotFound)
		assert.Equal(t, model.DefaultCurrency, order.Currency())
	})
}

func TestOrderLineBounds(t *testing.T) {
	t.Run("Quantity up to the limit", func(t *testing.T) {
		order := &model.Order{ID: uuid.New()}
		clip := model.Item{ID: uuid.New(), Name: "clip", PriceCents: 1, Currency: model.USD}

		_, err := order.AddLine(uuid.New(), clip, model.MaxLineQuantity-1)
		require.NoError(t, err)
		line, err := order.AddLine(uuid.New(), clip, 1)
		require.NoError(t, err)
		assert.Equal(t, model.MaxLineQuantity, line.Quantity)

		_, err = order.AddLine(uuid.New(), clip, 1)
		assert.ErrorIs(t, err, model.ErrQuantityOutOfRange)
		assert.Equal(t, model.MaxLineQuantity, order.Lines[0].Quantity)
	})

	t.Run("Fail on huge delta", func(t *testing.T) {
		order := &model.Order{ID: uuid.New()}
		clip := model.Item{ID: uuid.New(), Name: "clip", PriceCents: 1, Currency: model.USD}

		_, err := order.AddLine(uuid.New(), clip, math.MaxInt64)
		assert.ErrorIs(t, err, model.ErrQuantityOutOfRange)
		assert.Empty(t, order.Lines)

		_, err = order.AddLine(uuid.New(), clip, 1)
		require.NoError(t, err)
		_, err = order.AddLine(uuid.New(), clip, math.MaxInt64)
		assert.ErrorIs(t, err, model.ErrQuantityOutOfRange)
		assert.Equal(t, 1, order.Lines[0].Quantity)
	})

	t.Run("Fail when subtotal exceeds the maximum amount", func(t *testing.T) {
		order := &model.Order{ID: uuid.New()}
		price := model.MaxOrderAmount/2 + 1
		camera := model.Item{ID: uuid.New(), Name: "camera", PriceCents: price, Currency: model.USD}
		lens := model.Item{ID: uuid.New(), Name: "lens", PriceCents: price, Currency: model.USD}

		_, err := order.AddLine(uuid.New(), camera, 1)
		require.NoError(t, err)
		_, err = order.AddLine(uuid.New(), camera, 1)
		assert.ErrorIs(t, err, model.ErrOrderAmountTooLarge)
		_, err = order.AddLine(uuid.New(), lens, 1)
		assert.ErrorIs(t, err, model.ErrOrderAmountTooLarge)

		require.Len(t, order.Lines, 1)
		assert.Equal(t, 1, order.Lines[0].Quantity)
		assert.Equal(t, price, model.Subtotal(order))
	})

	t.Run("Total stays positive at the maximum amount", func(t *testing.T) {
		order := &model.Order{ID: uuid.New()}
		yacht := model.Item{ID: uuid.New(), Name: "yacht", PriceCents: model.MaxOrderAmount, Currency: model.USD}
		_, err := order.AddLine(uuid.New(), yacht, 1)
		require.NoError(t, err)

		order.Tax = &model.Tax{ID: uuid.New(), Name: "max", Percent: 100}
		assert.Equal(t, 2*model.MaxOrderAmount, model.Total(order))

		order.Discount = &model.Discount{ID: uuid.New(), Name: "ten", Percent: 10}
		breakdown := model.Price(order)
		assert.Equal(t, model.MaxOrderAmount*9/10, breakdown.AfterDiscount)
		assert.Equal(t, 2*breakdown.AfterDiscount, breakdown.Total)
		assert.Positive(t, breakdown.Total)
	})

	t.Run("Fail on item priced above the maximum amount", func(t *testing.T) {
		_, err := model.NewItem(uuid.New(), "island", "", model.MaxOrderAmount+1, model.USD, "")
		assert.ErrorIs(t, err, model.ErrInvalidPrice)
		_, err = model.NewItem(uuid.New(), "yacht", "", model.MaxOrderAmount, model.USD, "")
		assert.NoError(t, err)
	})
}

func TestScale(t *testing.T) {
	assert.Equal(t, int64(900), model.Scale(1000, 90, 100))
	assert.Equal(t, int64(1), model.Scale(3, 1, 2))
	assert.Equal(t, int64(8301034833169298226), model.Scale(math.MaxInt64, 90, 100))
	assert.Equal(t, int64(math.MaxInt64), model.Scale(math.MaxInt64, 1500, 1500))
}
