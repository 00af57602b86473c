package model

import "math/bits"

// Subtotal is the sum of price * quantity over all lines, in minor units.
func Subtotal(o *Order) int64 {
	var subtotal int64
	for _, line := range o.Lines {
		subtotal += lineAmount(line)
	}
	return subtotal
}

func lineAmount(line Line) int64 {
	return line.Item.PriceCents * int64(line.Quantity)
}

// Total applies the discount and then the tax to the subtotal, flooring after
// each step. 1000 with 10% off and 8% tax is 900 and then 972.
func Total(o *Order) int64 {
	return Price(o).Total
}

type Breakdown struct {
	Subtotal       int64
	AfterDiscount  int64
	DiscountAmount int64
	TaxAmount      int64
	Total          int64
}

func Price(o *Order) Breakdown {
	subtotal := Subtotal(o)
	afterDiscount := subtotal
	if o.Discount != nil {
		afterDiscount = ApplyDiscount(subtotal, o.Discount.Percent)
	}
	total := afterDiscount
	if o.Tax != nil {
		total = ApplyTax(afterDiscount, o.Tax.Percent)
	}
	return Breakdown{
		Subtotal:       subtotal,
		AfterDiscount:  afterDiscount,
		DiscountAmount: subtotal - afterDiscount,
		TaxAmount:      total - afterDiscount,
		Total:          total,
	}
}

func ApplyDiscount(amount int64, percent int) int64 {
	return Scale(amount, int64(100-percent), 100)
}

func ApplyTax(amount int64, percent int) int64 {
	return Scale(amount, int64(100+percent), 100)
}

// Scale returns floor(amount * numerator / denominator) using a 128-bit
// intermediate product. Operands must be non-negative, denominator positive,
// and the result must fit in int64.
func Scale(amount, numerator, denominator int64) int64 {
	hi, lo := bits.Mul64(uint64(amount), uint64(numerator))
	quo, _ := bits.Div64(hi, lo, uint64(denominator))
	return int64(quo)
}
