package pharmacy

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Line datos mínimos de una línea de pedido para calcular totales.
type Line struct {
	Quantity   int
	UnitPrice  decimal.Decimal
	VATPercent decimal.Decimal
}

// Totals resultado del cálculo de un pedido.
// Total = Subtotal − Discount; el IVA se informa aparte y no se suma al total.
type Totals struct {
	Subtotal decimal.Decimal
	VAT      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals calcula subtotal, IVA informativo y total del pedido (servicio de dominio).
func ComputeTotals(lines []Line, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	vat := decimal.Zero
	for _, l := range lines {
		lineSub := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		subtotal = subtotal.Add(lineSub)
		if l.VATPercent.IsPositive() {
			vat = vat.Add(lineSub.Mul(l.VATPercent).Div(hundred))
		}
	}
	return Totals{
		Subtotal: subtotal,
		VAT:      vat.Round(2),
		Discount: discount,
		Total:    subtotal.Sub(discount),
	}
}

// DiscountAllowed indica si el descuento está dentro de [0, subtotal]. El IVA no se cobra,
// así que un descuento mayor que el subtotal dejaría el total negativo.
func (t Totals) DiscountAllowed() bool {
	return !t.Discount.IsNegative() && t.Discount.LessThanOrEqual(t.Subtotal)
}
