package pharmacy

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// DerivePaymentStatus es función pura del total pagado y el total del pedido:
// PAID si pagado >= total (un sobrepago también es PAID), PARTIAL si 0 < pagado < total,
// UNPAID en otro caso.
func DerivePaymentStatus(totalPaid, totalAmount decimal.Decimal) string {
	switch {
	case totalPaid.GreaterThanOrEqual(totalAmount):
		return entity.PaymentStatusPaid
	case totalPaid.IsPositive():
		return entity.PaymentStatusPartial
	default:
		return entity.PaymentStatusUnpaid
	}
}
