package invoice

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/devaakutty/Shashi-backend/internal/db"
)

// settlement is the initial payment state of a new invoice.
type settlement struct {
	Method     string
	Status     string
	PaidAmount decimal.Decimal
	PaidAt     *time.Time
	// Record asks for a settlement Payment row covering PaidAmount.
	Record bool
}

// resolveSettlement prefers an explicit intent. Without one, the notes are
// sniffed case-insensitively: "cash" and "card" pick the method (card wins
// when both appear) and "upi" flags the invoice paid. The flag sets status
// and paidAt only; paidAmount stays zero so the balance is still open to a
// real payment.
func resolveSettlement(intent *PaymentIntent, notes string, total decimal.Decimal, now time.Time) settlement {
	s := settlement{Method: MethodUPI, Status: db.InvoiceStatusUnpaid, PaidAmount: decimal.Zero}
	if intent != nil {
		s.Method = intent.Method
		if intent.Settled {
			s.markPaid(total, now)
			s.Record = total.IsPositive()
		}
		return s
	}

	lower := strings.ToLower(notes)
	if strings.Contains(lower, "cash") {
		s.Method = MethodCash
	}
	if strings.Contains(lower, "card") {
		s.Method = MethodCard
	}
	if strings.Contains(lower, "upi") {
		paidAt := now
		s.Status = db.InvoiceStatusPaid
		s.PaidAt = &paidAt
	}
	return s
}

func (s *settlement) markPaid(total decimal.Decimal, now time.Time) {
	paidAt := now
	s.Status = db.InvoiceStatusPaid
	s.PaidAmount = total
	s.PaidAt = &paidAt
}
