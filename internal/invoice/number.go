package invoice

import (
	"fmt"
	"time"
)

// maxNumberAttempts bounds retries when an invoice number is already taken.
const maxNumberAttempts = 5

// invoiceNumber formats INV-<unix ms>, offset by attempt milliseconds.
func invoiceNumber(now time.Time, attempt int) string {
	return fmt.Sprintf("INV-%d", now.UnixMilli()+int64(attempt))
}
