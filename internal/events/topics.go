package events

// Topic constants for domain events emitted by billing.
const (
	TopicInvoiceCreated  = "invoice.created"
	TopicInvoicePaid     = "invoice.paid"
	TopicPaymentRecorded = "payment.recorded"
	TopicStockLow        = "stock.low"
)

// DefaultTopics returns every topic the service emits.
func DefaultTopics() []string {
	return []string{
		TopicInvoiceCreated,
		TopicInvoicePaid,
		TopicPaymentRecorded,
		TopicStockLow,
	}
}
