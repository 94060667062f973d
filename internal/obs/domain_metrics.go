package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// InvoicesCreatedTotal counts invoice creation attempts by result code.
	InvoicesCreatedTotal *prometheus.CounterVec
	// InvoiceAmountTotal accumulates the billed totalAmount of created invoices.
	InvoiceAmountTotal prometheus.Counter
	// PaymentsRecordedTotal counts payment reconciliation attempts by method and result.
	PaymentsRecordedTotal *prometheus.CounterVec
	// PaymentAmountTotal accumulates the amount of accepted payments.
	PaymentAmountTotal prometheus.Counter
	// StockDecrementsTotal counts units removed from stock by invoicing.
	StockDecrementsTotal prometheus.Counter
	// LowStockAlertsTotal counts products that dropped to the low-stock threshold.
	LowStockAlertsTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers billing Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		InvoicesCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_created_total",
			Help:      "Count of invoice creation attempts by result.",
		}, []string{"result"})
		InvoiceAmountTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_amount_total",
			Help:      "Sum of totalAmount over created invoices.",
		})
		PaymentsRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_recorded_total",
			Help:      "Count of payment reconciliation attempts by method and result.",
		}, []string{"method", "result"})
		PaymentAmountTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_amount_total",
			Help:      "Sum of accepted payment amounts.",
		})
		StockDecrementsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_decrements_total",
			Help:      "Units removed from product stock by invoicing.",
		})
		LowStockAlertsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "low_stock_alerts_total",
			Help:      "Products whose stock fell to or below the low-stock threshold.",
		})

		mustRegisterCollector(reg, InvoicesCreatedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				InvoicesCreatedTotal = v
			}
		})
		mustRegisterCollector(reg, InvoiceAmountTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				InvoiceAmountTotal = v
			}
		})
		mustRegisterCollector(reg, PaymentsRecordedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PaymentsRecordedTotal = v
			}
		})
		mustRegisterCollector(reg, PaymentAmountTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				PaymentAmountTotal = v
			}
		})
		mustRegisterCollector(reg, StockDecrementsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				StockDecrementsTotal = v
			}
		})
		mustRegisterCollector(reg, LowStockAlertsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				LowStockAlertsTotal = v
			}
		})
	})
}

// ObserveInvoice records an invoice creation outcome. Safe to call before registration.
func ObserveInvoice(result string, amount float64) {
	if InvoicesCreatedTotal == nil {
		return
	}
	InvoicesCreatedTotal.WithLabelValues(result).Inc()
	if result == "success" && amount > 0 {
		InvoiceAmountTotal.Add(amount)
	}
}

// ObservePayment records a payment reconciliation outcome. Safe to call before registration.
func ObservePayment(method, result string, amount float64) {
	if PaymentsRecordedTotal == nil {
		return
	}
	if method == "" {
		method = "unknown"
	}
	PaymentsRecordedTotal.WithLabelValues(method, result).Inc()
	if result == "success" && amount > 0 {
		PaymentAmountTotal.Add(amount)
	}
}

// ObserveStock records units decremented and whether the product crossed the low-stock line.
func ObserveStock(units int, lowStock bool) {
	if StockDecrementsTotal == nil {
		return
	}
	if units > 0 {
		StockDecrementsTotal.Add(float64(units))
	}
	if lowStock {
		LowStockAlertsTotal.Inc()
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
