package services

import "fmt"

// FormatInvoiceNumber builds the customer-facing invoice identifier for an
// order. The format PREFIX-YYYY-NNNN is persisted and printed on invoices,
// so it must stay stable: order id 7 placed in 2025 becomes "NC-2025-0007".
func FormatInvoiceNumber(prefix string, year int, orderID uint) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, orderID)
}
