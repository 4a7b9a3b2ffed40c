package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// PaymentAccountSortFields contains allowed sort fields for payment accounts
var PaymentAccountSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"holder":         true,
	"enabled":        true,
	"priority_order": true,
	"last_used_at":   true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"order_number":   true,
	"status":         true,
	"payment_status": true,
	"total_amount":   true,
	"payable_amount": true,
}

// RemittanceSortFields contains allowed sort fields for remittances
var RemittanceSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"remittance_number": true,
	"status":            true,
	"payment_status":    true,
	"amount_sent":       true,
	"payout_amount":     true,
}

// AuditEntrySortFields contains allowed sort fields for audit entries
var AuditEntrySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"action":     true,
}
