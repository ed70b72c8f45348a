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

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// TenantSortFields contains allowed sort fields for tenants
var TenantSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"status":     true,
	"plan":       true,
	"expires_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"display_name":  true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// DealSortFields contains allowed sort fields for deals
var DealSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"code":                true,
	"title":               true,
	"customer_name":       true,
	"stage":               true,
	"amount":              true,
	"probability":         true,
	"expected_close_date": true,
	"owner":               true,
	"won_at":              true,
	"lost_at":             true,
}

// OpportunitySortFields contains allowed sort fields for opportunities
var OpportunitySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"source":     true,
	"status":     true,
	"score":      true,
	"scored_at":  true,
}

// EmployeeSortFields contains allowed sort fields for employees
var EmployeeSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"number":     true,
	"name":       true,
	"department": true,
	"position":   true,
	"status":     true,
	"hire_date":  true,
	"salary":     true,
}

// LeaveRequestSortFields contains allowed sort fields for leave requests
var LeaveRequestSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"employee_id": true,
	"leave_type":  true,
	"status":      true,
	"start_date":  true,
	"end_date":    true,
	"days":        true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"customer_name": true,
	"status":        true,
	"total":         true,
	"due_date":      true,
	"issued_at":     true,
	"paid_at":       true,
}

// ExpenseSortFields contains allowed sort fields for expenses
var ExpenseSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"category":      true,
	"status":        true,
	"amount":        true,
	"incurred_date": true,
	"submitted_at":  true,
}

// TaskSortFields contains allowed sort fields for tasks
var TaskSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"title":        true,
	"project_name": true,
	"status":       true,
	"priority":     true,
	"assignee":     true,
	"due_date":     true,
	"completed_at": true,
}

// InsightSortFields contains allowed sort fields for AI insights
var InsightSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"category":        true,
	"severity":        true,
	"acknowledged":    true,
	"acknowledged_at": true,
}

// DecisionSortFields contains allowed sort fields for autonomous decisions
var DecisionSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"decision_type": true,
	"status":        true,
	"decided_at":    true,
}

// MetricSortFields contains allowed sort fields for performance metrics
var MetricSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"name":        true,
	"value":       true,
	"recorded_at": true,
}

// AlertSortFields contains allowed sort fields for performance alerts
var AlertSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"metric_name":  true,
	"severity":     true,
	"status":       true,
	"triggered_at": true,
	"resolved_at":  true,
}

// AuditSortFields contains allowed sort fields for audit entries
var AuditSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"actor_name":  true,
	"action":      true,
	"entity_type": true,
}
