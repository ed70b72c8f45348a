package insight

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InsightCategory represents the business area an insight refers to
type InsightCategory string

const (
	InsightCategorySales      InsightCategory = "sales"
	InsightCategoryFinance    InsightCategory = "finance"
	InsightCategoryHR         InsightCategory = "hr"
	InsightCategoryProject    InsightCategory = "project"
	InsightCategoryCompliance InsightCategory = "compliance"
)

// IsValid checks if the category is a valid InsightCategory
func (c InsightCategory) IsValid() bool {
	switch c {
	case InsightCategorySales, InsightCategoryFinance, InsightCategoryHR,
		InsightCategoryProject, InsightCategoryCompliance:
		return true
	}
	return false
}

// String returns the string representation of InsightCategory
func (c InsightCategory) String() string {
	return string(c)
}

// InsightSeverity represents how urgent an insight is
type InsightSeverity string

const (
	InsightSeverityInfo     InsightSeverity = "info"
	InsightSeverityNotice   InsightSeverity = "notice"
	InsightSeverityWarning  InsightSeverity = "warning"
	InsightSeverityCritical InsightSeverity = "critical"
)

// IsValid checks if the severity is a valid InsightSeverity
func (s InsightSeverity) IsValid() bool {
	switch s {
	case InsightSeverityInfo, InsightSeverityNotice, InsightSeverityWarning, InsightSeverityCritical:
		return true
	}
	return false
}

// String returns the string representation of InsightSeverity
func (s InsightSeverity) String() string {
	return string(s)
}

// AIInsight represents a generated observation about the tenant's data.
// Evidence holds the numeric inputs that produced the insight as a JSON object.
type AIInsight struct {
	shared.TenantAggregateRoot
	Category       InsightCategory
	Severity       InsightSeverity
	Title          string
	Body           string
	Evidence       string // JSON object of the numeric inputs
	Acknowledged   bool
	AcknowledgedAt *time.Time
	AcknowledgedBy string
}

// NewAIInsight creates a new unacknowledged insight
func NewAIInsight(tenantID uuid.UUID, category InsightCategory, severity InsightSeverity, title, body, evidence string) (*AIInsight, error) {
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown insight category")
	}
	if !severity.IsValid() {
		return nil, shared.NewDomainError("INVALID_SEVERITY", "Unknown insight severity")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Insight title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Insight title cannot exceed 200 characters")
	}
	if evidence == "" {
		evidence = "{}"
	}

	return &AIInsight{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Category:            category,
		Severity:            severity,
		Title:               title,
		Body:                body,
		Evidence:            evidence,
	}, nil
}

// Acknowledge marks the insight as seen by a user
func (i *AIInsight) Acknowledge(user string) error {
	if i.Acknowledged {
		return shared.NewDomainError("ALREADY_ACKNOWLEDGED", "Insight is already acknowledged")
	}
	if user == "" {
		return shared.NewDomainError("INVALID_USER", "Acknowledging user is required")
	}

	now := time.Now()
	i.Acknowledged = true
	i.AcknowledgedAt = &now
	i.AcknowledgedBy = user
	i.UpdatedAt = now
	i.IncrementVersion()

	return nil
}
