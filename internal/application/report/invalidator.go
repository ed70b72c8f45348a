package report

import (
	"context"

	"github.com/bizsuite/backend/internal/domain/crm"
	"github.com/bizsuite/backend/internal/domain/finance"
	"github.com/bizsuite/backend/internal/domain/hr"
	"github.com/bizsuite/backend/internal/domain/project"
	"github.com/bizsuite/backend/internal/domain/shared"
)

// sectionKeyFor maps an aggregate type to its dashboard cache key
func sectionKeyFor(aggregateType string) string {
	switch aggregateType {
	case crm.AggregateTypeDeal:
		return cacheKeySales
	case finance.AggregateTypeInvoice, finance.AggregateTypeExpense:
		return cacheKeyFinance
	case hr.AggregateTypeEmployee, hr.AggregateTypeLeaveRequest:
		return cacheKeyHR
	case project.AggregateTypeTask:
		return cacheKeyProjects
	default:
		return ""
	}
}

// DashboardInvalidator drops the cached dashboard section of whichever
// module an event belongs to. It subscribes as a wildcard handler.
type DashboardInvalidator struct {
	dashboards *DashboardService
}

// NewDashboardInvalidator creates a dashboard cache invalidation subscriber
func NewDashboardInvalidator(dashboards *DashboardService) *DashboardInvalidator {
	return &DashboardInvalidator{dashboards: dashboards}
}

// EventTypes returns nil so the invalidator receives every event
func (i *DashboardInvalidator) EventTypes() []string {
	return nil
}

// Handle invalidates the dashboard section owning the event's aggregate
func (i *DashboardInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	key := sectionKeyFor(event.AggregateType())
	if key == "" {
		return nil
	}
	i.dashboards.InvalidateModule(ctx, event.TenantID(), key)
	return nil
}

var _ shared.EventHandler = (*DashboardInvalidator)(nil)
