package audit

import (
	"context"
	"strings"
	"unicode"

	"github.com/bizsuite/backend/internal/domain/audit"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventSerializer turns a domain event into a JSON payload stored with
// the audit entry. Unregistered event types serialize to nothing.
type EventSerializer interface {
	Serialize(event shared.DomainEvent) ([]byte, error)
	IsRegistered(eventType string) bool
}

// Recorder appends an audit entry for every domain event on the bus.
// It subscribes as a wildcard handler, so modules publish their events
// without knowing the trail exists. A failed append is logged and
// swallowed; auditing must not fail the operation that emitted the event.
type Recorder struct {
	entryRepo  audit.EntryRepository
	serializer EventSerializer
	logger     *zap.Logger
}

// NewRecorder creates an audit trail recorder. The serializer is optional;
// without one, entries carry no event payload.
func NewRecorder(entryRepo audit.EntryRepository, serializer EventSerializer, log *zap.Logger) *Recorder {
	return &Recorder{
		entryRepo:  entryRepo,
		serializer: serializer,
		logger:     log,
	}
}

// EventTypes returns nil so the recorder receives every event
func (r *Recorder) EventTypes() []string {
	return nil
}

// Handle appends one audit entry for the event
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	actorID := actorFromContext(ctx)
	actorName := ""
	if actorID == uuid.Nil {
		actorName = "system"
	}

	entry, err := audit.NewAuditEntry(
		event.TenantID(),
		actorID,
		actorName,
		actionFor(event.EventType()),
		event.AggregateType(),
		event.AggregateID(),
		humanize(event.EventType()),
	)
	if err != nil {
		return err
	}
	entry.WithRequestID(logger.GetRequestID(ctx))

	if r.serializer != nil && r.serializer.IsRegistered(event.EventType()) {
		payload, serr := r.serializer.Serialize(event)
		if serr != nil {
			r.logger.Warn("Failed to serialize event for audit payload",
				zap.String("event_type", event.EventType()),
				zap.Error(serr))
		} else {
			entry.WithPayload(payload)
		}
	}

	if err := r.entryRepo.Save(ctx, entry); err != nil {
		r.logger.Error("Failed to append audit entry",
			zap.String("tenant_id", event.TenantID().String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	}
	return nil
}

// RecordLogin appends a login entry. Logins have no domain event; the
// auth flow calls this directly after a successful authentication.
func (r *Recorder) RecordLogin(ctx context.Context, tenantID, userID uuid.UUID, username string) {
	entry, err := audit.NewAuditEntry(tenantID, userID, username,
		audit.AuditActionLogin, "User", userID, "user logged in")
	if err != nil {
		return
	}
	entry.WithRequestID(logger.GetRequestID(ctx))

	if err := r.entryRepo.Save(ctx, entry); err != nil {
		r.logger.Error("Failed to append login audit entry",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
	}
}

// actionFor classifies an event type into an audit action by its suffix
func actionFor(eventType string) audit.AuditAction {
	switch {
	case strings.HasSuffix(eventType, "Created"), strings.HasSuffix(eventType, "Hired"):
		return audit.AuditActionCreate
	case strings.HasSuffix(eventType, "Deleted"), strings.HasSuffix(eventType, "Terminated"):
		return audit.AuditActionDelete
	default:
		return audit.AuditActionUpdate
	}
}

// humanize turns a CamelCase event type into a lowercase phrase,
// e.g. "DealStageChanged" becomes "deal stage changed"
func humanize(eventType string) string {
	var b strings.Builder
	for i, r := range eventType {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// actorFromContext parses the authenticated user ID out of the request
// context. Events raised outside a request have no actor.
func actorFromContext(ctx context.Context) uuid.UUID {
	raw := logger.GetUserID(ctx)
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

var _ shared.EventHandler = (*Recorder)(nil)
