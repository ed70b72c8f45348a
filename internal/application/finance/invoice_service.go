package finance

import (
	"context"
	"time"

	"github.com/bizsuite/backend/internal/domain/finance"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/valueobject"
	"github.com/bizsuite/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoiceService handles invoice lifecycle operations
type InvoiceService struct {
	invoiceRepo    finance.InvoiceRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo finance.InvoiceRepository, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for audit and integration events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft invoice, optionally with initial line items
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	exists, err := s.invoiceRepo.ExistsByNumber(ctx, tenantID, req.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Invoice with this number already exists")
	}

	invoice, err := finance.NewInvoice(tenantID, req.Number, req.CustomerName)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if _, err := invoice.AddItem(item.Description, item.Quantity, valueobject.NewMoneyUSD(item.UnitPrice)); err != nil {
			return nil, err
		}
	}

	if req.TaxRate != nil {
		if err := invoice.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if err := invoice.SetDueDate(*req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		invoice.SetNotes(req.Notes)
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)

	s.logger.Info("Invoice created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number))

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByNumber retrieves an invoice by its number
func (s *InvoiceService) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByNumber(ctx, tenantID, number)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	var (
		invoices []finance.Invoice
		err      error
	)
	if filter.Overdue {
		invoices, err = s.invoiceRepo.FindOverdue(ctx, tenantID, time.Now(), domainFilter)
	} else {
		invoices, err = s.invoiceRepo.FindAll(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.Count(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceResponses(invoices), total, nil
}

// Update updates the mutable header fields of an invoice
func (s *InvoiceService) Update(ctx context.Context, tenantID, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if req.TaxRate != nil {
		if err := invoice.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if err := invoice.SetDueDate(*req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		invoice.SetNotes(*req.Notes)
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// AddItem adds a line item to a draft invoice
func (s *InvoiceService) AddItem(ctx context.Context, tenantID, invoiceID uuid.UUID, req CreateInvoiceItemRequest) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, invoiceID, func(inv *finance.Invoice) error {
		_, err := inv.AddItem(req.Description, req.Quantity, valueobject.NewMoneyUSD(req.UnitPrice))
		return err
	})
}

// UpdateItem updates a line item on a draft invoice
func (s *InvoiceService) UpdateItem(ctx context.Context, tenantID, invoiceID, itemID uuid.UUID, req CreateInvoiceItemRequest) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, invoiceID, func(inv *finance.Invoice) error {
		return inv.UpdateItem(itemID, req.Description, req.Quantity, valueobject.NewMoneyUSD(req.UnitPrice))
	})
}

// RemoveItem removes a line item from a draft invoice
func (s *InvoiceService) RemoveItem(ctx context.Context, tenantID, invoiceID, itemID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, invoiceID, func(inv *finance.Invoice) error {
		return inv.RemoveItem(itemID)
	})
}

// Issue finalizes a draft invoice and sends it to the customer
func (s *InvoiceService) Issue(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	response, err := s.transition(ctx, tenantID, invoiceID, func(inv *finance.Invoice) error { return inv.Issue() })
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice issued",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_id", invoiceID.String()))

	return response, nil
}

// MarkPaid records full payment of an issued invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	response, err := s.transition(ctx, tenantID, invoiceID, func(inv *finance.Invoice) error { return inv.MarkPaid() })
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice paid",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_id", invoiceID.String()))

	return response, nil
}

// Void cancels a draft or issued invoice with a reason
func (s *InvoiceService) Void(ctx context.Context, tenantID, invoiceID uuid.UUID, req VoidInvoiceRequest) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, invoiceID, func(inv *finance.Invoice) error {
		return inv.Void(req.Reason)
	})
}

// Delete removes an invoice. Only drafts can be deleted; issued invoices
// must be voided to keep the numbering trail intact.
func (s *InvoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}

	if !invoice.IsDraft() {
		return shared.NewDomainError("CANNOT_DELETE", "Only draft invoices can be deleted; void it instead")
	}

	return s.invoiceRepo.Delete(ctx, tenantID, invoiceID)
}

// ReceivablesSummary returns outstanding and overdue totals as of now
func (s *InvoiceService) ReceivablesSummary(ctx context.Context, tenantID uuid.UUID) (*ReceivablesSummaryResponse, error) {
	asOf := time.Now()
	summary, err := s.invoiceRepo.SummarizeReceivables(ctx, tenantID, asOf)
	if err != nil {
		return nil, err
	}

	return &ReceivablesSummaryResponse{
		OutstandingCount:  summary.OutstandingCount,
		OutstandingAmount: summary.OutstandingAmount,
		OverdueCount:      summary.OverdueCount,
		OverdueAmount:     summary.OverdueAmount,
		AsOf:              asOf,
	}, nil
}

func (s *InvoiceService) transition(ctx context.Context, tenantID, invoiceID uuid.UUID, change func(*finance.Invoice) error) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "finance", "invoice_transition")
	defer span.End()

	telemetry.SetAttributes(span,
		"tenant_id", tenantID.String(),
		telemetry.SpanAttrInvoiceID, invoiceID.String(),
	)

	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := change(invoice); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceNumber, invoice.Number,
		telemetry.SpanAttrAmount, invoice.Total.String(),
	)
	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

func (s *InvoiceService) publishEvents(ctx context.Context, invoice *finance.Invoice) {
	if s.eventPublisher == nil {
		return
	}

	events := invoice.GetDomainEvents()
	if len(events) == 0 {
		return
	}

	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish invoice events",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err))
	}
	invoice.ClearDomainEvents()
}
