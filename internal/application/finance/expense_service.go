package finance

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/bizsuite/backend/internal/domain/finance"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// receiptURLTTL bounds how long presigned receipt URLs stay valid
const receiptURLTTL = 15 * time.Minute

// ExpenseService handles expense claim workflow operations
type ExpenseService struct {
	expenseRepo    finance.ExpenseRepository
	receiptStorage ReceiptStorageService
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo finance.ExpenseRepository,
	receiptStorage ReceiptStorageService,
	logger *zap.Logger,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo:    expenseRepo,
		receiptStorage: receiptStorage,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for audit and integration events
func (s *ExpenseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft expense
func (s *ExpenseService) Create(ctx context.Context, tenantID uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, error) {
	exists, err := s.expenseRepo.ExistsByNumber(ctx, tenantID, req.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Expense with this number already exists")
	}

	expense, err := finance.NewExpense(tenantID, req.Number, finance.ExpenseCategory(req.Category),
		req.Description, valueobject.NewMoneyUSD(req.Amount), req.IncurredDate)
	if err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.logger.Info("Expense created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("expense_id", expense.ID.String()),
		zap.String("number", expense.Number))

	response := ToExpenseResponse(expense)
	return &response, nil
}

// GetByID retrieves an expense by ID
func (s *ExpenseService) GetByID(ctx context.Context, tenantID, expenseID uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// List retrieves expenses with filtering and pagination
func (s *ExpenseService) List(ctx context.Context, tenantID uuid.UUID, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "incurred_date"
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
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}

	expenses, err := s.expenseRepo.FindAll(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.expenseRepo.Count(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToExpenseResponses(expenses), total, nil
}

// Update updates a draft expense
func (s *ExpenseService) Update(ctx context.Context, tenantID, expenseID uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}

	category := expense.Category
	description := expense.Description
	amount := expense.Amount
	incurredDate := expense.IncurredDate

	if req.Category != nil {
		category = finance.ExpenseCategory(*req.Category)
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Amount != nil {
		amount = *req.Amount
	}
	if req.IncurredDate != nil {
		incurredDate = *req.IncurredDate
	}

	if err := expense.Update(category, description, valueobject.NewMoneyUSD(amount), incurredDate); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// Submit submits a draft expense for approval
func (s *ExpenseService) Submit(ctx context.Context, tenantID, expenseID uuid.UUID) (*ExpenseResponse, error) {
	return s.transition(ctx, tenantID, expenseID, func(e *finance.Expense) error { return e.Submit() })
}

// Approve approves a submitted expense
func (s *ExpenseService) Approve(ctx context.Context, tenantID, expenseID uuid.UUID, req DecideExpenseRequest) (*ExpenseResponse, error) {
	response, err := s.transition(ctx, tenantID, expenseID, func(e *finance.Expense) error {
		return e.Approve(req.Approver)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Expense approved",
		zap.String("tenant_id", tenantID.String()),
		zap.String("expense_id", expenseID.String()),
		zap.String("approver", req.Approver))

	return response, nil
}

// Reject rejects a submitted expense with a reason
func (s *ExpenseService) Reject(ctx context.Context, tenantID, expenseID uuid.UUID, req DecideExpenseRequest) (*ExpenseResponse, error) {
	return s.transition(ctx, tenantID, expenseID, func(e *finance.Expense) error {
		return e.Reject(req.Approver, req.Reason)
	})
}

// MarkPaid records reimbursement of an approved expense
func (s *ExpenseService) MarkPaid(ctx context.Context, tenantID, expenseID uuid.UUID) (*ExpenseResponse, error) {
	return s.transition(ctx, tenantID, expenseID, func(e *finance.Expense) error { return e.MarkPaid() })
}

// Cancel cancels a draft, submitted, or approved expense
func (s *ExpenseService) Cancel(ctx context.Context, tenantID, expenseID uuid.UUID) (*ExpenseResponse, error) {
	return s.transition(ctx, tenantID, expenseID, func(e *finance.Expense) error { return e.Cancel() })
}

// Delete removes an expense. Expenses past draft stay for the audit trail.
func (s *ExpenseService) Delete(ctx context.Context, tenantID, expenseID uuid.UUID) error {
	expense, err := s.expenseRepo.FindByID(ctx, tenantID, expenseID)
	if err != nil {
		return err
	}

	if expense.Status != finance.ExpenseStatusDraft {
		return shared.NewDomainError("CANNOT_DELETE", "Only draft expenses can be deleted")
	}

	if expense.HasReceipt() {
		if err := s.receiptStorage.DeleteObject(ctx, expense.ReceiptKey); err != nil {
			s.logger.Warn("Failed to delete receipt object",
				zap.String("storage_key", expense.ReceiptKey),
				zap.Error(err))
		}
	}

	return s.expenseRepo.Delete(ctx, tenantID, expenseID)
}

// RequestReceiptUpload issues a presigned PUT URL for the expense receipt.
// The client uploads the file directly and then confirms with ConfirmReceiptUpload.
func (s *ExpenseService) RequestReceiptUpload(ctx context.Context, tenantID, expenseID uuid.UUID, req ReceiptUploadRequest) (*ReceiptURLResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot attach a receipt to a closed expense")
	}

	storageKey := fmt.Sprintf("tenants/%s/receipts/%s/%s", tenantID, expenseID, path.Base(req.FileName))
	url, expiresAt, err := s.receiptStorage.GenerateUploadURL(ctx, storageKey, req.ContentType, receiptURLTTL)
	if err != nil {
		return nil, err
	}

	return &ReceiptURLResponse{
		URL:        url,
		StorageKey: storageKey,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmReceiptUpload verifies the uploaded object exists and attaches it
func (s *ExpenseService) ConfirmReceiptUpload(ctx context.Context, tenantID, expenseID uuid.UUID, storageKey string) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("tenants/%s/receipts/%s/", tenantID, expenseID)
	if !strings.HasPrefix(storageKey, prefix) {
		return nil, shared.NewDomainError("INVALID_RECEIPT", "Receipt key does not belong to this expense")
	}

	uploaded, err := s.receiptStorage.ObjectExists(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	if !uploaded {
		return nil, shared.NewDomainError("RECEIPT_NOT_UPLOADED", "Receipt object was not found in storage")
	}

	if err := expense.AttachReceipt(storageKey); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, expense)

	s.logger.Info("Receipt attached",
		zap.String("tenant_id", tenantID.String()),
		zap.String("expense_id", expenseID.String()),
		zap.String("storage_key", storageKey))

	response := ToExpenseResponse(expense)
	return &response, nil
}

// ReceiptDownloadURL issues a presigned GET URL for the attached receipt
func (s *ExpenseService) ReceiptDownloadURL(ctx context.Context, tenantID, expenseID uuid.UUID) (*ReceiptURLResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}
	if !expense.HasReceipt() {
		return nil, shared.NewDomainError("NO_RECEIPT", "Expense has no receipt attached")
	}

	url, expiresAt, err := s.receiptStorage.GenerateDownloadURL(ctx, expense.ReceiptKey, receiptURLTTL)
	if err != nil {
		return nil, err
	}

	return &ReceiptURLResponse{
		URL:        url,
		StorageKey: expense.ReceiptKey,
		ExpiresAt:  expiresAt,
	}, nil
}

// Summary returns non-cancelled expense totals per category
func (s *ExpenseService) Summary(ctx context.Context, tenantID uuid.UUID) (*ExpenseSummaryResponse, error) {
	totals, err := s.expenseRepo.SummarizeByCategory(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	response := &ExpenseSummaryResponse{
		Categories:  make([]CategoryTotalResponse, len(totals)),
		TotalAmount: decimal.Zero,
	}
	for i, total := range totals {
		response.Categories[i] = CategoryTotalResponse{
			Category: string(total.Category),
			Count:    total.Count,
			Amount:   total.Amount,
		}
		response.TotalAmount = response.TotalAmount.Add(total.Amount)
	}

	return response, nil
}

func (s *ExpenseService) transition(ctx context.Context, tenantID, expenseID uuid.UUID, change func(*finance.Expense) error) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}

	if err := change(expense); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, expense)

	response := ToExpenseResponse(expense)
	return &response, nil
}

func (s *ExpenseService) publishEvents(ctx context.Context, expense *finance.Expense) {
	if s.eventPublisher == nil {
		return
	}

	events := expense.GetDomainEvents()
	if len(events) == 0 {
		return
	}

	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish expense events",
			zap.String("expense_id", expense.ID.String()),
			zap.Error(err))
	}
	expense.ClearDomainEvents()
}
