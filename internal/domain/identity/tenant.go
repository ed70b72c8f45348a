package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
)

// TenantStatus is the lifecycle state of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusInactive  TenantStatus = "inactive"
	TenantStatusSuspended TenantStatus = "suspended" // billing or abuse hold
)

// TenantPlan is the subscription tier of a tenant
type TenantPlan string

const (
	TenantPlanFree       TenantPlan = "free"
	TenantPlanStandard   TenantPlan = "standard"
	TenantPlanEnterprise TenantPlan = "enterprise"
)

// planUserLimits maps each plan to its user cap. Zero means unlimited.
var planUserLimits = map[TenantPlan]int{
	TenantPlanFree:       5,
	TenantPlanStandard:   50,
	TenantPlanEnterprise: 0,
}

var (
	tenantCodePattern   = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_\-]*$`)
	contactEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Tenant is a customer organization and the isolation boundary for all
// business records: every tenant-owned row carries its ID.
type Tenant struct {
	shared.BaseAggregateRoot
	Code     string
	Name     string
	Plan     TenantPlan
	Status   TenantStatus
	Contact  string
	Email    string
	Config   string // tenant-level settings as a JSON object
	MaxUsers int
	Notes    string
}

func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates an active free-plan tenant. The code is stored
// lowercased so lookups stay case-insensitive.
func NewTenant(code, name string) (*Tenant, error) {
	if err := validateTenantCode(code); err != nil {
		return nil, err
	}
	if err := validateTenantName(name); err != nil {
		return nil, err
	}

	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToLower(code),
		Name:              name,
		Plan:              TenantPlanFree,
		Status:            TenantStatusActive,
		Config:            "{}",
		MaxUsers:          planUserLimits[TenantPlanFree],
	}
	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))
	return tenant, nil
}

// touch bumps the modification timestamp and the optimistic lock version
func (t *Tenant) touch() {
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// setStatus transitions the lifecycle state and records the change event
func (t *Tenant) setStatus(next TenantStatus) {
	prev := t.Status
	t.Status = next
	t.touch()
	t.AddDomainEvent(NewTenantStatusChangedEvent(t, prev, next))
}

// Update replaces the tenant's basic contact information
func (t *Tenant) Update(name, contact, email string) error {
	if err := validateTenantName(name); err != nil {
		return err
	}
	if len(contact) > 100 {
		return shared.NewDomainError("INVALID_CONTACT", "Contact cannot exceed 100 characters")
	}
	if email != "" {
		if err := validateContactEmail(email); err != nil {
			return err
		}
	}

	t.Name = name
	t.Contact = contact
	t.Email = strings.ToLower(email)
	t.touch()
	t.AddDomainEvent(NewTenantUpdatedEvent(t))
	return nil
}

// UpdateConfig replaces the settings JSON. An empty string resets to the
// empty object so the column never holds invalid JSON.
func (t *Tenant) UpdateConfig(config string) error {
	if config == "" {
		config = "{}"
	}
	trimmed := strings.TrimSpace(config)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return shared.NewDomainError("INVALID_CONFIG", "Config must be a valid JSON object")
	}

	t.Config = trimmed
	t.touch()
	return nil
}

// SetPlan moves the tenant to another tier and applies that tier's user cap
func (t *Tenant) SetPlan(plan TenantPlan) error {
	limit, known := planUserLimits[plan]
	if !known {
		return shared.NewDomainError("INVALID_PLAN", "Unknown tenant plan")
	}

	prev := t.Plan
	t.Plan = plan
	t.MaxUsers = limit
	t.touch()
	t.AddDomainEvent(NewTenantPlanChangedEvent(t, prev, plan))
	return nil
}

func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Tenant is already active")
	}
	t.setStatus(TenantStatusActive)
	return nil
}

func (t *Tenant) Deactivate() error {
	if t.Status == TenantStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Tenant is already inactive")
	}
	t.setStatus(TenantStatusInactive)
	return nil
}

func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Tenant is already suspended")
	}
	t.setStatus(TenantStatusSuspended)
	return nil
}

func (t *Tenant) SetNotes(notes string) {
	t.Notes = notes
	t.touch()
}

func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// HasUnlimitedUsers reports whether the plan places no user cap
func (t *Tenant) HasUnlimitedUsers() bool {
	return t.MaxUsers == 0
}

// CanAddUser reports whether one more user fits under the plan cap
func (t *Tenant) CanAddUser(currentCount int64) bool {
	return t.HasUnlimitedUsers() || currentCount < int64(t.MaxUsers)
}

func validateTenantCode(code string) error {
	switch {
	case code == "":
		return shared.NewDomainError("INVALID_CODE", "Tenant code cannot be empty")
	case len(code) > 50:
		return shared.NewDomainError("INVALID_CODE", "Tenant code cannot exceed 50 characters")
	case !tenantCodePattern.MatchString(code):
		return shared.NewDomainError("INVALID_CODE", "Tenant code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validateTenantName(name string) error {
	switch {
	case name == "":
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	case len(name) > 200:
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}

func validateContactEmail(email string) error {
	switch {
	case len(email) > 200:
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	case !contactEmailPattern.MatchString(email):
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
