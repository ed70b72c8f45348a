package models

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/identity"
)

// TenantModel is the GORM model for tenants. Tenants are the scoping
// root, so unlike every other model they carry no tenant_id column.
type TenantModel struct {
	AggregateModel
	Code     string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(200);not null"`
	Plan     string `gorm:"type:varchar(20);not null;default:'free'"`
	Status   string `gorm:"type:varchar(20);not null;default:'active';index"`
	Contact  string `gorm:"type:varchar(100)"`
	Email    string `gorm:"type:varchar(255)"`
	Config   string `gorm:"type:jsonb;default:'{}'"`
	MaxUsers int    `gorm:"not null;default:5"`
	Notes    string `gorm:"type:text"`
}

// TableName returns the table name
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the model to a domain tenant
func (m *TenantModel) ToDomain() *identity.Tenant {
	t := &identity.Tenant{
		Code:     m.Code,
		Name:     m.Name,
		Plan:     identity.TenantPlan(m.Plan),
		Status:   identity.TenantStatus(m.Status),
		Contact:  m.Contact,
		Email:    m.Email,
		Config:   m.Config,
		MaxUsers: m.MaxUsers,
		Notes:    m.Notes,
	}
	m.PopulateAggregateRoot(&t.BaseAggregateRoot)
	return t
}

// FromDomain populates the model from a domain tenant
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Code = t.Code
	m.Name = t.Name
	m.Plan = string(t.Plan)
	m.Status = string(t.Status)
	m.Contact = t.Contact
	m.Email = t.Email
	m.Config = t.Config
	m.MaxUsers = t.MaxUsers
	m.Notes = t.Notes
}

// TenantModelFromDomain creates a model from a domain tenant
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}

// UserModel is the GORM model for users.
// Username is unique within a tenant, not globally.
type UserModel struct {
	TenantAggregateModel
	Username       string     `gorm:"type:varchar(50);not null"`
	Email          string     `gorm:"type:varchar(255);index"`
	PasswordHash   string     `gorm:"type:varchar(255);not null"`
	DisplayName    string     `gorm:"type:varchar(100)"`
	Role           string     `gorm:"type:varchar(20);not null;default:'staff'"`
	Status         string     `gorm:"type:varchar(20);not null;default:'active';index"`
	LastLoginAt    *time.Time `gorm:""`
	LastLoginIP    string     `gorm:"type:varchar(45)"`
	FailedAttempts int        `gorm:"not null;default:0"`
	LockedUntil    *time.Time `gorm:""`
}

// TableName returns the table name
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		Username:       m.Username,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		DisplayName:    m.DisplayName,
		Role:           identity.UserRole(m.Role),
		Status:         identity.UserStatus(m.Status),
		LastLoginAt:    m.LastLoginAt,
		LastLoginIP:    m.LastLoginIP,
		FailedAttempts: m.FailedAttempts,
		LockedUntil:    m.LockedUntil,
	}
	m.PopulateTenantAggregateRoot(&u.TenantAggregateRoot)
	return u
}

// FromDomain populates the model from a domain user
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.Role = string(u.Role)
	m.Status = string(u.Status)
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
}

// UserModelFromDomain creates a model from a domain user
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
