package models

import "time"

type UserRole string

const (
	RoleClient   UserRole = "client"
	RoleProvider UserRole = "provider"
	RoleAdmin    UserRole = "admin"
	RoleOperator UserRole = "operator"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleClient, RoleProvider, RoleAdmin, RoleOperator:
		return true
	}
	return false
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email        string   `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	FullName     string   `gorm:"size:255" json:"full_name"`
	CompanyName  string   `gorm:"size:255" json:"company_name,omitempty"`
	TaxID        *string  `gorm:"uniqueIndex;size:32" json:"tax_id,omitempty"` // CNPJ/CPF
	Phone        string   `gorm:"size:50" json:"phone,omitempty"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:client" json:"role"`
	IsActive     bool     `gorm:"not null;default:true" json:"is_active"`
	IsVerified   bool     `gorm:"not null;default:false" json:"is_verified"`

	// provider only
	ProviderType       string `gorm:"size:100" json:"provider_type,omitempty"`
	ServiceAreas       string `gorm:"size:255" json:"service_areas,omitempty"`
	CertificationLevel string `gorm:"size:100" json:"certification_level,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u User) Ownership() Ownership {
	return Ownership{OwnerID: &u.ID}
}
