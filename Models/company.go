package Models

import (
	"time"

	"gorm.io/gorm"
)

type Company struct {
	gorm.Model
	Name    string `json:"name" gorm:"not null"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	LogoURL string `json:"logo_url"`
}

// Member roles within a company
const (
	RoleOwner     = "owner"
	RoleAdmin     = "admin"
	RoleInspector = "inspector"
)

type CompanyMember struct {
	gorm.Model
	CompanyID uint   `json:"company_id" gorm:"index;not null"`
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	Role      string `json:"role" gorm:"type:varchar(20);default:'inspector'"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}

// RolePermission maps a member role to the permission level enforced by
// middleware.Verify.
func RolePermission(role string) int {
	switch role {
	case RoleOwner:
		return PermissionOwner
	case RoleAdmin:
		return PermissionAdmin
	default:
		return PermissionInspector
	}
}

type CompanyInvitation struct {
	gorm.Model
	CompanyID uint      `json:"company_id" gorm:"index;not null"`
	Email     string    `json:"email" gorm:"not null"`
	Role      string    `json:"role" gorm:"type:varchar(20);default:'inspector'"`
	Token     string    `json:"-" gorm:"uniqueIndex;size:64"`
	InvitedBy uint      `json:"invited_by"`
	ExpiresAt time.Time `json:"expires_at"`
	Accepted  bool      `json:"accepted" gorm:"default:false"`
}

// IntegrationHousecallPro is the only integration type currently supported.
const IntegrationHousecallPro = "housecall_pro"

type CompanyIntegration struct {
	gorm.Model
	CompanyID       uint       `json:"company_id" gorm:"index:idx_company_integration,unique;not null"`
	IntegrationType string     `json:"integration_type" gorm:"index:idx_company_integration,unique;type:varchar(40)"`
	APIKey          string     `json:"-"`
	IsActive        bool       `json:"is_active" gorm:"default:true"`
	ConnectedBy     uint       `json:"connected_by"`
	ConnectedAt     *time.Time `json:"connected_at"`
}
