package Models

import (
	"gorm.io/gorm"
)

// Permission levels used by middleware.Verify
const (
	PermissionInspector = 1
	PermissionAdmin     = 3
	PermissionOwner     = 4
)

type User struct {
	gorm.Model
	Email      string `json:"email" gorm:"uniqueIndex;not null"`
	Password   []byte `json:"-"`
	FullName   string `json:"full_name"`
	AvatarURL  string `json:"avatar_url"`
	Permission int    `json:"permission" gorm:"default:1"`
	IsApproved bool   `json:"is_approved" gorm:"default:true"`
}
