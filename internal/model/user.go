package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the stored role of a user.
type Role string

const (
	RoleIC               Role = "IC"
	RoleFrontLineManager Role = "Front Line Manager"
	RoleExecutive        Role = "Executive"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleIC, RoleFrontLineManager, RoleExecutive:
		return true
	}
	return false
}

// User is a member of the sales organisation that opportunities are assigned to.
type User struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Email     string    `json:"email" gorm:"size:255;not null;index"`
	Role      Role      `json:"role" gorm:"type:varchar(32);not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;<-:create"`
	UpdatedAt time.Time `json:"-"`
}

// BeforeCreate sets the ID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
