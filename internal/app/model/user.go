package model

import (
	"time"
)

type UserRole string

const (
	RoleAdmin      UserRole = "admin"       // platform administrator
	RoleUser       UserRole = "user"        // regular user, may rate stores
	RoleStoreOwner UserRole = "store_owner" // owns a store, sees its ratings
)

// ValidRoles returns the closed set of assignable roles.
func ValidRoles() []UserRole {
	return []UserRole{RoleAdmin, RoleUser, RoleStoreOwner}
}

// IsValid reports whether the role is one of the closed set.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStoreOwner:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Address      string    `gorm:"type:varchar(400)" json:"address"` // optional, max 400 chars
	Role         UserRole  `gorm:"type:varchar(20);default:'user';index" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Stores  []Store  `gorm:"foreignKey:OwnerID" json:"stores,omitempty"` // stores owned (store_owner only)
	Ratings []Rating `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}
