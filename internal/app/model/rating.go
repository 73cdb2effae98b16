package model

import (
	"time"
)

// Rating is one user's rating of one store. The composite unique index
// guarantees at most one row per (user, store); submissions are upserts
// keyed on that index.
type Rating struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID  uint `gorm:"not null;index:idx_user_store_rating,unique" json:"user_id"`
	StoreID uint `gorm:"not null;index:idx_user_store_rating,unique" json:"store_id"`

	Rating  int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment string `gorm:"type:text" json:"comment,omitempty"`

	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Store Store `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE" json:"store,omitempty"`
}

func (Rating) TableName() string {
	return "ratings"
}
