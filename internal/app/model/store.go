package model

import (
	"time"
)

type Store struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Address  string `gorm:"type:varchar(400);not null" json:"address"`
	ImageURL string `json:"image_url,omitempty"` // store photo (S3)

	// OwnerID is nullable: unclaimed stores have no owner. When set, the
	// referenced user must hold the store_owner role (enforced in the
	// service layer). Deleting the owner detaches the store.
	OwnerID *uint `gorm:"index" json:"owner_id"`
	Owner   *User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"owner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Ratings []Rating `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Store) TableName() string {
	return "stores"
}

// StoreWithAggregates is the read model for store listings: the store row
// joined with its rating aggregates and the requesting user's own rating.
// Aggregates are recomputed from the ratings table on every read.
type StoreWithAggregates struct {
	Store
	AverageRating float64 `json:"average_rating"` // 0 when the store has no ratings
	TotalRatings  int64   `json:"total_ratings"`
	UserRating    *int    `json:"user_rating"` // null when the requester has not rated
}
