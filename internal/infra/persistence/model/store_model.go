package model

import (
	"time"

	"github.com/google/uuid"
)

// StoreModel mirrors the 'stores' table. AverageRating is the derived mean of
// the store's rating values, written only by the aggregator; numeric(3,2)
// fits the full range 1.00 to 5.00. Deleting a store cascades to its ratings.
type StoreModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name          string    `gorm:"type:varchar(100);unique;not null"`
	Email         *string   `gorm:"type:varchar(255)"`
	Address       *string   `gorm:"type:varchar(400)"`
	AverageRating *float64  `gorm:"type:numeric(3,2)"`
	OwnerID       uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Owner   *UserModel    `gorm:"foreignKey:OwnerID"`
	Ratings []RatingModel `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (StoreModel) TableName() string {
	return "stores"
}
