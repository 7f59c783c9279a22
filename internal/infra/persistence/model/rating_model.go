package model

import (
	"time"

	"github.com/google/uuid"
)

// RatingModel mirrors the 'ratings' table. The composite unique index keeps
// one rating per (rater, store) pair and doubles as the arbiter for
// concurrent submissions. RaterID is nullable so a deleted user's ratings
// survive anonymized.
type RatingModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	RaterID   *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_ratings_rater_store"`
	StoreID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_rater_store;index"`
	Value     int        `gorm:"not null;check:value >= 1 AND value <= 5"`
	Comment   *string    `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Rater *UserModel  `gorm:"foreignKey:RaterID"`
	Store *StoreModel `gorm:"foreignKey:StoreID"`
}

// TableName explicitly sets the table name for GORM.
func (RatingModel) TableName() string {
	return "ratings"
}
