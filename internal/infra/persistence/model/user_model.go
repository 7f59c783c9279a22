// Package model holds the GORM persistence models mirroring the database schema.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// Deleting a user cascades to their stores; ratings they authored keep their
// row with the rater reference set to NULL.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);unique;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Address      *string   `gorm:"type:varchar(400)"`
	Role         string    `gorm:"type:varchar(10);not null;default:'user'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Stores  []StoreModel  `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Ratings []RatingModel `gorm:"foreignKey:RaterID;constraint:OnDelete:SET NULL"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
