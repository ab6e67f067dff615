package auth

import (
	"time"

	"github.com/google/uuid"
)

// Account is the login identity for the system. Employee accounts are
// created by the HR request applicator, never through a public endpoint.
type Account struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"uniqueIndex:uq_account_email;not null"`
	Password  string    `gorm:"not null"` // bcrypt hash
	Name      string
	Role      string  `gorm:"type:varchar(30);not null;default:'empleado'"`
	Cedula    *string `gorm:"type:varchar(30)"` // linked employee, if any
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Account) TableName() string {
	return "accounts"
}
