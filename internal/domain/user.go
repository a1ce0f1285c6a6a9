package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles recognized by the marketplace.
const (
	RoleStudent  = "student"
	RoleLandlord = "landlord"
	RoleAdmin    = "admin"
)

type User struct {
	UserID       uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Fullname     string         `gorm:"column:fullname;not null" json:"fullname"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	Role         string         `gorm:"column:role;not null;default:student" json:"role"`
	Phone        string         `gorm:"column:phone" json:"phone"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate sets the UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}

// UserSummary is the counterpart-user projection embedded in reservation,
// booking and escrow listings.
type UserSummary struct {
	UserID   uuid.UUID `json:"user_id"`
	Fullname string    `json:"fullname"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{UserID: u.UserID, Fullname: u.Fullname, Email: u.Email, Phone: u.Phone}
}
