package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Escrow states. Held is the only non-terminal state.
const (
	EscrowHeld     = "held"
	EscrowReleased = "released"
	EscrowRefunded = "refunded"
)

// EscrowTransaction is the ledger entry for funds held pending landlord
// acceptance. Exactly one exists per booking, enforced by the unique index.
type EscrowTransaction struct {
	EscrowID     uuid.UUID  `gorm:"column:escrow_id;type:uuid;primaryKey" json:"escrow_id"`
	BookingID    uuid.UUID  `gorm:"column:booking_id;type:uuid;not null;uniqueIndex" json:"booking_id"`
	PropertyID   uuid.UUID  `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	StudentID    uuid.UUID  `gorm:"column:student_id;type:uuid;not null;index" json:"student_id"`
	LandlordID   uuid.UUID  `gorm:"column:landlord_id;type:uuid;not null;index" json:"landlord_id"`
	Amount       float64    `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Status       string     `gorm:"column:status;type:varchar(20);not null;default:'held'" json:"status"`
	HeldDate     time.Time  `gorm:"column:held_date;not null" json:"held_date"`
	ReleasedDate *time.Time `gorm:"column:released_date" json:"released_date,omitempty"`
	RefundedDate *time.Time `gorm:"column:refunded_date" json:"refunded_date,omitempty"`
	RefundReason string     `gorm:"column:refund_reason" json:"refund_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (EscrowTransaction) TableName() string {
	return "escrow_transactions"
}

func (e *EscrowTransaction) BeforeCreate(tx *gorm.DB) error {
	if e.EscrowID == uuid.Nil {
		e.EscrowID = uuid.New()
	}
	return nil
}
