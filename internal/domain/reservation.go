package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reservation lifecycle states.
const (
	ReservationReserved  = "reserved"
	ReservationApproved  = "approved"
	ReservationRejected  = "rejected"
	ReservationCancelled = "cancelled"
	ReservationExpired   = "expired"
	ReservationCompleted = "completed"
)

// ReservationTTL is how long a hold stays valid before the expiry sweep
// picks it up.
const ReservationTTL = 48 * time.Hour

type Reservation struct {
	ReservationID   uuid.UUID `gorm:"column:reservation_id;type:uuid;primaryKey" json:"reservation_id"`
	PropertyID      uuid.UUID `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	StudentID       uuid.UUID `gorm:"column:student_id;type:uuid;not null;index" json:"student_id"`
	LandlordID      uuid.UUID `gorm:"column:landlord_id;type:uuid;not null;index" json:"landlord_id"`
	Status          string    `gorm:"column:status;type:varchar(20);not null;default:'reserved'" json:"status"`
	Message         string    `gorm:"column:message" json:"message"`
	RejectionReason string    `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	ExpiresAt       time.Time `gorm:"column:expires_at;not null;index" json:"expires_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Reservation) TableName() string {
	return "reservations"
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ReservationID == uuid.Nil {
		r.ReservationID = uuid.New()
	}
	return nil
}

// ActiveReservationStatuses are the states that count against the
// per-student quota and block duplicate holds on the same property.
func ActiveReservationStatuses() []string {
	return []string{ReservationReserved, ReservationApproved}
}
