package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking lifecycle states.
const (
	BookingPending   = "pending"
	BookingApproved  = "approved"
	BookingRejected  = "rejected"
	BookingCancelled = "cancelled"
	BookingConfirmed = "confirmed"
	BookingActive    = "active"
)

// Payment types.
const (
	PaymentFull        = "full"
	PaymentDownpayment = "downpayment"
)

type Booking struct {
	BookingID        uuid.UUID  `gorm:"column:booking_id;type:uuid;primaryKey" json:"booking_id"`
	PropertyID       uuid.UUID  `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	StudentID        uuid.UUID  `gorm:"column:student_id;type:uuid;not null;index" json:"student_id"`
	LandlordID       uuid.UUID  `gorm:"column:landlord_id;type:uuid;not null;index" json:"landlord_id"`
	ReservationID    *uuid.UUID `gorm:"column:reservation_id;type:uuid" json:"reservation_id,omitempty"`
	MoveInDate       time.Time  `gorm:"column:move_in_date;not null" json:"move_in_date"`
	DurationMonths   int        `gorm:"column:duration_months;default:1" json:"duration_months"`
	TotalAmount      float64    `gorm:"column:total_amount;type:decimal(18,2);not null" json:"total_amount"`
	AmountPaid       float64    `gorm:"column:amount_paid;type:decimal(18,2);not null" json:"amount_paid"`
	RemainingBalance float64    `gorm:"column:remaining_balance;type:decimal(18,2);default:0" json:"remaining_balance"`
	PaymentType      string     `gorm:"column:payment_type;type:varchar(20);not null" json:"payment_type"`
	Status           string     `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.BookingID == uuid.Nil {
		b.BookingID = uuid.New()
	}
	return nil
}

// ActiveBookingStatuses are the states in which a booking occupies the
// property.
func ActiveBookingStatuses() []string {
	return []string{BookingConfirmed, BookingActive}
}
