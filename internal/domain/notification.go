package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification types emitted by the reservation/booking/escrow flow.
const (
	NotifyNewInquiry         = "new_inquiry"
	NotifyReservationUpdated = "reservation_updated"
	NotifyBookingUpdated     = "booking_updated"
	NotifyEscrowUpdated      = "escrow_updated"
	NotifyPropertyVerified   = "property_verified"
)

type Notification struct {
	NotificationID uuid.UUID      `gorm:"column:notification_id;type:uuid;primaryKey" json:"notification_id"`
	SenderID       *uuid.UUID     `gorm:"column:sender_id;type:uuid" json:"sender_id,omitempty"`
	ReceiverID     uuid.UUID      `gorm:"column:receiver_id;type:uuid;not null;index" json:"receiver_id"`
	Type           string         `gorm:"column:type;type:varchar(40);not null" json:"type"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Message        string         `gorm:"column:message" json:"message"`
	ActionURL      string         `gorm:"column:action_url" json:"action_url"`
	Data           datatypes.JSON `gorm:"column:data;type:json" json:"data,omitempty"`
	Read           bool           `gorm:"column:read;default:false" json:"read"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return nil
}
