package bookings

import (
	"context"
	"fmt"
	"time"

	"unistay-backend/internal/application/escrow"
	"unistay-backend/internal/application/notifications"
	"unistay-backend/internal/domain"
	"unistay-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB      *gorm.DB
	Emitter notifications.Emitter
}

type CreateBookingInput struct {
	StudentID      uuid.UUID
	PropertyID     uuid.UUID
	LandlordID     uuid.UUID
	ReservationID  *uuid.UUID
	MoveInDate     time.Time
	DurationMonths int
	PaymentMethod  string // "downpayment" or anything else meaning full payment
	TotalAmount    float64
}

// CreateBooking inserts the booking, its held escrow record and the
// completion of any originating reservation in a single transaction, so a
// partial failure can never leave a booking without escrow.
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	if in.PropertyID == uuid.Nil || in.LandlordID == uuid.Nil {
		return nil, apperrors.Validation("property_id and landlord_id are required")
	}
	if in.MoveInDate.IsZero() {
		return nil, apperrors.Validation("move_in_date is required")
	}

	var property domain.Property
	if err := s.DB.WithContext(ctx).Where("property_id = ?", in.PropertyID).First(&property).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.Validation("Property not found")
		}
		return nil, err
	}
	if property.LandlordID != in.LandlordID {
		return nil, apperrors.Validation("landlord_id does not match property")
	}

	totalAmount := in.TotalAmount
	if totalAmount <= 0 {
		months := in.DurationMonths
		if months <= 0 {
			months = 1
		}
		totalAmount = property.MonthlyRent * float64(months)
	}

	paymentType := domain.PaymentFull
	amountPaid := totalAmount
	remaining := 0.0
	if in.PaymentMethod == domain.PaymentDownpayment {
		if !property.EnableDownpayment {
			return nil, apperrors.Validation("Property does not accept downpayments")
		}
		paymentType = domain.PaymentDownpayment
		amountPaid = property.MonthlyRent
		if property.DownpaymentAmount > 0 {
			amountPaid = property.DownpaymentAmount
		}
		remaining = totalAmount - amountPaid
	}

	booking := &domain.Booking{
		PropertyID:       in.PropertyID,
		StudentID:        in.StudentID,
		LandlordID:       in.LandlordID,
		ReservationID:    in.ReservationID,
		MoveInDate:       in.MoveInDate,
		DurationMonths:   in.DurationMonths,
		TotalAmount:      totalAmount,
		AmountPaid:       amountPaid,
		RemainingBalance: remaining,
		PaymentType:      paymentType,
		Status:           domain.BookingPending,
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Create(booking).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("Failed to create booking: %v", err)
	}
	if _, err := escrow.Create(tx, escrow.CreateInput{
		BookingID:  booking.BookingID,
		PropertyID: booking.PropertyID,
		StudentID:  booking.StudentID,
		LandlordID: booking.LandlordID,
		Amount:     amountPaid,
	}); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("Failed to create escrow record: %v", err)
	}
	if in.ReservationID != nil {
		if err := tx.Model(&domain.Reservation{}).
			Where("reservation_id = ? AND student_id = ?", *in.ReservationID, in.StudentID).
			Update("status", domain.ReservationCompleted).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("Failed to complete reservation: %v", err)
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("Failed to create booking: %v", err)
	}

	notifications.Emit(ctx, s.Emitter, domain.Notification{
		SenderID:   &booking.StudentID,
		ReceiverID: booking.LandlordID,
		Type:       domain.NotifyNewInquiry,
		Title:      "New booking inquiry",
		Message:    fmt.Sprintf("A student wants to book %s", property.Title),
		ActionURL:  "/bookings/" + booking.BookingID.String(),
	})
	return booking, nil
}

// View is the joined projection for booking reads.
type View struct {
	domain.Booking
	Property struct {
		PropertyID   uuid.UUID `json:"property_id"`
		Title        string    `json:"title"`
		City         string    `json:"city"`
		MonthlyRent  float64   `json:"monthly_rent"`
		PrimaryImage string    `json:"primary_image"`
	} `json:"property"`
	Counterpart domain.UserSummary `json:"counterpart"`
}

func (s *Service) GetStudentBookings(ctx context.Context, studentID uuid.UUID) ([]View, error) {
	var rows []domain.Booking
	if err := s.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.project(ctx, rows, false)
}

func (s *Service) GetLandlordBookings(ctx context.Context, landlordID uuid.UUID) ([]View, error) {
	var rows []domain.Booking
	if err := s.DB.WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.project(ctx, rows, true)
}

// GetBookingByID returns a booking to a party of it (or an admin).
func (s *Service) GetBookingByID(ctx context.Context, bookingID, userID uuid.UUID, role string) (*View, error) {
	var booking domain.Booking
	if err := s.DB.WithContext(ctx).Where("booking_id = ?", bookingID).First(&booking).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Booking not found")
		}
		return nil, err
	}
	if role != domain.RoleAdmin && booking.StudentID != userID && booking.LandlordID != userID {
		return nil, apperrors.Authorization("Booking does not belong to user")
	}
	views, err := s.project(ctx, []domain.Booking{booking}, booking.LandlordID == userID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// UpdateBookingStatus applies a role-gated status change. A landlord
// approval releases the escrow; a rejection refunds it; both commit in the
// same transaction as the status write. Other statuses persist with no
// escrow side effect.
func (s *Service) UpdateBookingStatus(ctx context.Context, bookingID, userID uuid.UUID, role, status string) (*domain.Booking, error) {
	var booking domain.Booking
	if err := s.DB.WithContext(ctx).Where("booking_id = ?", bookingID).First(&booking).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Booking not found")
		}
		return nil, err
	}

	switch role {
	case domain.RoleStudent:
		if booking.StudentID != userID {
			return nil, apperrors.Authorization("Booking does not belong to student")
		}
		if status != domain.BookingCancelled {
			return nil, apperrors.Authorization("Students may only cancel bookings")
		}
	case domain.RoleLandlord:
		if booking.LandlordID != userID {
			return nil, apperrors.Authorization("Booking does not belong to landlord")
		}
	default:
		return nil, apperrors.Authorization("Role cannot update bookings")
	}

	if booking.Status == status {
		return nil, apperrors.InvalidState("Booking is already %s", status)
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Model(&booking).Update("status", status).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if role == domain.RoleLandlord {
		switch status {
		case domain.BookingApproved:
			if _, err := escrow.Release(tx, booking.BookingID, userID); err != nil {
				tx.Rollback()
				return nil, err
			}
		case domain.BookingRejected:
			if _, err := escrow.Refund(tx, booking.BookingID, userID, "Booking rejected by landlord"); err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	booking.Status = status

	receiver := booking.StudentID
	if role == domain.RoleStudent {
		receiver = booking.LandlordID
	}
	notifications.Emit(ctx, s.Emitter, domain.Notification{
		SenderID:   &userID,
		ReceiverID: receiver,
		Type:       domain.NotifyBookingUpdated,
		Title:      "Booking " + status,
		Message:    fmt.Sprintf("Booking status changed to %s", status),
		ActionURL:  "/bookings/" + booking.BookingID.String(),
	})
	return &booking, nil
}

// CancelBooking is the student cancel path.
func (s *Service) CancelBooking(ctx context.Context, bookingID, studentID uuid.UUID) (*domain.Booking, error) {
	return s.UpdateBookingStatus(ctx, bookingID, studentID, domain.RoleStudent, domain.BookingCancelled)
}

// HasActiveBooking reports whether the property is occupied by a confirmed
// or active booking.
func (s *Service) HasActiveBooking(ctx context.Context, propertyID uuid.UUID) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.Booking{}).
		Where("property_id = ? AND status IN ?", propertyID, domain.ActiveBookingStatuses()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Service) project(ctx context.Context, rows []domain.Booking, counterpartIsStudent bool) ([]View, error) {
	views := make([]View, 0, len(rows))
	for _, b := range rows {
		v := View{Booking: b}
		var property domain.Property
		if err := s.DB.WithContext(ctx).Preload("Images").Where("property_id = ?", b.PropertyID).First(&property).Error; err == nil {
			v.Property.PropertyID = property.PropertyID
			v.Property.Title = property.Title
			v.Property.City = property.City
			v.Property.MonthlyRent = property.MonthlyRent
			v.Property.PrimaryImage = property.PrimaryImage()
		}
		counterpartID := b.LandlordID
		if counterpartIsStudent {
			counterpartID = b.StudentID
		}
		var counterpart domain.User
		if err := s.DB.WithContext(ctx).Where("user_id = ?", counterpartID).First(&counterpart).Error; err == nil {
			v.Counterpart = counterpart.Summary()
		}
		views = append(views, v)
	}
	return views, nil
}
