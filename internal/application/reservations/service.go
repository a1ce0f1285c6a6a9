package reservations

import (
	"context"
	"fmt"
	"time"

	"unistay-backend/internal/application/notifications"
	"unistay-backend/internal/domain"
	"unistay-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const listLimit = 50

type Service struct {
	DB      *gorm.DB
	Emitter notifications.Emitter
	// Quota is the per-student limit on concurrent active holds (free tier).
	Quota int
}

func (s *Service) quota() int {
	if s.Quota > 0 {
		return s.Quota
	}
	return 2
}

// CreateReservation places a time-limited hold on a property for a student.
func (s *Service) CreateReservation(ctx context.Context, studentID, propertyID uuid.UUID, message string) (*domain.Reservation, error) {
	var property domain.Property
	if err := s.DB.WithContext(ctx).Where("property_id = ?", propertyID).First(&property).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.Validation("Property not found")
		}
		return nil, err
	}
	if !property.AllowReservations {
		return nil, apperrors.Validation("Property does not accept reservations")
	}

	active := domain.ActiveReservationStatuses()

	var onProperty int64
	if err := s.DB.WithContext(ctx).Model(&domain.Reservation{}).
		Where("student_id = ? AND property_id = ? AND status IN ?", studentID, propertyID, active).
		Count(&onProperty).Error; err != nil {
		return nil, err
	}
	if onProperty > 0 {
		return nil, apperrors.Conflict("You already have an active reservation on this property")
	}

	var activeCount int64
	if err := s.DB.WithContext(ctx).Model(&domain.Reservation{}).
		Where("student_id = ? AND status IN ?", studentID, active).
		Count(&activeCount).Error; err != nil {
		return nil, err
	}
	if activeCount >= int64(s.quota()) {
		return nil, apperrors.QuotaExceeded("Free tier limit reached: max %d active reservations", s.quota())
	}

	reservation := &domain.Reservation{
		PropertyID: propertyID,
		StudentID:  studentID,
		LandlordID: property.LandlordID,
		Status:     domain.ReservationReserved,
		Message:    message,
		ExpiresAt:  time.Now().Add(domain.ReservationTTL),
	}
	if err := s.DB.WithContext(ctx).Create(reservation).Error; err != nil {
		return nil, fmt.Errorf("Failed to create reservation: %v", err)
	}
	return reservation, nil
}

// View is the joined projection returned by the listing reads.
type View struct {
	domain.Reservation
	Property struct {
		PropertyID   uuid.UUID `json:"property_id"`
		Title        string    `json:"title"`
		City         string    `json:"city"`
		MonthlyRent  float64   `json:"monthly_rent"`
		PrimaryImage string    `json:"primary_image"`
	} `json:"property"`
	Counterpart domain.UserSummary `json:"counterpart"`
}

func (s *Service) GetStudentReservations(ctx context.Context, studentID uuid.UUID) ([]View, error) {
	var rows []domain.Reservation
	if err := s.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.project(ctx, rows, false)
}

func (s *Service) GetLandlordReservations(ctx context.Context, landlordID uuid.UUID) ([]View, error) {
	var rows []domain.Reservation
	if err := s.DB.WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.project(ctx, rows, true)
}

// project joins property, primary image and counterpart user onto each row.
// counterpartIsStudent selects which side of the reservation is summarized.
func (s *Service) project(ctx context.Context, rows []domain.Reservation, counterpartIsStudent bool) ([]View, error) {
	views := make([]View, 0, len(rows))
	for _, r := range rows {
		v := View{Reservation: r}
		var property domain.Property
		if err := s.DB.WithContext(ctx).Preload("Images").Where("property_id = ?", r.PropertyID).First(&property).Error; err == nil {
			v.Property.PropertyID = property.PropertyID
			v.Property.Title = property.Title
			v.Property.City = property.City
			v.Property.MonthlyRent = property.MonthlyRent
			v.Property.PrimaryImage = property.PrimaryImage()
		}
		counterpartID := r.LandlordID
		if counterpartIsStudent {
			counterpartID = r.StudentID
		}
		var counterpart domain.User
		if err := s.DB.WithContext(ctx).Where("user_id = ?", counterpartID).First(&counterpart).Error; err == nil {
			v.Counterpart = counterpart.Summary()
		}
		views = append(views, v)
	}
	return views, nil
}

// UpdateReservationStatus is the landlord's approve/reject decision.
func (s *Service) UpdateReservationStatus(ctx context.Context, reservationID, landlordID uuid.UUID, status, rejectionReason string) (*domain.Reservation, error) {
	if status != domain.ReservationApproved && status != domain.ReservationRejected {
		return nil, apperrors.Validation("Status must be approved or rejected")
	}
	if status == domain.ReservationRejected && rejectionReason == "" {
		return nil, apperrors.Validation("Rejection reason is required")
	}

	var reservation domain.Reservation
	if err := s.DB.WithContext(ctx).Where("reservation_id = ?", reservationID).First(&reservation).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Reservation not found")
		}
		return nil, err
	}
	if reservation.LandlordID != landlordID {
		return nil, apperrors.Authorization("Reservation does not belong to landlord")
	}
	if reservation.Status != domain.ReservationReserved {
		return nil, apperrors.InvalidState("Reservation is %s and can no longer be updated", reservation.Status)
	}

	updates := map[string]interface{}{"status": status}
	if status == domain.ReservationRejected {
		updates["rejection_reason"] = rejectionReason
	}
	if err := s.DB.WithContext(ctx).Model(&reservation).Updates(updates).Error; err != nil {
		return nil, err
	}
	reservation.Status = status
	reservation.RejectionReason = rejectionReason

	notifications.Emit(ctx, s.Emitter, domain.Notification{
		SenderID:   &landlordID,
		ReceiverID: reservation.StudentID,
		Type:       domain.NotifyReservationUpdated,
		Title:      "Reservation " + status,
		Message:    fmt.Sprintf("Your reservation has been %s", status),
		ActionURL:  "/reservations/" + reservation.ReservationID.String(),
	})
	return &reservation, nil
}

// CancelReservation is the student's withdrawal of a hold.
func (s *Service) CancelReservation(ctx context.Context, reservationID, studentID uuid.UUID) (*domain.Reservation, error) {
	var reservation domain.Reservation
	if err := s.DB.WithContext(ctx).Where("reservation_id = ?", reservationID).First(&reservation).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Reservation not found")
		}
		return nil, err
	}
	if reservation.StudentID != studentID {
		return nil, apperrors.Authorization("Reservation does not belong to student")
	}
	if reservation.Status != domain.ReservationReserved && reservation.Status != domain.ReservationApproved {
		return nil, apperrors.InvalidState("Reservation is %s and cannot be cancelled", reservation.Status)
	}
	if err := s.DB.WithContext(ctx).Model(&reservation).Update("status", domain.ReservationCancelled).Error; err != nil {
		return nil, err
	}
	reservation.Status = domain.ReservationCancelled
	return &reservation, nil
}

// HasActiveReservation reports whether any hold on the property is live.
func (s *Service) HasActiveReservation(ctx context.Context, propertyID uuid.UUID) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.Reservation{}).
		Where("property_id = ? AND status IN ?", propertyID, domain.ActiveReservationStatuses()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExpireOldReservations transitions every reserved hold past its expiry into
// expired. Idempotent; returns the number of rows affected.
func (s *Service) ExpireOldReservations(ctx context.Context) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&domain.Reservation{}).
		Where("status = ? AND expires_at <= ?", domain.ReservationReserved, time.Now()).
		Update("status", domain.ReservationExpired)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		log.Info().Int64("expired", res.RowsAffected).Msg("Expired stale reservations")
	}
	return res.RowsAffected, nil
}
