package escrow

import (
	"context"
	"time"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	BookingID  uuid.UUID
	PropertyID uuid.UUID
	StudentID  uuid.UUID
	LandlordID uuid.UUID
	Amount     float64
}

// Create inserts a held record. db may be a transaction so booking and
// escrow creation commit atomically.
func Create(db *gorm.DB, in CreateInput) (*domain.EscrowTransaction, error) {
	e := &domain.EscrowTransaction{
		BookingID:  in.BookingID,
		PropertyID: in.PropertyID,
		StudentID:  in.StudentID,
		LandlordID: in.LandlordID,
		Amount:     in.Amount,
		Status:     domain.EscrowHeld,
		HeldDate:   time.Now(),
	}
	if err := db.Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) CreateEscrowTransaction(ctx context.Context, in CreateInput) (*domain.EscrowTransaction, error) {
	return Create(s.DB.WithContext(ctx), in)
}

// Release moves a held record to released (funds to landlord). db may be a
// transaction so a booking status write and the escrow transition commit
// together.
func Release(db *gorm.DB, bookingID, landlordID uuid.UUID) (*domain.EscrowTransaction, error) {
	e, err := findByBooking(db, bookingID)
	if err != nil {
		return nil, err
	}
	return transition(db, e, landlordID, domain.EscrowReleased, "")
}

// Refund moves a held record to refunded (funds back to student).
func Refund(db *gorm.DB, bookingID, landlordID uuid.UUID, reason string) (*domain.EscrowTransaction, error) {
	e, err := findByBooking(db, bookingID)
	if err != nil {
		return nil, err
	}
	return transition(db, e, landlordID, domain.EscrowRefunded, reason)
}

func (s *Service) ReleaseEscrow(ctx context.Context, bookingID, landlordID uuid.UUID) (*domain.EscrowTransaction, error) {
	return Release(s.DB.WithContext(ctx), bookingID, landlordID)
}

func (s *Service) RefundEscrow(ctx context.Context, bookingID, landlordID uuid.UUID, reason string) (*domain.EscrowTransaction, error) {
	return Refund(s.DB.WithContext(ctx), bookingID, landlordID, reason)
}

// ReleaseEscrowByID is the landlord accept action on the escrow surface.
func (s *Service) ReleaseEscrowByID(ctx context.Context, escrowID, landlordID uuid.UUID) (*domain.EscrowTransaction, error) {
	e, err := s.findByID(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	if err := checkAccepted(e); err != nil {
		return nil, err
	}
	return transition(s.DB.WithContext(ctx), e, landlordID, domain.EscrowReleased, "")
}

// RefundEscrowByID is the landlord decline action on the escrow surface.
func (s *Service) RefundEscrowByID(ctx context.Context, escrowID, landlordID uuid.UUID, reason string) (*domain.EscrowTransaction, error) {
	e, err := s.findByID(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	if err := checkAccepted(e); err != nil {
		return nil, err
	}
	return transition(s.DB.WithContext(ctx), e, landlordID, domain.EscrowRefunded, reason)
}

func checkAccepted(e *domain.EscrowTransaction) error {
	switch e.Status {
	case domain.EscrowReleased:
		return apperrors.InvalidState("Escrow has already been accepted")
	case domain.EscrowRefunded:
		return apperrors.InvalidState("Escrow has already been declined")
	}
	return nil
}

// transition enforces the ownership and held-only rules. The only legal
// moves are held to released and held to refunded.
func transition(db *gorm.DB, e *domain.EscrowTransaction, landlordID uuid.UUID, status, reason string) (*domain.EscrowTransaction, error) {
	if e.LandlordID != landlordID {
		return nil, apperrors.Authorization("Escrow does not belong to landlord")
	}
	if e.Status != domain.EscrowHeld {
		return nil, apperrors.InvalidState("Escrow is %s and cannot transition", e.Status)
	}
	now := time.Now()
	updates := map[string]interface{}{"status": status}
	switch status {
	case domain.EscrowReleased:
		updates["released_date"] = now
		e.ReleasedDate = &now
	case domain.EscrowRefunded:
		updates["refunded_date"] = now
		e.RefundedDate = &now
		if reason != "" {
			updates["refund_reason"] = reason
			e.RefundReason = reason
		}
	}
	if err := db.Model(e).Updates(updates).Error; err != nil {
		return nil, err
	}
	e.Status = status
	return e, nil
}

func findByBooking(db *gorm.DB, bookingID uuid.UUID) (*domain.EscrowTransaction, error) {
	var e domain.EscrowTransaction
	if err := db.Where("booking_id = ?", bookingID).First(&e).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Escrow record not found for booking")
		}
		return nil, err
	}
	return &e, nil
}

func (s *Service) findByID(ctx context.Context, escrowID uuid.UUID) (*domain.EscrowTransaction, error) {
	var e domain.EscrowTransaction
	if err := s.DB.WithContext(ctx).Where("escrow_id = ?", escrowID).First(&e).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Escrow record not found")
		}
		return nil, err
	}
	return &e, nil
}

// View is the joined projection for the escrow listing reads. Images sort
// primary first, relative order otherwise stable.
type View struct {
	domain.EscrowTransaction
	Property struct {
		PropertyID  uuid.UUID              `json:"property_id"`
		Title       string                 `json:"title"`
		City        string                 `json:"city"`
		MonthlyRent float64                `json:"monthly_rent"`
		Images      []domain.PropertyImage `json:"images"`
	} `json:"property"`
	Counterpart domain.UserSummary `json:"counterpart"`
}

func (s *Service) GetLandlordEscrow(ctx context.Context, landlordID uuid.UUID) ([]View, error) {
	var rows []domain.EscrowTransaction
	if err := s.DB.WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.project(ctx, rows, true)
}

func (s *Service) GetStudentEscrow(ctx context.Context, studentID uuid.UUID) ([]View, error) {
	var rows []domain.EscrowTransaction
	if err := s.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.project(ctx, rows, false)
}

// GetEscrowByBooking returns the single escrow record for a booking; only a
// party to the record may read it.
func (s *Service) GetEscrowByBooking(ctx context.Context, bookingID, userID uuid.UUID) (*domain.EscrowTransaction, error) {
	e, err := findByBooking(s.DB.WithContext(ctx), bookingID)
	if err != nil {
		return nil, err
	}
	if e.StudentID != userID && e.LandlordID != userID {
		return nil, apperrors.Authorization("Escrow does not belong to user")
	}
	return e, nil
}

func (s *Service) project(ctx context.Context, rows []domain.EscrowTransaction, counterpartIsStudent bool) ([]View, error) {
	views := make([]View, 0, len(rows))
	for _, e := range rows {
		v := View{EscrowTransaction: e}
		var property domain.Property
		if err := s.DB.WithContext(ctx).
			Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
			Where("property_id = ?", e.PropertyID).First(&property).Error; err == nil {
			domain.SortImagesPrimaryFirst(property.Images)
			v.Property.PropertyID = property.PropertyID
			v.Property.Title = property.Title
			v.Property.City = property.City
			v.Property.MonthlyRent = property.MonthlyRent
			v.Property.Images = property.Images
		}
		counterpartID := e.LandlordID
		if counterpartIsStudent {
			counterpartID = e.StudentID
		}
		var counterpart domain.User
		if err := s.DB.WithContext(ctx).Where("user_id = ?", counterpartID).First(&counterpart).Error; err == nil {
			v.Counterpart = counterpart.Summary()
		}
		views = append(views, v)
	}
	return views, nil
}
