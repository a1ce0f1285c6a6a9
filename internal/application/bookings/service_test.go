package bookings

import (
	"context"
	"testing"
	"time"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/pkg/apperrors"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBookingsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Property{}, &domain.PropertyImage{}, &domain.Reservation{}, &domain.Booking{}, &domain.EscrowTransaction{}, &domain.Notification{}))
	return &Service{DB: db}, db
}

func seedProperty(t *testing.T, db *gorm.DB, landlordID uuid.UUID) *domain.Property {
	t.Helper()
	p := &domain.Property{
		LandlordID:        landlordID,
		Title:             "Studio flat",
		Address:           "3 Campus Ave",
		City:              "Kumasi",
		MonthlyRent:       5000,
		AllowReservations: true,
		EnableDownpayment: true,
		Available:         true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestCreateBooking_DownpaymentMathAndEscrow(t *testing.T) {
	svc, db := setupBookingsTest(t)
	landlordID := uuid.New()
	studentID := uuid.New()
	property := seedProperty(t, db, landlordID)

	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		StudentID:      studentID,
		PropertyID:     property.PropertyID,
		LandlordID:     landlordID,
		MoveInDate:     time.Now().AddDate(0, 1, 0),
		DurationMonths: 3,
		PaymentMethod:  domain.PaymentDownpayment,
		TotalAmount:    15000,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BookingPending, booking.Status)
	assert.Equal(t, domain.PaymentDownpayment, booking.PaymentType)
	assert.Equal(t, 5000.0, booking.AmountPaid)
	assert.Equal(t, 10000.0, booking.RemainingBalance)

	// exactly one escrow record, held, for the paid amount
	var escrows []domain.EscrowTransaction
	require.NoError(t, db.Where("booking_id = ?", booking.BookingID).Find(&escrows).Error)
	require.Len(t, escrows, 1)
	assert.Equal(t, domain.EscrowHeld, escrows[0].Status)
	assert.Equal(t, 5000.0, escrows[0].Amount)
	assert.Equal(t, landlordID, escrows[0].LandlordID)
}

func TestCreateBooking_FullPayment(t *testing.T) {
	svc, db := setupBookingsTest(t)
	landlordID := uuid.New()
	property := seedProperty(t, db, landlordID)

	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		StudentID:      uuid.New(),
		PropertyID:     property.PropertyID,
		LandlordID:     landlordID,
		MoveInDate:     time.Now().AddDate(0, 1, 0),
		DurationMonths: 2,
		PaymentMethod:  "card",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentFull, booking.PaymentType)
	assert.Equal(t, 10000.0, booking.TotalAmount) // 2 months at 5000
	assert.Equal(t, booking.TotalAmount, booking.AmountPaid)
	assert.Equal(t, 0.0, booking.RemainingBalance)
}

func TestCreateBooking_MissingFields(t *testing.T) {
	svc, _ := setupBookingsTest(t)

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{})
	var ve *apperrors.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = svc.CreateBooking(context.Background(), CreateBookingInput{
		PropertyID: uuid.New(),
		LandlordID: uuid.New(),
	})
	assert.ErrorAs(t, err, &ve)
}

func TestCreateBooking_LandlordMismatch(t *testing.T) {
	svc, db := setupBookingsTest(t)
	property := seedProperty(t, db, uuid.New())

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		StudentID:  uuid.New(),
		PropertyID: property.PropertyID,
		LandlordID: uuid.New(),
		MoveInDate: time.Now(),
	})
	var ve *apperrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestCreateBooking_CompletesOriginatingReservation(t *testing.T) {
	svc, db := setupBookingsTest(t)
	landlordID := uuid.New()
	studentID := uuid.New()
	property := seedProperty(t, db, landlordID)

	reservation := &domain.Reservation{
		PropertyID: property.PropertyID,
		StudentID:  studentID,
		LandlordID: landlordID,
		Status:     domain.ReservationApproved,
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(reservation).Error)

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		StudentID:     studentID,
		PropertyID:    property.PropertyID,
		LandlordID:    landlordID,
		ReservationID: &reservation.ReservationID,
		MoveInDate:    time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	var got domain.Reservation
	require.NoError(t, db.Where("reservation_id = ?", reservation.ReservationID).First(&got).Error)
	assert.Equal(t, domain.ReservationCompleted, got.Status)
}

func TestUpdateBookingStatus_ApproveReleasesEscrow(t *testing.T) {
	svc, db := setupBookingsTest(t)
	landlordID := uuid.New()
	property := seedProperty(t, db, landlordID)

	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		StudentID:     uuid.New(),
		PropertyID:    property.PropertyID,
		LandlordID:    landlordID,
		MoveInDate:    time.Now().AddDate(0, 1, 0),
		PaymentMethod: domain.PaymentDownpayment,
		TotalAmount:   15000,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateBookingStatus(context.Background(), booking.BookingID, landlordID, domain.RoleLandlord, domain.BookingApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingApproved, updated.Status)

	var e domain.EscrowTransaction
	require.NoError(t, db.Where("booking_id = ?", booking.BookingID).First(&e).Error)
	assert.Equal(t, domain.EscrowReleased, e.Status)
	assert.NotNil(t, e.ReleasedDate)
}

func TestUpdateBookingStatus_RejectRefundsEscrow(t *testing.T) {
	svc, db := setupBookingsTest(t)
	landlordID := uuid.New()
	property := seedProperty(t, db, landlordID)

	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		StudentID:  uuid.New(),
		PropertyID: property.PropertyID,
		LandlordID: landlordID,
		MoveInDate: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	_, err = svc.UpdateBookingStatus(context.Background(), booking.BookingID, landlordID, domain.RoleLandlord, domain.BookingRejected)
	require.NoError(t, err)

	var e domain.EscrowTransaction
	require.NoError(t, db.Where("booking_id = ?", booking.BookingID).First(&e).Error)
	assert.Equal(t, domain.EscrowRefunded, e.Status)
	assert.NotNil(t, e.RefundedDate)
}

func TestUpdateBookingStatus_AuthorizationRules(t *testing.T) {
	svc, db := setupBookingsTest(t)
	landlordID := uuid.New()
	studentID := uuid.New()
	property := seedProperty(t, db, landlordID)

	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		StudentID:  studentID,
		PropertyID: property.PropertyID,
		LandlordID: landlordID,
		MoveInDate: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	var ae *apperrors.AuthorizationError

	// foreign landlord
	_, err = svc.UpdateBookingStatus(context.Background(), booking.BookingID, uuid.New(), domain.RoleLandlord, domain.BookingApproved)
	assert.ErrorAs(t, err, &ae)

	// student approving own booking
	_, err = svc.UpdateBookingStatus(context.Background(), booking.BookingID, studentID, domain.RoleStudent, domain.BookingApproved)
	assert.ErrorAs(t, err, &ae)

	// state unchanged after failed attempts
	var got domain.Booking
	require.NoError(t, db.Where("booking_id = ?", booking.BookingID).First(&got).Error)
	assert.Equal(t, domain.BookingPending, got.Status)

	// student cancel works
	cancelled, err := svc.CancelBooking(context.Background(), booking.BookingID, studentID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, cancelled.Status)
}

func TestUpdateBookingStatus_OtherStatusNoEscrowSideEffect(t *testing.T) {
	svc, db := setupBookingsTest(t)
	landlordID := uuid.New()
	property := seedProperty(t, db, landlordID)

	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		StudentID:  uuid.New(),
		PropertyID: property.PropertyID,
		LandlordID: landlordID,
		MoveInDate: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	_, err = svc.UpdateBookingStatus(context.Background(), booking.BookingID, landlordID, domain.RoleLandlord, domain.BookingConfirmed)
	require.NoError(t, err)

	var e domain.EscrowTransaction
	require.NoError(t, db.Where("booking_id = ?", booking.BookingID).First(&e).Error)
	assert.Equal(t, domain.EscrowHeld, e.Status)
}

func TestHasActiveBooking(t *testing.T) {
	svc, db := setupBookingsTest(t)
	landlordID := uuid.New()
	property := seedProperty(t, db, landlordID)

	active, err := svc.HasActiveBooking(context.Background(), property.PropertyID)
	require.NoError(t, err)
	assert.False(t, active)

	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		StudentID:  uuid.New(),
		PropertyID: property.PropertyID,
		LandlordID: landlordID,
		MoveInDate: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	// pending does not occupy the property
	active, err = svc.HasActiveBooking(context.Background(), property.PropertyID)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = svc.UpdateBookingStatus(context.Background(), booking.BookingID, landlordID, domain.RoleLandlord, domain.BookingConfirmed)
	require.NoError(t, err)

	active, err = svc.HasActiveBooking(context.Background(), property.PropertyID)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestGetBookingByID_PartyGate(t *testing.T) {
	svc, db := setupBookingsTest(t)
	landlordID := uuid.New()
	studentID := uuid.New()
	property := seedProperty(t, db, landlordID)

	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		StudentID:  studentID,
		PropertyID: property.PropertyID,
		LandlordID: landlordID,
		MoveInDate: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	_, err = svc.GetBookingByID(context.Background(), booking.BookingID, uuid.New(), domain.RoleStudent)
	var ae *apperrors.AuthorizationError
	assert.ErrorAs(t, err, &ae)

	view, err := svc.GetBookingByID(context.Background(), booking.BookingID, studentID, domain.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, booking.BookingID, view.BookingID)
}
