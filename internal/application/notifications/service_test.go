package notifications

import (
	"context"
	"errors"
	"testing"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/pkg/apperrors"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupNotificationsTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Notification{}))
	return &Service{DB: db}
}

func TestNotifyAndFetch(t *testing.T) {
	svc := setupNotificationsTest(t)
	userID := uuid.New()

	require.NoError(t, svc.Notify(context.Background(), domain.Notification{
		ReceiverID: userID,
		Type:       domain.NotifyReservationUpdated,
		Message:    "Your reservation was approved",
	}))
	require.NoError(t, svc.Notify(context.Background(), domain.Notification{
		ReceiverID: uuid.New(),
		Type:       domain.NotifyNewInquiry,
		Message:    "Somebody else's notification",
	}))

	out, err := svc.GetUserNotifications(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Your reservation was approved", out[0].Message)
	assert.False(t, out[0].Read)
}

func TestMarkRead_OwnershipGate(t *testing.T) {
	svc := setupNotificationsTest(t)
	userID := uuid.New()

	n := domain.Notification{ReceiverID: userID, Type: domain.NotifyNewInquiry, Message: "hi"}
	require.NoError(t, svc.Notify(context.Background(), n))

	var stored domain.Notification
	require.NoError(t, svc.DB.Where("receiver_id = ?", userID).First(&stored).Error)

	_, err := svc.MarkRead(context.Background(), stored.NotificationID, uuid.New())
	var ae *apperrors.AuthorizationError
	assert.ErrorAs(t, err, &ae)

	updated, err := svc.MarkRead(context.Background(), stored.NotificationID, userID)
	require.NoError(t, err)
	assert.True(t, updated.Read)
}

type failingEmitter struct{}

func (failingEmitter) Notify(context.Context, domain.Notification) error {
	return errors.New("downstream unavailable")
}

func TestEmit_SwallowsFailures(t *testing.T) {
	// must not panic and must not propagate the error
	Emit(context.Background(), failingEmitter{}, domain.Notification{ReceiverID: uuid.New()})
	Emit(context.Background(), nil, domain.Notification{ReceiverID: uuid.New()})
}
