package notifications

import (
	"context"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Emitter informs a counterparty of a state change. Implementations must be
// safe to call fire-and-forget: callers swallow errors and never abort their
// primary operation on emitter failure.
type Emitter interface {
	Notify(ctx context.Context, n domain.Notification) error
}

type Service struct {
	DB *gorm.DB
}

func (s *Service) Notify(ctx context.Context, n domain.Notification) error {
	return s.DB.WithContext(ctx).Create(&n).Error
}

// Emit dispatches a notification best-effort. Failures are logged and
// swallowed so the caller's primary operation is never rolled back.
func Emit(ctx context.Context, e Emitter, n domain.Notification) {
	if e == nil {
		return
	}
	if err := e.Notify(ctx, n); err != nil {
		log.Warn().Err(err).Str("type", n.Type).Str("receiver_id", n.ReceiverID.String()).Msg("Notification dispatch failed")
	}
}

func (s *Service) GetUserNotifications(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	var out []domain.Notification
	if err := s.DB.WithContext(ctx).
		Where("receiver_id = ?", userID).
		Order("created_at DESC").
		Limit(50).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) (*domain.Notification, error) {
	var n domain.Notification
	if err := s.DB.WithContext(ctx).Where("notification_id = ?", notificationID).First(&n).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Notification not found")
		}
		return nil, err
	}
	if n.ReceiverID != userID {
		return nil, apperrors.Authorization("Notification does not belong to user")
	}
	if err := s.DB.WithContext(ctx).Model(&n).Update("read", true).Error; err != nil {
		return nil, err
	}
	n.Read = true
	return &n, nil
}
