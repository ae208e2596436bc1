package service

import (
	"context"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/logger"
	"aluko-backend/internal/repository"
)

type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	push             PushSender
}

// NewNotificationService builds the in-app notification boundary. push may
// be nil when no FCM credentials are configured; notifications are then
// persisted but not pushed.
func NewNotificationService(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository, push PushSender) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		push:             push,
	}
}

// Notify persists the notification and fans it out to the user's devices.
// Every failure is logged and swallowed: callers fired a transition that
// is already committed and must not observe delivery problems.
func (s *notificationService) Notify(ctx context.Context, userID string, typ domain.NotificationType, title, message, relatedRentalID string) {
	note := &domain.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
	}
	if relatedRentalID != "" {
		note.RelatedRentalID = &relatedRentalID
	}
	if err := s.notificationRepo.Create(ctx, note); err != nil {
		logger.Error("failed to persist notification", "user_id", userID, "type", typ, "error", err)
		return
	}

	if s.push == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Warn("skipping push, user lookup failed", "user_id", userID, "error", err)
		return
	}
	if !user.AllowsNotifications {
		return
	}
	data := map[string]string{"type": string(typ)}
	if relatedRentalID != "" {
		data["rental_id"] = relatedRentalID
	}
	for _, token := range user.PushTokens {
		if err := s.push.Send(ctx, token, title, message, data); err != nil {
			logger.Warn("push delivery failed", "user_id", userID, "error", err)
		}
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var (
		notes []domain.Notification
		total int32
	)
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		notes, total, err = s.notificationRepo.List(ctx, userID, pageSize, offset)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	return withRetry(ctx, func(ctx context.Context) error {
		return s.notificationRepo.MarkAsRead(ctx, notificationID, userID)
	})
}
