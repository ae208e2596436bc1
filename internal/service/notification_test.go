package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/service"
)

func TestNotificationService_Notify(t *testing.T) {
	ctx := context.Background()

	t.Run("Persists and pushes to every device", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		userRepo := new(MockUserRepo)
		push := new(MockPushSender)

		noteRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == "user-1" && n.Type == domain.NotificationRentalApproved &&
				n.RelatedRentalID != nil && *n.RelatedRentalID == "rental-1"
		})).Return(nil)
		userRepo.On("GetByID", mock.Anything, "user-1").Return(&domain.User{
			ID: "user-1", PushTokens: []string{"tok-a", "tok-b"}, AllowsNotifications: true,
		}, nil)
		push.On("Send", mock.Anything, "tok-a", "Approved", "Your request was approved", mock.Anything).Return(nil)
		push.On("Send", mock.Anything, "tok-b", "Approved", "Your request was approved", mock.Anything).Return(nil)

		svc := service.NewNotificationService(noteRepo, userRepo, push)
		svc.Notify(ctx, "user-1", domain.NotificationRentalApproved, "Approved", "Your request was approved", "rental-1")

		push.AssertNumberOfCalls(t, "Send", 2)
	})

	t.Run("Muted users are not pushed", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		userRepo := new(MockUserRepo)
		push := new(MockPushSender)

		noteRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("GetByID", mock.Anything, "user-1").Return(&domain.User{
			ID: "user-1", PushTokens: []string{"tok-a"}, AllowsNotifications: false,
		}, nil)

		svc := service.NewNotificationService(noteRepo, userRepo, push)
		svc.Notify(ctx, "user-1", domain.NotificationRentalRequest, "New request", "msg", "")

		push.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Persistence failure is swallowed", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		userRepo := new(MockUserRepo)
		noteRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

		svc := service.NewNotificationService(noteRepo, userRepo, nil)
		svc.Notify(ctx, "user-1", domain.NotificationRentalRequest, "New request", "msg", "")
		userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestNotificationService_GetNotifications(t *testing.T) {
	ctx := context.Background()

	noteRepo := new(MockNotificationRepo)
	userRepo := new(MockUserRepo)
	notes := []domain.Notification{{ID: "n1", UserID: "user-1"}}
	// Out-of-range paging falls back to the first page of twenty.
	noteRepo.On("List", mock.Anything, "user-1", int32(20), int32(0)).Return(notes, int32(1), nil)

	svc := service.NewNotificationService(noteRepo, userRepo, nil)
	got, total, err := svc.GetNotifications(ctx, "user-1", 0, 500)
	require.NoError(t, err)
	assert.Equal(t, int32(1), total)
	assert.Equal(t, notes, got)
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	ctx := context.Background()

	noteRepo := new(MockNotificationRepo)
	noteRepo.On("MarkAsRead", mock.Anything, "n1", "user-1").Return(domain.ErrNotFound)

	svc := service.NewNotificationService(noteRepo, new(MockUserRepo), nil)
	err := svc.MarkAsRead(ctx, "user-1", "n1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
