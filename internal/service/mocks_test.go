package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"aluko-backend/internal/domain"
)

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ConditionalUpdateStatus(ctx context.Context, id string, expected, next domain.RentalStatus, patch domain.RentalPatch) (*domain.Rental, error) {
	args := m.Called(ctx, id, expected, next, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListByRenter(ctx context.Context, renterID string, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	args := m.Called(ctx, renterID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListByOwner(ctx context.Context, ownerID string, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	args := m.Called(ctx, ownerID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) CountOpenForRenterOnListing(ctx context.Context, renterID, listingID string) (int32, error) {
	args := m.Called(ctx, renterID, listingID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockRentalRepo) ListActivePastReturn(ctx context.Context, cutoffDate string) ([]domain.Rental, error) {
	args := m.Called(ctx, cutoffDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}

// MockListingRepo
type MockListingRepo struct {
	mock.Mock
}

func (m *MockListingRepo) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockAvailabilityRepo
type MockAvailabilityRepo struct {
	mock.Mock
}

func (m *MockAvailabilityRepo) InsertBlock(ctx context.Context, block *domain.AvailabilityBlock) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}
func (m *MockAvailabilityRepo) DeleteBlockByRental(ctx context.Context, rentalID string) error {
	args := m.Called(ctx, rentalID)
	return args.Error(0)
}
func (m *MockAvailabilityRepo) QueryOverlap(ctx context.Context, listingID, startDate, endDate, excludeRentalID string) ([]domain.AvailabilityBlock, error) {
	args := m.Called(ctx, listingID, startDate, endDate, excludeRentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AvailabilityBlock), args.Error(1)
}
func (m *MockAvailabilityRepo) ListByListing(ctx context.Context, listingID string) ([]domain.AvailabilityBlock, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AvailabilityBlock), args.Error(1)
}

// MockAvailabilityService
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) IsRangeFree(ctx context.Context, listingID, startDate, endDate, excludeRentalID string) (bool, error) {
	args := m.Called(ctx, listingID, startDate, endDate, excludeRentalID)
	return args.Bool(0), args.Error(1)
}
func (m *MockAvailabilityService) Lock(ctx context.Context, listingID, startDate, endDate, rentalID string) error {
	args := m.Called(ctx, listingID, startDate, endDate, rentalID)
	return args.Error(0)
}
func (m *MockAvailabilityService) Release(ctx context.Context, rentalID string) error {
	args := m.Called(ctx, rentalID)
	return args.Error(0)
}
func (m *MockAvailabilityService) BlockedDays(ctx context.Context, listingID string, year int, month time.Month) ([]string, error) {
	args := m.Called(ctx, listingID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockReviewRepo
type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}
func (m *MockReviewRepo) ListRentalsAwaitingReview(ctx context.Context, userID string) ([]domain.Rental, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRentalRequestNotification(ctx context.Context, ownerEmail, renterName, listingTitle string) error {
	args := m.Called(ctx, ownerEmail, renterName, listingTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalApprovalNotification(ctx context.Context, renterEmail, listingTitle, renterCode string) error {
	args := m.Called(ctx, renterEmail, listingTitle, renterCode)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalRejectionNotification(ctx context.Context, renterEmail, listingTitle, reason string) error {
	args := m.Called(ctx, renterEmail, listingTitle, reason)
	return args.Error(0)
}

// MockPushSender
type MockPushSender struct {
	mock.Mock
}

func (m *MockPushSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	args := m.Called(ctx, token, title, body, data)
	return args.Error(0)
}

// recordingNotifier collects fired notifications without ordering or
// expectation constraints. Rental transitions announce asynchronously, so
// tests only assert on it after an explicit wait.
type recordingNotifier struct {
	mu    sync.Mutex
	fired []firedNotification
}

type firedNotification struct {
	UserID   string
	Type     domain.NotificationType
	Title    string
	RentalID string
}

func (n *recordingNotifier) Notify(ctx context.Context, userID string, typ domain.NotificationType, title, message, relatedRentalID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fired = append(n.fired, firedNotification{UserID: userID, Type: typ, Title: title, RentalID: relatedRentalID})
}

func (n *recordingNotifier) snapshot() []firedNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]firedNotification, len(n.fired))
	copy(out, n.fired)
	return out
}

// fixedCodeSource hands out a deterministic sequence of handoff codes.
type fixedCodeSource struct {
	mu    sync.Mutex
	codes []string
	next  int
}

func (s *fixedCodeSource) SixDigitCode() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := s.codes[s.next%len(s.codes)]
	s.next++
	return code, nil
}
