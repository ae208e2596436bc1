package jobs_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/jobs"
)

type capturedNote struct {
	UserID   string
	Type     domain.NotificationType
	RentalID string
}

type captureNotifier struct {
	mu    sync.Mutex
	notes []capturedNote
}

func (n *captureNotifier) Notify(ctx context.Context, userID string, typ domain.NotificationType, title, message, relatedRentalID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, capturedNote{UserID: userID, Type: typ, RentalID: relatedRentalID})
}

func TestSendReturnReminders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	today := time.Now().UTC().Format("2006-01-02")
	endDate, _ := time.Parse("2006-01-02", today)
	rows := sqlmock.NewRows([]string{"id", "renter_id", "end_date", "return_time"}).
		AddRow("rental-1", "renter-1", endDate, "18:00").
		AddRow("rental-2", "renter-2", endDate, "12:00")
	mock.ExpectQuery("SELECT (.+) FROM rentals").
		WithArgs(today).
		WillReturnRows(rows)

	notifier := &captureNotifier{}
	runner := jobs.NewJobRunner(db, nil, notifier, nil)
	runner.SendReturnReminders()

	require.Len(t, notifier.notes, 2)
	assert.Equal(t, domain.NotificationReturnReminder, notifier.notes[0].Type)
	assert.Equal(t, "renter-1", notifier.notes[0].UserID)
	assert.Equal(t, "rental-1", notifier.notes[0].RentalID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendPickupReminders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	today := time.Now().UTC().Format("2006-01-02")
	rows := sqlmock.NewRows([]string{"id", "owner_id", "renter_id", "pickup_time"}).
		AddRow("rental-1", "owner-1", "renter-1", "10:00")
	mock.ExpectQuery("SELECT (.+) FROM rentals").
		WithArgs(today).
		WillReturnRows(rows)

	notifier := &captureNotifier{}
	runner := jobs.NewJobRunner(db, nil, notifier, nil)
	runner.SendPickupReminders()

	// Both sides of the handoff get a reminder.
	require.Len(t, notifier.notes, 2)
	assert.Equal(t, domain.NotificationPickupReminder, notifier.notes[0].Type)
	assert.Equal(t, "renter-1", notifier.notes[0].UserID)
	assert.Equal(t, "owner-1", notifier.notes[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendReviewRequests(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "user_id"}).
		AddRow("rental-1", "owner-1").
		AddRow("rental-1", "renter-1")
	mock.ExpectQuery("SELECT (.+) FROM rentals").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	notifier := &captureNotifier{}
	runner := jobs.NewJobRunner(db, nil, notifier, nil)
	runner.SendReviewRequests()

	require.Len(t, notifier.notes, 2)
	assert.Equal(t, domain.NotificationReviewRequest, notifier.notes[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
