package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartsoil/teamhub/internal/leveling"
	"github.com/smartsoil/teamhub/internal/model"
	"github.com/smartsoil/teamhub/internal/repository"
	"github.com/smartsoil/teamhub/pkg/apperror"
)

// fakePointsRepo keeps one user's counters in memory and applies awards the
// way the real repository does inside its transaction.
type fakePointsRepo struct {
	state      *leveling.LedgerState
	activities []*model.PointActivity
	awardCalls int
}

func (f *fakePointsRepo) Award(ctx context.Context, userID uuid.UUID, build repository.BuildAward) (*leveling.LedgerState, error) {
	f.awardCalls++
	next, activities := build(f.state)
	f.state = &next
	for _, a := range activities {
		a.UserID = userID
	}
	f.activities = append(f.activities, activities...)
	return &next, nil
}

func (f *fakePointsRepo) HistoryByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.PointActivity, error) {
	return f.activities, nil
}

type fakeNotifier struct {
	sent []*model.Notification
}

func (f *fakeNotifier) Notify(ctx context.Context, n *model.Notification) error {
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Notification, error) {
	return f.sent, nil
}

func (f *fakeNotifier) MarkAsRead(ctx context.Context, id uuid.UUID) error    { return nil }
func (f *fakeNotifier) MarkAllAsRead(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeNotifier) UnreadCount(ctx context.Context, id uuid.UUID) (int64, error) {
	return 0, nil
}

func newTestLedgerService(repo *fakePointsRepo, notifier *fakeNotifier, now time.Time) *ledgerService {
	return &ledgerService{
		points:        repo,
		notifications: notifier,
		now:           func() time.Time { return now },
	}
}

func TestAwardPointsRejectsInvalidInput(t *testing.T) {
	svc := newTestLedgerService(&fakePointsRepo{}, nil, time.Now())
	userID := uuid.New()

	_, err := svc.AwardPoints(context.Background(), userID, "bogus_activity", 5, "x", nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = svc.AwardPoints(context.Background(), userID, model.ActivityIdeaShared, -1, "x", nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestAwardPointsFreshUser(t *testing.T) {
	repo := &fakePointsRepo{}
	svc := newTestLedgerService(repo, &fakeNotifier{}, time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))

	next, err := svc.AwardPoints(context.Background(), uuid.New(), model.ActivityTaskComplete, 10, "Completed task: test", nil)
	require.NoError(t, err)

	assert.Equal(t, 10, next.Points)
	assert.Equal(t, 10, next.WeeklyPoints)
	assert.Equal(t, 1, next.Streak)
	require.Len(t, repo.activities, 1)
	assert.Equal(t, model.ActivityTaskComplete, repo.activities[0].Type)
}

func TestAwardPointsStreakBonusRidesSameTransaction(t *testing.T) {
	lastActive := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	now := lastActive.Add(24 * time.Hour)

	repo := &fakePointsRepo{state: &leveling.LedgerState{
		Points:       20,
		WeeklyPoints: 20,
		Streak:       2,
		LastActive:   lastActive,
	}}
	svc := newTestLedgerService(repo, &fakeNotifier{}, now)

	next, err := svc.AwardPoints(context.Background(), uuid.New(), model.ActivityIdeaShared, 5, "Shared a new idea", nil)
	require.NoError(t, err)

	assert.Equal(t, 3, next.Streak)
	// 20 + 5 + streak bonus of 6.
	assert.Equal(t, 31, next.Points)
	assert.Equal(t, 1, repo.awardCalls)
	require.Len(t, repo.activities, 2)
	assert.Equal(t, model.ActivityStreakBonus, repo.activities[1].Type)
	assert.Equal(t, 6, repo.activities[1].Points)
}

func TestAwardPointsNoBonusWhenStreakResets(t *testing.T) {
	lastActive := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	repo := &fakePointsRepo{state: &leveling.LedgerState{
		Points:     20,
		Streak:     4,
		LastActive: lastActive,
	}}
	svc := newTestLedgerService(repo, &fakeNotifier{}, now)

	next, err := svc.AwardPoints(context.Background(), uuid.New(), model.ActivityIdeaShared, 5, "Shared a new idea", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, next.Streak)
	assert.Equal(t, 25, next.Points)
	require.Len(t, repo.activities, 1)
}

func TestAwardPointsNotifiesLevelUp(t *testing.T) {
	lastActive := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	repo := &fakePointsRepo{state: &leveling.LedgerState{
		Points:       45,
		WeeklyPoints: 45,
		Streak:       1,
		LastActive:   lastActive,
	}}
	notifier := &fakeNotifier{}
	svc := newTestLedgerService(repo, notifier, now)

	_, err := svc.AwardPoints(context.Background(), uuid.New(), model.ActivityTaskComplete, 10, "Completed task: test", nil)
	require.NoError(t, err)

	types := make([]string, 0, len(notifier.sent))
	for _, n := range notifier.sent {
		types = append(types, n.Type)
	}
	assert.Contains(t, types, model.NotificationPointsAwarded)
	assert.Contains(t, types, model.NotificationLevelUp)
}
