package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smartsoil/teamhub/internal/model"
	"github.com/smartsoil/teamhub/pkg/apperror"
)

type fakeChallengeRepo struct {
	challenges  map[uuid.UUID]*model.Challenge
	completions []*model.ChallengeCompletion
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: make(map[uuid.UUID]*model.Challenge)}
}

func (f *fakeChallengeRepo) Create(ctx context.Context, challenge *model.Challenge) error {
	if challenge.ID == uuid.Nil {
		challenge.ID = uuid.New()
	}
	f.challenges[challenge.ID] = challenge
	return nil
}

func (f *fakeChallengeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Challenge, error) {
	challenge, ok := f.challenges[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return challenge, nil
}

func (f *fakeChallengeRepo) FindActive(ctx context.Context) ([]*model.Challenge, error) {
	var out []*model.Challenge
	for _, c := range f.challenges {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChallengeRepo) HasCompleted(ctx context.Context, challengeID, userID uuid.UUID) (bool, error) {
	for _, c := range f.completions {
		if c.ChallengeID == challengeID && c.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeChallengeRepo) CreateCompletion(ctx context.Context, completion *model.ChallengeCompletion) error {
	f.completions = append(f.completions, completion)
	return nil
}

func (f *fakeChallengeRepo) DeleteCompletion(ctx context.Context, challengeID, userID uuid.UUID) error {
	kept := f.completions[:0]
	for _, c := range f.completions {
		if c.ChallengeID == challengeID && c.UserID == userID {
			continue
		}
		kept = append(kept, c)
	}
	f.completions = kept
	return nil
}

func (f *fakeChallengeRepo) CompletionsByUser(ctx context.Context, userID uuid.UUID) ([]*model.ChallengeCompletion, error) {
	var out []*model.ChallengeCompletion
	for _, c := range f.completions {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChallengeRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.challenges)), nil
}

func TestChallengeCompleteAwardsOnce(t *testing.T) {
	repo := newFakeChallengeRepo()
	ledger := &fakeLedger{}
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	svc := &challengeService{repo: repo, ledger: ledger, now: func() time.Time { return now }}

	challenge := &model.Challenge{
		Title:        "Task Terminator",
		PointsReward: 100,
		IsActive:     true,
		EndDate:      now.AddDate(0, 0, 30),
	}
	require.NoError(t, repo.Create(context.Background(), challenge))

	userID := uuid.New()

	got, err := svc.Complete(context.Background(), userID, challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, challenge.ID, got.ID)
	require.Len(t, ledger.awards, 1)
	assert.Equal(t, model.ActivityChallengeComplete, ledger.awards[0].Type)
	assert.Equal(t, 100, ledger.awards[0].Points)

	_, err = svc.Complete(context.Background(), userID, challenge.ID)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Len(t, ledger.awards, 1)
}

func TestChallengeCompleteAwardFailureIsRetryable(t *testing.T) {
	repo := newFakeChallengeRepo()
	ledger := &fakeLedger{fail: errors.New("ledger unavailable")}
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	svc := &challengeService{repo: repo, ledger: ledger, now: func() time.Time { return now }}

	challenge := &model.Challenge{
		Title:        "Task Terminator",
		PointsReward: 100,
		IsActive:     true,
		EndDate:      now.AddDate(0, 0, 30),
	}
	require.NoError(t, repo.Create(context.Background(), challenge))

	userID := uuid.New()

	_, err := svc.Complete(context.Background(), userID, challenge.ID)
	require.Error(t, err)
	// The completion rolls back so the retry is not rejected as a repeat.
	assert.Empty(t, repo.completions)

	ledger.fail = nil
	got, err := svc.Complete(context.Background(), userID, challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, challenge.ID, got.ID)
	require.Len(t, ledger.awards, 1)
	assert.Equal(t, 100, ledger.awards[0].Points)
}

func TestChallengeCompleteRejectsExpired(t *testing.T) {
	repo := newFakeChallengeRepo()
	ledger := &fakeLedger{}
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	svc := &challengeService{repo: repo, ledger: ledger, now: func() time.Time { return now }}

	expired := &model.Challenge{
		Title:        "Old Challenge",
		PointsReward: 25,
		IsActive:     true,
		EndDate:      now.AddDate(0, 0, -1),
	}
	require.NoError(t, repo.Create(context.Background(), expired))

	_, err := svc.Complete(context.Background(), uuid.New(), expired.ID)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Empty(t, ledger.awards)
}

func TestChallengeCompleteUnknownChallenge(t *testing.T) {
	svc := &challengeService{repo: newFakeChallengeRepo(), ledger: &fakeLedger{}, now: time.Now}

	_, err := svc.Complete(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestChallengeSeedDefaults(t *testing.T) {
	repo := newFakeChallengeRepo()
	svc := &challengeService{repo: repo, ledger: &fakeLedger{}, now: time.Now}

	require.NoError(t, svc.SeedDefaults(context.Background()))
	active, err := repo.FindActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 3)

	// Seeding is idempotent.
	require.NoError(t, svc.SeedDefaults(context.Background()))
	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
