package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/smartsoil/teamhub/internal/dto"
	"github.com/smartsoil/teamhub/internal/leveling"
	"github.com/smartsoil/teamhub/internal/model"
	"github.com/smartsoil/teamhub/internal/repository"
	"github.com/smartsoil/teamhub/pkg/apperror"
)

// completionMessages is the fixed set of congratulations shown when a task
// is completed. One is picked at random alongside the awarded amount.
var completionMessages = []string{
	"Soil-idly done! 🌱",
	"You're on fire! 🔥 (in a good, non-soil-burning way)",
	"Another one bites the dust! 🌪️",
	"Task crushed like a soil compactor! 💪",
	"You're growing the business! 🌿",
	"That's how it's done! 👏",
	"Smartsoil gets smarter thanks to you! 🧠",
	"Cultivating success, one task at a time! 🌾",
}

type PostService interface {
	AddPost(ctx context.Context, userID, threadID uuid.UUID, req dto.CreatePostRequest) (*model.Post, error)
	AddReply(ctx context.Context, userID, postID uuid.UUID, req dto.CreateReplyRequest) (*model.Reply, error)
	AssignTask(ctx context.Context, actorID, postID, assigneeID uuid.UUID) (*model.Post, error)
	ToggleCompletion(ctx context.Context, userID, postID uuid.UUID) (*dto.CompletionResponse, error)
	ToggleReaction(ctx context.Context, userID, postID uuid.UUID, emoji string) (*dto.ReactionsResponse, error)
	Reactions(ctx context.Context, postID uuid.UUID) (map[string]int64, error)
	ReactionUsers(ctx context.Context, postID uuid.UUID, emoji string) ([]uuid.UUID, error)
	PostsByThread(ctx context.Context, threadID uuid.UUID) ([]*model.Post, error)
	Feed(ctx context.Context, limit int) ([]*model.Post, error)
}

type postService struct {
	posts         repository.PostRepository
	threads       repository.ThreadRepository
	users         repository.UserRepository
	ledger        LedgerService
	notifications NotificationService
	redisClient   *redis.Client
	sanitizer     *bluemonday.Policy
	pickMessage   func() string
}

func NewPostService(
	posts repository.PostRepository,
	threads repository.ThreadRepository,
	users repository.UserRepository,
	ledger LedgerService,
	notifications NotificationService,
	redisClient *redis.Client,
) PostService {
	return &postService{
		posts:         posts,
		threads:       threads,
		users:         users,
		ledger:        ledger,
		notifications: notifications,
		redisClient:   redisClient,
		sanitizer:     bluemonday.UGCPolicy(),
		pickMessage: func() string {
			return completionMessages[rand.Intn(len(completionMessages))]
		},
	}
}

func (s *postService) AddPost(ctx context.Context, userID, threadID uuid.UUID, req dto.CreatePostRequest) (*model.Post, error) {
	thread, err := s.threads.FindByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	post := &model.Post{
		ThreadID:   thread.ID,
		Type:       req.Type,
		Title:      s.sanitizer.Sanitize(req.Title),
		Content:    s.sanitizer.Sanitize(req.Content),
		AuthorID:   userID,
		AssignedTo: req.AssignedTo,
		PointValue: req.PointValue,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	switch req.Type {
	case model.PostTypeIdea:
		relatedID := post.ID.String()
		_, err := s.ledger.AwardPoints(ctx, userID, model.ActivityIdeaShared,
			leveling.PointsIdeaShared, "Shared a new idea", &relatedID)
		if err != nil {
			return nil, fmt.Errorf("failed to award idea points: %w", err)
		}
	case model.PostTypeTask:
		if req.AssignedTo != nil {
			if err := s.awardAssignment(ctx, *req.AssignedTo, post); err != nil {
				return nil, err
			}
		}
	}

	return post, nil
}

func (s *postService) AddReply(ctx context.Context, userID, postID uuid.UUID, req dto.CreateReplyRequest) (*model.Reply, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	reply := &model.Reply{
		PostID:   postID,
		AuthorID: userID,
		Content:  s.sanitizer.Sanitize(req.Content),
	}

	if err := s.posts.CreateReply(ctx, reply); err != nil {
		return nil, err
	}

	relatedID := postID.String()
	_, err := s.ledger.AwardPoints(ctx, userID, model.ActivityReplyAdded,
		leveling.PointsReplyAdded, "Added a reply", &relatedID)
	if err != nil {
		return nil, fmt.Errorf("failed to award reply points: %w", err)
	}

	return reply, nil
}

func (s *postService) AssignTask(ctx context.Context, actorID, postID, assigneeID uuid.UUID) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if post.Type != model.PostTypeTask {
		return nil, fmt.Errorf("%w: only tasks can be assigned", apperror.ErrInvalidInput)
	}

	if _, err := s.users.FindByID(ctx, assigneeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: assignee not found", apperror.ErrInvalidInput)
		}
		return nil, err
	}

	post.AssignedTo = &assigneeID
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	if err := s.awardAssignment(ctx, assigneeID, post); err != nil {
		return nil, err
	}

	return post, nil
}

// ToggleCompletion drives the task state machine. Only the forward edge
// (incomplete to completed) has side effects: a completion post in the home
// feed and a one-time point award for the assignee. The reverse edge flips
// the content state only and never claws points back; the PointsAwarded
// latch keeps re-completion from awarding twice.
func (s *postService) ToggleCompletion(ctx context.Context, userID, postID uuid.UUID) (*dto.CompletionResponse, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if post.Type != model.PostTypeTask {
		return nil, fmt.Errorf("%w: only tasks can be completed", apperror.ErrInvalidInput)
	}

	post.IsCompleted = !post.IsCompleted
	newlyCompleted := post.IsCompleted
	award := newlyCompleted && !post.PointsAwarded
	if award {
		post.PointsAwarded = true
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	resp := &dto.CompletionResponse{Post: post}
	if !award {
		return resp, nil
	}

	recipient := userID
	if post.AssignedTo != nil {
		recipient = *post.AssignedTo
	}

	pointValue := leveling.PointsTaskComplete
	if post.PointValue != nil {
		pointValue = *post.PointValue
	}

	relatedID := post.ID.String()
	_, err = s.ledger.AwardPoints(ctx, recipient, model.ActivityTaskComplete,
		pointValue, fmt.Sprintf("Completed task: %s", post.Title), &relatedID)
	if err != nil {
		// Release the latch and the completion so a retry can award again;
		// the user must never be told points were granted that weren't.
		post.IsCompleted = false
		post.PointsAwarded = false
		if revertErr := s.posts.Update(ctx, post); revertErr != nil {
			log.Printf("failed to revert completion state for post %s: %v", post.ID, revertErr)
		}
		return nil, fmt.Errorf("failed to award completion points: %w", err)
	}

	s.createCompletionPost(ctx, post, recipient, pointValue)

	resp.Awarded = pointValue
	resp.Message = s.pickMessage()
	return resp, nil
}

// createCompletionPost synthesizes the announcement in the home feed.
func (s *postService) createCompletionPost(ctx context.Context, task *model.Post, recipient uuid.UUID, pointValue int) {
	home, err := s.threads.FindHome(ctx)
	if err != nil {
		log.Printf("failed to load home thread: %v", err)
		return
	}

	name := "Anonymous"
	if user, err := s.users.FindByID(ctx, recipient); err == nil {
		name = user.Name
	}

	var threadName *string
	if thread, err := s.threads.FindByID(ctx, task.ThreadID); err == nil {
		threadName = &thread.Name
	}

	taskID := task.ID
	completion := &model.Post{
		ThreadID:            home.ID,
		Type:                model.PostTypeCompletion,
		Title:               fmt.Sprintf("Task Completed: %s", task.Title),
		Content:             fmt.Sprintf("%s completed %q and earned %d points!", name, task.Title, pointValue),
		AuthorID:            recipient,
		OriginalTaskID:      &taskID,
		CompletedThreadName: threadName,
	}

	if err := s.posts.Create(ctx, completion); err != nil {
		log.Printf("failed to create completion post for task %s: %v", task.ID, err)
	}
}

func (s *postService) ToggleReaction(ctx context.Context, userID, postID uuid.UUID, emoji string) (*dto.ReactionsResponse, error) {
	if !allowedReaction(emoji) {
		return nil, fmt.Errorf("%w: unsupported reaction %q", apperror.ErrInvalidInput, emoji)
	}

	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	active, err := s.posts.ToggleReaction(ctx, &model.Reaction{
		PostID: postID,
		UserID: userID,
		Emoji:  emoji,
	})
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		delta := int64(1)
		if !active {
			delta = -1
		}
		key := reactionCountKey(postID)
		pipe := s.redisClient.Pipeline()
		pipe.HIncrBy(ctx, key, emoji, delta)
		pipe.Expire(ctx, key, 7*24*time.Hour)
		if _, err := pipe.Exec(ctx); err != nil {
			// DB already holds the truth; the cache rebuilds on next read.
			log.Printf("redis reaction update failed for post %s: %v", postID, err)
		}
	}

	counts, err := s.Reactions(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &dto.ReactionsResponse{Counts: counts, Active: active}, nil
}

func (s *postService) Reactions(ctx context.Context, postID uuid.UUID) (map[string]int64, error) {
	key := reactionCountKey(postID)

	if s.redisClient != nil {
		if val, err := s.redisClient.HGetAll(ctx, key).Result(); err == nil && len(val) > 0 {
			counts := make(map[string]int64, len(val))
			for emoji, raw := range val {
				if count, err := strconv.ParseInt(raw, 10, 64); err == nil && count > 0 {
					counts[emoji] = count
				}
			}
			return counts, nil
		}
	}

	counts, err := s.posts.ReactionCounts(ctx, postID)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil && len(counts) > 0 {
		pipe := s.redisClient.Pipeline()
		pipe.Del(ctx, key)
		for emoji, count := range counts {
			pipe.HSet(ctx, key, emoji, count)
		}
		pipe.Expire(ctx, key, 7*24*time.Hour)
		_, _ = pipe.Exec(ctx)
	}

	return counts, nil
}

// ReactionUsers lists who reacted to a post with a given emoji, for the
// reactor roster on the post card.
func (s *postService) ReactionUsers(ctx context.Context, postID uuid.UUID, emoji string) ([]uuid.UUID, error) {
	if !allowedReaction(emoji) {
		return nil, fmt.Errorf("%w: unsupported reaction %q", apperror.ErrInvalidInput, emoji)
	}

	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return s.posts.ReactionUsers(ctx, postID, emoji)
}

func (s *postService) PostsByThread(ctx context.Context, threadID uuid.UUID) ([]*model.Post, error) {
	thread, err := s.threads.FindByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	// The home thread is the aggregate feed.
	if thread.IsHome {
		return s.posts.FindRecent(ctx, 100)
	}

	return s.posts.FindByThread(ctx, threadID)
}

func (s *postService) Feed(ctx context.Context, limit int) ([]*model.Post, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.posts.FindRecent(ctx, limit)
}

func (s *postService) awardAssignment(ctx context.Context, assigneeID uuid.UUID, post *model.Post) error {
	relatedID := post.ID.String()
	_, err := s.ledger.AwardPoints(ctx, assigneeID, model.ActivityTaskAssigned,
		leveling.PointsTaskAssigned, "Task assigned to you", &relatedID)
	if err != nil {
		return fmt.Errorf("failed to award assignment points: %w", err)
	}

	// The notification stays best-effort; the points are already booked.
	if s.notifications != nil {
		err := s.notifications.Notify(ctx, &model.Notification{
			UserID:  assigneeID,
			Type:    model.NotificationTaskAssigned,
			Message: fmt.Sprintf("You were assigned: %s", post.Title),
		})
		if err != nil {
			log.Printf("failed to notify assignee %s: %v", assigneeID, err)
		}
	}

	return nil
}

func allowedReaction(emoji string) bool {
	for _, e := range model.AllowedReactions {
		if e == emoji {
			return true
		}
	}
	return false
}

func reactionCountKey(postID uuid.UUID) string {
	return fmt.Sprintf("counts:post:%s", postID.String())
}
