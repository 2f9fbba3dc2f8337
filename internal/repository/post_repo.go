package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsoil/teamhub/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindByThread(ctx context.Context, threadID uuid.UUID) ([]*model.Post, error)
	FindRecent(ctx context.Context, limit int) ([]*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateReply(ctx context.Context, reply *model.Reply) error

	// ToggleReaction adds the reaction when absent and removes it when
	// present, returning whether it is now active.
	ToggleReaction(ctx context.Context, reaction *model.Reaction) (bool, error)
	ReactionCounts(ctx context.Context, postID uuid.UUID) (map[string]int64, error)
	ReactionUsers(ctx context.Context, postID uuid.UUID, emoji string) ([]uuid.UUID, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("replies.created_at ASC")
		}).
		Preload("Replies.Author").
		Where("id = ?", id).
		First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindByThread(ctx context.Context, threadID uuid.UUID) ([]*model.Post, error) {
	var posts []*model.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("replies.created_at ASC")
		}).
		Preload("Replies.Author").
		Where("thread_id = ?", threadID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) FindRecent(ctx context.Context, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("replies.created_at ASC")
		}).
		Preload("Replies.Author").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Post{}, "id = ?", id).Error
}

func (r *postRepository) CreateReply(ctx context.Context, reply *model.Reply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *postRepository) ToggleReaction(ctx context.Context, reaction *model.Reaction) (bool, error) {
	var active bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Reaction
		err := tx.Where("post_id = ? AND user_id = ? AND emoji = ?",
			reaction.PostID, reaction.UserID, reaction.Emoji).
			First(&existing).Error

		switch {
		case err == nil:
			active = false
			return tx.Delete(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			active = true
			return tx.Create(reaction).Error
		default:
			return err
		}
	})

	return active, err
}

func (r *postRepository) ReactionCounts(ctx context.Context, postID uuid.UUID) (map[string]int64, error) {
	type row struct {
		Emoji string
		Count int64
	}
	var rows []row

	if err := r.db.WithContext(ctx).
		Model(&model.Reaction{}).
		Select("emoji, COUNT(*) as count").
		Where("post_id = ?", postID).
		Group("emoji").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Emoji] = r.Count
	}
	return counts, nil
}

func (r *postRepository) ReactionUsers(ctx context.Context, postID uuid.UUID, emoji string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&model.Reaction{}).
		Where("post_id = ? AND emoji = ?", postID, emoji).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
