package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsoil/teamhub/internal/model"
)

type ThreadRepository interface {
	Create(ctx context.Context, thread *model.Thread) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Thread, error)
	FindByName(ctx context.Context, name string) (*model.Thread, error)
	FindHome(ctx context.Context) (*model.Thread, error)
	FindAll(ctx context.Context) ([]*model.Thread, error)
	Update(ctx context.Context, thread *model.Thread) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type threadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

func (r *threadRepository) Create(ctx context.Context, thread *model.Thread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *threadRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Thread, error) {
	var thread model.Thread
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) FindByName(ctx context.Context, name string) (*model.Thread, error) {
	var thread model.Thread
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) FindHome(ctx context.Context) (*model.Thread, error) {
	var thread model.Thread
	if err := r.db.WithContext(ctx).
		Where("is_home = ?", true).
		First(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) FindAll(ctx context.Context) ([]*model.Thread, error) {
	var threads []*model.Thread
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&threads).Error; err != nil {
		return nil, err
	}
	return threads, nil
}

func (r *threadRepository) Update(ctx context.Context, thread *model.Thread) error {
	return r.db.WithContext(ctx).Save(thread).Error
}

func (r *threadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Thread{}, "id = ?", id).Error
}

func (r *threadRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Thread{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
