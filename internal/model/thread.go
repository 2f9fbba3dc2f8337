package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Thread groups posts. The home thread is the aggregate feed that also
// receives synthesized task-completion posts.
type Thread struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	IsHome       bool      `gorm:"default:false" json:"is_home"`
	IsTaskThread bool      `gorm:"default:false" json:"is_task_thread"`
	CreatedBy    uuid.UUID `gorm:"type:uuid" json:"created_by"`
	Posts        []Post    `gorm:"foreignKey:ThreadID" json:"posts,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *Thread) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}
