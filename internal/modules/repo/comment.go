package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"gorm.io/gorm"
)

type CommentRepo interface {
	Create(ctx context.Context, c *model.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Comment, error)
	Delete(ctx context.Context, c *model.Comment) error
}

type commentRepo struct{ db *gorm.DB }

func NewCommentRepo(db *gorm.DB) CommentRepo {
	return &commentRepo{db: db}
}

func (r *commentRepo) Create(ctx context.Context, c *model.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *commentRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByProject returns top-level comments with two levels of replies loaded.
func (r *commentRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Comment, error) {
	var items []model.Comment
	err := r.db.WithContext(ctx).
		Preload("Replies").
		Preload("Replies.Replies").
		Where("project_id = ? AND parent_id IS NULL", projectID).
		Order("created_at").
		Find(&items).Error
	return items, err
}

// Delete removes the comment; replies go with the parent FK cascade.
func (r *commentRepo) Delete(ctx context.Context, c *model.Comment) error {
	return r.db.WithContext(ctx).Delete(c).Error
}
