package repo

import (
	"context"

	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"gorm.io/gorm"
)

// ProjectWithRating is a project row annotated with the average score
// computed at query time. The average is derived, never persisted.
type ProjectWithRating struct {
	model.Project
	AvgRating float64 `json:"avg_rating"`
}

type FeedRepo interface {
	Latest(ctx context.Context, limit int) ([]ProjectWithRating, error)
	Featured(ctx context.Context, limit int) ([]ProjectWithRating, error)
	TopRated(ctx context.Context, limit int) ([]ProjectWithRating, error)
	Search(ctx context.Context, query string) ([]ProjectWithRating, error)
}

type feedRepo struct{ db *gorm.DB }

func NewFeedRepo(db *gorm.DB) FeedRepo {
	return &feedRepo{db: db}
}

// annotated builds the base query: every row carries its computed average,
// with unrated projects at 0 rather than excluded.
func (r *feedRepo) annotated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Project{}).
		Select("projects.*, COALESCE(AVG(ratings.score), 0) AS avg_rating").
		Joins("LEFT JOIN ratings ON ratings.project_id = projects.id").
		Group("projects.id")
}

func (r *feedRepo) Latest(ctx context.Context, limit int) ([]ProjectWithRating, error) {
	var items []ProjectWithRating
	err := r.annotated(ctx).
		Order("projects.created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *feedRepo) Featured(ctx context.Context, limit int) ([]ProjectWithRating, error) {
	var items []ProjectWithRating
	err := r.annotated(ctx).
		Where("projects.is_featured = true").
		Order("projects.created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *feedRepo) TopRated(ctx context.Context, limit int) ([]ProjectWithRating, error) {
	var items []ProjectWithRating
	err := r.annotated(ctx).
		Order("avg_rating DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// Search unions substring title matches with tag-name matches, no ranking.
func (r *feedRepo) Search(ctx context.Context, query string) ([]ProjectWithRating, error) {
	like := "%" + query + "%"
	var items []ProjectWithRating
	err := r.annotated(ctx).
		Where(
			"projects.title ILIKE ? OR projects.id IN (?)",
			like,
			r.db.Table("project_tags").
				Select("project_tags.project_id").
				Joins("JOIN tags ON tags.id = project_tags.tag_id").
				Where("tags.name ILIKE ?", like),
		).
		Find(&items).Error
	return items, err
}
