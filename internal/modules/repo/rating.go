package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepo interface {
	Upsert(ctx context.Context, rating *model.Rating) (created bool, err error)
	AverageForProject(ctx context.Context, projectID uuid.UUID) (float64, error)
}

type ratingRepo struct{ db *gorm.DB }

func NewRatingRepo(db *gorm.DB) RatingRepo {
	return &ratingRepo{db: db}
}

// Upsert inserts or overwrites the (user, project) score. The unique index
// backs the ON CONFLICT clause, so two simultaneous submissions by the same
// user resolve to last-writer-wins instead of a duplicate row.
func (r *ratingRepo) Upsert(ctx context.Context, rating *model.Rating) (bool, error) {
	var existing model.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", rating.UserID, rating.ProjectID).
		First(&existing).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return false, err
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
		}).
		Create(rating).Error
	if err != nil {
		return false, err
	}
	return created, nil
}

// AverageForProject re-aggregates from rating rows on every call; the mean is
// never cached, so it cannot diverge from storage. Zero when unrated.
func (r *ratingRepo) AverageForProject(ctx context.Context, projectID uuid.UUID) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Model(&model.Rating{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avg).Error
	return avg, err
}
