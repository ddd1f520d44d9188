package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCancelThreshold is returned by CancelBelowThreshold when the project has
// already collected too much to be canceled.
var ErrCancelThreshold = fmt.Errorf("donation threshold reached")

type ProjectRepo interface {
	Create(ctx context.Context, p *model.Project) error
	Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
	Update(ctx context.Context, id uuid.UUID, patch map[string]any) error
	ReplaceTags(ctx context.Context, p *model.Project, tags []model.Tag) error
	AttachImage(ctx context.Context, img *model.ProjectImage) error
	CancelBelowThreshold(ctx context.Context, projectID uuid.UUID, ratio float64) error
	SimilarByTags(ctx context.Context, projectID uuid.UUID, limit int) ([]model.Project, error)
	SumDonations(ctx context.Context, projectID uuid.UUID) (decimal.Decimal, error)
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

// Create persists the project together with its tag joins and image rows.
// Tags must already be canonical rows; Omit keeps gorm from re-inserting them.
func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Omit("Tags.*", "Category").Create(p).Error
}

func (r *projectRepo) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		Preload("Images").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) Update(ctx context.Context, id uuid.UUID, patch map[string]any) error {
	return r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Updates(patch).Error
}

func (r *projectRepo) ReplaceTags(ctx context.Context, p *model.Project, tags []model.Tag) error {
	return r.db.WithContext(ctx).Model(p).Association("Tags").Replace(tags)
}

func (r *projectRepo) AttachImage(ctx context.Context, img *model.ProjectImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

// CancelBelowThreshold deletes the project, but only if the donation sum is
// still strictly below ratio*target. The row is locked and the sum is
// re-aggregated inside the same transaction, so a donation cannot land
// between the check and the delete.
func (r *projectRepo) CancelBelowThreshold(ctx context.Context, projectID uuid.UUID, ratio float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Project
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", projectID).First(&p).Error; err != nil {
			return err
		}

		var sum decimal.Decimal
		err := tx.Model(&model.Donation{}).
			Where("project_id = ?", projectID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&sum).Error
		if err != nil {
			return err
		}

		// Strict less-than: a project at exactly the threshold is not
		// cancelable.
		if !sum.LessThan(p.CancelThreshold(ratio)) {
			return ErrCancelThreshold
		}

		// Dependents (images, donations, comments, ratings, reports and the
		// tag joins) go with the FK cascades.
		return tx.Delete(&p).Error
	})
}

func (r *projectRepo) SimilarByTags(ctx context.Context, projectID uuid.UUID, limit int) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		Where("id IN (?)",
			r.db.Table("project_tags").
				Select("DISTINCT project_id").
				Where("tag_id IN (?) AND project_id <> ?",
					r.db.Table("project_tags").Select("tag_id").Where("project_id = ?", projectID),
					projectID,
				),
		).
		Order("created_at").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

func (r *projectRepo) SumDonations(ctx context.Context, projectID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Donation{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}
