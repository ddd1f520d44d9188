package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DonationRepo interface {
	CreateAndRecompute(ctx context.Context, d *model.Donation) (decimal.Decimal, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Donation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Donation, error)
}

type donationRepo struct{ db *gorm.DB }

func NewDonationRepo(db *gorm.DB) DonationRepo {
	return &donationRepo{db: db}
}

// CreateAndRecompute inserts the donation and refreshes the project's cached
// total from the donation rows, all in one transaction. Recomputing instead
// of incrementing keeps the cache drift-free under concurrent donations;
// read-committed is enough because the sum is re-aggregated from source rows.
func (r *donationRepo) CreateAndRecompute(ctx context.Context, d *model.Donation) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(d).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Donation{}).
			Where("project_id = ?", d.ProjectID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&total).Error; err != nil {
			return err
		}

		return tx.Model(&model.Project{}).
			Where("id = ?", d.ProjectID).
			Update("total_donations", total).Error
	})
	return total, err
}

func (r *donationRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Donation, error) {
	var items []model.Donation
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at").
		Find(&items).Error
	return items, err
}

func (r *donationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Donation, error) {
	var items []model.Donation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&items).Error
	return items, err
}
