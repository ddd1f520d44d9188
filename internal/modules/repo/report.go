package repo

import (
	"context"

	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"gorm.io/gorm"
)

type ReportRepo interface {
	Create(ctx context.Context, rep *model.Report) error
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepo(db *gorm.DB) ReportRepo {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, rep *model.Report) error {
	return r.db.WithContext(ctx).Create(rep).Error
}
