package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"github.com/hossamkoky599/crowdfund/internal/modules/repo"
	"github.com/hossamkoky599/crowdfund/internal/pkg/apperr"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DonationService is the append-only ledger: donations are recorded, never
// edited or removed.
type DonationService interface {
	Record(ctx context.Context, donorID uuid.UUID, projectID uuid.UUID, amount decimal.Decimal) (*model.Donation, decimal.Decimal, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Donation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Donation, error)
}

type donationService struct {
	donations repo.DonationRepo
	projects  repo.ProjectRepo
}

func NewDonationService(donations repo.DonationRepo, projects repo.ProjectRepo) DonationService {
	return &donationService{donations: donations, projects: projects}
}

// Record inserts the donation and returns the freshly recomputed project
// total.
func (s *donationService) Record(ctx context.Context, donorID uuid.UUID, projectID uuid.UUID, amount decimal.Decimal) (*model.Donation, decimal.Decimal, error) {
	if !amount.IsPositive() {
		return nil, decimal.Zero, apperr.Validation("invalid donation", map[string]string{"amount": "must be positive"})
	}

	if _, err := s.projects.Get(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, apperr.NotFound("project")
		}
		return nil, decimal.Zero, fmt.Errorf("get project: %w", err)
	}

	donation := model.Donation{
		ProjectID: projectID,
		UserID:    donorID,
		Amount:    amount,
	}
	total, err := s.donations.CreateAndRecompute(ctx, &donation)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("record donation: %w", err)
	}
	return &donation, total, nil
}

func (s *donationService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Donation, error) {
	return s.donations.ListByProject(ctx, projectID)
}

func (s *donationService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Donation, error) {
	return s.donations.ListByUser(ctx, userID)
}
