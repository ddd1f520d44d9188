package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"github.com/hossamkoky599/crowdfund/internal/pkg/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockDonationRepo is a mock implementation of repo.DonationRepo
type MockDonationRepo struct {
	mock.Mock
}

func (m *MockDonationRepo) CreateAndRecompute(ctx context.Context, d *model.Donation) (decimal.Decimal, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDonationRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Donation, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Donation), args.Error(1)
}

func (m *MockDonationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Donation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Donation), args.Error(1)
}

func TestDonationService_Record(t *testing.T) {
	donorID := uuid.New()
	project := createTestProject(uuid.New())

	tests := []struct {
		name          string
		amount        decimal.Decimal
		setup         func(*MockDonationRepo, *MockProjectRepo)
		expectError   bool
		expectedKind  apperr.Kind
		expectedTotal decimal.Decimal
	}{
		{
			name:   "donation returns recomputed total",
			amount: decimal.NewFromInt(150),
			setup: func(donations *MockDonationRepo, projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, project.ID).Return(project, nil)
				donations.On("CreateAndRecompute", mock.Anything, mock.MatchedBy(func(d *model.Donation) bool {
					return d.ProjectID == project.ID && d.UserID == donorID && d.Amount.Equal(decimal.NewFromInt(150))
				})).Return(decimal.NewFromInt(250), nil)
			},
			expectedTotal: decimal.NewFromInt(250),
		},
		{
			name:         "zero amount rejected",
			amount:       decimal.Zero,
			setup:        func(*MockDonationRepo, *MockProjectRepo) {},
			expectError:  true,
			expectedKind: apperr.KindValidation,
		},
		{
			name:         "negative amount rejected",
			amount:       decimal.NewFromInt(-5),
			setup:        func(*MockDonationRepo, *MockProjectRepo) {},
			expectError:  true,
			expectedKind: apperr.KindValidation,
		},
		{
			name:   "unknown project",
			amount: decimal.NewFromInt(10),
			setup: func(donations *MockDonationRepo, projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, project.ID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectError:  true,
			expectedKind: apperr.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			donations := &MockDonationRepo{}
			projects := &MockProjectRepo{}
			tt.setup(donations, projects)

			svc := NewDonationService(donations, projects)

			donation, total, err := svc.Record(context.Background(), donorID, project.ID, tt.amount)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, donation)
				assert.Equal(t, tt.expectedKind, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, donation)
				assert.True(t, total.Equal(tt.expectedTotal))
			}

			donations.AssertExpectations(t)
			projects.AssertExpectations(t)
		})
	}
}

func TestDonationService_ListByProject(t *testing.T) {
	projectID := uuid.New()
	items := []model.Donation{
		{ID: uuid.New(), ProjectID: projectID, Amount: decimal.NewFromInt(100)},
		{ID: uuid.New(), ProjectID: projectID, Amount: decimal.NewFromInt(150)},
	}

	donations := &MockDonationRepo{}
	donations.On("ListByProject", mock.Anything, projectID).Return(items, nil)

	svc := NewDonationService(donations, &MockProjectRepo{})

	got, err := svc.ListByProject(context.Background(), projectID)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	donations.AssertExpectations(t)
}
