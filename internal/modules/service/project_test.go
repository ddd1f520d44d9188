package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/config"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"github.com/hossamkoky599/crowdfund/internal/modules/repo"
	"github.com/hossamkoky599/crowdfund/internal/pkg/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MockProjectRepo is a mock implementation of repo.ProjectRepo
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) Update(ctx context.Context, id uuid.UUID, patch map[string]any) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockProjectRepo) ReplaceTags(ctx context.Context, p *model.Project, tags []model.Tag) error {
	args := m.Called(ctx, p, tags)
	return args.Error(0)
}

func (m *MockProjectRepo) AttachImage(ctx context.Context, img *model.ProjectImage) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *MockProjectRepo) CancelBelowThreshold(ctx context.Context, projectID uuid.UUID, ratio float64) error {
	args := m.Called(ctx, projectID, ratio)
	return args.Error(0)
}

func (m *MockProjectRepo) SimilarByTags(ctx context.Context, projectID uuid.UUID, limit int) ([]model.Project, error) {
	args := m.Called(ctx, projectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepo) SumDonations(ctx context.Context, projectID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockTaxonomyRepo is a mock implementation of repo.TaxonomyRepo
type MockTaxonomyRepo struct {
	mock.Mock
}

func (m *MockTaxonomyRepo) ResolveCategory(ctx context.Context, name string) (*model.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockTaxonomyRepo) ResolveTags(ctx context.Context, names []string) ([]model.Tag, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

// MockRatingRepo is a mock implementation of repo.RatingRepo
type MockRatingRepo struct {
	mock.Mock
}

func (m *MockRatingRepo) Upsert(ctx context.Context, rating *model.Rating) (bool, error) {
	args := m.Called(ctx, rating)
	return args.Bool(0), args.Error(1)
}

func (m *MockRatingRepo) AverageForProject(ctx context.Context, projectID uuid.UUID) (float64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(float64), args.Error(1)
}

func testPolicyConfig() *config.Config {
	return &config.Config{
		Policy: config.PolicyCfg{
			CancelRatio:  0.25,
			FeedLimit:    5,
			SimilarLimit: 4,
		},
	}
}

func newProjectServiceForTest(projects *MockProjectRepo, taxonomy *MockTaxonomyRepo, ratings *MockRatingRepo) ProjectService {
	return NewProjectService(projects, taxonomy, ratings, nil, testPolicyConfig(), zap.NewNop())
}

func createTestProject(ownerID uuid.UUID) *model.Project {
	return &model.Project{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       "Clean Water Initiative",
		Details:     "Wells for three villages",
		TotalTarget: decimal.NewFromInt(1000),
		StartTime:   time.Now(),
		EndTime:     time.Now().Add(30 * 24 * time.Hour),
	}
}

func TestProjectService_Create(t *testing.T) {
	ownerID := uuid.New()

	tests := []struct {
		name         string
		input        CreateProjectInput
		setup        func(*MockProjectRepo, *MockTaxonomyRepo)
		expectError  bool
		expectedKind apperr.Kind
	}{
		{
			name: "successful creation resolves taxonomy",
			input: CreateProjectInput{
				OwnerID:      ownerID,
				Title:        "Clean Water Initiative",
				Details:      "Wells for three villages",
				TotalTarget:  decimal.NewFromInt(1000),
				CategoryName: "Environment",
				TagNames:     []string{"water", "health"},
			},
			setup: func(projects *MockProjectRepo, taxonomy *MockTaxonomyRepo) {
				taxonomy.On("ResolveCategory", mock.Anything, "Environment").
					Return(&model.Category{ID: uuid.New(), Name: "Environment"}, nil)
				taxonomy.On("ResolveTags", mock.Anything, []string{"water", "health"}).
					Return([]model.Tag{{ID: uuid.New(), Name: "water"}, {ID: uuid.New(), Name: "health"}}, nil)
				projects.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Project) bool {
					return p.OwnerID == ownerID && len(p.Tags) == 2 && p.TotalDonations.IsZero()
				})).Return(nil)
			},
		},
		{
			name: "missing title and category",
			input: CreateProjectInput{
				OwnerID:     ownerID,
				Details:     "something",
				TotalTarget: decimal.NewFromInt(1000),
			},
			setup:        func(*MockProjectRepo, *MockTaxonomyRepo) {},
			expectError:  true,
			expectedKind: apperr.KindValidation,
		},
		{
			name: "non-positive target",
			input: CreateProjectInput{
				OwnerID:      ownerID,
				Title:        "x",
				Details:      "y",
				TotalTarget:  decimal.Zero,
				CategoryName: "Environment",
			},
			setup:        func(*MockProjectRepo, *MockTaxonomyRepo) {},
			expectError:  true,
			expectedKind: apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects := &MockProjectRepo{}
			taxonomy := &MockTaxonomyRepo{}
			tt.setup(projects, taxonomy)

			svc := newProjectServiceForTest(projects, taxonomy, &MockRatingRepo{})

			project, err := svc.Create(context.Background(), tt.input)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, project)
				assert.Equal(t, tt.expectedKind, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, project)
				assert.Equal(t, ownerID, project.OwnerID)
				assert.NotNil(t, project.Category)
			}

			projects.AssertExpectations(t)
			taxonomy.AssertExpectations(t)
		})
	}
}

func TestProjectService_Get(t *testing.T) {
	ownerID := uuid.New()
	project := createTestProject(ownerID)

	t.Run("returns project with average rating", func(t *testing.T) {
		projects := &MockProjectRepo{}
		ratings := &MockRatingRepo{}
		projects.On("Get", mock.Anything, project.ID).Return(project, nil)
		ratings.On("AverageForProject", mock.Anything, project.ID).Return(3.5, nil)

		svc := newProjectServiceForTest(projects, &MockTaxonomyRepo{}, ratings)

		got, avg, err := svc.Get(context.Background(), project.ID)

		assert.NoError(t, err)
		assert.Equal(t, project.ID, got.ID)
		assert.Equal(t, 3.5, avg)
	})

	t.Run("unknown project", func(t *testing.T) {
		projects := &MockProjectRepo{}
		projects.On("Get", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

		svc := newProjectServiceForTest(projects, &MockTaxonomyRepo{}, &MockRatingRepo{})

		_, _, err := svc.Get(context.Background(), uuid.New())

		assert.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestProjectService_Update_OwnerOnly(t *testing.T) {
	ownerID := uuid.New()
	stranger := uuid.New()
	project := createTestProject(ownerID)

	projects := &MockProjectRepo{}
	projects.On("Get", mock.Anything, project.ID).Return(project, nil)

	svc := newProjectServiceForTest(projects, &MockTaxonomyRepo{}, &MockRatingRepo{})

	title := "New Title"
	_, err := svc.Update(context.Background(), stranger, project.ID, UpdateProjectInput{Title: &title})

	assert.Error(t, err)
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))
	projects.AssertExpectations(t)
}

func TestProjectService_Cancel(t *testing.T) {
	ownerID := uuid.New()
	project := createTestProject(ownerID)

	tests := []struct {
		name         string
		actorID      uuid.UUID
		setup        func(*MockProjectRepo)
		expectError  bool
		expectedKind apperr.Kind
	}{
		{
			name:    "owner cancels below threshold",
			actorID: ownerID,
			setup: func(projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, project.ID).Return(project, nil)
				projects.On("CancelBelowThreshold", mock.Anything, project.ID, 0.25).Return(nil)
			},
		},
		{
			name:    "refused at threshold",
			actorID: ownerID,
			setup: func(projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, project.ID).Return(project, nil)
				projects.On("CancelBelowThreshold", mock.Anything, project.ID, 0.25).Return(repo.ErrCancelThreshold)
			},
			expectError:  true,
			expectedKind: apperr.KindPolicy,
		},
		{
			name:    "non-owner refused",
			actorID: uuid.New(),
			setup: func(projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, project.ID).Return(project, nil)
			},
			expectError:  true,
			expectedKind: apperr.KindPermission,
		},
		{
			name:    "unknown project",
			actorID: ownerID,
			setup: func(projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, project.ID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectError:  true,
			expectedKind: apperr.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects := &MockProjectRepo{}
			tt.setup(projects)

			svc := newProjectServiceForTest(projects, &MockTaxonomyRepo{}, &MockRatingRepo{})

			err := svc.Cancel(context.Background(), tt.actorID, project.ID)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedKind, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
			}

			projects.AssertExpectations(t)
		})
	}
}

func TestProjectService_Similar(t *testing.T) {
	ownerID := uuid.New()
	project := createTestProject(ownerID)

	t.Run("uses configured limit", func(t *testing.T) {
		projects := &MockProjectRepo{}
		projects.On("Get", mock.Anything, project.ID).Return(project, nil)
		projects.On("SimilarByTags", mock.Anything, project.ID, 4).
			Return([]model.Project{*createTestProject(uuid.New())}, nil)

		svc := newProjectServiceForTest(projects, &MockTaxonomyRepo{}, &MockRatingRepo{})

		similar, err := svc.Similar(context.Background(), project.ID)

		assert.NoError(t, err)
		assert.Len(t, similar, 1)
		projects.AssertExpectations(t)
	})

	t.Run("unknown project", func(t *testing.T) {
		projects := &MockProjectRepo{}
		projects.On("Get", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

		svc := newProjectServiceForTest(projects, &MockTaxonomyRepo{}, &MockRatingRepo{})

		_, err := svc.Similar(context.Background(), uuid.New())

		assert.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestProject_CancelThreshold(t *testing.T) {
	p := model.Project{TotalTarget: decimal.NewFromInt(1000)}

	threshold := p.CancelThreshold(0.25)

	assert.True(t, threshold.Equal(decimal.NewFromInt(250)))
	// A total of 249 is below the threshold, 250 exactly is not.
	assert.True(t, decimal.NewFromInt(249).LessThan(threshold))
	assert.False(t, decimal.NewFromInt(250).LessThan(threshold))
}
