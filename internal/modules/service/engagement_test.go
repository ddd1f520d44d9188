package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"github.com/hossamkoky599/crowdfund/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockCommentRepo is a mock implementation of repo.CommentRepo
type MockCommentRepo struct {
	mock.Mock
}

func (m *MockCommentRepo) Create(ctx context.Context, c *model.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Comment, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockCommentRepo) Delete(ctx context.Context, c *model.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockReportRepo is a mock implementation of repo.ReportRepo
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Create(ctx context.Context, rep *model.Report) error {
	args := m.Called(ctx, rep)
	return args.Error(0)
}

func TestEngagementService_AddComment(t *testing.T) {
	userID := uuid.New()
	project := createTestProject(uuid.New())
	otherProjectID := uuid.New()
	parentID := uuid.New()

	tests := []struct {
		name         string
		content      string
		parentID     *uuid.UUID
		setup        func(*MockCommentRepo, *MockProjectRepo)
		expectError  bool
		expectedKind apperr.Kind
	}{
		{
			name:    "top-level comment",
			content: "great cause",
			setup: func(comments *MockCommentRepo, projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, project.ID).Return(project, nil)
				comments.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Comment) bool {
					return c.ProjectID == project.ID && c.UserID == userID && c.ParentID == nil
				})).Return(nil)
			},
		},
		{
			name:     "reply to comment on same project",
			content:  "agreed",
			parentID: &parentID,
			setup: func(comments *MockCommentRepo, projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, project.ID).Return(project, nil)
				comments.On("GetByID", mock.Anything, parentID).
					Return(&model.Comment{ID: parentID, ProjectID: project.ID}, nil)
				comments.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Comment) bool {
					return c.ParentID != nil && *c.ParentID == parentID
				})).Return(nil)
			},
		},
		{
			name:     "parent on different project",
			content:  "agreed",
			parentID: &parentID,
			setup: func(comments *MockCommentRepo, projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, project.ID).Return(project, nil)
				comments.On("GetByID", mock.Anything, parentID).
					Return(&model.Comment{ID: parentID, ProjectID: otherProjectID}, nil)
			},
			expectError:  true,
			expectedKind: apperr.KindValidation,
		},
		{
			name:         "empty content",
			content:      "",
			setup:        func(*MockCommentRepo, *MockProjectRepo) {},
			expectError:  true,
			expectedKind: apperr.KindValidation,
		},
		{
			name:    "unknown project",
			content: "hello",
			setup: func(comments *MockCommentRepo, projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, project.ID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectError:  true,
			expectedKind: apperr.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comments := &MockCommentRepo{}
			projects := &MockProjectRepo{}
			tt.setup(comments, projects)

			svc := NewEngagementService(comments, &MockReportRepo{}, projects)

			comment, err := svc.AddComment(context.Background(), userID, project.ID, tt.content, tt.parentID)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, comment)
				assert.Equal(t, tt.expectedKind, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, comment)
			}

			comments.AssertExpectations(t)
			projects.AssertExpectations(t)
		})
	}
}

func TestEngagementService_DeleteComment(t *testing.T) {
	authorID := uuid.New()
	comment := &model.Comment{ID: uuid.New(), ProjectID: uuid.New(), UserID: authorID, Content: "mine"}

	t.Run("author deletes own comment", func(t *testing.T) {
		comments := &MockCommentRepo{}
		comments.On("GetByID", mock.Anything, comment.ID).Return(comment, nil)
		comments.On("Delete", mock.Anything, comment).Return(nil)

		svc := NewEngagementService(comments, &MockReportRepo{}, &MockProjectRepo{})

		assert.NoError(t, svc.DeleteComment(context.Background(), authorID, comment.ID))
		comments.AssertExpectations(t)
	})

	t.Run("non-author refused", func(t *testing.T) {
		comments := &MockCommentRepo{}
		comments.On("GetByID", mock.Anything, comment.ID).Return(comment, nil)

		svc := NewEngagementService(comments, &MockReportRepo{}, &MockProjectRepo{})

		err := svc.DeleteComment(context.Background(), uuid.New(), comment.ID)

		assert.Error(t, err)
		assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))
	})
}

func TestEngagementService_Report(t *testing.T) {
	userID := uuid.New()
	project := createTestProject(uuid.New())
	comment := &model.Comment{ID: uuid.New(), ProjectID: project.ID, UserID: uuid.New(), Content: "spam"}

	tests := []struct {
		name         string
		target       model.ReportTarget
		reason       string
		setup        func(*MockCommentRepo, *MockReportRepo, *MockProjectRepo)
		expectError  bool
		expectedKind apperr.Kind
	}{
		{
			name:   "report project",
			target: model.ProjectTarget(project.ID),
			reason: "fraudulent campaign",
			setup: func(comments *MockCommentRepo, reports *MockReportRepo, projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, project.ID).Return(project, nil)
				reports.On("Create", mock.Anything, mock.MatchedBy(func(r *model.Report) bool {
					return r.Type == model.ReportTypeProject && r.ProjectID != nil && r.CommentID == nil
				})).Return(nil)
			},
		},
		{
			name:   "report comment",
			target: model.CommentTarget(comment.ID),
			reason: "abusive language",
			setup: func(comments *MockCommentRepo, reports *MockReportRepo, projects *MockProjectRepo) {
				comments.On("GetByID", mock.Anything, comment.ID).Return(comment, nil)
				reports.On("Create", mock.Anything, mock.MatchedBy(func(r *model.Report) bool {
					return r.Type == model.ReportTypeComment && r.CommentID != nil && r.ProjectID == nil
				})).Return(nil)
			},
		},
		{
			name:         "unknown target type",
			target:       model.ReportTarget{Type: "user"},
			reason:       "whatever",
			setup:        func(*MockCommentRepo, *MockReportRepo, *MockProjectRepo) {},
			expectError:  true,
			expectedKind: apperr.KindValidation,
		},
		{
			name:         "empty reason",
			target:       model.ProjectTarget(project.ID),
			reason:       "",
			setup:        func(*MockCommentRepo, *MockReportRepo, *MockProjectRepo) {},
			expectError:  true,
			expectedKind: apperr.KindValidation,
		},
		{
			name:   "unknown reported project",
			target: model.ProjectTarget(project.ID),
			reason: "fraud",
			setup: func(comments *MockCommentRepo, reports *MockReportRepo, projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, project.ID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectError:  true,
			expectedKind: apperr.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comments := &MockCommentRepo{}
			reports := &MockReportRepo{}
			projects := &MockProjectRepo{}
			tt.setup(comments, reports, projects)

			svc := NewEngagementService(comments, reports, projects)

			report, err := svc.Report(context.Background(), userID, tt.target, tt.reason)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, report)
				assert.Equal(t, tt.expectedKind, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, report)
				assert.Equal(t, userID, report.UserID)
			}

			comments.AssertExpectations(t)
			reports.AssertExpectations(t)
			projects.AssertExpectations(t)
		})
	}
}
