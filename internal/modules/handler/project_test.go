package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"github.com/hossamkoky599/crowdfund/internal/modules/service"
	"github.com/hossamkoky599/crowdfund/internal/pkg/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProjectService is a mock implementation of ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, in service.CreateProjectInput) (*model.Project, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, projectID uuid.UUID) (*model.Project, float64, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*model.Project), args.Get(1).(float64), args.Error(2)
}

func (m *MockProjectService) Update(ctx context.Context, actorID uuid.UUID, projectID uuid.UUID, in service.UpdateProjectInput) (*model.Project, error) {
	args := m.Called(ctx, actorID, projectID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) AttachImage(ctx context.Context, actorID uuid.UUID, projectID uuid.UUID, file *multipart.FileHeader) (*model.ProjectImage, error) {
	args := m.Called(ctx, actorID, projectID, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectImage), args.Error(1)
}

func (m *MockProjectService) Cancel(ctx context.Context, actorID uuid.UUID, projectID uuid.UUID) error {
	args := m.Called(ctx, actorID, projectID)
	return args.Error(0)
}

func (m *MockProjectService) Similar(ctx context.Context, projectID uuid.UUID) ([]model.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func TestProjectHandler_CancelProject(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "owner@example.com", IsActive: true}
	projectID := uuid.New()

	tests := []struct {
		name           string
		setup          func(*MockProjectService)
		expectedStatus int
	}{
		{
			name: "owner cancels below threshold",
			setup: func(svc *MockProjectService) {
				svc.On("Cancel", mock.Anything, user.ID, projectID).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "threshold reached answers 400",
			setup: func(svc *MockProjectService) {
				svc.On("Cancel", mock.Anything, user.ID, projectID).
					Return(apperr.Policy("cannot cancel: project has reached 25% of its donation target"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "non-owner answers 403",
			setup: func(svc *MockProjectService) {
				svc.On("Cancel", mock.Anything, user.ID, projectID).
					Return(apperr.Permission("only the project owner may cancel it"))
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "unknown project answers 404",
			setup: func(svc *MockProjectService) {
				svc.On("Cancel", mock.Anything, user.ID, projectID).
					Return(apperr.NotFound("project"))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockProjectService{}
			tt.setup(svc)

			h := NewProjectHandler(svc)
			r := setupTestRouter()
			r.DELETE("/projects/:project_id", asUser(user), h.CancelProject)

			req := httptest.NewRequest(http.MethodDelete, "/projects/"+projectID.String(), nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestProjectHandler_GetProject(t *testing.T) {
	projectID := uuid.New()
	project := &model.Project{
		ID:          projectID,
		OwnerID:     uuid.New(),
		Title:       "Clean Water Initiative",
		TotalTarget: decimal.NewFromInt(1000),
	}

	t.Run("carries the computed average", func(t *testing.T) {
		svc := &MockProjectService{}
		svc.On("Get", mock.Anything, projectID).Return(project, 4.5, nil)

		h := NewProjectHandler(svc)
		r := setupTestRouter()
		r.GET("/projects/:project_id", h.GetProject)

		req := httptest.NewRequest(http.MethodGet, "/projects/"+projectID.String(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"avg_rating":4.5`)
		svc.AssertExpectations(t)
	})

	t.Run("malformed id answers 400", func(t *testing.T) {
		svc := &MockProjectService{}

		h := NewProjectHandler(svc)
		r := setupTestRouter()
		r.GET("/projects/:project_id", h.GetProject)

		req := httptest.NewRequest(http.MethodGet, "/projects/not-a-uuid", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Get")
	})
}
