package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/middleware"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"github.com/hossamkoky599/crowdfund/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRatingService is a mock implementation of RatingService
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) Submit(ctx context.Context, userID uuid.UUID, projectID uuid.UUID, score int) (bool, error) {
	args := m.Called(ctx, userID, projectID, score)
	return args.Bool(0), args.Error(1)
}

func (m *MockRatingService) Average(ctx context.Context, projectID uuid.UUID) (float64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(float64), args.Error(1)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser injects an authenticated user the way the auth middleware would.
func asUser(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, user)
		c.Next()
	}
}

func TestRatingHandler_Rate(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "rater@example.com", IsActive: true}
	projectID := uuid.New()

	tests := []struct {
		name           string
		body           map[string]any
		setup          func(*MockRatingService)
		expectedStatus int
	}{
		{
			name: "first rating answers 201",
			body: map[string]any{"score": 4},
			setup: func(svc *MockRatingService) {
				svc.On("Submit", mock.Anything, user.ID, projectID, 4).Return(true, nil)
				svc.On("Average", mock.Anything, projectID).Return(4.0, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "overwrite answers 200",
			body: map[string]any{"score": 5},
			setup: func(svc *MockRatingService) {
				svc.On("Submit", mock.Anything, user.ID, projectID, 5).Return(false, nil)
				svc.On("Average", mock.Anything, projectID).Return(5.0, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "out-of-range score answers 400",
			body: map[string]any{"score": 9},
			setup: func(svc *MockRatingService) {
				svc.On("Submit", mock.Anything, user.ID, projectID, 9).
					Return(false, apperr.Validation("invalid rating", map[string]string{"score": "must be an integer between 1 and 5"}))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown project answers 404",
			body: map[string]any{"score": 3},
			setup: func(svc *MockRatingService) {
				svc.On("Submit", mock.Anything, user.ID, projectID, 3).
					Return(false, apperr.NotFound("project"))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockRatingService{}
			tt.setup(svc)

			h := NewRatingHandler(svc)
			r := setupTestRouter()
			r.PUT("/projects/:project_id/rating", asUser(user), h.Rate)

			body, _ := sonic.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPut, "/projects/"+projectID.String()+"/rating", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestRatingHandler_Rate_Unauthenticated(t *testing.T) {
	svc := &MockRatingService{}
	h := NewRatingHandler(svc)
	r := setupTestRouter()
	r.PUT("/projects/:project_id/rating", h.Rate)

	body := []byte(`{"score": 4}`)
	req := httptest.NewRequest(http.MethodPut, "/projects/"+uuid.NewString()+"/rating", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Submit")
}
