package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"github.com/hossamkoky599/crowdfund/internal/modules/repo"
	"github.com/hossamkoky599/crowdfund/internal/pkg/apperr"
	"gorm.io/gorm"
)

type RatingService interface {
	// Submit upserts the score for (user, project) and reports whether a new
	// row was inserted, so the boundary can answer 201 vs 200.
	Submit(ctx context.Context, userID uuid.UUID, projectID uuid.UUID, score int) (created bool, err error)
	Average(ctx context.Context, projectID uuid.UUID) (float64, error)
}

type ratingService struct {
	ratings  repo.RatingRepo
	projects repo.ProjectRepo
}

func NewRatingService(ratings repo.RatingRepo, projects repo.ProjectRepo) RatingService {
	return &ratingService{ratings: ratings, projects: projects}
}

func (s *ratingService) Submit(ctx context.Context, userID uuid.UUID, projectID uuid.UUID, score int) (bool, error) {
	if score < 1 || score > 5 {
		return false, apperr.Validation("invalid rating", map[string]string{"score": "must be an integer between 1 and 5"})
	}

	if _, err := s.projects.Get(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperr.NotFound("project")
		}
		return false, fmt.Errorf("get project: %w", err)
	}

	rating := model.Rating{
		UserID:    userID,
		ProjectID: projectID,
		Score:     score,
	}
	created, err := s.ratings.Upsert(ctx, &rating)
	if err != nil {
		return false, fmt.Errorf("upsert rating: %w", err)
	}
	return created, nil
}

func (s *ratingService) Average(ctx context.Context, projectID uuid.UUID) (float64, error) {
	return s.ratings.AverageForProject(ctx, projectID)
}
