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

// EngagementService covers threaded comments and abuse reports.
type EngagementService interface {
	AddComment(ctx context.Context, userID uuid.UUID, projectID uuid.UUID, content string, parentID *uuid.UUID) (*model.Comment, error)
	ListComments(ctx context.Context, projectID uuid.UUID) ([]model.Comment, error)
	DeleteComment(ctx context.Context, actorID uuid.UUID, commentID uuid.UUID) error
	Report(ctx context.Context, userID uuid.UUID, target model.ReportTarget, reason string) (*model.Report, error)
}

type engagementService struct {
	comments repo.CommentRepo
	reports  repo.ReportRepo
	projects repo.ProjectRepo
}

func NewEngagementService(comments repo.CommentRepo, reports repo.ReportRepo, projects repo.ProjectRepo) EngagementService {
	return &engagementService{comments: comments, reports: reports, projects: projects}
}

func (s *engagementService) AddComment(ctx context.Context, userID uuid.UUID, projectID uuid.UUID, content string, parentID *uuid.UUID) (*model.Comment, error) {
	if content == "" {
		return nil, apperr.Validation("invalid comment", map[string]string{"content": "required"})
	}

	if _, err := s.projects.Get(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project")
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	if parentID != nil {
		parent, err := s.comments.GetByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("parent comment")
			}
			return nil, fmt.Errorf("get parent comment: %w", err)
		}
		if parent.ProjectID != projectID {
			return nil, apperr.Validation("invalid comment", map[string]string{"parent": "parent belongs to a different project"})
		}
	}

	comment := model.Comment{
		ProjectID: projectID,
		UserID:    userID,
		Content:   content,
		ParentID:  parentID,
	}
	if err := s.comments.Create(ctx, &comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &comment, nil
}

func (s *engagementService) ListComments(ctx context.Context, projectID uuid.UUID) ([]model.Comment, error) {
	return s.comments.ListByProject(ctx, projectID)
}

func (s *engagementService) DeleteComment(ctx context.Context, actorID uuid.UUID, commentID uuid.UUID) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("comment")
		}
		return fmt.Errorf("get comment: %w", err)
	}
	if comment.UserID != actorID {
		return apperr.Permission("only the comment author may delete it")
	}
	return s.comments.Delete(ctx, comment)
}

func (s *engagementService) Report(ctx context.Context, userID uuid.UUID, target model.ReportTarget, reason string) (*model.Report, error) {
	if reason == "" {
		return nil, apperr.Validation("invalid report", map[string]string{"reason": "required"})
	}

	switch target.Type {
	case model.ReportTypeProject:
		if target.ProjectID == nil {
			return nil, apperr.Validation("invalid report", map[string]string{"project_id": "required"})
		}
		if _, err := s.projects.Get(ctx, *target.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("project")
			}
			return nil, fmt.Errorf("get project: %w", err)
		}
	case model.ReportTypeComment:
		if target.CommentID == nil {
			return nil, apperr.Validation("invalid report", map[string]string{"comment_id": "required"})
		}
		if _, err := s.comments.GetByID(ctx, *target.CommentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("comment")
			}
			return nil, fmt.Errorf("get comment: %w", err)
		}
	default:
		return nil, apperr.Validation("invalid report", map[string]string{"report_type": "must be project or comment"})
	}

	report := model.Report{
		UserID:    userID,
		Type:      target.Type,
		ProjectID: target.ProjectID,
		CommentID: target.CommentID,
		Reason:    reason,
	}
	if err := s.reports.Create(ctx, &report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	return &report, nil
}
