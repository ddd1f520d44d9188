package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/config"
	"github.com/hossamkoky599/crowdfund/internal/infra/blob"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"github.com/hossamkoky599/crowdfund/internal/modules/repo"
	"github.com/hossamkoky599/crowdfund/internal/pkg/apperr"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput) (*model.Project, error)
	Get(ctx context.Context, projectID uuid.UUID) (*model.Project, float64, error)
	Update(ctx context.Context, actorID uuid.UUID, projectID uuid.UUID, in UpdateProjectInput) (*model.Project, error)
	AttachImage(ctx context.Context, actorID uuid.UUID, projectID uuid.UUID, file *multipart.FileHeader) (*model.ProjectImage, error)
	Cancel(ctx context.Context, actorID uuid.UUID, projectID uuid.UUID) error
	Similar(ctx context.Context, projectID uuid.UUID) ([]model.Project, error)
}

type projectService struct {
	projects repo.ProjectRepo
	taxonomy repo.TaxonomyRepo
	ratings  repo.RatingRepo
	blob     *blob.S3Deps
	cfg      *config.Config
	log      *zap.Logger
}

func NewProjectService(
	projects repo.ProjectRepo,
	taxonomy repo.TaxonomyRepo,
	ratings repo.RatingRepo,
	blob *blob.S3Deps,
	cfg *config.Config,
	log *zap.Logger,
) ProjectService {
	return &projectService{
		projects: projects,
		taxonomy: taxonomy,
		ratings:  ratings,
		blob:     blob,
		cfg:      cfg,
		log:      log,
	}
}

type CreateProjectInput struct {
	OwnerID      uuid.UUID
	Title        string
	Details      string
	TotalTarget  decimal.Decimal
	StartTime    time.Time
	EndTime      time.Time
	CategoryName string
	TagNames     []string
	Images       []*multipart.FileHeader
}

func (s *projectService) Create(ctx context.Context, in CreateProjectInput) (*model.Project, error) {
	fields := map[string]string{}
	if in.Title == "" {
		fields["title"] = "required"
	}
	if in.Details == "" {
		fields["details"] = "required"
	}
	if !in.TotalTarget.IsPositive() {
		fields["total_target"] = "must be positive"
	}
	if in.CategoryName == "" {
		fields["category"] = "required"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid project", fields)
	}

	category, err := s.taxonomy.ResolveCategory(ctx, in.CategoryName)
	if err != nil {
		return nil, fmt.Errorf("resolve category: %w", err)
	}
	tags, err := s.taxonomy.ResolveTags(ctx, in.TagNames)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}

	project := model.Project{
		OwnerID:        in.OwnerID,
		Title:          in.Title,
		Details:        in.Details,
		TotalTarget:    in.TotalTarget,
		TotalDonations: decimal.Zero,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		CategoryID:     &category.ID,
		Tags:           tags,
	}

	for _, fh := range in.Images {
		meta, err := s.blob.UploadFormFile(ctx, "project_images", fh)
		if err != nil {
			return nil, fmt.Errorf("upload image %s: %w", fh.Filename, err)
		}
		project.Images = append(project.Images, model.ProjectImage{
			Bucket: meta.Bucket,
			S3Key:  meta.Key,
			MIME:   meta.MIME,
			SizeB:  meta.SizeB,
		})
	}

	if err := s.projects.Create(ctx, &project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	project.Category = category

	return &project, nil
}

// Get returns the project with its average rating computed at read time.
func (s *projectService) Get(ctx context.Context, projectID uuid.UUID) (*model.Project, float64, error) {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperr.NotFound("project")
		}
		return nil, 0, fmt.Errorf("get project: %w", err)
	}

	avg, err := s.ratings.AverageForProject(ctx, projectID)
	if err != nil {
		return nil, 0, fmt.Errorf("average rating: %w", err)
	}

	s.presignImages(ctx, project.Images)
	return project, avg, nil
}

// presignImages fills time-limited download URLs; a presign failure degrades
// to an empty URL rather than failing the read.
func (s *projectService) presignImages(ctx context.Context, images []model.ProjectImage) {
	if s.blob == nil {
		return
	}
	expire := time.Duration(s.cfg.S3.PresignExpireSec) * time.Second
	for i := range images {
		url, err := s.blob.PresignGet(ctx, images[i].S3Key, expire)
		if err != nil {
			s.log.Sugar().Warnw("presign image failed", "key", images[i].S3Key, "err", err)
			continue
		}
		images[i].URL = url
	}
}

type UpdateProjectInput struct {
	Title       *string
	Details     *string
	TotalTarget *decimal.Decimal
	StartTime   *time.Time
	EndTime     *time.Time
	// When present, replaces the full tag set rather than merging.
	TagNames []string
}

func (s *projectService) Update(ctx context.Context, actorID uuid.UUID, projectID uuid.UUID, in UpdateProjectInput) (*model.Project, error) {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project")
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project.OwnerID != actorID {
		return nil, apperr.Permission("only the project owner may update it")
	}

	patch := map[string]any{}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, apperr.Validation("invalid project", map[string]string{"title": "required"})
		}
		patch["title"] = *in.Title
	}
	if in.Details != nil {
		if *in.Details == "" {
			return nil, apperr.Validation("invalid project", map[string]string{"details": "required"})
		}
		patch["details"] = *in.Details
	}
	if in.TotalTarget != nil {
		if !in.TotalTarget.IsPositive() {
			return nil, apperr.Validation("invalid project", map[string]string{"total_target": "must be positive"})
		}
		patch["total_target"] = *in.TotalTarget
	}
	if in.StartTime != nil {
		patch["start_time"] = *in.StartTime
	}
	if in.EndTime != nil {
		patch["end_time"] = *in.EndTime
	}

	if len(patch) > 0 {
		if err := s.projects.Update(ctx, projectID, patch); err != nil {
			return nil, fmt.Errorf("update project: %w", err)
		}
	}

	if in.TagNames != nil {
		tags, err := s.taxonomy.ResolveTags(ctx, in.TagNames)
		if err != nil {
			return nil, fmt.Errorf("resolve tags: %w", err)
		}
		if err := s.projects.ReplaceTags(ctx, project, tags); err != nil {
			return nil, fmt.Errorf("replace tags: %w", err)
		}
	}

	return s.projects.Get(ctx, projectID)
}

func (s *projectService) AttachImage(ctx context.Context, actorID uuid.UUID, projectID uuid.UUID, file *multipart.FileHeader) (*model.ProjectImage, error) {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project")
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project.OwnerID != actorID {
		return nil, apperr.Permission("only the project owner may attach images")
	}

	meta, err := s.blob.UploadFormFile(ctx, "project_images", file)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	img := model.ProjectImage{
		ProjectID: projectID,
		Bucket:    meta.Bucket,
		S3Key:     meta.Key,
		MIME:      meta.MIME,
		SizeB:     meta.SizeB,
	}
	if err := s.projects.AttachImage(ctx, &img); err != nil {
		return nil, fmt.Errorf("attach image: %w", err)
	}
	return &img, nil
}

// Cancel hard-deletes the project when the owner asks for it and donations
// are still below a quarter of the target. The threshold is re-checked inside
// the deleting transaction.
func (s *projectService) Cancel(ctx context.Context, actorID uuid.UUID, projectID uuid.UUID) error {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("project")
		}
		return fmt.Errorf("get project: %w", err)
	}
	if project.OwnerID != actorID {
		return apperr.Permission("only the project owner may cancel it")
	}

	err = s.projects.CancelBelowThreshold(ctx, projectID, s.cfg.Policy.CancelRatio)
	if err != nil {
		if errors.Is(err, repo.ErrCancelThreshold) {
			return apperr.Policy("cannot cancel: project has reached 25% of its donation target")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("project")
		}
		return fmt.Errorf("cancel project: %w", err)
	}

	s.log.Sugar().Infow("project canceled", "project_id", projectID, "owner_id", actorID)
	return nil
}

func (s *projectService) Similar(ctx context.Context, projectID uuid.UUID) ([]model.Project, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project")
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return s.projects.SimilarByTags(ctx, projectID, s.cfg.Policy.SimilarLimit)
}
