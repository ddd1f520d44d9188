package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/auth"
	"github.com/hossamkoky599/crowdfund/internal/config"
	"github.com/hossamkoky599/crowdfund/internal/infra/blob"
	"github.com/hossamkoky599/crowdfund/internal/infra/queue"
	"github.com/hossamkoky599/crowdfund/internal/mailer"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"github.com/hossamkoky599/crowdfund/internal/modules/repo"
	"github.com/hossamkoky599/crowdfund/internal/pkg/apperr"
	"github.com/hossamkoky599/crowdfund/internal/pkg/validate"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Activate(ctx context.Context, key uuid.UUID) error
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, key uuid.UUID, newPassword, confirm string) error
	Profile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*model.User, error)
	ExtraInfo(ctx context.Context, userID uuid.UUID) (*model.ExtraInfo, error)
	UpdateExtraInfo(ctx context.Context, userID uuid.UUID, in UpdateExtraInfoInput) (*model.ExtraInfo, error)
	UserExists(ctx context.Context, email string) (bool, error)
}

type accountService struct {
	r    repo.UserRepo
	cfg  *config.Config
	log  *zap.Logger
	blob *blob.S3Deps
	mail *queue.Publisher
}

func NewAccountService(r repo.UserRepo, cfg *config.Config, log *zap.Logger, blob *blob.S3Deps, mail *queue.Publisher) AccountService {
	return &accountService{r: r, cfg: cfg, log: log, blob: blob, mail: mail}
}

type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	MobilePhone     string
	ProfilePicture  *multipart.FileHeader
}

func (s *accountService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	fields := map[string]string{}
	if in.FirstName == "" {
		fields["first_name"] = "required"
	}
	if in.LastName == "" {
		fields["last_name"] = "required"
	}
	if !strings.Contains(in.Email, "@") {
		fields["email"] = "invalid email address"
	}
	if len(in.Password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	if in.Password != in.ConfirmPassword {
		fields["confirm_password"] = "passwords don't match"
	}
	if !validate.EgyptianPhone(in.MobilePhone) {
		fields["mobile_phone"] = "invalid Egyptian phone number format"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid registration", fields)
	}

	exists, err := s.r.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apperr.Conflict("user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		MobilePhone:  in.MobilePhone,
	}

	if in.ProfilePicture != nil {
		meta, err := s.blob.UploadFormFile(ctx, "profile_pics", in.ProfilePicture)
		if err != nil {
			return nil, fmt.Errorf("upload profile picture: %w", err)
		}
		user.ProfilePicture = meta.Key
	}

	if err := s.r.Create(ctx, &user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	activation := model.EmailActivation{
		UserID:        user.ID,
		ActivationKey: uuid.New(),
	}
	if err := s.r.CreateActivation(ctx, &activation); err != nil {
		return nil, fmt.Errorf("create activation: %w", err)
	}

	link := fmt.Sprintf("%s/api/v1/auth/activate/%s", s.cfg.Mail.BaseURL, activation.ActivationKey)
	s.queueMail(ctx, user.Email, "Activate your account",
		"Click the link to activate your account: "+link)

	return &user, nil
}

func (s *accountService) Activate(ctx context.Context, key uuid.UUID) error {
	activation, err := s.r.GetActivationByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("activation key")
		}
		return fmt.Errorf("get activation: %w", err)
	}

	ttl := time.Duration(s.cfg.Policy.ActivationTTLHours) * time.Hour
	if activation.IsExpired(ttl) {
		return apperr.Policy("activation link expired")
	}

	return s.r.ActivateUser(ctx, activation)
}

func (s *accountService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperr.New(apperr.KindValidation, "invalid credentials")
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperr.New(apperr.KindValidation, "invalid credentials")
	}
	if !user.IsActive {
		return "", nil, apperr.Policy("account not activated, please check your email")
	}

	token, err := auth.GenerateToken(s.cfg, user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

func (s *accountService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user")
		}
		return fmt.Errorf("get user: %w", err)
	}

	reset := model.PasswordReset{
		UserID:   user.ID,
		ResetKey: uuid.New(),
	}
	if err := s.r.CreateReset(ctx, &reset); err != nil {
		return fmt.Errorf("create reset: %w", err)
	}

	link := fmt.Sprintf("%s/api/v1/auth/password-reset/%s", s.cfg.Mail.BaseURL, reset.ResetKey)
	s.queueMail(ctx, user.Email, "Password Reset Request",
		"Click the link to reset your password: "+link)

	return nil
}

func (s *accountService) ConfirmPasswordReset(ctx context.Context, key uuid.UUID, newPassword, confirm string) error {
	if len(newPassword) < 8 {
		return apperr.Validation("invalid password", map[string]string{"new_password": "must be at least 8 characters"})
	}
	if newPassword != confirm {
		return apperr.Validation("invalid password", map[string]string{"confirm_password": "passwords don't match"})
	}

	reset, err := s.r.GetResetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("reset key")
		}
		return fmt.Errorf("get reset: %w", err)
	}

	ttl := time.Duration(s.cfg.Policy.ResetTTLHours) * time.Hour
	if reset.IsExpired(ttl) {
		return apperr.Policy("reset link expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.r.ConsumeReset(ctx, reset, string(hash)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("reset key")
		}
		return fmt.Errorf("consume reset: %w", err)
	}
	return nil
}

func (s *accountService) Profile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.r.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

type UpdateProfileInput struct {
	FirstName      string
	LastName       string
	MobilePhone    string
	ProfilePicture *multipart.FileHeader
}

func (s *accountService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*model.User, error) {
	if in.MobilePhone != "" && !validate.EgyptianPhone(in.MobilePhone) {
		return nil, apperr.Validation("invalid profile", map[string]string{"mobile_phone": "invalid Egyptian phone number format"})
	}

	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	if in.MobilePhone != "" {
		user.MobilePhone = in.MobilePhone
	}
	if in.ProfilePicture != nil {
		meta, err := s.blob.UploadFormFile(ctx, "profile_pics", in.ProfilePicture)
		if err != nil {
			return nil, fmt.Errorf("upload profile picture: %w", err)
		}
		user.ProfilePicture = meta.Key
	}

	if err := s.r.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *accountService) ExtraInfo(ctx context.Context, userID uuid.UUID) (*model.ExtraInfo, error) {
	return s.r.GetOrCreateExtraInfo(ctx, userID)
}

type UpdateExtraInfoInput struct {
	BirthDate *time.Time
	Address   *string
	Country   *string
	Socials   map[string]any
}

func (s *accountService) UpdateExtraInfo(ctx context.Context, userID uuid.UUID, in UpdateExtraInfoInput) (*model.ExtraInfo, error) {
	info, err := s.r.GetOrCreateExtraInfo(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get extra info: %w", err)
	}

	if in.BirthDate != nil {
		info.BirthDate = in.BirthDate
	}
	if in.Address != nil {
		info.Address = *in.Address
	}
	if in.Country != nil {
		info.Country = *in.Country
	}
	if in.Socials != nil {
		info.Socials = datatypes.JSONMap(in.Socials)
	}

	if err := s.r.UpdateExtraInfo(ctx, info); err != nil {
		return nil, fmt.Errorf("update extra info: %w", err)
	}
	return info, nil
}

func (s *accountService) UserExists(ctx context.Context, email string) (bool, error) {
	return s.r.ExistsByEmail(ctx, email)
}

// queueMail publishes the email job and only logs on failure: account
// operations succeed even when the outbox is unreachable.
func (s *accountService) queueMail(ctx context.Context, to, subject, body string) {
	if s.mail == nil {
		s.log.Sugar().Warnw("mail queue not configured, dropping email", "to", to, "subject", subject)
		return
	}
	job := mailer.Job{To: to, Subject: subject, Body: body}
	if err := s.mail.PublishJSON(ctx, job); err != nil {
		s.log.Sugar().Errorw("failed to queue email", "to", to, "subject", subject, "err", err)
	}
}
