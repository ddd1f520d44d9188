package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"gorm.io/gorm"
)

type UserRepo interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *model.User) error

	CreateActivation(ctx context.Context, a *model.EmailActivation) error
	GetActivationByKey(ctx context.Context, key uuid.UUID) (*model.EmailActivation, error)
	ActivateUser(ctx context.Context, a *model.EmailActivation) error

	CreateReset(ctx context.Context, r *model.PasswordReset) error
	GetResetByKey(ctx context.Context, key uuid.UUID) (*model.PasswordReset, error)
	ConsumeReset(ctx context.Context, r *model.PasswordReset, passwordHash string) error

	GetOrCreateExtraInfo(ctx context.Context, userID uuid.UUID) (*model.ExtraInfo, error)
	UpdateExtraInfo(ctx context.Context, e *model.ExtraInfo) error
}

type userRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepo) Update(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Where(&model.User{ID: u.ID}).Updates(u).Error
}

func (r *userRepo) CreateActivation(ctx context.Context, a *model.EmailActivation) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *userRepo) GetActivationByKey(ctx context.Context, key uuid.UUID) (*model.EmailActivation, error) {
	var a model.EmailActivation
	if err := r.db.WithContext(ctx).Where("activation_key = ?", key).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ActivateUser flips the user active and burns the activation row in one
// transaction.
func (r *userRepo) ActivateUser(ctx context.Context, a *model.EmailActivation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).Where("id = ?", a.UserID).Update("is_active", true).Error; err != nil {
			return err
		}
		return tx.Delete(a).Error
	})
}

func (r *userRepo) CreateReset(ctx context.Context, reset *model.PasswordReset) error {
	return r.db.WithContext(ctx).Create(reset).Error
}

func (r *userRepo) GetResetByKey(ctx context.Context, key uuid.UUID) (*model.PasswordReset, error) {
	var reset model.PasswordReset
	err := r.db.WithContext(ctx).Where("reset_key = ? AND used = false", key).First(&reset).Error
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

// ConsumeReset sets the new password hash and marks the reset key used in one
// transaction. The used-flag update is guarded so a concurrent consume of the
// same key fails instead of resetting twice.
func (r *userRepo) ConsumeReset(ctx context.Context, reset *model.PasswordReset, passwordHash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.PasswordReset{}).
			Where("id = ? AND used = false", reset.ID).
			Update("used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&model.User{}).Where("id = ?", reset.UserID).
			Update("password_hash", passwordHash).Error
	})
}

func (r *userRepo) GetOrCreateExtraInfo(ctx context.Context, userID uuid.UUID) (*model.ExtraInfo, error) {
	var info model.ExtraInfo
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&info).Error
	if err == nil {
		return &info, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	info = model.ExtraInfo{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&info).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *userRepo) UpdateExtraInfo(ctx context.Context, e *model.ExtraInfo) error {
	return r.db.WithContext(ctx).Where(&model.ExtraInfo{ID: e.ID}).Updates(e).Error
}
