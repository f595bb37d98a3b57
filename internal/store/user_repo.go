package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"coursegen/internal/models"
	"coursegen/internal/util"
)

type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetOrCreate(ctx context.Context, email, name string) (*models.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *util.Logger
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepo{db: db, log: util.NewLogger("UserRepo")}
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetOrCreate returns the user with email, inserting it first if needed. A
// concurrent insert of the same email resolves to the winner's row.
func (r *userRepo) GetOrCreate(ctx context.Context, email, name string) (*models.User, error) {
	existing, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	row := models.User{
		Email:   util.FitToLength(email, util.MaxUserIDLength),
		Name:    util.FitToLength(name, util.MaxCourseNameLength),
		Credits: 2,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if IsUniqueViolation(err) {
			return r.GetByEmail(ctx, email)
		}
		return nil, err
	}
	return &row, nil
}
