package postgres

import (
	"errors"

	"github.com/frahmantamala/budget-approval/internal"
	userDatamodel "github.com/frahmantamala/budget-approval/internal/core/datamodel/user"
	"github.com/frahmantamala/budget-approval/internal/user"
	"gorm.io/gorm"
)

// UserRepository persists users with GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *user.User) error {
	model := user.ToDataModel(u)
	if err := r.db.Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var model userDatamodel.User
	if err := r.db.Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&model), nil
}

func (r *UserRepository) GetByID(id string) (*user.User, error) {
	var model userDatamodel.User
	if err := r.db.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&model), nil
}
