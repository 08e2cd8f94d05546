package postgres

import (
	"gorm.io/gorm"

	"github.com/zonoapp/workforce/internal/auth"
	employeeDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/employee"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) auth.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(email string) (*employeeDatamodel.User, error) {
	var user employeeDatamodel.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id int64) (*employeeDatamodel.User, error) {
	var user employeeDatamodel.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
