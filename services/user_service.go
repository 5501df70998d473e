package services

import (
	"context"
	"errors"

	"game-tournament-api/apperrors"
	"game-tournament-api/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService covers the admin user-management surface.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

func (s *UserService) List(ctx context.Context, caller *models.User) ([]models.User, error) {
	if !caller.IsAdmin {
		return nil, apperrors.Permission("admin access required")
	}
	var users []models.User
	if err := s.DB.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

type UpdateUserInput struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Password   *string `json:"password"`
	WalletUSDT *string `json:"wallet_usdt"`
	IsAdmin    *bool   `json:"is_admin"`
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput, caller *models.User) (*models.User, error) {
	if !caller.IsAdmin {
		return nil, apperrors.Permission("admin access required")
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.WalletUSDT != nil {
		updates["wallet_usdt"] = *in.WalletUSDT
	}
	if in.IsAdmin != nil {
		updates["is_admin"] = *in.IsAdmin
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password"] = string(hash)
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("no fields to update")
	}

	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("username already exists")
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound("user not found")
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Delete(ctx context.Context, id string, caller *models.User) error {
	if !caller.IsAdmin {
		return apperrors.Permission("admin access required")
	}
	res := s.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}
