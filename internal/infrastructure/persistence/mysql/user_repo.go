package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
)

// User 用户（开发后端内部使用，不进同步层的领域模型）
type User struct {
	ID       uint
	Email    string
	Password string // bcrypt哈希
	Role     string
}

// UserRepository 用户仓储
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户；邮箱重复返回业务错误
func (r *UserRepository) Create(ctx context.Context, u *User) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserModel{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return apperrors.Wrap(err, "查询用户失败")
	}
	if count > 0 {
		return apperrors.ErrEmailDuplicate
	}

	model := UserModel{Email: u.Email, Password: u.Password, Role: u.Role}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return apperrors.Wrap(err, "创建用户失败")
	}
	u.ID = model.ID
	return nil
}

// GetByEmail 按邮箱查询用户
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "用户不存在")
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return &User{ID: model.ID, Email: model.Email, Password: model.Password, Role: model.Role}, nil
}
