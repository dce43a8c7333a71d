package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/moraisLuismNet/recordstore/internal/domain/catalog"
	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
)

// GroupRepository 音乐组合仓储（只读参照数据）
type GroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository 创建音乐组合仓储
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// List 查询全部组合
func (r *GroupRepository) List(ctx context.Context) ([]catalog.Group, error) {
	var models []GroupModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询组合列表失败")
	}

	groups := make([]catalog.Group, len(models))
	for i, m := range models {
		groups[i] = catalog.Group{ID: m.ID, Name: m.Name}
	}
	return groups, nil
}

// GetByID 按ID查询组合
func (r *GroupRepository) GetByID(ctx context.Context, id uint) (*catalog.Group, error) {
	var model GroupModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "组合不存在")
		}
		return nil, apperrors.Wrap(err, "查询组合失败")
	}
	return &catalog.Group{ID: model.ID, Name: model.Name}, nil
}
