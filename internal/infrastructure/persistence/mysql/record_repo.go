package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/moraisLuismNet/recordstore/internal/domain/catalog"
	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
)

// RecordRepository 唱片仓储
type RecordRepository struct {
	db *gorm.DB
}

// NewRecordRepository 创建唱片仓储
func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// recordRow 列表查询的投影行（唱片 + 左连接的组名）
type recordRow struct {
	RecordModel
	GroupName string
}

// List 查询全部唱片（左连接组名）
func (r *RecordRepository) List(ctx context.Context) ([]catalog.Record, error) {
	var rows []recordRow
	err := r.db.WithContext(ctx).
		Model(&RecordModel{}).
		Select("records.*, music_groups.name AS group_name").
		Joins("LEFT JOIN music_groups ON music_groups.id = records.group_id AND music_groups.deleted_at IS NULL").
		Order("records.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询唱片列表失败")
	}

	records := make([]catalog.Record, len(rows))
	for i, row := range rows {
		records[i] = toRecordEntity(&row.RecordModel)
		records[i].GroupName = row.GroupName
	}
	return records, nil
}

// ListByGroup 查询组合下的全部唱片
func (r *RecordRepository) ListByGroup(ctx context.Context, groupID uint) ([]catalog.Record, error) {
	var models []RecordModel
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询组合唱片失败")
	}

	records := make([]catalog.Record, len(models))
	for i := range models {
		records[i] = toRecordEntity(&models[i])
	}
	return records, nil
}

// GetByID 按ID查询唱片
func (r *RecordRepository) GetByID(ctx context.Context, id uint) (*catalog.Record, error) {
	var model RecordModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "唱片不存在")
		}
		return nil, apperrors.Wrap(err, "查询唱片失败")
	}

	rec := toRecordEntity(&model)
	return &rec, nil
}

// Create 新建唱片，回填自增ID
func (r *RecordRepository) Create(ctx context.Context, rec *catalog.Record) error {
	model := toRecordModel(rec)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建唱片失败")
	}
	rec.ID = model.ID
	return nil
}

// Update 更新唱片（全量字段）
func (r *RecordRepository) Update(ctx context.Context, rec *catalog.Record) error {
	result := r.db.WithContext(ctx).
		Model(&RecordModel{}).
		Where("id = ?", rec.ID).
		Updates(map[string]interface{}{
			"title":        rec.Title,
			"year":         rec.Year,
			"image_url":    rec.ImageURL,
			"price":        rec.Price,
			"stock":        rec.Stock,
			"discontinued": rec.Discontinued,
			"group_id":     rec.GroupID,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新唱片失败")
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrCodeNotFound, "唱片不存在")
	}
	return nil
}

// Delete 删除唱片（软删除）
func (r *RecordRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&RecordModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除唱片失败")
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrCodeNotFound, "唱片不存在")
	}
	return nil
}

// UpdateStock 应用符号增量并返回调整后的绝对库存
//
// 教学要点:
// 1. 原子UPDATE而非读改写，并发调用下不会丢更新
// 2. GREATEST(stock + delta, 0)保证库存不为负（统一下限截断）
// 3. UPDATE之后再查一次拿绝对值返回
func (r *RecordRepository) UpdateStock(ctx context.Context, id uint, delta int) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&RecordModel{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("GREATEST(stock + ?, 0)", delta))
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "更新库存失败")
	}
	if result.RowsAffected == 0 {
		return 0, apperrors.New(apperrors.ErrCodeNotFound, "唱片不存在")
	}

	var model RecordModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return 0, apperrors.Wrap(err, "查询库存失败")
	}
	return model.Stock, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toRecordEntity GORM模型 → 领域实体
func toRecordEntity(model *RecordModel) catalog.Record {
	return catalog.Record{
		ID:           model.ID,
		Title:        model.Title,
		Year:         model.Year,
		ImageURL:     model.ImageURL,
		Price:        model.Price,
		Stock:        model.Stock,
		Discontinued: model.Discontinued,
		GroupID:      model.GroupID,
	}
}

// toRecordModel 领域实体 → GORM模型
func toRecordModel(rec *catalog.Record) *RecordModel {
	return &RecordModel{
		ID:           rec.ID,
		Title:        rec.Title,
		Year:         rec.Year,
		ImageURL:     rec.ImageURL,
		Price:        rec.Price,
		Stock:        rec.Stock,
		Discontinued: rec.Discontinued,
		GroupID:      rec.GroupID,
	}
}
