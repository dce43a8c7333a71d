package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/moraisLuismNet/recordstore/internal/domain/cart"
	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
)

// CartRepository 购物车仓储
// 设计说明:
// 1. 每个用户一条carts记录，首次操作时惰性创建
// 2. (cart_id, record_id)唯一，同一唱片只有一行，数量累加
// 3. 购物车不触碰库存——库存调整由独立的updateStock接口承担，
//    两者的先后与补偿由客户端的乐观更新流程编排
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// getOrCreate 取用户购物车，不存在则创建
func (r *CartRepository) getOrCreate(tx *gorm.DB, email string) (*CartModel, error) {
	var model CartModel
	err := tx.Where("user_email = ?", email).First(&model).Error
	if err == nil {
		return &model, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	model = CartModel{UserEmail: email}
	if err := tx.Create(&model).Error; err != nil {
		return nil, apperrors.Wrap(err, "创建购物车失败")
	}
	return &model, nil
}

// AddLine 加购：已有该唱片则数量累加，返回操作后的快照
func (r *CartRepository) AddLine(ctx context.Context, email string, recordID uint, amount int) (*cart.Snapshot, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model, err := r.getOrCreate(tx, email)
		if err != nil {
			return err
		}

		var line CartDetailModel
		err = tx.Where("cart_id = ? AND record_id = ?", model.ID, recordID).First(&line).Error
		switch {
		case err == nil:
			line.Amount += amount
			if err := tx.Save(&line).Error; err != nil {
				return apperrors.Wrap(err, "更新购物车行失败")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			line = CartDetailModel{CartID: model.ID, RecordID: recordID, Amount: amount}
			if err := tx.Create(&line).Error; err != nil {
				return apperrors.Wrap(err, "创建购物车行失败")
			}
		default:
			return apperrors.Wrap(err, "查询购物车行失败")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.Snapshot(ctx, email)
}

// RemoveLine 移除：数量减到0时删除该行，返回操作后的快照
func (r *CartRepository) RemoveLine(ctx context.Context, email string, recordID uint, amount int) (*cart.Snapshot, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model, err := r.getOrCreate(tx, email)
		if err != nil {
			return err
		}

		var line CartDetailModel
		if err := tx.Where("cart_id = ? AND record_id = ?", model.ID, recordID).First(&line).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.ErrCodeNotFound, "购物车中没有该唱片")
			}
			return apperrors.Wrap(err, "查询购物车行失败")
		}

		line.Amount -= amount
		if line.Amount <= 0 {
			if err := tx.Delete(&line).Error; err != nil {
				return apperrors.Wrap(err, "删除购物车行失败")
			}
			return nil
		}
		if err := tx.Save(&line).Error; err != nil {
			return apperrors.Wrap(err, "更新购物车行失败")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.Snapshot(ctx, email)
}

// Snapshot 用户当前购物车的完整快照（没有购物车时为空快照）
func (r *CartRepository) Snapshot(ctx context.Context, email string) (*cart.Snapshot, error) {
	var model CartModel
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("user_email = ?", email).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &cart.Snapshot{UserEmail: email, Lines: []cart.Line{}}, nil
		}
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	snap := &cart.Snapshot{UserEmail: email, Lines: make([]cart.Line, len(model.Lines))}
	for i, l := range model.Lines {
		snap.Lines[i] = cart.Line{RecordID: l.RecordID, Amount: l.Amount}
	}
	return snap, nil
}

// Clear 清空用户购物车（结算成功后调用）
// 必须在传入的事务里执行，与订单创建同生共死
func (r *CartRepository) Clear(tx *gorm.DB, email string) error {
	var model CartModel
	if err := tx.Where("user_email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.Wrap(err, "查询购物车失败")
	}

	if err := tx.Where("cart_id = ?", model.ID).Delete(&CartDetailModel{}).Error; err != nil {
		return apperrors.Wrap(err, "清空购物车失败")
	}
	return nil
}
