package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/moraisLuismNet/recordstore/internal/domain/order"
	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
)

// OrderRepository 订单仓储
type OrderRepository struct {
	db       *gorm.DB
	cartRepo *CartRepository
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB, cartRepo *CartRepository) *OrderRepository {
	return &OrderRepository{db: db, cartRepo: cartRepo}
}

// ListByEmail 查询用户的全部订单（含订单行，新单在前）
func (r *OrderRepository) ListByEmail(ctx context.Context, email string) ([]order.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).
		Preload("Details").
		Where("user_email = ?", email).
		Order("order_date DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询订单列表失败")
	}

	orders := make([]order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders, nil
}

// CreateFromCart 结算：把用户购物车变成一张订单并清空购物车
//
// 教学要点:
// 1. 订单创建与购物车清空在同一个事务里，要么都成功要么都失败
// 2. 订单行冗余下单时刻的标题与单价，历史订单不受后续改价影响
// 3. 空购物车结算是业务错误，不产生空订单
func (r *OrderRepository) CreateFromCart(ctx context.Context, email, paymentMethod string) (*order.Order, error) {
	var created OrderModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cartModel CartModel
		err := tx.Preload("Lines").Where("user_email = ?", email).First(&cartModel).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.ErrCodeBusiness, "购物车为空，无法结算")
			}
			return apperrors.Wrap(err, "查询购物车失败")
		}
		if len(cartModel.Lines) == 0 {
			return apperrors.New(apperrors.ErrCodeBusiness, "购物车为空，无法结算")
		}

		details := make([]OrderDetailModel, 0, len(cartModel.Lines))
		total := 0.0
		for _, line := range cartModel.Lines {
			var rec RecordModel
			if err := tx.First(&rec, line.RecordID).Error; err != nil {
				return apperrors.New(apperrors.ErrCodeNotFound, "购物车中的唱片已不存在")
			}
			details = append(details, OrderDetailModel{
				RecordID:    rec.ID,
				RecordTitle: rec.Title,
				Amount:      line.Amount,
				Price:       rec.Price,
			})
			total += rec.Price * float64(line.Amount)
		}

		created = OrderModel{
			UserEmail:     email,
			OrderDate:     time.Now(),
			PaymentMethod: paymentMethod,
			Total:         total,
			Details:       details,
		}
		if err := tx.Create(&created).Error; err != nil {
			return apperrors.Wrap(err, "创建订单失败")
		}

		return r.cartRepo.Clear(tx, email)
	})
	if err != nil {
		return nil, err
	}

	entity := toOrderEntity(&created)
	return &entity, nil
}

// toOrderEntity GORM模型 → 领域实体
func toOrderEntity(model *OrderModel) order.Order {
	details := make([]order.OrderDetail, len(model.Details))
	for i, d := range model.Details {
		details[i] = order.OrderDetail{
			ID:          d.ID,
			RecordID:    d.RecordID,
			RecordTitle: d.RecordTitle,
			Amount:      d.Amount,
			Price:       d.Price,
		}
	}
	return order.Order{
		ID:            model.ID,
		Date:          model.OrderDate,
		PaymentMethod: model.PaymentMethod,
		Total:         model.Total,
		UserEmail:     model.UserEmail,
		Details:       details,
	}
}
