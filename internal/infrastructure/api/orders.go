package api

import (
	"context"
	"net/url"

	"github.com/moraisLuismNet/recordstore/internal/domain/order"
	"github.com/moraisLuismNet/recordstore/pkg/envelope"
)

var orderLike = envelope.HasFields("idOrder", "userEmail")

// OrdersClient 订单API客户端（只读，按用户隔离）
type OrdersClient struct {
	*Client
}

// NewOrdersClient 创建订单API客户端
func NewOrdersClient(c *Client) *OrdersClient {
	return &OrdersClient{Client: c}
}

// ListByEmail 拉取指定用户的订单列表
// 响应与目录API共用同一套集合形态，统一归一化
func (c *OrdersClient) ListByEmail(ctx context.Context, email string) ([]order.Order, error) {
	raw, err := c.getRaw(ctx, "/orders?userEmail="+url.QueryEscape(email))
	if err != nil {
		return nil, err
	}
	return envelope.Decode[order.Order](raw, orderLike), nil
}
