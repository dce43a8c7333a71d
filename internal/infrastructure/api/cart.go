package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/moraisLuismNet/recordstore/internal/domain/cart"
)

// CartClient 购物车API客户端
// 设计说明：加购/移除按(用户, 唱片, 数量)提交；
// 成功响应携带操作后的完整购物车快照，供同步层广播
type CartClient struct {
	*Client
}

// NewCartClient 创建购物车API客户端
func NewCartClient(c *Client) *CartClient {
	return &CartClient{Client: c}
}

// Add 加入购物车，返回操作后的购物车快照
func (c *CartClient) Add(ctx context.Context, email string, recordID uint, amount int) (*cart.Snapshot, error) {
	var snap cart.Snapshot
	path := fmt.Sprintf("/cart/add/%s?recordId=%d&amount=%d", url.PathEscape(email), recordID, amount)
	if err := c.postJSON(ctx, path, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Remove 从购物车移除，返回操作后的购物车快照
func (c *CartClient) Remove(ctx context.Context, email string, recordID uint, amount int) (*cart.Snapshot, error) {
	var snap cart.Snapshot
	path := fmt.Sprintf("/cart/remove/%s?recordId=%d&amount=%d", url.PathEscape(email), recordID, amount)
	if err := c.postJSON(ctx, path, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Get 拉取指定用户的购物车快照
func (c *CartClient) Get(ctx context.Context, email string) (*cart.Snapshot, error) {
	var snap cart.Snapshot
	if err := c.getJSON(ctx, "/cart/"+url.PathEscape(email), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
