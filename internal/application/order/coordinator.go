// Package order 实现订单视图的同步协调器
//
// 订单是只读投影：没有乐观更新，也不参与库存广播。
// 协调器订阅身份流，身份每次变化都重新拉取（变为无身份时
// 清空列表），保证视图里的订单永远属于当前用户。
package order

import (
	"context"
	"log"
	"sync"

	"github.com/moraisLuismNet/recordstore/internal/domain/order"
	"github.com/moraisLuismNet/recordstore/internal/infrastructure/api"
	"github.com/moraisLuismNet/recordstore/internal/infrastructure/auth"
	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
	"github.com/moraisLuismNet/recordstore/pkg/hub"
)

// Coordinator 订单同步协调器
type Coordinator struct {
	client      *api.OrdersClient
	identitySub *hub.Subscription[auth.Identity]

	mu       sync.Mutex
	email    string
	base     []order.Order
	filtered []order.Order
	filter   string
	loading  bool
	errMsg   string

	changeMu sync.Mutex
	onChange []func()
}

// NewCoordinator 创建协调器并订阅身份流
//
// 身份变化触发的重载用后台Context（身份事件没有调用方Context
// 可继承）；视图销毁时调用Close释放订阅。
func NewCoordinator(client *api.OrdersClient, identityHub *hub.Hub[auth.Identity]) *Coordinator {
	c := &Coordinator{client: client}
	c.identitySub = identityHub.Subscribe(func(id auth.Identity) {
		c.onIdentity(context.Background(), id)
	})
	return c
}

// Close 释放身份订阅（幂等）
func (c *Coordinator) Close() {
	c.identitySub.Cancel()
}

// OnChange 注册变更通知
func (c *Coordinator) OnChange(fn func()) {
	c.changeMu.Lock()
	defer c.changeMu.Unlock()
	c.onChange = append(c.onChange, fn)
}

func (c *Coordinator) notify() {
	c.changeMu.Lock()
	callbacks := make([]func(), len(c.onChange))
	copy(callbacks, c.onChange)
	c.changeMu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// onIdentity 身份变化：换号重拉、登出清空
func (c *Coordinator) onIdentity(ctx context.Context, id auth.Identity) {
	if id.Anonymous() {
		c.mu.Lock()
		c.email = ""
		c.base = nil
		c.filtered = nil
		c.errMsg = ""
		c.loading = false
		c.mu.Unlock()
		c.notify()
		return
	}

	c.mu.Lock()
	c.email = id.Email
	c.mu.Unlock()

	if err := c.Reload(ctx); err != nil {
		log.Printf("身份变化后订单重载失败: email=%s, err=%v", id.Email, err)
	}
}

// Reload 按当前身份拉取订单；无身份时等价于清空
//
// 失败降级：列表置空 + 错误上浮（不保留上一个用户的旧列表，
// 订单按用户隔离，宁可空着也不能串号）。
func (c *Coordinator) Reload(ctx context.Context) error {
	c.mu.Lock()
	email := c.email
	if email == "" {
		c.base = nil
		c.filtered = nil
		c.mu.Unlock()
		c.notify()
		return nil
	}
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()
	c.notify()

	orders, err := c.client.ListByEmail(ctx, email)

	c.mu.Lock()
	// 拉取期间身份又变了：结果已过期，丢弃
	if c.email != email {
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.base = nil
		c.filtered = nil
		c.loading = false
		c.errMsg = apperrors.GetAppError(err).Message
		c.mu.Unlock()
		c.notify()
		return err
	}
	c.base = orders
	c.filtered = applyFilter(orders, c.filter)
	c.loading = false
	c.mu.Unlock()
	c.notify()

	return nil
}

// Filter 设置过滤条件并重新投影展示列表
// 匹配规则见order.Matches；同步操作，不发网络请求
func (c *Coordinator) Filter(text string) {
	c.mu.Lock()
	c.filter = text
	c.filtered = applyFilter(c.base, text)
	c.mu.Unlock()

	c.notify()
}

// Orders 当前展示列表的快照拷贝
func (c *Coordinator) Orders() []order.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]order.Order, len(c.filtered))
	copy(out, c.filtered)
	return out
}

// Loading 是否在加载中
func (c *Coordinator) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// ErrMessage 面向视图的错误提示（空串表示无错误）
func (c *Coordinator) ErrMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// applyFilter 逐单判定，返回新切片
func applyFilter(in []order.Order, text string) []order.Order {
	out := make([]order.Order, 0, len(in))
	for _, o := range in {
		if o.Matches(text) {
			out = append(out, o)
		}
	}
	return out
}
