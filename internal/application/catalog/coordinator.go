// Package catalog 实现目录视图的同步协调器
//
// 协调器是一个视图的权威本地状态：从目录API拉取唱片与组合，
// 归一化后做组名左连接，并通过订阅库存/购物车广播保持与全局
// 状态的最终一致。列表更新遵循"只复制、不原地修改"纪律——
// 每次变更都安装新的切片，这是变更检测型渲染层的正确性要求，
// 不是性能优化。
package catalog

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/moraisLuismNet/recordstore/internal/domain/cart"
	"github.com/moraisLuismNet/recordstore/internal/domain/catalog"
	"github.com/moraisLuismNet/recordstore/internal/infrastructure/api"
	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
	"github.com/moraisLuismNet/recordstore/pkg/hub"
)

// Coordinator 目录同步协调器
//
// 并发说明：内部状态由互斥锁保护（原系统依赖单线程事件循环，
// Go侧用锁承担同样的职责）；锁内绝不发布事件、绝不回调——
// 广播与变更通知都在锁外进行，避免同步派发造成的死锁。
type Coordinator struct {
	client   *api.CatalogClient
	stockHub *hub.Hub[catalog.StockUpdate]
	cartHub  *hub.Hub[cart.Snapshot]

	stockSub *hub.Subscription[catalog.StockUpdate]
	cartSub  *hub.Subscription[cart.Snapshot]

	mu       sync.Mutex
	base     []catalog.Record // 权威列表（加载结果 + 广播收敛）
	filtered []catalog.Record // 当前展示列表（检索结果）
	lastCart *cart.Snapshot   // 最近一次看到的购物车快照
	loading  bool
	errMsg   string

	changeMu sync.Mutex
	onChange []func()
}

// NewCoordinator 创建协调器并建立两路订阅
//
// 订阅在视图激活时建立，视图销毁必须调用Close释放——
// 广播通道的监听器集合不会被GC回收。
func NewCoordinator(client *api.CatalogClient, stockHub *hub.Hub[catalog.StockUpdate], cartHub *hub.Hub[cart.Snapshot]) *Coordinator {
	c := &Coordinator{
		client:   client,
		stockHub: stockHub,
		cartHub:  cartHub,
	}
	c.stockSub = stockHub.Subscribe(c.ApplyStockEvent)
	c.cartSub = cartHub.Subscribe(c.ApplyCartSnapshot)
	return c
}

// Close 释放订阅（幂等）
func (c *Coordinator) Close() {
	c.stockSub.Cancel()
	c.cartSub.Cancel()
}

// OnChange 注册变更通知：每次列表/状态被替换后调用
// （渲染层以此驱动重绘）
func (c *Coordinator) OnChange(fn func()) {
	c.changeMu.Lock()
	defer c.changeMu.Unlock()
	c.onChange = append(c.onChange, fn)
}

// notify 锁外触发所有变更回调
func (c *Coordinator) notify() {
	c.changeMu.Lock()
	callbacks := make([]func(), len(c.onChange))
	copy(callbacks, c.onChange)
	c.changeMu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// Load 完整加载：唱片 + 组合 → 归一化 → 组名左连接 → 安装
//
// 降级规则：
// - 唱片拉取失败：列表置空 + 错误上浮
// - 组合拉取失败：唱片仍然展示（组名为空）+ 错误上浮
// 加载成功后将每条唱片的当前库存广播出去，
// 让其他已打开的视图收敛到最新值。
func (c *Coordinator) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()
	c.notify()

	records, err := c.client.ListRecords(ctx)
	if err != nil {
		appErr := apperrors.GetAppError(err)
		log.Printf("目录加载失败: %v", err)

		c.mu.Lock()
		c.base = nil
		c.filtered = nil
		c.loading = false
		c.errMsg = appErr.Message
		c.mu.Unlock()
		c.notify()
		return err
	}

	var joinErr error
	groups, err := c.client.ListGroups(ctx)
	if err != nil {
		// 组合拉取失败不阻断唱片展示：未连接（组名为空）+ 错误上浮
		joinErr = err
		log.Printf("组合加载失败，唱片将不带组名展示: %v", err)
		groups = nil
	}

	joined := catalog.JoinGroupNames(records, groups)

	c.mu.Lock()
	// 重新安装前把最近看到的购物车快照投影回来，
	// 保证InCart/Amount与快照一致（不等下一次广播）
	if c.lastCart != nil {
		for i := range joined {
			joined[i].SetCartState(c.lastCart.AmountFor(joined[i].ID))
		}
	}
	c.base = joined
	c.filtered = copyList(joined)
	c.loading = false
	if joinErr != nil {
		c.errMsg = apperrors.GetAppError(joinErr).Message
	}
	c.mu.Unlock()

	// 锁外广播：协调器自己也订阅着库存通道，锁内发布会死锁
	for _, r := range joined {
		c.stockHub.Publish(catalog.StockUpdate{RecordID: r.ID, NewStock: r.Stock})
	}
	c.notify()

	return joinErr
}

// ApplyStockEvent 应用库存广播：只替换命中的那一条
//
// 基础列表与展示列表都换成新切片；未命中的条目保持原值。
// 事件携带绝对库存，重复应用无副作用。
func (c *Coordinator) ApplyStockEvent(ev catalog.StockUpdate) {
	c.mu.Lock()
	baseChanged := false
	c.base, baseChanged = replaceStock(c.base, ev)
	filteredChanged := false
	c.filtered, filteredChanged = replaceStock(c.filtered, ev)
	c.mu.Unlock()

	if baseChanged || filteredChanged {
		c.notify()
	}
}

// ApplyCartSnapshot 应用购物车广播：向快照看齐
//
// 基础列表逐条投影InCart/Amount；展示列表重置为基础列表的
// 完整拷贝——这会丢掉当前检索条件，是沿用原系统的既定简化，
// 不要"顺手修掉"。
func (c *Coordinator) ApplyCartSnapshot(snap cart.Snapshot) {
	c.mu.Lock()
	snapCopy := snap
	c.lastCart = &snapCopy

	next := make([]catalog.Record, len(c.base))
	for i, r := range c.base {
		r.SetCartState(snap.AmountFor(r.ID))
		next[i] = r
	}
	c.base = next
	c.filtered = copyList(next)
	c.mu.Unlock()

	c.notify()
}

// Search 检索：对标题、组名、出版年份的字符串形式做
// 大小写不敏感的子串匹配；空白文本恢复完整列表。
// 只改展示列表，基础列表不动；同步操作，不发网络请求。
func (c *Coordinator) Search(text string) {
	needle := strings.ToLower(strings.TrimSpace(text))

	c.mu.Lock()
	if needle == "" {
		c.filtered = copyList(c.base)
	} else {
		next := make([]catalog.Record, 0, len(c.base))
		for _, r := range c.base {
			if recordMatches(r, needle) {
				next = append(next, r)
			}
		}
		c.filtered = next
	}
	c.mu.Unlock()

	c.notify()
}

// Save 提交草稿：本地校验 → 新建或更新 → 成功后完整重载
//
// 路由规则：草稿哨兵（ID=0）走新建，否则走更新。
// 成功路径不做本地合并——丢弃草稿、完整重载，保证本地状态
// 始终来自权威刷新。失败路径保留草稿供修正。
func (c *Coordinator) Save(ctx context.Context, draft *catalog.Record) error {
	if err := draft.ValidateForSave(); err != nil {
		// 本地校验失败：不发起网络调用
		c.setError(apperrors.GetAppError(err).Message)
		c.notify()
		return err
	}

	var err error
	if draft.IsDraft() {
		err = c.client.CreateRecord(ctx, draft)
	} else {
		err = c.client.UpdateRecord(ctx, draft)
	}
	if err != nil {
		c.setError(apperrors.GetAppError(err).Message)
		c.notify()
		return err
	}

	return c.Load(ctx)
}

// Delete 删除唱片：成功后完整重载；失败保持列表不变
func (c *Coordinator) Delete(ctx context.Context, id uint) error {
	if err := c.client.DeleteRecord(ctx, id); err != nil {
		c.setError(apperrors.GetAppError(err).Message)
		c.notify()
		return err
	}

	return c.Load(ctx)
}

// =========================================
// 购物车乐观更新的挂载点（cart.Updater使用）
// =========================================

// Record 按ID取当前基础列表中的唱片（值拷贝）
func (c *Coordinator) Record(id uint) (catalog.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.base {
		if r.ID == id {
			return r, true
		}
	}
	return catalog.Record{}, false
}

// ApplyCartMutation 对单条唱片应用修改并重新发布两份列表
//
// 基础列表与展示列表都换成新切片（命中的条目为修改后的拷贝），
// 这一步就是"把视图的展示列表作为新引用重新发布"。
func (c *Coordinator) ApplyCartMutation(id uint, mutate func(*catalog.Record)) {
	c.mu.Lock()
	c.base = mutateList(c.base, id, mutate)
	c.filtered = mutateList(c.filtered, id, mutate)
	c.mu.Unlock()

	c.notify()
}

// =========================================
// 对渲染层暴露的派生状态
// =========================================

// Records 当前展示列表的快照拷贝
func (c *Coordinator) Records() []catalog.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyList(c.filtered)
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

// setError 设置错误提示
func (c *Coordinator) setError(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.mu.Unlock()
}

// =========================================
// 列表工具（包内私有）
// =========================================

// copyList 列表的完整拷贝（新切片）
func copyList(in []catalog.Record) []catalog.Record {
	out := make([]catalog.Record, len(in))
	copy(out, in)
	return out
}

// replaceStock 返回应用了库存事件的新切片；未命中时返回原切片
func replaceStock(in []catalog.Record, ev catalog.StockUpdate) ([]catalog.Record, bool) {
	idx := -1
	for i, r := range in {
		if r.ID == ev.RecordID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return in, false
	}

	out := make([]catalog.Record, len(in))
	copy(out, in)
	out[idx].Stock = ev.NewStock
	return out, true
}

// mutateList 返回对命中条目应用了修改的新切片；未命中时返回原切片
func mutateList(in []catalog.Record, id uint, mutate func(*catalog.Record)) []catalog.Record {
	idx := -1
	for i, r := range in {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return in
	}

	out := make([]catalog.Record, len(in))
	copy(out, in)
	mutate(&out[idx])
	return out
}

// recordMatches 单条唱片是否命中检索词
func recordMatches(r catalog.Record, needle string) bool {
	if strings.Contains(strings.ToLower(r.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(r.GroupName), needle) {
		return true
	}
	return r.Year != 0 && strings.Contains(strconv.Itoa(r.Year), needle)
}
