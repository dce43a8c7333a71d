// Package cart 实现购物车的乐观更新
//
// 教学要点:
// 1. 乐观更新 = 先改本地、后提远端：界面即时响应，
//    远端失败时按补偿逻辑把本地改回去
// 2. 回滚由单品序号守卫：每条唱片维护单调递增的操作序号，
//    回滚只在"序号仍是自己"时生效——后发操作会推进序号，
//    使先前失败操作的回滚自动作废，避免旧回滚覆盖新状态
// 3. 操作粒度固定为±1：加购一张、移除一张，库存随之反向变动
package cart

import (
	"context"
	"log"
	"sync"

	"github.com/moraisLuismNet/recordstore/internal/domain/cart"
	"github.com/moraisLuismNet/recordstore/internal/domain/catalog"
	"github.com/moraisLuismNet/recordstore/internal/infrastructure/api"
	"github.com/moraisLuismNet/recordstore/pkg/hub"
	"github.com/moraisLuismNet/recordstore/pkg/saga"
)

// IdentitySource 当前登录身份的来源；空邮箱表示未登录
type IdentitySource interface {
	Email() string
}

// CatalogView 目录视图的挂载点：取单条唱片、应用单条修改
type CatalogView interface {
	Record(id uint) (catalog.Record, bool)
	ApplyCartMutation(id uint, mutate func(*catalog.Record))
}

// Updater 购物车乐观更新器
type Updater struct {
	session    IdentitySource
	cartAPI    *api.CartClient
	catalogAPI *api.CatalogClient
	view       CatalogView
	stockHub   *hub.Hub[catalog.StockUpdate]
	cartHub    *hub.Hub[cart.Snapshot]

	mu  sync.Mutex
	seq map[uint]uint64 // 唱片ID → 当前操作序号
}

// NewUpdater 创建购物车乐观更新器
func NewUpdater(session IdentitySource, cartAPI *api.CartClient, catalogAPI *api.CatalogClient,
	view CatalogView, stockHub *hub.Hub[catalog.StockUpdate], cartHub *hub.Hub[cart.Snapshot]) *Updater {
	return &Updater{
		session:    session,
		cartAPI:    cartAPI,
		catalogAPI: catalogAPI,
		view:       view,
		stockHub:   stockHub,
		cartHub:    cartHub,
		seq:        make(map[uint]uint64),
	}
}

// startOp 为该唱片开启一次新操作，返回本次操作的序号
func (u *Updater) startOp(id uint) uint64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.seq[id]++
	return u.seq[id]
}

// current 该唱片当前的操作序号
func (u *Updater) current(id uint) uint64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.seq[id]
}

// Add 加购一张
//
// 前置闸门（任一不满足即静默不做，不报错）：
// - 已登录（有邮箱）
// - 唱片在当前目录视图中
// - 库存>0
//
// 流程：本地乐观应用 → 远端加入购物车 → 远端扣减库存；
// 任一远端步骤失败则逆序补偿（远端已加购的要远端撤掉，
// 本地的回滚受序号守卫）。成功后广播权威库存与购物车快照。
func (u *Updater) Add(ctx context.Context, recordID uint) error {
	email := u.session.Email()
	if email == "" {
		log.Printf("未登录，忽略加购请求: record=%d", recordID)
		return nil
	}

	rec, ok := u.view.Record(recordID)
	if !ok {
		log.Printf("唱片不在当前视图，忽略加购: record=%d", recordID)
		return nil
	}
	if rec.Stock <= 0 {
		log.Printf("库存不足，忽略加购: record=%d", recordID)
		return nil
	}

	token := u.startOp(recordID)

	var (
		snap     *cart.Snapshot
		newStock int
	)

	s := saga.New(0)
	s.AddStep("本地乐观加购",
		func(ctx context.Context) error {
			u.view.ApplyCartMutation(recordID, func(r *catalog.Record) {
				r.SetCartState(r.Amount + 1)
				r.Stock--
			})
			return nil
		},
		u.guardedRollback(recordID, token, func(r *catalog.Record) {
			// 加购失败的回滚是清零而不是减一：
			// 本地计数此时已不可信，直接回到未加购状态
			r.SetCartState(0)
			r.Stock++
		}),
	)
	s.AddStep("远端加入购物车",
		func(ctx context.Context) error {
			var err error
			snap, err = u.cartAPI.Add(ctx, email, recordID, 1)
			return err
		},
		func(ctx context.Context) error {
			_, err := u.cartAPI.Remove(ctx, email, recordID, 1)
			return err
		},
	)
	s.AddStep("远端扣减库存",
		func(ctx context.Context) error {
			var err error
			newStock, err = u.catalogAPI.UpdateStock(ctx, recordID, -1)
			return err
		},
		nil,
	)

	if err := s.Execute(ctx); err != nil {
		log.Printf("加购失败已回滚: record=%d, err=%v", recordID, err)
		return err
	}

	u.publish(email, recordID, newStock, snap)
	return nil
}

// Remove 移除一张
//
// 前置闸门与Add对称：已登录、唱片在视图中、购物车里确有该唱片。
// 流程镜像：本地乐观回退 → 远端移除 → 远端回补库存。
func (u *Updater) Remove(ctx context.Context, recordID uint) error {
	email := u.session.Email()
	if email == "" {
		log.Printf("未登录，忽略移除请求: record=%d", recordID)
		return nil
	}

	rec, ok := u.view.Record(recordID)
	if !ok {
		log.Printf("唱片不在当前视图，忽略移除: record=%d", recordID)
		return nil
	}
	if rec.Amount <= 0 {
		log.Printf("购物车中没有该唱片，忽略移除: record=%d", recordID)
		return nil
	}

	token := u.startOp(recordID)

	var (
		snap     *cart.Snapshot
		newStock int
	)

	s := saga.New(0)
	s.AddStep("本地乐观移除",
		func(ctx context.Context) error {
			u.view.ApplyCartMutation(recordID, func(r *catalog.Record) {
				r.SetCartState(r.Amount - 1)
				r.Stock++
			})
			return nil
		},
		u.guardedRollback(recordID, token, func(r *catalog.Record) {
			r.SetCartState(r.Amount + 1)
			r.Stock--
		}),
	)
	s.AddStep("远端移除购物车",
		func(ctx context.Context) error {
			var err error
			snap, err = u.cartAPI.Remove(ctx, email, recordID, 1)
			return err
		},
		func(ctx context.Context) error {
			_, err := u.cartAPI.Add(ctx, email, recordID, 1)
			return err
		},
	)
	s.AddStep("远端回补库存",
		func(ctx context.Context) error {
			var err error
			newStock, err = u.catalogAPI.UpdateStock(ctx, recordID, 1)
			return err
		},
		nil,
	)

	if err := s.Execute(ctx); err != nil {
		log.Printf("移除失败已回滚: record=%d, err=%v", recordID, err)
		return err
	}

	u.publish(email, recordID, newStock, snap)
	return nil
}

// Refresh 主动拉取购物车并广播（登录后/视图切换时调用）
func (u *Updater) Refresh(ctx context.Context) error {
	email := u.session.Email()
	if email == "" {
		return nil
	}

	snap, err := u.cartAPI.Get(ctx, email)
	if err != nil {
		return err
	}
	if snap.UserEmail == "" {
		snap.UserEmail = email
	}
	u.cartHub.Publish(*snap)
	return nil
}

// guardedRollback 序号守卫的本地回滚
//
// 只有序号仍然等于本次操作的序号时才执行回滚；
// 序号已被后发操作推进时说明本次回滚已过期，直接丢弃。
func (u *Updater) guardedRollback(recordID uint, token uint64, inverse func(*catalog.Record)) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if u.current(recordID) != token {
			log.Printf("回滚已过期，丢弃: record=%d, seq=%d", recordID, token)
			return nil
		}
		u.view.ApplyCartMutation(recordID, inverse)
		return nil
	}
}

// publish 成功路径的收尾广播：权威库存 + 购物车快照
func (u *Updater) publish(email string, recordID uint, newStock int, snap *cart.Snapshot) {
	u.stockHub.Publish(catalog.StockUpdate{RecordID: recordID, NewStock: newStock})

	if snap == nil {
		return
	}
	if snap.UserEmail == "" {
		snap.UserEmail = email
	}
	u.cartHub.Publish(*snap)
}
