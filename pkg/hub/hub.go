// Package hub 提供进程内的广播通道（多播、无持久化、无回放）
//
// 与消息队列的区别：
// 1. 无Broker：事件在发布方的调用栈内同步派发，不跨进程
// 2. 无回放：晚订阅者收不到历史事件（广播即焚）
// 3. 无缓冲：Publish返回时派发已全部完成
//
// 设计说明：
// 1. Hub实例显式构造、显式传递（依赖注入），不做包级单例——
//    避免视图之间通过环境全局状态产生隐式耦合
// 2. Subscribe返回取消句柄，Cancel幂等且立即生效；
//    视图销毁时必须Cancel，否则监听器集合会无限增长
// 3. 派发按订阅顺序同步进行；派发过程中某订阅者Cancel自己或他人，
//    对本轮剩余派发不做送达保证（与原系统一致）
package hub

import (
	"sync"
	"sync/atomic"
)

// Hub 广播通道
type Hub[T any] struct {
	mu   sync.Mutex
	subs []*Subscription[T]
	next uint64
}

// Subscription 订阅句柄
type Subscription[T any] struct {
	hub      *Hub[T]
	id       uint64
	fn       func(T)
	canceled atomic.Bool
}

// New 创建广播通道
func New[T any]() *Hub[T] {
	return &Hub[T]{}
}

// Subscribe 注册监听器，返回取消句柄
func (h *Hub[T]) Subscribe(fn func(T)) *Subscription[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.next++
	s := &Subscription[T]{hub: h, id: h.next, fn: fn}
	h.subs = append(h.subs, s)
	return s
}

// Publish 将事件同步派发给当前所有订阅者（按订阅顺序）
//
// 派发在快照上进行：先在锁内复制订阅者列表，再在锁外逐个调用。
// 这样监听器内部可以安全地Publish、Subscribe或Cancel，不会死锁。
func (h *Hub[T]) Publish(event T) {
	h.mu.Lock()
	snapshot := make([]*Subscription[T], len(h.subs))
	copy(snapshot, h.subs)
	h.mu.Unlock()

	for _, s := range snapshot {
		// 快照建立后被Cancel的订阅者不再接收
		if !s.canceled.Load() {
			s.fn(event)
		}
	}
}

// SubscriberCount 当前订阅者数量（用于泄漏检查和测试）
func (h *Hub[T]) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Cancel 取消订阅，立即停止后续派发；重复调用无副作用
func (s *Subscription[T]) Cancel() {
	if s == nil {
		return
	}
	if s.canceled.Swap(true) {
		// 已取消过
		return
	}

	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, cur := range h.subs {
		if cur.id == s.id {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			break
		}
	}
}
