// Package auth 维护客户端会话与身份流
//
// 设计说明：
// 1. 同步层只需要知道"当前是谁"（email）来驱动订单加载和
//    购物车操作；真正的鉴权由远端用Bearer完成
// 2. 身份变化（登录、登出、换号）通过hub广播；订单协调器等
//    订阅者在每次变化时各自决定如何响应（含变为"无身份"）
// 3. Token只保存在内存里，签名不在客户端验证（没有密钥）
package auth

import (
	"sync"

	"github.com/moraisLuismNet/recordstore/pkg/hub"
	"github.com/moraisLuismNet/recordstore/pkg/jwt"
)

// Identity 当前身份；Email为空表示未认证
type Identity struct {
	Email string
}

// Anonymous 身份是否为空
func (i Identity) Anonymous() bool {
	return i.Email == ""
}

// Session 客户端会话：持有Token并对外提供身份流
//
// 实现api.TokenSource，可直接注入基础客户端。
type Session struct {
	mu       sync.Mutex
	token    string
	identity Identity
	hub      *hub.Hub[Identity]
}

// NewSession 创建会话；identityHub由调用方构造并传入（依赖注入）
func NewSession(identityHub *hub.Hub[Identity]) *Session {
	return &Session{hub: identityHub}
}

// SetToken 更新Token并广播由此推导出的身份
//
// Token无法解析时视为登出（广播空身份），不返回错误——
// 对同步层而言"坏Token"与"没有Token"等价。
func (s *Session) SetToken(token string) {
	identity := Identity{}
	if token != "" {
		if email, err := jwt.ExtractEmail(token); err == nil {
			identity.Email = email
		} else {
			token = ""
		}
	}

	s.mu.Lock()
	changed := s.identity != identity
	s.token = token
	s.identity = identity
	s.mu.Unlock()

	if changed {
		s.hub.Publish(identity)
	}
}

// Clear 登出：清空Token并广播空身份
func (s *Session) Clear() {
	s.SetToken("")
}

// Token 当前Bearer凭据（api.TokenSource实现）
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Current 当前身份
func (s *Session) Current() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Email 当前身份的email（未认证为空字符串）
func (s *Session) Email() string {
	return s.Current().Email
}
