package api

import "context"

// AuthClient 身份提供方客户端
// 说明：凭据的获取/刷新协议不在同步层的职责范围内，
// 这里只提供演示外壳和测试需要的最小登录入口
type AuthClient struct {
	*Client
}

// NewAuthClient 创建身份客户端
func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{Client: c}
}

// LoginResult 登录结果
type LoginResult struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// Login 登录换取Bearer凭据
func (c *AuthClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	in := map[string]string{"email": email, "password": password}
	if err := c.postJSON(ctx, "/users/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
