// Package api 封装同步层消费的远端HTTP接口
//
// 设计说明：
// 1. 仿照网关客户端的做法：每次调用都派生带超时的Context，
//    错误在边界处翻译成业务错误（不向上抛原始HTTP细节）
// 2. 认证凭据通过TokenSource注入，取得/刷新凭据不在本层职责内
// 3. 读写都只尝试一次——本层不做任何自动重试，
//    失败语义（降级展示/回滚）由上层协调器决定
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
)

// TokenSource 提供Bearer凭据；空字符串表示当前未认证
type TokenSource interface {
	Token() string
}

// Client 远端API基础客户端
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	tokens  TokenSource
}

// NewClient 创建基础客户端
//
// 参数：
//
//	baseURL: 如 http://localhost:8080/api/v1
//	timeout: 单次请求超时
//	tokens: 凭据来源（可为nil，表示匿名访问）
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
		tokens:  tokens,
	}
}

// do 执行请求：注入Bearer、派生超时Context、按状态码归类错误
//
// 返回响应体原文；2xx以外的状态翻译为传输错误（见pkg/errors分级），
// 网络层面的失败包装为内部错误。
func (c *Client) do(ctx context.Context, method, path string, contentType string, body io.Reader) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, apperrors.Wrap(err, "构建请求失败")
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, "网络请求失败")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, "读取响应失败")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, apperrors.FromStatus(resp.StatusCode, serverMessage(raw, resp.StatusCode))
	}

	return raw, nil
}

// serverMessage 从错误响应体提取提示信息，提取不到则给通用描述
func serverMessage(raw []byte, status int) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return fmt.Sprintf("请求失败（HTTP %d）", status)
}

// getJSON GET请求并解码JSON
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	raw, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Wrap(err, "解析响应失败")
	}
	return nil
}

// getRaw GET请求返回响应体原文（交给envelope归一化）
func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, "", nil)
}

// postJSON POST请求（JSON入参），out可为nil
func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return apperrors.Wrap(err, "序列化请求失败")
		}
		body = bytes.NewReader(raw)
	}

	raw, err := c.do(ctx, http.MethodPost, path, "application/json", body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Wrap(err, "解析响应失败")
	}
	return nil
}

// del DELETE请求
func (c *Client) del(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, "", nil)
	return err
}
