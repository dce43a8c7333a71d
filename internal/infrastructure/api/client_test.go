package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
)

// staticToken 固定凭据的TokenSource
type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestClientDo(t *testing.T) {
	t.Run("携带凭据时注入Bearer头", func(t *testing.T) {
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte("{}"))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 0, staticToken("abc123"))
		_, err := c.getRaw(context.Background(), "/records")
		require.NoError(t, err)
		assert.Equal(t, "Bearer abc123", gotAuth)
	})

	t.Run("凭据为空时不带Authorization头", func(t *testing.T) {
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte("{}"))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 0, staticToken(""))
		_, err := c.getRaw(context.Background(), "/records")
		require.NoError(t, err)
		assert.Empty(t, gotAuth)
	})

	t.Run("状态码按分级翻译为业务错误", func(t *testing.T) {
		cases := []struct {
			name     string
			status   int
			wantCode int
		}{
			{"请求格式错误", http.StatusBadRequest, apperrors.ErrCodeBadRequest},
			{"未认证", http.StatusUnauthorized, apperrors.ErrCodeUnauthorized},
			{"无权限", http.StatusForbidden, apperrors.ErrCodeForbidden},
			{"资源不存在", http.StatusNotFound, apperrors.ErrCodeNotFound},
			{"服务端故障", http.StatusInternalServerError, apperrors.ErrCodeServerFault},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tc.status)
				}))
				defer srv.Close()

				c := NewClient(srv.URL, 0, nil)
				_, err := c.getRaw(context.Background(), "/whatever")
				require.Error(t, err)

				appErr := apperrors.GetAppError(err)
				assert.Equal(t, tc.wantCode, appErr.Code)
			})
		}
	})

	t.Run("错误响应体中的message被提取为提示", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message": "库存不足"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 0, nil)
		_, err := c.getRaw(context.Background(), "/cart/add/x")
		require.Error(t, err)
		assert.Equal(t, "库存不足", apperrors.GetAppError(err).Message)
	})

	t.Run("网络失败包装为内部错误", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", 0, nil)
		_, err := c.getRaw(context.Background(), "/records")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInternal, apperrors.GetAppError(err).Code)
	})
}
