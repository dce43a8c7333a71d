package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
)

func TestManager(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	t.Run("签发后可验证并取回Claims", func(t *testing.T) {
		token, err := m.GenerateToken("ana@example.com", "User")
		require.NoError(t, err)

		claims, err := m.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", claims.Email)
		assert.Equal(t, "User", claims.Role)
	})

	t.Run("密钥不匹配时拒绝", func(t *testing.T) {
		token, err := NewManager("other-secret", time.Hour).GenerateToken("ana@example.com", "User")
		require.NoError(t, err)

		_, err = m.ParseToken(token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("过期Token返回专用错误", func(t *testing.T) {
		expired := NewManager("test-secret", -time.Minute)
		token, err := expired.GenerateToken("ana@example.com", "User")
		require.NoError(t, err)

		_, err = m.ParseToken(token)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})
}

func TestExtractEmail(t *testing.T) {
	t.Run("不验证签名提取email声明", func(t *testing.T) {
		// 客户端没有密钥，用别的密钥签的Token也要能取出身份
		token, err := NewManager("unknown-secret", time.Hour).GenerateToken("ana@example.com", "User")
		require.NoError(t, err)

		email, err := ExtractEmail(token)
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", email)
	})

	t.Run("非JWT字符串返回错误", func(t *testing.T) {
		_, err := ExtractEmail("not-a-jwt")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}
