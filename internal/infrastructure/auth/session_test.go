package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moraisLuismNet/recordstore/pkg/hub"
	"github.com/moraisLuismNet/recordstore/pkg/jwt"
)

func signedToken(t *testing.T, email string) string {
	t.Helper()
	token, err := jwt.NewManager("test-secret", time.Hour).GenerateToken(email, "User")
	require.NoError(t, err)
	return token
}

func TestSession(t *testing.T) {
	t.Run("设置Token后广播推导出的身份", func(t *testing.T) {
		identityHub := hub.New[Identity]()
		var seen []Identity
		identityHub.Subscribe(func(id Identity) { seen = append(seen, id) })

		s := NewSession(identityHub)
		s.SetToken(signedToken(t, "ana@example.com"))

		require.Len(t, seen, 1)
		assert.Equal(t, "ana@example.com", seen[0].Email)
		assert.Equal(t, "ana@example.com", s.Email())
		assert.NotEmpty(t, s.Token())
	})

	t.Run("坏Token等价于登出", func(t *testing.T) {
		identityHub := hub.New[Identity]()
		s := NewSession(identityHub)
		s.SetToken(signedToken(t, "ana@example.com"))

		var seen []Identity
		identityHub.Subscribe(func(id Identity) { seen = append(seen, id) })

		s.SetToken("not-a-jwt")

		require.Len(t, seen, 1)
		assert.True(t, seen[0].Anonymous())
		assert.Empty(t, s.Token())
		assert.Empty(t, s.Email())
	})

	t.Run("身份未变化时不重复广播", func(t *testing.T) {
		identityHub := hub.New[Identity]()
		s := NewSession(identityHub)
		s.SetToken(signedToken(t, "ana@example.com"))

		var count int
		identityHub.Subscribe(func(Identity) { count++ })

		// 同一个人的新Token：身份没变，不广播
		s.SetToken(signedToken(t, "ana@example.com"))
		assert.Equal(t, 0, count)

		// 换号：广播一次
		s.SetToken(signedToken(t, "bob@example.com"))
		assert.Equal(t, 1, count)
	})

	t.Run("登出清空Token并广播空身份", func(t *testing.T) {
		identityHub := hub.New[Identity]()
		s := NewSession(identityHub)
		s.SetToken(signedToken(t, "ana@example.com"))

		var seen []Identity
		identityHub.Subscribe(func(id Identity) { seen = append(seen, id) })

		s.Clear()

		require.Len(t, seen, 1)
		assert.True(t, seen[0].Anonymous())
		assert.Empty(t, s.Token())
	})
}
