package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
)

// Manager JWT管理器（服务端：签发与验证）
// 设计说明：
// 1. HS256对称签名，密钥只存在于服务端
// 2. 客户端一侧绝不持有密钥，提取身份用ExtractEmail（见下）
type Manager struct {
	secret string        // 签名密钥
	expire time.Duration // Token有效期
}

// NewManager 创建JWT管理器
func NewManager(secret string, expire time.Duration) *Manager {
	return &Manager{
		secret: secret,
		expire: expire,
	}
}

// Claims 自定义JWT Claims
// 学习要点：嵌入jwt.RegisteredClaims获取标准字段（exp、iat、nbf等）
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken 签发Token
func (m *Manager) GenerateToken(email, role string) (string, error) {
	now := time.Now()

	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expire)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "recordstore",
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return "", apperrors.Wrap(err, "生成Token失败")
	}

	return tokenString, nil
}

// ExpiresIn Token有效期（秒），登录响应使用
func (m *Manager) ExpiresIn() int64 {
	return int64(m.expire.Seconds())
}

// ParseToken 解析并验证Token（验证签名、过期时间、生效时间）
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, apperrors.ErrInvalidToken
}

// ExtractEmail 从Token里提取email声明，不验证签名
//
// 使用场景：浏览器侧的同步层只需要知道"当前是谁"来驱动
// 订单加载和购物车操作，真正的鉴权由携带Bearer的远端请求完成；
// 客户端没有签名密钥，也不应该有。
func ExtractEmail(tokenString string) (string, error) {
	parser := jwt.NewParser()

	var claims Claims
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return "", apperrors.ErrInvalidToken
	}

	if claims.Email != "" {
		return claims.Email, nil
	}
	// 兼容只带标准sub声明的Token
	if claims.Subject != "" {
		return claims.Subject, nil
	}
	return "", apperrors.ErrInvalidToken
}
