package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/moraisLuismNet/recordstore/internal/infrastructure/persistence/mysql"
	"github.com/moraisLuismNet/recordstore/internal/infrastructure/persistence/redis"
	"github.com/moraisLuismNet/recordstore/internal/interface/http/dto"
	"github.com/moraisLuismNet/recordstore/internal/interface/http/middleware"
	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
	"github.com/moraisLuismNet/recordstore/pkg/jwt"
	"github.com/moraisLuismNet/recordstore/pkg/response"
)

// UserHandler 用户HTTP处理器
// 教学要点:
// 1. 密码bcrypt加密存储，登录时CompareHashAndPassword比对
// 2. 登录成功签发JWT并在Redis记录会话
// 3. 登出把Token按剩余有效期挂入黑名单
type UserHandler struct {
	repo       *mysql.UserRepository
	sessions   *redis.SessionStore
	jwtManager *jwt.Manager
}

// NewUserHandler 创建用户处理器
func NewUserHandler(repo *mysql.UserRepository, sessions *redis.SessionStore, jwtManager *jwt.Manager) *UserHandler {
	return &UserHandler{repo: repo, sessions: sessions, jwtManager: jwtManager}
}

// Register 用户注册
// @Summary      用户注册
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      201 {object} dto.UserResponse
// @Failure      400 {object} map[string]string "邮箱已被注册"
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.Validation("参数错误: "+err.Error()))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.Error(c, apperrors.Wrap(err, "密码加密失败"))
		return
	}

	u := mysql.User{Email: req.Email, Password: string(hashed), Role: "User"}
	if err := h.repo.Create(c.Request.Context(), &u); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.UserResponse{ID: u.ID, Email: u.Email, Role: u.Role})
}

// Login 用户登录
// @Summary      用户登录
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录凭据"
// @Success      200 {object} dto.LoginResponse
// @Failure      401 {object} map[string]string "邮箱或密码错误"
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.Validation("参数错误: "+err.Error()))
		return
	}

	u, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		// 不区分"用户不存在"与"密码错误"，避免账号探测
		response.Error(c, apperrors.New(apperrors.ErrCodeUnauthorized, "邮箱或密码错误"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		response.Error(c, apperrors.New(apperrors.ErrCodeUnauthorized, "邮箱或密码错误"))
		return
	}

	token, err := h.jwtManager.GenerateToken(u.Email, u.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	expiresIn := h.jwtManager.ExpiresIn()
	sessionData := map[string]interface{}{
		"login_at": time.Now().Format(time.RFC3339),
		"role":     u.Role,
	}
	if err := h.sessions.SaveSession(c.Request.Context(), u.Email, sessionData, time.Duration(expiresIn)*time.Second); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LoginResponse{Token: token, ExpiresIn: expiresIn})
}

// Logout 用户登出
// @Summary      用户登出
// @Description  删除会话并将当前Token挂入黑名单
// @Tags         用户
// @Security     BearerAuth
// @Success      204
// @Router       /api/v1/users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	email := middleware.GetEmail(c)
	token := middleware.GetToken(c)

	if err := h.sessions.DeleteSession(c.Request.Context(), email); err != nil {
		response.Error(c, err)
		return
	}

	// 黑名单TTL与Token剩余有效期一致，过期自动清理
	ttl := time.Duration(h.jwtManager.ExpiresIn()) * time.Second
	if claims, err := h.jwtManager.ParseToken(token); err == nil && claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	if err := h.sessions.AddToBlacklist(c.Request.Context(), token, ttl); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
