package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moraisLuismNet/recordstore/internal/infrastructure/persistence/mysql"
	"github.com/moraisLuismNet/recordstore/internal/interface/http/middleware"
	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
	"github.com/moraisLuismNet/recordstore/pkg/response"
)

// CartHandler 购物车HTTP处理器
// 设计说明：购物车操作只允许本人访问——路径里的email必须
// 与Token身份一致，否则403
type CartHandler struct {
	carts  *mysql.CartRepository
	orders *mysql.OrderRepository
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(carts *mysql.CartRepository, orders *mysql.OrderRepository) *CartHandler {
	return &CartHandler{carts: carts, orders: orders}
}

// ownEmail 校验路径email与Token身份一致
func ownEmail(c *gin.Context) (string, error) {
	email := c.Param("email")
	if email == "" {
		return "", apperrors.Validation("缺少用户邮箱")
	}
	if email != middleware.GetEmail(c) {
		return "", apperrors.ErrForbidden
	}
	return email, nil
}

// cartArgs 解析recordId与amount查询参数
func cartArgs(c *gin.Context) (uint, int, error) {
	recordID, err := strconv.ParseUint(c.Query("recordId"), 10, 32)
	if err != nil {
		return 0, 0, apperrors.Validation("无效的唱片ID")
	}

	amount := 1
	if raw := c.Query("amount"); raw != "" {
		amount, err = strconv.Atoi(raw)
		if err != nil || amount <= 0 {
			return 0, 0, apperrors.Validation("无效的数量")
		}
	}
	return uint(recordID), amount, nil
}

// Add 加入购物车
// @Summary      加入购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        email path string true "用户邮箱（须为本人）"
// @Param        recordId query int true "唱片ID"
// @Param        amount query int false "数量（默认1）"
// @Success      200 {object} cart.Snapshot
// @Failure      403 {object} map[string]string "只能操作本人购物车"
// @Router       /api/v1/cart/add/{email} [post]
func (h *CartHandler) Add(c *gin.Context) {
	email, err := ownEmail(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	recordID, amount, err := cartArgs(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	snap, err := h.carts.AddLine(c.Request.Context(), email, recordID, amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, snap)
}

// Remove 从购物车移除
// @Summary      从购物车移除
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        email path string true "用户邮箱（须为本人）"
// @Param        recordId query int true "唱片ID"
// @Param        amount query int false "数量（默认1）"
// @Success      200 {object} cart.Snapshot
// @Failure      404 {object} map[string]string "购物车中没有该唱片"
// @Router       /api/v1/cart/remove/{email} [post]
func (h *CartHandler) Remove(c *gin.Context) {
	email, err := ownEmail(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	recordID, amount, err := cartArgs(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	snap, err := h.carts.RemoveLine(c.Request.Context(), email, recordID, amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, snap)
}

// Get 查看购物车
// @Summary      查看购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        email path string true "用户邮箱（须为本人）"
// @Success      200 {object} cart.Snapshot
// @Router       /api/v1/cart/{email} [get]
func (h *CartHandler) Get(c *gin.Context) {
	email, err := ownEmail(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	snap, err := h.carts.Snapshot(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, snap)
}

// Checkout 结算：购物车生成订单并清空
// @Summary      结算购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        email path string true "用户邮箱（须为本人）"
// @Param        paymentMethod query string false "支付方式（默认card）"
// @Success      201 {object} order.Order
// @Failure      400 {object} map[string]string "购物车为空"
// @Router       /api/v1/cart/checkout/{email} [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	email, err := ownEmail(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	paymentMethod := c.DefaultQuery("paymentMethod", "card")
	created, err := h.orders.CreateFromCart(c.Request.Context(), email, paymentMethod)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}
