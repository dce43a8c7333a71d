package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/moraisLuismNet/recordstore/internal/infrastructure/persistence/mysql"
	"github.com/moraisLuismNet/recordstore/internal/interface/http/middleware"
	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
	"github.com/moraisLuismNet/recordstore/pkg/response"
)

// OrderHandler 订单HTTP处理器（只读）
type OrderHandler struct {
	repo     *mysql.OrderRepository
	envelope response.ListEnvelope
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(repo *mysql.OrderRepository, envelope response.ListEnvelope) *OrderHandler {
	return &OrderHandler{repo: repo, envelope: envelope}
}

// ListByEmail 按用户查询订单
// @Summary      用户订单列表
// @Description  userEmail必须与Token身份一致（订单按用户隔离）
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        userEmail query string true "用户邮箱（须为本人）"
// @Success      200 {array} order.Order
// @Failure      403 {object} map[string]string "只能查询本人订单"
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListByEmail(c *gin.Context) {
	email := c.Query("userEmail")
	if email == "" {
		response.Error(c, apperrors.Validation("缺少userEmail参数"))
		return
	}
	if email != middleware.GetEmail(c) {
		response.Error(c, apperrors.ErrForbidden)
		return
	}

	orders, err := h.repo.ListByEmail(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, h.envelope, orders)
}
