package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/moraisLuismNet/recordstore/internal/infrastructure/persistence/mysql"
	"github.com/moraisLuismNet/recordstore/pkg/response"
)

// GroupHandler 音乐组合HTTP处理器（只读）
type GroupHandler struct {
	groups   *mysql.GroupRepository
	records  *mysql.RecordRepository
	envelope response.ListEnvelope
}

// NewGroupHandler 创建组合处理器
func NewGroupHandler(groups *mysql.GroupRepository, records *mysql.RecordRepository, envelope response.ListEnvelope) *GroupHandler {
	return &GroupHandler{groups: groups, records: records, envelope: envelope}
}

// List 组合列表
// @Summary      组合列表
// @Tags         组合
// @Produce      json
// @Success      200 {array} catalog.Group
// @Router       /api/v1/groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, h.envelope, groups)
}

// Get 组合详情
// @Summary      组合详情
// @Tags         组合
// @Produce      json
// @Param        id path int true "组合ID"
// @Success      200 {object} catalog.Group
// @Failure      404 {object} map[string]string "组合不存在"
// @Router       /api/v1/groups/{id} [get]
func (h *GroupHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	group, err := h.groups.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, group)
}

// RecordsByGroup 组合下的唱片列表
// @Summary      组合下的唱片列表
// @Tags         组合
// @Produce      json
// @Param        id path int true "组合ID"
// @Success      200 {array} catalog.Record
// @Router       /api/v1/groups/recordsByGroup/{id} [get]
func (h *GroupHandler) RecordsByGroup(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	records, err := h.records.ListByGroup(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, h.envelope, records)
}
