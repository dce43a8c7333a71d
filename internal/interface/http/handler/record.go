package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moraisLuismNet/recordstore/internal/domain/catalog"
	"github.com/moraisLuismNet/recordstore/internal/infrastructure/persistence/mysql"
	"github.com/moraisLuismNet/recordstore/internal/interface/http/dto"
	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
	"github.com/moraisLuismNet/recordstore/pkg/response"
)

// RecordHandler 唱片HTTP处理器
type RecordHandler struct {
	repo     *mysql.RecordRepository
	envelope response.ListEnvelope
}

// NewRecordHandler 创建唱片处理器
func NewRecordHandler(repo *mysql.RecordRepository, envelope response.ListEnvelope) *RecordHandler {
	return &RecordHandler{repo: repo, envelope: envelope}
}

// List 唱片列表
// @Summary      唱片列表
// @Description  返回全部唱片（含组名），外层形态由server.envelope配置决定
// @Tags         唱片
// @Produce      json
// @Success      200 {array} catalog.Record
// @Router       /api/v1/records [get]
func (h *RecordHandler) List(c *gin.Context) {
	records, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, h.envelope, records)
}

// Get 唱片详情
// @Summary      唱片详情
// @Tags         唱片
// @Produce      json
// @Param        id path int true "唱片ID"
// @Success      200 {object} catalog.Record
// @Failure      404 {object} map[string]string "唱片不存在"
// @Router       /api/v1/records/{id} [get]
func (h *RecordHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	rec, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rec)
}

// Create 新建唱片
// @Summary      新建唱片
// @Description  管理端接口；multipart表单，可选photo文件
// @Tags         唱片
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string true "标题"
// @Param        price formData number true "价格"
// @Param        stock formData int true "库存"
// @Success      201 {object} catalog.Record
// @Failure      400 {object} map[string]string "参数错误"
// @Router       /api/v1/records [post]
func (h *RecordHandler) Create(c *gin.Context) {
	var form dto.RecordForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, apperrors.Validation("参数错误: "+err.Error()))
		return
	}

	rec := formToRecord(&form)
	if err := h.repo.Create(c.Request.Context(), &rec); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rec)
}

// Update 更新唱片
// @Summary      更新唱片
// @Tags         唱片
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "唱片ID"
// @Success      200 {object} catalog.Record
// @Failure      404 {object} map[string]string "唱片不存在"
// @Router       /api/v1/records/{id} [put]
func (h *RecordHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var form dto.RecordForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, apperrors.Validation("参数错误: "+err.Error()))
		return
	}

	rec := formToRecord(&form)
	rec.ID = id
	if err := h.repo.Update(c.Request.Context(), &rec); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rec)
}

// Delete 删除唱片
// @Summary      删除唱片
// @Tags         唱片
// @Security     BearerAuth
// @Param        id path int true "唱片ID"
// @Success      204
// @Failure      404 {object} map[string]string "唱片不存在"
// @Router       /api/v1/records/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdateStock 调整库存
// @Summary      调整库存
// @Description  应用符号增量（下限截断为0），返回调整后的绝对库存
// @Tags         唱片
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "唱片ID"
// @Param        delta path int true "符号增量（如-1、+3）"
// @Success      200 {object} dto.StockResponse
// @Failure      404 {object} map[string]string "唱片不存在"
// @Router       /api/v1/records/{id}/updateStock/{delta} [put]
func (h *RecordHandler) UpdateStock(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	delta, err := strconv.Atoi(c.Param("delta"))
	if err != nil {
		response.Error(c, apperrors.Validation("无效的库存增量"))
		return
	}

	newStock, err := h.repo.UpdateStock(c.Request.Context(), id, delta)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.StockResponse{RecordID: id, NewStock: newStock})
}

// formToRecord 表单 → 领域实体（照片暂存为URL外链，文件内容不落库）
func formToRecord(form *dto.RecordForm) catalog.Record {
	return catalog.Record{
		ID:           form.ID,
		Title:        form.Title,
		Year:         form.Year,
		Price:        form.Price,
		Stock:        form.Stock,
		Discontinued: form.Discontinued,
		GroupID:      form.GroupID,
	}
}

// pathID 解析路径里的ID参数
func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperrors.Validation("无效的ID")
	}
	return uint(id), nil
}
