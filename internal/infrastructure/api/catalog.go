package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/moraisLuismNet/recordstore/internal/domain/catalog"
	"github.com/moraisLuismNet/recordstore/pkg/envelope"
	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
)

// 实体判定谓词：键值展开形态下识别各实体
var (
	recordLike = envelope.HasFields("idRecord", "titleRecord")
	groupLike  = envelope.HasFields("idGroup", "nameGroup")
)

// CatalogClient 目录API客户端（records + groups）
type CatalogClient struct {
	*Client
}

// NewCatalogClient 创建目录API客户端
func NewCatalogClient(c *Client) *CatalogClient {
	return &CatalogClient{Client: c}
}

// ListRecords 拉取全部唱片
//
// 响应可能是四种集合形态之一，统一交给envelope归一化；
// 形态异常降级为空列表（不报错）。
func (c *CatalogClient) ListRecords(ctx context.Context) ([]catalog.Record, error) {
	raw, err := c.getRaw(ctx, "/records")
	if err != nil {
		return nil, err
	}
	return envelope.Decode[catalog.Record](raw, recordLike), nil
}

// GetRecord 按ID获取唱片
func (c *CatalogClient) GetRecord(ctx context.Context, id uint) (*catalog.Record, error) {
	var rec catalog.Record
	if err := c.getJSON(ctx, fmt.Sprintf("/records/%d", id), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateRecord 新建唱片（multipart表单，含可选照片）
func (c *CatalogClient) CreateRecord(ctx context.Context, rec *catalog.Record) error {
	body, contentType, err := recordForm(rec, false)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, "/records", contentType, body)
	return err
}

// UpdateRecord 更新唱片（同一表单形状，外加id）
func (c *CatalogClient) UpdateRecord(ctx context.Context, rec *catalog.Record) error {
	body, contentType, err := recordForm(rec, true)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPut, fmt.Sprintf("/records/%d", rec.ID), contentType, body)
	return err
}

// DeleteRecord 删除唱片
func (c *CatalogClient) DeleteRecord(ctx context.Context, id uint) error {
	return c.del(ctx, fmt.Sprintf("/records/%d", id))
}

// UpdateStock 按符号增量调整库存，返回调整后的绝对库存
//
// 语义约定（全仓库统一）：调用点用±1表达意图，走到远端做增量；
// 远端返回调整后的绝对值，之后进入广播的只有绝对值。
func (c *CatalogClient) UpdateStock(ctx context.Context, id uint, delta int) (int, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/records/%d/updateStock/%d", id, delta), "", nil)
	if err != nil {
		return 0, err
	}

	var resp struct {
		RecordID uint `json:"idRecord"`
		NewStock int  `json:"newStock"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, apperrors.Wrap(err, "解析库存响应失败")
	}
	return resp.NewStock, nil
}

// ListGroups 拉取全部音乐组合
func (c *CatalogClient) ListGroups(ctx context.Context) ([]catalog.Group, error) {
	raw, err := c.getRaw(ctx, "/groups")
	if err != nil {
		return nil, err
	}
	return envelope.Decode[catalog.Group](raw, groupLike), nil
}

// GetGroup 按ID获取音乐组合
func (c *CatalogClient) GetGroup(ctx context.Context, id uint) (*catalog.Group, error) {
	var g catalog.Group
	if err := c.getJSON(ctx, fmt.Sprintf("/groups/%d", id), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// RecordsByGroup 按组合拉取唱片列表（与ListRecords同样的归一化）
func (c *CatalogClient) RecordsByGroup(ctx context.Context, groupID uint) ([]catalog.Record, error) {
	raw, err := c.getRaw(ctx, fmt.Sprintf("/groups/recordsByGroup/%d", groupID))
	if err != nil {
		return nil, err
	}
	return envelope.Decode[catalog.Record](raw, recordLike), nil
}

// recordForm 组装唱片的multipart表单
// 字段：title、price、stock、discontinued、year、groupId、可选photo
func recordForm(rec *catalog.Record, withID bool) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":        rec.Title,
		"price":        fmt.Sprintf("%.2f", rec.Price),
		"stock":        fmt.Sprintf("%d", rec.Stock),
		"discontinued": fmt.Sprintf("%t", rec.Discontinued),
	}
	if withID {
		fields["id"] = fmt.Sprintf("%d", rec.ID)
	}
	if rec.Year != 0 {
		fields["year"] = fmt.Sprintf("%d", rec.Year)
	}
	if rec.GroupID != 0 {
		fields["groupId"] = fmt.Sprintf("%d", rec.GroupID)
	}

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", apperrors.Wrap(err, "组装表单失败")
		}
	}

	if len(rec.Photo) > 0 {
		name := rec.PhotoName
		if name == "" {
			name = "photo"
		}
		part, err := w.CreateFormFile("photo", name)
		if err != nil {
			return nil, "", apperrors.Wrap(err, "组装照片字段失败")
		}
		if _, err := part.Write(rec.Photo); err != nil {
			return nil, "", apperrors.Wrap(err, "写入照片内容失败")
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", apperrors.Wrap(err, "关闭表单失败")
	}

	return &buf, w.FormDataContentType(), nil
}
