package catalog

import (
	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
)

// DraftID 草稿哨兵：尚未持久化的唱片使用ID=0
const DraftID uint = 0

// Record 唱片实体
// 设计说明:
// 1. JSON标签与目录API的线上字段名保持一致（idRecord等）
// 2. InCart/Amount是视图专属字段，不存在于服务端——
//    只在同步层的本地视图模型里维护，随购物车快照变化
// 3. GroupName是加载时左连接出的冗余字段，组被删除后
//    沿用旧值直到下一次完整加载（不做级联失效）
type Record struct {
	ID           uint    `json:"idRecord"`
	Title        string  `json:"titleRecord"`
	Year         int     `json:"yearOfPublication,omitempty"`
	ImageURL     string  `json:"imageRecord,omitempty"`
	Photo        []byte  `json:"photo,omitempty"`
	PhotoName    string  `json:"photoName,omitempty"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	Discontinued bool    `json:"discontinued"`
	GroupID      uint    `json:"groupId,omitempty"`
	GroupName    string  `json:"groupName,omitempty"`

	// 视图专属字段（不持久化）
	InCart bool `json:"inCart"`
	Amount int  `json:"amount"`
}

// IsDraft 是否为未持久化的草稿
func (r *Record) IsDraft() bool {
	return r.ID == DraftID
}

// ValidateForSave 提交前的本地校验
// 业务规则：标题非空、价格>0、库存>0；任一不满足即本地失败，
// 不发起网络调用
func (r *Record) ValidateForSave() error {
	if r.Title == "" {
		return apperrors.Validation("标题不能为空")
	}
	if r.Price <= 0 {
		return apperrors.Validation("价格必须大于0")
	}
	if r.Stock <= 0 {
		return apperrors.Validation("库存必须大于0")
	}
	return nil
}

// SetCartState 按购物车行设置视图字段
// 业务规则：数量不为负；数量为0时必须同时清除InCart标记
func (r *Record) SetCartState(amount int) {
	if amount < 0 {
		amount = 0
	}
	r.Amount = amount
	r.InCart = amount > 0
}

// Group 音乐组合（只读参照数据）
type Group struct {
	ID   uint   `json:"idGroup"`
	Name string `json:"nameGroup"`
}

// JoinGroupNames 左连接：按GroupID为每条唱片填充组名
//
// 返回新的切片（调用方持有的列表不被原地修改）。
// 找不到归属组时组名为空字符串，不视为错误。
func JoinGroupNames(records []Record, groups []Group) []Record {
	byID := make(map[uint]string, len(groups))
	for _, g := range groups {
		byID[g.ID] = g.Name
	}

	out := make([]Record, len(records))
	for i, r := range records {
		r.GroupName = byID[r.GroupID]
		out[i] = r
	}
	return out
}
