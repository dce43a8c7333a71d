package dto

// RecordForm 唱片创建/更新的multipart表单
// 与同步层客户端提交的字段一一对应；照片走表单文件字段photo
type RecordForm struct {
	ID           uint    `form:"id"`
	Title        string  `form:"title" binding:"required"`
	Year         int     `form:"year"`
	Price        float64 `form:"price" binding:"required,gt=0"`
	Stock        int     `form:"stock" binding:"required,gt=0"`
	Discontinued bool    `form:"discontinued"`
	GroupID      uint    `form:"groupId"`
}

// StockResponse 库存调整响应（调整后的绝对库存）
type StockResponse struct {
	RecordID uint `json:"idRecord"`
	NewStock int  `json:"newStock"`
}
