package order

import (
	"fmt"
	"strings"
	"time"
)

// Order 订单（只读，按用户隔离）
type Order struct {
	ID            uint          `json:"idOrder"`
	Date          time.Time     `json:"orderDate"`
	PaymentMethod string        `json:"paymentMethod"`
	Total         float64       `json:"total"`
	UserEmail     string        `json:"userEmail"`
	Details       []OrderDetail `json:"orderDetails"`
}

// OrderDetail 订单行
type OrderDetail struct {
	ID          uint    `json:"idOrderDetail"`
	RecordID    uint    `json:"recordId"`
	RecordTitle string  `json:"recordTitle,omitempty"`
	Amount      int     `json:"amount"`
	Price       float64 `json:"price"`
}

// FormattedDate 订单日期的展示格式（dd/MM/yyyy，与原系统一致）
func (o Order) FormattedDate() string {
	return o.Date.Format("02/01/2006")
}

// Matches 过滤条件：对格式化日期、支付方式、总额的
// 大小写不敏感子串匹配（逐单独立判定）
func (o Order) Matches(text string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return true
	}

	if strings.Contains(strings.ToLower(o.FormattedDate()), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(o.PaymentMethod), needle) {
		return true
	}
	return strings.Contains(fmt.Sprintf("%.2f", o.Total), needle)
}
