package cart

// Line 购物车行：唱片与数量
type Line struct {
	RecordID uint `json:"idRecord"`
	Amount   int  `json:"amount"`
}

// Snapshot 一个用户当前购物车的完整内容（有序）
// 设计说明：快照由购物车API产出，同步层只消费——
// 视图里的InCart/Amount永远向最近一次快照看齐
type Snapshot struct {
	UserEmail string `json:"userEmail,omitempty"`
	Lines     []Line `json:"lines"`
}

// AmountFor 返回指定唱片在购物车中的数量（不在购物车则为0）
func (s Snapshot) AmountFor(recordID uint) int {
	for _, l := range s.Lines {
		if l.RecordID == recordID {
			return l.Amount
		}
	}
	return 0
}

// TotalItems 购物车内商品总件数
func (s Snapshot) TotalItems() int {
	total := 0
	for _, l := range s.Lines {
		total += l.Amount
	}
	return total
}
