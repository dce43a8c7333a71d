package catalog

// StockUpdate 库存广播事件
//
// 语义约定（全仓库统一）：NewStock是更新后的绝对库存，
// 不是增量。±1的调整意图在到达远端时已被换算成绝对值，
// 进入广播的只有绝对值——订阅方因此可以做幂等覆盖，
// 与加载中的列表并发到达也不会产生错误结果。
type StockUpdate struct {
	RecordID uint
	NewStock int
}
