package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moraisLuismNet/recordstore/internal/domain/cart"
	"github.com/moraisLuismNet/recordstore/internal/domain/catalog"
	"github.com/moraisLuismNet/recordstore/internal/infrastructure/api"
	"github.com/moraisLuismNet/recordstore/pkg/hub"
)

// fakeCatalog 内存目录后端：按路径返回固定JSON
type fakeCatalog struct {
	records  string
	groups   string
	failWith map[string]int // 路径 → 强制返回的状态码
	hits     atomic.Int32   // 收到的请求总数
}

func (f *fakeCatalog) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/records", func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if code, ok := f.failWith["/records"]; ok {
			w.WriteHeader(code)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(f.records))
	})
	mux.HandleFunc("/groups", func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if code, ok := f.failWith["/groups"]; ok {
			w.WriteHeader(code)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(f.groups))
	})
	return mux
}

// newTestCoordinator 组装协调器（真HTTP客户端 + 测试服务器）
func newTestCoordinator(t *testing.T, f *fakeCatalog) (*Coordinator, *hub.Hub[catalog.StockUpdate], *hub.Hub[cart.Snapshot]) {
	t.Helper()

	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	client := api.NewCatalogClient(api.NewClient(srv.URL, 0, nil))
	stockHub := hub.New[catalog.StockUpdate]()
	cartHub := hub.New[cart.Snapshot]()

	c := NewCoordinator(client, stockHub, cartHub)
	t.Cleanup(c.Close)
	return c, stockHub, cartHub
}

const testRecords = `[
	{"idRecord": 1, "titleRecord": "Abbey Road", "yearOfPublication": 1969, "price": 29.9, "stock": 5, "groupId": 10},
	{"idRecord": 2, "titleRecord": "Kind of Blue", "yearOfPublication": 1959, "price": 24.5, "stock": 3, "groupId": 11},
	{"idRecord": 3, "titleRecord": "Unknown Tapes", "price": 9.9, "stock": 1, "groupId": 99}
]`

const testGroups = `[
	{"idGroup": 10, "nameGroup": "The Beatles"},
	{"idGroup": 11, "nameGroup": "Miles Davis"},
	{"idGroup": 12, "nameGroup": "Pink Floyd"}
]`

func TestCoordinatorLoad(t *testing.T) {
	t.Run("加载后按组ID左连接组名", func(t *testing.T) {
		c, _, _ := newTestCoordinator(t, &fakeCatalog{records: testRecords, groups: testGroups})

		require.NoError(t, c.Load(context.Background()))

		records := c.Records()
		require.Len(t, records, 3)
		assert.Equal(t, "The Beatles", records[0].GroupName)
		assert.Equal(t, "Miles Davis", records[1].GroupName)
		// 找不到归属组时组名为空，不是错误
		assert.Equal(t, "", records[2].GroupName)
		assert.False(t, c.Loading())
		assert.Empty(t, c.ErrMessage())
	})

	t.Run("唱片拉取失败时列表置空且错误上浮", func(t *testing.T) {
		c, _, _ := newTestCoordinator(t, &fakeCatalog{
			records:  testRecords,
			groups:   testGroups,
			failWith: map[string]int{"/records": http.StatusInternalServerError},
		})

		err := c.Load(context.Background())
		require.Error(t, err)
		assert.Empty(t, c.Records())
		assert.NotEmpty(t, c.ErrMessage())
		assert.False(t, c.Loading())
	})

	t.Run("组合拉取失败时唱片照常展示但不带组名", func(t *testing.T) {
		c, _, _ := newTestCoordinator(t, &fakeCatalog{
			records:  testRecords,
			groups:   testGroups,
			failWith: map[string]int{"/groups": http.StatusInternalServerError},
		})

		err := c.Load(context.Background())
		require.Error(t, err)

		records := c.Records()
		require.Len(t, records, 3)
		for _, r := range records {
			assert.Equal(t, "", r.GroupName)
		}
		assert.NotEmpty(t, c.ErrMessage())
	})

	t.Run("加载成功后逐条广播当前库存", func(t *testing.T) {
		f := &fakeCatalog{records: testRecords, groups: testGroups}
		srv := httptest.NewServer(f.handler())
		t.Cleanup(srv.Close)

		client := api.NewCatalogClient(api.NewClient(srv.URL, 0, nil))
		stockHub := hub.New[catalog.StockUpdate]()
		cartHub := hub.New[cart.Snapshot]()

		var seen []catalog.StockUpdate
		sub := stockHub.Subscribe(func(ev catalog.StockUpdate) {
			seen = append(seen, ev)
		})
		t.Cleanup(sub.Cancel)

		c := NewCoordinator(client, stockHub, cartHub)
		t.Cleanup(c.Close)

		require.NoError(t, c.Load(context.Background()))
		require.Len(t, seen, 3)
		assert.Equal(t, catalog.StockUpdate{RecordID: 1, NewStock: 5}, seen[0])
		assert.Equal(t, catalog.StockUpdate{RecordID: 2, NewStock: 3}, seen[1])
	})
}

func TestCoordinatorApplyStockEvent(t *testing.T) {
	t.Run("只替换命中的那一条且列表是新切片", func(t *testing.T) {
		c, stockHub, _ := newTestCoordinator(t, &fakeCatalog{records: testRecords, groups: testGroups})
		require.NoError(t, c.Load(context.Background()))

		before := c.Records()
		stockHub.Publish(catalog.StockUpdate{RecordID: 2, NewStock: 99})

		after := c.Records()
		require.Len(t, after, 3)
		assert.Equal(t, 99, after[1].Stock)
		assert.Equal(t, 5, after[0].Stock)
		// 先前取得的快照不被原地修改
		assert.Equal(t, 3, before[1].Stock)
	})

	t.Run("未命中的事件不触发变更通知", func(t *testing.T) {
		c, stockHub, _ := newTestCoordinator(t, &fakeCatalog{records: testRecords, groups: testGroups})
		require.NoError(t, c.Load(context.Background()))

		var changes atomic.Int32
		c.OnChange(func() { changes.Add(1) })

		stockHub.Publish(catalog.StockUpdate{RecordID: 777, NewStock: 1})
		assert.Equal(t, int32(0), changes.Load())
	})
}

func TestCoordinatorApplyCartSnapshot(t *testing.T) {
	t.Run("按快照投影购物车标记并重置展示列表", func(t *testing.T) {
		c, _, cartHub := newTestCoordinator(t, &fakeCatalog{records: testRecords, groups: testGroups})
		require.NoError(t, c.Load(context.Background()))

		// 先有检索条件，快照到达后展示列表回到完整列表
		c.Search("abbey")
		require.Len(t, c.Records(), 1)

		cartHub.Publish(cart.Snapshot{
			UserEmail: "ana@example.com",
			Lines:     []cart.Line{{RecordID: 2, Amount: 4}},
		})

		records := c.Records()
		require.Len(t, records, 3)
		assert.False(t, records[0].InCart)
		assert.True(t, records[1].InCart)
		assert.Equal(t, 4, records[1].Amount)
	})

	t.Run("快照先于加载到达时在装载阶段投影", func(t *testing.T) {
		c, _, cartHub := newTestCoordinator(t, &fakeCatalog{records: testRecords, groups: testGroups})

		cartHub.Publish(cart.Snapshot{
			UserEmail: "ana@example.com",
			Lines:     []cart.Line{{RecordID: 1, Amount: 2}},
		})

		require.NoError(t, c.Load(context.Background()))

		records := c.Records()
		require.Len(t, records, 3)
		assert.True(t, records[0].InCart)
		assert.Equal(t, 2, records[0].Amount)
	})
}

func TestCoordinatorSearch(t *testing.T) {
	c, _, _ := newTestCoordinator(t, &fakeCatalog{records: testRecords, groups: testGroups})
	require.NoError(t, c.Load(context.Background()))

	t.Run("标题子串匹配大小写不敏感", func(t *testing.T) {
		c.Search("ABBEY")
		records := c.Records()
		require.Len(t, records, 1)
		assert.Equal(t, uint(1), records[0].ID)
	})

	t.Run("组名也参与匹配", func(t *testing.T) {
		c.Search("miles")
		records := c.Records()
		require.Len(t, records, 1)
		assert.Equal(t, uint(2), records[0].ID)
	})

	t.Run("出版年份按字符串形式匹配", func(t *testing.T) {
		c.Search("196")
		require.Len(t, c.Records(), 1)
	})

	t.Run("空白文本恢复完整列表", func(t *testing.T) {
		c.Search("abbey")
		require.Len(t, c.Records(), 1)
		c.Search("   ")
		assert.Len(t, c.Records(), 3)
	})

	t.Run("无命中时给空列表", func(t *testing.T) {
		c.Search("不存在的唱片")
		assert.Empty(t, c.Records())
	})
}

func TestCoordinatorSave(t *testing.T) {
	t.Run("本地校验失败不发起网络调用", func(t *testing.T) {
		f := &fakeCatalog{records: testRecords, groups: testGroups}
		c, _, _ := newTestCoordinator(t, f)

		draft := &catalog.Record{Title: "", Price: 10, Stock: 1}
		err := c.Save(context.Background(), draft)
		require.Error(t, err)
		assert.Equal(t, int32(0), f.hits.Load())
		assert.NotEmpty(t, c.ErrMessage())
	})
}

func TestCoordinatorApplyCartMutation(t *testing.T) {
	c, _, _ := newTestCoordinator(t, &fakeCatalog{records: testRecords, groups: testGroups})
	require.NoError(t, c.Load(context.Background()))

	before := c.Records()
	c.ApplyCartMutation(1, func(r *catalog.Record) {
		r.SetCartState(2)
		r.Stock--
	})

	after := c.Records()
	assert.True(t, after[0].InCart)
	assert.Equal(t, 2, after[0].Amount)
	assert.Equal(t, 4, after[0].Stock)
	// 旧快照保持原值
	assert.False(t, before[0].InCart)
	assert.Equal(t, 5, before[0].Stock)
}
