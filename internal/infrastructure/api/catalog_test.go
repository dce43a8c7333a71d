package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moraisLuismNet/recordstore/internal/domain/catalog"
)

func TestCatalogClientListRecords(t *testing.T) {
	// 四种集合形态端到端各验一遍（归一化细节由envelope包自测）
	shapes := []struct {
		name string
		body string
	}{
		{"裸数组", `[{"idRecord": 1, "titleRecord": "Abbey Road", "price": 29.9, "stock": 5}]`},
		{"$values包装", `{"$values": [{"idRecord": 1, "titleRecord": "Abbey Road", "price": 29.9, "stock": 5}]}`},
		{"data包装", `{"data": [{"idRecord": 1, "titleRecord": "Abbey Road", "price": 29.9, "stock": 5}]}`},
		{"键值展开", `{"0": {"idRecord": 1, "titleRecord": "Abbey Road", "price": 29.9, "stock": 5}}`},
	}

	for _, tc := range shapes {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewCatalogClient(NewClient(srv.URL, 0, nil))
			records, err := c.ListRecords(context.Background())
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "Abbey Road", records[0].Title)
			assert.Equal(t, 5, records[0].Stock)
		})
	}

	t.Run("形态异常降级为空列表", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`"not a collection"`))
		}))
		defer srv.Close()

		c := NewCatalogClient(NewClient(srv.URL, 0, nil))
		records, err := c.ListRecords(context.Background())
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestCatalogClientUpdateStock(t *testing.T) {
	t.Run("增量走URL且返回绝对库存", func(t *testing.T) {
		var gotPath, gotMethod string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotMethod = r.Method
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"idRecord": 3, "newStock": 7}`))
		}))
		defer srv.Close()

		c := NewCatalogClient(NewClient(srv.URL, 0, nil))
		newStock, err := c.UpdateStock(context.Background(), 3, -1)
		require.NoError(t, err)
		assert.Equal(t, 7, newStock)
		assert.Equal(t, http.MethodPut, gotMethod)
		assert.Equal(t, "/records/3/updateStock/-1", gotPath)
	})
}

func TestCatalogClientCreateRecord(t *testing.T) {
	t.Run("以multipart表单提交含照片的唱片", func(t *testing.T) {
		var gotFields map[string]string
		var gotPhoto []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			gotFields = map[string]string{}
			for k, v := range r.MultipartForm.Value {
				gotFields[k] = v[0]
			}
			if file, _, err := r.FormFile("photo"); err == nil {
				buf := make([]byte, 16)
				n, _ := file.Read(buf)
				gotPhoto = buf[:n]
				file.Close()
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		c := NewCatalogClient(NewClient(srv.URL, 0, nil))
		err := c.CreateRecord(context.Background(), &catalog.Record{
			Title:     "Abbey Road",
			Year:      1969,
			Price:     29.9,
			Stock:     5,
			GroupID:   10,
			Photo:     []byte("fakejpeg"),
			PhotoName: "cover.jpg",
		})
		require.NoError(t, err)

		assert.Equal(t, "Abbey Road", gotFields["title"])
		assert.Equal(t, "29.90", gotFields["price"])
		assert.Equal(t, "5", gotFields["stock"])
		assert.Equal(t, "1969", gotFields["year"])
		assert.Equal(t, "10", gotFields["groupId"])
		assert.Equal(t, "false", gotFields["discontinued"])
		assert.NotContains(t, gotFields, "id")
		assert.Equal(t, []byte("fakejpeg"), gotPhoto)
	})

	t.Run("更新时表单额外携带id", func(t *testing.T) {
		var gotID string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			gotID = r.FormValue("id")
		}))
		defer srv.Close()

		c := NewCatalogClient(NewClient(srv.URL, 0, nil))
		err := c.UpdateRecord(context.Background(), &catalog.Record{ID: 42, Title: "X", Price: 1, Stock: 1})
		require.NoError(t, err)
		assert.Equal(t, "42", gotID)
	})
}
