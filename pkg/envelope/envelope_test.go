package envelope

import (
	"encoding/json"
	"testing"
)

// 测试用实体形态：与目录API的record字段保持一致
var recordLike = HasFields("idRecord", "titleRecord")

// TestNormalize_ThreeWrappers 三种包装形态应提取出相同的实体序列
func TestNormalize_ThreeWrappers(t *testing.T) {
	body := `[{"idRecord":1,"titleRecord":"A"},{"idRecord":2,"titleRecord":"B"}]`

	cases := []struct {
		name string
		raw  string
		kind Kind
	}{
		{"裸数组", body, KindBare},
		{"$values包装", `{"$values":` + body + `}`, KindValues},
		{"data包装", `{"data":` + body + `}`, KindData},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, kind := Normalize([]byte(tc.raw), recordLike)
			if kind != tc.kind {
				t.Errorf("形态判定错误: 期望%s, 实际%s", tc.kind, kind)
			}
			if len(items) != 2 {
				t.Fatalf("期望2条实体，实际%d条", len(items))
			}
			var first struct {
				ID uint `json:"idRecord"`
			}
			if err := json.Unmarshal(items[0], &first); err != nil {
				t.Fatalf("实体解码失败: %v", err)
			}
			if first.ID != 1 {
				t.Errorf("顺序错误: 第一条应为id=1, 实际id=%d", first.ID)
			}
		})
	}
}

// TestNormalize_KeyedObject 键值展开形态按键名顺序提取
func TestNormalize_KeyedObject(t *testing.T) {
	raw := `{"1":{"idRecord":7,"titleRecord":"B"},"0":{"idRecord":3,"titleRecord":"A"}}`

	items, kind := Normalize([]byte(raw), recordLike)
	if kind != KindKeyed {
		t.Fatalf("期望keyed形态，实际%s", kind)
	}
	if len(items) != 2 {
		t.Fatalf("期望2条实体，实际%d条", len(items))
	}

	var first struct {
		ID uint `json:"idRecord"`
	}
	_ = json.Unmarshal(items[0], &first)
	if first.ID != 3 {
		t.Errorf("键名排序后第一条应为id=3, 实际id=%d", first.ID)
	}
}

// TestNormalize_Malformed 畸形输入降级为空序列，绝不panic
func TestNormalize_Malformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"空对象", `{}`},
		{"null", `null`},
		{"数字", `42`},
		{"截断的JSON", `{"data":[{"idRecord":`},
		{"属性值不是实体", `{"a":{"foo":1},"b":{"bar":2}}`},
		{"空输入", ``},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, kind := Normalize([]byte(tc.raw), recordLike)
			if len(items) != 0 {
				t.Errorf("期望空序列，实际%d条", len(items))
			}
			if kind != KindEmpty {
				t.Errorf("期望empty形态，实际%s", kind)
			}
		})
	}
}

// TestNormalize_NullInsideWrapper $values为null时同样降级为空
func TestNormalize_NullInsideWrapper(t *testing.T) {
	items, kind := Normalize([]byte(`{"$values":null}`), recordLike)
	if kind != KindValues {
		t.Fatalf("期望values形态，实际%s", kind)
	}
	if len(items) != 0 {
		t.Errorf("期望空序列，实际%d条", len(items))
	}
}

// TestDecode_SkipBadEntity 单条解码失败跳过，不影响其余实体
func TestDecode_SkipBadEntity(t *testing.T) {
	type rec struct {
		ID    uint   `json:"idRecord"`
		Title string `json:"titleRecord"`
	}

	raw := `[{"idRecord":1,"titleRecord":"A"},{"idRecord":"坏数据","titleRecord":"B"},{"idRecord":3,"titleRecord":"C"}]`
	out := Decode[rec]([]byte(raw), recordLike)

	if len(out) != 2 {
		t.Fatalf("期望跳过坏数据后剩2条，实际%d条", len(out))
	}
	if out[0].ID != 1 || out[1].ID != 3 {
		t.Errorf("顺序错误: %v", out)
	}
}
