// Package envelope 统一解析服务端返回的集合包装形态
//
// 背景说明：
// 目录API由不同阶段的后端实现演化而来，同一个集合接口可能返回
// 四种外层形态之一：
// 1. 裸数组：[{...},{...}]
// 2. $values包装：{"$values":[{...}]}（计数集合序列化产物）
// 3. data包装：{"data":[{...}]}
// 4. 键值展开：{"0":{...},"1":{...}}（集合被拍平成对象属性）
//
// 设计说明：
// 1. 将四种形态定义为封闭的枚举（Kind），按固定优先级逐一匹配，
//    不在各调用点重复做属性探测
// 2. 形态不匹配降级为空序列并记录日志，绝不返回错误——
//    解码形态异常属于"仅记录"级别（见pkg/errors的错误分级）
// 3. 实体判定通过Predicate参数化，records/groups/orders共用同一套逻辑
package envelope

import (
	"bytes"
	"encoding/json"
	"log"
	"sort"
)

// Kind 响应外层形态
type Kind int

const (
	// KindEmpty 未匹配任何形态（降级为空序列）
	KindEmpty Kind = iota
	// KindBare 裸数组
	KindBare
	// KindValues $values包装
	KindValues
	// KindData data包装
	KindData
	// KindKeyed 键值展开的对象
	KindKeyed
)

// String 形态转字符串（便于日志）
func (k Kind) String() string {
	switch k {
	case KindBare:
		return "bare"
	case KindValues:
		return "values"
	case KindData:
		return "data"
	case KindKeyed:
		return "keyed"
	default:
		return "empty"
	}
}

// Predicate 实体判定函数：value是否"长得像"目标实体
type Predicate func(raw json.RawMessage) bool

// HasFields 返回一个Predicate：value必须是包含全部指定字段的对象
//
// 用法：
//
//	envelope.Normalize(raw, envelope.HasFields("idRecord", "titleRecord"))
func HasFields(fields ...string) Predicate {
	return func(raw json.RawMessage) bool {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return false
		}
		for _, f := range fields {
			if _, ok := obj[f]; !ok {
				return false
			}
		}
		return true
	}
}

// logf 诊断日志出口（测试中可替换）
var logf = log.Printf

// Normalize 将任意已解码的响应体归一化为有序的实体原文序列
//
// 匹配优先级（固定）：
// 1. 本身就是数组
// 2. 对象且带$values数组
// 3. 对象且带data数组
// 4. 对象且全部属性值都满足looksLike（按键名排序保证确定性）
// 5. 以上都不是 → 空序列 + 诊断日志（不报错）
//
// 注意：策略1-3不应用looksLike——包装内的数组按原样信任，
// 与原系统行为一致；谓词只在兜底的键值展开形态里参与判定。
func Normalize(raw []byte, looksLike Predicate) ([]json.RawMessage, Kind) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, KindEmpty
	}

	// 字面量null能偷偷通过数组解码（得到nil切片），
	// 这里先拦下来，归入"无法识别"
	if bytes.Equal(trimmed, []byte("null")) {
		logf("envelope: 响应形态无法识别，降级为空序列")
		return nil, KindEmpty
	}

	// 策略1：裸数组
	var arr []json.RawMessage
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &arr); err == nil {
			return arr, KindBare
		}
	}

	// 对象形态：先整体解码一次，后续策略共用
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		logf("envelope: 响应形态无法识别，降级为空序列")
		return nil, KindEmpty
	}

	// 策略2：$values包装
	if inner, ok := obj["$values"]; ok {
		if err := json.Unmarshal(inner, &arr); err == nil {
			return arr, KindValues
		}
	}

	// 策略3：data包装
	if inner, ok := obj["data"]; ok {
		if err := json.Unmarshal(inner, &arr); err == nil {
			return arr, KindData
		}
	}

	// 策略4：键值展开（最后手段）
	// 要求对象非空且每个属性值都满足实体判定，否则视为无法识别
	if looksLike != nil && len(obj) > 0 {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			if !looksLike(obj[k]) {
				keys = nil
				break
			}
			keys = append(keys, k)
		}
		if keys != nil {
			sort.Strings(keys)
			out := make([]json.RawMessage, 0, len(keys))
			for _, k := range keys {
				out = append(out, obj[k])
			}
			return out, KindKeyed
		}
	}

	logf("envelope: 响应形态无法识别，降级为空序列")
	return nil, KindEmpty
}

// Decode 归一化后直接解码为目标切片
//
// 单条解码失败时跳过该条并记录日志，不中断整批——
// 与"形态异常不升级为错误"的分级保持一致。
func Decode[T any](raw []byte, looksLike Predicate) []T {
	items, _ := Normalize(raw, looksLike)
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			logf("envelope: 实体解码失败，已跳过: %v", err)
			continue
		}
		out = append(out, v)
	}
	return out
}
