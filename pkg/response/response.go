// Package response 开发后端的HTTP响应出口
//
// 设计说明：
// 1. 与同步层的消费约定保持一致：实体和集合按原样返回，
//    错误通过HTTP状态码表达（客户端按状态码归类传输错误），
//    不额外包一层{code,message,data}
// 2. 集合响应按配置的外层形态包装（bare/$values/data/keyed），
//    用来模拟目录API历史上出现过的四种集合序列化产物，
//    让pkg/envelope的每个归一化策略都有真实对端
package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
)

// ListEnvelope 集合响应的外层形态
type ListEnvelope string

const (
	EnvelopeBare   ListEnvelope = "bare"   // 裸数组
	EnvelopeValues ListEnvelope = "values" // {"$values":[...]}
	EnvelopeData   ListEnvelope = "data"   // {"data":[...]}
	EnvelopeKeyed  ListEnvelope = "keyed"  // {"0":{...},"1":{...}}
)

// Valid 是否为已知形态
func (e ListEnvelope) Valid() bool {
	switch e {
	case EnvelopeBare, EnvelopeValues, EnvelopeData, EnvelopeKeyed:
		return true
	}
	return false
}

// OK 返回单个实体或操作结果
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 删除成功
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// List 按配置的外层形态返回集合
//
// 注意keyed形态：键为元素下标的字符串形式，
// 与集合被拍平成对象属性的历史行为一致。
func List[T any](c *gin.Context, env ListEnvelope, items []T) {
	if items == nil {
		items = []T{}
	}

	switch env {
	case EnvelopeValues:
		c.JSON(http.StatusOK, gin.H{"$values": items})
	case EnvelopeData:
		c.JSON(http.StatusOK, gin.H{"data": items})
	case EnvelopeKeyed:
		keyed := make(map[string]T, len(items))
		for i, item := range items {
			keyed[fmt.Sprintf("%d", i)] = item
		}
		c.JSON(http.StatusOK, keyed)
	default:
		c.JSON(http.StatusOK, items)
	}
}

// Error 错误响应：AppError错误码映射回HTTP状态码
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	c.JSON(statusFor(appErr.Code), gin.H{"message": appErr.Message})
}

// statusFor 业务错误码 → HTTP状态码
func statusFor(code int) int {
	switch code {
	case apperrors.ErrCodeBadRequest, apperrors.ErrCodeValidation, apperrors.ErrCodeBind,
		apperrors.ErrCodeBusiness, apperrors.ErrCodeInsufficientStock, apperrors.ErrCodeEmailDuplicate:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnauthorized, apperrors.ErrCodeInvalidToken, apperrors.ErrCodeTokenExpired:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
