package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于调用方判断错误类别（不直接暴露HTTP状态码）
// 2. Message是面向视图层的提示信息（errMessage出口直接展示）
// 3. Err是内部错误，仅记录到日志，不对外展示
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 面向视图的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（网络错误、数据库错误等）
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 分级（见错误处理设计）：
// - 409xx: 本地校验错误（不发起网络调用）
// - 4xxxx: 传输错误（按HTTP状态分类）
// - 5xxxx: 服务端/系统错误
// 解码形态异常不在此列：仅记录日志，降级为空结果

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal    = 50000 // 内部错误
	ErrCodeServerFault = 50001 // 远端5xx
	ErrCodeDatabase    = 50002 // 数据库错误
	ErrCodeRedis       = 50003 // Redis错误

	// 传输错误（按HTTP状态分类）
	ErrCodeBadRequest   = 40000 // 400 请求格式错误
	ErrCodeUnauthorized = 40100 // 401 未认证
	ErrCodeInvalidToken = 40101 // Token无效
	ErrCodeTokenExpired = 40102 // Token过期
	ErrCodeForbidden    = 40300 // 403 无权限
	ErrCodeNotFound     = 40400 // 404 资源不存在
	ErrCodeUnknown      = 40999 // 无法归类的传输错误

	// 业务规则错误（40001-40099）
	ErrCodeBusiness          = 40001 // 业务错误(通用)
	ErrCodeInsufficientStock = 40002 // 库存不足
	ErrCodeEmailDuplicate    = 40003 // 邮箱已存在

	// 本地校验错误（40900-40998）
	ErrCodeValidation = 40900 // 字段校验失败
	ErrCodeBind       = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误
// =========================================

var (
	ErrInternal     = New(ErrCodeInternal, "系统内部错误")
	ErrDatabase     = New(ErrCodeDatabase, "数据库错误")
	ErrRedis        = New(ErrCodeRedis, "缓存服务错误")
	ErrUnauthorized = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired = New(ErrCodeTokenExpired, "Token已过期")
	ErrForbidden    = New(ErrCodeForbidden, "无权限访问")
	ErrNotFound     = New(ErrCodeNotFound, "资源不存在")

	ErrInsufficientStock = New(ErrCodeInsufficientStock, "库存不足")
	ErrEmailDuplicate    = New(ErrCodeEmailDuplicate, "邮箱已被注册")

	ErrInvalidParams = New(ErrCodeValidation, "参数错误")
	ErrBindError     = New(ErrCodeBind, "参数格式错误")
)

// Validation 字段级校验错误（本地产生，调用方不应发起网络调用）
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// FromStatus 将HTTP状态码归类为传输错误
//
// 分类规则：
//
//	400 → 请求格式错误
//	401 → 未认证
//	403 → 无权限
//	404 → 资源不存在
//	>=500 → 服务端故障
//	其他 → 未知传输错误
func FromStatus(status int, message string) *AppError {
	var code int
	switch {
	case status == http.StatusBadRequest:
		code = ErrCodeBadRequest
	case status == http.StatusUnauthorized:
		code = ErrCodeUnauthorized
	case status == http.StatusForbidden:
		code = ErrCodeForbidden
	case status == http.StatusNotFound:
		code = ErrCodeNotFound
	case status >= http.StatusInternalServerError:
		code = ErrCodeServerFault
	default:
		code = ErrCodeUnknown
	}
	return New(code, message)
}

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// IsValidation 判断是否为本地校验错误
func IsValidation(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == ErrCodeValidation || appErr.Code == ErrCodeBind
	}
	return false
}
