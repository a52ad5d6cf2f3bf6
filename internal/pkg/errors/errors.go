package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// 错误代码常量
const (
	// 系统级错误
	ErrCodeSystemError          = "SYSTEM_ERROR"          // 系统错误
	ErrCodeInternalErr          = "INTERNAL_ERROR"        // 内部错误
	ErrCodeInitializationFailed = "INITIALIZATION_FAILED" // 初始化失败
	ErrCodeNotFound             = "NOT_FOUND"             // 资源未找到
	ErrCodeInvalidParam         = "INVALID_PARAM"         // 无效参数

	// 配置错误
	ErrCodeConfigNotFound    = "CONFIG_NOT_FOUND"    // 配置文件未找到
	ErrCodeConfigInvalid     = "CONFIG_INVALID"      // 配置文件无效
	ErrCodeConfigLoadFailed  = "CONFIG_LOAD_FAILED"  // 配置加载失败
	ErrCodeConfigParseFailed = "CONFIG_PARSE_FAILED" // 配置解析失败

	// 注册表错误
	ErrCodeDuplicateName         = "DUPLICATE_NAME"          // 名称已注册
	ErrCodeInvalidTypeDescriptor = "INVALID_TYPE_DESCRIPTOR" // 类型描述符无效
	ErrCodeConstructionFailed    = "CONSTRUCTION_FAILED"     // 实例构造失败
	ErrCodeInvalidArgs           = "INVALID_ARGS"            // 构造参数无效
	ErrCodeValidationFailed      = "VALIDATION_FAILED"       // 注册校验未通过
	ErrCodeValidatorFault        = "VALIDATOR_FAULT"         // 自定义校验器异常

	// 目录清单错误
	ErrCodeCatalogLoadFailed  = "CATALOG_LOAD_FAILED"  // 清单加载失败
	ErrCodeCatalogParseFailed = "CATALOG_PARSE_FAILED" // 清单解析失败
	ErrCodeCatalogInvalid     = "CATALOG_INVALID"      // 清单内容无效

	// MCP错误
	ErrCodeMCPServeFailed = "MCP_SERVE_FAILED" // MCP服务运行失败
)

// AppError 应用错误结构
type AppError struct {
	Code    string `json:"code"`              // 错误代码
	Message string `json:"message"`           // 错误消息
	Details string `json:"details,omitempty"` // 错误详情
	Cause   error  `json:"-"`                 // 原始错误
	Stack   string `json:"stack,omitempty"`   // 错误堆栈
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回原始错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is 实现错误比较接口
func (e *AppError) Is(target error) bool {
	if other, ok := target.(*AppError); ok {
		return e.Code == other.Code
	}
	return false
}

// WithDetails 添加错误详情
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithStack 添加堆栈信息
func (e *AppError) WithStack() *AppError {
	e.Stack = getStackTrace(3) // 跳过3层调用栈
	return e
}

// getStackTrace 获取调用堆栈
func getStackTrace(skip int) string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var stack strings.Builder
	for {
		frame, more := frames.Next()
		// 跳过runtime相关的调用栈
		if !strings.Contains(frame.File, "runtime/") {
			stack.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}
	return stack.String()
}

// AsAppError 从错误链中取出 AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorCode 检查错误链中是否存在指定代码的 AppError
func IsErrorCode(err error, code string) bool {
	return errors.Is(err, &AppError{Code: code})
}

// GetErrorCode 获取错误代码
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalErr
}

// GetErrorDetails 获取错误详情
func GetErrorDetails(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return ""
}
