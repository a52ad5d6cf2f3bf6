package errors

import (
	"errors"
)

// DefaultErrorHandler 默认错误处理器实现
type DefaultErrorHandler struct{}

// GetUserFriendlyMessage 获取用户友好的错误消息
func (h *DefaultErrorHandler) GetUserFriendlyMessage(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		return "发生未知错误"
	}

	switch appErr.Code {
	// 系统错误
	case ErrCodeSystemError, ErrCodeInternalErr:
		return "系统错误，请联系技术支持"
	case ErrCodeInitializationFailed:
		return "应用程序初始化失败，请检查配置"
	case ErrCodeNotFound:
		return "请求的类型未注册，请检查名称"
	case ErrCodeInvalidParam:
		return "参数无效，请检查输入"

	// 配置错误
	case ErrCodeConfigNotFound, ErrCodeConfigInvalid, ErrCodeConfigLoadFailed, ErrCodeConfigParseFailed:
		return "配置文件错误，请检查配置文件"

	// 注册表错误
	case ErrCodeDuplicateName:
		return "名称已被注册，如需替换请使用覆盖选项"
	case ErrCodeInvalidTypeDescriptor:
		return "类型描述符无效，请提供可构造的类型"
	case ErrCodeConstructionFailed:
		return "实例创建失败，请检查构造参数"
	case ErrCodeInvalidArgs:
		return "构造参数无效，请检查参数名称和取值"
	case ErrCodeValidationFailed, ErrCodeValidatorFault:
		return "注册校验未通过，请检查名称和类型"

	// 目录清单错误
	case ErrCodeCatalogLoadFailed, ErrCodeCatalogParseFailed, ErrCodeCatalogInvalid:
		return "类型清单文件错误，请检查清单内容"

	case ErrCodeMCPServeFailed:
		return "MCP服务运行失败，请检查标准输入输出"

	default:
		return appErr.Message
	}
}

// 默认错误处理器实例
var DefaultHandler = &DefaultErrorHandler{}

// GetUserFriendlyMessage 获取用户友好的错误消息
func GetUserFriendlyMessage(err error) string {
	return DefaultHandler.GetUserFriendlyMessage(err)
}
