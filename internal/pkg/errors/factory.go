package errors

// NewError 创建新的错误
func NewError(code, message string) *AppError {
	err := &AppError{
		Code:    code,
		Message: message,
	}
	return err.WithStack()
}

// NewErrorWithDetails 创建带详情的错误
func NewErrorWithDetails(code, message, details string) *AppError {
	err := &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
	return err.WithStack()
}

// WrapError 包装现有错误
func WrapError(code, message string, cause error) *AppError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}

	err := &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
	return err.WithStack()
}

// WrapErrorWithDetails 包装现有错误并添加详情
func WrapErrorWithDetails(code, message string, cause error, details string) *AppError {
	err := &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
	return err.WithStack()
}

// 预定义错误创建函数

// 配置错误
func NewConfigError(message string) *AppError {
	return NewError(ErrCodeConfigInvalid, message)
}

func WrapConfigError(message string, cause error) *AppError {
	return WrapError(ErrCodeConfigInvalid, message, cause)
}

// 注册表错误

func NewNotFoundError(name string) *AppError {
	return NewErrorWithDetails(ErrCodeNotFound, "类型未注册", "名称: "+name)
}

func NewDuplicateNameError(name string) *AppError {
	return NewErrorWithDetails(ErrCodeDuplicateName, "名称已存在", "名称: "+name)
}

func WrapConstructionError(name string, cause error) *AppError {
	return WrapErrorWithDetails(ErrCodeConstructionFailed, "实例创建失败", cause,
		"名称: "+name+", 原因: "+causeText(cause))
}

// 清单错误
func WrapCatalogError(message string, cause error) *AppError {
	return WrapError(ErrCodeCatalogInvalid, message, cause)
}

func causeText(cause error) string {
	if cause == nil {
		return ""
	}
	return cause.Error()
}
