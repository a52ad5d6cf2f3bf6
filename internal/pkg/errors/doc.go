// Package errors 提供统一的错误处理系统
//
// 这个包实现了一个简化的错误处理框架，包括：
// - 统一的错误代码定义（系统、配置、注册表、清单）
// - 基本的错误创建方法
// - 用户友好消息映射
//
// 基本用法：
//
//  1. 创建错误：
//     err := errors.NewError(errors.ErrCodeConfigNotFound, "配置文件未找到")
//     errWithDetails := errors.NewErrorWithDetails(errors.ErrCodeNotFound, "类型未注册", "名称: csv")
//     wrappedErr := errors.WrapError(errors.ErrCodeConfigInvalid, "配置文件无效", originalErr)
//
//  2. 使用预定义错误创建函数：
//     notFound := errors.NewNotFoundError("csv")
//     buildErr := errors.WrapConstructionError("csv", cause)
//
//  3. 处理错误：
//     userMessage := errors.GetUserFriendlyMessage(err)
//
//  4. 检查错误类型：
//     if errors.IsErrorCode(err, errors.ErrCodeDuplicateName) {
//     // 处理重复注册
//     }
package errors
