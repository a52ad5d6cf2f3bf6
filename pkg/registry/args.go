package registry

import (
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"datachain/internal/pkg/errors"
)

// Args 构造参数，键为参数名
type Args map[string]any

var argValidator = validator.New(validator.WithRequiredStructEnabled())

// Clone 返回参数的深拷贝
func (a Args) Clone() Args {
	if a == nil {
		return Args{}
	}
	return Args(cloneMetadata(a))
}

// Merge 返回合并后的新参数，override 中的值优先
func (a Args) Merge(override Args) Args {
	merged := make(Args, len(a)+len(override))
	for key, value := range a {
		merged[key] = value
	}
	for key, value := range override {
		merged[key] = value
	}
	return merged
}

// Bind 将参数解码到选项结构体并执行校验
//
// 结构体字段使用 `arg` 标签指定参数名，使用 `validate` 标签声明约束。
// 未知参数、类型不匹配或校验失败都返回 INVALID_ARGS 错误。
// out 中已有的字段值作为默认值保留。
func (a Args) Bind(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "arg",
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.WrapError(errors.ErrCodeInvalidArgs, "构造参数目标无效", err)
	}

	if err := decoder.Decode(map[string]any(a)); err != nil {
		return errors.WrapError(errors.ErrCodeInvalidArgs, "构造参数解码失败", err)
	}

	if err := argValidator.Struct(out); err != nil {
		return errors.WrapError(errors.ErrCodeInvalidArgs, "构造参数校验失败", err)
	}
	return nil
}
