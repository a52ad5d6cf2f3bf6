package registry

import (
	"reflect"

	"datachain/internal/util"
)

// NewRegistry 创建一个新的注册表
func NewRegistry[T any](name string, opts ...Option) Registry[T] {
	return NewBaseRegistry[T](name, opts...)
}

// ListByTypeOf 列出具体类型可赋值给 B 的名称
//
//	names := registry.ListByTypeOf[Tabular, Converter](converters)
func ListByTypeOf[B, T any](r Registry[T]) []string {
	return r.ListByType(reflect.TypeFor[B]())
}

// Option 注册表选项
type Option func(*options)

type options struct {
	logger Logger
}

// WithLogger 指定注册表日志器，nil 表示丢弃日志
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NopLogger{}
		}
		o.logger = logger
	}
}

// RegisterOption 注册选项
type RegisterOption func(*registerOptions)

type registerOptions struct {
	description *string
	tags        []string
	metadata    map[string]any
	override    bool
}

func applyRegisterOptions(opts []RegisterOption) registerOptions {
	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o registerOptions) descriptionOrEmpty() string {
	if o.description == nil {
		return ""
	}
	return *o.description
}

// WithDescription 设置类型描述
func WithDescription(description string) RegisterOption {
	return func(o *registerOptions) {
		o.description = &description
	}
}

// WithTags 追加类型标签
func WithTags(tags ...string) RegisterOption {
	return func(o *registerOptions) {
		o.tags = append(o.tags, tags...)
	}
}

// WithMetadata 设置类型元数据，多次调用时按键合并
func WithMetadata(metadata map[string]any) RegisterOption {
	return func(o *registerOptions) {
		if o.metadata == nil {
			o.metadata = make(map[string]any, len(metadata))
		}
		for key, value := range metadata {
			o.metadata[key] = value
		}
	}
}

// WithOverride 允许覆盖已存在的注册项
func WithOverride() RegisterOption {
	return func(o *registerOptions) {
		o.override = true
	}
}

// defaultLogger 转发到进程日志器，调用时才取 util.DefaultLogger
type defaultLogger struct{}

func (defaultLogger) Debugw(message string, fields map[string]interface{}) {
	util.Debugw(message, fields)
}

func (defaultLogger) Infow(message string, fields map[string]interface{}) {
	util.Infow(message, fields)
}

func (defaultLogger) Warnw(message string, fields map[string]interface{}) {
	util.Warnw(message, fields)
}

func (defaultLogger) Errorw(message string, fields map[string]interface{}) {
	util.Errorw(message, fields)
}

// NopLogger 丢弃所有日志
type NopLogger struct{}

func (NopLogger) Debugw(string, map[string]interface{}) {}
func (NopLogger) Infow(string, map[string]interface{})  {}
func (NopLogger) Warnw(string, map[string]interface{})  {}
func (NopLogger) Errorw(string, map[string]interface{}) {}
