package registry

import (
	"reflect"
)

// 搜索字段
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldTags        = "tags"
)

// DefaultSearchFields 是 Search 未指定字段时使用的默认字段
var DefaultSearchFields = []string{FieldName, FieldDescription}

// Registry 定义泛型类型注册表接口
//
// T 是注册表产出的实例类型，通常是一个接口，例如 Converter。
// 所有操作都不会向调用方抛出 panic，失败以 bool 或零值返回并记录日志。
type Registry[T any] interface {
	// Name 返回注册表名称，用于诊断
	Name() string
	// Register 以名称注册一个类型；名称已存在且未指定覆盖时返回 false
	Register(name string, descriptor TypeDescriptor[T], opts ...RegisterOption) bool
	// RegisterWith 返回一个包装函数，在类型定义处注册并原样返回描述符
	RegisterWith(name string, opts ...RegisterOption) func(TypeDescriptor[T]) TypeDescriptor[T]
	// Unregister 注销指定名称的类型
	Unregister(name string) bool
	// Get 根据名称获取类型描述符
	Get(name string) (TypeDescriptor[T], bool)
	// GetInfo 根据名称获取注册项副本
	GetInfo(name string) (Entry[T], bool)
	// Create 根据名称创建实例，失败时返回零值和 false
	Create(name string, args Args) (T, bool)
	// Build 根据名称创建实例，失败时返回带错误代码的错误
	Build(name string, args Args) (T, error)
	// ListAll 列出所有已注册名称（注册顺序）
	ListAll() []string
	// ListByTag 列出带有指定标签的名称
	ListByTag(tag string) []string
	// ListByType 列出类型可赋值给 base 的名称
	ListByType(base reflect.Type) []string
	// Search 在指定字段中做大小写不敏感的子串搜索
	Search(query string, fields []string) []string
	// Exists 检查名称是否已注册
	Exists(name string) bool
	// Count 返回注册项数量
	Count() int
	// Clear 清空注册表
	Clear()
	// Summary 返回注册表快照
	Summary() Summary
	// ValidateRegistration 校验名称和类型描述符是否可以注册
	ValidateRegistration(name string, descriptor TypeDescriptor[T], validator Validator[T]) bool
}

// Validator 自定义注册校验器
// 返回 false 或 error 均视为校验失败，panic 同样会被捕获并视为失败。
type Validator[T any] func(name string, descriptor TypeDescriptor[T]) (bool, error)

// Summary 注册表摘要快照，与注册表不共享底层数据
type Summary struct {
	Name       string   `json:"name"`
	TotalCount int      `json:"total_count"`
	UniqueTags []string `json:"unique_tags"`
	Names      []string `json:"names"`
}

// Logger 注册表使用的日志接口
type Logger interface {
	Debugw(message string, fields map[string]interface{})
	Infow(message string, fields map[string]interface{})
	Warnw(message string, fields map[string]interface{})
	Errorw(message string, fields map[string]interface{})
}
