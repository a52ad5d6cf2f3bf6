package registry

import (
	"reflect"

	"datachain/internal/pkg/errors"
)

// Constructor 类型构造函数
type Constructor[T any] func(args Args) (T, error)

// TypeDescriptor 描述一个可构造的类型
//
// 描述符由 Describe 或 Func 创建，记录构造函数及其产出的具体类型。
// 零值描述符无效，注册时会被拒绝。
type TypeDescriptor[T any] struct {
	typ  reflect.Type
	ctor Constructor[T]
	doc  string
}

// Describe 根据构造函数创建类型描述符
//
// C 是构造函数产出的具体类型，必须可赋值给 T，否则返回的描述符无效。
//
//	registry.Describe[Converter](NewCSVConverter)
func Describe[T, C any](ctor func(Args) (C, error)) TypeDescriptor[T] {
	typ := reflect.TypeFor[C]()
	descriptor := TypeDescriptor[T]{typ: typ}
	if ctor == nil || !typ.AssignableTo(reflect.TypeFor[T]()) {
		return descriptor
	}

	descriptor.ctor = func(args Args) (T, error) {
		var zero T
		instance, err := ctor(args)
		if err != nil {
			return zero, err
		}
		if isNilProduct(instance) {
			return zero, errors.NewError(errors.ErrCodeConstructionFailed, "构造函数返回了空实例")
		}
		product, _ := any(instance).(T)
		return product, nil
	}
	return descriptor
}

// isNilProduct 检查构造结果是否为 nil 接口或 nil 指针等空值
func isNilProduct(instance any) bool {
	if instance == nil {
		return true
	}
	v := reflect.ValueOf(instance)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Func 以产出类型本身作为具体类型创建描述符
func Func[T any](ctor Constructor[T]) TypeDescriptor[T] {
	return Describe[T, T](ctor)
}

// Valid 描述符是否可用于构造
func (d TypeDescriptor[T]) Valid() bool {
	return d.typ != nil && d.ctor != nil
}

// Type 返回构造函数产出的具体类型
func (d TypeDescriptor[T]) Type() reflect.Type {
	return d.typ
}

// TypeName 返回具体类型的名称（去掉指针）
func (d TypeDescriptor[T]) TypeName() string {
	typ := d.typ
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil {
		return ""
	}
	return typ.Name()
}

// Doc 返回类型文档
func (d TypeDescriptor[T]) Doc() string {
	return d.doc
}

// WithDoc 返回附带文档的描述符副本
func (d TypeDescriptor[T]) WithDoc(doc string) TypeDescriptor[T] {
	d.doc = doc
	return d
}

// WithDefaults 返回带默认参数的描述符副本
// 调用时传入的参数覆盖默认参数，具体类型不变。
func (d TypeDescriptor[T]) WithDefaults(defaults Args) TypeDescriptor[T] {
	if !d.Valid() || len(defaults) == 0 {
		return d
	}

	base := d.ctor
	frozen := defaults.Clone()
	d.ctor = func(args Args) (T, error) {
		return base(frozen.Merge(args))
	}
	return d
}

// New 使用参数构造实例
func (d TypeDescriptor[T]) New(args Args) (T, error) {
	if d.ctor == nil {
		var zero T
		return zero, errors.NewError(errors.ErrCodeInvalidTypeDescriptor, "类型描述符无效")
	}
	return d.ctor(args)
}

// String 返回具体类型的字符串表示
func (d TypeDescriptor[T]) String() string {
	if d.typ == nil {
		return "<invalid>"
	}
	return d.typ.String()
}
