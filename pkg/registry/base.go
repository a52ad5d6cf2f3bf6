package registry

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"datachain/internal/pkg/errors"
)

// BaseRegistry 是注册表的基础实现
//
// 所有修改操作持有写锁，所有读取操作持有读锁；日志在释放锁之后输出。
type BaseRegistry[T any] struct {
	name    string
	logger  Logger
	mu      sync.RWMutex
	entries map[string]*Entry[T]
	order   []string
}

// NewBaseRegistry 创建一个新的基础注册表实例
func NewBaseRegistry[T any](name string, opts ...Option) *BaseRegistry[T] {
	o := options{logger: defaultLogger{}}
	for _, opt := range opts {
		opt(&o)
	}

	return &BaseRegistry[T]{
		name:    name,
		logger:  o.logger,
		entries: make(map[string]*Entry[T]),
	}
}

// Name 返回注册表名称
func (r *BaseRegistry[T]) Name() string {
	return r.name
}

// fields 构造带注册表名称的日志字段
func (r *BaseRegistry[T]) fields(kv ...interface{}) map[string]interface{} {
	fields := map[string]interface{}{"registry": r.name}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}

// Register 注册一个类型到注册表
func (r *BaseRegistry[T]) Register(name string, descriptor TypeDescriptor[T], opts ...RegisterOption) bool {
	return r.register(name, descriptor, applyRegisterOptions(opts))
}

// RegisterWith 返回在类型定义处使用的注册包装函数
//
// name 为空时使用具体类型的名称，描述未指定或为空时使用描述符文档。
// 包装函数原样返回传入的描述符。
func (r *BaseRegistry[T]) RegisterWith(name string, opts ...RegisterOption) func(TypeDescriptor[T]) TypeDescriptor[T] {
	return func(descriptor TypeDescriptor[T]) TypeDescriptor[T] {
		o := applyRegisterOptions(opts)
		entryName := name
		if entryName == "" {
			entryName = descriptor.TypeName()
		}
		if o.description == nil || *o.description == "" {
			doc := descriptor.Doc()
			o.description = &doc
		}
		r.register(entryName, descriptor, o)
		return descriptor
	}
}

func (r *BaseRegistry[T]) register(name string, descriptor TypeDescriptor[T], o registerOptions) bool {
	r.mu.Lock()
	if _, exists := r.entries[name]; exists && !o.override {
		r.mu.Unlock()
		r.logger.Warnw("类型已存在，跳过注册", r.fields(
			"name", name,
			"error_code", errors.ErrCodeDuplicateName,
		))
		return false
	}

	if !descriptor.Valid() {
		r.mu.Unlock()
		r.logger.Errorw("类型描述符无效", r.fields(
			"name", name,
			"type", descriptor.String(),
			"error_code", errors.ErrCodeInvalidTypeDescriptor,
		))
		return false
	}

	entry := &Entry[T]{
		Name:        name,
		Type:        descriptor,
		Description: o.descriptionOrEmpty(),
		Tags:        uniqueTags(o.tags),
		Metadata:    cloneMetadata(o.metadata),
	}

	_, replaced := r.entries[name]
	if !replaced {
		r.order = append(r.order, name)
	}
	r.entries[name] = entry
	r.mu.Unlock()

	r.logger.Infow("类型注册成功", r.fields(
		"name", name,
		"type", descriptor.String(),
		"override", replaced,
	))
	return true
}

// Unregister 从注册表中移除指定名称的类型
func (r *BaseRegistry[T]) Unregister(name string) bool {
	r.mu.Lock()
	if _, exists := r.entries[name]; !exists {
		r.mu.Unlock()
		return false
	}

	delete(r.entries, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.logger.Infow("类型注销成功", r.fields("name", name))
	return true
}

// Get 根据名称获取类型描述符
func (r *BaseRegistry[T]) Get(name string) (TypeDescriptor[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[name]
	if !exists {
		return TypeDescriptor[T]{}, false
	}
	return entry.Type, true
}

// GetInfo 根据名称获取注册项副本
func (r *BaseRegistry[T]) GetInfo(name string) (Entry[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[name]
	if !exists {
		return Entry[T]{}, false
	}
	return entry.clone(), true
}

// Build 根据名称创建实例
//
// 构造函数在锁外执行；构造函数返回的错误和 panic 都被转换为
// CONSTRUCTION_FAILED 错误。名称不存在时返回 NOT_FOUND 错误。
func (r *BaseRegistry[T]) Build(name string, args Args) (instance T, err error) {
	descriptor, exists := r.Get(name)
	if !exists {
		return instance, errors.NewNotFoundError(name)
	}

	defer func() {
		if p := recover(); p != nil {
			var zero T
			instance = zero
			err = errors.WrapConstructionError(name, fmt.Errorf("构造函数 panic: %v", p))
		}
	}()

	instance, err = descriptor.New(args.Clone())
	if err != nil {
		var zero T
		return zero, errors.WrapConstructionError(name, err)
	}
	return instance, nil
}

// Create 根据名称创建实例，失败时记录错误并返回零值和 false
func (r *BaseRegistry[T]) Create(name string, args Args) (T, bool) {
	instance, err := r.Build(name, args)
	if err != nil {
		message := "实例创建失败"
		if errors.IsErrorCode(err, errors.ErrCodeNotFound) {
			message = "类型不存在"
		}
		r.logger.Errorw(message, r.fields(
			"name", name,
			"error", err.Error(),
			"error_code", errors.GetErrorCode(err),
		))
		var zero T
		return zero, false
	}

	r.logger.Debugw("实例创建成功", r.fields("name", name))
	return instance, true
}

// ListAll 列出所有已注册名称
func (r *BaseRegistry[T]) ListAll() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string{}, r.order...)
}

// ListByTag 列出带有指定标签的名称
func (r *BaseRegistry[T]) ListByTag(tag string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0)
	for _, name := range r.order {
		if r.entries[name].HasTag(tag) {
			names = append(names, name)
		}
	}
	return names
}

// ListByType 列出具体类型可赋值给 base 的名称
//
// base 为接口时匹配实现了该接口的类型，否则匹配相同类型。
func (r *BaseRegistry[T]) ListByType(base reflect.Type) []string {
	names := make([]string, 0)
	if base == nil {
		return names
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		if typ := r.entries[name].Type.Type(); typ != nil && typ.AssignableTo(base) {
			names = append(names, name)
		}
	}
	return names
}

// Exists 检查注册表中是否存在指定名称
func (r *BaseRegistry[T]) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.entries[name]
	return exists
}

// Count 返回注册项数量
func (r *BaseRegistry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// Clear 清空注册表中的所有类型
func (r *BaseRegistry[T]) Clear() {
	r.mu.Lock()
	cleared := len(r.entries)
	r.entries = make(map[string]*Entry[T])
	r.order = nil
	r.mu.Unlock()

	r.logger.Infow("已清空所有注册类型", r.fields("cleared", cleared))
}

// Summary 返回注册表摘要快照
func (r *BaseRegistry[T]) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tagSet := make(map[string]struct{})
	for _, entry := range r.entries {
		for _, tag := range entry.Tags {
			tagSet[tag] = struct{}{}
		}
	}

	tags := make([]string, 0, len(tagSet))
	for tag := range tagSet {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	return Summary{
		Name:       r.name,
		TotalCount: len(r.entries),
		UniqueTags: tags,
		Names:      append([]string{}, r.order...),
	}
}

// ValidateRegistration 校验名称和类型描述符
func (r *BaseRegistry[T]) ValidateRegistration(name string, descriptor TypeDescriptor[T], validator Validator[T]) bool {
	if strings.TrimSpace(name) == "" {
		r.logger.Errorw("类型名称不能为空", r.fields("error_code", errors.ErrCodeValidationFailed))
		return false
	}

	if !descriptor.Valid() {
		r.logger.Errorw("类型描述符无效", r.fields(
			"name", name,
			"type", descriptor.String(),
			"error_code", errors.ErrCodeInvalidTypeDescriptor,
		))
		return false
	}

	if validator == nil {
		return true
	}

	ok, err := runValidator(name, descriptor, validator)
	if err != nil {
		r.logger.Errorw("自定义校验器异常", r.fields(
			"name", name,
			"error", err.Error(),
			"error_code", errors.ErrCodeValidatorFault,
		))
		return false
	}
	if !ok {
		r.logger.Errorw("自定义校验未通过", r.fields(
			"name", name,
			"error_code", errors.ErrCodeValidationFailed,
		))
		return false
	}
	return true
}

// runValidator 执行自定义校验器，将 panic 转换为错误
func runValidator[T any](name string, descriptor TypeDescriptor[T], validator Validator[T]) (ok bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			ok = false
			err = errors.NewErrorWithDetails(errors.ErrCodeValidatorFault, "校验器 panic", fmt.Sprint(p))
		}
	}()
	return validator(name, descriptor)
}
