package util

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"datachain/internal/pkg/errors"
)

// RegistryService 负责管理应用中所有命名注册表实例
//
// 注册表实例由调用方显式创建并交给服务持有，服务本身通过
// context 传递给需要它的命令，不使用包级单例。
type RegistryService struct {
	mu         sync.RWMutex
	registries map[string]interface{}
}

// NewRegistryService 创建一个新的中央注册服务
func NewRegistryService() *RegistryService {
	return &RegistryService{
		registries: make(map[string]interface{}),
	}
}

// Register 登记一个注册表实例
// key 是该注册表的唯一标识符，例如 "converters"
func (s *RegistryService) Register(key string, registryInstance interface{}) error {
	if key == "" {
		return errors.NewError(errors.ErrCodeInvalidParam, "注册表键名不能为空")
	}
	if registryInstance == nil {
		return errors.NewError(errors.ErrCodeInvalidParam, "注册表实例不能为空")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.registries[key]; exists {
		return errors.NewErrorWithDetails(errors.ErrCodeDuplicateName, "注册表已存在",
			fmt.Sprintf("键名: %s", key))
	}

	s.registries[key] = registryInstance
	return nil
}

// Get 根据键名获取一个注册表实例
// 返回的实例需要进行类型断言，或使用 LookupRegistry
func (s *RegistryService) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	instance, exists := s.registries[key]
	return instance, exists
}

// Keys 返回所有已登记注册表的键名（按字母排序）
func (s *RegistryService) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.registries))
	for key := range s.registries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// LookupRegistry 获取指定键名的注册表并断言为 R
func LookupRegistry[R any](s *RegistryService, key string) (R, error) {
	var zero R

	instance, ok := s.Get(key)
	if !ok {
		return zero, errors.NewErrorWithDetails(errors.ErrCodeNotFound, "注册表未找到",
			fmt.Sprintf("键名: %s", key))
	}

	reg, ok := instance.(R)
	if !ok {
		return zero, errors.NewErrorWithDetails(errors.ErrCodeInternalErr, "注册表类型断言失败",
			fmt.Sprintf("键名: %s, 实际类型: %T", key, instance))
	}
	return reg, nil
}

type registryServiceKey struct{}

// WithRegistryService 将注册服务放入 context
func WithRegistryService(ctx context.Context, s *RegistryService) context.Context {
	return context.WithValue(ctx, registryServiceKey{}, s)
}

// RegistryServiceFromContext 从 context 中取出注册服务
func RegistryServiceFromContext(ctx context.Context) (*RegistryService, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(registryServiceKey{}).(*RegistryService)
	return s, ok && s != nil
}
