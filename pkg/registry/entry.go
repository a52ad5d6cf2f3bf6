package registry

import "github.com/mitchellh/copystructure"

// Entry 注册项
type Entry[T any] struct {
	Name        string
	Type        TypeDescriptor[T]
	Description string
	Tags        []string
	Metadata    map[string]any
}

// HasTag 检查注册项是否带有指定标签（精确匹配）
func (e Entry[T]) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// clone 返回注册项的深拷贝
func (e Entry[T]) clone() Entry[T] {
	e.Tags = append([]string(nil), e.Tags...)
	e.Metadata = cloneMetadata(e.Metadata)
	return e
}

// uniqueTags 去重并保持首次出现的顺序
func uniqueTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}

// cloneMetadata 深拷贝元数据，任意嵌套的 map 和 slice 都不与调用方共享
func cloneMetadata(metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return make(map[string]any)
	}

	copied, err := copystructure.Copy(metadata)
	if err == nil {
		if cloned, ok := copied.(map[string]any); ok {
			return cloned
		}
	}

	// 无法整体复制时逐项复制，失败的值按原样保留
	cloned := make(map[string]any, len(metadata))
	for key, value := range metadata {
		if v, err := copystructure.Copy(value); err == nil {
			cloned[key] = v
		} else {
			cloned[key] = value
		}
	}
	return cloned
}
