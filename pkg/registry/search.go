package registry

import (
	"strings"

	"golang.org/x/text/cases"
)

// Search 在指定字段中做大小写不敏感的子串搜索
//
// fields 为 nil 时使用 DefaultSearchFields；为空切片时返回空结果。
// 未知字段被忽略。每个名称最多出现一次，按注册顺序返回。
func (r *BaseRegistry[T]) Search(query string, fields []string) []string {
	if fields == nil {
		fields = DefaultSearchFields
	}

	results := make([]string, 0)
	if len(fields) == 0 {
		return results
	}

	folder := cases.Fold()
	needle := folder.String(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		if matchEntry(r.entries[name], needle, fields, folder) {
			results = append(results, name)
		}
	}
	return results
}

func matchEntry[T any](entry *Entry[T], needle string, fields []string, folder cases.Caser) bool {
	for _, field := range fields {
		switch field {
		case FieldName:
			if strings.Contains(folder.String(entry.Name), needle) {
				return true
			}
		case FieldDescription:
			if strings.Contains(folder.String(entry.Description), needle) {
				return true
			}
		case FieldTags:
			for _, tag := range entry.Tags {
				if strings.Contains(folder.String(tag), needle) {
					return true
				}
			}
		}
	}
	return false
}
