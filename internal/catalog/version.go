package catalog

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"

	"datachain/internal/pkg/errors"
	"datachain/pkg/registry"
)

// MatchVersion 检查注册项的 version 元数据是否满足约束
//
// 没有版本或版本无法解析的注册项不满足任何约束。
func MatchVersion[T any](entry registry.Entry[T], constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, errors.WrapErrorWithDetails(errors.ErrCodeInvalidParam, "版本约束无效", err,
			fmt.Sprintf("约束: %s", constraint))
	}

	raw, ok := entry.Metadata[MetaVersion].(string)
	if !ok || raw == "" {
		return false, nil
	}
	version, err := semver.NewVersion(raw)
	if err != nil {
		return false, nil
	}
	return c.Check(version), nil
}

// FilterByVersion 从 names 中筛选版本满足约束的名称，保持原顺序
func FilterByVersion[T any](reg registry.Registry[T], names []string, constraint string) ([]string, error) {
	if _, err := semver.NewConstraint(constraint); err != nil {
		return nil, errors.WrapErrorWithDetails(errors.ErrCodeInvalidParam, "版本约束无效", err,
			fmt.Sprintf("约束: %s", constraint))
	}

	result := make([]string, 0, len(names))
	for _, name := range names {
		entry, ok := reg.GetInfo(name)
		if !ok {
			continue
		}
		if matched, _ := MatchVersion(entry, constraint); matched {
			result = append(result, name)
		}
	}
	return result, nil
}

// NamePattern 返回要求名称匹配 pattern 的注册校验器，pattern 为 nil 时不做限制
func NamePattern[T any](pattern *regexp.Regexp) registry.Validator[T] {
	return func(name string, _ registry.TypeDescriptor[T]) (bool, error) {
		if pattern == nil {
			return true, nil
		}
		return pattern.MatchString(name), nil
	}
}
