package catalog

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"datachain/internal/pkg/errors"
	"datachain/internal/util"
	"datachain/pkg/registry"
)

// 清单写入注册项的元数据键
const (
	MetaVersion  = "version"
	MetaKind     = "kind"
	MetaSource   = "source"
	MetaDefaults = "defaults"
)

// Failure 未能应用的清单项
type Failure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
	Code   string `json:"code"`
}

// Report 清单应用结果
type Report struct {
	Source  string    `json:"source"`
	Applied []string  `json:"applied"`
	Failed  []Failure `json:"failed"`
}

// OK 所有清单项是否都已应用
func (r Report) OK() bool {
	return len(r.Failed) == 0
}

func (r *Report) fail(name string, err error) {
	r.Failed = append(r.Failed, Failure{
		Name:   name,
		Reason: err.Error(),
		Code:   errors.GetErrorCode(err),
	})
}

// Apply 把清单中的每一项注册到 reg
//
// 单项失败被记录在报告中，不会中断其余项。仅当 manifest 为 nil 时返回错误。
func Apply[T any](reg registry.Registry[T], manifest *Manifest, validator registry.Validator[T]) (Report, error) {
	if manifest == nil {
		return Report{}, errors.NewError(errors.ErrCodeCatalogInvalid, "清单不能为空")
	}

	report := Report{
		Source:  manifest.Path,
		Applied: make([]string, 0, len(manifest.Entries)),
		Failed:  make([]Failure, 0),
	}

	for i, spec := range manifest.Entries {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}

		if err := applyEntry(reg, manifest.Path, spec, validator); err != nil {
			report.fail(name, err)
			util.Warnw("清单项应用失败", map[string]interface{}{
				"registry":   reg.Name(),
				"source":     manifest.Path,
				"name":       name,
				"error":      err.Error(),
				"error_code": errors.GetErrorCode(err),
			})
			continue
		}
		report.Applied = append(report.Applied, spec.Name)
	}

	util.Infow("清单应用完成", map[string]interface{}{
		"registry": reg.Name(),
		"source":   manifest.Path,
		"applied":  len(report.Applied),
		"failed":   len(report.Failed),
	})
	return report, nil
}

func applyEntry[T any](reg registry.Registry[T], source string, spec EntrySpec, validator registry.Validator[T]) error {
	if spec.Kind == "" {
		return errors.NewError(errors.ErrCodeCatalogInvalid, "清单项缺少 kind")
	}

	base, ok := reg.GetInfo(spec.Kind)
	if !ok {
		return errors.NewNotFoundError(spec.Kind)
	}

	metadata := map[string]any{}
	for key, value := range spec.Metadata {
		metadata[key] = value
	}
	metadata[MetaKind] = spec.Kind
	if source != "" {
		metadata[MetaSource] = source
	}

	if spec.Version != "" {
		version, err := semver.NewVersion(spec.Version)
		if err != nil {
			return errors.WrapErrorWithDetails(errors.ErrCodeCatalogInvalid, "版本号无效", err,
				fmt.Sprintf("版本: %s", spec.Version))
		}
		metadata[MetaVersion] = version.String()
	}

	defaults := registry.Args(spec.Defaults)
	if len(defaults) > 0 {
		metadata[MetaDefaults] = defaults.Clone()
	}
	descriptor := base.Type.WithDefaults(defaults)

	if !reg.ValidateRegistration(spec.Name, descriptor, validator) {
		return errors.NewErrorWithDetails(errors.ErrCodeValidationFailed, "清单项校验未通过",
			fmt.Sprintf("名称: %q", spec.Name))
	}

	description := spec.Description
	if description == "" {
		description = base.Description
	}
	opts := []registry.RegisterOption{
		registry.WithDescription(description),
		registry.WithTags(spec.Tags...),
		registry.WithMetadata(metadata),
	}
	if spec.Override {
		opts = append(opts, registry.WithOverride())
	}

	if !reg.Register(spec.Name, descriptor, opts...) {
		return errors.NewDuplicateNameError(spec.Name)
	}
	return nil
}
