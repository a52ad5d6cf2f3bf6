// Package catalog 从清单文件声明类型别名
//
// 清单中的每一项把一个已注册的类型（kind）以新名称重新注册，
// 并附带默认构造参数、描述、标签、版本和元数据。支持 YAML 和 TOML 两种格式。
package catalog

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"datachain/internal/pkg/errors"
	"datachain/internal/util"
)

// Manifest 类型清单
type Manifest struct {
	Path    string      `yaml:"-" toml:"-"`
	Entries []EntrySpec `yaml:"entries" toml:"entries"`
}

// EntrySpec 清单中的一项
type EntrySpec struct {
	Name        string         `yaml:"name" toml:"name"`
	Kind        string         `yaml:"kind" toml:"kind"`
	Description string         `yaml:"description" toml:"description"`
	Tags        []string       `yaml:"tags" toml:"tags"`
	Version     string         `yaml:"version" toml:"version"`
	Defaults    map[string]any `yaml:"defaults" toml:"defaults"`
	Metadata    map[string]any `yaml:"metadata" toml:"metadata"`
	Override    bool           `yaml:"override" toml:"override"`
}

// Load 加载清单文件，按扩展名选择格式
func Load(path string) (*Manifest, error) {
	path = util.ExpandHome(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapErrorWithDetails(errors.ErrCodeCatalogLoadFailed, "读取清单文件失败", err,
			fmt.Sprintf("文件: %s", path))
	}

	var manifest *Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		manifest, err = parseYAML(data)
	case ".toml":
		manifest, err = parseTOML(data)
	default:
		return nil, errors.NewErrorWithDetails(errors.ErrCodeCatalogLoadFailed, "不支持的清单格式",
			fmt.Sprintf("文件: %s, 扩展名: %q", path, ext))
	}
	if err != nil {
		return nil, errors.WrapErrorWithDetails(errors.ErrCodeCatalogParseFailed, "解析清单文件失败", err,
			fmt.Sprintf("文件: %s, 原因: %v", path, err))
	}

	manifest.Path = path
	util.Debugw("清单文件加载成功", map[string]interface{}{
		"path":    path,
		"entries": len(manifest.Entries),
	})
	return manifest, nil
}

// LoadAll 依次加载多个清单文件，遇到第一个错误即返回
func LoadAll(paths []string) ([]*Manifest, error) {
	manifests := make([]*Manifest, 0, len(paths))
	for _, path := range paths {
		manifest, err := Load(path)
		if err != nil {
			return manifests, err
		}
		manifests = append(manifests, manifest)
	}
	return manifests, nil
}

func parseYAML(data []byte) (*Manifest, error) {
	var manifest Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&manifest); err != nil {
		// 空文件视为空清单
		if stderrors.Is(err, io.EOF) {
			return &manifest, nil
		}
		return nil, err
	}
	return &manifest, nil
}

func parseTOML(data []byte) (*Manifest, error) {
	var manifest Manifest
	meta, err := toml.Decode(string(data), &manifest)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("未知字段: %s", strings.Join(keys, ", "))
	}
	return &manifest, nil
}
