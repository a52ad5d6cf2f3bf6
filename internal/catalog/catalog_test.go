package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"testing"

	"datachain/internal/converter"
	"datachain/internal/pkg/errors"
	"datachain/pkg/registry"
)

const yamlManifest = `entries:
  - name: csv-semicolon
    kind: csv
    description: CSV with ; delimiter
    tags: [format, csv, semicolon]
    version: "v1.2"
    defaults:
      delimiter: ";"
    metadata:
      owner: data
  - name: json-wide
    kind: json
    version: "2.1.0"
    defaults:
      indent: 8
  - name: missing-kind
  - name: unknown-kind
    kind: parquet
  - name: bad-version
    kind: csv
    version: not-a-version
  - name: csv
    kind: json
  - name: "  "
    kind: csv
`

const tomlManifest = `[[entries]]
name = "tsv"
kind = "csv"
tags = ["format", "tabular"]
version = "1.0.0"

[entries.defaults]
delimiter = "\t"

[[entries]]
name = "csv"
kind = "xml"
override = true
description = "csv replaced by xml"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}
	return path
}

func newConverters(t *testing.T) registry.Registry[converter.Converter] {
	t.Helper()
	reg := registry.NewRegistry[converter.Converter](converter.RegistryName, registry.WithLogger(nil))
	converter.Register(reg)
	return reg
}

func TestLoadYAML(t *testing.T) {
	manifest, err := Load(writeFile(t, "catalog.yaml", yamlManifest))
	if err != nil {
		t.Fatalf("加载清单失败: %v", err)
	}

	if len(manifest.Entries) != 7 {
		t.Fatalf("期望7个清单项，实际为: %d", len(manifest.Entries))
	}

	first := manifest.Entries[0]
	if first.Kind != "csv" || first.Defaults["delimiter"] != ";" || first.Metadata["owner"] != "data" {
		t.Errorf("第一个清单项解析不正确: %+v", first)
	}
	if !reflect.DeepEqual(first.Tags, []string{"format", "csv", "semicolon"}) {
		t.Errorf("标签解析不正确: %v", first.Tags)
	}
	if manifest.Path == "" {
		t.Error("清单应记录来源路径")
	}
}

func TestApply(t *testing.T) {
	reg := newConverters(t)
	manifest, err := Load(writeFile(t, "catalog.yml", yamlManifest))
	if err != nil {
		t.Fatalf("加载清单失败: %v", err)
	}

	report, err := Apply(reg, manifest, nil)
	if err != nil {
		t.Fatalf("应用清单失败: %v", err)
	}

	if !reflect.DeepEqual(report.Applied, []string{"csv-semicolon", "json-wide"}) {
		t.Errorf("已应用列表不正确: %v", report.Applied)
	}
	if report.OK() {
		t.Error("存在失败项时 OK 应返回 false")
	}

	wantCodes := map[string]string{
		"missing-kind": errors.ErrCodeCatalogInvalid,
		"unknown-kind": errors.ErrCodeNotFound,
		"bad-version":  errors.ErrCodeCatalogInvalid,
		"csv":          errors.ErrCodeDuplicateName,
		"  ":           errors.ErrCodeValidationFailed,
	}
	if len(report.Failed) != len(wantCodes) {
		t.Fatalf("期望%d个失败项，实际: %+v", len(wantCodes), report.Failed)
	}
	for _, failure := range report.Failed {
		if wantCodes[failure.Name] != failure.Code {
			t.Errorf("%q: 期望错误代码 %s，实际为 %s", failure.Name, wantCodes[failure.Name], failure.Code)
		}
	}

	// 默认参数生效，调用参数优先
	c, ok := reg.Create("csv-semicolon", nil)
	if !ok || c.Convert("hello") != "CSV;hello" {
		t.Error("别名应使用清单中的默认参数")
	}
	c, ok = reg.Create("csv-semicolon", registry.Args{"delimiter": "|"})
	if !ok || c.Convert("hello") != "CSV|hello" {
		t.Error("调用参数应覆盖默认参数")
	}
	c, ok = reg.Create("json-wide", nil)
	if !ok || c.Convert("x") != "JSON8x" {
		t.Error("json-wide 应使用 indent=8")
	}

	info, _ := reg.GetInfo("csv-semicolon")
	if info.Description != "CSV with ; delimiter" {
		t.Errorf("描述不正确: %q", info.Description)
	}
	if info.Metadata[MetaVersion] != "1.2.0" || info.Metadata[MetaKind] != "csv" || info.Metadata["owner"] != "data" {
		t.Errorf("元数据不正确: %v", info.Metadata)
	}

	// 未指定描述时沿用原类型描述
	info, _ = reg.GetInfo("json-wide")
	if info.Description != "JSON format converter" {
		t.Errorf("期望沿用原类型描述，实际: %q", info.Description)
	}

	// 别名保持原类型，类型查询可见
	if got := registry.ListByTypeOf[converter.Tabular, converter.Converter](reg); !reflect.DeepEqual(got, []string{"csv", "csv-semicolon"}) {
		t.Errorf("表格转换器列表不正确: %v", got)
	}

	// 原 csv 未被覆盖
	c, _ = reg.Create("csv", nil)
	if c.Convert("a") != "CSV,a" {
		t.Error("未声明覆盖时原类型不应改变")
	}
}

func TestApplyTOML(t *testing.T) {
	reg := newConverters(t)
	manifest, err := Load(writeFile(t, "catalog.toml", tomlManifest))
	if err != nil {
		t.Fatalf("加载清单失败: %v", err)
	}

	report, err := Apply(reg, manifest, nil)
	if err != nil || !report.OK() {
		t.Fatalf("应用清单失败: %v %+v", err, report)
	}

	c, ok := reg.Create("tsv", nil)
	if !ok || c.Convert("row") != "CSV\trow" {
		t.Error("tsv 应使用制表符分隔")
	}

	// override 替换原有注册项并保持位置
	c, _ = reg.Create("csv", nil)
	if c.Convert("a") != "XML: a" {
		t.Errorf("override 后 csv 应为 xml 转换器，实际: %s", c.Convert("a"))
	}
	if reg.ListAll()[1] != "csv" {
		t.Errorf("覆盖不应改变顺序: %v", reg.ListAll())
	}
}

func TestApplyWithNamePattern(t *testing.T) {
	reg := newConverters(t)
	manifest := &Manifest{Entries: []EntrySpec{
		{Name: "good-name", Kind: "csv"},
		{Name: "Bad_Name", Kind: "csv"},
	}}

	report, _ := Apply(reg, manifest, NamePattern[converter.Converter](regexp.MustCompile(`^[a-z][a-z0-9-]*$`)))
	if !reflect.DeepEqual(report.Applied, []string{"good-name"}) {
		t.Errorf("已应用列表不正确: %v", report.Applied)
	}
	if len(report.Failed) != 1 || report.Failed[0].Code != errors.ErrCodeValidationFailed {
		t.Errorf("期望名称校验失败，实际: %+v", report.Failed)
	}

	if _, err := Apply(reg, nil, nil); !errors.IsErrorCode(err, errors.ErrCodeCatalogInvalid) {
		t.Errorf("空清单应返回错误，实际: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name string
		path string
		code string
	}{
		{"missing", filepath.Join(t.TempDir(), "missing.yaml"), errors.ErrCodeCatalogLoadFailed},
		{"unsupported", writeFile(t, "catalog.json", "{}"), errors.ErrCodeCatalogLoadFailed},
		{"bad_yaml", writeFile(t, "bad.yaml", "entries: [unclosed"), errors.ErrCodeCatalogParseFailed},
		{"unknown_yaml_field", writeFile(t, "extra.yaml", "entries:\n  - name: a\n    colour: red\n"), errors.ErrCodeCatalogParseFailed},
		{"bad_toml", writeFile(t, "bad.toml", "[[entries]\nname = "), errors.ErrCodeCatalogParseFailed},
		{"unknown_toml_field", writeFile(t, "extra.toml", "[[entries]]\nname = \"a\"\ncolour = \"red\"\n"), errors.ErrCodeCatalogParseFailed},
	}

	for _, tc := range testCases {
		_, err := Load(tc.path)
		if !errors.IsErrorCode(err, tc.code) {
			t.Errorf("%s: 期望错误代码 %s，实际: %v", tc.name, tc.code, err)
		}
	}

	manifest, err := Load(writeFile(t, "empty.yaml", ""))
	if err != nil || len(manifest.Entries) != 0 {
		t.Errorf("空文件应视为空清单: %v", err)
	}
}

func TestLoadAll(t *testing.T) {
	paths := []string{
		writeFile(t, "a.yaml", yamlManifest),
		writeFile(t, "b.toml", tomlManifest),
	}

	manifests, err := LoadAll(paths)
	if err != nil || len(manifests) != 2 {
		t.Fatalf("期望加载2个清单: %v", err)
	}

	manifests, err = LoadAll(append(paths, filepath.Join(t.TempDir(), "missing.toml")))
	if err == nil || len(manifests) != 2 {
		t.Errorf("遇到错误时应返回已加载的清单和错误")
	}
}

func TestMatchVersion(t *testing.T) {
	reg := newConverters(t)
	manifest := &Manifest{Entries: []EntrySpec{
		{Name: "v1", Kind: "csv", Version: "1.4.2"},
		{Name: "v2", Kind: "csv", Version: "2.0.0"},
		{Name: "none", Kind: "csv"},
	}}
	Apply(reg, manifest, nil)

	info, _ := reg.GetInfo("v1")
	if ok, err := MatchVersion(info, "^1.2"); err != nil || !ok {
		t.Errorf("1.4.2 应满足 ^1.2: %v", err)
	}
	if ok, _ := MatchVersion(info, ">=2.0.0"); ok {
		t.Error("1.4.2 不应满足 >=2.0.0")
	}
	if _, err := MatchVersion(info, "not a constraint"); !errors.IsErrorCode(err, errors.ErrCodeInvalidParam) {
		t.Errorf("无效约束应返回错误，实际: %v", err)
	}

	info, _ = reg.GetInfo("none")
	if ok, _ := MatchVersion(info, "*"); ok {
		t.Error("没有版本的注册项不应满足约束")
	}

	// 内置转换器的版本为 1.0.0
	got, err := FilterByVersion(reg, reg.ListAll(), ">=1.1.0")
	if err != nil || !reflect.DeepEqual(got, []string{"v1", "v2"}) {
		t.Errorf("版本筛选结果不正确: %v %v", got, err)
	}
	got, _ = FilterByVersion(reg, []string{"csv", "missing", "v2"}, "<2")
	if !reflect.DeepEqual(got, []string{"csv"}) {
		t.Errorf("版本筛选结果不正确: %v", got)
	}
}
