// Package converter 包含内置的数据格式转换器
//
// 每个转换器都应该：
// 1. 实现 Converter 接口
// 2. 提供一个 New*Converter(args registry.Args) 构造函数，用 args.Bind 解析参数
// 3. 在 Register 中注册到转换器注册表
//
// 示例：
//
//	reg := registry.NewRegistry[converter.Converter](converter.RegistryName)
//	converter.Register(reg)
//	c, _ := reg.Create("csv", registry.Args{"delimiter": ";"})
package converter

import (
	"datachain/internal/util"
	"datachain/pkg/registry"
)

// RegistryName 转换器注册表名称
const RegistryName = "converters"

// Converter 数据转换器
type Converter interface {
	Convert(data string) string
}

// Tabular 按分隔符输出表格数据的转换器
type Tabular interface {
	Converter
	Delimiter() string
}

// Register 注册所有内置转换器，返回新注册的数量
//
// 已存在的名称被跳过，不会覆盖。
func Register(reg registry.Registry[Converter]) int {
	util.Debug("正在注册内置转换器...")
	before := reg.Count()

	reg.Register("base", registry.Describe[Converter](NewBaseConverter),
		registry.WithDescription("Base converter"),
		registry.WithTags("base"),
		registry.WithMetadata(map[string]any{"version": "1.0.0"}))

	reg.Register("csv", registry.Describe[Converter](NewCSVConverter),
		registry.WithDescription("CSV format converter"),
		registry.WithTags("format", "csv", "tabular"),
		registry.WithMetadata(map[string]any{"version": "1.0.0", "extension": ".csv"}))

	// json 和 xml 在定义处注册，描述取自文档
	reg.RegisterWith("json",
		registry.WithTags("format", "json"),
		registry.WithMetadata(map[string]any{"version": "1.0.0", "extension": ".json"}),
	)(registry.Describe[Converter](NewJSONConverter).WithDoc("JSON format converter"))

	reg.RegisterWith("xml",
		registry.WithTags("format", "xml"),
		registry.WithMetadata(map[string]any{"version": "1.0.0", "extension": ".xml"}),
	)(registry.Describe[Converter](NewXMLConverter).WithDoc("XML format converter"))

	count := reg.Count() - before
	util.Debugw("内置转换器注册完成", map[string]interface{}{
		"registry": reg.Name(),
		"count":    count,
	})
	return count
}
