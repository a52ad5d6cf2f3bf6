package converter

import (
	"fmt"

	"datachain/pkg/registry"
)

// BaseConverter 以名称作为前缀输出数据
type BaseConverter struct {
	Name string `arg:"name" validate:"required"`
}

// NewBaseConverter 创建基础转换器，参数 name 默认为 "base"
func NewBaseConverter(args registry.Args) (*BaseConverter, error) {
	c := &BaseConverter{Name: "base"}
	if err := args.Bind(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *BaseConverter) Convert(data string) string {
	return c.Name + ": " + data
}

// CSVConverter CSV 转换器
type CSVConverter struct {
	Sep string `arg:"delimiter" validate:"required"`
}

// NewCSVConverter 创建 CSV 转换器，参数 delimiter 默认为 ","
func NewCSVConverter(args registry.Args) (*CSVConverter, error) {
	c := &CSVConverter{Sep: ","}
	if err := args.Bind(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CSVConverter) Convert(data string) string {
	return "CSV" + c.Sep + data
}

func (c *CSVConverter) Delimiter() string { return c.Sep }

// JSONConverter JSON 转换器
type JSONConverter struct {
	Indent int `arg:"indent" validate:"gte=0,lte=16"`
}

// NewJSONConverter 创建 JSON 转换器，参数 indent 默认为 2
func NewJSONConverter(args registry.Args) (*JSONConverter, error) {
	c := &JSONConverter{Indent: 2}
	if err := args.Bind(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *JSONConverter) Convert(data string) string {
	return fmt.Sprintf("JSON%d%s", c.Indent, data)
}

// XMLConverter XML 转换器，不接受参数
type XMLConverter struct{}

func NewXMLConverter(args registry.Args) (*XMLConverter, error) {
	c := &XMLConverter{}
	if err := args.Bind(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *XMLConverter) Convert(data string) string {
	return "XML: " + data
}
