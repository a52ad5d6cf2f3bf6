// Package ui 提供命令行输出：欢迎横幅、表格、JSON/YAML 和 Markdown 渲染
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"datachain/internal/pkg/errors"
)

// Format 输出格式
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat 解析输出格式，空字符串视为表格
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.NewErrorWithDetails(errors.ErrCodeInvalidParam, "无效的输出格式",
			fmt.Sprintf("格式: %q (可选: table, json, yaml)", s))
	}
}

// TableRenderer 可以渲染为表格的数据
type TableRenderer interface {
	Headers() []string
	Rows() [][]string
}

// Printer 按指定格式输出
type Printer struct {
	out    io.Writer
	format Format
}

func NewPrinter(out io.Writer, format Format) *Printer {
	return &Printer{out: out, format: format}
}

// Print 输出数据
// 表格格式要求 data 实现 TableRenderer，否则退化为 JSON；JSON/YAML 输出 raw。
func (p *Printer) Print(data TableRenderer, raw any) error {
	switch p.format {
	case FormatTable:
		if data != nil {
			return PrintTable(p.out, data)
		}
		return PrintJSON(p.out, raw)
	case FormatJSON:
		return PrintJSON(p.out, raw)
	case FormatYAML:
		return PrintYAML(p.out, raw)
	default:
		return errors.NewErrorWithDetails(errors.ErrCodeInvalidParam, "未知的输出格式", string(p.format))
	}
}

// PrintTable 以无边框表格输出
func PrintTable(w io.Writer, data TableRenderer) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(data.Headers())

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	table.AppendBulk(data.Rows())
	table.Render()
	return nil
}

// SimpleTable 输出键值对
func SimpleTable(w io.Writer, pairs [][2]string) error {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator(":")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, pair := range pairs {
		table.Append([]string{pair[0], pair[1]})
	}

	table.Render()
	return nil
}

// PrintJSON 输出缩进的 JSON
func PrintJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}

// PrintYAML 输出 YAML
func PrintYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer func() { _ = encoder.Close() }()
	return encoder.Encode(data)
}
