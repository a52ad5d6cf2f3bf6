package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"gopkg.in/yaml.v3"

	"datachain/internal/pkg/errors"
	"datachain/pkg/registry"
)

// EntryView 注册项的输出形式
type EntryView struct {
	Name        string         `json:"name" yaml:"name"`
	Type        string         `json:"type" yaml:"type"`
	Description string         `json:"description" yaml:"description"`
	Tags        []string       `json:"tags" yaml:"tags"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewEntryView 转换注册项
func NewEntryView[T any](entry registry.Entry[T]) EntryView {
	return EntryView{
		Name:        entry.Name,
		Type:        entry.Type.String(),
		Description: entry.Description,
		Tags:        entry.Tags,
		Metadata:    entry.Metadata,
	}
}

// Version 返回元数据中的版本号
func (v EntryView) Version() string {
	if version, ok := v.Metadata["version"].(string); ok {
		return version
	}
	return ""
}

// EntryTable 注册项列表
type EntryTable []EntryView

func (t EntryTable) Headers() []string {
	return []string{"Name", "Type", "Version", "Tags", "Description"}
}

func (t EntryTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, entry := range t {
		rows = append(rows, []string{
			entry.Name,
			entry.Type,
			dash(entry.Version()),
			dash(strings.Join(entry.Tags, ",")),
			dash(entry.Description),
		})
	}
	return rows
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// EntryMarkdown 生成注册项的 Markdown 描述
func EntryMarkdown(entry EntryView) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", entry.Name)
	if entry.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", entry.Description)
	}

	b.WriteString("| 属性 | 值 |\n|---|---|\n")
	fmt.Fprintf(&b, "| 类型 | `%s` |\n", entry.Type)
	if version := entry.Version(); version != "" {
		fmt.Fprintf(&b, "| 版本 | %s |\n", version)
	}
	if len(entry.Tags) > 0 {
		tags := make([]string, len(entry.Tags))
		for i, tag := range entry.Tags {
			tags[i] = "`" + tag + "`"
		}
		fmt.Fprintf(&b, "| 标签 | %s |\n", strings.Join(tags, " "))
	}

	if len(entry.Metadata) > 0 {
		data, err := yaml.Marshal(entry.Metadata)
		if err != nil {
			return "", errors.WrapError(errors.ErrCodeInternalErr, "元数据序列化失败", err)
		}
		b.WriteString("\n## 元数据\n\n```yaml\n")
		b.Write(data)
		b.WriteString("```\n")
	}

	return b.String(), nil
}

// NewMarkdownRenderer 创建终端 Markdown 渲染器
// style 为 "auto" 时根据终端背景选择样式。
func NewMarkdownRenderer(style string, width int) (*glamour.TermRenderer, error) {
	styleOption := glamour.WithStandardStyle(style)
	if style == "" || style == "auto" {
		styleOption = glamour.WithAutoStyle()
	}

	renderer, err := glamour.NewTermRenderer(
		styleOption,
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, errors.WrapError(errors.ErrCodeInternalErr, "创建Markdown渲染器失败", err)
	}
	return renderer, nil
}

// RenderEntry 渲染注册项详情
func RenderEntry(renderer *glamour.TermRenderer, entry EntryView) (string, error) {
	markdown, err := EntryMarkdown(entry)
	if err != nil {
		return "", err
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", errors.WrapError(errors.ErrCodeInternalErr, "Markdown渲染失败", err)
	}
	return out, nil
}

// SummaryPairs 把摘要转换为键值对
func SummaryPairs(summary registry.Summary) [][2]string {
	tags := append([]string(nil), summary.UniqueTags...)
	sort.Strings(tags)
	return [][2]string{
		{"注册表", summary.Name},
		{"类型数量", fmt.Sprint(summary.TotalCount)},
		{"标签", dash(strings.Join(tags, ", "))},
		{"名称", dash(strings.Join(summary.Names, ", "))},
	}
}
