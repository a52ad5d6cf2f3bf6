package cmd

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"datachain/internal/catalog"
	"datachain/internal/config"
	"datachain/internal/converter"
	"datachain/internal/pkg/errors"
	"datachain/internal/ui"
	"datachain/pkg/registry"
)

// interfaces 是 --implements 可选的接口
var interfaces = map[string]reflect.Type{
	"converter": reflect.TypeFor[converter.Converter](),
	"tabular":   reflect.TypeFor[converter.Tabular](),
}

var (
	listTag        string
	listImplements string
	listVersion    string
	searchFields   []string
)

// listCmd 列出已注册类型
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "列出已注册的转换器类型",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := converters(cmd)
		if err != nil {
			return err
		}
		names, err := filterNames(reg)
		if err != nil {
			return err
		}
		return printEntries(cmd, reg, names)
	},
}

// searchCmd 搜索类型
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "按名称、描述或标签搜索类型（不区分大小写）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := converters(cmd)
		if err != nil {
			return err
		}

		fields := config.Config.Registry.SearchFields
		if cmd.Flags().Changed("field") {
			fields = searchFields
		}
		return printEntries(cmd, reg, reg.Search(args[0], fields))
	},
}

// infoCmd 显示类型详情
var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "显示类型详情",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := converters(cmd)
		if err != nil {
			return err
		}

		entry, ok := reg.GetInfo(args[0])
		if !ok {
			return errors.NewNotFoundError(args[0])
		}
		view := ui.NewEntryView(entry)

		if format, _ := ui.ParseFormat(outputFormat); format != ui.FormatTable {
			p, err := printer(cmd)
			if err != nil {
				return err
			}
			return p.Print(nil, view)
		}

		width := terminalWidth()
		if width == 0 {
			width = 80
		}
		renderer, err := ui.NewMarkdownRenderer(config.Config.UI.MarkdownStyle, width)
		if err != nil {
			return err
		}
		out, err := ui.RenderEntry(renderer, view)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

// summaryCmd 显示注册表摘要
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "显示注册表摘要",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := converters(cmd)
		if err != nil {
			return err
		}
		p, err := printer(cmd)
		if err != nil {
			return err
		}

		summary := reg.Summary()
		if format, _ := ui.ParseFormat(outputFormat); format == ui.FormatTable {
			return ui.SimpleTable(cmd.OutOrStdout(), ui.SummaryPairs(summary))
		}
		return p.Print(nil, summary)
	},
}

func init() {
	rootCmd.AddCommand(listCmd, searchCmd, infoCmd, summaryCmd)

	listCmd.Flags().StringVarP(&listTag, "tag", "t", "", "只列出带有该标签的类型")
	listCmd.Flags().StringVar(&listImplements, "implements", "", "只列出实现该接口的类型: "+strings.Join(interfaceNames(), ", "))
	listCmd.Flags().StringVar(&listVersion, "version", "", "只列出版本满足约束的类型，例如 \">=1.0, <2\"")

	searchCmd.Flags().StringSliceVarP(&searchFields, "field", "f", nil, "搜索字段: name, description, tags (默认取配置)")
}

// filterNames 按 list 标志依次筛选
func filterNames(reg registry.Registry[converter.Converter]) ([]string, error) {
	names := reg.ListAll()
	if listTag != "" {
		names = intersect(names, reg.ListByTag(listTag))
	}

	if listImplements != "" {
		typ, ok := interfaces[strings.ToLower(listImplements)]
		if !ok {
			return nil, errors.NewErrorWithDetails(errors.ErrCodeInvalidParam, "未知的接口",
				fmt.Sprintf("接口: %s (可选: %s)", listImplements, strings.Join(interfaceNames(), ", ")))
		}
		names = intersect(names, reg.ListByType(typ))
	}

	if listVersion != "" {
		return catalog.FilterByVersion(reg, names, listVersion)
	}
	return names, nil
}

// intersect 保留 names 中同时出现在 keep 里的名称，顺序不变
func intersect(names, keep []string) []string {
	set := make(map[string]struct{}, len(keep))
	for _, name := range keep {
		set[name] = struct{}{}
	}
	result := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := set[name]; ok {
			result = append(result, name)
		}
	}
	return result
}

func interfaceNames() []string {
	names := make([]string, 0, len(interfaces))
	for name := range interfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// printEntries 按输出格式打印一组注册项
func printEntries(cmd *cobra.Command, reg registry.Registry[converter.Converter], names []string) error {
	p, err := printer(cmd)
	if err != nil {
		return err
	}

	views := make(ui.EntryTable, 0, len(names))
	for _, name := range names {
		if entry, ok := reg.GetInfo(name); ok {
			views = append(views, ui.NewEntryView(entry))
		}
	}
	return p.Print(views, []ui.EntryView(views))
}
