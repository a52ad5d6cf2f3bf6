package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"datachain/internal/config"
	"datachain/internal/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "配置管理",
	Long:  "管理 DataChain 的配置文件和设置",
}

// configShowCmd represents the show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示当前配置",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

// showConfig 显示配置信息
func showConfig(cmd *cobra.Command) error {
	cfg := config.GetConfig()

	format, err := ui.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if format != ui.FormatTable {
		return ui.NewPrinter(cmd.OutOrStdout(), format).Print(nil, cfg)
	}

	pairs := [][2]string{
		{"配置文件", configPath},
		{"注册表名称", cfg.Registry.Name},
		{"日志级别", cfg.Logging.Level},
	}
	if verbose {
		pairs = append(pairs,
			[2]string{"清单文件", joinOrDash(cfg.Registry.Catalogs)},
			[2]string{"搜索字段", joinOrDash(cfg.Registry.SearchFields)},
			[2]string{"名称正则", orDash(cfg.Registry.NamePattern)},
			[2]string{"日志格式", cfg.Logging.Format},
			[2]string{"日志输出", cfg.Logging.Output},
			[2]string{"Markdown 样式", cfg.UI.MarkdownStyle},
		)
	}
	return ui.SimpleTable(cmd.OutOrStdout(), pairs)
}

func joinOrDash(values []string) string {
	return orDash(strings.Join(values, ", "))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
