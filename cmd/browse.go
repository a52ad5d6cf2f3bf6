package cmd

import (
	"github.com/spf13/cobra"

	"datachain/internal/config"
	"datachain/internal/mcp"
	"datachain/internal/tui"
	"datachain/internal/ui"
)

// browseCmd 交互式浏览注册表
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "交互式浏览已注册类型",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := converters(cmd)
		if err != nil {
			return err
		}

		renderer, err := ui.NewMarkdownRenderer(config.Config.UI.MarkdownStyle, 100)
		if err != nil {
			return err
		}
		return tui.Run(tui.NewBrowseModel(reg, renderer, config.Config.Registry.SearchFields))
	},
}

// serveCmd 以 MCP 服务器方式运行
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "在标准输入输出上运行 MCP 服务器",
	Long: `在标准输入输出上运行 Model Context Protocol 服务器，
提供 list_types、search_types、describe_type 和 convert 工具。`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationStdio: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := converters(cmd)
		if err != nil {
			return err
		}
		return mcp.NewServer(reg, Version, config.Config.Registry.SearchFields).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(browseCmd, serveCmd)
}
