package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"datachain/internal/catalog"
	"datachain/internal/config"
	"datachain/internal/converter"
	"datachain/internal/pkg/errors"
	"datachain/internal/ui"
	"datachain/internal/util"
	"datachain/pkg/registry"
)

// Version 由构建时 -ldflags 覆盖
var Version = "v0.1.0"

var (
	// configPath 是配置文件的路径
	configPath string
	// verbose 标志用于启用详细输出
	verbose bool
	// outputFormat 输出格式：table, json, yaml
	outputFormat string
	// catalogReports 启动时应用清单的结果
	catalogReports []catalog.Report
)

// rootCmd 代表没有调用子命令时的基础命令
var rootCmd = &cobra.Command{
	Use:   "datachain",
	Short: "DataChain 类型注册表与转换器工厂",
	Long: `DataChain 是一个多模态数据转换框架的命令行工具，
提供转换器类型的注册、查找、创建以及基于清单的别名声明。`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeApp(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// 默认行为：显示欢迎横幅和状态信息
		return showStatus(cmd)
	},
}

// Execute 将所有子命令添加到根命令并适当设置标志。
// 这是由 main.main() 调用的。它只需要对 rootCmd 调用一次。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		util.LogErrorWithFields(err, "命令执行失败", nil)
		fmt.Fprintf(os.Stderr, "命令执行失败: %s\n  %v\n", errors.GetUserFriendlyMessage(err), err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// 全局标志
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径 (默认: $DATACHAIN_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "输出格式: table, json, yaml")
}

// initializeApp 初始化应用
func initializeApp(cmd *cobra.Command) error {
	// 1. 处理配置文件路径
	if configPath == "" {
		configPath = os.Getenv("DATACHAIN_CONFIG")
	}

	// 2. 加载配置文件
	if err := config.LoadConfig(configPath); err != nil {
		return err
	}

	// 3. 根据verbose标志调整日志级别
	logLevel := config.Config.Logging.Level
	if verbose {
		logLevel = "debug"
	}

	// 4. 初始化日志系统
	logging := config.Config.Logging
	output := logOutput(cmd, logging.Output)
	if err := util.InitLogger(logLevel, logging.Format, output, logging.File); err != nil {
		return errors.WrapError(errors.ErrCodeConfigInvalid, "日志系统初始化失败", err)
	}

	util.Debugw("配置详情", map[string]any{
		"registry":    config.Config.Registry.Name,
		"catalogs":    config.Config.Registry.Catalogs,
		"log_level":   logLevel,
		"config_path": configPath,
	})

	// 5. 初始化注册表并放入命令上下文
	service, err := initializeRegistries()
	if err != nil {
		return errors.WrapError(errors.ErrCodeInitializationFailed, "注册表初始化失败", err)
	}
	cmd.SetContext(util.WithRegistryService(cmd.Context(), service))

	return nil
}

// annotationStdio 标记占用标准输出作为协议通道的命令
const annotationStdio = "stdio"

// logOutput 返回命令实际使用的日志输出，占用标准输出的命令日志改写到 stderr
func logOutput(cmd *cobra.Command, output string) string {
	if output == "stdout" && cmd.Annotations[annotationStdio] == "true" {
		return "stderr"
	}
	return output
}

// initializeRegistries 创建转换器注册表，注册内置转换器并应用清单
func initializeRegistries() (*util.RegistryService, error) {
	service := util.NewRegistryService()

	converters := registry.NewRegistry[converter.Converter](config.Config.Registry.Name)
	converter.Register(converters)
	if err := service.Register(converter.RegistryName, converters); err != nil {
		return nil, err
	}

	if err := applyCatalogs(converters); err != nil {
		return nil, err
	}

	util.Debugw("注册表状态", map[string]interface{}{
		"registries": service.Keys(),
		"types":      converters.Count(),
	})
	return service, nil
}

// applyCatalogs 加载配置中的清单文件并应用到注册表
func applyCatalogs(reg registry.Registry[converter.Converter]) error {
	catalogReports = nil
	paths := config.Config.Registry.Catalogs
	if len(paths) == 0 {
		return nil
	}

	pattern, err := config.Config.NamePattern()
	if err != nil {
		return err
	}

	manifests, err := catalog.LoadAll(paths)
	if err != nil {
		return err
	}

	validator := catalog.NamePattern[converter.Converter](pattern)
	for _, manifest := range manifests {
		report, err := catalog.Apply(reg, manifest, validator)
		if err != nil {
			return err
		}
		catalogReports = append(catalogReports, report)
	}
	return nil
}

// converters 从命令上下文中取出转换器注册表
func converters(cmd *cobra.Command) (registry.Registry[converter.Converter], error) {
	service, ok := util.RegistryServiceFromContext(cmd.Context())
	if !ok {
		return nil, errors.NewError(errors.ErrCodeInitializationFailed, "注册服务未初始化")
	}
	return util.LookupRegistry[registry.Registry[converter.Converter]](service, converter.RegistryName)
}

// printer 根据 --output 创建输出器
func printer(cmd *cobra.Command) (*ui.Printer, error) {
	format, err := ui.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return ui.NewPrinter(cmd.OutOrStdout(), format), nil
}

// terminalWidth 返回标准输出的终端宽度，非终端时返回 0
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

// showStatus 显示应用状态
func showStatus(cmd *cobra.Command) error {
	reg, err := converters(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if config.Config.UI.Banner {
		ui.PrintBanner(out, Version, terminalWidth())
	}

	summary := reg.Summary()
	pairs := ui.SummaryPairs(summary)
	pairs = append(pairs, [2]string{"日志级别", config.Config.Logging.Level})
	for _, report := range catalogReports {
		pairs = append(pairs, [2]string{"清单", fmt.Sprintf("%s (成功 %d, 失败 %d)",
			report.Source, len(report.Applied), len(report.Failed))})
	}
	if err := ui.SimpleTable(out, pairs); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n使用 'datachain --help' 查看可用命令")
	return nil
}
