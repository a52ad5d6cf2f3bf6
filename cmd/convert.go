package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"datachain/internal/catalog"
	"datachain/internal/config"
	"datachain/internal/converter"
	"datachain/internal/pkg/errors"
	"datachain/pkg/registry"
)

var convertArgs []string

// convertCmd 创建转换器实例并转换数据
var convertCmd = &cobra.Command{
	Use:   "convert <name> <data>",
	Short: "用指定的转换器转换数据",
	Example: `  datachain convert csv hello --arg delimiter=";"
  datachain convert json world --arg indent=4`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := converters(cmd)
		if err != nil {
			return err
		}

		ctorArgs, err := parseArgs(convertArgs)
		if err != nil {
			return err
		}

		instance, err := reg.Build(args[0], ctorArgs)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), instance.Convert(args[1]))
		return nil
	},
}

// validateCmd 检查名称能否作为 kind 的别名注册
var validateCmd = &cobra.Command{
	Use:   "validate <name> <kind>",
	Short: "检查名称能否作为已注册类型的别名注册",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := converters(cmd)
		if err != nil {
			return err
		}

		name, kind := args[0], args[1]
		descriptor, ok := reg.Get(kind)
		if !ok {
			return errors.NewNotFoundError(kind)
		}

		pattern, err := config.Config.NamePattern()
		if err != nil {
			return err
		}

		if !reg.ValidateRegistration(name, descriptor, catalog.NamePattern[converter.Converter](pattern)) {
			return errors.NewErrorWithDetails(errors.ErrCodeValidationFailed, "注册校验未通过",
				fmt.Sprintf("名称: %q, 类型: %s", name, descriptor))
		}
		if reg.Exists(name) {
			fmt.Fprintf(cmd.OutOrStdout(), "校验通过: %s -> %s (名称已存在，需要覆盖)\n", name, descriptor)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "校验通过: %s -> %s\n", name, descriptor)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd, validateCmd)
	convertCmd.Flags().StringArrayVarP(&convertArgs, "arg", "a", nil, "构造参数 key=value，可重复")
}

// parseArgs 把 key=value 列表转换为构造参数
// 值保持字符串，由转换器解码时做类型转换。
func parseArgs(pairs []string) (registry.Args, error) {
	args := make(registry.Args, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.NewErrorWithDetails(errors.ErrCodeInvalidArgs, "构造参数格式错误",
				fmt.Sprintf("参数: %q (应为 key=value)", pair))
		}
		args[key] = value
	}
	return args, nil
}
