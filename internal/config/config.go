package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"datachain/internal/pkg/errors"
	"datachain/internal/util"
)

// 全局配置实例
var Config *AppConfig

// 应用配置结构
type AppConfig struct {
	Registry RegistryConfig `toml:"registry"`
	Logging  LoggingConfig  `toml:"logging"`
	UI       UIConfig       `toml:"ui"`
}

// 注册表配置
type RegistryConfig struct {
	Name         string   `toml:"name"`          // 转换器注册表名称
	Catalogs     []string `toml:"catalogs"`      // 启动时加载的清单文件
	SearchFields []string `toml:"search_fields"` // search 命令默认字段
	NamePattern  string   `toml:"name_pattern"`  // 清单项名称必须匹配的正则，空表示不限制
}

// 日志配置
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json, text
	Output string `toml:"output"` // stdout, stderr, file
	File   string `toml:"file"`   // 日志文件路径
}

// 界面配置
type UIConfig struct {
	Banner        bool   `toml:"banner"`         // 是否显示欢迎横幅
	MarkdownStyle string `toml:"markdown_style"` // glamour 样式
}

var (
	validLevels         = []string{"debug", "info", "warn", "error"}
	validFormats        = []string{"text", "json"}
	validOutputs        = []string{"stdout", "stderr", "file"}
	validSearchFields   = []string{"name", "description", "tags"}
	validMarkdownStyles = []string{"auto", "dark", "light", "notty", "ascii", "dracula", "pink", "tokyo-night"}
)

// Default 返回默认配置
func Default() AppConfig {
	return AppConfig{
		Registry: RegistryConfig{
			Name:         "converters",
			Catalogs:     []string{},
			SearchFields: []string{"name", "description"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		UI: UIConfig{
			Banner:        true,
			MarkdownStyle: "auto",
		},
	}
}

// 加载配置文件
func LoadConfig(configPath string) error {
	// 如果没有指定配置文件路径，使用默认路径
	if configPath == "" {
		configPath = getDefaultConfigPath()
	}
	configPath = util.ExpandHome(configPath)

	// 检查配置文件是否存在
	if !util.FileExists(configPath) {
		if err := createDefaultConfig(configPath); err != nil {
			return errors.WrapErrorWithDetails(errors.ErrCodeConfigLoadFailed, "创建默认配置文件失败", err,
				fmt.Sprintf("文件: %s", configPath))
		}
		fmt.Fprintf(os.Stderr, "已创建默认配置文件: %s\n", configPath)
	}

	// 未出现在文件中的键保留默认值
	config := Default()
	meta, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return errors.WrapErrorWithDetails(errors.ErrCodeConfigParseFailed, "解析配置文件失败", err,
			fmt.Sprintf("文件: %s", configPath))
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		util.Warnw("配置文件包含未知字段", map[string]interface{}{
			"file": configPath,
			"keys": fmt.Sprint(undecoded),
		})
	}

	// 使用环境变量覆盖配置
	overrideWithEnv(&config)

	// 验证配置
	if err := validateConfig(&config); err != nil {
		return err
	}

	// 设置全局配置
	Config = &config
	return nil
}

// 获取默认配置文件路径
func getDefaultConfigPath() string {
	// 优先使用当前目录下的 datachain.toml
	if util.FileExists("datachain.toml") {
		return "datachain.toml"
	}

	// 使用用户主目录下的配置文件
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "datachain.toml"
	}

	return filepath.Join(homeDir, ".datachain", "config.toml")
}

// 创建默认配置文件
func createDefaultConfig(configPath string) error {
	// 确保目录存在
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// 默认配置内容
	defaultConfig := `# datachain 配置文件

[registry]
name = "converters"
# 启动时加载的类型清单（.yaml/.yml/.toml）
catalogs = []
search_fields = ["name", "description"]
# 清单项名称必须匹配的正则，留空表示不限制
name_pattern = ""

[logging]
level = "info"
format = "text"
output = "stderr"
file = ""

[ui]
banner = true
markdown_style = "auto"
`

	return os.WriteFile(configPath, []byte(defaultConfig), 0644)
}

// 使用环境变量覆盖配置
func overrideWithEnv(config *AppConfig) {
	// 日志配置
	for _, name := range []string{"DATACHAIN_LOG_LEVEL", "LOG_LEVEL"} {
		if level := os.Getenv(name); level != "" {
			config.Logging.Level = strings.ToLower(level)
			break
		}
	}

	// 清单文件，按系统路径分隔符拆分
	if catalogs := os.Getenv("DATACHAIN_CATALOGS"); catalogs != "" {
		config.Registry.Catalogs = filepath.SplitList(catalogs)
	}
}

// 验证配置
func validateConfig(config *AppConfig) error {
	if strings.TrimSpace(config.Registry.Name) == "" {
		return errors.NewConfigError("注册表名称不能为空")
	}

	if !contains(validLevels, config.Logging.Level) {
		return errors.NewErrorWithDetails(errors.ErrCodeConfigInvalid, "无效的日志级别",
			fmt.Sprintf("级别: %s", config.Logging.Level))
	}

	if !contains(validFormats, config.Logging.Format) {
		return errors.NewErrorWithDetails(errors.ErrCodeConfigInvalid, "无效的日志格式",
			fmt.Sprintf("格式: %s", config.Logging.Format))
	}

	if !contains(validOutputs, config.Logging.Output) {
		return errors.NewErrorWithDetails(errors.ErrCodeConfigInvalid, "无效的日志输出",
			fmt.Sprintf("输出: %s", config.Logging.Output))
	}
	if config.Logging.Output == "file" && config.Logging.File == "" {
		return errors.NewConfigError("日志输出为 file 时必须指定 file")
	}

	for _, field := range config.Registry.SearchFields {
		if !contains(validSearchFields, field) {
			return errors.NewErrorWithDetails(errors.ErrCodeConfigInvalid, "无效的搜索字段",
				fmt.Sprintf("字段: %s", field))
		}
	}

	if _, err := config.NamePattern(); err != nil {
		return err
	}

	if !contains(validMarkdownStyles, config.UI.MarkdownStyle) {
		return errors.NewErrorWithDetails(errors.ErrCodeConfigInvalid, "无效的 Markdown 样式",
			fmt.Sprintf("样式: %s", config.UI.MarkdownStyle))
	}

	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// NamePattern 编译清单项名称正则，未配置时返回 nil
func (c *AppConfig) NamePattern() (*regexp.Regexp, error) {
	if c.Registry.NamePattern == "" {
		return nil, nil
	}
	pattern, err := regexp.Compile(c.Registry.NamePattern)
	if err != nil {
		return nil, errors.WrapErrorWithDetails(errors.ErrCodeConfigInvalid, "无效的名称正则", err,
			fmt.Sprintf("正则: %s", c.Registry.NamePattern))
	}
	return pattern, nil
}

// 获取当前配置
func GetConfig() *AppConfig {
	return Config
}
