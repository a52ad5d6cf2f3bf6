package util

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"datachain/internal/pkg/errors"
)

func TestParseLogLevel(t *testing.T) {
	testCases := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"INFO":    LogLevelInfo,
		"warning": LogLevelWarn,
		"warn":    LogLevelWarn,
		"error":   LogLevelError,
		"bogus":   LogLevelInfo,
	}
	for input, expected := range testCases {
		if got := ParseLogLevel(input); got != expected {
			t.Errorf("解析 '%s' 期望 %d，实际为 %d", input, expected, got)
		}
	}
}

func TestLogger_TextLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogLevelWarn, "text", &buf, false)

	logger.Infow("不应输出", map[string]interface{}{"k": "v"})
	if buf.Len() != 0 {
		t.Errorf("低于级别的日志不应输出，实际: %q", buf.String())
	}

	logger.Warnw("已跳过", map[string]interface{}{"registry": "converters", "name": "csv"})
	line := buf.String()
	if !strings.Contains(line, "WARN 已跳过") {
		t.Errorf("期望包含级别和消息，实际: %q", line)
	}
	// 字段按名称排序输出
	if !strings.Contains(line, "| name=csv registry=converters") {
		t.Errorf("期望字段按名称排序，实际: %q", line)
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogLevelDebug, "json", &buf, false)

	logger.Errorw("实例创建失败", map[string]interface{}{
		"name":  "csv",
		"error": errors.NewNotFoundError("csv"),
		"tags":  []string{"a", "b"},
	})

	var record map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("JSON日志解析失败: %v, 原文: %q", err, buf.String())
	}
	if record["level"] != "ERROR" || record["message"] != "实例创建失败" {
		t.Errorf("JSON日志内容不正确: %v", record)
	}
	if _, ok := record["error"].(string); !ok {
		t.Errorf("error字段应序列化为字符串，实际: %T", record["error"])
	}
}

func TestLogger_LogErrorWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogLevelDebug, "text", &buf, false)

	logger.LogErrorWithFields(nil, "忽略", nil)
	if buf.Len() != 0 {
		t.Error("nil错误不应输出日志")
	}

	logger.LogErrorWithFields(errors.NewDuplicateNameError("csv"), "注册", map[string]interface{}{"registry": "r"})
	if !strings.Contains(buf.String(), "error_code="+errors.ErrCodeDuplicateName) {
		t.Errorf("期望输出错误代码，实际: %q", buf.String())
	}
}

func TestInitLogger_File(t *testing.T) {
	saved := DefaultLogger
	defer func() { DefaultLogger = saved }()

	if err := InitLogger("info", "text", "file", ""); !errors.IsErrorCode(err, errors.ErrCodeConfigInvalid) {
		t.Errorf("未指定文件路径应返回配置错误，实际: %v", err)
	}

	dir := t.TempDir()
	err := InitLogger("info", "text", "file", dir)
	if !errors.IsErrorCode(err, errors.ErrCodeConfigInvalid) {
		t.Errorf("日志文件无法打开时应返回配置错误，实际: %v", err)
	}
	if appErr, ok := err.(*errors.AppError); !ok || appErr.Unwrap() == nil {
		t.Errorf("配置错误应保留原始错误: %v", err)
	}

	logFile := filepath.Join(dir, "datachain.log")
	if err := InitLogger("debug", "text", "file", logFile); err != nil {
		t.Fatalf("初始化文件日志失败: %v", err)
	}
	Debugw("写入文件", map[string]interface{}{"k": 1})

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if !strings.Contains(string(data), "写入文件") {
		t.Errorf("日志文件内容不正确: %q", string(data))
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("无法获取用户主目录")
	}
	if got := ExpandHome("~/a/b"); got != filepath.Join(home, "a", "b") {
		t.Errorf("展开结果不正确: %s", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("绝对路径不应改变: %s", got)
	}
}

func TestRegistryService(t *testing.T) {
	s := NewRegistryService()

	if err := s.Register("converters", map[string]int{}); err != nil {
		t.Fatalf("登记注册表失败: %v", err)
	}

	err := s.Register("converters", map[string]int{})
	if !errors.IsErrorCode(err, errors.ErrCodeDuplicateName) {
		t.Errorf("重复登记应返回 %s，实际: %v", errors.ErrCodeDuplicateName, err)
	}

	if err := s.Register("", 1); !errors.IsErrorCode(err, errors.ErrCodeInvalidParam) {
		t.Errorf("空键名应返回参数错误，实际: %v", err)
	}

	if _, err := LookupRegistry[map[string]int](s, "converters"); err != nil {
		t.Errorf("类型化查找失败: %v", err)
	}

	if _, err := LookupRegistry[string](s, "converters"); !errors.IsErrorCode(err, errors.ErrCodeInternalErr) {
		t.Errorf("类型不匹配应返回内部错误，实际: %v", err)
	}

	if _, err := LookupRegistry[string](s, "missing"); !errors.IsErrorCode(err, errors.ErrCodeNotFound) {
		t.Errorf("不存在的键应返回未找到错误，实际: %v", err)
	}

	_ = s.Register("alpha", 1)
	keys := s.Keys()
	if len(keys) != 2 || keys[0] != "alpha" || keys[1] != "converters" {
		t.Errorf("键名列表不正确: %v", keys)
	}
}

func TestRegistryServiceContext(t *testing.T) {
	s := NewRegistryService()
	ctx := WithRegistryService(context.Background(), s)

	got, ok := RegistryServiceFromContext(ctx)
	if !ok || got != s {
		t.Error("期望从context中取回相同的注册服务")
	}

	if _, ok := RegistryServiceFromContext(context.Background()); ok {
		t.Error("空context不应包含注册服务")
	}
}
