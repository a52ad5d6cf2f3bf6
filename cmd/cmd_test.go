package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"datachain/internal/pkg/errors"
	"datachain/internal/ui"
)

const testCatalog = `entries:
  - name: csv-semicolon
    kind: csv
    description: CSV with ; delimiter
    tags: [format, semicolon]
    version: 1.2.0
    defaults: {delimiter: ";"}
`

// setupConfig 写入测试配置和清单，返回配置文件路径
func setupConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("DATACHAIN_CONFIG", "")
	t.Setenv("DATACHAIN_LOG_LEVEL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DATACHAIN_CATALOGS", "")

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(catalogPath, []byte(testCatalog), 0644); err != nil {
		t.Fatalf("写入清单失败: %v", err)
	}

	configPath := filepath.Join(dir, "config.toml")
	content := `[registry]
name = "converters"
catalogs = ["` + filepath.ToSlash(catalogPath) + `"]
name_pattern = "^[a-z][a-z0-9-]*$"

[logging]
level = "error"
output = "stderr"

[ui]
banner = false
markdown_style = "notty"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}
	return configPath
}

// execute 重置全局标志后执行命令
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	configPath, verbose, outputFormat = "", false, "table"
	listTag, listImplements, listVersion = "", "", ""
	searchFields, convertArgs = nil, nil
	resetChanged(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", setupConfig(t)}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func resetChanged(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	for _, sub := range cmd.Commands() {
		resetChanged(sub)
	}
}

func decodeNames(t *testing.T, out string) []string {
	t.Helper()
	var views []ui.EntryView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("解析 JSON 输出失败: %v\n%s", err, out)
	}
	names := make([]string, len(views))
	for i, view := range views {
		names[i] = view.Name
	}
	return names
}

func TestConvertCommand(t *testing.T) {
	out, err := execute(t, "convert", "csv", "hello", "--arg", "delimiter=|")
	if err != nil {
		t.Fatalf("执行失败: %v", err)
	}
	if out != "CSV|hello\n" {
		t.Errorf("期望 'CSV|hello'，实际: %q", out)
	}

	// 清单别名带默认参数
	out, err = execute(t, "convert", "csv-semicolon", "hello")
	if err != nil || out != "CSV;hello\n" {
		t.Errorf("期望 'CSV;hello'，实际: %q %v", out, err)
	}

	_, err = execute(t, "convert", "parquet", "hello")
	if !errors.IsErrorCode(err, errors.ErrCodeNotFound) {
		t.Errorf("期望 NOT_FOUND，实际: %v", err)
	}
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list", "-o", "json")
	if err != nil {
		t.Fatalf("执行失败: %v", err)
	}
	want := []string{"base", "csv", "json", "xml", "csv-semicolon"}
	if got := decodeNames(t, out); !reflect.DeepEqual(got, want) {
		t.Errorf("期望 %v，实际: %v", want, got)
	}

	out, _ = execute(t, "list", "--tag", "semicolon", "-o", "json")
	if got := decodeNames(t, out); !reflect.DeepEqual(got, []string{"csv-semicolon"}) {
		t.Errorf("按标签过滤结果不正确: %v", got)
	}

	out, _ = execute(t, "list", "--implements", "Tabular", "-o", "json")
	if got := decodeNames(t, out); !reflect.DeepEqual(got, []string{"csv", "csv-semicolon"}) {
		t.Errorf("按接口过滤结果不正确: %v", got)
	}

	out, _ = execute(t, "list", "--version", ">=1.1", "-o", "json")
	if got := decodeNames(t, out); !reflect.DeepEqual(got, []string{"csv-semicolon"}) {
		t.Errorf("按版本过滤结果不正确: %v", got)
	}

	out, err = execute(t, "list")
	if err != nil || !strings.Contains(out, "NAME") || !strings.Contains(out, "csv-semicolon") {
		t.Errorf("表格输出不正确: %v\n%s", err, out)
	}

	_, err = execute(t, "list", "--implements", "stringer")
	if !errors.IsErrorCode(err, errors.ErrCodeInvalidParam) {
		t.Errorf("期望 INVALID_PARAM，实际: %v", err)
	}
}

func TestSearchCommand(t *testing.T) {
	out, err := execute(t, "search", "DELIMITER", "-o", "json")
	if err != nil {
		t.Fatalf("执行失败: %v", err)
	}
	if got := decodeNames(t, out); !reflect.DeepEqual(got, []string{"csv-semicolon"}) {
		t.Errorf("搜索结果不正确: %v", got)
	}

	out, _ = execute(t, "search", "semi", "--field", "tags", "-o", "json")
	if got := decodeNames(t, out); !reflect.DeepEqual(got, []string{"csv-semicolon"}) {
		t.Errorf("按标签搜索结果不正确: %v", got)
	}
}

func TestInfoCommand(t *testing.T) {
	out, err := execute(t, "info", "csv-semicolon")
	if err != nil {
		t.Fatalf("执行失败: %v", err)
	}
	if !strings.Contains(out, "csv-semicolon") || !strings.Contains(out, "1.2.0") {
		t.Errorf("详情输出不正确: %s", out)
	}

	_, err = execute(t, "info", "missing")
	if !errors.IsErrorCode(err, errors.ErrCodeNotFound) {
		t.Errorf("期望 NOT_FOUND，实际: %v", err)
	}
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "good-name", "csv")
	if err != nil || !strings.Contains(out, "校验通过") {
		t.Errorf("期望校验通过: %v %s", err, out)
	}

	_, err = execute(t, "validate", "Bad_Name", "csv")
	if !errors.IsErrorCode(err, errors.ErrCodeValidationFailed) {
		t.Errorf("期望 VALIDATION_FAILED，实际: %v", err)
	}

	_, err = execute(t, "validate", "good-name", "parquet")
	if !errors.IsErrorCode(err, errors.ErrCodeNotFound) {
		t.Errorf("期望 NOT_FOUND，实际: %v", err)
	}
}

func TestSummaryAndStatus(t *testing.T) {
	out, err := execute(t, "summary", "-o", "json")
	if err != nil {
		t.Fatalf("执行失败: %v", err)
	}
	var summary struct {
		Name       string `json:"name"`
		TotalCount int    `json:"total_count"`
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil || summary.TotalCount != 5 {
		t.Errorf("摘要不正确: %v %s", err, out)
	}

	out, err = execute(t)
	if err != nil || !strings.Contains(out, "converters") || !strings.Contains(out, "成功 1") {
		t.Errorf("状态输出不正确: %v\n%s", err, out)
	}
}

func TestParseArgs(t *testing.T) {
	args, err := parseArgs([]string{"delimiter=;", " indent =4", "expr=a=b"})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if args["delimiter"] != ";" || args["indent"] != "4" || args["expr"] != "a=b" {
		t.Errorf("解析结果不正确: %v", args)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseArgs([]string{bad}); !errors.IsErrorCode(err, errors.ErrCodeInvalidArgs) {
			t.Errorf("%q 应解析失败，实际: %v", bad, err)
		}
	}
}

func TestLogOutput(t *testing.T) {
	testCases := []struct {
		cmd    *cobra.Command
		output string
		want   string
	}{
		{serveCmd, "stdout", "stderr"},
		{serveCmd, "file", "file"},
		{serveCmd, "stderr", "stderr"},
		{listCmd, "stdout", "stdout"},
		{convertCmd, "stdout", "stdout"},
	}

	for _, tc := range testCases {
		if got := logOutput(tc.cmd, tc.output); got != tc.want {
			t.Errorf("%s 日志输出 %s 期望 %s，实际: %s", tc.cmd.Name(), tc.output, tc.want, got)
		}
	}
}
