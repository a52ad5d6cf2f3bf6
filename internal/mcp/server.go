package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"datachain/internal/converter"
	"datachain/internal/pkg/errors"
	"datachain/internal/ui"
	"datachain/internal/util"
	"datachain/pkg/registry"
)

// 工具名称
const (
	ToolListTypes    = "list_types"
	ToolSearchTypes  = "search_types"
	ToolDescribeType = "describe_type"
	ToolConvert      = "convert"
)

// Server 通过 MCP 暴露转换器注册表
type Server struct {
	registry registry.Registry[converter.Converter]
	fields   []string
	server   *mcp.Server
}

// NewServer 创建 MCP 服务器并注册所有工具
// fields 为 search_types 未指定字段时使用的搜索字段。
func NewServer(reg registry.Registry[converter.Converter], version string, fields []string) *Server {
	s := &Server{
		registry: reg,
		fields:   fields,
		server:   mcp.NewServer(&mcp.Implementation{Name: "datachain", Version: version}, nil),
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolListTypes,
		Description: "列出已注册的转换器类型，可按标签过滤",
	}, s.listTypes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolSearchTypes,
		Description: "按名称、描述或标签搜索转换器类型（不区分大小写）",
	}, s.searchTypes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolDescribeType,
		Description: "返回转换器类型的详细信息",
	}, s.describeType)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolConvert,
		Description: "用指定的转换器和构造参数转换数据",
	}, s.convert)

	return s
}

// Run 在标准输入输出上运行服务器，直到 ctx 取消或客户端断开
func (s *Server) Run(ctx context.Context) error {
	util.Infow("MCP服务启动", map[string]interface{}{
		"registry": s.registry.Name(),
		"types":    s.registry.Count(),
	})

	if err := s.server.Run(ctx, mcp.NewStdioTransport()); err != nil && ctx.Err() == nil {
		return errors.WrapError(errors.ErrCodeMCPServeFailed, "MCP服务运行失败", err)
	}

	util.Info("MCP服务已停止")
	return nil
}

// Connect 在指定传输上建立一个会话
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	session, err := s.server.Connect(ctx, transport)
	if err != nil {
		return nil, errors.WrapError(errors.ErrCodeMCPServeFailed, "MCP会话建立失败", err)
	}
	return session, nil
}

// ListTypesInput list_types 参数
type ListTypesInput struct {
	Tag string `json:"tag,omitempty" jsonschema:"only list types carrying this tag"`
}

// SearchTypesInput search_types 参数
type SearchTypesInput struct {
	Query  string   `json:"query" jsonschema:"case-insensitive substring to look for"`
	Fields []string `json:"fields,omitempty" jsonschema:"fields to search: name, description, tags"`
}

// DescribeTypeInput describe_type 参数
type DescribeTypeInput struct {
	Name string `json:"name" jsonschema:"registered type name"`
}

// ConvertInput convert 参数
type ConvertInput struct {
	Name string         `json:"name" jsonschema:"registered converter name"`
	Data string         `json:"data" jsonschema:"data to convert"`
	Args map[string]any `json:"args,omitempty" jsonschema:"constructor arguments"`
}

func (s *Server) listTypes(ctx context.Context, req *mcp.ServerRequest[*mcp.CallToolParamsFor[ListTypesInput]]) (*mcp.CallToolResultFor[any], error) {
	names := s.registry.ListAll()
	if tag := req.Params.Arguments.Tag; tag != "" {
		names = s.registry.ListByTag(tag)
	}
	return jsonResult(s.views(names))
}

func (s *Server) searchTypes(ctx context.Context, req *mcp.ServerRequest[*mcp.CallToolParamsFor[SearchTypesInput]]) (*mcp.CallToolResultFor[any], error) {
	fields := req.Params.Arguments.Fields
	if fields == nil {
		fields = s.fields
	}
	return jsonResult(s.registry.Search(req.Params.Arguments.Query, fields))
}

func (s *Server) describeType(ctx context.Context, req *mcp.ServerRequest[*mcp.CallToolParamsFor[DescribeTypeInput]]) (*mcp.CallToolResultFor[any], error) {
	name := req.Params.Arguments.Name
	entry, ok := s.registry.GetInfo(name)
	if !ok {
		return errorResult(errors.NewNotFoundError(name)), nil
	}
	return jsonResult(ui.NewEntryView(entry))
}

func (s *Server) convert(ctx context.Context, req *mcp.ServerRequest[*mcp.CallToolParamsFor[ConvertInput]]) (*mcp.CallToolResultFor[any], error) {
	in := req.Params.Arguments
	instance, err := s.registry.Build(in.Name, registry.Args(in.Args))
	if err != nil {
		util.Warnw("MCP转换失败", map[string]interface{}{
			"name":       in.Name,
			"error":      err.Error(),
			"error_code": errors.GetErrorCode(err),
		})
		return errorResult(err), nil
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: instance.Convert(in.Data)}},
	}, nil
}

func (s *Server) views(names []string) []ui.EntryView {
	views := make([]ui.EntryView, 0, len(names))
	for _, name := range names {
		if entry, ok := s.registry.GetInfo(name); ok {
			views = append(views, ui.NewEntryView(entry))
		}
	}
	return views
}

func jsonResult(data any) (*mcp.CallToolResultFor[any], error) {
	text, err := json.Marshal(data)
	if err != nil {
		return nil, errors.WrapError(errors.ErrCodeInternalErr, "结果序列化失败", err)
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
	}, nil
}

func errorResult(err error) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{
			Text: fmt.Sprintf("%s: %v", errors.GetUserFriendlyMessage(err), err),
		}},
	}
}
