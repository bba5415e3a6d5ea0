// Package mcpserver exposes the graph builder as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/revelaction/mindmap/builder"
	"github.com/revelaction/mindmap/graph"
	"github.com/revelaction/mindmap/stat"
	"github.com/revelaction/mindmap/storage"
)

type BuildArgs struct {
	Text string `json:"text" jsonschema:"The text to turn into a mind map"`
	Mode string `json:"mode,omitempty" jsonschema:"Extraction mode: token-role (default), noun-phrase or dependency"`
	Name string `json:"name,omitempty" jsonschema:"If set, store the graph under this name"`
}

type StatsArgs struct {
	Text string `json:"text" jsonschema:"The text to analyze"`
	Mode string `json:"mode,omitempty" jsonschema:"Extraction mode: token-role (default), noun-phrase or dependency"`
}

type GetGraphArgs struct {
	Name string `json:"name" jsonschema:"The name of a stored graph"`
}

type ListGraphsArgs struct{}

type Server struct {
	mcpServer *mcp.Server
	builder   *builder.Builder
	graphs    storage.GraphRepository
	logger    *zap.Logger
}

// New creates the MCP server. graphs may be nil, then the graph tools are not
// registered.
func New(b *builder.Builder, graphs storage.GraphRepository, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: "mindmap", Version: version}, nil),
		builder:   b,
		graphs:    graphs,
		logger:    logger,
	}

	s.registerTools()
	return s
}

// MCP returns the underlying server, to connect it to a transport.
func (s *Server) MCP() *mcp.Server {
	return s.mcpServer
}

// Run serves over stdin/stdout until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server running on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "build_mindmap",
		Description: "Builds a mind map graph from text and returns it as JSON nodes and edges",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args BuildArgs) (*mcp.CallToolResult, any, error) {
		g, err := s.build(ctx, args.Text, args.Mode)
		if err != nil {
			return errorResult(err), nil, nil
		}

		if args.Name != "" {
			if s.graphs == nil {
				return errorResult(errors.New("no graph repository configured")), nil, nil
			}

			if err := s.graphs.WriteGraph(args.Name, g); err != nil {
				return errorResult(err), nil, nil
			}
		}

		return jsonResult(graph.ToPortable(g))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "mindmap_stats",
		Description: "Builds a mind map from text and returns its statistics: nodes per role, edges per label, roots",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args StatsArgs) (*mcp.CallToolResult, any, error) {
		g, err := s.build(ctx, args.Text, args.Mode)
		if err != nil {
			return errorResult(err), nil, nil
		}

		return jsonResult(stat.Graph(g))
	})

	if s.graphs == nil {
		return
	}

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_mindmaps",
		Description: "Lists the names of the stored mind maps",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListGraphsArgs) (*mcp.CallToolResult, any, error) {
		names, err := s.graphs.ListGraphs()
		if err != nil {
			return errorResult(err), nil, nil
		}

		if names == nil {
			names = []string{}
		}

		return jsonResult(names)
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_mindmap",
		Description: "Returns a stored mind map as JSON nodes and edges",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetGraphArgs) (*mcp.CallToolResult, any, error) {
		g, err := s.graphs.ReadGraph(args.Name)
		if err != nil {
			return errorResult(err), nil, nil
		}

		return jsonResult(graph.ToPortable(g))
	})
}

func (s *Server) build(ctx context.Context, text, mode string) (*graph.Graph, error) {
	m := s.builder.Mode()
	if mode != "" {
		m = builder.Mode(mode)
	}

	g, err := s.builder.BuildMode(ctx, text, m)
	if err != nil {
		s.logger.Warn("build failed", zap.String("mode", string(m)), zap.Error(err))
		return nil, err
	}

	return g, nil
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, err
	}

	return textResult(string(jsonBytes)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)}},
		IsError: true,
	}
}
