package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/modfsm"
	"github.com/aretw0/modfsm/internal/presentation/graph"
	"github.com/aretw0/modfsm/internal/presentation/tui"
	"github.com/aretw0/modfsm/pkg/domain"
	"github.com/aretw0/modfsm/pkg/modulo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Engine defines what the MCP server needs from the modfsm engine.
type Engine interface {
	Construct(ctx context.Context, modulus int) (*modulo.Automaton, error)
	ModulusOf(ctx context.Context, modulus int, input string) (int, error)
}

// RemainderArgs are the arguments of the remainder tool.
type RemainderArgs struct {
	Modulus int    `json:"modulus"`
	Input   string `json:"input"`
}

// RemainderResult is the structured output of the remainder tool.
type RemainderResult struct {
	Modulus   int    `json:"modulus" jsonschema_description:"The modulus the input was reduced by"`
	Input     string `json:"input" jsonschema_description:"The binary string that was evaluated"`
	Remainder int    `json:"remainder" jsonschema_description:"The value of input modulo modulus"`
}

// DescribeArgs are the arguments of the describe_automaton tool.
type DescribeArgs struct {
	Modulus int    `json:"modulus"`
	Format  string `json:"format,omitempty"`
	Input   string `json:"input,omitempty"`
}

// Server wraps the modfsm Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("modfsm-mcp", strings.TrimSpace(modfsm.Version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	remainderTool := mcp.NewTool("remainder",
		mcp.WithDescription("Compute the remainder of a binary number divided by a modulus greater than 1, using a finite automaton. Works for arbitrarily long inputs."),
		mcp.WithNumber("modulus", mcp.Required(), mcp.Description("Integer modulus, greater than 1")),
		mcp.WithString("input", mcp.Required(), mcp.Description("Binary digits, e.g. 1101")),
		mcp.WithOutputSchema[RemainderResult](),
	)
	s.mcpServer.AddTool(remainderTool, mcp.NewStructuredToolHandler(s.handleRemainder))

	describeTool := mcp.NewTool("describe_automaton",
		mcp.WithDescription("Describe the residue automaton for a modulus as a markdown transition table or a Mermaid diagram."),
		mcp.WithNumber("modulus", mcp.Required(), mcp.Description("Integer modulus, greater than 1")),
		mcp.WithString("format", mcp.Enum("table", "mermaid"), mcp.Description("Output format (default: table)")),
		mcp.WithString("input", mcp.Description("Optional binary input whose path is highlighted in the Mermaid diagram")),
	)
	s.mcpServer.AddTool(describeTool, mcp.NewTypedToolHandler(s.handleDescribe))
}

func (s *Server) handleRemainder(ctx context.Context, request mcp.CallToolRequest, args RemainderArgs) (RemainderResult, error) {
	rem, err := s.engine.ModulusOf(ctx, args.Modulus, args.Input)
	if err != nil {
		return RemainderResult{}, err
	}
	return RemainderResult{Modulus: args.Modulus, Input: args.Input, Remainder: rem}, nil
}

func (s *Server) handleDescribe(ctx context.Context, request mcp.CallToolRequest, args DescribeArgs) (*mcp.CallToolResult, error) {
	a, err := s.engine.Construct(ctx, args.Modulus)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch args.Format {
	case "", "table":
		return mcp.NewToolResultText(tui.TransitionTable(a.Definition())), nil
	case "mermaid":
		var overlay *graph.GraphOverlay
		if args.Input != "" {
			path, err := a.Trace(args.Input)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			states := make([]domain.State, len(path))
			for i, p := range path {
				states[i] = domain.State(p)
			}
			overlay = graph.OverlayFromPath(states)
		}
		return mcp.NewToolResultText(graph.GenerateMermaid(a.Definition(), overlay)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", args.Format)), nil
	}
}
