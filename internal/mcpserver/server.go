// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes a built course for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/search"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/writer"
)

// Server wraps the MCP server with course tools. All tools are
// read-only: the course is produced by the pipeline, never authored
// through MCP.
type Server struct {
	mcp   *server.MCPServer
	store storage.Provider
	db    *search.DB
	ext   string
}

// New creates a new MCP server with all course tools registered.
func New(store storage.Provider, db *search.DB, format string) *Server {
	s := &Server{store: store, db: db, ext: writer.Ext(format)}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_course",
		mcp.WithDescription("Full-text search through course section content and titles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchCourse)

	s.mcp.AddTool(mcp.NewTool("get_section",
		mcp.WithDescription("Read the content of a course section by its hierarchical path."),
		mcp.WithString("path", mcp.Required(),
			mcp.Description("Section path (e.g. 000-chapter/001-topic); empty for the root section")),
	), s.getSection)

	s.mcp.AddTool(mcp.NewTool("list_sections",
		mcp.WithDescription("List every section of the course with its path, title and type."),
	), s.listSections)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchCourse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path.Join(p, "content."+s.ext))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", p)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listSections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := s.db.ListSections()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(rows) == 0 {
		return mcp.NewToolResultText("no sections indexed"), nil
	}
	var lines []string
	for _, r := range rows {
		line := fmt.Sprintf("%s\t%s", r.Path, r.Title)
		if r.Type != "" {
			line += fmt.Sprintf("\t[%s]", r.Type)
		}
		lines = append(lines, line)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}
