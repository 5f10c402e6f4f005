// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the portfolio catalog for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/portfolio"
)

// Resource URIs.
const (
	ProfileURI       = "folio://profile"
	CatalogFormatURI = "folio://catalog-format"
)

// Server wraps the MCP server with folio tools.
type Server struct {
	mcp *server.MCPServer
	svc *portfolio.Service
}

// New creates a new MCP server with all folio tools registered.
func New(svc *portfolio.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"folio",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_projects",
		mcp.WithDescription("Search portfolio projects by text and tags. "+
			"Text matches title, summary and tags case-insensitively; every given tag must be present. "+
			"Results are newest first."),
		mcp.WithString("query", mcp.Description("Optional text query")),
		mcp.WithArray("tags", mcp.Description("Optional tags that must all be present"), mcp.WithStringItems()),
	), s.searchProjects)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List every tag used in the catalog, sorted."),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("get_project",
		mcp.WithDescription("Get one project's metadata and write-up descriptor."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Project id")),
	), s.getProject)

	s.mcp.AddTool(mcp.NewTool("read_writeup",
		mcp.WithDescription("Read a project's write-up as Markdown. "+
			"Remote write-ups are fetched from the project's GitHub repository."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Project id")),
	), s.readWriteup)

	s.mcp.AddResource(
		mcp.NewResource(ProfileURI, "Portfolio Owner",
			mcp.WithResourceDescription("Name, role, blurb and links of the portfolio owner."),
			mcp.WithMIMEType("application/json"),
		),
		s.readProfileResource,
	)

	s.mcp.AddResource(
		mcp.NewResource(CatalogFormatURI, "Catalog Format",
			mcp.WithResourceDescription("YAML format of the project catalog."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCatalogFormatResource,
	)

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

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	tags := req.GetStringSlice("tags", nil)
	return jsonResult(s.svc.ListProjects(ctx, query, tags))
}

func (s *Server) listTags(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Tags(ctx))
}

func (s *Server) getProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.svc.GetProject(ctx, id)
	if err != nil {
		return toolError(id, err), nil
	}
	return jsonResult(p)
}

func (s *Server) readWriteup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Writeup(ctx, id)
	if err != nil {
		return toolError(id, err), nil
	}
	if res.Failed {
		return mcp.NewToolResultError(res.Error), nil
	}
	return mcp.NewToolResultText(res.Text), nil
}

func toolError(id string, err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("project not found: %s", id))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) readProfileResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(s.svc.Profile(ctx))
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ProfileURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) readCatalogFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      CatalogFormatURI,
			MIMEType: "text/markdown",
			Text:     CatalogFormatContract,
		},
	}, nil
}
