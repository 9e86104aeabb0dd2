// Package mcpserver exposes outline extraction as a Model Context Protocol
// tool over stdio.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dgallion1/docoutline/internal/pipeline"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for docoutline.
type Server struct {
	extractor *pipeline.Extractor
	server    *mcp.Server
}

// NewServer creates an MCP server backed by ex.
func NewServer(ex *pipeline.Extractor) (*Server, error) {
	if ex == nil {
		return nil, errors.New("mcp server: extractor is required")
	}
	impl := &mcp.Implementation{
		Name:    "docoutline",
		Version: Version,
	}
	s := &Server{
		extractor: ex,
		server:    mcp.NewServer(impl, nil),
	}
	s.registerTools()
	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// ExtractInput is the input schema for the extract_outline tool.
type ExtractInput struct {
	Path string `json:"path" jsonschema:"path to a PDF, Markdown, HTML, DOCX or text document"`
}

// ExtractOutput is the output schema for the extract_outline tool.
type ExtractOutput struct {
	Title   string         `json:"title"`
	Outline []OutlineEntry `json:"outline"`
	Source  string         `json:"source"`
	Cached  bool           `json:"cached"`
}

// OutlineEntry is one heading. Level is spelled out ("H1".."H3") so the
// inferred schema matches the encoded value.
type OutlineEntry struct {
	Level string `json:"level" jsonschema:"heading level, H1 to H3"`
	Text  string `json:"text"`
	Page  int    `json:"page" jsonschema:"1-based page number"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_outline",
		Description: "Extract the title and H1-H3 heading outline of a document, with 1-based page numbers",
	}, s.handleExtract)
}

func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	if input.Path == "" {
		return nil, ExtractOutput{}, errors.New("path is required")
	}
	data, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, ExtractOutput{}, fmt.Errorf("reading document: %w", err)
	}

	ex, err := s.extractor.Extract(ctx, filepath.Base(input.Path), data)
	if err != nil {
		return nil, ExtractOutput{}, err
	}
	entries := make([]OutlineEntry, len(ex.Outline.Outline))
	for i, e := range ex.Outline.Outline {
		entries[i] = OutlineEntry{Level: e.Level.String(), Text: e.Text, Page: e.Page}
	}
	return nil, ExtractOutput{
		Title:   ex.Outline.Title,
		Outline: entries,
		Source:  string(ex.Source),
		Cached:  ex.Cached,
	}, nil
}
