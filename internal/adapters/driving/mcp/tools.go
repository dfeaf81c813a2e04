package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer about the document"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of passages to ground the answer on (default 3)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Model   string         `json:"model"`
	Sources []SourceOutput `json:"sources"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the query to match against indexed passages"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of passages to return (default 3)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []SourceOutput `json:"results"`
	Count   int            `json:"count"`
}

// SourceOutput is a retrieved passage with its citation metadata.
type SourceOutput struct {
	Page       int     `json:"page"`
	Position   int     `json:"position"`
	Similarity float64 `json:"similarity"`
	Text       string  `json:"text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question about the indexed financial report, with page citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve the report passages most relevant to a query",
	}, s.handleRetrieve)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if _, err := s.ports.Pipeline.EnsureIngested(ctx, false); err != nil {
		return nil, AskOutput{}, err
	}

	answer, err := s.ports.Pipeline.Answer(ctx, input.Question, input.TopK)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  answer.Text,
		Model:   answer.Model,
		Sources: make([]SourceOutput, len(answer.Sources)),
	}
	for i, src := range answer.Sources {
		output.Sources[i] = SourceOutput{
			Page:       src.Chunk.Page,
			Position:   src.Chunk.Position,
			Similarity: src.Similarity,
			Text:       src.Chunk.Text,
		}
	}

	return nil, output, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	if _, err := s.ports.Pipeline.EnsureIngested(ctx, false); err != nil {
		return nil, RetrieveOutput{}, err
	}

	results, err := s.ports.Pipeline.Retrieve(ctx, input.Query, input.TopK)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Results: make([]SourceOutput, len(results)),
		Count:   len(results),
	}
	for i, res := range results {
		output.Results[i] = SourceOutput{
			Page:       res.Chunk.Page,
			Position:   res.Chunk.Position,
			Similarity: res.Similarity,
			Text:       res.Chunk.Text,
		}
	}

	return nil, output, nil
}
