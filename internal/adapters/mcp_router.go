package adapters

import (
	"context"
	"fmt"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/genai"

	"github.com/ternarybob/syntari-kernel/internal/config"
	"github.com/ternarybob/syntari-kernel/internal/logger"
)

// MCPRouter is the network-backed AiRouter: library documentation is
// resolved through an external MCP docs server (the config.Ai
// MCPDocsEndpoint, following the context7-style resolve/get-docs tool
// pair), generation goes through the Gemini SDK using the configured
// default provider's model. Any failure degrades to the mock so the
// envelope contract is always honored, mirroring the teacher's
// ordered multi-provider fallback collapsed to a single live backend.
type MCPRouter struct {
	cfg      config.AiConfig
	fallback AiRouter
	gen      *genai.Client
	timeout  time.Duration
}

// NewMCPRouter builds a router from cfg. If no Gemini API key is
// configured, Generate always falls back to the mock; docs resolution
// still works if an MCP endpoint is set independently.
func NewMCPRouter(cfg config.AiConfig) *MCPRouter {
	r := &MCPRouter{cfg: cfg, fallback: NewMockRouter(), timeout: 20 * time.Second}

	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			logger.GetLogger().Warn().Err(err).Msg("gemini client init failed, ai router falls back to mock")
		} else {
			r.gen = client
		}
	}
	return r
}

func (r *MCPRouter) ResolveLibraryID(ctx context.Context, name string) ([]Library, error) {
	if r.cfg.MCPDocsEndpoint == "" {
		return r.fallback.ResolveLibraryID(ctx, name)
	}

	c, err := mcpclient.NewSSEMCPClient(r.cfg.MCPDocsEndpoint)
	if err != nil {
		logger.GetLogger().Warn().Err(err).Str("endpoint", r.cfg.MCPDocsEndpoint).Msg("mcp docs client dial failed, falling back to mock")
		return r.fallback.ResolveLibraryID(ctx, name)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := c.Start(ctx); err != nil {
		return r.fallback.ResolveLibraryID(ctx, name)
	}
	if _, err := c.Initialize(ctx, mcp.InitializeRequest{}); err != nil {
		return r.fallback.ResolveLibraryID(ctx, name)
	}

	result, err := c.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "resolve-library-id",
			Arguments: map[string]any{"libraryName": name},
		},
	})
	if err != nil || result == nil {
		return r.fallback.ResolveLibraryID(ctx, name)
	}

	out := make([]Library, 0, len(result.Content))
	for _, item := range result.Content {
		if text, ok := mcp.AsTextContent(item); ok {
			out = append(out, Library{ID: text.Text, Name: name})
		}
	}
	if len(out) == 0 {
		return r.fallback.ResolveLibraryID(ctx, name)
	}
	return out, nil
}

func (r *MCPRouter) GetLibraryDocs(ctx context.Context, id, topic string, maxTokens int) (string, error) {
	if r.cfg.MCPDocsEndpoint == "" {
		return r.fallback.GetLibraryDocs(ctx, id, topic, maxTokens)
	}

	c, err := mcpclient.NewSSEMCPClient(r.cfg.MCPDocsEndpoint)
	if err != nil {
		return r.fallback.GetLibraryDocs(ctx, id, topic, maxTokens)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := c.Start(ctx); err != nil {
		return r.fallback.GetLibraryDocs(ctx, id, topic, maxTokens)
	}
	if _, err := c.Initialize(ctx, mcp.InitializeRequest{}); err != nil {
		return r.fallback.GetLibraryDocs(ctx, id, topic, maxTokens)
	}

	result, err := c.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "get-library-docs",
			Arguments: map[string]any{
				"context7CompatibleLibraryID": id,
				"topic":                       topic,
				"tokens":                      maxTokens,
			},
		},
	})
	if err != nil || result == nil || len(result.Content) == 0 {
		return r.fallback.GetLibraryDocs(ctx, id, topic, maxTokens)
	}

	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		return r.fallback.GetLibraryDocs(ctx, id, topic, maxTokens)
	}
	return text.Text, nil
}

func (r *MCPRouter) Generate(ctx context.Context, req GenerateRequest) (ConsensusResult, error) {
	if r.gen == nil {
		return r.fallback.Generate(ctx, req)
	}

	model := r.cfg.GeminiModel
	if model == "" {
		model = "gemini-2.0-flash"
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		cfg.Temperature = &temp
	}

	result, err := r.gen.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), cfg)
	if err != nil {
		logger.GetLogger().Warn().Err(err).Str("model", model).Msg("ai generate failed, falling back to mock")
		return r.fallback.Generate(ctx, req)
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return r.fallback.Generate(ctx, req)
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text += part.Text
		}
	}
	if text == "" {
		return r.fallback.Generate(ctx, req)
	}

	return ConsensusResult{
		Best:       text,
		Confidence: 0.8,
		Provider:   fmt.Sprintf("gemini:%s", model),
	}, nil
}
