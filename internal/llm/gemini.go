package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/run-bigpig/roundtable/internal/models"
)

// geminiBackend 直连 Gemini API
// 直连而不走 adk 是为了拿 GroundingMetadata：检索依据只在原始响应里
type geminiBackend struct {
	client    *genai.Client
	modelName string
}

// newGeminiBackend 创建 Gemini 后端
func newGeminiBackend(ctx context.Context, cfg models.AIConfig) (*geminiBackend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client error: %w", err)
	}
	return &geminiBackend{client: client, modelName: cfg.ModelName}, nil
}

func (g *geminiBackend) Name() string {
	return g.modelName
}

func (g *geminiBackend) generate(ctx context.Context, prompt string, opts Options) (*Reply, error) {
	config := &genai.GenerateContentConfig{}
	// Gemini 不允许 JSON 输出和检索工具同时开启，检索优先
	if opts.Grounding {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	} else if opts.JSONResponse {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return nil, err
	}

	return &Reply{
		Text:    resp.Text(),
		Sources: extractSources(resp),
	}, nil
}

// extractSources 从 grounding metadata 中提取引用来源
func extractSources(resp *genai.GenerateContentResponse) []models.Source {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	var sources []models.Source
	seen := make(map[string]bool)
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		sources = append(sources, models.Source{
			URI:   chunk.Web.URI,
			Title: chunk.Web.Title,
		})
	}
	return sources
}
