package llm

import (
	"context"
	"strings"

	go_openai "github.com/sashabaranov/go-openai"
	"google.golang.org/adk/model"
	"google.golang.org/genai"

	adapter "github.com/run-bigpig/roundtable/internal/llm/openai"
	"github.com/run-bigpig/roundtable/internal/models"
	"github.com/run-bigpig/roundtable/internal/websearch"
)

// sourceLimit 兼容后端每次补充的来源条数上限
const sourceLimit = 5

// openaiBackend OpenAI 兼容后端
// 模型本身没有检索能力，需要来源时先搜一轮，把摘要拼进 prompt
type openaiBackend struct {
	llm      model.LLM
	searcher *websearch.Client
}

// newOpenAIBackend 创建 OpenAI 兼容后端
func newOpenAIBackend(cfg models.AIConfig, searcher *websearch.Client) *openaiBackend {
	openaiCfg := go_openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		openaiCfg.BaseURL = cfg.BaseURL
	}
	return &openaiBackend{
		llm:      adapter.New(cfg.ModelName, openaiCfg),
		searcher: searcher,
	}
}

func (o *openaiBackend) Name() string {
	return o.llm.Name()
}

func (o *openaiBackend) generate(ctx context.Context, prompt string, opts Options) (*Reply, error) {
	var sources []models.Source
	if opts.Grounding && o.searcher != nil && opts.SearchQuery != "" {
		results, err := o.searcher.Search(ctx, opts.SearchQuery, sourceLimit)
		if err != nil {
			clientLog.Warn("source search failed, continuing without sources: %v", err)
		} else {
			prompt = withSearchContext(prompt, results)
			for _, r := range results {
				sources = append(sources, models.Source{URI: r.URL, Title: r.Title})
			}
		}
	}

	req := &model.LLMRequest{
		Contents: []*genai.Content{
			{Role: "user", Parts: []*genai.Part{genai.NewPartFromText(prompt)}},
		},
	}
	if opts.JSONResponse {
		req.Config = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	var result strings.Builder
	for resp, err := range o.llm.GenerateContent(ctx, req, false) {
		if err != nil {
			return nil, err
		}
		if resp != nil && resp.Content != nil {
			for _, part := range resp.Content.Parts {
				if part.Thought {
					continue
				}
				if part.Text != "" {
					result.WriteString(part.Text)
				}
			}
		}
	}

	return &Reply{Text: result.String(), Sources: sources}, nil
}

// withSearchContext 把搜索摘要拼到 prompt 前面
func withSearchContext(prompt string, results []websearch.Result) string {
	if len(results) == 0 {
		return prompt
	}

	var sb strings.Builder
	sb.WriteString("Recent web search findings for reference:\n")
	for _, r := range results {
		sb.WriteString("- ")
		sb.WriteString(r.Title)
		if r.Snippet != "" {
			sb.WriteString(": ")
			sb.WriteString(r.Snippet)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(prompt)
	return sb.String()
}
