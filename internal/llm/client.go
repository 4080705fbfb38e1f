package llm

import (
	"context"
	"fmt"

	"github.com/run-bigpig/roundtable/internal/logger"
	"github.com/run-bigpig/roundtable/internal/models"
	"github.com/run-bigpig/roundtable/internal/websearch"
)

var clientLog = logger.New("llm:client")

var _ Generator = &Client{}

// Client 带降级链的生成客户端
type Client struct {
	backends []backend
}

// NewClient 按配置顺序组装降级链
func NewClient(ctx context.Context, configs []models.AIConfig, searcher *websearch.Client) (*Client, error) {
	if len(configs) == 0 {
		return nil, ErrNoBackends
	}

	backends := make([]backend, 0, len(configs))
	for _, cfg := range configs {
		b, err := newBackend(ctx, cfg, searcher)
		if err != nil {
			return nil, err
		}
		backends = append(backends, b)
	}
	return &Client{backends: backends}, nil
}

// newBackend 根据配置创建对应的后端
func newBackend(ctx context.Context, cfg models.AIConfig, searcher *websearch.Client) (backend, error) {
	switch cfg.Provider {
	case models.AIProviderGemini:
		return newGeminiBackend(ctx, cfg)
	case models.AIProviderOpenAI:
		return newOpenAIBackend(cfg, searcher), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// Generate 沿降级链执行一次生成
// 限流错误换下一个模型重试同一请求，其他错误立即失败
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (*Reply, error) {
	if len(c.backends) == 0 {
		return nil, ErrNoBackends
	}

	var lastErr error
	for _, b := range c.backends {
		reply, err := b.generate(ctx, prompt, opts)
		if err == nil {
			return reply, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isRateLimit(err) {
			return nil, fmt.Errorf("%w: model %s: %v", ErrGenerationFailed, b.Name(), err)
		}

		clientLog.Warn("model %s rate limited, falling back to next model", b.Name())
		lastErr = err
	}

	return nil, fmt.Errorf("%w: all models rate limited, last error: %v", ErrGenerationFailed, lastErr)
}
