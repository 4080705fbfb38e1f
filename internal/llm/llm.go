// Package llm 生成客户端
// 把多个生成后端组成降级链：限流换下一个模型，其他错误直接失败
package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	go_openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/run-bigpig/roundtable/internal/models"
)

var (
	ErrNoBackends       = errors.New("no generation backends configured")
	ErrGenerationFailed = errors.New("generation failed on all configured models")
)

// Options 单次生成的选项
type Options struct {
	// Grounding 要求带检索依据，回复中附引用来源
	Grounding bool
	// JSONResponse 要求模型输出 JSON
	JSONResponse bool
	// SearchQuery 无原生检索能力的后端用它补充来源
	SearchQuery string
}

// Reply 一次生成的结果
type Reply struct {
	Text    string
	Sources []models.Source
}

// Generator 生成接口，会议引擎只依赖这一个方法
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (*Reply, error)
}

// backend 单个模型后端
type backend interface {
	Name() string
	generate(ctx context.Context, prompt string, opts Options) (*Reply, error)
}

// isRateLimit 判断错误是否为限流类错误
// 限流换下一个模型，其余错误视为不可重试
func isRateLimit(err error) bool {
	var gerr genai.APIError
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests || gerr.Status == "RESOURCE_EXHAUSTED"
	}

	var oerr *go_openai.APIError
	if errors.As(err, &oerr) {
		return oerr.HTTPStatusCode == http.StatusTooManyRequests
	}

	// 字符串兜底：部分网关把限流包装成普通错误
	msg := err.Error()
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "429")
}
