// Package openai 把 OpenAI 兼容的 Chat Completions 服务适配成 adk 的 model.LLM
package openai

import (
	"context"
	"errors"
	"iter"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/adk/model"
)

var _ model.LLM = &ChatModel{}

var ErrNoChoices = errors.New("no choices in chat completion response")

// ChatModel 实现 model.LLM 接口
// 圆桌的回合都是单次 prompt→JSON 调用，没有流式消费方，
// 所以 stream 参数一律按一次性请求处理
type ChatModel struct {
	client    *openai.Client
	modelName string
}

// New 创建 OpenAI 兼容模型
func New(modelName string, cfg openai.ClientConfig) *ChatModel {
	return &ChatModel{
		client:    openai.NewClientWithConfig(cfg),
		modelName: modelName,
	}
}

// Name 返回模型名称
func (m *ChatModel) Name() string {
	return m.modelName
}

// GenerateContent 实现 model.LLM 接口
func (m *ChatModel) GenerateContent(ctx context.Context, req *model.LLMRequest, _ bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		openaiReq, err := toChatCompletionRequest(req, m.modelName)
		if err != nil {
			yield(nil, err)
			return
		}

		resp, err := m.client.CreateChatCompletion(ctx, openaiReq)
		if err != nil {
			yield(nil, err)
			return
		}

		llmResp, err := fromChatCompletionResponse(&resp)
		if err != nil {
			yield(nil, err)
			return
		}

		yield(llmResp, nil)
	}
}
