package models

// AI 服务提供方
const (
	AIProviderGemini = "gemini"
	AIProviderOpenAI = "openai"
)

// AIConfig 单个生成后端的配置
// 按配置顺序组成降级链：限流时换下一个，其他错误直接失败
type AIConfig struct {
	Provider  string `json:"provider"`
	ModelName string `json:"modelName"`
	APIKey    string `json:"apiKey"`
	BaseURL   string `json:"baseUrl,omitempty"`
}
