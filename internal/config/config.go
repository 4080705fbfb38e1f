// Package config 运行配置
// 默认配置文件在用户配置目录下，环境变量随时覆盖文件里的密钥
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/run-bigpig/roundtable/internal/models"
	"github.com/run-bigpig/roundtable/internal/pkg/paths"
)

// 默认的 Gemini 降级链
const (
	DefaultModel         = "gemini-2.5-flash"
	DefaultFallbackModel = "gemini-2.5-flash-lite"
	DefaultOpenAIModel   = "gpt-4o-mini"
)

// Config 全局运行配置
type Config struct {
	// Backends 生成后端降级链，按顺序尝试
	Backends []models.AIConfig `json:"backends"`
	// HistoryLimit 历史列表条数上限，0 用默认值
	HistoryLimit int `json:"historyLimit,omitempty"`
}

// FilePath 配置文件路径
func FilePath() string {
	return filepath.Join(paths.GetDataDir(), "config.json")
}

// Load 读取配置：文件存在则解析，否则用默认值；环境变量最后覆盖
func Load() (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(FilePath())
	if err == nil {
		var fileCfg Config
		if err := json.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parse config file error: %w", err)
		}
		if len(fileCfg.Backends) > 0 {
			cfg.Backends = fileCfg.Backends
		}
		if fileCfg.HistoryLimit > 0 {
			cfg.HistoryLimit = fileCfg.HistoryLimit
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file error: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save 写回配置文件
func (c *Config) Save() error {
	if _, err := paths.EnsureDir(paths.GetDataDir()); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(FilePath(), data, 0600)
}

// Validate 至少要有一个配好密钥的后端
func (c *Config) Validate() error {
	for _, b := range c.Backends {
		if b.APIKey != "" {
			return nil
		}
	}
	return fmt.Errorf("no generation backend has an API key; set GEMINI_API_KEY or edit %s", FilePath())
}

func defaultConfig() *Config {
	cfg := &Config{
		Backends: []models.AIConfig{
			{Provider: models.AIProviderGemini, ModelName: DefaultModel},
			{Provider: models.AIProviderGemini, ModelName: DefaultFallbackModel},
		},
	}
	// 配了 OpenAI 密钥就挂到链尾兜底
	if os.Getenv("OPENAI_API_KEY") != "" {
		modelName := os.Getenv("OPENAI_MODEL")
		if modelName == "" {
			modelName = DefaultOpenAIModel
		}
		cfg.Backends = append(cfg.Backends, models.AIConfig{
			Provider:  models.AIProviderOpenAI,
			ModelName: modelName,
		})
	}
	return cfg
}

// applyEnv 环境变量覆盖文件配置里的空密钥
func (c *Config) applyEnv() {
	geminiKey := os.Getenv("GEMINI_API_KEY")
	openaiKey := os.Getenv("OPENAI_API_KEY")
	openaiBase := os.Getenv("OPENAI_BASE_URL")

	for i := range c.Backends {
		switch c.Backends[i].Provider {
		case models.AIProviderGemini:
			if c.Backends[i].APIKey == "" {
				c.Backends[i].APIKey = geminiKey
			}
		case models.AIProviderOpenAI:
			if c.Backends[i].APIKey == "" {
				c.Backends[i].APIKey = openaiKey
			}
			if c.Backends[i].BaseURL == "" {
				c.Backends[i].BaseURL = openaiBase
			}
		}
	}
}
