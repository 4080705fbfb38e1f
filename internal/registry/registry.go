// Package registry 内置专家角色目录
// 角色定义编译期嵌入二进制，运行期只读，按 ID 查询
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/run-bigpig/roundtable/internal/models"
)

// agentsJSON 嵌入的专家目录数据
//
//go:embed agents.json
var agentsJSON []byte

// Registry 专家注册表
type Registry struct {
	agents map[string]models.Agent
	order  []string // 目录原始顺序
}

// New 从嵌入数据加载注册表
func New() (*Registry, error) {
	var list []models.Agent
	if err := json.Unmarshal(agentsJSON, &list); err != nil {
		return nil, fmt.Errorf("load agent catalogue error: %w", err)
	}

	r := &Registry{
		agents: make(map[string]models.Agent, len(list)),
		order:  make([]string, 0, len(list)),
	}
	for _, a := range list {
		if a.ID == "" || a.Name == "" {
			return nil, fmt.Errorf("agent catalogue entry missing id or name: %+v", a)
		}
		if _, dup := r.agents[a.ID]; dup {
			return nil, fmt.Errorf("duplicate agent id in catalogue: %s", a.ID)
		}
		r.agents[a.ID] = a
		r.order = append(r.order, a.ID)
	}
	return r, nil
}

// All 按目录顺序返回全部专家
func (r *Registry) All() []models.Agent {
	result := make([]models.Agent, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.agents[id])
	}
	return result
}

// Get 按 ID 获取专家
func (r *Registry) Get(id string) (models.Agent, bool) {
	a, ok := r.agents[id]
	return a, ok
}

// NameOf 按 ID 获取显示名，查不到时回退为 ID 本身
func (r *Registry) NameOf(id string) string {
	if a, ok := r.agents[id]; ok {
		return a.Name
	}
	return id
}

// Resolve 按给定顺序解析 ID 列表，未知 ID 静默跳过
func (r *Registry) Resolve(ids []string) []models.Agent {
	var result []models.Agent
	for _, id := range ids {
		if a, ok := r.agents[id]; ok {
			result = append(result, a)
		}
	}
	return result
}
