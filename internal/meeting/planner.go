package meeting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/run-bigpig/roundtable/internal/llm"
	"github.com/run-bigpig/roundtable/internal/logger"
	"github.com/run-bigpig/roundtable/internal/models"
	"github.com/run-bigpig/roundtable/internal/parse"
	"github.com/run-bigpig/roundtable/internal/registry"
)

var plannerLog = logger.New("meeting:planner")

// maxMeetings 一个项目最多拆成几场会议
const maxMeetings = 4

// planTimeout 规划调用超时
const planTimeout = 60 * time.Second

// Planner 会议规划器
// 把项目议题拆成 1-4 场目标递进的会议，每场至多 3 位专家
type Planner struct {
	gen llm.Generator
	reg *registry.Registry
}

// NewPlanner 创建规划器
func NewPlanner(gen llm.Generator, reg *registry.Registry) *Planner {
	return &Planner{gen: gen, reg: reg}
}

// Plan 为议题生成会议序列
// 生成失败或校验后一场会议都不剩时报 ErrPlanningFailed
func (p *Planner) Plan(ctx context.Context, topic string) ([]models.PlannedMeeting, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("%w: topic is empty", ErrPlanningFailed)
	}

	prompt := planPrompt(topic, p.reg.All())

	callCtx, cancel := context.WithTimeout(ctx, planTimeout)
	defer cancel()

	reply, err := p.gen.Generate(callCtx, prompt, llm.Options{JSONResponse: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanningFailed, err)
	}

	raw, err := parse.Object[[]models.PlannedMeeting](reply.Text, "planning agent")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanningFailed, err)
	}

	plan := p.validate(raw)
	if len(plan) == 0 {
		return nil, fmt.Errorf("%w: no valid meetings in plan", ErrPlanningFailed)
	}

	plannerLog.Info("planned %d meeting(s) for topic %q", len(plan), topic)
	return plan, nil
}

// validate 清洗规划结果：
// 未知专家 ID 静默丢弃，超员截到上限，没有有效专家或目标为空的会议整场丢弃
func (p *Planner) validate(raw []models.PlannedMeeting) []models.PlannedMeeting {
	var plan []models.PlannedMeeting
	for _, m := range raw {
		if strings.TrimSpace(m.Goal) == "" {
			plannerLog.Warn("dropping meeting with empty goal")
			continue
		}

		var ids []string
		for _, id := range m.AgentIDs {
			if _, ok := p.reg.Get(id); !ok {
				plannerLog.Warn("dropping unknown agent id %q from plan", id)
				continue
			}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			plannerLog.Warn("dropping meeting %q with no valid agents", m.Goal)
			continue
		}
		if len(ids) > models.MaxAgentsPerMeeting {
			plannerLog.Warn("meeting %q has %d agents, truncating to %d", m.Goal, len(ids), models.MaxAgentsPerMeeting)
			ids = ids[:models.MaxAgentsPerMeeting]
		}

		plan = append(plan, models.PlannedMeeting{Goal: m.Goal, AgentIDs: ids})
		if len(plan) == maxMeetings {
			break
		}
	}
	return plan
}
