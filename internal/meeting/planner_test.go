package meeting

import (
	"context"
	"errors"
	"testing"

	"github.com/run-bigpig/roundtable/internal/models"
)

// TestPlannerPlan 规划结果的清洗规则
func TestPlannerPlan(t *testing.T) {
	reg := newTestRegistry(t)

	t.Run("正常规划", func(t *testing.T) {
		gen := &fakeGen{t: t, replies: []fakeReply{
			{text: `[{"goal":"Strategy","agentIds":["product","vc"]},{"goal":"Launch","agentIds":["marketing"]}]`},
		}}
		plan, err := NewPlanner(gen, reg).Plan(context.Background(), "coffee box")
		if err != nil {
			t.Fatalf("Plan: %v", err)
		}
		if len(plan) != 2 {
			t.Fatalf("expected 2 meetings, got %d", len(plan))
		}
		if plan[0].Goal != "Strategy" || len(plan[0].AgentIDs) != 2 {
			t.Errorf("first meeting = %+v", plan[0])
		}
	})

	t.Run("未知专家静默丢弃", func(t *testing.T) {
		gen := &fakeGen{t: t, replies: []fakeReply{
			{text: `[{"goal":"Strategy","agentIds":["product","ghost","vc"]}]`},
		}}
		plan, err := NewPlanner(gen, reg).Plan(context.Background(), "topic")
		if err != nil {
			t.Fatalf("Plan: %v", err)
		}
		if len(plan[0].AgentIDs) != 2 {
			t.Errorf("agentIds = %v, want unknown id dropped", plan[0].AgentIDs)
		}
	})

	t.Run("超员截到三人", func(t *testing.T) {
		gen := &fakeGen{t: t, replies: []fakeReply{
			{text: `[{"goal":"Big","agentIds":["product","vc","marketing","tech","design"]}]`},
		}}
		plan, err := NewPlanner(gen, reg).Plan(context.Background(), "topic")
		if err != nil {
			t.Fatalf("Plan: %v", err)
		}
		if len(plan[0].AgentIDs) != models.MaxAgentsPerMeeting {
			t.Errorf("agentIds = %v, want truncated to %d", plan[0].AgentIDs, models.MaxAgentsPerMeeting)
		}
	})

	t.Run("全员未知则整场丢弃进而规划失败", func(t *testing.T) {
		gen := &fakeGen{t: t, replies: []fakeReply{
			{text: `[{"goal":"Ghosts","agentIds":["ghost1","ghost2"]}]`},
		}}
		_, err := NewPlanner(gen, reg).Plan(context.Background(), "topic")
		if !errors.Is(err, ErrPlanningFailed) {
			t.Errorf("err = %v, want ErrPlanningFailed", err)
		}
	})

	t.Run("生成失败报规划失败", func(t *testing.T) {
		gen := &fakeGen{t: t, replies: []fakeReply{{err: errors.New("backend down")}}}
		_, err := NewPlanner(gen, reg).Plan(context.Background(), "topic")
		if !errors.Is(err, ErrPlanningFailed) {
			t.Errorf("err = %v, want ErrPlanningFailed", err)
		}
	})

	t.Run("结果不是合法 JSON 报规划失败", func(t *testing.T) {
		gen := &fakeGen{t: t, replies: []fakeReply{{text: "I cannot plan this."}}}
		_, err := NewPlanner(gen, reg).Plan(context.Background(), "topic")
		if !errors.Is(err, ErrPlanningFailed) {
			t.Errorf("err = %v, want ErrPlanningFailed", err)
		}
	})

	t.Run("空议题直接拒绝", func(t *testing.T) {
		gen := &fakeGen{t: t}
		_, err := NewPlanner(gen, reg).Plan(context.Background(), "   ")
		if !errors.Is(err, ErrPlanningFailed) {
			t.Errorf("err = %v, want ErrPlanningFailed", err)
		}
	})

	t.Run("超过四场只保留前四场", func(t *testing.T) {
		gen := &fakeGen{t: t, replies: []fakeReply{
			{text: `[
				{"goal":"m1","agentIds":["product"]},
				{"goal":"m2","agentIds":["vc"]},
				{"goal":"m3","agentIds":["marketing"]},
				{"goal":"m4","agentIds":["tech"]},
				{"goal":"m5","agentIds":["design"]}
			]`},
		}}
		plan, err := NewPlanner(gen, reg).Plan(context.Background(), "topic")
		if err != nil {
			t.Fatalf("Plan: %v", err)
		}
		if len(plan) != maxMeetings {
			t.Errorf("expected %d meetings, got %d", maxMeetings, len(plan))
		}
	})
}
