package meeting

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/run-bigpig/roundtable/internal/llm"
	"github.com/run-bigpig/roundtable/internal/logger"
	"github.com/run-bigpig/roundtable/internal/models"
	"github.com/run-bigpig/roundtable/internal/parse"
	"github.com/run-bigpig/roundtable/internal/registry"
)

var engineLog = logger.New("meeting:engine")

// 单步调用超时
const (
	turnTimeout      = 90 * time.Second
	synthesisTimeout = 60 * time.Second
)

// Engine 单场会议的回合状态机
// ROUND_1 → ROUND_2 → ROUND_3 → SYNTHESIS → COMPLETE，
// 某轮没人提出可路由的追问时直接跳到 SYNTHESIS。
// 专家严格按受邀顺序逐个处理，游标走到人数即该轮耗尽。
// 任何一步失败都不落盘半成品：转录不追加，游标不前进，重试就是重跑同一步
type Engine struct {
	gen llm.Generator
	reg *registry.Registry

	topic  string
	goal   string
	agents []models.Agent

	phase      models.Phase
	cursor     int
	data       *models.MeetingData
	transcript []models.TranscriptItem
	startTime  time.Time

	prevSummary *models.Summary
	steering    string

	result *models.MeetingResult
}

// NewEngine 创建会议引擎
// index/total 只用于开场提示；prevSummary 和 steering 进入第一轮上下文
func NewEngine(gen llm.Generator, reg *registry.Registry, topic string, planned models.PlannedMeeting, index, total int, prevSummary *models.Summary, steering string) (*Engine, error) {
	agents := reg.Resolve(planned.AgentIDs)
	if len(agents) == 0 {
		return nil, fmt.Errorf("meeting %q has no resolvable agents", planned.Goal)
	}

	e := &Engine{
		gen:         gen,
		reg:         reg,
		topic:       topic,
		goal:        planned.Goal,
		agents:      agents,
		phase:       models.PhaseRound1,
		cursor:      0,
		data:        models.NewMeetingData(agentIDs(agents)),
		startTime:   time.Now(),
		prevSummary: prevSummary,
		steering:    steering,
	}
	e.transcript = []models.TranscriptItem{
		models.SystemItem(fmt.Sprintf("Meeting %d/%d starting. Goal: %q", index+1, total, planned.Goal)),
	}
	return e, nil
}

// restoreEngine 从持久化快照精确还原到会议中途
func restoreEngine(gen llm.Generator, reg *registry.Registry, topic string, planned models.PlannedMeeting, prevSummary *models.Summary, steering string, phase models.Phase, cursor int, data *models.MeetingData, transcript []models.TranscriptItem, startTime time.Time) (*Engine, error) {
	agents := reg.Resolve(planned.AgentIDs)
	if len(agents) == 0 {
		return nil, fmt.Errorf("meeting %q has no resolvable agents", planned.Goal)
	}
	if cursor < 0 || cursor > len(agents) {
		return nil, fmt.Errorf("agent cursor %d out of range for %d agents", cursor, len(agents))
	}

	return &Engine{
		gen:         gen,
		reg:         reg,
		topic:       topic,
		goal:        planned.Goal,
		agents:      agents,
		phase:       phase,
		cursor:      cursor,
		data:        data,
		transcript:  transcript,
		startTime:   startTime,
		prevSummary: prevSummary,
		steering:    steering,
	}, nil
}

// Phase 当前阶段
func (e *Engine) Phase() models.Phase {
	return e.phase
}

// Result 会议完成后的持久记录，未完成时为 nil
func (e *Engine) Result() *models.MeetingResult {
	return e.result
}

// Step 推进一步：一个专家回合、一次轮边界判定、或最终综合
// 返回会议是否结束
func (e *Engine) Step(ctx context.Context) (bool, error) {
	switch {
	case e.phase == models.PhaseRound1 && e.cursor < len(e.agents):
		return false, e.round1Turn(ctx)
	case e.phase == models.PhaseRound1:
		e.advanceRound(1, models.PhaseRound2)
		return false, nil

	case e.phase == models.PhaseRound2 && e.cursor < len(e.agents):
		return false, e.round2Turn(ctx)
	case e.phase == models.PhaseRound2:
		e.advanceRound(2, models.PhaseRound3)
		return false, nil

	case e.phase == models.PhaseRound3 && e.cursor < len(e.agents):
		return false, e.round3Turn(ctx)
	case e.phase == models.PhaseRound3:
		e.phase = models.PhaseSynthesis
		e.transcript = append(e.transcript, models.SystemItem("Round 3 complete. Synthesizing meeting summary..."))
		return false, nil

	case e.phase == models.PhaseSynthesis:
		if err := e.synthesize(ctx); err != nil {
			return false, err
		}
		return true, nil

	case e.phase == models.PhaseComplete:
		return true, nil
	}
	return false, fmt.Errorf("engine in unexpected phase %s", e.phase)
}

// round1Turn 第一轮回合：主发言 + 追问，带网络检索
func (e *Engine) round1Turn(ctx context.Context) error {
	agent := e.agents[e.cursor]
	prompt := round1Prompt(agent, e.topic, e.goal, e.others(agent), e.prevSummary, e.steering)

	callCtx, cancel := context.WithTimeout(ctx, turnTimeout)
	defer cancel()

	reply, err := e.gen.Generate(callCtx, prompt, llm.Options{Grounding: true, JSONResponse: true, SearchQuery: e.goal})
	if err != nil {
		return err
	}

	result, err := parse.Object[models.Round1Result](reply.Text, agent.Name)
	if err != nil {
		return err
	}
	result.Sources = reply.Sources

	// 追问在入库前就解析成参会者，点名解析不到的直接丢弃
	kept, questionItems := e.routeQuestions(agent, result.CrossQuestions)
	result.CrossQuestions = kept
	e.data.Round1[agent.ID] = result

	items := []models.TranscriptItem{
		models.SystemItem(fmt.Sprintf("Round 1: %s's turn...", agent.Name)),
		models.ResponseItem(agent.ID, "Main Answer: "+result.MainAnswer, result.Sources),
	}
	items = append(items, questionItems...)
	e.transcript = append(e.transcript, items...)
	e.cursor++
	return nil
}

// round2Turn 第二轮回合：答复第一轮的追问，可再提新追问
// 没人问到自己时只记一条系统提示，不调用生成端
func (e *Engine) round2Turn(ctx context.Context) error {
	agent := e.agents[e.cursor]
	questions := e.round1QuestionsFor(agent.Name)

	if len(questions) == 0 {
		e.transcript = append(e.transcript,
			models.SystemItem(fmt.Sprintf("Round 2: %s's turn...", agent.Name)),
			models.SystemItem(fmt.Sprintf("%s had no questions to answer.", agent.Name)),
		)
		e.cursor++
		return nil
	}

	prompt := round2Prompt(agent, e.topic, questions, e.others(agent))

	callCtx, cancel := context.WithTimeout(ctx, turnTimeout)
	defer cancel()

	reply, err := e.gen.Generate(callCtx, prompt, llm.Options{Grounding: true, JSONResponse: true, SearchQuery: e.goal})
	if err != nil {
		return err
	}

	result, err := parse.Object[models.Round2Result](reply.Text, agent.Name)
	if err != nil {
		return err
	}
	if result.Answers == nil {
		result.Answers = []models.Answer{}
	}
	result.Sources = reply.Sources

	kept, questionItems := e.routeQuestions(agent, result.CrossQuestions)
	result.CrossQuestions = kept
	e.data.Round2[agent.ID] = result

	items := []models.TranscriptItem{
		models.SystemItem(fmt.Sprintf("Round 2: %s's turn...", agent.Name)),
	}
	// 同一次调用的多条答复只在第一条上挂来源，避免重复
	for i, a := range result.Answers {
		var sources []models.Source
		if i == 0 {
			sources = result.Sources
		}
		items = append(items, models.AnswerItem(agent.ID, fmt.Sprintf("Answered: %q with %q", a.Question, a.Answer), sources))
	}
	items = append(items, questionItems...)
	e.transcript = append(e.transcript, items...)
	e.cursor++
	return nil
}

// round3Turn 终轮回合：只答不问，不带检索
func (e *Engine) round3Turn(ctx context.Context) error {
	agent := e.agents[e.cursor]
	questions := e.round2QuestionsFor(agent.Name)

	if len(questions) == 0 {
		e.transcript = append(e.transcript,
			models.SystemItem(fmt.Sprintf("Round 3: %s's turn...", agent.Name)),
			models.SystemItem(fmt.Sprintf("%s had no new questions to answer.", agent.Name)),
		)
		e.cursor++
		return nil
	}

	prompt := round3Prompt(agent, e.topic, questions)

	callCtx, cancel := context.WithTimeout(ctx, turnTimeout)
	defer cancel()

	reply, err := e.gen.Generate(callCtx, prompt, llm.Options{JSONResponse: true})
	if err != nil {
		return err
	}

	result, err := parse.Object[models.Round3Result](reply.Text, agent.Name)
	if err != nil {
		return err
	}
	if result.Answers == nil {
		result.Answers = []models.Answer{}
	}
	e.data.Round3[agent.ID] = result

	items := []models.TranscriptItem{
		models.SystemItem(fmt.Sprintf("Round 3: %s's turn...", agent.Name)),
	}
	for _, a := range result.Answers {
		items = append(items, models.AnswerItem(agent.ID, fmt.Sprintf("Final Answer: %q with %q", a.Question, a.Answer), nil))
	}
	e.transcript = append(e.transcript, items...)
	e.cursor++
	return nil
}

// advanceRound 轮边界判定：本轮有人提了可路由的追问才进下一轮，否则直接综合
func (e *Engine) advanceRound(round int, next models.Phase) {
	if e.roundRaisedQuestions(round) {
		e.phase = next
		e.cursor = 0
		e.transcript = append(e.transcript, models.SystemItem(fmt.Sprintf("Round %d complete. Starting Round %d.", round, round+1)))
		return
	}
	e.phase = models.PhaseSynthesis
	e.transcript = append(e.transcript, models.SystemItem(fmt.Sprintf("Round %d complete. No new questions raised. Proceeding to summary.", round)))
}

// synthesize 综合转录生成结构化总结，组装会议结果
func (e *Engine) synthesize(ctx context.Context) error {
	prompt := synthesisPrompt(e.topic, e.agents, e.condensedTranscript())

	callCtx, cancel := context.WithTimeout(ctx, synthesisTimeout)
	defer cancel()

	reply, err := e.gen.Generate(callCtx, prompt, llm.Options{JSONResponse: true})
	if err != nil {
		return err
	}

	summary, err := parse.Object[models.Summary](reply.Text, "synthesis agent")
	if err != nil {
		return err
	}
	summary.Normalize()

	duration := formatDuration(int(time.Since(e.startTime).Seconds()))
	e.result = &models.MeetingResult{
		Goal:       e.goal,
		AgentIDs:   agentIDs(e.agents),
		Transcript: append(slices.Clone(e.transcript), models.SystemItem("Synthesis complete.")),
		Summary:    summary,
		Duration:   duration,
	}

	e.phase = models.PhaseComplete
	e.transcript = append(e.transcript, models.SystemItem("Meeting summary complete."))
	engineLog.Info("meeting %q complete in %s", e.goal, duration)
	return nil
}

// routeQuestions 把点名追问解析为参会者，返回保留的追问和对应转录条目
func (e *Engine) routeQuestions(from models.Agent, questions []models.CrossQuestion) ([]models.CrossQuestion, []models.TranscriptItem) {
	kept := []models.CrossQuestion{}
	var items []models.TranscriptItem
	for _, q := range questions {
		target, ok := e.participantByName(q.AskExpert)
		if !ok {
			engineLog.Debug("dropping cross-question to non-participant %q", q.AskExpert)
			continue
		}
		kept = append(kept, q)
		items = append(items, models.QuestionItem(from.ID, target.ID, q.Question))
	}
	return kept, items
}

// roundRaisedQuestions 本轮是否有任何专家提出了保留下来的追问
func (e *Engine) roundRaisedQuestions(round int) bool {
	for _, a := range e.agents {
		switch round {
		case 1:
			if len(e.data.Round1[a.ID].CrossQuestions) > 0 {
				return true
			}
		case 2:
			if len(e.data.Round2[a.ID].CrossQuestions) > 0 {
				return true
			}
		}
	}
	return false
}

// round1QuestionsFor 收集第一轮里点名问到 name 的全部问题，按提问人受邀顺序
func (e *Engine) round1QuestionsFor(name string) []string {
	var questions []string
	for _, a := range e.agents {
		for _, q := range e.data.Round1[a.ID].CrossQuestions {
			if q.AskExpert == name {
				questions = append(questions, q.Question)
			}
		}
	}
	return questions
}

// round2QuestionsFor 收集第二轮里点名问到 name 的全部问题
func (e *Engine) round2QuestionsFor(name string) []string {
	var questions []string
	for _, a := range e.agents {
		for _, q := range e.data.Round2[a.ID].CrossQuestions {
			if q.AskExpert == name {
				questions = append(questions, q.Question)
			}
		}
	}
	return questions
}

// condensedTranscript 给综合用的浓缩转录：只留发言和答复，过程提示和追问是噪音
func (e *Engine) condensedTranscript() string {
	var lines []string
	for _, item := range e.transcript {
		if item.Type != models.ItemResponse && item.Type != models.ItemAnswer {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", e.reg.NameOf(item.AgentID), item.Content))
	}
	return strings.Join(lines, "\n")
}

// others 除 agent 外的其他参会专家
func (e *Engine) others(agent models.Agent) []models.Agent {
	var others []models.Agent
	for _, a := range e.agents {
		if a.ID != agent.ID {
			others = append(others, a)
		}
	}
	return others
}

// participantByName 按显示名查参会专家
func (e *Engine) participantByName(name string) (models.Agent, bool) {
	for _, a := range e.agents {
		if a.Name == name {
			return a, true
		}
	}
	return models.Agent{}, false
}

// agentIDs 提取专家 ID 列表，保持受邀顺序
func agentIDs(agents []models.Agent) []string {
	ids := make([]string, len(agents))
	for i, a := range agents {
		ids[i] = a.ID
	}
	return ids
}

// formatDuration 把秒数格式化为 "3m 24s" / "42s"
func formatDuration(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%ds", seconds)
}
