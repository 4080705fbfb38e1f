package meeting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/run-bigpig/roundtable/internal/llm"
	"github.com/run-bigpig/roundtable/internal/logger"
	"github.com/run-bigpig/roundtable/internal/models"
	"github.com/run-bigpig/roundtable/internal/parse"
	"github.com/run-bigpig/roundtable/internal/registry"
	"github.com/run-bigpig/roundtable/internal/store"
)

var seriesLog = logger.New("meeting:series")

// DefaultSettleDelay 自动推进时两步之间的间隔，给展示层留渲染时间
const DefaultSettleDelay = time.Second

// Series 会议系列控制器
// 按规划顺序把每场会议交给引擎跑完，在会议之间收用户补充说明，
// 全部会议结束后做跨会议综合。唯一的状态持有者：
// 每次状态迁移后都把完整快照写进存档，崩溃后可以从会议中途精确恢复
type Series struct {
	gen    llm.Generator
	reg    *registry.Registry
	st     store.Store
	plnr   *Planner
	settle time.Duration

	item   *models.HistoryItem
	engine *Engine
}

// NewSeries 创建系列控制器，st 可为 nil（不持久化）
func NewSeries(gen llm.Generator, reg *registry.Registry, st store.Store) *Series {
	return &Series{
		gen:    gen,
		reg:    reg,
		st:     st,
		plnr:   NewPlanner(gen, reg),
		settle: DefaultSettleDelay,
	}
}

// SetSettleDelay 调整自动推进间隔，测试里设为 0
func (s *Series) SetSettleDelay(d time.Duration) {
	s.settle = d
}

// Item 当前项目快照
func (s *Series) Item() *models.HistoryItem {
	return s.item
}

// Phase 当前阶段
func (s *Series) Phase() models.Phase {
	if s.item == nil {
		return ""
	}
	return s.item.Phase
}

// Transcript 当前会议的实时转录
func (s *Series) Transcript() []models.TranscriptItem {
	if s.engine == nil {
		return nil
	}
	return s.engine.transcript
}

// Plan 创建项目并生成会议规划，成功后进入 PLAN_REVIEW
func (s *Series) Plan(ctx context.Context, topic string) (*models.HistoryItem, error) {
	s.item = &models.HistoryItem{
		ID:             uuid.NewString(),
		Topic:          topic,
		Date:           time.Now(),
		Status:         models.StatusInProgress,
		Phase:          models.PhasePlanning,
		MeetingResults: []models.MeetingResult{},
	}

	plan, err := s.plnr.Plan(ctx, topic)
	if err != nil {
		return nil, err
	}

	s.item.MeetingPlan = plan
	s.item.Phase = models.PhasePlanReview
	if err := s.save(); err != nil {
		return nil, err
	}
	return s.item, nil
}

// StartSeries 确认规划，从第一场会议开始
func (s *Series) StartSeries() error {
	if s.item == nil || len(s.item.MeetingPlan) == 0 {
		return fmt.Errorf("no meeting plan to start")
	}

	s.item.MeetingResults = []models.MeetingResult{}
	s.item.FinalSummary = nil
	s.item.PendingSteering = ""
	return s.setupMeeting(0)
}

// setupMeeting 重置单场会议状态并进入 ROUND_1
func (s *Series) setupMeeting(index int) error {
	planned := s.item.MeetingPlan[index]

	var prevSummary *models.Summary
	if index > 0 && len(s.item.MeetingResults) >= index {
		prevSummary = &s.item.MeetingResults[index-1].Summary
	}

	engine, err := NewEngine(s.gen, s.reg, s.item.Topic, planned, index, len(s.item.MeetingPlan), prevSummary, s.item.PendingSteering)
	if err != nil {
		return err
	}

	s.engine = engine
	s.item.CurrentMeetingIndex = index
	s.syncSnapshot()
	seriesLog.Info("meeting %d/%d started: %s", index+1, len(s.item.MeetingPlan), planned.Goal)
	return s.save()
}

// Step 推进一步并持久化
// 失败时快照保持失败前的位置，重试会重跑完全相同的一步
func (s *Series) Step(ctx context.Context) (models.Phase, error) {
	if s.item == nil {
		return "", fmt.Errorf("no project in progress")
	}

	switch {
	case s.item.Phase.InRound() || s.item.Phase == models.PhaseSynthesis:
		done, err := s.engine.Step(ctx)
		if err != nil {
			return s.item.Phase, err
		}
		if done {
			s.finishMeeting()
		} else {
			s.syncSnapshot()
		}
		return s.item.Phase, s.save()

	case s.item.Phase == models.PhaseFinalSynthesis:
		if err := s.finalSynthesis(ctx); err != nil {
			return s.item.Phase, err
		}
		return s.item.Phase, s.save()

	case s.item.Phase == models.PhaseAwaitingUserInput:
		// 等外部调用 SubmitUserInput，自动推进在这里停
		return s.item.Phase, nil

	case s.item.Phase == models.PhaseFinalComplete:
		return s.item.Phase, nil
	}
	return s.item.Phase, fmt.Errorf("cannot step in phase %s", s.item.Phase)
}

// finishMeeting 收取会议结果，决定等用户输入还是进入最终综合
func (s *Series) finishMeeting() {
	s.item.MeetingResults = append(s.item.MeetingResults, *s.engine.Result())
	s.clearSnapshot()

	if s.item.CurrentMeetingIndex == len(s.item.MeetingPlan)-1 {
		s.item.Phase = models.PhaseFinalSynthesis
	} else {
		s.item.Phase = models.PhaseAwaitingUserInput
	}
}

// SubmitUserInput 收下会议之间的用户补充说明（可为空），开启下一场会议
// 补充说明同时记到刚结束的会议上、并作为下一场第一轮的引导上下文
func (s *Series) SubmitUserInput(text string) error {
	if s.item == nil || s.item.Phase != models.PhaseAwaitingUserInput {
		return fmt.Errorf("not awaiting user input")
	}

	s.item.MeetingResults[len(s.item.MeetingResults)-1].UserFeedback = text
	s.item.PendingSteering = text
	return s.setupMeeting(s.item.CurrentMeetingIndex + 1)
}

// finalSynthesis 跨会议综合，产出最终项目报告
func (s *Series) finalSynthesis(ctx context.Context) error {
	prompt := finalPrompt(s.item.Topic, s.item.MeetingResults)

	callCtx, cancel := context.WithTimeout(ctx, synthesisTimeout)
	defer cancel()

	reply, err := s.gen.Generate(callCtx, prompt, llm.Options{JSONResponse: true})
	if err != nil {
		return err
	}

	final, err := parse.Object[models.FinalSummary](reply.Text, "final synthesis agent")
	if err != nil {
		return err
	}
	final.Normalize()

	s.item.FinalSummary = &final
	s.item.Phase = models.PhaseFinalComplete
	s.item.Status = models.StatusCompleted
	seriesLog.Info("final report ready for project %s", s.item.ID)
	return nil
}

// Run 自动推进到结束
// 到 AWAITING_USER_INPUT 时调 input 取补充说明；input 为 nil 则就地返回，
// 留给调用方稍后 Resume。每步之间留 settle 间隔
func (s *Series) Run(ctx context.Context, input func(context.Context) (string, error)) error {
	for {
		switch s.Phase() {
		case models.PhaseFinalComplete:
			return nil

		case models.PhaseAwaitingUserInput:
			if input == nil {
				return nil
			}
			text, err := input(ctx)
			if err != nil {
				return err
			}
			if err := s.SubmitUserInput(text); err != nil {
				return err
			}

		default:
			if _, err := s.Step(ctx); err != nil {
				return err
			}
		}

		if s.settle > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.settle):
			}
		}
	}
}

// Resume 从存档精确恢复
// 缺字段就报 ErrResumeInconsistency，绝不补造状态
func (s *Series) Resume(item *models.HistoryItem) error {
	if item == nil || item.ID == "" {
		return fmt.Errorf("%w: empty history item", ErrResumeInconsistency)
	}

	s.item = item
	s.engine = nil

	switch {
	case item.Phase == models.PhaseFinalComplete:
		if item.FinalSummary == nil {
			return fmt.Errorf("%w: final phase without final summary", ErrResumeInconsistency)
		}
		return nil

	case item.Phase == models.PhaseFinalSynthesis:
		if len(item.MeetingResults) == 0 {
			return fmt.Errorf("%w: final synthesis without meeting results", ErrResumeInconsistency)
		}
		return nil

	case item.Phase == models.PhaseAwaitingUserInput:
		if len(item.MeetingPlan) == 0 || len(item.MeetingResults) == 0 {
			return fmt.Errorf("%w: awaiting input without plan or results", ErrResumeInconsistency)
		}
		return nil

	case item.Phase == models.PhasePlanReview:
		if len(item.MeetingPlan) == 0 {
			return fmt.Errorf("%w: plan review without meeting plan", ErrResumeInconsistency)
		}
		return nil

	case item.Phase.InRound() || item.Phase == models.PhaseSynthesis:
		return s.resumeMidMeeting(item)
	}

	// 早期存档没有运行时阶段，只能按会议边界恢复
	return s.resumeAtBoundary(item)
}

// resumeMidMeeting 从会议中途的快照还原引擎
func (s *Series) resumeMidMeeting(item *models.HistoryItem) error {
	if len(item.MeetingPlan) == 0 {
		return fmt.Errorf("%w: meeting plan missing", ErrResumeInconsistency)
	}
	idx := item.CurrentMeetingIndex
	if idx < 0 || idx >= len(item.MeetingPlan) {
		return fmt.Errorf("%w: meeting index %d out of range", ErrResumeInconsistency, idx)
	}
	if item.CurrentMeetingData == nil || len(item.CurrentTranscript) == 0 || item.CurrentMeetingStartTime == nil {
		return fmt.Errorf("%w: mid-meeting snapshot incomplete", ErrResumeInconsistency)
	}

	var prevSummary *models.Summary
	if idx > 0 && len(item.MeetingResults) >= idx {
		prevSummary = &item.MeetingResults[idx-1].Summary
	}

	engine, err := restoreEngine(s.gen, s.reg, item.Topic, item.MeetingPlan[idx], prevSummary, item.PendingSteering,
		item.Phase, item.CurrentAgentIndex, item.CurrentMeetingData, item.CurrentTranscript, *item.CurrentMeetingStartTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResumeInconsistency, err)
	}
	s.engine = engine
	seriesLog.Info("resumed project %s at meeting %d, phase %s, agent %d", item.ID, idx+1, item.Phase, item.CurrentAgentIndex)
	return nil
}

// resumeAtBoundary 按已完成会议数推断恢复点
func (s *Series) resumeAtBoundary(item *models.HistoryItem) error {
	if len(item.MeetingPlan) == 0 {
		return fmt.Errorf("%w: meeting plan missing", ErrResumeInconsistency)
	}

	done := len(item.MeetingResults)
	if done < len(item.MeetingPlan) {
		return s.setupMeeting(done)
	}
	if item.FinalSummary != nil {
		item.Phase = models.PhaseFinalComplete
		return nil
	}
	item.Phase = models.PhaseFinalSynthesis
	return nil
}

// syncSnapshot 把引擎运行时状态镜像进持久化快照
func (s *Series) syncSnapshot() {
	s.item.Phase = s.engine.phase
	s.item.CurrentAgentIndex = s.engine.cursor
	s.item.CurrentMeetingData = s.engine.data
	s.item.CurrentTranscript = s.engine.transcript
	start := s.engine.startTime
	s.item.CurrentMeetingStartTime = &start
}

// clearSnapshot 会议结束后清掉运行时快照
func (s *Series) clearSnapshot() {
	s.item.CurrentAgentIndex = 0
	s.item.CurrentMeetingData = nil
	s.item.CurrentTranscript = nil
	s.item.CurrentMeetingStartTime = nil
}

func (s *Series) save() error {
	if s.st == nil {
		return nil
	}
	if err := s.st.Save(s.item); err != nil {
		return fmt.Errorf("persist project state error: %w", err)
	}
	return nil
}
