package models

import "time"

// Phase 项目/会议推进阶段
type Phase string

const (
	PhasePlanning          Phase = "PLANNING"
	PhasePlanReview        Phase = "PLAN_REVIEW"
	PhaseRound1            Phase = "ROUND_1"
	PhaseRound2            Phase = "ROUND_2"
	PhaseRound3            Phase = "ROUND_3"
	PhaseSynthesis         Phase = "SYNTHESIS"
	PhaseComplete          Phase = "COMPLETE"            // 单场会议结束
	PhaseAwaitingUserInput Phase = "AWAITING_USER_INPUT" // 等用户给下一场会议的补充说明
	PhaseFinalSynthesis    Phase = "FINAL_SYNTHESIS"
	PhaseFinalComplete     Phase = "FINAL_COMPLETE"
)

// InRound 是否处于三轮讨论之一
func (p Phase) InRound() bool {
	return p == PhaseRound1 || p == PhaseRound2 || p == PhaseRound3
}

// 项目状态
const (
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// HistoryItem 项目持久化快照
// 每次状态迁移后整体落库，恢复时按这个形状精确还原到会议中途。
// 转录里的专家只存 ID，加载后需要对着注册表重新解析
type HistoryItem struct {
	ID     string    `json:"id"`
	Topic  string    `json:"topic"`
	Date   time.Time `json:"date"`
	Status string    `json:"status"`

	MeetingPlan    []PlannedMeeting `json:"meetingPlan,omitempty"`
	MeetingResults []MeetingResult  `json:"meetingResults"`
	FinalSummary   *FinalSummary    `json:"finalSummary,omitempty"`

	// 会议中途的运行时快照
	Phase                   Phase            `json:"phase,omitempty"`
	CurrentMeetingIndex     int              `json:"currentMeetingIndex"`
	CurrentAgentIndex       int              `json:"currentAgentIndex"`
	CurrentMeetingData      *MeetingData     `json:"currentMeetingData,omitempty"`
	CurrentTranscript       []TranscriptItem `json:"currentTranscript,omitempty"`
	CurrentMeetingStartTime *time.Time       `json:"currentMeetingStartTime,omitempty"`
	PendingSteering         string           `json:"pendingSteering,omitempty"` // 上一场会议后用户给的补充说明
}
