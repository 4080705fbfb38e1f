package models

// MaxAgentsPerMeeting 单场会议专家数上限
const MaxAgentsPerMeeting = 3

// PlannedMeeting 规划出的单场会议（目标 + 受邀专家）
// 由 Planner 一次性产出，之后不可变
type PlannedMeeting struct {
	Goal     string   `json:"goal"`
	AgentIDs []string `json:"agentIds"`
}

// Source 网络检索引用来源
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// CrossQuestion 专家向另一位与会专家提出的追问
// AskExpert 是对方的显示名（生成端的自然语言接口只认名字），
// 入库前会被解析为参会者 ID，解析不到的静默丢弃
type CrossQuestion struct {
	AskExpert string `json:"ask_expert"`
	Question  string `json:"question"`
}

// Answer 针对某个追问的回答
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Round1Result 第一轮结果：主发言 + 追问
type Round1Result struct {
	MainAnswer     string          `json:"mainAnswer"`
	CrossQuestions []CrossQuestion `json:"crossQuestions"`
	Sources        []Source        `json:"sources,omitempty"`
}

// Round2Result 第二轮结果：答复 + 新追问
type Round2Result struct {
	Answers        []Answer        `json:"answers"`
	CrossQuestions []CrossQuestion `json:"crossQuestions"`
	Sources        []Source        `json:"sources,omitempty"`
}

// Round3Result 第三轮结果：只有最终答复，结构上不允许再追问
type Round3Result struct {
	Answers []Answer `json:"answers"`
}

// MeetingData 单场会议三轮结果，按专家 ID 索引
type MeetingData struct {
	Round1 map[string]Round1Result `json:"round1"`
	Round2 map[string]Round2Result `json:"round2"`
	Round3 map[string]Round3Result `json:"round3"`
}

// NewMeetingData 为参会专家初始化空槽位
// 保证每个专家在每轮映射里都有确定的条目
func NewMeetingData(agentIDs []string) *MeetingData {
	d := &MeetingData{
		Round1: make(map[string]Round1Result, len(agentIDs)),
		Round2: make(map[string]Round2Result, len(agentIDs)),
		Round3: make(map[string]Round3Result, len(agentIDs)),
	}
	for _, id := range agentIDs {
		d.Round1[id] = Round1Result{CrossQuestions: []CrossQuestion{}}
		d.Round2[id] = Round2Result{Answers: []Answer{}, CrossQuestions: []CrossQuestion{}}
		d.Round3[id] = Round3Result{Answers: []Answer{}}
	}
	return d
}

// Summary 单场会议的结构化总结
type Summary struct {
	KeyInsights     []string `json:"keyInsights"`
	ActionItems     []string `json:"actionItems"`
	PotentialRisks  []string `json:"potentialRisks"`
	ConsensusPoints []string `json:"consensusPoints"`
}

// Normalize 把缺失的数组字段补成空切片，下游不用再判 nil
func (s *Summary) Normalize() {
	if s.KeyInsights == nil {
		s.KeyInsights = []string{}
	}
	if s.ActionItems == nil {
		s.ActionItems = []string{}
	}
	if s.PotentialRisks == nil {
		s.PotentialRisks = []string{}
	}
	if s.ConsensusPoints == nil {
		s.ConsensusPoints = []string{}
	}
}

// MeetingResult 一场已完成会议的持久记录
// 按会议顺序追加到项目结果列表，之后只允许补一次 UserFeedback
type MeetingResult struct {
	Goal         string           `json:"goal"`
	AgentIDs     []string         `json:"agentIds"`
	Transcript   []TranscriptItem `json:"transcript"`
	Summary      Summary          `json:"summary"`
	Duration     string           `json:"duration"`
	UserFeedback string           `json:"userFeedback,omitempty"`
}

// FinalSummary 跨会议综合后的最终项目报告
type FinalSummary struct {
	ExecutiveSummary      string   `json:"executiveSummary"`
	KeyDecisionsAndPivots []string `json:"keyDecisionsAndPivots"`
	FinalActionPlan       []string `json:"finalActionPlan"`
	OutstandingRisks      []string `json:"outstandingRisks"`
	ProjectConclusion     string   `json:"projectConclusion"`
}

// Normalize 补齐缺失的数组字段
func (f *FinalSummary) Normalize() {
	if f.KeyDecisionsAndPivots == nil {
		f.KeyDecisionsAndPivots = []string{}
	}
	if f.FinalActionPlan == nil {
		f.FinalActionPlan = []string{}
	}
	if f.OutstandingRisks == nil {
		f.OutstandingRisks = []string{}
	}
}
