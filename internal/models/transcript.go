package models

// 转录条目类型
const (
	ItemSystem   = "system"   // 过程提示
	ItemResponse = "response" // 第一轮主发言
	ItemQuestion = "question" // 专家间追问
	ItemAnswer   = "answer"   // 第二/三轮答复
)

// TranscriptItem 会议转录条目
// 只追加不修改，追加顺序就是后续综合与展示的权威顺序。
// 专家一律存 ID，展示时再到注册表里解析名字
type TranscriptItem struct {
	Type    string `json:"type"`
	Content string `json:"content"`

	AgentID string `json:"agentId,omitempty"` // response/answer 的发言人
	FromID  string `json:"fromId,omitempty"`  // question 的提问人
	ToID    string `json:"toId,omitempty"`    // question 的被问人

	Sources []Source `json:"sources,omitempty"`
}

// SystemItem 创建过程提示条目
func SystemItem(content string) TranscriptItem {
	return TranscriptItem{Type: ItemSystem, Content: content}
}

// ResponseItem 创建主发言条目
func ResponseItem(agentID, content string, sources []Source) TranscriptItem {
	return TranscriptItem{Type: ItemResponse, AgentID: agentID, Content: content, Sources: sources}
}

// QuestionItem 创建追问条目
func QuestionItem(fromID, toID, content string) TranscriptItem {
	return TranscriptItem{Type: ItemQuestion, FromID: fromID, ToID: toID, Content: content}
}

// AnswerItem 创建答复条目
func AnswerItem(agentID, content string, sources []Source) TranscriptItem {
	return TranscriptItem{Type: ItemAnswer, AgentID: agentID, Content: content, Sources: sources}
}
