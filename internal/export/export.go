// Package export 把转录和报告渲染成 Markdown 文档
// 转录里只有专家 ID，渲染时对着注册表解析显示名
package export

import (
	"fmt"
	"strings"

	"github.com/run-bigpig/roundtable/internal/models"
	"github.com/run-bigpig/roundtable/internal/registry"
)

// Transcript 渲染单场会议的完整转录
func Transcript(items []models.TranscriptItem, reg *registry.Registry) string {
	blocks := make([]string, 0, len(items))
	for _, item := range items {
		switch item.Type {
		case models.ItemSystem:
			blocks = append(blocks, fmt.Sprintf("\n*--- %s ---*\n", item.Content))
		case models.ItemResponse:
			md := fmt.Sprintf("**%s:** %s", reg.NameOf(item.AgentID), item.Content)
			md += sourcesBlock(item.Sources)
			blocks = append(blocks, md)
		case models.ItemQuestion:
			blocks = append(blocks, fmt.Sprintf("> **%s asks %s:** %s",
				reg.NameOf(item.FromID), reg.NameOf(item.ToID), item.Content))
		case models.ItemAnswer:
			md := fmt.Sprintf("**%s answers:** %s", reg.NameOf(item.AgentID), item.Content)
			md += sourcesBlock(item.Sources)
			blocks = append(blocks, md)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func sourcesBlock(sources []models.Source) string {
	if len(sources) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\n    **Sources:**\n")
	for i, s := range sources {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("    - [%s](%s)", s.Title, s.URI))
	}
	return sb.String()
}

// MeetingSummary 渲染单场会议的结构化总结
func MeetingSummary(goal string, summary models.Summary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Meeting Summary: %s\n\n", goal))
	writeList(&sb, "Key Insights", summary.KeyInsights)
	writeList(&sb, "Action Items", summary.ActionItems)
	writeList(&sb, "Potential Risks", summary.PotentialRisks)
	writeList(&sb, "Consensus Points", summary.ConsensusPoints)
	return sb.String()
}

// Report 渲染整个项目：逐场会议 + 最终报告
func Report(item *models.HistoryItem, reg *registry.Registry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Roundtable Report: %s\n\n", item.Topic))
	sb.WriteString(fmt.Sprintf("Date: %s\n\nStatus: %s\n", item.Date.Format("2006-01-02 15:04"), item.Status))

	for i, result := range item.MeetingResults {
		sb.WriteString(fmt.Sprintf("\n---\n\n# Meeting %d: %s\n\n", i+1, result.Goal))
		names := make([]string, len(result.AgentIDs))
		for j, id := range result.AgentIDs {
			names[j] = reg.NameOf(id)
		}
		sb.WriteString("Participants: " + strings.Join(names, ", ") + "\n")
		sb.WriteString("Duration: " + result.Duration + "\n\n")
		sb.WriteString(MeetingSummary(result.Goal, result.Summary))
		if result.UserFeedback != "" {
			sb.WriteString("\n### User Feedback\n\n" + result.UserFeedback + "\n")
		}
	}

	if item.FinalSummary != nil {
		sb.WriteString("\n---\n\n# Final Project Report\n\n")
		sb.WriteString(FinalReport(*item.FinalSummary))
	}
	return sb.String()
}

// FinalReport 渲染跨会议最终报告
func FinalReport(final models.FinalSummary) string {
	var sb strings.Builder
	sb.WriteString("## Executive Summary\n\n" + final.ExecutiveSummary + "\n\n")
	writeList(&sb, "Key Decisions & Pivots", final.KeyDecisionsAndPivots)
	writeList(&sb, "Final Action Plan", final.FinalActionPlan)
	writeList(&sb, "Outstanding Risks", final.OutstandingRisks)
	sb.WriteString("### Conclusion\n\n" + final.ProjectConclusion + "\n")
	return sb.String()
}

func writeList(sb *strings.Builder, title string, items []string) {
	sb.WriteString("### " + title + "\n\n")
	if len(items) == 0 {
		sb.WriteString("- None\n\n")
		return
	}
	for _, item := range items {
		sb.WriteString("- " + item + "\n")
	}
	sb.WriteString("\n")
}
