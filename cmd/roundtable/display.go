package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/run-bigpig/roundtable/internal/models"
	"github.com/run-bigpig/roundtable/internal/registry"
)

// 终端渲染样式
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	agentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	systemStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
	quoteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// printTranscriptItem 按条目类型渲染一条转录
func printTranscriptItem(item models.TranscriptItem, reg *registry.Registry) {
	switch item.Type {
	case models.ItemSystem:
		fmt.Println()
		fmt.Println(systemStyle.Render("--- " + item.Content + " ---"))
	case models.ItemResponse:
		fmt.Println()
		fmt.Println(agentStyle.Render(reg.NameOf(item.AgentID)+":") + " " + item.Content)
		printSources(item.Sources)
	case models.ItemQuestion:
		fmt.Println()
		fmt.Println(quoteStyle.Render(fmt.Sprintf("%s asks %s: %s",
			reg.NameOf(item.FromID), reg.NameOf(item.ToID), item.Content)))
	case models.ItemAnswer:
		fmt.Println()
		fmt.Println(agentStyle.Render(reg.NameOf(item.AgentID)+" answers:") + " " + item.Content)
		printSources(item.Sources)
	}
}

func printSources(sources []models.Source) {
	if len(sources) == 0 {
		return
	}
	fmt.Println(dimStyle.Render("  Sources:"))
	for _, s := range sources {
		fmt.Println(dimStyle.Render("  - " + s.Title + " <" + s.URI + ">"))
	}
}

// printPlan 展示待确认的会议计划
func printPlan(plan []models.PlannedMeeting, reg *registry.Registry) {
	fmt.Println()
	fmt.Println(titleStyle.Render("Proposed Meeting Plan"))
	for i, m := range plan {
		names := make([]string, len(m.AgentIDs))
		for j, id := range m.AgentIDs {
			names[j] = reg.NameOf(id)
		}
		fmt.Printf("%s %s\n", promptStyle.Render(fmt.Sprintf("Meeting %d:", i+1)), m.Goal)
		fmt.Println(dimStyle.Render("  Experts: " + strings.Join(names, ", ")))
	}
	fmt.Println()
}

// printProjectList 历史项目清单
func printProjectList(items []*models.HistoryItem) {
	fmt.Println(titleStyle.Render("Recent Projects"))
	for _, item := range items {
		status := dimStyle.Render(item.Status)
		if item.Status == models.StatusCompleted {
			status = promptStyle.Render(item.Status)
		}
		fmt.Printf("%s  %s  %s  %s\n",
			dimStyle.Render(item.ID),
			item.Date.Format("2006-01-02 15:04"),
			status,
			item.Topic)
	}
}

// printProject 单个项目详情：计划、逐场总结、最终报告
func printProject(item *models.HistoryItem, reg *registry.Registry) {
	fmt.Println(titleStyle.Render(item.Topic))
	fmt.Println(dimStyle.Render(fmt.Sprintf("%s  |  %s  |  %s",
		item.ID, item.Date.Format("2006-01-02 15:04"), item.Status)))

	if len(item.MeetingPlan) > 0 {
		printPlan(item.MeetingPlan, reg)
	}

	for i, result := range item.MeetingResults {
		fmt.Println(titleStyle.Render(fmt.Sprintf("Meeting %d: %s", i+1, result.Goal)))
		fmt.Println(dimStyle.Render("Duration: " + result.Duration))
		printSummarySection("Key Insights", result.Summary.KeyInsights)
		printSummarySection("Action Items", result.Summary.ActionItems)
		printSummarySection("Potential Risks", result.Summary.PotentialRisks)
		printSummarySection("Consensus Points", result.Summary.ConsensusPoints)
		if result.UserFeedback != "" {
			fmt.Println(promptStyle.Render("User Feedback: ") + result.UserFeedback)
		}
		fmt.Println()
	}

	if item.FinalSummary != nil {
		final := item.FinalSummary
		fmt.Println(titleStyle.Render("Final Project Report"))
		fmt.Println(final.ExecutiveSummary)
		printSummarySection("Key Decisions & Pivots", final.KeyDecisionsAndPivots)
		printSummarySection("Final Action Plan", final.FinalActionPlan)
		printSummarySection("Outstanding Risks", final.OutstandingRisks)
		fmt.Println(promptStyle.Render("Conclusion: ") + final.ProjectConclusion)
	}
}

func printSummarySection(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Println(promptStyle.Render(title + ":"))
	for _, line := range items {
		fmt.Println("  - " + line)
	}
}
