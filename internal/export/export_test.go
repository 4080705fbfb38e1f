package export

import (
	"strings"
	"testing"
	"time"

	"github.com/run-bigpig/roundtable/internal/models"
	"github.com/run-bigpig/roundtable/internal/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New()
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	return reg
}

// TestTranscript 各类条目的 Markdown 渲染
func TestTranscript(t *testing.T) {
	reg := testRegistry(t)
	items := []models.TranscriptItem{
		models.SystemItem("Meeting 1/1 starting."),
		models.ResponseItem("product", "Main Answer: go for it", []models.Source{{URI: "https://x.example", Title: "X"}}),
		models.QuestionItem("product", "tech", "Can we build it?"),
		models.AnswerItem("tech", `Answered: "Can we build it?" with "Yes."`, nil),
	}

	md := Transcript(items, reg)

	for _, want := range []string{
		"*--- Meeting 1/1 starting. ---*",
		"**Product Manager:** Main Answer: go for it",
		"- [X](https://x.example)",
		"> **Product Manager asks Tech Lead:** Can we build it?",
		"**Tech Lead answers:**",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("transcript markdown missing %q", want)
		}
	}
}

// TestReport 项目报告包含会议总结和最终报告
func TestReport(t *testing.T) {
	reg := testRegistry(t)
	item := &models.HistoryItem{
		ID:     "p1",
		Topic:  "coffee box",
		Date:   time.Now(),
		Status: models.StatusCompleted,
		MeetingResults: []models.MeetingResult{
			{
				Goal:     "Validate the market",
				AgentIDs: []string{"product", "tech"},
				Duration: "42s",
				Summary: models.Summary{
					KeyInsights:     []string{"market is hot"},
					ActionItems:     []string{"build MVP"},
					PotentialRisks:  []string{},
					ConsensusPoints: []string{"go"},
				},
				UserFeedback: "focus on pricing",
			},
		},
		FinalSummary: &models.FinalSummary{
			ExecutiveSummary:      "It went well.",
			KeyDecisionsAndPivots: []string{"premium positioning"},
			FinalActionPlan:       []string{"ship"},
			OutstandingRisks:      []string{},
			ProjectConclusion:     "Proceed with funding.",
		},
	}

	md := Report(item, reg)

	for _, want := range []string{
		"# Roundtable Report: coffee box",
		"Participants: Product Manager, Tech Lead",
		"- market is hot",
		"### User Feedback",
		"focus on pricing",
		"## Executive Summary",
		"Proceed with funding.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report markdown missing %q", want)
		}
	}

	t.Run("空数组渲染为 None", func(t *testing.T) {
		if !strings.Contains(md, "- None") {
			t.Error("empty list section should render None")
		}
	})
}
