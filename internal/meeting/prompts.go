package meeting

import (
	"fmt"
	"strings"

	"github.com/run-bigpig/roundtable/internal/models"
)

// planPrompt 构建会议规划 Prompt
func planPrompt(topic string, catalogue []models.Agent) string {
	var sb strings.Builder
	sb.WriteString("You are an expert project manager. Your task is to plan a series of focused, sequential roundtable meetings to comprehensively analyze a topic. The output of one meeting should logically feed into the next.\n\n")
	sb.WriteString(fmt.Sprintf("Topic: %q\n\n", topic))
	sb.WriteString("Available Experts (use their 'id' for selection):\n")
	for _, a := range catalogue {
		sb.WriteString(fmt.Sprintf("- %s (id: %s): %s\n", a.Name, a.ID, a.ShortPersona))
	}
	sb.WriteString("\nKey Constraints:\n")
	sb.WriteString("1. Strict 3-Expert Limit Per Meeting: each meeting MUST have a maximum of 3 experts. This is a non-negotiable rule.\n")
	sb.WriteString("2. Logical Sequence: create a logical flow of meetings. A typical project needs 1-4 meetings (e.g. 1. Strategy & Vision, 2. Technical Feasibility & Design, 3. Go-to-Market & Launch). Each meeting's goal should build on the previous one.\n")
	sb.WriteString("3. Optimal Selection: for each meeting, select only the most critical experts for that meeting's goal. If more expertise is needed than fits in one meeting, create a separate, subsequent meeting.\n\n")
	sb.WriteString("Your tasks:\n")
	sb.WriteString("1. Determine the number of meetings required (between 1 and 4).\n")
	sb.WriteString("2. For each meeting, provide a concise 'goal' that is a clear, actionable objective.\n")
	sb.WriteString("3. For each meeting, select the necessary experts by their 'id', adhering to the strict 3-expert limit.\n\n")
	sb.WriteString("Format your entire response as a single JSON array, and nothing else. Example:\n")
	sb.WriteString(`[
  {"goal": "Define the core user problem and validate the market opportunity.", "agentIds": ["product", "vc", "marketing"]},
  {"goal": "Assess technical feasibility and outline the initial UX/UI flow.", "agentIds": ["tech", "design", "product"]}
]`)
	return sb.String()
}

// round1Prompt 构建第一轮发言 Prompt
// prevSummary 和 steering 把上一场会议的结论和用户补充说明带进来
func round1Prompt(agent models.Agent, topic, goal string, others []models.Agent, prevSummary *models.Summary, steering string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall Topic: %q\n\n", topic))

	if prevSummary != nil {
		sb.WriteString("This is a follow-up meeting.\n")
		sb.WriteString(fmt.Sprintf("The goal of this specific meeting is: %q.\n", goal))
		sb.WriteString("Context from the previous meeting's summary:\n")
		sb.WriteString("- Key Insights: " + strings.Join(prevSummary.KeyInsights, "; ") + "\n")
		sb.WriteString("- Action Items: " + strings.Join(prevSummary.ActionItems, "; ") + "\n")
		sb.WriteString("- Potential Risks: " + strings.Join(prevSummary.PotentialRisks, "; ") + "\n")
		sb.WriteString("- Consensus Points: " + strings.Join(prevSummary.ConsensusPoints, "; ") + "\n")
	} else {
		sb.WriteString(fmt.Sprintf("This is the first meeting on this topic. The goal of this meeting is: %q\n", goal))
	}
	if steering != "" {
		sb.WriteString("User Direction: " + steering + "\n")
	}

	sb.WriteString("\nYour Role: " + agent.Persona + "\n\n")
	sb.WriteString("You are in Round 1 of a roundtable discussion with other experts for THIS meeting: " + joinNames(others) + ".\n\n")
	sb.WriteString("Use the latest information, data, and trends available to you to inform your answer.\n\n")
	sb.WriteString("Your tasks:\n")
	sb.WriteString("1. Main Answer: provide your primary expert analysis on the topic, keeping this meeting's specific goal in mind. Be concise, using bullet points if helpful (max 100 words).\n")
	sb.WriteString("2. Cross-Questions: raise a maximum of 2 brief, insightful questions for up to 2 other specific experts from the list for this meeting. Your questions should challenge their perspective or ask for clarification based on this meeting's goal.\n\n")
	sb.WriteString("Format your entire response as a single JSON object, and nothing else. Do not include markdown formatting. The JSON object must look like this:\n")
	sb.WriteString(`{
  "mainAnswer": "Your concise analysis here.",
  "crossQuestions": [
    {"ask_expert": "Expert Name", "question": "Your question for them."}
  ]
}`)
	return sb.String()
}

// round2Prompt 构建第二轮答复 Prompt
func round2Prompt(agent models.Agent, topic string, questions []string, others []models.Agent) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic: %q\n\n", topic))
	sb.WriteString("Your Role: " + agent.Persona + "\n\n")
	sb.WriteString("You are in Round 2 of a roundtable discussion with other experts: " + joinNames(others) + ". In Round 1, other experts asked you the following questions:\n")
	writeNumbered(&sb, questions)
	sb.WriteString("\nUse the latest information, data, and trends available to you to inform your answers.\n\n")
	sb.WriteString("Your tasks:\n")
	sb.WriteString("1. Answer Questions: provide concise, direct answers to each of these questions.\n")
	sb.WriteString("2. Raise Follow-up Questions: based on the discussion so far, raise a maximum of 2 new, brief follow-up questions for up to 2 other experts to deepen the conversation.\n\n")
	sb.WriteString("Format your entire response as a single JSON object, and nothing else. Do not include markdown formatting. The JSON object must look like this:\n")
	sb.WriteString(`{
  "answers": [
    {"question": "The first question you were asked.", "answer": "Your answer to it."}
  ],
  "crossQuestions": [
    {"ask_expert": "Expert Name", "question": "Your new follow-up question."}
  ]
}`)
	return sb.String()
}

// round3Prompt 构建终轮 Prompt，明确禁止再提问
func round3Prompt(agent models.Agent, topic string, questions []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic: %q\n\n", topic))
	sb.WriteString("Your Role: " + agent.Persona + "\n\n")
	sb.WriteString("You are in the FINAL round (Round 3) of a roundtable discussion. This is the last chance for clarification. In Round 2, other experts asked you the following follow-up questions:\n")
	writeNumbered(&sb, questions)
	sb.WriteString("\nYour task is to provide concise, final answers to each of these questions. Do NOT ask any new questions.\n\n")
	sb.WriteString("Format your entire response as a single JSON object, and nothing else. Do not include markdown formatting. The JSON object must look like this:\n")
	sb.WriteString(`{
  "answers": [
    {"question": "The first question you were asked.", "answer": "Your final answer to it."}
  ]
}`)
	return sb.String()
}

// synthesisPrompt 构建单场会议总结 Prompt
func synthesisPrompt(topic string, agents []models.Agent, condensed string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following roundtable meeting transcript.\n")
	sb.WriteString(fmt.Sprintf("The goal was to discuss: %q\n", topic))
	sb.WriteString("The participants were: " + joinNames(agents) + "\n\n")
	sb.WriteString("Transcript:\n---\n")
	sb.WriteString(condensed)
	sb.WriteString("\n---\n\n")
	sb.WriteString(`Based on the entire discussion, generate a comprehensive summary. Your summary must be a JSON object with the keys "keyInsights", "actionItems", "potentialRisks" and "consensusPoints". Each key must have an array of strings as its value.` + "\n\n")
	sb.WriteString("Format your entire response as a single JSON object, and nothing else. Do not include markdown formatting.")
	return sb.String()
}

// finalPrompt 构建跨会议最终报告 Prompt
func finalPrompt(topic string, results []models.MeetingResult) string {
	var sb strings.Builder
	sb.WriteString("You are a Chief of Staff responsible for creating a final executive report for a project. You have been given the summaries from a series of meetings.\n\n")
	sb.WriteString(fmt.Sprintf("Project Topic: %q\n\n", topic))
	sb.WriteString("Here are the meeting summaries in chronological order:\n")
	for i, r := range results {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("Meeting %d (Goal: %s)\n", i+1, r.Goal))
		sb.WriteString("- Key Insights: " + strings.Join(r.Summary.KeyInsights, "; ") + "\n")
		sb.WriteString("- Action Items: " + strings.Join(r.Summary.ActionItems, "; ") + "\n")
		sb.WriteString("- Potential Risks: " + strings.Join(r.Summary.PotentialRisks, "; ") + "\n")
		sb.WriteString("- Consensus Points: " + strings.Join(r.Summary.ConsensusPoints, "; ") + "\n")
		if r.UserFeedback != "" {
			sb.WriteString("- User Feedback: " + r.UserFeedback + "\n")
		}
		sb.WriteString("---\n")
	}
	sb.WriteString("\nYour task is to synthesize all of the above information into a single, structured Final Project Report. Do not just repeat the inputs; analyze and consolidate them into a coherent final assessment.\n\n")
	sb.WriteString("Your response must be a JSON object with the following structure:\n")
	sb.WriteString(`{
  "executiveSummary": "A concise, high-level paragraph (3-4 sentences) summarizing the project's journey from concept to conclusion, and the final recommendation.",
  "keyDecisionsAndPivots": ["The most critical decisions made or strategic pivots that occurred during the meetings."],
  "finalActionPlan": ["A consolidated, prioritized list of the most important, actionable next steps."],
  "outstandingRisks": ["The most significant risks that remain unresolved or require ongoing monitoring."],
  "projectConclusion": "A clear, one-sentence final recommendation for the project."
}`)
	return sb.String()
}

// joinNames 拼接专家显示名
func joinNames(agents []models.Agent) string {
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

// writeNumbered 按编号列出问题
func writeNumbered(sb *strings.Builder, questions []string) {
	for i, q := range questions {
		sb.WriteString(fmt.Sprintf("%d. %q\n", i+1, q))
	}
}
