package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"skill-assess/internal/domain/assessment"
	"skill-assess/internal/domain/skill"
	"skill-assess/internal/domain/todo"
)

const QuestionsPerAssessment = 10

const levelGuide = `Skill proficiency levels:
1 - Entry Level: basic concepts and definitions.
2 - Junior: basic practical usage and common patterns.
3 - Mid Level: intermediate design, error handling, real-world problem solving.
4 - Senior: architecture, performance tuning, concurrency.
5 - Expert: internals, scalability, security and advanced system design.`

func describeSkills(skills []skill.Skill) string {
	lines := make([]string, 0, len(skills))
	for _, s := range skills {
		lines = append(lines, fmt.Sprintf("- %s (Experience: %s, Proficiency: %d/5)", s.Name, s.ExperienceLevel, s.ProficiencyLevel))
	}
	return strings.Join(lines, "\n")
}

func describeRequirements(reqs []skill.Requirement) string {
	lines := make([]string, 0, len(reqs))
	for _, r := range reqs {
		lines = append(lines, fmt.Sprintf("- %s (ProficiencyLevel: %d)", r.Name, r.Level))
	}
	return strings.Join(lines, "\n")
}

func describeAnswers(answers []assessment.Answer) string {
	var b strings.Builder
	for i, a := range answers {
		reply := a.Answer
		if reply == "" {
			reply = "(no answer)"
		}
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n", i+1, a.Question, i+1, reply)
	}
	return b.String()
}

// SkillQuestions asks for situational questions covering the candidate's
// declared skills.
func SkillQuestions(model string, skills []skill.Skill) Request {
	return Request{
		Model: model,
		System: "You are an experienced technical interviewer.\n" + levelGuide + fmt.Sprintf(`
Generate exactly %d interview questions, answerable orally in under two minutes.
Match each question to the skill and its proficiency level. Do not repeat questions.
Return ONLY a JSON array of strings, with no numbering, commentary or markdown.`, QuestionsPerAssessment),
		Prompt:      "Candidate skills:\n" + describeSkills(skills),
		MaxTokens:   1000,
		Temperature: 0.7,
	}
}

// JobQuestions targets only the requirements the candidate has not proven yet.
func JobQuestions(model string, toTest []skill.Requirement) Request {
	return Request{
		Model: model,
		System: "You are a senior technical interviewer.\n" + levelGuide + fmt.Sprintf(`
Generate exactly %d oral interview questions spread as evenly as possible over the listed skills.
Each question must match its skill and the exact required level.
Return ONLY a JSON array of strings.`, QuestionsPerAssessment),
		Prompt:      "Required skills:\n" + describeRequirements(toTest),
		MaxTokens:   1000,
		Temperature: 0.6,
	}
}

// SkillAnalysis asks the oracle to grade answers against the candidate's
// current skills.
func SkillAnalysis(model string, skills []skill.Skill, answers []assessment.Answer) Request {
	return Request{
		Model: model,
		System: `You are a strict technical assessor. Grade the answers and return ONLY one JSON object:
{"overallScore": number 0-100, "technicalLevel": string, "generalAssessment": string,
 "recommendations": [string], "nextSteps": [string],
 "skillAnalysis": [{"skillName": string, "currentProficiency": 1-5, "demonstratedProficiency": 1-5,
   "confidenceScore": number 0-100, "strengths": [string], "weaknesses": [string]}]}
Include one skillAnalysis entry per skill that the answers give evidence for.`,
		Prompt:      "Candidate skills:\n" + describeSkills(skills) + "\n\nInterview:\n" + describeAnswers(answers),
		MaxTokens:   1500,
		Temperature: 0.6,
	}
}

// JobAnalysis grades a job assessment. Levels are derived later from the
// confidence scores, so the oracle only reports confidence per skill.
func JobAnalysis(model string, tested []skill.Requirement, answers []assessment.Answer) Request {
	return Request{
		Model: model,
		System: `You are a strict technical assessor for a job application. Return ONLY one JSON object:
{"overallScore": number 0-100, "technicalLevel": string, "generalAssessment": string,
 "recommendations": [string], "nextSteps": [string],
 "skillAnalysis": [{"skillName": string, "requiredLevel": 1-5, "confidenceScore": number 0-100,
   "strengths": [string], "weaknesses": [string], "match": string}],
 "jobMatch": {"percentage": number, "status": string, "keyGaps": [string]}}`,
		Prompt:      "Required skills:\n" + describeRequirements(tested) + "\n\nInterview:\n" + describeAnswers(answers),
		MaxTokens:   1000,
		Temperature: 0.6,
	}
}

// Todos asks for up to three new learning tasks per skill that do not
// overlap the tasks already on the list.
func Todos(model string, skills []skill.Skill, existing []todo.SkillTodo) Request {
	current := "[]"
	if len(existing) > 0 {
		if b, err := json.Marshal(existing); err == nil {
			current = string(b)
		}
	}
	return Request{
		Model: model,
		System: `You are a career development assistant. Return ONLY a JSON array, one item per skill:
[{"title": skill name, "type": "Skill", "tasks": [{"title": string,
  "type": "Course" | "Certification" | "Project" | "Article", "description": string,
  "url": string, "priority": "low" | "medium" | "high", "dueDate": unix milliseconds}]}]
At most 3 tasks per skill. Do not propose tasks similar in purpose to the existing ones.`,
		Prompt:      "Candidate skills:\n" + describeSkills(skills) + "\n\nExisting todos:\n" + current,
		MaxTokens:   1000,
		Temperature: 0.7,
	}
}
