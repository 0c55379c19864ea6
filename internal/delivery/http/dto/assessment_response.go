package dto

import (
	"time"

	"github.com/google/uuid"

	"skill-assess/internal/domain/assessment"
	"skill-assess/internal/domain/skill"
)

type SkillQuestionsRequest struct {
	Skills []SkillTarget `json:"skills"`
}

// SkillTarget names a skill to be tested. The current level is optional and
// falls back to the profile's.
type SkillTarget struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type AnalyzeRequest struct {
	Answers []assessment.Answer `json:"answers"`
}

type QuestionSetResponse struct {
	Questions      []string `json:"questions"`
	RemainingQuota int      `json:"remaining_quota"`
}

type JobQuestionSetResponse struct {
	Questions      []string            `json:"questions"`
	SkillsToTest   []skill.Requirement `json:"skills_to_test"`
	AlreadyProven  []skill.Requirement `json:"already_proven"`
	RemainingQuota int                 `json:"remaining_quota"`
}

type AnalysisResponse struct {
	Analysis       assessment.Analysis `json:"analysis"`
	Degraded       bool                `json:"degraded"`
	Reason         string              `json:"reason,omitempty"`
	Profile        ProfileResponse     `json:"profile"`
	RemainingQuota int                 `json:"remaining_quota"`
}

type AssessmentRecordResponse struct {
	ID                uuid.UUID           `json:"id"`
	Type              string              `json:"type"`
	JobID             *uuid.UUID          `json:"job_id,omitempty"`
	NumberOfQuestions int                 `json:"number_of_questions"`
	Degraded          bool                `json:"degraded"`
	Reason            string              `json:"reason,omitempty"`
	Analysis          assessment.Analysis `json:"analysis"`
	CreatedAt         time.Time           `json:"created_at"`
}

func SkillTargets(in []SkillTarget) []skill.Skill {
	out := make([]skill.Skill, 0, len(in))
	for _, t := range in {
		out = append(out, skill.Skill{Name: t.Name, ProficiencyLevel: t.Level})
	}
	return out
}

func NewAssessmentRecordResponse(r assessment.Record) AssessmentRecordResponse {
	return AssessmentRecordResponse{
		ID:                r.ID,
		Type:              r.Type,
		JobID:             r.JobID,
		NumberOfQuestions: r.NumberOfQuestions,
		Degraded:          r.Kind == assessment.KindDegraded,
		Reason:            string(r.Reason),
		Analysis:          r.Analysis,
		CreatedAt:         r.CreatedAt,
	}
}
