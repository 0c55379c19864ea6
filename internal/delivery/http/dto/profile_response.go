package dto

import (
	"time"

	"github.com/google/uuid"

	"skill-assess/internal/domain/assessment"
	"skill-assess/internal/domain/job"
	"skill-assess/internal/domain/skill"
)

type RequirementRequest struct {
	Name  string    `json:"name"`
	Level job.Level `json:"level"`
}

type ProfileResponse struct {
	ID             uuid.UUID           `json:"id"`
	UserID         uuid.UUID           `json:"user_id"`
	Kind           string              `json:"kind"`
	Skills         []skill.Skill       `json:"skills"`
	OverallScore   float64             `json:"overall_score"`
	Quota          int                 `json:"quota"`
	RemainingQuota int                 `json:"remaining_quota"`
	QuotaUpdatedAt *time.Time          `json:"quota_updated_at,omitempty"`
	RequiredSkills []skill.Requirement `json:"required_skills,omitempty"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type OnboardingRequest struct {
	Skills         []string `json:"skills"`
	AggregateScore float64  `json:"aggregate_score"`
}

type RequiredSkillsRequest struct {
	RequiredSkills []RequirementRequest `json:"required_skills"`
}

// NewProfileResponse reports the quota as it stands at now, so a window that
// has elapsed shows as fully available before the next attempt resets it.
func NewProfileResponse(p skill.Profile, now time.Time) ProfileResponse {
	out := ProfileResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		Kind:           string(p.Kind),
		Skills:         p.Skills,
		OverallScore:   p.OverallScore,
		Quota:          p.Quota,
		RequiredSkills: p.RequiredSkills,
		UpdatedAt:      p.UpdatedAt,
	}
	if out.Skills == nil {
		out.Skills = []skill.Skill{}
	}
	if !p.QuotaUpdatedAt.IsZero() {
		t := p.QuotaUpdatedAt
		out.QuotaUpdatedAt = &t
	}
	if p.Kind == skill.KindCandidate {
		d := assessment.CheckAndConsume(p, now)
		out.Quota = d.Profile.Quota
		out.RemainingQuota = d.Remaining
	}
	return out
}

func Requirements(in []RequirementRequest) []skill.Requirement {
	out := make([]skill.Requirement, 0, len(in))
	for _, r := range in {
		out = append(out, skill.Requirement{Name: r.Name, Level: int(r.Level)})
	}
	return out
}
