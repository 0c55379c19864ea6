package dto

import (
	"time"

	"github.com/google/uuid"

	"skill-assess/internal/domain/job"
	"skill-assess/internal/domain/skill"
)

type CreateJobRequest struct {
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	RequiredSkills []RequirementRequest `json:"required_skills"`
}

type JobResponse struct {
	ID               uuid.UUID           `json:"id"`
	CompanyProfileID uuid.UUID           `json:"company_profile_id"`
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	RequiredSkills   []skill.Requirement `json:"required_skills"`
	CreatedAt        time.Time           `json:"created_at"`
}

func NewJobResponse(p job.Posting) JobResponse {
	return JobResponse{
		ID:               p.ID,
		CompanyProfileID: p.CompanyProfileID,
		Title:            p.Title,
		Description:      p.Description,
		RequiredSkills:   p.RequiredSkills,
		CreatedAt:        p.CreatedAt,
	}
}
