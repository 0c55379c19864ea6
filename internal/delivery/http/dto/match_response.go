package dto

import (
	"github.com/google/uuid"

	"skill-assess/internal/domain/matching"
)

type RankingResponse struct {
	JobID      *uuid.UUID        `json:"job_id,omitempty"`
	Total      int               `json:"total"`
	Candidates []matching.Result `json:"candidates"`
}

func NewRankingResponse(jobID *uuid.UUID, results []matching.Result) RankingResponse {
	if results == nil {
		results = []matching.Result{}
	}
	return RankingResponse{JobID: jobID, Total: len(results), Candidates: results}
}
