package assessment

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeSkill = "skill"
	TypeJob   = "job"
)

// Record is a stored assessment outcome. Job assessments also carry the
// company and posting they were taken for.
type Record struct {
	ID                 uuid.UUID
	CandidateProfileID uuid.UUID
	CompanyProfileID   *uuid.UUID
	JobID              *uuid.UUID
	Type               string
	NumberOfQuestions  int
	Kind               Kind
	Reason             Reason
	Analysis           Analysis
	CreatedAt          time.Time
}

func NewRecord(candidate uuid.UUID, typ string, questions int, res Result, now time.Time) Record {
	return Record{
		ID:                 uuid.New(),
		CandidateProfileID: candidate,
		Type:               typ,
		NumberOfQuestions:  questions,
		Kind:               res.Kind,
		Reason:             res.Reason,
		Analysis:           res.Analysis,
		CreatedAt:          now.UTC(),
	}
}
