package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"skill-assess/internal/database"
	"skill-assess/internal/domain/assessment"
)

type AssessmentResultRepository interface {
	Save(ctx context.Context, rec assessment.Record) error
	ListByCandidate(ctx context.Context, candidateProfileID uuid.UUID, limit int) ([]assessment.Record, error)
}

type PostgresAssessmentResultRepository struct {
	db database.DB
}

func NewPostgresAssessmentResultRepository(db database.DB) *PostgresAssessmentResultRepository {
	return &PostgresAssessmentResultRepository{db: db}
}

func (r *PostgresAssessmentResultRepository) Save(ctx context.Context, rec assessment.Record) error {
	body, err := json.Marshal(rec.Analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO assessment_results
		 (id, candidate_profile_id, company_profile_id, job_id, assessment_type, number_of_questions, result_kind, reason, analysis, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.CandidateProfileID, rec.CompanyProfileID, rec.JobID, rec.Type,
		rec.NumberOfQuestions, rec.Kind.String(), string(rec.Reason), string(body), rec.CreatedAt,
	)
	return err
}

func (r *PostgresAssessmentResultRepository) ListByCandidate(ctx context.Context, candidateProfileID uuid.UUID, limit int) ([]assessment.Record, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, candidate_profile_id, company_profile_id, job_id, assessment_type, number_of_questions, result_kind, reason, analysis, created_at
		 FROM assessment_results
		 WHERE candidate_profile_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		candidateProfileID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]assessment.Record, 0)
	for rows.Next() {
		var rec assessment.Record
		var kind, reason string
		var body []byte
		if err := rows.Scan(&rec.ID, &rec.CandidateProfileID, &rec.CompanyProfileID, &rec.JobID, &rec.Type,
			&rec.NumberOfQuestions, &kind, &reason, &body, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Kind = assessment.ParseKind(kind)
		rec.Reason = assessment.Reason(reason)
		if err := json.Unmarshal(body, &rec.Analysis); err != nil {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
