package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"skill-assess/internal/database"
	"skill-assess/internal/domain/job"
	"skill-assess/internal/domain/skill"
)

type JobRepository interface {
	Create(ctx context.Context, p job.Posting) (job.Posting, error)
	GetByID(ctx context.Context, id uuid.UUID) (job.Posting, error)
	ListJobs(ctx context.Context, limit, offset int) ([]job.Posting, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

// Create stores the posting and its required skills in one transaction.
func (r *PostgresJobRepository) Create(ctx context.Context, p job.Posting) (job.Posting, error) {
	reqs, err := job.NormalizeRequirements(p.RequiredSkills)
	if err != nil {
		return job.Posting{}, err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.RequiredSkills = reqs

	err = database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_postings (id, company_profile_id, title, description, created_at) VALUES ($1, $2, $3, $4, $5)`,
			p.ID, p.CompanyProfileID, p.Title, p.Description, p.CreatedAt,
		); err != nil {
			return err
		}
		for i, req := range reqs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO job_required_skills (job_id, position, name, level) VALUES ($1, $2, $3, $4)`,
				p.ID, i, req.Name, req.Level,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return job.Posting{}, err
	}
	return p, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Posting, error) {
	var p job.Posting
	err := r.db.QueryRow(ctx,
		`SELECT id, company_profile_id, title, description, created_at FROM job_postings WHERE id = $1`, id,
	).Scan(&p.ID, &p.CompanyProfileID, &p.Title, &p.Description, &p.CreatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return job.Posting{}, job.ErrNotFound
		}
		return job.Posting{}, err
	}

	reqs, err := r.requirements(ctx, id)
	if err != nil {
		return job.Posting{}, err
	}
	p.RequiredSkills = reqs
	return p, nil
}

func (r *PostgresJobRepository) ListJobs(ctx context.Context, limit, offset int) ([]job.Posting, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, company_profile_id, title, description, created_at
		 FROM job_postings
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	out := make([]job.Posting, 0)
	for rows.Next() {
		var p job.Posting
		if err := rows.Scan(&p.ID, &p.CompanyProfileID, &p.Title, &p.Description, &p.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		reqs, err := r.requirements(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].RequiredSkills = reqs
	}
	return out, nil
}

func (r *PostgresJobRepository) requirements(ctx context.Context, jobID uuid.UUID) ([]skill.Requirement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name, level FROM job_required_skills WHERE job_id = $1 ORDER BY position`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Requirement, 0)
	for rows.Next() {
		var req skill.Requirement
		if err := rows.Scan(&req.Name, &req.Level); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
