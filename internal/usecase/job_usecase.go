package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skill-assess/internal/domain/job"
	"skill-assess/internal/domain/skill"
	"skill-assess/internal/pkg/logger"
	"skill-assess/internal/repository"
)

type CreateJobInput struct {
	Title          string
	Description    string
	RequiredSkills []skill.Requirement
}

type JobListParams struct {
	Limit  int
	Offset int
}

type JobUsecase interface {
	Create(ctx context.Context, companyUserID uuid.UUID, in CreateJobInput) (job.Posting, error)
	Get(ctx context.Context, jobID uuid.UUID) (job.Posting, error)
	List(ctx context.Context, params JobListParams) ([]job.Posting, error)
}

type Jobs struct {
	jobs     repository.JobRepository
	profiles repository.ProfileRepository
	log      *zap.Logger
}

func NewJobUsecase(jobs repository.JobRepository, profiles repository.ProfileRepository, log *zap.Logger) *Jobs {
	return &Jobs{jobs: jobs, profiles: profiles, log: logger.OrNop(log)}
}

// Create publishes a posting for the caller's company profile. The required
// skill list is fixed from here on.
func (u *Jobs) Create(ctx context.Context, companyUserID uuid.UUID, in CreateJobInput) (job.Posting, error) {
	company, err := u.profiles.GetByUserID(ctx, companyUserID)
	if err != nil {
		if errors.Is(err, skill.ErrProfileNotFound) {
			return job.Posting{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return job.Posting{}, fmt.Errorf("load company profile: %w", err)
	}
	if company.Kind != skill.KindCompany {
		return job.Posting{}, ErrForbidden
	}

	posting, err := job.NewPosting(company.ID, in.Title, in.Description, in.RequiredSkills)
	if err != nil {
		return job.Posting{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	created, err := u.jobs.Create(ctx, posting)
	if err != nil {
		return job.Posting{}, fmt.Errorf("create job posting: %w", err)
	}
	u.log.Info("job posting created",
		zap.String(logger.FieldJobID, created.ID.String()),
		zap.Int("required_skills", len(created.RequiredSkills)),
	)
	return created, nil
}

func (u *Jobs) Get(ctx context.Context, jobID uuid.UUID) (job.Posting, error) {
	p, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Posting{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return job.Posting{}, fmt.Errorf("load job posting: %w", err)
	}
	return p, nil
}

func (u *Jobs) List(ctx context.Context, params JobListParams) ([]job.Posting, error) {
	limit := params.Limit
	if limit == 0 {
		limit = 20
	}
	if limit < 0 || limit > 50 {
		return nil, ErrInvalidInput
	}
	if params.Offset < 0 {
		return nil, ErrInvalidInput
	}
	return u.jobs.ListJobs(ctx, limit, params.Offset)
}
