package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skill-assess/internal/domain/job"
	"skill-assess/internal/domain/matching"
	"skill-assess/internal/domain/skill"
	"skill-assess/internal/pkg/logger"
	"skill-assess/internal/repository"
)

const rankingTTL = 5 * time.Minute

type MatchingUsecase interface {
	RankForJob(ctx context.Context, jobID uuid.UUID) ([]matching.Result, error)
	RankForCompany(ctx context.Context, companyUserID uuid.UUID) ([]matching.Result, error)
	ScoreForCandidate(ctx context.Context, jobID, userID uuid.UUID) (matching.Result, error)
}

type Matching struct {
	jobs     repository.JobRepository
	profiles repository.ProfileRepository
	cache    Cache
	log      *zap.Logger
}

func NewMatchingUsecase(jobs repository.JobRepository, profiles repository.ProfileRepository, cache Cache, log *zap.Logger) *Matching {
	return &Matching{jobs: jobs, profiles: profiles, cache: cacheOrNoop(cache), log: logger.OrNop(log)}
}

// RankForJob ranks every candidate profile against a posting's requirements.
// Results are cached until the next profile merge.
func (u *Matching) RankForJob(ctx context.Context, jobID uuid.UUID) ([]matching.Result, error) {
	posting, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("load job posting: %w", err)
	}
	return u.rank(ctx, RankingCacheKey(posting.ID), posting.RequiredSkills)
}

// RankForCompany ranks candidates against the required skills stored on a
// company profile.
func (u *Matching) RankForCompany(ctx context.Context, companyUserID uuid.UUID) ([]matching.Result, error) {
	company, err := u.profiles.GetByUserID(ctx, companyUserID)
	if err != nil {
		if errors.Is(err, skill.ErrProfileNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("load company profile: %w", err)
	}
	if company.Kind != skill.KindCompany {
		return nil, ErrForbidden
	}
	return u.rank(ctx, CompanyRankingCacheKey(company.ID), company.RequiredSkills)
}

func (u *Matching) ScoreForCandidate(ctx context.Context, jobID, userID uuid.UUID) (matching.Result, error) {
	posting, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return matching.Result{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return matching.Result{}, fmt.Errorf("load job posting: %w", err)
	}
	profile, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, skill.ErrProfileNotFound) {
			return matching.Result{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return matching.Result{}, fmt.Errorf("load profile: %w", err)
	}
	return matching.Evaluate(posting.RequiredSkills, matching.Candidate{ID: profile.UserID, Skills: profile.Skills})
}

func (u *Matching) rank(ctx context.Context, key string, reqs []skill.Requirement) ([]matching.Result, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: no required skills", matching.ErrInvariantViolation)
	}

	var cached []matching.Result
	if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		u.log.Debug("ranking cache hit", zap.String("key", key))
		return cached, nil
	}

	profiles, err := u.profiles.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	candidates := make([]matching.Candidate, 0, len(profiles))
	for _, p := range profiles {
		candidates = append(candidates, matching.Candidate{ID: p.UserID, Skills: p.Skills})
	}

	ranked, err := matching.RankCandidates(reqs, candidates)
	if err != nil {
		return nil, err
	}
	if err := u.cache.SetJSON(ctx, key, ranked, rankingTTL); err != nil {
		u.log.Warn("ranking cache write failed", zap.String("key", key), zap.Error(err))
	}
	u.log.Debug("candidates ranked", zap.String("key", key), zap.Int("candidates", len(candidates)), zap.Int("ranked", len(ranked)))
	return ranked, nil
}
