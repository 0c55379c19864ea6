package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skill-assess/internal/domain/job"
	"skill-assess/internal/domain/skill"
	"skill-assess/internal/pkg/logger"
	"skill-assess/internal/repository"
)

type OnboardInput struct {
	Skills    []string
	Aggregate float64
}

type ProfileUsecase interface {
	Get(ctx context.Context, userID uuid.UUID) (skill.Profile, error)
	Onboard(ctx context.Context, userID uuid.UUID, in OnboardInput) (skill.Profile, error)
	SetRequiredSkills(ctx context.Context, userID uuid.UUID, reqs []skill.Requirement) (skill.Profile, error)
}

type Profiles struct {
	profiles repository.ProfileRepository
	cache    Cache
	notifier ProfileNotifier
	log      *zap.Logger
}

func NewProfileUsecase(profiles repository.ProfileRepository, cache Cache, notifier ProfileNotifier, log *zap.Logger) *Profiles {
	return &Profiles{
		profiles: profiles,
		cache:    cacheOrNoop(cache),
		notifier: notifierOrNoop(notifier),
		log:      logger.OrNop(log),
	}
}

func (u *Profiles) Get(ctx context.Context, userID uuid.UUID) (skill.Profile, error) {
	p, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, skill.ErrProfileNotFound) {
			return skill.Profile{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return skill.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// Onboard seeds newly declared skills at the level banded from the
// onboarding test's aggregate score. Skills already on the profile are left
// as they are and no quota is used.
func (u *Profiles) Onboard(ctx context.Context, userID uuid.UUID, in OnboardInput) (skill.Profile, error) {
	if in.Aggregate < 0 || in.Aggregate > 100 {
		return skill.Profile{}, ErrInvalidInput
	}
	names := make([]string, 0, len(in.Skills))
	for _, n := range in.Skills {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return skill.Profile{}, ErrInvalidInput
	}

	current, err := u.Get(ctx, userID)
	if err != nil {
		return skill.Profile{}, err
	}
	if current.Kind != skill.KindCandidate {
		return skill.Profile{}, ErrForbidden
	}

	level, exp := skill.OnboardingBand(in.Aggregate)
	updated, err := u.profiles.Update(ctx, current.ID, func(p skill.Profile) (skill.Profile, error) {
		for _, n := range names {
			if _, _, ok := p.Lookup(n); ok {
				continue
			}
			p = p.Upsert(skill.Skill{
				Name:             n,
				ProficiencyLevel: max(level, skill.MinLevel),
				ExperienceLevel:  exp,
				ScoreTest:        in.Aggregate,
			})
		}
		return p, nil
	})
	if err != nil {
		return skill.Profile{}, fmt.Errorf("persist onboarding: %w", err)
	}

	if err := u.cache.DeleteByPattern(ctx, RankingCachePattern); err != nil {
		u.log.Warn("ranking cache not invalidated", zap.Error(err))
	}
	u.notifier.NotifyProfileUpdated(userID, updated.OverallScore, "onboarding")
	u.log.Info("profile onboarded",
		zap.String(logger.FieldUserID, userID.String()),
		zap.Int("band", level),
		zap.String("experience", string(exp)),
	)
	return updated, nil
}

// SetRequiredSkills replaces the required skills a company ranks candidates
// against.
func (u *Profiles) SetRequiredSkills(ctx context.Context, userID uuid.UUID, reqs []skill.Requirement) (skill.Profile, error) {
	normalized, err := job.NormalizeRequirements(reqs)
	if err != nil {
		return skill.Profile{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	current, err := u.Get(ctx, userID)
	if err != nil {
		return skill.Profile{}, err
	}
	if current.Kind != skill.KindCompany {
		return skill.Profile{}, ErrForbidden
	}

	updated, err := u.profiles.Update(ctx, current.ID, func(p skill.Profile) (skill.Profile, error) {
		p.RequiredSkills = normalized
		return p, nil
	})
	if err != nil {
		return skill.Profile{}, fmt.Errorf("persist required skills: %w", err)
	}
	if err := u.cache.Delete(ctx, CompanyRankingCacheKey(updated.ID)); err != nil {
		u.log.Warn("company ranking cache not invalidated", zap.Error(err))
	}
	return updated, nil
}
