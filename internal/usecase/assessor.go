package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skill-assess/internal/domain/assessment"
	"skill-assess/internal/domain/skill"
	"skill-assess/internal/infrastructure/broker"
	"skill-assess/internal/oracle"
	"skill-assess/internal/pkg/logger"
	"skill-assess/internal/repository"
)

const (
	tracerName      = "skill-assess/usecase"
	analysisLockTTL = 2 * time.Minute
)

// AssessmentDeps wires the collaborators shared by the skill and job
// assessment flows.
type AssessmentDeps struct {
	Profiles  repository.ProfileRepository
	Results   repository.AssessmentResultRepository
	Oracle    Oracle
	Cache     Cache
	Publisher EventPublisher
	Notifier  ProfileNotifier
	Models    Models
	Logger    *zap.Logger
	Now       func() time.Time
}

type assessor struct {
	profiles  repository.ProfileRepository
	results   repository.AssessmentResultRepository
	oracle    Oracle
	cache     Cache
	publisher EventPublisher
	notifier  ProfileNotifier
	models    Models
	log       *zap.Logger
	now       clock
}

func newAssessor(d AssessmentDeps) assessor {
	return assessor{
		profiles:  d.Profiles,
		results:   d.Results,
		oracle:    d.Oracle,
		cache:     cacheOrNoop(d.Cache),
		publisher: publisherOrNoop(d.Publisher),
		notifier:  notifierOrNoop(d.Notifier),
		models:    d.Models,
		log:       logger.OrNop(d.Logger),
		now:       clockOrNow(d.Now),
	}
}

func (a assessor) candidateProfile(ctx context.Context, userID uuid.UUID) (skill.Profile, error) {
	p, err := a.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, skill.ErrProfileNotFound) {
			return skill.Profile{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return skill.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if p.Kind != skill.KindCandidate {
		return skill.Profile{}, ErrForbidden
	}
	return p, nil
}

// lock takes the per-profile analysis lock. Without Redis the lock is
// skipped and the row lock in ProfileRepository.Update is the only guard.
func (a assessor) lock(ctx context.Context, profileID uuid.UUID) (func(), error) {
	if !a.cache.Available() {
		return func() {}, nil
	}
	key := AnalysisLockKey(profileID)
	token := uuid.NewString()
	ok, err := a.cache.SetIfNotExists(ctx, key, token, analysisLockTTL)
	if err != nil {
		a.log.Warn("analysis lock unavailable", zap.String("key", key), zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		return nil, ErrAssessmentInProgress
	}
	return func() {
		if err := a.cache.Release(context.WithoutCancel(ctx), key, token); err != nil {
			a.log.Warn("analysis lock release failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// analyze sends the prompt and normalizes whatever comes back. Oracle
// failures are folded into a degraded result.
func (a assessor) analyze(ctx context.Context, req oracle.Request, fallback []skill.Skill) assessment.Result {
	raw, err := a.oracle.Complete(ctx, req)
	if err != nil {
		raw = ""
	}
	res := assessment.Extract(raw, fallback)
	if err != nil {
		res = res.WithCause(reasonFor(err), err)
	}
	return res
}

func (a assessor) logDegraded(userID uuid.UUID, flow string, res assessment.Result) {
	a.log.Warn("assessment analysis degraded",
		zap.String(logger.FieldUserID, userID.String()),
		zap.String("flow", flow),
		zap.String("reason", string(res.Reason)),
		zap.String(logger.FieldProvider, a.oracle.Provider()),
		zap.Error(res.Err),
	)
}

func (a assessor) saveRecord(ctx context.Context, rec assessment.Record) {
	if a.results == nil {
		return
	}
	if err := a.results.Save(ctx, rec); err != nil {
		a.log.Warn("assessment result not saved",
			zap.String("record_id", rec.ID.String()),
			zap.String("type", rec.Type),
			zap.Error(err),
		)
	}
}

// afterMerge runs once a merged profile is committed. None of these steps
// can undo the merge, so failures are only logged.
func (a assessor) afterMerge(ctx context.Context, p skill.Profile, evt broker.Event, source string) {
	if err := a.cache.DeleteByPattern(ctx, RankingCachePattern); err != nil {
		a.log.Warn("ranking cache not invalidated", zap.Error(err))
	}

	evt.UserID = p.UserID
	evt.ProfileID = p.ID
	evt.OverallScore = p.OverallScore
	if err := a.publisher.Publish(ctx, evt); err != nil {
		a.log.Warn("profile event not published", zap.String("type", evt.Type), zap.Error(err))
	}

	a.notifier.NotifyProfileUpdated(p.UserID, p.OverallScore, source)
}

func reasonFor(err error) assessment.Reason {
	if errors.Is(err, oracle.ErrTimeout) {
		return assessment.ReasonOracleTimeout
	}
	return assessment.ReasonOracleUnavailable
}

func remainingQuota(p skill.Profile) int {
	r := assessment.MonthlyQuota - p.Quota
	if r < 0 {
		return 0
	}
	return r
}

func analyzedSkillNames(a assessment.Analysis) []string {
	out := make([]string, 0, len(a.SkillAnalysis))
	for _, s := range a.SkillAnalysis {
		if s.ConfidenceScore > 0 {
			out = append(out, s.SkillName)
		}
	}
	return out
}
