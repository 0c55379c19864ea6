package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"skill-assess/internal/domain/assessment"
	"skill-assess/internal/domain/skill"
	"skill-assess/internal/infrastructure/broker"
	"skill-assess/internal/oracle"
	"skill-assess/internal/pkg/logger"
)

type QuestionSet struct {
	Questions      []string
	RemainingQuota int
}

type AnalyzeInput struct {
	Answers []assessment.Answer
}

type AnalysisOutcome struct {
	Analysis       assessment.Analysis
	Degraded       bool
	Reason         assessment.Reason
	Profile        skill.Profile
	RemainingQuota int
}

type AssessmentUsecase interface {
	GenerateQuestions(ctx context.Context, userID uuid.UUID, skills []skill.Skill) (QuestionSet, error)
	Analyze(ctx context.Context, userID uuid.UUID, in AnalyzeInput) (AnalysisOutcome, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]assessment.Record, error)
}

type Assessment struct {
	assessor
}

func NewAssessmentUsecase(d AssessmentDeps) *Assessment {
	return &Assessment{assessor: newAssessor(d)}
}

// GenerateQuestions asks the oracle for questions on skills, or on every
// profile skill when skills is empty. It only checks the quota; nothing is
// consumed until an analysis is merged.
func (u *Assessment) GenerateQuestions(ctx context.Context, userID uuid.UUID, skills []skill.Skill) (QuestionSet, error) {
	profile, err := u.candidateProfile(ctx, userID)
	if err != nil {
		return QuestionSet{}, err
	}
	decision := assessment.CheckAndConsume(profile, u.now())
	if !decision.Allowed {
		return QuestionSet{}, assessment.ErrQuotaExceeded
	}

	targets := questionTargets(profile, skills)
	if len(targets) == 0 {
		return QuestionSet{}, ErrInvalidInput
	}

	key := SkillQuestionsCacheKey(u.models.Question, targets)
	var cached []string
	if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit && len(cached) > 0 {
		u.log.Debug("questions cache hit", zap.String("key", key))
		return QuestionSet{Questions: cached, RemainingQuota: decision.Remaining}, nil
	}

	raw, err := u.oracle.Complete(ctx, oracle.SkillQuestions(u.models.Question, targets))
	if err != nil {
		return QuestionSet{}, fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
	}
	questions, err := assessment.ExtractQuestions(raw)
	if err != nil {
		u.log.Warn("questions not parsed",
			zap.String(logger.FieldUserID, userID.String()),
			zap.String("preview", logger.TruncateForLog(raw, 200)),
			zap.Error(err),
		)
		return QuestionSet{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if len(questions) > oracle.QuestionsPerAssessment {
		questions = questions[:oracle.QuestionsPerAssessment]
	}

	if err := u.cache.SetJSON(ctx, key, questions, 0); err != nil {
		u.log.Warn("questions cache write failed", zap.String("key", key), zap.Error(err))
	}
	return QuestionSet{Questions: questions, RemainingQuota: decision.Remaining}, nil
}

// Analyze grades the answers and merges the result into the candidate's
// profile. A degraded analysis is returned to the caller but neither merged
// nor charged against the quota.
func (u *Assessment) Analyze(ctx context.Context, userID uuid.UUID, in AnalyzeInput) (AnalysisOutcome, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "assessment.Analyze")
	defer span.End()

	answers := assessment.CleanAnswers(in.Answers)
	if len(answers) == 0 {
		return AnalysisOutcome{}, ErrInvalidInput
	}

	profile, err := u.candidateProfile(ctx, userID)
	if err != nil {
		return AnalysisOutcome{}, err
	}
	decision := assessment.CheckAndConsume(profile, u.now())
	if !decision.Allowed {
		return AnalysisOutcome{}, assessment.ErrQuotaExceeded
	}

	unlock, err := u.lock(ctx, profile.ID)
	if err != nil {
		return AnalysisOutcome{}, err
	}
	defer unlock()

	res := u.analyze(ctx, oracle.SkillAnalysis(u.models.Analysis, profile.Skills, answers), profile.Skills)
	span.SetAttributes(attribute.String("assessment.result_kind", res.Kind.String()))

	if res.IsDegraded() {
		u.logDegraded(userID, assessment.TypeSkill, res)
		u.saveRecord(ctx, assessment.NewRecord(profile.ID, assessment.TypeSkill, len(answers), res, u.now()))
		return AnalysisOutcome{
			Analysis:       res.Analysis,
			Degraded:       true,
			Reason:         res.Reason,
			Profile:        decision.Profile,
			RemainingQuota: decision.Remaining,
		}, nil
	}

	updated, err := u.profiles.Update(ctx, profile.ID, func(p skill.Profile) (skill.Profile, error) {
		now := u.now()
		d := assessment.CheckAndConsume(p, now)
		if !d.Allowed {
			return p, assessment.ErrQuotaExceeded
		}
		return assessment.Consume(assessment.Merge(d.Profile, res.Analysis), now), nil
	})
	if err != nil {
		if errors.Is(err, assessment.ErrQuotaExceeded) {
			return AnalysisOutcome{}, err
		}
		return AnalysisOutcome{}, fmt.Errorf("persist merged profile: %w", err)
	}

	u.saveRecord(ctx, assessment.NewRecord(profile.ID, assessment.TypeSkill, len(answers), res, u.now()))
	u.afterMerge(ctx, updated, broker.Event{
		Type:   broker.RoutingProfileSkillsUpdated,
		Skills: analyzedSkillNames(res.Analysis),
	}, "assessment")

	u.log.Info("assessment merged",
		zap.String(logger.FieldUserID, userID.String()),
		zap.Float64("overall_score", updated.OverallScore),
		zap.Int("quota_used", updated.Quota),
	)
	return AnalysisOutcome{
		Analysis:       res.Analysis,
		Profile:        updated,
		RemainingQuota: remainingQuota(updated),
	}, nil
}

func (u *Assessment) History(ctx context.Context, userID uuid.UUID, limit int) ([]assessment.Record, error) {
	profile, err := u.candidateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.results == nil {
		return []assessment.Record{}, nil
	}
	return u.results.ListByCandidate(ctx, profile.ID, limit)
}

// questionTargets dedupes the requested skills and fills unspecified levels
// from the profile. An empty request means every profile skill.
func questionTargets(p skill.Profile, requested []skill.Skill) []skill.Skill {
	if len(requested) == 0 {
		return p.Skills
	}
	out := make([]skill.Skill, 0, len(requested))
	seen := make(map[string]struct{}, len(requested))
	for _, s := range requested {
		k := skill.Key(s.Name)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if existing, _, ok := p.Lookup(s.Name); ok && s.ProficiencyLevel == 0 {
			s = existing
		}
		s.Name = strings.TrimSpace(s.Name)
		if s.ExperienceLevel == "" {
			s.ExperienceLevel = skill.ExperienceLevelOf(s.ProficiencyLevel)
		}
		out = append(out, s)
	}
	return out
}
