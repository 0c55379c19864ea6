package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"skill-assess/internal/domain/assessment"
	"skill-assess/internal/domain/job"
	"skill-assess/internal/domain/skill"
	"skill-assess/internal/infrastructure/broker"
	"skill-assess/internal/oracle"
	"skill-assess/internal/pkg/logger"
	"skill-assess/internal/repository"
)

type JobQuestionSet struct {
	Questions      []string
	SkillsToTest   []skill.Requirement
	AlreadyProven  []skill.Requirement
	RemainingQuota int
}

type JobAnalysisOutcome struct {
	Analysis       assessment.Analysis
	Degraded       bool
	Reason         assessment.Reason
	Profile        skill.Profile
	RemainingQuota int
}

type JobAssessmentUsecase interface {
	GenerateQuestions(ctx context.Context, userID, jobID uuid.UUID) (JobQuestionSet, error)
	Analyze(ctx context.Context, userID, jobID uuid.UUID, in AnalyzeInput) (JobAnalysisOutcome, error)
}

type JobAssessment struct {
	assessor
	jobs repository.JobRepository
}

func NewJobAssessmentUsecase(d AssessmentDeps, jobs repository.JobRepository) *JobAssessment {
	return &JobAssessment{assessor: newAssessor(d), jobs: jobs}
}

func (u *JobAssessment) posting(ctx context.Context, jobID uuid.UUID) (job.Posting, error) {
	p, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Posting{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return job.Posting{}, fmt.Errorf("load job posting: %w", err)
	}
	return p, nil
}

// GenerateQuestions only covers the requirements the candidate has not
// already met. When every requirement is met no oracle call is made.
func (u *JobAssessment) GenerateQuestions(ctx context.Context, userID, jobID uuid.UUID) (JobQuestionSet, error) {
	profile, err := u.candidateProfile(ctx, userID)
	if err != nil {
		return JobQuestionSet{}, err
	}
	posting, err := u.posting(ctx, jobID)
	if err != nil {
		return JobQuestionSet{}, err
	}
	decision := assessment.CheckAndConsume(profile, u.now())
	if !decision.Allowed {
		return JobQuestionSet{}, assessment.ErrQuotaExceeded
	}

	out := JobQuestionSet{
		SkillsToTest:   assessment.SkillsToTest(profile.Skills, posting.RequiredSkills),
		AlreadyProven:  assessment.FindAlreadyProven(profile.Skills, posting.RequiredSkills),
		RemainingQuota: decision.Remaining,
	}
	if len(out.SkillsToTest) == 0 {
		out.Questions = []string{}
		return out, nil
	}

	key := JobQuestionsCacheKey(u.models.Question, posting.ID, out.SkillsToTest)
	var cached []string
	if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit && len(cached) > 0 {
		out.Questions = cached
		return out, nil
	}

	raw, err := u.oracle.Complete(ctx, oracle.JobQuestions(u.models.Question, out.SkillsToTest))
	if err != nil {
		return JobQuestionSet{}, fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
	}
	questions, err := assessment.ExtractQuestions(raw)
	if err != nil {
		u.log.Warn("job questions not parsed",
			zap.String(logger.FieldJobID, posting.ID.String()),
			zap.String("preview", logger.TruncateForLog(raw, 200)),
			zap.Error(err),
		)
		return JobQuestionSet{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if len(questions) > oracle.QuestionsPerAssessment {
		questions = questions[:oracle.QuestionsPerAssessment]
	}
	if err := u.cache.SetJSON(ctx, key, questions, 0); err != nil {
		u.log.Warn("questions cache write failed", zap.String("key", key), zap.Error(err))
	}
	out.Questions = questions
	return out, nil
}

// Analyze grades a job-targeted assessment. Tested skills only ever move up
// in the profile; already proven skills are reported from stored results.
func (u *JobAssessment) Analyze(ctx context.Context, userID, jobID uuid.UUID, in AnalyzeInput) (JobAnalysisOutcome, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "assessment.AnalyzeJob")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", jobID.String()))

	profile, err := u.candidateProfile(ctx, userID)
	if err != nil {
		return JobAnalysisOutcome{}, err
	}
	posting, err := u.posting(ctx, jobID)
	if err != nil {
		return JobAnalysisOutcome{}, err
	}

	proven := assessment.FindAlreadyProven(profile.Skills, posting.RequiredSkills)
	toTest := assessment.SkillsToTest(profile.Skills, posting.RequiredSkills)
	answers := assessment.CleanAnswers(in.Answers)

	if len(toTest) == 0 {
		summary := assessment.SummarizeJobAnalysis(assessment.MergeAlreadyProven(emptyJobAnalysis(), proven, profile.Skills))
		u.saveRecord(ctx, u.jobRecord(profile, posting, len(answers), assessment.Parsed(summary)))
		return JobAnalysisOutcome{Analysis: summary, Profile: profile, RemainingQuota: remainingQuota(profile)}, nil
	}
	if len(answers) == 0 {
		return JobAnalysisOutcome{}, ErrInvalidInput
	}

	decision := assessment.CheckAndConsume(profile, u.now())
	if !decision.Allowed {
		return JobAnalysisOutcome{}, assessment.ErrQuotaExceeded
	}

	unlock, err := u.lock(ctx, profile.ID)
	if err != nil {
		return JobAnalysisOutcome{}, err
	}
	defer unlock()

	res := u.analyze(ctx, oracle.JobAnalysis(u.models.Analysis, toTest, answers), testedFallback(profile, toTest))
	span.SetAttributes(attribute.String("assessment.result_kind", res.Kind.String()))

	if res.IsDegraded() {
		u.logDegraded(userID, assessment.TypeJob, res)
		u.saveRecord(ctx, u.jobRecord(profile, posting, len(answers), res))
		return JobAnalysisOutcome{
			Analysis:       res.Analysis,
			Degraded:       true,
			Reason:         res.Reason,
			Profile:        decision.Profile,
			RemainingQuota: decision.Remaining,
		}, nil
	}

	tested := assessment.ApplyJobLevels(res.Analysis, toTest)
	updated, err := u.profiles.Update(ctx, profile.ID, func(p skill.Profile) (skill.Profile, error) {
		now := u.now()
		d := assessment.CheckAndConsume(p, now)
		if !d.Allowed {
			return p, assessment.ErrQuotaExceeded
		}
		return assessment.Consume(assessment.MergeJobResults(d.Profile, tested), now), nil
	})
	if err != nil {
		if errors.Is(err, assessment.ErrQuotaExceeded) {
			return JobAnalysisOutcome{}, err
		}
		return JobAnalysisOutcome{}, fmt.Errorf("persist merged profile: %w", err)
	}

	summary := assessment.SummarizeJobAnalysis(assessment.MergeAlreadyProven(tested, proven, profile.Skills))
	u.saveRecord(ctx, u.jobRecord(profile, posting, len(answers), assessment.Parsed(summary)))

	jobRef := posting.ID
	u.afterMerge(ctx, updated, broker.Event{
		Type:   broker.RoutingAssessmentCompleted,
		JobID:  &jobRef,
		Skills: analyzedSkillNames(tested),
	}, "job_assessment")

	u.log.Info("job assessment merged",
		zap.String(logger.FieldUserID, userID.String()),
		zap.String(logger.FieldJobID, posting.ID.String()),
		zap.Float64("job_match", summary.OverallScore),
	)
	return JobAnalysisOutcome{
		Analysis:       summary,
		Profile:        updated,
		RemainingQuota: remainingQuota(updated),
	}, nil
}

func (u *JobAssessment) jobRecord(profile skill.Profile, posting job.Posting, questions int, res assessment.Result) assessment.Record {
	rec := assessment.NewRecord(profile.ID, assessment.TypeJob, questions, res, u.now())
	company := posting.CompanyProfileID
	jobID := posting.ID
	rec.CompanyProfileID = &company
	rec.JobID = &jobID
	return rec
}

func emptyJobAnalysis() assessment.Analysis {
	return assessment.Analysis{
		GeneralAssessment: "All required skills are already present in your profile.",
		Recommendations:   []string{},
		SkillAnalysis:     []assessment.SkillAnalysis{},
	}
}

// testedFallback is the skill list a degraded job analysis falls back to:
// the tested requirements at the candidate's current level.
func testedFallback(p skill.Profile, toTest []skill.Requirement) []skill.Skill {
	out := make([]skill.Skill, 0, len(toTest))
	for _, r := range toTest {
		if s, _, ok := p.Lookup(r.Name); ok {
			out = append(out, s)
			continue
		}
		out = append(out, skill.Skill{Name: r.Name, ExperienceLevel: skill.NoLevel})
	}
	return out
}
