package assessment

import "skill-assess/internal/domain/skill"

const (
	DefaultOverallScore    = 70.0
	DefaultConfidenceScore = 60.0

	incompleteStrength   = "Assessment incomplete"
	incompleteAssessment = "Analysis could not be completed fully"
	retryRecommendation  = "Please retry the assessment to get a complete analysis"
)

type SkillAnalysis struct {
	SkillName               string   `json:"skillName"`
	RequiredLevel           int      `json:"requiredLevel,omitempty"`
	CurrentProficiency      int      `json:"currentProficiency"`
	DemonstratedProficiency int      `json:"demonstratedProficiency"`
	ConfidenceScore         float64  `json:"confidenceScore"`
	Strengths               []string `json:"strengths"`
	Weaknesses              []string `json:"weaknesses"`
	Match                   string   `json:"match,omitempty"`
	LevelGap                int      `json:"levelGap"`
}

type JobMatch struct {
	Percentage float64  `json:"percentage"`
	Status     string   `json:"status"`
	KeyGaps    []string `json:"keyGaps"`
}

// Analysis is the outcome of one grading pass. It feeds Merge and is
// never stored as a profile field.
type Analysis struct {
	OverallScore      float64         `json:"overallScore"`
	TechnicalLevel    string          `json:"technicalLevel,omitempty"`
	GeneralAssessment string          `json:"generalAssessment"`
	Recommendations   []string        `json:"recommendations"`
	NextSteps         []string        `json:"nextSteps,omitempty"`
	SkillAnalysis     []SkillAnalysis `json:"skillAnalysis"`
	JobMatch          *JobMatch       `json:"jobMatch,omitempty"`
}

type Kind int

const (
	KindParsed Kind = iota
	KindDegraded
)

func (k Kind) String() string {
	if k == KindDegraded {
		return "degraded"
	}
	return "parsed"
}

func ParseKind(s string) Kind {
	if s == "degraded" {
		return KindDegraded
	}
	return KindParsed
}

type Reason string

const (
	ReasonNone              Reason = ""
	ReasonEmpty             Reason = "empty_response"
	ReasonMalformed         Reason = "malformed_analysis"
	ReasonValidation        Reason = "validation_failed"
	ReasonOracleUnavailable Reason = "oracle_unavailable"
	ReasonOracleTimeout     Reason = "oracle_timeout"
)

// Result tells a genuine oracle analysis apart from the conservative default.
type Result struct {
	Kind     Kind
	Analysis Analysis
	Reason   Reason
	Err      error
}

func Parsed(a Analysis) Result {
	return Result{Kind: KindParsed, Analysis: a}
}

func Degraded(a Analysis, reason Reason, err error) Result {
	return Result{Kind: KindDegraded, Analysis: a, Reason: reason, Err: err}
}

func (r Result) IsDegraded() bool {
	return r.Kind == KindDegraded
}

// WithCause re-labels a degraded result with the upstream failure that
// produced the empty input. Parsed results are returned as is.
func (r Result) WithCause(reason Reason, err error) Result {
	if r.Kind != KindDegraded || err == nil {
		return r
	}
	r.Reason = reason
	r.Err = err
	return r
}

// DefaultAnalysis keeps every skill at its pre-assessment level.
func DefaultAnalysis(current []skill.Skill) Analysis {
	a := Analysis{
		OverallScore:      DefaultOverallScore,
		GeneralAssessment: incompleteAssessment,
		Recommendations:   []string{retryRecommendation},
		SkillAnalysis:     make([]SkillAnalysis, 0, len(current)),
	}
	for _, s := range current {
		a.SkillAnalysis = append(a.SkillAnalysis, SkillAnalysis{
			SkillName:               s.Name,
			CurrentProficiency:      s.ProficiencyLevel,
			DemonstratedProficiency: s.ProficiencyLevel,
			ConfidenceScore:         DefaultConfidenceScore,
			Strengths:               []string{incompleteStrength},
			Weaknesses:              []string{},
		})
	}
	return a
}
