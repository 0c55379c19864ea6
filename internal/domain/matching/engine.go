package matching

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"skill-assess/internal/domain/skill"
)

var ErrInvariantViolation = errors.New("matching invariant violated")

// decay is the contribution of a met requirement by how far the confirmed
// level overshoots the required one.
var decay = [...]float64{100, 70, 50, 30, 10}

type Candidate struct {
	ID     uuid.UUID
	Skills []skill.Skill
}

type MatchedSkill struct {
	SkillName         string  `json:"skillName"`
	RequiredLevel     int     `json:"requiredLevel"`
	ConfirmedLevel    int     `json:"confirmedLevel"`
	ScoreContribution float64 `json:"scoreContribution"`
}

type Result struct {
	CandidateID   uuid.UUID      `json:"candidateId"`
	Score         float64        `json:"score"`
	MatchedSkills []MatchedSkill `json:"matchedSkills"`
	MissingSkills []string       `json:"missingSkills"`
}

// ScoreCandidate returns the 0..100 match percentage of skills against reqs.
func ScoreCandidate(reqs []skill.Requirement, skills []skill.Skill) (float64, error) {
	res, err := Evaluate(reqs, Candidate{Skills: skills})
	if err != nil {
		return 0, err
	}
	return res.Score, nil
}

// Evaluate scores one candidate and reports which requirements contributed
// and which were absent from the profile.
func Evaluate(reqs []skill.Requirement, c Candidate) (Result, error) {
	if len(reqs) == 0 {
		return Result{}, fmt.Errorf("%w: job has no required skills", ErrInvariantViolation)
	}

	byKey := make(map[string]skill.Skill, len(c.Skills))
	for _, s := range c.Skills {
		k := skill.Key(s.Name)
		if k == "" {
			continue
		}
		if _, dup := byKey[k]; !dup {
			byKey[k] = s
		}
	}

	matched := make([]MatchedSkill, 0, len(reqs))
	missing := make([]string, 0)
	total := 0.0

	for _, r := range reqs {
		s, ok := byKey[skill.Key(r.Name)]
		if !ok {
			missing = append(missing, r.Name)
			continue
		}
		contrib := contribution(r.Level, s.LevelConfirmed)
		total += contrib
		if contrib > 0 {
			matched = append(matched, MatchedSkill{
				SkillName:         r.Name,
				RequiredLevel:     r.Level,
				ConfirmedLevel:    s.LevelConfirmed,
				ScoreContribution: contrib,
			})
		}
	}

	maxPossible := float64(len(reqs) * 100)
	return Result{
		CandidateID:   c.ID,
		Score:         round1(total / maxPossible * 100),
		MatchedSkills: matched,
		MissingSkills: missing,
	}, nil
}

// RankCandidates scores every candidate, drops non-positive scores and sorts
// the rest by score descending. Ties keep input order.
func RankCandidates(reqs []skill.Requirement, candidates []Candidate) ([]Result, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: job has no required skills", ErrInvariantViolation)
	}

	out := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		res, err := Evaluate(reqs, c)
		if err != nil {
			return nil, err
		}
		if res.Score <= 0 {
			continue
		}
		out = append(out, res)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

func contribution(required, confirmed int) float64 {
	if required > confirmed {
		return 0
	}
	diff := confirmed - required
	if diff >= len(decay) {
		return 0
	}
	return decay[diff]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
