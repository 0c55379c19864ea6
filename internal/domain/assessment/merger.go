package assessment

import (
	"strings"

	"skill-assess/internal/domain/skill"
)

// Merge folds one analysis into a profile. Skill fields are replaced, never
// averaged, so merging the same analysis twice leaves the same skills. Only
// the profile's overall score is smoothed.
func Merge(p skill.Profile, a Analysis) skill.Profile {
	out := p.Clone()
	for _, r := range a.SkillAnalysis {
		if r.ConfidenceScore <= 0 || skill.Key(r.SkillName) == "" {
			continue
		}
		current := r.CurrentProficiency
		if current <= 0 {
			if stored, _, ok := p.Lookup(r.SkillName); ok {
				current = stored.ProficiencyLevel
			}
		}
		out = out.Upsert(mergedSkill(r, current))
	}
	out.OverallScore = SmoothOverall(p.OverallScore, a.OverallScore)
	return out
}

// MergedSkill computes the stored skill for one analysis entry, trusting the
// entry's reported current proficiency.
func MergedSkill(r SkillAnalysis) skill.Skill {
	return mergedSkill(r, r.CurrentProficiency)
}

// mergedSkill steps up from current, the level the candidate held before
// this assessment.
func mergedSkill(r SkillAnalysis, current int) skill.Skill {
	demonstrated := skill.DemonstratedFromConfidence(r.ConfidenceScore, current)

	confirmed := skill.ConfirmedLevel(demonstrated, r.ConfidenceScore)
	if confirmed > demonstrated {
		confirmed = demonstrated
	}

	return skill.Skill{
		Name:             strings.TrimSpace(r.SkillName),
		ProficiencyLevel: demonstrated,
		ExperienceLevel:  skill.ExperienceLevelOf(demonstrated),
		ScoreTest:        r.ConfidenceScore,
		LevelConfirmed:   confirmed,
	}
}

func SmoothOverall(existing, fresh float64) float64 {
	if existing == 0 {
		return fresh
	}
	return (existing + fresh) / 2
}
