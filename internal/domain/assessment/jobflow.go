package assessment

import (
	"fmt"
	"math"
	"strings"

	"skill-assess/internal/domain/skill"
)

const (
	MatchStrong   = "Strong match"
	MatchModerate = "Moderate match"
	MatchPoor     = "Poor match"
)

// FindAlreadyProven returns the job requirements the candidate already meets
// by stored proficiency.
func FindAlreadyProven(userSkills []skill.Skill, reqs []skill.Requirement) []skill.Requirement {
	out := make([]skill.Requirement, 0)
	for _, r := range reqs {
		if proven(userSkills, r) {
			out = append(out, r)
		}
	}
	return out
}

// SkillsToTest is the complement of FindAlreadyProven.
func SkillsToTest(userSkills []skill.Skill, reqs []skill.Requirement) []skill.Requirement {
	out := make([]skill.Requirement, 0, len(reqs))
	for _, r := range reqs {
		if !proven(userSkills, r) {
			out = append(out, r)
		}
	}
	return out
}

func proven(userSkills []skill.Skill, r skill.Requirement) bool {
	k := skill.Key(r.Name)
	for _, s := range userSkills {
		if skill.Key(s.Name) == k && s.ProficiencyLevel >= r.Level {
			return true
		}
	}
	return false
}

// ApplyJobLevels derives each tested skill's demonstrated level from the level
// the job asked for and the confidence the oracle reported. Entries for skills
// that were not tested are dropped.
func ApplyJobLevels(a Analysis, tested []skill.Requirement) Analysis {
	required := make(map[string]int, len(tested))
	for _, r := range tested {
		required[skill.Key(r.Name)] = r.Level
	}

	out := a
	out.SkillAnalysis = make([]SkillAnalysis, 0, len(a.SkillAnalysis))
	for _, sa := range a.SkillAnalysis {
		lvl, ok := required[skill.Key(sa.SkillName)]
		if !ok {
			continue
		}
		sa.RequiredLevel = lvl
		sa.DemonstratedProficiency = skill.JobDemonstratedLevel(lvl, sa.ConfidenceScore)
		sa.LevelGap = lvl - sa.DemonstratedProficiency
		out.SkillAnalysis = append(out.SkillAnalysis, sa)
	}
	return out
}

// MergeJobResults adds newly demonstrated skills and upgrades existing ones.
// A job assessment never lowers a stored level.
func MergeJobResults(p skill.Profile, a Analysis) skill.Profile {
	out := p.Clone()
	for _, sa := range a.SkillAnalysis {
		lvl := sa.DemonstratedProficiency
		if lvl <= 0 || skill.Key(sa.SkillName) == "" {
			continue
		}
		existing, _, ok := out.Lookup(sa.SkillName)
		if ok && existing.ProficiencyLevel >= lvl {
			continue
		}
		confirmed := lvl - 1
		if confirmed < 0 {
			confirmed = 0
		}
		out = out.Upsert(skill.Skill{
			Name:             sa.SkillName,
			ProficiencyLevel: lvl,
			ExperienceLevel:  skill.ExperienceLevelOf(lvl),
			ScoreTest:        sa.ConfidenceScore,
			LevelConfirmed:   confirmed,
		})
	}
	return out
}

// MergeAlreadyProven puts the skills that were skipped during the job test
// back into the analysis, scored from the candidate's stored results.
func MergeAlreadyProven(a Analysis, proven []skill.Requirement, userSkills []skill.Skill) Analysis {
	out := a
	out.SkillAnalysis = append([]SkillAnalysis(nil), a.SkillAnalysis...)

	p := skill.Profile{Skills: userSkills}
	for _, r := range proven {
		us, _, ok := p.Lookup(r.Name)
		if !ok {
			continue
		}
		conf := us.ScoreTest
		if conf <= 0 {
			conf = 100
		}
		entry := SkillAnalysis{
			SkillName:               us.Name,
			RequiredLevel:           us.ProficiencyLevel,
			CurrentProficiency:      us.ProficiencyLevel,
			DemonstratedProficiency: us.ProficiencyLevel,
			ConfidenceScore:         conf,
			Strengths: []string{fmt.Sprintf(
				"Your %s skills were already present in your profile, so they were not re-evaluated for this job. Take a new %s test from your profile to update them.",
				us.Name, us.Name,
			)},
			Weaknesses: []string{"No weaknesses found"},
			Match:      MatchStrong,
			LevelGap:   0,
		}

		replaced := false
		k := skill.Key(r.Name)
		for i := range out.SkillAnalysis {
			if skill.Key(out.SkillAnalysis[i].SkillName) == k {
				out.SkillAnalysis[i] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			out.SkillAnalysis = append(out.SkillAnalysis, entry)
		}
	}
	return out
}

// SummarizeJobAnalysis recomputes the overall score as the mean skill
// confidence and derives the job match status from it.
func SummarizeJobAnalysis(a Analysis) Analysis {
	out := a
	sum := 0.0
	for _, sa := range a.SkillAnalysis {
		sum += sa.ConfidenceScore
	}
	score := 0.0
	if n := len(a.SkillAnalysis); n > 0 {
		score = math.Round(sum/float64(n)*100) / 100
	}
	out.OverallScore = score

	jm := JobMatch{}
	if a.JobMatch != nil {
		jm = *a.JobMatch
	}
	jm.Percentage = score
	jm.Status = JobMatchStatus(score)
	if jm.KeyGaps == nil {
		jm.KeyGaps = keyGaps(a.SkillAnalysis)
	}
	out.JobMatch = &jm
	return out
}

func JobMatchStatus(score float64) string {
	switch {
	case score >= 70:
		return MatchStrong
	case score >= 50:
		return MatchModerate
	default:
		return MatchPoor
	}
}

func keyGaps(items []SkillAnalysis) []string {
	out := make([]string, 0)
	for _, sa := range items {
		if sa.LevelGap > 0 {
			out = append(out, strings.TrimSpace(sa.SkillName))
		}
	}
	return out
}
