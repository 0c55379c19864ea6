package skill

import "math"

const (
	MinLevel = 1
	MaxLevel = 5
)

func ExperienceLevelOf(level int) ExperienceLevel {
	switch clampInt(level, MinLevel, MaxLevel) {
	case 1:
		return EntryLevel
	case 2:
		return Junior
	case 3:
		return MidLevel
	case 4:
		return Senior
	default:
		return Expert
	}
}

// ProficiencyFromConfidence buckets a per-skill confidence score in [0,100]
// into a proficiency level. Anything outside the range maps to 1.
func ProficiencyFromConfidence(score float64) int {
	switch {
	case math.IsNaN(score) || score < 0 || score > 100:
		return 1
	case score <= 20:
		return 1
	case score <= 30:
		return 2
	case score <= 50:
		return 3
	case score <= 80:
		return 4
	default:
		return 5
	}
}

// ConfirmedLevel is the level used for matching. Only a level-5 demonstration
// with confidence above 75 confirms 5; everything else confirms one bucket
// below the confidence bucket.
func ConfirmedLevel(demonstrated int, confidence float64) int {
	if demonstrated == MaxLevel && confidence > 75 {
		return MaxLevel
	}
	lvl := ProficiencyFromConfidence(confidence) - 1
	if lvl < 0 {
		return 0
	}
	return lvl
}

func DemonstratedFromConfidence(confidence float64, current int) int {
	lvl := current
	if confidence >= 65 {
		lvl = current + 1
	}
	return clampInt(lvl, MinLevel, MaxLevel)
}

// OnboardingBand maps an aggregate onboarding test score to a level.
// It is a different table from ProficiencyFromConfidence.
func OnboardingBand(aggregate float64) (int, ExperienceLevel) {
	switch {
	case math.IsNaN(aggregate) || aggregate < 6:
		return 0, NoLevel
	case aggregate < 16.32:
		return 1, EntryLevel
	case aggregate < 30.32:
		return 2, Junior
	case aggregate < 48.31:
		return 3, MidLevel
	case aggregate < 69.33:
		return 4, Senior
	default:
		return 5, Expert
	}
}

// JobDemonstratedLevel scales the level a job asked for by how confidently
// the candidate answered.
func JobDemonstratedLevel(required int, confidence float64) int {
	required = clampInt(required, 0, MaxLevel)
	lvl := 0
	switch {
	case confidence >= 70:
		lvl = required
	case confidence >= 50:
		lvl = int(math.Floor(float64(required) * 0.7))
	case confidence >= 30:
		lvl = int(math.Floor(float64(required) * 0.4))
	}
	return clampInt(lvl, 0, required)
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
