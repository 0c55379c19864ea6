package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"skill-assess/internal/domain/skill"
)

const (
	questionsKeyPrefix = "assess:questions:"
	lockKeyPrefix      = "assess:lock:"
	rankingKeyPrefix   = "match:job:"
	companyKeyPrefix   = "match:company:"

	// RankingCachePattern covers every cached ranking. Rankings depend on all
	// candidate profiles, so any merge invalidates all of them.
	RankingCachePattern = "match:*"
)

type questionsCacheKeyInput struct {
	Flow   string   `json:"flow"`
	JobID  string   `json:"job_id,omitempty"`
	Model  string   `json:"model"`
	Skills []string `json:"skills"`
}

func normalizeKeyValue(s string) string {
	return strings.Join(strings.Fields(skill.Key(s)), " ")
}

func skillKeyParts(skills []skill.Skill) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		name := normalizeKeyValue(s.Name)
		if name == "" {
			continue
		}
		out = append(out, name+"@"+strconv.Itoa(clampLevel(s.ProficiencyLevel)))
	}
	return out
}

func requirementKeyParts(reqs []skill.Requirement) []string {
	out := make([]string, 0, len(reqs))
	for _, r := range reqs {
		name := normalizeKeyValue(r.Name)
		if name == "" {
			continue
		}
		out = append(out, name+"@"+strconv.Itoa(clampLevel(r.Level)))
	}
	return out
}

func clampLevel(v int) int {
	if v < 0 {
		return 0
	}
	if v > skill.MaxLevel {
		return skill.MaxLevel
	}
	return v
}

func hashKey(prefix string, in questionsCacheKeyInput) string {
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return prefix + hex.EncodeToString(sum[:])
}

func SkillQuestionsCacheKey(model string, skills []skill.Skill) string {
	return hashKey(questionsKeyPrefix, questionsCacheKeyInput{
		Flow:   "skill",
		Model:  model,
		Skills: skillKeyParts(skills),
	})
}

func JobQuestionsCacheKey(model string, jobID uuid.UUID, toTest []skill.Requirement) string {
	return hashKey(questionsKeyPrefix, questionsCacheKeyInput{
		Flow:   "job",
		JobID:  jobID.String(),
		Model:  model,
		Skills: requirementKeyParts(toTest),
	})
}

func AnalysisLockKey(profileID uuid.UUID) string {
	return lockKeyPrefix + profileID.String()
}

func RankingCacheKey(jobID uuid.UUID) string {
	return rankingKeyPrefix + jobID.String()
}

func CompanyRankingCacheKey(companyProfileID uuid.UUID) string {
	return companyKeyPrefix + companyProfileID.String()
}
