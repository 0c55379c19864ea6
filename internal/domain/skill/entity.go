package skill

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

var ErrProfileNotFound = errors.New("profile not found")

type ExperienceLevel string

const (
	NoLevel    ExperienceLevel = "No Level"
	EntryLevel ExperienceLevel = "Entry Level"
	Junior     ExperienceLevel = "Junior"
	MidLevel   ExperienceLevel = "Mid Level"
	Senior     ExperienceLevel = "Senior"
	Expert     ExperienceLevel = "Expert"
)

type ProfileKind string

const (
	KindCandidate ProfileKind = "candidate"
	KindCompany   ProfileKind = "company"
)

type Skill struct {
	Name             string          `json:"name"`
	ProficiencyLevel int             `json:"proficiencyLevel"`
	ExperienceLevel  ExperienceLevel `json:"experienceLevel"`
	ScoreTest        float64         `json:"ScoreTest"`
	LevelConfirmed   int             `json:"Levelconfirmed"`
}

// Requirement is a required skill on a job posting or company profile.
type Requirement struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type Profile struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Kind           ProfileKind
	Skills         []Skill
	OverallScore   float64
	Quota          int
	QuotaUpdatedAt time.Time
	RequiredSkills []Requirement
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Key returns the identity of a skill name: trimmed and case folded.
func Key(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

func (p Profile) Lookup(name string) (Skill, int, bool) {
	k := Key(name)
	if k == "" {
		return Skill{}, -1, false
	}
	for i, s := range p.Skills {
		if Key(s.Name) == k {
			return s, i, true
		}
	}
	return Skill{}, -1, false
}

// Upsert replaces the skill sharing s's key or appends it, keeping
// insertion order. The receiver's slice is never written to.
func (p Profile) Upsert(s Skill) Profile {
	out := p.Clone()
	if _, i, ok := out.Lookup(s.Name); ok {
		s.Name = out.Skills[i].Name
		out.Skills[i] = s
		return out
	}
	s.Name = strings.TrimSpace(s.Name)
	out.Skills = append(out.Skills, s)
	return out
}

func (p Profile) Clone() Profile {
	out := p
	if p.Skills != nil {
		out.Skills = append([]Skill(nil), p.Skills...)
	}
	if p.RequiredSkills != nil {
		out.RequiredSkills = append([]Requirement(nil), p.RequiredSkills...)
	}
	return out
}
