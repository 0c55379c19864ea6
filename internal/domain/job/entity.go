package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"skill-assess/internal/domain/skill"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("job posting not found")
	ErrNoRequirements     = errors.New("job posting has no required skills")
	ErrInvalidRequirement = errors.New("invalid required skill")
)

type Posting struct {
	ID               uuid.UUID
	CompanyProfileID uuid.UUID
	Title            string
	Description      string
	RequiredSkills   []skill.Requirement
	CreatedAt        time.Time
}

// Level accepts either a number or one of the textual labels used by
// company dashboards when decoding job requirements.
type Level int

func (l *Level) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		v, err := strconv.ParseFloat(string(n), 64)
		if err != nil {
			return err
		}
		*l = Level(int(v))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: level %s", ErrInvalidRequirement, string(b))
	}
	*l = Level(LevelFromLabel(s))
	return nil
}

// LevelFromLabel converts a level label to its numeric level. Numeric strings
// are accepted; unknown labels map to 1.
func LevelFromLabel(label string) int {
	label = strings.TrimSpace(label)
	if v, err := strconv.Atoi(label); err == nil {
		return v
	}
	switch strings.ToLower(label) {
	case "beginner":
		return 1
	case "intermediate":
		return 3
	case "advanced":
		return 4
	case "expert":
		return 5
	default:
		return 1
	}
}

// NewPosting validates the required skill list. Requirements are fixed once a
// posting exists; edits go through NewPosting again.
func NewPosting(companyProfileID uuid.UUID, title, description string, reqs []skill.Requirement) (Posting, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Posting{}, fmt.Errorf("%w: empty title", ErrInvalidRequirement)
	}
	normalized, err := NormalizeRequirements(reqs)
	if err != nil {
		return Posting{}, err
	}
	return Posting{
		ID:               uuid.New(),
		CompanyProfileID: companyProfileID,
		Title:            title,
		Description:      strings.TrimSpace(description),
		RequiredSkills:   normalized,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

func NormalizeRequirements(reqs []skill.Requirement) ([]skill.Requirement, error) {
	if len(reqs) == 0 {
		return nil, ErrNoRequirements
	}
	seen := make(map[string]struct{}, len(reqs))
	out := make([]skill.Requirement, 0, len(reqs))
	for _, r := range reqs {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidRequirement)
		}
		if r.Level < skill.MinLevel || r.Level > skill.MaxLevel {
			return nil, fmt.Errorf("%w: %s level %d", ErrInvalidRequirement, name, r.Level)
		}
		k := skill.Key(name)
		if _, ok := seen[k]; ok {
			return nil, fmt.Errorf("%w: duplicate %s", ErrInvalidRequirement, name)
		}
		seen[k] = struct{}{}
		out = append(out, skill.Requirement{Name: name, Level: r.Level})
	}
	return out, nil
}
