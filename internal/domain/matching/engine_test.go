package matching

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"skill-assess/internal/domain/skill"
)

func TestScoreCandidate(t *testing.T) {
	cases := []struct {
		name   string
		reqs   []skill.Requirement
		skills []skill.Skill
		want   float64
	}{
		{
			name:   "case insensitive exact level",
			reqs:   []skill.Requirement{{Name: "React", Level: 3}},
			skills: []skill.Skill{{Name: "react", LevelConfirmed: 3}},
			want:   100,
		},
		{
			name:   "under qualified",
			reqs:   []skill.Requirement{{Name: "React", Level: 3}},
			skills: []skill.Skill{{Name: "React", LevelConfirmed: 1}},
			want:   0,
		},
		{
			name:   "overqualified decays",
			reqs:   []skill.Requirement{{Name: "SQL", Level: 2}},
			skills: []skill.Skill{{Name: "SQL", LevelConfirmed: 4}},
			want:   50,
		},
		{
			name:   "proficiency is ignored",
			reqs:   []skill.Requirement{{Name: "Go", Level: 3}},
			skills: []skill.Skill{{Name: "Go", ProficiencyLevel: 5, LevelConfirmed: 2}},
			want:   0,
		},
		{
			name: "absent skills only shrink the numerator",
			reqs: []skill.Requirement{{Name: "Go", Level: 1}, {Name: "Rust", Level: 2}, {Name: "SQL", Level: 1}},
			skills: []skill.Skill{
				{Name: "Go", LevelConfirmed: 2},
				{Name: "SQL", LevelConfirmed: 1},
			},
			want: 56.7,
		},
		{
			name:   "five levels over gives nothing",
			reqs:   []skill.Requirement{{Name: "Go", Level: 0}},
			skills: []skill.Skill{{Name: "Go", LevelConfirmed: 5}},
			want:   0,
		},
	}

	for _, tc := range cases {
		got, err := ScoreCandidate(tc.reqs, tc.skills)
		if err != nil {
			t.Fatalf("%s: unexpected err: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestScoreCandidate_EmptyRequirements(t *testing.T) {
	_, err := ScoreCandidate(nil, []skill.Skill{{Name: "Go", LevelConfirmed: 3}})
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
	if _, err := RankCandidates([]skill.Requirement{}, nil); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected invariant violation from ranking, got %v", err)
	}
}

func TestEvaluate_Details(t *testing.T) {
	id := uuid.New()
	res, err := Evaluate(
		[]skill.Requirement{{Name: "Go", Level: 2}, {Name: "Docker", Level: 3}, {Name: "Kafka", Level: 1}},
		Candidate{ID: id, Skills: []skill.Skill{{Name: "go", LevelConfirmed: 3}, {Name: "Docker", LevelConfirmed: 1}}},
	)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.CandidateID != id {
		t.Fatalf("expected candidate id to be carried")
	}
	if len(res.MatchedSkills) != 1 || res.MatchedSkills[0].SkillName != "Go" || res.MatchedSkills[0].ScoreContribution != 70 {
		t.Fatalf("unexpected matched skills %+v", res.MatchedSkills)
	}
	if len(res.MissingSkills) != 1 || res.MissingSkills[0] != "Kafka" {
		t.Fatalf("unexpected missing skills %+v", res.MissingSkills)
	}
	if res.Score != 23.3 {
		t.Fatalf("expected 23.3, got %v", res.Score)
	}
}

func TestRankCandidates_StableAndFiltered(t *testing.T) {
	reqs := []skill.Requirement{{Name: "Go", Level: 3}}
	a := Candidate{ID: uuid.New(), Skills: []skill.Skill{{Name: "Go", LevelConfirmed: 4}}}
	b := Candidate{ID: uuid.New(), Skills: []skill.Skill{{Name: "Go", LevelConfirmed: 3}}}
	c := Candidate{ID: uuid.New(), Skills: []skill.Skill{{Name: "Go", LevelConfirmed: 4}}}
	d := Candidate{ID: uuid.New(), Skills: []skill.Skill{{Name: "Go", LevelConfirmed: 1}}}
	e := Candidate{ID: uuid.New()}

	out, err := RankCandidates(reqs, []Candidate{a, b, c, d, e})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 ranked candidates, got %d", len(out))
	}
	if out[0].CandidateID != b.ID || out[1].CandidateID != a.ID || out[2].CandidateID != c.ID {
		t.Fatalf("unexpected order %+v", out)
	}
}
