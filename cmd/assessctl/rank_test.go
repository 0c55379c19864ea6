package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"skill-assess/internal/domain/job"
)

const rankInput = `{
  "requirements": [{"name": "Go", "level": "intermediate"}, {"name": "Docker", "level": 2}],
  "candidates": [
    {"id": "11111111-1111-1111-1111-111111111111", "skills": [{"name": "go", "Levelconfirmed": 3}]},
    {"id": "22222222-2222-2222-2222-222222222222", "skills": [{"name": "Go", "Levelconfirmed": 3}, {"name": "Docker", "Levelconfirmed": 3}]},
    {"id": "33333333-3333-3333-3333-333333333333", "skills": [{"name": "Rust", "Levelconfirmed": 5}]}
  ]
}`

func TestRankReader(t *testing.T) {
	results, err := rankReader(strings.NewReader(rankInput))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected zero scores dropped, got %+v", results)
	}
	if results[0].CandidateID.String() != "22222222-2222-2222-2222-222222222222" || results[0].Score != 85 {
		t.Fatalf("unexpected leader %+v", results[0])
	}
	if results[1].Score != 50 || len(results[1].MissingSkills) != 1 {
		t.Fatalf("unexpected runner-up %+v", results[1])
	}
}

func TestRankReader_RejectsBadRequirements(t *testing.T) {
	_, err := rankReader(strings.NewReader(`{"requirements": [], "candidates": []}`))
	if !errors.Is(err, job.ErrNoRequirements) {
		t.Fatalf("expected ErrNoRequirements, got %v", err)
	}
}

func TestBandCommand(t *testing.T) {
	var out bytes.Buffer
	bandCmd.SetOut(&out)
	if err := bandCmd.RunE(bandCmd, []string{"35"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.String() != "level 3 (Mid Level)\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if err := bandCmd.RunE(bandCmd, []string{"120"}); err == nil {
		t.Fatalf("expected out of range score rejected")
	}
}
