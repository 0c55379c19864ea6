package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"skill-assess/internal/domain/job"
	"skill-assess/internal/domain/skill"
)

func TestOnboard_BandsNewSkillsOnly(t *testing.T) {
	p := candidateProfile(skill.Skill{Name: "Go", ProficiencyLevel: 4, ExperienceLevel: skill.Senior})
	profiles := newFakeProfiles(p)
	notifier := &fakeNotifier{}
	cache := newFakeCache()
	uc := NewProfileUsecase(profiles, cache, notifier, nil)

	out, err := uc.Onboard(context.Background(), p.UserID, OnboardInput{Skills: []string{"go", " Docker ", ""}, Aggregate: 35})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Skills) != 2 || out.Skills[0].ProficiencyLevel != 4 {
		t.Fatalf("expected go untouched and docker added, got %+v", out.Skills)
	}
	docker := out.Skills[1]
	if docker.Name != "Docker" || docker.ProficiencyLevel != 3 || docker.ExperienceLevel != skill.MidLevel || docker.LevelConfirmed != 0 {
		t.Fatalf("unexpected docker skill %+v", docker)
	}
	if out.Quota != 0 {
		t.Fatalf("expected onboarding to use no quota")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].source != "onboarding" {
		t.Fatalf("unexpected notifications %+v", notifier.sent)
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != RankingCachePattern {
		t.Fatalf("expected ranking invalidation, got %v", cache.deleted)
	}
}

func TestOnboard_LowScoreStillStartsAtLevelOne(t *testing.T) {
	p := candidateProfile()
	uc := NewProfileUsecase(newFakeProfiles(p), nil, nil, nil)

	out, err := uc.Onboard(context.Background(), p.UserID, OnboardInput{Skills: []string{"Go"}, Aggregate: 3})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Skills[0].ProficiencyLevel != 1 || out.Skills[0].ExperienceLevel != skill.NoLevel {
		t.Fatalf("unexpected skill %+v", out.Skills[0])
	}
}

func TestOnboard_Validation(t *testing.T) {
	p := candidateProfile()
	uc := NewProfileUsecase(newFakeProfiles(p), nil, nil, nil)
	for _, in := range []OnboardInput{{Aggregate: 50}, {Skills: []string{"Go"}, Aggregate: 101}, {Skills: []string{"Go"}, Aggregate: -1}} {
		if _, err := uc.Onboard(context.Background(), p.UserID, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestSetRequiredSkills(t *testing.T) {
	company := skill.Profile{ID: uuid.New(), UserID: uuid.New(), Kind: skill.KindCompany}
	cache := newFakeCache()
	uc := NewProfileUsecase(newFakeProfiles(company), cache, nil, nil)

	out, err := uc.SetRequiredSkills(context.Background(), company.UserID, []skill.Requirement{{Name: " Go ", Level: 3}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.RequiredSkills) != 1 || out.RequiredSkills[0].Name != "Go" {
		t.Fatalf("unexpected requirements %+v", out.RequiredSkills)
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != CompanyRankingCacheKey(company.ID) {
		t.Fatalf("expected company ranking invalidated, got %v", cache.deleted)
	}

	_, err = uc.SetRequiredSkills(context.Background(), company.UserID, []skill.Requirement{{Name: "Go", Level: 3}, {Name: "go", Level: 1}})
	if !errors.Is(err, ErrInvalidInput) || !errors.Is(err, job.ErrInvalidRequirement) {
		t.Fatalf("expected duplicate rejected, got %v", err)
	}

	candidate := candidateProfile()
	uc = NewProfileUsecase(newFakeProfiles(candidate), nil, nil, nil)
	if _, err := uc.SetRequiredSkills(context.Background(), candidate.UserID, []skill.Requirement{{Name: "Go", Level: 3}}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
