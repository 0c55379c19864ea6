package assessment

import (
	"reflect"
	"testing"

	"skill-assess/internal/domain/skill"
)

func sampleAnalysis(overall float64) Analysis {
	return Analysis{
		OverallScore:      overall,
		GeneralAssessment: "ok",
		Recommendations:   []string{"keep going"},
		SkillAnalysis: []SkillAnalysis{
			{SkillName: "go", CurrentProficiency: 2, ConfidenceScore: 78},
			{SkillName: "Docker", CurrentProficiency: 1, ConfidenceScore: 30},
			{SkillName: "Rust", CurrentProficiency: 3, ConfidenceScore: 0},
		},
	}
}

func TestMerge_ReplacesAndInserts(t *testing.T) {
	p := skill.Profile{Skills: []skill.Skill{
		{Name: "Go", ProficiencyLevel: 2, ExperienceLevel: skill.Junior, ScoreTest: 40, LevelConfirmed: 2},
		{Name: "SQL", ProficiencyLevel: 4, ExperienceLevel: skill.Senior, ScoreTest: 70, LevelConfirmed: 3},
	}}

	out := Merge(p, sampleAnalysis(80))

	if len(out.Skills) != 3 {
		t.Fatalf("expected 3 skills, got %d: %+v", len(out.Skills), out.Skills)
	}
	goSkill := out.Skills[0]
	want := skill.Skill{Name: "Go", ProficiencyLevel: 3, ExperienceLevel: skill.MidLevel, ScoreTest: 78, LevelConfirmed: 3}
	if goSkill != want {
		t.Fatalf("expected %+v, got %+v", want, goSkill)
	}
	if out.Skills[1] != p.Skills[1] {
		t.Fatalf("expected untouched SQL skill, got %+v", out.Skills[1])
	}
	docker := out.Skills[2]
	if docker.Name != "Docker" || docker.ProficiencyLevel != 1 || docker.LevelConfirmed != 1 {
		t.Fatalf("unexpected docker skill %+v", docker)
	}
	if _, _, ok := out.Lookup("rust"); ok {
		t.Fatalf("expected zero-confidence skill to be excluded")
	}
	if out.OverallScore != 80 {
		t.Fatalf("expected first overall score to be taken as is, got %v", out.OverallScore)
	}
	if p.Skills[0].ProficiencyLevel != 2 {
		t.Fatalf("expected input profile to be untouched")
	}
}

func TestMerge_MissingCurrentUsesStoredLevel(t *testing.T) {
	p := skill.Profile{Skills: []skill.Skill{
		{Name: "Go", ProficiencyLevel: 4, ExperienceLevel: skill.Senior, ScoreTest: 70, LevelConfirmed: 3},
	}}
	a := Analysis{OverallScore: 90, SkillAnalysis: []SkillAnalysis{
		{SkillName: "Go", ConfidenceScore: 90},
	}}

	out := Merge(p, a)
	want := skill.Skill{Name: "Go", ProficiencyLevel: 5, ExperienceLevel: skill.Expert, ScoreTest: 90, LevelConfirmed: 5}
	if len(out.Skills) != 1 || out.Skills[0] != want {
		t.Fatalf("expected %+v, got %+v", want, out.Skills)
	}
}

func TestMerge_IdempotentSkills(t *testing.T) {
	start := skill.Profile{OverallScore: 60, Skills: []skill.Skill{{Name: "Go", ProficiencyLevel: 2}}}
	a := sampleAnalysis(80)

	first := Merge(start, a)
	second := Merge(first, a)

	if !reflect.DeepEqual(first.Skills, second.Skills) {
		t.Fatalf("expected identical skills, got %+v vs %+v", first.Skills, second.Skills)
	}
	if first.OverallScore != 70 || second.OverallScore != 75 {
		t.Fatalf("expected 70 then 75, got %v then %v", first.OverallScore, second.OverallScore)
	}
}

func TestMerge_OverallStabilizesWhenScoreMatchesAverage(t *testing.T) {
	start := skill.Profile{OverallScore: 80}
	a := sampleAnalysis(80)

	first := Merge(start, a)
	second := Merge(first, a)
	if first.OverallScore != 80 || second.OverallScore != 80 {
		t.Fatalf("expected stable 80, got %v then %v", first.OverallScore, second.OverallScore)
	}
}

func TestMergedSkill_ConfirmedNeverAboveProficiency(t *testing.T) {
	s := MergedSkill(SkillAnalysis{SkillName: "Go", CurrentProficiency: 1, ConfidenceScore: 90})
	if s.ProficiencyLevel != 2 || s.LevelConfirmed != 2 {
		t.Fatalf("expected proficiency 2 confirmed 2, got %+v", s)
	}

	s = MergedSkill(SkillAnalysis{SkillName: "Go", CurrentProficiency: 4, ConfidenceScore: 80})
	if s.ProficiencyLevel != 5 || s.LevelConfirmed != 5 || s.ExperienceLevel != skill.Expert {
		t.Fatalf("expected confirmed expert, got %+v", s)
	}

	s = MergedSkill(SkillAnalysis{SkillName: "Go", CurrentProficiency: 4, ConfidenceScore: 75})
	if s.ProficiencyLevel != 5 || s.LevelConfirmed != 3 {
		t.Fatalf("expected proficiency 5 confirmed 3, got %+v", s)
	}
}
