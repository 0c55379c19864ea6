package skill

import "testing"

func TestKey_TrimsAndFolds(t *testing.T) {
	if Key("  React ") != Key("react") {
		t.Fatalf("expected keys to match")
	}
	if Key("ÉCOLE") != Key("école") {
		t.Fatalf("expected unicode case folding")
	}
}

func TestProfileUpsert_ReplacesByKey(t *testing.T) {
	p := Profile{Skills: []Skill{{Name: "Go", ProficiencyLevel: 2}, {Name: "SQL", ProficiencyLevel: 3}}}

	out := p.Upsert(Skill{Name: " go ", ProficiencyLevel: 4})
	if len(out.Skills) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(out.Skills))
	}
	if out.Skills[0].Name != "Go" || out.Skills[0].ProficiencyLevel != 4 {
		t.Fatalf("unexpected skill: %+v", out.Skills[0])
	}
	if p.Skills[0].ProficiencyLevel != 2 {
		t.Fatalf("expected input profile untouched")
	}

	out = out.Upsert(Skill{Name: "Rust", ProficiencyLevel: 1})
	if len(out.Skills) != 3 || out.Skills[2].Name != "Rust" {
		t.Fatalf("expected Rust appended last, got %+v", out.Skills)
	}
}
