package job

import (
	"encoding/json"
	"errors"
	"testing"

	"skill-assess/internal/domain/skill"

	"github.com/google/uuid"
)

func TestLevel_UnmarshalNumberAndLabel(t *testing.T) {
	var in []struct {
		Name  string `json:"name"`
		Level Level  `json:"level"`
	}
	raw := `[{"name":"Go","level":4},{"name":"SQL","level":"Intermediate"},{"name":"K8s","level":"2"},{"name":"X","level":"guru"}]`
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []Level{4, 3, 2, 1}
	for i, w := range want {
		if in[i].Level != w {
			t.Fatalf("item %d: expected %d, got %d", i, w, in[i].Level)
		}
	}
}

func TestNewPosting_Validation(t *testing.T) {
	_, err := NewPosting(uuid.New(), "Backend", "", nil)
	if !errors.Is(err, ErrNoRequirements) {
		t.Fatalf("expected ErrNoRequirements, got %v", err)
	}

	_, err = NewPosting(uuid.New(), "Backend", "", []skill.Requirement{{Name: "Go", Level: 3}, {Name: " go", Level: 2}})
	if !errors.Is(err, ErrInvalidRequirement) {
		t.Fatalf("expected duplicate to be rejected, got %v", err)
	}

	_, err = NewPosting(uuid.New(), "Backend", "", []skill.Requirement{{Name: "Go", Level: 6}})
	if !errors.Is(err, ErrInvalidRequirement) {
		t.Fatalf("expected out of range level to be rejected, got %v", err)
	}

	p, err := NewPosting(uuid.New(), " Backend ", "", []skill.Requirement{{Name: " Go ", Level: 3}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.Title != "Backend" || p.RequiredSkills[0].Name != "Go" {
		t.Fatalf("expected trimmed values, got %+v", p)
	}
}
