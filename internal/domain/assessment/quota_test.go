package assessment

import (
	"testing"
	"time"

	"skill-assess/internal/domain/skill"
)

func TestCheckAndConsume_ResetsAfterWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := skill.Profile{Quota: 5, QuotaUpdatedAt: now.Add(-31 * 24 * time.Hour)}

	d := CheckAndConsume(p, now)
	if !d.Allowed || !d.Reset {
		t.Fatalf("expected allowed after reset, got %+v", d)
	}
	if d.Profile.Quota != 0 || !d.Profile.QuotaUpdatedAt.Equal(now) {
		t.Fatalf("expected quota reset to 0 at now, got %d at %v", d.Profile.Quota, d.Profile.QuotaUpdatedAt)
	}
}

func TestCheckAndConsume_ExactlyThirtyDaysResets(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := CheckAndConsume(skill.Profile{Quota: 5, QuotaUpdatedAt: now.Add(-QuotaWindow)}, now)
	if !d.Allowed || d.Profile.Quota != 0 {
		t.Fatalf("expected reset at exactly 30 days, got %+v", d)
	}
}

func TestCheckAndConsume_DeniedWithoutMutation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	updated := now.Add(-2 * 24 * time.Hour)
	p := skill.Profile{Quota: 5, QuotaUpdatedAt: updated}

	d := CheckAndConsume(p, now)
	if d.Allowed {
		t.Fatalf("expected denied")
	}
	if d.Profile.Quota != 5 || !d.Profile.QuotaUpdatedAt.Equal(updated) || d.Reset {
		t.Fatalf("expected no mutation, got %+v", d)
	}
}

func TestCheckAndConsume_DoesNotIncrement(t *testing.T) {
	now := time.Now()
	p := skill.Profile{Quota: 4, QuotaUpdatedAt: now.Add(-time.Hour)}

	d := CheckAndConsume(p, now)
	if !d.Allowed || d.Remaining != 1 || d.Profile.Quota != 4 {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestConsume(t *testing.T) {
	now := time.Now()
	p := skill.Profile{Quota: 4, QuotaUpdatedAt: now.Add(-time.Hour)}

	p = Consume(p, now)
	if p.Quota != 5 {
		t.Fatalf("expected 5, got %d", p.Quota)
	}
	p = Consume(p, now)
	if p.Quota != 5 {
		t.Fatalf("expected quota capped at 5, got %d", p.Quota)
	}

	stale := skill.Profile{Quota: 5, QuotaUpdatedAt: now.Add(-40 * 24 * time.Hour)}
	stale = Consume(stale, now)
	if stale.Quota != 1 || !stale.QuotaUpdatedAt.Equal(now) {
		t.Fatalf("expected fresh window with 1 attempt, got %d at %v", stale.Quota, stale.QuotaUpdatedAt)
	}
}
