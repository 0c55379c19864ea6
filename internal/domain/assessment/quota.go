package assessment

import (
	"time"

	"skill-assess/internal/domain/skill"
)

const (
	MonthlyQuota = 5
	QuotaWindow  = 30 * 24 * time.Hour
)

type QuotaDecision struct {
	Allowed   bool
	Remaining int
	Reset     bool
	Profile   skill.Profile
}

// CheckAndConsume applies the monthly window reset and reports whether one
// more attempt is allowed. It never increments the counter; callers do that
// with Consume once the attempt has been merged and saved.
func CheckAndConsume(p skill.Profile, now time.Time) QuotaDecision {
	out, reset := resetIfElapsed(p, now)
	if out.Quota >= MonthlyQuota {
		return QuotaDecision{Allowed: false, Remaining: 0, Reset: reset, Profile: out}
	}
	return QuotaDecision{Allowed: true, Remaining: MonthlyQuota - out.Quota, Reset: reset, Profile: out}
}

// Consume records one successful attempt.
func Consume(p skill.Profile, now time.Time) skill.Profile {
	out, _ := resetIfElapsed(p, now)
	if out.Quota < MonthlyQuota {
		out.Quota++
	}
	return out
}

func resetIfElapsed(p skill.Profile, now time.Time) (skill.Profile, bool) {
	if now.Sub(p.QuotaUpdatedAt) < QuotaWindow {
		return p, false
	}
	p.Quota = 0
	p.QuotaUpdatedAt = now
	return p, true
}
