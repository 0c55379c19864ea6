package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"skill-assess/internal/domain/skill"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)

const MinPasswordLength = 8

// Role decides which kind of profile an account owns. Candidates take
// assessments; companies post jobs and rank candidates.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleCompany   Role = "company"
)

// ParseRole accepts any casing; an empty role means candidate.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCandidate, "":
		return RoleCandidate, true
	case RoleCompany:
		return RoleCompany, true
	}
	return "", false
}

func (r Role) ProfileKind() skill.ProfileKind {
	if r == RoleCompany {
		return skill.KindCompany
	}
	return skill.KindCandidate
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public is u without credentials.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// NormalizeEmail trims and lowercases an address. It returns "" for anything
// without a single @ separating a local part and a dotted domain.
func NormalizeEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || strings.Contains(domain, "@") || !strings.Contains(domain, ".") {
		return ""
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return ""
	}
	return s
}
