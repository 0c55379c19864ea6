package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skill-assess/internal/domain/skill"
	"skill-assess/internal/domain/user"
)

type memUsers struct {
	byID map[uuid.UUID]user.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[uuid.UUID]user.User{}} }

func (m *memUsers) Create(_ context.Context, u user.User) error {
	for _, v := range m.byID {
		if v.Email == u.Email {
			return user.ErrAlreadyExists
		}
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

type memProfiles struct {
	created []skill.Profile
	err     error
}

func (m *memProfiles) Create(_ context.Context, p skill.Profile) (skill.Profile, error) {
	if m.err != nil {
		return skill.Profile{}, m.err
	}
	m.created = append(m.created, p)
	return p, nil
}

func newTestService(users user.Repository, profiles ProfileCreator) *Service {
	svc := NewService(users, profiles, nil)
	svc.cost = bcrypt.MinCost
	return svc
}

func TestRegister_CreatesProfileOfRoleKind(t *testing.T) {
	users, profiles := newMemUsers(), &memProfiles{}
	svc := newTestService(users, profiles)

	u, err := svc.Register(context.Background(), RegisterInput{Email: " HR@Acme.io ", Password: "password1", Role: "Company"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.Email != "hr@acme.io" || u.Role != user.RoleCompany || u.PasswordHash != "" {
		t.Fatalf("unexpected user %+v", u)
	}
	if len(profiles.created) != 1 || profiles.created[0].Kind != skill.KindCompany || profiles.created[0].UserID != u.ID {
		t.Fatalf("unexpected profiles %+v", profiles.created)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(newMemUsers(), &memProfiles{})
	cases := []RegisterInput{
		{Email: "", Password: "password1"},
		{Email: "nope", Password: "password1"},
		{Email: "a@b.c", Password: "short"},
		{Email: "a@b.c", Password: "password1", Role: "admin"},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc := newTestService(newMemUsers(), &memProfiles{})
	in := RegisterInput{Email: "a@b.c", Password: "password1"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService(newMemUsers(), &memProfiles{})
	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "password1"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	u, err := svc.Login(context.Background(), LoginInput{Email: "A@B.C", Password: "password1"})
	if err != nil || u.Role != user.RoleCandidate {
		t.Fatalf("expected candidate login, got %+v (%v)", u, err)
	}
	if _, err := svc.Login(context.Background(), LoginInput{Email: "a@b.c", Password: "wrong-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginInput{Email: "x@y.z", Password: "password1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegister_ProfileFailureIsInternal(t *testing.T) {
	svc := newTestService(newMemUsers(), &memProfiles{err: errors.New("db down")})
	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "password1"})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
