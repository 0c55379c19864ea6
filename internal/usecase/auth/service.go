package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"skill-assess/internal/domain/skill"
	"skill-assess/internal/domain/user"
	"skill-assess/internal/pkg/logger"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

type RegisterInput struct {
	Email    string
	Password string
	Role     string
}

func (in RegisterInput) validate() (string, user.Role, error) {
	email := user.NormalizeEmail(in.Email)
	if email == "" {
		return "", "", fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	if len(strings.TrimSpace(in.Password)) < user.MinPasswordLength {
		return "", "", fmt.Errorf("%w: password needs at least %d characters", ErrInvalidInput, user.MinPasswordLength)
	}
	role, ok := user.ParseRole(in.Role)
	if !ok {
		return "", "", fmt.Errorf("%w: role must be candidate or company", ErrInvalidInput)
	}
	return email, role, nil
}

type LoginInput struct {
	Email    string
	Password string
}

// ProfileCreator is the part of the profile store registration needs.
type ProfileCreator interface {
	Create(ctx context.Context, p skill.Profile) (skill.Profile, error)
}

// Service owns credentials. Every account gets exactly one profile whose
// kind follows its role.
type Service struct {
	users    user.Repository
	profiles ProfileCreator
	log      *zap.Logger

	cost int
	now  func() time.Time
}

func NewService(users user.Repository, profiles ProfileCreator, log *zap.Logger) *Service {
	return &Service{
		users:    users,
		profiles: profiles,
		log:      logger.OrNop(log),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	email, role, err := in.validate()
	if err != nil {
		return user.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return user.User{}, ErrInternal
	}

	now := s.now().UTC()
	u := user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			return user.User{}, ErrEmailAlreadyRegistered
		}
		s.log.Error("user not created", zap.Error(err))
		return user.User{}, ErrInternal
	}

	if _, err := s.profiles.Create(ctx, skill.Profile{UserID: u.ID, Kind: role.ProfileKind(), QuotaUpdatedAt: now}); err != nil {
		s.log.Error("profile not created for new user", zap.String(logger.FieldUserID, u.ID.String()), zap.Error(err))
		return user.User{}, ErrInternal
	}

	s.log.Info("account registered", zap.String(logger.FieldUserID, u.ID.String()), zap.String("role", string(role)))
	return u.Public(), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	email := user.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, ErrInternal
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}
	return u.Public(), nil
}
