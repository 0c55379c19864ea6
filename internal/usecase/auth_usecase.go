package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"skill-assess/internal/domain/user"
	"skill-assess/internal/pkg/jwt"
	"skill-assess/internal/pkg/logger"
	"skill-assess/internal/repository"
	ucauth "skill-assess/internal/usecase/auth"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInternal            = errors.New("internal error")
)

// Session is an authenticated account plus its freshly issued tokens.
type Session struct {
	User   user.User
	Tokens jwt.Pair
}

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (Session, error)
	Login(ctx context.Context, in ucauth.LoginInput) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
}

type Auth struct {
	accounts *ucauth.Service
	users    user.Repository
	tokens   jwt.Service
	log      *zap.Logger
}

func NewAuthUsecase(users user.Repository, profiles repository.ProfileRepository, tokens jwt.Service, log *zap.Logger) *Auth {
	log = logger.OrNop(log)
	return &Auth{
		accounts: ucauth.NewService(users, profiles, log),
		users:    users,
		tokens:   tokens,
		log:      log,
	}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (Session, error) {
	usr, err := u.accounts.Register(ctx, in)
	if err != nil {
		return Session{}, err
	}
	return u.session(usr)
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (Session, error) {
	usr, err := u.accounts.Login(ctx, in)
	if err != nil {
		return Session{}, err
	}
	return u.session(usr)
}

// Refresh trades a refresh token for a new pair. Role and email come from
// the stored account, so a role change takes effect on the next refresh.
func (u *Auth) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if refreshToken == "" {
		return Session{}, ErrUnauthorized
	}

	claims, err := u.tokens.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, ErrRefreshTokenExpired
		}
		return Session{}, ErrInvalidRefreshToken
	}
	if !u.tokens.IsRefreshToken(claims) {
		return Session{}, ErrInvalidRefreshToken
	}

	usr, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, ErrInvalidRefreshToken
		}
		u.log.Error("refresh lookup failed", zap.String(logger.FieldUserID, claims.UserID.String()), zap.Error(err))
		return Session{}, ErrInternal
	}
	return u.session(usr.Public())
}

func (u *Auth) session(usr user.User) (Session, error) {
	pair, err := u.tokens.IssuePair(usr.ID, usr.Email, string(usr.Role))
	if err != nil {
		u.log.Error("token issue failed", zap.String(logger.FieldUserID, usr.ID.String()), zap.Error(err))
		return Session{}, ErrInternal
	}
	return Session{User: usr, Tokens: pair}, nil
}
