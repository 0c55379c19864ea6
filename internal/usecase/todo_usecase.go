package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skill-assess/internal/domain/assessment"
	"skill-assess/internal/domain/skill"
	"skill-assess/internal/domain/todo"
	"skill-assess/internal/oracle"
	"skill-assess/internal/pkg/logger"
	"skill-assess/internal/repository"
)

type TodoUsecase interface {
	Get(ctx context.Context, userID uuid.UUID) (todo.List, error)
	Generate(ctx context.Context, userID uuid.UUID) (todo.List, error)
}

type Todos struct {
	todos    repository.TodoRepository
	profiles repository.ProfileRepository
	oracle   Oracle
	model    string
	log      *zap.Logger
}

func NewTodoUsecase(todos repository.TodoRepository, profiles repository.ProfileRepository, o Oracle, model string, log *zap.Logger) *Todos {
	return &Todos{todos: todos, profiles: profiles, oracle: o, model: model, log: logger.OrNop(log)}
}

// Get returns the stored list, or a new unsaved one with the profile chores.
func (u *Todos) Get(ctx context.Context, userID uuid.UUID) (todo.List, error) {
	l, err := u.todos.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoListNotFound) {
			return todo.NewList(userID), nil
		}
		return todo.List{}, fmt.Errorf("load todo list: %w", err)
	}
	return l, nil
}

// Generate asks the oracle for learning tasks per profile skill and folds
// them into the list. Each skill keeps at most todo.MaxTasksPerSkill tasks.
func (u *Todos) Generate(ctx context.Context, userID uuid.UUID) (todo.List, error) {
	profile, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, skill.ErrProfileNotFound) {
			return todo.List{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return todo.List{}, fmt.Errorf("load profile: %w", err)
	}
	if len(profile.Skills) == 0 {
		return todo.List{}, ErrInvalidInput
	}

	list, err := u.Get(ctx, userID)
	if err != nil {
		return todo.List{}, err
	}

	raw, err := u.oracle.Complete(ctx, oracle.Todos(u.model, profile.Skills, list.SkillTodos()))
	if err != nil {
		return todo.List{}, fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
	}
	suggestions, err := decodeTodoSuggestions(raw)
	if err != nil {
		u.log.Warn("todo suggestions not parsed",
			zap.String(logger.FieldUserID, userID.String()),
			zap.String("preview", logger.TruncateForLog(raw, 200)),
			zap.Error(err),
		)
		return todo.List{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	for _, s := range suggestions {
		list = list.Apply(s.Title, s.Tasks)
	}
	saved, err := u.todos.Upsert(ctx, list)
	if err != nil {
		return todo.List{}, fmt.Errorf("save todo list: %w", err)
	}
	u.log.Info("todo list generated",
		zap.String(logger.FieldUserID, userID.String()),
		zap.Int("suggestions", len(suggestions)),
	)
	return saved, nil
}

func decodeTodoSuggestions(raw string) ([]todo.Suggestion, error) {
	doc, err := assessment.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	return todo.DecodeSuggestions(doc)
}
