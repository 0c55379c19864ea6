package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"skill-assess/internal/database"
	"skill-assess/internal/domain/todo"
)

var ErrTodoListNotFound = errors.New("todo list not found")

type TodoRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (todo.List, error)
	Upsert(ctx context.Context, l todo.List) (todo.List, error)
}

type PostgresTodoRepository struct {
	db database.DB
}

func NewPostgresTodoRepository(db database.DB) *PostgresTodoRepository {
	return &PostgresTodoRepository{db: db}
}

func (r *PostgresTodoRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (todo.List, error) {
	return scanTodoList(r.db.QueryRow(ctx,
		`SELECT id, user_id, todos, created_at, updated_at FROM todo_lists WHERE user_id = $1`, userID))
}

// Upsert keeps one list per user.
func (r *PostgresTodoRepository) Upsert(ctx context.Context, l todo.List) (todo.List, error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	todos := l.Todos
	if todos == nil {
		todos = []todo.SkillTodo{}
	}
	body, err := json.Marshal(todos)
	if err != nil {
		return todo.List{}, fmt.Errorf("encode todos: %w", err)
	}
	now := time.Now().UTC()
	return scanTodoList(r.db.QueryRow(ctx,
		`INSERT INTO todo_lists (id, user_id, todos, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)
		 ON CONFLICT (user_id) DO UPDATE SET todos = EXCLUDED.todos, updated_at = EXCLUDED.updated_at
		 RETURNING id, user_id, todos, created_at, updated_at`,
		l.ID, l.UserID, string(body), now,
	))
}

func scanTodoList(row database.Row) (todo.List, error) {
	var l todo.List
	var body []byte
	if err := row.Scan(&l.ID, &l.UserID, &body, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return todo.List{}, ErrTodoListNotFound
		}
		return todo.List{}, err
	}
	if err := json.Unmarshal(body, &l.Todos); err != nil {
		return todo.List{}, fmt.Errorf("decode todos: %w", err)
	}
	return l, nil
}
