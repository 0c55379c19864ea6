package todo

import (
	"time"

	"github.com/google/uuid"

	"skill-assess/internal/domain/skill"
)

// MaxTasksPerSkill caps how many learning tasks a single skill todo holds.
const MaxTasksPerSkill = 5

type TaskType string

const (
	TaskCourse        TaskType = "Course"
	TaskCertification TaskType = "Certification"
	TaskProject       TaskType = "Project"
	TaskArticle       TaskType = "Article"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const (
	KindSkill   = "Skill"
	KindProfile = "Profile"
)

type Task struct {
	Title       string    `json:"title"`
	Type        TaskType  `json:"type"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	Priority    Priority  `json:"priority"`
	IsCompleted bool      `json:"isCompleted"`
	DueDate     time.Time `json:"dueDate,omitzero"`
}

type SkillTodo struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	IsCompleted bool   `json:"isCompleted"`
	Tasks       []Task `json:"tasks"`
}

type List struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"userId"`
	Todos     []SkillTodo `json:"todos"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// NewList starts a list with the profile chores every candidate gets.
func NewList(userID uuid.UUID) List {
	return List{
		UserID: userID,
		Todos: []SkillTodo{
			{Title: "Complete Your Profile", Type: KindProfile, Tasks: []Task{}},
			{Title: "Upload CV", Type: KindProfile, Tasks: []Task{}},
		},
	}
}

// Reconcile merges freshly suggested tasks into the existing todo for a skill.
// Existing tasks are kept as they are; fresh ones only fill free slots up to
// MaxTasksPerSkill. Tasks are not compared by content.
func Reconcile(existing *SkillTodo, title string, fresh []Task) SkillTodo {
	if existing == nil {
		n := min(len(fresh), MaxTasksPerSkill)
		return SkillTodo{
			Title: title,
			Type:  KindSkill,
			Tasks: append(make([]Task, 0, n), fresh[:n]...),
		}
	}

	out := *existing
	tasks := append(make([]Task, 0, MaxTasksPerSkill), existing.Tasks...)
	remaining := max(0, MaxTasksPerSkill-len(tasks))
	n := min(remaining, len(fresh))
	out.Tasks = append(tasks, fresh[:n]...)
	return out
}

// Apply reconciles fresh tasks into the skill todo with the same title,
// appending a new skill todo when none exists.
func (l List) Apply(title string, fresh []Task) List {
	out := l
	out.Todos = append([]SkillTodo(nil), l.Todos...)

	k := skill.Key(title)
	for i := range out.Todos {
		if out.Todos[i].Type == KindSkill && skill.Key(out.Todos[i].Title) == k {
			out.Todos[i] = Reconcile(&out.Todos[i], out.Todos[i].Title, fresh)
			return out
		}
	}
	out.Todos = append(out.Todos, Reconcile(nil, title, fresh))
	return out
}

// SkillTodos returns only the skill entries of the list.
func (l List) SkillTodos() []SkillTodo {
	out := make([]SkillTodo, 0, len(l.Todos))
	for _, t := range l.Todos {
		if t.Type == KindSkill {
			out = append(out, t)
		}
	}
	return out
}
