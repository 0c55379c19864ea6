package todo

import (
	"errors"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

var ErrNoSuggestions = errors.New("no todo suggestions in oracle output")

// Suggestion is one skill's worth of tasks proposed by the oracle.
type Suggestion struct {
	Title string
	Tasks []Task
}

// DecodeSuggestions reads a JSON array of {title, tasks[]} objects. Tasks with
// an unknown type or an empty title are dropped; priorities default to medium.
func DecodeSuggestions(doc string) ([]Suggestion, error) {
	root := gjson.Parse(doc)
	if root.IsObject() {
		for _, k := range []string{"todos", "skills", "items"} {
			if v := root.Get(k); v.IsArray() {
				root = v
				break
			}
		}
	}
	if !root.IsArray() {
		return nil, ErrNoSuggestions
	}

	out := make([]Suggestion, 0)
	root.ForEach(func(_, item gjson.Result) bool {
		title := strings.TrimSpace(item.Get("title").String())
		if title == "" {
			title = strings.TrimSpace(item.Get("skillTitle").String())
		}
		if title == "" {
			return true
		}
		s := Suggestion{Title: title, Tasks: make([]Task, 0)}
		item.Get("tasks").ForEach(func(_, t gjson.Result) bool {
			if task, ok := decodeTask(t); ok {
				s.Tasks = append(s.Tasks, task)
			}
			return true
		})
		out = append(out, s)
		return true
	})

	if len(out) == 0 {
		return nil, ErrNoSuggestions
	}
	return out, nil
}

func decodeTask(v gjson.Result) (Task, bool) {
	title := strings.TrimSpace(v.Get("title").String())
	typ, ok := ParseTaskType(v.Get("type").String())
	if title == "" || !ok {
		return Task{}, false
	}
	return Task{
		Title:       title,
		Type:        typ,
		Description: strings.TrimSpace(v.Get("description").String()),
		URL:         strings.TrimSpace(v.Get("url").String()),
		Priority:    ParsePriority(v.Get("priority").String()),
		DueDate:     dueDate(v.Get("dueDate")),
	}, true
}

func ParseTaskType(s string) (TaskType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "course":
		return TaskCourse, true
	case "certification":
		return TaskCertification, true
	case "project":
		return TaskProject, true
	case "article":
		return TaskArticle, true
	}
	return "", false
}

func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow
	case "high":
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// dueDate accepts unix seconds, unix milliseconds or an RFC3339 string.
func dueDate(v gjson.Result) time.Time {
	switch v.Type {
	case gjson.Number:
		n := v.Int()
		if n <= 0 {
			return time.Time{}
		}
		if n > 1e11 {
			return time.UnixMilli(n).UTC()
		}
		return time.Unix(n, 0).UTC()
	case gjson.String:
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(v.String())); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
