package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"

	"skill-assess/internal/domain/assessment"
	"skill-assess/internal/domain/job"
	"skill-assess/internal/domain/skill"
	"skill-assess/internal/domain/todo"
	"skill-assess/internal/infrastructure/broker"
	"skill-assess/internal/oracle"
	"skill-assess/internal/repository"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fakeProfiles struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]skill.Profile
	updates   int
	updateErr error
}

func newFakeProfiles(ps ...skill.Profile) *fakeProfiles {
	f := &fakeProfiles{byID: map[uuid.UUID]skill.Profile{}}
	for _, p := range ps {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProfiles) Create(_ context.Context, p skill.Profile) (skill.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (skill.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return skill.Profile{}, skill.ErrProfileNotFound
	}
	return p.Clone(), nil
}

func (f *fakeProfiles) GetByUserID(_ context.Context, userID uuid.UUID) (skill.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.UserID == userID {
			return p.Clone(), nil
		}
	}
	return skill.Profile{}, skill.ErrProfileNotFound
}

func (f *fakeProfiles) ListCandidates(_ context.Context) ([]skill.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]skill.Profile, 0, len(f.byID))
	for _, p := range f.byID {
		if p.Kind == skill.KindCandidate {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (f *fakeProfiles) Update(_ context.Context, id uuid.UUID, fn func(skill.Profile) (skill.Profile, error)) (skill.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return skill.Profile{}, f.updateErr
	}
	p, ok := f.byID[id]
	if !ok {
		return skill.Profile{}, skill.ErrProfileNotFound
	}
	next, err := fn(p.Clone())
	if err != nil {
		return skill.Profile{}, err
	}
	next.Version = p.Version + 1
	f.byID[id] = next
	f.updates++
	return next.Clone(), nil
}

func (f *fakeProfiles) get(id uuid.UUID) skill.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

type fakeResults struct {
	saved []assessment.Record
}

func (f *fakeResults) Save(_ context.Context, rec assessment.Record) error {
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeResults) ListByCandidate(_ context.Context, id uuid.UUID, _ int) ([]assessment.Record, error) {
	out := make([]assessment.Record, 0)
	for _, r := range f.saved {
		if r.CandidateProfileID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeJobs struct {
	byID map[uuid.UUID]job.Posting
}

func newFakeJobs(ps ...job.Posting) *fakeJobs {
	f := &fakeJobs{byID: map[uuid.UUID]job.Posting{}}
	for _, p := range ps {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeJobs) Create(_ context.Context, p job.Posting) (job.Posting, error) {
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakeJobs) GetByID(_ context.Context, id uuid.UUID) (job.Posting, error) {
	p, ok := f.byID[id]
	if !ok {
		return job.Posting{}, job.ErrNotFound
	}
	return p, nil
}

func (f *fakeJobs) ListJobs(_ context.Context, limit, offset int) ([]job.Posting, error) {
	out := make([]job.Posting, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	if offset >= len(out) {
		return []job.Posting{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeTodos struct {
	lists map[uuid.UUID]todo.List
}

func (f *fakeTodos) GetByUserID(_ context.Context, userID uuid.UUID) (todo.List, error) {
	l, ok := f.lists[userID]
	if !ok {
		return todo.List{}, repository.ErrTodoListNotFound
	}
	return l, nil
}

func (f *fakeTodos) Upsert(_ context.Context, l todo.List) (todo.List, error) {
	if f.lists == nil {
		f.lists = map[uuid.UUID]todo.List{}
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	f.lists[l.UserID] = l
	return l, nil
}

type fakeOracle struct {
	replies  []string
	err      error
	requests []oracle.Request
}

func (f *fakeOracle) Complete(_ context.Context, req oracle.Request) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	r := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return r, nil
}

func (f *fakeOracle) Provider() string { return "fake" }

type fakeCache struct {
	mu        sync.Mutex
	data      map[string][]byte
	locks     map[string]string
	available bool
	lockErr   error
	deleted   []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}, locks: map[string]string{}, available: true}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.data, k)
		}
	}
	c.deleted = append(c.deleted, pattern)
	return nil
}

func (c *fakeCache) SetIfNotExists(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lockErr != nil {
		return false, c.lockErr
	}
	if _, held := c.locks[key]; held {
		return false, nil
	}
	c.locks[key] = value
	return true, nil
}

func (c *fakeCache) Release(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] == value {
		delete(c.locks, key)
	}
	return nil
}

func (c *fakeCache) Available() bool { return c.available }

type fakePublisher struct {
	events []broker.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, evt broker.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, evt)
	return nil
}

type notification struct {
	userID uuid.UUID
	score  float64
	source string
}

type fakeNotifier struct {
	sent []notification
}

func (f *fakeNotifier) NotifyProfileUpdated(userID uuid.UUID, score float64, source string) {
	f.sent = append(f.sent, notification{userID, score, source})
}

var errBoom = errors.New("boom")

func candidateProfile(skills ...skill.Skill) skill.Profile {
	return skill.Profile{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Kind:           skill.KindCandidate,
		Skills:         skills,
		QuotaUpdatedAt: fixedNow.Add(-24 * time.Hour),
	}
}
