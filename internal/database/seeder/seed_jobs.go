package seeder

import (
	"context"
	"errors"
	"fmt"

	"skill-assess/internal/database"
	"skill-assess/internal/domain/job"
	"skill-assess/internal/domain/skill"
	"skill-assess/internal/domain/user"
	"skill-assess/internal/repository"
)

var demoPostings = []struct {
	Title       string
	Description string
	Required    []skill.Requirement
}{
	{
		Title:       "Backend Engineer (Go)",
		Description: "Build and operate the assessment APIs.",
		Required: []skill.Requirement{
			{Name: "Go", Level: 3},
			{Name: "PostgreSQL", Level: 2},
			{Name: "Docker", Level: 1},
		},
	},
	{
		Title:       "Platform Engineer",
		Description: "Own the container platform and CI.",
		Required: []skill.Requirement{
			{Name: "Docker", Level: 3},
			{Name: "Kubernetes", Level: 2},
			{Name: "Go", Level: 1},
		},
	},
}

// JobPostingsSeeder adds the demo postings to the demo company. It must run
// after AccountsSeeder; postings are matched by title so reruns add nothing.
type JobPostingsSeeder struct{}

func (JobPostingsSeeder) Name() string { return "job_postings" }

func (JobPostingsSeeder) Tables() map[string][]string {
	return map[string][]string{
		"job_postings":        {"id", "company_profile_id", "title", "description"},
		"job_required_skills": {"job_id", "position", "name", "level"},
	}
}

func (JobPostingsSeeder) Run(ctx context.Context, db database.DB) error {
	owner, err := repository.NewPostgresUserRepository(db).GetByEmail(ctx, DemoCompanyEmail)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return fmt.Errorf("demo company %s not seeded", DemoCompanyEmail)
		}
		return err
	}
	profile, err := repository.NewPostgresProfileRepository(db).GetByUserID(ctx, owner.ID)
	if err != nil {
		return err
	}
	company := profile.ID

	jobs := repository.NewPostgresJobRepository(db)
	for _, it := range demoPostings {
		var exists bool
		err := db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM job_postings WHERE company_profile_id = $1 AND title = $2)`,
			company, it.Title,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		p, err := job.NewPosting(company, it.Title, it.Description, it.Required)
		if err != nil {
			return fmt.Errorf("posting %q: %w", it.Title, err)
		}
		if _, err := jobs.Create(ctx, p); err != nil {
			return fmt.Errorf("posting %q: %w", it.Title, err)
		}
	}
	return nil
}
