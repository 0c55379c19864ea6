package seeder

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"skill-assess/internal/database"
	"skill-assess/internal/domain/skill"
	"skill-assess/internal/domain/user"
	"skill-assess/internal/repository"
	ucauth "skill-assess/internal/usecase/auth"
)

const DemoCompanyEmail = "talent@acme.example"

type demoAccount struct {
	Email    string
	Role     user.Role
	Skills   []skill.Skill
	Required []skill.Requirement
}

var demoAccounts = []demoAccount{
	{
		Email: DemoCompanyEmail,
		Role:  user.RoleCompany,
		Required: []skill.Requirement{
			{Name: "Go", Level: 3},
			{Name: "PostgreSQL", Level: 2},
			{Name: "Docker", Level: 2},
		},
	},
	{
		Email: "rina@candidates.example",
		Role:  user.RoleCandidate,
		Skills: []skill.Skill{
			{Name: "Go", ProficiencyLevel: 4, ExperienceLevel: skill.Senior, ScoreTest: 82, LevelConfirmed: 4},
			{Name: "PostgreSQL", ProficiencyLevel: 3, ExperienceLevel: skill.MidLevel, ScoreTest: 70, LevelConfirmed: 2},
			{Name: "Docker", ProficiencyLevel: 2, ExperienceLevel: skill.Junior, ScoreTest: 55, LevelConfirmed: 2},
		},
	},
	{
		Email: "bayu@candidates.example",
		Role:  user.RoleCandidate,
		Skills: []skill.Skill{
			{Name: "Go", ProficiencyLevel: 2, ExperienceLevel: skill.Junior, ScoreTest: 48, LevelConfirmed: 1},
			{Name: "React", ProficiencyLevel: 4, ExperienceLevel: skill.Senior, ScoreTest: 88, LevelConfirmed: 4},
		},
	},
	{
		Email: "sari@candidates.example",
		Role:  user.RoleCandidate,
		Skills: []skill.Skill{
			{Name: "Docker", ProficiencyLevel: 3, ExperienceLevel: skill.MidLevel, ScoreTest: 66, LevelConfirmed: 3},
			{Name: "Kubernetes", ProficiencyLevel: 3, ExperienceLevel: skill.MidLevel, ScoreTest: 61, LevelConfirmed: 2},
		},
	},
}

// AccountsSeeder registers the demo company and candidates through the same
// path as the API, then fills in their skills. Existing accounts are reused.
type AccountsSeeder struct {
	Log *zap.Logger
}

func (AccountsSeeder) Name() string { return "accounts" }

func (AccountsSeeder) Tables() map[string][]string {
	return map[string][]string{
		"users":    {"id", "email", "password_hash", "role"},
		"profiles": {"id", "user_id", "kind", "skills", "required_skills"},
	}
}

func (s AccountsSeeder) Run(ctx context.Context, db database.DB) error {
	users := repository.NewPostgresUserRepository(db)
	profiles := repository.NewPostgresProfileRepository(db)
	auth := ucauth.NewService(users, profiles, s.Log)

	for _, acc := range demoAccounts {
		u, err := auth.Register(ctx, ucauth.RegisterInput{Email: acc.Email, Password: DemoPassword, Role: string(acc.Role)})
		if errors.Is(err, ucauth.ErrEmailAlreadyRegistered) {
			u, err = users.GetByEmail(ctx, acc.Email)
		}
		if err != nil {
			return fmt.Errorf("account %s: %w", acc.Email, err)
		}

		p, err := profiles.GetByUserID(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("profile %s: %w", acc.Email, err)
		}
		_, err = profiles.Update(ctx, p.ID, func(p skill.Profile) (skill.Profile, error) {
			for _, sk := range acc.Skills {
				p = p.Upsert(sk)
			}
			if len(acc.Required) > 0 {
				p.RequiredSkills = acc.Required
			}
			return p, nil
		})
		if err != nil {
			return fmt.Errorf("profile %s: %w", acc.Email, err)
		}
	}
	return nil
}
