package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"skill-assess/internal/database"
	"skill-assess/internal/domain/skill"
)

// ProfileRepository stores skill profiles. Update is the only way to change
// skills, score or quota so concurrent merges on one profile are serialized.
type ProfileRepository interface {
	Create(ctx context.Context, p skill.Profile) (skill.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (skill.Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (skill.Profile, error)
	ListCandidates(ctx context.Context) ([]skill.Profile, error)
	Update(ctx context.Context, id uuid.UUID, fn func(skill.Profile) (skill.Profile, error)) (skill.Profile, error)
}

type PostgresProfileRepository struct {
	db  database.DB
	now func() time.Time
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db, now: time.Now}
}

const profileColumns = `id, user_id, kind, skills, required_skills, overall_score, quota, quota_updated_at, version, created_at, updated_at`

func (r *PostgresProfileRepository) Create(ctx context.Context, p skill.Profile) (skill.Profile, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Kind == "" {
		p.Kind = skill.KindCandidate
	}
	now := r.now().UTC()
	if p.QuotaUpdatedAt.IsZero() {
		p.QuotaUpdatedAt = now
	}
	skills, reqs, err := encodeProfile(p)
	if err != nil {
		return skill.Profile{}, err
	}

	return scanProfile(r.db.QueryRow(ctx,
		`INSERT INTO profiles (id, user_id, kind, skills, required_skills, overall_score, quota, quota_updated_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		 RETURNING `+profileColumns,
		p.ID, p.UserID, string(p.Kind), skills, reqs, p.OverallScore, p.Quota, p.QuotaUpdatedAt, now,
	))
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (skill.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (skill.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
}

func (r *PostgresProfileRepository) ListCandidates(ctx context.Context) ([]skill.Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE kind = $1 ORDER BY created_at, id`,
		string(skill.KindCandidate),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update locks the row, applies fn and writes the result back with a bumped
// version. Nothing is written when fn fails.
func (r *PostgresProfileRepository) Update(ctx context.Context, id uuid.UUID, fn func(skill.Profile) (skill.Profile, error)) (skill.Profile, error) {
	var out skill.Profile
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		current, err := scanProfile(tx.QueryRow(ctx,
			`SELECT `+profileColumns+` FROM profiles WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}

		next, err := fn(current.Clone())
		if err != nil {
			return err
		}
		skills, reqs, err := encodeProfile(next)
		if err != nil {
			return err
		}

		out, err = scanProfile(tx.QueryRow(ctx,
			`UPDATE profiles
			 SET skills = $2, required_skills = $3, overall_score = $4, quota = $5,
			     quota_updated_at = $6, version = version + 1, updated_at = $7
			 WHERE id = $1
			 RETURNING `+profileColumns,
			id, skills, reqs, next.OverallScore, next.Quota, next.QuotaUpdatedAt.UTC(), r.now().UTC(),
		))
		return err
	})
	if err != nil {
		return skill.Profile{}, err
	}
	return out, nil
}

func encodeProfile(p skill.Profile) (string, string, error) {
	skills := p.Skills
	if skills == nil {
		skills = []skill.Skill{}
	}
	reqs := p.RequiredSkills
	if reqs == nil {
		reqs = []skill.Requirement{}
	}
	sb, err := json.Marshal(skills)
	if err != nil {
		return "", "", fmt.Errorf("encode skills: %w", err)
	}
	rb, err := json.Marshal(reqs)
	if err != nil {
		return "", "", fmt.Errorf("encode required skills: %w", err)
	}
	return string(sb), string(rb), nil
}

func scanProfile(row database.Row) (skill.Profile, error) {
	var p skill.Profile
	var kind string
	var skills, reqs []byte
	err := row.Scan(&p.ID, &p.UserID, &kind, &skills, &reqs, &p.OverallScore, &p.Quota,
		&p.QuotaUpdatedAt, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return skill.Profile{}, skill.ErrProfileNotFound
		}
		return skill.Profile{}, err
	}
	p.Kind = skill.ProfileKind(kind)
	if err := json.Unmarshal(skills, &p.Skills); err != nil {
		return skill.Profile{}, fmt.Errorf("decode skills: %w", err)
	}
	if err := json.Unmarshal(reqs, &p.RequiredSkills); err != nil {
		return skill.Profile{}, fmt.Errorf("decode required skills: %w", err)
	}
	return p, nil
}
