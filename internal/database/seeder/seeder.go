package seeder

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"skill-assess/internal/database"
	"skill-assess/internal/pkg/logger"
)

// Seeder loads one slice of demo data. Tables lists the columns it writes so
// the runner can refuse to seed an out-of-date schema.
type Seeder interface {
	Name() string
	Tables() map[string][]string
	Run(ctx context.Context, db database.DB) error
}

type Runner struct {
	Seeders []Seeder
	Log     *zap.Logger
}

// Run executes the seeders in order and stops at the first failure.
func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	log := logger.OrNop(r.Log)

	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := checkSchema(ctx, db, s.Tables()); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeder done", zap.String("seeder", s.Name()), zap.Duration("took", time.Since(start)))
	}
	return nil
}

func checkSchema(ctx context.Context, db database.DB, tables map[string][]string) error {
	names := make([]string, 0, len(tables))
	for t := range tables {
		names = append(names, t)
	}
	sort.Strings(names)

	var missing []string
	for _, table := range names {
		have, err := columnsOf(ctx, db, table)
		if err != nil {
			return err
		}
		for _, col := range tables[table] {
			if _, ok := have[col]; !ok {
				missing = append(missing, table+"."+col)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema mismatch: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func columnsOf(ctx context.Context, db database.DB, table string) (map[string]struct{}, error) {
	rows, err := db.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1`,
		table,
	)
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	defer rows.Close()

	out := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out[c] = struct{}{}
	}
	return out, rows.Err()
}
