package seeder

import "go.uber.org/zap"

// DemoPassword is shared by every seeded account.
const DemoPassword = "demo-password"

// Defaults returns the demo seeders in dependency order.
func Defaults(log *zap.Logger) []Seeder {
	return []Seeder{
		AccountsSeeder{Log: log},
		JobPostingsSeeder{},
	}
}
