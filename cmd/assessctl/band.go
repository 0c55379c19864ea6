package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"skill-assess/internal/domain/skill"
)

var bandCmd = &cobra.Command{
	Use:   "band <aggregate-score>",
	Short: "Show the level an onboarding aggregate score maps to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid score %q: %w", args[0], err)
		}
		if score < 0 || score > 100 {
			return fmt.Errorf("score %v is outside 0..100", score)
		}
		level, exp := skill.OnboardingBand(score)
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "level %d (%s)\n", level, exp)
		return err
	},
}

func init() {
	rootCmd.AddCommand(bandCmd)
}
