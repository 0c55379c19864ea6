package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"skill-assess/internal/domain/job"
	"skill-assess/internal/domain/matching"
	"skill-assess/internal/domain/skill"
	"skill-assess/internal/repository"
	"skill-assess/internal/usecase"
)

// rankFile is the offline input: a requirement list and the candidates to
// score against it.
type rankFile struct {
	Requirements []struct {
		Name  string    `json:"name"`
		Level job.Level `json:"level"`
	} `json:"requirements"`
	Candidates []struct {
		ID     uuid.UUID     `json:"id"`
		Skills []skill.Skill `json:"skills"`
	} `json:"candidates"`
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidates against a stored job posting or a JSON file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobFlag := viper.GetString("rank.job")
		fileFlag := viper.GetString("rank.file")

		var (
			results []matching.Result
			err     error
		)
		switch {
		case fileFlag != "" && jobFlag != "":
			return errors.New("use either --job or --file")
		case fileFlag != "":
			results, err = rankFromFile(fileFlag)
		case jobFlag != "":
			results, err = rankFromDB(cmd, jobFlag)
		default:
			return errors.New("one of --job or --file is required")
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().String("job", "", "job posting id")
	rankCmd.Flags().StringP("file", "f", "", "JSON file with requirements and candidates")
	_ = viper.BindPFlag("rank.job", rankCmd.Flags().Lookup("job"))
	_ = viper.BindPFlag("rank.file", rankCmd.Flags().Lookup("file"))
}

func rankFromFile(path string) ([]matching.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return rankReader(f)
}

func rankReader(r io.Reader) ([]matching.Result, error) {
	var in rankFile
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode rank input: %w", err)
	}

	reqs := make([]skill.Requirement, 0, len(in.Requirements))
	for _, r := range in.Requirements {
		reqs = append(reqs, skill.Requirement{Name: r.Name, Level: int(r.Level)})
	}
	reqs, err := job.NormalizeRequirements(reqs)
	if err != nil {
		return nil, err
	}

	candidates := make([]matching.Candidate, 0, len(in.Candidates))
	for _, c := range in.Candidates {
		candidates = append(candidates, matching.Candidate{ID: c.ID, Skills: c.Skills})
	}
	return matching.RankCandidates(reqs, candidates)
}

func rankFromDB(cmd *cobra.Command, rawID string) ([]matching.Result, error) {
	jobID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid job id: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return nil, err
	}
	db, err := connect(cmd.Context(), log)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	uc := usecase.NewMatchingUsecase(
		repository.NewPostgresJobRepository(db),
		repository.NewPostgresProfileRepository(db),
		nil,
		log,
	)
	return uc.RankForJob(cmd.Context(), jobID)
}
