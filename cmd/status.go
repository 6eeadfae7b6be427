package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khrees2412/predicta/internal/database"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Overview of jobs, candidates and the latest ranking runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		jobs, err := database.GetAllJobs()
		if err != nil {
			return fmt.Errorf("fetch jobs: %w", err)
		}

		cmd.Println(titleStyle.Render("Predicta Status"))
		model := "✗ not trained"
		if application.Scorer.HasModel() {
			model = "✓ loaded"
		}
		cmd.Printf("%s %s\n", labelStyle.Render("Model:"), model)
		cmd.Printf("%s %d\n", labelStyle.Render("Jobs:"), len(jobs))

		if len(jobs) == 0 {
			cmd.Println("\nNo jobs yet. Add one with 'predicta job add --title TITLE --text TEXT'")
			return nil
		}

		total := 0
		for _, job := range jobs {
			count, err := database.CountCandidates(job.ID)
			if err != nil {
				return fmt.Errorf("count candidates: %w", err)
			}
			total += count

			runs, err := database.GetRankingRuns(job.ID)
			if err != nil {
				return fmt.Errorf("fetch ranking runs: %w", err)
			}

			cmd.Printf("\n%s %s\n", labelStyle.Render(fmt.Sprintf("%d.", job.ID)), job.Title)
			cmd.Printf("   Candidates: %d\n", count)
			if len(runs) == 0 {
				cmd.Printf("   %s\n", mutedStyle.Render("Not ranked yet"))
				continue
			}
			last := runs[0]
			cmd.Printf("   Last ranked: %s (%d candidates, top score %.4f)\n",
				last.CreatedAt.Local().Format("Jan 2, 2006 15:04"), last.CandidateCount, last.TopScore)
			if count != last.CandidateCount {
				cmd.Printf("   %s\n", warnStyle.Render("Candidates changed since the last run"))
			}
		}
		cmd.Printf("\n%s %d\n", labelStyle.Render("Total candidates:"), total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
