package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khrees2412/predicta/internal/database"
	"github.com/khrees2412/predicta/internal/logger"
	"github.com/khrees2412/predicta/internal/matcher"
	"github.com/khrees2412/predicta/pkg/models"
)

// maxListedTerms bounds the term columns in table output
const maxListedTerms = 5

type rankOutput struct {
	RunID    string                  `json:"run_id"`
	JobID    int64                   `json:"job_id"`
	Results  []models.RankedRow      `json:"results"`
	Fairness *matcher.FairnessReport `json:"fairness,omitempty"`
}

var rankCmd = &cobra.Command{
	Use:   "rank <job-id>",
	Short: "Rank a job's candidates by TF-IDF similarity",
	Long: `Rank every candidate submitted for a job against its description. The result
replaces the job's previously stored ranking and is logged as a ranking run.`,
	Example: `  predicta rank 1
  predicta rank 1 --top 5 --fairness
  predicta rank 1 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}
		jobID, err := parseID(args[0], "job")
		if err != nil {
			return err
		}
		top, _ := cmd.Flags().GetInt("top")
		asJSON, _ := cmd.Flags().GetBool("json")
		withFairness, _ := cmd.Flags().GetBool("fairness")

		job, err := database.GetJob(jobID)
		if err != nil {
			return fmt.Errorf("fetch job: %w", err)
		}
		cands, err := database.GetCandidatesByJob(jobID)
		if err != nil {
			return fmt.Errorf("fetch candidates: %w", err)
		}

		rows := matcher.Rank(job.Description, cands, application.RankOptions(job.RemoveStopwords, job.AnonymizePII))

		run := &models.RankingRun{
			RunID:          uuid.NewString(),
			JobID:          jobID,
			CandidateCount: len(rows),
		}
		if len(rows) > 0 {
			run.TopScore = rows[0].Score
		}
		if err := database.SaveRankingWithRun(&models.Ranking{JobID: jobID, Rows: rows}, run); err != nil {
			return err
		}

		logger.WithFields(application.Logger,
			zap.String("run_id", run.RunID),
			zap.Int64("job_id", jobID),
		).Info("ranked candidates",
			zap.Int("candidates", run.CandidateCount),
			zap.Float64("top_score", run.TopScore))

		var report *matcher.FairnessReport
		if withFairness {
			report = matcher.Fairness(job.Description, cands, job.RemoveStopwords)
		}

		if asJSON {
			return printJSON(cmd, rankOutput{RunID: run.RunID, JobID: jobID, Results: limitRows(rows, top), Fairness: report})
		}

		cmd.Println(titleStyle.Render(fmt.Sprintf("Ranking for %s", job.Title)))
		if len(rows) == 0 {
			cmd.Printf("No candidates yet. Add one with 'predicta candidate add %d --file resume.txt'\n", jobID)
			return nil
		}
		cmd.Println(renderRanking(limitRows(rows, top)))
		cmd.Println(mutedStyle.Render(fmt.Sprintf("Run %s", run.RunID)))
		if report != nil {
			printFairness(cmd, report)
		}
		return nil
	},
}

var showRankCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show the stored ranking for a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, err := parseID(args[0], "job")
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		top, _ := cmd.Flags().GetInt("top")

		job, err := database.GetJob(jobID)
		if err != nil {
			return fmt.Errorf("fetch job: %w", err)
		}
		ranking, err := database.GetRanking(jobID)
		if err != nil {
			return fmt.Errorf("fetch ranking (run 'predicta rank %d' first): %w", jobID, err)
		}

		if asJSON {
			ranking.Rows = limitRows(ranking.Rows, top)
			return printJSON(cmd, ranking)
		}

		cmd.Println(titleStyle.Render(fmt.Sprintf("Ranking for %s", job.Title)))
		cmd.Println(mutedStyle.Render("Ranked " + ranking.CreatedAt.Local().Format("Jan 2, 2006 15:04")))
		if len(ranking.Rows) == 0 {
			cmd.Println("No candidates were ranked.")
			return nil
		}
		cmd.Println(renderRanking(limitRows(ranking.Rows, top)))

		runs, err := database.GetRankingRuns(jobID)
		if err != nil {
			return fmt.Errorf("fetch ranking runs: %w", err)
		}
		cmd.Printf("%s %d\n", labelStyle.Render("Runs:"), len(runs))
		return nil
	},
}

func limitRows[T any](rows []T, top int) []T {
	if top > 0 && top < len(rows) {
		return rows[:top]
	}
	return rows
}

func renderRanking(rows []models.RankedRow) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return labelStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("#", "ID", "Name", "Score", "Tokens", "Skill overlap", "Top terms")

	for i, r := range rows {
		t.Row(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.ID),
			r.Name,
			fmt.Sprintf("%.4f", r.Score),
			fmt.Sprintf("%d", r.TokenCount),
			joinOrNone(r.SkillOverlap),
			joinOrNone(termNames(r.TermWeights, maxListedTerms)),
		)
	}
	return t.String()
}

func termNames(weights []models.TermWeight, limit int) []string {
	names := make([]string, 0, limit)
	for _, w := range weights {
		if len(names) == limit {
			break
		}
		names = append(names, w.Term)
	}
	return names
}

func printFairness(cmd *cobra.Command, report *matcher.FairnessReport) {
	cmd.Println(labelStyle.Render("\nFairness check (with vs without PII redaction)"))
	cmd.Printf("  Average shift: %.4f\n", report.AvgShift)
	cmd.Printf("  Max shift:     %.4f (%s)\n", report.MaxShift, report.MaxShiftName)
	if report.Sensitive {
		cmd.Println("  " + warnStyle.Render(report.Note))
	} else {
		cmd.Println("  " + report.Note)
	}
	if len(report.Shifts) > 0 {
		var b strings.Builder
		for _, s := range report.Shifts {
			fmt.Fprintf(&b, "  %-20s base %.4f  anon %.4f  Δ %+.4f\n", s.Name, s.Base, s.Anonymous, s.Delta)
		}
		cmd.Print(b.String())
	}
}

func init() {
	rootCmd.AddCommand(rankCmd)
	rankCmd.AddCommand(showRankCmd)

	rankCmd.Flags().Int("top", 0, "Only print the top N candidates (all are stored)")
	rankCmd.Flags().Bool("json", false, "Print the ranking as JSON")
	rankCmd.Flags().Bool("fairness", false, "Compare scores with and without PII redaction")

	showRankCmd.Flags().Int("top", 0, "Only print the top N candidates")
	showRankCmd.Flags().Bool("json", false, "Print the ranking as JSON")
}
