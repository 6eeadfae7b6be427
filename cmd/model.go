package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/khrees2412/predicta/internal/app"
	"github.com/khrees2412/predicta/internal/database"
	"github.com/khrees2412/predicta/internal/matcher"
	"github.com/khrees2412/predicta/internal/scorer"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Train and use the learned ranking model",
	Long: `The ranking model is a gradient-boosted regression over five features:
cosine_similarity, sbert_similarity, hard_skill_matches, soft_skill_matches and
years_experience. It is trained from labeled rows and stored as a single file.`,
}

var trainModelCmd = &cobra.Command{
	Use:   "train <rows.json>",
	Short: "Train the model from a JSON array of labeled feature rows",
	Example: `  predicta model train labels.json

  labels.json:
  [{"cosine_similarity": 0.42, "sbert_similarity": 0.61, "hard_skill_matches": 3,
    "soft_skill_matches": 1, "years_experience": 4, "label": 0.8}]`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read training rows: %w", err)
		}
		var rows []scorer.TrainingRow
		if err := json.Unmarshal(data, &rows); err != nil {
			return fmt.Errorf("%w: decode training rows: %v", scorer.ErrInvalidInput, err)
		}

		cmd.Printf("Training on %d rows...\n", len(rows))
		if err := application.Scorer.Train(rows); err != nil {
			return fmt.Errorf("train model: %w", err)
		}
		cmd.Printf("✓ Model trained and saved to %s\n", application.Scorer.Path())
		return nil
	},
}

var predictModelCmd = &cobra.Command{
	Use:     "predict",
	Short:   "Score one feature vector with the trained model",
	Example: `  predicta model predict --cosine 0.42 --sbert 0.61 --hard-skills 3 --soft-skills 1 --experience 4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		// Unset flags stay nil so validation reports them as missing.
		flag := func(name string) *float64 {
			if !cmd.Flags().Changed(name) {
				return nil
			}
			v, _ := cmd.Flags().GetFloat64(name)
			return &v
		}
		in := scorer.FeatureInput{
			CosineSimilarity: flag("cosine"),
			SBERTSimilarity:  flag("sbert"),
			HardSkillMatches: flag("hard-skills"),
			SoftSkillMatches: flag("soft-skills"),
			YearsExperience:  flag("experience"),
		}

		score, err := application.Scorer.PredictInput(in)
		if errors.Is(err, scorer.ErrModelUnavailable) {
			return fmt.Errorf("%w: train one with 'predicta model train rows.json'", err)
		}
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return printJSON(cmd, map[string]float64{"score": score})
		}
		cmd.Printf("%s %.6f\n", labelStyle.Render("Score:"), score)
		return nil
	},
}

var statusModelCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a trained model is loaded",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		cmd.Println(titleStyle.Render("Ranking Model"))
		cmd.Printf("%s %s\n", labelStyle.Render("Path:"), application.Scorer.Path())
		if application.Scorer.HasModel() {
			cmd.Printf("%s %s\n", labelStyle.Render("Status:"), "✓ Loaded")
		} else {
			cmd.Printf("%s %s\n", labelStyle.Render("Status:"), "✗ Not trained (blended scores fall back to TF-IDF)")
		}
		provider := "none"
		if application.Embedder != nil {
			provider = application.Embedder.Provider()
		}
		cmd.Printf("%s %s\n", labelStyle.Render("Semantic similarity:"), provider)
		return nil
	},
}

var scoreModelCmd = &cobra.Command{
	Use:   "score <job-id>",
	Short: "Re-rank a job's candidates by blending the model score with TF-IDF",
	Long: `Rank candidates with TF-IDF, build the model features for each one and
average the model prediction with the TF-IDF score. Without a trained model the
TF-IDF score is used for both halves.`,
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
		semantic, _ := cmd.Flags().GetBool("semantic")
		asJSON, _ := cmd.Flags().GetBool("json")
		top, _ := cmd.Flags().GetInt("top")

		job, err := database.GetJob(jobID)
		if err != nil {
			return fmt.Errorf("fetch job: %w", err)
		}
		cands, err := database.GetCandidatesByJob(jobID)
		if err != nil {
			return fmt.Errorf("fetch candidates: %w", err)
		}
		if len(cands) == 0 {
			return fmt.Errorf("job %d: %w; add one with 'predicta candidate add %d --file resume.txt'", jobID, app.ErrNoCandidates, jobID)
		}

		opts := matcher.BlendOptions{
			Predictor: application.Scorer,
			Logger:    application.Logger,
		}
		if semantic {
			if application.Embedder == nil {
				return fmt.Errorf("--semantic needs an embedding provider: predicta config set --key embedding_provider --value sbert")
			}
			opts.Semantic = application.Semantic()
		}

		rows := matcher.Rank(job.Description, cands, application.RankOptions(job.RemoveStopwords, job.AnonymizePII))
		blended, err := matcher.Blend(cmd.Context(), job, cands, rows, opts)
		if err != nil {
			return fmt.Errorf("blend scores: %w", err)
		}
		blended = limitRows(blended, top)

		if asJSON {
			return printJSON(cmd, map[string]any{"job_id": jobID, "results": blended})
		}

		cmd.Println(titleStyle.Render(fmt.Sprintf("Blended ranking for %s", job.Title)))
		if !application.Scorer.HasModel() {
			cmd.Println(warnStyle.Render("No trained model: final score equals the TF-IDF score."))
		}
		cmd.Println(renderBlended(blended))
		return nil
	},
}

func renderBlended(rows []matcher.BlendedRow) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return labelStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("#", "Name", "Final", "TF-IDF", "Semantic", "Model", "Years", "Missing skills")

	for i, r := range rows {
		years := "-"
		if r.YearsOfExperience != nil {
			years = fmt.Sprintf("%d", *r.YearsOfExperience)
		}
		t.Row(
			fmt.Sprintf("%d", i+1),
			r.Name,
			fmt.Sprintf("%.4f", r.Score),
			fmt.Sprintf("%.4f", r.BaseScore),
			fmt.Sprintf("%.4f", r.SemanticScore),
			fmt.Sprintf("%.4f", r.MLScore),
			years,
			joinOrNone(append(append([]string{}, r.MissingHardSkills...), r.MissingSoftSkills...)),
		)
	}
	return t.String()
}

func init() {
	rootCmd.AddCommand(modelCmd)
	modelCmd.AddCommand(trainModelCmd)
	modelCmd.AddCommand(predictModelCmd)
	modelCmd.AddCommand(statusModelCmd)
	modelCmd.AddCommand(scoreModelCmd)

	predictModelCmd.Flags().Float64("cosine", 0, "TF-IDF cosine similarity")
	predictModelCmd.Flags().Float64("sbert", 0, "Embedding similarity")
	predictModelCmd.Flags().Float64("hard-skills", 0, "Number of matched technical skills")
	predictModelCmd.Flags().Float64("soft-skills", 0, "Number of soft skills")
	predictModelCmd.Flags().Float64("experience", 0, "Years of experience")
	predictModelCmd.Flags().Bool("json", false, "Print the score as JSON")

	scoreModelCmd.Flags().Bool("semantic", false, "Use the configured embedding provider for sbert_similarity")
	scoreModelCmd.Flags().Bool("json", false, "Print the blended ranking as JSON")
	scoreModelCmd.Flags().Int("top", 0, "Only print the top N candidates")
}
