package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khrees2412/predicta/internal/app"
	"github.com/khrees2412/predicta/internal/database"
	"github.com/khrees2412/predicta/internal/skills"
	"github.com/khrees2412/predicta/pkg/models"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage job descriptions",
	Long:  "Add, list, view, and remove the job descriptions candidates are ranked against",
}

var addJobCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a job description",
	Example: `  predicta job add --title "Backend Engineer" --text "Python developer with Django and REST APIs"
  predicta job add --title "Data Scientist" --file jd.txt --keep-stopwords
  predicta job add --url https://boards.greenhouse.io/acme/jobs/123`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		url, _ := cmd.Flags().GetString("url")
		title, _ := cmd.Flags().GetString("title")
		text, _ := cmd.Flags().GetString("text")
		file, _ := cmd.Flags().GetString("file")
		keepStopwords, _ := cmd.Flags().GetBool("keep-stopwords")
		noAnonymize, _ := cmd.Flags().GetBool("no-anonymize")

		job := &models.Job{
			Title:           strings.TrimSpace(title),
			RemoveStopwords: application.Config.RemoveStopwords && !keepStopwords,
			AnonymizePII:    application.Config.AnonymizePII && !noAnonymize,
			Source:          "manual",
		}

		if url != "" {
			if text != "" || file != "" {
				return fmt.Errorf("--url cannot be combined with --text or --file: %w", app.ErrInvalidArgument)
			}
			existing, err := database.GetJobByURL(url)
			if err != nil {
				return fmt.Errorf("check job url: %w", err)
			}
			if existing != nil {
				return fmt.Errorf("%w (ID: %d)", app.ErrDuplicateURL, existing.ID)
			}

			cmd.Printf("Fetching job description from %s...\n", url)
			posting, err := application.Fetcher.Fetch(cmd.Context(), url)
			if err != nil {
				return fmt.Errorf("fetch job: %w", err)
			}
			job.URL = url
			job.Source = "url"
			job.Description = posting.Text
			if job.Title == "" {
				job.Title = posting.Title
			}
		} else {
			description, err := readText(text, file, "job description")
			if err != nil {
				return err
			}
			job.Description = description
			if file != "" {
				job.Source = "file"
			}
		}

		if strings.TrimSpace(job.Description) == "" {
			return fmt.Errorf("job description is empty: %w", app.ErrInvalidArgument)
		}
		if job.Title == "" {
			return fmt.Errorf("--title is required: %w", app.ErrInvalidArgument)
		}

		if err := database.CreateJob(job); err != nil {
			return fmt.Errorf("save job: %w", err)
		}

		application.Logger.Info("job added",
			zap.Int64("job_id", job.ID),
			zap.String("source", job.Source),
			zap.Bool("remove_stopwords", job.RemoveStopwords),
			zap.Bool("anonymize_pii", job.AnonymizePII))

		cmd.Printf("✓ Job added: %s (ID: %d)\n", job.Title, job.ID)
		if hard := skills.Extract(job.Description); len(hard) > 0 {
			cmd.Printf("%s %s\n", labelStyle.Render("Skills:"), strings.Join(hard, ", "))
		}
		return nil
	},
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := database.GetAllJobs()
		if err != nil {
			return fmt.Errorf("fetch jobs: %w", err)
		}

		if len(jobs) == 0 {
			cmd.Println("No jobs found. Add one with 'predicta job add --title TITLE --text TEXT'")
			return nil
		}

		cmd.Println(titleStyle.Render("Saved Jobs"))
		for _, job := range jobs {
			count, err := database.CountCandidates(job.ID)
			if err != nil {
				return fmt.Errorf("count candidates: %w", err)
			}
			cmd.Printf("\n%s %s\n", labelStyle.Render(fmt.Sprintf("%d.", job.ID)), job.Title)
			cmd.Printf("   %s %d\n", labelStyle.Render("Candidates:"), count)
			if job.URL != "" {
				cmd.Printf("   %s %s\n", labelStyle.Render("URL:"), job.URL)
			}
			cmd.Printf("   %s %s\n", labelStyle.Render("Added:"), job.CreatedAt.Local().Format("Jan 2, 2006"))
		}
		return nil
	},
}

var showJobCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show details of a specific job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, err := parseID(args[0], "job")
		if err != nil {
			return err
		}

		job, err := database.GetJob(jobID)
		if err != nil {
			return fmt.Errorf("fetch job: %w", err)
		}

		cmd.Println(titleStyle.Render(job.Title))
		if job.URL != "" {
			cmd.Printf("%s %s\n", labelStyle.Render("URL:"), job.URL)
		}
		cmd.Printf("%s %s\n", labelStyle.Render("Source:"), job.Source)
		cmd.Printf("%s %s\n", labelStyle.Render("Added:"), job.CreatedAt.Local().Format("Jan 2, 2006 15:04"))
		cmd.Printf("%s %t\n", labelStyle.Render("Remove stop-words:"), job.RemoveStopwords)
		cmd.Printf("%s %t\n", labelStyle.Render("Anonymize PII:"), job.AnonymizePII)
		cmd.Printf("%s %s\n", labelStyle.Render("Skills:"), joinOrNone(skills.Extract(job.Description)))
		cmd.Printf("%s %s\n", labelStyle.Render("Soft skills:"), joinOrNone(skills.ExtractSoft(job.Description)))

		cmd.Println(labelStyle.Render("\nDescription:"))
		cmd.Println(job.Description)
		return nil
	},
}

var removeJobCmd = &cobra.Command{
	Use:   "remove <job-id>",
	Short: "Remove a job with its candidates and rankings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, err := parseID(args[0], "job")
		if err != nil {
			return err
		}

		// Check if job exists
		job, err := database.GetJob(jobID)
		if err != nil {
			return fmt.Errorf("fetch job: %w", err)
		}

		if err := database.DeleteJob(jobID); err != nil {
			return fmt.Errorf("remove job: %w", err)
		}

		cmd.Printf("✓ Removed job: %s\n", job.Title)
		return nil
	},
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return mutedStyle.Render("none")
	}
	return strings.Join(items, ", ")
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(addJobCmd)
	jobCmd.AddCommand(listJobsCmd)
	jobCmd.AddCommand(showJobCmd)
	jobCmd.AddCommand(removeJobCmd)

	// Flags for add command
	addJobCmd.Flags().String("title", "", "Job title")
	addJobCmd.Flags().String("text", "", "Job description text")
	addJobCmd.Flags().String("file", "", "Read the job description from a file")
	addJobCmd.Flags().String("url", "", "Import the job description from a posting URL")
	addJobCmd.Flags().Bool("keep-stopwords", false, "Keep stop-words when tokenizing")
	addJobCmd.Flags().Bool("no-anonymize", false, "Do not redact emails and long numbers")
}
