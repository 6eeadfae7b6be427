package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khrees2412/predicta/internal/database"
	"github.com/khrees2412/predicta/internal/skills"
)

var skillCmd = &cobra.Command{
	Use:   "skills",
	Short: "Extract skills and experience from text",
	Long: `Show the technical and soft skills detected in a résumé or job text, the stated
years of experience, and optionally the skills a job asks for that the text lacks.`,
	Example: `  predicta skills --file resume.txt
  predicta skills --text "React JS developer, 5+ years of experience" --job 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		file, _ := cmd.Flags().GetString("file")
		jobID, _ := cmd.Flags().GetInt64("job")

		content, err := readText(text, file, "input")
		if err != nil {
			return err
		}

		hard := skills.Extract(content)
		soft := skills.ExtractSoft(content)

		cmd.Println(titleStyle.Render("Detected Skills"))
		cmd.Printf("%s %s\n", labelStyle.Render("Technical:"), joinOrNone(hard))
		cmd.Printf("%s %s\n", labelStyle.Render("Soft:"), joinOrNone(soft))
		if years, ok := skills.YearsOfExperience(content); ok {
			cmd.Printf("%s %d\n", labelStyle.Render("Experience (years):"), years)
		} else {
			cmd.Printf("%s %s\n", labelStyle.Render("Experience (years):"), mutedStyle.Render("not stated"))
		}

		if jobID == 0 {
			return nil
		}
		job, err := database.GetJob(jobID)
		if err != nil {
			return fmt.Errorf("fetch job: %w", err)
		}
		cmd.Println(labelStyle.Render(fmt.Sprintf("\nGap against %s", job.Title)))
		cmd.Printf("  Missing technical: %s\n", joinOrNone(skills.Missing(skills.Extract(job.Description), hard)))
		cmd.Printf("  Missing soft:      %s\n", joinOrNone(skills.Missing(skills.ExtractSoft(job.Description), soft)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(skillCmd)

	skillCmd.Flags().String("text", "", "Text to analyze")
	skillCmd.Flags().String("file", "", "Read the text to analyze from a file")
	skillCmd.Flags().Int64("job", 0, "Compare against this job's required skills")
}
