package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/khrees2412/predicta/pkg/models"
)

// Job operations

const jobColumns = `id, title, jd_text, remove_stopwords, anonymize_pii, url, source, created_at`

func scanJob(row interface{ Scan(...any) error }) (*models.Job, error) {
	job := &models.Job{}
	err := row.Scan(&job.ID, &job.Title, &job.Description, &job.RemoveStopwords,
		&job.AnonymizePII, &job.URL, &job.Source, &job.CreatedAt)
	return job, err
}

func CreateJob(job *models.Job) error {
	if job.Source == "" {
		job.Source = "manual"
	}
	job.CreatedAt = time.Now().UTC()
	query := `INSERT INTO jobs (title, jd_text, remove_stopwords, anonymize_pii, url, source, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := DB.Exec(query, job.Title, job.Description, job.RemoveStopwords,
		job.AnonymizePII, job.URL, job.Source, job.CreatedAt)
	if err != nil {
		return err
	}
	job.ID, err = result.LastInsertId()
	return err
}

func GetJob(id int64) (*models.Job, error) {
	job, err := scanJob(DB.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	return job, err
}

func GetAllJobs() ([]*models.Job, error) {
	rows, err := DB.Query(`SELECT ` + jobColumns + ` FROM jobs ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// GetJobByURL returns nil without error when no job was imported from url.
func GetJobByURL(url string) (*models.Job, error) {
	job, err := scanJob(DB.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE url=? AND url<>''`, url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return job, err
}

// DeleteJob removes a job together with its candidates, ranking and runs.
func DeleteJob(id int64) error {
	return deleteByID("jobs", "job", id)
}

// Candidate operations

const candidateColumns = `id, job_id, name, email, resume_text, created_at`

func scanCandidate(row interface{ Scan(...any) error }) (*models.Candidate, error) {
	c := &models.Candidate{}
	err := row.Scan(&c.ID, &c.JobID, &c.Name, &c.Email, &c.ResumeText, &c.CreatedAt)
	return c, err
}

func CreateCandidate(c *models.Candidate) error {
	c.CreatedAt = time.Now().UTC()
	query := `INSERT INTO candidates (job_id, name, email, resume_text, created_at) VALUES (?, ?, ?, ?, ?)`
	result, err := DB.Exec(query, c.JobID, c.Name, c.Email, c.ResumeText, c.CreatedAt)
	if err != nil {
		return err
	}
	c.ID, err = result.LastInsertId()
	return err
}

func GetCandidate(id int64) (*models.Candidate, error) {
	c, err := scanCandidate(DB.QueryRow(`SELECT `+candidateColumns+` FROM candidates WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("candidate %d: %w", id, ErrNotFound)
	}
	return c, err
}

// GetCandidatesByJob returns a job's candidates in submission order.
func GetCandidatesByJob(jobID int64) ([]*models.Candidate, error) {
	rows, err := DB.Query(`SELECT `+candidateColumns+` FROM candidates WHERE job_id=? ORDER BY id ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []*models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func CountCandidates(jobID int64) (int, error) {
	var n int
	err := DB.QueryRow(`SELECT COUNT(*) FROM candidates WHERE job_id=?`, jobID).Scan(&n)
	return n, err
}

func DeleteCandidate(id int64) error {
	return deleteByID("candidates", "candidate", id)
}

// Ranking operations

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// SaveRanking stores the ranking for its job, replacing any previous one.
func SaveRanking(r *models.Ranking) error {
	return saveRanking(DB, r)
}

// SaveRankingWithRun replaces the job's ranking and records run in one
// transaction; if either write fails neither is kept.
func SaveRankingWithRun(r *models.Ranking, run *models.RankingRun) error {
	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveRanking(tx, r); err != nil {
		return fmt.Errorf("save ranking: %w", err)
	}
	if err := createRankingRun(tx, run); err != nil {
		return fmt.Errorf("record ranking run: %w", err)
	}
	return tx.Commit()
}

func saveRanking(db execer, r *models.Ranking) error {
	rows := r.Rows
	if rows == nil {
		rows = []models.RankedRow{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode ranking: %w", err)
	}
	r.CreatedAt = time.Now().UTC()
	query := `INSERT INTO rankings (job_id, results_json, created_at) VALUES (?, ?, ?)
			  ON CONFLICT(job_id) DO UPDATE SET results_json=excluded.results_json, created_at=excluded.created_at`
	_, err = db.Exec(query, r.JobID, string(data), r.CreatedAt)
	return err
}

func GetRanking(jobID int64) (*models.Ranking, error) {
	r := &models.Ranking{JobID: jobID}
	var data string
	err := DB.QueryRow(`SELECT results_json, created_at FROM rankings WHERE job_id=?`, jobID).
		Scan(&data, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ranking for job %d: %w", jobID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &r.Rows); err != nil {
		return nil, fmt.Errorf("failed to decode ranking for job %d: %w", jobID, err)
	}
	return r, nil
}

// Ranking run operations

func CreateRankingRun(run *models.RankingRun) error {
	return createRankingRun(DB, run)
}

func createRankingRun(db execer, run *models.RankingRun) error {
	run.CreatedAt = time.Now().UTC()
	query := `INSERT INTO ranking_runs (run_id, job_id, candidate_count, top_score, created_at) VALUES (?, ?, ?, ?, ?)`
	result, err := db.Exec(query, run.RunID, run.JobID, run.CandidateCount, run.TopScore, run.CreatedAt)
	if err != nil {
		return err
	}
	run.ID, err = result.LastInsertId()
	return err
}

// GetRankingRuns returns a job's runs, newest first.
func GetRankingRuns(jobID int64) ([]*models.RankingRun, error) {
	rows, err := DB.Query(`SELECT id, run_id, job_id, candidate_count, top_score, created_at
			  FROM ranking_runs WHERE job_id=? ORDER BY id DESC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*models.RankingRun{}
	for rows.Next() {
		run := &models.RankingRun{}
		if err := rows.Scan(&run.ID, &run.RunID, &run.JobID, &run.CandidateCount,
			&run.TopScore, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func deleteByID(table, noun string, id int64) error {
	result, err := DB.Exec(`DELETE FROM `+table+` WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", noun, id, ErrNotFound)
	}
	return nil
}
