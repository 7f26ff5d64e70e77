package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateJob inserts a recruiter job and returns the stored record.
func (db *DB) CreateJob(ctx context.Context, title, company string, requiredSkills []string, minScore int) (*Job, error) {
	job := Job{
		ID:             uuid.New(),
		Title:          title,
		Company:        company,
		RequiredSkills: StringArray(requiredSkills),
		MinScore:       minScore,
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO recruiter_jobs (id, title, company, required_skills, min_score)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		job.ID, job.Title, job.Company, job.RequiredSkills, job.MinScore,
	).Scan(&job.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	if job.RequiredSkills == nil {
		job.RequiredSkills = StringArray{}
	}
	return &job, nil
}

// ListJobs returns the most recent jobs first.
func (db *DB) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, company, required_skills, min_score, created_at
		 FROM recruiter_jobs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.RequiredSkills, &j.MinScore, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// DeleteJob removes a job. It reports false when no job has the id.
func (db *DB) DeleteJob(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM recruiter_jobs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
