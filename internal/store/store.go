// Package store persists jobs, resumes, and score reports in Postgres.
// It is supporting infrastructure for the scoring core: reports are written
// once per analysis and read back for dashboards and exports.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/tanishkumarsahu/Code4Edtech/internal/screening"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Resume is a stored, already-extracted resume tied to one job.
type Resume struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	JobID         string    `json:"job_id"`
	ExtractedText string    `json:"-"`
	Shortlisted   bool      `json:"shortlisted"`
	CreatedAt     time.Time `json:"created_at"`
}

// Candidate is a resume joined with its score report (nil until analyzed)
// and the job it was screened against.
type Candidate struct {
	Resume     Resume                 `json:"resume"`
	JobTitle   string                 `json:"job_title"`
	JobCompany string                 `json:"job_company"`
	Report     *screening.ScoreReport `json:"report,omitempty"`
}

// Store wraps the SQL connection pool.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, databaseURL string, logger *zap.Logger) (*Store, error) {
	if databaseURL == "" {
		return nil, errors.New("database url is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			company TEXT NOT NULL,
			description TEXT NOT NULL,
			must_have_skills JSONB NOT NULL DEFAULT '[]',
			good_to_have_skills JSONB NOT NULL DEFAULT '[]',
			experience_required TEXT NOT NULL DEFAULT '',
			education_required JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			filename TEXT NOT NULL,
			job_id UUID NOT NULL REFERENCES jobs(id),
			extracted_text TEXT NOT NULL,
			shortlisted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS reports (
			resume_id UUID PRIMARY KEY REFERENCES resumes(id),
			report JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	s.logger.Debug("database schema ensured")
	return nil
}

// CreateJob stores a job description and returns its assigned id.
func (s *Store) CreateJob(ctx context.Context, job *screening.JobDescription) (string, error) {
	if err := job.Validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()

	mustHave, err := json.Marshal(emptyIfNil(job.MustHaveSkills))
	if err != nil {
		return "", fmt.Errorf("marshal must-have skills: %w", err)
	}
	goodToHave, err := json.Marshal(emptyIfNil(job.GoodToHaveSkills))
	if err != nil {
		return "", fmt.Errorf("marshal good-to-have skills: %w", err)
	}
	education, err := json.Marshal(emptyIfNil(job.EducationRequired))
	if err != nil {
		return "", fmt.Errorf("marshal education: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, title, company, description, must_have_skills, good_to_have_skills, experience_required, education_required)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, job.Title, job.Company, job.Description, mustHave, goodToHave, job.ExperienceRequired, education,
	)
	if err != nil {
		return "", fmt.Errorf("insert job: %w", err)
	}

	s.logger.Info("job created", zap.String("job_id", id), zap.String("title", job.Title))
	return id, nil
}

// GetJob loads one job description by id.
func (s *Store) GetJob(ctx context.Context, id string) (*screening.JobDescription, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, company, description, must_have_skills, good_to_have_skills, experience_required, education_required
		 FROM jobs WHERE id = $1`, id)

	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return job, err
}

// ListJobs returns all jobs, newest first.
func (s *Store) ListJobs(ctx context.Context) ([]*screening.JobDescription, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, company, description, must_have_skills, good_to_have_skills, experience_required, education_required
		 FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*screening.JobDescription, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*screening.JobDescription, error) {
	var job screening.JobDescription
	var mustHave, goodToHave, education []byte

	err := row.Scan(&job.ID, &job.Title, &job.Company, &job.Description,
		&mustHave, &goodToHave, &job.ExperienceRequired, &education)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(mustHave, &job.MustHaveSkills); err != nil {
		return nil, fmt.Errorf("decode must-have skills: %w", err)
	}
	if err := json.Unmarshal(goodToHave, &job.GoodToHaveSkills); err != nil {
		return nil, fmt.Errorf("decode good-to-have skills: %w", err)
	}
	if err := json.Unmarshal(education, &job.EducationRequired); err != nil {
		return nil, fmt.Errorf("decode education: %w", err)
	}

	return &job, nil
}

// CreateResume stores an extracted resume and returns its assigned id.
func (s *Store) CreateResume(ctx context.Context, resume *Resume) (string, error) {
	if resume == nil {
		return "", errors.New("resume is required")
	}
	if resume.JobID == "" {
		return "", errors.New("resume job id is required")
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resumes (id, filename, job_id, extracted_text) VALUES ($1, $2, $3, $4)`,
		id, resume.Filename, resume.JobID, resume.ExtractedText,
	)
	if err != nil {
		return "", fmt.Errorf("insert resume: %w", err)
	}

	resume.ID = id
	s.logger.Info("resume stored",
		zap.String("resume_id", id),
		zap.String("job_id", resume.JobID),
		zap.String("filename", resume.Filename),
	)
	return id, nil
}

// GetResume loads one resume including its extracted text.
func (s *Store) GetResume(ctx context.Context, id string) (*Resume, error) {
	var resume Resume
	err := s.db.QueryRowContext(ctx,
		`SELECT id, filename, job_id, extracted_text, shortlisted, created_at FROM resumes WHERE id = $1`, id,
	).Scan(&resume.ID, &resume.Filename, &resume.JobID, &resume.ExtractedText, &resume.Shortlisted, &resume.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get resume: %w", err)
	}
	return &resume, nil
}

// SaveReport upserts the score report for a resume, so re-analysis replaces
// the previous result.
func (s *Store) SaveReport(ctx context.Context, resumeID string, report *screening.ScoreReport) error {
	if report == nil {
		return errors.New("report is required")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (resume_id, report) VALUES ($1, $2)
		 ON CONFLICT (resume_id) DO UPDATE SET report = EXCLUDED.report, updated_at = now()`,
		resumeID, payload,
	)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	s.logger.Info("report saved",
		zap.String("resume_id", resumeID),
		zap.Int("relevance_score", report.RelevanceScore),
		zap.String("verdict", string(report.Verdict)),
	)
	return nil
}

// SetShortlisted flips the shortlist flag on a resume.
func (s *Store) SetShortlisted(ctx context.Context, resumeID string, shortlisted bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE resumes SET shortlisted = $2 WHERE id = $1`, resumeID, shortlisted)
	if err != nil {
		return fmt.Errorf("update shortlist flag: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update shortlist flag: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCandidates returns every resume joined with its job and report,
// newest first. Filtering happens in the ranking pipeline, not in SQL, so
// the filter steps stay testable without a database.
func (s *Store) ListCandidates(ctx context.Context) ([]*Candidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.filename, r.job_id, r.shortlisted, r.created_at, j.title, j.company, rep.report
		 FROM resumes r
		 JOIN jobs j ON j.id = r.job_id
		 LEFT JOIN reports rep ON rep.resume_id = r.id
		 ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]*Candidate, 0)
	for rows.Next() {
		var c Candidate
		var payload []byte

		err := rows.Scan(&c.Resume.ID, &c.Resume.Filename, &c.Resume.JobID, &c.Resume.Shortlisted,
			&c.Resume.CreatedAt, &c.JobTitle, &c.JobCompany, &payload)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}

		if len(payload) > 0 {
			var report screening.ScoreReport
			if err := json.Unmarshal(payload, &report); err != nil {
				return nil, fmt.Errorf("decode report for resume %s: %w", c.Resume.ID, err)
			}
			c.Report = &report
		}

		candidates = append(candidates, &c)
	}

	return candidates, rows.Err()
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
