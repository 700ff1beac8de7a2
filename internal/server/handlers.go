package server

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tanishkumarsahu/Code4Edtech/internal/extract"
	"github.com/tanishkumarsahu/Code4Edtech/internal/ranking"
	"github.com/tanishkumarsahu/Code4Edtech/internal/screening"
	"github.com/tanishkumarsahu/Code4Edtech/internal/store"
)

func ok(c *gin.Context, payload gin.H) {
	payload["success"] = true
	c.JSON(http.StatusOK, payload)
}

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func (s *Server) health(c *gin.Context) {
	ok(c, gin.H{"status": "healthy", "message": "resume relevance backend is running"})
}

type createJobRequest struct {
	Title              string   `json:"title"`
	Company            string   `json:"company"`
	Description        string   `json:"description"`
	MustHaveSkills     []string `json:"must_have_skills"`
	GoodToHaveSkills   []string `json:"good_to_have_skills"`
	ExperienceRequired string   `json:"experience_required"`
	EducationRequired  []string `json:"education_required"`
}

func (s *Server) createJob(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	job := &screening.JobDescription{
		Title:              strings.TrimSpace(req.Title),
		Company:            strings.TrimSpace(req.Company),
		Description:        strings.TrimSpace(req.Description),
		MustHaveSkills:     req.MustHaveSkills,
		GoodToHaveSkills:   req.GoodToHaveSkills,
		ExperienceRequired: req.ExperienceRequired,
		EducationRequired:  req.EducationRequired,
	}
	if err := job.Validate(); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	id, err := s.store.CreateJob(c.Request.Context(), job)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	ok(c, gin.H{"job_id": id})
}

func (s *Server) listJobs(c *gin.Context) {
	jobs, err := s.store.ListJobs(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	ok(c, gin.H{"jobs": jobs})
}

func (s *Server) uploadResume(c *gin.Context) {
	jobID := strings.TrimSpace(c.PostForm("job_id"))
	if jobID == "" {
		fail(c, http.StatusBadRequest, errors.New("job_id is required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, errors.New("no file provided"))
		return
	}
	if fileHeader.Size > extract.MaxFileSize {
		fail(c, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds %d byte limit", extract.MaxFileSize))
		return
	}
	if !extract.Supported(fileHeader.Filename) {
		fail(c, http.StatusBadRequest, fmt.Errorf("unsupported file type: %s", fileHeader.Filename))
		return
	}

	ctx := c.Request.Context()

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, fmt.Errorf("job %s not found", jobID))
			return
		}
		fail(c, http.StatusInternalServerError, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("open upload: %w", err))
		return
	}
	defer file.Close()

	text, err := extract.FromReader(fileHeader.Filename, file)
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, err)
		return
	}

	resume := &store.Resume{
		Filename:      fileHeader.Filename,
		JobID:         jobID,
		ExtractedText: text,
	}
	resumeID, err := s.store.CreateResume(ctx, resume)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	report, err := s.scoreAndSave(ctx, resumeID, text, job)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	ok(c, gin.H{
		"resume_id": resumeID,
		"job_title": job.Title,
		"company":   job.Company,
		"analysis":  report,
		"message":   "resume uploaded and analyzed",
	})
}

func (s *Server) analyzeResume(c *gin.Context) {
	resumeID := c.Param("id")

	ctx := c.Request.Context()
	resume, err := s.store.GetResume(ctx, resumeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, fmt.Errorf("resume %s not found", resumeID))
			return
		}
		fail(c, http.StatusInternalServerError, err)
		return
	}

	job, err := s.store.GetJob(ctx, resume.JobID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	report, err := s.scoreAndSave(ctx, resumeID, resume.ExtractedText, job)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	ok(c, gin.H{"resume_id": resumeID, "analysis": report})
}

// scoreAndSave runs the scoring flow with the semantic timeout applied on
// top of the request context, then persists the report.
func (s *Server) scoreAndSave(ctx context.Context, resumeID, resumeText string, job *screening.JobDescription) (*screening.ScoreReport, error) {
	scoreCtx, cancel := context.WithTimeout(ctx, s.config.SemanticTimeout)
	defer cancel()

	report, err := s.scorer.Score(scoreCtx, resumeText, job)
	if err != nil {
		return nil, fmt.Errorf("score resume: %w", err)
	}

	if err := s.store.SaveReport(ctx, resumeID, report); err != nil {
		return nil, err
	}

	return report, nil
}

func (s *Server) listResumes(c *gin.Context) {
	s.respondWithCandidates(c, nil)
}

func (s *Server) shortlisted(c *gin.Context) {
	shortlisted := true
	s.respondWithCandidates(c, &ranking.Options{Shortlisted: &shortlisted})
}

// respondWithCandidates loads all candidates and applies the query-derived
// filters plus any forced options.
func (s *Server) respondWithCandidates(c *gin.Context, forced *ranking.Options) {
	options, err := ranking.OptionsFromMap(queryMap(c))
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if forced != nil && forced.Shortlisted != nil {
		options.Shortlisted = forced.Shortlisted
	}

	candidates, err := s.filteredCandidates(c.Request.Context(), options)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	ok(c, gin.H{"resumes": candidates, "count": len(candidates)})
}

func (s *Server) filteredCandidates(ctx context.Context, options *ranking.Options) ([]*store.Candidate, error) {
	candidates, err := s.store.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}

	filters := options.Filters()
	s.logger.Debug("filtering candidates",
		zap.Int("total", len(candidates)),
		zap.String("filters", ranking.Describe(filters)),
	)

	return ranking.Run(s.logger, filters, candidates)
}

func (s *Server) shortlist(c *gin.Context) {
	s.setShortlisted(c, true)
}

func (s *Server) unshortlist(c *gin.Context) {
	s.setShortlisted(c, false)
}

func (s *Server) setShortlisted(c *gin.Context, shortlisted bool) {
	resumeID := c.Param("id")

	err := s.store.SetShortlisted(c.Request.Context(), resumeID, shortlisted)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, fmt.Errorf("resume %s not found", resumeID))
			return
		}
		fail(c, http.StatusInternalServerError, err)
		return
	}

	ok(c, gin.H{"resume_id": resumeID, "shortlisted": shortlisted})
}

var csvHeader = []string{
	"resume_id", "filename", "job_title", "company",
	"relevance_score", "hard_match_score", "semantic_match_score", "verdict",
	"shortlisted", "matched_skills", "missing_skills", "critical_missing_skills",
}

func (s *Server) exportReports(c *gin.Context) {
	options, err := ranking.OptionsFromMap(queryMap(c))
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	candidates, err := s.filteredCandidates(c.Request.Context(), options)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="reports.csv"`)

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(csvHeader); err != nil {
		s.logger.Warn("csv export aborted", zap.Error(err))
		return
	}

	for _, candidate := range candidates {
		if candidate.Report == nil {
			continue
		}
		record := []string{
			candidate.Resume.ID,
			candidate.Resume.Filename,
			candidate.JobTitle,
			candidate.JobCompany,
			strconv.Itoa(candidate.Report.RelevanceScore),
			strconv.Itoa(candidate.Report.HardMatchScore),
			strconv.Itoa(candidate.Report.SemanticMatchScore),
			string(candidate.Report.Verdict),
			strconv.FormatBool(candidate.Resume.Shortlisted),
			strings.Join(candidate.Report.MatchedSkills, "; "),
			strings.Join(candidate.Report.MissingSkills, "; "),
			strings.Join(candidate.Report.CriticalMissingSkills, "; "),
		}
		if err := writer.Write(record); err != nil {
			s.logger.Warn("csv export aborted", zap.Error(err))
			return
		}
	}

	writer.Flush()
}

// queryMap flattens single-valued query parameters for the options decoder.
func queryMap(c *gin.Context) map[string]any {
	params := make(map[string]any)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}
