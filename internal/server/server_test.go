package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tanishkumarsahu/Code4Edtech/internal/screening"
	"github.com/tanishkumarsahu/Code4Edtech/internal/store"
)

type stubStore struct {
	jobs       map[string]*screening.JobDescription
	resumes    map[string]*store.Resume
	reports    map[string]*screening.ScoreReport
	candidates []*store.Candidate

	createdJobID string
	listErr      error
}

func newStubStore() *stubStore {
	return &stubStore{
		jobs:         map[string]*screening.JobDescription{},
		resumes:      map[string]*store.Resume{},
		reports:      map[string]*screening.ScoreReport{},
		createdJobID: "job-created",
	}
}

func (s *stubStore) CreateJob(_ context.Context, job *screening.JobDescription) (string, error) {
	job.ID = s.createdJobID
	s.jobs[job.ID] = job
	return job.ID, nil
}

func (s *stubStore) GetJob(_ context.Context, id string) (*screening.JobDescription, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return job, nil
}

func (s *stubStore) ListJobs(_ context.Context) ([]*screening.JobDescription, error) {
	jobs := make([]*screening.JobDescription, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s *stubStore) CreateResume(_ context.Context, resume *store.Resume) (string, error) {
	resume.ID = "resume-created"
	s.resumes[resume.ID] = resume
	return resume.ID, nil
}

func (s *stubStore) GetResume(_ context.Context, id string) (*store.Resume, error) {
	resume, ok := s.resumes[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return resume, nil
}

func (s *stubStore) SaveReport(_ context.Context, resumeID string, report *screening.ScoreReport) error {
	s.reports[resumeID] = report
	return nil
}

func (s *stubStore) SetShortlisted(_ context.Context, resumeID string, shortlisted bool) error {
	resume, ok := s.resumes[resumeID]
	if !ok {
		return store.ErrNotFound
	}
	resume.Shortlisted = shortlisted
	return nil
}

func (s *stubStore) ListCandidates(_ context.Context) ([]*store.Candidate, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.candidates, nil
}

type stubScorer struct {
	report *screening.ScoreReport
	err    error
	calls  int
}

func (s *stubScorer) Score(_ context.Context, _ string, _ *screening.JobDescription) (*screening.ScoreReport, error) {
	s.calls++
	return s.report, s.err
}

func sampleReport() *screening.ScoreReport {
	return &screening.ScoreReport{
		HardMatchScore:     40,
		SemanticMatchScore: 90,
		RelevanceScore:     70,
		Verdict:            screening.VerdictMedium,
		MatchedSkills:      []string{"Go"},
		MissingSkills:      []string{"Rust"},
	}
}

func newTestServer(st *stubStore, scorer *stubScorer) *Server {
	return New(Config{}, st, scorer, nil)
}

func doRequest(t *testing.T, srv *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response body: %s (%s)", err, recorder.Body.String())
	}
	return body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubScorer{})

	recorder := doRequest(t, srv, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	body := decodeBody(t, recorder)
	if body["success"] != true || body["status"] != "healthy" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestCreateJob(t *testing.T) {
	st := newStubStore()
	srv := newTestServer(st, &stubScorer{})

	payload := `{"title": "Go Developer", "description": "Backend services.", "must_have_skills": ["Go"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/job-descriptions", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	recorder := doRequest(t, srv, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	body := decodeBody(t, recorder)
	if body["job_id"] != "job-created" {
		t.Fatalf("unexpected job_id: %v", body["job_id"])
	}
	if _, ok := st.jobs["job-created"]; !ok {
		t.Fatalf("job was not stored")
	}
}

func TestCreateJobRejectsMissingTitle(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubScorer{})

	payload := `{"description": "Backend services."}`
	req := httptest.NewRequest(http.MethodPost, "/api/job-descriptions", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	recorder := doRequest(t, srv, req)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}

	body := decodeBody(t, recorder)
	if body["success"] != false {
		t.Fatalf("expected a failure envelope, got %v", body)
	}
}

func multipartUpload(t *testing.T, jobID, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("job_id", jobID); err != nil {
		t.Fatalf("write job_id field: %s", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %s", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write file content: %s", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %s", err)
	}

	return &buf, writer.FormDataContentType()
}

func TestUploadResumeScoresAndPersists(t *testing.T) {
	st := newStubStore()
	st.jobs["job-1"] = &screening.JobDescription{ID: "job-1", Title: "Go Developer", Company: "Acme", Description: "desc"}
	scorer := &stubScorer{report: sampleReport()}
	srv := newTestServer(st, scorer)

	body, contentType := multipartUpload(t, "job-1", "resume.txt", "Go developer with five years of experience.")
	req := httptest.NewRequest(http.MethodPost, "/api/upload-resume", body)
	req.Header.Set("Content-Type", contentType)

	recorder := doRequest(t, srv, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	response := decodeBody(t, recorder)
	if response["resume_id"] != "resume-created" {
		t.Fatalf("unexpected resume_id: %v", response["resume_id"])
	}
	if scorer.calls != 1 {
		t.Fatalf("expected 1 scoring call, got %d", scorer.calls)
	}
	if _, ok := st.reports["resume-created"]; !ok {
		t.Fatalf("report was not persisted")
	}

	stored := st.resumes["resume-created"]
	if stored == nil || stored.ExtractedText == "" {
		t.Fatalf("resume text was not stored: %+v", stored)
	}
}

func TestUploadResumeUnknownJob(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubScorer{report: sampleReport()})

	body, contentType := multipartUpload(t, "missing-job", "resume.txt", "some text")
	req := httptest.NewRequest(http.MethodPost, "/api/upload-resume", body)
	req.Header.Set("Content-Type", contentType)

	if recorder := doRequest(t, srv, req); recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestUploadResumeUnsupportedType(t *testing.T) {
	st := newStubStore()
	st.jobs["job-1"] = &screening.JobDescription{ID: "job-1", Title: "Dev", Description: "desc"}
	srv := newTestServer(st, &stubScorer{report: sampleReport()})

	body, contentType := multipartUpload(t, "job-1", "resume.exe", "binary")
	req := httptest.NewRequest(http.MethodPost, "/api/upload-resume", body)
	req.Header.Set("Content-Type", contentType)

	if recorder := doRequest(t, srv, req); recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestUploadResumeMissingJobID(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubScorer{})

	body, contentType := multipartUpload(t, "", "resume.txt", "text")
	req := httptest.NewRequest(http.MethodPost, "/api/upload-resume", body)
	req.Header.Set("Content-Type", contentType)

	if recorder := doRequest(t, srv, req); recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestUploadResumeEmptyDocument(t *testing.T) {
	st := newStubStore()
	st.jobs["job-1"] = &screening.JobDescription{ID: "job-1", Title: "Dev", Description: "desc"}
	srv := newTestServer(st, &stubScorer{report: sampleReport()})

	body, contentType := multipartUpload(t, "job-1", "resume.txt", "   \n  ")
	req := httptest.NewRequest(http.MethodPost, "/api/upload-resume", body)
	req.Header.Set("Content-Type", contentType)

	if recorder := doRequest(t, srv, req); recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", recorder.Code)
	}
}

func TestAnalyzeResumeReRunsScoring(t *testing.T) {
	st := newStubStore()
	st.jobs["job-1"] = &screening.JobDescription{ID: "job-1", Title: "Dev", Description: "desc"}
	st.resumes["resume-1"] = &store.Resume{ID: "resume-1", JobID: "job-1", ExtractedText: "resume text"}
	scorer := &stubScorer{report: sampleReport()}
	srv := newTestServer(st, scorer)

	recorder := doRequest(t, srv, httptest.NewRequest(http.MethodPost, "/api/analyze-resume/resume-1", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if scorer.calls != 1 {
		t.Fatalf("expected 1 scoring call, got %d", scorer.calls)
	}
	if _, ok := st.reports["resume-1"]; !ok {
		t.Fatalf("report was not persisted")
	}
}

func TestAnalyzeResumeNotFound(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubScorer{})

	recorder := doRequest(t, srv, httptest.NewRequest(http.MethodPost, "/api/analyze-resume/nope", nil))
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestAnalyzeResumeScorerFailure(t *testing.T) {
	st := newStubStore()
	st.jobs["job-1"] = &screening.JobDescription{ID: "job-1", Title: "Dev", Description: "desc"}
	st.resumes["resume-1"] = &store.Resume{ID: "resume-1", JobID: "job-1", ExtractedText: "resume text"}
	srv := newTestServer(st, &stubScorer{err: errors.New("boom")})

	recorder := doRequest(t, srv, httptest.NewRequest(http.MethodPost, "/api/analyze-resume/resume-1", nil))
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
}

func TestListResumesAppliesQueryFilters(t *testing.T) {
	st := newStubStore()
	st.candidates = []*store.Candidate{
		{Resume: store.Resume{ID: "r1", JobID: "job-a"}, Report: &screening.ScoreReport{RelevanceScore: 85, Verdict: screening.VerdictHigh}},
		{Resume: store.Resume{ID: "r2", JobID: "job-a"}, Report: &screening.ScoreReport{RelevanceScore: 40, Verdict: screening.VerdictLow}},
		{Resume: store.Resume{ID: "r3", JobID: "job-b"}, Report: &screening.ScoreReport{RelevanceScore: 90, Verdict: screening.VerdictHigh}},
	}
	srv := newTestServer(st, &stubScorer{})

	recorder := doRequest(t, srv, httptest.NewRequest(http.MethodGet, "/api/resumes?job_id=job-a&min_score=50", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	body := decodeBody(t, recorder)
	if body["count"] != float64(1) {
		t.Fatalf("expected 1 candidate, got %v", body["count"])
	}
}

func TestListResumesRejectsBadFilters(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubScorer{})

	recorder := doRequest(t, srv, httptest.NewRequest(http.MethodGet, "/api/resumes?verdict=Amazing", nil))
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestShortlistRoundTrip(t *testing.T) {
	st := newStubStore()
	st.resumes["resume-1"] = &store.Resume{ID: "resume-1", JobID: "job-1"}
	srv := newTestServer(st, &stubScorer{})

	recorder := doRequest(t, srv, httptest.NewRequest(http.MethodPost, "/api/shortlist-candidate/resume-1", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if !st.resumes["resume-1"].Shortlisted {
		t.Fatalf("resume was not shortlisted")
	}

	recorder = doRequest(t, srv, httptest.NewRequest(http.MethodPost, "/api/unshortlist-candidate/resume-1", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if st.resumes["resume-1"].Shortlisted {
		t.Fatalf("resume is still shortlisted")
	}
}

func TestShortlistUnknownResume(t *testing.T) {
	srv := newTestServer(newStubStore(), &stubScorer{})

	recorder := doRequest(t, srv, httptest.NewRequest(http.MethodPost, "/api/shortlist-candidate/nope", nil))
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestShortlistedCandidatesForcesShortlistFilter(t *testing.T) {
	st := newStubStore()
	st.candidates = []*store.Candidate{
		{Resume: store.Resume{ID: "r1", Shortlisted: true}, Report: sampleReport()},
		{Resume: store.Resume{ID: "r2"}, Report: sampleReport()},
	}
	srv := newTestServer(st, &stubScorer{})

	recorder := doRequest(t, srv, httptest.NewRequest(http.MethodGet, "/api/shortlisted-candidates", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	body := decodeBody(t, recorder)
	if body["count"] != float64(1) {
		t.Fatalf("expected 1 shortlisted candidate, got %v", body["count"])
	}
}

func TestExportReportsCSV(t *testing.T) {
	st := newStubStore()
	st.candidates = []*store.Candidate{
		{
			Resume:     store.Resume{ID: "r1", Filename: "a.pdf", Shortlisted: true},
			JobTitle:   "Go Developer",
			JobCompany: "Acme",
			Report:     sampleReport(),
		},
		{
			// Never analyzed: must be skipped.
			Resume: store.Resume{ID: "r2", Filename: "b.pdf"},
		},
	}
	srv := newTestServer(st, &stubScorer{})

	recorder := doRequest(t, srv, httptest.NewRequest(http.MethodGet, "/api/export-reports.csv", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if contentType := recorder.Header().Get("Content-Type"); !strings.HasPrefix(contentType, "text/csv") {
		t.Fatalf("unexpected content type: %q", contentType)
	}

	lines := strings.Split(strings.TrimSpace(recorder.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 record, got %d lines:\n%s", len(lines), recorder.Body.String())
	}
	if !strings.HasPrefix(lines[0], "resume_id,filename,job_title") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "r1,a.pdf,Go Developer,Acme,70,40,90,Medium,true") {
		t.Fatalf("unexpected record: %q", lines[1])
	}
}
