package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"ocena/internal/db"
	"ocena/internal/dimensions"
	"ocena/internal/grading"
	"ocena/internal/ingest"
	"ocena/internal/quality"
	"ocena/internal/textstats"
)

const maxMultipartMemory = 32 << 20

// SubmissionResult is one file of a grading response.
type SubmissionResult struct {
	ID                int64                     `json:"id,omitempty"`
	FileName          string                    `json:"fileName"`
	WordCount         int                       `json:"wordCount"`
	Score             int                       `json:"score"`
	Confidence        int                       `json:"confidence"`
	Feedback          string                    `json:"feedback"`
	DimensionalScores *dimensions.Scores        `json:"dimensionalScores,omitempty"`
	WritingQuality    *quality.WritingQuality   `json:"writingQuality,omitempty"`
	WordCountDetails  *textstats.WordCountStats `json:"wordCountDetails,omitempty"`
	ScoreParsed       bool                      `json:"scoreParsed"`
	Source            grading.Source            `json:"source,omitempty"`
	Diagnostic        string                    `json:"diagnostic,omitempty"`
	Error             string                    `json:"error,omitempty"`
}

type GradeResponse struct {
	Success     bool               `json:"success"`
	Submissions []SubmissionResult `json:"submissions"`
	Error       string             `json:"error,omitempty"`
}

func (s *Server) grade(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, GradeResponse{
			Submissions: []SubmissionResult{},
			Error:       "Invalid upload: " + err.Error(),
		})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := slices.Concat(r.MultipartForm.File["files"], r.MultipartForm.File["files[]"])
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, GradeResponse{
			Submissions: []SubmissionResult{},
			Error:       "No files were uploaded.",
		})
		return
	}

	results := make([]SubmissionResult, len(headers))
	var (
		texts   []string
		pending []int
	)
	for i, hdr := range headers {
		results[i].FileName = hdr.Filename
		text, err := s.accept(r, hdr)
		if err != nil {
			results[i].Error = err.Error()
			s.logger.Info("upload rejected", "file", hdr.Filename, "reason", err)
			continue
		}
		texts = append(texts, text)
		pending = append(pending, i)
	}

	start := time.Now()
	graded := s.grader.GradeBatch(r.Context(), texts)
	elapsed := time.Since(start)
	for j, res := range graded {
		i := pending[j]
		fill(&results[i], res)
		s.logger.Info("submission graded",
			"file", results[i].FileName,
			"size", humanize.IBytes(uint64(headers[i].Size)),
			"words", res.WordCount,
			"score", res.Score,
			"source", res.Source,
			"elapsed", elapsed,
		)
		id, err := s.store.SaveSubmission(r.Context(), db.Submission{
			FileName:   results[i].FileName,
			WordCount:  res.WordCount,
			Score:      res.Score,
			Confidence: float64(res.Confidence),
			Feedback:   res.FeedbackHTML,
			Source:     string(res.Source),
			Diagnostic: res.Error,
			Timestamp:  s.now(),
		})
		if err != nil {
			s.logger.Error("save submission failed", "file", results[i].FileName, "error", err)
			continue
		}
		results[i].ID = id
	}

	resp := GradeResponse{Submissions: results}
	for _, res := range results {
		if res.Error == "" {
			resp.Success = true
			break
		}
	}
	if !resp.Success {
		resp.Error = "No submissions could be graded."
	}
	writeJSON(w, http.StatusOK, resp)
}

// accept validates one upload, archives it and returns its text. The error
// text is shown to the user as is.
func (s *Server) accept(r *http.Request, hdr *multipart.FileHeader) (string, error) {
	if s.limits.MaxFileSize > 0 && hdr.Size > s.limits.MaxFileSize {
		return "", fmt.Errorf("File is too large. Maximum size is %s.", humanize.IBytes(uint64(s.limits.MaxFileSize)))
	}
	ext := ingest.Ext(hdr.Filename)
	if len(s.limits.AllowedExtensions) > 0 && !slices.Contains(s.limits.AllowedExtensions, ext) {
		return "", fmt.Errorf("Invalid file type. Allowed types: %s", strings.Join(s.limits.AllowedExtensions, ", "))
	}

	data, err := readUpload(hdr)
	if err != nil {
		s.logger.Error("read upload failed", "file", hdr.Filename, "error", err)
		return "", errors.New("Failed to read the file.")
	}

	if s.archive != nil {
		stored, err := s.archive.Store(r.Context(), hdr.Filename, data)
		if err != nil {
			s.logger.Error("archive upload failed", "file", hdr.Filename, "error", err)
			return "", errors.New("Failed to save the file.")
		}
		s.logger.Debug("upload archived", "file", hdr.Filename, "stored", stored, "size", humanize.IBytes(uint64(len(data))))
	}

	text, err := ingest.NewDocument(hdr.Filename, data).Text()
	if err != nil {
		return "", fmt.Errorf("Error processing file: %v", err)
	}
	return text, nil
}

func readUpload(hdr *multipart.FileHeader) ([]byte, error) {
	f, err := hdr.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func fill(out *SubmissionResult, res grading.Result) {
	out.WordCount = res.WordCount
	out.Score = res.Score
	out.Confidence = res.Confidence
	out.Feedback = res.FeedbackHTML
	out.DimensionalScores = &res.DimensionalScores
	out.WritingQuality = &res.WritingQuality
	out.WordCountDetails = &res.WordCountDetails
	out.ScoreParsed = res.ScoreParsed
	out.Source = res.Source
	out.Diagnostic = res.Error
}
