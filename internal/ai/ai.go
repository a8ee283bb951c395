// Package ai defines the provider-neutral contracts for resume extraction,
// candidate scoring, and report generation.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/fmohsen/cvbank/internal/ingest"
)

// Extraction is the structured result of analyzing one resume document.
type Extraction struct {
	Name        string   `json:"name" mapstructure:"name"`
	Age         int      `json:"age,omitempty" mapstructure:"age"`
	Governorate string   `json:"governorate,omitempty" mapstructure:"governorate"`
	Email       string   `json:"email,omitempty" mapstructure:"email"`
	Phone       string   `json:"phone,omitempty" mapstructure:"phone"`
	AppliedFor  string   `json:"appliedFor,omitempty" mapstructure:"appliedFor"`
	Skills      []string `json:"skills" mapstructure:"skills"`
	AISummary   string   `json:"aiSummary" mapstructure:"aiSummary"`
}

// Candidate is the scoring input for one resume.
type Candidate struct {
	ID      string   `json:"id"`
	Summary string   `json:"summary"`
	Skills  []string `json:"skills"`
}

// Score is one suitability verdict keyed back to a resume.
type Score struct {
	ResumeID string `mapstructure:"resumeId"`
	Score    int    `mapstructure:"score"`
	Reason   string `mapstructure:"reason"`
}

// ReportCandidate is the report input for one selected resume.
type ReportCandidate struct {
	Name    string
	Summary string
	Skills  []string
}

type Extractor interface {
	ExtractResume(ctx context.Context, doc ingest.Document) (*Extraction, error)
}

type Scorer interface {
	ScoreCandidates(ctx context.Context, jobDescription string, candidates []Candidate) (map[string]Score, error)
}

type Reporter interface {
	GenerateReport(ctx context.Context, jobDescription string, candidates []ReportCandidate) (string, error)
}

// IsRetriable classifies an error as transient by its message: rate
// limiting, service overload, or temporary unavailability.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	lower := strings.ToLower(msg)
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "503") ||
		strings.Contains(lower, "resource_exhausted") ||
		strings.Contains(lower, "overloaded")
}

// AnalysisError marks a failed resume analysis with the offending filename.
type AnalysisError struct {
	FileName string
	Err      error
}

func (e *AnalysisError) Error() string {
	msg := fmt.Sprintf("analyzing %s: %v", e.FileName, e.Err)
	if IsRetriable(e.Err) {
		msg += " (the AI service is temporarily overloaded, try again in a few moments)"
	}
	return msg
}

func (e *AnalysisError) Unwrap() error { return e.Err }
