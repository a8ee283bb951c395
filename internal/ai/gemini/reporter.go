package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"github.com/fmohsen/cvbank/internal/ai"
	"google.golang.org/genai"
)

//go:embed report_prompt.md
var reportPromptTemplate string

const reportTemperature = float32(0.2)

// A response shorter than this carries no meaningful report content.
const minReportLength = 10

// GenerateReport issues one free-text generation request with the fixed
// evaluative template over an explicit selection. Fails closed on an empty
// job description or an empty selection.
func (g *Generator) GenerateReport(ctx context.Context, jobDescription string, candidates []ai.ReportCandidate) (string, error) {
	if strings.TrimSpace(jobDescription) == "" || len(candidates) == 0 {
		return "", errors.New("a job description and at least one selected resume are required to generate a report")
	}

	prompt := buildReportPrompt(jobDescription, candidates)
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(reportTemperature),
	}

	g.debugPayload("report request", prompt)

	raw, err := g.generate(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		msg := "generating report"
		if ai.IsRetriable(err) {
			msg += " (the AI service is temporarily overloaded, try again in a few moments)"
		}
		return "", fmt.Errorf("%s: %w", msg, err)
	}

	if len(strings.TrimSpace(raw)) <= minReportLength {
		return "", errors.New("report generation failed: the model returned an empty or invalid response")
	}

	g.debugPayload("report response", raw)

	return raw, nil
}

func buildReportPrompt(jobDescription string, candidates []ai.ReportCandidate) string {
	blocks := make([]string, 0, len(candidates))
	for _, c := range candidates {
		blocks = append(blocks, fmt.Sprintf("---\nCandidate Name: %s\nSkills: %s\nAI Summary: %s\n---",
			c.Name, strings.Join(c.Skills, ", "), c.Summary))
	}

	prompt := strings.ReplaceAll(reportPromptTemplate, "{{JOB_DESCRIPTION}}", jobDescription)
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATES}}", strings.Join(blocks, "\n\n"))
	return prompt
}
