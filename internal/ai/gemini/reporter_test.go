package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fmohsen/cvbank/internal/ai"
)

func TestBuildReportPrompt(t *testing.T) {
	prompt := buildReportPrompt("Senior Go engineer", []ai.ReportCandidate{
		{Name: "Sara", Summary: "Backend engineer.", Skills: []string{"Go", "SQL"}},
		{Name: "Omar", Summary: "Accountant.", Skills: []string{"Excel"}},
	})

	if strings.Contains(prompt, "{{JOB_DESCRIPTION}}") || strings.Contains(prompt, "{{CANDIDATES}}") {
		t.Fatal("placeholders were not substituted")
	}
	if !strings.Contains(prompt, "Senior Go engineer") {
		t.Error("job description missing from prompt")
	}
	if !strings.Contains(prompt, "Candidate Name: Sara") {
		t.Error("first candidate missing from prompt")
	}
	if !strings.Contains(prompt, "Skills: Go, SQL") {
		t.Error("skills missing from prompt")
	}
}

func TestGenerateReportFailsClosed(t *testing.T) {
	g := newTestGenerator(&fakeContentCaller{}, 4)

	if _, err := g.GenerateReport(context.Background(), "", []ai.ReportCandidate{{Name: "a"}}); err == nil {
		t.Fatal("expected an error for an empty job description")
	}
	if _, err := g.GenerateReport(context.Background(), "engineer", nil); err == nil {
		t.Fatal("expected an error for an empty selection")
	}
}

func TestGenerateReportRejectsShortResponses(t *testing.T) {
	caller := &fakeContentCaller{responses: []fakeCallResponse{
		{resp: textResponse("ok")},
	}}
	g := newTestGenerator(caller, 4)

	_, err := g.GenerateReport(context.Background(), "engineer", []ai.ReportCandidate{{Name: "a"}})
	if err == nil {
		t.Fatal("expected an error for a trivial response")
	}
}

func TestGenerateReportAddsOverloadHint(t *testing.T) {
	stubBackoff(t)

	caller := &fakeContentCaller{responses: []fakeCallResponse{
		{err: errors.New("error 503: overloaded")},
		{err: errors.New("error 503: overloaded")},
	}}
	g := newTestGenerator(caller, 2)

	_, err := g.GenerateReport(context.Background(), "engineer", []ai.ReportCandidate{{Name: "a"}})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "temporarily overloaded") {
		t.Fatalf("expected an overload hint in %q", err.Error())
	}
}

func TestGenerateReportUsesMainModel(t *testing.T) {
	report := strings.Repeat("A detailed candidate analysis. ", 4)
	caller := &fakeContentCaller{responses: []fakeCallResponse{
		{resp: textResponse(report)},
	}}
	g := newTestGenerator(caller, 4)

	got, err := g.GenerateReport(context.Background(), "engineer", []ai.ReportCandidate{{Name: "a"}})
	if err != nil {
		t.Fatalf("GenerateReport returned error: %v", err)
	}
	if got == "" {
		t.Fatal("expected report text")
	}
	if len(caller.models) != 1 || caller.models[0] != defaultModel {
		t.Fatalf("models called: %v", caller.models)
	}
}
