package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fmohsen/cvbank/internal/ai"
	"github.com/fmohsen/cvbank/internal/ingest"
)

func TestDecodeExtraction(t *testing.T) {
	raw := "```json\n" + `{
		"name": "Sara Ali",
		"age": "27",
		"governorate": "Cairo",
		"skills": ["Go", "SQL"],
		"aiSummary": "Backend engineer with five years of experience."
	}` + "\n```"

	extraction, err := decodeExtraction(raw)
	if err != nil {
		t.Fatalf("decodeExtraction returned error: %v", err)
	}

	if extraction.Name != "Sara Ali" {
		t.Errorf("name = %q", extraction.Name)
	}
	// Weak typing accepts a numeric string for the age.
	if extraction.Age != 27 {
		t.Errorf("age = %d, want 27", extraction.Age)
	}
	if len(extraction.Skills) != 2 || extraction.Skills[0] != "Go" {
		t.Errorf("skills = %v", extraction.Skills)
	}
}

func TestDecodeExtractionRequiresName(t *testing.T) {
	_, err := decodeExtraction(`{"skills": ["Go"], "aiSummary": "ok"}`)
	if err == nil {
		t.Fatal("expected an error for a missing candidate name")
	}
}

func TestDecodeExtractionRejectsInvalidJSON(t *testing.T) {
	_, err := decodeExtraction("not json at all")
	if err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestExtractResumeWrapsFailures(t *testing.T) {
	caller := &fakeContentCaller{responses: []fakeCallResponse{
		{err: errors.New("error 400: invalid argument")},
	}}
	g := newTestGenerator(caller, 4)

	doc := ingest.Document{Name: "cv.txt", Data: []byte("plain text resume")}

	_, err := g.ExtractResume(context.Background(), doc)
	if err == nil {
		t.Fatal("expected an error")
	}

	var analysisErr *ai.AnalysisError
	if !errors.As(err, &analysisErr) {
		t.Fatalf("expected an AnalysisError, got %T", err)
	}
	if analysisErr.FileName != "cv.txt" {
		t.Fatalf("filename = %q", analysisErr.FileName)
	}
}

func TestExtractResumeDecodesResponse(t *testing.T) {
	caller := &fakeContentCaller{responses: []fakeCallResponse{
		{resp: textResponse(`{"name": "Omar", "skills": ["Excel"], "aiSummary": "Accountant."}`)},
	}}
	g := newTestGenerator(caller, 4)

	doc := ingest.Document{Name: "cv.txt", Data: []byte("plain text resume")}

	extraction, err := g.ExtractResume(context.Background(), doc)
	if err != nil {
		t.Fatalf("ExtractResume returned error: %v", err)
	}
	if extraction.Name != "Omar" {
		t.Fatalf("name = %q", extraction.Name)
	}

	// Extraction runs on the fast model.
	if len(caller.models) != 1 || caller.models[0] != defaultFastModel {
		t.Fatalf("models called: %v", caller.models)
	}
}

func TestPdfTextRejectsEmptyDocuments(t *testing.T) {
	_, err := pdfText([]byte("not a pdf"))
	if err == nil {
		t.Fatal("expected an error for invalid pdf data")
	}
	if strings.Contains(err.Error(), "no extractable text") {
		t.Fatalf("expected a read error, got %v", err)
	}
}
