package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fmohsen/cvbank/internal/ai"
	"github.com/fmohsen/cvbank/internal/ingest"
	"github.com/ledongthuc/pdf"
	"github.com/mitchellh/mapstructure"
	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const analysisPrompt = "Analyze this resume and extract the following information. Respond in English."

var resumeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":        {Type: genai.TypeString, Description: "Candidate's full name"},
		"age":         {Type: genai.TypeNumber, Description: "Candidate's age"},
		"governorate": {Type: genai.TypeString, Description: "The governorate or city where the candidate resides"},
		"email":       {Type: genai.TypeString, Description: "Candidate's email address"},
		"phone":       {Type: genai.TypeString, Description: "Candidate's phone number"},
		"appliedFor":  {Type: genai.TypeString, Description: "The job position applied for, if mentioned"},
		"skills": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "A list of key skills",
		},
		"aiSummary": {
			Type:        genai.TypeString,
			Description: "A comprehensive 3-4 sentence summary report of the CV, highlighting key skills, total years of experience, and their strongest qualifications.",
		},
	},
	Required: []string{"name", "skills", "aiSummary"},
}

// ExtractResume runs a structured extraction over one document. All
// failures come back as an AnalysisError carrying the filename; the error
// text gains an overload hint when the cause is transient.
func (g *Generator) ExtractResume(ctx context.Context, doc ingest.Document) (*ai.Extraction, error) {
	parts, err := documentParts(doc)
	if err != nil {
		return nil, &ai.AnalysisError{FileName: doc.Name, Err: err}
	}
	parts = append(parts, genai.NewPartFromText(analysisPrompt))

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   resumeSchema,
	}

	g.debugPayload("resume extraction request", doc.Name, zap.String("file", doc.Name))

	raw, err := g.generate(ctx, g.fastModel, contents, config)
	if err != nil {
		return nil, &ai.AnalysisError{FileName: doc.Name, Err: err}
	}

	g.debugPayload("resume extraction response", raw, zap.String("file", doc.Name))

	extraction, err := decodeExtraction(raw)
	if err != nil {
		return nil, &ai.AnalysisError{FileName: doc.Name, Err: err}
	}

	return extraction, nil
}

// documentParts converts a document into the transport parts the service
// expects: extracted text for pdf and docx, inline bytes with the MIME type
// for everything else.
func documentParts(doc ingest.Document) ([]*genai.Part, error) {
	switch doc.Extension() {
	case ".pdf":
		text, err := pdfText(doc.Data)
		if err != nil {
			return nil, err
		}
		return []*genai.Part{genai.NewPartFromText(text)}, nil
	case ".docx":
		text, err := docxText(doc.Data)
		if err != nil {
			return nil, err
		}
		return []*genai.Part{genai.NewPartFromText(text)}, nil
	default:
		return []*genai.Part{genai.NewPartFromBytes(doc.Data, doc.MIMEType())}, nil
	}
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		builder.WriteString(text)
	}

	if strings.TrimSpace(builder.String()) == "" {
		return "", fmt.Errorf("pdf contains no extractable text")
	}

	return builder.String(), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}

func decodeExtraction(raw string) (*ai.Extraction, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse extraction response: %w", err)
	}

	var extraction ai.Extraction
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &extraction,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}

	if strings.TrimSpace(extraction.Name) == "" {
		return nil, fmt.Errorf("extraction returned no candidate name")
	}

	return &extraction, nil
}
