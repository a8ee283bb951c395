package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fmohsen/cvbank/internal/ai"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/genai"
)

var scoreSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"resumeId": {Type: genai.TypeString},
			"score":    {Type: genai.TypeNumber, Description: "Match score from 0 to 100 based on the job description."},
			"reason":   {Type: genai.TypeString, Description: "A brief, one-sentence justification for the score."},
		},
		Required: []string{"resumeId", "score", "reason"},
	},
}

const scorePromptTemplate = `Based on the following job description, score each candidate from 0 to 100 on their suitability. Provide a short reason for each score.

Job Description:
%s

Candidates:
%s
`

// ScoreCandidates issues one structured request covering the whole candidate
// set and returns the verdicts keyed by resume id. Fails closed: an empty
// job description or an empty candidate set is rejected before any remote
// call.
func (g *Generator) ScoreCandidates(ctx context.Context, jobDescription string, candidates []ai.Candidate) (map[string]ai.Score, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, errors.New("job description is required to calculate scores")
	}
	if len(candidates) == 0 {
		return nil, errors.New("no candidates to score")
	}

	payload, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidates: %w", err)
	}

	prompt := fmt.Sprintf(scorePromptTemplate, jobDescription, payload)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   scoreSchema,
	}

	g.debugPayload("scoring request", prompt)

	raw, err := g.generate(ctx, g.fastModel, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("calculating scores: %w", err)
	}

	g.debugPayload("scoring response", raw)

	return decodeScores(raw)
}

func decodeScores(raw string) (map[string]ai.Score, error) {
	cleaned := extractJSON(raw)

	var rows []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &rows); err != nil {
		return nil, fmt.Errorf("parse score response: %w", err)
	}

	scores := make(map[string]ai.Score, len(rows))
	for _, row := range rows {
		var s ai.Score
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(row); err != nil {
			return nil, fmt.Errorf("decode score row: %w", err)
		}
		if s.ResumeID == "" {
			continue
		}
		scores[s.ResumeID] = s
	}

	return scores, nil
}
