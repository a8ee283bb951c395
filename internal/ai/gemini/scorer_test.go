package gemini

import (
	"context"
	"testing"

	"github.com/fmohsen/cvbank/internal/ai"
)

func TestDecodeScores(t *testing.T) {
	raw := "```json\n" + `[
		{"resumeId": "a1", "score": 85, "reason": "Strong skill overlap."},
		{"resumeId": "b2", "score": "40", "reason": "Missing core skills."},
		{"score": 10, "reason": "No id, dropped."}
	]` + "\n```"

	scores, err := decodeScores(raw)
	if err != nil {
		t.Fatalf("decodeScores returned error: %v", err)
	}

	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	if scores["a1"].Score != 85 {
		t.Errorf("a1 score = %d", scores["a1"].Score)
	}
	// Weak typing accepts a numeric string for the score.
	if scores["b2"].Score != 40 {
		t.Errorf("b2 score = %d", scores["b2"].Score)
	}
	if scores["b2"].Reason != "Missing core skills." {
		t.Errorf("b2 reason = %q", scores["b2"].Reason)
	}
}

func TestDecodeScoresRejectsInvalidJSON(t *testing.T) {
	_, err := decodeScores("oops")
	if err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestScoreCandidatesFailsClosed(t *testing.T) {
	g := newTestGenerator(&fakeContentCaller{}, 4)

	if _, err := g.ScoreCandidates(context.Background(), "", []ai.Candidate{{ID: "a"}}); err == nil {
		t.Fatal("expected an error for an empty job description")
	}
	if _, err := g.ScoreCandidates(context.Background(), "backend engineer", nil); err == nil {
		t.Fatal("expected an error for an empty candidate set")
	}
}

func TestScoreCandidatesUsesFastModel(t *testing.T) {
	caller := &fakeContentCaller{responses: []fakeCallResponse{
		{resp: textResponse(`[{"resumeId": "a1", "score": 70, "reason": "ok"}]`)},
	}}
	g := newTestGenerator(caller, 4)

	scores, err := g.ScoreCandidates(context.Background(), "backend engineer", []ai.Candidate{
		{ID: "a1", Summary: "Go developer", Skills: []string{"Go"}},
	})
	if err != nil {
		t.Fatalf("ScoreCandidates returned error: %v", err)
	}
	if scores["a1"].Score != 70 {
		t.Fatalf("score = %d", scores["a1"].Score)
	}
	if len(caller.models) != 1 || caller.models[0] != defaultFastModel {
		t.Fatalf("models called: %v", caller.models)
	}
}
