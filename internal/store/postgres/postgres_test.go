package postgres

import (
	"errors"
	"strings"
	"testing"

	"github.com/lib/pq"
)

func TestClassifyPolicyRejection(t *testing.T) {
	cause := &pq.Error{Code: pq.ErrorCode(insufficientPrivilege)}

	err := classify("resumes", cause)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "security policy") {
		t.Fatalf("expected a policy diagnostic, got %v", err)
	}
	if !strings.Contains(err.Error(), "resumes") {
		t.Fatalf("expected the table name, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected the cause to be wrapped")
	}
}

func TestClassifyPassesOtherErrorsThrough(t *testing.T) {
	cause := errors.New("connection refused")

	err := classify("folders", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected the cause to be wrapped")
	}
	if strings.Contains(err.Error(), "security policy") {
		t.Fatalf("unexpected policy diagnostic: %v", err)
	}
}

func TestClassifyNil(t *testing.T) {
	if err := classify("comments", nil); err != nil {
		t.Fatalf("classify(nil) = %v", err)
	}
}

func TestNullHelpers(t *testing.T) {
	if nullString("") != nil {
		t.Error("empty string should map to NULL")
	}
	if nullString("x") != "x" {
		t.Error("non-empty string should pass through")
	}

	if nullInt(nil) != nil {
		t.Error("nil int should map to NULL")
	}
	v := 7
	if nullInt(&v) != 7 {
		t.Error("int should pass through")
	}

	if nullUUID(nil) != nil {
		t.Error("nil uuid should map to NULL")
	}
}
