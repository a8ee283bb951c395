package cmd

import (
	"testing"

	"github.com/fmohsen/cvbank/internal/bank"

	"github.com/google/uuid"
)

func testBankWith(resumes ...*bank.Resume) *bank.Bank {
	b := bank.New()
	for _, r := range resumes {
		b.AppendResume(r)
	}
	return b
}

func TestResolveResumeByFullID(t *testing.T) {
	r := &bank.Resume{ID: uuid.New(), Name: "a"}
	b := testBankWith(r)

	got, err := resolveResume(b, r.ID.String())
	if err != nil {
		t.Fatalf("resolveResume returned error: %v", err)
	}
	if got != r {
		t.Fatal("expected the matching resume")
	}
}

func TestResolveResumeByUniquePrefix(t *testing.T) {
	r1 := &bank.Resume{ID: uuid.MustParse("11111111-0000-0000-0000-000000000000"), Name: "a"}
	r2 := &bank.Resume{ID: uuid.MustParse("22222222-0000-0000-0000-000000000000"), Name: "b"}
	b := testBankWith(r1, r2)

	got, err := resolveResume(b, "2222")
	if err != nil {
		t.Fatalf("resolveResume returned error: %v", err)
	}
	if got != r2 {
		t.Fatal("expected the prefix to resolve to the second resume")
	}
}

func TestResolveResumeRejectsAmbiguousPrefix(t *testing.T) {
	r1 := &bank.Resume{ID: uuid.MustParse("33333333-0000-0000-0000-000000000000"), Name: "a"}
	r2 := &bank.Resume{ID: uuid.MustParse("33333333-1111-0000-0000-000000000000"), Name: "b"}
	b := testBankWith(r1, r2)

	if _, err := resolveResume(b, "3333"); err == nil {
		t.Fatal("expected an error for an ambiguous prefix")
	}
}

func TestResolveResumeUnknown(t *testing.T) {
	b := testBankWith(&bank.Resume{ID: uuid.New(), Name: "a"})

	if _, err := resolveResume(b, uuid.New().String()); err == nil {
		t.Fatal("expected an error for an unknown id")
	}
	if _, err := resolveResume(b, "zz"); err == nil {
		t.Fatal("expected an error for a prefix with no match")
	}
}

func TestResolveSelection(t *testing.T) {
	r1 := &bank.Resume{ID: uuid.MustParse("44444444-0000-0000-0000-000000000000"), Name: "a"}
	r2 := &bank.Resume{ID: uuid.MustParse("55555555-0000-0000-0000-000000000000"), Name: "b"}
	b := testBankWith(r1, r2)

	got, err := resolveSelection(b, " 4444 , 5555 ")
	if err != nil {
		t.Fatalf("resolveSelection returned error: %v", err)
	}
	if len(got) != 2 || got[0] != r1 || got[1] != r2 {
		t.Fatalf("unexpected selection of %d resumes", len(got))
	}
}

func TestResolveSelectionFailsClosedOnEmptyList(t *testing.T) {
	b := testBankWith(&bank.Resume{ID: uuid.New(), Name: "a"})

	for _, raw := range []string{"", "   ", ", ,"} {
		if _, err := resolveSelection(b, raw); err == nil {
			t.Fatalf("expected an error for selection %q", raw)
		}
	}
}

func TestResolveSelectionPropagatesUnknownIDs(t *testing.T) {
	b := testBankWith(&bank.Resume{ID: uuid.MustParse("66666666-0000-0000-0000-000000000000"), Name: "a"})

	if _, err := resolveSelection(b, "6666,9999"); err == nil {
		t.Fatal("expected an error for the unknown id in the list")
	}
}
