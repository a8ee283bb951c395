package storage

import (
	"strings"
	"testing"

	"github.com/aws/smithy-go"
)

func TestKeyFromURLRoundTripsOwnURLs(t *testing.T) {
	// Bases with and without the bucket in the path must both round-trip.
	bases := []string{
		"https://pub-abc123.r2.dev",
		"https://files.example.com/resumes",
		"https://s3.amazonaws.com/resumes",
	}

	for _, base := range bases {
		s := &Store{bucket: "resumes", publicBase: base}

		key := "u1/1700000000000-cv.pdf"
		if got := s.KeyFromURL(s.PublicURL(key)); got != key {
			t.Errorf("base %q: round trip = %q, want %q", base, got, key)
		}
	}
}

func TestKeyFromURLForeignURLs(t *testing.T) {
	s := &Store{bucket: "resumes", publicBase: "https://pub-abc123.r2.dev"}

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			"foreign base with bucket segment",
			"https://files.example.com/resumes/u1/cv.pdf",
			"u1/cv.pdf",
		},
		{
			"bucket name repeated in key",
			"https://files.example.com/resumes/resumes/cv.pdf",
			"cv.pdf",
		},
		{
			"no base and no bucket segment",
			"https://files.example.com/other/cv.pdf",
			"",
		},
		{
			"bare base",
			"https://pub-abc123.r2.dev/",
			"",
		},
		{
			"empty url",
			"",
			"",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.KeyFromURL(tc.url); got != tc.want {
				t.Fatalf("KeyFromURL(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(&smithy.GenericAPIError{Code: "NoSuchKey"}) {
		t.Error("NoSuchKey should count as not found")
	}
	if !isNotFound(&smithy.GenericAPIError{Code: "NotFound"}) {
		t.Error("NotFound should count as not found")
	}
	if isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}) {
		t.Error("AccessDenied is not a missing object")
	}
}

func TestClassifyNamesActionableFailures(t *testing.T) {
	s := &Store{bucket: "resumes"}

	err := s.classify(&smithy.GenericAPIError{Code: "NoSuchBucket"})
	if err == nil || !strings.Contains(err.Error(), `bucket "resumes" not found`) {
		t.Fatalf("unexpected NoSuchBucket message: %v", err)
	}

	err = s.classify(&smithy.GenericAPIError{Code: "AccessDenied"})
	if err == nil || !strings.Contains(err.Error(), "storage policy") {
		t.Fatalf("unexpected AccessDenied message: %v", err)
	}
}
