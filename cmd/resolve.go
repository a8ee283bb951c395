package cmd

import (
	"fmt"
	"strings"

	"github.com/fmohsen/cvbank/internal/bank"

	"github.com/google/uuid"
)

// resolveResume finds a resume by full id or by a unique id prefix.
func resolveResume(b *bank.Bank, arg string) (*bank.Resume, error) {
	arg = strings.TrimSpace(strings.ToLower(arg))
	if arg == "" {
		return nil, fmt.Errorf("a resume id is required")
	}

	if id, err := uuid.Parse(arg); err == nil {
		if r := b.FindResume(id); r != nil {
			return r, nil
		}
		return nil, fmt.Errorf("resume %s not found", id)
	}

	var found *bank.Resume
	for _, r := range b.Resumes() {
		if strings.HasPrefix(r.ID.String(), arg) {
			if found != nil {
				return nil, fmt.Errorf("resume id prefix %q is ambiguous", arg)
			}
			found = r
		}
	}

	if found == nil {
		return nil, fmt.Errorf("no resume matches id %q", arg)
	}

	return found, nil
}

// resolveSelection parses a comma-separated list of resume ids or unique id
// prefixes. An empty list is an error.
func resolveSelection(b *bank.Bank, raw string) ([]*bank.Resume, error) {
	var out []*bank.Resume
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := resolveResume(b, part)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("at least one resume id is required")
	}

	return out, nil
}
