package bank

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ScopeKind selects the candidate subset before filters apply.
type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopeFavorites
	ScopeUnassigned
	ScopeFolder
)

type Scope struct {
	Kind     ScopeKind
	FolderID uuid.UUID
}

// Filters are all optional and combined with logical AND.
type Filters struct {
	// Job matches appliedFor as a substring, or exactly when JobExact is set.
	Job      string
	JobExact bool
	// Governorate is a case-insensitive substring match.
	Governorate string
	// Age is either an exact integer or an inclusive "min-max" range.
	Age string
	// Skills is a comma-separated list of required skill fragments.
	Skills string
}

func (f Filters) IsZero() bool {
	return f.Job == "" && f.Governorate == "" && strings.TrimSpace(f.Age) == "" && strings.TrimSpace(f.Skills) == ""
}

type SortKey string

const (
	SortName        SortKey = "name"
	SortAge         SortKey = "age"
	SortGovernorate SortKey = "governorate"
	SortSkills      SortKey = "skills"
	SortFavorites   SortKey = "favorites"
	SortScore       SortKey = "score"
)

var sortKeys = map[string]SortKey{
	string(SortName):        SortName,
	string(SortAge):         SortAge,
	string(SortGovernorate): SortGovernorate,
	string(SortSkills):      SortSkills,
	string(SortFavorites):   SortFavorites,
	string(SortScore):       SortScore,
}

// ParseSortKey validates a user-supplied sort key name.
func ParseSortKey(name string) (SortKey, bool) {
	key, ok := sortKeys[strings.ToLower(strings.TrimSpace(name))]
	return key, ok
}

// Visible derives the ordered list the user sees.  Pure with respect to the
// mirror: scope subset, then filters, then sort.  Favorites-first and
// score sorts are fixed orders regardless of the descending flag; score
// treats unscored resumes as -1 so they always land last.
func (b *Bank) Visible(scope Scope, filters Filters, key SortKey, descending bool) []*Resume {
	var out []*Resume
	for _, r := range b.resumes {
		if !inScope(r, scope) {
			continue
		}
		if !b.matches(r, filters) {
			continue
		}
		out = append(out, r)
	}

	coll := collate.New(language.Und, collate.IgnoreCase)

	sort.SliceStable(out, func(i, j int) bool {
		a, bb := out[i], out[j]

		switch key {
		case SortScore:
			return b.scoreOf(a.ID) > b.scoreOf(bb.ID)
		case SortFavorites:
			return boolVal(a.Favorited) > boolVal(bb.Favorited)
		case SortAge:
			return lessOptionalInt(a.Age, bb.Age, descending)
		}

		va, vb := sortString(a, key), sortString(bb, key)

		// Missing values sort last independent of direction.
		if va == "" || vb == "" {
			return va != "" && vb == ""
		}

		cmp := coll.CompareString(va, vb)
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})

	return out
}

func (b *Bank) scoreOf(id uuid.UUID) int {
	if s, ok := b.scores[id]; ok {
		return s.Score
	}
	return -1
}

func inScope(r *Resume, scope Scope) bool {
	switch scope.Kind {
	case ScopeFavorites:
		return r.Favorited
	case ScopeUnassigned:
		return r.FolderID == nil
	case ScopeFolder:
		return r.FolderID != nil && *r.FolderID == scope.FolderID
	default:
		return true
	}
}

func (b *Bank) matches(r *Resume, f Filters) bool {
	if f.Job != "" {
		if r.AppliedFor == "" {
			return false
		}
		applied := strings.ToLower(r.AppliedFor)
		want := strings.ToLower(f.Job)
		if f.JobExact {
			if applied != want {
				return false
			}
		} else if !strings.Contains(applied, want) {
			return false
		}
	}

	if f.Governorate != "" {
		if r.Governorate == "" || !strings.Contains(strings.ToLower(r.Governorate), strings.ToLower(f.Governorate)) {
			return false
		}
	}

	if !matchesAge(r.Age, f.Age) {
		return false
	}

	return matchesSkills(r.Skills, f.Skills)
}

// matchesAge accepts an exact integer or an inclusive "min-max" range. A
// resume with no recorded age never matches a non-empty filter; an
// unparseable filter matches nothing.
func matchesAge(age *int, filter string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return true
	}
	if age == nil {
		return false
	}

	if min, max, ok := strings.Cut(filter, "-"); ok {
		lo, errLo := strconv.Atoi(strings.TrimSpace(min))
		hi, errHi := strconv.Atoi(strings.TrimSpace(max))
		if errLo != nil || errHi != nil {
			return false
		}
		return *age >= lo && *age <= hi
	}

	exact, err := strconv.Atoi(filter)
	if err != nil {
		return false
	}
	return *age == exact
}

// matchesSkills requires every comma-separated fragment to be a
// case-insensitive substring of at least one candidate skill.
func matchesSkills(skills []string, filter string) bool {
	var required []string
	for _, part := range strings.Split(filter, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			required = append(required, part)
		}
	}
	if len(required) == 0 {
		return true
	}
	if len(skills) == 0 {
		return false
	}

	for _, req := range required {
		found := false
		for _, skill := range skills {
			if strings.Contains(strings.ToLower(skill), req) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortString(r *Resume, key SortKey) string {
	switch key {
	case SortGovernorate:
		return r.Governorate
	case SortSkills:
		return strings.Join(r.Skills, ", ")
	default:
		return r.Name
	}
}

func lessOptionalInt(a, b *int, descending bool) bool {
	if a == nil || b == nil {
		return a != nil && b == nil
	}
	if descending {
		return *a > *b
	}
	return *a < *b
}

func boolVal(b bool) int {
	if b {
		return 1
	}
	return 0
}
