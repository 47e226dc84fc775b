package model

import (
	"fmt"
	"strings"
)

const maxUsernameLen = 64

// ValidationError reports caller input that must not reach the scoring engine.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NormalizeUsername trims and lower-cases a handle.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateUsername checks a handle after normalization.
func ValidateUsername(s string) error {
	u := NormalizeUsername(s)
	if u == "" {
		return &ValidationError{Field: "username", Reason: "username required"}
	}
	if len(u) > maxUsernameLen {
		return &ValidationError{Field: "username", Reason: fmt.Sprintf("longer than %d characters", maxUsernameLen)}
	}
	for _, r := range u {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return &ValidationError{Field: "username", Reason: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	return nil
}

// Validate rejects negative counts.
func (p ProblemCounts) Validate() error {
	for _, f := range []struct {
		name string
		v    int
	}{
		{"solved.all", p.All},
		{"solved.easy", p.Easy},
		{"solved.medium", p.Medium},
		{"solved.hard", p.Hard},
	} {
		if f.v < 0 {
			return &ValidationError{Field: f.name, Reason: "must not be negative"}
		}
	}
	return nil
}

// Validate rejects a tag without a slug or with a negative count.
func (t TagStat) Validate() error {
	if strings.TrimSpace(t.TagSlug) == "" {
		return &ValidationError{Field: "tagSlug", Reason: "must not be empty"}
	}
	if t.Solved < 0 {
		return &ValidationError{Field: "tags." + t.TagSlug + ".solved", Reason: "must not be negative"}
	}
	return nil
}

// ValidateTags validates every tag and rejects duplicate slugs.
func ValidateTags(tags []TagStat) error {
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if err := t.Validate(); err != nil {
			return err
		}
		if _, dup := seen[t.TagSlug]; dup {
			return &ValidationError{Field: "tagSlug", Reason: "duplicate " + t.TagSlug}
		}
		seen[t.TagSlug] = struct{}{}
	}
	return nil
}

// CleanTags returns the tags that pass Validate, keeping the first of any
// repeated slug, and how many were dropped. The input is not modified.
func CleanTags(tags []TagStat) ([]TagStat, int) {
	out := make([]TagStat, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t.Validate() != nil {
			continue
		}
		if _, dup := seen[t.TagSlug]; dup {
			continue
		}
		seen[t.TagSlug] = struct{}{}
		out = append(out, t)
	}
	return out, len(tags) - len(out)
}
