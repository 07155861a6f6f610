// Package moderation implements lexical denylist filtering for chat text.
package moderation

import (
	"regexp"
	"strings"
)

const DefaultMask = "***"

// DefaultBadwords seeds the filter when the config carries no list.
func DefaultBadwords() []string {
	return []string{"damn", "hell", "crap", "sucks"}
}

// Filter matches denylist terms as whole words, case-insensitively. Substring
// hits inside larger words do not count ("class" never matches "ass"). The
// filter holds no state and is safe to share across rooms.
type Filter struct {
	pattern *regexp.Regexp
	mask    string
}

func NewFilter(badwords []string, mask string) *Filter {
	if len(badwords) == 0 {
		badwords = DefaultBadwords()
	}
	if mask == "" {
		mask = DefaultMask
	}
	quoted := make([]string, 0, len(badwords))
	for _, w := range badwords {
		w = strings.TrimSpace(w)
		if w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	return &Filter{
		pattern: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
		mask:    mask,
	}
}

func (f *Filter) IsClean(text string) bool {
	return !f.pattern.MatchString(text)
}

// Violations lists the distinct denylist terms found, lowercased.
func (f *Filter) Violations(text string) []string {
	matches := f.pattern.FindAllString(text, -1)
	if matches == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		m = strings.ToLower(m)
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

// Redact replaces matches with the mask. Live chat rejects dirty messages
// outright; this mode exists for display contexts that prefer masking.
func (f *Filter) Redact(text string) string {
	return f.pattern.ReplaceAllString(text, f.mask)
}
