package valueobjects

import "strings"

// Hashtag handling: the assistant returns hashtags either as a raw
// string or as an array of tags, and the composer shows them as a
// single display string ("#sale #today"). Submission to the post API
// uses the same canonical form with duplicates removed.

// JoinHashtags flattens an array-form hashtag payload into one raw string
func JoinHashtags(tags []string) string {
	return strings.Join(tags, " ")
}

// FormatHashtagsForDisplay normalizes a raw hashtag string into the
// canonical display form: every token prefixed with '#', separated by
// single spaces. Empty input yields an empty string.
func FormatHashtagsForDisplay(raw string) string {
	tokens := splitHashtags(raw)
	if len(tokens) == 0 {
		return ""
	}
	return strings.Join(tokens, " ")
}

// FormatHashtagsForSubmission normalizes a display string for the post
// API: canonical form with duplicate tags removed, first occurrence wins
func FormatHashtagsForSubmission(raw string) string {
	tokens := splitHashtags(raw)
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		key := strings.ToLower(tok)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

// splitHashtags tokenizes on whitespace and commas and guarantees a
// single leading '#' per token
func splitHashtags(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == ','
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimLeft(f, "#")
		if f == "" {
			continue
		}
		tokens = append(tokens, "#"+f)
	}
	return tokens
}
