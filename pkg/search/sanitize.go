package search

import "strings"

const maxQueryLength = 100

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns user input into a lower-cased LIKE pattern that
// matches the input anywhere in a search_text column. The LIKE wildcards % and
// _ in the input are escaped, so callers must add ESCAPE '\' to the
// comparison. Empty input returns the empty string, meaning no filter should
// be applied.
func ContainsPattern(input string) string {
	input = strings.TrimSpace(input)
	if runes := []rune(input); len(runes) > maxQueryLength {
		input = string(runes[:maxQueryLength])
	}
	if input == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(strings.ToLower(input)) + "%"
}
