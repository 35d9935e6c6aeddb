package lower

import (
	"strings"
	"unicode"
)

// reservedWords are target-language words that cannot be variable names.
var reservedWords = map[string]bool{
	"do": true, "end": true, "fn": true, "when": true, "and": true,
	"or": true, "not": true, "in": true, "rescue": true, "catch": true,
	"after": true, "else": true, "true": true, "false": true, "nil": true,
}

// DefaultRename maps a source identifier to a target-valid one:
// camelCase becomes snake_case and reserved words get a trailing
// underscore. It is the default for the externally-supplied naming
// callback.
func DefaultRename(name string) string {
	if name == "" {
		return name
	}
	var sb strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	out := sb.String()
	if reservedWords[out] {
		out += "_"
	}
	return out
}
