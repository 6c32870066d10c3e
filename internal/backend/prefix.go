package backend

import "strings"

// EscapeLike escapes LIKE metacharacters so a user-supplied prefix matches
// literally. The escape character is backslash.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// HasPrefixFold reports whether name starts with prefix, ignoring case.
func HasPrefixFold(name, prefix string) bool {
	if len(prefix) > len(name) {
		return false
	}
	return strings.EqualFold(name[:len(prefix)], prefix)
}
