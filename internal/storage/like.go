package storage

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns term into an ILIKE pattern matching it as a literal
// substring. LIKE wildcards inside term are escaped with the default escape
// character.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
