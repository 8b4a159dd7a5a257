// Package xref inspects FROM and JOIN targets of a statement for
// cross-database references. It only reports: scanned statements are
// never rewritten here.
package xref

import (
	"regexp"
	"strings"

	"sql-qualify/internal/qualifier"
)

// Every JOIN variant (INNER, LEFT/RIGHT/FULL [OUTER], CROSS) ends in the
// bare JOIN keyword, so matching FROM and JOIN is sufficient.
var targetPattern = regexp.MustCompile(`(?i)\b(?:FROM|JOIN)\s+([A-Za-z0-9_$#.]+)`)

// Ref is one cross-database reference found in a statement
type Ref struct {
	Token    string // the identifier as written
	Database string // its database part, original casing
	NonProd  bool   // database is in the configured non-production set
}

// Scanner classifies FROM/JOIN targets against a target database and a set of
// non-production database names. Comparisons are case-insensitive.
type Scanner struct {
	database string
	nonProd  map[string]struct{}
}

func NewScanner(database string, nonProd []string) *Scanner {
	set := make(map[string]struct{}, len(nonProd))
	for _, name := range nonProd {
		set[strings.ToUpper(name)] = struct{}{}
	}
	return &Scanner{database: database, nonProd: set}
}

// Scan returns one Ref per FROM/JOIN target whose database part differs from
// the target database. Candidates without a database part are skipped, as are
// those matching the target database.
func (s *Scanner) Scan(text string) []Ref {
	var refs []Ref
	for _, m := range targetPattern.FindAllStringSubmatch(text, -1) {
		token := m[1]
		name, _ := qualifier.Split(token)
		if name.Database == "" || strings.EqualFold(name.Database, s.database) {
			continue
		}
		_, nonProd := s.nonProd[strings.ToUpper(name.Database)]
		refs = append(refs, Ref{Token: token, Database: name.Database, NonProd: nonProd})
	}
	return refs
}
