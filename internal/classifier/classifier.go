// Package classifier recognizes SQL statement kinds by literal keyword
// matching. There is no grammar here: statements are flattened to a single
// whitespace-collapsed line with -- comments stripped, then tested against an
// ordered prefix rule list.
package classifier

import (
	"strings"
)

// Kind identifies a recognized statement form
type Kind string

const (
	KindUnknown             Kind = ""
	KindCreateTable         Kind = "CREATE TABLE"
	KindCreateView          Kind = "CREATE VIEW"
	KindCreateOrReplaceView Kind = "CREATE OR REPLACE VIEW"
	KindCreateIndex         Kind = "CREATE INDEX"
	KindCreateUniqueIndex   Kind = "CREATE UNIQUE INDEX"
	KindCreateProcedure     Kind = "CREATE PROCEDURE"
	KindCreateFunction      Kind = "CREATE FUNCTION"
	KindDropTable           Kind = "DROP TABLE"
	KindDropView            Kind = "DROP VIEW"
	KindDropIndex           Kind = "DROP INDEX"
	KindAlterTable          Kind = "ALTER TABLE"
	KindInsertInto          Kind = "INSERT INTO"
	KindUpdate              Kind = "UPDATE"
	KindDeleteFrom          Kind = "DELETE FROM"
	KindTruncateTable       Kind = "TRUNCATE TABLE"
)

type rule struct {
	prefix string
	kind   Kind
}

// rules is evaluated first-match-wins. Ordering is load-bearing: a more
// specific prefix sharing a leading keyword must come before the general one
// (CREATE UNIQUE INDEX before CREATE INDEX, CREATE OR REPLACE VIEW before
// CREATE VIEW). Do not reorder or convert to a map.
var rules = []rule{
	{"CREATE OR REPLACE VIEW", KindCreateOrReplaceView},
	{"CREATE UNIQUE INDEX", KindCreateUniqueIndex},
	{"CREATE TABLE", KindCreateTable},
	{"CREATE VIEW", KindCreateView},
	{"CREATE INDEX", KindCreateIndex},
	{"CREATE PROCEDURE", KindCreateProcedure},
	{"CREATE FUNCTION", KindCreateFunction},
	{"DROP TABLE", KindDropTable},
	{"DROP VIEW", KindDropView},
	{"DROP INDEX", KindDropIndex},
	{"ALTER TABLE", KindAlterTable},
	{"INSERT INTO", KindInsertInto},
	{"UPDATE", KindUpdate},
	{"DELETE FROM", KindDeleteFrom},
	{"TRUNCATE TABLE", KindTruncateTable},
}

// introducers are the keywords that may open a statement at file level.
var introducers = []string{
	"CREATE", "INSERT", "UPDATE", "DELETE", "SELECT", "WITH",
	"SET", "DROP", "ALTER", "GRANT", "REVOKE", "TRUNCATE",
}

// OpensStatement reports whether a raw line starts a new statement: its
// trimmed, upper-cased form must begin with one of the introducer keywords
// followed by a non-identifier character or end of line.
func OpensStatement(line string) bool {
	upper := strings.ToUpper(strings.TrimSpace(line))
	for _, kw := range introducers {
		if !strings.HasPrefix(upper, kw) {
			continue
		}
		if len(upper) == len(kw) || !isIdentByte(upper[len(kw)]) {
			return true
		}
	}
	return false
}

// Classify matches a statement against the rule list and returns its kind and
// the target object name: the first token after the matched prefix, delimited
// by whitespace, comma or parenthesis. The object keeps its input casing.
// Unmatched statements return KindUnknown and an empty object.
func Classify(text string) (Kind, string) {
	flat := Flatten(text)
	upper := strings.ToUpper(flat)
	for _, r := range rules {
		if !hasPrefixWord(upper, r.prefix) {
			continue
		}
		return r.kind, firstToken(flat[len(r.prefix):])
	}
	return KindUnknown, ""
}

// ParseSetSchema recognizes a SET SCHEMA directive and returns the schema
// name with its input casing intact.
func ParseSetSchema(text string) (string, bool) {
	f := strings.Fields(Flatten(text))
	if len(f) < 3 || !strings.EqualFold(f[0], "SET") || !strings.EqualFold(f[1], "SCHEMA") {
		return "", false
	}
	name := firstToken(f[2])
	if name == "" {
		return "", false
	}
	return name, true
}

// Flatten strips per-line -- comments and collapses all whitespace runs into
// single spaces, preserving the original casing.
func Flatten(text string) string {
	var words []string
	for _, line := range strings.Split(text, "\n") {
		if i := strings.Index(line, "--"); i >= 0 {
			line = line[:i]
		}
		words = append(words, strings.Fields(line)...)
	}
	return strings.Join(words, " ")
}

// hasPrefixWord reports whether upper starts with prefix as whole words.
func hasPrefixWord(upper, prefix string) bool {
	if !strings.HasPrefix(upper, prefix) {
		return false
	}
	return len(upper) == len(prefix) || upper[len(prefix)] == ' '
}

// firstToken returns the leading identifier of s, stopping at whitespace,
// comma, parenthesis or semicolon.
func firstToken(s string) string {
	s = strings.TrimLeft(s, " ")
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', ',', '(', ')', ';':
			return s[:i]
		}
	}
	return s
}

func isIdentByte(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '$', c == '#':
		return true
	}
	return false
}
