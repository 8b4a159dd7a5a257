// Package qualifier rewrites SQL object references into fully
// database- and schema-qualified form against a configured target.
// All database and schema comparisons are case-insensitive; rewritten
// qualifiers use the configured casing verbatim while the original
// object casing is preserved.
package qualifier

import (
	"strings"
)

// Name is a dotted identifier split into its qualifier parts
type Name struct {
	Database string
	Schema   string
	Object   string
}

// Split breaks a dotted identifier into database, schema and object parts by
// counting separators: two dots yield all three parts, one dot yields
// schema+object, none yields object only. Tokens with more than two dots are
// unmodeled; they degrade to an object-only name holding the whole token and
// ok reports false so the caller can flag the ambiguity.
func Split(token string) (Name, bool) {
	token = strings.TrimSpace(token)
	parts := strings.Split(token, ".")
	switch len(parts) {
	case 1:
		return Name{Object: parts[0]}, true
	case 2:
		return Name{Schema: parts[0], Object: parts[1]}, true
	case 3:
		return Name{Database: parts[0], Schema: parts[1], Object: parts[2]}, true
	default:
		return Name{Object: token}, false
	}
}

// SchemaState tracks the last schema put into effect within one file.
// It must not be carried across files.
type SchemaState struct {
	LastSet string
}

// InEffect reports whether schema is already the effective schema.
func (s *SchemaState) InEffect(schema string) bool {
	return s.LastSet != "" && strings.EqualFold(s.LastSet, schema)
}

// Set records schema as the one in effect, preserving its casing.
func (s *SchemaState) Set(schema string) {
	s.LastSet = schema
}

// Qualifier rewrites object references against a target database and schema
type Qualifier struct {
	Database string
	Schema   string
}

func New(database, schema string) *Qualifier {
	return &Qualifier{Database: database, Schema: schema}
}

// Result describes the outcome of qualifying one statement
type Result struct {
	Text            string // statement text after any object rewrite
	SetSchema       string // schema-switch statement to insert ahead, empty if suppressed
	Schema          string // schema decided for this statement
	Rewritten       bool   // an object reference was replaced
	AlreadyInEffect bool   // schema switch suppressed, schema was in effect
	Ambiguous       bool   // token had more than two dot separators
}

// Qualify applies the qualification decision for one statement. token is the
// object name the classifier extracted from text. state is updated with the
// schema put into effect; this is the only place the state is mutated for a
// classified statement.
func (q *Qualifier) Qualify(text, token string, state *SchemaState) Result {
	name, ok := Split(token)
	res := Result{Text: text, Ambiguous: !ok}

	switch {
	case name.Database != "":
		// Fully qualified already, leave the reference alone.
		res.Schema = name.Schema
	case name.Schema != "":
		res.Schema = name.Schema
		full := q.Database + "." + name.Schema + "." + name.Object
		res.Text = ReplaceWholeWord(text, token, full)
		res.Rewritten = res.Text != text
	default:
		res.Schema = q.Schema
		full := q.Database + "." + q.Schema + "." + name.Object
		res.Text = ReplaceWholeWord(text, token, full)
		res.Rewritten = res.Text != text
	}

	// A degenerate token like "DB..T" yields an empty schema part; emitting
	// a switch for it would produce invalid SQL.
	if res.Schema == "" {
		return res
	}

	if state.InEffect(res.Schema) {
		res.AlreadyInEffect = true
	} else {
		res.SetSchema = "SET SCHEMA " + res.Schema + ";"
	}
	state.Set(res.Schema)

	return res
}

// isIdentByte reports whether c can be part of an identifier token.
// The dot is included so a match never splits a longer qualified name.
func isIdentByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '$', c == '#', c == '.':
		return true
	}
	return false
}

// ReplaceWholeWord substitutes every whole-word occurrence of token in text
// with replacement. Matching is case-insensitive; a candidate is rejected when
// an adjacent character would extend it into a longer identifier.
func ReplaceWholeWord(text, token, replacement string) string {
	if token == "" {
		return text
	}
	upper := strings.ToUpper(text)
	upTok := strings.ToUpper(token)

	var b strings.Builder
	i := 0
	for i < len(text) {
		j := strings.Index(upper[i:], upTok)
		if j < 0 {
			b.WriteString(text[i:])
			break
		}
		j += i
		end := j + len(token)
		if (j > 0 && isIdentByte(text[j-1])) || (end < len(text) && isIdentByte(text[end])) {
			b.WriteString(text[i:end])
			i = end
			continue
		}
		b.WriteString(text[i:j])
		b.WriteString(replacement)
		i = end
	}
	return b.String()
}
