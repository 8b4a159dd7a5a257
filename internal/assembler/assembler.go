// Package assembler groups raw script lines into logical SQL statements and
// drives classification, qualification and cross-reference scanning over each
// one, producing rewritten text and structured events.
//
// Statement completeness is a line heuristic: a statement is complete when,
// after stripping a trailing -- comment and trailing whitespace, its text ends
// with a semicolon. Semicolons inside string literals or block comments are
// not understood; that is a known limitation, not a bug to fix here.
package assembler

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"sql-qualify/internal/classifier"
	"sql-qualify/internal/model"
	"sql-qualify/internal/qualifier"
	"sql-qualify/internal/xref"
)

// Assembler owns the per-file line state machine. It is strictly sequential:
// one statement is fully processed before the next line is read.
type Assembler struct {
	qualifier *qualifier.Qualifier
	xref      *xref.Scanner
	sink      model.ReportSink
	log       logrus.FieldLogger
}

func New(q *qualifier.Qualifier, x *xref.Scanner, sink model.ReportSink, log logrus.FieldLogger) *Assembler {
	return &Assembler{qualifier: q, xref: x, sink: sink, log: log}
}

// FileResult summarizes one processed file
type FileResult struct {
	File       string
	Output     string // rewritten file content
	Statements int    // complete statements processed
	Rewritten  int    // statements with an object reference rewritten
	Completed  int    // terminators appended
	SchemaSets int    // SET SCHEMA lines inserted
}

// ProcessFile consumes one file's lines and returns its rewritten content and
// counters. Schema state is owned here for exactly one file and never carried
// to the next.
func (a *Assembler) ProcessFile(name string, r io.Reader) (*FileResult, error) {
	state := &qualifier.SchemaState{}
	res := &FileResult{File: name}
	var out strings.Builder

	var cur *model.Statement // nil while idle
	lineNo := 0

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := sc.Text()

		if cur == nil {
			if !opensStatement(line) {
				// Blank lines, comments and anything else outside a
				// statement pass through verbatim.
				out.WriteString(line)
				out.WriteByte('\n')
				continue
			}
			cur = &model.Statement{StartLine: lineNo}
		}

		cur.Lines = append(cur.Lines, line)
		cur.EndLine = lineNo
		if isComplete(cur.Text()) {
			a.process(name, cur, state, res, &out)
			cur = nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	// A trailing statement without a terminator is still processed; the
	// missing-semicolon fix-up applies to it.
	if cur != nil && strings.TrimSpace(cur.Text()) != "" {
		a.process(name, cur, state, res, &out)
	}

	res.Output = out.String()
	if a.log != nil {
		a.log.WithFields(logrus.Fields{
			"file":       name,
			"statements": res.Statements,
			"rewritten":  res.Rewritten,
		}).Debug("file processed")
	}
	return res, nil
}

// opensStatement reports whether a line transitions the machine from idle to
// in-statement. Blank and comment lines never open a statement.
func opensStatement(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "--") {
		return false
	}
	return classifier.OpensStatement(trimmed)
}

func (a *Assembler) process(file string, stmt *model.Statement, state *qualifier.SchemaState, res *FileResult, out *strings.Builder) {
	original := stmt.Text()
	res.Statements++

	// Never hand an effectively empty statement to the classifier.
	if classifier.Flatten(original) == "" {
		out.WriteString(original)
		out.WriteByte('\n')
		return
	}

	// SET SCHEMA directives are special-cased ahead of classification: never
	// rewritten structurally, only terminator-completed, and they take over
	// the effective schema.
	if schema, ok := classifier.ParseSetSchema(original); ok {
		text, appended := ensureTerminated(original)
		if appended {
			a.event(model.EventInfo, file, stmt, "missing statement terminator, ';' appended")
			res.Completed++
		}
		state.Set(schema)
		a.emit(file, stmt, original, text)
		out.WriteString(text)
		out.WriteByte('\n')
		return
	}

	kind, object := classifier.Classify(original)
	if kind == classifier.KindUnknown || object == "" {
		// Unrecognized statements only get the terminator fix-up.
		text, appended := ensureTerminated(original)
		if appended {
			a.event(model.EventInfo, file, stmt, "missing statement terminator, ';' appended")
			res.Completed++
		}
		a.emit(file, stmt, original, text)
		out.WriteString(text)
		out.WriteByte('\n')
		a.scanRefs(file, stmt, original)
		return
	}

	qr := a.qualifier.Qualify(original, object, state)
	if qr.Ambiguous {
		a.event(model.EventWarning, file, stmt,
			fmt.Sprintf("identifier %q has more than two qualifiers, treated as an unqualified object name", object))
	}
	if qr.SetSchema != "" {
		out.WriteString(qr.SetSchema)
		out.WriteByte('\n')
		res.SchemaSets++
		a.event(model.EventInfo, file, stmt, fmt.Sprintf("schema switch inserted: %s", qr.SetSchema))
	} else if qr.AlreadyInEffect {
		a.event(model.EventInfo, file, stmt, fmt.Sprintf("schema %s already in effect, switch skipped", qr.Schema))
	}
	if qr.Rewritten {
		res.Rewritten++
		a.event(model.EventInfo, file, stmt,
			fmt.Sprintf("%s: qualified %s against %s.%s", kind, object, a.qualifier.Database, qr.Schema))
	}

	text, appended := ensureTerminated(qr.Text)
	if appended {
		a.event(model.EventInfo, file, stmt, "missing statement terminator, ';' appended")
		res.Completed++
	}

	after := text
	if qr.SetSchema != "" {
		after = qr.SetSchema + "\n" + text
	}
	a.emit(file, stmt, original, after)
	out.WriteString(text)
	out.WriteByte('\n')

	a.scanRefs(file, stmt, original)
}

// scanRefs reports cross-database FROM/JOIN targets. It inspects the original
// statement text and never feeds back into the rewrite.
func (a *Assembler) scanRefs(file string, stmt *model.Statement, text string) {
	for _, ref := range a.xref.Scan(text) {
		if ref.NonProd {
			a.event(model.EventWarning, file, stmt,
				fmt.Sprintf("non-production database %s referenced: %s", ref.Database, ref.Token))
		} else {
			a.event(model.EventInfo, file, stmt,
				fmt.Sprintf("cross-database reference to %s: %s", ref.Database, ref.Token))
		}
	}
}

func (a *Assembler) event(level model.EventLevel, file string, stmt *model.Statement, msg string) {
	a.sink.Event(model.Event{
		Level:     level,
		File:      file,
		StartLine: stmt.StartLine,
		EndLine:   stmt.EndLine,
		Message:   msg,
	})
}

// emit records a before/after pair when the statement actually changed.
func (a *Assembler) emit(file string, stmt *model.Statement, before, after string) {
	if before == after {
		return
	}
	a.sink.Edit(model.Edit{File: file, StartLine: stmt.StartLine, Before: before, After: after})
}

// isComplete applies the statement-completeness heuristic: the last line,
// with any trailing -- comment and whitespace stripped, ends with ';'.
func isComplete(text string) bool {
	s := strings.TrimRight(text, " \t\r\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.Index(s, "--"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, " \t")
	return strings.HasSuffix(s, ";")
}

// ensureTerminated appends exactly one ';' when the statement lacks a
// terminator. It runs after all other edits.
func ensureTerminated(text string) (string, bool) {
	if isComplete(text) {
		return text, false
	}
	return text + ";", true
}
