package assembler

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sql-qualify/internal/model"
	"sql-qualify/internal/qualifier"
	"sql-qualify/internal/xref"
)

type captureSink struct {
	events []model.Event
	edits  []model.Edit
}

func (c *captureSink) Event(e model.Event) { c.events = append(c.events, e) }
func (c *captureSink) Edit(e model.Edit)   { c.edits = append(c.edits, e) }

func newTestAssembler(sink model.ReportSink) *Assembler {
	return New(
		qualifier.New("PRODDB", "DBO"),
		xref.NewScanner("PRODDB", []string{"STGDV", "STGQA", "DEV", "TEST", "UAT"}),
		sink,
		nil,
	)
}

func process(t *testing.T, a *Assembler, name, input string) *FileResult {
	t.Helper()
	res, err := a.ProcessFile(name, strings.NewReader(input))
	if err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	return res
}

func TestProcessFile_QualifiesAndInsertsSchemaSwitch(t *testing.T) {
	input := `-- deploy script

CREATE TABLE T (
  id INT
);
INSERT INTO T VALUES (1);
`
	want := `-- deploy script

SET SCHEMA DBO;
CREATE TABLE PRODDB.DBO.T (
  id INT
);
INSERT INTO PRODDB.DBO.T VALUES (1);
`
	sink := &captureSink{}
	res := process(t, newTestAssembler(sink), "deploy.sql", input)

	if diff := cmp.Diff(want, res.Output); diff != "" {
		t.Errorf("Output mismatch (-want +got):\n%s", diff)
	}
	if res.Statements != 2 || res.Rewritten != 2 || res.SchemaSets != 1 {
		t.Errorf("counters = %d statements, %d rewritten, %d schema sets; want 2, 2, 1",
			res.Statements, res.Rewritten, res.SchemaSets)
	}
	if len(sink.edits) != 2 {
		t.Errorf("expected 2 edits, got %d", len(sink.edits))
	}
}

func TestProcessFile_MissingTerminatorAppendedOnce(t *testing.T) {
	sink := &captureSink{}
	res := process(t, newTestAssembler(sink), "a.sql", "UPDATE T SET total = 0")

	want := "SET SCHEMA DBO;\nUPDATE PRODDB.DBO.T SET total = 0;\n"
	if res.Output != want {
		t.Errorf("Output = %q, want %q", res.Output, want)
	}
	if res.Completed != 1 {
		t.Errorf("Completed = %d, want 1", res.Completed)
	}
	if strings.Count(res.Output, ";") != 2 { // one for the switch, one appended
		t.Errorf("expected exactly one terminator appended, got output %q", res.Output)
	}
}

func TestProcessFile_SetSchemaDirective(t *testing.T) {
	input := `SET SCHEMA Fin;
CREATE TABLE T (id INT);
CREATE TABLE Fin.U (id INT);
`
	want := `SET SCHEMA Fin;
SET SCHEMA DBO;
CREATE TABLE PRODDB.DBO.T (id INT);
SET SCHEMA Fin;
CREATE TABLE PRODDB.Fin.U (id INT);
`
	sink := &captureSink{}
	res := process(t, newTestAssembler(sink), "b.sql", input)

	if diff := cmp.Diff(want, res.Output); diff != "" {
		t.Errorf("Output mismatch (-want +got):\n%s", diff)
	}
	if res.SchemaSets != 2 {
		t.Errorf("SchemaSets = %d, want 2", res.SchemaSets)
	}
}

func TestProcessFile_DirectiveSuppressesSwitch(t *testing.T) {
	input := `SET SCHEMA DBO;
CREATE TABLE T (id INT);
`
	want := `SET SCHEMA DBO;
CREATE TABLE PRODDB.DBO.T (id INT);
`
	sink := &captureSink{}
	res := process(t, newTestAssembler(sink), "c.sql", input)

	if diff := cmp.Diff(want, res.Output); diff != "" {
		t.Errorf("Output mismatch (-want +got):\n%s", diff)
	}
	if res.SchemaSets != 0 {
		t.Errorf("SchemaSets = %d, want 0", res.SchemaSets)
	}
}

func TestProcessFile_RerunIsFixedPoint(t *testing.T) {
	input := `-- deploy script
CREATE TABLE T (id INT);
INSERT INTO Fin.U VALUES (1)
`
	first := process(t, newTestAssembler(&captureSink{}), "d.sql", input)

	sink := &captureSink{}
	second := process(t, newTestAssembler(sink), "d.sql", first.Output)

	if diff := cmp.Diff(first.Output, second.Output); diff != "" {
		t.Errorf("second run changed the output (-first +second):\n%s", diff)
	}
	if len(sink.edits) != 0 {
		t.Errorf("second run produced %d edits, want 0", len(sink.edits))
	}
	if second.Rewritten != 0 || second.SchemaSets != 0 || second.Completed != 0 {
		t.Errorf("second run counters = %d rewritten, %d schema sets, %d completed; want all 0",
			second.Rewritten, second.SchemaSets, second.Completed)
	}
}

func TestProcessFile_SelectPassesThroughButScansRefs(t *testing.T) {
	input := "SELECT * FROM PRODDB.S.T JOIN STGDV.S.U ON T.id = U.id;\n"
	sink := &captureSink{}
	res := process(t, newTestAssembler(sink), "e.sql", input)

	if res.Output != input {
		t.Errorf("Output = %q, want pass-through %q", res.Output, input)
	}

	var warnings []model.Event
	for _, e := range sink.events {
		if e.Level == model.EventWarning {
			warnings = append(warnings, e)
		}
		if strings.Contains(e.Message, "PRODDB") {
			t.Errorf("unexpected event for the target database: %s", e.Message)
		}
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "STGDV") {
		t.Fatalf("expected exactly one STGDV warning, got %v", warnings)
	}
}

func TestProcessFile_SchemaStateNotCarriedAcrossFiles(t *testing.T) {
	a := newTestAssembler(&captureSink{})
	input := "CREATE TABLE T (id INT);\n"

	first := process(t, a, "one.sql", input)
	second := process(t, a, "two.sql", input)

	for _, res := range []*FileResult{first, second} {
		if res.SchemaSets != 1 {
			t.Errorf("%s: SchemaSets = %d, want 1 (state must reset per file)", res.File, res.SchemaSets)
		}
	}
}

func TestProcessFile_CommentsAndBlanksEchoed(t *testing.T) {
	input := `-- header

  -- indented note
no statement here
`
	sink := &captureSink{}
	res := process(t, newTestAssembler(sink), "f.sql", input)

	if res.Output != input {
		t.Errorf("Output = %q, want verbatim echo %q", res.Output, input)
	}
	if res.Statements != 0 {
		t.Errorf("Statements = %d, want 0", res.Statements)
	}
	if len(sink.events) != 0 {
		t.Errorf("expected no events, got %d", len(sink.events))
	}
}

func TestProcessFile_EventLineRanges(t *testing.T) {
	input := "-- lead-in\nCREATE TABLE T (\n  id INT\n);\n"
	sink := &captureSink{}
	process(t, newTestAssembler(sink), "g.sql", input)

	if len(sink.events) == 0 {
		t.Fatal("expected events")
	}
	for _, e := range sink.events {
		if e.StartLine != 2 || e.EndLine != 4 {
			t.Errorf("event lines = %d-%d, want 2-4", e.StartLine, e.EndLine)
		}
	}
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"SELECT 1;", true},
		{"SELECT 1", false},
		{"SELECT 1;   ", true},
		{"SELECT 1; -- done", true},
		{"SELECT 1 -- not yet;", false},
		{"CREATE TABLE T (\n  id INT\n);", true},
		{"CREATE TABLE T (\n  id INT\n)", false},
	}

	for _, tt := range tests {
		if got := isComplete(tt.text); got != tt.want {
			t.Errorf("isComplete(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
