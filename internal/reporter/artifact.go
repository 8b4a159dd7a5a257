package reporter

import (
	"fmt"
	"io"
	"strings"

	"sql-qualify/internal/assembler"
	"sql-qualify/internal/model"
)

const headerRule = "-- ============================================================"

// WriteArtifact concatenates rewritten file outputs into one combined
// deployment artifact, each framed by a header comment block and a trailing
// comment.
func WriteArtifact(w io.Writer, target string, results []*assembler.FileResult) error {
	for _, res := range results {
		header := strings.Join([]string{
			headerRule,
			fmt.Sprintf("-- Source: %s", res.File),
			fmt.Sprintf("-- Target: %s", target),
			fmt.Sprintf("-- Statements: %d (rewritten %d, terminators added %d, schema switches %d)",
				res.Statements, res.Rewritten, res.Completed, res.SchemaSets),
			headerRule,
			"",
		}, "\n")
		if _, err := io.WriteString(w, header); err != nil {
			return fmt.Errorf("write artifact: %w", err)
		}
		if _, err := io.WriteString(w, res.Output); err != nil {
			return fmt.Errorf("write artifact: %w", err)
		}
		if _, err := fmt.Fprintf(w, "-- End of %s\n\n", res.File); err != nil {
			return fmt.Errorf("write artifact: %w", err)
		}
	}
	return nil
}

// WriteSummary renders every event as one plain-text line, in processing
// order.
func WriteSummary(w io.Writer, events []model.Event) error {
	for _, e := range events {
		if _, err := fmt.Fprintf(w, "[%s] %s: %s\n", e.Level, e.Location(), e.Message); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}
