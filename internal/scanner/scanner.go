// Package scanner decides how a top-level input is read: as a single SQL
// script or as a newline-delimited list of script paths.
package scanner

import (
	"strings"

	"sql-qualify/internal/classifier"
)

// InputKind is the detected shape of a top-level input
type InputKind int

const (
	// InputSQLFile means the input is itself a SQL script
	InputSQLFile InputKind = iota
	// InputFileList means the input lists one script path per line
	InputFileList
)

// Detect inspects the first non-blank line: if its trimmed, upper-cased form
// starts with a statement introducer, a -- comment or a slash, the input is a
// SQL script; anything else makes it a file list. Empty input degrades to an
// (empty) SQL script.
func Detect(content string) InputKind {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "--") || strings.HasPrefix(trimmed, "/") {
			return InputSQLFile
		}
		if classifier.OpensStatement(trimmed) {
			return InputSQLFile
		}
		return InputFileList
	}
	return InputSQLFile
}

// ListPaths parses a file-list input in order, skipping blank lines and lines
// starting with '#'.
func ListPaths(content string) []string {
	var paths []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		paths = append(paths, trimmed)
	}
	return paths
}
