package reporter

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"sql-qualify/internal/model"
)

// ConsoleReporter renders events and before/after pairs to a terminal
type ConsoleReporter struct {
	out io.Writer
}

func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

func (r *ConsoleReporter) Report(events []model.Event, edits []model.Edit) error {
	if len(edits) > 0 {
		fmt.Fprintln(r.out, color.New(color.Bold).Sprint("Changed statements:"))
		fmt.Fprintln(r.out)
		for _, ed := range edits {
			fmt.Fprintf(r.out, "%s:\n", color.CyanString("%s:%d", ed.File, ed.StartLine))
			printBlock(r.out, "-", ed.Before, color.FgRed)
			printBlock(r.out, "+", ed.After, color.FgGreen)
			fmt.Fprintln(r.out)
		}
	}

	warnings, errors := 0, 0
	for _, e := range events {
		var levelColor *color.Color
		switch e.Level {
		case model.EventError:
			levelColor = color.New(color.FgRed, color.Bold)
			errors++
		case model.EventWarning:
			levelColor = color.New(color.FgYellow, color.Bold)
			warnings++
		default:
			levelColor = color.New(color.FgBlue)
		}
		fmt.Fprintf(r.out, "%s: [%s] %s\n", e.Location(), levelColor.Sprint(e.Level), e.Message)
	}

	if warnings == 0 && errors == 0 {
		fmt.Fprintf(r.out, "\n%s %d statements changed, no warnings.\n",
			color.GreenString("✔"), len(edits))
		return nil
	}
	fmt.Fprintf(r.out, "\n%s %d statements changed, %d warnings, %d errors.\n",
		color.YellowString("!"), len(edits), warnings, errors)
	return nil
}

func printBlock(w io.Writer, prefix, text string, attr color.Attribute) {
	c := color.New(attr)
	for _, line := range splitLines(text) {
		fmt.Fprintf(w, "  %s %s\n", c.Sprint(prefix), c.Sprint(line))
	}
}
