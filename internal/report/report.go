// Package report renders the fixed-format data quality report from the
// tracker's final counts and writes it to a file and to stdout.
package report

import (
	"fmt"
	"log"
	"os"
	"strings"

	"fleximart/internal/quality"
)

const rule = 60

// Render produces the report text for the given snapshot, with one section
// per table in tables order. The layout is fixed; downstream consumers parse
// it, so field alignment and section order must not change.
func Render(snapshot map[string]quality.Counts, tables []string) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line(strings.Repeat("=", rule))
	line("DATA QUALITY REPORT")
	line(strings.Repeat("=", rule))
	line("")
	for _, table := range tables {
		c := snapshot[table]
		line("Table: %s", strings.ToUpper(table))
		line(strings.Repeat("-", rule))
		line("  Records Read:           %d", c.RecordsRead)
		line("  Duplicates Removed:     %d", c.DuplicatesRemoved)
		line("  Missing Values Handled: %d", c.MissingValuesHandled)
		line("  Records Loaded:         %d", c.RecordsLoaded)
		line("")
	}
	line(strings.Repeat("=", rule))
	line("END OF REPORT")
	b.WriteString(strings.Repeat("=", rule))
	return b.String()
}

// Write renders the report, writes it to path, and echoes it to stdout.
func Write(path string, snapshot map[string]quality.Counts, tables []string) error {
	text := Render(snapshot, tables)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	fmt.Println(text)
	log.Printf("report: written to %s", path)
	return nil
}
