// Package observability provides formatted CLI output for pipeline runs.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/linkshelf/internal/types"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

// Printer handles formatted output for run reports and verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSummary outputs the final run report: one line of counts plus one line
// per failed URL.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSummary(result types.ProcessResult) {
	fmt.Fprintf(p.out, "Processed %d URLs: %d saved, %d skipped, %d errors\n",
		result.Total, result.Saved, result.Skipped, len(result.Errors))
	for _, err := range result.Errors {
		fmt.Fprintf(p.out, "  Error: %s - %s\n", err.URL, err.Message)
	}
}

// PrintRunStart announces a verbose run: how many URLs will be classified and
// with which model.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRunStart(urlCount int, model string) {
	fmt.Fprintf(p.out, "Classifying %d URLs with %s\n", urlCount, model)
}

// PrintProgress outputs one per-URL completion line for verbose mode.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(runID, status, url, message string) {
	if len(runID) > 8 {
		runID = runID[:8]
	}
	if message != "" {
		fmt.Fprintf(p.out, "[%s] %s: %s (%s)\n", runID, status, url, message)
		return
	}
	fmt.Fprintf(p.out, "[%s] %s: %s\n", runID, status, url)
}

// PrintRecord outputs a boxed view of a saved link record for verbose mode.
func (p *Printer) PrintRecord(record *types.Record) {
	if record == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URL:      %s\n", record.URL))
	sb.WriteString(fmt.Sprintf("Domain:   %s\n", record.Domain))
	sb.WriteString(fmt.Sprintf("Category: %s\n", record.Category))
	if record.Title != nil {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", *record.Title))
	}
	if record.Description != nil {
		sb.WriteString(fmt.Sprintf("Desc:     %s\n", *record.Description))
	}
	if record.Context != nil {
		sb.WriteString(fmt.Sprintf("Context:  %s\n", *record.Context))
	}

	p.printBox(fmt.Sprintf("Saved link #%d", record.ID), strings.TrimRight(sb.String(), "\n"))
}

// PrintRecordList outputs stored records, one line each.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRecordList(records []types.Record) {
	if len(records) == 0 {
		fmt.Fprintln(p.out, "No links stored.")
		return
	}
	for _, r := range records {
		title := types.StringValue(r.Title)
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(p.out, "%4d  %-13s  %s\n      %s\n", r.ID, r.Category, title, r.URL)
	}
	fmt.Fprintf(p.out, "%d links total\n", len(records))
}
