package tui

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/vvka-141/taxseed/pkg/taxseed"
)

// SummaryOptions controls how much of a GenerateResult is printed.
type SummaryOptions struct {
	// Styled renders with lipgloss colors. Use for interactive terminals only.
	Styled bool

	// Verbose adds drop counters and the script checksum.
	Verbose bool

	// ByState appends a per-state record table.
	ByState bool
}

// RenderSummary prints the completion report for a run that wrote a script.
//
// Unstyled output always starts with the three lines
//
//	Processing complete!
//	Total records: N
//	Output file: PATH
//
// preceded by a blank line, so scripts can scrape it.
func RenderSummary(w io.Writer, result taxseed.GenerateResult, opts SummaryOptions) {
	title := "Processing complete!"
	line := func(label string, value string) {
		fmt.Fprintf(w, "%s: %s\n", label, value)
	}
	if opts.Styled {
		title = TitleStyle.Render(SymbolCheck + " " + title)
		line = func(label string, value string) {
			fmt.Fprintf(w, "%s %s\n", LabelStyle.Render(label+":"), ValueStyle.Render(value))
		}
	}
	detail := line
	if opts.Styled {
		detail = func(label string, value string) {
			fmt.Fprintf(w, "%s %s\n", MutedStyle.Render(SymbolBullet+" "+label+":"), value)
		}
	}

	fmt.Fprintf(w, "\n%s\n", title)
	line("Total records", strconv.Itoa(result.Records))
	line("Output file", result.OutputPath)

	if opts.Verbose {
		detail("Skipped (rate <= 0)", strconv.Itoa(result.Skipped))
		invalid := strconv.Itoa(result.Invalid)
		if opts.Styled && result.Invalid > 0 {
			invalid = WarningStyle.Render(invalid)
		}
		detail("Invalid rows", invalid)
		detail("SHA-256", result.Checksum)
	}

	if opts.ByState {
		fmt.Fprintln(w)
		RenderStateTable(w, result.ByState)
	}
}

// RenderStateTable prints record counts per state, sorted by state code.
func RenderStateTable(w io.Writer, byState map[string]int) {
	if len(byState) == 0 {
		fmt.Fprintln(w, "(0 states)")
		return
	}

	states := make([]string, 0, len(byState))
	total := 0
	for state, n := range byState {
		states = append(states, state)
		total += n
	}
	sort.Strings(states)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"State", "Records"})
	for _, state := range states {
		t.AppendRow(table.Row{state, byState[state]})
	}
	t.AppendFooter(table.Row{"Total", total})
	t.Render()
}
