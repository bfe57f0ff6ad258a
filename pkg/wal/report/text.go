package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"walscope/pkg/wal/analyzer"
)

const (
	ruleWidth         = 80
	tablePreviewLen   = 50
	detailsPreviewLen = 80
)

var (
	heavyRule = strings.Repeat("=", ruleWidth)
	lightRule = strings.Repeat("-", ruleWidth)

	statusColors = map[string]*color.Color{
		analyzer.StatusBug:     color.New(color.FgRed),
		analyzer.StatusOK:      color.New(color.FgGreen),
		analyzer.StatusUnknown: color.New(color.FgYellow),
	}
)

// Summary is the closing line, e.g. "1 padding bug detected.".
func (r *Report) Summary() string {
	noun := "bugs"
	if r.PaddingBugs == 1 {
		noun = "bug"
	}
	return fmt.Sprintf("%d padding %s detected.", r.PaddingBugs, noun)
}

// WriteText renders the entry table followed by a block per flagged entry.
func (r *Report) WriteText(w io.Writer) error {
	b := &strings.Builder{}

	fmt.Fprintf(b, "Analyzing WAL at: %s\n", r.Root)
	fmt.Fprintf(b, "Page size: %d bytes\n", r.PageSize)
	fmt.Fprintln(b, heavyRule)
	fmt.Fprintf(b, "Metadata file size: %d bytes (%d possible entries)\n", r.MetadataSize, r.SlotCapacity)
	fmt.Fprintf(b, "Data pages: %d files in %s\n", r.PageCount, r.DataDir)
	for _, is := range r.PageIssues {
		fmt.Fprintf(b, "  %s %s\n", colorStatus(analyzer.StatusUnknown), is)
	}
	fmt.Fprintln(b)
	fmt.Fprintf(b, "Found %d entries\n", len(r.Results))
	fmt.Fprintln(b)

	fmt.Fprintln(b, "Entry Details:")
	fmt.Fprintln(b, lightRule)
	fmt.Fprintln(b, r.table())
	fmt.Fprintln(b)
	fmt.Fprintln(b, heavyRule)

	bugs := r.Bugs()
	if len(bugs) > 0 {
		fmt.Fprintf(b, "\n%s in %d entries:\n", color.New(color.FgRed, color.Bold).Sprint("PADDING BUG DETECTED"), len(bugs))
		fmt.Fprintln(b, lightRule)
		for i := range bugs {
			writeDetails(b, &bugs[i])
		}
	} else {
		fmt.Fprintf(b, "\nNo padding bugs detected - all entries start with the expected marker\n")
	}
	fmt.Fprintln(b)
	fmt.Fprintln(b, r.Summary())

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Report) table() *uitable.Table {
	table := uitable.New()
	table.Separator = " "
	table.MaxColWidth = 80
	for col := 0; col < 5; col++ {
		table.RightAlign(col)
	}
	table.AddRow("Idx", "Offset", "Length", "End", "Page", "Status", "Preview")
	for i := range r.Results {
		res := &r.Results[i]
		table.AddRow(res.Index, res.Offset, res.Length, res.EndOffset, res.Page,
			colorStatus(res.Status()),
			analyzer.Truncate(res.DataPreview, tablePreviewLen, "..."))
	}
	return table
}

func colorStatus(status string) string {
	if c, ok := statusColors[status]; ok {
		return c.Sprint(status)
	}
	return status
}

func writeDetails(b *strings.Builder, res *analyzer.Result) {
	fmt.Fprintf(b, "\nEntry %d:\n", res.Index)
	fmt.Fprintf(b, "  Metadata offset: %d (0x%x)\n", res.Offset, res.Offset)
	fmt.Fprintf(b, "  Metadata length: %d (includes %d bytes of padding)\n", res.Length, res.LeadingFillerByteCount)
	fmt.Fprintf(b, "  Actual data at:  %d (0x%x)\n", res.CorrectedOffset(), res.CorrectedOffset())
	fmt.Fprintf(b, "  Page boundary:   %d\n", res.PageBoundary)
	if res.RemainingBytesInStartPage != nil {
		fmt.Fprintf(b, "  Left in page:    %d bytes\n", *res.RemainingBytesInStartPage)
	}
	fmt.Fprintf(b, "  Leading filler:  %d bytes\n", res.LeadingFillerByteCount)
	fmt.Fprintf(b, "  Data preview:    %s\n", analyzer.Truncate(res.DataPreview, detailsPreviewLen, ""))
}
