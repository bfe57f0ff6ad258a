package report

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"

	"walscope/pkg/wal/analyzer"
	"walscope/pkg/wal/page"
)

// PageIssue is a structural problem with the page files themselves.
type PageIssue struct {
	Page   uint64 `yaml:"page" json:"page"`
	Reason string `yaml:"reason" json:"reason"`
}

func (i PageIssue) String() string {
	return fmt.Sprintf("page %d: %s", i.Page, i.Reason)
}

// AuditPages checks that page files are numbered 0,1,2,... without gaps,
// that every page but the last is exactly size bytes and that none is
// larger.
func AuditPages(pages []page.Info, size uint64) []PageIssue {
	var issues []PageIssue
	var next uint64
	for i, p := range pages {
		if p.Index != next {
			issues = append(issues, PageIssue{
				Page:   p.Index,
				Reason: fmt.Sprintf("pages %d..%d missing", next, p.Index-1),
			})
		}
		next = p.Index + 1

		last := i == len(pages)-1
		switch {
		case uint64(p.Size) > size:
			issues = append(issues, PageIssue{
				Page:   p.Index,
				Reason: fmt.Sprintf("%d bytes exceeds page size %d", p.Size, size),
			})
		case !last && uint64(p.Size) != size:
			issues = append(issues, PageIssue{
				Page:   p.Index,
				Reason: fmt.Sprintf("short page: %d of %d bytes", p.Size, size),
			})
		}
	}
	return issues
}

// WritePages renders the page listing with its audit result.
func WritePages(w io.Writer, pages []page.Info, size uint64) error {
	issues := AuditPages(pages, size)
	flagged := make(map[uint64]string, len(issues))
	for _, is := range issues {
		flagged[is.Page] = is.Reason
	}

	table := uitable.New()
	table.Separator = " "
	table.RightAlign(0)
	table.RightAlign(1)
	table.RightAlign(2)
	table.AddRow("Page", "Start", "Size", "Status")
	for _, p := range pages {
		status := colorStatus(analyzer.StatusOK)
		if reason, ok := flagged[p.Index]; ok {
			status = statusColors[analyzer.StatusBug].Sprint(reason)
		}
		table.AddRow(p.Index, p.Index*size, p.Size, status)
	}

	if _, err := fmt.Fprintf(w, "Page size: %d bytes, %d page files\n%s\n", size, len(pages), table); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d page issues found.\n", len(issues))
	return err
}
