package report

import (
	"k8s.io/klog/v2"

	"walscope/pkg/wal/analyzer"
	"walscope/pkg/wal/layout"
	"walscope/pkg/wal/meta"
	"walscope/pkg/wal/page"
)

// Report is the outcome of one analysis run over a node directory.
type Report struct {
	Root         string            `yaml:"root" json:"root"`
	MetadataPath string            `yaml:"metadata_path" json:"metadata_path"`
	DataDir      string            `yaml:"data_dir" json:"data_dir"`
	PageSize     uint64            `yaml:"page_size" json:"page_size"`
	MetadataSize int               `yaml:"metadata_size" json:"metadata_size"`
	SlotCapacity int               `yaml:"slot_capacity" json:"slot_capacity"`
	Pages        []page.Info       `yaml:"-" json:"-"`
	PageCount    int               `yaml:"page_count" json:"page_count"`
	PageIssues   []PageIssue       `yaml:"page_issues,omitempty" json:"page_issues,omitempty"`
	PaddingBugs  int               `yaml:"padding_bugs" json:"padding_bugs"`
	Results      []analyzer.Result `yaml:"entries" json:"entries"`
}

// Build decodes every non-empty metadata slot and classifies its entry.
// A missing root or metadata file is a *layout.SetupError.
func Build(l *layout.Layout, store *page.Store, a *analyzer.Analyzer) (*Report, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	f, err := meta.Open(l.MetadataPath())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			klog.Warningf("failed to close %s: %v", f.Path(), err)
		}
	}()

	entries, err := f.Entries()
	if err != nil {
		return nil, err
	}
	pages, err := store.Pages()
	if err != nil {
		return nil, err
	}
	klog.V(1).Infof("decoded %d entries from %d slots, %d page files", len(entries), f.Capacity(), len(pages))

	r := &Report{
		Root:         l.Root,
		MetadataPath: f.Path(),
		DataDir:      store.Dir(),
		PageSize:     store.PageSize(),
		MetadataSize: f.Size(),
		SlotCapacity: f.Capacity(),
		Pages:        pages,
		PageCount:    len(pages),
		PageIssues:   AuditPages(pages, store.PageSize()),
		Results:      make([]analyzer.Result, 0, len(entries)),
	}
	for _, e := range entries {
		res, err := a.Analyze(e)
		if err != nil {
			return nil, err
		}
		if res.HasAlignmentBug {
			r.PaddingBugs++
		}
		r.Results = append(r.Results, res)
	}
	return r, nil
}

// Bugs returns the flagged entries in index order.
func (r *Report) Bugs() []analyzer.Result {
	var bugs []analyzer.Result
	for _, res := range r.Results {
		if res.HasAlignmentBug {
			bugs = append(bugs, res)
		}
	}
	return bugs
}

func (r *Report) CrossPageEntries() int {
	n := 0
	for _, res := range r.Results {
		if res.CrossesPageBoundary {
			n++
		}
	}
	return n
}

func (r *Report) FillerBytes() int {
	n := 0
	for _, res := range r.Results {
		if res.HasAlignmentBug {
			n += res.LeadingFillerByteCount
		}
	}
	return n
}
