package analyzer

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"walscope/pkg/wal/meta"
)

const (
	// DefaultMarker opens every serialized log entry payload.
	DefaultMarker     = `{"$type"`
	DefaultSampleSize = 100

	markerPreviewLen = 60
	fillerPreviewLen = 40
)

// Status tags shown per entry.
const (
	StatusBug     = "BUG!"
	StatusOK      = "OK"
	StatusUnknown = "?"
)

// PageReader is the view of the data store the analyzer needs.
type PageReader interface {
	Read(offset uint64, max int) ([]byte, error)
	PageSize() uint64
}

// Result is the classification of one entry.
type Result struct {
	meta.Entry `yaml:",inline"`

	DataPreview               string  `yaml:"data_preview" json:"data_preview"`
	StartsWithExpectedMarker  bool    `yaml:"starts_with_expected_marker" json:"starts_with_expected_marker"`
	LeadingFillerByteCount    int     `yaml:"leading_filler_byte_count" json:"leading_filler_byte_count"`
	CrossesPageBoundary       bool    `yaml:"crosses_page_boundary" json:"crosses_page_boundary"`
	HasAlignmentBug           bool    `yaml:"has_alignment_bug" json:"has_alignment_bug"`
	RemainingBytesInStartPage *uint64 `yaml:"remaining_bytes_in_start_page,omitempty" json:"remaining_bytes_in_start_page,omitempty"`
	Page                      uint64  `yaml:"page" json:"page"`
	PageBoundary              uint64  `yaml:"page_boundary" json:"page_boundary"`
}

// CorrectedOffset is where the payload actually starts once the leading
// filler is skipped.
func (r *Result) CorrectedOffset() uint64 {
	return r.Offset + uint64(r.LeadingFillerByteCount)
}

func (r *Result) Status() string {
	switch {
	case r.HasAlignmentBug:
		return StatusBug
	case r.StartsWithExpectedMarker:
		return StatusOK
	default:
		return StatusUnknown
	}
}

type Analyzer struct {
	store      PageReader
	marker     []byte
	sampleSize int
}

type Option func(*Analyzer)

func WithMarker(marker []byte) Option {
	return func(a *Analyzer) {
		if len(marker) > 0 {
			a.marker = marker
		}
	}
}

func WithSampleSize(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.sampleSize = n
		}
	}
}

func New(store PageReader, opts ...Option) *Analyzer {
	a := &Analyzer{
		store:      store,
		marker:     []byte(DefaultMarker),
		sampleSize: DefaultSampleSize,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze samples the head of the entry's payload and classifies it.
func (a *Analyzer) Analyze(e meta.Entry) (Result, error) {
	n := a.sampleSize
	if e.Length < uint64(n) {
		n = int(e.Length)
	}
	sample, err := a.store.Read(e.Offset, n)
	if err != nil {
		return Result{}, errors.Wrapf(err, "sample entry %d", e.Index)
	}
	if len(sample) < n {
		klog.V(2).Infof("entry %d: sampled %d of %d bytes at offset %d", e.Index, len(sample), n, e.Offset)
	}

	r := Classify(e, sample, a.marker, a.store.PageSize())
	if r.HasAlignmentBug {
		klog.V(1).Infof("entry %d: %d filler bytes at offset %d", e.Index, r.LeadingFillerByteCount, e.Offset)
	}
	return r, nil
}

// Classify derives the result for an entry from an already read sample.
func Classify(e meta.Entry, sample, marker []byte, pageSize uint64) Result {
	r := Result{Entry: e}

	r.StartsWithExpectedMarker = len(marker) > 0 && bytes.HasPrefix(sample, marker)
	r.LeadingFillerByteCount = countFiller(sample)
	r.HasAlignmentBug = r.LeadingFillerByteCount > 0 && !r.StartsWithExpectedMarker

	r.Page = e.Offset / pageSize
	r.PageBoundary = (r.Page + 1) * pageSize
	if e.Length > 0 {
		r.CrossesPageBoundary = r.Page != (e.Offset+e.Length-1)/pageSize
	}
	if remaining := r.PageBoundary - e.Offset; remaining < e.Length {
		r.RemainingBytesInStartPage = &remaining
	}

	r.DataPreview = preview(sample, r.StartsWithExpectedMarker, r.LeadingFillerByteCount)
	return r
}

func countFiller(sample []byte) int {
	for i, b := range sample {
		if b != 0 {
			return i
		}
	}
	return len(sample)
}

func preview(sample []byte, marked bool, filler int) string {
	if marked {
		return LossyText(head(sample, markerPreviewLen))
	}
	return fmt.Sprintf("<%d filler bytes> then: %s", filler, LossyText(head(sample[filler:], fillerPreviewLen)))
}

func head(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
