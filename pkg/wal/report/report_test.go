package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"walscope/pkg/wal/analyzer"
	"walscope/pkg/wal/layout"
	"walscope/pkg/wal/page"
	"walscope/pkg/wal/waltest"
)

const (
	goodPayload = `{"$type":"Confman.SetValue","key":"a","value":"1"}`
	nextPayload = `{"$type":"Confman.SetValue","key":"b","value":"2"}`
)

func init() {
	color.NoColor = true
}

// threeSlots writes a valid entry, an entry behind 8 filler bytes and an
// empty slot.
func threeSlots(t *testing.T) *layout.Layout {
	t.Helper()
	w, err := waltest.NewWriter(t.TempDir(), page.DefaultSize)
	require.NoError(t, err)

	_, err = w.Append(1, []byte(goodPayload))
	require.NoError(t, err)
	_, err = w.AppendPadded(1, []byte(nextPayload), 8)
	require.NoError(t, err)
	w.AppendEmptySlot()
	require.NoError(t, w.Flush())
	return w.Layout()
}

func build(t *testing.T, l *layout.Layout) *Report {
	t.Helper()
	store := page.NewStore(l.DataPath(), page.DefaultSize)
	r, err := Build(l, store, analyzer.New(store))
	require.NoError(t, err)
	return r
}

func TestBuildEndToEnd(t *testing.T) {
	r := build(t, threeSlots(t))

	require.Len(t, r.Results, 2)
	assert.Equal(t, 3, r.SlotCapacity)
	assert.Equal(t, 1, r.PageCount)

	first, second := r.Results[0], r.Results[1]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, analyzer.StatusOK, first.Status())
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, analyzer.StatusBug, second.Status())
	assert.Equal(t, 8, second.LeadingFillerByteCount)
	assert.Equal(t, second.Offset+8, second.CorrectedOffset())

	for _, res := range r.Results {
		assert.Equal(t, res.Offset+res.Length, res.EndOffset)
	}
	assert.Equal(t, 1, r.PaddingBugs)
	assert.Equal(t, "1 padding bug detected.", r.Summary())
}

func TestWriteText(t *testing.T) {
	r := build(t, threeSlots(t))

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	out := buf.String()

	assert.Contains(t, out, "Found 2 entries")
	assert.Contains(t, out, "PADDING BUG DETECTED in 1 entries:")
	assert.Contains(t, out, "\nEntry 1:\n")
	assert.NotContains(t, out, "\nEntry 0:\n")
	assert.Contains(t, out, "Page boundary:   16384")
	assert.Contains(t, out, "<8 filler bytes> then: {\"$type\"")
	assert.True(t, strings.HasSuffix(out, "1 padding bug detected.\n"))

	var rows []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, " OK ") || strings.Contains(line, " BUG! ") {
			rows = append(rows, line)
		}
	}
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], " OK ")
	assert.Contains(t, rows[1], " BUG! ")
	assert.Contains(t, rows[1], "...")
	assert.NotContains(t, rows[0], "...")
}

func TestWriteTextClean(t *testing.T) {
	w, err := waltest.NewWriter(t.TempDir(), 64)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.NoError(t, w.AlignPage(len(goodPayload)))
		_, err = w.Append(int64(i+1), []byte(goodPayload))
		require.NoError(t, err)
	}
	require.NoError(t, w.Flush())

	store := page.NewStore(w.Layout().DataPath(), 64)
	r, err := Build(w.Layout(), store, analyzer.New(store))
	require.NoError(t, err)
	assert.Equal(t, 0, r.PaddingBugs)
	assert.Equal(t, 4, r.PageCount)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Contains(t, buf.String(), "No padding bugs detected")
	assert.Contains(t, buf.String(), "0 padding bugs detected.")
}

func TestBuildMissingPages(t *testing.T) {
	w, err := waltest.NewWriter(t.TempDir(), 64)
	require.NoError(t, err)
	_, err = w.Append(1, []byte(goodPayload))
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	require.NoError(t, os.RemoveAll(w.Layout().DataPath()))

	r := build(t, w.Layout())
	require.Len(t, r.Results, 1)
	assert.Equal(t, analyzer.StatusUnknown, r.Results[0].Status())
	assert.Equal(t, 0, r.PageCount)
}

func TestBuildMissingMetadata(t *testing.T) {
	l := layout.New(t.TempDir())
	store := page.NewStore(l.DataPath(), page.DefaultSize)

	_, err := Build(l, store, analyzer.New(store))
	var se *layout.SetupError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, l.MetadataPath(), se.Path)
}

func TestSummaryPlural(t *testing.T) {
	assert.Equal(t, "0 padding bugs detected.", (&Report{}).Summary())
	assert.Equal(t, "2 padding bugs detected.", (&Report{PaddingBugs: 2}).Summary())
}

func TestWriteYAML(t *testing.T) {
	r := build(t, threeSlots(t))

	var buf bytes.Buffer
	require.NoError(t, r.WriteYAML(&buf))

	var doc struct {
		PaddingBugs int `yaml:"padding_bugs"`
		Entries     []struct {
			Index  int  `yaml:"index"`
			HasBug bool `yaml:"has_alignment_bug"`
			Filler int  `yaml:"leading_filler_byte_count"`
		} `yaml:"entries"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 1, doc.PaddingBugs)
	require.Len(t, doc.Entries, 2)
	assert.False(t, doc.Entries[0].HasBug)
	assert.True(t, doc.Entries[1].HasBug)
	assert.Equal(t, 8, doc.Entries[1].Filler)
}

func TestWriteJSON(t *testing.T) {
	r := build(t, threeSlots(t))

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))
	assert.Contains(t, buf.String(), `"has_alignment_bug": true`)
	assert.Contains(t, buf.String(), `"index": 1`)
}

func TestWriteMetrics(t *testing.T) {
	r := build(t, threeSlots(t))

	path := filepath.Join(t.TempDir(), "walscope.prom")
	require.NoError(t, r.WriteMetrics(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, "# TYPE walscope_padding_bugs gauge")
	assert.Contains(t, out, `walscope_padding_bugs{root="`+r.Root+`"} 1`)
	assert.Contains(t, out, `walscope_entries{root="`+r.Root+`"} 2`)
	assert.Contains(t, out, `walscope_filler_bytes{root="`+r.Root+`"} 8`)
}

func TestBuildPageGap(t *testing.T) {
	w, err := waltest.NewWriter(t.TempDir(), 64)
	require.NoError(t, err)
	_, err = w.Append(1, []byte(goodPayload))
	require.NoError(t, err)
	w.Skip(142)
	_, err = w.Append(2, []byte(goodPayload))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	store := page.NewStore(w.Layout().DataPath(), 64)
	r, err := Build(w.Layout(), store, analyzer.New(store))
	require.NoError(t, err)

	require.Len(t, r.PageIssues, 2)
	assert.Equal(t, "short page: 50 of 64 bytes", r.PageIssues[0].Reason)
	assert.Equal(t, "pages 1..2 missing", r.PageIssues[1].Reason)
	assert.Equal(t, 0, r.PaddingBugs)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Contains(t, buf.String(), "page 3: pages 1..2 missing")
}
