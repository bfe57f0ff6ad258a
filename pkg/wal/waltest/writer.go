// Package waltest writes raft-log directories for tests: a metadata index
// and the page files it points into.
package waltest

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"walscope/pkg/wal/layout"
	"walscope/pkg/wal/meta"
	"walscope/pkg/wal/page"
)

type Writer struct {
	layout   *layout.Layout
	pageSize uint64
	offset   uint64
	slots    []byte
	now      time.Time
}

func NewWriter(root string, pageSize int) (*Writer, error) {
	if pageSize <= 0 {
		pageSize = page.DefaultSize
	}
	l := layout.New(root)
	if err := os.MkdirAll(l.DataPath(), os.ModePerm); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(l.MetadataPath()), os.ModePerm); err != nil {
		return nil, err
	}
	return &Writer{
		layout:   l,
		pageSize: uint64(pageSize),
		now:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (w *Writer) Layout() *layout.Layout {
	return w.layout
}

// Offset is the next free position in the logical data space.
func (w *Writer) Offset() uint64 {
	return w.offset
}

// Append stores payload at the current offset and records it in the next
// slot.
func (w *Writer) Append(term int64, payload []byte) (meta.Record, error) {
	rec := meta.Record{
		Term:           term,
		TimestampTicks: w.tick(),
		Length:         uint64(len(payload)),
		Offset:         w.offset,
	}
	if err := w.write(payload); err != nil {
		return meta.Record{}, err
	}
	w.slots = append(w.slots, meta.Encode(rec)...)
	return rec, nil
}

// AppendPadded writes pad zero bytes ahead of payload but records the slot
// as if the payload began at the padding: the append-time misalignment this
// module exists to detect.
func (w *Writer) AppendPadded(term int64, payload []byte, pad int) (meta.Record, error) {
	buf := make([]byte, pad+len(payload))
	copy(buf[pad:], payload)
	return w.Append(term, buf)
}

// AppendEmptySlot reserves a slot that was never filled.
func (w *Writer) AppendEmptySlot() {
	w.slots = append(w.slots, make([]byte, meta.SlotSize)...)
}

// AlignPage pads the data space with zeros up to the next page boundary
// unless at least need bytes remain in the current page.
func (w *Writer) AlignPage(need int) error {
	free := w.pageSize - w.offset%w.pageSize
	if free == w.pageSize || free >= uint64(need) {
		return nil
	}
	return w.write(make([]byte, free))
}

// Skip advances the offset without writing, leaving a hole that reads back
// as zeros or as a missing page.
func (w *Writer) Skip(n uint64) {
	w.offset += n
}

// Flush writes the metadata index.
func (w *Writer) Flush() error {
	return os.WriteFile(w.layout.MetadataPath(), w.slots, 0o644)
}

func (w *Writer) tick() int64 {
	w.now = w.now.Add(time.Second)
	return meta.Ticks(w.now)
}

func (w *Writer) write(b []byte) error {
	for len(b) > 0 {
		idx := w.offset / w.pageSize
		within := w.offset % w.pageSize
		n := w.pageSize - within
		if uint64(len(b)) < n {
			n = uint64(len(b))
		}
		if err := w.writePage(idx, within, b[:n]); err != nil {
			return err
		}
		b = b[n:]
		w.offset += n
	}
	return nil
}

func (w *Writer) writePage(idx, at uint64, b []byte) error {
	path := filepath.Join(w.layout.DataPath(), page.FileName(idx))
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open page %d", idx)
	}
	if _, err := f.WriteAt(b, int64(at)); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "write page %d", idx)
	}
	return f.Close()
}
