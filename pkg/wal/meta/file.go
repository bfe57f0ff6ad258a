package meta

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"
	"k8s.io/klog/v2"
)

// File is a read-only view over a metadata index file.
type File struct {
	path string
	r    *mmap.ReaderAt
}

func Open(path string) (*File, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open metadata file %s", path)
	}
	return &File{path: path, r: r}, nil
}

func (f *File) Path() string {
	return f.path
}

// Size is the file length in bytes.
func (f *File) Size() int {
	return f.r.Len()
}

// Capacity is the number of complete slots the file holds.
func (f *File) Capacity() int {
	return f.r.Len() / SlotSize
}

// Entries decodes every non-empty slot in index order.
func (f *File) Entries() ([]Entry, error) {
	var entries []Entry
	slot := make([]byte, SlotSize)
	capacity := f.Capacity()
	for i := 0; i < capacity; i++ {
		if _, err := f.r.ReadAt(slot, int64(i*SlotSize)); err != nil {
			return nil, errors.Wrapf(err, "read slot %d of %s", i, f.path)
		}
		rec, ok := Decode(slot, 0)
		if !ok {
			continue
		}
		entries = append(entries, rec.Entry(i))
	}
	if tail := f.Size() - capacity*SlotSize; tail > 0 {
		klog.V(2).Infof("ignoring %d trailing bytes after slot %d", tail, capacity)
	}
	return entries, nil
}

func (f *File) Close() error {
	return f.r.Close()
}
