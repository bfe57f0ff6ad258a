package page

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const DefaultSize = 16384

// Info describes one page file found on disk.
type Info struct {
	Index uint64
	Size  int64
}

// Store presents the page files of a data directory as one logical offset
// space. Page N covers offsets [N*size, (N+1)*size).
type Store struct {
	dir  string
	size uint64
}

func NewStore(dir string, size int) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	return &Store{dir: dir, size: uint64(size)}
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) PageSize() uint64 {
	return s.size
}

// Index returns the page holding the global offset.
func (s *Store) Index(offset uint64) uint64 {
	return offset / s.size
}

// Boundary is the first offset past the page holding offset.
func (s *Store) Boundary(offset uint64) uint64 {
	return (s.Index(offset) + 1) * s.size
}

// Read returns up to max bytes starting at offset without crossing into the
// next page. A page file that does not exist yet, or a read past the end of
// a partially written page, gives a short or empty result rather than an
// error.
func (s *Store) Read(offset uint64, max int) ([]byte, error) {
	idx := s.Index(offset)
	within := offset % s.size

	n := s.size - within
	if max < 0 {
		max = 0
	}
	if uint64(max) < n {
		n = uint64(max)
	}
	if n == 0 {
		return []byte{}, nil
	}

	path := filepath.Join(s.dir, FileName(idx))
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			klog.V(2).Infof("page %d not present at %s", idx, path)
			return []byte{}, nil
		}
		return nil, errors.Wrapf(err, "open page %d", idx)
	}
	defer func() {
		if err := f.Close(); err != nil {
			klog.Warningf("failed to close page %s: %v", path, err)
		}
	}()

	buf := make([]byte, n)
	read, err := f.ReadAt(buf, int64(within))
	if err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "read page %d at %d", idx, within)
	}
	return buf[:read], nil
}

// Pages lists the page files in the data directory ordered by index. A
// missing directory has no pages.
func (s *Store) Pages() ([]Info, error) {
	des, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "list data directory %s", s.dir)
	}

	var pages []Info
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		idx, ok := ParseFileName(de.Name())
		if !ok {
			continue
		}
		fi, err := de.Info()
		if err != nil {
			// removed between listing and stat
			continue
		}
		pages = append(pages, Info{Index: idx, Size: fi.Size()})
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Index < pages[j].Index
	})
	return pages, nil
}

func FileName(index uint64) string {
	return strconv.FormatUint(index, 10)
}

func ParseFileName(name string) (uint64, bool) {
	idx, err := strconv.ParseUint(name, 10, 64)
	if err != nil {
		return 0, false
	}
	// "007" is not a page name
	if FileName(idx) != name {
		return 0, false
	}
	return idx, true
}
