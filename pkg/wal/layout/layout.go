package layout

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths of a node's persisted raft log, relative to its state directory.
const (
	DefaultMetadataFile = "raft-log/metadata/0"
	DefaultDataDir      = "raft-log/data"
)

// Layout describes where the metadata index and the paged data store live
// beneath a node's root directory.
type Layout struct {
	Root         string
	MetadataFile string
	DataDir      string
}

// SetupError reports a required input that could not be found.
type SetupError struct {
	Path   string
	Reason string
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Path)
}

func New(root string) *Layout {
	return &Layout{
		Root:         root,
		MetadataFile: DefaultMetadataFile,
		DataDir:      DefaultDataDir,
	}
}

func (l *Layout) MetadataPath() string {
	return l.resolve(l.MetadataFile)
}

func (l *Layout) DataPath() string {
	return l.resolve(l.DataDir)
}

func (l *Layout) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.Root, p)
}

// Validate checks that the root directory and the metadata file exist. The
// data directory is optional: pages may not have been written yet.
func (l *Layout) Validate() error {
	if l.Root == "" {
		return &SetupError{Path: "<empty>", Reason: "root directory not given"}
	}
	fi, err := os.Stat(l.Root)
	if err != nil {
		return &SetupError{Path: l.Root, Reason: "root directory not found"}
	}
	if !fi.IsDir() {
		return &SetupError{Path: l.Root, Reason: "root is not a directory"}
	}

	mp := l.MetadataPath()
	fi, err = os.Stat(mp)
	if err != nil {
		return &SetupError{Path: mp, Reason: "metadata file not found"}
	}
	if fi.IsDir() {
		return &SetupError{Path: mp, Reason: "metadata path is a directory"}
	}
	return nil
}
