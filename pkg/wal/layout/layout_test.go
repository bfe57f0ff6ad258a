package layout

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	l := New("/var/lib/node-1")
	assert.Equal(t, "/var/lib/node-1/raft-log/metadata/0", l.MetadataPath())
	assert.Equal(t, "/var/lib/node-1/raft-log/data", l.DataPath())

	l.DataDir = "/mnt/pages"
	assert.Equal(t, "/mnt/pages", l.DataPath())
}

func TestValidate(t *testing.T) {
	root := t.TempDir()
	l := New(root)

	err := l.Validate()
	var se *SetupError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, l.MetadataPath(), se.Path)

	require.NoError(t, os.MkdirAll(filepath.Dir(l.MetadataPath()), 0o755))
	require.NoError(t, os.WriteFile(l.MetadataPath(), nil, 0o644))
	assert.NoError(t, l.Validate())
}

func TestValidateMissingRoot(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "absent"))
	err := l.Validate()

	var se *SetupError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, l.Root, se.Path)
	assert.Contains(t, err.Error(), "root directory not found")

	assert.Error(t, New("").Validate())
}
