package version

import (
	"runtime"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Contains(t, info.String(), "gitVersion:")
}

func TestVersionFlag(t *testing.T) {
	defer func() { v = boolFalse }()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--version"}))
	assert.True(t, Requested())

	require.NoError(t, fs.Parse([]string{"--version=all"}))
	assert.Equal(t, allInfo, v)

	require.NoError(t, fs.Parse([]string{"--version=false"}))
	assert.False(t, Requested())
}
