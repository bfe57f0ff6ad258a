package meta

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUnixEpoch(t *testing.T) {
	buf := Encode(Record{Term: 5, TimestampTicks: UnixEpochTicks, Length: 10, Offset: 7})

	rec, ok := Decode(buf, 0)
	require.True(t, ok)
	assert.Equal(t, int64(5), rec.Term)

	ts := rec.Timestamp()
	require.NotNil(t, ts)
	assert.True(t, ts.Equal(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDecodeUnknownTimestamp(t *testing.T) {
	rec, ok := Decode(Encode(Record{Term: 1, Length: 3}), 0)
	require.True(t, ok)
	assert.Nil(t, rec.Timestamp())

	rec, ok = Decode(Encode(Record{Term: 1, TimestampTicks: -42, Length: 3}), 0)
	require.True(t, ok)
	assert.Nil(t, rec.Timestamp())
}

func TestTicksRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 30, 15, 123456700, time.UTC)
	rec := Record{Term: 1, TimestampTicks: Ticks(now), Length: 1}
	assert.True(t, rec.Timestamp().Equal(now))
}

func TestDecodeEmptyAndTruncated(t *testing.T) {
	buf := make([]byte, SlotSize*2+10)
	copy(buf[SlotSize:], Encode(Record{Term: 2, Length: 8, Offset: 100}))

	_, ok := Decode(buf, 0)
	assert.False(t, ok, "all-zero slot must be skipped")

	rec, ok := Decode(buf, 1)
	require.True(t, ok)
	assert.Equal(t, uint64(100), rec.Offset)

	_, ok = Decode(buf, 2)
	assert.False(t, ok, "partial slot")
	_, ok = Decode(buf, -1)
	assert.False(t, ok)
}

func TestDecodeIgnoresReservedBytes(t *testing.T) {
	buf := Encode(Record{Term: 3, Length: 1, Offset: 2})
	for i := 32; i < SlotSize; i++ {
		buf[i] = 0xff
	}
	rec, ok := Decode(buf, 0)
	require.True(t, ok)
	assert.Equal(t, Record{Term: 3, Length: 1, Offset: 2}, rec)

	empty := make([]byte, SlotSize)
	empty[40] = 1
	_, ok = Decode(empty, 0)
	assert.False(t, ok)
}

func TestEntryEndOffset(t *testing.T) {
	e := Record{Term: 1, Length: 90, Offset: 16380}.Entry(4)
	assert.Equal(t, 4, e.Index)
	assert.Equal(t, uint64(16470), e.EndOffset)
}

func TestFileEntries(t *testing.T) {
	var buf []byte
	buf = append(buf, Encode(Record{Term: 1, Length: 10, Offset: 0})...)
	buf = append(buf, make([]byte, SlotSize)...)
	buf = append(buf, Encode(Record{Term: 1, Length: 20, Offset: 10})...)
	buf = append(buf, Encode(Record{Term: 2, Length: 5, Offset: 30})...)
	buf = append(buf, 1, 2, 3)

	path := filepath.Join(t.TempDir(), "0")
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, len(buf), f.Size())
	assert.Equal(t, 4, f.Capacity())

	entries, err := f.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	want := []int{0, 2, 3}
	for i, e := range entries {
		assert.Equal(t, want[i], e.Index)
		assert.Equal(t, e.Offset+e.Length, e.EndOffset)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func BenchmarkDecode(b *testing.B) {
	var buf []byte
	for i := 0; i < 1024; i++ {
		buf = append(buf, Encode(Record{Term: 1, Length: 64, Offset: uint64(i * 64)})...)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for s := 0; s < 1024; s++ {
			Decode(buf, s)
		}
	}
}
