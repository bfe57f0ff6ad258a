package meta

import (
	"encoding/binary"
	"time"
)

// Record is one decoded metadata slot.
type Record struct {
	Term           int64
	TimestampTicks int64
	Length         uint64
	Offset         uint64
}

func (r Record) IsEmpty() bool {
	return r.Term == 0 && r.Length == 0 && r.Offset == 0
}

// Timestamp converts the tick count into an instant. Non-positive tick
// counts are unknown and yield nil.
func (r Record) Timestamp() *time.Time {
	if r.TimestampTicks <= 0 {
		return nil
	}
	unix := r.TimestampTicks - UnixEpochTicks
	ts := time.Unix(unix/ticksPerSecond, (unix%ticksPerSecond)*nanosPerTick).UTC()
	return &ts
}

// Entry is the log entry a record describes, located at slot Index.
type Entry struct {
	Index     int        `yaml:"index" json:"index"`
	Term      int64      `yaml:"term" json:"term"`
	Timestamp *time.Time `yaml:"timestamp,omitempty" json:"timestamp,omitempty"`
	Offset    uint64     `yaml:"offset" json:"offset"`
	Length    uint64     `yaml:"length" json:"length"`
	EndOffset uint64     `yaml:"end_offset" json:"end_offset"`
}

func (r Record) Entry(index int) Entry {
	return Entry{
		Index:     index,
		Term:      r.Term,
		Timestamp: r.Timestamp(),
		Offset:    r.Offset,
		Length:    r.Length,
		EndOffset: r.Offset + r.Length,
	}
}

// Decode reads the slot at index from buf. It returns false when fewer than
// SlotSize bytes remain or the slot is empty.
func Decode(buf []byte, index int) (Record, bool) {
	if index < 0 {
		return Record{}, false
	}
	pos := index * SlotSize
	if pos+SlotSize > len(buf) {
		return Record{}, false
	}
	slot := buf[pos : pos+SlotSize]

	r := Record{
		Term:           int64(binary.LittleEndian.Uint64(slot[termPos:])),
		TimestampTicks: int64(binary.LittleEndian.Uint64(slot[ticksPos:])),
		Length:         binary.LittleEndian.Uint64(slot[lengthPos:]),
		Offset:         binary.LittleEndian.Uint64(slot[offsetPos:]),
	}
	if r.IsEmpty() {
		return Record{}, false
	}
	return r, true
}

// Encode lays r out as a full slot with zeroed reserved bytes.
func Encode(r Record) []byte {
	slot := make([]byte, SlotSize)
	binary.LittleEndian.PutUint64(slot[termPos:], uint64(r.Term))
	binary.LittleEndian.PutUint64(slot[ticksPos:], uint64(r.TimestampTicks))
	binary.LittleEndian.PutUint64(slot[lengthPos:], r.Length)
	binary.LittleEndian.PutUint64(slot[offsetPos:], r.Offset)
	return slot
}

// Ticks converts t back into the tick count stored in a slot.
func Ticks(t time.Time) int64 {
	return t.Unix()*ticksPerSecond + int64(t.Nanosecond())/nanosPerTick + UnixEpochTicks
}
