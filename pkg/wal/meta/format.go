package meta

// Metadata file format:
//  --- slot 0 ---   <- 64 bytes
//  --- slot 1 ---
//  ---  ...   ---
//  --- slot N ---   <- a trailing partial slot is ignored

// Slot format (little endian):
//   term:8 | timestamp ticks:8 | length:8 | offset:8 | reserved:32
//
// An all-zero term/length/offset slot has never been written.

const (
	SlotSize = 64

	termPos   = 0
	ticksPos  = 8
	lengthPos = 16
	offsetPos = 24

	// UnixEpochTicks is the number of 100ns ticks between 0001-01-01 and
	// 1970-01-01.
	UnixEpochTicks int64 = 621355968000000000
	ticksPerSecond int64 = 10000000
	nanosPerTick   int64 = 100
)
