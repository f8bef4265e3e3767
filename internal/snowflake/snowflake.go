// Package snowflake forges 63-bit numeric ids: a millisecond timestamp,
// a worker id and a per-millisecond sequence. Ids are unique per worker and
// roughly time-ordered, but deliberately not sequential.
package snowflake

import (
	"sync"
	"time"
)

// Epoch is the custom epoch (2021-01-01T00:00:00Z) in Unix milliseconds.
const Epoch int64 = 1609459200000

const (
	workerBits   = 10
	sequenceBits = 12

	maxWorker   = -1 ^ (-1 << workerBits)
	maxSequence = -1 ^ (-1 << sequenceBits)

	workerShift    = sequenceBits
	timestampShift = sequenceBits + workerBits
)

// Forger produces ids for a single worker. Safe for concurrent use.
type Forger struct {
	mu       sync.Mutex
	worker   int64
	sequence int64
	lastMS   int64
	nowMS    func() int64
}

// NewForger creates a Forger for the given worker id. Worker ids outside
// [0, 1023] are masked into range.
func NewForger(worker int64) *Forger {
	return &Forger{
		worker: worker & maxWorker,
		nowMS:  func() int64 { return time.Now().UnixMilli() },
	}
}

// Forge returns the next id. When the per-millisecond sequence overflows it
// busy-waits for the next millisecond.
func (f *Forger) Forge() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	ms := f.nowMS()
	if ms < f.lastMS {
		// Clock went backwards; hold the last observed timestamp so ids
		// keep increasing.
		ms = f.lastMS
	}

	if ms == f.lastMS {
		f.sequence = (f.sequence + 1) & maxSequence
		if f.sequence == 0 {
			for ms <= f.lastMS {
				ms = f.nowMS()
				if ms < f.lastMS {
					ms = f.lastMS + 1
				}
			}
		}
	} else {
		f.sequence = 0
	}
	f.lastMS = ms

	return (ms-Epoch)<<timestampShift | f.worker<<workerShift | f.sequence
}

// Timestamp extracts the creation time embedded in an id.
func Timestamp(id int64) time.Time {
	ms := (id >> timestampShift) + Epoch
	return time.UnixMilli(ms)
}
